package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/snackshack/storefront-backend/pkg/config"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "storefront-test",
		ExpirationMinutes: 60,
	}
}

func TestMintAndParseAdminToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	adminID := uuid.New()

	token, err := MintAdminToken(cfg, time.Now(), AdminTokenPayload{
		AdminID: adminID,
		Email:   "admin@example.com",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	claims, err := ParseAdminToken(cfg, token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.AdminID != adminID {
		t.Fatalf("expected admin id %s, got %s", adminID, claims.AdminID)
	}
	if claims.Email != "admin@example.com" {
		t.Fatalf("unexpected email %q", claims.Email)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
}

func TestParseAdminTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	issued := time.Now().Add(-2 * time.Hour)

	token, err := MintAdminToken(cfg, issued, AdminTokenPayload{
		AdminID: uuid.New(),
		Email:   "admin@example.com",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	if _, err := ParseAdminToken(cfg, token); err == nil {
		t.Fatal("expected expired token to be rejected")
	}
}

func TestParseAdminTokenRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAdminToken(cfg, time.Now(), AdminTokenPayload{
		AdminID: uuid.New(),
		Email:   "admin@example.com",
	})
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "different-secret"
	if _, err := ParseAdminToken(other, token); err == nil {
		t.Fatal("expected wrong-secret token to be rejected")
	}
}

func TestMintAdminTokenValidation(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	if _, err := MintAdminToken(cfg, time.Now(), AdminTokenPayload{}); err == nil {
		t.Fatal("expected error for missing admin id")
	}

	noSecret := cfg
	noSecret.Secret = ""
	if _, err := MintAdminToken(noSecret, time.Now(), AdminTokenPayload{AdminID: uuid.New()}); err == nil {
		t.Fatal("expected error for missing secret")
	}
}
