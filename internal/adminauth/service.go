package adminauth

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/snackshack/storefront-backend/pkg/auth"
	"github.com/snackshack/storefront-backend/pkg/config"
	"github.com/snackshack/storefront-backend/pkg/db/models"
	pkgerrors "github.com/snackshack/storefront-backend/pkg/errors"
	"github.com/snackshack/storefront-backend/pkg/logger"
	"github.com/snackshack/storefront-backend/pkg/security"
)

// LoginResult carries the bearer token for a back-office session.
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
}

// Service authenticates back-office users.
type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type service struct {
	db     *gorm.DB
	jwtCfg config.JWTConfig
	log    *logger.Logger
	now    func() time.Time
}

// NewService builds the admin auth service.
func NewService(gdb *gorm.DB, jwtCfg config.JWTConfig, log *logger.Logger) (Service, error) {
	if gdb == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "db handle required")
	}
	if log == nil {
		log = logger.Nop()
	}
	return &service{db: gdb, jwtCfg: jwtCfg, log: log, now: time.Now}, nil
}

// Login verifies credentials and mints a bearer token. Unknown emails and
// wrong passwords return the same error so the endpoint does not leak which
// accounts exist.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password required")
	}

	var admin models.AdminUser
	err := s.db.WithContext(ctx).First(&admin, "email = ?", email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load admin user")
	}

	ok, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}

	now := s.now()
	token, err := auth.MintAdminToken(s.jwtCfg, now, auth.AdminTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint admin token")
	}

	s.log.Info(s.log.WithField(ctx, "admin_id", admin.ID.String()), "admin login")
	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(s.jwtCfg.Expiration()),
		Email:     admin.Email,
		Name:      admin.Name,
	}, nil
}
