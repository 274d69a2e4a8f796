package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	if got := MetadataFor(CodeValidation).HTTPStatus; got != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation, got %d", got)
	}
	if got := MetadataFor(CodeDependency).HTTPStatus; got != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for dependency, got %d", got)
	}
	if !MetadataFor(CodeDependency).Retryable {
		t.Fatal("dependency errors should be retryable")
	}
	if got := MetadataFor(Code("UNKNOWN")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("unknown codes should map to 500, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("boom")
	err := Wrap(CodeDependency, cause, "calling provider")

	if !stdErrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable via errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
}

func TestAs(t *testing.T) {
	t.Parallel()

	typed := New(CodeNotFound, "missing")
	wrapped := fmt.Errorf("outer: %w", typed)

	if got := As(wrapped); got == nil || got.Code() != CodeNotFound {
		t.Fatalf("expected typed error through wrapping, got %v", got)
	}
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untyped error")
	}
}

func TestDumpChain(t *testing.T) {
	t.Parallel()

	cause := stdErrors.New("connection reset")
	err := Wrap(CodeDependency, cause, "insert order")

	d := Dump(err)
	if d.Code != CodeDependency {
		t.Fatalf("unexpected code %s", d.Code)
	}
	if len(d.Chain) != 2 {
		t.Fatalf("expected chain of 2, got %d", len(d.Chain))
	}
}
