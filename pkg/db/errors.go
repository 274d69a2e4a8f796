package db

import "strings"

// IsUniqueViolation reports whether the provided error references a unique
// constraint violation. When constraintHint is provided, the helper looks for
// that text in the error message so callers can distinguish which constraint
// fired (works for both Postgres constraint names and sqlite's
// "UNIQUE constraint failed: table.column" messages).
func IsUniqueViolation(err error, constraintHint string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintHint != "" {
		return strings.Contains(msg, constraintHint) &&
			(strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed"))
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
