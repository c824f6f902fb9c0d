package dbx

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrijs2005/imprint/internal/common"
)

// Postgres SQLSTATE codes checked by repositories.
const (
	uniqueViolation           = "23505"
	foreignKeyViolation       = "23503"
	invalidTextRepresentation = "22P02"
)

// IsUniqueViolation reports whether err carries a Postgres unique_violation.
// When constraint is non-empty the violated constraint name must match too.
func IsUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	if pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// IsForeignKeyViolation reports whether err carries a Postgres foreign_key_violation.
func IsForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}

// IsInvalidTextRepresentation reports whether Postgres rejected a parameter
// it could not parse, such as a malformed uuid.
func IsInvalidTextRepresentation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresentation
}

// WrapErr wraps a driver error for callers above the repository layer. A
// malformed key cannot match any row, so it is reported as
// common.ErrorNotFound.
func WrapErr(err error) error {
	if IsInvalidTextRepresentation(err) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}
