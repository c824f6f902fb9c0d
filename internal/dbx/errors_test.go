package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/imprint/internal/common"
)

func TestIsUniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "board_managers_user_board_key"}

	assert.True(t, IsUniqueViolation(pgErr, ""))
	assert.True(t, IsUniqueViolation(fmt.Errorf("db error: %w", pgErr), "board_managers_user_board_key"))
	assert.False(t, IsUniqueViolation(pgErr, "users_email_key"))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, IsUniqueViolation(errors.New("plain"), ""))
}

func TestIsForeignKeyViolation(t *testing.T) {
	assert.True(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, IsForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsForeignKeyViolation(nil))
}

func TestWrapErr(t *testing.T) {
	badID := &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`}
	assert.True(t, IsInvalidTextRepresentation(fmt.Errorf("query: %w", badID)))
	assert.False(t, IsInvalidTextRepresentation(&pgconn.PgError{Code: "23505"}))
	assert.ErrorIs(t, WrapErr(badID), common.ErrorNotFound)

	down := errors.New("db down")
	err := WrapErr(down)
	assert.ErrorIs(t, err, down)
	assert.EqualError(t, err, "db error: db down")
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}
