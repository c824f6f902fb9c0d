// Package dbx provides tiny DB abstractions shared by repositories:
// a minimal interface (DBTX) implemented by both *sql.DB and *sql.Tx,
// helpers to run functions inside a transaction and to classify driver errors.
package dbx

import (
	"context"
	"database/sql"
	"errors"
)

// DBTX is the subset of database/sql used by our repos.
// Both *sql.DB and *sql.Tx satisfy this interface.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReadCommitted is the isolation used by forum mutations. Row locks taken
// with SELECT ... FOR UPDATE serialize writers on the same user.
var ReadCommitted = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

// WithTx begins a transaction, runs fn with a transactional handle, and then
// commits on success or rolls back on error/panic. Panics are rethrown.
//
//	err := dbx.WithTx(ctx, db, dbx.ReadCommitted, func(ctx context.Context, tx dbx.DBTX) error {
//	    _, err := tx.ExecContext(ctx, "UPDATE ...")
//	    return err
//	})
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}

// CommitOnError marks an error that must not roll the transaction back.
// WithTx-based helpers such as WithTxKeep commit the work done so far and
// still return the wrapped error to the caller.
type CommitOnError struct {
	Err error
}

func (e *CommitOnError) Error() string { return e.Err.Error() }

func (e *CommitOnError) Unwrap() error { return e.Err }

// WithTxKeep behaves like WithTx, but when fn returns a *CommitOnError the
// transaction is committed and the inner error is returned.
func WithTxKeep(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn func(ctx context.Context, tx DBTX) error) error {
	var kept error
	err := WithTx(ctx, db, opts, func(ctx context.Context, tx DBTX) error {
		err := fn(ctx, tx)
		var coe *CommitOnError
		if errors.As(err, &coe) {
			kept = coe.Err
			return nil
		}
		return err
	})
	if err != nil {
		return err
	}
	return kept
}
