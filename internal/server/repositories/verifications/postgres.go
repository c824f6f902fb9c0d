package verifications

import (
	"context"
	"database/sql"
	"errors"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/dbx"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, email string) (*models.Verification, error) {
	query := `
		SELECT email, code, expires_at, sent_at, verified
		FROM email_verifications
		WHERE email = $1
	`
	v := &models.Verification{}
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&v.Email, &v.Code, &v.ExpiresAt, &v.SentAt, &v.Verified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapErr(err)
	}
	return v, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, v *models.Verification) error {
	query := `
		INSERT INTO email_verifications (email, code, expires_at, sent_at, verified)
		VALUES ($1, $2, $3, $4, FALSE)
		ON CONFLICT (email) DO UPDATE
		SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at, sent_at = EXCLUDED.sent_at, verified = FALSE
	`
	if _, err := r.db.ExecContext(ctx, query, v.Email, v.Code, v.ExpiresAt, v.SentAt); err != nil {
		return dbx.WrapErr(err)
	}
	v.Verified = false
	return nil
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, email string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE email_verifications SET verified = TRUE WHERE email = $1`, email)
	if err != nil {
		return dbx.WrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.WrapErr(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
