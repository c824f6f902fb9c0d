package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/dbx"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

// registrationLockKey is the pg_advisory_xact_lock key taken by registrations.
const registrationLockKey = 7_411_001

const userColumns = `id, email, password_hash, nickname, name, role, status, reset_token, reset_token_expiry, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	u := &models.User{}
	var role, status string
	var token sql.NullString
	var expiry sql.NullTime
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &u.Name, &role, &status,
		&token, &expiry, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	u.Status = models.Status(status)
	if token.Valid {
		u.ResetToken = &token.String
	}
	if expiry.Valid {
		u.ResetTokenExpiry = &expiry.Time
	}
	return u, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapErr(err)
	}
	return u, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (email, password_hash, nickname, name, role, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.PasswordHash, user.Nickname, user.Name, string(user.Role), string(user.Status)).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return nil, common.ErrAlreadyExists
		}
		return nil, dbx.WrapErr(err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE nickname = $1`, nickname)
}

func (r *PostgresRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE reset_token = $1 FOR UPDATE`, token)
}

func (r *PostgresRepository) FirstAdmin(ctx context.Context) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE role = 'ADMIN' ORDER BY created_at, id LIMIT 1`)
}

func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]*models.User, error) {
	page = page.Normalize()
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id LIMIT $1 OFFSET $2`, page.Limit, page.Offset)
	if err != nil {
		return nil, dbx.WrapErr(err)
	}
	defer rows.Close()

	var out []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, dbx.WrapErr(err)
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapErr(err)
	}
	return out, nil
}

func (r *PostgresRepository) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, dbx.WrapErr(err)
	}
	return n, nil
}

func (r *PostgresRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users`)
}

func (r *PostgresRepository) CountByStatus(ctx context.Context, status models.Status) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE status = $1`, string(status))
}

func (r *PostgresRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM users WHERE created_at >= $1`, since)
}

func (r *PostgresRepository) LockRegistration(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, registrationLockKey); err != nil {
		return dbx.WrapErr(err)
	}
	return nil
}

// exec runs an UPDATE that must touch exactly one user.
func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsUniqueViolation(err, "") {
			return common.ErrAlreadyExists
		}
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

func (r *PostgresRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	return r.exec(ctx, `UPDATE users SET role = $2, updated_at = now() WHERE id = $1`, id, string(role))
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	return r.exec(ctx, `UPDATE users SET status = $2, updated_at = now() WHERE id = $1`, id, string(status))
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, nickname string, name string) error {
	return r.exec(ctx, `UPDATE users SET nickname = $2, name = $3, updated_at = now() WHERE id = $1`, id, nickname, name)
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	return r.exec(ctx,
		`UPDATE users SET password_hash = $2, reset_token = NULL, reset_token_expiry = NULL, updated_at = now() WHERE id = $1`,
		id, passwordHash)
}

func (r *PostgresRepository) SetResetToken(ctx context.Context, id string, token *string, expiry *time.Time) error {
	return r.exec(ctx,
		`UPDATE users SET reset_token = $2, reset_token_expiry = $3, updated_at = now() WHERE id = $1`,
		id, token, expiry)
}
