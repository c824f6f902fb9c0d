package managers

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/dbx"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

const pairConstraint = "board_managers_user_board_key"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, userID, boardID string) (*models.BoardManager, error) {
	query :=
		`INSERT INTO board_managers (user_id, board_id)
		 VALUES ($1, $2)
		 RETURNING id, created_at`

	m := &models.BoardManager{UserID: userID, BoardID: boardID}
	err := r.db.QueryRowContext(ctx, query, userID, boardID).Scan(&m.ID, &m.CreatedAt)
	if err != nil {
		switch {
		case dbx.IsUniqueViolation(err, pairConstraint):
			return nil, common.ErrDuplicateAssignment
		case dbx.IsForeignKeyViolation(err):
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapErr(err)
	}
	return m, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, boardID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM board_managers WHERE user_id = $1 AND board_id = $2`, userID, boardID)
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

func (r *PostgresRepository) Exists(ctx context.Context, userID, boardID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM board_managers WHERE user_id = $1 AND board_id = $2)`,
		userID, boardID).Scan(&exists)
	if err != nil {
		return false, dbx.WrapErr(err)
	}
	return exists, nil
}

func (r *PostgresRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM board_managers WHERE user_id = $1`, userID).Scan(&n)
	if err != nil {
		return 0, dbx.WrapErr(err)
	}
	return n, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]*models.BoardManager, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, dbx.WrapErr(err)
	}
	defer rows.Close()

	var out []*models.BoardManager
	for rows.Next() {
		m := &models.BoardManager{}
		if err := rows.Scan(&m.ID, &m.UserID, &m.BoardID, &m.CreatedAt); err != nil {
			return nil, dbx.WrapErr(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapErr(err)
	}
	return out, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]*models.BoardManager, error) {
	return r.list(ctx,
		`SELECT id, user_id, board_id, created_at FROM board_managers WHERE user_id = $1 ORDER BY created_at, id`, userID)
}

func (r *PostgresRepository) ListByBoard(ctx context.Context, boardID string) ([]*models.BoardManager, error) {
	return r.list(ctx,
		`SELECT id, user_id, board_id, created_at FROM board_managers WHERE board_id = $1 ORDER BY created_at, id`, boardID)
}

func (r *PostgresRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM board_managers WHERE user_id = $1`, userID)
	if err != nil {
		return 0, dbx.WrapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, dbx.WrapErr(err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteByBoard(ctx context.Context, boardID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `DELETE FROM board_managers WHERE board_id = $1 RETURNING user_id`, boardID)
	if err != nil {
		return nil, dbx.WrapErr(err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, dbx.WrapErr(err)
		}
		userIDs = append(userIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapErr(err)
	}
	return userIDs, nil
}
