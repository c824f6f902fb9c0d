package boards

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

func (r *PostgresRepository) Create(ctx context.Context, board *models.Board) (*models.Board, error) {
	query :=
		`INSERT INTO boards (name, description, created_by)
		 VALUES ($1, $2, NULLIF($3, '')::uuid)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, board.Name, board.Description, board.CreatedBy).
		Scan(&board.ID, &board.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err, "boards_name_key") {
			return nil, common.ErrAlreadyExists
		}
		return nil, dbx.WrapErr(err)
	}
	return board, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Board, error) {
	query := `SELECT id, name, description, COALESCE(created_by::text, ''), created_at FROM boards WHERE id = $1`

	b := &models.Board{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.Name, &b.Description, &b.CreatedBy, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapErr(err)
	}
	return b, nil
}

func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]*models.Board, error) {
	page = page.Normalize()
	query :=
		`SELECT id, name, description, COALESCE(created_by::text, ''), created_at FROM boards
		 ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, dbx.WrapErr(err)
	}
	defer rows.Close()

	var out []*models.Board
	for rows.Next() {
		b := &models.Board{}
		if err := rows.Scan(&b.ID, &b.Name, &b.Description, &b.CreatedBy, &b.CreatedAt); err != nil {
			return nil, dbx.WrapErr(err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapErr(err)
	}
	return out, nil
}

func (r *PostgresRepository) Update(ctx context.Context, board *models.Board) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE boards SET name = $2, description = $3 WHERE id = $1`,
		board.ID, board.Name, board.Description)
	if err != nil {
		if dbx.IsUniqueViolation(err, "boards_name_key") {
			return common.ErrAlreadyExists
		}
		return dbx.WrapErr(err)
	}
	return expectOne(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		return dbx.WrapErr(err)
	}
	return expectOne(res)
}

func expectOne(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return dbx.WrapErr(err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
