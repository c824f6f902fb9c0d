package reports

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

const reportColumns = `id, reporter_id, target_user_id, category, content, is_read, created_at`

func scanReport(row interface{ Scan(...any) error }) (*models.Report, error) {
	rp := &models.Report{}
	var category string
	if err := row.Scan(&rp.ID, &rp.ReporterID, &rp.TargetUserID, &category, &rp.Content, &rp.IsRead, &rp.CreatedAt); err != nil {
		return nil, err
	}
	rp.Category = models.ReportCategory(category)
	return rp, nil
}

func (r *PostgresRepository) Create(ctx context.Context, report *models.Report) (*models.Report, error) {
	query :=
		`INSERT INTO reports (reporter_id, target_user_id, category, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, is_read, created_at`

	err := r.db.QueryRowContext(ctx, query,
		report.ReporterID, report.TargetUserID, string(report.Category), report.Content).
		Scan(&report.ID, &report.IsRead, &report.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapErr(err)
	}
	return report, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Report, error) {
	rp, err := scanReport(r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapErr(err)
	}
	return rp, nil
}

func (r *PostgresRepository) List(ctx context.Context, page models.Page) ([]*models.Report, error) {
	page = page.Normalize()
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+reportColumns+` FROM reports ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		page.Limit, page.Offset)
	if err != nil {
		return nil, dbx.WrapErr(err)
	}
	defer rows.Close()

	var out []*models.Report
	for rows.Next() {
		rp, err := scanReport(rows)
		if err != nil {
			return nil, dbx.WrapErr(err)
		}
		out = append(out, rp)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapErr(err)
	}
	return out, nil
}

func (r *PostgresRepository) MarkAsRead(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE reports SET is_read = TRUE WHERE id = $1`, id)
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

func (r *PostgresRepository) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports WHERE NOT is_read`).Scan(&n); err != nil {
		return 0, dbx.WrapErr(err)
	}
	return n, nil
}
