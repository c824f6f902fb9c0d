package messages

import (
	"context"
	"database/sql"
	"errors"
	"time"

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

const messageColumns = `id, sender_id, receiver_id, kind, content, is_read, read_at,
	deleted_by_sender, deleted_by_receiver, created_at`

func scanMessage(row interface{ Scan(...any) error }) (*models.Message, error) {
	m := &models.Message{}
	var (
		kind   string
		readAt sql.NullTime
	)
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID, &kind, &m.Content, &m.IsRead, &readAt,
		&m.DeletedBySender, &m.DeletedByReceiver, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Kind = models.MessageKind(kind)
	if readAt.Valid {
		t := readAt.Time
		m.ReadAt = &t
	}
	return m, nil
}

func (r *PostgresRepository) Create(ctx context.Context, msg *models.Message) (*models.Message, error) {
	query :=
		`INSERT INTO messages (sender_id, receiver_id, kind, content)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, msg.SenderID, msg.ReceiverID, string(msg.Kind), msg.Content).
		Scan(&msg.ID, &msg.CreatedAt)
	if err != nil {
		if dbx.IsForeignKeyViolation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapErr(err)
	}
	return msg, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Message, error) {
	m, err := scanMessage(r.db.QueryRowContext(ctx, `SELECT `+messageColumns+` FROM messages WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, dbx.WrapErr(err)
	}
	return m, nil
}

func (r *PostgresRepository) list(ctx context.Context, query string, userID string, page models.Page) ([]*models.Message, error) {
	page = page.Normalize()
	rows, err := r.db.QueryContext(ctx, query, userID, page.Limit, page.Offset)
	if err != nil {
		return nil, dbx.WrapErr(err)
	}
	defer rows.Close()

	var out []*models.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, dbx.WrapErr(err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, dbx.WrapErr(err)
	}
	return out, nil
}

func (r *PostgresRepository) ListInbox(ctx context.Context, receiverID string, page models.Page) ([]*models.Message, error) {
	return r.list(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE receiver_id = $1 AND NOT deleted_by_receiver
		 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		receiverID, page)
}

func (r *PostgresRepository) ListSent(ctx context.Context, senderID string, page models.Page) ([]*models.Message, error) {
	return r.list(ctx,
		`SELECT `+messageColumns+` FROM messages
		 WHERE sender_id = $1 AND NOT deleted_by_sender
		 ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`,
		senderID, page)
}

func (r *PostgresRepository) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
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

// MarkAsRead keeps the first read timestamp on repeated calls.
func (r *PostgresRepository) MarkAsRead(ctx context.Context, id string, at time.Time) error {
	return r.exec(ctx,
		`UPDATE messages SET is_read = TRUE, read_at = COALESCE(read_at, $2) WHERE id = $1`, id, at)
}

func (r *PostgresRepository) SetDeletedBySender(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE messages SET deleted_by_sender = TRUE WHERE id = $1`, id)
}

func (r *PostgresRepository) SetDeletedByReceiver(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE messages SET deleted_by_receiver = TRUE WHERE id = $1`, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.exec(ctx, `DELETE FROM messages WHERE id = $1`, id)
}

func (r *PostgresRepository) CountUnreadByKind(ctx context.Context, kind models.MessageKind) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE kind = $1 AND NOT is_read`, string(kind)).Scan(&n)
	if err != nil {
		return 0, dbx.WrapErr(err)
	}
	return n, nil
}
