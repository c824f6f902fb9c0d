package messages

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var messageCols = []string{
	"id", "sender_id", "receiver_id", "kind", "content", "is_read", "read_at",
	"deleted_by_sender", "deleted_by_receiver", "created_at",
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `^INSERT INTO messages \(sender_id, receiver_id, kind, content\) VALUES \(\$1, \$2, \$3, \$4\) RETURNING id, created_at$`
	mock.ExpectQuery(q).WithArgs("u-1", "u-2", "DIRECT", "hi").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("m-1", time.Now()))
	mock.ExpectQuery(q).WithArgs("u-1", "ghost", "DIRECT", "hi").
		WillReturnError(&pgconn.PgError{Code: "23503"})

	m, err := repo.Create(context.Background(), &models.Message{SenderID: "u-1", ReceiverID: "u-2", Kind: models.MessageDirect, Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "m-1", m.ID)

	_, err = repo.Create(context.Background(), &models.Message{SenderID: "u-1", ReceiverID: "ghost", Kind: models.MessageDirect, Content: "hi"})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetByID(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	readAt := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM messages WHERE id = \$1$`).WithArgs("m-1").
		WillReturnRows(sqlmock.NewRows(messageCols).
			AddRow("m-1", "u-1", "u-2", "SUPPORT", "help", true, readAt, false, true, time.Now()))
	mock.ExpectQuery(`FROM messages WHERE id = \$1$`).WithArgs("m-2").
		WillReturnRows(sqlmock.NewRows(messageCols).
			AddRow("m-2", "u-1", "u-2", "DIRECT", "yo", false, nil, false, false, time.Now()))
	mock.ExpectQuery(`FROM messages WHERE id = \$1$`).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	m, err := repo.GetByID(context.Background(), "m-1")
	require.NoError(t, err)
	assert.Equal(t, models.MessageSupport, m.Kind)
	require.NotNil(t, m.ReadAt)
	assert.True(t, m.ReadAt.Equal(readAt))
	assert.True(t, m.DeletedByReceiver)

	m, err = repo.GetByID(context.Background(), "m-2")
	require.NoError(t, err)
	assert.Nil(t, m.ReadAt)

	_, err = repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestListInboxAndSent(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`WHERE receiver_id = \$1 AND NOT deleted_by_receiver ORDER BY created_at DESC, id LIMIT \$2 OFFSET \$3$`).
		WithArgs("u-2", models.DefaultPageSize, 0).
		WillReturnRows(sqlmock.NewRows(messageCols).
			AddRow("m-1", "u-1", "u-2", "DIRECT", "hi", false, nil, false, false, time.Now()))
	mock.ExpectQuery(`WHERE sender_id = \$1 AND NOT deleted_by_sender ORDER BY created_at DESC, id LIMIT \$2 OFFSET \$3$`).
		WithArgs("u-1", models.DefaultPageSize, 0).
		WillReturnRows(sqlmock.NewRows(messageCols))

	in, err := repo.ListInbox(context.Background(), "u-2", models.Page{})
	require.NoError(t, err)
	require.Len(t, in, 1)

	sent, err := repo.ListSent(context.Background(), "u-1", models.Page{})
	require.NoError(t, err)
	assert.Empty(t, sent)
}

func TestFlagUpdates(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	at := time.Now()
	mock.ExpectExec(`^UPDATE messages SET is_read = TRUE, read_at = COALESCE\(read_at, \$2\) WHERE id = \$1$`).
		WithArgs("m-1", at).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE messages SET deleted_by_sender = TRUE WHERE id = \$1$`).
		WithArgs("m-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`^UPDATE messages SET deleted_by_receiver = TRUE WHERE id = \$1$`).
		WithArgs("ghost").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`^DELETE FROM messages WHERE id = \$1$`).
		WithArgs("m-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM messages WHERE kind = \$1 AND NOT is_read$`).
		WithArgs("SUPPORT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(2)))

	require.NoError(t, repo.MarkAsRead(context.Background(), "m-1", at))
	require.NoError(t, repo.SetDeletedBySender(context.Background(), "m-1"))
	assert.ErrorIs(t, repo.SetDeletedByReceiver(context.Background(), "ghost"), common.ErrorNotFound)
	require.NoError(t, repo.Delete(context.Background(), "m-1"))

	n, err := repo.CountUnreadByKind(context.Background(), models.MessageSupport)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	require.NoError(t, mock.ExpectationsWereMet())
}
