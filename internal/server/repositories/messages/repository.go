// Package messages stores direct and support messages between users.
package messages

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, msg *models.Message) (*models.Message, error)
	GetByID(ctx context.Context, id string) (*models.Message, error)
	// ListInbox skips messages the receiver deleted.
	ListInbox(ctx context.Context, receiverID string, page models.Page) ([]*models.Message, error)
	// ListSent skips messages the sender deleted.
	ListSent(ctx context.Context, senderID string, page models.Page) ([]*models.Message, error)
	MarkAsRead(ctx context.Context, id string, at time.Time) error
	SetDeletedBySender(ctx context.Context, id string) error
	SetDeletedByReceiver(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	CountUnreadByKind(ctx context.Context, kind models.MessageKind) (int64, error)
}
