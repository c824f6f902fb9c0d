// Package reports stores user-filed reports about other users.
package reports

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, report *models.Report) (*models.Report, error)
	GetByID(ctx context.Context, id string) (*models.Report, error)
	// List returns newest first.
	List(ctx context.Context, page models.Page) ([]*models.Report, error)
	MarkAsRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int64, error)
}
