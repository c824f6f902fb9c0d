// Package posts declares the storage contract for post comments.
package comments

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID string, page models.Page) ([]*models.Comment, error)
	// Update rewrites content and bumps UpdatedAt.
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id string) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
