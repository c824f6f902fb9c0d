// Package posts declares the storage contract for board posts.
package posts

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	ListByBoard(ctx context.Context, boardID string, page models.Page) ([]*models.Post, error)
	// Update rewrites title and content and bumps UpdatedAt.
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id string) error
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}
