// Package boards declares the storage contract for forum boards.
package boards

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	// Create inserts the board. A taken name yields common.ErrAlreadyExists.
	Create(ctx context.Context, board *models.Board) (*models.Board, error)
	GetByID(ctx context.Context, id string) (*models.Board, error)
	List(ctx context.Context, page models.Page) ([]*models.Board, error)
	Update(ctx context.Context, board *models.Board) error
	Delete(ctx context.Context, id string) error
}
