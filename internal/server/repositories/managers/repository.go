// Package managers declares the storage contract for the board-manager
// relation. It is the only place that records who moderates which board;
// "managers of a board" and "boards of a user" are both queries over it.
package managers

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	// Create records the pair. An existing pair yields common.ErrDuplicateAssignment,
	// a missing user or board yields common.ErrorNotFound.
	Create(ctx context.Context, userID, boardID string) (*models.BoardManager, error)
	// Delete removes the pair or returns common.ErrorNotFound.
	Delete(ctx context.Context, userID, boardID string) error
	Exists(ctx context.Context, userID, boardID string) (bool, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]*models.BoardManager, error)
	ListByBoard(ctx context.Context, boardID string) ([]*models.BoardManager, error)
	// DeleteByUser drops every relation of the user and reports how many went.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	// DeleteByBoard drops every relation of the board and returns the affected user ids.
	DeleteByBoard(ctx context.Context, boardID string) ([]string, error)
}
