// Package refreshtokens declares storage for opaque refresh tokens.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	// Create stores a token for userID that expires after validity.
	Create(ctx context.Context, userID string, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete is a no-op for unknown tokens.
	Delete(ctx context.Context, token string) error

	// DeleteByUser revokes every session of userID.
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}
