// Package verifications stores the latest email verification code per address.
package verifications

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	// Get returns common.ErrorNotFound when no code was ever sent to email.
	Get(ctx context.Context, email string) (*models.Verification, error)
	// Upsert replaces the previous code and resets the verified flag.
	Upsert(ctx context.Context, v *models.Verification) error
	MarkVerified(ctx context.Context, email string) error
}
