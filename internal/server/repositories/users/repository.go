// Package users declares the storage contract for forum accounts.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type Repository interface {
	// Create inserts the user and fills ID and timestamps. A taken email or
	// nickname yields common.ErrAlreadyExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByIDForUpdate loads the user and locks the row until the surrounding
	// transaction ends. Role and manager mutations for one user serialize on it.
	GetByIDForUpdate(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByNickname(ctx context.Context, nickname string) (*models.User, error)
	GetByResetToken(ctx context.Context, token string) (*models.User, error)
	// FirstAdmin returns the earliest created ADMIN.
	FirstAdmin(ctx context.Context) (*models.User, error)
	List(ctx context.Context, page models.Page) ([]*models.User, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.Status) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)

	// LockRegistration serializes registrations for the rest of the transaction.
	LockRegistration(ctx context.Context) error

	UpdateRole(ctx context.Context, id string, role models.Role) error
	UpdateStatus(ctx context.Context, id string, status models.Status) error
	UpdateProfile(ctx context.Context, id string, nickname string, name string) error
	// UpdatePassword stores a new hash and clears any pending reset token.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	// SetResetToken replaces the reset token; nil values clear it.
	SetResetToken(ctx context.Context, id string, token *string, expiry *time.Time) error
}
