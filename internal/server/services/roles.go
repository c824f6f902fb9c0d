package services

import (
	"context"
	"errors"
	"sort"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/policy"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

// RoleSynchronizer keeps users.role in line with the manager relations of
// that user. It is only called by ManagerRegistry, inside the transaction
// that changed the relations.
type RoleSynchronizer struct{}

func NewRoleSynchronizer() *RoleSynchronizer {
	return &RoleSynchronizer{}
}

// Sync is idempotent. A user that no longer exists is skipped silently.
func (s *RoleSynchronizer) Sync(ctx context.Context, repos repomanager.Repositories, userID string) error {
	user, err := repos.Users().GetByIDForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil
		}
		return err
	}
	if user.Role == models.RoleAdmin {
		return nil
	}

	count, err := repos.Managers().CountByUser(ctx, userID)
	if err != nil {
		return err
	}

	role := policy.EffectiveRole(user.Role, count)
	if role == user.Role {
		return nil
	}
	return repos.Users().UpdateRole(ctx, userID, role)
}

// ManagerRegistry is the only writer of the board-manager relation. Every
// mutation locks the user row first, so concurrent registry calls for one
// user serialize, and ends with a role sync.
type ManagerRegistry struct {
	sync *RoleSynchronizer
}

func NewManagerRegistry(sync *RoleSynchronizer) *ManagerRegistry {
	return &ManagerRegistry{sync: sync}
}

func (r *ManagerRegistry) lockUser(ctx context.Context, repos repomanager.Repositories, userID string) (*models.User, error) {
	return repos.Users().GetByIDForUpdate(ctx, userID)
}

func (r *ManagerRegistry) Assign(ctx context.Context, repos repomanager.Repositories, userID, boardID string) (*models.BoardManager, error) {
	if _, err := r.lockUser(ctx, repos, userID); err != nil {
		return nil, err
	}

	exists, err := repos.Managers().Exists(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.ErrDuplicateAssignment
	}

	// The unique constraint still catches a concurrent insert of the same pair.
	rel, err := repos.Managers().Create(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}

	if err := r.sync.Sync(ctx, repos, userID); err != nil {
		return nil, err
	}
	return rel, nil
}

func (r *ManagerRegistry) Dismiss(ctx context.Context, repos repomanager.Repositories, userID, boardID string) error {
	if _, err := r.lockUser(ctx, repos, userID); err != nil {
		return err
	}
	if err := repos.Managers().Delete(ctx, userID, boardID); err != nil {
		return err
	}
	return r.sync.Sync(ctx, repos, userID)
}

func (r *ManagerRegistry) Exists(ctx context.Context, repos repomanager.Repositories, userID, boardID string) (bool, error) {
	if userID == "" {
		return false, nil
	}
	return repos.Managers().Exists(ctx, userID, boardID)
}

func (r *ManagerRegistry) ListByUser(ctx context.Context, repos repomanager.Repositories, userID string) ([]*models.BoardManager, error) {
	return repos.Managers().ListByUser(ctx, userID)
}

func (r *ManagerRegistry) ListByBoard(ctx context.Context, repos repomanager.Repositories, boardID string) ([]*models.BoardManager, error) {
	return repos.Managers().ListByBoard(ctx, boardID)
}

// BulkRemoveForUser drops every relation of the user in one statement.
func (r *ManagerRegistry) BulkRemoveForUser(ctx context.Context, repos repomanager.Repositories, userID string) (int64, error) {
	if _, err := r.lockUser(ctx, repos, userID); err != nil {
		return 0, err
	}
	n, err := repos.Managers().DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if err := r.sync.Sync(ctx, repos, userID); err != nil {
		return 0, err
	}
	return n, nil
}

// RemoveAllForBoard drops the relations of a board that is about to be
// deleted and re-syncs every former manager. Users are locked in id order.
func (r *ManagerRegistry) RemoveAllForBoard(ctx context.Context, repos repomanager.Repositories, boardID string) ([]string, error) {
	rels, err := repos.Managers().ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	userIDs := make([]string, 0, len(rels))
	for _, rel := range rels {
		userIDs = append(userIDs, rel.UserID)
	}
	sort.Strings(userIDs)

	for _, id := range userIDs {
		if _, err := r.lockUser(ctx, repos, id); err != nil && !errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
	}
	if _, err := repos.Managers().DeleteByBoard(ctx, boardID); err != nil {
		return nil, err
	}
	for _, id := range userIDs {
		if err := r.sync.Sync(ctx, repos, id); err != nil {
			return nil, err
		}
	}
	return userIDs, nil
}
