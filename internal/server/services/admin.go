package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/imprint/internal/logging"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/policy"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

// AdminService holds the ADMIN-only user management operations.
type AdminService struct {
	repomanager repomanager.RepositoryManager
	registry    *ManagerRegistry
	accounts    *AccountService
	log         logging.Logger
	now         func() time.Time
}

func NewAdminService(m repomanager.RepositoryManager, registry *ManagerRegistry, accounts *AccountService, log logging.Logger) *AdminService {
	return &AdminService{
		repomanager: m,
		registry:    registry,
		accounts:    accounts,
		log:         log.With("module", "admin"),
		now:         time.Now,
	}
}

// UpdateUserRole sets a role directly. USER clears every manager relation,
// MANAGER is only accepted when the user already manages a board, ADMIN is
// assigned as is. Admins cannot change their own role.
func (s *AdminService) UpdateUserRole(ctx context.Context, actor models.Actor, userID string, role models.Role) (*models.User, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, invalid("unknown role %q", role)
	}
	if actor.UserID == userID {
		return nil, invalid("cannot change your own role")
	}

	var user *models.User
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		target, err := repos.Users().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}

		switch role {
		case models.RoleUser:
			if _, err := s.registry.BulkRemoveForUser(ctx, repos, userID); err != nil {
				return err
			}
			if err := repos.Users().UpdateRole(ctx, userID, models.RoleUser); err != nil {
				return err
			}
		case models.RoleManager:
			count, err := repos.Managers().CountByUser(ctx, userID)
			if err != nil {
				return err
			}
			if count == 0 {
				return invalid("manager role follows board assignments")
			}
			if target.Role != models.RoleManager {
				if err := repos.Users().UpdateRole(ctx, userID, models.RoleManager); err != nil {
					return err
				}
			}
		case models.RoleAdmin:
			if target.Role != models.RoleAdmin {
				if err := repos.Users().UpdateRole(ctx, userID, models.RoleAdmin); err != nil {
					return err
				}
			}
		}

		user, err = repos.Users().GetByID(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "user role changed", "user_id", userID, "role", role, "actor_id", actor.UserID)
	return user, nil
}

// UpdateUserStatus routes ACTIVE, BANNED and DELETED to the account
// transitions. PENDING cannot be set.
func (s *AdminService) UpdateUserStatus(ctx context.Context, actor models.Actor, userID string, status models.Status) (*models.User, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if actor.UserID == userID {
		return nil, invalid("cannot change your own status")
	}

	var err error
	switch status {
	case models.StatusActive:
		err = s.accounts.Activate(ctx, userID)
	case models.StatusBanned:
		err = s.accounts.Ban(ctx, userID)
	case models.StatusDeleted:
		err = s.accounts.SoftDelete(ctx, userID)
	default:
		err = invalid("status %q cannot be set", status)
	}
	if err != nil {
		return nil, err
	}
	return s.repomanager.Users().GetByID(ctx, userID)
}

func (s *AdminService) ListUsers(ctx context.Context, actor models.Actor, page models.Page) ([]*models.User, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repomanager.Users().List(ctx, page)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Dashboard gathers the overview counters; "today" starts at local midnight.
func (s *AdminService) Dashboard(ctx context.Context, actor models.Actor) (*models.Dashboard, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	today := startOfDay(s.now())
	repos := s.repomanager
	d := &models.Dashboard{}

	counters := []struct {
		dst *int64
		get func() (int64, error)
	}{
		{&d.TotalUsers, func() (int64, error) { return repos.Users().Count(ctx) }},
		{&d.TodaySignups, func() (int64, error) { return repos.Users().CountCreatedSince(ctx, today) }},
		{&d.ActiveUsers, func() (int64, error) { return repos.Users().CountByStatus(ctx, models.StatusActive) }},
		{&d.BannedUsers, func() (int64, error) { return repos.Users().CountByStatus(ctx, models.StatusBanned) }},
		{&d.TodayPosts, func() (int64, error) { return repos.Posts().CountCreatedSince(ctx, today) }},
		{&d.TodayComments, func() (int64, error) { return repos.Comments().CountCreatedSince(ctx, today) }},
		{&d.UnreadReports, func() (int64, error) { return repos.Reports().CountUnread(ctx) }},
		{&d.UnreadSupportTickets, func() (int64, error) { return repos.Messages().CountUnreadByKind(ctx, models.MessageSupport) }},
	}
	for _, c := range counters {
		n, err := c.get()
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		*c.dst = n
	}
	return d, nil
}

