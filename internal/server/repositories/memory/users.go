package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type UsersRepository struct {
	s *Store
}

func copyUser(r userRow) *models.User {
	u := r.User
	return &u
}

func (r *UsersRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, row := range r.s.t.users {
		if row.Email == user.Email || row.Nickname == user.Nickname {
			return nil, common.ErrAlreadyExists
		}
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	if user.Status == "" {
		user.Status = models.StatusPending
	}
	id, seq := r.s.next()
	now := r.s.now()
	user.ID, user.CreatedAt, user.UpdatedAt = id, now, now
	r.s.t.users[id] = userRow{User: *user, seq: seq}
	return user, nil
}

func (r *UsersRepository) find(match func(userRow) bool) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := collect(r.s.t.users, match, false)
	if len(rows) == 0 {
		return nil, common.ErrorNotFound
	}
	return copyUser(rows[0]), nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	defer r.s.enter(ctx)()
	return r.find(func(u userRow) bool { return u.ID == id })
}

// GetByIDForUpdate needs no row lock: the repository manager serializes
// transactions over the whole store.
func (r *UsersRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.User, error) {
	return r.GetByID(ctx, id)
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	defer r.s.enter(ctx)()
	return r.find(func(u userRow) bool { return u.Email == email })
}

func (r *UsersRepository) GetByNickname(ctx context.Context, nickname string) (*models.User, error) {
	defer r.s.enter(ctx)()
	return r.find(func(u userRow) bool { return u.Nickname == nickname })
}

func (r *UsersRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	defer r.s.enter(ctx)()
	return r.find(func(u userRow) bool { return u.ResetToken != nil && *u.ResetToken == token })
}

func (r *UsersRepository) FirstAdmin(ctx context.Context) (*models.User, error) {
	defer r.s.enter(ctx)()
	return r.find(func(u userRow) bool { return u.Role == models.RoleAdmin })
}

func (r *UsersRepository) List(ctx context.Context, page models.Page) ([]*models.User, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.User
	for _, row := range paginate(collect(r.s.t.users, nil, false), page) {
		out = append(out, copyUser(row))
	}
	return out, nil
}

func (r *UsersRepository) count(keep func(userRow) bool) int64 {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return int64(len(collect(r.s.t.users, keep, false)))
}

func (r *UsersRepository) Count(ctx context.Context) (int64, error) {
	defer r.s.enter(ctx)()
	return r.count(nil), nil
}

func (r *UsersRepository) CountByStatus(ctx context.Context, status models.Status) (int64, error) {
	defer r.s.enter(ctx)()
	return r.count(func(u userRow) bool { return u.Status == status }), nil
}

func (r *UsersRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	defer r.s.enter(ctx)()
	return r.count(func(u userRow) bool { return !u.CreatedAt.Before(since) }), nil
}

func (r *UsersRepository) LockRegistration(_ context.Context) error {
	return nil
}

func (r *UsersRepository) update(id string, fn func(u *models.User) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	if err := fn(&row.User); err != nil {
		return err
	}
	row.UpdatedAt = r.s.now()
	r.s.t.users[id] = row
	return nil
}

func (r *UsersRepository) UpdateRole(ctx context.Context, id string, role models.Role) error {
	defer r.s.enter(ctx)()
	return r.update(id, func(u *models.User) error {
		u.Role = role
		return nil
	})
}

func (r *UsersRepository) UpdateStatus(ctx context.Context, id string, status models.Status) error {
	defer r.s.enter(ctx)()
	return r.update(id, func(u *models.User) error {
		u.Status = status
		return nil
	})
}

func (r *UsersRepository) UpdateProfile(ctx context.Context, id string, nickname string, name string) error {
	defer r.s.enter(ctx)()
	return r.update(id, func(u *models.User) error {
		for otherID, row := range r.s.t.users {
			if otherID != id && row.Nickname == nickname {
				return common.ErrAlreadyExists
			}
		}
		u.Nickname, u.Name = nickname, name
		return nil
	})
}

func (r *UsersRepository) UpdatePassword(ctx context.Context, id string, passwordHash string) error {
	defer r.s.enter(ctx)()
	return r.update(id, func(u *models.User) error {
		u.PasswordHash = passwordHash
		u.ResetToken, u.ResetTokenExpiry = nil, nil
		return nil
	})
}

func (r *UsersRepository) SetResetToken(ctx context.Context, id string, token *string, expiry *time.Time) error {
	defer r.s.enter(ctx)()
	return r.update(id, func(u *models.User) error {
		if token != nil {
			for otherID, row := range r.s.t.users {
				if otherID != id && row.ResetToken != nil && *row.ResetToken == *token {
					return common.ErrAlreadyExists
				}
			}
			t := *token
			token = &t
		}
		if expiry != nil {
			e := *expiry
			expiry = &e
		}
		u.ResetToken, u.ResetTokenExpiry = token, expiry
		return nil
	})
}
