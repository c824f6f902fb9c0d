package memory

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type ManagersRepository struct {
	s *Store
}

func (r *ManagersRepository) pair(userID, boardID string) (string, bool) {
	for id, m := range r.s.t.managers {
		if m.UserID == userID && m.BoardID == boardID {
			return id, true
		}
	}
	return "", false
}

func (r *ManagersRepository) Create(ctx context.Context, userID, boardID string) (*models.BoardManager, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.pair(userID, boardID); ok {
		return nil, common.ErrDuplicateAssignment
	}
	if _, ok := r.s.t.users[userID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.t.boards[boardID]; !ok {
		return nil, common.ErrorNotFound
	}
	id, seq := r.s.next()
	m := models.BoardManager{ID: id, UserID: userID, BoardID: boardID, CreatedAt: r.s.now()}
	r.s.t.managers[id] = managerRow{BoardManager: m, seq: seq}
	return &m, nil
}

func (r *ManagersRepository) Delete(ctx context.Context, userID, boardID string) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	id, ok := r.pair(userID, boardID)
	if !ok {
		return common.ErrorNotFound
	}
	delete(r.s.t.managers, id)
	return nil
}

func (r *ManagersRepository) Exists(ctx context.Context, userID, boardID string) (bool, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.pair(userID, boardID)
	return ok, nil
}

func (r *ManagersRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := collect(r.s.t.managers, func(m managerRow) bool { return m.UserID == userID }, false)
	return int64(len(rows)), nil
}

func (r *ManagersRepository) list(keep func(managerRow) bool) []*models.BoardManager {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.BoardManager
	for _, row := range collect(r.s.t.managers, keep, false) {
		m := row.BoardManager
		out = append(out, &m)
	}
	return out
}

func (r *ManagersRepository) ListByUser(ctx context.Context, userID string) ([]*models.BoardManager, error) {
	defer r.s.enter(ctx)()
	return r.list(func(m managerRow) bool { return m.UserID == userID }), nil
}

func (r *ManagersRepository) ListByBoard(ctx context.Context, boardID string) ([]*models.BoardManager, error) {
	defer r.s.enter(ctx)()
	return r.list(func(m managerRow) bool { return m.BoardID == boardID }), nil
}

func (r *ManagersRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.t.managers {
		if m.UserID == userID {
			delete(r.s.t.managers, id)
			n++
		}
	}
	return n, nil
}

func (r *ManagersRepository) DeleteByBoard(ctx context.Context, boardID string) ([]string, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var userIDs []string
	for _, m := range collect(r.s.t.managers, func(m managerRow) bool { return m.BoardID == boardID }, false) {
		delete(r.s.t.managers, m.ID)
		userIDs = append(userIDs, m.UserID)
	}
	return userIDs, nil
}
