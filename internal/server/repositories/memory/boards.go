package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type BoardsRepository struct {
	s *Store
}

func (r *BoardsRepository) nameTaken(name, exceptID string) bool {
	for id, row := range r.s.t.boards {
		if id != exceptID && row.Name == name {
			return true
		}
	}
	return false
}

func (r *BoardsRepository) Create(ctx context.Context, board *models.Board) (*models.Board, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.nameTaken(board.Name, "") {
		return nil, common.ErrAlreadyExists
	}
	if board.CreatedBy != "" {
		if _, ok := r.s.t.users[board.CreatedBy]; !ok {
			return nil, common.ErrorNotFound
		}
	}
	id, seq := r.s.next()
	board.ID, board.CreatedAt = id, r.s.now()
	r.s.t.boards[id] = boardRow{Board: *board, seq: seq}
	return board, nil
}

func (r *BoardsRepository) GetByID(ctx context.Context, id string) (*models.Board, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.boards[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	b := row.Board
	return &b, nil
}

func (r *BoardsRepository) List(ctx context.Context, page models.Page) ([]*models.Board, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	rows := collect(r.s.t.boards, nil, false)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })

	var out []*models.Board
	for _, row := range paginate(rows, page) {
		b := row.Board
		out = append(out, &b)
	}
	return out, nil
}

func (r *BoardsRepository) Update(ctx context.Context, board *models.Board) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row, ok := r.s.t.boards[board.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if r.nameTaken(board.Name, board.ID) {
		return common.ErrAlreadyExists
	}
	row.Name, row.Description = board.Name, board.Description
	r.s.t.boards[board.ID] = row
	return nil
}

// Delete cascades to manager relations, posts and their comments.
func (r *BoardsRepository) Delete(ctx context.Context, id string) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.boards[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.t.boards, id)
	for mid, m := range r.s.t.managers {
		if m.BoardID == id {
			delete(r.s.t.managers, mid)
		}
	}
	for pid, p := range r.s.t.posts {
		if p.BoardID == id {
			r.s.deletePost(pid)
		}
	}
	return nil
}
