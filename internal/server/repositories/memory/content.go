package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

// deletePost removes the post and its comments. Callers hold s.mu.
func (s *Store) deletePost(id string) {
	delete(s.t.posts, id)
	for cid, c := range s.t.comments {
		if c.PostID == id {
			delete(s.t.comments, cid)
		}
	}
}

type PostsRepository struct {
	s *Store
}

func (r *PostsRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.boards[post.BoardID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.t.users[post.WriterID]; !ok {
		return nil, common.ErrorNotFound
	}
	id, seq := r.s.next()
	now := r.s.now()
	post.ID, post.CreatedAt, post.UpdatedAt = id, now, now
	r.s.t.posts[id] = postRow{Post: *post, seq: seq}
	return post, nil
}

func (r *PostsRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	p := row.Post
	return &p, nil
}

func (r *PostsRepository) ListByBoard(ctx context.Context, boardID string, page models.Page) ([]*models.Post, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Post
	rows := collect(r.s.t.posts, func(p postRow) bool { return p.BoardID == boardID }, true)
	for _, row := range paginate(rows, page) {
		p := row.Post
		out = append(out, &p)
	}
	return out, nil
}

func (r *PostsRepository) Update(ctx context.Context, post *models.Post) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.posts[post.ID]
	if !ok {
		return common.ErrorNotFound
	}
	row.Title, row.Content, row.UpdatedAt = post.Title, post.Content, r.s.now()
	post.UpdatedAt = row.UpdatedAt
	r.s.t.posts[post.ID] = row
	return nil
}

func (r *PostsRepository) Delete(ctx context.Context, id string) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.posts[id]; !ok {
		return common.ErrorNotFound
	}
	r.s.deletePost(id)
	return nil
}

func (r *PostsRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := collect(r.s.t.posts, func(p postRow) bool { return !p.CreatedAt.Before(since) }, false)
	return int64(len(rows)), nil
}

type CommentsRepository struct {
	s *Store
}

func (r *CommentsRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.t.posts[comment.PostID]; !ok {
		return nil, common.ErrorNotFound
	}
	if _, ok := r.s.t.users[comment.WriterID]; !ok {
		return nil, common.ErrorNotFound
	}
	id, seq := r.s.next()
	now := r.s.now()
	comment.ID, comment.CreatedAt, comment.UpdatedAt = id, now, now
	r.s.t.comments[id] = commentRow{Comment: *comment, seq: seq}
	return comment, nil
}

func (r *CommentsRepository) GetByID(ctx context.Context, id string) (*models.Comment, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := row.Comment
	return &c, nil
}

func (r *CommentsRepository) ListByPost(ctx context.Context, postID string, page models.Page) ([]*models.Comment, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*models.Comment
	rows := collect(r.s.t.comments, func(c commentRow) bool { return c.PostID == postID }, false)
	for _, row := range paginate(rows, page) {
		c := row.Comment
		out = append(out, &c)
	}
	return out, nil
}

func (r *CommentsRepository) Update(ctx context.Context, comment *models.Comment) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.comments[comment.ID]
	if !ok {
		return common.ErrorNotFound
	}
	row.Content, row.UpdatedAt = comment.Content, r.s.now()
	comment.UpdatedAt = row.UpdatedAt
	r.s.t.comments[comment.ID] = row
	return nil
}

func (r *CommentsRepository) Delete(ctx context.Context, id string) error {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.t.comments[id]; !ok {
		return common.ErrorNotFound
	}
	delete(r.s.t.comments, id)
	return nil
}

func (r *CommentsRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	defer r.s.enter(ctx)()
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	rows := collect(r.s.t.comments, func(c commentRow) bool { return !c.CreatedAt.Before(since) }, false)
	return int64(len(rows)), nil
}
