package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
)

type moderationFixture struct {
	admin, manager, writer, other models.Actor
	board, otherBoard             *models.Board
	post                          *models.Post
}

func newModerationFixture(t *testing.T, e *env) *moderationFixture {
	t.Helper()
	return newModerationFixtureWithAdmin(t, e, e.actor(t, e.register(t, "root")))
}

func newModerationFixtureWithAdmin(t *testing.T, e *env, admin models.Actor) *moderationFixture {
	t.Helper()
	ctx := context.Background()

	f := &moderationFixture{admin: admin}
	manager := e.register(t, "mod")
	writer := e.register(t, "writer")
	other := e.register(t, "other")

	f.board = e.board(t, f.admin, "general")
	f.otherBoard = e.board(t, f.admin, "offtopic")
	_, err := e.boards.AddManager(ctx, f.admin, f.board.ID, manager.ID)
	require.NoError(t, err)

	f.manager = e.actor(t, manager)
	f.writer = e.actor(t, writer)
	f.other = e.actor(t, other)

	f.post, err = e.posts.Create(ctx, f.writer, f.board.ID, "title", "body")
	require.NoError(t, err)
	return f
}

func TestPosts_ManagerCannotEditOthersPost(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	f := newModerationFixture(t, e)

	_, err := e.posts.Update(ctx, f.manager, f.board.ID, f.post.ID, "hijacked", "body")
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	got, err := e.posts.Get(ctx, f.board.ID, f.post.ID)
	require.NoError(t, err)
	assert.Equal(t, "title", got.Title)
}

func TestPosts_ManagerCanDeleteOnManagedBoard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	f := newModerationFixture(t, e)

	require.NoError(t, e.posts.Delete(ctx, f.manager, f.board.ID, f.post.ID))

	_, err := e.posts.Get(ctx, f.board.ID, f.post.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPosts_ManagerOfOtherBoardCannotDelete(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	f := newModerationFixture(t, e)

	p, err := e.posts.Create(ctx, f.writer, f.otherBoard.ID, "elsewhere", "body")
	require.NoError(t, err)

	err = e.posts.Delete(ctx, f.manager, f.otherBoard.ID, p.ID)
	assert.ErrorIs(t, err, common.ErrAccessDenied)
}

func TestPosts_UpdateAndDeleteMatrix(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	f := newModerationFixture(t, e)

	tests := []struct {
		name      string
		actor     func() models.Actor
		updateErr error
		deleteErr error
	}{
		{name: "writer", actor: func() models.Actor { return f.writer }},
		{name: "admin", actor: func() models.Actor { return f.admin }},
		{name: "stranger", actor: func() models.Actor { return f.other },
			updateErr: common.ErrAccessDenied, deleteErr: common.ErrAccessDenied},
		{name: "board manager", actor: func() models.Actor { return f.manager },
			updateErr: common.ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := e.posts.Create(ctx, f.writer, f.board.ID, "t", "c")
			require.NoError(t, err)

			_, err = e.posts.Update(ctx, tt.actor(), f.board.ID, p.ID, "t2", "c2")
			if tt.updateErr != nil {
				assert.ErrorIs(t, err, tt.updateErr)
			} else {
				assert.NoError(t, err)
			}

			err = e.posts.Delete(ctx, tt.actor(), f.board.ID, p.ID)
			if tt.deleteErr != nil {
				assert.ErrorIs(t, err, tt.deleteErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPosts_WrongBoardIsNotFound(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	f := newModerationFixture(t, e)

	_, err := e.posts.Get(ctx, f.otherBoard.ID, f.post.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	err = e.posts.Delete(ctx, f.admin, f.otherBoard.ID, f.post.ID)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestPosts_CreateRequiresActiveAndBoard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	f := newModerationFixture(t, e)

	banned := f.writer
	banned.Status = models.StatusBanned
	_, err := e.posts.Create(ctx, banned, f.board.ID, "t", "c")
	assert.ErrorIs(t, err, common.ErrAccessDenied)

	_, err = e.posts.Create(ctx, f.writer, "missing", "t", "c")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = e.posts.Create(ctx, f.writer, f.board.ID, "", "c")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestPosts_ListByBoard(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	f := newModerationFixture(t, e)

	second, err := e.posts.Create(ctx, f.other, f.board.ID, "second", "body")
	require.NoError(t, err)

	posts, err := e.posts.ListByBoard(ctx, f.board.ID, models.Page{})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID, "newest first")

	_, err = e.posts.ListByBoard(ctx, "missing", models.Page{})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
