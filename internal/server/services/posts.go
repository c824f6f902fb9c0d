package services

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/common"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/policy"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

type PostService struct {
	repomanager repomanager.RepositoryManager
	registry    *ManagerRegistry
}

func NewPostService(m repomanager.RepositoryManager, registry *ManagerRegistry) *PostService {
	return &PostService{repomanager: m, registry: registry}
}

func postFields(title, content string) (string, string, error) {
	title, err := requireText("title", title, maxTitleLen)
	if err != nil {
		return "", "", err
	}
	content, err = requireText("content", content, maxContentLen)
	if err != nil {
		return "", "", err
	}
	return title, content, nil
}

// loadPost returns common.ErrorNotFound when the post lives on another board.
func loadPost(ctx context.Context, repos repomanager.Repositories, boardID, postID string) (*models.Post, error) {
	post, err := repos.Posts().GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.BoardID != boardID {
		return nil, common.ErrorNotFound
	}
	return post, nil
}

func (s *PostService) Create(ctx context.Context, actor models.Actor, boardID, title, content string) (*models.Post, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	title, content, err := postFields(title, content)
	if err != nil {
		return nil, err
	}

	var post *models.Post
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Boards().GetByID(ctx, boardID); err != nil {
			return err
		}
		post, err = repos.Posts().Create(ctx, &models.Post{
			BoardID:  boardID,
			WriterID: actor.UserID,
			Title:    title,
			Content:  content,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) Get(ctx context.Context, boardID, postID string) (*models.Post, error) {
	return loadPost(ctx, s.repomanager, boardID, postID)
}

func (s *PostService) ListByBoard(ctx context.Context, boardID string, page models.Page) ([]*models.Post, error) {
	if _, err := s.repomanager.Boards().GetByID(ctx, boardID); err != nil {
		return nil, err
	}
	return s.repomanager.Posts().ListByBoard(ctx, boardID, page)
}

// Update is limited to the writer and ADMIN; managing the board is not enough.
func (s *PostService) Update(ctx context.Context, actor models.Actor, boardID, postID, title, content string) (*models.Post, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	title, content, err := postFields(title, content)
	if err != nil {
		return nil, err
	}

	var post *models.Post
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		p, err := loadPost(ctx, repos, boardID, postID)
		if err != nil {
			return err
		}
		if err := policy.CanUpdate(actor, p.WriterID); err != nil {
			return err
		}
		p.Title, p.Content = title, content
		if err := repos.Posts().Update(ctx, p); err != nil {
			return err
		}
		post = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

// Delete is allowed to ADMIN, the writer and managers of the post's board.
func (s *PostService) Delete(ctx context.Context, actor models.Actor, boardID, postID string) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		p, err := loadPost(ctx, repos, boardID, postID)
		if err != nil {
			return err
		}
		isManager, err := s.registry.Exists(ctx, repos, actor.UserID, p.BoardID)
		if err != nil {
			return err
		}
		if err := policy.CanDelete(actor, p.WriterID, isManager); err != nil {
			return err
		}
		return repos.Posts().Delete(ctx, p.ID)
	})
}
