package services

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/policy"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

type CommentService struct {
	repomanager repomanager.RepositoryManager
	registry    *ManagerRegistry
}

func NewCommentService(m repomanager.RepositoryManager, registry *ManagerRegistry) *CommentService {
	return &CommentService{repomanager: m, registry: registry}
}

func (s *CommentService) Create(ctx context.Context, actor models.Actor, postID, content string) (*models.Comment, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	content, err := requireText("content", content, maxContentLen)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Posts().GetByID(ctx, postID); err != nil {
			return err
		}
		comment, err = repos.Comments().Create(ctx, &models.Comment{
			PostID:   postID,
			WriterID: actor.UserID,
			Content:  content,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *CommentService) ListByPost(ctx context.Context, postID string, page models.Page) ([]*models.Comment, error) {
	if _, err := s.repomanager.Posts().GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.repomanager.Comments().ListByPost(ctx, postID, page)
}

func (s *CommentService) Update(ctx context.Context, actor models.Actor, commentID, content string) (*models.Comment, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	content, err := requireText("content", content, maxContentLen)
	if err != nil {
		return nil, err
	}

	var comment *models.Comment
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		c, err := repos.Comments().GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		if err := policy.CanUpdate(actor, c.WriterID); err != nil {
			return err
		}
		c.Content = content
		if err := repos.Comments().Update(ctx, c); err != nil {
			return err
		}
		comment = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete is allowed to ADMIN, the writer and managers of the board the
// comment's post belongs to.
func (s *CommentService) Delete(ctx context.Context, actor models.Actor, commentID string) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		c, err := repos.Comments().GetByID(ctx, commentID)
		if err != nil {
			return err
		}
		post, err := repos.Posts().GetByID(ctx, c.PostID)
		if err != nil {
			return err
		}
		isManager, err := s.registry.Exists(ctx, repos, actor.UserID, post.BoardID)
		if err != nil {
			return err
		}
		if err := policy.CanDelete(actor, c.WriterID, isManager); err != nil {
			return err
		}
		return repos.Comments().Delete(ctx, c.ID)
	})
}
