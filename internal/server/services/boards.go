package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/imprint/internal/logging"
	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/policy"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

const (
	maxBoardNameLen        = 50
	maxBoardDescriptionLen = 500
)

// BoardService manages boards and their manager assignments. All mutations
// are ADMIN-only.
type BoardService struct {
	repomanager repomanager.RepositoryManager
	registry    *ManagerRegistry
	log         logging.Logger
}

func NewBoardService(m repomanager.RepositoryManager, registry *ManagerRegistry, log logging.Logger) *BoardService {
	return &BoardService{repomanager: m, registry: registry, log: log.With("module", "boards")}
}

func boardFields(name, description string) (string, string, error) {
	name, err := requireText("name", name, maxBoardNameLen)
	if err != nil {
		return "", "", err
	}
	description = strings.TrimSpace(description)
	if len(description) > maxBoardDescriptionLen {
		return "", "", invalid("description is too long")
	}
	return name, description, nil
}

func (s *BoardService) Create(ctx context.Context, actor models.Actor, name, description string) (*models.Board, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	name, description, err := boardFields(name, description)
	if err != nil {
		return nil, err
	}

	board, err := s.repomanager.Boards().Create(ctx, &models.Board{
		Name:        name,
		Description: description,
		CreatedBy:   actor.UserID,
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "board created", "board_id", board.ID, "actor_id", actor.UserID)
	return board, nil
}

func (s *BoardService) Get(ctx context.Context, boardID string) (*models.Board, error) {
	return s.repomanager.Boards().GetByID(ctx, boardID)
}

func (s *BoardService) List(ctx context.Context, page models.Page) ([]*models.Board, error) {
	return s.repomanager.Boards().List(ctx, page)
}

func (s *BoardService) Update(ctx context.Context, actor models.Actor, boardID, name, description string) (*models.Board, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	name, description, err := boardFields(name, description)
	if err != nil {
		return nil, err
	}

	var board *models.Board
	err = s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		b, err := repos.Boards().GetByID(ctx, boardID)
		if err != nil {
			return err
		}
		b.Name, b.Description = name, description
		if err := repos.Boards().Update(ctx, b); err != nil {
			return err
		}
		board = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return board, nil
}

// Delete removes the board with its posts and comments. Former managers of
// the board get their role recomputed in the same transaction.
func (s *BoardService) Delete(ctx context.Context, actor models.Actor, boardID string) error {
	if err := policy.RequireAdmin(actor); err != nil {
		return err
	}

	var affected []string
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Boards().GetByID(ctx, boardID); err != nil {
			return err
		}
		ids, err := s.registry.RemoveAllForBoard(ctx, repos, boardID)
		if err != nil {
			return err
		}
		affected = ids
		return repos.Boards().Delete(ctx, boardID)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "board deleted", "board_id", boardID, "actor_id", actor.UserID, "resynced_users", len(affected))
	return nil
}

// AddManager makes userID a manager of boardID. ADMIN targets and existing
// pairs are rejected.
func (s *BoardService) AddManager(ctx context.Context, actor models.Actor, boardID, userID string) (*models.BoardManager, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}

	var rel *models.BoardManager
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Boards().GetByID(ctx, boardID); err != nil {
			return err
		}
		target, err := repos.Users().GetByIDForUpdate(ctx, userID)
		if err != nil {
			return err
		}
		if err := policy.CanAssignManager(target); err != nil {
			return err
		}
		rel, err = s.registry.Assign(ctx, repos, userID, boardID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "manager assigned", "board_id", boardID, "user_id", userID, "actor_id", actor.UserID)
	return rel, nil
}

func (s *BoardService) RemoveManager(ctx context.Context, actor models.Actor, boardID, userID string) error {
	if err := policy.RequireAdmin(actor); err != nil {
		return err
	}

	err := s.repomanager.WithTx(ctx, func(ctx context.Context, repos repomanager.Repositories) error {
		if _, err := repos.Boards().GetByID(ctx, boardID); err != nil {
			return err
		}
		return s.registry.Dismiss(ctx, repos, userID, boardID)
	})
	if err != nil {
		return err
	}
	s.log.Info(ctx, "manager dismissed", "board_id", boardID, "user_id", userID, "actor_id", actor.UserID)
	return nil
}

func (s *BoardService) ListManagers(ctx context.Context, boardID string) ([]*models.BoardManager, error) {
	if _, err := s.repomanager.Boards().GetByID(ctx, boardID); err != nil {
		return nil, err
	}
	return s.registry.ListByBoard(ctx, s.repomanager, boardID)
}

// ManagedBoards lists the boards userID moderates.
func (s *BoardService) ManagedBoards(ctx context.Context, userID string) ([]*models.Board, error) {
	if _, err := s.repomanager.Users().GetByID(ctx, userID); err != nil {
		return nil, err
	}
	rels, err := s.registry.ListByUser(ctx, s.repomanager, userID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Board, 0, len(rels))
	for _, rel := range rels {
		b, err := s.repomanager.Boards().GetByID(ctx, rel.BoardID)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}
