package services

import (
	"context"

	"github.com/dmitrijs2005/imprint/internal/server/models"
	"github.com/dmitrijs2005/imprint/internal/server/policy"
	"github.com/dmitrijs2005/imprint/internal/server/repositories/repomanager"
)

type ReportService struct {
	repomanager repomanager.RepositoryManager
}

func NewReportService(m repomanager.RepositoryManager) *ReportService {
	return &ReportService{repomanager: m}
}

func (s *ReportService) Submit(ctx context.Context, actor models.Actor, targetUserID string, category models.ReportCategory, content string) (*models.Report, error) {
	if err := policy.RequireActive(actor); err != nil {
		return nil, err
	}
	if !category.Valid() {
		return nil, invalid("unknown category %q", category)
	}
	if targetUserID == actor.UserID {
		return nil, invalid("cannot report yourself")
	}
	content, err := requireText("content", content, maxContentLen)
	if err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Users().GetByID(ctx, targetUserID); err != nil {
		return nil, err
	}
	return s.repomanager.Reports().Create(ctx, &models.Report{
		ReporterID:   actor.UserID,
		TargetUserID: targetUserID,
		Category:     category,
		Content:      content,
	})
}

func (s *ReportService) ListAll(ctx context.Context, actor models.Actor, page models.Page) ([]*models.Report, error) {
	if err := policy.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.repomanager.Reports().List(ctx, page)
}

func (s *ReportService) MarkAsRead(ctx context.Context, actor models.Actor, reportID string) error {
	if err := policy.RequireAdmin(actor); err != nil {
		return err
	}
	return s.repomanager.Reports().MarkAsRead(ctx, reportID)
}
