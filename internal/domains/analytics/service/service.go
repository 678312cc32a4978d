package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/analytics/model"
	"quilltips-backend/internal/domains/analytics/repository"
	"quilltips-backend/pkg/logger"
)

type Service interface {
	// Record counts one page view. It never fails the caller's page load:
	// a missing author id is a silent no-op, a duplicate is success, and
	// storage errors are logged and swallowed.
	Record(ctx context.Context, visitorID string, req *model.RecordViewRequest)
	Stats(ctx context.Context, authorID uuid.UUID) (*model.ViewStats, error)
}

type service struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) Service {
	return &service{repo: repo}
}

func (s *service) Record(ctx context.Context, visitorID string, req *model.RecordViewRequest) {
	if req.AuthorID == uuid.Nil || visitorID == "" {
		return
	}

	view := &model.PageView{
		ID:        uuid.New(),
		AuthorID:  req.AuthorID,
		BookID:    req.BookID,
		QRCodeID:  req.QRCodeID,
		PageType:  req.PageType,
		VisitorID: visitorID,
		ViewedOn:  time.Now().UTC().Truncate(24 * time.Hour),
	}

	err := s.repo.Insert(ctx, view)
	if err == nil || errors.Is(err, model.ErrDuplicateView) {
		return
	}

	logger.Warn("failed to record page view", map[string]interface{}{
		"author_id": req.AuthorID,
		"page_type": req.PageType,
		"error":     err.Error(),
	})
}

func (s *service) Stats(ctx context.Context, authorID uuid.UUID) (*model.ViewStats, error) {
	return s.repo.StatsByAuthor(ctx, authorID)
}
