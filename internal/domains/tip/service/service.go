package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	authorservice "quilltips-backend/internal/domains/author/service"
	bookservice "quilltips-backend/internal/domains/book/service"
	"quilltips-backend/internal/domains/tip/model"
	"quilltips-backend/internal/domains/tip/repository"
	"quilltips-backend/internal/shared"
	"quilltips-backend/pkg/logger"
)

type Service interface {
	// CreatePending records a tip at checkout start.
	CreatePending(ctx context.Context, tip *model.Tip) error
	GetByStripeSession(ctx context.Context, sessionID string) (*model.Tip, error)
	// ConfirmPaid finalizes the tip and queues the receipt email. A tip
	// that was already finalized is left alone so webhook retries are
	// harmless.
	ConfirmPaid(ctx context.Context, tipID uuid.UUID) error
	MarkFailed(ctx context.Context, tipID uuid.UUID) error
	History(ctx context.Context, authorID uuid.UUID, filter *model.HistoryFilter) ([]*model.Tip, int64, error)
	// PublicFeed is the tip list shown on the author's public page.
	PublicFeed(ctx context.Context, authorID uuid.UUID, limit int) ([]*model.PublicTip, error)
	Earnings(ctx context.Context, authorID uuid.UUID) (*model.EarningsSummary, error)
}

type service struct {
	repo    repository.Repository
	authors authorservice.Service
	books   bookservice.Service
	queue   *asynq.Client
}

func NewService(repo repository.Repository, authors authorservice.Service, books bookservice.Service, queue *asynq.Client) Service {
	return &service{repo: repo, authors: authors, books: books, queue: queue}
}

func (s *service) CreatePending(ctx context.Context, tip *model.Tip) error {
	tip.Status = model.StatusPending
	return s.repo.Create(ctx, tip)
}

func (s *service) GetByStripeSession(ctx context.Context, sessionID string) (*model.Tip, error) {
	return s.repo.GetByStripeSession(ctx, sessionID)
}

func (s *service) ConfirmPaid(ctx context.Context, tipID uuid.UUID) error {
	if err := s.repo.MarkPaid(ctx, tipID); err != nil {
		if errors.Is(err, model.ErrAlreadyFinalized) {
			logger.Info("tip already finalized, skipping", map[string]interface{}{"tip_id": tipID})
			return nil
		}
		return err
	}

	tip, err := s.repo.GetByID(ctx, tipID)
	if err != nil {
		return err
	}

	logger.Info("tip paid", map[string]interface{}{
		"tip_id":    tip.ID,
		"author_id": tip.AuthorID,
		"amount":    tip.Amount.String(),
	})

	if tip.ReaderEmail != nil && *tip.ReaderEmail != "" {
		s.enqueueReceipt(ctx, tip)
	}
	return nil
}

func (s *service) enqueueReceipt(ctx context.Context, tip *model.Tip) {
	payload := shared.TipReceiptPayload{
		TipID:       tip.ID,
		ReaderEmail: *tip.ReaderEmail,
		Amount:      tip.Amount.String(),
		Currency:    tip.Currency,
		PaidAt:      time.Now(),
	}
	if author, err := s.authors.GetByID(ctx, tip.AuthorID); err == nil {
		payload.AuthorName = author.Name
	}
	if tip.BookID != nil {
		if book, err := s.books.GetByID(ctx, *tip.BookID); err == nil {
			payload.BookTitle = book.Title
		}
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("failed to marshal receipt payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeSendTipReceipt, data)
	if _, err := s.queue.Enqueue(task, asynq.Queue(shared.QueueEmail), asynq.MaxRetry(3)); err != nil {
		logger.Error("failed to enqueue receipt email", err)
	}
}

func (s *service) MarkFailed(ctx context.Context, tipID uuid.UUID) error {
	err := s.repo.MarkFailed(ctx, tipID)
	if errors.Is(err, model.ErrAlreadyFinalized) {
		return nil
	}
	return err
}

func (s *service) History(ctx context.Context, authorID uuid.UUID, filter *model.HistoryFilter) ([]*model.Tip, int64, error) {
	return s.repo.ListByAuthor(ctx, authorID, filter)
}

func (s *service) PublicFeed(ctx context.Context, authorID uuid.UUID, limit int) ([]*model.PublicTip, error) {
	tips, err := s.repo.ListPublicByAuthor(ctx, authorID, limit)
	if err != nil {
		return nil, err
	}

	feed := make([]*model.PublicTip, 0, len(tips))
	for _, t := range tips {
		feed = append(feed, t.ToPublic())
	}
	return feed, nil
}

func (s *service) Earnings(ctx context.Context, authorID uuid.UUID) (*model.EarningsSummary, error) {
	return s.repo.Earnings(ctx, authorID)
}
