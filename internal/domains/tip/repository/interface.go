package repository

import (
	"context"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/tip/model"
)

type Repository interface {
	Create(ctx context.Context, tip *model.Tip) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tip, error)
	GetByStripeSession(ctx context.Context, sessionID string) (*model.Tip, error)
	// MarkPaid and MarkFailed only move pending tips; a tip that already
	// reached a terminal status returns ErrAlreadyFinalized.
	MarkPaid(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID) error
	ListByAuthor(ctx context.Context, authorID uuid.UUID, filter *model.HistoryFilter) ([]*model.Tip, int64, error)
	// ListPublicByAuthor returns only paid tips, newest first.
	ListPublicByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*model.Tip, error)
	Earnings(ctx context.Context, authorID uuid.UUID) (*model.EarningsSummary, error)
}
