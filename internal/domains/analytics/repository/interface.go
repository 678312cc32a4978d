package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/analytics/model"
)

type Repository interface {
	// Insert records one view. Returns model.ErrDuplicateView when the
	// visitor already counted for this page today.
	Insert(ctx context.Context, view *model.PageView) error
	StatsByAuthor(ctx context.Context, authorID uuid.UUID) (*model.ViewStats, error)
	// RollupDay folds one day of raw views into page_view_daily and
	// deletes the raw rows.
	RollupDay(ctx context.Context, day time.Time) (int64, error)
}
