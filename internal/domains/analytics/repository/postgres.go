package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"quilltips-backend/internal/domains/analytics/model"
	"quilltips-backend/pkg/database"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

// Insert relies on the unique index for dedup instead of a read-then-write
// check, so concurrent first views of the same page race safely: one row
// wins, the rest surface as ErrDuplicateView.
func (r *postgresRepository) Insert(ctx context.Context, view *model.PageView) error {
	query := `
		INSERT INTO page_views (id, author_id, book_id, qr_code_id, page_type, visitor_id, viewed_on)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query,
		view.ID, view.AuthorID, view.BookID, view.QRCodeID,
		view.PageType, view.VisitorID, view.ViewedOn,
	).Scan(&view.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateView
		}
		return fmt.Errorf("failed to insert page view: %w", err)
	}
	return nil
}

func (r *postgresRepository) StatsByAuthor(ctx context.Context, authorID uuid.UUID) (*model.ViewStats, error) {
	// Totals span rolled-up days plus raw rows not yet rolled up.
	query := `
		SELECT
			(SELECT COALESCE(SUM(view_count), 0) FROM page_view_daily
			 WHERE author_id = $1 AND page_type = 'profile') +
			(SELECT COUNT(*) FROM page_views
			 WHERE author_id = $1 AND page_type = 'profile'),
			(SELECT COALESCE(SUM(view_count), 0) FROM page_view_daily
			 WHERE author_id = $1 AND page_type = 'book') +
			(SELECT COUNT(*) FROM page_views
			 WHERE author_id = $1 AND page_type = 'book')`

	var stats model.ViewStats
	if err := r.db.QueryRow(ctx, query, authorID).Scan(&stats.ProfileViews, &stats.BookViews); err != nil {
		return nil, fmt.Errorf("failed to get view stats: %w", err)
	}
	stats.TotalViews = stats.ProfileViews + stats.BookViews
	return &stats, nil
}

func (r *postgresRepository) RollupDay(ctx context.Context, day time.Time) (int64, error) {
	var rolled int64
	err := database.WithTransaction(ctx, r.db, func(tx pgx.Tx) error {
		aggregate := `
			INSERT INTO page_view_daily (author_id, page_type, day, view_count)
			SELECT author_id, page_type, viewed_on, COUNT(*)
			FROM page_views
			WHERE viewed_on = $1
			GROUP BY author_id, page_type, viewed_on
			ON CONFLICT (author_id, page_type, day)
			DO UPDATE SET view_count = page_view_daily.view_count + EXCLUDED.view_count`

		if _, err := tx.Exec(ctx, aggregate, day); err != nil {
			return fmt.Errorf("failed to aggregate page views: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM page_views WHERE viewed_on = $1`, day)
		if err != nil {
			return fmt.Errorf("failed to prune raw page views: %w", err)
		}
		rolled = tag.RowsAffected()
		return nil
	})
	return rolled, err
}
