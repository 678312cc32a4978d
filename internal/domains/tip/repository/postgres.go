package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"quilltips-backend/internal/domains/tip/model"
)

const tipColumns = `id, author_id, book_id, qr_code_id, visitor_id, amount, currency,
	message, reader_name, reader_email, status, stripe_session_id, created_at, updated_at`

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, tip *model.Tip) error {
	query := `
		INSERT INTO tips (id, author_id, book_id, qr_code_id, visitor_id, amount, currency,
		                  message, reader_name, reader_email, status, stripe_session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		tip.ID, tip.AuthorID, tip.BookID, tip.QRCodeID, tip.VisitorID,
		tip.Amount, tip.Currency, tip.Message, tip.ReaderName, tip.ReaderEmail,
		tip.Status, tip.StripeSessionID,
	).Scan(&tip.CreatedAt, &tip.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create tip: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Tip, error) {
	return r.scanOne(ctx, `WHERE id = $1`, id)
}

func (r *postgresRepository) GetByStripeSession(ctx context.Context, sessionID string) (*model.Tip, error) {
	return r.scanOne(ctx, `WHERE stripe_session_id = $1`, sessionID)
}

func (r *postgresRepository) scanOne(ctx context.Context, where string, arg interface{}) (*model.Tip, error) {
	var t model.Tip
	err := r.db.QueryRow(ctx, `SELECT `+tipColumns+` FROM tips `+where, arg).Scan(
		&t.ID, &t.AuthorID, &t.BookID, &t.QRCodeID, &t.VisitorID,
		&t.Amount, &t.Currency, &t.Message, &t.ReaderName, &t.ReaderEmail,
		&t.Status, &t.StripeSessionID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTipNotFound
		}
		return nil, fmt.Errorf("failed to get tip: %w", err)
	}
	return &t, nil
}

func (r *postgresRepository) MarkPaid(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, model.StatusPaid)
}

func (r *postgresRepository) MarkFailed(ctx context.Context, id uuid.UUID) error {
	return r.transition(ctx, id, model.StatusFailed)
}

// transition guards the status WHERE clause so a retried webhook cannot
// re-finalize a tip.
func (r *postgresRepository) transition(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE tips SET status = $1, updated_at = NOW() WHERE id = $2 AND status = $3`,
		status, id, model.StatusPending)
	if err != nil {
		return fmt.Errorf("failed to update tip status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM tips WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check tip: %w", err)
		}
		if !exists {
			return model.ErrTipNotFound
		}
		return model.ErrAlreadyFinalized
	}
	return nil
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, filter *model.HistoryFilter) ([]*model.Tip, int64, error) {
	filter.Normalize()

	countQuery := `SELECT COUNT(*) FROM tips WHERE author_id = $1`
	listQuery := `SELECT ` + tipColumns + ` FROM tips WHERE author_id = $1`
	args := []interface{}{authorID}

	if filter.Status != "" {
		countQuery += ` AND status = $2`
		listQuery += ` AND status = $2`
		args = append(args, filter.Status)
	}

	var total int64
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count tips: %w", err)
	}

	listQuery += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset())

	rows, err := r.db.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tips: %w", err)
	}
	defer rows.Close()

	tips, err := scanTips(rows)
	if err != nil {
		return nil, 0, err
	}
	return tips, total, nil
}

func (r *postgresRepository) ListPublicByAuthor(ctx context.Context, authorID uuid.UUID, limit int) ([]*model.Tip, error) {
	if limit < 1 || limit > 50 {
		limit = 20
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+tipColumns+` FROM tips WHERE author_id = $1 AND status = $2 ORDER BY created_at DESC LIMIT $3`,
		authorID, model.StatusPaid, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list public tips: %w", err)
	}
	defer rows.Close()

	return scanTips(rows)
}

func (r *postgresRepository) Earnings(ctx context.Context, authorID uuid.UUID) (*model.EarningsSummary, error) {
	summary := &model.EarningsSummary{Currency: "usd"}
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*) FROM tips WHERE author_id = $1 AND status = $2`,
		authorID, model.StatusPaid,
	).Scan(&summary.TotalAmount, &summary.TipCount)
	if err != nil {
		return nil, fmt.Errorf("failed to sum earnings: %w", err)
	}
	return summary, nil
}

func scanTips(rows pgx.Rows) ([]*model.Tip, error) {
	var tips []*model.Tip
	for rows.Next() {
		var t model.Tip
		if err := rows.Scan(
			&t.ID, &t.AuthorID, &t.BookID, &t.QRCodeID, &t.VisitorID,
			&t.Amount, &t.Currency, &t.Message, &t.ReaderName, &t.ReaderEmail,
			&t.Status, &t.StripeSessionID, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan tip: %w", err)
		}
		tips = append(tips, &t)
	}
	return tips, rows.Err()
}
