package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"quilltips-backend/internal/domains/qrcode/model"
)

type postgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, qr *model.QRCode) error {
	query := `
		INSERT INTO qr_codes (id, author_id, book_id, label)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.db.QueryRow(ctx, query, qr.ID, qr.AuthorID, qr.BookID, qr.Label).Scan(&qr.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return model.ErrQRCodeNotFound
		}
		return fmt.Errorf("failed to create qr code: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.QRCode, error) {
	var qr model.QRCode
	err := r.db.QueryRow(ctx,
		`SELECT id, author_id, book_id, label, created_at FROM qr_codes WHERE id = $1`, id,
	).Scan(&qr.ID, &qr.AuthorID, &qr.BookID, &qr.Label, &qr.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrQRCodeNotFound
		}
		return nil, fmt.Errorf("failed to get qr code: %w", err)
	}
	return &qr, nil
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.QRCodeStats, error) {
	query := `
		SELECT q.id, q.author_id, q.book_id, q.label, q.created_at,
		       COUNT(t.id) FILTER (WHERE t.status = 'paid') AS tip_count,
		       COALESCE(SUM(t.amount) FILTER (WHERE t.status = 'paid'), 0) AS tip_total
		FROM qr_codes q
		LEFT JOIN tips t ON t.qr_code_id = q.id
		WHERE q.author_id = $1
		GROUP BY q.id
		ORDER BY q.created_at DESC`

	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list qr codes: %w", err)
	}
	defer rows.Close()

	var stats []*model.QRCodeStats
	for rows.Next() {
		var s model.QRCodeStats
		if err := rows.Scan(
			&s.ID, &s.AuthorID, &s.BookID, &s.Label, &s.CreatedAt,
			&s.TipCount, &s.TipTotal,
		); err != nil {
			return nil, fmt.Errorf("failed to scan qr code stats: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM qr_codes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete qr code: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrQRCodeNotFound
	}
	return nil
}
