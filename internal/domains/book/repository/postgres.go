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

	"quilltips-backend/internal/domains/book/model"
	"quilltips-backend/pkg/cache"
	"quilltips-backend/pkg/logger"
)

const (
	bookCacheTTL = 10 * time.Minute
	bookKeyByID  = "book:id:%s"
)

const bookColumns = `id, author_id, title, slug, description, cover_url, published_at, created_at, updated_at`

type postgresRepository struct {
	db    *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(db *pgxpool.Pool, cacheClient cache.Cache) Repository {
	return &postgresRepository{db: db, cache: cacheClient}
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (id, author_id, title, slug, description, cover_url, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRow(ctx, query,
		book.ID, book.AuthorID, book.Title, book.Slug,
		book.Description, book.CoverURL, book.PublishedAt,
	).Scan(&book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to create book: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	cacheKey := fmt.Sprintf(bookKeyByID, id)
	var cached model.Book
	if found, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	var b model.Book
	err := r.db.QueryRow(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, id).Scan(
		&b.ID, &b.AuthorID, &b.Title, &b.Slug, &b.Description,
		&b.CoverURL, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}

	if err := r.cache.Set(ctx, cacheKey, &b, bookCacheTTL); err != nil {
		logger.Warn("failed to cache book", map[string]interface{}{"id": id, "error": err.Error()})
	}
	return &b, nil
}

func (r *postgresRepository) GetBySlug(ctx context.Context, authorID uuid.UUID, slug string) (*model.Book, error) {
	var b model.Book
	err := r.db.QueryRow(ctx,
		`SELECT `+bookColumns+` FROM books WHERE author_id = $1 AND slug = $2`,
		authorID, slug,
	).Scan(
		&b.ID, &b.AuthorID, &b.Title, &b.Slug, &b.Description,
		&b.CoverURL, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookNotFound
		}
		return nil, fmt.Errorf("failed to get book by slug: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, filter *model.ListFilter) ([]*model.Book, int64, error) {
	filter.Normalize()

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM books WHERE author_id = $1`, authorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+bookColumns+` FROM books WHERE author_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		authorID, filter.Limit, filter.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	var books []*model.Book
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(
			&b.ID, &b.AuthorID, &b.Title, &b.Slug, &b.Description,
			&b.CoverURL, &b.PublishedAt, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, &b)
	}
	return books, total, rows.Err()
}

func (r *postgresRepository) Update(ctx context.Context, book *model.Book) error {
	query := `
		UPDATE books
		SET title = $1, slug = $2, description = $3, cover_url = $4,
		    published_at = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at`

	err := r.db.QueryRow(ctx, query,
		book.Title, book.Slug, book.Description, book.CoverURL,
		book.PublishedAt, book.ID,
	).Scan(&book.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrBookNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrSlugTaken
		}
		return fmt.Errorf("failed to update book: %w", err)
	}

	r.invalidate(ctx, book.ID)
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBookNotFound
	}
	r.invalidate(ctx, id)
	return nil
}

func (r *postgresRepository) invalidate(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, fmt.Sprintf(bookKeyByID, id)); err != nil {
		logger.Warn("failed to invalidate book cache", map[string]interface{}{"id": id, "error": err.Error()})
	}
}
