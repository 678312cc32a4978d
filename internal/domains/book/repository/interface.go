package repository

import (
	"context"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/book/model"
)

type Repository interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetBySlug(ctx context.Context, authorID uuid.UUID, slug string) (*model.Book, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, filter *model.ListFilter) ([]*model.Book, int64, error)
	Update(ctx context.Context, book *model.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
}
