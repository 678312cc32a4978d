package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/book/model"
	"quilltips-backend/internal/domains/book/repository"
	"quilltips-backend/internal/shared/utils"
	"quilltips-backend/pkg/logger"
)

type Service interface {
	Create(ctx context.Context, authorID uuid.UUID, req *model.CreateBookRequest) (*model.Book, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	GetBySlug(ctx context.Context, authorID uuid.UUID, slug string) (*model.Book, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, filter *model.ListFilter) ([]*model.Book, int64, error)
	// Update and Delete enforce ownership: only the book's author may
	// change it.
	Update(ctx context.Context, authorID, bookID uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error)
	Delete(ctx context.Context, authorID, bookID uuid.UUID) error
}

type service struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, req *model.CreateBookRequest) (*model.Book, error) {
	book := &model.Book{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Title:       req.Title,
		Slug:        utils.GenerateSlug(req.Title),
		Description: req.Description,
		PublishedAt: req.PublishedAt,
	}

	err := s.repo.Create(ctx, book)
	if errors.Is(err, model.ErrSlugTaken) {
		book.Slug = fmt.Sprintf("%s-%s", book.Slug, book.ID.String()[:8])
		err = s.repo.Create(ctx, book)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("book created", map[string]interface{}{
		"book_id":   book.ID,
		"author_id": authorID,
	})
	return book, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, authorID uuid.UUID, slug string) (*model.Book, error) {
	return s.repo.GetBySlug(ctx, authorID, slug)
}

func (s *service) ListByAuthor(ctx context.Context, authorID uuid.UUID, filter *model.ListFilter) ([]*model.Book, int64, error) {
	return s.repo.ListByAuthor(ctx, authorID, filter)
}

func (s *service) Update(ctx context.Context, authorID, bookID uuid.UUID, req *model.UpdateBookRequest) (*model.Book, error) {
	book, err := s.owned(ctx, authorID, bookID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
		book.Slug = utils.GenerateSlug(*req.Title)
	}
	if req.Description != nil {
		book.Description = req.Description
	}
	if req.PublishedAt != nil {
		book.PublishedAt = req.PublishedAt
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}
	return book, nil
}

func (s *service) Delete(ctx context.Context, authorID, bookID uuid.UUID) error {
	if _, err := s.owned(ctx, authorID, bookID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, bookID)
}

func (s *service) owned(ctx context.Context, authorID, bookID uuid.UUID) (*model.Book, error) {
	book, err := s.repo.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book.AuthorID != authorID {
		return nil, model.ErrNotOwner
	}
	return book, nil
}
