package service

import (
	"context"

	"github.com/google/uuid"

	bookmodel "quilltips-backend/internal/domains/book/model"
	bookservice "quilltips-backend/internal/domains/book/service"
	"quilltips-backend/internal/domains/qrcode/model"
	"quilltips-backend/internal/domains/qrcode/repository"
	"quilltips-backend/internal/shared/utils"
	"quilltips-backend/pkg/logger"
)

type Service interface {
	// Create issues a code for one of the author's own books.
	Create(ctx context.Context, authorID uuid.UUID, req *model.CreateQRCodeRequest) (*model.QRCode, error)
	ListMine(ctx context.Context, authorID uuid.UUID) ([]*model.QRCodeStats, error)
	// Resolve maps a scanned code to the canonical book page URL.
	Resolve(ctx context.Context, id uuid.UUID) (*model.ResolveResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.QRCode, error)
	Delete(ctx context.Context, authorID, id uuid.UUID) error
}

type service struct {
	repo   repository.Repository
	books  bookservice.Service
	origin string
}

func NewService(repo repository.Repository, books bookservice.Service, publicOrigin string) Service {
	return &service{repo: repo, books: books, origin: publicOrigin}
}

func (s *service) Create(ctx context.Context, authorID uuid.UUID, req *model.CreateQRCodeRequest) (*model.QRCode, error) {
	book, err := s.books.GetByID(ctx, req.BookID)
	if err != nil {
		return nil, err
	}
	if book.AuthorID != authorID {
		return nil, bookmodel.ErrNotOwner
	}

	qr := &model.QRCode{
		ID:       uuid.New(),
		AuthorID: authorID,
		BookID:   book.ID,
		Label:    req.Label,
	}
	if err := s.repo.Create(ctx, qr); err != nil {
		return nil, err
	}

	logger.Info("qr code created", map[string]interface{}{
		"qr_code_id": qr.ID,
		"book_id":    book.ID,
	})
	return qr, nil
}

func (s *service) ListMine(ctx context.Context, authorID uuid.UUID) ([]*model.QRCodeStats, error) {
	return s.repo.ListByAuthor(ctx, authorID)
}

func (s *service) Resolve(ctx context.Context, id uuid.UUID) (*model.ResolveResponse, error) {
	qr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	book, err := s.books.GetByID(ctx, qr.BookID)
	if err != nil {
		return nil, err
	}

	return &model.ResolveResponse{
		QRCodeID:  qr.ID,
		AuthorID:  qr.AuthorID,
		BookID:    book.ID,
		TargetURL: utils.CanonicalURL(s.origin, utils.AuthorBookURL(book.Slug, book.ID)),
	}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*model.QRCode, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, authorID, id uuid.UUID) error {
	qr, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if qr.AuthorID != authorID {
		return model.ErrNotOwner
	}
	return s.repo.Delete(ctx, id)
}
