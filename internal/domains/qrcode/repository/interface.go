package repository

import (
	"context"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/qrcode/model"
)

type Repository interface {
	Create(ctx context.Context, qr *model.QRCode) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.QRCode, error)
	// ListByAuthor returns the author's codes with paid-tip totals joined
	// in, newest first.
	ListByAuthor(ctx context.Context, authorID uuid.UUID) ([]*model.QRCodeStats, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
