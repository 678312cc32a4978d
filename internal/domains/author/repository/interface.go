package repository

import (
	"context"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/author/model"
)

type Repository interface {
	Create(ctx context.Context, profile *model.Profile) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetBySlug(ctx context.Context, slug string) (*model.Profile, error)
	// Update persists all editable fields. expectedVersion must match the
	// stored row or ErrVersionConflict is returned.
	Update(ctx context.Context, profile *model.Profile, expectedVersion int) error
	UpdateAvatar(ctx context.Context, id uuid.UUID, avatarURL string) error
	Role(ctx context.Context, id uuid.UUID) (string, error)
	Search(ctx context.Context, filter *model.SearchFilter) ([]*model.Profile, int64, error)
}
