package repository

import (
	"context"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/account/model"
)

type Repository interface {
	Create(ctx context.Context, account *model.Account) error
	FindByEmail(ctx context.Context, email string) (*model.Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Delete compensates a registration whose profile insert failed. An
	// account without a profile can never log in, and its email would be
	// blocked forever.
	Delete(ctx context.Context, id uuid.UUID) error
}
