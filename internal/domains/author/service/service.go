package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"quilltips-backend/internal/domains/author/model"
	"quilltips-backend/internal/domains/author/repository"
	"quilltips-backend/internal/shared/utils"
	"quilltips-backend/pkg/logger"
)

type Service interface {
	// CreateProfile provisions the profile that backs a new account.
	CreateProfile(ctx context.Context, accountID uuid.UUID, name string) (*model.Profile, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	GetBySlug(ctx context.Context, slug string) (*model.Profile, error)
	Search(ctx context.Context, filter *model.SearchFilter) ([]*model.Profile, int64, error)
	UpdateAvatar(ctx context.Context, accountID uuid.UUID, avatarURL string) error
	// Role satisfies the auth middleware's role lookup.
	Role(ctx context.Context, accountID uuid.UUID) (string, error)
}

type service struct {
	repo repository.Repository
}

func NewService(repo repository.Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateProfile(ctx context.Context, accountID uuid.UUID, name string) (*model.Profile, error) {
	profile := &model.Profile{
		ID:          accountID,
		Name:        name,
		Slug:        utils.GenerateSlug(name),
		Role:        model.RoleAuthor,
		SocialLinks: []model.SocialLink{},
	}

	err := s.repo.Create(ctx, profile)
	if errors.Is(err, model.ErrSlugTaken) {
		profile.Slug = fmt.Sprintf("%s-%s", profile.Slug, accountID.String()[:8])
		err = s.repo.Create(ctx, profile)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("author profile created", map[string]interface{}{
		"account_id": accountID,
		"slug":       profile.Slug,
	})
	return profile, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*model.Profile, error) {
	return s.repo.GetBySlug(ctx, slug)
}

func (s *service) Search(ctx context.Context, filter *model.SearchFilter) ([]*model.Profile, int64, error) {
	return s.repo.Search(ctx, filter)
}

func (s *service) UpdateAvatar(ctx context.Context, accountID uuid.UUID, avatarURL string) error {
	return s.repo.UpdateAvatar(ctx, accountID, avatarURL)
}

func (s *service) Role(ctx context.Context, accountID uuid.UUID) (string, error) {
	return s.repo.Role(ctx, accountID)
}
