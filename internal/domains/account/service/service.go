package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"golang.org/x/crypto/bcrypt"

	"quilltips-backend/internal/domains/account/model"
	"quilltips-backend/internal/domains/account/repository"
	"quilltips-backend/internal/domains/account/session"
	"quilltips-backend/internal/domains/author/draft"
	authorservice "quilltips-backend/internal/domains/author/service"
	"quilltips-backend/internal/shared"
	"quilltips-backend/pkg/jwt"
	"quilltips-backend/pkg/logger"
)

const bcryptCost = 12

type Service interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AccountDTO, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	// Logout revokes the session, broadcasts the sign-out, and drops any
	// open profile draft. Revocation is the step that must not fail for
	// the caller; the rest is best effort.
	Logout(ctx context.Context, accountID uuid.UUID, sessionID string) error
	Refresh(ctx context.Context, req *model.RefreshRequest) (*model.RefreshResponse, error)
}

type service struct {
	repo     repository.Repository
	authors  authorservice.Service
	drafts   draft.Service
	sessions session.Store
	notifier *session.Notifier
	jwt      *jwt.Manager
	queue    *asynq.Client
}

func NewService(
	repo repository.Repository,
	authors authorservice.Service,
	drafts draft.Service,
	sessions session.Store,
	notifier *session.Notifier,
	jwtManager *jwt.Manager,
	queue *asynq.Client,
) Service {
	return &service{
		repo:     repo,
		authors:  authors,
		drafts:   drafts,
		sessions: sessions,
		notifier: notifier,
		jwt:      jwtManager,
		queue:    queue,
	}
}

func (s *service) Register(ctx context.Context, req *model.RegisterRequest) (*model.AccountDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := &model.Account{
		ID:           uuid.New(),
		Email:        req.Email,
		PasswordHash: string(hash),
	}
	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	if _, err := s.authors.CreateProfile(ctx, account.ID, req.Name); err != nil {
		// An account without a profile can never log in and its email
		// stays claimed, so the insert is compensated.
		if delErr := s.repo.Delete(ctx, account.ID); delErr != nil {
			logger.Error("failed to remove account after profile create failure", delErr)
		}
		return nil, fmt.Errorf("failed to create profile for new account: %w", err)
	}

	s.enqueueWelcome(req.Email, req.Name)

	logger.Info("account registered", map[string]interface{}{"account_id": account.ID})
	dto := account.ToDTO()
	return &dto, nil
}

func (s *service) enqueueWelcome(email, name string) {
	data, err := json.Marshal(shared.WelcomeEmailPayload{Email: email, Name: name})
	if err != nil {
		logger.Error("failed to marshal welcome payload", err)
		return
	}
	task := asynq.NewTask(shared.TypeSendWelcomeEmail, data)
	if _, err := s.queue.Enqueue(task, asynq.Queue(shared.QueueEmail), asynq.MaxRetry(3)); err != nil {
		logger.Error("failed to enqueue welcome email", err)
	}
}

func (s *service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrAccountNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	role, err := s.authors.Role(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.sessions.Create(ctx, account.ID, s.jwt.RefreshExpiry())
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := s.jwt.GenerateAccessToken(account.ID.String(), account.Email, role, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(account.ID.String(), sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &model.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(s.jwt.AccessExpiry()),
		Account:      account.ToDTO(),
	}, nil
}

func (s *service) Logout(ctx context.Context, accountID uuid.UUID, sessionID string) error {
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}

	s.notifier.Publish(session.Event{
		Type:      session.EventSignedOut,
		SessionID: sessionID,
		AccountID: accountID,
	})
	s.drafts.DiscardIfExists(ctx, accountID)

	logger.Info("account signed out", map[string]interface{}{"account_id": accountID})
	return nil
}

func (s *service) Refresh(ctx context.Context, req *model.RefreshRequest) (*model.RefreshResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}

	record, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if record == nil {
		return nil, model.ErrSessionRevoked
	}

	accountID, err := uuid.Parse(claims.AccountID)
	if err != nil {
		return nil, model.ErrInvalidCredentials
	}
	// The session must belong to the token's account; a mismatch means a
	// forged or replayed token.
	if record.AccountID != accountID {
		return nil, model.ErrInvalidCredentials
	}

	account, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	role, err := s.authors.Role(ctx, accountID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateAccessToken(account.ID.String(), account.Email, role, claims.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	return &model.RefreshResponse{
		AccessToken: accessToken,
		ExpiresAt:   time.Now().Add(s.jwt.AccessExpiry()),
	}, nil
}
