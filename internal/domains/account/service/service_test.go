package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quilltips-backend/internal/domains/account/model"
	"quilltips-backend/internal/domains/account/session"
	authormodel "quilltips-backend/internal/domains/author/model"
	authorservice "quilltips-backend/internal/domains/author/service"
	"quilltips-backend/pkg/jwt"
)

type fakeAccounts struct {
	byID map[uuid.UUID]*model.Account
}

func newFakeAccounts() *fakeAccounts {
	return &fakeAccounts{byID: make(map[uuid.UUID]*model.Account)}
}

func (f *fakeAccounts) Create(ctx context.Context, account *model.Account) error {
	for _, a := range f.byID {
		if a.Email == account.Email {
			return model.ErrEmailAlreadyExists
		}
	}
	account.CreatedAt = time.Now()
	f.byID[account.ID] = account
	return nil
}

func (f *fakeAccounts) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	for _, a := range f.byID {
		if a.Email == email {
			return a, nil
		}
	}
	return nil, model.ErrAccountNotFound
}

func (f *fakeAccounts) GetByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	a, ok := f.byID[id]
	if !ok {
		return nil, model.ErrAccountNotFound
	}
	return a, nil
}

func (f *fakeAccounts) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	return err == nil, nil
}

func (f *fakeAccounts) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

type fakeAuthors struct {
	authorservice.Service
	createErr error
	created   []uuid.UUID
	role      string
}

func (f *fakeAuthors) CreateProfile(ctx context.Context, accountID uuid.UUID, name string) (*authormodel.Profile, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, accountID)
	return &authormodel.Profile{ID: accountID, Name: name}, nil
}

func (f *fakeAuthors) Role(ctx context.Context, accountID uuid.UUID) (string, error) {
	return f.role, nil
}

type fakeSessions struct {
	record *session.Record
}

func (f *fakeSessions) Create(ctx context.Context, accountID uuid.UUID, ttl time.Duration) (string, error) {
	f.record = &session.Record{AccountID: accountID, CreatedAt: time.Now()}
	return uuid.NewString(), nil
}

func (f *fakeSessions) Validate(ctx context.Context, sessionID string) (bool, error) {
	return f.record != nil, nil
}

func (f *fakeSessions) Get(ctx context.Context, sessionID string) (*session.Record, error) {
	return f.record, nil
}

func (f *fakeSessions) Revoke(ctx context.Context, sessionID string) error {
	f.record = nil
	return nil
}

// deadLetterQueue points at a closed port; enqueues fail fast and the
// service is expected to swallow them.
func deadLetterQueue() *asynq.Client {
	return asynq.NewClient(asynq.RedisClientOpt{Addr: "127.0.0.1:1"})
}

func newTestService(repo *fakeAccounts, authors *fakeAuthors, sessions *fakeSessions) Service {
	return NewService(
		repo,
		authors,
		nil,
		sessions,
		session.NewNotifier(),
		jwt.NewManager("test-secret", time.Minute, time.Hour),
		deadLetterQueue(),
	)
}

func registerRequest() *model.RegisterRequest {
	return &model.RegisterRequest{
		Email:    "jane@example.com",
		Password: "correct horse battery",
		Name:     "Jane Austen",
	}
}

func TestRegisterCreatesAccountAndProfile(t *testing.T) {
	repo := newFakeAccounts()
	authors := &fakeAuthors{role: authormodel.RoleAuthor}
	svc := newTestService(repo, authors, &fakeSessions{})

	dto, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	require.NotNil(t, dto)

	assert.Equal(t, "jane@example.com", dto.Email)
	assert.Equal(t, []uuid.UUID{dto.ID}, authors.created)

	exists, err := repo.ExistsByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRegisterProfileFailureLeavesNoAccountBehind(t *testing.T) {
	repo := newFakeAccounts()
	authors := &fakeAuthors{createErr: errors.New("connection reset")}
	svc := newTestService(repo, authors, &fakeSessions{})

	_, err := svc.Register(context.Background(), registerRequest())
	require.Error(t, err)

	// The email must stay free to register again.
	exists, err := repo.ExistsByEmail(context.Background(), "jane@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := newFakeAccounts()
	authors := &fakeAuthors{role: authormodel.RoleAuthor}
	svc := newTestService(repo, authors, &fakeSessions{})

	_, err := svc.Register(context.Background(), registerRequest())
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, model.ErrEmailAlreadyExists)
}

func TestRefreshIssuesNewAccessToken(t *testing.T) {
	repo := newFakeAccounts()
	accountID := uuid.New()
	repo.byID[accountID] = &model.Account{ID: accountID, Email: "jane@example.com"}

	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	sessions := &fakeSessions{record: &session.Record{AccountID: accountID}}
	svc := NewService(repo, &fakeAuthors{role: authormodel.RoleAuthor}, nil, sessions,
		session.NewNotifier(), manager, deadLetterQueue())

	refreshToken, err := manager.GenerateRefreshToken(accountID.String(), "session-1")
	require.NoError(t, err)

	resp, err := svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: refreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	claims, err := manager.ValidateAccessToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, accountID.String(), claims.AccountID)
}

func TestRefreshRevokedSessionFails(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	svc := NewService(newFakeAccounts(), &fakeAuthors{}, nil, &fakeSessions{},
		session.NewNotifier(), manager, deadLetterQueue())

	refreshToken, err := manager.GenerateRefreshToken(uuid.NewString(), "session-1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: refreshToken})
	assert.ErrorIs(t, err, model.ErrSessionRevoked)
}

func TestRefreshRejectsSessionOwnedByAnotherAccount(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Minute, time.Hour)
	sessions := &fakeSessions{record: &session.Record{AccountID: uuid.New()}}
	svc := NewService(newFakeAccounts(), &fakeAuthors{}, nil, sessions,
		session.NewNotifier(), manager, deadLetterQueue())

	refreshToken, err := manager.GenerateRefreshToken(uuid.NewString(), "session-1")
	require.NoError(t, err)

	_, err = svc.Refresh(context.Background(), &model.RefreshRequest{RefreshToken: refreshToken})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}
