package session

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"quilltips-backend/pkg/cache"
)

const sessionKeyPrefix = "session:"

// Record is what the store keeps per live session.
type Record struct {
	AccountID uuid.UUID `json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Store tracks live sessions in redis. A session exists from login until
// logout or TTL expiry; revocation deletes the key synchronously so every
// later Validate fails closed.
type Store interface {
	Create(ctx context.Context, accountID uuid.UUID, ttl time.Duration) (string, error)
	Validate(ctx context.Context, sessionID string) (bool, error)
	Get(ctx context.Context, sessionID string) (*Record, error)
	Revoke(ctx context.Context, sessionID string) error
}

type redisStore struct {
	cache cache.Cache
}

func NewStore(c cache.Cache) Store {
	return &redisStore{cache: c}
}

func (s *redisStore) Create(ctx context.Context, accountID uuid.UUID, ttl time.Duration) (string, error) {
	sessionID := uuid.NewString()
	record := Record{AccountID: accountID, CreatedAt: time.Now()}

	if err := s.cache.Set(ctx, sessionKeyPrefix+sessionID, record, ttl); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return sessionID, nil
}

func (s *redisStore) Validate(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	return s.cache.Exists(ctx, sessionKeyPrefix+sessionID)
}

func (s *redisStore) Get(ctx context.Context, sessionID string) (*Record, error) {
	var record Record
	found, err := s.cache.Get(ctx, sessionKeyPrefix+sessionID, &record)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &record, nil
}

func (s *redisStore) Revoke(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKeyPrefix+sessionID)
}
