package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	stripesdk "github.com/stripe/stripe-go/v82"

	authormodel "quilltips-backend/internal/domains/author/model"
	authorservice "quilltips-backend/internal/domains/author/service"
	"quilltips-backend/internal/domains/checkout/stripe"
	tipmodel "quilltips-backend/internal/domains/tip/model"
	tipservice "quilltips-backend/internal/domains/tip/service"
	"quilltips-backend/pkg/cache"
)

// Fakes embed the interfaces they stand in for so only the methods the
// checkout flow actually touches need bodies.

type fakePayments struct {
	sessionID string
	url       string
	err       error
	event     stripesdk.Event
	eventErr  error
}

func (f *fakePayments) CreateTipSession(params stripe.TipSessionParams) (string, string, error) {
	return f.sessionID, f.url, f.err
}

func (f *fakePayments) ConstructWebhookEvent(payload []byte, sigHeader string) (stripesdk.Event, error) {
	return f.event, f.eventErr
}

type fakeTips struct {
	tipservice.Service
	created   []*tipmodel.Tip
	createErr error
}

func (f *fakeTips) CreatePending(ctx context.Context, tip *tipmodel.Tip) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, tip)
	return nil
}

type fakeAuthors struct {
	authorservice.Service
	profile *authormodel.Profile
	err     error
}

func (f *fakeAuthors) GetByID(ctx context.Context, id uuid.UUID) (*authormodel.Profile, error) {
	return f.profile, f.err
}

type fakeCache struct {
	cache.Cache
	locked  map[string]bool
	deleted []string
	nxErr   error
}

func newFakeCache() *fakeCache {
	return &fakeCache{locked: make(map[string]bool)}
}

func (f *fakeCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	if f.nxErr != nil {
		return false, f.nxErr
	}
	if f.locked[key] {
		return false, nil
	}
	f.locked[key] = true
	return true, nil
}

func (f *fakeCache) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.locked, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func beginRequest(authorID uuid.UUID) *BeginRequest {
	return &BeginRequest{
		AuthorID: &authorID,
		Amount:   decimal.NewFromInt(5),
	}
}

func TestBeginCreatesPendingTip(t *testing.T) {
	authorID := uuid.New()
	tips := &fakeTips{}
	svc := NewService(
		&fakePayments{sessionID: "cs_test_1", url: "https://checkout.stripe.com/pay/cs_test_1"},
		tips, nil, nil,
		&fakeAuthors{profile: &authormodel.Profile{ID: authorID, Name: "Jane Austen"}},
		newFakeCache(),
	)

	resp, err := svc.Begin(context.Background(), "visitor-1", beginRequest(authorID))
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.stripe.com/pay/cs_test_1", resp.CheckoutURL)
	require.Len(t, tips.created, 1)
	assert.Equal(t, resp.TipID, tips.created[0].ID)
	assert.Equal(t, "cs_test_1", *tips.created[0].StripeSessionID)
}

func TestBeginHeldLockRejectsSecondCheckout(t *testing.T) {
	authorID := uuid.New()
	cacheClient := newFakeCache()
	tips := &fakeTips{}
	svc := NewService(
		&fakePayments{sessionID: "cs_test_1", url: "https://checkout.stripe.com/pay/cs_test_1"},
		tips, nil, nil,
		&fakeAuthors{profile: &authormodel.Profile{ID: authorID, Name: "Jane Austen"}},
		cacheClient,
	)

	_, err := svc.Begin(context.Background(), "visitor-1", beginRequest(authorID))
	require.NoError(t, err)

	_, err = svc.Begin(context.Background(), "visitor-1", beginRequest(authorID))
	assert.ErrorIs(t, err, ErrCheckoutInProgress)
	assert.Len(t, tips.created, 1)
}

func TestBeginMissingRedirectURLReleasesLock(t *testing.T) {
	authorID := uuid.New()
	cacheClient := newFakeCache()
	tips := &fakeTips{}
	svc := NewService(
		&fakePayments{sessionID: "cs_test_1", url: ""},
		tips, nil, nil,
		&fakeAuthors{profile: &authormodel.Profile{ID: authorID, Name: "Jane Austen"}},
		cacheClient,
	)

	_, err := svc.Begin(context.Background(), "visitor-1", beginRequest(authorID))
	assert.ErrorIs(t, err, ErrCheckoutUnavailable)

	// No tip exists and the page is unlocked for a retry.
	assert.Empty(t, tips.created)
	assert.Empty(t, cacheClient.locked)
}

func TestBeginProviderErrorReleasesLock(t *testing.T) {
	authorID := uuid.New()
	cacheClient := newFakeCache()
	svc := NewService(
		&fakePayments{err: errors.New("stripe is down")},
		&fakeTips{}, nil, nil,
		&fakeAuthors{profile: &authormodel.Profile{ID: authorID, Name: "Jane Austen"}},
		cacheClient,
	)

	_, err := svc.Begin(context.Background(), "visitor-1", beginRequest(authorID))
	assert.Error(t, err)
	assert.Empty(t, cacheClient.locked)
}

func TestBeginWithoutTargetFails(t *testing.T) {
	svc := NewService(&fakePayments{}, &fakeTips{}, nil, nil, &fakeAuthors{}, newFakeCache())

	_, err := svc.Begin(context.Background(), "visitor-1", &BeginRequest{Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, ErrMissingTarget)
}

func TestDifferentVisitorsDoNotShareLocks(t *testing.T) {
	authorID := uuid.New()
	svc := NewService(
		&fakePayments{sessionID: "cs_test_1", url: "https://checkout.stripe.com/pay/cs_test_1"},
		&fakeTips{}, nil, nil,
		&fakeAuthors{profile: &authormodel.Profile{ID: authorID, Name: "Jane Austen"}},
		newFakeCache(),
	)

	_, err := svc.Begin(context.Background(), "visitor-1", beginRequest(authorID))
	require.NoError(t, err)

	_, err = svc.Begin(context.Background(), "visitor-2", beginRequest(authorID))
	assert.NoError(t, err)
}
