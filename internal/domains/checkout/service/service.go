package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	stripesdk "github.com/stripe/stripe-go/v82"

	authorservice "quilltips-backend/internal/domains/author/service"
	bookservice "quilltips-backend/internal/domains/book/service"
	"quilltips-backend/internal/domains/checkout/stripe"
	qrservice "quilltips-backend/internal/domains/qrcode/service"
	tipmodel "quilltips-backend/internal/domains/tip/model"
	tipservice "quilltips-backend/internal/domains/tip/service"
	"quilltips-backend/pkg/cache"
	"quilltips-backend/pkg/logger"
)

const (
	lockKeyPrefix = "checkout:lock:"
	// lockTTL bounds a stuck checkout. The lock is released early on
	// failure but expires on its own otherwise.
	lockTTL = 10 * time.Minute

	defaultCurrency = "usd"
)

var (
	ErrCheckoutInProgress = errors.New("a checkout is already in progress for this page")
	ErrMissingTarget      = errors.New("author_id or qr_code_id is required")
	// ErrCheckoutUnavailable is the user-facing failure: the payment
	// provider accepted the session but gave us nowhere to send the
	// reader.
	ErrCheckoutUnavailable = errors.New("checkout is temporarily unavailable, please try again")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrCheckoutInProgress):
		return http.StatusConflict
	case errors.Is(err, ErrMissingTarget):
		return http.StatusBadRequest
	case errors.Is(err, ErrCheckoutUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// BeginRequest starts a tip checkout. Either QRCodeID or AuthorID must be
// set; a QR code pins the tip to its book.
type BeginRequest struct {
	QRCodeID    *uuid.UUID      `json:"qr_code_id"`
	AuthorID    *uuid.UUID      `json:"author_id"`
	BookID      *uuid.UUID      `json:"book_id"`
	Amount      decimal.Decimal `json:"amount"`
	Message     *string         `json:"message"`
	ReaderName  *string         `json:"reader_name"`
	ReaderEmail *string         `json:"reader_email"`
}

func (r BeginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.By(func(interface{}) error {
			min := decimal.NewFromInt(1)
			max := decimal.NewFromInt(1000)
			if r.Amount.LessThan(min) || r.Amount.GreaterThan(max) {
				return validation.NewError("validation_amount", "amount must be between 1 and 1000")
			}
			return nil
		})),
		validation.Field(&r.Message, validation.Length(0, 500)),
		validation.Field(&r.ReaderName, validation.Length(0, 100)),
		validation.Field(&r.ReaderEmail, validation.When(r.ReaderEmail != nil, is.EmailFormat)),
	)
}

type BeginResponse struct {
	TipID       uuid.UUID `json:"tip_id"`
	CheckoutURL string    `json:"checkout_url"`
}

// PaymentClient is the slice of the stripe client the service needs.
type PaymentClient interface {
	CreateTipSession(params stripe.TipSessionParams) (string, string, error)
	ConstructWebhookEvent(payload []byte, sigHeader string) (stripesdk.Event, error)
}

type Service interface {
	Begin(ctx context.Context, visitorID string, req *BeginRequest) (*BeginResponse, error)
	// HandleWebhook processes a verified Stripe event. Unknown event
	// types are ignored.
	HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error
}

type service struct {
	payments PaymentClient
	tips     tipservice.Service
	qrcodes  qrservice.Service
	books    bookservice.Service
	authors  authorservice.Service
	cache    cache.Cache
}

func NewService(
	payments PaymentClient,
	tips tipservice.Service,
	qrcodes qrservice.Service,
	books bookservice.Service,
	authors authorservice.Service,
	cacheClient cache.Cache,
) Service {
	return &service{
		payments: payments,
		tips:     tips,
		qrcodes:  qrcodes,
		books:    books,
		authors:  authors,
		cache:    cacheClient,
	}
}

func (s *service) Begin(ctx context.Context, visitorID string, req *BeginRequest) (*BeginResponse, error) {
	authorID, bookID, qrCodeID, err := s.resolveTarget(ctx, req)
	if err != nil {
		return nil, err
	}

	lockKey := s.lockKey(visitorID, authorID, bookID)
	acquired, err := s.cache.SetNX(ctx, lockKey, "1", lockTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !acquired {
		return nil, ErrCheckoutInProgress
	}

	author, err := s.authors.GetByID(ctx, authorID)
	if err != nil {
		s.releaseLock(ctx, lockKey)
		return nil, err
	}
	bookTitle := ""
	if bookID != nil {
		if book, err := s.books.GetByID(ctx, *bookID); err == nil {
			bookTitle = book.Title
		}
	}

	tipID := uuid.New()
	sessionID, checkoutURL, err := s.payments.CreateTipSession(stripe.TipSessionParams{
		TipID:       tipID.String(),
		AuthorName:  author.Name,
		BookTitle:   bookTitle,
		AmountCents: req.Amount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:    defaultCurrency,
		ReaderEmail: stringValue(req.ReaderEmail),
	})
	if err != nil {
		s.releaseLock(ctx, lockKey)
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	if checkoutURL == "" {
		s.releaseLock(ctx, lockKey)
		logger.Error("checkout session missing redirect url", nil)
		return nil, ErrCheckoutUnavailable
	}

	tip := &tipmodel.Tip{
		ID:              tipID,
		AuthorID:        authorID,
		BookID:          bookID,
		QRCodeID:        qrCodeID,
		VisitorID:       visitorID,
		Amount:          req.Amount,
		Currency:        defaultCurrency,
		Message:         req.Message,
		ReaderName:      req.ReaderName,
		ReaderEmail:     req.ReaderEmail,
		StripeSessionID: &sessionID,
	}
	if err := s.tips.CreatePending(ctx, tip); err != nil {
		s.releaseLock(ctx, lockKey)
		return nil, err
	}

	logger.Info("checkout started", map[string]interface{}{
		"tip_id":    tipID,
		"author_id": authorID,
	})
	return &BeginResponse{TipID: tipID, CheckoutURL: checkoutURL}, nil
}

// resolveTarget figures out who gets the tip. A QR code is authoritative
// for its author and book; otherwise the request must name the author.
func (s *service) resolveTarget(ctx context.Context, req *BeginRequest) (uuid.UUID, *uuid.UUID, *uuid.UUID, error) {
	if req.QRCodeID != nil {
		qr, err := s.qrcodes.GetByID(ctx, *req.QRCodeID)
		if err != nil {
			return uuid.Nil, nil, nil, err
		}
		bookID := qr.BookID
		return qr.AuthorID, &bookID, req.QRCodeID, nil
	}
	if req.AuthorID == nil {
		return uuid.Nil, nil, nil, ErrMissingTarget
	}
	return *req.AuthorID, req.BookID, nil, nil
}

func (s *service) lockKey(visitorID string, authorID uuid.UUID, bookID *uuid.UUID) string {
	target := authorID.String()
	if bookID != nil {
		target = bookID.String()
	}
	return lockKeyPrefix + visitorID + ":" + target
}

func (s *service) releaseLock(ctx context.Context, key string) {
	if err := s.cache.Delete(ctx, key); err != nil {
		logger.Warn("failed to release checkout lock", map[string]interface{}{
			"key":   key,
			"error": err.Error(),
		})
	}
}

func (s *service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.payments.ConstructWebhookEvent(payload, sigHeader)
	if err != nil {
		return fmt.Errorf("invalid webhook signature: %w", err)
	}

	switch event.Type {
	case "checkout.session.completed":
		return s.finalize(ctx, event, true)
	case "checkout.session.expired":
		return s.finalize(ctx, event, false)
	default:
		logger.Debug("ignoring stripe event", map[string]interface{}{"type": string(event.Type)})
		return nil
	}
}

func (s *service) finalize(ctx context.Context, event stripesdk.Event, paid bool) error {
	var sess stripesdk.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return fmt.Errorf("unmarshal checkout session: %w", err)
	}

	tip, err := s.tips.GetByStripeSession(ctx, sess.ID)
	if err != nil {
		if errors.Is(err, tipmodel.ErrTipNotFound) {
			logger.Warn("webhook for unknown checkout session", map[string]interface{}{"session_id": sess.ID})
			return nil
		}
		return err
	}

	lockKey := s.lockKey(tip.VisitorID, tip.AuthorID, tip.BookID)
	s.releaseLock(ctx, lockKey)

	if paid {
		return s.tips.ConfirmPaid(ctx, tip.ID)
	}
	return s.tips.MarkFailed(ctx, tip.ID)
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
