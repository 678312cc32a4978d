package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tip lifecycle. A tip is created pending when checkout starts and moves
// to paid or failed exactly once.
const (
	StatusPending = "pending"
	StatusPaid    = "paid"
	StatusFailed  = "failed"
)

type Tip struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	AuthorID        uuid.UUID       `json:"author_id" db:"author_id"`
	BookID          *uuid.UUID      `json:"book_id" db:"book_id"`
	QRCodeID        *uuid.UUID      `json:"qr_code_id" db:"qr_code_id"`
	VisitorID       string          `json:"-" db:"visitor_id"`
	Amount          decimal.Decimal `json:"amount" db:"amount"`
	Currency        string          `json:"currency" db:"currency"`
	Message         *string         `json:"message" db:"message"`
	ReaderName      *string         `json:"reader_name" db:"reader_name"`
	ReaderEmail     *string         `json:"-" db:"reader_email"`
	Status          string          `json:"status" db:"status"`
	StripeSessionID *string         `json:"-" db:"stripe_session_id"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// PublicTip is the author-page feed entry. It hides everything that could
// identify the reader beyond the name they chose to share.
type PublicTip struct {
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Message    *string         `json:"message,omitempty"`
	ReaderName string          `json:"reader_name"`
	CreatedAt  time.Time       `json:"created_at"`
}

const anonymousReader = "Anonymous"

func (t *Tip) ToPublic() *PublicTip {
	name := anonymousReader
	if t.ReaderName != nil && *t.ReaderName != "" {
		name = *t.ReaderName
	}
	return &PublicTip{
		Amount:     t.Amount,
		Currency:   t.Currency,
		Message:    t.Message,
		ReaderName: name,
		CreatedAt:  t.CreatedAt,
	}
}

type HistoryFilter struct {
	Status string `form:"status"`
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
}

func (f *HistoryFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f *HistoryFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// EarningsSummary is the dashboard headline figure.
type EarningsSummary struct {
	TotalAmount decimal.Decimal `json:"total_amount"`
	TipCount    int64           `json:"tip_count"`
	Currency    string          `json:"currency"`
}
