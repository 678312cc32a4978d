package shared

import (
	"time"

	"github.com/google/uuid"
)

// Asynq task types.
const (
	TypeSendTipReceipt   = "tip:send_receipt"
	TypeSendWelcomeEmail = "email:welcome"
	TypeRollupDailyViews = "analytics:rollup_daily"
)

// Queue names, highest priority first.
const (
	QueueEmail     = "email"
	QueueDefault   = "default"
	QueueAnalytics = "analytics"
)

// TipReceiptPayload is enqueued when a tip is confirmed paid.
type TipReceiptPayload struct {
	TipID       uuid.UUID `json:"tip_id"`
	AuthorName  string    `json:"author_name"`
	BookTitle   string    `json:"book_title"`
	ReaderEmail string    `json:"reader_email"`
	Amount      string    `json:"amount"`
	Currency    string    `json:"currency"`
	PaidAt      time.Time `json:"paid_at"`
}

// WelcomeEmailPayload is enqueued on registration.
type WelcomeEmailPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// RollupDailyViewsPayload aggregates raw page views into daily counters.
type RollupDailyViewsPayload struct {
	Day string `json:"day"` // YYYY-MM-DD, empty means yesterday
}
