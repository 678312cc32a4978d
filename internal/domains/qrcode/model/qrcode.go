package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QRCode links a printed code inside a physical book to that book's page.
// Scanning one lands the reader on the book page with the tip flow ready.
type QRCode struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AuthorID  uuid.UUID `json:"author_id" db:"author_id"`
	BookID    uuid.UUID `json:"book_id" db:"book_id"`
	Label     *string   `json:"label" db:"label"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// QRCodeStats is the dashboard row: the code plus what it earned.
type QRCodeStats struct {
	QRCode
	TipCount int64           `json:"tip_count" db:"tip_count"`
	TipTotal decimal.Decimal `json:"tip_total" db:"tip_total"`
}

type CreateQRCodeRequest struct {
	BookID uuid.UUID `json:"book_id"`
	Label  *string   `json:"label"`
}

func (r CreateQRCodeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.Required, validation.By(func(interface{}) error {
			if r.BookID == uuid.Nil {
				return validation.NewError("validation_required", "book_id is required")
			}
			return nil
		})),
		validation.Field(&r.Label, validation.Length(0, 100)),
	)
}

// ResolveResponse is what a scan gets back: where to go.
type ResolveResponse struct {
	QRCodeID  uuid.UUID `json:"qr_code_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	BookID    uuid.UUID `json:"book_id"`
	TargetURL string    `json:"target_url"`
}
