package model

import (
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Page types a view can land on.
const (
	PageTypeProfile = "profile"
	PageTypeBook    = "book"
)

// ErrDuplicateView means this visitor already counted for this page today.
// Callers treat it as success; the view is simply already recorded.
var ErrDuplicateView = errors.New("view already recorded for this visitor today")

// PageView is one deduplicated page visit. The unique index over
// (author_id, page_type, book_id, visitor_id, viewed_on) is what enforces
// once-per-visitor-per-day.
type PageView struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	AuthorID  uuid.UUID  `json:"author_id" db:"author_id"`
	BookID    *uuid.UUID `json:"book_id" db:"book_id"`
	QRCodeID  *uuid.UUID `json:"qr_code_id" db:"qr_code_id"`
	PageType  string     `json:"page_type" db:"page_type"`
	VisitorID string     `json:"visitor_id" db:"visitor_id"`
	ViewedOn  time.Time  `json:"viewed_on" db:"viewed_on"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// RecordViewRequest is what clients post. The visitor id comes from the
// cookie middleware, never from the body.
type RecordViewRequest struct {
	AuthorID uuid.UUID  `json:"author_id"`
	BookID   *uuid.UUID `json:"book_id"`
	QRCodeID *uuid.UUID `json:"qr_code_id"`
	PageType string     `json:"page_type"`
}

func (r RecordViewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.PageType, validation.Required, validation.In(PageTypeProfile, PageTypeBook)),
	)
}

// ViewStats is the per-author dashboard summary.
type ViewStats struct {
	ProfileViews int64 `json:"profile_views"`
	BookViews    int64 `json:"book_views"`
	TotalViews   int64 `json:"total_views"`
}
