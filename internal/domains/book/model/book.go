package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// Book is a published title on an author's profile. Books exist so QR
// codes and tips have something to point at; there is no inventory or
// commerce behind them.
type Book struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	AuthorID    uuid.UUID  `json:"author_id" db:"author_id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Description *string    `json:"description" db:"description"`
	CoverURL    *string    `json:"cover_url" db:"cover_url"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateBookRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	PublishedAt *time.Time `json:"published_at"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required, validation.Length(1, 500)),
	)
}

type UpdateBookRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	PublishedAt *time.Time `json:"published_at"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty, validation.Length(1, 500)),
	)
}

type ListFilter struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f *ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}
