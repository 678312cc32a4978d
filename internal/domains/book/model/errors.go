package model

import (
	"errors"
	"net/http"
)

var (
	ErrBookNotFound = errors.New("book not found")
	ErrSlugTaken    = errors.New("book slug already taken")
	ErrNotOwner     = errors.New("book belongs to another author")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrBookNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
