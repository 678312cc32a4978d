package model

import (
	"errors"
	"net/http"
)

var (
	ErrProfileNotFound = errors.New("author profile not found")
	ErrSlugTaken       = errors.New("profile slug already taken")
	ErrVersionConflict = errors.New("profile was modified by another session")
	ErrNotAuthor       = errors.New("account is not an author")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrSlugTaken):
		return http.StatusConflict
	case errors.Is(err, ErrVersionConflict):
		return http.StatusConflict
	case errors.Is(err, ErrNotAuthor):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
