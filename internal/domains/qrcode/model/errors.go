package model

import (
	"errors"
	"net/http"
)

var (
	ErrQRCodeNotFound = errors.New("qr code not found")
	ErrNotOwner       = errors.New("qr code belongs to another author")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrQRCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
