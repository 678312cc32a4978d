package model

import (
	"errors"
	"net/http"
)

var (
	ErrTipNotFound      = errors.New("tip not found")
	ErrAlreadyFinalized = errors.New("tip already finalized")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrTipNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrAlreadyFinalized):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
