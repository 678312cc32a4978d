package draft

import (
	"errors"
	"net/http"
)

var (
	ErrNoDraft        = errors.New("no draft open for this author")
	ErrUnsavedChanges = errors.New("draft has unsaved changes")
	ErrUnknownOp      = errors.New("unknown draft operation")
)

func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNoDraft):
		return http.StatusNotFound
	case errors.Is(err, ErrUnsavedChanges):
		return http.StatusConflict
	case errors.Is(err, ErrUnknownOp):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
