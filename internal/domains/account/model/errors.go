package model

import "errors"

var (
	ErrEmailAlreadyExists = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountNotFound    = errors.New("account not found")
	ErrSessionRevoked     = errors.New("session has been revoked")
)

// ToHTTPStatus converts error to HTTP status code
func ToHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmailAlreadyExists):
		return 409
	case errors.Is(err, ErrInvalidCredentials), errors.Is(err, ErrSessionRevoked):
		return 401
	case errors.Is(err, ErrAccountNotFound):
		return 404
	default:
		return 500
	}
}
