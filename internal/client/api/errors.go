package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrValidation is returned when the server rejects the input (400)
	ErrValidation = errors.New("validation failed")

	// ErrAuth is returned for missing, invalid or expired credentials (401, 403)
	ErrAuth = errors.New("authentication failed")

	// ErrNotFound is returned when the resource does not exist (404)
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when the request conflicts with server state, such as stock (409)
	ErrConflict = errors.New("conflict")

	// ErrServer is returned for 5xx responses and unreadable replies
	ErrServer = errors.New("server error")

	// ErrNetwork is returned when the server could not be reached
	ErrNetwork = errors.New("network error")
)

// Error is a failed API call. errors.Is matches it against Kind.
type Error struct {
	Kind    error
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), e.Message)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// kindForStatus maps a non-2xx status to its sentinel.
func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrAuth
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 400 && status < 500:
		return ErrValidation
	default:
		return ErrServer
	}
}
