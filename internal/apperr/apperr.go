package apperr

import (
	"errors"
	"net/http"
)

// Error kinds shared by every service. Packages wrap these with their own
// context so handlers can map them with errors.Is.
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrInvalidCredential = errors.New("invalid credentials")
	ErrNotVerified       = errors.New("account not verified")
	ErrInvalidToken      = errors.New("invalid or expired token")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
)

var statuses = []struct {
	err    error
	status int
}{
	{ErrInvalidInput, http.StatusBadRequest},
	{ErrInvalidToken, http.StatusBadRequest},
	{ErrUnauthenticated, http.StatusUnauthorized},
	{ErrInvalidCredential, http.StatusUnauthorized},
	{ErrNotVerified, http.StatusUnauthorized},
	{ErrForbidden, http.StatusForbidden},
	{ErrNotFound, http.StatusNotFound},
	{ErrConflict, http.StatusConflict},
}

// Status returns the HTTP status for err and whether err is a known kind.
// Unknown errors map to 500.
func Status(err error) (int, bool) {
	for _, s := range statuses {
		if errors.Is(err, s.err) {
			return s.status, true
		}
	}
	return http.StatusInternalServerError, false
}
