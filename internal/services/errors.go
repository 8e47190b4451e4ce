package services

import (
	"errors"
	"net/http"

	"github.com/sinthiyatelecom/backoffice/internal/ledger"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidArgument   = errors.New("invalid argument")
	ErrConflict          = errors.New("already exists")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrUnavailable       = errors.New("service unavailable")
)

// StatusFor maps service errors onto HTTP status codes. Unknown errors are
// storage failures the client may retry.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidArgument), errors.Is(err, ledger.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, ErrConflict), errors.Is(err, ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// SendServiceError writes err with its mapped status. Storage failures get a
// generic retry message; the cause is logged by the caller.
func SendServiceError(w http.ResponseWriter, err error, action string) {
	status := StatusFor(err)
	if status == http.StatusInternalServerError {
		SendErrorResponse(w, "Failed to "+action+"; please retry", status, nil)
		return
	}
	SendErrorResponse(w, err.Error(), status, nil)
}
