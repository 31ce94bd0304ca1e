// Package httpx provides HTTP response utilities.
package httpx

import (
	"errors"
	"net/http"

	"github.com/better-pagination/better-pagination/internal/extension"
	"github.com/better-pagination/better-pagination/internal/pagination"
)

// Sentinel errors for domain layer.
var (
	ErrNotFound   = errors.New("resource not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("resource already exists")
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, r, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrConflict):
		Problem(w, r, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, ErrValidation), errors.Is(err, pagination.ErrInvalidArgument):
		Problem(w, r, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, extension.ErrNoRequestState):
		Problem(w, r, http.StatusInternalServerError, "Pagination Unavailable", "")
	default:
		Problem(w, r, http.StatusInternalServerError, "Internal Error", "")
	}
}
