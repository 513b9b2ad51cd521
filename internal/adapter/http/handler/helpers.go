package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pocketbank/pocketbank/internal/adapter/http/dto"
	"github.com/pocketbank/pocketbank/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrEntryNotFound),
		errors.Is(err, domain.ErrCDNotFound),
		errors.Is(err, domain.ErrLoanNotFound),
		errors.Is(err, domain.ErrChargeNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrAccountFrozen):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidCDState),
		errors.Is(err, domain.ErrInvalidLoanState):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidEntryKind),
		errors.Is(err, domain.ErrInvalidInterval),
		errors.Is(err, domain.ErrInvalidTerm),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// parseTimeQuery parses an RFC 3339 query parameter. Returns nil when the
// parameter is absent or malformed.
func parseTimeQuery(r *http.Request, key string) *time.Time {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}

	t, err := time.Parse(time.RFC3339, val)
	if err != nil {
		return nil
	}

	return &t
}
