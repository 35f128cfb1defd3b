package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/bankaccounts/internal/adapter/http/dto"
	"github.com/iho/bankaccounts/internal/domain"
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
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrMovementNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrCustomerNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateAccountNumber):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAccountHasMovements):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAccountType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAccountNumber):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNegativeInitialBalance):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidMovementType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
