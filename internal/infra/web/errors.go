package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"freshcart-backend/internal/domain"
)

// Stable error codes returned to clients alongside a message.
const (
	codeValidation         = "ERR_VALIDATION"
	codeNotFound           = "ERR_NOT_FOUND"
	codeUnauthorized       = "ERR_UNAUTHORIZED"
	codeForbidden          = "ERR_FORBIDDEN"
	codeInvalidCredentials = "ERR_INVALID_CREDENTIALS"
	codeAlreadyExists      = "ERR_ALREADY_EXISTS"
	codeTerminalState      = "ERR_TERMINAL_STATE"
	codeInternal           = "ERR_INTERNAL"
)

type errorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{Message: message, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps domain errors onto the fixed status/code table.
// Internal and provider failures collapse to a generic 500 so upstream error
// bodies never leak to clients.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, codeValidation, "invalid request")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, codeNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, codeInvalidCredentials, "invalid email or password")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, codeAlreadyExists, "already exists")
	case errors.Is(err, domain.ErrTerminalOrderState):
		writeError(w, http.StatusBadRequest, codeTerminalState, "order is in a terminal state")
	default:
		writeError(w, http.StatusInternalServerError, codeInternal, "internal error")
	}
}
