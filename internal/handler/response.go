package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/swiftdrop/courier-api/internal/domain"
)

type APIResponse struct {
	Success bool      `json:"success"`
	Data    any       `json:"data"`
	Error   *APIError `json:"error"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func RespondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func RespondSuccess(w http.ResponseWriter, status int, data any) {
	RespondJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
		Error:   nil,
	})
}

func RespondAppError(w http.ResponseWriter, appErr *AppError, details any) {
	RespondJSON(w, appErr.Status, APIResponse{
		Success: false,
		Data:    nil,
		Error: &APIError{
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: details,
		},
	})
}

func RespondValidationError(w http.ResponseWriter, fields []domain.FieldError) {
	RespondAppError(w, ErrValidationFailed, fields)
}

// RespondDomainError is the single place domain errors become transport
// responses. Anything unrecognized is logged and hidden behind a generic 500.
func RespondDomainError(w http.ResponseWriter, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		RespondValidationError(w, vErr.Fields)
		return
	}

	var appErr *AppError
	switch {
	case errors.Is(err, domain.ErrNotFound):
		appErr = ErrResourceNotFound
	case errors.Is(err, domain.ErrDuplicateEmail):
		appErr = ErrDuplicateEmail
	case errors.Is(err, domain.ErrDuplicateTrackingCode):
		appErr = ErrDuplicateTrackingCode
	case errors.Is(err, domain.ErrInvalidCredentials):
		appErr = ErrInvalidCredentials
	case errors.Is(err, domain.ErrSessionExpired):
		appErr = ErrSessionExpired
	case errors.Is(err, domain.ErrSessionInvalid):
		appErr = ErrInvalidToken
	case errors.Is(err, domain.ErrVerifyTimeout):
		appErr = ErrAuthTimeout
	case errors.Is(err, domain.ErrForbidden):
		appErr = ErrForbidden
	case errors.Is(err, domain.ErrInvalidTransition):
		appErr = ErrInvalidTransition
	case errors.Is(err, domain.ErrInvalidRequest):
		appErr = ErrInvalidRequest
	default:
		slog.Error("unhandled domain error", "error", err)
		appErr = ErrInternalError
	}

	RespondAppError(w, appErr, nil)
}
