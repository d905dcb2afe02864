package handler

import "net/http"

type AppError struct {
	Status  int
	Code    string
	Message string
}

func (e *AppError) Error() string { return e.Message }

var (
	ErrMissingToken       = &AppError{http.StatusUnauthorized, "MISSING_TOKEN", "Authentication required"}
	ErrInvalidToken       = &AppError{http.StatusUnauthorized, "INVALID_TOKEN", "Token is invalid"}
	ErrSessionExpired     = &AppError{http.StatusUnauthorized, "SESSION_EXPIRED", "Session has expired, please log in again"}
	ErrInvalidCredentials = &AppError{http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password"}
	ErrForbidden          = &AppError{http.StatusForbidden, "FORBIDDEN", "Insufficient permissions"}
	ErrAuthTimeout        = &AppError{http.StatusGatewayTimeout, "AUTH_TIMEOUT", "Session verification timed out"}
	ErrInvalidRequest     = &AppError{http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body"}
	ErrValidationFailed   = &AppError{http.StatusBadRequest, "VALIDATION_FAILED", "Validation failed"}
	ErrResourceNotFound   = &AppError{http.StatusNotFound, "RESOURCE_NOT_FOUND", "Resource not found"}
	ErrInternalError      = &AppError{http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred"}

	ErrDuplicateEmail        = &AppError{http.StatusConflict, "DUPLICATE_EMAIL", "Email is already registered"}
	ErrDuplicateTrackingCode = &AppError{http.StatusConflict, "DUPLICATE_TRACKING_CODE", "Tracking code already exists"}
	ErrInvalidTransition     = &AppError{http.StatusUnprocessableEntity, "INVALID_STATUS_TRANSITION", "Shipment status transition is not allowed"}
)
