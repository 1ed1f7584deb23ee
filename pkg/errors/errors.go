package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error codes returned to API clients. The scheduling codes are the expected,
// recoverable outcomes of booking operations; callers are expected to branch
// on them rather than treat them as failures.
const (
	CodeNotFound     = "NOT_FOUND"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeConflict     = "CONFLICT"
	CodeInternal     = "INTERNAL_ERROR"
	CodeInvalidInput = "INVALID_INPUT"
	CodeTimeout      = "TIMEOUT"
	CodeUnavailable  = "SERVICE_UNAVAILABLE"

	CodeSlotUnavailable      = "SLOT_UNAVAILABLE"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeAlreadyTerminal      = "ALREADY_TERMINAL"
	CodeDocumentsIncomplete  = "DOCUMENTS_INCOMPLETE"
	CodeCapacityBelowBooked  = "CAPACITY_BELOW_BOOKED"
	CodeInvalidConfiguration = "INVALID_CONFIGURATION"
)

type AppError struct {
	Code       string         `json:"code"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Err        error          `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) StatusCode() int {
	return e.HTTPStatus
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

type ErrorResponse struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *AppError) ToJSON() []byte {
	data, _ := json.Marshal(ErrorResponse{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
	return data
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
	}
}

func NotFoundWithID(resource, id string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details: map[string]any{
			"resource": resource,
			"id":       id,
		},
	}
}

func Validation(message string, details map[string]any) *AppError {
	return &AppError{
		Code:       CodeValidation,
		Message:    message,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    details,
	}
}

func InvalidInput(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidInput,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:       CodeUnauthorized,
		Message:    message,
		HTTPStatus: http.StatusUnauthorized,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    message,
		HTTPStatus: http.StatusForbidden,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:       CodeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func Timeout(message string) *AppError {
	return &AppError{
		Code:       CodeTimeout,
		Message:    message,
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

func Unavailable(service string) *AppError {
	return &AppError{
		Code:       CodeUnavailable,
		Message:    fmt.Sprintf("%s is temporarily unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
	}
}

// SlotUnavailable is returned when a session has no remaining seats.
// The rider must be shown this immediately; reservations are never queued.
func SlotUnavailable(sessionID string) *AppError {
	return &AppError{
		Code:       CodeSlotUnavailable,
		Message:    "No seats remaining in the requested session",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"session_id": sessionID,
		},
	}
}

func InvalidTransition(from, to string) *AppError {
	return &AppError{
		Code:       CodeInvalidTransition,
		Message:    fmt.Sprintf("Booking cannot move from %s to %s", from, to),
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"from": from,
			"to":   to,
		},
	}
}

// AlreadyTerminal marks an idempotent no-op on a finished booking. Tablets
// retry cancellations after connectivity loss, so this is not an error for
// the caller to surface.
func AlreadyTerminal(status string) *AppError {
	return &AppError{
		Code:       CodeAlreadyTerminal,
		Message:    "Booking is already in a terminal state",
		HTTPStatus: http.StatusOK,
		Details: map[string]any{
			"status": status,
		},
	}
}

func DocumentsIncomplete(missing []string) *AppError {
	return &AppError{
		Code:       CodeDocumentsIncomplete,
		Message:    "Waiver and bib number are required before the ride starts",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"missing": missing,
		},
	}
}

func CapacityBelowBooked(booked, requested int) *AppError {
	return &AppError{
		Code:       CodeCapacityBelowBooked,
		Message:    "Capacity cannot shrink below already-booked seats",
		HTTPStatus: http.StatusConflict,
		Details: map[string]any{
			"booked_slots":    booked,
			"requested_slots": requested,
		},
	}
}

func InvalidConfiguration(message string) *AppError {
	return &AppError{
		Code:       CodeInvalidConfiguration,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
