package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("no documents in result")
	appErr := Internal("lookup failed", cause)

	if !errors.Is(appErr, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}

	wrapped := fmt.Errorf("outer: %w", appErr)
	if !HasCode(wrapped, CodeInternal) {
		t.Error("HasCode should unwrap through fmt.Errorf")
	}
}

func TestSchedulingConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"slot unavailable", SlotUnavailable("65f1a2b3c4d5e6f7a8b9c0e2"), CodeSlotUnavailable, http.StatusConflict},
		{"invalid transition", InvalidTransition("COMPLETED", "IN_PROGRESS"), CodeInvalidTransition, http.StatusConflict},
		{"already terminal is not a failure", AlreadyTerminal("CANCELLED"), CodeAlreadyTerminal, http.StatusOK},
		{"documents incomplete", DocumentsIncomplete([]string{"waiver_signed"}), CodeDocumentsIncomplete, http.StatusConflict},
		{"capacity below booked", CapacityBelowBooked(4, 2), CodeCapacityBelowBooked, http.StatusConflict},
		{"invalid configuration", InvalidConfiguration("ride duration must be positive"), CodeInvalidConfiguration, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.HTTPStatus != tt.wantStatus {
				t.Errorf("status = %d, want %d", tt.err.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestHasCode(t *testing.T) {
	err := SlotUnavailable("65f1a2b3c4d5e6f7a8b9c0e2")

	if !HasCode(err, CodeSlotUnavailable) {
		t.Error("HasCode should match the error's own code")
	}
	if HasCode(err, CodeConflict) {
		t.Error("HasCode should not match a different code")
	}
	if HasCode(errors.New("plain"), CodeConflict) {
		t.Error("HasCode should be false for non-AppErrors")
	}
	if HasCode(nil, CodeConflict) {
		t.Error("HasCode should be false for nil")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFoundWithID("Booking", "abc")
	if got := AsAppError(appErr); got != appErr {
		t.Error("AsAppError should return the original AppError")
	}

	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("AsAppError on plain error: code = %s, want %s", got.Code, CodeInternal)
	}
	if !errors.Is(got, plain) {
		t.Error("AsAppError should wrap the original error")
	}
}
