package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad window size", http.StatusBadRequest)
	want := "INVALID_INPUT: bad window size"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}

func TestAppError_ErrorWithCause(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := ConnectionFailed("whisper").WithCause(cause)
	got := err.Error()
	if got != fmt.Sprintf("CONNECTION_FAILED: Unable to connect to whisper. Verify the service is running. (cause: %v)", cause) {
		t.Errorf("unexpected error string: %q", got)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Internal(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAsAppError(t *testing.T) {
	inner := Timeout("diarize")
	wrapped := fmt.Errorf("pipeline stage: %w", inner)

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AppError in chain")
	}
	if appErr.Code != ErrCodeTimeout {
		t.Errorf("got code %s, want %s", appErr.Code, ErrCodeTimeout)
	}
}

func TestAsAppError_NotAppError(t *testing.T) {
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not match")
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"service unavailable", ServiceUnavailable("diart"), true},
		{"timeout", Timeout("transcribe"), true},
		{"invalid input", InvalidInput("samples", "empty"), false},
		{"internal", Internal(stderrors.New("x")), false},
		{"plain error", stderrors.New("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConstructors_Codes(t *testing.T) {
	tests := []struct {
		err        *AppError
		wantCode   ErrorCode
		wantStatus int
	}{
		{ServiceUnavailable("whisper"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{Timeout("diarize"), ErrCodeTimeout, http.StatusGatewayTimeout},
		{InvalidFormat("audio", "PCM16 WAV"), ErrCodeInvalidFormat, http.StatusBadRequest},
		{Validation("window must exceed step"), ErrCodeInvalidInput, http.StatusBadRequest},
		{ExternalServiceError("diart", stderrors.New("500")), ErrCodeExternalService, http.StatusBadGateway},
	}
	for _, tt := range tests {
		if tt.err.Code != tt.wantCode {
			t.Errorf("got code %s, want %s", tt.err.Code, tt.wantCode)
		}
		if tt.err.HTTPStatus != tt.wantStatus {
			t.Errorf("%s: got status %d, want %d", tt.wantCode, tt.err.HTTPStatus, tt.wantStatus)
		}
	}
}

func TestWithDetail(t *testing.T) {
	err := Validation("bad config").WithDetail("field", "tau_active")
	if err.Details["field"] != "tau_active" {
		t.Errorf("detail not set: %v", err.Details)
	}
}
