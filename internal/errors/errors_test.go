package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "not found" {
		t.Errorf("expected message 'not found', got %q", err.Message)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable != false {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out", http.StatusGatewayTimeout)
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
}

func TestAppError_NotFound_Success(t *testing.T) {
	err := NotFound("call session", "CA123")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["resource"] != "call session" {
		t.Errorf("expected resource=call session, got %v", err.Details["resource"])
	}
	if err.Details["id"] != "CA123" {
		t.Errorf("expected id=CA123, got %v", err.Details["id"])
	}
	if err.Retryable {
		t.Error("NotFound should not be retryable")
	}
}

func TestAppError_NotFound_EmptyID(t *testing.T) {
	err := NotFound("call session", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestAppError_Internal_Success(t *testing.T) {
	cause := fmt.Errorf("provider connection lost")
	err := Internal(cause)
	if err.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", err.HTTPStatus)
	}
	if err.Cause != cause {
		t.Error("expected cause to be set")
	}
	if err.Retryable {
		t.Error("Internal should NOT be retryable by default")
	}
}

func TestAppError_Forbidden_Success(t *testing.T) {
	err := Forbidden("")
	if err.HTTPStatus != http.StatusForbidden {
		t.Errorf("expected 403, got %d", err.HTTPStatus)
	}
	if !strings.Contains(err.Message, "permission") {
		t.Errorf("expected default message with 'permission', got %q", err.Message)
	}

	err2 := Forbidden("invalid webhook signature")
	if err2.Message != "invalid webhook signature" {
		t.Errorf("expected custom message, got %q", err2.Message)
	}
}

func TestAppError_InvalidInput_Success(t *testing.T) {
	err := InvalidInput("to", "must be a phone number")
	if err.Code != ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", err.Code)
	}
	if err.Details["field"] != "to" {
		t.Errorf("expected field=to, got %v", err.Details["field"])
	}
}

func TestAppError_SessionNotFound_Success(t *testing.T) {
	err := SessionNotFound("CA404")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Details["id"] != "CA404" {
		t.Errorf("expected id=CA404, got %v", err.Details["id"])
	}
}

func TestAppError_SessionInactive_Success(t *testing.T) {
	err := SessionInactive("CA123")
	if err.Code != ErrCodeSessionInactive {
		t.Errorf("expected SESSION_INACTIVE, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected 409, got %d", err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("SessionInactive should not be retryable")
	}
	if err.Details["call_sid"] != "CA123" {
		t.Errorf("expected call_sid=CA123, got %v", err.Details["call_sid"])
	}
}

func TestAppError_DuplicateSession_Success(t *testing.T) {
	err := DuplicateSession("CA123")
	if err.Code != ErrCodeAlreadyExists {
		t.Errorf("expected ALREADY_EXISTS, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusConflict {
		t.Errorf("expected 409, got %d", err.HTTPStatus)
	}
}

func TestAppError_TelephonyError_Success(t *testing.T) {
	cause := fmt.Errorf("http 400")
	err := TelephonyError(21211, "Invalid 'To' Phone Number", cause)
	if err.Code != ErrCodeTelephony {
		t.Errorf("expected TELEPHONY_ERROR, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", err.HTTPStatus)
	}
	if err.Message != "Invalid 'To' Phone Number" {
		t.Errorf("expected provider message to pass through, got %q", err.Message)
	}
	if err.Details["provider_code"] != 21211 {
		t.Errorf("expected provider_code=21211, got %v", err.Details["provider_code"])
	}
	if !err.Retryable {
		t.Error("TelephonyError should be retryable")
	}
}

func TestAppError_TelephonyError_DefaultMessage(t *testing.T) {
	err := TelephonyError(0, "", nil)
	if !strings.Contains(err.Message, "telephony provider") {
		t.Errorf("expected default message, got %q", err.Message)
	}
}

func TestAppError_WithCause_Chain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	err := NotFound("call session", "CA1").WithCause(cause)
	if err.Cause != cause {
		t.Error("expected cause to be set via WithCause")
	}
	if !strings.Contains(err.Error(), "root cause") {
		t.Errorf("Error() should contain cause, got %q", err.Error())
	}
}

func TestAppError_WithDetails_Merge(t *testing.T) {
	err := NotFound("call session", "CA1").WithDetails(map[string]any{
		"extra": "info",
	})
	if err.Details["extra"] != "info" {
		t.Errorf("expected extra=info in details")
	}
	if err.Details["resource"] != "call session" {
		t.Error("expected original details to be preserved")
	}

	err.WithDetails(map[string]any{
		"another": "detail",
	})
	if err.Details["another"] != "detail" {
		t.Error("expected another=detail to be merged")
	}
}

func TestAppError_WithDetail_Single(t *testing.T) {
	err := Validation("bad request").WithDetail("field", "text")
	if err.Details["field"] != "text" {
		t.Errorf("expected field=text, got %v", err.Details["field"])
	}
}

func TestAppError_Unwrap_Success(t *testing.T) {
	cause := fmt.Errorf("inner")
	err := Internal(cause)
	if stderrors.Unwrap(err) != cause {
		t.Error("expected Unwrap to return the cause")
	}
}

func TestAppError_ErrorsAs_Success(t *testing.T) {
	var appErr *AppError
	wrapped := fmt.Errorf("wrapped: %w", SessionInactive("CA1"))
	if !stderrors.As(wrapped, &appErr) {
		t.Fatal("expected errors.As to find AppError through wrapping")
	}
	if appErr.Code != ErrCodeSessionInactive {
		t.Errorf("expected SESSION_INACTIVE, got %s", appErr.Code)
	}
}

func TestIsAppError_Success(t *testing.T) {
	if !IsAppError(SessionNotFound("CA1")) {
		t.Error("expected IsAppError to be true for AppError")
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("expected IsAppError to be false for plain error")
	}
}

func TestAsAppError_Success(t *testing.T) {
	appErr, ok := AsAppError(Conflict("state conflict"))
	if !ok {
		t.Fatal("expected AsAppError to succeed")
	}
	if appErr.Code != ErrCodeConflict {
		t.Errorf("expected CONFLICT, got %s", appErr.Code)
	}

	if _, ok := AsAppError(fmt.Errorf("plain")); ok {
		t.Error("expected AsAppError to fail for plain error")
	}
}

func TestToResponse_Shape(t *testing.T) {
	err := SessionInactive("CA1")
	resp := err.ToResponse()
	if resp.Success {
		t.Error("expected success=false")
	}
	if resp.Error != err.Message {
		t.Errorf("expected error message %q, got %q", err.Message, resp.Error)
	}
	if resp.Code != ErrCodeSessionInactive {
		t.Errorf("expected SESSION_INACTIVE, got %s", resp.Code)
	}
}

func TestIsRetryableCode_Table(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want bool
	}{
		{ErrCodeTimeout, true},
		{ErrCodeTelephony, true},
		{ErrCodeExternalService, true},
		{ErrCodeNotFound, false},
		{ErrCodeSessionInactive, false},
		{ErrCodeInternal, false},
	}
	for _, tt := range tests {
		if got := IsRetryableCode(tt.code); got != tt.want {
			t.Errorf("IsRetryableCode(%s) = %v, want %v", tt.code, got, tt.want)
		}
	}
}
