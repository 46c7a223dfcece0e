package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidLongitude, "longitude out of range [0,360): %g", 400.5)

	if err.Code != ErrCodeInvalidLongitude {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodeInvalidLongitude)
	}
	if !strings.Contains(err.Error(), "400.5") {
		t.Errorf("Error() = %q, want formatted value", err.Error())
	}
	if !strings.Contains(err.Error(), string(ErrCodeInvalidLongitude)) {
		t.Errorf("Error() = %q, should include error code", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(ErrCodeNetwork, cause, "failed to fetch positions")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause with errors.Is")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Error() = %q, should include cause", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidBody, "bad body")
	wrapped := fmt.Errorf("layout: %w", err)

	if !Is(wrapped, ErrCodeInvalidBody) {
		t.Error("Is should find code through wrapping")
	}
	if Is(wrapped, ErrCodeNetwork) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInvalidBody) {
		t.Error("Is should not match plain errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeTimeout, "slow")); got != ErrCodeTimeout {
		t.Errorf("GetCode = %q, want %q", got, ErrCodeTimeout)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode of plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "missing timezone")
	if got := UserMessage(err); got != "missing timezone" {
		t.Errorf("UserMessage = %q, want message without code", got)
	}
	plain := stderrors.New("boom")
	if got := UserMessage(plain); got != "boom" {
		t.Errorf("UserMessage of plain error = %q", got)
	}
}
