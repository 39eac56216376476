package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeParse, "unexpected token: %s", "}")

	if err.Code != ErrCodeParse {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeParse)
	}

	if err.Message != "unexpected token: }" {
		t.Errorf("Message = %v, want %v", err.Message, "unexpected token: }")
	}

	expected := "PARSE_ERROR: unexpected token: }"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeFetch, cause, "failed to fetch")

	if err.Code != ErrCodeFetch {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeFetch)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeMalformedGeometry, "test"),
			code:     ErrCodeMalformedGeometry,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeMalformedGeometry, "test"),
			code:     ErrCodeFetch,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeFetch, New(ErrCodeNetwork, "inner"), "outer"),
			code:     ErrCodeFetch,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeUnresolvedReference, "test"), ErrCodeUnresolvedReference},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"Error type", New(ErrCodeInvalidInput, "friendly message"), "friendly message"},
		{"plain error", errors.New("plain error"), "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestIsStructural(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeFetch, "x"), true},
		{New(ErrCodeParse, "x"), true},
		{New(ErrCodeEmptyGraph, "x"), true},
		{New(ErrCodeUnresolvedReference, "x"), false},
		{New(ErrCodeMalformedGeometry, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := IsStructural(tt.err); got != tt.want {
			t.Errorf("IsStructural(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestRateLimitedError(t *testing.T) {
	t.Run("with retry after", func(t *testing.T) {
		err := &RateLimitedError{RetryAfter: 60}
		expected := "rate limited: retry after 60 seconds"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without retry after", func(t *testing.T) {
		err := &RateLimitedError{}
		if err.Error() != "rate limited" {
			t.Errorf("Error() = %v, want %v", err.Error(), "rate limited")
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &RateLimitedError{}
		if err.Code() != ErrCodeRateLimited {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeRateLimited)
		}
	})
}
