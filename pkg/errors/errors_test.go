package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	cause := errors.New("unexpected token")
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidColor, "bad color: %s", "purpleish"), "INVALID_COLOR: bad color: purpleish"},
		{Wrap(ErrCodeInvalidGeometry, cause, "parse %s", "shapes.wkt"), "INVALID_GEOMETRY: parse shapes.wkt: unexpected token"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapKeepsCause(t *testing.T) {
	cause := errors.New("unexpected token")
	err := Wrap(ErrCodeInvalidGeometry, cause, "parse shapes.wkt")
	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestCodeLookup(t *testing.T) {
	inner := New(ErrCodeInvalidInput, "inner")
	tests := []struct {
		name    string
		err     error
		code    Code
		message string
	}{
		{"coded", New(ErrCodeInvalidUnit, "friendly message"), ErrCodeInvalidUnit, "friendly message"},
		{"outer code wins", Wrap(ErrCodeRenderFailed, inner, "outer"), ErrCodeRenderFailed, "outer"},
		{"behind fmt", fmt.Errorf("layer 2: %w", inner), ErrCodeInvalidInput, "inner"},
		{"plain", errors.New("plain error"), "", "plain error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%v, %s) = false, want true", tt.err, tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestIsNoMatch(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"other code", New(ErrCodeInvalidInput, "x")},
		{"inner code only", Wrap(ErrCodeInternal, New(ErrCodeRenderFailed, "x"), "y")},
		{"plain", errors.New("x")},
		{"nil", nil},
	}
	for _, tt := range tests {
		if Is(tt.err, ErrCodeRenderFailed) {
			t.Errorf("Is(%s, RENDER_FAILED) = true, want false", tt.name)
		}
	}
	if GetCode(nil) != "" {
		t.Errorf("GetCode(nil) = %q, want empty", GetCode(nil))
	}
}

func TestIsValidation(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeInvalidColor, "x"), true},
		{New(ErrCodeInvalidConfig, "x"), true},
		{New(ErrCodeInvalidPath, "x"), true},
		{Wrap(ErrCodeInvalidGeometry, errors.New("eof"), "x"), true},
		{New(ErrCodeRenderFailed, "x"), false},
		{New(ErrCodeUnsupported, "x"), false},
		{New(ErrCodeFileNotFound, "x"), false},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if got := IsValidation(tt.err); got != tt.want {
			t.Errorf("IsValidation(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}
