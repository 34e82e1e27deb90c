package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidGeometry, "radius must be positive, got %g", -2.0), "INVALID_GEOMETRY: radius must be positive, got -2"},
		{Style("hex %q has 5 digits", "ABCDE"), `INVALID_STYLE: hex "ABCDE" has 5 digits`},
		{Wrap(ErrCodeInvalidFormat, errors.New("unexpected EOF"), "decode poster.json"), "INVALID_FORMAT: decode poster.json: unexpected EOF"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeInternal, cause, "write document")

	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if g := Geometry("bad %d", 1); g.Code != ErrCodeInvalidGeometry || g.Message != "bad 1" {
		t.Errorf("Geometry() = %v", g)
	}
}

func TestIs(t *testing.T) {
	shapeErr := Wrap(ErrCodeInvalidFormat, Geometry("points must hold 2 numbers"), "shape s1")
	fmtWrapped := fmt.Errorf("load: %w", shapeErr)

	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"own code", Style("bad"), ErrCodeInvalidStyle, true},
		{"other code", Style("bad"), ErrCodeInvalidGeometry, false},
		{"outer of chain", shapeErr, ErrCodeInvalidFormat, true},
		{"inner of chain", shapeErr, ErrCodeInvalidGeometry, true},
		{"through fmt wrapping", fmtWrapped, ErrCodeInvalidGeometry, true},
		{"plain error", errors.New("plain"), ErrCodeInvalidInput, false},
		{"nil", nil, ErrCodeInvalidInput, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		err  error
		want Code
	}{
		{New(ErrCodeInvalidTransform, "scale_x must be positive"), ErrCodeInvalidTransform},
		{fmt.Errorf("wrapped: %w", New(ErrCodeNotFound, "layer")), ErrCodeNotFound},
		{errors.New("plain"), ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := GetCode(tt.err); got != tt.want {
			t.Errorf("GetCode(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{New(ErrCodeInvalidInput, "title cannot be empty"), "title cannot be empty"},
		{Wrap(ErrCodeInvalidFormat, Geometry("radius must be positive"), "shape s1"), "shape s1: radius must be positive"},
		{Wrap(ErrCodeInternal, errors.New("EOF"), "read"), "read: EOF"},
		{errors.New("plain error"), "plain error"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.want {
			t.Errorf("UserMessage() = %q, want %q", got, tt.want)
		}
	}
}
