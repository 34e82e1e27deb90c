package errors

import (
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	validators := map[string]struct {
		fn   func(string) error
		code Code
	}{
		"id":    {ValidateID, ErrCodeInvalidInput},
		"name":  {ValidateName, ErrCodeInvalidInput},
		"path":  {ValidatePath, ErrCodeInvalidPath},
		"url":   {ValidateURL, ErrCodeInvalidInput},
		"image": {ValidateImageData, ErrCodeInvalidInput},
	}

	tests := []struct {
		validator string
		input     string
		ok        bool
	}{
		{"id", "0b6f3c1e-7c1a-4a57-9d0e-2f24c1b1a0de", true},
		{"id", "shape.logo.v2", true},
		{"id", "", false},
		{"id", strings.Repeat("a", 300), false},
		{"id", "my shape", false},
		{"id", "a\tb", false},

		{"name", "Layer 1", true},
		{"name", "Ébauche", true},
		{"name", "   ", false},
		{"name", "foo\nbar", false},
		{"name", strings.Repeat("n", 600), false},

		{"path", "drawings/logo.json", true},
		{"path", "/tmp/logo.svg", true},
		{"path", "", false},
		{"path", strings.Repeat("p", 5000), false},
		{"path", "foo\x00bar", false},

		{"url", "https://example.com/tile.png", true},
		{"url", "data:image/png;base64,iVBORw0KGgo=", true},
		{"url", "", false},
		{"url", "file:///etc/passwd", false},
		{"url", "javascript:alert(1)", false},

		{"image", "http://example.com/tile.png", true},
		{"image", "aGVsbG8=", true},
		{"image", "", false},
		{"image", "not base64!", false},
	}

	for _, tt := range tests {
		v := validators[tt.validator]
		err := v.fn(tt.input)
		switch {
		case tt.ok && err != nil:
			t.Errorf("%s %q: unexpected error %v", tt.validator, tt.input, err)
		case !tt.ok && err == nil:
			t.Errorf("%s %q: expected an error", tt.validator, tt.input)
		case err != nil && !Is(err, v.code):
			t.Errorf("%s %q: code %s, want %s", tt.validator, tt.input, GetCode(err), v.code)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	seen := map[Code]bool{}
	for _, code := range []Code{
		ErrCodeInvalidGeometry, ErrCodeInvalidStyle, ErrCodeInvalidTransform,
		ErrCodeInvalidCanvas, ErrCodeInvalidDocument, ErrCodeInvalidInput,
		ErrCodeInvalidFormat, ErrCodeInvalidPreset, ErrCodeInvalidPath,
		ErrCodeNotFound, ErrCodeFileNotFound, ErrCodeInternal, ErrCodeUnsupported,
	} {
		if seen[code] {
			t.Errorf("duplicate code %s", code)
		}
		seen[code] = true
	}
}
