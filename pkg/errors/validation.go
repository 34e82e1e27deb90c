package errors

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	maxIDLength   = 256
	maxNameLength = 512
	maxPathLength = 4096
)

// ValidateID validates an entity identifier (shape, layer, group,
// gradient): non-empty, at most 256 bytes, no whitespace or control
// characters.
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "id cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "id too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "id %q contains whitespace or control characters", id)
		}
	}
	return nil
}

// ValidateName validates a display name for layers, groups and documents.
// Names may contain spaces but not control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	if len(name) > maxNameLength {
		return New(ErrCodeInvalidInput, "name too long (max %d characters)", maxNameLength)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name contains invalid control characters")
		}
	}
	return nil
}

// ValidatePath validates a local file path given on the command line or in
// the config file.
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidateURL validates an image reference used by pattern fills and
// backgrounds. Only http, https and data URLs are accepted.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	for _, scheme := range []string{"http://", "https://", "data:"} {
		if strings.HasPrefix(rawURL, scheme) {
			return nil
		}
	}
	return New(ErrCodeInvalidInput, "URL must use http, https or data scheme")
}

// base64Regex matches a bare base64 payload (standard alphabet, optional padding).
var base64Regex = regexp.MustCompile(`^[A-Za-z0-9+/]+={0,2}$`)

// ValidateImageData validates pattern image data, which is either a URL
// accepted by [ValidateURL] or a bare base64 payload.
func ValidateImageData(data string) error {
	if data == "" {
		return New(ErrCodeInvalidInput, "image data cannot be empty")
	}
	if ValidateURL(data) == nil {
		return nil
	}
	if !base64Regex.MatchString(data) {
		return New(ErrCodeInvalidInput, "image data must be a URL or base64 payload")
	}
	return nil
}
