package io

import (
	"path/filepath"
	"strings"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatCBOR}

// ParseFormat parses a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatCBOR:
		return f, nil
	}
	return "", derrors.New(derrors.ErrCodeInvalidFormat, "unknown document format %q (want json or cbor)", s)
}

// FormatFromPath picks the format from a file extension: .cbor and .dkb are
// CBOR, everything else is JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".cbor", ".dkb":
		return FormatCBOR
	}
	return FormatJSON
}
