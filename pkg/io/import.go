package io

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// ReadJSON decodes a JSON document from r.
//
// Every section is validated while decoding: a structurally invalid payload
// (bad geometry, out-of-range styles, duplicate node IDs, a dangling active
// layer) is rejected rather than repaired. Errors keep the code of the
// failing validator, so callers can test for
// [derrors.ErrCodeInvalidGeometry] and friends. ReadJSON does not close r.
func ReadJSON(r io.Reader) (*document.Document, error) {
	var doc document.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode document")
	}
	return &doc, nil
}

// ReadCBOR decodes a CBOR document from r.
func ReadCBOR(r io.Reader) (*document.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	var doc document.Document
	if err := UnmarshalCBOR(data, &doc); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode document")
	}
	return &doc, nil
}

// Read decodes a document in the given format.
func Read(r io.Reader, f Format) (*document.Document, error) {
	switch f {
	case FormatJSON:
		return ReadJSON(r)
	case FormatCBOR:
		return ReadCBOR(r)
	}
	return nil, derrors.New(derrors.ErrCodeInvalidFormat, "unknown document format %q", f)
}

// ImportFile reads the document at path in the format implied by its
// extension.
func ImportFile(path string) (*document.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.Wrap(derrors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f, FormatFromPath(path))
}
