package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// WriteJSON encodes doc as indented JSON and writes it to w.
func WriteJSON(doc *document.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteCBOR encodes doc as CBOR and writes it to w.
func WriteCBOR(doc *document.Document, w io.Writer) error {
	data, err := MarshalCBOR(doc)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Write encodes doc in the given format.
func Write(doc *document.Document, w io.Writer, f Format) error {
	switch f {
	case FormatJSON:
		return WriteJSON(doc, w)
	case FormatCBOR:
		return WriteCBOR(doc, w)
	}
	return derrors.New(derrors.ErrCodeInvalidFormat, "unknown document format %q", f)
}

// ExportFile writes doc to path in the format implied by its extension.
// The file is replaced atomically.
func ExportFile(doc *document.Document, path string) error {
	if err := derrors.ValidatePath(path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".drawkit-*")
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(doc, tmp, FormatFromPath(path)); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
