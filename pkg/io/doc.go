// Package io reads and writes drawkit documents.
//
// # Formats
//
// Two encodings are supported:
//
//   - [FormatJSON]: the human-readable document format. Every entity
//     implements json.Marshaler and json.Unmarshaler, and decoding re-runs
//     all construction-time validation.
//   - [FormatCBOR]: a compact binary transcoding of the same tree. CBOR
//     payloads are converted to the JSON tree before decoding, so they pass
//     through exactly the same validating decoders.
//
// # Import
//
// Use [ImportFile] to read a document from a path (the format is chosen by
// extension), or [ReadJSON] / [ReadCBOR] to read from any io.Reader:
//
//	doc, err := io.ImportFile("poster.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Export
//
// Use [ExportFile] to write a document to a path, or [WriteJSON] /
// [WriteCBOR] to write to any io.Writer. [ExportFile] writes to a temporary
// file and renames it into place.
//
// # Other Entities
//
// [MarshalCBOR] and [UnmarshalCBOR] transcode any value with a JSON form
// (a single shape, a layer manager, a shape library).
package io
