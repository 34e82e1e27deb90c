// Package pipeline runs the load → validate → export pipeline shared by the
// CLI commands.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   "poster.json",
//	    Formats: []string{"svg", "dot"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// Rendered artifacts are cached by document content hash and the export
// options that affect them.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawkit/pkg/cache"
	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Output formats.
const (
	FormatSVG     = "svg"
	FormatJSON    = "json"
	FormatCBOR    = "cbor"
	FormatDOT     = "dot"
	FormatTreeSVG = "tree-svg"
)

// ValidFormats lists the supported output formats.
var ValidFormats = []string{FormatSVG, FormatJSON, FormatCBOR, FormatDOT, FormatTreeSVG}

// Extension returns the file extension for format.
func Extension(format string) string {
	switch format {
	case FormatTreeSVG:
		return ".tree.svg"
	case FormatDOT:
		return ".dot"
	default:
		return "." + format
	}
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run.
type Options struct {
	// Input is the document file to load. Ignored when Document is set.
	Input    string
	Document *document.Document

	Formats []string

	// DPI overrides the document's export DPI for SVG output when positive.
	DPI              float64
	IncludeInvisible bool
	Transparent      bool
	Detailed         bool

	// Force exports documents whose validation report has errors.
	Force bool
	// Refresh bypasses cached artifacts.
	Refresh bool

	Logger *log.Logger

	validated bool
}

// ValidateFormat checks that format is supported.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return derrors.New(derrors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: %s)",
			format, strings.Join(ValidFormats, ", "))
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Document == nil && o.Input == "" {
		return derrors.New(derrors.ErrCodeInvalidInput, "input file or document is required")
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.DPI < 0 {
		return derrors.New(derrors.ErrCodeInvalidInput, "dpi must be positive, got %g", o.DPI)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ArtifactKeyOpts returns the cache key options for format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format}
	switch format {
	case FormatSVG:
		k.DPI = o.DPI
		k.IncludeInvisible = o.IncludeInvisible
		k.Transparent = o.Transparent
	case FormatDOT, FormatTreeSVG:
		k.Detailed = o.Detailed
	}
	return k
}

// =============================================================================
// Result
// =============================================================================

// Result holds the outputs of a pipeline run.
type Result struct {
	Document *document.Document
	// DocumentHash is the SHA-256 of the document's JSON encoding.
	DocumentHash string
	Report       document.Report
	// Artifacts maps each requested format to its bytes.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds sizes and stage timings.
type Stats struct {
	LayerCount   int
	ShapeCount   int
	LoadTime     time.Duration
	ValidateTime time.Duration
	ExportTime   time.Duration
}

// CacheInfo records cache usage of the export stage.
type CacheInfo struct {
	// Hits lists the formats served from cache.
	Hits []string
	// ExportHit is true when every artifact came from cache.
	ExportHit bool
}

func (r *Result) String() string {
	return fmt.Sprintf("%s: %d layers, %d shapes, %d artifacts",
		r.Document.Metadata.Title, r.Stats.LayerCount, r.Stats.ShapeCount, len(r.Artifacts))
}
