package pipeline

import (
	"bytes"
	"context"
	"io"

	"github.com/matzehuels/drawkit/pkg/document"
	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/export/dot"
	"github.com/matzehuels/drawkit/pkg/export/svg"
	pkgio "github.com/matzehuels/drawkit/pkg/io"
)

// NewExporter returns the exporter for format configured from opts.
func NewExporter(format string, opts Options) (export.Exporter, error) {
	switch format {
	case FormatSVG:
		var svgOpts []svg.Option
		if opts.IncludeInvisible {
			svgOpts = append(svgOpts, svg.WithInvisible())
		}
		if opts.Transparent {
			svgOpts = append(svgOpts, svg.WithTransparent())
		}
		if opts.DPI > 0 {
			svgOpts = append(svgOpts, svg.WithDPI(opts.DPI))
		}
		return svg.New(svgOpts...), nil
	case FormatDOT, FormatTreeSVG:
		return &dot.Exporter{
			Options: dot.Options{Shapes: true, Detailed: opts.Detailed},
			Render:  format == FormatTreeSVG,
		}, nil
	case FormatJSON:
		return codecExporter{pkgio.FormatJSON}, nil
	case FormatCBOR:
		return codecExporter{pkgio.FormatCBOR}, nil
	}
	return nil, ValidateFormat(format)
}

// codecExporter writes the document encoding itself.
type codecExporter struct {
	format pkgio.Format
}

func (e codecExporter) Format() string { return string(e.format) }

func (e codecExporter) Export(ctx context.Context, doc *document.Document, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return pkgio.Write(doc, w, e.format)
}

// Export renders doc in every format of opts without caching.
func Export(ctx context.Context, doc *document.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := exportFormat(ctx, doc, format, opts)
		if err != nil {
			return nil, err
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func exportFormat(ctx context.Context, doc *document.Document, format string, opts Options) ([]byte, error) {
	e, err := NewExporter(format, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := e.Export(ctx, doc, &buf); err != nil {
		if ctx.Err() != nil || derrors.GetCode(err) != "" {
			return nil, err
		}
		return nil, derrors.Wrap(derrors.ErrCodeInternal, err, "export %s", format)
	}
	return buf.Bytes(), nil
}
