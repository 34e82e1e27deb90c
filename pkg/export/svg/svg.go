// Package svg exports documents as SVG markup.
//
// The root element is sized in pixels (canvas size converted at the export
// DPI) with a viewBox in canvas units, so shape coordinates are always in
// canvas units. Layers become <g id="layer-..."> elements in z-order and
// every shape kind maps to its SVG element. Gradients, patterns and effect
// filters are emitted once into <defs>.
//
//	data := svg.Render(doc, svg.WithInvisible())
//
// Group shapes render their children from the document's shape library.
// Text and real rasterization are out of scope: inset shadows are skipped,
// and drop shadows and blur are approximated with SVG filter primitives.
package svg

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/matzehuels/drawkit/pkg/document"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/layer"
	"github.com/matzehuels/drawkit/pkg/style"
)

// Option configures SVG rendering.
type Option func(*renderer)

// WithInvisible includes hidden layers (with opacity 0) and hidden shapes.
func WithInvisible() Option { return func(r *renderer) { r.includeInvisible = true } }

// WithDPI overrides the document's export DPI.
func WithDPI(dpi float64) Option { return func(r *renderer) { r.dpi = dpi } }

// WithTransparent omits the background.
func WithTransparent() Option { return func(r *renderer) { r.transparent = true } }

// WithMetadata overrides the document's include-metadata export setting.
func WithMetadata(include bool) Option { return func(r *renderer) { r.metadata = &include } }

type renderer struct {
	doc              *document.Document
	includeInvisible bool
	transparent      bool
	dpi              float64
	metadata         *bool

	defs   bytes.Buffer
	defIDs map[string]bool
}

// Render returns the SVG markup of doc.
func Render(doc *document.Document, opts ...Option) []byte {
	r := &renderer{doc: doc, defIDs: map[string]bool{}}
	for _, opt := range opts {
		opt(r)
	}
	if !(r.dpi > 0) {
		r.dpi = doc.Export.DPI
	}
	includeMeta := doc.Export.IncludeMetadata
	if r.metadata != nil {
		includeMeta = *r.metadata
	}

	var body bytes.Buffer
	r.renderBackground(&body)
	for _, item := range export.Layers(doc, r.includeInvisible) {
		r.renderLayer(&body, item)
	}

	w, h := doc.Canvas.ToPixels(r.dpi)
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(w), num(h), num(doc.Canvas.Width), num(doc.Canvas.Height))
	if includeMeta {
		fmt.Fprintf(&buf, "  <!-- Generated from: %s -->\n", comment(doc.Metadata.Title))
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escape(doc.Metadata.Title))
		if d := doc.Metadata.Description; d != "" {
			fmt.Fprintf(&buf, "  <desc>%s</desc>\n", escape(d))
		}
	}
	if r.defs.Len() > 0 {
		buf.WriteString("  <defs>\n")
		buf.Write(r.defs.Bytes())
		buf.WriteString("  </defs>\n")
	}
	buf.Write(body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *renderer) renderBackground(buf *bytes.Buffer) {
	if r.transparent {
		return
	}
	bg := r.doc.Background
	width, height := num(r.doc.Canvas.Width), num(r.doc.Canvas.Height)
	if c, ok := bg.Fill(); ok {
		e := newElement("rect")
		e.set("x", "0")
		e.set("y", "0")
		e.set("width", width)
		e.set("height", height)
		hex, alpha := paint(c)
		e.set("fill", hex)
		setOpacity(e, "fill-opacity", alpha)
		e.write(buf, 1)
	}
	if bg.ImageURL != "" {
		e := newElement("image")
		e.set("href", bg.ImageURL)
		e.set("width", width)
		e.set("height", height)
		e.set("preserveAspectRatio", "xMidYMid slice")
		setOpacity(e, "opacity", bg.ImageOpacity)
		e.write(buf, 1)
	}
}

func (r *renderer) renderLayer(buf *bytes.Buffer, item export.Item) {
	l := item.Layer
	g := newElement("g")
	g.set("id", layerID(l))
	g.set("data-name", l.Name)
	if !l.Visible {
		g.set("opacity", "0")
	} else {
		setOpacity(g, "opacity", l.Opacity())
	}
	setBlend(g, l.BlendMode())
	g.open(buf, 1)
	for _, s := range item.Shapes {
		r.renderShape(buf, s, 2, map[string]bool{})
	}
	g.close(buf, 1)
}

func setBlend(e *element, m style.BlendMode) {
	if m != "" && m != style.BlendNormal {
		e.set("style", "mix-blend-mode:"+string(m))
	}
}

var _ export.Exporter = (*Exporter)(nil)

// Exporter adapts [Render] to [export.Exporter].
type Exporter struct {
	opts []Option
}

// New returns an exporter that renders with opts.
func New(opts ...Option) *Exporter { return &Exporter{opts: opts} }

func (e *Exporter) Format() string { return "svg" }

func (e *Exporter) Export(ctx context.Context, doc *document.Document, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := w.Write(Render(doc, e.opts...)); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

// layerID returns the element id used for a layer.
func layerID(l *layer.Layer) string { return "layer-" + sanitizeID(l.ID()) }
