// Package export defines the contract between documents and output formats.
//
// An [Exporter] consumes a [document.Document] and writes markup. The
// document exposes everything an exporter needs: canvas size and DPI, layers
// sorted by z-order with their visibility flags, each shape's kind, geometry,
// style and transform (references resolved through the shape library), and
// the background.
//
// Implementations live in subpackages:
//
//   - [github.com/matzehuels/drawkit/pkg/export/svg]: SVG markup of the drawing
//   - [github.com/matzehuels/drawkit/pkg/export/dot]: Graphviz diagram of the
//     layer hierarchy
package export

import (
	"context"
	"io"

	"github.com/matzehuels/drawkit/pkg/document"
	"github.com/matzehuels/drawkit/pkg/layer"
	"github.com/matzehuels/drawkit/pkg/shape"
)

// Exporter writes a document in one output format.
type Exporter interface {
	// Format is the short name of the output, such as "svg".
	Format() string
	Export(ctx context.Context, doc *document.Document, w io.Writer) error
}

// Item is a layer prepared for export.
type Item struct {
	Layer  *layer.Layer
	Shapes []*shape.Shape
}

// Layers returns the document's layers in ascending z-order with their
// shapes resolved. Invisible layers and shapes are dropped unless
// includeInvisible is set; references missing from the library are always
// dropped.
func Layers(doc *document.Document, includeInvisible bool) []Item {
	var items []Item
	for _, l := range doc.Layers().LayersByZOrder() {
		if !l.Visible && !includeInvisible {
			continue
		}
		item := Item{Layer: l}
		for _, ref := range l.Shapes() {
			s, ok := doc.Resolve(ref)
			if !ok || (!s.Visible && !includeInvisible) {
				continue
			}
			item.Shapes = append(item.Shapes, s)
		}
		items = append(items, item)
	}
	return items
}
