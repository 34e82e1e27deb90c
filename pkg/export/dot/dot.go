// Package dot renders a document's layer hierarchy as a Graphviz diagram.
//
// # Usage
//
// Convert a document to DOT source, then render it to SVG:
//
//	src := dot.ToDOT(doc, dot.Options{Shapes: true})
//	svg, err := dot.RenderSVG(ctx, src)
//
// Groups are drawn as folders, layers as boxes and, with [Options.Shapes],
// shapes as ellipses. Hidden layers are dashed and locked ones grey. Edges
// run from each container to its children in structural order.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/drawkit/pkg/document"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/layer"
)

// Options configures diagram generation.
type Options struct {
	// Shapes adds one node per shape entry under its layer.
	Shapes bool
	// Detailed adds z-index, opacity and shape counts to labels.
	Detailed bool
}

// ToDOT converts the hierarchy of doc to Graphviz DOT source.
func ToDOT(doc *document.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	root := doc.Layers().Root()
	writeGroup(&buf, root, opts)
	var edges []string
	root.Walk(func(n layer.Node, _ int) bool {
		switch n := n.(type) {
		case *layer.Group:
			writeGroup(&buf, n, opts)
		case *layer.Layer:
			writeLayer(&buf, n, opts)
			if opts.Shapes {
				for _, ref := range n.Shapes() {
					id := n.ID() + "/" + ref.ID()
					fmt.Fprintf(&buf, "  %q [%s];\n", id, strings.Join(shapeAttrs(doc, ref), ", "))
					edges = append(edges, fmt.Sprintf("  %q -> %q;\n", n.ID(), id))
				}
			}
		}
		edges = append(edges, fmt.Sprintf("  %q -> %q;\n", n.ParentID(), n.ID()))
		return true
	})

	buf.WriteString("\n")
	for _, e := range edges {
		buf.WriteString(e)
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeGroup(buf *bytes.Buffer, g *layer.Group, opts Options) {
	label := g.Name
	if opts.Detailed {
		label += fmt.Sprintf("\nz: %d\nchildren: %d", g.ZIndex, g.ChildCount())
	}
	style := "filled"
	if !g.Visible {
		style += ",dashed"
	}
	fmt.Fprintf(buf, "  %q [label=%q, shape=folder, style=%q, fillcolor=\"#e8eef7\"];\n", g.ID(), label, style)
}

func writeLayer(buf *bytes.Buffer, l *layer.Layer, opts Options) {
	label := l.Name
	if opts.Detailed {
		label += fmt.Sprintf("\nz: %d\nshapes: %d", l.ZIndex, l.ShapeCount())
		if l.Opacity() < 1 {
			label += "\nopacity: " + strconv.FormatFloat(l.Opacity(), 'f', -1, 64)
		}
	}
	style := "rounded,filled"
	if !l.Visible {
		style += ",dashed"
	}
	fill := "white"
	if l.Locked {
		fill = "lightgrey"
	}
	fmt.Fprintf(buf, "  %q [label=%q, shape=box, style=%q, fillcolor=%s];\n", l.ID(), label, style, fill)
}

func shapeAttrs(doc *document.Document, ref layer.ShapeRef) []string {
	label := ref.ID()
	s, ok := doc.Resolve(ref)
	if ok {
		label = string(s.Kind())
		if s.Name != "" {
			label = s.Name + "\n" + label
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", label), "shape=ellipse", "fontsize=11"}
	switch {
	case !ok:
		attrs = append(attrs, "style=dashed", "color=red")
	case ref.IsReference():
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-sized root element with one
// whose width and height match its viewBox.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}
	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}
	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`, w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

var _ export.Exporter = (*Exporter)(nil)

// Exporter writes the hierarchy diagram as DOT source, or as SVG when
// Render is set.
type Exporter struct {
	Options Options
	Render  bool
}

func (e *Exporter) Format() string {
	if e.Render {
		return "tree-svg"
	}
	return "dot"
}

func (e *Exporter) Export(ctx context.Context, doc *document.Document, w io.Writer) error {
	src := ToDOT(doc, e.Options)
	if !e.Render {
		_, err := io.WriteString(w, src)
		return err
	}
	svg, err := RenderSVG(ctx, src)
	if err != nil {
		return err
	}
	_, err = w.Write(svg)
	return err
}
