package dot

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/drawkit/pkg/document"
	"github.com/matzehuels/drawkit/pkg/layer"
	"github.com/matzehuels/drawkit/pkg/shape"
)

func sample(t *testing.T) (*document.Document, *layer.Group, *layer.Layer) {
	t.Helper()
	doc, err := document.New()
	if err != nil {
		t.Fatal(err)
	}
	g, _ := doc.CreateGroup("Icons", nil)
	l, _ := doc.CreateLayer("Glyphs", g)
	l.Visible = false
	s, _ := shape.New(shape.Circle{Radius: 1}, shape.WithID("dot"), shape.WithName("Dot"))
	_ = doc.AddShape(l.ID(), s)
	l.AddShape(layer.Ref("missing"))
	return doc, g, l
}

func TestToDOT(t *testing.T) {
	doc, g, l := sample(t)
	root := doc.Layers().Root()

	src := ToDOT(doc, Options{})
	for _, want := range []string{
		"digraph G {",
		`label="Root", shape=folder`,
		`label="Icons", shape=folder`,
		`label="Glyphs", shape=box, style="rounded,filled,dashed"`,
		`"` + root.ID() + `" -> "` + g.ID() + `";`,
		`"` + g.ID() + `" -> "` + l.ID() + `";`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %s\n%s", want, src)
		}
	}
	if strings.Contains(src, "ellipse") {
		t.Error("shapes should be omitted by default")
	}

	src = ToDOT(doc, Options{Shapes: true, Detailed: true})
	for _, want := range []string{
		`label="Dot\ncircle", shape=ellipse`,
		`label="missing", shape=ellipse, fontsize=11, style=dashed, color=red`,
		`label="Glyphs\nz: 0\nshapes: 2"`,
		`"` + l.ID() + `" -> "` + l.ID() + `/dot";`,
	} {
		if !strings.Contains(src, want) {
			t.Errorf("missing %s\n%s", want, src)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	doc, _, _ := sample(t)
	svg, err := RenderSVG(context.Background(), ToDOT(doc, Options{Shapes: true}))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 `)) {
		t.Errorf("svg root not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="62pt" height="44pt" viewBox="0.00 0.00 62.00 44.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	got := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 62.00 44.00" width="62" height="44"><g/></svg>`
	if got != want {
		t.Errorf("normalizeViewBox() = %s", got)
	}
	if string(normalizeViewBox([]byte("<svg/>"))) != "<svg/>" {
		t.Error("input without viewBox should pass through")
	}
}

func TestExporter(t *testing.T) {
	doc, _, _ := sample(t)
	e := &Exporter{}
	if e.Format() != "dot" {
		t.Errorf("Format() = %q", e.Format())
	}
	var buf bytes.Buffer
	if err := e.Export(context.Background(), doc, &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(buf.String(), "digraph G {") {
		t.Errorf("output = %.50s", buf.String())
	}
}
