package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/shape"
	"github.com/matzehuels/drawkit/pkg/style"
)

type element struct {
	name  string
	attrs []string
}

func newElement(name string) *element { return &element{name: name} }

func (e *element) set(k, v string) { e.attrs = append(e.attrs, k, v) }

func (e *element) start(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteByte('<')
	buf.WriteString(e.name)
	for i := 0; i < len(e.attrs); i += 2 {
		fmt.Fprintf(buf, ` %s="%s"`, e.attrs[i], escape(e.attrs[i+1]))
	}
}

// write emits a self-closing element.
func (e *element) write(buf *bytes.Buffer, depth int) {
	e.start(buf, depth)
	buf.WriteString("/>\n")
}

func (e *element) open(buf *bytes.Buffer, depth int) {
	e.start(buf, depth)
	buf.WriteString(">\n")
}

func (e *element) close(buf *bytes.Buffer, depth int) {
	fmt.Fprintf(buf, "%s</%s>\n", strings.Repeat("  ", depth), e.name)
}

// renderShape writes s at the given depth. seen holds the group shapes on
// the current path and stops reference cycles.
func (r *renderer) renderShape(buf *bytes.Buffer, s *shape.Shape, depth int, seen map[string]bool) {
	var e *element
	switch g := s.Geometry().(type) {
	case shape.Rectangle:
		e = newElement("rect")
		e.set("x", "0")
		e.set("y", "0")
		e.set("width", num(g.Width))
		e.set("height", num(g.Height))
		if g.CornerRadius != nil && *g.CornerRadius > 0 {
			e.set("rx", num(*g.CornerRadius))
			e.set("ry", num(*g.CornerRadius))
		}
	case shape.Circle:
		e = newElement("circle")
		e.set("cx", "0")
		e.set("cy", "0")
		e.set("r", num(g.Radius))
	case shape.Ellipse:
		e = newElement("ellipse")
		e.set("cx", "0")
		e.set("cy", "0")
		e.set("rx", num(g.RX))
		e.set("ry", num(g.RY))
	case shape.Line:
		e = newElement("line")
		e.set("x1", num(g.X1))
		e.set("y1", num(g.Y1))
		e.set("x2", num(g.X2))
		e.set("y2", num(g.Y2))
	case shape.Polyline:
		e = newElement("polyline")
		e.set("points", points(g.Points))
	case shape.Polygon:
		e = newElement("polygon")
		e.set("points", points(g.Points))
	case shape.Path:
		e = newElement("path")
		e.set("d", g.Data)
	case shape.Group:
		r.renderGroup(buf, s, g, depth, seen)
		return
	default:
		return
	}
	r.decorate(e, s)
	e.write(buf, depth)
}

func (r *renderer) renderGroup(buf *bytes.Buffer, s *shape.Shape, g shape.Group, depth int, seen map[string]bool) {
	if seen[s.ID()] {
		return
	}
	seen[s.ID()] = true
	defer delete(seen, s.ID())

	e := newElement("g")
	r.decorate(e, s)
	e.open(buf, depth)
	for _, id := range g.Children {
		child, ok := r.doc.Library().Get(id)
		if !ok || (!child.Visible && !r.includeInvisible) {
			continue
		}
		r.renderShape(buf, child, depth+1, seen)
	}
	e.close(buf, depth)
}

// decorate adds the id, style and transform attributes shared by all kinds.
func (r *renderer) decorate(e *element, s *shape.Shape) {
	if s.Name != "" {
		e.set("id", sanitizeID(s.Name))
	}
	st := s.Style()
	if s.Kind() != shape.KindGroup || st.Fill != nil {
		r.fillAttrs(e, st.Fill)
	}
	if s.Kind() != shape.KindGroup || st.Stroke != nil {
		strokeAttrs(e, st.Stroke)
	}
	if st.Effects != nil {
		r.effectAttrs(e, s.ID(), st.Effects)
	}
	if t := TransformString(s.Transform()); t != "" {
		e.set("transform", t)
	}
}

func (r *renderer) fillAttrs(e *element, f *style.Fill) {
	if f == nil {
		e.set("fill", "none")
		return
	}
	opacity := f.Opacity()
	switch f.Type() {
	case style.FillSolid:
		c, _ := f.Color()
		hex, alpha := paint(c)
		e.set("fill", hex)
		opacity *= alpha
	case style.FillLinearGradient:
		g, _ := f.LinearGradient()
		e.set("fill", "url(#"+r.linearDef(g)+")")
	case style.FillRadialGradient:
		g, _ := f.RadialGradient()
		e.set("fill", "url(#"+r.radialDef(g)+")")
	case style.FillPattern:
		p, _ := f.Pattern()
		e.set("fill", "url(#"+r.patternDef(p)+")")
	}
	setOpacity(e, "fill-opacity", opacity)
}

func strokeAttrs(e *element, s *style.Stroke) {
	if s == nil {
		e.set("stroke", "none")
		return
	}
	hex, alpha := paint(s.Color())
	e.set("stroke", hex)
	e.set("stroke-width", num(s.Width()))
	if s.Cap() != style.CapButt {
		e.set("stroke-linecap", string(s.Cap()))
	}
	if s.Join() != style.JoinMiter {
		e.set("stroke-linejoin", string(s.Join()))
	}
	if s.MiterLimit() != 4 {
		e.set("stroke-miterlimit", num(s.MiterLimit()))
	}
	if dash := s.Dash(); len(dash) > 0 {
		parts := make([]string, len(dash))
		for i, d := range dash {
			parts[i] = num(d)
		}
		e.set("stroke-dasharray", strings.Join(parts, " "))
		if s.DashOffset() != 0 {
			e.set("stroke-dashoffset", num(s.DashOffset()))
		}
	}
	setOpacity(e, "stroke-opacity", alpha*s.Opacity())
}

func (r *renderer) effectAttrs(e *element, shapeID string, fx *style.Effects) {
	setOpacity(e, "opacity", fx.Opacity())
	setBlend(e, fx.BlendMode())
	if id, ok := r.filterDef(shapeID, fx); ok {
		e.set("filter", "url(#"+id+")")
	}
}

// ============================================================
// Definitions
// ============================================================

// claim reserves a defs id and reports whether the definition still needs
// writing.
func (r *renderer) claim(id string) bool {
	if r.defIDs[id] {
		return false
	}
	r.defIDs[id] = true
	return true
}

func (r *renderer) linearDef(g *style.LinearGradient) string {
	id := sanitizeID(g.ID)
	if !r.claim(id) {
		return id
	}
	e := newElement("linearGradient")
	e.set("id", id)
	e.set("x1", num(g.StartX))
	e.set("y1", num(g.StartY))
	e.set("x2", num(g.EndX))
	e.set("y2", num(g.EndY))
	e.open(&r.defs, 2)
	writeStops(&r.defs, g.Stops())
	e.close(&r.defs, 2)
	return id
}

func (r *renderer) radialDef(g *style.RadialGradient) string {
	id := sanitizeID(g.ID)
	if !r.claim(id) {
		return id
	}
	e := newElement("radialGradient")
	e.set("id", id)
	e.set("cx", num(g.CenterX))
	e.set("cy", num(g.CenterY))
	e.set("r", num(g.Radius()))
	e.open(&r.defs, 2)
	writeStops(&r.defs, g.Stops())
	e.close(&r.defs, 2)
	return id
}

func writeStops(buf *bytes.Buffer, stops []style.GradientStop) {
	for _, s := range stops {
		e := newElement("stop")
		e.set("offset", num(s.Position))
		hex, alpha := paint(s.Color)
		e.set("stop-color", hex)
		setOpacity(e, "stop-opacity", alpha)
		e.write(buf, 3)
	}
}

func (r *renderer) patternDef(p *style.Pattern) string {
	id := sanitizeID(p.ID)
	if !r.claim(id) {
		return id
	}
	// A non-repeating axis gets a tile as large as the canvas.
	tileW, tileH := p.Width, p.Height
	if !p.RepeatX && r.doc.Canvas.Width > tileW {
		tileW = r.doc.Canvas.Width
	}
	if !p.RepeatY && r.doc.Canvas.Height > tileH {
		tileH = r.doc.Canvas.Height
	}
	e := newElement("pattern")
	e.set("id", id)
	e.set("patternUnits", "userSpaceOnUse")
	e.set("width", num(tileW))
	e.set("height", num(tileH))
	e.open(&r.defs, 2)

	img := newElement("image")
	href := imageHref(p.ImageData)
	img.set("href", href)
	img.set("xlink:href", href)
	img.set("width", num(p.Width))
	img.set("height", num(p.Height))
	img.write(&r.defs, 3)
	e.close(&r.defs, 2)
	return id
}

// imageHref turns bare base64 payloads into data URLs.
func imageHref(data string) string {
	if derrors.ValidateURL(data) == nil {
		return data
	}
	return "data:image/png;base64," + data
}

func (r *renderer) filterDef(shapeID string, fx *style.Effects) (string, bool) {
	blur, hasBlur := fx.Blur()
	var shadows []style.Shadow
	for _, s := range fx.Shadows() {
		if !s.Inset {
			shadows = append(shadows, s)
		}
	}
	if !hasBlur && len(shadows) == 0 {
		return "", false
	}
	id := "fx-" + sanitizeID(shapeID)
	if !r.claim(id) {
		return id, true
	}
	e := newElement("filter")
	e.set("id", id)
	e.set("x", "-50%")
	e.set("y", "-50%")
	e.set("width", "200%")
	e.set("height", "200%")
	e.open(&r.defs, 2)
	if hasBlur && blur > 0 {
		b := newElement("feGaussianBlur")
		b.set("stdDeviation", num(blur))
		b.write(&r.defs, 3)
	}
	for _, s := range shadows {
		d := newElement("feDropShadow")
		d.set("dx", num(s.OffsetX))
		d.set("dy", num(s.OffsetY))
		d.set("stdDeviation", num(s.Blur/2))
		hex, alpha := paint(s.Color)
		d.set("flood-color", hex)
		setOpacity(d, "flood-opacity", alpha)
		d.write(&r.defs, 3)
	}
	e.close(&r.defs, 2)
	return id, true
}

// ============================================================
// Formatting
// ============================================================

// TransformString returns the SVG transform attribute for t, or "" for the
// identity. Components apply in the order translate, rotate, scale, skew.
func TransformString(t shape.Transform) string {
	var parts []string
	if t.X != 0 || t.Y != 0 {
		parts = append(parts, fmt.Sprintf("translate(%s,%s)", num(t.X), num(t.Y)))
	}
	if t.Rotation != 0 {
		parts = append(parts, fmt.Sprintf("rotate(%s)", num(t.Rotation)))
	}
	if t.ScaleX != 1 || t.ScaleY != 1 {
		parts = append(parts, fmt.Sprintf("scale(%s,%s)", num(t.ScaleX), num(t.ScaleY)))
	}
	if t.SkewX != 0 {
		parts = append(parts, fmt.Sprintf("skewX(%s)", num(t.SkewX)))
	}
	if t.SkewY != 0 {
		parts = append(parts, fmt.Sprintf("skewY(%s)", num(t.SkewY)))
	}
	return strings.Join(parts, " ")
}

// paint splits c into an opaque #RRGGBB color and its alpha.
func paint(c style.Color) (string, float64) {
	if c.IsZero() {
		return "black", 1
	}
	r, g, b, a := c.Components()
	return fmt.Sprintf("#%02X%02X%02X", r, g, b), a
}

func setOpacity(e *element, attr string, v float64) {
	if v < 1 {
		e.set(attr, num(v))
	}
}

func points(pts [][2]float64) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = num(p[0]) + "," + num(p[1])
	}
	return strings.Join(parts, " ")
}

func num(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

var invalidIDChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

// sanitizeID replaces characters that are not valid in an SVG id.
func sanitizeID(s string) string { return invalidIDChars.ReplaceAllString(s, "_") }

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// comment makes s safe inside an XML comment.
func comment(s string) string { return strings.ReplaceAll(s, "--", "- -") }
