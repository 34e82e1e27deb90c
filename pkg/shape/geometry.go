package shape

import (
	"math"
	"slices"
	"strings"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Kind identifies the geometry of a shape.
type Kind string

const (
	KindRectangle Kind = "rectangle"
	KindCircle    Kind = "circle"
	KindEllipse   Kind = "ellipse"
	KindLine      Kind = "line"
	KindPolyline  Kind = "polyline"
	KindPolygon   Kind = "polygon"
	KindPath      Kind = "path"
	KindGroup     Kind = "group"
)

// Kinds lists every shape kind.
var Kinds = []Kind{
	KindRectangle, KindCircle, KindEllipse, KindLine,
	KindPolyline, KindPolygon, KindPath, KindGroup,
}

// ParseKind converts a string literal to a Kind.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !slices.Contains(Kinds, k) {
		return "", derrors.Geometry("unknown shape type %q", s)
	}
	return k, nil
}

// Geometry is the kind-specific payload of a shape. The set of
// implementations is closed.
type Geometry interface {
	// Kind returns the shape kind this payload belongs to.
	Kind() Kind
	// Validate checks the structural rules of the kind.
	Validate() error
	// Map returns the payload as an open key-value map using the
	// serialized field names.
	Map() map[string]any

	bounds() (Bounds, bool)
	clone() Geometry
}

// Rectangle is an axis-aligned box anchored at the origin.
type Rectangle struct {
	Width  float64
	Height float64
	// CornerRadius is optional; nil means square corners.
	CornerRadius *float64
}

// Circle is centered at the origin.
type Circle struct {
	Radius float64
}

// Ellipse is centered at the origin.
type Ellipse struct {
	RX float64
	RY float64
}

// Line is a single segment.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Polyline is an open chain of at least two points.
type Polyline struct {
	Points [][2]float64
}

// Polygon is a closed chain of at least three points.
type Polygon struct {
	Points [][2]float64
}

// Path holds SVG path data.
type Path struct {
	Data string
}

// Group references other shapes by ID. It may be empty.
type Group struct {
	Children []string
}

func (Rectangle) Kind() Kind { return KindRectangle }
func (Circle) Kind() Kind    { return KindCircle }
func (Ellipse) Kind() Kind   { return KindEllipse }
func (Line) Kind() Kind      { return KindLine }
func (Polyline) Kind() Kind  { return KindPolyline }
func (Polygon) Kind() Kind   { return KindPolygon }
func (Path) Kind() Kind      { return KindPath }
func (Group) Kind() Kind     { return KindGroup }

func (g Rectangle) Validate() error {
	if err := positive("rectangle width", g.Width); err != nil {
		return err
	}
	if err := positive("rectangle height", g.Height); err != nil {
		return err
	}
	if g.CornerRadius != nil {
		r := *g.CornerRadius
		if !(r >= 0) || math.IsInf(r, 1) {
			return derrors.Geometry("corner radius must be a non-negative number, got %g", r)
		}
	}
	return nil
}

func (g Circle) Validate() error { return positive("circle radius", g.Radius) }

func (g Ellipse) Validate() error {
	if err := positive("ellipse rx", g.RX); err != nil {
		return err
	}
	return positive("ellipse ry", g.RY)
}

func (g Line) Validate() error {
	for _, v := range []float64{g.X1, g.Y1, g.X2, g.Y2} {
		if !finite(v) {
			return derrors.Geometry("line coordinates must be finite numbers")
		}
	}
	return nil
}

func (g Polyline) Validate() error { return validatePoints("polyline", g.Points, 2) }
func (g Polygon) Validate() error  { return validatePoints("polygon", g.Points, 3) }

// pathCommands are the SVG path commands a path may start with.
const pathCommands = "MmLlHhVvCcSsQqTtAaZz"

func (g Path) Validate() error {
	data := strings.TrimSpace(g.Data)
	if data == "" {
		return derrors.Geometry("path data must be a non-empty string")
	}
	if !strings.ContainsRune(pathCommands, rune(data[0])) {
		return derrors.Geometry("path data must start with a valid SVG path command, got %q", data[0])
	}
	return nil
}

func (g Group) Validate() error { return nil }

func (g Rectangle) Map() map[string]any {
	m := map[string]any{"width": g.Width, "height": g.Height}
	if g.CornerRadius != nil {
		m["corner_radius"] = *g.CornerRadius
	}
	return m
}

func (g Circle) Map() map[string]any  { return map[string]any{"radius": g.Radius} }
func (g Ellipse) Map() map[string]any { return map[string]any{"rx": g.RX, "ry": g.RY} }

func (g Line) Map() map[string]any {
	return map[string]any{"x1": g.X1, "y1": g.Y1, "x2": g.X2, "y2": g.Y2}
}

func (g Polyline) Map() map[string]any { return map[string]any{"points": pointsMap(g.Points)} }
func (g Polygon) Map() map[string]any  { return map[string]any{"points": pointsMap(g.Points)} }
func (g Path) Map() map[string]any     { return map[string]any{"path_data": g.Data} }

func (g Group) Map() map[string]any {
	children := g.Children
	if children == nil {
		children = []string{}
	}
	return map[string]any{"children": slices.Clone(children)}
}

func (g Rectangle) bounds() (Bounds, bool) { return Bounds{0, 0, g.Width, g.Height}, true }
func (g Circle) bounds() (Bounds, bool)    { return Bounds{-g.Radius, -g.Radius, g.Radius, g.Radius}, true }
func (g Ellipse) bounds() (Bounds, bool)   { return Bounds{-g.RX, -g.RY, g.RX, g.RY}, true }

func (g Line) bounds() (Bounds, bool) {
	return Bounds{
		MinX: math.Min(g.X1, g.X2), MinY: math.Min(g.Y1, g.Y2),
		MaxX: math.Max(g.X1, g.X2), MaxY: math.Max(g.Y1, g.Y2),
	}, true
}

func (g Polyline) bounds() (Bounds, bool) { return pointBounds(g.Points) }
func (g Polygon) bounds() (Bounds, bool)  { return pointBounds(g.Points) }
func (g Path) bounds() (Bounds, bool)     { return Bounds{}, false }
func (g Group) bounds() (Bounds, bool)    { return Bounds{}, false }

func (g Rectangle) clone() Geometry {
	if g.CornerRadius != nil {
		r := *g.CornerRadius
		g.CornerRadius = &r
	}
	return g
}

func (g Circle) clone() Geometry   { return g }
func (g Ellipse) clone() Geometry  { return g }
func (g Line) clone() Geometry     { return g }
func (g Polyline) clone() Geometry { return Polyline{Points: slices.Clone(g.Points)} }
func (g Polygon) clone() Geometry  { return Polygon{Points: slices.Clone(g.Points)} }
func (g Path) clone() Geometry     { return g }
func (g Group) clone() Geometry    { return Group{Children: slices.Clone(g.Children)} }

func positive(field string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return derrors.Geometry("%s must be a positive number, got %g", field, v)
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func validatePoints(kind string, pts [][2]float64, minPoints int) error {
	if len(pts) < minPoints {
		return derrors.Geometry("%s must have at least %d points, got %d", kind, minPoints, len(pts))
	}
	for i, p := range pts {
		if !finite(p[0]) || !finite(p[1]) {
			return derrors.Geometry("point %d coordinates must be finite numbers", i)
		}
	}
	return nil
}

func pointsMap(pts [][2]float64) []any {
	out := make([]any, len(pts))
	for i, p := range pts {
		out[i] = []float64{p[0], p[1]}
	}
	return out
}

func pointBounds(pts [][2]float64) (Bounds, bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinX: pts[0][0], MinY: pts[0][1], MaxX: pts[0][0], MaxY: pts[0][1]}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p[0])
		b.MinY = math.Min(b.MinY, p[1])
		b.MaxX = math.Max(b.MaxX, p[0])
		b.MaxY = math.Max(b.MaxY, p[1])
	}
	return b, true
}
