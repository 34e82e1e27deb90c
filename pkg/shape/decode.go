package shape

import (
	"encoding/json"
	"fmt"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// FromMap decodes an open key-value geometry payload for kind and validates
// it. Numbers may be any Go numeric type or json.Number; booleans are not
// numbers. Unknown keys are ignored.
func FromMap(kind Kind, m map[string]any) (Geometry, error) {
	g, err := fromMap(kind, m)
	if err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

func fromMap(kind Kind, m map[string]any) (Geometry, error) {
	r := mapReader{m: m, kind: kind}
	var g Geometry
	switch kind {
	case KindRectangle:
		rect := Rectangle{Width: r.number("width"), Height: r.number("height")}
		if _, ok := m["corner_radius"]; ok {
			cr := r.number("corner_radius")
			rect.CornerRadius = &cr
		}
		g = rect
	case KindCircle:
		g = Circle{Radius: r.number("radius")}
	case KindEllipse:
		g = Ellipse{RX: r.number("rx"), RY: r.number("ry")}
	case KindLine:
		g = Line{X1: r.number("x1"), Y1: r.number("y1"), X2: r.number("x2"), Y2: r.number("y2")}
	case KindPolyline:
		g = Polyline{Points: r.points("points")}
	case KindPolygon:
		g = Polygon{Points: r.points("points")}
	case KindPath:
		g = Path{Data: r.str("path_data")}
	case KindGroup:
		g = Group{Children: r.strings("children")}
	default:
		return nil, derrors.Geometry("unknown shape type %q", kind)
	}
	if r.err != nil {
		return nil, r.err
	}
	return g, nil
}

// mapReader extracts typed fields and keeps the first error.
type mapReader struct {
	m    map[string]any
	kind Kind
	err  error
}

func (r *mapReader) fail(format string, args ...any) {
	if r.err == nil {
		r.err = derrors.Geometry("%s %s", r.kind, fmt.Sprintf(format, args...))
	}
}

func (r *mapReader) get(key string) (any, bool) {
	v, ok := r.m[key]
	if !ok {
		r.fail("requires %s", key)
	}
	return v, ok
}

func (r *mapReader) number(key string) float64 {
	v, ok := r.get(key)
	if !ok {
		return 0
	}
	f, ok := toFloat(v)
	if !ok {
		r.fail("%s must be a number", key)
	}
	return f
}

func (r *mapReader) str(key string) string {
	v, ok := r.get(key)
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		r.fail("%s must be a string", key)
	}
	return s
}

func (r *mapReader) strings(key string) []string {
	v, ok := r.get(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case []string:
		return append([]string{}, list...)
	case []any:
		out := make([]string, 0, len(list))
		for i, item := range list {
			s, ok := item.(string)
			if !ok {
				r.fail("child %d must be a shape ID string", i)
				return nil
			}
			out = append(out, s)
		}
		return out
	}
	r.fail("%s must be an array", key)
	return nil
}

func (r *mapReader) points(key string) [][2]float64 {
	v, ok := r.get(key)
	if !ok {
		return nil
	}
	switch list := v.(type) {
	case [][2]float64:
		return append([][2]float64{}, list...)
	case [][]float64:
		out := make([][2]float64, len(list))
		for i, p := range list {
			if len(p) != 2 {
				r.fail("point %d must be an [x, y] coordinate", i)
				return nil
			}
			out[i] = [2]float64{p[0], p[1]}
		}
		return out
	case []any:
		out := make([][2]float64, len(list))
		for i, item := range list {
			p, ok := toPoint(item)
			if !ok {
				r.fail("point %d must be an [x, y] coordinate of numbers", i)
				return nil
			}
			out[i] = p
		}
		return out
	}
	r.fail("%s must be an array", key)
	return nil
}

func toPoint(v any) ([2]float64, bool) {
	switch p := v.(type) {
	case [2]float64:
		return p, true
	case []float64:
		if len(p) == 2 {
			return [2]float64{p[0], p[1]}, true
		}
	case []any:
		if len(p) != 2 {
			return [2]float64{}, false
		}
		x, okx := toFloat(p[0])
		y, oky := toFloat(p[1])
		return [2]float64{x, y}, okx && oky
	}
	return [2]float64{}, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
