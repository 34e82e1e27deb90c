package shape

import (
	"encoding/json"
	"math"
	"testing"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/style"
)

func ptr[T any](v T) *T { return &v }

func TestGeometryValidate(t *testing.T) {
	tests := []struct {
		name    string
		g       Geometry
		wantErr bool
	}{
		{"rectangle", Rectangle{Width: 100, Height: 50}, false},
		{"rectangle corner radius", Rectangle{Width: 10, Height: 10, CornerRadius: ptr(0.0)}, false},
		{"rectangle negative width", Rectangle{Width: -1, Height: 50}, true},
		{"rectangle zero height", Rectangle{Width: 1}, true},
		{"rectangle negative radius", Rectangle{Width: 10, Height: 10, CornerRadius: ptr(-1.0)}, true},
		{"circle", Circle{Radius: 5}, false},
		{"circle zero", Circle{}, true},
		{"circle NaN", Circle{Radius: math.NaN()}, true},
		{"ellipse", Ellipse{RX: 1, RY: 2}, false},
		{"ellipse zero ry", Ellipse{RX: 1}, true},
		{"line negative coords", Line{X1: -5, Y1: -5, X2: 0, Y2: 10}, false},
		{"line infinite", Line{X1: math.Inf(1)}, true},
		{"polyline", Polyline{Points: [][2]float64{{0, 0}, {1, 1}}}, false},
		{"polyline one point", Polyline{Points: [][2]float64{{0, 0}}}, true},
		{"polygon", Polygon{Points: [][2]float64{{0, 0}, {1, 0}, {0, 1}}}, false},
		{"polygon two points", Polygon{Points: [][2]float64{{0, 0}, {1, 0}}}, true},
		{"path", Path{Data: "  M 0 0 L 10 10"}, false},
		{"path lowercase", Path{Data: "m0,0z"}, false},
		{"path blank", Path{Data: "   "}, true},
		{"path bad command", Path{Data: "X 0 0"}, true},
		{"group empty", Group{}, false},
		{"group", Group{Children: []string{"a", "b"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.g.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !derrors.Is(err, derrors.ErrCodeInvalidGeometry) {
				t.Errorf("expected geometry error, got %v", err)
			}
		})
	}
}

func TestNewRejectsInvalidGeometry(t *testing.T) {
	if _, err := New(nil); !derrors.Is(err, derrors.ErrCodeInvalidGeometry) {
		t.Errorf("nil geometry: got %v", err)
	}
	if _, err := New(Circle{Radius: -3}); !derrors.Is(err, derrors.ErrCodeInvalidGeometry) {
		t.Errorf("negative radius: got %v", err)
	}
	if _, err := New(Circle{Radius: 3}, WithTransform(Transform{ScaleX: 0, ScaleY: 1})); !derrors.Is(err, derrors.ErrCodeInvalidTransform) {
		t.Errorf("zero scale: got %v", err)
	}
	if _, err := New(Circle{Radius: 3}, WithID("has space")); err == nil {
		t.Error("invalid id should fail")
	}
	if _, err := New(Circle{Radius: 3}, WithStyle(&style.Style{Fill: &style.Fill{}})); !derrors.Is(err, derrors.ErrCodeInvalidStyle) {
		t.Errorf("zero fill: got %v", err)
	}
}

func TestNewDefaults(t *testing.T) {
	s, err := New(Rectangle{Width: 100, Height: 50})
	if err != nil {
		t.Fatal(err)
	}
	if s.ID() == "" || s.Kind() != KindRectangle {
		t.Errorf("id=%q kind=%s", s.ID(), s.Kind())
	}
	if !s.Visible || s.Locked || s.Name != "" {
		t.Errorf("flags = visible:%v locked:%v name:%q", s.Visible, s.Locked, s.Name)
	}
	if s.Style() == nil || !s.Style().IsEmpty() {
		t.Error("default style should be present and empty")
	}
	if !s.Transform().IsIdentity() {
		t.Errorf("default transform = %+v", s.Transform())
	}
}

func TestSetGeometryRollback(t *testing.T) {
	s, err := New(Rectangle{Width: 100, Height: 50})
	if err != nil {
		t.Fatal(err)
	}

	err = s.SetGeometry(Rectangle{Width: -1, Height: 50})
	if !derrors.Is(err, derrors.ErrCodeInvalidGeometry) {
		t.Fatalf("expected geometry error, got %v", err)
	}
	rect, ok := s.Geometry().(Rectangle)
	if !ok || rect.Width != 100 || rect.Height != 50 {
		t.Errorf("geometry after failed update = %+v", s.Geometry())
	}

	// Changing kind goes through the same validation.
	if err := s.SetGeometry(Path{Data: "Q"}); err != nil {
		t.Fatalf("SetGeometry(path): %v", err)
	}
	if s.Kind() != KindPath {
		t.Errorf("kind = %s, want path", s.Kind())
	}
	if err := s.SetGeometry(Polygon{}); err == nil || s.Kind() != KindPath {
		t.Error("invalid kind change should keep the path")
	}
}

func TestGeometryIsCopied(t *testing.T) {
	pts := [][2]float64{{0, 0}, {1, 1}}
	s, err := New(Polyline{Points: pts})
	if err != nil {
		t.Fatal(err)
	}
	pts[0][0] = math.NaN()
	got := s.Geometry().(Polyline)
	if got.Points[0][0] != 0 {
		t.Error("shape should not alias the caller's points")
	}
	got.Points[1][1] = 99
	if s.Geometry().(Polyline).Points[1][1] != 1 {
		t.Error("Geometry() should return a copy")
	}
}

func TestSetTransformRollback(t *testing.T) {
	s, _ := New(Circle{Radius: 1}, WithTransform(Translate(5, 5)))
	bad := Identity()
	bad.ScaleY = -2
	if err := s.SetTransform(bad); !derrors.Is(err, derrors.ErrCodeInvalidTransform) {
		t.Fatalf("expected transform error, got %v", err)
	}
	if s.Transform().X != 5 || s.Transform().ScaleY != 1 {
		t.Errorf("transform changed: %+v", s.Transform())
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name   string
		g      Geometry
		tx, ty float64
		want   Bounds
		wantOK bool
	}{
		{"rectangle", Rectangle{Width: 100, Height: 50}, 10, 20, Bounds{10, 20, 110, 70}, true},
		{"circle", Circle{Radius: 5}, 0, 0, Bounds{-5, -5, 5, 5}, true},
		{"ellipse", Ellipse{RX: 3, RY: 2}, 1, 1, Bounds{-2, -1, 4, 3}, true},
		{"line", Line{X1: 10, Y1: 0, X2: -10, Y2: 5}, 0, 0, Bounds{-10, 0, 10, 5}, true},
		{"polygon", Polygon{Points: [][2]float64{{0, 5}, {-3, 1}, {7, -2}}}, 0, 0, Bounds{-3, -2, 7, 5}, true},
		{"path", Path{Data: "M0 0"}, 0, 0, Bounds{}, false},
		{"group", Group{}, 0, 0, Bounds{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := Translate(tt.tx, tt.ty)
			tr.Rotation = 45
			tr.ScaleX = 3
			s, err := New(tt.g, WithTransform(tr))
			if err != nil {
				t.Fatal(err)
			}
			got, ok := s.Bounds()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Bounds() = %+v, %v; want %+v, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestFromMap(t *testing.T) {
	tests := []struct {
		name    string
		kind    Kind
		m       map[string]any
		want    Geometry
		wantErr bool
	}{
		{"rectangle", KindRectangle, map[string]any{"width": 100.0, "height": 50}, Rectangle{Width: 100, Height: 50}, false},
		{"circle json number", KindCircle, map[string]any{"radius": json.Number("2.5")}, Circle{Radius: 2.5}, false},
		{"rectangle missing height", KindRectangle, map[string]any{"width": 1.0}, nil, true},
		{"rectangle string width", KindRectangle, map[string]any{"width": "1", "height": 1.0}, nil, true},
		{"circle bool radius", KindCircle, map[string]any{"radius": true}, nil, true},
		{"line missing y2", KindLine, map[string]any{"x1": 0.0, "y1": 0.0, "x2": 1.0}, nil, true},
		{"polyline", KindPolyline, map[string]any{"points": []any{[]any{0.0, 0.0}, []any{1.0, 2.0}}}, nil, false},
		{"polyline three coords", KindPolyline, map[string]any{"points": []any{[]any{0.0, 0.0, 0.0}, []any{1.0, 2.0}}}, nil, true},
		{"polygon not a list", KindPolygon, map[string]any{"points": "0,0 1,1 2,2"}, nil, true},
		{"path", KindPath, map[string]any{"path_data": "M 0 0"}, Path{Data: "M 0 0"}, false},
		{"path number", KindPath, map[string]any{"path_data": 5.0}, nil, true},
		{"group", KindGroup, map[string]any{"children": []any{"a", "b"}}, nil, false},
		{"group non-string child", KindGroup, map[string]any{"children": []any{"a", 1.0}}, nil, true},
		{"group missing children", KindGroup, map[string]any{}, nil, true},
		{"unknown kind", Kind("star"), map[string]any{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromMap(tt.kind, tt.m)
			if tt.wantErr {
				if !derrors.Is(err, derrors.ErrCodeInvalidGeometry) {
					t.Errorf("expected geometry error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("FromMap error: %v", err)
			}
			if g.Kind() != tt.kind {
				t.Errorf("kind = %s, want %s", g.Kind(), tt.kind)
			}
			if tt.want != nil && g != tt.want {
				t.Errorf("FromMap = %+v, want %+v", g, tt.want)
			}
		})
	}
}

func TestMapRoundTrip(t *testing.T) {
	geoms := []Geometry{
		Rectangle{Width: 4, Height: 3, CornerRadius: ptr(1.5)},
		Ellipse{RX: 1, RY: 2},
		Line{X1: 1, Y1: 2, X2: 3, Y2: 4},
		Polygon{Points: [][2]float64{{0, 0}, {1, 0}, {1, 1}}},
		Group{Children: []string{"x"}},
	}
	for _, g := range geoms {
		t.Run(string(g.Kind()), func(t *testing.T) {
			got, err := FromMap(g.Kind(), g.Map())
			if err != nil {
				t.Fatalf("FromMap(Map()) error: %v", err)
			}
			a, _ := json.Marshal(got.Map())
			b, _ := json.Marshal(g.Map())
			if string(a) != string(b) {
				t.Errorf("round trip = %s, want %s", a, b)
			}
		})
	}
}

func TestShapeJSON(t *testing.T) {
	fill, _ := style.SolidFill(style.RGB(255, 0, 0))
	tr := Translate(10, 20)
	tr.Rotation = 30
	s, err := New(
		Polygon{Points: [][2]float64{{0, 0}, {10, 0}, {5, 8}}},
		WithName("triangle"),
		WithStyle(&style.Style{Fill: fill}),
		WithTransform(tr),
		WithVisible(false),
		WithLocked(true),
	)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var got Shape
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if got.ID() != s.ID() || got.Kind() != KindPolygon || got.Name != "triangle" {
		t.Errorf("identity mismatch: %s %s %q", got.ID(), got.Kind(), got.Name)
	}
	if got.Visible || !got.Locked {
		t.Errorf("flags = visible:%v locked:%v", got.Visible, got.Locked)
	}
	if got.Transform() != tr {
		t.Errorf("transform = %+v, want %+v", got.Transform(), tr)
	}
	if c, ok := got.Style().Fill.Color(); !ok || c != style.RGB(255, 0, 0) {
		t.Error("fill color lost")
	}
}

func TestShapeJSONDefaults(t *testing.T) {
	var s Shape
	if err := json.Unmarshal([]byte(`{"type":"circle","geometry":{"radius":4}}`), &s); err != nil {
		t.Fatal(err)
	}
	if s.ID() == "" || !s.Visible || !s.Transform().IsIdentity() {
		t.Errorf("defaults not applied: id=%q visible=%v", s.ID(), s.Visible)
	}
}

func TestShapeJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code derrors.Code
	}{
		{"negative width", `{"type":"rectangle","geometry":{"width":-1,"height":5}}`, derrors.ErrCodeInvalidGeometry},
		{"unknown type", `{"type":"star","geometry":{}}`, derrors.ErrCodeInvalidGeometry},
		{"missing geometry", `{"type":"circle"}`, derrors.ErrCodeInvalidGeometry},
		{"bad transform", `{"type":"circle","geometry":{"radius":1},"transform":{"scale_x":0}}`, derrors.ErrCodeInvalidTransform},
		{"bad fill", `{"type":"circle","geometry":{"radius":1},"style":{"fill":{"type":"pattern"}}}`, derrors.ErrCodeInvalidStyle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Shape
			err := json.Unmarshal([]byte(tt.in), &s)
			if !derrors.Is(err, tt.code) {
				t.Errorf("expected %s, got %v", tt.code, err)
			}
		})
	}
}

func TestCloneAndCopy(t *testing.T) {
	s, _ := New(Group{Children: []string{"a"}})
	c := s.Clone()
	if c.ID() != s.ID() {
		t.Error("Clone should keep the ID")
	}
	if d := s.Copy(); d.ID() == s.ID() {
		t.Error("Copy should assign a fresh ID")
	}
}
