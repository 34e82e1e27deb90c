package style

import (
	"encoding/json"
	"testing"
)

func TestNewStrokeDefaults(t *testing.T) {
	s, err := NewStroke(RGB(0, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if s.Width() != 1 || s.Cap() != CapButt || s.Join() != JoinMiter || s.MiterLimit() != 4 || s.Opacity() != 1 {
		t.Errorf("unexpected defaults: %+v", s)
	}
	if s.Dash() != nil {
		t.Errorf("default dash = %v, want nil", s.Dash())
	}
}

func TestNewStrokeValidation(t *testing.T) {
	black := RGB(0, 0, 0)
	tests := []struct {
		name  string
		color Color
		opts  []StrokeOption
	}{
		{"no color", Color{}, nil},
		{"zero width", black, []StrokeOption{WithWidth(0)}},
		{"negative width", black, []StrokeOption{WithWidth(-2)}},
		{"bad cap", black, []StrokeOption{WithCap("pointy")}},
		{"bad join", black, []StrokeOption{WithJoin("weld")}},
		{"zero miter", black, []StrokeOption{WithMiterLimit(0)}},
		{"negative dash", black, []StrokeOption{WithDash([]float64{4, -1}, 0)}},
		{"opacity", black, []StrokeOption{WithStrokeOpacity(2)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewStroke(tt.color, tt.opts...); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStrokeDashNormalization(t *testing.T) {
	s, err := NewStroke(RGB(0, 0, 0), WithDash([]float64{}, 0))
	if err != nil {
		t.Fatal(err)
	}
	if s.Dash() != nil {
		t.Errorf("empty dash array should normalize to nil, got %#v", s.Dash())
	}

	dash := []float64{5, 3}
	s, err = NewStroke(RGB(0, 0, 0), WithDash(dash, 1))
	if err != nil {
		t.Fatal(err)
	}
	dash[0] = 99
	if got := s.Dash(); got[0] != 5 || s.DashOffset() != 1 {
		t.Errorf("dash = %v offset %v", got, s.DashOffset())
	}
}

func TestStrokeUpdateAtomic(t *testing.T) {
	s, _ := NewStroke(RGB(0, 0, 0), WithWidth(3))
	if err := s.Update(WithCap(CapRound), WithWidth(-1)); err == nil {
		t.Fatal("expected error")
	}
	if s.Width() != 3 || s.Cap() != CapButt {
		t.Errorf("stroke changed after failed Update: width=%v cap=%s", s.Width(), s.Cap())
	}
	if err := s.Update(WithCap(CapRound)); err != nil || s.Cap() != CapRound {
		t.Errorf("Update: %v cap=%s", err, s.Cap())
	}
}

func TestStrokeJSON(t *testing.T) {
	s, _ := NewStroke(RGB(10, 20, 30), WithWidth(2.5), WithJoin(JoinBevel), WithDash([]float64{4, 2}, 1))
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var got Stroke
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if got.Width() != 2.5 || got.Join() != JoinBevel || len(got.Dash()) != 2 || got.DashOffset() != 1 {
		t.Errorf("round trip = %+v", got)
	}

	if err := json.Unmarshal([]byte(`{"color":"black","dash_array":[]}`), &got); err != nil {
		t.Fatal(err)
	}
	if got.Dash() != nil || got.Width() != 1 {
		t.Errorf("defaults not applied: %+v", got)
	}
	if err := json.Unmarshal([]byte(`{"color":"black","width":-1}`), &got); err == nil {
		t.Error("negative width should fail to decode")
	}
}

func TestEffects(t *testing.T) {
	e, err := NewEffects()
	if err != nil {
		t.Fatal(err)
	}
	if e.Opacity() != 1 || e.BlendMode() != BlendNormal {
		t.Errorf("defaults = %v %s", e.Opacity(), e.BlendMode())
	}
	if _, ok := e.Blur(); ok {
		t.Error("blur should be unset")
	}

	shadow := Shadow{OffsetX: 2, OffsetY: 2, Blur: 4, Color: RGB(0, 0, 0)}
	e, err = NewEffects(WithShadow(shadow), WithBlur(1.5), WithBlendMode(BlendMultiply))
	if err != nil {
		t.Fatal(err)
	}
	if len(e.Shadows()) != 1 || e.BlendMode() != BlendMultiply {
		t.Errorf("effects = %+v", e)
	}

	if _, err := NewEffects(WithBlur(-1)); err == nil {
		t.Error("negative blur should fail")
	}
	if _, err := NewEffects(WithShadow(Shadow{Blur: -1, Color: RGB(0, 0, 0)})); err == nil {
		t.Error("negative shadow blur should fail")
	}
	if _, err := NewEffects(WithBlendMode("sparkle")); err == nil {
		t.Error("unknown blend mode should fail")
	}
	if err := e.Update(WithEffectsOpacity(3)); err == nil || e.Opacity() != 1 {
		t.Error("failed Update should leave effects unchanged")
	}
}

func TestEffectsJSON(t *testing.T) {
	e, _ := NewEffects(WithShadow(Shadow{Blur: 3, Color: RGB(0, 0, 0), Inset: true}), WithBlendMode(BlendScreen))
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	var got Effects
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s): %v", data, err)
	}
	if got.BlendMode() != BlendScreen || !got.Shadows()[0].Inset {
		t.Errorf("round trip = %+v", got)
	}
}

func TestStyleClone(t *testing.T) {
	fill, _ := SolidFill(RGB(1, 2, 3))
	stroke, _ := NewStroke(RGB(0, 0, 0), WithDash([]float64{1, 1}, 0))
	s := &Style{Fill: fill, Stroke: stroke}

	c := s.Clone()
	_ = c.Fill.SetOpacity(0.5)
	_ = c.Stroke.Update(WithWidth(9))
	if s.Fill.Opacity() != 1 || s.Stroke.Width() != 1 {
		t.Error("Clone should not share state")
	}
	if (*Style)(nil).Clone() != nil {
		t.Error("nil clone should be nil")
	}
	if !(&Style{}).IsEmpty() || s.IsEmpty() {
		t.Error("IsEmpty mismatch")
	}
}
