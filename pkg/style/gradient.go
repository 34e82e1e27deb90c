package style

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/ident"
)

// minStops is the fewest color stops a gradient may have.
const minStops = 2

// GradientStop is one (position, color) point along a gradient ramp.
type GradientStop struct {
	Position float64 `json:"position"`
	Color    Color   `json:"color"`
}

// Stop is a convenience constructor for a GradientStop.
func Stop(position float64, c Color) GradientStop {
	return GradientStop{Position: position, Color: c}
}

func (s GradientStop) validate() error {
	if err := checkUnit("gradient stop position", s.Position); err != nil {
		return err
	}
	if s.Color.IsZero() {
		return derrors.Style("gradient stop at %g has no color", s.Position)
	}
	return nil
}

// normalizeStops validates stops and returns a sorted copy. Stops are sorted
// stably by position and bit-equal positions are rejected.
func normalizeStops(stops []GradientStop) ([]GradientStop, error) {
	if len(stops) < minStops {
		return nil, derrors.Style("gradient must have at least %d color stops, got %d", minStops, len(stops))
	}
	for _, s := range stops {
		if err := s.validate(); err != nil {
			return nil, err
		}
	}
	sorted := slices.Clone(stops)
	slices.SortStableFunc(sorted, func(a, b GradientStop) int {
		return cmp.Compare(a.Position, b.Position)
	})
	for i := 1; i < len(sorted); i++ {
		if math.Float64bits(sorted[i].Position) == math.Float64bits(sorted[i-1].Position) {
			return nil, derrors.Style("gradient stops cannot have duplicate positions (%g)", sorted[i].Position)
		}
	}
	return sorted, nil
}

// LinearGradient is a color ramp along the line from (StartX, StartY) to
// (EndX, EndY) in object bounding-box units. Stops are kept sorted.
type LinearGradient struct {
	ID     string
	StartX float64
	StartY float64
	EndX   float64
	EndY   float64
	stops  []GradientStop
}

// NewLinearGradient creates a gradient from (0,0) to (1,1) with the given
// stops. Use the exported coordinate fields to change the direction.
func NewLinearGradient(stops ...GradientStop) (*LinearGradient, error) {
	sorted, err := normalizeStops(stops)
	if err != nil {
		return nil, err
	}
	return &LinearGradient{ID: ident.New(), EndX: 1, EndY: 1, stops: sorted}, nil
}

// Stops returns a copy of the stops in ascending position order.
func (g *LinearGradient) Stops() []GradientStop { return slices.Clone(g.stops) }

// SetStops replaces the stops. On error the gradient is unchanged.
func (g *LinearGradient) SetStops(stops ...GradientStop) error {
	sorted, err := normalizeStops(stops)
	if err != nil {
		return err
	}
	g.stops = sorted
	return nil
}

// Clone returns a deep copy.
func (g *LinearGradient) Clone() *LinearGradient {
	if g == nil {
		return nil
	}
	c := *g
	c.stops = slices.Clone(g.stops)
	return &c
}

func (g *LinearGradient) validate() error {
	for _, v := range []float64{g.StartX, g.StartY, g.EndX, g.EndY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return derrors.Style("linear gradient coordinates must be finite")
		}
	}
	_, err := normalizeStops(g.stops)
	return err
}

type linearGradientJSON struct {
	ID     string         `json:"id"`
	StartX *float64       `json:"start_x,omitempty"`
	StartY *float64       `json:"start_y,omitempty"`
	EndX   *float64       `json:"end_x,omitempty"`
	EndY   *float64       `json:"end_y,omitempty"`
	Stops  []GradientStop `json:"stops"`
}

func (g *LinearGradient) MarshalJSON() ([]byte, error) {
	return json.Marshal(linearGradientJSON{
		ID:     g.ID,
		StartX: &g.StartX, StartY: &g.StartY,
		EndX: &g.EndX, EndY: &g.EndY,
		Stops: g.stops,
	})
}

// UnmarshalJSON decodes a gradient, applying the (0,0)→(1,1) defaults to
// absent coordinates and a fresh ID when none is given.
func (g *LinearGradient) UnmarshalJSON(data []byte) error {
	var in linearGradientJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "decode linear gradient")
	}
	out, err := NewLinearGradient(in.Stops...)
	if err != nil {
		return err
	}
	out.ID = ident.OrNew(in.ID)
	out.StartX = valueOr(in.StartX, 0)
	out.StartY = valueOr(in.StartY, 0)
	out.EndX = valueOr(in.EndX, 1)
	out.EndY = valueOr(in.EndY, 1)
	if err := out.validate(); err != nil {
		return err
	}
	*g = *out
	return nil
}

// RadialGradient is a color ramp radiating from (CenterX, CenterY) out to
// Radius in object bounding-box units. Stops are kept sorted.
type RadialGradient struct {
	ID      string
	CenterX float64
	CenterY float64
	radius  float64
	stops   []GradientStop
}

// NewRadialGradient creates a gradient centered at (0.5, 0.5) with radius
// 0.5 and the given stops.
func NewRadialGradient(stops ...GradientStop) (*RadialGradient, error) {
	sorted, err := normalizeStops(stops)
	if err != nil {
		return nil, err
	}
	return &RadialGradient{ID: ident.New(), CenterX: 0.5, CenterY: 0.5, radius: 0.5, stops: sorted}, nil
}

// Radius returns the gradient radius.
func (g *RadialGradient) Radius() float64 { return g.radius }

// SetRadius updates the radius, which must be non-negative.
func (g *RadialGradient) SetRadius(r float64) error {
	if !(r >= 0) || math.IsInf(r, 1) {
		return derrors.Style("radial gradient radius must be non-negative, got %g", r)
	}
	g.radius = r
	return nil
}

// Stops returns a copy of the stops in ascending position order.
func (g *RadialGradient) Stops() []GradientStop { return slices.Clone(g.stops) }

// SetStops replaces the stops. On error the gradient is unchanged.
func (g *RadialGradient) SetStops(stops ...GradientStop) error {
	sorted, err := normalizeStops(stops)
	if err != nil {
		return err
	}
	g.stops = sorted
	return nil
}

// Clone returns a deep copy.
func (g *RadialGradient) Clone() *RadialGradient {
	if g == nil {
		return nil
	}
	c := *g
	c.stops = slices.Clone(g.stops)
	return &c
}

func (g *RadialGradient) validate() error {
	if math.IsNaN(g.CenterX) || math.IsNaN(g.CenterY) || math.IsInf(g.CenterX, 0) || math.IsInf(g.CenterY, 0) {
		return derrors.Style("radial gradient center must be finite")
	}
	_, err := normalizeStops(g.stops)
	return err
}

type radialGradientJSON struct {
	ID      string         `json:"id"`
	CenterX *float64       `json:"center_x,omitempty"`
	CenterY *float64       `json:"center_y,omitempty"`
	Radius  *float64       `json:"radius,omitempty"`
	Stops   []GradientStop `json:"stops"`
}

func (g *RadialGradient) MarshalJSON() ([]byte, error) {
	return json.Marshal(radialGradientJSON{
		ID:      g.ID,
		CenterX: &g.CenterX, CenterY: &g.CenterY,
		Radius: &g.radius,
		Stops:  g.stops,
	})
}

func (g *RadialGradient) UnmarshalJSON(data []byte) error {
	var in radialGradientJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "decode radial gradient")
	}
	out, err := NewRadialGradient(in.Stops...)
	if err != nil {
		return err
	}
	out.ID = ident.OrNew(in.ID)
	out.CenterX = valueOr(in.CenterX, 0.5)
	out.CenterY = valueOr(in.CenterY, 0.5)
	if err := out.SetRadius(valueOr(in.Radius, 0.5)); err != nil {
		return err
	}
	if err := out.validate(); err != nil {
		return err
	}
	*g = *out
	return nil
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
