package style

import (
	"encoding/json"
	"math"
	"slices"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Stroke is the paint applied to a shape's outline.
type Stroke struct {
	color      Color
	width      float64
	cap        LineCap
	join       LineJoin
	miterLimit float64
	dash       []float64
	dashOffset float64
	opacity    float64
}

// StrokeOption configures a [Stroke] built with [NewStroke].
type StrokeOption func(*Stroke)

// WithWidth sets the stroke width. Must be positive.
func WithWidth(w float64) StrokeOption {
	return func(s *Stroke) { s.width = w }
}

// WithCap sets the line cap.
func WithCap(c LineCap) StrokeOption {
	return func(s *Stroke) { s.cap = c }
}

// WithJoin sets the line join.
func WithJoin(j LineJoin) StrokeOption {
	return func(s *Stroke) { s.join = j }
}

// WithMiterLimit sets the miter limit. Must be positive.
func WithMiterLimit(m float64) StrokeOption {
	return func(s *Stroke) { s.miterLimit = m }
}

// WithDash sets the dash pattern and offset. An empty pattern means a solid
// line.
func WithDash(pattern []float64, offset float64) StrokeOption {
	return func(s *Stroke) {
		s.dash = slices.Clone(pattern)
		s.dashOffset = offset
	}
}

// WithStrokeOpacity sets the stroke opacity in [0, 1].
func WithStrokeOpacity(o float64) StrokeOption {
	return func(s *Stroke) { s.opacity = o }
}

// NewStroke returns a validated stroke. Defaults: width 1, butt caps, miter
// joins, miter limit 4, no dashing, opacity 1.
func NewStroke(c Color, opts ...StrokeOption) (*Stroke, error) {
	s := &Stroke{
		color:      c,
		width:      1,
		cap:        CapButt,
		join:       JoinMiter,
		miterLimit: 4,
		opacity:    1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Stroke) validate() error {
	if s.color.IsZero() {
		return derrors.Style("stroke requires a color")
	}
	if !(s.width > 0) || math.IsInf(s.width, 1) {
		return derrors.Style("stroke width must be positive, got %g", s.width)
	}
	if _, err := ParseLineCap(string(s.cap)); err != nil {
		return err
	}
	if _, err := ParseLineJoin(string(s.join)); err != nil {
		return err
	}
	if !(s.miterLimit > 0) || math.IsInf(s.miterLimit, 1) {
		return derrors.Style("miter limit must be positive, got %g", s.miterLimit)
	}
	if err := checkUnit("stroke opacity", s.opacity); err != nil {
		return err
	}
	dash, err := normalizeDash(s.dash)
	if err != nil {
		return err
	}
	s.dash = dash
	if math.IsNaN(s.dashOffset) || math.IsInf(s.dashOffset, 0) {
		return derrors.Style("dash offset must be finite")
	}
	return nil
}

// normalizeDash rejects negative entries and maps an empty pattern to nil.
func normalizeDash(dash []float64) ([]float64, error) {
	if len(dash) == 0 {
		return nil, nil
	}
	for _, d := range dash {
		if !(d >= 0) || math.IsInf(d, 1) {
			return nil, derrors.Style("dash array values must be non-negative, got %g", d)
		}
	}
	return dash, nil
}

// Color returns the stroke color.
func (s *Stroke) Color() Color { return s.color }

// Width returns the line width.
func (s *Stroke) Width() float64 { return s.width }

// Cap returns the line cap style.
func (s *Stroke) Cap() LineCap { return s.cap }

// Join returns the line join style.
func (s *Stroke) Join() LineJoin { return s.join }

// MiterLimit returns the miter limit used for miter joins.
func (s *Stroke) MiterLimit() float64 { return s.miterLimit }

// DashOffset returns the offset into the dash pattern.
func (s *Stroke) DashOffset() float64 { return s.dashOffset }

// Opacity returns the stroke opacity in [0, 1].
func (s *Stroke) Opacity() float64 { return s.opacity }

// Dash returns a copy of the dash pattern, or nil for a solid line.
func (s *Stroke) Dash() []float64 { return slices.Clone(s.dash) }

// Update applies opts to a copy of s and commits only if the result is
// valid.
func (s *Stroke) Update(opts ...StrokeOption) error {
	next := s.Clone()
	for _, opt := range opts {
		opt(next)
	}
	if err := next.validate(); err != nil {
		return err
	}
	*s = *next
	return nil
}

// SetColor replaces the stroke color.
func (s *Stroke) SetColor(c Color) error {
	if c.IsZero() {
		return derrors.Style("stroke requires a color")
	}
	s.color = c
	return nil
}

// Clone returns a deep copy.
func (s *Stroke) Clone() *Stroke {
	if s == nil {
		return nil
	}
	c := *s
	c.dash = slices.Clone(s.dash)
	return &c
}

type strokeJSON struct {
	Color      Color     `json:"color"`
	Width      *float64  `json:"width,omitempty"`
	Cap        LineCap   `json:"line_cap,omitempty"`
	Join       LineJoin  `json:"line_join,omitempty"`
	MiterLimit *float64  `json:"miter_limit,omitempty"`
	Dash       []float64 `json:"dash_array,omitempty"`
	DashOffset float64   `json:"dash_offset,omitempty"`
	Opacity    *float64  `json:"opacity,omitempty"`
}

func (s *Stroke) MarshalJSON() ([]byte, error) {
	return json.Marshal(strokeJSON{
		Color:      s.color,
		Width:      &s.width,
		Cap:        s.cap,
		Join:       s.join,
		MiterLimit: &s.miterLimit,
		Dash:       s.dash,
		DashOffset: s.dashOffset,
		Opacity:    &s.opacity,
	})
}

// UnmarshalJSON decodes a stroke, applying defaults to absent fields.
func (s *Stroke) UnmarshalJSON(data []byte) error {
	var in strokeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "decode stroke")
	}
	opts := []StrokeOption{WithDash(in.Dash, in.DashOffset)}
	if in.Width != nil {
		opts = append(opts, WithWidth(*in.Width))
	}
	if in.Cap != "" {
		opts = append(opts, WithCap(in.Cap))
	}
	if in.Join != "" {
		opts = append(opts, WithJoin(in.Join))
	}
	if in.MiterLimit != nil {
		opts = append(opts, WithMiterLimit(*in.MiterLimit))
	}
	if in.Opacity != nil {
		opts = append(opts, WithStrokeOpacity(*in.Opacity))
	}
	out, err := NewStroke(in.Color, opts...)
	if err != nil {
		return err
	}
	*s = *out
	return nil
}
