package style

import (
	"encoding/json"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Fill is the paint applied to a shape's interior. It holds exactly one
// payload: the one matching its [FillType]. All fields are unexported so that
// the other payloads are always cleared.
type Fill struct {
	kind    FillType
	color   Color
	linear  *LinearGradient
	radial  *RadialGradient
	pattern *Pattern
	opacity float64
}

// FillConfig describes a fill to construct with [NewFill]. Only the payload
// matching Type is used; the others are ignored and never stored.
type FillConfig struct {
	Type           FillType
	Color          Color
	LinearGradient *LinearGradient
	RadialGradient *RadialGradient
	Pattern        *Pattern
	// Opacity defaults to 1 when nil.
	Opacity *float64
}

// NewFill validates cfg and builds a fill. The payload for cfg.Type must
// be present.
func NewFill(cfg FillConfig) (*Fill, error) {
	f := &Fill{opacity: 1}
	if cfg.Opacity != nil {
		if err := checkUnit("fill opacity", *cfg.Opacity); err != nil {
			return nil, err
		}
		f.opacity = *cfg.Opacity
	}

	var err error
	switch cfg.Type {
	case FillSolid:
		err = f.SetSolid(cfg.Color)
	case FillLinearGradient:
		err = f.SetLinearGradient(cfg.LinearGradient)
	case FillRadialGradient:
		err = f.SetRadialGradient(cfg.RadialGradient)
	case FillPattern:
		err = f.SetPattern(cfg.Pattern)
	default:
		err = derrors.Style("unknown fill type %q", cfg.Type)
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// SolidFill returns an opaque solid fill.
func SolidFill(c Color) (*Fill, error) {
	return NewFill(FillConfig{Type: FillSolid, Color: c})
}

// LinearFill returns an opaque linear-gradient fill.
func LinearFill(g *LinearGradient) (*Fill, error) {
	return NewFill(FillConfig{Type: FillLinearGradient, LinearGradient: g})
}

// RadialFill returns an opaque radial-gradient fill.
func RadialFill(g *RadialGradient) (*Fill, error) {
	return NewFill(FillConfig{Type: FillRadialGradient, RadialGradient: g})
}

// PatternFill returns an opaque pattern fill.
func PatternFill(p *Pattern) (*Fill, error) {
	return NewFill(FillConfig{Type: FillPattern, Pattern: p})
}

// Type returns the active fill type.
func (f *Fill) Type() FillType { return f.kind }

// Opacity returns the fill opacity in [0, 1].
func (f *Fill) Opacity() float64 { return f.opacity }

// Color returns the solid color, if the fill is solid.
func (f *Fill) Color() (Color, bool) {
	return f.color, f.kind == FillSolid
}

// LinearGradient returns the gradient of a linear-gradient fill.
func (f *Fill) LinearGradient() (*LinearGradient, bool) {
	return f.linear, f.kind == FillLinearGradient
}

// RadialGradient returns the gradient of a radial-gradient fill.
func (f *Fill) RadialGradient() (*RadialGradient, bool) {
	return f.radial, f.kind == FillRadialGradient
}

// Pattern returns the pattern of a pattern fill.
func (f *Fill) Pattern() (*Pattern, bool) {
	return f.pattern, f.kind == FillPattern
}

// SetSolid switches the fill to a solid color and clears other payloads.
func (f *Fill) SetSolid(c Color) error {
	if c.IsZero() {
		return derrors.Style("solid fill requires a color")
	}
	f.reset(FillSolid)
	f.color = c
	return nil
}

// SetLinearGradient switches the fill to g and clears other payloads.
func (f *Fill) SetLinearGradient(g *LinearGradient) error {
	if g == nil {
		return derrors.Style("linear gradient fill requires a gradient")
	}
	if err := g.validate(); err != nil {
		return err
	}
	f.reset(FillLinearGradient)
	f.linear = g
	return nil
}

// SetRadialGradient switches the fill to g and clears other payloads.
func (f *Fill) SetRadialGradient(g *RadialGradient) error {
	if g == nil {
		return derrors.Style("radial gradient fill requires a gradient")
	}
	if err := g.validate(); err != nil {
		return err
	}
	f.reset(FillRadialGradient)
	f.radial = g
	return nil
}

// SetPattern switches the fill to p and clears other payloads.
func (f *Fill) SetPattern(p *Pattern) error {
	if p == nil {
		return derrors.Style("pattern fill requires pattern data")
	}
	if err := p.Validate(); err != nil {
		return err
	}
	f.reset(FillPattern)
	f.pattern = p
	return nil
}

// SetType changes the tag without supplying a payload. Since a fill only ever
// holds the payload for its current tag, this succeeds only when t is already
// the current type; any other change fails and leaves f untouched. Use the
// typed setters to switch payloads.
func (f *Fill) SetType(t FillType) error {
	if _, err := ParseFillType(string(t)); err != nil {
		return err
	}
	if t != f.kind {
		return derrors.Style("cannot set fill type to %s without %s data", t, t)
	}
	return nil
}

// SetOpacity updates the opacity, which must be in [0, 1].
func (f *Fill) SetOpacity(o float64) error {
	if err := checkUnit("fill opacity", o); err != nil {
		return err
	}
	f.opacity = o
	return nil
}

// Clone returns a deep copy.
func (f *Fill) Clone() *Fill {
	if f == nil {
		return nil
	}
	c := *f
	c.linear = f.linear.Clone()
	c.radial = f.radial.Clone()
	c.pattern = f.pattern.Clone()
	return &c
}

func (f *Fill) validate() error {
	if err := checkUnit("fill opacity", f.opacity); err != nil {
		return err
	}
	switch f.kind {
	case FillSolid:
		if f.color.IsZero() {
			return derrors.Style("solid fill requires a color")
		}
	case FillLinearGradient:
		if f.linear == nil {
			return derrors.Style("linear gradient fill requires a gradient")
		}
		return f.linear.validate()
	case FillRadialGradient:
		if f.radial == nil {
			return derrors.Style("radial gradient fill requires a gradient")
		}
		return f.radial.validate()
	case FillPattern:
		if f.pattern == nil {
			return derrors.Style("pattern fill requires pattern data")
		}
		return f.pattern.Validate()
	default:
		return derrors.Style("unknown fill type %q", f.kind)
	}
	return nil
}

func (f *Fill) reset(t FillType) {
	f.kind = t
	f.color = Color{}
	f.linear = nil
	f.radial = nil
	f.pattern = nil
}

type fillJSON struct {
	Type           FillType        `json:"type"`
	Color          *Color          `json:"color,omitempty"`
	LinearGradient *LinearGradient `json:"linear_gradient,omitempty"`
	RadialGradient *RadialGradient `json:"radial_gradient,omitempty"`
	Pattern        *Pattern        `json:"pattern,omitempty"`
	Opacity        *float64        `json:"opacity,omitempty"`
}

func (f *Fill) MarshalJSON() ([]byte, error) {
	out := fillJSON{
		Type:           f.kind,
		LinearGradient: f.linear,
		RadialGradient: f.radial,
		Pattern:        f.pattern,
		Opacity:        &f.opacity,
	}
	if f.kind == FillSolid {
		c := f.color
		out.Color = &c
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes through [NewFill], so payloads for inactive types
// are dropped and a missing active payload is rejected.
func (f *Fill) UnmarshalJSON(data []byte) error {
	var in fillJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "decode fill")
	}
	cfg := FillConfig{
		Type:           in.Type,
		LinearGradient: in.LinearGradient,
		RadialGradient: in.RadialGradient,
		Pattern:        in.Pattern,
		Opacity:        in.Opacity,
	}
	if in.Color != nil {
		cfg.Color = *in.Color
	}
	out, err := NewFill(cfg)
	if err != nil {
		return err
	}
	*f = *out
	return nil
}
