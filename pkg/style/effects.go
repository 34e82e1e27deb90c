package style

import (
	"encoding/json"
	"math"
	"slices"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Shadow is a drop (or inset) shadow descriptor.
type Shadow struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Blur    float64 `json:"blur"`
	Spread  float64 `json:"spread"`
	Color   Color   `json:"color"`
	Inset   bool    `json:"inset"`
}

// Validate checks that blur is non-negative and a color is set.
func (s Shadow) Validate() error {
	for _, v := range []float64{s.OffsetX, s.OffsetY, s.Spread} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return derrors.Style("shadow offsets and spread must be finite")
		}
	}
	if !(s.Blur >= 0) || math.IsInf(s.Blur, 1) {
		return derrors.Style("shadow blur must be non-negative, got %g", s.Blur)
	}
	if s.Color.IsZero() {
		return derrors.Style("shadow requires a color")
	}
	return nil
}

// Effects holds the post-paint effects of a shape.
type Effects struct {
	shadows   []Shadow
	blur      *float64
	opacity   float64
	blendMode BlendMode
}

// EffectsOption configures [Effects] built with [NewEffects].
type EffectsOption func(*Effects)

// WithShadow appends a shadow.
func WithShadow(s Shadow) EffectsOption {
	return func(e *Effects) { e.shadows = append(e.shadows, s) }
}

// WithBlur sets the blur radius. Must be non-negative.
func WithBlur(radius float64) EffectsOption {
	return func(e *Effects) { e.blur = &radius }
}

// WithEffectsOpacity sets the overall opacity in [0, 1].
func WithEffectsOpacity(o float64) EffectsOption {
	return func(e *Effects) { e.opacity = o }
}

// WithBlendMode sets the blend mode.
func WithBlendMode(m BlendMode) EffectsOption {
	return func(e *Effects) { e.blendMode = m }
}

// NewEffects returns validated effects. Defaults: no shadows, no blur,
// opacity 1, normal blending.
func NewEffects(opts ...EffectsOption) (*Effects, error) {
	e := &Effects{opacity: 1, blendMode: BlendNormal}
	for _, opt := range opts {
		opt(e)
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Effects) validate() error {
	for _, s := range e.shadows {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	if e.blur != nil && (!(*e.blur >= 0) || math.IsInf(*e.blur, 1)) {
		return derrors.Style("blur radius must be non-negative, got %g", *e.blur)
	}
	if err := checkUnit("effects opacity", e.opacity); err != nil {
		return err
	}
	if !e.blendMode.Valid() {
		return derrors.Style("unknown blend mode %q", e.blendMode)
	}
	return nil
}

// Shadows returns a copy of the shadows in paint order.
func (e *Effects) Shadows() []Shadow { return slices.Clone(e.shadows) }

// Blur returns the blur radius, if set.
func (e *Effects) Blur() (float64, bool) {
	if e.blur == nil {
		return 0, false
	}
	return *e.blur, true
}

// Opacity returns the overall opacity in [0, 1].
func (e *Effects) Opacity() float64 { return e.opacity }

// BlendMode returns the compositing blend mode.
func (e *Effects) BlendMode() BlendMode { return e.blendMode }

// Update applies opts to a copy of e and commits only if the result is
// valid.
func (e *Effects) Update(opts ...EffectsOption) error {
	next := e.Clone()
	for _, opt := range opts {
		opt(next)
	}
	if err := next.validate(); err != nil {
		return err
	}
	*e = *next
	return nil
}

// ClearShadows removes all shadows.
func (e *Effects) ClearShadows() { e.shadows = nil }

// ClearBlur removes the blur radius.
func (e *Effects) ClearBlur() { e.blur = nil }

// Clone returns a deep copy.
func (e *Effects) Clone() *Effects {
	if e == nil {
		return nil
	}
	c := *e
	c.shadows = slices.Clone(e.shadows)
	if e.blur != nil {
		b := *e.blur
		c.blur = &b
	}
	return &c
}

type effectsJSON struct {
	Shadows   []Shadow  `json:"shadows,omitempty"`
	Blur      *float64  `json:"blur,omitempty"`
	Opacity   *float64  `json:"opacity,omitempty"`
	BlendMode BlendMode `json:"blend_mode,omitempty"`
}

func (e *Effects) MarshalJSON() ([]byte, error) {
	return json.Marshal(effectsJSON{
		Shadows:   e.shadows,
		Blur:      e.blur,
		Opacity:   &e.opacity,
		BlendMode: e.blendMode,
	})
}

func (e *Effects) UnmarshalJSON(data []byte) error {
	var in effectsJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidStyle, err, "decode effects")
	}
	var opts []EffectsOption
	for _, s := range in.Shadows {
		opts = append(opts, WithShadow(s))
	}
	if in.Blur != nil {
		opts = append(opts, WithBlur(*in.Blur))
	}
	if in.Opacity != nil {
		opts = append(opts, WithEffectsOpacity(*in.Opacity))
	}
	if in.BlendMode != "" {
		opts = append(opts, WithBlendMode(in.BlendMode))
	}
	out, err := NewEffects(opts...)
	if err != nil {
		return err
	}
	*e = *out
	return nil
}
