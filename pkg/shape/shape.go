package shape

import (
	"encoding/json"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/ident"
	"github.com/matzehuels/drawkit/pkg/style"
)

// Shape is a single drawable primitive. Geometry, style and transform are
// only reachable through validating accessors; the flags and name are plain
// fields.
type Shape struct {
	id        string
	geometry  Geometry
	style     *style.Style
	transform Transform

	Visible bool
	Locked  bool
	// Name is optional; empty means unnamed.
	Name string
}

// Option configures a Shape built with [New].
type Option func(*Shape)

// WithID sets the shape ID instead of generating one.
func WithID(id string) Option {
	return func(s *Shape) { s.id = id }
}

// WithStyle sets the shape style.
func WithStyle(st *style.Style) Option {
	return func(s *Shape) { s.style = st }
}

// WithTransform sets the shape transform.
func WithTransform(t Transform) Option {
	return func(s *Shape) { s.transform = t }
}

// WithName sets the display name.
func WithName(name string) Option {
	return func(s *Shape) { s.Name = name }
}

// WithVisible sets the initial visibility.
func WithVisible(v bool) Option {
	return func(s *Shape) { s.Visible = v }
}

// WithLocked sets the initial edit lock.
func WithLocked(l bool) Option {
	return func(s *Shape) { s.Locked = l }
}

// New creates a visible, unlocked shape with a fresh ID, an empty style and
// the identity transform unless options say otherwise. It fails with a
// geometry error if g is nil or invalid.
func New(g Geometry, opts ...Option) (*Shape, error) {
	s := &Shape{
		id:        ident.New(),
		geometry:  g,
		transform: Identity(),
		Visible:   true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.style == nil {
		s.style = &style.Style{}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	s.geometry = g.clone()
	return s, nil
}

func (s *Shape) validate() error {
	if err := derrors.ValidateID(s.id); err != nil {
		return err
	}
	if err := validateGeometry(s.geometry); err != nil {
		return err
	}
	if err := s.style.Validate(); err != nil {
		return err
	}
	return s.transform.Validate()
}

func validateGeometry(g Geometry) error {
	if g == nil {
		return derrors.Geometry("shape requires geometry")
	}
	return g.Validate()
}

// ID returns the shape identifier.
func (s *Shape) ID() string { return s.id }

// Kind returns the shape kind, derived from its geometry.
func (s *Shape) Kind() Kind { return s.geometry.Kind() }

// Geometry returns a copy of the geometry payload.
func (s *Shape) Geometry() Geometry { return s.geometry.clone() }

// SetGeometry replaces the geometry, which may change the shape's kind.
// The new payload is validated first; on error the shape is unchanged.
func (s *Shape) SetGeometry(g Geometry) error {
	if err := validateGeometry(g); err != nil {
		return err
	}
	s.geometry = g.clone()
	return nil
}

// Style returns the shape style. It is never nil.
func (s *Shape) Style() *style.Style { return s.style }

// SetStyle replaces the style. A nil style resets to an empty one.
func (s *Shape) SetStyle(st *style.Style) error {
	if st == nil {
		st = &style.Style{}
	}
	if err := st.Validate(); err != nil {
		return err
	}
	s.style = st
	return nil
}

// Transform returns the shape transform.
func (s *Shape) Transform() Transform { return s.transform }

// SetTransform replaces the transform. On error the shape is unchanged.
func (s *Shape) SetTransform(t Transform) error {
	if err := t.Validate(); err != nil {
		return err
	}
	s.transform = t
	return nil
}

// Bounds returns the translated bounding box. The second result is false
// for kinds without bounds (path, group).
func (s *Shape) Bounds() (Bounds, bool) {
	b, ok := s.geometry.bounds()
	if !ok {
		return Bounds{}, false
	}
	return b.Translate(s.transform.X, s.transform.Y), true
}

// Clone returns a deep copy that keeps the same ID.
func (s *Shape) Clone() *Shape {
	c := *s
	c.geometry = s.geometry.clone()
	c.style = s.style.Clone()
	return &c
}

// Copy returns a deep copy with a fresh ID.
func (s *Shape) Copy() *Shape {
	c := s.Clone()
	c.id = ident.New()
	return c
}

type shapeJSON struct {
	ID        string         `json:"id"`
	Type      Kind           `json:"type"`
	Geometry  map[string]any `json:"geometry"`
	Style     *style.Style   `json:"style,omitempty"`
	Transform *Transform     `json:"transform,omitempty"`
	Visible   *bool          `json:"visible,omitempty"`
	Locked    bool           `json:"locked"`
	Name      string         `json:"name,omitempty"`
}

func (s *Shape) MarshalJSON() ([]byte, error) {
	out := shapeJSON{
		ID:       s.id,
		Type:     s.Kind(),
		Geometry: s.geometry.Map(),
		Visible:  &s.Visible,
		Locked:   s.Locked,
		Name:     s.Name,
	}
	if !s.style.IsEmpty() {
		out.Style = s.style
	}
	if !s.transform.IsIdentity() {
		t := s.transform
		out.Transform = &t
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a shape and re-runs all construction-time
// validation. A missing ID is generated; a missing visible flag means
// visible.
func (s *Shape) UnmarshalJSON(data []byte) error {
	var in shapeJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode shape")
	}
	kind, err := ParseKind(string(in.Type))
	if err != nil {
		return err
	}
	if in.Geometry == nil {
		return derrors.Geometry("%s requires geometry", kind)
	}
	g, err := FromMap(kind, in.Geometry)
	if err != nil {
		return err
	}

	opts := []Option{
		WithID(ident.OrNew(in.ID)),
		WithStyle(in.Style),
		WithName(in.Name),
		WithLocked(in.Locked),
	}
	if in.Transform != nil {
		opts = append(opts, WithTransform(*in.Transform))
	}
	if in.Visible != nil {
		opts = append(opts, WithVisible(*in.Visible))
	}
	out, err := New(g, opts...)
	if err != nil {
		return err
	}
	*s = *out
	return nil
}
