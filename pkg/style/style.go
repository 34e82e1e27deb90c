package style

// Style bundles the optional paint of a shape. A nil Fill or Stroke means
// the shape is not filled or outlined.
type Style struct {
	Fill    *Fill    `json:"fill,omitempty"`
	Stroke  *Stroke  `json:"stroke,omitempty"`
	Effects *Effects `json:"effects,omitempty"`
}

// Clone returns a deep copy of s. A nil style clones to nil.
func (s *Style) Clone() *Style {
	if s == nil {
		return nil
	}
	return &Style{
		Fill:    s.Fill.Clone(),
		Stroke:  s.Stroke.Clone(),
		Effects: s.Effects.Clone(),
	}
}

// IsEmpty reports whether s paints nothing.
func (s *Style) IsEmpty() bool {
	return s == nil || (s.Fill == nil && s.Stroke == nil && s.Effects == nil)
}

// Validate checks every component of s. Components built through this
// package's constructors always pass; zero-value components do not.
func (s *Style) Validate() error {
	if s == nil {
		return nil
	}
	if s.Fill != nil {
		if err := s.Fill.validate(); err != nil {
			return err
		}
	}
	if s.Stroke != nil {
		if err := s.Stroke.validate(); err != nil {
			return err
		}
	}
	if s.Effects != nil {
		if err := s.Effects.validate(); err != nil {
			return err
		}
	}
	return nil
}
