package store

import (
	"encoding/json"
	"slices"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/shape"
)

// Library is an in-memory, insertion-ordered collection of shapes keyed by
// ID. Documents use it to own the shapes that layers reference by ID. It is
// not safe for concurrent use; see [Memory] for a synchronized store.
type Library struct {
	order  []string
	shapes map[string]*shape.Shape
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{shapes: map[string]*shape.Shape{}}
}

// Add inserts s. It returns false if s is nil or its ID is already present.
func (l *Library) Add(s *shape.Shape) bool {
	if s == nil || l.Has(s.ID()) {
		return false
	}
	l.order = append(l.order, s.ID())
	l.shapes[s.ID()] = s
	return true
}

// Put inserts s or replaces the shape with the same ID, keeping its
// position.
func (l *Library) Put(s *shape.Shape) {
	if s == nil {
		return
	}
	if !l.Has(s.ID()) {
		l.order = append(l.order, s.ID())
	}
	l.shapes[s.ID()] = s
}

// Get returns the shape with the given ID.
func (l *Library) Get(id string) (*shape.Shape, bool) {
	s, ok := l.shapes[id]
	return s, ok
}

// Has reports whether a shape with the given ID exists.
func (l *Library) Has(id string) bool {
	_, ok := l.shapes[id]
	return ok
}

// Remove deletes the shape with the given ID.
func (l *Library) Remove(id string) bool {
	if !l.Has(id) {
		return false
	}
	delete(l.shapes, id)
	l.order = slices.DeleteFunc(l.order, func(s string) bool { return s == id })
	return true
}

// IDs returns the shape IDs in insertion order.
func (l *Library) IDs() []string { return slices.Clone(l.order) }

// Shapes returns the shapes in insertion order.
func (l *Library) Shapes() []*shape.Shape {
	out := make([]*shape.Shape, len(l.order))
	for i, id := range l.order {
		out[i] = l.shapes[id]
	}
	return out
}

// Len returns the number of shapes.
func (l *Library) Len() int { return len(l.order) }

// Clone returns a deep copy.
func (l *Library) Clone() *Library {
	c := NewLibrary()
	for _, s := range l.Shapes() {
		c.Add(s.Clone())
	}
	return c
}

// MarshalJSON encodes the library as an array of shapes.
func (l *Library) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.Shapes())
}

// UnmarshalJSON decodes an array of shapes, rejecting duplicate IDs.
func (l *Library) UnmarshalJSON(data []byte) error {
	var shapes []*shape.Shape
	if err := json.Unmarshal(data, &shapes); err != nil {
		return err
	}
	out := NewLibrary()
	for _, s := range shapes {
		if s == nil {
			return derrors.New(derrors.ErrCodeInvalidDocument, "shape library contains null entry")
		}
		if !out.Add(s) {
			return derrors.New(derrors.ErrCodeInvalidDocument, "duplicate shape id %q in library", s.ID())
		}
	}
	*l = *out
	return nil
}
