package layer

import (
	"slices"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/ident"
	"github.com/matzehuels/drawkit/pkg/style"
)

// Node is an entry of a group: either a *Layer or a *Group. The set of
// implementations is closed.
type Node interface {
	// ID returns the node identifier.
	ID() string
	// ParentID returns the ID of the containing group, or "" when detached.
	ParentID() string

	base() *nodeBase
}

// nodeBase holds the identity and back-reference shared by layers and
// groups.
type nodeBase struct {
	id       string
	parentID string
}

func (b *nodeBase) ID() string       { return b.id }
func (b *nodeBase) ParentID() string { return b.parentID }
func (b *nodeBase) base() *nodeBase  { return b }

// Layer is an ordered, styleable container of shape references.
type Layer struct {
	nodeBase

	Name     string
	ZIndex   int
	Visible  bool
	Locked   bool
	Metadata map[string]any

	shapes    []ShapeRef
	opacity   float64
	blendMode style.BlendMode
}

// NewLayer returns a detached, empty, visible layer with a fresh ID.
func NewLayer(name string) *Layer {
	return &Layer{
		nodeBase:  nodeBase{id: ident.New()},
		Name:      name,
		Visible:   true,
		Metadata:  map[string]any{},
		opacity:   1,
		blendMode: style.BlendNormal,
	}
}

// Opacity returns the layer opacity in [0, 1].
func (l *Layer) Opacity() float64 { return l.opacity }

// SetOpacity updates the opacity, which must be in [0, 1].
func (l *Layer) SetOpacity(o float64) error {
	if err := checkOpacity(o); err != nil {
		return err
	}
	l.opacity = o
	return nil
}

// BlendMode returns the layer blend mode.
func (l *Layer) BlendMode() style.BlendMode { return l.blendMode }

// SetBlendMode updates the blend mode.
func (l *Layer) SetBlendMode(m style.BlendMode) error {
	if !m.Valid() {
		return derrors.Style("unknown blend mode %q", m)
	}
	l.blendMode = m
	return nil
}

// AddShape appends ref. It returns false if ref is empty or a shape with
// the same ID is already in the layer.
func (l *Layer) AddShape(ref ShapeRef) bool {
	if ref.IsZero() || l.indexOf(ref.ID()) >= 0 {
		return false
	}
	l.shapes = append(l.shapes, ref)
	return true
}

// RemoveShape removes the shape with the given ID.
func (l *Layer) RemoveShape(id string) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.shapes = slices.Delete(l.shapes, i, i+1)
	return true
}

// MoveShape moves the shape with the given ID to index, clamped to
// [0, ShapeCount()-1]. Index 0 is the bottom. It returns false if the shape
// is not in the layer, leaving the order unchanged.
func (l *Layer) MoveShape(id string, index int) bool {
	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	ref := l.shapes[i]
	l.shapes = slices.Delete(l.shapes, i, i+1)
	l.shapes = slices.Insert(l.shapes, clamp(index, 0, len(l.shapes)), ref)
	return true
}

// Shape returns the entry with the given ID.
func (l *Layer) Shape(id string) (ShapeRef, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return ShapeRef{}, false
	}
	return l.shapes[i], true
}

// Shapes returns the entries in paint order. The slice is a copy; the owned
// shapes are shared.
func (l *Layer) Shapes() []ShapeRef { return slices.Clone(l.shapes) }

// ShapeIDs returns the shape IDs in paint order, for both owned shapes and
// references.
func (l *Layer) ShapeIDs() []string {
	ids := make([]string, len(l.shapes))
	for i, r := range l.shapes {
		ids[i] = r.ID()
	}
	return ids
}

func (l *Layer) ShapeCount() int { return len(l.shapes) }
func (l *Layer) IsEmpty() bool   { return len(l.shapes) == 0 }

// ClearShapes removes every entry.
func (l *Layer) ClearShapes() { l.shapes = nil }

// Clone returns a detached deep copy with the same IDs.
func (l *Layer) Clone() *Layer {
	c := *l
	c.parentID = ""
	c.Metadata = cloneMetadata(l.Metadata)
	c.shapes = make([]ShapeRef, len(l.shapes))
	for i, r := range l.shapes {
		c.shapes[i] = r.clone()
	}
	return &c
}

func (l *Layer) indexOf(id string) int {
	return slices.IndexFunc(l.shapes, func(r ShapeRef) bool { return r.ID() == id })
}

func checkOpacity(o float64) error {
	if !(o >= 0 && o <= 1) {
		return derrors.Style("opacity must be between 0 and 1, got %g", o)
	}
	return nil
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

func cloneMetadata(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
