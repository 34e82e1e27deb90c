package layer

import (
	"cmp"
	"slices"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/ident"
	"github.com/matzehuels/drawkit/pkg/style"
)

// Group is a named, ordered container of layers and nested groups. It owns
// its children exclusively.
type Group struct {
	nodeBase

	Name     string
	ZIndex   int
	Visible  bool
	Locked   bool
	Expanded bool
	Metadata map[string]any

	children  []Node
	opacity   float64
	blendMode style.BlendMode
}

// NewGroup returns a detached, empty, visible and expanded group with a
// fresh ID.
func NewGroup(name string) *Group {
	return &Group{
		nodeBase:  nodeBase{id: ident.New()},
		Name:      name,
		Visible:   true,
		Expanded:  true,
		Metadata:  map[string]any{},
		opacity:   1,
		blendMode: style.BlendNormal,
	}
}

// Opacity returns the group opacity in [0, 1].
func (g *Group) Opacity() float64 { return g.opacity }

// SetOpacity updates the opacity, which must be in [0, 1].
func (g *Group) SetOpacity(o float64) error {
	if err := checkOpacity(o); err != nil {
		return err
	}
	g.opacity = o
	return nil
}

// BlendMode returns the group blend mode.
func (g *Group) BlendMode() style.BlendMode { return g.blendMode }

// SetBlendMode updates the blend mode.
func (g *Group) SetBlendMode(m style.BlendMode) error {
	if !m.Valid() {
		return derrors.Style("unknown blend mode %q", m)
	}
	g.blendMode = m
	return nil
}

// AddChild appends n and records g as its parent. It refuses (returns
// false) nil nodes, nodes without an ID, nodes already attached to a group,
// g itself, groups that contain g, and nodes whose ID is already a direct
// child of g.
func (g *Group) AddChild(n Node) bool {
	return g.insertChild(n, len(g.children))
}

func (g *Group) insertChild(n Node, index int) bool {
	if isNil(n) || n.ID() == "" || n.ParentID() != "" {
		return false
	}
	if sub, ok := n.(*Group); ok && (sub == g || sub.FindGroup(g.ID()) != nil) {
		return false
	}
	if g.indexOf(n.ID()) >= 0 {
		return false
	}
	n.base().parentID = g.ID()
	g.children = slices.Insert(g.children, clamp(index, 0, len(g.children)), n)
	return true
}

// RemoveChild detaches the direct child with the given ID and clears its
// parent reference.
func (g *Group) RemoveChild(id string) bool {
	_, ok := g.detach(id)
	return ok
}

func (g *Group) detach(id string) (Node, bool) {
	i := g.indexOf(id)
	if i < 0 {
		return nil, false
	}
	n := g.children[i]
	g.children = slices.Delete(g.children, i, i+1)
	n.base().parentID = ""
	return n, true
}

// MoveChild moves the direct child with the given ID to index, clamped to
// the valid range after removal.
func (g *Group) MoveChild(id string, index int) bool {
	i := g.indexOf(id)
	if i < 0 {
		return false
	}
	n := g.children[i]
	g.children = slices.Delete(g.children, i, i+1)
	g.children = slices.Insert(g.children, clamp(index, 0, len(g.children)), n)
	return true
}

// Children returns the direct children in order. The slice is a copy.
func (g *Group) Children() []Node { return slices.Clone(g.children) }

func (g *Group) ChildCount() int { return len(g.children) }
func (g *Group) IsEmpty() bool   { return len(g.children) == 0 }

// Layers returns layers in depth-first pre-order. Without recursion only
// direct layer children are returned; nested groups are skipped.
func (g *Group) Layers(recursive bool) []*Layer {
	var out []*Layer
	for _, n := range g.children {
		switch c := n.(type) {
		case *Layer:
			out = append(out, c)
		case *Group:
			if recursive {
				out = append(out, c.Layers(true)...)
			}
		}
	}
	return out
}

// Groups returns nested groups in depth-first pre-order, excluding g.
func (g *Group) Groups(recursive bool) []*Group {
	var out []*Group
	for _, n := range g.children {
		if c, ok := n.(*Group); ok {
			out = append(out, c)
			if recursive {
				out = append(out, c.Groups(true)...)
			}
		}
	}
	return out
}

// Shapes flattens the shape entries of [Group.Layers] in layer order, then
// insertion order within each layer.
func (g *Group) Shapes(recursive bool) []ShapeRef {
	var out []ShapeRef
	for _, l := range g.Layers(recursive) {
		out = append(out, l.shapes...)
	}
	return out
}

// FindLayer searches the subtree depth-first for a layer.
func (g *Group) FindLayer(id string) *Layer {
	for _, n := range g.children {
		switch c := n.(type) {
		case *Layer:
			if c.ID() == id {
				return c
			}
		case *Group:
			if l := c.FindLayer(id); l != nil {
				return l
			}
		}
	}
	return nil
}

// FindGroup searches the subtree depth-first for a group. A group finds
// itself.
func (g *Group) FindGroup(id string) *Group {
	if g.ID() == id {
		return g
	}
	for _, n := range g.children {
		if c, ok := n.(*Group); ok {
			if found := c.FindGroup(id); found != nil {
				return found
			}
		}
	}
	return nil
}

// Find returns the node with the given ID anywhere below g, or g itself.
func (g *Group) Find(id string) Node {
	if found := g.FindGroup(id); found != nil {
		return found
	}
	if l := g.FindLayer(id); l != nil {
		return l
	}
	return nil
}

// parentOf returns the group directly containing id.
func (g *Group) parentOf(id string) *Group {
	for _, n := range g.children {
		if n.ID() == id {
			return g
		}
		if c, ok := n.(*Group); ok {
			if p := c.parentOf(id); p != nil {
				return p
			}
		}
	}
	return nil
}

// Walk visits g's descendants in depth-first pre-order. depth is 1 for
// direct children. Walk stops when fn returns false.
func (g *Group) Walk(fn func(n Node, depth int) bool) {
	g.walk(fn, 1)
}

func (g *Group) walk(fn func(Node, int) bool, depth int) bool {
	for _, n := range g.children {
		if !fn(n, depth) {
			return false
		}
		if c, ok := n.(*Group); ok {
			if !c.walk(fn, depth+1) {
				return false
			}
		}
	}
	return true
}

// sortByZIndex stably sorts the children of g and of every nested group.
func (g *Group) sortByZIndex() {
	slices.SortStableFunc(g.children, func(a, b Node) int {
		return cmp.Compare(ZIndexOf(a), ZIndexOf(b))
	})
	for _, n := range g.children {
		if c, ok := n.(*Group); ok {
			c.sortByZIndex()
		}
	}
}

// Clone returns a detached deep copy with the same IDs.
func (g *Group) Clone() *Group {
	c := *g
	c.parentID = ""
	c.Metadata = cloneMetadata(g.Metadata)
	c.children = make([]Node, 0, len(g.children))
	for _, n := range g.children {
		var cn Node
		switch v := n.(type) {
		case *Layer:
			cn = v.Clone()
		case *Group:
			cn = v.Clone()
		}
		cn.base().parentID = c.ID()
		c.children = append(c.children, cn)
	}
	return &c
}

func (g *Group) indexOf(id string) int {
	return slices.IndexFunc(g.children, func(n Node) bool { return n.ID() == id })
}

// ZIndexOf returns the z-index of a layer or group.
func ZIndexOf(n Node) int {
	switch v := n.(type) {
	case *Layer:
		return v.ZIndex
	case *Group:
		return v.ZIndex
	}
	return 0
}

// NameOf returns the name of a layer or group.
func NameOf(n Node) string {
	switch v := n.(type) {
	case *Layer:
		return v.Name
	case *Group:
		return v.Name
	}
	return ""
}

func isNil(n Node) bool {
	switch v := n.(type) {
	case nil:
		return true
	case *Layer:
		return v == nil
	case *Group:
		return v == nil
	}
	return false
}
