package layer

import (
	"cmp"
	"slices"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
)

// RootName is the name of a manager's root group.
const RootName = "Root"

// Manager owns the root group of a document and tracks the active layer.
type Manager struct {
	root     *Group
	activeID string
}

// NewManager returns a manager with an empty root group and no active layer.
func NewManager() *Manager {
	return &Manager{root: NewGroup(RootName)}
}

// Root returns the root group.
func (m *Manager) Root() *Group { return m.root }

// CreateLayer creates a layer under parent, or under the root when parent is
// nil. parent must be reachable from the root. If no layer is active, the
// new layer becomes active.
func (m *Manager) CreateLayer(name string, parent *Group) (*Layer, error) {
	target, err := m.target(parent)
	if err != nil {
		return nil, err
	}
	l := NewLayer(name)
	target.AddChild(l)
	if m.ActiveLayerID() == "" {
		m.activeID = l.ID()
	}
	return l, nil
}

// CreateGroup creates a group under parent, or under the root when parent is
// nil. parent must be reachable from the root.
func (m *Manager) CreateGroup(name string, parent *Group) (*Group, error) {
	target, err := m.target(parent)
	if err != nil {
		return nil, err
	}
	g := NewGroup(name)
	target.AddChild(g)
	return g, nil
}

func (m *Manager) target(parent *Group) (*Group, error) {
	if parent == nil {
		return m.root, nil
	}
	if m.root.FindGroup(parent.ID()) != parent {
		return nil, derrors.New(derrors.ErrCodeNotFound, "group %q is not part of this document", parent.ID())
	}
	return parent, nil
}

// DeleteLayer removes a layer from its parent group. If it was the active
// layer, no layer is active afterwards.
func (m *Manager) DeleteLayer(id string) bool {
	if m.root.FindLayer(id) == nil {
		return false
	}
	parent := m.root.parentOf(id)
	if parent == nil || !parent.RemoveChild(id) {
		return false
	}
	if m.activeID == id {
		m.activeID = ""
	}
	return true
}

// DeleteGroup removes a group and its whole subtree. The root group can
// never be deleted. If the active layer was inside the subtree, no layer is
// active afterwards.
func (m *Manager) DeleteGroup(id string) bool {
	if id == m.root.ID() {
		return false
	}
	if m.root.FindGroup(id) == nil {
		return false
	}
	parent := m.root.parentOf(id)
	if parent == nil || !parent.RemoveChild(id) {
		return false
	}
	m.syncActive()
	return true
}

// Move reparents the node with the given ID into the group groupID at index
// (clamped). It refuses to move the root, to move a node into itself or its
// own subtree, and unknown IDs.
func (m *Manager) Move(id, groupID string, index int) bool {
	if id == m.root.ID() {
		return false
	}
	n := m.root.Find(id)
	target := m.root.FindGroup(groupID)
	if n == nil || target == nil {
		return false
	}
	if sub, ok := n.(*Group); ok && sub.FindGroup(groupID) != nil {
		return false
	}
	parent := m.root.parentOf(id)
	if parent == target {
		return parent.MoveChild(id, index)
	}
	from := parent.indexOf(id)
	if _, ok := parent.detach(id); !ok {
		return false
	}
	if !target.insertChild(n, index) {
		parent.insertChild(n, from)
		return false
	}
	return true
}

// ParentOf returns the group directly containing the node with the given ID.
func (m *Manager) ParentOf(id string) (*Group, bool) {
	p := m.root.parentOf(id)
	return p, p != nil
}

// Layers returns every layer in depth-first pre-order.
func (m *Manager) Layers() []*Layer { return m.root.Layers(true) }

// LayersByZOrder returns every layer sorted by ascending z-index. Layers
// with equal z-index keep their traversal order.
func (m *Manager) LayersByZOrder() []*Layer {
	layers := m.Layers()
	slices.SortStableFunc(layers, func(a, b *Layer) int {
		return cmp.Compare(a.ZIndex, b.ZIndex)
	})
	return layers
}

// ReorderByZIndex stably sorts the children of every group by z-index,
// changing the structural order of the tree.
func (m *Manager) ReorderByZIndex() { m.root.sortByZIndex() }

// FindLayer returns the layer with the given ID anywhere in the tree.
func (m *Manager) FindLayer(id string) *Layer { return m.root.FindLayer(id) }

// FindGroup returns the group with the given ID anywhere in the tree,
// including the root.
func (m *Manager) FindGroup(id string) *Group { return m.root.FindGroup(id) }

// SetActiveLayer makes the layer with the given ID active. It returns false
// if no such layer is reachable.
func (m *Manager) SetActiveLayer(id string) bool {
	if m.root.FindLayer(id) == nil {
		return false
	}
	m.activeID = id
	return true
}

// ActiveLayerID returns the active layer ID, or "" when none is active. An
// active layer that has been detached through the group API is cleared
// here.
func (m *Manager) ActiveLayerID() string {
	m.syncActive()
	return m.activeID
}

func (m *Manager) syncActive() {
	if m.activeID != "" && m.root.FindLayer(m.activeID) == nil {
		m.activeID = ""
	}
}

// ActiveLayer returns the active layer, or nil when none is active.
func (m *Manager) ActiveLayer() *Layer {
	if id := m.ActiveLayerID(); id != "" {
		return m.root.FindLayer(id)
	}
	return nil
}

// LayerCount returns the number of layers in the tree.
func (m *Manager) LayerCount() int { return len(m.Layers()) }

// VisibleLayers returns the layers whose own visible flag is set.
func (m *Manager) VisibleLayers() []*Layer {
	return filterLayers(m.Layers(), func(l *Layer) bool { return l.Visible })
}

// UnlockedLayers returns the layers whose own locked flag is clear.
func (m *Manager) UnlockedLayers() []*Layer {
	return filterLayers(m.Layers(), func(l *Layer) bool { return !l.Locked })
}

// Clone returns a deep copy of the manager with the same IDs.
func (m *Manager) Clone() *Manager {
	return &Manager{root: m.root.Clone(), activeID: m.ActiveLayerID()}
}

func filterLayers(layers []*Layer, keep func(*Layer) bool) []*Layer {
	out := make([]*Layer, 0, len(layers))
	for _, l := range layers {
		if keep(l) {
			out = append(out, l)
		}
	}
	return out
}
