// Package layer organizes shapes into an ordered tree of layers and groups.
//
// # Overview
//
// A [Layer] holds an ordered list of [ShapeRef] values, each either an owned
// [shape.Shape] or a bare ID that points into a shape library kept elsewhere.
// A [Group] holds an ordered list of children, each a [Node]: either a
// *Layer or a nested *Group. A [Manager] owns the root group (named "Root")
// and tracks the active layer.
//
// # Tree Invariants
//
// Every node records the ID of the group containing it. That back-reference
// is maintained exclusively by the container methods ([Group.AddChild],
// [Group.RemoveChild], [Manager.Move], ...) and cannot be set from outside
// the package. A node belongs to at most one group, and [Group.AddChild]
// refuses nodes that are already attached or that would create a cycle.
//
// Lookups and removals report absence with a boolean rather than an error:
//
//	m := layer.NewManager()
//	bg, _ := m.CreateLayer("Background", nil)
//	ok := m.DeleteLayer("missing") // false
//	ok = m.DeleteGroup(m.Root().ID()) // always false
//
// # Z-Order
//
// Lower z-index paints first. [Manager.LayersByZOrder] returns a stably sorted
// view of all layers; [Manager.ReorderByZIndex] permanently sorts the children
// of every group.
//
// # Active Layer
//
// The first layer created through a manager with no active layer becomes
// active. The active layer is cleared when it leaves the tree.
package layer
