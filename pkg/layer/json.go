package layer

import (
	"encoding/json"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/ident"
	"github.com/matzehuels/drawkit/pkg/style"
)

// Node discriminators used in the serialized tree.
const (
	nodeLayer = "layer"
	nodeGroup = "group"
)

type layerJSON struct {
	Node      string          `json:"node"`
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Shapes    []ShapeRef      `json:"shapes"`
	ZIndex    int             `json:"z_index"`
	Visible   *bool           `json:"visible,omitempty"`
	Locked    bool            `json:"locked"`
	Opacity   *float64        `json:"opacity,omitempty"`
	BlendMode style.BlendMode `json:"blend_mode,omitempty"`
	ParentID  string          `json:"parent_id,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
}

type groupJSON struct {
	Node      string            `json:"node"`
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Children  []json.RawMessage `json:"children"`
	ZIndex    int               `json:"z_index"`
	Visible   *bool             `json:"visible,omitempty"`
	Locked    bool              `json:"locked"`
	Expanded  *bool             `json:"expanded,omitempty"`
	Opacity   *float64          `json:"opacity,omitempty"`
	BlendMode style.BlendMode   `json:"blend_mode,omitempty"`
	ParentID  string            `json:"parent_id,omitempty"`
	Metadata  map[string]any    `json:"metadata,omitempty"`
}

func (l *Layer) MarshalJSON() ([]byte, error) {
	shapes := l.shapes
	if shapes == nil {
		shapes = []ShapeRef{}
	}
	return json.Marshal(layerJSON{
		Node:      nodeLayer,
		ID:        l.id,
		Name:      l.Name,
		Shapes:    shapes,
		ZIndex:    l.ZIndex,
		Visible:   &l.Visible,
		Locked:    l.Locked,
		Opacity:   &l.opacity,
		BlendMode: l.blendMode,
		ParentID:  l.parentID,
		Metadata:  l.Metadata,
	})
}

// UnmarshalJSON decodes a detached layer. The parent_id field is ignored;
// back-references are rebuilt from containment when the layer is attached.
func (l *Layer) UnmarshalJSON(data []byte) error {
	var in layerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode layer")
	}
	out := NewLayer(in.Name)
	if err := decodeCommon(&out.nodeBase, in.ID, in.Opacity, in.BlendMode, &out.opacity, &out.blendMode); err != nil {
		return err
	}
	out.ZIndex = in.ZIndex
	out.Visible = valueOr(in.Visible, true)
	out.Locked = in.Locked
	if in.Metadata != nil {
		out.Metadata = in.Metadata
	}
	for _, ref := range in.Shapes {
		if !out.AddShape(ref) {
			return derrors.New(derrors.ErrCodeInvalidDocument, "layer %s lists shape %q more than once", out.id, ref.ID())
		}
	}
	*l = *out
	return nil
}

func (g *Group) MarshalJSON() ([]byte, error) {
	children := make([]json.RawMessage, 0, len(g.children))
	for _, n := range g.children {
		data, err := json.Marshal(n)
		if err != nil {
			return nil, err
		}
		children = append(children, data)
	}
	return json.Marshal(groupJSON{
		Node:      nodeGroup,
		ID:        g.id,
		Name:      g.Name,
		Children:  children,
		ZIndex:    g.ZIndex,
		Visible:   &g.Visible,
		Locked:    g.Locked,
		Expanded:  &g.Expanded,
		Opacity:   &g.opacity,
		BlendMode: g.blendMode,
		ParentID:  g.parentID,
		Metadata:  g.Metadata,
	})
}

// UnmarshalJSON decodes a detached group and its subtree, rebuilding every
// child's back-reference from containment.
func (g *Group) UnmarshalJSON(data []byte) error {
	var in groupJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode group")
	}
	out := NewGroup(in.Name)
	if err := decodeCommon(&out.nodeBase, in.ID, in.Opacity, in.BlendMode, &out.opacity, &out.blendMode); err != nil {
		return err
	}
	out.ZIndex = in.ZIndex
	out.Visible = valueOr(in.Visible, true)
	out.Locked = in.Locked
	out.Expanded = valueOr(in.Expanded, true)
	if in.Metadata != nil {
		out.Metadata = in.Metadata
	}
	for _, raw := range in.Children {
		n, err := decodeNode(raw)
		if err != nil {
			return err
		}
		if !out.AddChild(n) {
			return derrors.New(derrors.ErrCodeInvalidDocument, "group %s cannot contain node %q", out.id, n.ID())
		}
	}
	*g = *out
	return nil
}

// decodeNode decodes a child using its "node" discriminator. Children
// without one are groups when they carry a "children" key and layers
// otherwise.
func decodeNode(raw json.RawMessage) (Node, error) {
	var probe struct {
		Node     string           `json:"node"`
		Children *json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode tree node")
	}
	kind := probe.Node
	if kind == "" {
		kind = nodeLayer
		if probe.Children != nil {
			kind = nodeGroup
		}
	}
	switch kind {
	case nodeLayer:
		var l Layer
		if err := json.Unmarshal(raw, &l); err != nil {
			return nil, err
		}
		return &l, nil
	case nodeGroup:
		var g Group
		if err := json.Unmarshal(raw, &g); err != nil {
			return nil, err
		}
		return &g, nil
	}
	return nil, derrors.New(derrors.ErrCodeInvalidFormat, "unknown tree node kind %q", kind)
}

func decodeCommon(b *nodeBase, id string, opacity *float64, mode style.BlendMode, dstOpacity *float64, dstMode *style.BlendMode) error {
	b.id = ident.OrNew(id)
	if err := derrors.ValidateID(b.id); err != nil {
		return err
	}
	if opacity != nil {
		if err := checkOpacity(*opacity); err != nil {
			return err
		}
		*dstOpacity = *opacity
	}
	if mode != "" {
		*dstMode = mode
	}
	return nil
}

type managerJSON struct {
	Root          *Group `json:"root_group"`
	ActiveLayerID string `json:"active_layer_id,omitempty"`
}

func (m *Manager) MarshalJSON() ([]byte, error) {
	return json.Marshal(managerJSON{Root: m.root, ActiveLayerID: m.ActiveLayerID()})
}

// UnmarshalJSON decodes the tree and checks the manager invariants: node IDs
// are unique across the tree and the active layer, if any, is reachable.
func (m *Manager) UnmarshalJSON(data []byte) error {
	var in managerJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return derrors.Wrap(derrors.ErrCodeInvalidFormat, err, "decode layer tree")
	}
	if in.Root == nil {
		return derrors.New(derrors.ErrCodeInvalidDocument, "layer tree requires a root group")
	}
	if in.Root.Name != RootName {
		return derrors.New(derrors.ErrCodeInvalidDocument, "root group must be named %q, got %q", RootName, in.Root.Name)
	}
	seen := map[string]bool{in.Root.ID(): true}
	var dup string
	in.Root.Walk(func(n Node, _ int) bool {
		if seen[n.ID()] {
			dup = n.ID()
			return false
		}
		seen[n.ID()] = true
		return true
	})
	if dup != "" {
		return derrors.New(derrors.ErrCodeInvalidDocument, "duplicate layer or group id %q", dup)
	}
	if in.ActiveLayerID != "" && in.Root.FindLayer(in.ActiveLayerID) == nil {
		return derrors.New(derrors.ErrCodeInvalidDocument, "active layer %q is not in the tree", in.ActiveLayerID)
	}
	*m = Manager{root: in.Root, activeID: in.ActiveLayerID}
	return nil
}

func valueOr[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
