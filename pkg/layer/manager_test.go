package layer

import (
	"encoding/json"
	"slices"
	"strings"
	"testing"

	derrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/shape"
)

func TestManagerActiveLayer(t *testing.T) {
	m := NewManager()
	if m.Root().Name != RootName || m.Root().ParentID() != "" {
		t.Errorf("root = %q parent %q", m.Root().Name, m.Root().ParentID())
	}
	if m.ActiveLayer() != nil {
		t.Error("new manager should have no active layer")
	}

	first, _ := m.CreateLayer("first", nil)
	second, _ := m.CreateLayer("second", nil)
	if m.ActiveLayerID() != first.ID() {
		t.Error("first created layer should become active")
	}

	if m.SetActiveLayer("missing") {
		t.Error("SetActiveLayer should fail for unknown IDs")
	}
	if !m.SetActiveLayer(second.ID()) || m.ActiveLayer() != second {
		t.Error("SetActiveLayer should switch the active layer")
	}

	if !m.DeleteLayer(second.ID()) {
		t.Fatal("DeleteLayer should succeed")
	}
	if m.ActiveLayerID() != "" {
		t.Error("deleting the active layer should clear it")
	}
	if m.DeleteLayer(second.ID()) {
		t.Error("deleting twice should fail")
	}

	third, _ := m.CreateLayer("third", nil)
	if m.ActiveLayerID() != third.ID() {
		t.Error("a new layer should become active when none is")
	}
}

func TestManagerCreateUnderGroup(t *testing.T) {
	m := NewManager()
	g, err := m.CreateGroup("folder", nil)
	if err != nil {
		t.Fatal(err)
	}
	l, err := m.CreateLayer("inside", g)
	if err != nil {
		t.Fatal(err)
	}
	if l.ParentID() != g.ID() || g.ParentID() != m.Root().ID() {
		t.Error("parent references not set")
	}
	if p, ok := m.ParentOf(l.ID()); !ok || p != g {
		t.Error("ParentOf should find the folder")
	}

	foreign := NewGroup("elsewhere")
	if _, err := m.CreateLayer("lost", foreign); !derrors.Is(err, derrors.ErrCodeNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, err := m.CreateGroup("lost", foreign); err == nil {
		t.Error("CreateGroup under a foreign group should fail")
	}
}

func TestManagerDeleteGroup(t *testing.T) {
	m := NewManager()
	if m.DeleteGroup(m.Root().ID()) {
		t.Error("deleting the root of an empty tree should fail")
	}

	g, _ := m.CreateGroup("folder", nil)
	inner, _ := m.CreateGroup("inner", g)
	l, _ := m.CreateLayer("deep", inner)
	_, _ = m.CreateLayer("top", nil)
	m.SetActiveLayer(l.ID())

	if m.DeleteGroup(m.Root().ID()) {
		t.Error("deleting the root should always fail")
	}
	if m.DeleteGroup("missing") {
		t.Error("deleting an unknown group should fail")
	}
	if !m.DeleteGroup(g.ID()) {
		t.Fatal("DeleteGroup should succeed")
	}
	if m.FindLayer(l.ID()) != nil || m.FindGroup(inner.ID()) != nil {
		t.Error("subtree should be gone")
	}
	if m.ActiveLayerID() != "" {
		t.Error("active layer inside the deleted subtree should be cleared")
	}
	if g.ParentID() != "" {
		t.Error("deleted group should be detached")
	}
	if m.LayerCount() != 1 {
		t.Errorf("LayerCount() = %d, want 1", m.LayerCount())
	}
}

func TestManagerZOrder(t *testing.T) {
	m := NewManager()
	g, _ := m.CreateGroup("g", nil)
	a, _ := m.CreateLayer("a", nil)
	b, _ := m.CreateLayer("b", g)
	c, _ := m.CreateLayer("c", g)
	d, _ := m.CreateLayer("d", nil)
	a.ZIndex, b.ZIndex, c.ZIndex, d.ZIndex = 5, 1, 1, -2
	g.ZIndex = 10

	if got := layerNames(m.LayersByZOrder()); !slices.Equal(got, []string{"d", "b", "c", "a"}) {
		t.Errorf("LayersByZOrder() = %v", got)
	}
	// structural order untouched by the view
	if got := layerNames(m.Layers()); !slices.Equal(got, []string{"b", "c", "a", "d"}) {
		t.Errorf("Layers() = %v", got)
	}

	c.ZIndex = 0
	m.ReorderByZIndex()
	if got := names(m.Root().Children()); !slices.Equal(got, []string{"d", "a", "g"}) {
		t.Errorf("root children = %v", got)
	}
	if got := names(g.Children()); !slices.Equal(got, []string{"c", "b"}) {
		t.Errorf("group children = %v", got)
	}
}

func TestManagerMove(t *testing.T) {
	m := NewManager()
	g1, _ := m.CreateGroup("g1", nil)
	g2, _ := m.CreateGroup("g2", g1)
	l, _ := m.CreateLayer("l", nil)
	other, _ := m.CreateLayer("other", g2)

	if !m.Move(l.ID(), g2.ID(), 0) {
		t.Fatal("Move should succeed")
	}
	if l.ParentID() != g2.ID() {
		t.Error("moved layer should point at its new parent")
	}
	if got := names(g2.Children()); !slices.Equal(got, []string{"l", "other"}) {
		t.Errorf("g2 children = %v", got)
	}

	if m.Move(g1.ID(), g2.ID(), 0) {
		t.Error("moving a group into its own subtree should fail")
	}
	if m.Move(g1.ID(), g1.ID(), 0) {
		t.Error("moving a group into itself should fail")
	}
	if m.Move(m.Root().ID(), g1.ID(), 0) {
		t.Error("moving the root should fail")
	}
	if m.Move("missing", g1.ID(), 0) || m.Move(l.ID(), "missing", 0) {
		t.Error("unknown ids should fail")
	}

	if !m.Move(other.ID(), g2.ID(), 0) {
		t.Error("moving within the same group should reorder")
	}
	if got := names(g2.Children()); !slices.Equal(got, []string{"other", "l"}) {
		t.Errorf("g2 children = %v", got)
	}
}

func TestManagerVisibleAndUnlocked(t *testing.T) {
	m := NewManager()
	a, _ := m.CreateLayer("a", nil)
	b, _ := m.CreateLayer("b", nil)
	a.Visible = false
	b.Locked = true

	if got := layerNames(m.VisibleLayers()); !slices.Equal(got, []string{"b"}) {
		t.Errorf("VisibleLayers() = %v", got)
	}
	if got := layerNames(m.UnlockedLayers()); !slices.Equal(got, []string{"a"}) {
		t.Errorf("UnlockedLayers() = %v", got)
	}
}

func TestManagerJSONRoundTrip(t *testing.T) {
	m := NewManager()
	g, _ := m.CreateGroup("Shapes", nil)
	l1, _ := m.CreateLayer("one", g)
	l2, _ := m.CreateLayer("two", g)
	l3, _ := m.CreateLayer("three", nil)
	l1.ZIndex, l2.ZIndex, l3.ZIndex = 2, 1, 3
	l1.Metadata["note"] = "kept"
	_ = l2.SetOpacity(0.25)
	g.Expanded = false

	s, _ := shape.New(shape.Rectangle{Width: 10, Height: 5})
	l1.AddShape(Owned(s))
	l2.AddShape(Ref("library-shape"))

	data, err := json.Marshal(m)
	if err != nil {
		t.Fatal(err)
	}
	var got Manager
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	var z []int
	for _, l := range got.LayersByZOrder() {
		z = append(z, l.ZIndex)
	}
	if !slices.Equal(z, []int{1, 2, 3}) {
		t.Errorf("z-order = %v", z)
	}

	gg := got.FindGroup(g.ID())
	if gg == nil || gg.Name != "Shapes" || gg.Expanded || gg.ChildCount() != 2 {
		t.Fatalf("group = %+v", gg)
	}
	if gg.ParentID() != got.Root().ID() {
		t.Error("group parent reference not rebuilt")
	}
	gl1 := got.FindLayer(l1.ID())
	if gl1.ParentID() != g.ID() || gl1.Metadata["note"] != "kept" {
		t.Errorf("layer one = %+v", gl1)
	}
	if ref, ok := gl1.Shape(s.ID()); !ok || ref.IsReference() {
		t.Error("owned shape lost")
	}
	gl2 := got.FindLayer(l2.ID())
	if gl2.Opacity() != 0.25 {
		t.Errorf("opacity = %v", gl2.Opacity())
	}
	if ref, ok := gl2.Shape("library-shape"); !ok || !ref.IsReference() {
		t.Error("shape reference lost")
	}
	if got.ActiveLayerID() != l1.ID() {
		t.Error("active layer lost")
	}
}

func TestManagerJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"missing root", `{}`},
		{"misnamed root", `{"root_group":{"id":"root","name":"NotRoot","children":[]}}`},
		{"duplicate ids", `{"root_group":{"id":"root","name":"Root","children":[
			{"node":"layer","id":"x","name":"a","shapes":[]},
			{"node":"group","id":"g","name":"g","children":[{"node":"layer","id":"x","name":"b","shapes":[]}]}]}}`},
		{"dangling active", `{"root_group":{"id":"root","name":"Root","children":[]},"active_layer_id":"nope"}`},
		{"bad opacity", `{"root_group":{"id":"root","name":"Root","children":[{"node":"layer","id":"x","name":"a","opacity":3}]}}`},
		{"bad blend", `{"root_group":{"id":"root","name":"Root","children":[{"node":"layer","id":"x","name":"a","blend_mode":"glow"}]}}`},
		{"bad shape", `{"root_group":{"id":"root","name":"Root","children":[{"node":"layer","id":"x","name":"a","shapes":[{"type":"circle","geometry":{"radius":-1}}]}]}}`},
		{"duplicate shape", `{"root_group":{"id":"root","name":"Root","children":[{"node":"layer","id":"x","name":"a","shapes":["s","s"]}]}}`},
		{"unknown node", `{"root_group":{"id":"root","name":"Root","children":[{"node":"folder","id":"x"}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m Manager
			if err := json.Unmarshal([]byte(tt.in), &m); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestNodeDiscriminatorInference(t *testing.T) {
	in := `{"root_group":{"id":"root","name":"Root","children":[
		{"id":"l","name":"layer without tag","shapes":["a"]},
		{"id":"g","name":"group without tag","children":[]}]}}`
	var m Manager
	if err := json.Unmarshal([]byte(in), &m); err != nil {
		t.Fatal(err)
	}
	if m.FindLayer("l") == nil || m.FindGroup("g") == nil {
		t.Error("node kinds should be inferred")
	}
	data, _ := json.Marshal(&m)
	if !strings.Contains(string(data), `"node":"group"`) {
		t.Errorf("encoded tree should carry discriminators: %s", data)
	}
}
