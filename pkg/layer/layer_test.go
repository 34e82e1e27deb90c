package layer

import (
	"slices"
	"testing"

	"github.com/matzehuels/drawkit/pkg/shape"
	"github.com/matzehuels/drawkit/pkg/style"
)

func layerWithRefs(ids ...string) *Layer {
	l := NewLayer("test")
	for _, id := range ids {
		l.AddShape(Ref(id))
	}
	return l
}

func TestLayerAddShape(t *testing.T) {
	l := NewLayer("shapes")
	s, err := shape.New(shape.Circle{Radius: 1}, shape.WithID("c1"))
	if err != nil {
		t.Fatal(err)
	}
	if !l.AddShape(Owned(s)) {
		t.Fatal("AddShape(owned) should succeed")
	}
	if !l.AddShape(Ref("r1")) {
		t.Fatal("AddShape(ref) should succeed")
	}
	if l.AddShape(Ref("c1")) {
		t.Error("a reference with an owned shape's ID is a duplicate")
	}
	if l.AddShape(ShapeRef{}) || l.AddShape(Owned(nil)) {
		t.Error("empty refs should be refused")
	}
	if got := l.ShapeIDs(); !slices.Equal(got, []string{"c1", "r1"}) {
		t.Errorf("ShapeIDs() = %v", got)
	}

	ref, ok := l.Shape("c1")
	if !ok || ref.IsReference() {
		t.Error("c1 should be an owned shape")
	}
	if owned, ok := ref.Shape(); !ok || owned != s {
		t.Error("owned shape should be shared")
	}
	ref, _ = l.Shape("r1")
	if !ref.IsReference() {
		t.Error("r1 should be a reference")
	}
}

func TestLayerMoveShape(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		index  int
		want   []string
		wantOK bool
	}{
		{"clamp past end", "a", 999, []string{"b", "c", "a"}, true},
		{"clamp negative", "c", -5, []string{"c", "a", "b"}, true},
		{"to middle", "a", 1, []string{"b", "a", "c"}, true},
		{"same place", "b", 1, []string{"a", "b", "c"}, true},
		{"missing", "zzz", 0, []string{"a", "b", "c"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := layerWithRefs("a", "b", "c")
			if ok := l.MoveShape(tt.id, tt.index); ok != tt.wantOK {
				t.Errorf("MoveShape(%q, %d) = %v, want %v", tt.id, tt.index, ok, tt.wantOK)
			}
			if got := l.ShapeIDs(); !slices.Equal(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLayerRemoveAndClear(t *testing.T) {
	l := layerWithRefs("a", "b", "c")
	if !l.RemoveShape("b") || l.RemoveShape("b") {
		t.Error("RemoveShape should succeed once")
	}
	if l.ShapeCount() != 2 || l.IsEmpty() {
		t.Errorf("count = %d", l.ShapeCount())
	}
	l.ClearShapes()
	if !l.IsEmpty() {
		t.Error("layer should be empty after ClearShapes")
	}
}

func TestLayerOpacityAndBlend(t *testing.T) {
	l := NewLayer("x")
	if l.Opacity() != 1 || l.BlendMode() != style.BlendNormal {
		t.Errorf("defaults = %v %s", l.Opacity(), l.BlendMode())
	}
	if err := l.SetOpacity(1.5); err == nil || l.Opacity() != 1 {
		t.Error("invalid opacity should be rejected without change")
	}
	if err := l.SetBlendMode("sparkle"); err == nil || l.BlendMode() != style.BlendNormal {
		t.Error("invalid blend mode should be rejected without change")
	}
	if err := l.SetBlendMode(style.BlendMultiply); err != nil {
		t.Error(err)
	}
}

func TestGroupAddChild(t *testing.T) {
	root := NewGroup("root")
	child := NewGroup("child")
	grandchild := NewGroup("grandchild")
	l := NewLayer("layer")

	if !root.AddChild(child) || !child.AddChild(grandchild) || !grandchild.AddChild(l) {
		t.Fatal("building the tree should succeed")
	}
	if child.ParentID() != root.ID() || l.ParentID() != grandchild.ID() {
		t.Error("parent references not set")
	}

	tests := []struct {
		name string
		into *Group
		n    Node
	}{
		{"nil", root, nil},
		{"typed nil layer", root, (*Layer)(nil)},
		{"already attached", root, l},
		{"self", root, root},
		{"cycle", grandchild, root},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.into.AddChild(tt.n) {
				t.Error("AddChild should refuse")
			}
		})
	}

	if !grandchild.RemoveChild(l.ID()) {
		t.Fatal("RemoveChild should succeed")
	}
	if l.ParentID() != "" {
		t.Error("RemoveChild should clear the parent reference")
	}
	if !root.AddChild(l) || l.ParentID() != root.ID() {
		t.Error("detached node should be re-attachable")
	}
	if root.RemoveChild(grandchild.ID()) {
		t.Error("RemoveChild only looks at direct children")
	}
}

func TestGroupMoveChild(t *testing.T) {
	g := NewGroup("g")
	a, b, c := NewLayer("a"), NewLayer("b"), NewLayer("c")
	g.AddChild(a)
	g.AddChild(b)
	g.AddChild(c)

	if !g.MoveChild(a.ID(), 100) {
		t.Fatal("MoveChild should succeed")
	}
	if got := names(g.Children()); !slices.Equal(got, []string{"b", "c", "a"}) {
		t.Errorf("order = %v", got)
	}
	if g.MoveChild("missing", 0) {
		t.Error("MoveChild of missing child should fail")
	}
}

func TestGroupTraversal(t *testing.T) {
	// root
	// ├── l1
	// ├── g1
	// │   ├── l2
	// │   └── g2
	// │       └── l3
	// └── l4
	root := NewGroup("root")
	l1, l2, l3, l4 := NewLayer("l1"), NewLayer("l2"), NewLayer("l3"), NewLayer("l4")
	g1, g2 := NewGroup("g1"), NewGroup("g2")
	root.AddChild(l1)
	root.AddChild(g1)
	g1.AddChild(l2)
	g1.AddChild(g2)
	g2.AddChild(l3)
	root.AddChild(l4)

	l1.AddShape(Ref("s1"))
	l2.AddShape(Ref("s2"))
	l2.AddShape(Ref("s3"))
	l3.AddShape(Ref("s4"))

	if got := layerNames(root.Layers(true)); !slices.Equal(got, []string{"l1", "l2", "l3", "l4"}) {
		t.Errorf("Layers(true) = %v", got)
	}
	if got := layerNames(root.Layers(false)); !slices.Equal(got, []string{"l1", "l4"}) {
		t.Errorf("Layers(false) = %v", got)
	}

	var ids []string
	for _, r := range root.Shapes(true) {
		ids = append(ids, r.ID())
	}
	if !slices.Equal(ids, []string{"s1", "s2", "s3", "s4"}) {
		t.Errorf("Shapes(true) = %v", ids)
	}
	if got := root.Shapes(false); len(got) != 1 {
		t.Errorf("Shapes(false) = %d entries, want 1", len(got))
	}

	if root.FindLayer(l3.ID()) != l3 {
		t.Error("FindLayer should search recursively")
	}
	if root.FindGroup(root.ID()) != root {
		t.Error("FindGroup should match the group itself")
	}
	if root.FindGroup(g2.ID()) != g2 {
		t.Error("FindGroup should search recursively")
	}
	if root.FindLayer(g1.ID()) != nil || root.FindGroup(l1.ID()) != nil {
		t.Error("lookups should not cross node kinds")
	}

	var walked []string
	var depths []int
	root.Walk(func(n Node, depth int) bool {
		walked = append(walked, NameOf(n))
		depths = append(depths, depth)
		return true
	})
	if !slices.Equal(walked, []string{"l1", "g1", "l2", "g2", "l3", "l4"}) {
		t.Errorf("Walk order = %v", walked)
	}
	if !slices.Equal(depths, []int{1, 1, 2, 2, 3, 1}) {
		t.Errorf("Walk depths = %v", depths)
	}

	var stopped []string
	root.Walk(func(n Node, _ int) bool {
		stopped = append(stopped, NameOf(n))
		return NameOf(n) != "l2"
	})
	if !slices.Equal(stopped, []string{"l1", "g1", "l2"}) {
		t.Errorf("Walk should stop early, got %v", stopped)
	}
}

func TestGroupClone(t *testing.T) {
	g := NewGroup("g")
	l := NewLayer("l")
	s, _ := shape.New(shape.Circle{Radius: 2})
	l.AddShape(Owned(s))
	g.AddChild(l)

	c := g.Clone()
	cl := c.FindLayer(l.ID())
	if cl == nil || cl == l {
		t.Fatal("clone should contain a copy of the layer")
	}
	if cl.ParentID() != c.ID() {
		t.Error("cloned child should point at the cloned group")
	}
	ref, _ := cl.Shape(s.ID())
	if owned, _ := ref.Shape(); owned == s {
		t.Error("owned shapes should be deep copied")
	}
}

func names(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = NameOf(n)
	}
	return out
}

func layerNames(layers []*Layer) []string {
	out := make([]string, len(layers))
	for i, l := range layers {
		out[i] = l.Name
	}
	return out
}
