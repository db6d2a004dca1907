package inspector

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Faultbox/gltf-inspector/pkg/gltf"
)

// richDocument has one node of each kind below a root:
//
//	Root(0) -> Body(1, mesh 0), Lamp(2, light 0), Eye(3, camera 0)
func richDocument() *gltf.Document {
	body := newNode("Body")
	body.Mesh = 0
	lamp := newNode("Lamp")
	lamp.Light = 0
	eye := newNode("Eye")
	eye.Camera = 0

	return &gltf.Document{
		Scenes: []gltf.Scene{{Name: "Main", Nodes: []int{0}}},
		Nodes:  []gltf.Node{newNode("Root", 1, 2, 3), body, lamp, eye},
		Meshes: []gltf.Mesh{{Name: "BodyMesh", Primitives: []gltf.Primitive{
			{Material: 1, Position: -1},
			{Material: -4, Position: -1},
			{Material: 9, Position: -1},
		}}},
		Materials: []gltf.Material{gltf.DefaultMaterial(), gltf.DefaultMaterial()},
		Lights:    []gltf.Light{gltf.DefaultLight()},
		Cameras:   []gltf.Camera{{Name: "View"}},
	}
}

func assertBalanced(t *testing.T, w *fakeWidgets) {
	t.Helper()
	if w.treeDepth != 0 || w.idDepth != 0 || w.children != 0 || w.tables != 0 {
		t.Errorf("unbalanced widget stack: tree=%d id=%d child=%d table=%d",
			w.treeDepth, w.idDepth, w.children, w.tables)
	}
}

func openAll(w *fakeWidgets, labels ...string) {
	for _, l := range labels {
		w.open[l] = true
	}
}

func TestRenderDocumentOrder(t *testing.T) {
	doc := richDocument()
	in := New(doc, nil)
	w := newFakeWidgets()
	openAll(w, "Root##node0", "Body##node1", "BodyMesh##mesh0")

	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	assertBalanced(t, w)

	want := []string{
		"Main##scene",
		"Root##node0",
		"Body##node1",
		"BodyMesh##mesh0",
		"Prim 0", "Prim 1", "Prim 2",
		"Lamp##node2",
		"Eye##node3",
	}
	if len(w.labels) != len(want) {
		t.Fatalf("rows: got %v, want %v", w.labels, want)
	}
	for i := range want {
		if w.labels[i] != want[i] {
			t.Errorf("row %d: got %q, want %q", i, w.labels[i], want[i])
		}
	}
	for _, text := range []string{"Scene 0", "Node 0", "Node 3", "Mesh 0", "Primitive"} {
		if !w.wroteText(text) {
			t.Errorf("missing type column %q", text)
		}
	}
}

func TestRenderLeafRowsOfOpenNode(t *testing.T) {
	in := New(richDocument(), nil)
	w := newFakeWidgets()
	openAll(w, "Root##node0", "Lamp##node2", "Eye##node3")

	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	assertBalanced(t, w)

	for _, label := range []string{"##light0", "View##camera0"} {
		if !w.rendered(label) {
			t.Errorf("row %q not rendered: %v", label, w.labels)
		}
	}
	if !w.wroteText("Light 0") || !w.wroteText("Camera 0") {
		t.Error("missing light/camera type columns")
	}
}

func TestClickToggle(t *testing.T) {
	in := New(chainDocument(), nil)
	w := newFakeWidgets()

	if err := in.SelectNode(2); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}
	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !w.rendered("C##node2") {
		t.Fatalf("selected node was not revealed: %v", w.labels)
	}

	w.reset()
	w.click = "C##node2"
	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !in.Selection().IsNone() {
		t.Fatalf("clicking the selected node should deselect it, got %v", in.Selection())
	}

	w.reset()
	w.click = "C##node2"
	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !in.Selection().Is(KindNode, 2) {
		t.Errorf("second click should reselect, got %v", in.Selection())
	}
	assertBalanced(t, w)
}

func TestClickOtherNode(t *testing.T) {
	in := New(chainDocument(), nil)
	w := newFakeWidgets()
	if err := in.SelectNode(2); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}

	w.click = "D##node3"
	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !in.Selection().Is(KindNode, 3) {
		t.Errorf("selection: got %v", in.Selection())
	}
	if len(in.OpenNodes()) != 0 {
		t.Errorf("click should clear the open set, got %v", in.OpenNodes())
	}
}

func TestToggleOpenDoesNotSelect(t *testing.T) {
	in := New(chainDocument(), nil)
	w := newFakeWidgets()
	w.click = "A##node0"
	w.toggle = true

	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !in.Selection().IsNone() {
		t.Errorf("expanding a row must not select it, got %v", in.Selection())
	}
}

func TestScrollOnce(t *testing.T) {
	in := New(chainDocument(), nil)
	w := newFakeWidgets()
	if err := in.SelectNode(2); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}

	for range 3 {
		if err := in.Render(w); err != nil {
			t.Fatalf("Render failed: %v", err)
		}
	}
	if w.scrolls != 1 {
		t.Errorf("expected one scroll request, got %d", w.scrolls)
	}
	if in.ScrollPending() {
		t.Error("scroll still pending")
	}

	if err := in.SelectNode(3); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}
	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if w.scrolls != 2 {
		t.Errorf("new selection should scroll again, got %d", w.scrolls)
	}
}

func TestPrimitiveSelectsClampedMaterial(t *testing.T) {
	tests := []struct {
		label string
		want  int
	}{
		{"Prim 0", 1},
		{"Prim 1", 0},
		{"Prim 2", 1},
	}

	for _, tt := range tests {
		t.Run(tt.label, func(t *testing.T) {
			in := New(richDocument(), nil)
			w := newFakeWidgets()
			openAll(w, "Root##node0", "Body##node1", "BodyMesh##mesh0")
			w.click = tt.label

			if err := in.Render(w); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !in.Selection().Is(KindMaterial, tt.want) {
				t.Errorf("selection: got %v, want material %d", in.Selection(), tt.want)
			}
		})
	}
}

func TestResolvePrimitiveMaterial(t *testing.T) {
	for count := 1; count <= 4; count++ {
		for m := -5; m <= 5; m++ {
			got, ok := ResolvePrimitiveMaterial(m, count)
			want := m
			if want < 0 {
				want = 0
			}
			if want > count-1 {
				want = count - 1
			}
			if !ok || got != want {
				t.Errorf("ResolvePrimitiveMaterial(%d, %d) = %d, %v; want %d", m, count, got, ok, want)
			}
		}
	}

	if _, ok := ResolvePrimitiveMaterial(0, 0); ok {
		t.Error("no materials means nothing to select")
	}
}

func TestPrimitiveWithoutMaterials(t *testing.T) {
	doc := richDocument()
	doc.Materials = nil
	in := New(doc, nil)
	w := newFakeWidgets()
	openAll(w, "Root##node0", "Body##node1", "BodyMesh##mesh0")
	w.click = "Prim 0"

	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	if !in.Selection().IsNone() {
		t.Errorf("selection: got %v", in.Selection())
	}
	if !w.wroteText("Prim 0") {
		t.Error("primitive row should be plain text")
	}
}

func TestLightAndCameraSelectThemselves(t *testing.T) {
	tests := []struct {
		click string
		kind  Kind
	}{
		{"##light0", KindLight},
		{"View##camera0", KindCamera},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			in := New(richDocument(), nil)
			w := newFakeWidgets()
			openAll(w, "Root##node0", "Lamp##node2", "Eye##node3")
			w.click = tt.click

			if err := in.Render(w); err != nil {
				t.Fatalf("Render failed: %v", err)
			}
			if !in.Selection().Is(tt.kind, 0) {
				t.Errorf("selection: got %v", in.Selection())
			}
		})
	}
}

func TestRowClickClearsOpenNodes(t *testing.T) {
	tests := []struct {
		click string
		want  Selection
	}{
		{"Prim 0", SelectMaterial(1)},
		{"##light0", SelectLight(0)},
		{"View##camera0", SelectCamera(0)},
	}

	for _, tt := range tests {
		t.Run(tt.want.Kind().String(), func(t *testing.T) {
			in := New(richDocument(), nil)
			if err := in.SelectNode(2); err != nil {
				t.Fatalf("SelectNode failed: %v", err)
			}
			if len(in.OpenNodes()) == 0 {
				t.Fatal("SelectNode should force the root open")
			}

			w := newFakeWidgets()
			openAll(w, "Root##node0", "Body##node1", "BodyMesh##mesh0", "Lamp##node2", "Eye##node3")
			w.click = tt.click
			if err := in.Render(w); err != nil {
				t.Fatalf("Render failed: %v", err)
			}

			if in.Selection() != tt.want {
				t.Errorf("selection: got %v, want %v", in.Selection(), tt.want)
			}
			if open := in.OpenNodes(); len(open) != 0 {
				t.Errorf("open nodes should be cleared by a row click, got %v", open)
			}
		})
	}
}

func TestHiddenMarker(t *testing.T) {
	doc := chainDocument()
	doc.Nodes[3].Extensions = map[string]json.RawMessage{
		gltf.ExtNodeVisibility: json.RawMessage(`{"visible":false}`),
	}
	in := New(doc, nil)
	w := newFakeWidgets()

	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	count := 0
	for _, text := range w.texts {
		if text == hiddenMarker {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected one hidden marker, got %d", count)
	}
}

func TestRenderCycle(t *testing.T) {
	doc := &gltf.Document{
		Scenes: []gltf.Scene{{Name: "S", Nodes: []int{0}}, {Name: "T", Nodes: []int{2}}},
		Nodes:  []gltf.Node{newNode("a", 1), newNode("b", 0), newNode("c")},
	}
	in := New(doc, nil)
	w := newFakeWidgets()
	openAll(w, "a##node0", "b##node1")

	err := in.Render(w)
	if !errors.Is(err, ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
	assertBalanced(t, w)
	if w.rendered("c##node2") {
		t.Error("rendering should stop at the cycle")
	}
}

func TestRenderDanglingReferences(t *testing.T) {
	tests := []struct {
		name string
		node gltf.Node
	}{
		{"child", newNode("a", 7)},
		{"mesh", gltf.Node{Name: "a", Mesh: 2, Light: -1, Camera: -1}},
		{"light", gltf.Node{Name: "a", Mesh: -1, Light: 0, Camera: -1}},
		{"camera", gltf.Node{Name: "a", Mesh: -1, Light: -1, Camera: 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &gltf.Document{
				Scenes: []gltf.Scene{{Name: "S", Nodes: []int{0}}},
				Nodes:  []gltf.Node{tt.node},
			}
			in := New(doc, nil)
			w := newFakeWidgets()
			openAll(w, "a##node0")

			if err := in.Render(w); !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("expected ErrIndexOutOfRange, got %v", err)
			}
			assertBalanced(t, w)
		})
	}
}

func TestRenderDeepChain(t *testing.T) {
	const depth = 5000
	doc := &gltf.Document{Scenes: []gltf.Scene{{Name: "Deep", Nodes: []int{0}}}}
	w := newFakeWidgets()
	for i := 0; i < depth; i++ {
		n := newNode("n")
		if i+1 < depth {
			n.Children = []int{i + 1}
		}
		doc.Nodes = append(doc.Nodes, n)
	}

	in := New(doc, nil)
	if err := in.SelectNode(depth - 1); err != nil {
		t.Fatalf("SelectNode failed: %v", err)
	}
	if len(in.OpenNodes()) != depth-1 {
		t.Fatalf("open nodes: got %d", len(in.OpenNodes()))
	}
	if err := in.Render(w); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	assertBalanced(t, w)
	// Scene row plus every ancestor of the selected leaf.
	if w.maxDepth != depth {
		t.Errorf("max tree depth: got %d, want %d", w.maxDepth, depth)
	}
}
