package gltf

import (
	"errors"
	"testing"

	"github.com/Faultbox/gltf-inspector/pkg/math"
)

func TestBounds(t *testing.T) {
	doc, err := Parse([]byte(testScene))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// Box [-1,1]^3 scaled by 2 under a root translated to (5,6,7).
	lo, hi, ok, err := doc.Bounds()
	if err != nil || !ok {
		t.Fatalf("Bounds: ok=%v err=%v", ok, err)
	}
	if lo != (math.Vec3{X: 3, Y: 4, Z: 5}) || hi != (math.Vec3{X: 7, Y: 8, Z: 9}) {
		t.Errorf("bounds: got %v..%v", lo, hi)
	}

	r, err := doc.Radius()
	if err != nil {
		t.Fatalf("Radius: %v", err)
	}
	want := math.Vec3{X: 4, Y: 4, Z: 4}.Length() / 2
	if r != want {
		t.Errorf("radius: got %v, want %v", r, want)
	}
}

func TestBoundsEmpty(t *testing.T) {
	doc := &Document{Scenes: []Scene{{Nodes: []int{0}}}, Nodes: []Node{{Mesh: -1, Light: -1, Camera: -1}}}
	if _, _, ok, err := doc.Bounds(); ok || err != nil {
		t.Errorf("expected no bounds, got ok=%v err=%v", ok, err)
	}
	if r, _ := doc.Radius(); r != 0 {
		t.Errorf("radius of empty scene: got %v", r)
	}
}

func TestWorldMatricesCycle(t *testing.T) {
	doc := &Document{
		Scenes: []Scene{{Nodes: []int{0}}},
		Nodes: []Node{
			{Mesh: -1, Light: -1, Camera: -1, Children: []int{1}},
			{Mesh: -1, Light: -1, Camera: -1, Children: []int{0}},
		},
	}
	if _, err := doc.WorldMatrices(); !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestBoundsDanglingReferences(t *testing.T) {
	tests := []struct {
		name string
		doc  *Document
	}{
		{"mesh", &Document{
			Scenes: []Scene{{Nodes: []int{0}}},
			Nodes:  []Node{{Mesh: 2, Light: -1, Camera: -1}},
		}},
		{"accessor", &Document{
			Scenes: []Scene{{Nodes: []int{0}}},
			Nodes:  []Node{{Mesh: 0, Light: -1, Camera: -1}},
			Meshes: []Mesh{{Primitives: []Primitive{{Material: -1, Position: 3}}}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.doc.Radius(); !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("expected ErrIndexOutOfRange, got %v", err)
			}
		})
	}
}

func TestWorldMatricesSharedChildren(t *testing.T) {
	// Every node lists the next one twice. Walking each path separately
	// would take 2^n steps.
	const n = 64
	nodes := make([]Node, n)
	for i := range nodes {
		trs := IdentityTRS()
		trs.Translation = math.Vec3{X: 1}
		nodes[i] = Node{Transform: trs, Mesh: -1, Light: -1, Camera: -1}
		if i+1 < n {
			nodes[i].Children = []int{i + 1, i + 1}
		}
	}
	doc := &Document{Scenes: []Scene{{Nodes: []int{0}}}, Nodes: nodes}

	world, err := doc.WorldMatrices()
	if err != nil {
		t.Fatalf("WorldMatrices failed: %v", err)
	}
	if got := world[n-1][12]; got != n {
		t.Errorf("last node x: got %v, want %v", got, n)
	}
}

func TestWorldMatricesRootInTwoScenes(t *testing.T) {
	doc := &Document{
		Scenes: []Scene{{Nodes: []int{0}}, {Nodes: []int{0}}},
		Nodes:  []Node{{Mesh: -1, Light: -1, Camera: -1}},
	}
	if _, err := doc.WorldMatrices(); err != nil {
		t.Errorf("a root shared by two scenes is not a cycle: %v", err)
	}
}
