package gltf

import (
	"fmt"

	"github.com/Faultbox/gltf-inspector/pkg/math"
)

// WorldMatrices returns the world transform of every node reachable from any
// scene. Nodes outside all scenes keep the identity matrix. Each node is
// visited once; a node listed under several parents takes the transform of
// the first parent reached.
func (d *Document) WorldMatrices() ([]math.Mat4, error) {
	world := make([]math.Mat4, len(d.Nodes))
	for i := range world {
		world[i] = math.Identity()
	}

	type item struct {
		node   int
		parent math.Mat4
		exit   bool
	}
	onPath := make([]bool, len(d.Nodes))
	done := make([]bool, len(d.Nodes))
	for _, scene := range d.Scenes {
		for _, root := range scene.Nodes {
			stack := []item{{node: root, parent: math.Identity()}}
			for len(stack) > 0 {
				it := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				if it.exit {
					onPath[it.node] = false
					continue
				}
				if it.node < 0 || it.node >= len(d.Nodes) {
					return nil, fmt.Errorf("node %d: %w", it.node, ErrIndexOutOfRange)
				}
				if onPath[it.node] {
					return nil, fmt.Errorf("node %d below root %d: %w", it.node, root, ErrCycle)
				}
				if done[it.node] {
					continue
				}
				done[it.node] = true
				onPath[it.node] = true

				node := &d.Nodes[it.node]
				world[it.node] = it.parent.Mul(node.LocalMatrix())
				stack = append(stack, item{node: it.node, exit: true})
				for _, child := range node.Children {
					stack = append(stack, item{node: child, parent: world[it.node]})
				}
			}
		}
	}
	return world, nil
}

// Bounds returns the world-space axis-aligned box of every mesh primitive
// whose POSITION accessor declares min/max. ok is false when none does.
func (d *Document) Bounds() (lo, hi math.Vec3, ok bool, err error) {
	world, err := d.WorldMatrices()
	if err != nil {
		return lo, hi, false, err
	}

	for ni := range d.Nodes {
		node := &d.Nodes[ni]
		if node.Mesh < 0 {
			continue
		}
		if node.Mesh >= len(d.Meshes) {
			return lo, hi, false, fmt.Errorf("mesh %d of node %d: %w", node.Mesh, ni, ErrIndexOutOfRange)
		}
		for pi, prim := range d.Meshes[node.Mesh].Primitives {
			if prim.Position < 0 {
				continue
			}
			if prim.Position >= len(d.Accessors) {
				return lo, hi, false, fmt.Errorf("accessor %d of mesh %d primitive %d: %w",
					prim.Position, node.Mesh, pi, ErrIndexOutOfRange)
			}
			acc := d.Accessors[prim.Position]
			if len(acc.Min) != 3 || len(acc.Max) != 3 {
				continue
			}
			for _, corner := range boxCorners(acc.Min, acc.Max) {
				p := world[ni].TransformPoint(corner)
				if !ok {
					lo, hi, ok = p, p, true
					continue
				}
				lo = lo.Min(p)
				hi = hi.Max(p)
			}
		}
	}
	return lo, hi, ok, nil
}

// Radius returns the radius of the sphere enclosing Bounds, or 0.
func (d *Document) Radius() (float32, error) {
	lo, hi, ok, err := d.Bounds()
	if err != nil || !ok {
		return 0, err
	}
	return hi.Sub(lo).Length() / 2, nil
}

func boxCorners(lo, hi []float32) [8]math.Vec3 {
	var corners [8]math.Vec3
	for i := range corners {
		c := math.Vec3{X: lo[0], Y: lo[1], Z: lo[2]}
		if i&1 != 0 {
			c.X = hi[0]
		}
		if i&2 != 0 {
			c.Y = hi[1]
		}
		if i&4 != 0 {
			c.Z = hi[2]
		}
		corners[i] = c
	}
	return corners
}
