package inspector

import (
	"github.com/Faultbox/gltf-inspector/pkg/gltf"
	"github.com/Faultbox/gltf-inspector/pkg/math"
)

// Drag speeds of the transform editor.
const (
	translationSpeedFactor = 0.01
	rotationSpeed          = 0.1 // degrees
	scaleSpeed             = 0.01
)

// NodeTRS returns the node's transform in decomposed form. A stored matrix
// is decomposed with its skew and perspective terms dropped; a missing
// transform or an undecomposable matrix yields the identity.
func NodeTRS(node *gltf.Node) gltf.TRSTransform {
	switch t := node.Transform.(type) {
	case gltf.TRSTransform:
		return t
	case gltf.MatrixTransform:
		d, ok := t.Matrix.Decompose()
		if !ok {
			return gltf.IdentityTRS()
		}
		return gltf.TRSTransform{Translation: d.Translation, Rotation: d.Rotation, Scale: d.Scale}
	default:
		return gltf.IdentityTRS()
	}
}

// transformUI is the editable form of a node transform.
type transformUI struct {
	translation [3]float32
	euler       [3]float32 // degrees
	scale       [3]float32
}

func (t *transformUI) toUI(node *gltf.Node) {
	trs := NodeTRS(node)
	t.translation = trs.Translation.Array()
	t.euler = math.Degrees(trs.Rotation.EulerAngles()).Array()
	t.scale = trs.Scale.Array()
}

// fromUI stores the transform in decomposed form, which replaces any matrix.
func (t *transformUI) fromUI(node *gltf.Node) {
	node.Transform = gltf.TRSTransform{
		Translation: math.Vec3FromArray(t.translation),
		Rotation:    math.QuatFromEuler(math.Radians(math.Vec3FromArray(t.euler))).Normalize(),
		Scale:       math.Vec3FromArray(t.scale),
	}
}

// translationSpeed scales dragging with the size of the scene.
func (in *Inspector) translationSpeed() float32 {
	if in.sceneRadius <= 0 {
		return translationSpeedFactor
	}
	return translationSpeedFactor * in.sceneRadius
}

func (in *Inspector) renderNodeDetails(w Widgets, i int) {
	node := &in.doc.Nodes[i]

	w.Text("Node: " + node.Name)

	var ui transformUI
	ui.toUI(node)
	modified := w.DragFloat3("Translation", &ui.translation, in.translationSpeed())
	modified = w.DragFloat3("Rotation", &ui.euler, rotationSpeed) || modified
	modified = w.DragFloat3("Scale", &ui.scale, scaleSpeed) || modified
	if modified {
		ui.fromUI(node)
		in.dirty.Set(DirtyNodeTransform)
	}

	if node.HasExtension(gltf.ExtNodeVisibility) {
		vis := node.Visibility()
		if w.Checkbox("Visible", &vis.Visible) {
			node.SetVisibility(vis)
			in.dirty.Set(DirtyNodeVisibility)
		}
	} else if w.SmallButton("Add Visibility") {
		node.SetVisibility(gltf.Visibility{Visible: true})
	}
}
