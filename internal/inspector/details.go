package inspector

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/gltf-inspector/pkg/gltf"
)

// RenderDetails draws the editor of the selected entity.
func (in *Inspector) RenderDetails(w Widgets) {
	if w.BeginChild("Details", detailsHeight) && in.doc != nil {
		in.renderSelected(w)
	}
	w.EndChild()
}

func (in *Inspector) renderSelected(w Widgets) {
	sel := in.selection
	if sel.IsNone() {
		return
	}
	// A document swapped under a live selection is reset by SetDocument;
	// this only guards callers mutating the arrays directly.
	if err := in.checkSelection(sel); err != nil {
		w.TextDisabled(fmt.Sprintf("Selection %s is no longer valid", sel))
		return
	}

	switch sel.Kind() {
	case KindNode:
		in.renderNodeDetails(w, sel.index)
	case KindMaterial:
		in.renderMaterial(w, sel.index)
	case KindLight:
		in.renderLightDetails(w, sel.index)
	case KindCamera:
		in.renderCameraDetails(w, sel.index)
	}
}

func (in *Inspector) renderCameraDetails(w Widgets, i int) {
	camera := &in.doc.Cameras[i]

	w.Text("Camera: " + camera.Name)
	w.Text("Type: " + camera.Type.String())
	switch camera.Type {
	case gltf.CameraOrthographic:
		w.Text(fmt.Sprintf("XMag: %.3f", camera.XMag))
		w.Text(fmt.Sprintf("YMag: %.3f", camera.YMag))
	default:
		w.Text(fmt.Sprintf("Y FOV: %.1f deg", float64(camera.YFov)*180/gomath.Pi))
		if camera.AspectRatio > 0 {
			w.Text(fmt.Sprintf("Aspect: %.3f", camera.AspectRatio))
		}
	}
	w.Text(fmt.Sprintf("Near: %.3f", camera.ZNear))
	if camera.ZFar > 0 {
		w.Text(fmt.Sprintf("Far: %.3f", camera.ZFar))
	} else {
		w.TextDisabled("Far: infinite")
	}
}
