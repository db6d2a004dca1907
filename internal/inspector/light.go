package inspector

import (
	"github.com/Faultbox/gltf-inspector/pkg/gltf"
	"github.com/Faultbox/gltf-inspector/pkg/math"
)

const (
	maxLightIntensity = 1e6
	maxLightRadius    = 1e6
	maxConeAngleDeg   = 180
)

// lightUI is the editable form of a light. Color is in sRGB for the picker.
type lightUI struct {
	color      [3]float32
	lightType  int
	intensity  float32
	innerAngle float32 // radians
	outerAngle float32 // radians
	radius     float32
}

func (l *lightUI) toUI(light *gltf.Light) {
	l.color = math.ToSRGB(light.Color)
	l.lightType = int(light.Type)
	l.intensity = light.Intensity
	l.innerAngle = light.InnerConeAngle
	l.outerAngle = light.OuterConeAngle
	l.radius = light.Radius()
}

func (l *lightUI) fromUI(light *gltf.Light) {
	light.Color = math.ToLinear(l.color)
	light.Type = gltf.LightType(l.lightType)
	light.Intensity = l.intensity
	light.InnerConeAngle = l.innerAngle
	light.OuterConeAngle = l.outerAngle
	light.SetRadius(l.radius)
}

func (in *Inspector) renderLightDetails(w Widgets, i int) {
	light := &in.doc.Lights[i]

	w.Text("Light: " + light.Name)

	var ui lightUI
	ui.toUI(light)
	modified := w.Combo("Type", &ui.lightType, gltf.LightTypeNames)
	modified = w.ColorEdit3("Color", &ui.color) || modified
	modified = w.SliderFloat("Intensity", &ui.intensity, 0, maxLightIntensity, true) || modified
	if w.SliderAngle("Inner Cone Angle", &ui.innerAngle, 0, maxConeAngleDeg) {
		modified = true
	}
	ui.outerAngle = max(ui.innerAngle, ui.outerAngle)
	if w.SliderAngle("Outer Cone Angle", &ui.outerAngle, 0, maxConeAngleDeg) {
		modified = true
	}
	ui.innerAngle = min(ui.innerAngle, ui.outerAngle)
	modified = w.SliderFloat("Radius", &ui.radius, 0, maxLightRadius, true) || modified

	if modified {
		ui.fromUI(light)
		in.dirty.Set(DirtyLight)
	}
}
