package inspector

import (
	gomath "math"

	"github.com/Faultbox/gltf-inspector/pkg/gltf"
)

// materialUI holds the material fields whose editable form differs from
// the stored one.
type materialUI struct {
	baseColor   [4]float32
	metallic    float32
	roughness   float32
	emissive    [3]float32
	alphaCutoff float32
	alphaMode   int
	doubleSided bool
}

func (m *materialUI) toUI(mat *gltf.Material) {
	m.baseColor = mat.BaseColorFactor
	m.metallic = mat.MetallicFactor
	m.roughness = mat.RoughnessFactor
	m.emissive = mat.EmissiveFactor
	m.alphaCutoff = mat.AlphaCutoff
	m.alphaMode = int(mat.AlphaMode)
	m.doubleSided = mat.DoubleSided
}

func (m *materialUI) fromUI(mat *gltf.Material) {
	mat.BaseColorFactor = m.baseColor
	mat.MetallicFactor = m.metallic
	mat.RoughnessFactor = m.roughness
	mat.EmissiveFactor = m.emissive
	mat.AlphaCutoff = m.alphaCutoff
	mat.AlphaMode = gltf.AlphaMode(m.alphaMode)
	mat.DoubleSided = m.doubleSided
}

// LogarithmicStep returns a drag step of a tenth of value's order of
// magnitude, never below 0.001.
func LogarithmicStep(value float32) float32 {
	if value <= 0 {
		return 0.001
	}
	step := 0.1 * gomath.Pow(10, gomath.Floor(gomath.Log10(float64(value))))
	return float32(gomath.Max(step, 0.001))
}

func (in *Inspector) renderMaterial(w Widgets, i int) {
	mat := &in.doc.Materials[i]

	w.Text("Material: " + mat.Name)

	var ui materialUI
	ui.toUI(mat)
	modified := w.ColorEdit4("Base Color", &ui.baseColor)
	modified = w.DragFloat("Metallic", &ui.metallic, 0.01, 0, 1) || modified
	modified = w.DragFloat("Roughness", &ui.roughness, 0.01, 0, 1) || modified
	modified = w.ColorEdit3("Emissive", &ui.emissive) || modified
	modified = w.DragFloat("Alpha Cutoff", &ui.alphaCutoff, 0.01, 0, 1) || modified
	modified = w.Combo("Alpha Mode", &ui.alphaMode, gltf.AlphaModeNames) || modified
	modified = w.Checkbox("Double Sided", &ui.doubleSided) || modified
	if modified {
		ui.fromUI(mat)
		in.dirty.Set(DirtyMaterial)
	}

	for _, ext := range materialExtensionEditors {
		if !mat.HasExtension(ext.name) {
			continue
		}
		if ext.edit(w, mat) {
			in.dirty.Set(DirtyMaterial)
		}
	}
}

// materialExtensionEditors edit the extension blocks a material already
// carries. Missing blocks get no controls.
var materialExtensionEditors = []struct {
	name string
	edit func(w Widgets, mat *gltf.Material) bool
}{
	{gltf.ExtEmissiveStrength, editEmissiveStrength},
	{gltf.ExtClearcoat, editClearcoat},
	{gltf.ExtSheen, editSheen},
	{gltf.ExtTransmission, editTransmission},
	{gltf.ExtIOR, editIOR},
	{gltf.ExtSpecular, editSpecular},
	{gltf.ExtVolume, editVolume},
	{gltf.ExtAnisotropy, editAnisotropy},
	{gltf.ExtIridescence, editIridescence},
	{gltf.ExtDispersion, editDispersion},
}

func editEmissiveStrength(w Widgets, mat *gltf.Material) bool {
	v := mat.EmissiveStrength()
	if !w.DragFloat("Emissive Strength", &v.EmissiveStrength, LogarithmicStep(v.EmissiveStrength), 0, gomath.MaxFloat32) {
		return false
	}
	mat.SetEmissiveStrength(v)
	return true
}

func editClearcoat(w Widgets, mat *gltf.Material) bool {
	v := mat.Clearcoat()
	modified := w.DragFloat("Clearcoat Factor", &v.Factor, 0.01, 0, 1)
	modified = w.DragFloat("Clearcoat Roughness", &v.RoughnessFactor, 0.01, 0, 1) || modified
	if modified {
		mat.SetClearcoat(v)
	}
	return modified
}

func editSheen(w Widgets, mat *gltf.Material) bool {
	v := mat.Sheen()
	modified := w.ColorEdit3("Sheen Color", &v.ColorFactor)
	modified = w.DragFloat("Sheen Roughness", &v.RoughnessFactor, 0.01, 0, 1) || modified
	if modified {
		mat.SetSheen(v)
	}
	return modified
}

func editTransmission(w Widgets, mat *gltf.Material) bool {
	v := mat.Transmission()
	if !w.DragFloat("Transmission Factor", &v.Factor, 0.01, 0, 1) {
		return false
	}
	mat.SetTransmission(v)
	return true
}

func editIOR(w Widgets, mat *gltf.Material) bool {
	v := mat.IOR()
	if !w.DragFloat("IOR", &v.IOR, 0.01, 0, 10) {
		return false
	}
	mat.SetIOR(v)
	return true
}

func editSpecular(w Widgets, mat *gltf.Material) bool {
	v := mat.Specular()
	modified := w.ColorEdit3("Specular Color", &v.ColorFactor)
	modified = w.DragFloat("Specular Factor", &v.Factor, 0.01, 0, 1) || modified
	if modified {
		mat.SetSpecular(v)
	}
	return modified
}

func editVolume(w Widgets, mat *gltf.Material) bool {
	v := mat.Volume()
	modified := w.DragFloat("Thickness", &v.ThicknessFactor, 0.01, 0, 1)
	modified = w.ColorEdit3("Attenuation Color", &v.AttenuationColor) || modified
	if modified {
		mat.SetVolume(v)
	}
	return modified
}

func editAnisotropy(w Widgets, mat *gltf.Material) bool {
	v := mat.Anisotropy()
	modified := w.DragFloat("Anisotropy Strength", &v.Strength, 0.01, 0, 1)
	modified = w.DragFloat("Anisotropy Rotation", &v.Rotation, 0.01, -gomath.Pi, gomath.Pi) || modified
	if modified {
		mat.SetAnisotropy(v)
	}
	return modified
}

func editIridescence(w Widgets, mat *gltf.Material) bool {
	v := mat.Iridescence()
	modified := w.DragFloat("Iridescence Factor", &v.Factor, 0.01, 0, 10)
	modified = w.DragFloat("Iridescence IOR", &v.IOR, 0.01, 0, 10) || modified
	modified = w.DragFloat("Thickness Min", &v.ThicknessMinimum, 0.01, 0, 1000) || modified
	modified = w.DragFloat("Thickness Max", &v.ThicknessMaximum, 0.01, 0, 1000) || modified
	if modified {
		mat.SetIridescence(v)
	}
	return modified
}

func editDispersion(w Widgets, mat *gltf.Material) bool {
	v := mat.Dispersion()
	if !w.DragFloat("Dispersion Factor", &v.Dispersion, 0.01, 0, 10) {
		return false
	}
	mat.SetDispersion(v)
	return true
}
