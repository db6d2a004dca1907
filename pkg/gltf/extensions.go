package gltf

import "encoding/json"

// Extension names understood by the inspector.
const (
	ExtLightsPunctual   = "KHR_lights_punctual"
	ExtNodeVisibility   = "KHR_node_visibility"
	ExtEmissiveStrength = "KHR_materials_emissive_strength"
	ExtClearcoat        = "KHR_materials_clearcoat"
	ExtSheen            = "KHR_materials_sheen"
	ExtTransmission     = "KHR_materials_transmission"
	ExtIOR              = "KHR_materials_ior"
	ExtSpecular         = "KHR_materials_specular"
	ExtVolume           = "KHR_materials_volume"
	ExtAnisotropy       = "KHR_materials_anisotropy"
	ExtIridescence      = "KHR_materials_iridescence"
	ExtDispersion       = "KHR_materials_dispersion"
)

// Visibility is KHR_node_visibility.
type Visibility struct {
	Visible bool `json:"visible"`
}

// EmissiveStrength is KHR_materials_emissive_strength.
type EmissiveStrength struct {
	EmissiveStrength float32 `json:"emissiveStrength"`
}

// Clearcoat is KHR_materials_clearcoat (factors only).
type Clearcoat struct {
	Factor          float32 `json:"clearcoatFactor"`
	RoughnessFactor float32 `json:"clearcoatRoughnessFactor"`
}

// Sheen is KHR_materials_sheen (factors only).
type Sheen struct {
	ColorFactor     [3]float32 `json:"sheenColorFactor"`
	RoughnessFactor float32    `json:"sheenRoughnessFactor"`
}

// Transmission is KHR_materials_transmission (factors only).
type Transmission struct {
	Factor float32 `json:"transmissionFactor"`
}

// IOR is KHR_materials_ior.
type IOR struct {
	IOR float32 `json:"ior"`
}

// Specular is KHR_materials_specular (factors only).
type Specular struct {
	Factor      float32    `json:"specularFactor"`
	ColorFactor [3]float32 `json:"specularColorFactor"`
}

// Volume is KHR_materials_volume. attenuationDistance is left untouched in
// the stored block since its default (+Inf) has no JSON encoding.
type Volume struct {
	ThicknessFactor  float32    `json:"thicknessFactor"`
	AttenuationColor [3]float32 `json:"attenuationColor"`
}

// Anisotropy is KHR_materials_anisotropy (factors only).
type Anisotropy struct {
	Strength float32 `json:"anisotropyStrength"`
	Rotation float32 `json:"anisotropyRotation"`
}

// Iridescence is KHR_materials_iridescence (factors only).
type Iridescence struct {
	Factor           float32 `json:"iridescenceFactor"`
	IOR              float32 `json:"iridescenceIor"`
	ThicknessMinimum float32 `json:"iridescenceThicknessMinimum"`
	ThicknessMaximum float32 `json:"iridescenceThicknessMaximum"`
}

// Dispersion is KHR_materials_dispersion.
type Dispersion struct {
	Dispersion float32 `json:"dispersion"`
}

// getExtension decodes a block over its defaults. A block that fails to
// decode yields the defaults.
func getExtension[T any](exts map[string]json.RawMessage, name string, def T) T {
	raw, ok := exts[name]
	if !ok {
		return def
	}
	v := def
	if err := json.Unmarshal(raw, &v); err != nil {
		return def
	}
	return v
}

// setExtension writes v's fields into the named block, keeping any other
// keys (texture references, unknown properties) already stored there.
func setExtension(exts *map[string]json.RawMessage, name string, v any) {
	merged := make(map[string]json.RawMessage)
	if raw, ok := (*exts)[name]; ok {
		if err := json.Unmarshal(raw, &merged); err != nil {
			merged = make(map[string]json.RawMessage)
		}
	}

	encoded, err := json.Marshal(v)
	if err != nil {
		return
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &fields); err != nil {
		return
	}
	for k, f := range fields {
		merged[k] = f
	}

	out, err := json.Marshal(merged)
	if err != nil {
		return
	}
	if *exts == nil {
		*exts = make(map[string]json.RawMessage)
	}
	(*exts)[name] = out
}

// HasExtension reports whether the node carries the named extension.
func (n *Node) HasExtension(name string) bool {
	_, ok := n.Extensions[name]
	return ok
}

// Visibility returns KHR_node_visibility, visible by default.
func (n *Node) Visibility() Visibility {
	return getExtension(n.Extensions, ExtNodeVisibility, Visibility{Visible: true})
}

// SetVisibility stores KHR_node_visibility, adding the block if needed.
func (n *Node) SetVisibility(v Visibility) {
	setExtension(&n.Extensions, ExtNodeVisibility, v)
}

// HasExtension reports whether the material carries the named extension.
func (m *Material) HasExtension(name string) bool {
	_, ok := m.Extensions[name]
	return ok
}

// EmissiveStrength returns KHR_materials_emissive_strength, or its defaults when absent.
func (m *Material) EmissiveStrength() EmissiveStrength {
	return getExtension(m.Extensions, ExtEmissiveStrength, EmissiveStrength{EmissiveStrength: 1})
}

// SetEmissiveStrength stores KHR_materials_emissive_strength, keeping unknown keys of an existing block.
func (m *Material) SetEmissiveStrength(v EmissiveStrength) {
	setExtension(&m.Extensions, ExtEmissiveStrength, v)
}

// Clearcoat returns KHR_materials_clearcoat, or its defaults when absent.
func (m *Material) Clearcoat() Clearcoat {
	return getExtension(m.Extensions, ExtClearcoat, Clearcoat{})
}

// SetClearcoat stores KHR_materials_clearcoat, keeping unknown keys of an existing block.
func (m *Material) SetClearcoat(v Clearcoat) {
	setExtension(&m.Extensions, ExtClearcoat, v)
}

// Sheen returns KHR_materials_sheen, or its defaults when absent.
func (m *Material) Sheen() Sheen {
	return getExtension(m.Extensions, ExtSheen, Sheen{})
}

// SetSheen stores KHR_materials_sheen, keeping unknown keys of an existing block.
func (m *Material) SetSheen(v Sheen) {
	setExtension(&m.Extensions, ExtSheen, v)
}

// Transmission returns KHR_materials_transmission, or its defaults when absent.
func (m *Material) Transmission() Transmission {
	return getExtension(m.Extensions, ExtTransmission, Transmission{})
}

// SetTransmission stores KHR_materials_transmission, keeping unknown keys of an existing block.
func (m *Material) SetTransmission(v Transmission) {
	setExtension(&m.Extensions, ExtTransmission, v)
}

// IOR returns KHR_materials_ior, or its defaults when absent.
func (m *Material) IOR() IOR {
	return getExtension(m.Extensions, ExtIOR, IOR{IOR: 1.5})
}

// SetIOR stores KHR_materials_ior, keeping unknown keys of an existing block.
func (m *Material) SetIOR(v IOR) {
	setExtension(&m.Extensions, ExtIOR, v)
}

// Specular returns KHR_materials_specular, or its defaults when absent.
func (m *Material) Specular() Specular {
	return getExtension(m.Extensions, ExtSpecular, Specular{Factor: 1, ColorFactor: [3]float32{1, 1, 1}})
}

// SetSpecular stores KHR_materials_specular, keeping unknown keys of an existing block.
func (m *Material) SetSpecular(v Specular) {
	setExtension(&m.Extensions, ExtSpecular, v)
}

// Volume returns KHR_materials_volume, or its defaults when absent.
func (m *Material) Volume() Volume {
	return getExtension(m.Extensions, ExtVolume, Volume{AttenuationColor: [3]float32{1, 1, 1}})
}

// SetVolume stores KHR_materials_volume, keeping unknown keys of an existing block.
func (m *Material) SetVolume(v Volume) {
	setExtension(&m.Extensions, ExtVolume, v)
}

// Anisotropy returns KHR_materials_anisotropy, or its defaults when absent.
func (m *Material) Anisotropy() Anisotropy {
	return getExtension(m.Extensions, ExtAnisotropy, Anisotropy{})
}

// SetAnisotropy stores KHR_materials_anisotropy, keeping unknown keys of an existing block.
func (m *Material) SetAnisotropy(v Anisotropy) {
	setExtension(&m.Extensions, ExtAnisotropy, v)
}

// Iridescence returns KHR_materials_iridescence, or its defaults when absent.
func (m *Material) Iridescence() Iridescence {
	return getExtension(m.Extensions, ExtIridescence, Iridescence{IOR: 1.3, ThicknessMinimum: 100, ThicknessMaximum: 400})
}

// SetIridescence stores KHR_materials_iridescence, keeping unknown keys of an existing block.
func (m *Material) SetIridescence(v Iridescence) {
	setExtension(&m.Extensions, ExtIridescence, v)
}

// Dispersion returns KHR_materials_dispersion, or its defaults when absent.
func (m *Material) Dispersion() Dispersion {
	return getExtension(m.Extensions, ExtDispersion, Dispersion{})
}

// SetDispersion stores KHR_materials_dispersion, keeping unknown keys of an existing block.
func (m *Material) SetDispersion(v Dispersion) {
	setExtension(&m.Extensions, ExtDispersion, v)
}
