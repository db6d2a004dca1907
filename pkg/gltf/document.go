// Package gltf holds the in-memory glTF scene document edited by the
// inspector, together with its JSON/GLB loader and extension accessors.
package gltf

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Faultbox/gltf-inspector/pkg/math"
)

// Document errors.
var (
	ErrNoScenes         = errors.New("document has no scenes")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrCycle            = errors.New("node graph contains a cycle")
	ErrInvalidGLB       = errors.New("invalid GLB container")
	ErrUnsupportedAsset = errors.New("unsupported glTF asset version")
)

// Document is a loaded glTF scene. Entities are addressed by their index in
// the flat arrays; the inspector mutates fields in place and never adds or
// removes entities.
type Document struct {
	Scene     int // default scene, -1 if unspecified
	Scenes    []Scene
	Nodes     []Node
	Meshes    []Mesh
	Materials []Material
	Lights    []Light
	Cameras   []Camera
	Accessors []Accessor

	// Warnings collects data problems that were repaired while loading.
	Warnings []string
}

// Scene is a named list of root node indices.
type Scene struct {
	Name  string
	Nodes []int
}

// Node is one element of the scene graph.
type Node struct {
	Name      string
	Transform Transform // nil means identity
	Mesh      int       // -1 if absent
	Light     int       // -1 if absent
	Camera    int       // -1 if absent
	Children  []int

	// Extensions keeps the raw JSON of every node extension except
	// KHR_lights_punctual, which is resolved into Light.
	Extensions map[string]json.RawMessage
}

// LocalMatrix returns the node's local transform as a matrix.
func (n *Node) LocalMatrix() math.Mat4 {
	if n.Transform == nil {
		return math.Identity()
	}
	return n.Transform.LocalMatrix()
}

// Transform is the local transform of a node: either a combined matrix or
// decomposed translation/rotation/scale. The two forms are mutually exclusive.
type Transform interface {
	LocalMatrix() math.Mat4
	isTransform()
}

// MatrixTransform stores the transform as a single column-major matrix.
type MatrixTransform struct {
	Matrix math.Mat4
}

// LocalMatrix implements Transform.
func (t MatrixTransform) LocalMatrix() math.Mat4 { return t.Matrix }

func (MatrixTransform) isTransform() {}

// TRSTransform stores the transform decomposed.
type TRSTransform struct {
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
}

// IdentityTRS returns zero translation, identity rotation and unit scale.
func IdentityTRS() TRSTransform {
	return TRSTransform{
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// LocalMatrix implements Transform.
func (t TRSTransform) LocalMatrix() math.Mat4 {
	return math.Compose(t.Translation, t.Rotation, t.Scale)
}

func (TRSTransform) isTransform() {}

// Mesh is a named list of primitives.
type Mesh struct {
	Name       string
	Primitives []Primitive
}

// Primitive is one drawable part of a mesh.
type Primitive struct {
	Material int // may be -1 or out of range; consumers clamp
	Position int // POSITION accessor, -1 if absent
}

// AlphaMode is the material alpha blending mode.
type AlphaMode int

// Alpha modes, in the order the inspector's combo box lists them.
const (
	AlphaOpaque AlphaMode = iota
	AlphaMask
	AlphaBlend
)

// AlphaModeNames holds the glTF spelling of each AlphaMode.
var AlphaModeNames = []string{"OPAQUE", "MASK", "BLEND"}

// String returns the glTF name of the mode.
func (a AlphaMode) String() string {
	if a < 0 || int(a) >= len(AlphaModeNames) {
		return fmt.Sprintf("AlphaMode(%d)", int(a))
	}
	return AlphaModeNames[a]
}

// ParseAlphaMode maps a glTF alpha mode name; anything unknown is BLEND,
// matching how renderers treat non-opaque, non-masked materials.
func ParseAlphaMode(s string) AlphaMode {
	switch s {
	case "", "OPAQUE":
		return AlphaOpaque
	case "MASK":
		return AlphaMask
	default:
		return AlphaBlend
	}
}

// Material is a metallic-roughness PBR material.
type Material struct {
	Name            string
	BaseColorFactor [4]float32
	MetallicFactor  float32
	RoughnessFactor float32
	EmissiveFactor  [3]float32
	AlphaMode       AlphaMode
	AlphaCutoff     float32
	DoubleSided     bool

	Extensions map[string]json.RawMessage
}

// DefaultMaterial returns a material with glTF default factors.
func DefaultMaterial() Material {
	return Material{
		BaseColorFactor: [4]float32{1, 1, 1, 1},
		MetallicFactor:  1,
		RoughnessFactor: 1,
		AlphaMode:       AlphaOpaque,
		AlphaCutoff:     0.5,
	}
}

// LightType is the KHR_lights_punctual light type.
type LightType int

// Light types, in the order the inspector's combo box lists them.
const (
	LightPoint LightType = iota
	LightSpot
	LightDirectional
)

// LightTypeNames holds the glTF spelling of each LightType.
var LightTypeNames = []string{"point", "spot", "directional"}

// String returns the glTF name of the light type.
func (l LightType) String() string {
	if l < 0 || int(l) >= len(LightTypeNames) {
		return fmt.Sprintf("LightType(%d)", int(l))
	}
	return LightTypeNames[l]
}

// ParseLightType maps a glTF light type name; unknown names are directional.
func ParseLightType(s string) LightType {
	switch s {
	case "point":
		return LightPoint
	case "spot":
		return LightSpot
	default:
		return LightDirectional
	}
}

// Light is a KHR_lights_punctual light. Color is stored in linear space.
type Light struct {
	Name           string
	Type           LightType
	Color          [3]float32
	Intensity      float32
	Range          float32 // 0 means infinite
	InnerConeAngle float32
	OuterConeAngle float32

	// Extras is the free-form "extras" value; the renderer reads a
	// "radius" number from it for soft shadows.
	Extras any
}

// DefaultLight returns a light with KHR_lights_punctual defaults.
func DefaultLight() Light {
	return Light{
		Type:           LightPoint,
		Color:          [3]float32{1, 1, 1},
		Intensity:      1,
		OuterConeAngle: defaultOuterConeAngle,
	}
}

// defaultOuterConeAngle is π/4.
const defaultOuterConeAngle = 0.7853981633974483

// Radius returns the "radius" extra, or 0 when missing.
func (l *Light) Radius() float32 {
	obj, ok := l.Extras.(map[string]any)
	if !ok {
		return 0
	}
	if r, ok := obj["radius"].(float64); ok {
		return float32(r)
	}
	return 0
}

// SetRadius stores the "radius" extra, replacing non-object extras.
func (l *Light) SetRadius(radius float32) {
	obj, ok := l.Extras.(map[string]any)
	if !ok {
		obj = make(map[string]any)
	}
	obj["radius"] = float64(radius)
	l.Extras = obj
}

// CameraType is the glTF camera projection.
type CameraType int

// Camera projections.
const (
	CameraPerspective CameraType = iota
	CameraOrthographic
)

// String returns the glTF name of the projection.
func (c CameraType) String() string {
	if c == CameraOrthographic {
		return "orthographic"
	}
	return "perspective"
}

// Camera is a glTF camera. Only the fields of Type are meaningful.
type Camera struct {
	Name        string
	Type        CameraType
	YFov        float32
	AspectRatio float32
	XMag        float32
	YMag        float32
	ZNear       float32
	ZFar        float32
}

// Accessor keeps the parts of a glTF accessor needed for bounds.
type Accessor struct {
	Type  string
	Count int
	Min   []float32
	Max   []float32
}
