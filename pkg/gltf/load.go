package gltf

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/gltf-inspector/pkg/math"
)

// GLB container constants.
const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
	glbHeaderLen = 12
)

type rawDocument struct {
	Asset *struct {
		Version string `json:"version"`
	} `json:"asset"`
	Scene      *int                       `json:"scene"`
	Scenes     []rawScene                 `json:"scenes"`
	Nodes      []rawNode                  `json:"nodes"`
	Meshes     []rawMesh                  `json:"meshes"`
	Materials  []rawMaterial              `json:"materials"`
	Cameras    []rawCamera                `json:"cameras"`
	Accessors  []rawAccessor              `json:"accessors"`
	Extensions map[string]json.RawMessage `json:"extensions"`
}

type rawScene struct {
	Name  string `json:"name"`
	Nodes []int  `json:"nodes"`
}

type rawNode struct {
	Name        string                     `json:"name"`
	Matrix      []float32                  `json:"matrix"`
	Translation []float32                  `json:"translation"`
	Rotation    []float32                  `json:"rotation"`
	Scale       []float32                  `json:"scale"`
	Mesh        *int                       `json:"mesh"`
	Camera      *int                       `json:"camera"`
	Children    []int                      `json:"children"`
	Extensions  map[string]json.RawMessage `json:"extensions"`
}

type rawMesh struct {
	Name       string `json:"name"`
	Primitives []struct {
		Attributes map[string]int `json:"attributes"`
		Material   *int           `json:"material"`
	} `json:"primitives"`
}

type rawMaterial struct {
	Name string `json:"name"`
	PBR  *struct {
		BaseColorFactor []float32 `json:"baseColorFactor"`
		MetallicFactor  *float32  `json:"metallicFactor"`
		RoughnessFactor *float32  `json:"roughnessFactor"`
	} `json:"pbrMetallicRoughness"`
	EmissiveFactor []float32                  `json:"emissiveFactor"`
	AlphaMode      string                     `json:"alphaMode"`
	AlphaCutoff    *float32                   `json:"alphaCutoff"`
	DoubleSided    bool                       `json:"doubleSided"`
	Extensions     map[string]json.RawMessage `json:"extensions"`
}

type rawCamera struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Perspective *struct {
		YFov        float32 `json:"yfov"`
		AspectRatio float32 `json:"aspectRatio"`
		ZNear       float32 `json:"znear"`
		ZFar        float32 `json:"zfar"`
	} `json:"perspective"`
	Orthographic *struct {
		XMag  float32 `json:"xmag"`
		YMag  float32 `json:"ymag"`
		ZNear float32 `json:"znear"`
		ZFar  float32 `json:"zfar"`
	} `json:"orthographic"`
}

type rawAccessor struct {
	Type  string    `json:"type"`
	Count int       `json:"count"`
	Min   []float32 `json:"min"`
	Max   []float32 `json:"max"`
}

type rawLights struct {
	Lights []struct {
		Name      string    `json:"name"`
		Type      string    `json:"type"`
		Color     []float32 `json:"color"`
		Intensity *float32  `json:"intensity"`
		Range     float32   `json:"range"`
		Extras    any       `json:"extras"`
		Spot      *rawSpot  `json:"spot"`
	} `json:"lights"`
}

type rawSpot struct {
	InnerConeAngle *float32 `json:"innerConeAngle"`
	OuterConeAngle *float32 `json:"outerConeAngle"`
}

type rawNodeLight struct {
	Light *int `json:"light"`
}

// Load reads a .gltf or .glb file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a glTF JSON document or a GLB container. Missing or
// malformed optional fields are replaced by their defaults and reported in
// Document.Warnings; dangling entity references are errors.
func Parse(data []byte) (*Document, error) {
	if len(data) >= 4 && binary.LittleEndian.Uint32(data) == glbMagic {
		jsonChunk, err := glbJSONChunk(data)
		if err != nil {
			return nil, err
		}
		data = jsonChunk
	}

	var raw rawDocument
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if raw.Asset != nil && raw.Asset.Version != "" && !strings.HasPrefix(raw.Asset.Version, "2.") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAsset, raw.Asset.Version)
	}
	if len(raw.Scenes) == 0 {
		return nil, ErrNoScenes
	}

	doc := &Document{Scene: -1}
	if raw.Scene != nil {
		doc.Scene = *raw.Scene
	}

	for _, rs := range raw.Scenes {
		doc.Scenes = append(doc.Scenes, Scene{Name: rs.Name, Nodes: rs.Nodes})
	}
	for i := range raw.Meshes {
		doc.Meshes = append(doc.Meshes, convertMesh(&raw.Meshes[i]))
	}
	for i := range raw.Materials {
		doc.Materials = append(doc.Materials, convertMaterial(&raw.Materials[i]))
	}
	for i := range raw.Cameras {
		doc.Cameras = append(doc.Cameras, convertCamera(&raw.Cameras[i]))
	}
	for _, ra := range raw.Accessors {
		doc.Accessors = append(doc.Accessors, Accessor(ra))
	}
	if err := doc.parseLights(raw.Extensions); err != nil {
		return nil, err
	}
	for i := range raw.Nodes {
		node, err := doc.convertNode(i, &raw.Nodes[i])
		if err != nil {
			return nil, err
		}
		doc.Nodes = append(doc.Nodes, node)
	}

	if err := doc.validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// glbJSONChunk extracts the JSON chunk from a binary glTF container.
func glbJSONChunk(data []byte) ([]byte, error) {
	if len(data) < glbHeaderLen+8 {
		return nil, fmt.Errorf("%w: truncated header", ErrInvalidGLB)
	}

	r := bytes.NewReader(data)
	var header struct {
		Magic   uint32
		Version uint32
		Length  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGLB, err)
	}
	if header.Version != 2 {
		return nil, fmt.Errorf("%w: container version %d", ErrInvalidGLB, header.Version)
	}

	var chunk struct {
		Length uint32
		Type   uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidGLB, err)
	}
	if chunk.Type != glbChunkJSON {
		return nil, fmt.Errorf("%w: first chunk is not JSON", ErrInvalidGLB)
	}
	start := glbHeaderLen + 8
	end := start + int(chunk.Length)
	if end > len(data) {
		return nil, fmt.Errorf("%w: JSON chunk exceeds file", ErrInvalidGLB)
	}
	return data[start:end], nil
}

func (d *Document) warnf(format string, args ...any) {
	d.Warnings = append(d.Warnings, fmt.Sprintf(format, args...))
}

func (d *Document) convertNode(index int, rn *rawNode) (Node, error) {
	node := Node{
		Name:     rn.Name,
		Mesh:     -1,
		Light:    -1,
		Camera:   -1,
		Children: rn.Children,
	}
	if rn.Mesh != nil {
		node.Mesh = *rn.Mesh
	}
	if rn.Camera != nil {
		node.Camera = *rn.Camera
	}

	for name, ext := range rn.Extensions {
		if name == ExtLightsPunctual {
			var nl rawNodeLight
			if err := json.Unmarshal(ext, &nl); err != nil {
				return Node{}, fmt.Errorf("node %d: %s: %w", index, ExtLightsPunctual, err)
			}
			if nl.Light != nil {
				node.Light = *nl.Light
			}
			continue
		}
		if node.Extensions == nil {
			node.Extensions = make(map[string]json.RawMessage)
		}
		node.Extensions[name] = ext
	}

	node.Transform = d.convertTransform(index, rn)
	return node, nil
}

// convertTransform picks the matrix form when a 16-element matrix is present
// and otherwise falls back to TRS, defaulting each malformed component.
func (d *Document) convertTransform(index int, rn *rawNode) Transform {
	if len(rn.Matrix) == 16 {
		var m math.Mat4
		copy(m[:], rn.Matrix)
		return MatrixTransform{Matrix: m}
	}
	if rn.Matrix != nil {
		d.warnf("node %d: matrix has %d elements, ignored", index, len(rn.Matrix))
	}
	if rn.Translation == nil && rn.Rotation == nil && rn.Scale == nil {
		return nil
	}

	trs := IdentityTRS()
	switch {
	case len(rn.Translation) == 3:
		trs.Translation = math.Vec3{X: rn.Translation[0], Y: rn.Translation[1], Z: rn.Translation[2]}
	case rn.Translation != nil:
		d.warnf("node %d: translation has %d elements, using default", index, len(rn.Translation))
	}
	switch {
	case len(rn.Rotation) == 4:
		trs.Rotation = math.Quat{X: rn.Rotation[0], Y: rn.Rotation[1], Z: rn.Rotation[2], W: rn.Rotation[3]}
	case rn.Rotation != nil:
		d.warnf("node %d: rotation has %d elements, using default", index, len(rn.Rotation))
	}
	switch {
	case len(rn.Scale) == 3:
		trs.Scale = math.Vec3{X: rn.Scale[0], Y: rn.Scale[1], Z: rn.Scale[2]}
	case rn.Scale != nil:
		d.warnf("node %d: scale has %d elements, using default", index, len(rn.Scale))
	}
	return trs
}

func convertMesh(rm *rawMesh) Mesh {
	mesh := Mesh{Name: rm.Name}
	for _, rp := range rm.Primitives {
		prim := Primitive{Material: -1, Position: -1}
		if rp.Material != nil {
			prim.Material = *rp.Material
		}
		if pos, ok := rp.Attributes["POSITION"]; ok {
			prim.Position = pos
		}
		mesh.Primitives = append(mesh.Primitives, prim)
	}
	return mesh
}

func convertMaterial(rm *rawMaterial) Material {
	mat := DefaultMaterial()
	mat.Name = rm.Name
	if rm.PBR != nil {
		if len(rm.PBR.BaseColorFactor) == 4 {
			copy(mat.BaseColorFactor[:], rm.PBR.BaseColorFactor)
		}
		if rm.PBR.MetallicFactor != nil {
			mat.MetallicFactor = *rm.PBR.MetallicFactor
		}
		if rm.PBR.RoughnessFactor != nil {
			mat.RoughnessFactor = *rm.PBR.RoughnessFactor
		}
	}
	if len(rm.EmissiveFactor) == 3 {
		copy(mat.EmissiveFactor[:], rm.EmissiveFactor)
	}
	mat.AlphaMode = ParseAlphaMode(rm.AlphaMode)
	if rm.AlphaCutoff != nil {
		mat.AlphaCutoff = *rm.AlphaCutoff
	}
	mat.DoubleSided = rm.DoubleSided
	mat.Extensions = rm.Extensions
	return mat
}

func convertCamera(rc *rawCamera) Camera {
	cam := Camera{Name: rc.Name}
	if rc.Type == "orthographic" && rc.Orthographic != nil {
		cam.Type = CameraOrthographic
		cam.XMag = rc.Orthographic.XMag
		cam.YMag = rc.Orthographic.YMag
		cam.ZNear = rc.Orthographic.ZNear
		cam.ZFar = rc.Orthographic.ZFar
		return cam
	}
	if rc.Perspective != nil {
		cam.YFov = rc.Perspective.YFov
		cam.AspectRatio = rc.Perspective.AspectRatio
		cam.ZNear = rc.Perspective.ZNear
		cam.ZFar = rc.Perspective.ZFar
	}
	return cam
}

func (d *Document) parseLights(exts map[string]json.RawMessage) error {
	raw, ok := exts[ExtLightsPunctual]
	if !ok {
		return nil
	}
	var rl rawLights
	if err := json.Unmarshal(raw, &rl); err != nil {
		return fmt.Errorf("%s: %w", ExtLightsPunctual, err)
	}
	for i, l := range rl.Lights {
		light := DefaultLight()
		light.Name = l.Name
		light.Type = ParseLightType(l.Type)
		if len(l.Color) == 3 {
			copy(light.Color[:], l.Color)
		} else if l.Color != nil {
			d.warnf("light %d: color has %d elements, using default", i, len(l.Color))
		}
		if l.Intensity != nil {
			light.Intensity = *l.Intensity
		}
		light.Range = l.Range
		if l.Spot != nil {
			if l.Spot.InnerConeAngle != nil {
				light.InnerConeAngle = *l.Spot.InnerConeAngle
			}
			if l.Spot.OuterConeAngle != nil {
				light.OuterConeAngle = *l.Spot.OuterConeAngle
			}
		}
		light.Extras = l.Extras
		d.Lights = append(d.Lights, light)
	}
	return nil
}

// validate checks every entity reference except primitive materials, which
// the inspector clamps.
func (d *Document) validate() error {
	check := func(what string, owner, index, length int) error {
		if index < 0 || index >= length {
			return fmt.Errorf("%s of %d refers to %d: %w", what, owner, index, ErrIndexOutOfRange)
		}
		return nil
	}

	if d.Scene >= len(d.Scenes) {
		return fmt.Errorf("default scene %d: %w", d.Scene, ErrIndexOutOfRange)
	}
	for si, s := range d.Scenes {
		for _, n := range s.Nodes {
			if err := check("root node of scene", si, n, len(d.Nodes)); err != nil {
				return err
			}
		}
	}
	for ni, n := range d.Nodes {
		for _, c := range n.Children {
			if err := check("child of node", ni, c, len(d.Nodes)); err != nil {
				return err
			}
		}
		if n.Mesh >= 0 {
			if err := check("mesh of node", ni, n.Mesh, len(d.Meshes)); err != nil {
				return err
			}
		}
		if n.Light >= 0 {
			if err := check("light of node", ni, n.Light, len(d.Lights)); err != nil {
				return err
			}
		}
		if n.Camera >= 0 {
			if err := check("camera of node", ni, n.Camera, len(d.Cameras)); err != nil {
				return err
			}
		}
	}
	for mi, m := range d.Meshes {
		for _, p := range m.Primitives {
			if p.Position >= 0 {
				if err := check("POSITION accessor of mesh", mi, p.Position, len(d.Accessors)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
