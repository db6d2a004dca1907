package inspector

import (
	"fmt"

	"github.com/Faultbox/gltf-inspector/pkg/gltf"
)

// Type column width, in characters.
const typeColumnWidth = 8

// hiddenMarker is drawn in the last column of nodes whose visibility
// extension turns them off.
const hiddenMarker = "x"

// RenderSceneGraph draws every scene, its root nodes and everything reachable
// from them as a three-column table (name, type, visibility) in document
// order.
func (in *Inspector) RenderSceneGraph(w Widgets) error {
	var err error
	if w.BeginChild("SceneGraph", sceneGraphHeight) && in.doc != nil {
		if w.BeginTable("SceneGraphTable", 3) {
			w.TableSetupColumn("Name", 0)
			w.TableSetupColumn("Type", typeColumnWidth)
			w.TableSetupColumn("-", 1)
			w.TableHeadersRow()

			for i := range in.doc.Scenes {
				if err = in.renderScene(w, i); err != nil {
					break
				}
			}
			w.EndTable()
		}
	}
	w.EndChild()
	return err
}

func (in *Inspector) renderScene(w Widgets, sceneIndex int) error {
	scene := &in.doc.Scenes[sceneIndex]

	w.SetNextItemOpen(true)
	w.PushID(sceneIndex)
	defer w.PopID()

	w.TableNextRow()
	w.TableNextColumn()
	if !w.TreeNode(scene.Name+"##scene", 0) {
		return nil
	}
	w.TableNextColumn()
	w.Text(fmt.Sprintf("Scene %d", sceneIndex))

	err := in.renderNodes(w, scene.Nodes)
	w.TreePop()
	return err
}

// treeItem is one entry of the traversal worklist: either a node row to
// draw, or the marker closing an open node row.
type treeItem struct {
	node int
	pop  bool
}

// renderNodes draws the subtrees of roots with an explicit worklist. Nodes
// whose rows are open stay on the current path until their pop marker is
// reached; meeting one of them again is a cycle. On error the worklist is
// unwound so every opened row is closed.
func (in *Inspector) renderNodes(w Widgets, roots []int) error {
	stack := make([]treeItem, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, treeItem{node: roots[i]})
	}
	onPath := make(map[int]bool)

	for len(stack) > 0 {
		item := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if item.pop {
			delete(onPath, item.node)
			w.TreePop()
			continue
		}

		opened, err := in.renderNodeRow(w, item.node, onPath)
		if err != nil {
			for _, rest := range stack {
				if rest.pop {
					w.TreePop()
				}
			}
			return err
		}
		if !opened {
			continue
		}

		onPath[item.node] = true
		stack = append(stack, treeItem{node: item.node, pop: true})
		children := in.doc.Nodes[item.node].Children
		for i := len(children) - 1; i >= 0; i-- {
			stack = append(stack, treeItem{node: children[i]})
		}
	}
	return nil
}

// renderNodeRow draws the row of node i and, when the row is open, the rows
// of its mesh, light and camera. It reports whether the row is open; the
// caller then owns the matching TreePop.
func (in *Inspector) renderNodeRow(w Widgets, i int, onPath map[int]bool) (bool, error) {
	if i < 0 || i >= len(in.doc.Nodes) {
		return false, fmt.Errorf("node %d: %w", i, ErrIndexOutOfRange)
	}
	if onPath[i] {
		return false, fmt.Errorf("node %d below itself: %w", i, ErrCycle)
	}
	node := &in.doc.Nodes[i]
	if err := in.checkNodeRefs(i, node); err != nil {
		return false, err
	}

	w.TableNextRow()
	w.TableNextColumn()

	if in.IsOpen(i) {
		w.SetNextItemOpen(true)
	}
	var flags TreeFlags
	if in.selection.Is(KindNode, i) {
		flags |= TreeSelected
		if in.scrollPending {
			w.ScrollToItem()
			in.scrollPending = false
		}
	}

	opened := w.TreeNode(fmt.Sprintf("%s##node%d", node.Name, i), flags)
	if w.IsItemClicked() && !w.IsItemToggledOpen() {
		in.toggleNode(i)
	}

	w.TableNextColumn()
	w.Text(fmt.Sprintf("Node %d", i))
	w.TableNextColumn()
	if node.HasExtension(gltf.ExtNodeVisibility) && !node.Visibility().Visible {
		w.Text(hiddenMarker)
	}

	if !opened {
		return false, nil
	}
	if node.Mesh >= 0 {
		in.renderMesh(w, node.Mesh)
	}
	if node.Light >= 0 {
		in.renderLight(w, node.Light)
	}
	if node.Camera >= 0 {
		in.renderCamera(w, node.Camera)
	}
	return true, nil
}

func (in *Inspector) checkNodeRefs(i int, node *gltf.Node) error {
	switch {
	case node.Mesh >= len(in.doc.Meshes):
		return fmt.Errorf("node %d mesh %d: %w", i, node.Mesh, ErrIndexOutOfRange)
	case node.Light >= len(in.doc.Lights):
		return fmt.Errorf("node %d light %d: %w", i, node.Light, ErrIndexOutOfRange)
	case node.Camera >= len(in.doc.Cameras):
		return fmt.Errorf("node %d camera %d: %w", i, node.Camera, ErrIndexOutOfRange)
	}
	return nil
}

// toggleNode handles a click on a node row: clicking the selected node
// deselects it, any other node becomes the selection.
func (in *Inspector) toggleNode(i int) {
	if in.selection.Is(KindNode, i) {
		in.clickSelect(NoSelection())
	} else {
		in.clickSelect(SelectNode(i))
	}
}

// clickSelect applies a selection made by clicking a row. The row is
// already on screen, so nothing stays forced open.
func (in *Inspector) clickSelect(sel Selection) {
	in.selection = sel
	clear(in.open)
}

func (in *Inspector) renderMesh(w Widgets, meshIndex int) {
	mesh := &in.doc.Meshes[meshIndex]

	w.TableNextRow()
	w.TableNextColumn()
	opened := w.TreeNode(fmt.Sprintf("%s##mesh%d", mesh.Name, meshIndex), 0)
	w.TableNextColumn()
	w.Text(fmt.Sprintf("Mesh %d", meshIndex))
	w.TableNextColumn()
	if !opened {
		return
	}

	for p := range mesh.Primitives {
		in.renderPrimitive(w, &mesh.Primitives[p], p)
	}
	w.TreePop()
}

// renderPrimitive draws a primitive row. Clicking it selects the
// primitive's material.
func (in *Inspector) renderPrimitive(w Widgets, prim *gltf.Primitive, primIndex int) {
	w.TableNextRow()
	w.TableNextColumn()
	label := fmt.Sprintf("Prim %d", primIndex)
	if material, ok := ResolvePrimitiveMaterial(prim.Material, len(in.doc.Materials)); ok {
		if w.Selectable(label, in.selection.Is(KindMaterial, material)) {
			in.clickSelect(SelectMaterial(material))
		}
	} else {
		w.Text(label)
	}
	w.TableNextColumn()
	w.Text("Primitive")
	w.TableNextColumn()
}

func (in *Inspector) renderLight(w Widgets, lightIndex int) {
	light := &in.doc.Lights[lightIndex]

	w.TableNextRow()
	w.TableNextColumn()
	label := fmt.Sprintf("%s##light%d", light.Name, lightIndex)
	if w.Selectable(label, in.selection.Is(KindLight, lightIndex)) {
		in.clickSelect(SelectLight(lightIndex))
	}
	w.TableNextColumn()
	w.Text(fmt.Sprintf("Light %d", lightIndex))
	w.TableNextColumn()
}

func (in *Inspector) renderCamera(w Widgets, cameraIndex int) {
	camera := &in.doc.Cameras[cameraIndex]

	w.TableNextRow()
	w.TableNextColumn()
	label := fmt.Sprintf("%s##camera%d", camera.Name, cameraIndex)
	if w.Selectable(label, in.selection.Is(KindCamera, cameraIndex)) {
		in.clickSelect(SelectCamera(cameraIndex))
	}
	w.TableNextColumn()
	w.Text(fmt.Sprintf("Camera %d", cameraIndex))
	w.TableNextColumn()
}

// ResolvePrimitiveMaterial clamps a primitive's material index into
// [0, count-1]. ok is false when there are no materials to select.
func ResolvePrimitiveMaterial(material, count int) (int, bool) {
	if count <= 0 {
		return 0, false
	}
	return min(max(material, 0), count-1), true
}
