// Package inspector implements the scene graph panel: a table view of every
// scene with node selection, reveal-on-select of collapsed ancestors and the
// detail editors that write edits back to the document and raise dirty
// flags for the renderer.
package inspector

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/gltf-inspector/pkg/gltf"
)

// Errors reported when the node graph is not a tree.
var (
	ErrCycle           = gltf.ErrCycle
	ErrIndexOutOfRange = gltf.ErrIndexOutOfRange
)

// Panel heights, in pixels.
const (
	sceneGraphHeight = 300
	detailsHeight    = 200
)

// Option configures an Inspector.
type Option func(*Inspector)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(in *Inspector) {
		if log != nil {
			in.log = log
		}
	}
}

// WithRevealAllScenes controls where SelectNode looks for the ancestors of
// the selected node. When false only the roots of the first scene are
// searched, so nodes of later scenes are not revealed.
func WithRevealAllScenes(all bool) Option {
	return func(in *Inspector) {
		in.revealAll = all
	}
}

// Inspector holds the selection state of the scene graph panel. It is not
// safe for concurrent use; all calls happen on the UI thread.
type Inspector struct {
	doc   *gltf.Document
	dirty *DirtySet
	log   *zap.Logger

	revealAll bool

	selection     Selection
	open          map[int]struct{}
	scrollPending bool

	// sceneRadius scales the translation drag speed.
	sceneRadius float32
}

// New creates an inspector editing doc. Edits raise flags in dirty, which
// the caller owns and consumes.
func New(doc *gltf.Document, dirty *DirtySet, opts ...Option) *Inspector {
	in := &Inspector{
		dirty:     dirty,
		log:       zap.NewNop(),
		revealAll: true,
		open:      make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(in)
	}
	if in.dirty == nil {
		in.dirty = &DirtySet{}
	}
	in.SetDocument(doc)
	return in
}

// SetDocument replaces the edited document and resets the selection.
func (in *Inspector) SetDocument(doc *gltf.Document) {
	in.doc = doc
	in.selection = NoSelection()
	clear(in.open)
	in.scrollPending = false
	in.sceneRadius = 0
	if doc == nil {
		return
	}
	radius, err := doc.Radius()
	if err != nil {
		in.log.Warn("scene bounds unavailable", zap.Error(err))
		return
	}
	in.sceneRadius = radius
}

// Document returns the edited document.
func (in *Inspector) Document() *gltf.Document { return in.doc }

// Dirty returns the flag set edits are recorded in.
func (in *Inspector) Dirty() *DirtySet { return in.dirty }

// SetSceneRadius overrides the bounding-sphere radius used to scale the
// translation drag speed.
func (in *Inspector) SetSceneRadius(r float32) { in.sceneRadius = r }

// Selection returns the current selection.
func (in *Inspector) Selection() Selection { return in.selection }

// Select replaces the selection without revealing anything in the tree.
// Use SelectNode to select and reveal a node.
func (in *Inspector) Select(sel Selection) error {
	if err := in.checkSelection(sel); err != nil {
		return err
	}
	in.selection = sel
	clear(in.open)
	return nil
}

// ClearSelection selects nothing.
func (in *Inspector) ClearSelection() {
	in.selection = NoSelection()
	clear(in.open)
}

// SelectNode selects node i, expands every ancestor on the path from its
// scene root and scrolls the row into view on the next frame. A negative
// index clears the selection. An index past the node array is rejected and
// the selection is left unchanged.
func (in *Inspector) SelectNode(i int) error {
	if i >= 0 {
		if err := in.checkSelection(SelectNode(i)); err != nil {
			return err
		}
	}

	clear(in.open)
	in.scrollPending = true
	if i < 0 {
		in.selection = NoSelection()
		return nil
	}
	in.selection = SelectNode(i)

	path, err := in.ancestors(i)
	if err != nil {
		return fmt.Errorf("reveal node %d: %w", i, err)
	}
	for _, n := range path {
		in.open[n] = struct{}{}
	}
	in.log.Debug("node selected", zap.Int("node", i), zap.Ints("open", path))
	return nil
}

// OpenNodes returns the nodes forced open, in ascending order.
func (in *Inspector) OpenNodes() []int {
	nodes := make([]int, 0, len(in.open))
	for n := range in.open {
		nodes = append(nodes, n)
	}
	sort.Ints(nodes)
	return nodes
}

// IsOpen reports whether node i is forced open.
func (in *Inspector) IsOpen(i int) bool {
	_, ok := in.open[i]
	return ok
}

// ScrollPending reports whether the selected row still has to be scrolled
// into view.
func (in *Inspector) ScrollPending() bool { return in.scrollPending }

func (in *Inspector) checkSelection(sel Selection) error {
	if in.doc == nil {
		if sel.IsNone() {
			return nil
		}
		return fmt.Errorf("select %s: no document: %w", sel, ErrIndexOutOfRange)
	}
	var n int
	switch sel.Kind() {
	case KindNone:
		return nil
	case KindNode:
		n = len(in.doc.Nodes)
	case KindMaterial:
		n = len(in.doc.Materials)
	case KindLight:
		n = len(in.doc.Lights)
	case KindCamera:
		n = len(in.doc.Cameras)
	}
	if sel.index < 0 || sel.index >= n {
		return fmt.Errorf("select %s of %d: %w", sel, n, ErrIndexOutOfRange)
	}
	return nil
}

// ancestors returns the nodes on the path from a scene root to target,
// excluding target. The search stops at the first root whose subtree holds
// target; an empty path means target is a root or unreachable.
func (in *Inspector) ancestors(target int) ([]int, error) {
	scenes := in.doc.Scenes
	if !in.revealAll && len(scenes) > 1 {
		scenes = scenes[:1]
	}
	for _, scene := range scenes {
		for _, root := range scene.Nodes {
			path, found, err := in.findPath(root, target)
			if err != nil {
				return nil, err
			}
			if found {
				return path, nil
			}
		}
	}
	return nil, nil
}

// findPath searches the subtree of root depth-first for target and returns
// the nodes above it.
func (in *Inspector) findPath(root, target int) ([]int, bool, error) {
	type frame struct {
		node  int
		child int // next child to visit
	}

	nodes := in.doc.Nodes
	if root < 0 || root >= len(nodes) {
		return nil, false, fmt.Errorf("root node %d: %w", root, ErrIndexOutOfRange)
	}
	if root == target {
		return nil, true, nil
	}

	onPath := map[int]bool{root: true}
	done := make(map[int]bool)
	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		children := nodes[top.node].Children
		if top.child == len(children) {
			delete(onPath, top.node)
			done[top.node] = true
			stack = stack[:len(stack)-1]
			continue
		}
		child := children[top.child]
		top.child++

		if child < 0 || child >= len(nodes) {
			return nil, false, fmt.Errorf("child %d of node %d: %w", child, top.node, ErrIndexOutOfRange)
		}
		if onPath[child] {
			return nil, false, fmt.Errorf("node %d below itself: %w", child, ErrCycle)
		}
		if child == target {
			path := make([]int, len(stack))
			for i, f := range stack {
				path[i] = f.node
			}
			return path, true, nil
		}
		if done[child] {
			continue
		}
		onPath[child] = true
		stack = append(stack, frame{node: child})
	}
	return nil, false, nil
}

// Render draws the scene graph table followed by the details of the
// selected entity. A malformed node graph stops the table early and is
// returned; the details panel is drawn regardless.
func (in *Inspector) Render(w Widgets) error {
	treeErr := in.RenderSceneGraph(w)
	w.Separator()
	in.RenderDetails(w)
	return treeErr
}

// IsStructural reports whether err comes from a malformed node graph.
func IsStructural(err error) bool {
	return errors.Is(err, ErrCycle) || errors.Is(err, ErrIndexOutOfRange)
}
