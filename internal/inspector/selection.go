package inspector

import "fmt"

// Kind is the kind of entity a Selection refers to.
type Kind int

// Selection kinds.
const (
	KindNone Kind = iota
	KindNode
	KindMaterial
	KindLight
	KindCamera
)

var kindNames = [...]string{"none", "node", "material", "light", "camera"}

// String returns the lowercase kind name.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Selection identifies at most one entity of the document. The zero value
// selects nothing. The index can only be read together with its kind, so an
// index is never interpreted under the wrong kind.
type Selection struct {
	kind  Kind
	index int
}

// NoSelection returns the empty selection.
func NoSelection() Selection { return Selection{} }

// SelectNode returns a selection of node i.
func SelectNode(i int) Selection { return Selection{kind: KindNode, index: i} }

// SelectMaterial returns a selection of material i.
func SelectMaterial(i int) Selection { return Selection{kind: KindMaterial, index: i} }

// SelectLight returns a selection of light i.
func SelectLight(i int) Selection { return Selection{kind: KindLight, index: i} }

// SelectCamera returns a selection of camera i.
func SelectCamera(i int) Selection { return Selection{kind: KindCamera, index: i} }

// Kind returns the kind of the selected entity.
func (s Selection) Kind() Kind { return s.kind }

// IsNone reports whether nothing is selected.
func (s Selection) IsNone() bool { return s.kind == KindNone }

// Index returns the selected index if the selection has the given kind.
func (s Selection) Index(kind Kind) (int, bool) {
	if kind == KindNone || s.kind != kind {
		return 0, false
	}
	return s.index, true
}

// Is reports whether the selection is entity i of the given kind.
func (s Selection) Is(kind Kind, i int) bool {
	idx, ok := s.Index(kind)
	return ok && idx == i
}

func (s Selection) String() string {
	if s.kind == KindNone {
		return "none"
	}
	return fmt.Sprintf("%s %d", s.kind, s.index)
}
