package inspector

import "strings"

// Dirty names one aspect of the document that changed since the renderer
// last consumed the set.
type Dirty uint8

// Dirty flags raised by the detail editors.
const (
	DirtyNodeTransform Dirty = 1 << iota
	DirtyNodeVisibility
	DirtyMaterial
	DirtyLight
)

var dirtyNames = []struct {
	flag Dirty
	name string
}{
	{DirtyNodeTransform, "node-transform"},
	{DirtyNodeVisibility, "node-visibility"},
	{DirtyMaterial, "material"},
	{DirtyLight, "light"},
}

// Has reports whether every flag in f is present.
func (d Dirty) Has(f Dirty) bool { return d&f == f }

// Names lists the flags in d.
func (d Dirty) Names() []string {
	names := make([]string, 0, len(dirtyNames))
	for _, n := range dirtyNames {
		if d&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	return names
}

func (d Dirty) String() string {
	if d == 0 {
		return "clean"
	}
	return strings.Join(d.Names(), "|")
}

// DirtySet accumulates Dirty flags. It is owned by the consumer that uploads
// changes to the GPU; the inspector only ever calls Set, so flags pile up
// across frames until the owner calls Clear or Take.
type DirtySet struct {
	flags Dirty
}

// Set raises f.
func (s *DirtySet) Set(f Dirty) { s.flags |= f }

// Has reports whether f is raised.
func (s *DirtySet) Has(f Dirty) bool { return s.flags.Has(f) }

// Clear lowers f.
func (s *DirtySet) Clear(f Dirty) { s.flags &^= f }

// Flags returns the raised flags without consuming them.
func (s *DirtySet) Flags() Dirty { return s.flags }

// Take returns the raised flags and lowers all of them.
func (s *DirtySet) Take() Dirty {
	f := s.flags
	s.flags = 0
	return f
}
