package inspector

// fakeWidgets is a scripted Widgets used to drive the inspector without a
// GPU. Tree rows open when their label is in open, the row whose label
// matches click reports a click, and edit controls take their new value
// from edits.
type fakeWidgets struct {
	open   map[string]bool
	click  string
	toggle bool
	edits  map[string]any

	// recorded
	labels    []string
	texts     []string
	scrolls   int
	treeDepth int
	idDepth   int
	children  int
	tables    int
	maxDepth  int

	nextOpen bool
	lastItem string
}

func newFakeWidgets() *fakeWidgets {
	return &fakeWidgets{
		open:  make(map[string]bool),
		edits: make(map[string]any),
	}
}

func (f *fakeWidgets) item(label string) {
	f.lastItem = label
	f.labels = append(f.labels, label)
}

func (f *fakeWidgets) rendered(label string) bool {
	for _, l := range f.labels {
		if l == label {
			return true
		}
	}
	return false
}

func (f *fakeWidgets) wroteText(text string) bool {
	for _, t := range f.texts {
		if t == text {
			return true
		}
	}
	return false
}

func (f *fakeWidgets) reset() {
	f.labels = nil
	f.texts = nil
	f.click = ""
	f.toggle = false
	f.edits = make(map[string]any)
}

func (f *fakeWidgets) BeginChild(string, float32) bool { f.children++; return true }
func (f *fakeWidgets) EndChild()                       { f.children-- }

func (f *fakeWidgets) BeginTable(string, int) bool      { f.tables++; return true }
func (f *fakeWidgets) TableSetupColumn(string, float32) {}
func (f *fakeWidgets) TableHeadersRow()                 {}
func (f *fakeWidgets) TableNextRow()                    {}
func (f *fakeWidgets) TableNextColumn()                 {}
func (f *fakeWidgets) EndTable()                        { f.tables-- }
func (f *fakeWidgets) PushID(int)                       { f.idDepth++ }
func (f *fakeWidgets) PopID()                           { f.idDepth-- }
func (f *fakeWidgets) SetNextItemOpen(open bool)        { f.nextOpen = open }
func (f *fakeWidgets) ScrollToItem()                    { f.scrolls++ }
func (f *fakeWidgets) Separator()                       {}
func (f *fakeWidgets) Text(text string)                 { f.texts = append(f.texts, text) }
func (f *fakeWidgets) TextDisabled(text string)         { f.texts = append(f.texts, text) }
func (f *fakeWidgets) IsItemClicked() bool              { return f.click != "" && f.click == f.lastItem }
func (f *fakeWidgets) IsItemToggledOpen() bool          { return f.toggle && f.click == f.lastItem }

func (f *fakeWidgets) TreeNode(label string, _ TreeFlags) bool {
	f.item(label)
	if f.nextOpen {
		// ImGui keeps a forced-open row open on later frames.
		f.open[label] = true
		f.nextOpen = false
	}
	if !f.open[label] {
		return false
	}
	f.treeDepth++
	f.maxDepth = max(f.maxDepth, f.treeDepth)
	return true
}

func (f *fakeWidgets) TreePop() { f.treeDepth-- }

func (f *fakeWidgets) Selectable(label string, selected bool) bool {
	f.item(label)
	return f.click == label
}

func (f *fakeWidgets) SmallButton(label string) bool {
	f.item(label)
	return f.click == label
}

func edit[T any](f *fakeWidgets, label string, v *T) bool {
	f.item(label)
	nv, ok := f.edits[label]
	if !ok {
		return false
	}
	*v = nv.(T)
	return true
}

func (f *fakeWidgets) Checkbox(label string, v *bool) bool { return edit(f, label, v) }

func (f *fakeWidgets) Combo(label string, current *int, _ []string) bool {
	return edit(f, label, current)
}

func (f *fakeWidgets) DragFloat(label string, v *float32, _, _, _ float32) bool {
	return edit(f, label, v)
}

func (f *fakeWidgets) DragFloat3(label string, v *[3]float32, _ float32) bool {
	return edit(f, label, v)
}

func (f *fakeWidgets) SliderFloat(label string, v *float32, _, _ float32, _ bool) bool {
	return edit(f, label, v)
}

func (f *fakeWidgets) SliderAngle(label string, rad *float32, _, _ float32) bool {
	return edit(f, label, rad)
}

func (f *fakeWidgets) ColorEdit3(label string, c *[3]float32) bool { return edit(f, label, c) }
func (f *fakeWidgets) ColorEdit4(label string, c *[4]float32) bool { return edit(f, label, c) }

var _ Widgets = (*fakeWidgets)(nil)
