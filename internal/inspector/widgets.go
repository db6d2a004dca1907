package inspector

// TreeFlags modify how a tree row is drawn.
type TreeFlags uint8

// TreeSelected draws the row highlighted.
const TreeSelected TreeFlags = 1 << 0

// Widgets is the immediate-mode widget library the inspector draws with.
// Every call acts on the current frame; the bool results report user
// interaction during that frame. Edit controls modify their argument in
// place and return true when the user changed it.
type Widgets interface {
	BeginChild(id string, height float32) bool
	EndChild()

	BeginTable(id string, columns int) bool
	// TableSetupColumn declares a column; width 0 stretches it, any other
	// width is fixed in multiples of the font's character width.
	TableSetupColumn(label string, width float32)
	TableHeadersRow()
	TableNextRow()
	TableNextColumn()
	EndTable()

	PushID(id int)
	PopID()

	// SetNextItemOpen forces the next tree row open.
	SetNextItemOpen(open bool)
	// TreeNode draws a tree row and reports whether it is open. Open rows
	// must be closed with TreePop.
	TreeNode(label string, flags TreeFlags) bool
	TreePop()
	IsItemClicked() bool
	IsItemToggledOpen() bool
	// ScrollToItem scrolls the enclosing child window so the current row is
	// visible.
	ScrollToItem()
	Selectable(label string, selected bool) bool

	Text(text string)
	TextDisabled(text string)
	Separator()
	SmallButton(label string) bool

	Checkbox(label string, v *bool) bool
	Combo(label string, current *int, items []string) bool
	DragFloat(label string, v *float32, speed, min, max float32) bool
	DragFloat3(label string, v *[3]float32, speed float32) bool
	// SliderFloat shows a slider; logarithmic spaces values by magnitude.
	SliderFloat(label string, v *float32, min, max float32, logarithmic bool) bool
	// SliderAngle edits an angle stored in radians, shown in degrees.
	SliderAngle(label string, rad *float32, minDeg, maxDeg float32) bool
	ColorEdit3(label string, c *[3]float32) bool
	ColorEdit4(label string, c *[4]float32) bool
}
