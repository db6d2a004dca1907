package ui

import (
	gomath "math"

	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/Faultbox/gltf-inspector/internal/inspector"
)

// Scene graph table and tree styling.
const (
	tableFlags = imgui.TableFlagsScrollY | imgui.TableFlagsRowBg |
		imgui.TableFlagsBordersOuter | imgui.TableFlagsBordersV

	treeFlags = imgui.TreeNodeFlagsSpanAllColumns | imgui.TreeNodeFlagsSpanFullWidth |
		imgui.TreeNodeFlagsOpenOnArrow | imgui.TreeNodeFlagsOpenOnDoubleClick

	childFlags = imgui.ChildFlagsResizeY | imgui.ChildFlagsFrameStyle
)

// Widgets draws the inspector with Dear ImGui.
type Widgets struct{}

var _ inspector.Widgets = Widgets{}

func (Widgets) BeginChild(id string, height float32) bool {
	// -FLT_MIN width stretches to the right edge.
	size := imgui.NewVec2(-gomath.SmallestNonzeroFloat32, height)
	return imgui.BeginChildStrV(id, size, childFlags, imgui.WindowFlagsNone)
}

func (Widgets) EndChild() { imgui.EndChild() }

func (Widgets) BeginTable(id string, columns int) bool {
	if !imgui.BeginTableV(id, int32(columns), tableFlags, imgui.NewVec2(0, 0), 0) {
		return false
	}
	imgui.TableSetupScrollFreeze(1, 1)
	return true
}

func (Widgets) TableSetupColumn(label string, width float32) {
	flags := imgui.TableColumnFlagsNoHide
	if width > 0 {
		flags |= imgui.TableColumnFlagsWidthFixed
		width *= imgui.CalcTextSize("A").X
	}
	imgui.TableSetupColumnV(label, flags, width, 0)
}

func (Widgets) TableHeadersRow() { imgui.TableHeadersRow() }
func (Widgets) TableNextRow()    { imgui.TableNextRow() }
func (Widgets) TableNextColumn() { imgui.TableNextColumn() }
func (Widgets) EndTable()        { imgui.EndTable() }

func (Widgets) PushID(id int) { imgui.PushIDInt(int32(id)) }
func (Widgets) PopID()        { imgui.PopID() }

func (Widgets) SetNextItemOpen(open bool) { imgui.SetNextItemOpen(open) }

func (Widgets) TreeNode(label string, flags inspector.TreeFlags) bool {
	f := imgui.TreeNodeFlags(treeFlags)
	if flags&inspector.TreeSelected != 0 {
		f |= imgui.TreeNodeFlagsSelected
	}
	return imgui.TreeNodeExStrV(label, f)
}

func (Widgets) TreePop()                { imgui.TreePop() }
func (Widgets) IsItemClicked() bool     { return imgui.IsItemClicked() }
func (Widgets) IsItemToggledOpen() bool { return imgui.IsItemToggledOpen() }
func (Widgets) ScrollToItem()           { imgui.SetScrollHereYV(0.5) }

func (Widgets) Selectable(label string, selected bool) bool {
	return imgui.SelectableBoolV(label, selected, imgui.SelectableFlagsSpanAllColumns, imgui.NewVec2(0, 0))
}

func (Widgets) Text(text string)              { imgui.TextUnformatted(text) }
func (Widgets) TextDisabled(text string)      { imgui.TextDisabled(text) }
func (Widgets) Separator()                    { imgui.Separator() }
func (Widgets) SmallButton(label string) bool { return imgui.SmallButton(label) }

func (Widgets) Checkbox(label string, v *bool) bool { return imgui.Checkbox(label, v) }

func (Widgets) Combo(label string, current *int, items []string) bool {
	idx := int32(*current)
	if !imgui.ComboStrarr(label, &idx, items, int32(len(items))) {
		return false
	}
	*current = int(idx)
	return true
}

func (Widgets) DragFloat(label string, v *float32, speed, min, max float32) bool {
	return imgui.DragFloatV(label, v, speed, min, max, "%.3f", imgui.SliderFlagsNone)
}

func (Widgets) DragFloat3(label string, v *[3]float32, speed float32) bool {
	return imgui.DragFloat3V(label, v, speed, 0, 0, "%.3f", imgui.SliderFlagsNone)
}

func (Widgets) SliderFloat(label string, v *float32, min, max float32, logarithmic bool) bool {
	flags := imgui.SliderFlagsNone
	if logarithmic {
		flags = imgui.SliderFlagsLogarithmic
	}
	return imgui.SliderFloatV(label, v, min, max, "%.3f", flags)
}

func (Widgets) SliderAngle(label string, rad *float32, minDeg, maxDeg float32) bool {
	return imgui.SliderAngleV(label, rad, minDeg, maxDeg, "%.0f deg", imgui.SliderFlagsNone)
}

func (Widgets) ColorEdit3(label string, c *[3]float32) bool { return imgui.ColorEdit3(label, c) }
func (Widgets) ColorEdit4(label string, c *[4]float32) bool { return imgui.ColorEdit4(label, c) }
