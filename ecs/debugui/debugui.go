// Package debugui provides Dear ImGui inspectors for a running logic pipeline.
// Panels are attached to entities as ImguiItem components and rendered by ImguiSystem.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ooftn-logic/ecs"
)

// ItemType is the component type under which ImguiItem values are attached.
const ItemType = "ImguiItem"

// ImguiItem is a component that holds a Dear ImGui render function.
// Attach this to entities that should render ImGui widgets each frame.
type ImguiItem struct {
	Render func()
}

// NewItem wraps a render function as a component of the given entity.
func NewItem(id ecs.EntityID, render func()) *ecs.RuntimeComponent {
	return ecs.NewComponent(id, ItemType, &ImguiItem{Render: render})
}

// ImguiInputState tracks Dear ImGui's input capture state.
// Use this to determine if ImGui is consuming mouse or keyboard input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem finds every ImguiItem on an active entity and defers its render
// function to the end of the frame. It also refreshes InputState.
type ImguiSystem struct {
	InputState ImguiInputState
}

// OnUpdate updates input state and queues all ImGui render functions for execution.
func (i *ImguiSystem) OnUpdate(frame *ecs.UpdateFrame) {
	io := imgui.CurrentIO()
	i.InputState.WantCaptureMouse = io.WantCaptureMouse()
	i.InputState.WantCaptureKeyboard = io.WantCaptureKeyboard()

	for _, render := range renderFuncs(frame.Store) {
		frame.Commands.Defer(render)
	}
}

func renderFuncs(store *ecs.Store) []func() {
	var out []func()
	for _, e := range store.Select(ecs.Criteria{All: []string{ItemType}}) {
		for _, c := range store.ComponentsOf(e.ID, ItemType) {
			if item, ok := c.Data.(*ImguiItem); ok && item.Render != nil {
				out = append(out, item.Render)
			}
		}
	}
	return out
}
