package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/module"
)

// EntityName is the name of the entity that carries the inspector panels.
const EntityName = "debugui"

// SpawnDebugUI registers an entity whose ImguiItem components draw the inspector
// panels. interp may be nil when the pipeline runs no modules.
func SpawnDebugUI(p *ecs.Pipeline, interp *module.Interpreter) ecs.EntityID {
	store := p.Store()
	e := ecs.NewEntity(EntityName)
	store.RegisterEntity(e)

	browser := NewEntityBrowserComponent(100)
	inspector := NewEntityInspectorComponent()
	stats := NewPipelineStatsComponent(120)
	query := NewQueryDebuggerComponent()
	timer := NewFrameTimer()

	store.RegisterComponent(NewItem(e.ID, func() {
		imgui.SetNextWindowPosV(imgui.NewVec2(10, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
		imgui.SetNextWindowSizeV(imgui.NewVec2(460, 300), imgui.CondOnce)
		browser.Render(p)
	}))
	store.RegisterComponent(NewItem(e.ID, func() {
		imgui.SetNextWindowPosV(imgui.NewVec2(10, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
		imgui.SetNextWindowSizeV(imgui.NewVec2(460, 380), imgui.CondOnce)
		inspector.Render(store, browser.SelectedEntity())
	}))
	store.RegisterComponent(NewItem(e.ID, func() {
		imgui.SetNextWindowPosV(imgui.NewVec2(480, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
		imgui.SetNextWindowSizeV(imgui.NewVec2(360, 300), imgui.CondOnce)
		stats.Render(p, timer.GetDeltaTime())
	}))
	store.RegisterComponent(NewItem(e.ID, func() {
		imgui.SetNextWindowPosV(imgui.NewVec2(480, 320), imgui.CondOnce, imgui.NewVec2(0, 0))
		imgui.SetNextWindowSizeV(imgui.NewVec2(360, 380), imgui.CondOnce)
		query.Render(p)
	}))
	if interp != nil {
		viewer := NewContinuationViewerComponent()
		store.RegisterComponent(NewItem(e.ID, func() {
			imgui.SetNextWindowPosV(imgui.NewVec2(850, 10), imgui.CondOnce, imgui.NewVec2(0, 0))
			imgui.SetNextWindowSizeV(imgui.NewVec2(420, 300), imgui.CondOnce)
			viewer.Render(store, interp)
		}))
	}

	return e.ID
}
