package logic_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/logic"
	"github.com/plus3/ooftn-logic/module"
)

// contacts reports scripted collisions at the start of a frame, ahead of the
// rule system, the way a physics system would.
type contacts struct {
	byFrame map[uint64][]func(store *ecs.Store)
}

func (c *contacts) at(frame uint64, fn func(store *ecs.Store)) {
	if c.byFrame == nil {
		c.byFrame = make(map[uint64][]func(store *ecs.Store))
	}
	c.byFrame[frame] = append(c.byFrame[frame], fn)
}

func (c *contacts) OnUpdate(frame *ecs.UpdateFrame) {
	for _, fn := range c.byFrame[frame.Number] {
		fn(frame.Store)
	}
}

type world struct {
	store    *ecs.Store
	pipeline *ecs.Pipeline
	rules    *logic.System
	modules  *module.Interpreter
	contacts *contacts
}

func newWorld(t *testing.T, graphs ...*module.Graph) *world {
	t.Helper()
	store := ecs.NewStore()
	interp := module.NewInterpreter(module.NewLibrary(graphs...))
	w := &world{
		store:    store,
		pipeline: ecs.NewPipeline(store),
		rules:    logic.NewSystem(interp),
		modules:  interp,
		contacts: &contacts{},
	}
	w.pipeline.AddSystem(w.contacts)
	w.pipeline.AddSystem(w.rules)
	w.pipeline.AddSystem(module.NewSystem(interp))
	return w
}

func (w *world) spawn(t *testing.T, name string, vars []ecs.EditorVariable, rules ...*logic.LogicComponent) *ecs.RuntimeEntity {
	t.Helper()
	e := ecs.NewEntity(name)
	e.Variables = vars
	require.True(t, w.store.RegisterEntity(e))
	for _, c := range logic.Attach(e.ID, rules...) {
		require.True(t, w.store.RegisterComponent(c))
	}
	return e
}

func (w *world) frames(n int) {
	for i := 0; i < n; i++ {
		w.pipeline.ExecuteFrame(0.5)
	}
}

func intVar(name string, v int) ecs.EditorVariable {
	return ecs.EditorVariable{Name: name, Type: ecs.TypeInt, Value: v}
}

func (w *world) value(t *testing.T, e *ecs.RuntimeEntity, name string) any {
	t.Helper()
	v := w.store.EntityVariable(e.ID, name)
	require.NotNil(t, v, "variable %s", name)
	return v.Value
}

// lateProbe observes the store after every system has updated but before
// deferred commands apply.
type lateProbe func(frame *ecs.UpdateFrame)

func (p lateProbe) OnLateUpdate(frame *ecs.UpdateFrame) { p(frame) }
