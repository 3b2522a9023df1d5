package module_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/module"
)

func TestSystemResumesAndCancels(t *testing.T) {
	store := ecs.NewStore()
	p := ecs.NewPipeline(store)
	interp, runner := setup(chain("blink", wait("w", 0.25), block("after", "After")))
	p.AddSystem(module.NewSystem(interp))

	stay, leave := ecs.NewEntity("stay"), ecs.NewEntity("leave")
	store.RegisterEntity(stay)
	store.RegisterEntity(leave)

	p.ExecuteFrame(0.1)
	interp.Run(p.Frame(), "blink", stay.ID, nil, false)
	interp.Run(p.Frame(), "blink", leave.ID, nil, false)
	p.Commands().DestroyEntity(leave.ID)
	p.Flush()
	assert.Len(t, interp.Suspended(), 1)

	for i := 0; i < 3; i++ {
		p.ExecuteFrame(0.1)
	}
	assert.Empty(t, interp.Suspended())
	if assert.Len(t, runner.calls, 1) {
		assert.Equal(t, stay.ID, runner.calls[0].entity)
	}
}
