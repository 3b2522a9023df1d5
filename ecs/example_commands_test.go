package ecs_test

import (
	"fmt"

	"github.com/plus3/ooftn-logic/ecs"
)

type CleanupSystem struct{}

func (s *CleanupSystem) OnUpdate(frame *ecs.UpdateFrame) {
	deadCount := 0
	for _, e := range frame.Store.Select(ecs.Criteria{All: []string{"Health"}}) {
		if hp, _ := frame.Store.EntityVariable(e.ID, "hp").Value.(int); hp <= 0 {
			frame.Commands.DestroyEntity(e.ID)
			deadCount++
		}
	}
	if deadCount > 0 {
		fmt.Printf("Queued %d dead entities for deletion\n", deadCount)
	}
}

// ExampleCommands demonstrates using command buffers to defer entity mutations.
// Structural changes made while systems iterate are queued and applied after
// the late update phase, in kind order: creates, component additions, variable
// writes, removals, then destroys.
func ExampleCommands() {
	store := ecs.NewStore()
	for i, hp := range []int{0, 50, 100} {
		e := ecs.NewEntity(fmt.Sprintf("unit-%d", i))
		e.Variables = []ecs.EditorVariable{{Name: "hp", Type: ecs.TypeInt, Value: hp}}
		store.RegisterEntity(e)
		store.RegisterComponent(ecs.NewComponent(e.ID, "Health", nil))
	}

	pipeline := ecs.NewPipeline(store)
	pipeline.AddSystem(&CleanupSystem{})

	pipeline.ExecuteFrame(1.0)

	fmt.Printf("Remaining entities: %d\n", store.EntityCount())
	fmt.Printf("Applied: %v\n", pipeline.Stats().LastFrameApplied.Total())

	// Output:
	// Queued 1 dead entities for deletion
	// Remaining entities: 2
	// Applied: 1
}
