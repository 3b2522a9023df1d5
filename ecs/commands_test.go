package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ooftn-logic/ecs"
)

type funcSystem struct {
	update func(frame *ecs.UpdateFrame)
}

func (s *funcSystem) OnUpdate(frame *ecs.UpdateFrame) {
	s.update(frame)
}

func TestDestroyAfterAddLeavesNothing(t *testing.T) {
	store := ecs.NewStore()
	pipeline := ecs.NewPipeline(store)
	e := spawn(t, store, "doomed")

	// Queued destroy first and add second; adds still apply before destroys.
	pipeline.Commands().DestroyEntity(e.ID)
	pipeline.Commands().AddComponent(ecs.NewComponent(e.ID, "Sprite", nil))
	pipeline.Commands().SetEntityVariable(e.ID, "hp", 1)

	result := pipeline.Flush()

	assert.Equal(t, 1, result[ecs.CommandAddComponent])
	assert.Equal(t, 1, result[ecs.CommandSetEntityVariable])
	assert.Equal(t, 1, result[ecs.CommandDestroyEntity])
	assert.False(t, store.HasEntity(e.ID))
	assert.Empty(t, store.AllComponentsOfType("Sprite"))
	assert.Nil(t, store.EntityVariable(e.ID, "hp"))
}

func TestCreatedEntityIsTargetableInSameBatch(t *testing.T) {
	store := ecs.NewStore()
	cmds := ecs.NewPipeline(store).Commands()

	id := cmds.CreateEntity(ecs.NewEntity("bullet"))
	cmds.AddComponent(ecs.NewComponent(id, "Sprite", "bullet.png"))
	cmds.SetEntityVariable(id, "speed", 4)
	assert.False(t, store.HasEntity(id), "nothing applies before the flush")

	result := cmds.Flush(nil)

	assert.Equal(t, 3, result.Total())
	require.True(t, store.HasEntity(id))
	assert.Equal(t, "bullet", store.Entity(id).Name)
	assert.True(t, store.HasComponent(id, "Sprite"))
	assert.Equal(t, 4, store.EntityVariable(id, "speed").Value)
}

func TestReservedIDsAreNotReused(t *testing.T) {
	store := ecs.NewStore()
	cmds := ecs.NewPipeline(store).Commands()

	queued := cmds.CreateEntity(ecs.NewEntity("queued"))
	direct := spawn(t, store, "direct")
	assert.NotEqual(t, queued, direct.ID)

	cmds.Flush(nil)
	assert.Equal(t, "queued", store.Entity(queued).Name)
	assert.Equal(t, "direct", store.Entity(direct.ID).Name)
}

func TestFlushAppliesKindsInOrder(t *testing.T) {
	store := ecs.NewStore()
	cmds := ecs.NewPipeline(store).Commands()
	e := spawn(t, store, "e", "Old")

	var seen []string
	cmds.Defer(func() {
		seen = append(seen, "defer")
		assert.False(t, store.HasComponent(e.ID, "Old"), "defer runs after removals")
		assert.True(t, store.HasComponent(e.ID, "New"), "defer runs after adds")
	})
	cmds.RemoveComponent(e.ID, "Old")
	cmds.AddComponent(ecs.NewComponent(e.ID, "New", nil))

	kinds := make([]ecs.CommandKind, 0, 3)
	for _, c := range cmds.Pending() {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []ecs.CommandKind{ecs.CommandDefer, ecs.CommandRemoveComponent, ecs.CommandAddComponent}, kinds)

	cmds.Flush(nil)
	assert.Equal(t, []string{"defer"}, seen)
	assert.Equal(t, 0, cmds.Len())
}

func TestDestroyHooksSeeLiveEntity(t *testing.T) {
	store := ecs.NewStore()
	pipeline := ecs.NewPipeline(store)
	e := spawn(t, store, "e", "Logic")
	store.SetEntityVariable(e.ID, "hp", 0)

	var readHP any
	var requeued ecs.EntityID
	pipeline.OnEntityDestroy(func(dying *ecs.RuntimeEntity) {
		readHP = store.EntityVariable(dying.ID, "hp").Value
		assert.True(t, store.HasComponent(dying.ID, "Logic"))
		requeued = pipeline.Commands().CreateEntity(ecs.NewEntity("ghost"))
	})

	pipeline.Commands().DestroyEntity(e.ID)
	pipeline.Commands().DestroyEntity(e.ID)
	result := pipeline.Flush()

	assert.Equal(t, 0, readHP)
	assert.Equal(t, 1, result[ecs.CommandDestroyEntity], "second destroy of a gone entity is skipped")
	assert.False(t, store.HasEntity(requeued), "commands queued during a flush wait for the next one")
	assert.Equal(t, 1, pipeline.Commands().Len())

	pipeline.Flush()
	assert.True(t, store.HasEntity(requeued))
}

func TestCommandsQueuedBySystemsApplyAtFrameEnd(t *testing.T) {
	store := ecs.NewStore()
	pipeline := ecs.NewPipeline(store)

	var spawned ecs.EntityID
	var visibleDuringFrame bool
	pipeline.AddSystem(&funcSystem{update: func(frame *ecs.UpdateFrame) {
		if frame.Number == 1 {
			spawned = frame.Commands.CreateEntity(ecs.NewEntity("late"))
		}
	}})
	pipeline.AddSystem(&funcSystem{update: func(frame *ecs.UpdateFrame) {
		if frame.Number == 1 {
			visibleDuringFrame = frame.Store.HasEntity(spawned)
		}
	}})

	pipeline.ExecuteFrame(0.016)
	assert.False(t, visibleDuringFrame)
	assert.True(t, store.HasEntity(spawned))
	assert.Equal(t, 1, pipeline.Stats().LastFrameApplied[ecs.CommandCreateEntity])
}

func TestCommandKindString(t *testing.T) {
	assert.Equal(t, "create", ecs.CommandCreateEntity.String())
	assert.Equal(t, "destroy", ecs.CommandDestroyEntity.String())
}
