package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ooftn-logic/ecs"
)

func spawn(t *testing.T, store *ecs.Store, name string, types ...string) *ecs.RuntimeEntity {
	t.Helper()
	e := ecs.NewEntity(name)
	require.True(t, store.RegisterEntity(e))
	for _, typ := range types {
		require.True(t, store.RegisterComponent(ecs.NewComponent(e.ID, typ, nil)))
	}
	return e
}

func TestStoreAssignsMonotonicIDs(t *testing.T) {
	store := ecs.NewStore()
	a := spawn(t, store, "a")
	b := spawn(t, store, "b")
	store.UnregisterEntity(a.ID)
	c := spawn(t, store, "c")

	if a.ID != 1 || b.ID != 2 {
		t.Errorf("expected IDs 1 and 2, got %d and %d", a.ID, b.ID)
	}
	if c.ID != 3 {
		t.Errorf("expected removed IDs to stay retired, got %d", c.ID)
	}

	explicit := ecs.NewEntity("explicit")
	explicit.ID = 10
	require.True(t, store.RegisterEntity(explicit))
	next := spawn(t, store, "next")
	assert.Equal(t, ecs.EntityID(11), next.ID)

	dup := ecs.NewEntity("dup")
	dup.ID = 10
	assert.False(t, store.RegisterEntity(dup), "live ID must not be registered twice")
}

func TestStoreUnregisterCascades(t *testing.T) {
	store := ecs.NewStore()
	e := spawn(t, store, "player", "Sprite", "Logic")
	other := spawn(t, store, "enemy", "Sprite")
	store.SetEntityVariable(e.ID, "hp", 3)
	store.RecordCollisionEnter(e.ID, ecs.Contact{OtherID: other.ID})
	require.NotNil(t, store.PeekContext(e.ID))

	store.UnregisterEntity(e.ID)

	assert.False(t, store.HasEntity(e.ID))
	assert.Empty(t, store.EntityComponents(e.ID))
	assert.Nil(t, store.EntityVariable(e.ID, "hp"))
	assert.Nil(t, store.PeekContext(e.ID))
	assert.Empty(t, store.AllComponentsOfType("Logic"))

	sprites := store.AllComponentsOfType("Sprite")
	require.Len(t, sprites, 1)
	assert.Equal(t, other.ID, sprites[0].EntityID)
}

func TestStoreRejectsComponentsOfUnknownEntities(t *testing.T) {
	store := ecs.NewStore()
	if store.RegisterComponent(ecs.NewComponent(42, "Sprite", nil)) {
		t.Error("component for unknown entity was accepted")
	}
	assert.Empty(t, store.AllComponentsOfType("Sprite"))
}

func TestStoreComponentIndices(t *testing.T) {
	store := ecs.NewStore()
	e := spawn(t, store, "e", "A", "B", "A")

	assert.Len(t, store.EntityComponents(e.ID), 3)
	assert.Len(t, store.ComponentsOf(e.ID, "A"), 2)
	assert.Equal(t, []string{"A", "B"}, store.ComponentTypes(e.ID))

	first := store.ComponentsOf(e.ID, "A")[0]
	store.UnregisterComponent(first)
	assert.Len(t, store.ComponentsOf(e.ID, "A"), 1)
	assert.Len(t, store.AllComponentsOfType("A"), 1)

	assert.Equal(t, 1, store.RemoveComponentsOfType(e.ID, "A"))
	assert.False(t, store.HasComponent(e.ID, "A"))
	assert.True(t, store.HasComponent(e.ID, "B"))

	// Removing twice is harmless.
	store.UnregisterComponent(first)
	assert.Len(t, store.EntityComponents(e.ID), 1)
}

func TestStoreVariables(t *testing.T) {
	store := ecs.NewStore()
	e := ecs.NewEntity("e")
	e.Variables = []ecs.EditorVariable{{Name: "hp", Type: ecs.TypeInt, Value: 3}}
	require.True(t, store.RegisterEntity(e))

	store.SetEntityVariable(e.ID, "hp", 2.9)
	assert.Equal(t, 2, store.EntityVariable(e.ID, "hp").Value, "int variables truncate")

	store.SetEntityVariable(e.ID, "label", "hi")
	assert.Equal(t, ecs.TypeString, store.EntityVariable(e.ID, "label").Type)

	store.SetEntityVariable(99, "hp", 1)
	assert.Nil(t, store.EntityVariable(99, "hp"))

	store.DeclareVariable("speed", ecs.TypeFloat, 1)
	store.SetVariable("speed", "2.5")
	assert.Equal(t, 2.5, store.Variable("speed").Value)
	assert.Nil(t, store.Variable("missing"))
}

func TestStoreFindByName(t *testing.T) {
	store := ecs.NewStore()
	first := spawn(t, store, "coin")
	spawn(t, store, "coin")

	assert.Same(t, first, store.FindByName("coin"))
	assert.Nil(t, store.FindByName("ghost"))
}

func TestStoreEntitiesIterateInIDOrder(t *testing.T) {
	store := ecs.NewStore()
	for _, id := range []ecs.EntityID{5, 2, 9} {
		e := ecs.NewEntity("e")
		e.ID = id
		require.True(t, store.RegisterEntity(e))
	}

	var ids []ecs.EntityID
	for e := range store.Entities() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []ecs.EntityID{2, 5, 9}, ids)
	assert.Equal(t, 3, store.EntityCount())
}

func TestStoreContextIsLazy(t *testing.T) {
	store := ecs.NewStore()
	e := spawn(t, store, "e")

	assert.Nil(t, store.PeekContext(e.ID))
	ctx := store.Context(e.ID)
	require.NotNil(t, ctx)
	assert.Same(t, ctx, store.PeekContext(e.ID))
	assert.Nil(t, store.Context(777), "unknown entities have no context")
}

func TestCollisionEdges(t *testing.T) {
	store := ecs.NewStore()
	pipeline := ecs.NewPipeline(store)
	player := spawn(t, store, "player")
	floor := spawn(t, store, "floor")

	ground := ecs.Contact{OtherID: floor.ID, OtherTag: "ground"}
	store.RecordCollisionEnter(player.ID, ground)
	c := store.Context(player.ID).Collisions
	assert.Len(t, c.Entered, 1)
	assert.Len(t, c.Current, 1)
	assert.True(t, c.Grounded)

	// The next frame clears the edge lists but keeps the ongoing contact.
	pipeline.ExecuteFrame(0.016)
	c = store.Context(player.ID).Collisions
	assert.Empty(t, c.Entered)
	assert.Len(t, c.Current, 1)
	assert.True(t, c.Grounded)

	store.RecordCollisionStay(player.ID, ground)
	c = store.Context(player.ID).Collisions
	assert.Empty(t, c.Entered, "stay does not count as entering")
	assert.Len(t, c.Current, 1)

	store.RecordCollisionExit(player.ID, ecs.Contact{OtherID: floor.ID})
	c = store.Context(player.ID).Collisions
	assert.Empty(t, c.Current)
	require.Len(t, c.Exited, 1)
	assert.Equal(t, "ground", c.Exited[0].OtherTag, "exit keeps the tag of the ended contact")
	assert.False(t, c.Grounded)

	pipeline.ExecuteFrame(0.016)
	assert.Empty(t, store.Context(player.ID).Collisions.Exited)
}

func TestGroundTags(t *testing.T) {
	store := ecs.NewStore()
	player := spawn(t, store, "player")
	store.RecordCollisionEnter(player.ID, ecs.Contact{OtherID: 2, OtherTag: "platform"})
	assert.False(t, store.Context(player.ID).Collisions.Grounded)

	store.SetGroundTags("platform")
	assert.True(t, store.Context(player.ID).Collisions.Grounded)
}

func TestSignalsDeliverOnce(t *testing.T) {
	var s ecs.Signals
	s.Set("hit", 3)
	s.Set("hit", "4")

	assert.True(t, s.IsSet("hit"))
	v, ok := s.Value("hit")
	assert.True(t, ok)
	assert.Equal(t, 4, v)

	assert.Equal(t, []string{"hit", "hit"}, s.Drain())
	assert.Empty(t, s.Drain())
	assert.True(t, s.IsSet("hit"), "draining keeps the flag")

	s.Clear("hit")
	assert.False(t, s.IsSet("hit"))
}

func TestStoreCollectStats(t *testing.T) {
	store := ecs.NewStore()
	spawn(t, store, "a", "Logic")
	b := spawn(t, store, "b", "Logic", "Sprite")
	b.Active = false
	store.SetVariable("score", 0)

	stats := store.CollectStats()
	assert.Equal(t, 2, stats.EntityCount)
	assert.Equal(t, 1, stats.ActiveCount)
	assert.Equal(t, 3, stats.ComponentCount)
	assert.Equal(t, 1, stats.GlobalCount)
	assert.Equal(t, 2, stats.ComponentTypes["Logic"])
}
