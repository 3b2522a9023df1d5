package logic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/logic"
)

func onStart(actions ...logic.Action) *logic.LogicComponent {
	return &logic.LogicComponent{ID: "start", Event: logic.OnStart, Actions: actions}
}

func opnd(v any) *logic.Operand {
	o := logic.Literal(v)
	return &o
}

func TestSetVarArithmetic(t *testing.T) {
	cases := []struct {
		name   string
		vars   []ecs.EditorVariable
		action *logic.SetVar
		want   any
	}{
		{
			name:   "add to current",
			vars:   []ecs.EditorVariable{intVar("score", 5)},
			action: &logic.SetVar{Name: "score", Operation: logic.OpAdd, A: logic.Literal(3)},
			want:   8,
		},
		{
			name:   "int truncates",
			vars:   []ecs.EditorVariable{intVar("score", 5)},
			action: &logic.SetVar{Name: "score", Operation: logic.OpDivide, A: logic.Literal(2)},
			want:   2,
		},
		{
			name:   "divide by zero leaves value",
			vars:   []ecs.EditorVariable{intVar("score", 5)},
			action: &logic.SetVar{Name: "score", Operation: logic.OpDivide, A: logic.Literal(0)},
			want:   5,
		},
		{
			name:   "vector multiply",
			vars:   []ecs.EditorVariable{{Name: "v", Type: ecs.TypeVector2, Value: ecs.Vector2{X: 2, Y: 3}}},
			action: &logic.SetVar{Name: "v", Operation: logic.OpMultiply, A: logic.Literal(map[string]any{"x": 2, "y": 2})},
			want:   ecs.Vector2{X: 4, Y: 6},
		},
		{
			name:   "vector with scalar",
			vars:   []ecs.EditorVariable{{Name: "v", Type: ecs.TypeVector2, Value: ecs.Vector2{X: 2, Y: 3}}},
			action: &logic.SetVar{Name: "v", Operation: logic.OpAdd, A: logic.Literal(1)},
			want:   ecs.Vector2{X: 3, Y: 4},
		},
		{
			name:   "string concatenation",
			vars:   []ecs.EditorVariable{{Name: "greeting", Type: ecs.TypeString, Value: "Hello"}},
			action: &logic.SetVar{Name: "greeting", Operation: logic.OpAdd, A: logic.Literal(" World")},
			want:   "Hello World",
		},
		{
			name:   "two operands ignore current",
			vars:   []ecs.EditorVariable{intVar("score", 100)},
			action: &logic.SetVar{Name: "score", Operation: logic.OpSub, A: logic.Literal(10), B: opnd(4)},
			want:   6,
		},
		{
			name:   "set coerces to declared type",
			vars:   []ecs.EditorVariable{intVar("score", 1)},
			action: &logic.SetVar{Name: "score", A: logic.Literal("42")},
			want:   42,
		},
		{
			name:   "missing current counts as zero",
			action: &logic.SetVar{Name: "fresh", Scope: logic.ScopeEntity, Operation: logic.OpAdd, A: logic.Literal(2)},
			want:   2,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := newWorld(t)
			e := w.spawn(t, "hero", c.vars, onStart(c.action))
			w.frames(1)
			assert.Equal(t, c.want, w.value(t, e, c.action.Name))
		})
	}
}

func TestSetVarScopes(t *testing.T) {
	w := newWorld(t)
	w.store.SetVariable("level", 1)
	hero := w.spawn(t, "hero", []ecs.EditorVariable{intVar("hp", 3)}, onStart(
		&logic.SetVar{Name: "level", Operation: logic.OpAdd, A: logic.Literal(1)},
		&logic.SetVar{Name: "hp", Operation: logic.OpSub, A: logic.Literal(1)},
		&logic.SetVar{Name: "coins", Scope: logic.ScopeGlobal, A: logic.Literal(7)},
		&logic.SetVar{Name: "hp", Target: "enemy", A: logic.Var("hp")},
		&logic.SetVar{Name: "x2", Scope: logic.ScopeEntity, A: logic.Operand{Kind: logic.OperandProperty, Name: "x", Entity: "enemy"}},
	))
	enemy := w.spawn(t, "enemy", []ecs.EditorVariable{intVar("hp", 10)})
	enemy.Transform.X = 4

	w.frames(1)

	assert.Equal(t, 2, w.store.Variable("level").Value)
	assert.Equal(t, 7, w.store.Variable("coins").Value)
	assert.Equal(t, 2, w.value(t, hero, "hp"))
	assert.Equal(t, 2, w.value(t, enemy, "hp"), "operands resolve against the executing entity")
	assert.Equal(t, 4, w.value(t, hero, "x2"))
}

func TestTransformActions(t *testing.T) {
	w := newWorld(t)
	e := w.spawn(t, "hero", nil, &logic.LogicComponent{
		Event: logic.OnUpdate,
		Actions: logic.ActionList{
			&logic.Move{DX: 2, DY: -4, PerSecond: true},
			&logic.Rotate{Degrees: 90},
		},
	}, onStart(&logic.SetScale{X: 2, Y: 3}))

	w.frames(2)

	assert.InDelta(t, 2.0, e.Transform.X, 1e-9)
	assert.InDelta(t, -4.0, e.Transform.Y, 1e-9)
	assert.InDelta(t, 180.0, e.Transform.Rotation, 1e-9)
	assert.Equal(t, 2.0, e.Transform.ScaleX)
	assert.Equal(t, 3.0, e.Transform.ScaleY)

	w.spawn(t, "mover", nil, onStart(&logic.SetPosition{X: 9, Y: 8, Target: "hero"}))
	w.frames(1)
	assert.Equal(t, 9.0, e.Transform.X)
	assert.Equal(t, 8.0, e.Transform.Y)
}

func TestSpawnEntity(t *testing.T) {
	w := newWorld(t)
	spawner := w.spawn(t, "spawner", nil, onStart(&logic.SpawnEntity{
		Name:       "bullet",
		X:          1,
		Y:          2,
		Relative:   true,
		Tags:       []string{"projectile"},
		Variables:  []ecs.EditorVariable{intVar("damage", 3)},
		Components: []logic.ComponentSpec{{Type: "Sprite", Data: map[string]any{"image": "bullet.png"}}},
		Logic: []*logic.LogicComponent{onStart(
			&logic.SetVar{Name: "spawned", Scope: logic.ScopeGlobal, A: logic.Literal(true)},
		)},
	}))
	spawner.Transform.X, spawner.Transform.Y = 10, 20

	w.frames(1)
	bullet := w.store.FindByName("bullet")
	require.NotNil(t, bullet, "spawned entity exists after the frame")
	assert.Greater(t, bullet.ID, spawner.ID)
	assert.Equal(t, 11.0, bullet.Transform.X)
	assert.Equal(t, 22.0, bullet.Transform.Y)
	assert.True(t, bullet.HasTag("projectile"))
	assert.Equal(t, 3, w.value(t, bullet, "damage"))
	assert.True(t, w.store.HasComponent(bullet.ID, "Sprite"))
	assert.Nil(t, w.store.Variable("spawned"))

	w.frames(1)
	require.NotNil(t, w.store.Variable("spawned"))
	assert.Equal(t, true, w.store.Variable("spawned").Value)
}

func TestStructuralActionsAreDeferred(t *testing.T) {
	w := newWorld(t)
	var seen []bool
	w.pipeline.AddSystem(lateProbe(func(frame *ecs.UpdateFrame) {
		seen = append(seen, frame.Store.FindByName("target") != nil)
	}))
	w.spawn(t, "target", nil)
	w.spawn(t, "boss", nil, onStart(
		&logic.Destroy{Target: "target"},
		&logic.AddComponent{Component: logic.ComponentSpec{Type: "Shield"}},
		&logic.RemoveComponent{ComponentType: "Armor"},
	))
	boss := w.store.FindByName("boss")
	require.True(t, w.store.RegisterComponent(ecs.NewComponent(boss.ID, "Armor", nil)))

	w.pipeline.ExecuteFrame(0.1)
	assert.Nil(t, w.store.FindByName("target"))
	assert.True(t, w.store.HasComponent(boss.ID, "Shield"))
	assert.False(t, w.store.HasComponent(boss.ID, "Armor"))

	w.pipeline.ExecuteFrame(0.1)
	assert.Equal(t, []bool{true, false}, seen, "destroy applies after the late phase")
}

func TestIfBranches(t *testing.T) {
	w := newWorld(t)
	e := w.spawn(t, "hero", []ecs.EditorVariable{intVar("hp", 0)}, onStart(
		&logic.If{
			Condition: &logic.IsAlive{},
			Then:      logic.ActionList{&logic.SetVar{Name: "branch", Scope: logic.ScopeEntity, A: logic.Literal("then")}},
			Else:      logic.ActionList{&logic.SetVar{Name: "branch", Scope: logic.ScopeEntity, A: logic.Literal("else")}},
		},
		&logic.If{
			Then: logic.ActionList{&logic.SetVar{Name: "always", Scope: logic.ScopeEntity, A: logic.Literal(1)}},
		},
	))

	w.frames(1)
	assert.Equal(t, "else", w.value(t, e, "branch"))
	assert.Equal(t, 1, w.value(t, e, "always"))
}

func TestSignalActions(t *testing.T) {
	w := newWorld(t)
	w.spawn(t, "caller", nil, onStart(
		&logic.SetSignal{Signal: "alarm", Value: "red", Broadcast: true},
		&logic.SetSignal{Signal: "door", Target: "listener"},
		&logic.ClearSignal{Signal: "door", Target: "listener"},
	))
	listener := w.spawn(t, "listener", nil, &logic.LogicComponent{Event: logic.OnUpdate})
	plain := w.spawn(t, "plain", nil)

	w.frames(1)

	rt := w.store.PeekContext(listener.ID)
	require.NotNil(t, rt)
	assert.True(t, rt.Signals.IsSet("alarm"))
	assert.False(t, rt.Signals.IsSet("door"))
	v, ok := rt.Signals.Value("alarm")
	assert.True(t, ok)
	assert.Equal(t, "red", v)
	assert.Nil(t, w.store.PeekContext(plain.ID), "broadcast only reaches entities with rules")
}
