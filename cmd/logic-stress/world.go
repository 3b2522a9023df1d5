package main

import (
	_ "embed"
	"fmt"
	"math/rand"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/logic"
	"github.com/plus3/ooftn-logic/module"
)

//go:embed respawn.yaml
var respawnYAML []byte

const (
	walkerTag = "walker"
	hazardTag = "hazard"
)

func loadModules() (*module.Library, error) {
	graphs, err := module.DecodeGraphs(respawnYAML)
	if err != nil {
		return nil, err
	}
	for _, g := range graphs {
		if problems := g.Validate(); len(problems) > 0 {
			return nil, fmt.Errorf("module %s: %s", g.ID, problems[0])
		}
	}
	return module.NewLibrary(graphs...), nil
}

// walkerRules drive every walker: move and count ticks, lose hp on hazard
// contact, flinch on the resulting signal and respawn through the module
// once hp runs out.
func walkerRules() []*logic.LogicComponent {
	return []*logic.LogicComponent{
		{
			ID:    "walk",
			Event: logic.OnUpdate,
			Actions: logic.ActionList{
				&logic.Move{DX: 1, PerSecond: true},
				&logic.SetVar{Name: "ticks", Scope: logic.ScopeEntity, Operation: logic.OpAdd, A: logic.Literal(1)},
			},
		},
		{
			ID:          "hurt",
			Event:       logic.OnCollision,
			EventParams: map[string]any{"tag": hazardTag},
			Actions: logic.ActionList{
				&logic.SetVar{Name: "hp", Scope: logic.ScopeEntity, Operation: logic.OpSub, A: logic.Literal(1)},
				&logic.SetSignal{Signal: "hit", Value: true},
			},
		},
		{
			ID:          "flinch",
			Event:       logic.OnSignalReceive,
			EventParams: map[string]any{"signal": "hit"},
			Actions: logic.ActionList{
				&logic.Rotate{Degrees: 15},
				&logic.ClearSignal{Signal: "hit"},
			},
		},
		{
			ID:         "die",
			Event:      logic.OnUpdate,
			Conditions: logic.ConditionList{&logic.VarCompare{Op: logic.OpLessOrEqual, Name: "hp", Value: 0}},
			Actions: logic.ActionList{
				&logic.SetVar{Name: "deaths", Scope: logic.ScopeGlobal, Operation: logic.OpAdd, A: logic.Literal(1)},
				&logic.RunModule{Module: "Respawn"},
			},
		},
	}
}

func spawnWalker(store *ecs.Store, i int) {
	e := ecs.NewEntity(fmt.Sprintf("walker-%d", i))
	e.Tags = []string{walkerTag}
	e.Transform.X = rand.Float64() * 100
	e.Transform.Y = rand.Float64() * 100
	e.Variables = []ecs.EditorVariable{
		{Name: "hp", Type: ecs.TypeInt, Value: 3},
		{Name: "ticks", Type: ecs.TypeInt, Value: 0},
	}
	store.RegisterEntity(e)
	for _, c := range logic.Attach(e.ID, walkerRules()...) {
		store.RegisterComponent(c)
	}
}

func spawnHazard(store *ecs.Store, i int) ecs.EntityID {
	e := ecs.NewEntity(fmt.Sprintf("hazard-%d", i))
	e.Tags = []string{hazardTag}
	store.RegisterEntity(e)
	return e.ID
}

// contactSystem stands in for physics: every frame it touches a random share
// of the walkers with a hazard and releases last frame's contacts.
type contactSystem struct {
	rate    float64
	hazards []ecs.EntityID
	walkers []ecs.EntityID
	touched []touch
	hits    int64
}

type touch struct {
	walker ecs.EntityID
	hazard ecs.EntityID
}

func (c *contactSystem) OnUpdate(frame *ecs.UpdateFrame) {
	store := frame.Store
	for _, t := range c.touched {
		store.RecordCollisionExit(t.walker, ecs.Contact{OtherID: t.hazard})
	}
	c.touched = c.touched[:0]

	if len(c.hazards) == 0 || len(c.walkers) == 0 {
		return
	}
	n := int(float64(len(c.walkers)) * c.rate)
	for range n {
		id := c.walkers[rand.Intn(len(c.walkers))]
		hazard := c.hazards[rand.Intn(len(c.hazards))]
		store.RecordCollisionEnter(id, ecs.Contact{OtherID: hazard, OtherTag: hazardTag, SelfTag: walkerTag})
		c.touched = append(c.touched, touch{walker: id, hazard: hazard})
		c.hits++
	}
}
