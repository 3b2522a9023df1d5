package ecs_test

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/ooftn-logic/ecs"
)

// bruteForce checks every entity against the criteria directly.
func bruteForce(store *ecs.Store, c ecs.Criteria) []ecs.EntityID {
	var out []ecs.EntityID
	for e := range store.Entities() {
		if !e.Active {
			continue
		}
		types := store.ComponentTypes(e.ID)
		ok := true
		for _, t := range c.All {
			ok = ok && slices.Contains(types, t)
		}
		for _, t := range c.None {
			ok = ok && !slices.Contains(types, t)
		}
		if len(c.Any) > 0 {
			anyHit := false
			for _, t := range c.Any {
				anyHit = anyHit || slices.Contains(types, t)
			}
			ok = ok && anyHit
		}
		if ok {
			out = append(out, e.ID)
		}
	}
	return out
}

func ids(entities []*ecs.RuntimeEntity) []ecs.EntityID {
	out := make([]ecs.EntityID, 0, len(entities))
	for _, e := range entities {
		out = append(out, e.ID)
	}
	return out
}

func TestSelectMatchesBruteForce(t *testing.T) {
	types := []string{"Sprite", "Logic", "Body", "Audio"}
	rng := rand.New(rand.NewSource(7))

	store := ecs.NewStore()
	for i := 0; i < 200; i++ {
		e := ecs.NewEntity("e")
		e.Active = rng.Intn(5) != 0
		store.RegisterEntity(e)
		for _, typ := range types {
			// Duplicates exercise the de-duplication of the seed index.
			for n := rng.Intn(3); n > 0; n-- {
				store.RegisterComponent(ecs.NewComponent(e.ID, typ, nil))
			}
		}
	}

	criteria := []ecs.Criteria{
		{},
		{All: []string{"Sprite"}},
		{All: []string{"Sprite", "Logic"}},
		{All: []string{"Logic"}, None: []string{"Body"}},
		{Any: []string{"Audio", "Body"}},
		{All: []string{"Body"}, Any: []string{"Sprite", "Audio"}, None: []string{"Logic"}},
		{None: []string{"Sprite", "Logic", "Body", "Audio"}},
		{All: []string{"Missing"}},
	}
	for _, c := range criteria {
		got := ids(store.Select(c))
		want := bruteForce(store, c)
		if !slices.Equal(got, want) {
			t.Errorf("criteria %+v: Select returned %v, brute force %v", c, got, want)
		}
		if !slices.IsSorted(got) {
			t.Errorf("criteria %+v: results not sorted: %v", c, got)
		}
	}
}

func TestSelectExcludesInactive(t *testing.T) {
	store := ecs.NewStore()
	active := spawn(t, store, "on", "Logic")
	inactive := spawn(t, store, "off", "Logic")
	inactive.Active = false

	assert.Equal(t, []ecs.EntityID{active.ID}, ids(store.Select(ecs.Criteria{All: []string{"Logic"}})))
	assert.False(t, store.Matches(inactive, ecs.Criteria{}))
	assert.False(t, store.Matches(nil, ecs.Criteria{}))

	inactive.Active = true
	assert.Len(t, store.Select(ecs.Criteria{All: []string{"Logic"}}), 2)
}

func TestQueryIter(t *testing.T) {
	store := ecs.NewStore()
	spawn(t, store, "a", "Sprite")
	spawn(t, store, "b", "Sprite", "Hidden")
	spawn(t, store, "c")

	q := ecs.NewQuery(store, ecs.Criteria{All: []string{"Sprite"}, None: []string{"Hidden"}})
	var names []string
	for e := range q.Iter() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"a"}, names)
	assert.Equal(t, 1, q.Count())

	// Breaking out early stops iteration.
	count := 0
	for range ecs.NewQuery(store, ecs.Criteria{}).Iter() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}
