package ecs

import (
	"iter"
	"slices"
)

// Criteria selects entities by the component types they carry.
type Criteria struct {
	All  []string `json:"all,omitempty" yaml:"all,omitempty"`
	Any  []string `json:"any,omitempty" yaml:"any,omitempty"`
	None []string `json:"none,omitempty" yaml:"none,omitempty"`
}

// Matches reports whether an active entity satisfies the criteria. Inactive
// entities never match.
func (s *Store) Matches(e *RuntimeEntity, c Criteria) bool {
	if e == nil || !e.Active {
		return false
	}
	for _, t := range c.All {
		if !s.HasComponent(e.ID, t) {
			return false
		}
	}
	for _, t := range c.None {
		if s.HasComponent(e.ID, t) {
			return false
		}
	}
	if len(c.Any) == 0 {
		return true
	}
	for _, t := range c.Any {
		if s.HasComponent(e.ID, t) {
			return true
		}
	}
	return false
}

// Select returns the active entities matching the criteria in ascending ID order.
// With a non-empty All the candidates come from the component index of All[0];
// otherwise every entity is scanned.
func (s *Store) Select(c Criteria) []*RuntimeEntity {
	var out []*RuntimeEntity

	if len(c.All) == 0 {
		for _, id := range s.order {
			e, _ := s.entities.Get(id)
			if s.Matches(e, c) {
				out = append(out, e)
			}
		}
		return out
	}

	seed := s.componentsByType[c.All[0]]
	ids := make([]EntityID, 0, len(seed))
	for _, comp := range seed {
		ids = append(ids, comp.EntityID)
	}
	slices.Sort(ids)
	ids = slices.Compact(ids)

	for _, id := range ids {
		e, ok := s.entities.Get(id)
		if !ok {
			continue
		}
		if s.Matches(e, c) {
			out = append(out, e)
		}
	}
	return out
}

// Query is a reusable criteria bound to a store.
type Query struct {
	store    *Store
	criteria Criteria
}

// NewQuery binds criteria to a store.
func NewQuery(store *Store, criteria Criteria) *Query {
	return &Query{store: store, criteria: criteria}
}

// Iter yields the matching entities as of the call.
func (q *Query) Iter() iter.Seq[*RuntimeEntity] {
	matches := q.store.Select(q.criteria)
	return func(yield func(*RuntimeEntity) bool) {
		for _, e := range matches {
			if !yield(e) {
				return
			}
		}
	}
}

// Count returns the number of matching entities.
func (q *Query) Count() int {
	return len(q.store.Select(q.criteria))
}
