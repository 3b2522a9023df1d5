package ecs

import (
	"iter"
	"slices"

	"github.com/kamstrup/intmap"
)

// Store holds every live entity and component. It is the single shared state
// root for a running scene; Systems read and write it directly on the frame
// goroutine.
type Store struct {
	entities           *intmap.Map[EntityID, *RuntimeEntity]
	order              []EntityID
	componentsByType   map[string][]*RuntimeComponent
	componentsByEntity *intmap.Map[EntityID, []*RuntimeComponent]
	entityVariables    *intmap.Map[EntityID, Variables]
	contexts           *intmap.Map[EntityID, *EntityRuntimeContext]
	contextOrder       []EntityID
	globals            Variables
	groundTags         map[string]struct{}
	nextID             EntityID
}

// NewStore creates an empty store. The ground tag set defaults to "ground".
func NewStore() *Store {
	return &Store{
		entities:           intmap.New[EntityID, *RuntimeEntity](256),
		componentsByType:   make(map[string][]*RuntimeComponent),
		componentsByEntity: intmap.New[EntityID, []*RuntimeComponent](256),
		entityVariables:    intmap.New[EntityID, Variables](256),
		contexts:           intmap.New[EntityID, *EntityRuntimeContext](64),
		globals:            make(Variables),
		groundTags:         map[string]struct{}{"ground": {}},
		nextID:             1,
	}
}

// SetGroundTags replaces the set of contact tags that make an entity grounded.
func (s *Store) SetGroundTags(tags ...string) {
	s.groundTags = make(map[string]struct{}, len(tags))
	for _, t := range tags {
		s.groundTags[t] = struct{}{}
	}
	for _, id := range s.contextOrder {
		if ctx, ok := s.contexts.Get(id); ok {
			ctx.Collisions.updateGrounded(s.groundTags)
		}
	}
}

// ReserveID hands out the next entity ID without registering anything.
func (s *Store) ReserveID() EntityID {
	id := s.nextID
	s.nextID++
	return id
}

// RegisterEntity adds an entity. A zero ID is assigned from the sequence. The
// entity's authored variables seed its runtime variables. Registering an ID that
// is already live is a no-op and returns false.
func (s *Store) RegisterEntity(e *RuntimeEntity) bool {
	if e.ID == 0 {
		e.ID = s.ReserveID()
	} else if e.ID >= s.nextID {
		s.nextID = e.ID + 1
	}
	if _, exists := s.entities.Get(e.ID); exists {
		return false
	}

	s.entities.Put(e.ID, e)
	idx, _ := slices.BinarySearch(s.order, e.ID)
	s.order = slices.Insert(s.order, idx, e.ID)

	if len(e.Variables) > 0 {
		s.entityVariables.Put(e.ID, VariablesFrom(e.Variables))
	}
	return true
}

// UnregisterEntity removes an entity together with its components, variables and
// runtime context.
func (s *Store) UnregisterEntity(id EntityID) {
	if _, ok := s.entities.Get(id); !ok {
		return
	}

	if comps, ok := s.componentsByEntity.Get(id); ok {
		for _, c := range comps {
			s.removeFromType(c)
		}
		s.componentsByEntity.Del(id)
	}

	s.entityVariables.Del(id)
	if s.contexts.Del(id) {
		if idx, found := slices.BinarySearch(s.contextOrder, id); found {
			s.contextOrder = slices.Delete(s.contextOrder, idx, idx+1)
		}
	}

	s.entities.Del(id)
	if idx, found := slices.BinarySearch(s.order, id); found {
		s.order = slices.Delete(s.order, idx, idx+1)
	}
}

// Entity returns the live entity with the given ID, or nil.
func (s *Store) Entity(id EntityID) *RuntimeEntity {
	e, _ := s.entities.Get(id)
	return e
}

// HasEntity reports whether id is live.
func (s *Store) HasEntity(id EntityID) bool {
	_, ok := s.entities.Get(id)
	return ok
}

// EntityIDs returns a snapshot of live IDs in ascending order.
func (s *Store) EntityIDs() []EntityID {
	return slices.Clone(s.order)
}

// Entities iterates live entities in ascending ID order.
func (s *Store) Entities() iter.Seq[*RuntimeEntity] {
	return func(yield func(*RuntimeEntity) bool) {
		for _, id := range s.EntityIDs() {
			e, ok := s.entities.Get(id)
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// EntityCount returns the number of live entities.
func (s *Store) EntityCount() int {
	return len(s.order)
}

// FindByName returns the lowest-ID live entity with the given name.
func (s *Store) FindByName(name string) *RuntimeEntity {
	for _, id := range s.order {
		if e, ok := s.entities.Get(id); ok && e.Name == name {
			return e
		}
	}
	return nil
}

// RegisterComponent attaches a component to its entity. Components for unknown
// entities are rejected so the per-entity index never outlives the entity.
func (s *Store) RegisterComponent(c *RuntimeComponent) bool {
	if _, ok := s.entities.Get(c.EntityID); !ok {
		return false
	}
	s.componentsByType[c.Type] = append(s.componentsByType[c.Type], c)
	comps, _ := s.componentsByEntity.Get(c.EntityID)
	s.componentsByEntity.Put(c.EntityID, append(comps, c))
	return true
}

// UnregisterComponent detaches one specific component.
func (s *Store) UnregisterComponent(c *RuntimeComponent) {
	if !s.removeFromType(c) {
		return
	}
	comps, _ := s.componentsByEntity.Get(c.EntityID)
	if idx := slices.Index(comps, c); idx >= 0 {
		comps = slices.Delete(comps, idx, idx+1)
	}
	if len(comps) == 0 {
		s.componentsByEntity.Del(c.EntityID)
		return
	}
	s.componentsByEntity.Put(c.EntityID, comps)
}

// RemoveComponentsOfType detaches every component of the given type from an entity.
func (s *Store) RemoveComponentsOfType(id EntityID, componentType string) int {
	removed := 0
	for _, c := range s.EntityComponents(id) {
		if c.Type == componentType {
			s.UnregisterComponent(c)
			removed++
		}
	}
	return removed
}

func (s *Store) removeFromType(c *RuntimeComponent) bool {
	list := s.componentsByType[c.Type]
	idx := slices.Index(list, c)
	if idx < 0 {
		return false
	}
	list = slices.Delete(list, idx, idx+1)
	if len(list) == 0 {
		delete(s.componentsByType, c.Type)
	} else {
		s.componentsByType[c.Type] = list
	}
	return true
}

// AllComponentsOfType returns a snapshot of every component with the given type.
func (s *Store) AllComponentsOfType(componentType string) []*RuntimeComponent {
	return slices.Clone(s.componentsByType[componentType])
}

// EntityComponents returns a snapshot of an entity's components in attach order.
func (s *Store) EntityComponents(id EntityID) []*RuntimeComponent {
	comps, _ := s.componentsByEntity.Get(id)
	return slices.Clone(comps)
}

// ComponentsOf returns an entity's components of one type in attach order.
func (s *Store) ComponentsOf(id EntityID, componentType string) []*RuntimeComponent {
	comps, _ := s.componentsByEntity.Get(id)
	var out []*RuntimeComponent
	for _, c := range comps {
		if c.Type == componentType {
			out = append(out, c)
		}
	}
	return out
}

// HasComponent reports whether an entity has at least one component of the type.
func (s *Store) HasComponent(id EntityID, componentType string) bool {
	comps, _ := s.componentsByEntity.Get(id)
	for _, c := range comps {
		if c.Type == componentType {
			return true
		}
	}
	return false
}

// ComponentTypes lists the distinct component types attached to an entity.
func (s *Store) ComponentTypes(id EntityID) []string {
	comps, _ := s.componentsByEntity.Get(id)
	var out []string
	for _, c := range comps {
		if !slices.Contains(out, c.Type) {
			out = append(out, c.Type)
		}
	}
	return out
}

// SetEntityVariable writes an entity variable, creating the entity's scope on the
// first write. Writes to unknown entities are dropped.
func (s *Store) SetEntityVariable(id EntityID, name string, value any) {
	if _, ok := s.entities.Get(id); !ok {
		return
	}
	vars, ok := s.entityVariables.Get(id)
	if !ok {
		vars = make(Variables)
		s.entityVariables.Put(id, vars)
	}
	vars.Set(name, value)
}

// DeclareEntityVariable creates or replaces an entity variable with an explicit type.
func (s *Store) DeclareEntityVariable(id EntityID, name string, t VarType, value any) {
	if _, ok := s.entities.Get(id); !ok {
		return
	}
	vars, ok := s.entityVariables.Get(id)
	if !ok {
		vars = make(Variables)
		s.entityVariables.Put(id, vars)
	}
	vars[name] = NewVariable(name, t, value)
}

// EntityVariable returns the named variable of an entity, or nil.
func (s *Store) EntityVariable(id EntityID, name string) *RuntimeVariable {
	vars, ok := s.entityVariables.Get(id)
	if !ok {
		return nil
	}
	return vars[name]
}

// EntityVariables returns the entity's variable scope, or nil when it has none.
func (s *Store) EntityVariables(id EntityID) Variables {
	vars, _ := s.entityVariables.Get(id)
	return vars
}

// SetVariable writes a global variable.
func (s *Store) SetVariable(name string, value any) {
	s.globals.Set(name, value)
}

// DeclareVariable creates or replaces a global variable with an explicit type.
func (s *Store) DeclareVariable(name string, t VarType, value any) {
	s.globals[name] = NewVariable(name, t, value)
}

// Variable returns a global variable, or nil.
func (s *Store) Variable(name string) *RuntimeVariable {
	return s.globals[name]
}

// Globals exposes the global variable scope.
func (s *Store) Globals() Variables {
	return s.globals
}

// Context returns the runtime context of a live entity, creating it on first
// access. It returns nil for unknown entities.
func (s *Store) Context(id EntityID) *EntityRuntimeContext {
	if ctx, ok := s.contexts.Get(id); ok {
		return ctx
	}
	if _, ok := s.entities.Get(id); !ok {
		return nil
	}
	ctx := &EntityRuntimeContext{}
	s.contexts.Put(id, ctx)
	idx, _ := slices.BinarySearch(s.contextOrder, id)
	s.contextOrder = slices.Insert(s.contextOrder, idx, id)
	return ctx
}

// PeekContext returns the runtime context without creating one.
func (s *Store) PeekContext(id EntityID) *EntityRuntimeContext {
	ctx, _ := s.contexts.Get(id)
	return ctx
}

// RecordCollisionEnter registers a new contact for an entity.
func (s *Store) RecordCollisionEnter(id EntityID, contact Contact) {
	ctx := s.Context(id)
	if ctx == nil {
		return
	}
	c := &ctx.Collisions
	if idx := c.indexOf(contact.OtherID); idx >= 0 {
		c.Current[idx] = contact
	} else {
		c.Current = append(c.Current, contact)
	}
	c.Entered = append(c.Entered, contact)
	c.updateGrounded(s.groundTags)
}

// RecordCollisionStay refreshes an ongoing contact.
func (s *Store) RecordCollisionStay(id EntityID, contact Contact) {
	ctx := s.Context(id)
	if ctx == nil {
		return
	}
	c := &ctx.Collisions
	if idx := c.indexOf(contact.OtherID); idx >= 0 {
		c.Current[idx] = contact
	} else {
		c.Current = append(c.Current, contact)
	}
	c.updateGrounded(s.groundTags)
}

// RecordCollisionExit ends a contact.
func (s *Store) RecordCollisionExit(id EntityID, contact Contact) {
	ctx := s.Context(id)
	if ctx == nil {
		return
	}
	c := &ctx.Collisions
	if idx := c.indexOf(contact.OtherID); idx >= 0 {
		if contact.OtherTag == "" {
			contact.OtherTag = c.Current[idx].OtherTag
		}
		c.Current = slices.Delete(c.Current, idx, idx+1)
	}
	c.Exited = append(c.Exited, contact)
	c.updateGrounded(s.groundTags)
}

// beginFrame resets the edge-triggered collision lists of every context.
func (s *Store) beginFrame() {
	for _, id := range s.contextOrder {
		if ctx, ok := s.contexts.Get(id); ok {
			ctx.beginFrame()
		}
	}
}

// StoreStats summarizes store contents for inspectors and reports.
type StoreStats struct {
	EntityCount    int
	ActiveCount    int
	ComponentCount int
	ContextCount   int
	GlobalCount    int
	ComponentTypes map[string]int
}

// CollectStats walks the store and returns counts.
func (s *Store) CollectStats() StoreStats {
	stats := StoreStats{
		EntityCount:    len(s.order),
		ContextCount:   len(s.contextOrder),
		GlobalCount:    len(s.globals),
		ComponentTypes: make(map[string]int, len(s.componentsByType)),
	}
	for _, id := range s.order {
		if e, ok := s.entities.Get(id); ok && e.Active {
			stats.ActiveCount++
		}
	}
	for t, list := range s.componentsByType {
		stats.ComponentTypes[t] = len(list)
		stats.ComponentCount += len(list)
	}
	return stats
}
