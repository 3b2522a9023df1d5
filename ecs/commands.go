package ecs

// CommandKind tags a deferred command. The numeric order is the order in which
// kinds are applied.
type CommandKind uint8

const (
	CommandCreateEntity CommandKind = iota
	CommandAddComponent
	CommandSetEntityVariable
	CommandRemoveComponent
	CommandDestroyEntity
	CommandDefer

	commandKindCount
)

func (k CommandKind) String() string {
	switch k {
	case CommandCreateEntity:
		return "create"
	case CommandAddComponent:
		return "add-component"
	case CommandSetEntityVariable:
		return "set-variable"
	case CommandRemoveComponent:
		return "remove-component"
	case CommandDestroyEntity:
		return "destroy"
	case CommandDefer:
		return "defer"
	default:
		return "unknown"
	}
}

// Command is one deferred structural change.
type Command struct {
	Kind          CommandKind
	EntityID      EntityID
	Entity        *RuntimeEntity
	Component     *RuntimeComponent
	ComponentType string
	Name          string
	Value         any
	Fn            func()
}

// DestroyHook runs while an entity is being destroyed, before anything is removed.
type DestroyHook func(e *RuntimeEntity)

// Commands buffers structural changes made during a frame so that systems never
// mutate the store's indices while iterating it.
type Commands struct {
	store *Store
	list  []Command
}

func newCommands(store *Store) *Commands {
	return &Commands{store: store}
}

// CreateEntity queues e for registration and returns the ID it will have. Later
// commands in the same frame may target that ID.
func (c *Commands) CreateEntity(e *RuntimeEntity) EntityID {
	if e.ID == 0 {
		e.ID = c.store.ReserveID()
	}
	c.list = append(c.list, Command{Kind: CommandCreateEntity, EntityID: e.ID, Entity: e})
	return e.ID
}

// AddComponent queues a component attachment.
func (c *Commands) AddComponent(comp *RuntimeComponent) {
	c.list = append(c.list, Command{Kind: CommandAddComponent, EntityID: comp.EntityID, Component: comp})
}

// SetEntityVariable queues an entity variable write.
func (c *Commands) SetEntityVariable(id EntityID, name string, value any) {
	c.list = append(c.list, Command{Kind: CommandSetEntityVariable, EntityID: id, Name: name, Value: value})
}

// RemoveComponent queues removal of every component of componentType on an entity.
func (c *Commands) RemoveComponent(id EntityID, componentType string) {
	c.list = append(c.list, Command{Kind: CommandRemoveComponent, EntityID: id, ComponentType: componentType})
}

// DestroyEntity queues an entity for destruction.
func (c *Commands) DestroyEntity(id EntityID) {
	c.list = append(c.list, Command{Kind: CommandDestroyEntity, EntityID: id})
}

// Defer queues a function to run after all structural changes of the batch.
func (c *Commands) Defer(fn func()) {
	c.list = append(c.list, Command{Kind: CommandDefer, Fn: fn})
}

// Len returns the number of queued commands.
func (c *Commands) Len() int {
	return len(c.list)
}

// Pending returns a copy of the queued commands in submission order.
func (c *Commands) Pending() []Command {
	out := make([]Command, len(c.list))
	copy(out, c.list)
	return out
}

// FlushResult counts the applied commands per kind.
type FlushResult [commandKindCount]int

// Total returns the number of applied commands.
func (r FlushResult) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

// Flush applies the queued commands to the store, grouped by kind in CommandKind
// order: creates, component adds, variable writes, component removals, destroys,
// then deferred functions. Within a kind the submission order is kept. Commands
// queued while flushing are kept for the next flush.
func (c *Commands) Flush(hooks []DestroyHook) FlushResult {
	var result FlushResult
	if len(c.list) == 0 {
		return result
	}

	batch := c.list
	c.list = nil

	var buckets [commandKindCount][]int
	for i := range batch {
		k := batch[i].Kind
		buckets[k] = append(buckets[k], i)
	}

	store := c.store
	for kind := CommandKind(0); kind < commandKindCount; kind++ {
		for _, i := range buckets[kind] {
			cmd := &batch[i]
			switch kind {
			case CommandCreateEntity:
				if store.RegisterEntity(cmd.Entity) {
					result[kind]++
				}
			case CommandAddComponent:
				if store.RegisterComponent(cmd.Component) {
					result[kind]++
				}
			case CommandSetEntityVariable:
				if store.HasEntity(cmd.EntityID) {
					store.SetEntityVariable(cmd.EntityID, cmd.Name, cmd.Value)
					result[kind]++
				}
			case CommandRemoveComponent:
				if store.RemoveComponentsOfType(cmd.EntityID, cmd.ComponentType) > 0 {
					result[kind]++
				}
			case CommandDestroyEntity:
				e := store.Entity(cmd.EntityID)
				if e == nil {
					continue
				}
				for _, hook := range hooks {
					hook(e)
				}
				store.UnregisterEntity(cmd.EntityID)
				result[kind]++
			case CommandDefer:
				if cmd.Fn != nil {
					cmd.Fn()
					result[kind]++
				}
			}
		}
	}

	return result
}
