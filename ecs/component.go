package ecs

// RuntimeComponent is typed data attached to an entity. EntityID and Type are fixed
// for the component's lifetime; Data is an author-defined payload whose shape
// depends on Type.
type RuntimeComponent struct {
	EntityID EntityID `json:"entityId" yaml:"entityId"`
	Type     string   `json:"type" yaml:"type"`
	Data     any      `json:"data,omitempty" yaml:"data,omitempty"`

	// ExecutionState is scratch space for systems (timers, progress). It is not
	// part of the authored data.
	ExecutionState map[string]any `json:"-" yaml:"-"`
}

// NewComponent creates a component of the given type for an entity.
func NewComponent(entityID EntityID, componentType string, data any) *RuntimeComponent {
	return &RuntimeComponent{
		EntityID: entityID,
		Type:     componentType,
		Data:     data,
	}
}

// State returns the execution state bag, creating it on first use.
func (c *RuntimeComponent) State() map[string]any {
	if c.ExecutionState == nil {
		c.ExecutionState = make(map[string]any)
	}
	return c.ExecutionState
}
