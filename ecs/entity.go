package ecs

// EntityID identifies a runtime entity. IDs are assigned by the Store in increasing
// order and are never reused, so a stale ID simply resolves to nothing.
type EntityID uint64

// Transform holds an entity's spatial state. Systems mutate it in place during a frame.
type Transform struct {
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Z         float64 `json:"z" yaml:"z"`
	Rotation  float64 `json:"rotation" yaml:"rotation"`
	RotationX float64 `json:"rotationX" yaml:"rotationX"`
	RotationY float64 `json:"rotationY" yaml:"rotationY"`
	ScaleX    float64 `json:"scaleX" yaml:"scaleX"`
	ScaleY    float64 `json:"scaleY" yaml:"scaleY"`
	ScaleZ    float64 `json:"scaleZ" yaml:"scaleZ"`
}

// DefaultTransform returns the identity transform at the origin.
func DefaultTransform() Transform {
	return Transform{ScaleX: 1, ScaleY: 1, ScaleZ: 1}
}

// EditorVariable is the authored snapshot of an entity variable. It seeds the
// entity's runtime variables when the entity is registered.
type EditorVariable struct {
	Name  string  `json:"name" yaml:"name"`
	Type  VarType `json:"type" yaml:"type"`
	Value any     `json:"value" yaml:"value"`
}

// RuntimeEntity is a live entity owned by the Store.
type RuntimeEntity struct {
	ID        EntityID         `json:"id" yaml:"id"`
	Name      string           `json:"name" yaml:"name"`
	Transform Transform        `json:"transform" yaml:"transform"`
	Active    bool             `json:"active" yaml:"active"`
	Role      string           `json:"role,omitempty" yaml:"role,omitempty"`
	Variables []EditorVariable `json:"variables,omitempty" yaml:"variables,omitempty"`
	Tags      []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// NewEntity creates an active entity with the identity transform. The ID is
// assigned when the entity is registered.
func NewEntity(name string) *RuntimeEntity {
	return &RuntimeEntity{
		Name:      name,
		Transform: DefaultTransform(),
		Active:    true,
	}
}

// HasTag reports whether the entity carries the given tag.
func (e *RuntimeEntity) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
