package ecs

// Well known key names set by input adapters.
const (
	KeyLeft  = "left"
	KeyRight = "right"
	KeyUp    = "up"
	KeyDown  = "down"
	KeyJump  = "jump"
)

// Click is a pointer click in world coordinates. Hit is set when the host has
// already resolved which entity was clicked.
type Click struct {
	X   float64  `json:"x" yaml:"x"`
	Y   float64  `json:"y" yaml:"y"`
	Hit EntityID `json:"hit,omitempty" yaml:"hit,omitempty"`
}

// InputState is the read-only input snapshot for one frame.
type InputState struct {
	Keys  map[string]bool `json:"keys,omitempty" yaml:"keys,omitempty"`
	Mouse Vector2         `json:"mouse" yaml:"mouse"`
	Click *Click          `json:"click,omitempty" yaml:"click,omitempty"`
}

// Pressed reports whether the named key is held.
func (in *InputState) Pressed(key string) bool {
	if in == nil {
		return false
	}
	return in.Keys[key]
}

func (in *InputState) Left() bool  { return in.Pressed(KeyLeft) }
func (in *InputState) Right() bool { return in.Pressed(KeyRight) }
func (in *InputState) Up() bool    { return in.Pressed(KeyUp) }
func (in *InputState) Down() bool  { return in.Pressed(KeyDown) }
func (in *InputState) Jump() bool  { return in.Pressed(KeyJump) }
