package ecs

// Contact describes one collision contact reported by the physics collaborator.
type Contact struct {
	OtherID  EntityID `json:"otherId" yaml:"otherId"`
	OtherTag string   `json:"otherTag,omitempty" yaml:"otherTag,omitempty"`
	SelfTag  string   `json:"selfTag,omitempty" yaml:"selfTag,omitempty"`
	OverlapX float64  `json:"overlapX,omitempty" yaml:"overlapX,omitempty"`
	OverlapY float64  `json:"overlapY,omitempty" yaml:"overlapY,omitempty"`
	NormalX  float64  `json:"normalX,omitempty" yaml:"normalX,omitempty"`
	NormalY  float64  `json:"normalY,omitempty" yaml:"normalY,omitempty"`
}

// Collisions is the contact state of one entity. Entered and Exited are only
// valid for the frame in which they were recorded.
type Collisions struct {
	Current  []Contact
	Entered  []Contact
	Exited   []Contact
	Grounded bool
}

func (c *Collisions) indexOf(other EntityID) int {
	for i := range c.Current {
		if c.Current[i].OtherID == other {
			return i
		}
	}
	return -1
}

func (c *Collisions) updateGrounded(groundTags map[string]struct{}) {
	c.Grounded = false
	for _, contact := range c.Current {
		if _, ok := groundTags[contact.OtherTag]; ok {
			c.Grounded = true
			return
		}
	}
}

// maxPendingSignals bounds the undrained inbox of an entity nobody drains.
const maxPendingSignals = 256

// Signals are entity scoped flags used for rule to rule communication.
type Signals struct {
	Flags  map[string]bool
	Values map[string]any

	inbox []string
}

// Set raises a signal and records its value. Each Set is delivered once to
// OnSignalReceive rules through Drain.
func (s *Signals) Set(name string, value any) {
	if s.Flags == nil {
		s.Flags = make(map[string]bool)
		s.Values = make(map[string]any)
	}
	s.Flags[name] = true
	s.Values[name] = Normalize(value)
	if len(s.inbox) >= maxPendingSignals {
		s.inbox = s.inbox[1:]
	}
	s.inbox = append(s.inbox, name)
}

// Clear lowers a signal. The last value is kept.
func (s *Signals) Clear(name string) {
	if s.Flags != nil {
		s.Flags[name] = false
	}
}

// IsSet reports whether name is raised.
func (s *Signals) IsSet(name string) bool {
	return s.Flags[name]
}

// Value returns the last value recorded for name.
func (s *Signals) Value(name string) (any, bool) {
	v, ok := s.Values[name]
	return v, ok
}

// Drain returns the names raised since the last Drain, in order.
func (s *Signals) Drain() []string {
	out := s.inbox
	s.inbox = nil
	return out
}

// Pending reports how many raised signals have not been drained.
func (s *Signals) Pending() int {
	return len(s.inbox)
}

// EntityRuntimeContext is transient per-entity state that is not authored.
type EntityRuntimeContext struct {
	Collisions Collisions
	Signals    Signals
}

func (ctx *EntityRuntimeContext) beginFrame() {
	ctx.Collisions.Entered = nil
	ctx.Collisions.Exited = nil
}
