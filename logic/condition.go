package logic

// Condition is a predicate of a rule. The set of conditions is closed; each
// concrete type carries only the fields it needs.
type Condition interface {
	Kind() string
	isCondition()
}

// CompareOp is the comparison of a variable condition.
type CompareOp string

const (
	OpEquals         CompareOp = "Equals"
	OpNotEquals      CompareOp = "NotEquals"
	OpGreater        CompareOp = "Greater"
	OpGreaterOrEqual CompareOp = "GreaterOrEqual"
	OpLess           CompareOp = "Less"
	OpLessOrEqual    CompareOp = "LessOrEqual"
)

var compareOps = []CompareOp{OpEquals, OpNotEquals, OpGreater, OpGreaterOrEqual, OpLess, OpLessOrEqual}

// VarCompare compares a variable against a literal. Its kind is "Var" followed
// by the operator, for example "VarLessOrEqual".
type VarCompare struct {
	Op     CompareOp `json:"-" yaml:"-"`
	Name   string    `json:"name" yaml:"name"`
	Scope  Scope     `json:"scope,omitempty" yaml:"scope,omitempty"`
	Entity string    `json:"entity,omitempty" yaml:"entity,omitempty"`
	Value  any       `json:"value" yaml:"value"`
}

// IsGrounded holds while the entity touches a ground-tagged contact.
type IsGrounded struct{}

// IsAlive holds while the health variable is above zero. Entities without the
// variable count as alive.
type IsAlive struct {
	Variable string `json:"variable,omitempty" yaml:"variable,omitempty"`
}

// KeyPressed holds while the named input key is down.
type KeyPressed struct {
	Key string `json:"key" yaml:"key"`
}

// SignalSet holds while the named signal is raised on the entity.
type SignalSet struct {
	Signal string `json:"signal" yaml:"signal"`
}

// SignalEquals holds when the last value of a signal equals Value.
type SignalEquals struct {
	Signal string `json:"signal" yaml:"signal"`
	Value  any    `json:"value" yaml:"value"`
}

// HasTag holds when the entity carries Tag.
type HasTag struct {
	Tag string `json:"tag" yaml:"tag"`
}

// IsColliding holds while the entity has a current contact, optionally with a tag.
type IsColliding struct {
	Tag string `json:"tag,omitempty" yaml:"tag,omitempty"`
}

// Always is a condition that always holds.
type Always struct{}

func (c *VarCompare) Kind() string   { return "Var" + string(c.Op) }
func (c *IsGrounded) Kind() string   { return "IsGrounded" }
func (c *IsAlive) Kind() string      { return "IsAlive" }
func (c *KeyPressed) Kind() string   { return "KeyPressed" }
func (c *SignalSet) Kind() string    { return "SignalSet" }
func (c *SignalEquals) Kind() string { return "SignalEquals" }
func (c *HasTag) Kind() string       { return "HasTag" }
func (c *IsColliding) Kind() string  { return "IsColliding" }
func (c *Always) Kind() string       { return "Always" }

func (*VarCompare) isCondition()   {}
func (*IsGrounded) isCondition()   {}
func (*IsAlive) isCondition()      {}
func (*KeyPressed) isCondition()   {}
func (*SignalSet) isCondition()    {}
func (*SignalEquals) isCondition() {}
func (*HasTag) isCondition()       {}
func (*IsColliding) isCondition()  {}
func (*Always) isCondition()       {}

// newCondition returns an empty condition for a kind tag.
func newCondition(kind string) (Condition, bool) {
	switch kind {
	case "IsGrounded":
		return &IsGrounded{}, true
	case "IsAlive":
		return &IsAlive{}, true
	case "KeyPressed":
		return &KeyPressed{}, true
	case "SignalSet":
		return &SignalSet{}, true
	case "SignalEquals":
		return &SignalEquals{}, true
	case "HasTag":
		return &HasTag{}, true
	case "IsColliding":
		return &IsColliding{}, true
	case "Always":
		return &Always{}, true
	}
	for _, op := range compareOps {
		if kind == "Var"+string(op) {
			return &VarCompare{Op: op}, true
		}
	}
	return nil, false
}
