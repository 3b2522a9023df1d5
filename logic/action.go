package logic

import "github.com/plus3/ooftn-logic/ecs"

// Action is one step of a rule. The set of actions is closed.
type Action interface {
	Kind() string
	isAction()
}

// Move translates the target. With PerSecond the offset is scaled by the frame delta.
type Move struct {
	DX        float64 `json:"dx" yaml:"dx"`
	DY        float64 `json:"dy" yaml:"dy"`
	PerSecond bool    `json:"perSecond,omitempty" yaml:"perSecond,omitempty"`
	Target    string  `json:"target,omitempty" yaml:"target,omitempty"`
}

// SetPosition places the target at an absolute position.
type SetPosition struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Target string  `json:"target,omitempty" yaml:"target,omitempty"`
}

// Rotate adds Degrees to the target's rotation.
type Rotate struct {
	Degrees   float64 `json:"degrees" yaml:"degrees"`
	PerSecond bool    `json:"perSecond,omitempty" yaml:"perSecond,omitempty"`
	Target    string  `json:"target,omitempty" yaml:"target,omitempty"`
}

// SetScale sets the target's 2D scale.
type SetScale struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Target string  `json:"target,omitempty" yaml:"target,omitempty"`
}

// Enable sets the target's active flag.
type Enable struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Target  string `json:"target,omitempty" yaml:"target,omitempty"`
}

// Operation is the arithmetic of a SetVar action.
type Operation string

const (
	OpSet      Operation = "Set"
	OpAdd      Operation = "Add"
	OpSub      Operation = "Sub"
	OpMultiply Operation = "Multiply"
	OpDivide   Operation = "Divide"
)

// SetVar writes a variable. With one operand the operation applies to the
// variable's current value and A; with two it applies to A and B. Set ignores B.
type SetVar struct {
	Name      string    `json:"name" yaml:"name"`
	Scope     Scope     `json:"scope,omitempty" yaml:"scope,omitempty"`
	Target    string    `json:"target,omitempty" yaml:"target,omitempty"`
	Operation Operation `json:"operation,omitempty" yaml:"operation,omitempty"`
	A         Operand   `json:"a" yaml:"a"`
	B         *Operand  `json:"b,omitempty" yaml:"b,omitempty"`
}

// SetSignal raises a signal on the target, or on every entity with Broadcast.
type SetSignal struct {
	Signal    string `json:"signal" yaml:"signal"`
	Value     any    `json:"value,omitempty" yaml:"value,omitempty"`
	Target    string `json:"target,omitempty" yaml:"target,omitempty"`
	Broadcast bool   `json:"broadcast,omitempty" yaml:"broadcast,omitempty"`
}

// ClearSignal lowers a signal on the target.
type ClearSignal struct {
	Signal string `json:"signal" yaml:"signal"`
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// ComponentSpec is an authored component created by SpawnEntity or AddComponent.
type ComponentSpec struct {
	Type string `json:"type" yaml:"type"`
	Data any    `json:"data,omitempty" yaml:"data,omitempty"`
}

// SpawnEntity creates an entity at the end of the frame. With Relative the
// position is offset from the executing entity. Module, when set, runs on the
// new entity once it exists.
type SpawnEntity struct {
	Name       string               `json:"name" yaml:"name"`
	X          float64              `json:"x,omitempty" yaml:"x,omitempty"`
	Y          float64              `json:"y,omitempty" yaml:"y,omitempty"`
	Relative   bool                 `json:"relative,omitempty" yaml:"relative,omitempty"`
	Role       string               `json:"role,omitempty" yaml:"role,omitempty"`
	Tags       []string             `json:"tags,omitempty" yaml:"tags,omitempty"`
	Variables  []ecs.EditorVariable `json:"variables,omitempty" yaml:"variables,omitempty"`
	Components []ComponentSpec      `json:"components,omitempty" yaml:"components,omitempty"`
	Logic      []*LogicComponent    `json:"logic,omitempty" yaml:"logic,omitempty"`
	Module     string               `json:"module,omitempty" yaml:"module,omitempty"`
}

// Destroy removes the target at the end of the frame.
type Destroy struct {
	Target string `json:"target,omitempty" yaml:"target,omitempty"`
}

// AddComponent attaches a component at the end of the frame.
type AddComponent struct {
	Component ComponentSpec `json:"component" yaml:"component"`
	Target    string        `json:"target,omitempty" yaml:"target,omitempty"`
}

// RemoveComponent detaches every component of a type at the end of the frame.
type RemoveComponent struct {
	ComponentType string `json:"componentType" yaml:"componentType"`
	Target        string `json:"target,omitempty" yaml:"target,omitempty"`
}

// If runs Then when Condition holds and Else otherwise.
type If struct {
	Condition Condition  `json:"-" yaml:"-"`
	Then      ActionList `json:"-" yaml:"-"`
	Else      ActionList `json:"-" yaml:"-"`
}

// RunModule invokes a module graph from the library by id or name. Variables
// override the graph's declared module variables for this invocation. Unless
// Concurrent is set a module already suspended on the same entity is not
// started again.
type RunModule struct {
	Module     string         `json:"module" yaml:"module"`
	Variables  map[string]any `json:"variables,omitempty" yaml:"variables,omitempty"`
	Concurrent bool           `json:"concurrent,omitempty" yaml:"concurrent,omitempty"`
}

// Log writes a message to the runtime logger.
type Log struct {
	Message string `json:"message" yaml:"message"`
}

func (*Move) Kind() string            { return "Move" }
func (*SetPosition) Kind() string     { return "SetPosition" }
func (*Rotate) Kind() string          { return "Rotate" }
func (*SetScale) Kind() string        { return "SetScale" }
func (*Enable) Kind() string          { return "Enable" }
func (*SetVar) Kind() string          { return "SetVar" }
func (*SetSignal) Kind() string       { return "SetSignal" }
func (*ClearSignal) Kind() string     { return "ClearSignal" }
func (*SpawnEntity) Kind() string     { return "SpawnEntity" }
func (*Destroy) Kind() string         { return "Destroy" }
func (*AddComponent) Kind() string    { return "AddComponent" }
func (*RemoveComponent) Kind() string { return "RemoveComponent" }
func (*If) Kind() string              { return "If" }
func (*RunModule) Kind() string       { return "RunModule" }
func (*Log) Kind() string             { return "Log" }

func (*Move) isAction()            {}
func (*SetPosition) isAction()     {}
func (*Rotate) isAction()          {}
func (*SetScale) isAction()        {}
func (*Enable) isAction()          {}
func (*SetVar) isAction()          {}
func (*SetSignal) isAction()       {}
func (*ClearSignal) isAction()     {}
func (*SpawnEntity) isAction()     {}
func (*Destroy) isAction()         {}
func (*AddComponent) isAction()    {}
func (*RemoveComponent) isAction() {}
func (*If) isAction()              {}
func (*RunModule) isAction()       {}
func (*Log) isAction()             {}

func newAction(kind string) (Action, bool) {
	switch kind {
	case "Move":
		return &Move{}, true
	case "SetPosition":
		return &SetPosition{}, true
	case "Rotate":
		return &Rotate{}, true
	case "SetScale":
		return &SetScale{}, true
	case "Enable":
		return &Enable{}, true
	case "SetVar":
		return &SetVar{}, true
	case "SetSignal":
		return &SetSignal{}, true
	case "ClearSignal":
		return &ClearSignal{}, true
	case "SpawnEntity":
		return &SpawnEntity{}, true
	case "Destroy":
		return &Destroy{}, true
	case "AddComponent":
		return &AddComponent{}, true
	case "RemoveComponent":
		return &RemoveComponent{}, true
	case "If":
		return &If{}, true
	case "RunModule":
		return &RunModule{}, true
	case "Log":
		return &Log{}, true
	default:
		return nil, false
	}
}

// acceptValue merges a value produced by a module value edge into an action.
func acceptValue(a Action, v any) {
	v = ecs.Normalize(v)
	switch a := a.(type) {
	case *Move:
		if vec, ok := ecs.ToVector(v); ok {
			a.DX, a.DY = vec.X, vec.Y
		}
	case *SetPosition:
		if vec, ok := ecs.ToVector(v); ok {
			a.X, a.Y = vec.X, vec.Y
		}
	case *Rotate:
		if f, ok := ecs.ToNumber(v); ok {
			a.Degrees = f
		}
	case *Enable:
		a.Enabled = ecs.ToBool(v)
	case *SetVar:
		if a.B == nil && (a.A.Kind == "" || a.A.Kind == OperandLiteral) {
			a.A = Literal(v)
		}
	case *SetSignal:
		a.Value = v
	case *Log:
		if a.Message == "" {
			a.Message = ecs.ToString(v)
		} else {
			a.Message += " " + ecs.ToString(v)
		}
	}
}
