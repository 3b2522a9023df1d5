package module

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plus3/ooftn-logic/ecs"
)

// DefaultStepBudget bounds the nodes one invocation may visit in one frame.
const DefaultStepBudget = 1000

// maxValueDepth bounds recursion through chained value edges.
const maxValueDepth = 64

// MaxCallDepth bounds how deeply module invocations may start one another
// within a single walk.
const MaxCallDepth = 16

// Status is the outcome of an invocation.
type Status string

const (
	StatusSuccess   Status = "Success"
	StatusFailed    Status = "Failed"
	StatusSuspended Status = "Suspended"
)

// Error codes reported by the interpreter itself.
const (
	ErrorStepBudgetExceeded = "STEP_BUDGET_EXCEEDED"
	ErrorModuleNotFound     = "MODULE_NOT_FOUND"
	ErrorNoEntry            = "NO_ENTRY"
	ErrorRecursionLimit     = "RECURSION_LIMIT"
)

// Result reports how a walk ended. A suspended result carries the id of the
// continuation that will resume it.
type Result struct {
	Status       Status    `json:"status" yaml:"status"`
	ErrorCode    string    `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
	InvocationID uuid.UUID `json:"invocationId" yaml:"invocationId"`
}

// OK reports whether the walk completed or is still running.
func (r Result) OK() bool {
	return r.Status != StatusFailed
}

// Invocation is one running instance of a graph.
type Invocation struct {
	ID        uuid.UUID
	Graph     *Graph
	EntityID  ecs.EntityID
	Variables ecs.Variables
}

// ActionRunner executes the action named by a Flow node.
type ActionRunner interface {
	RunBlock(frame *ecs.UpdateFrame, inv *Invocation, blockType string, params map[string]any) error
}

// Continuation is a walk suspended on a Wait node.
type Continuation struct {
	Invocation   *Invocation
	NodeID       string
	Remaining    float64
	CreatedFrame uint64
}

// InterpreterStats counts invocation outcomes.
type InterpreterStats struct {
	Started      int
	Completed    int
	Failed       int
	Suspensions  int
	Resumed      int
	Cancelled    int
	BudgetFaults int
	DepthFaults  int
}

type changeKey struct {
	entity ecs.EntityID
	graph  string
	node   string
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the interpreter's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(i *Interpreter) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithStepBudget sets the per-frame step budget of a top-level invocation.
// Invocations started from inside a walk draw on the same budget.
func WithStepBudget(steps int) Option {
	return func(i *Interpreter) {
		if steps > 0 {
			i.stepBudget = steps
		}
	}
}

// Interpreter walks module graphs.
type Interpreter struct {
	library    *Library
	runner     ActionRunner
	logger     *zap.Logger
	stepBudget int

	suspended []*Continuation
	resuming  []*Continuation
	changed   map[changeKey]any
	depth     int
	steps     int
	stats     InterpreterStats
}

// NewInterpreter creates an interpreter over a graph library.
func NewInterpreter(library *Library, opts ...Option) *Interpreter {
	if library == nil {
		library = NewLibrary()
	}
	i := &Interpreter{
		library:    library,
		logger:     zap.NewNop(),
		stepBudget: DefaultStepBudget,
		changed:    make(map[changeKey]any),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// SetRunner installs the executor for Flow node blocks.
func (i *Interpreter) SetRunner(r ActionRunner) {
	i.runner = r
}

// Library returns the graph library.
func (i *Interpreter) Library() *Library {
	return i.library
}

// StepBudget returns the configured step budget.
func (i *Interpreter) StepBudget() int {
	return i.stepBudget
}

// Stats returns a copy of the outcome counters.
func (i *Interpreter) Stats() InterpreterStats {
	return i.stats
}

// Run invokes the graph with the given id or name on behalf of an entity.
// Overrides replace declared module variables for this invocation. Unless
// concurrent is set, a graph already suspended for the same entity is not
// started again and the pending invocation is reported instead.
func (i *Interpreter) Run(frame *ecs.UpdateFrame, ref string, entity ecs.EntityID, overrides map[string]any, concurrent bool) Result {
	g := i.library.Lookup(ref)
	if g == nil {
		i.logger.Debug("module not found", zap.String("module", ref), zap.Uint64("entity", uint64(entity)))
		return Result{Status: StatusFailed, ErrorCode: ErrorModuleNotFound}
	}
	return i.RunGraph(frame, g, entity, overrides, concurrent)
}

// RunGraph invokes g directly.
func (i *Interpreter) RunGraph(frame *ecs.UpdateFrame, g *Graph, entity ecs.EntityID, overrides map[string]any, concurrent bool) Result {
	if !concurrent {
		if c := i.pending(entity, g.ID); c != nil {
			return Result{Status: StatusSuspended, InvocationID: c.Invocation.ID}
		}
	}
	if i.depth >= MaxCallDepth {
		i.stats.Failed++
		i.stats.DepthFaults++
		i.logger.Warn("module call depth exceeded",
			zap.String("graph", g.ID),
			zap.Uint64("entity", uint64(entity)),
			zap.Int("depth", i.depth))
		return Result{Status: StatusFailed, ErrorCode: ErrorRecursionLimit}
	}

	inv := &Invocation{
		ID:        uuid.New(),
		Graph:     g,
		EntityID:  entity,
		Variables: g.DeclaredVariables(),
	}
	for name, v := range overrides {
		inv.Variables.Set(name, v)
	}
	i.stats.Started++

	entry := g.Entry()
	if entry == nil {
		i.stats.Failed++
		return Result{Status: StatusFailed, ErrorCode: ErrorNoEntry, InvocationID: inv.ID}
	}
	return i.walk(frame, inv, g.Next(entry.ID, PortOut))
}

// pending finds a waiting invocation, including ones not yet reached by an
// in-progress Resume.
func (i *Interpreter) pending(entity ecs.EntityID, graphID string) *Continuation {
	for _, list := range [][]*Continuation{i.suspended, i.resuming} {
		for _, c := range list {
			if c.Invocation.EntityID == entity && c.Invocation.Graph.ID == graphID {
				return c
			}
		}
	}
	return nil
}

// walk follows flow edges from nodeID until the graph stops, runs out of
// edges, suspends, or exhausts the step budget. A nested walk counts its
// steps against the outermost one.
func (i *Interpreter) walk(frame *ecs.UpdateFrame, inv *Invocation, nodeID string) Result {
	if i.depth == 0 {
		i.steps = 0
	}
	i.depth++
	defer func() { i.depth-- }()

	g := inv.Graph
	for nodeID != "" {
		i.steps++
		if i.steps > i.stepBudget {
			i.stats.Failed++
			i.stats.BudgetFaults++
			i.logger.Warn("module step budget exceeded",
				zap.String("graph", g.ID),
				zap.Uint64("entity", uint64(inv.EntityID)),
				zap.Int("budget", i.stepBudget))
			return Result{Status: StatusFailed, ErrorCode: ErrorStepBudgetExceeded, InvocationID: inv.ID}
		}

		n := g.Node(nodeID)
		if n == nil {
			break
		}

		switch n.Kind {
		case NodeEntry, NodeMerge:
			nodeID = g.Next(n.ID, PortOut)

		case NodeFlow:
			params := i.params(frame, inv, n)
			if n.BlockType == BlockWait {
				if d := waitDuration(params); d > 0 {
					i.suspend(frame, inv, n, d)
					return Result{Status: StatusSuspended, InvocationID: inv.ID}
				}
			} else if i.runner != nil {
				if err := i.runner.RunBlock(frame, inv, n.BlockType, params); err != nil {
					i.logger.Debug("module block skipped",
						zap.String("graph", g.ID),
						zap.String("node", n.ID),
						zap.String("block", n.BlockType),
						zap.Error(err))
				}
			}
			nodeID = g.Next(n.ID, PortOut)

		case NodeCondition:
			if i.test(frame, inv, n, 0) {
				nodeID = g.Next(n.ID, PortTrue)
			} else {
				nodeID = g.Next(n.ID, PortFalse)
			}

		case NodeSwitch:
			nodeID = g.Next(n.ID, i.route(frame, inv, n))

		case NodeStop:
			if n.Result == ResultFailed {
				i.stats.Failed++
				return Result{Status: StatusFailed, ErrorCode: n.ErrorCode, InvocationID: inv.ID}
			}
			nodeID = ""

		default:
			nodeID = ""
		}
	}
	i.stats.Completed++
	return Result{Status: StatusSuccess, InvocationID: inv.ID}
}

// params copies a Flow node's params and merges its resolved value input.
func (i *Interpreter) params(frame *ecs.UpdateFrame, inv *Invocation, n *Node) map[string]any {
	params := make(map[string]any, len(n.Params)+1)
	for k, v := range n.Params {
		params[k] = v
	}
	if v, ok := i.input(frame, inv, n, PortValue, 0); ok {
		params["value"] = v
	}
	return params
}

func waitDuration(params map[string]any) float64 {
	for _, key := range []string{"value", "duration", "seconds"} {
		if v, ok := params[key]; ok {
			if f, ok := ecs.ToNumber(ecs.Normalize(v)); ok {
				return f
			}
		}
	}
	return 0
}

// input resolves the value edge bound to a node's port.
func (i *Interpreter) input(frame *ecs.UpdateFrame, inv *Invocation, n *Node, port string, depth int) (any, bool) {
	e, ok := inv.Graph.Input(n.ID, port)
	if !ok || depth >= maxValueDepth {
		return nil, false
	}
	src := inv.Graph.Node(e.FromNodeID)
	if src == nil {
		return nil, false
	}
	return i.produce(frame, inv, src, depth+1), true
}

// produce evaluates a node used as a value source.
func (i *Interpreter) produce(frame *ecs.UpdateFrame, inv *Invocation, n *Node, depth int) any {
	switch n.Kind {
	case NodeValue:
		if n.Variable != "" {
			if v, ok := i.variable(frame, inv, n.Variable); ok {
				return v
			}
		}
		return ecs.Normalize(n.Literal)
	case NodeCondition:
		return i.test(frame, inv, n, depth)
	default:
		return nil
	}
}

// variable reads module variables, then the invoking entity's, then globals.
func (i *Interpreter) variable(frame *ecs.UpdateFrame, inv *Invocation, name string) (any, bool) {
	if v, ok := inv.Variables.Get(name); ok {
		return v, true
	}
	if frame == nil || frame.Store == nil {
		return nil, false
	}
	if v := frame.Store.EntityVariable(inv.EntityID, name); v != nil {
		return v.Value, true
	}
	if v := frame.Store.Variable(name); v != nil {
		return v.Value, true
	}
	return nil, false
}

func (i *Interpreter) test(frame *ecs.UpdateFrame, inv *Invocation, n *Node, depth int) bool {
	left, ok := i.input(frame, inv, n, PortLeft, depth)
	if !ok {
		if n.Variable != "" {
			left, _ = i.variable(frame, inv, n.Variable)
		} else {
			left = n.Left
		}
	}
	left = ecs.Normalize(left)

	if n.Comparison == IfVariableChanged {
		if left == nil {
			left = 0
		}
		key := changeKey{entity: inv.EntityID, graph: inv.Graph.ID, node: n.ID}
		prev, seen := i.changed[key]
		i.changed[key] = left
		return seen && !ecs.Equal(prev, left)
	}

	right, ok := i.input(frame, inv, n, PortRight, depth)
	if !ok {
		right = n.Right
	}
	right = ecs.Normalize(right)

	switch {
	case left == nil && right == nil:
		left, right = 0, 0
	case left == nil:
		left = ecs.Zero(ecs.InferType(right))
	case right == nil:
		right = ecs.Zero(ecs.InferType(left))
	}

	switch n.Comparison {
	case IfVariableEquals:
		return ecs.Equal(left, right)
	case IfVariableGreaterThan:
		c, ok := ecs.Compare(left, right)
		return ok && c > 0
	case IfVariableLessThan:
		c, ok := ecs.Compare(left, right)
		return ok && c < 0
	default:
		return false
	}
}

// route picks the flow-out port of a Switch node.
func (i *Interpreter) route(frame *ecs.UpdateFrame, inv *Invocation, n *Node) string {
	v, ok := i.input(frame, inv, n, PortValue, 0)
	if !ok && n.Variable != "" {
		v, _ = i.variable(frame, inv, n.Variable)
	}
	for idx, c := range n.Cases {
		if ecs.Equal(v, c.Value) {
			return n.CasePort(idx)
		}
	}
	return PortDefault
}

func (i *Interpreter) suspend(frame *ecs.UpdateFrame, inv *Invocation, n *Node, d float64) {
	var created uint64
	if frame != nil {
		created = frame.Number
	}
	i.suspended = append(i.suspended, &Continuation{
		Invocation:   inv,
		NodeID:       n.ID,
		Remaining:    d,
		CreatedFrame: created,
	})
	i.stats.Suspensions++
}

// Resume advances every suspended walk by the frame delta and continues those
// whose wait has elapsed. Walks suspended during this frame are not advanced.
func (i *Interpreter) Resume(frame *ecs.UpdateFrame) []Result {
	if len(i.suspended) == 0 {
		return nil
	}
	due := i.suspended
	i.suspended = nil
	defer func() { i.resuming = nil }()

	var results []Result
	for idx, c := range due {
		i.resuming = due[idx+1:]
		inv := c.Invocation
		if inv.EntityID != 0 && frame.Store != nil && !frame.Store.HasEntity(inv.EntityID) {
			i.stats.Cancelled++
			continue
		}
		if c.CreatedFrame == frame.Number {
			i.suspended = append(i.suspended, c)
			continue
		}
		c.Remaining -= frame.DeltaTime
		if c.Remaining > 0 {
			i.suspended = append(i.suspended, c)
			continue
		}
		i.stats.Resumed++
		results = append(results, i.walk(frame, inv, inv.Graph.Next(c.NodeID, PortOut)))
	}
	return results
}

// Cancel drops every suspended walk of an entity along with its change state.
func (i *Interpreter) Cancel(entity ecs.EntityID) int {
	kept := i.suspended[:0]
	dropped := 0
	for _, c := range i.suspended {
		if c.Invocation.EntityID == entity {
			dropped++
			continue
		}
		kept = append(kept, c)
	}
	for j := len(kept); j < len(i.suspended); j++ {
		i.suspended[j] = nil
	}
	i.suspended = kept
	for key := range i.changed {
		if key.entity == entity {
			delete(i.changed, key)
		}
	}
	i.stats.Cancelled += dropped
	return dropped
}

// Suspended returns the pending continuations in suspension order.
func (i *Interpreter) Suspended() []*Continuation {
	return i.suspended
}

// IsSuspended reports whether the invocation is waiting.
func (i *Interpreter) IsSuspended(id uuid.UUID) bool {
	for _, list := range [][]*Continuation{i.suspended, i.resuming} {
		for _, c := range list {
			if c.Invocation.ID == id {
				return true
			}
		}
	}
	return false
}
