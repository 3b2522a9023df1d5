// Package module interprets authored node graphs. Flow edges carry control
// from node to node, value edges carry data into node inputs.
package module

import (
	"strconv"

	"github.com/plus3/ooftn-logic/ecs"
)

// NodeKind is the kind of a graph node.
type NodeKind string

const (
	NodeEntry     NodeKind = "Entry"
	NodeFlow      NodeKind = "Flow"
	NodeCondition NodeKind = "Condition"
	NodeSwitch    NodeKind = "Switch"
	NodeMerge     NodeKind = "Merge"
	NodeStop      NodeKind = "Stop"
	NodeValue     NodeKind = "Value"
)

// Port names.
const (
	PortIn      = "in"
	PortOut     = "out"
	PortValue   = "value"
	PortLeft    = "left"
	PortRight   = "right"
	PortTrue    = "true"
	PortFalse   = "false"
	PortDefault = "default"
)

// BlockWait is the flow block that suspends the walk for a duration in seconds.
const BlockWait = "Wait"

// Comparison is the test performed by a Condition node.
type Comparison string

const (
	IfVariableEquals      Comparison = "IfVariableEquals"
	IfVariableGreaterThan Comparison = "IfVariableGreaterThan"
	IfVariableLessThan    Comparison = "IfVariableLessThan"
	IfVariableChanged     Comparison = "IfVariableChanged"
)

// StopResult is the outcome declared by a Stop node.
type StopResult string

const (
	ResultSuccess StopResult = "Success"
	ResultFailed  StopResult = "Failed"
)

// SwitchCase routes flow to Port when the switched value equals Value.
type SwitchCase struct {
	Value any    `json:"value" yaml:"value"`
	Port  string `json:"port,omitempty" yaml:"port,omitempty"`
}

// Node is one graph node. Only the fields relevant to Kind are used.
type Node struct {
	ID   string   `json:"id" yaml:"id"`
	Kind NodeKind `json:"kind" yaml:"kind"`

	// Flow
	BlockType string         `json:"blockType,omitempty" yaml:"blockType,omitempty"`
	Params    map[string]any `json:"params,omitempty" yaml:"params,omitempty"`

	// Condition. Variable supplies the left operand when no edge is bound to
	// the left port; Left and Right are literal fallbacks.
	Comparison Comparison `json:"comparison,omitempty" yaml:"comparison,omitempty"`
	Left       any        `json:"left,omitempty" yaml:"left,omitempty"`
	Right      any        `json:"right,omitempty" yaml:"right,omitempty"`

	// Switch, Value and Condition
	Variable string       `json:"variable,omitempty" yaml:"variable,omitempty"`
	Cases    []SwitchCase `json:"cases,omitempty" yaml:"cases,omitempty"`

	// Value: literal returned when Variable is empty.
	Literal any `json:"literal,omitempty" yaml:"literal,omitempty"`

	// Stop
	Result    StopResult `json:"result,omitempty" yaml:"result,omitempty"`
	ErrorCode string     `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
}

// CasePort returns the flow-out port of the i-th switch case.
func (n *Node) CasePort(i int) string {
	if i < 0 || i >= len(n.Cases) {
		return ""
	}
	if p := n.Cases[i].Port; p != "" {
		return p
	}
	return "case" + strconv.Itoa(i)
}

// EdgeKind separates control edges from data edges.
type EdgeKind string

const (
	EdgeFlow  EdgeKind = "flow"
	EdgeValue EdgeKind = "value"
)

// Edge connects an output port to an input port.
type Edge struct {
	Kind       EdgeKind `json:"kind" yaml:"kind"`
	FromNodeID string   `json:"fromNodeId" yaml:"fromNodeId"`
	FromPort   string   `json:"fromPort" yaml:"fromPort"`
	ToNodeID   string   `json:"toNodeId" yaml:"toNodeId"`
	ToPort     string   `json:"toPort" yaml:"toPort"`
}

type portKey struct {
	node string
	port string
}

// Graph is an authored module.
type Graph struct {
	ID          string               `json:"id" yaml:"id"`
	Name        string               `json:"name" yaml:"name"`
	EntryNodeID string               `json:"entryNodeId" yaml:"entryNodeId"`
	Variables   []ecs.EditorVariable `json:"variables,omitempty" yaml:"variables,omitempty"`
	Nodes       []*Node              `json:"nodes" yaml:"nodes"`
	Edges       []Edge               `json:"edges" yaml:"edges"`

	nodes   map[string]*Node
	flowOut map[portKey]Edge
	valueIn map[portKey]Edge
}

// AddNode appends a node and returns it.
func (g *Graph) AddNode(n *Node) *Node {
	g.Nodes = append(g.Nodes, n)
	g.invalidate()
	return n
}

// Connect adds an edge. A value input accepts one edge, so binding an input
// that already has one replaces it. A flow output drives a single successor
// and a flow input accepts one predecessor, except on Merge nodes, which join
// any number of incoming flows.
func (g *Graph) Connect(e Edge) {
	join := e.Kind == EdgeFlow && g.isMerge(e.ToNodeID)
	kept := g.Edges[:0]
	for _, old := range g.Edges {
		if old.Kind != e.Kind {
			kept = append(kept, old)
			continue
		}
		if !join && old.ToNodeID == e.ToNodeID && old.ToPort == e.ToPort {
			continue
		}
		if e.Kind == EdgeFlow && old.FromNodeID == e.FromNodeID && old.FromPort == e.FromPort {
			continue
		}
		kept = append(kept, old)
	}
	g.Edges = append(kept, e)
	g.invalidate()
}

func (g *Graph) isMerge(id string) bool {
	n := g.Node(id)
	return n != nil && n.Kind == NodeMerge
}

// Incoming returns the flow edges entering a node.
func (g *Graph) Incoming(nodeID string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == EdgeFlow && e.ToNodeID == nodeID {
			out = append(out, e)
		}
	}
	return out
}

// Flow connects a flow-out port to a node's flow input.
func (g *Graph) Flow(from, fromPort, to string) {
	g.Connect(Edge{Kind: EdgeFlow, FromNodeID: from, FromPort: fromPort, ToNodeID: to, ToPort: PortIn})
}

// Value connects a value-producing node to an input port.
func (g *Graph) Value(from, to, toPort string) {
	g.Connect(Edge{Kind: EdgeValue, FromNodeID: from, FromPort: PortValue, ToNodeID: to, ToPort: toPort})
}

func (g *Graph) invalidate() {
	g.nodes = nil
}

func (g *Graph) ensureIndex() {
	if g.nodes != nil {
		return
	}
	g.nodes = make(map[string]*Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if n != nil {
			g.nodes[n.ID] = n
		}
	}
	g.flowOut = make(map[portKey]Edge)
	g.valueIn = make(map[portKey]Edge)
	for _, e := range g.Edges {
		switch e.Kind {
		case EdgeFlow:
			key := portKey{e.FromNodeID, e.FromPort}
			if _, exists := g.flowOut[key]; !exists {
				g.flowOut[key] = e
			}
		case EdgeValue:
			g.valueIn[portKey{e.ToNodeID, e.ToPort}] = e
		}
	}
}

// Node returns the node with the given ID, or nil.
func (g *Graph) Node(id string) *Node {
	g.ensureIndex()
	return g.nodes[id]
}

// Entry returns the entry node. When EntryNodeID is unset the first Entry node is used.
func (g *Graph) Entry() *Node {
	if g.EntryNodeID != "" {
		return g.Node(g.EntryNodeID)
	}
	for _, n := range g.Nodes {
		if n != nil && n.Kind == NodeEntry {
			return n
		}
	}
	return nil
}

// Next returns the node driven by a flow-out port, or "".
func (g *Graph) Next(nodeID, port string) string {
	g.ensureIndex()
	if e, ok := g.flowOut[portKey{nodeID, port}]; ok {
		return e.ToNodeID
	}
	return ""
}

// Input returns the value edge bound to an input port.
func (g *Graph) Input(nodeID, port string) (Edge, bool) {
	g.ensureIndex()
	e, ok := g.valueIn[portKey{nodeID, port}]
	return e, ok
}

// DeclaredVariables returns a fresh module scope from the declared variables.
func (g *Graph) DeclaredVariables() ecs.Variables {
	return ecs.VariablesFrom(g.Variables)
}
