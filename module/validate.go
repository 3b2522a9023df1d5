package module

import (
	"fmt"
	"sort"
)

// Problem is a structural issue found in a graph. Problems never stop the
// interpreter; they describe nodes it will skip or never reach.
type Problem struct {
	NodeID  string `json:"nodeId,omitempty" yaml:"nodeId,omitempty"`
	Message string `json:"message" yaml:"message"`
}

func (p Problem) String() string {
	if p.NodeID == "" {
		return p.Message
	}
	return fmt.Sprintf("node %s: %s", p.NodeID, p.Message)
}

// Validate reports missing entries, dangling edges, unknown node kinds, flow
// joins outside Merge nodes and nodes unreachable from the entry.
func (g *Graph) Validate() []Problem {
	var problems []Problem
	report := func(node, format string, args ...any) {
		problems = append(problems, Problem{NodeID: node, Message: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]bool, len(g.Nodes))
	entries := 0
	for _, n := range g.Nodes {
		if n == nil {
			report("", "nil node")
			continue
		}
		if seen[n.ID] {
			report(n.ID, "duplicate node id")
		}
		seen[n.ID] = true
		if !knownKind(n.Kind) {
			report(n.ID, "unknown node kind %q", n.Kind)
			continue
		}
		switch n.Kind {
		case NodeEntry:
			entries++
		case NodeFlow:
			if n.BlockType == "" {
				report(n.ID, "flow node has no block type")
			}
		case NodeCondition:
			switch n.Comparison {
			case IfVariableEquals, IfVariableGreaterThan, IfVariableLessThan, IfVariableChanged:
			default:
				report(n.ID, "unknown comparison %q", n.Comparison)
			}
		case NodeStop:
			switch n.Result {
			case "", ResultSuccess, ResultFailed:
			default:
				report(n.ID, "unknown stop result %q", n.Result)
			}
		}
		if n.Kind != NodeMerge {
			if k := len(g.Incoming(n.ID)); k > 1 {
				report(n.ID, "%d flow edges enter a %s node, only Merge joins flows", k, n.Kind)
			}
		}
	}

	entry := g.Entry()
	switch {
	case entry == nil:
		report("", "graph has no entry node")
	case entry.Kind != NodeEntry:
		report(entry.ID, "entry node has kind %s", entry.Kind)
	}
	if entries > 1 {
		report("", "graph has %d entry nodes", entries)
	}

	for _, e := range g.Edges {
		if !seen[e.FromNodeID] {
			report(e.FromNodeID, "edge from unknown node to %s", e.ToNodeID)
		}
		if !seen[e.ToNodeID] {
			report(e.ToNodeID, "edge from %s to unknown node", e.FromNodeID)
		}
		if e.Kind != EdgeFlow && e.Kind != EdgeValue {
			report(e.FromNodeID, "edge has unknown kind %q", e.Kind)
		}
	}

	if entry != nil {
		reached := g.reachable(entry.ID)
		var unreached []string
		for id := range seen {
			if !reached[id] {
				unreached = append(unreached, id)
			}
		}
		sort.Strings(unreached)
		for _, id := range unreached {
			report(id, "unreachable from entry")
		}
	}
	return problems
}

// reachable marks nodes reached by flow from start plus the value sources
// feeding them.
func (g *Graph) reachable(start string) map[string]bool {
	reached := map[string]bool{start: true}
	queue := []string{start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range g.Edges {
			var next string
			switch {
			case e.Kind == EdgeFlow && e.FromNodeID == id:
				next = e.ToNodeID
			case e.Kind == EdgeValue && e.ToNodeID == id:
				next = e.FromNodeID
			default:
				continue
			}
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reached
}
