package module

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownNode is returned when a decoded graph contains a node kind the
// interpreter does not know.
var ErrUnknownNode = errors.New("unknown node kind")

// Library holds the graphs that can be invoked by id or name.
type Library struct {
	graphs []*Graph
	byID   map[string]*Graph
	byName map[string]*Graph
}

// NewLibrary creates a library holding the given graphs.
func NewLibrary(graphs ...*Graph) *Library {
	lib := &Library{
		byID:   make(map[string]*Graph),
		byName: make(map[string]*Graph),
	}
	for _, g := range graphs {
		lib.Add(g)
	}
	return lib
}

// Add registers g, replacing any graph with the same id.
func (l *Library) Add(g *Graph) {
	if g == nil {
		return
	}
	if old, ok := l.byID[g.ID]; ok {
		for i, existing := range l.graphs {
			if existing == old {
				l.graphs[i] = g
				break
			}
		}
		if l.byName[old.Name] == old {
			delete(l.byName, old.Name)
		}
	} else {
		l.graphs = append(l.graphs, g)
	}
	l.byID[g.ID] = g
	if g.Name != "" {
		if _, taken := l.byName[g.Name]; !taken {
			l.byName[g.Name] = g
		}
	}
}

// Lookup finds a graph by id, then by name.
func (l *Library) Lookup(ref string) *Graph {
	if l == nil {
		return nil
	}
	if g, ok := l.byID[ref]; ok {
		return g
	}
	return l.byName[ref]
}

// Graphs returns the graphs in registration order.
func (l *Library) Graphs() []*Graph {
	if l == nil {
		return nil
	}
	return l.graphs
}

// Len returns the number of graphs.
func (l *Library) Len() int {
	if l == nil {
		return 0
	}
	return len(l.graphs)
}

// DecodeGraphs parses a YAML (or JSON) list of graphs.
func DecodeGraphs(data []byte) ([]*Graph, error) {
	var graphs []*Graph
	if err := yaml.Unmarshal(data, &graphs); err != nil {
		return nil, fmt.Errorf("failed to parse module graphs: %w", err)
	}
	for _, g := range graphs {
		if err := CheckKinds(g); err != nil {
			return nil, err
		}
	}
	return graphs, nil
}

// LoadLibrary reads a library file.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module library: %w", err)
	}
	graphs, err := DecodeGraphs(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return NewLibrary(graphs...), nil
}

// CheckKinds reports the first node whose kind the interpreter does not know.
func CheckKinds(g *Graph) error {
	if g == nil {
		return nil
	}
	for _, n := range g.Nodes {
		if n == nil || !knownKind(n.Kind) {
			kind := NodeKind("")
			id := ""
			if n != nil {
				kind, id = n.Kind, n.ID
			}
			return fmt.Errorf("graph %q node %q: %w %q", g.ID, id, ErrUnknownNode, kind)
		}
	}
	return nil
}

func knownKind(k NodeKind) bool {
	switch k {
	case NodeEntry, NodeFlow, NodeCondition, NodeSwitch, NodeMerge, NodeStop, NodeValue:
		return true
	}
	return false
}
