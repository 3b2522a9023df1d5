package module_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ooftn-logic/module"
)

func TestConnectReplacesBoundInput(t *testing.T) {
	g := chain("g", block("a", "A"), block("b", "B"))
	g.AddNode(block("c", "C"))
	g.AddNode(&module.Node{ID: "one", Kind: module.NodeValue, Literal: 1})
	g.AddNode(&module.Node{ID: "two", Kind: module.NodeValue, Literal: 2})

	g.Value("one", "b", module.PortValue)
	g.Value("two", "b", module.PortValue)
	e, ok := g.Input("b", module.PortValue)
	require.True(t, ok)
	assert.Equal(t, "two", e.FromNodeID)

	g.Flow("a", module.PortOut, "c")
	assert.Equal(t, "c", g.Next("a", module.PortOut))
	assert.Len(t, g.Edges, 3)
}

func TestConnectFlowEdges(t *testing.T) {
	g := chain("g", block("a", "A"), block("b", "B"))
	g.AddNode(block("c", "C"))
	g.AddNode(&module.Node{ID: "m", Kind: module.NodeMerge})

	g.Flow("c", module.PortOut, "b")
	assert.Equal(t, "", g.Next("a", module.PortOut), "a plain flow input keeps one predecessor")
	assert.Len(t, g.Incoming("b"), 1)

	g.Flow("a", module.PortOut, "m")
	g.Flow("b", module.PortOut, "m")
	g.Flow("c", module.PortOut, "m")
	assert.Len(t, g.Incoming("m"), 3)
	assert.Empty(t, g.Incoming("b"), "rebinding c's output drops its old target")
	assert.Equal(t, "m", g.Next("c", module.PortOut))
}

func TestValidateReportsJoinOutsideMerge(t *testing.T) {
	g := &module.Graph{
		ID: "g",
		Nodes: []*module.Node{
			{ID: "entry", Kind: module.NodeEntry},
			{ID: "cmp", Kind: module.NodeCondition, Comparison: module.IfVariableEquals},
			{ID: "a", Kind: module.NodeFlow, BlockType: "A"},
		},
		Edges: []module.Edge{
			{Kind: module.EdgeFlow, FromNodeID: "entry", FromPort: module.PortOut, ToNodeID: "cmp", ToPort: module.PortIn},
			{Kind: module.EdgeFlow, FromNodeID: "cmp", FromPort: module.PortTrue, ToNodeID: "a", ToPort: module.PortIn},
			{Kind: module.EdgeFlow, FromNodeID: "cmp", FromPort: module.PortFalse, ToNodeID: "a", ToPort: module.PortIn},
		},
	}
	assert.Equal(t, []module.Problem{{NodeID: "a", Message: "2 flow edges enter a Flow node, only Merge joins flows"}}, g.Validate())
}

func TestEntryFallsBackToFirstEntryNode(t *testing.T) {
	g := &module.Graph{}
	g.AddNode(block("x", "X"))
	g.AddNode(&module.Node{ID: "start", Kind: module.NodeEntry})
	require.NotNil(t, g.Entry())
	assert.Equal(t, "start", g.Entry().ID)

	g.EntryNodeID = "missing"
	assert.Nil(t, g.Entry())
}

func TestCasePort(t *testing.T) {
	n := &module.Node{Kind: module.NodeSwitch, Cases: []module.SwitchCase{{Value: "a"}, {Value: "b", Port: "bee"}}}
	assert.Equal(t, "case0", n.CasePort(0))
	assert.Equal(t, "bee", n.CasePort(1))
	assert.Equal(t, "", n.CasePort(2))
}

func TestValidate(t *testing.T) {
	assert.Empty(t, chain("ok", block("a", "A")).Validate())

	g := chain("bad", block("a", ""), &module.Node{ID: "cmp", Kind: module.NodeCondition, Comparison: "IfSunny"})
	g.AddNode(&module.Node{ID: "orphan", Kind: module.NodeMerge})
	g.AddNode(&module.Node{ID: "weird", Kind: "Teleport"})
	g.Flow("cmp", module.PortTrue, "nowhere")

	var got []string
	for _, p := range g.Validate() {
		got = append(got, p.String())
	}
	assert.Equal(t, []string{
		"node a: flow node has no block type",
		`node cmp: unknown comparison "IfSunny"`,
		`node weird: unknown node kind "Teleport"`,
		"node nowhere: edge from cmp to unknown node",
		"node orphan: unreachable from entry",
		"node weird: unreachable from entry",
	}, got)

	empty := &module.Graph{ID: "empty"}
	assert.Equal(t, []module.Problem{{Message: "graph has no entry node"}}, empty.Validate())
}

func TestLibrary(t *testing.T) {
	first := &module.Graph{ID: "g1", Name: "Jump"}
	second := &module.Graph{ID: "g2", Name: "Jump"}
	lib := module.NewLibrary(first, second, nil)

	assert.Equal(t, 2, lib.Len())
	assert.Same(t, first, lib.Lookup("g1"))
	assert.Same(t, first, lib.Lookup("Jump"), "first graph keeps a shared name")
	assert.Same(t, second, lib.Lookup("g2"))
	assert.Nil(t, lib.Lookup("nope"))

	replacement := &module.Graph{ID: "g1", Name: "Leap"}
	lib.Add(replacement)
	assert.Equal(t, 2, lib.Len())
	assert.Same(t, replacement, lib.Lookup("Leap"))
	assert.Equal(t, []*module.Graph{replacement, second}, lib.Graphs())

	var nilLib *module.Library
	assert.Nil(t, nilLib.Lookup("g1"))
	assert.Zero(t, nilLib.Len())
}

const graphsYAML = `
- id: door
  name: OpenDoor
  entryNodeId: entry
  variables:
    - name: delay
      type: float
      value: 0.5
  nodes:
    - id: entry
      kind: Entry
    - id: wait
      kind: Flow
      blockType: Wait
      params:
        duration: 0.5
    - id: open
      kind: Flow
      blockType: Enable
      params:
        enabled: false
  edges:
    - {kind: flow, fromNodeId: entry, fromPort: out, toNodeId: wait, toPort: in}
    - {kind: flow, fromNodeId: wait, fromPort: out, toNodeId: open, toPort: in}
`

func TestDecodeGraphs(t *testing.T) {
	graphs, err := module.DecodeGraphs([]byte(graphsYAML))
	require.NoError(t, err)
	require.Len(t, graphs, 1)

	g := graphs[0]
	assert.Equal(t, "OpenDoor", g.Name)
	assert.Equal(t, "open", g.Next("wait", module.PortOut))
	assert.Equal(t, 0.5, g.DeclaredVariables()["delay"].Value)
	assert.Empty(t, g.Validate())

	_, err = module.DecodeGraphs([]byte("- id: x\n  nodes:\n    - id: n\n      kind: Portal\n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, module.ErrUnknownNode))
}

func TestLoadLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(graphsYAML), 0o644))

	lib, err := module.LoadLibrary(path)
	require.NoError(t, err)
	assert.NotNil(t, lib.Lookup("OpenDoor"))

	_, err = module.LoadLibrary(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
