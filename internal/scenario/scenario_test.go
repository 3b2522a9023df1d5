package scenario_test

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/ooftn-logic/internal/config"
	"github.com/plus3/ooftn-logic/internal/scenario"
)

func load(t *testing.T, name string) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.Load(filepath.Join("testdata", name+".yaml"))
	require.NoError(t, err)
	return sc
}

// Digests are masked so the golden files stay readable; TestDigest covers them.
func TestGoldenTraces(t *testing.T) {
	for _, name := range []string{"pickup", "door"} {
		t.Run(name, func(t *testing.T) {
			trace, err := scenario.Run(load(t, name), config.Default(), nil)
			require.NoError(t, err)
			for i := range trace.Frames {
				trace.Frames[i].Digest = "*"
			}

			var buf bytes.Buffer
			require.NoError(t, trace.WriteText(&buf))

			g := goldie.New(t,
				goldie.WithFixtureDir("testdata/golden"),
				goldie.WithNameSuffix(".golden"),
			)
			g.Assert(t, name, buf.Bytes())
		})
	}
}

func TestRunPickup(t *testing.T) {
	trace, err := scenario.Run(load(t, "pickup"), nil, nil)
	require.NoError(t, err)
	require.Len(t, trace.Frames, 3)

	second := trace.Frames[1]
	assert.Equal(t, []string{"player/walk", "player/collect"}, second.Fired)
	assert.Equal(t, []string{"player: coin"}, second.Logs)
	assert.Nil(t, second.Entity("coin"))

	final := trace.Final()
	player := final.Entity("player")
	require.NotNil(t, player)
	assert.Equal(t, 2.0, player.X)
	assert.Equal(t, []string{"Logic"}, player.Components)
	assert.Equal(t, 1, final.Globals["score"])
}

func TestDigest(t *testing.T) {
	first, err := scenario.Run(load(t, "pickup"), nil, nil)
	require.NoError(t, err)
	second, err := scenario.Run(load(t, "pickup"), nil, nil)
	require.NoError(t, err)

	for i := range first.Frames {
		assert.Len(t, first.Frames[i].Digest, 16)
		assert.Equal(t, first.Frames[i].Digest, second.Frames[i].Digest, "frame %d", i+1)
	}
	assert.NotEqual(t, first.Frames[0].Digest, first.Frames[1].Digest)
	assert.Equal(t, first.Frames[1].Digest, first.Frames[2].Digest, "nothing changes in the last frame")
}

func TestSessionStep(t *testing.T) {
	session, err := scenario.NewSession(load(t, "door"), nil, nil)
	require.NoError(t, err)
	defer session.Close()

	assert.Equal(t, 1, session.Step().Suspended)
	assert.Len(t, session.Modules.Suspended(), 1)
	session.Step()
	frame := session.Step()
	assert.Zero(t, frame.Suspended)
	assert.Equal(t, true, frame.Entity("door").Variables["opened"])
	assert.Equal(t, 1, session.Modules.Stats().Completed)
}

func TestWriteJSON(t *testing.T) {
	trace, err := scenario.Run(load(t, "door"), nil, nil)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, trace.WriteJSON(&buf))

	var decoded struct {
		Scenario string `json:"scenario"`
		Frames   []struct {
			Frame     int    `json:"frame"`
			Suspended int    `json:"suspended"`
			Digest    string `json:"digest"`
		} `json:"frames"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, "door", decoded.Scenario)
	require.Len(t, decoded.Frames, 4)
	assert.Equal(t, 1, decoded.Frames[0].Suspended)
	assert.Equal(t, trace.Frames[3].Digest, decoded.Frames[3].Digest)
}

func TestCollisionPhasesAndMirroring(t *testing.T) {
	src := `
name: bump
frames: 3
entities:
  - name: a
    tags: [ball]
    variables: [{name: hits, type: int, value: 0}]
    logic:
      - event: OnCollision
        eventParams: {tag: wall}
        actions:
          - {type: SetVar, name: hits, operation: Add, a: {kind: literal, value: 1}}
  - name: b
    tags: [wall]
    variables: [{name: left, type: int, value: 0}]
    logic:
      - event: OnCollision
        eventParams: {phase: exit, tag: ball}
        actions:
          - {type: SetVar, name: left, operation: Add, a: {kind: literal, value: 1}}
collisions:
  - {frame: 1, entity: a, other: b}
  - {frame: 2, entity: a, other: b, phase: stay}
  - {frame: 3, entity: a, other: b, phase: exit}
`
	sc, err := scenario.Parse([]byte(src))
	require.NoError(t, err)
	trace, err := scenario.Run(sc, nil, nil)
	require.NoError(t, err)

	final := trace.Final()
	assert.Equal(t, 1, final.Entity("a").Variables["hits"])
	assert.Equal(t, 1, final.Entity("b").Variables["left"])
	assert.Equal(t, []string{"a/OnCollision"}, trace.Frames[0].Fired)
}

func TestGroundTagsFromConfig(t *testing.T) {
	src := `
name: land
frames: 1
entities:
  - name: hero
    logic:
      - id: landed
        event: OnUpdate
        conditions: [{type: IsGrounded}]
  - name: floor
    tags: [platform]
collisions:
  - {frame: 1, entity: hero, other: floor, oneWay: true}
`
	sc, err := scenario.Parse([]byte(src))
	require.NoError(t, err)

	trace, err := scenario.Run(sc, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, trace.Final().Fired)

	cfg := config.Default()
	cfg.GroundTags = []string{"platform"}
	trace, err = scenario.Run(sc, cfg, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"hero/landed"}, trace.Final().Fired)
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"missing name", "frames: 1\n", "name is required"},
		{"no frames", "name: x\n", "frames must be positive"},
		{"duplicate entity", "name: x\nframes: 1\nentities: [{name: a}, {name: a}]\n", `duplicate entity "a"`},
		{"unknown field", "name: x\nframes: 1\nspeed: 3\n", "field speed not found"},
		{"unknown collision entity", "name: x\nframes: 1\nentities: [{name: a}]\ncollisions: [{frame: 1, entity: a, other: z}]\n", "unknown entity"},
		{"bad phase", "name: x\nframes: 1\nentities: [{name: a}, {name: b}]\ncollisions: [{frame: 1, entity: a, other: b, phase: hover}]\n", `unknown phase "hover"`},
		{"unknown action", "name: x\nframes: 1\nentities: [{name: a, logic: [{event: OnStart, actions: [{type: Fly}]}]}]\n", "unknown kind"},
		{"unknown node", "name: x\nframes: 1\nmodules: [{id: m, nodes: [{id: n, kind: Portal}]}]\n", "unknown node kind"},
		{"module without id", "name: x\nframes: 1\nmodules: [{name: m}]\n", "module id is required"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := scenario.Parse([]byte(c.src))
			require.Error(t, err)
			assert.True(t, strings.Contains(err.Error(), c.want), "error %q does not mention %q", err, c.want)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := scenario.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read scenario file")
}

func TestArenaExample(t *testing.T) {
	sc, err := scenario.Load(filepath.Join("..", "..", "examples", "arena.yaml"))
	require.NoError(t, err)
	sc.Frames = 60

	trace, err := scenario.Run(sc, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"switch: switch pressed"}, trace.Frames[9].Logs)
	assert.Equal(t, 2, trace.Frames[10].Suspended)
	assert.Equal(t, 1.5, trace.Frames[19].Entity("lamp-b").ScaleX)

	final := trace.Final()
	assert.Equal(t, 1, final.Globals["presses"])
	assert.Zero(t, final.Suspended)
	assert.Equal(t, 1.0, final.Entity("lamp-b").ScaleX)
	assert.Greater(t, final.Entity("lamp-a").Rotation, 0.0)
}
