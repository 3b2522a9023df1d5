// Package scenario runs scripted, headless logic sessions and records a trace
// of every frame.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/logic"
	"github.com/plus3/ooftn-logic/module"
)

// Scenario is a scene plus the input and contacts fed to it frame by frame.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Frames is the number of frames to run.
	Frames int `yaml:"frames"`

	// DeltaTime overrides the configured fixed step.
	DeltaTime float64 `yaml:"dt,omitempty"`

	Globals  []ecs.EditorVariable `yaml:"globals,omitempty"`
	Entities []EntitySpec         `yaml:"entities"`
	Modules  []*module.Graph      `yaml:"modules,omitempty"`

	Input      []InputStep     `yaml:"input,omitempty"`
	Collisions []CollisionStep `yaml:"collisions,omitempty"`
}

// EntitySpec is an entity present before the first frame.
type EntitySpec struct {
	Name       string                  `yaml:"name"`
	X          float64                 `yaml:"x,omitempty"`
	Y          float64                 `yaml:"y,omitempty"`
	ScaleX     *float64                `yaml:"scaleX,omitempty"`
	ScaleY     *float64                `yaml:"scaleY,omitempty"`
	Active     *bool                   `yaml:"active,omitempty"`
	Role       string                  `yaml:"role,omitempty"`
	Tags       []string                `yaml:"tags,omitempty"`
	Variables  []ecs.EditorVariable    `yaml:"variables,omitempty"`
	Components []logic.ComponentSpec   `yaml:"components,omitempty"`
	Logic      []*logic.LogicComponent `yaml:"logic,omitempty"`
}

// InputStep holds input from Frame through Until (inclusive). Until defaults
// to Frame.
type InputStep struct {
	Frame int             `yaml:"frame"`
	Until int             `yaml:"until,omitempty"`
	Keys  map[string]bool `yaml:"keys,omitempty"`
	Mouse *ecs.Vector2    `yaml:"mouse,omitempty"`
	Click *ecs.Click      `yaml:"click,omitempty"`
}

// Contact phases.
const (
	PhaseEnter = "enter"
	PhaseStay  = "stay"
	PhaseExit  = "exit"
)

// CollisionStep reports a contact between two named entities. OtherTag
// defaults to the other entity's first tag. Both sides are recorded unless
// OneWay is set.
type CollisionStep struct {
	Frame    int    `yaml:"frame"`
	Entity   string `yaml:"entity"`
	Other    string `yaml:"other"`
	Phase    string `yaml:"phase,omitempty"`
	OtherTag string `yaml:"otherTag,omitempty"`
	OneWay   bool   `yaml:"oneWay,omitempty"`
}

// Parse decodes a scenario, rejecting unknown fields.
func Parse(data []byte) (*Scenario, error) {
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := validate(&sc); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &sc, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return Parse(data)
}

func validate(sc *Scenario) error {
	if sc.Name == "" {
		return fmt.Errorf("name is required")
	}
	if sc.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", sc.Frames)
	}
	names := make(map[string]bool, len(sc.Entities))
	for _, e := range sc.Entities {
		if e.Name == "" {
			return fmt.Errorf("entity name is required")
		}
		if names[e.Name] {
			return fmt.Errorf("duplicate entity %q", e.Name)
		}
		names[e.Name] = true
	}
	for _, c := range sc.Collisions {
		if !names[c.Entity] || !names[c.Other] {
			return fmt.Errorf("collision at frame %d references unknown entity", c.Frame)
		}
		switch c.Phase {
		case "", PhaseEnter, PhaseStay, PhaseExit:
		default:
			return fmt.Errorf("collision at frame %d has unknown phase %q", c.Frame, c.Phase)
		}
	}
	for _, g := range sc.Modules {
		if g == nil || g.ID == "" {
			return fmt.Errorf("module id is required")
		}
		if err := module.CheckKinds(g); err != nil {
			return err
		}
	}
	return nil
}
