package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/plus3/ooftn-logic/ecs"
)

// Trace is the frame by frame record of a scenario run.
type Trace struct {
	Scenario string       `json:"scenario"`
	Frames   []FrameTrace `json:"frames"`
}

// FrameTrace is the state after one frame.
type FrameTrace struct {
	Number    uint64         `json:"frame"`
	Fired     []string       `json:"fired,omitempty"`
	Logs      []string       `json:"logs,omitempty"`
	Applied   int            `json:"applied"`
	Suspended int            `json:"suspended"`
	Entities  []EntityState  `json:"entities"`
	Globals   map[string]any `json:"globals,omitempty"`
	Digest    string         `json:"digest"`
}

// EntityState is an entity snapshot.
type EntityState struct {
	ID         ecs.EntityID   `json:"id"`
	Name       string         `json:"name"`
	Active     bool           `json:"active"`
	X          float64        `json:"x"`
	Y          float64        `json:"y"`
	Rotation   float64        `json:"rotation"`
	ScaleX     float64        `json:"scaleX"`
	ScaleY     float64        `json:"scaleY"`
	Components []string       `json:"components,omitempty"`
	Variables  map[string]any `json:"variables,omitempty"`
}

// Final returns the last frame, or nil for an empty trace.
func (t *Trace) Final() *FrameTrace {
	if len(t.Frames) == 0 {
		return nil
	}
	return &t.Frames[len(t.Frames)-1]
}

// Entity returns the named entity's state in the frame.
func (f *FrameTrace) Entity(name string) *EntityState {
	for i := range f.Entities {
		if f.Entities[i].Name == name {
			return &f.Entities[i]
		}
	}
	return nil
}

func snapshot(store *ecs.Store) ([]EntityState, map[string]any) {
	var entities []EntityState
	for e := range store.Entities() {
		state := EntityState{
			ID:         e.ID,
			Name:       e.Name,
			Active:     e.Active,
			X:          e.Transform.X,
			Y:          e.Transform.Y,
			Rotation:   e.Transform.Rotation,
			ScaleX:     e.Transform.ScaleX,
			ScaleY:     e.Transform.ScaleY,
			Components: store.ComponentTypes(e.ID),
		}
		if vars := store.EntityVariables(e.ID); len(vars) > 0 {
			state.Variables = make(map[string]any, len(vars))
			for name, v := range vars {
				state.Variables[name] = v.Value
			}
		}
		entities = append(entities, state)
	}

	var globals map[string]any
	if vars := store.Globals(); len(vars) > 0 {
		globals = make(map[string]any, len(vars))
		for name, v := range vars {
			globals[name] = v.Value
		}
	}
	return entities, globals
}

// digest hashes the canonical JSON of a frame's state. Map keys are sorted
// by encoding/json, so equal states hash equally.
func digest(entities []EntityState, globals map[string]any) string {
	b, err := json.Marshal(struct {
		Entities []EntityState `json:"entities"`
		Globals  map[string]any `json:"globals"`
	}{entities, globals})
	if err != nil {
		return "error"
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}

// WriteJSON writes the trace as indented JSON.
func (t *Trace) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(t)
}

// WriteText writes a line oriented rendering of the trace.
func (t *Trace) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "scenario %s (%d frames)\n", t.Scenario, len(t.Frames))
	for _, f := range t.Frames {
		fmt.Fprintf(&b, "frame %d digest=%s applied=%d suspended=%d\n", f.Number, f.Digest, f.Applied, f.Suspended)
		for _, r := range f.Fired {
			fmt.Fprintf(&b, "  fired %s\n", r)
		}
		for _, l := range f.Logs {
			fmt.Fprintf(&b, "  log %s\n", l)
		}
		for _, e := range f.Entities {
			state := "active"
			if !e.Active {
				state = "inactive"
			}
			fmt.Fprintf(&b, "  #%d %s %s pos=(%s,%s) rot=%s", e.ID, e.Name, state,
				formatFloat(e.X), formatFloat(e.Y), formatFloat(e.Rotation))
			if len(e.Variables) > 0 {
				b.WriteString(" vars:")
				writeValues(&b, e.Variables)
			}
			b.WriteByte('\n')
		}
		if len(f.Globals) > 0 {
			b.WriteString("  globals:")
			writeValues(&b, f.Globals)
			b.WriteByte('\n')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeValues(b *strings.Builder, values map[string]any) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%s", k, formatValue(values[k]))
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		return strconv.Quote(val)
	case float64:
		return formatFloat(val)
	case ecs.Vector2:
		return "(" + formatFloat(val.X) + "," + formatFloat(val.Y) + ")"
	default:
		return fmt.Sprint(val)
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
