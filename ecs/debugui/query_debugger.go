package debugui

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ooftn-logic/ecs"
)

type QueryDebuggerCache struct {
	componentTypes []string
	lastFrame      uint64
}

func NewQueryDebuggerComponent() *QueryDebuggerComponent {
	return &QueryDebuggerComponent{
		required: make(map[string]bool),
		excluded: make(map[string]bool),
		cache:    &QueryDebuggerCache{},
	}
}

func (qd *QueryDebuggerComponent) Render(p *ecs.Pipeline) {
	if !imgui.BeginV("Query Debugger", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	qd.rebuildCacheIfNeeded(p)

	if imgui.Button("Clear All") {
		qd.required = make(map[string]bool)
		qd.excluded = make(map[string]bool)
	}

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSizingFixedFit
	if imgui.BeginTableV("QueryTypesTable", 3, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Component Type")
		imgui.TableSetupColumn("All")
		imgui.TableSetupColumn("None")
		imgui.TableHeadersRow()

		for _, compType := range qd.cache.componentTypes {
			imgui.TableNextRow()
			imgui.TableSetColumnIndex(0)
			imgui.Text(compType)

			imgui.TableSetColumnIndex(1)
			toggle(fmt.Sprintf("##all_%s", compType), qd.required, compType, qd.excluded)

			imgui.TableSetColumnIndex(2)
			toggle(fmt.Sprintf("##none_%s", compType), qd.excluded, compType, qd.required)
		}

		imgui.EndTable()
	}

	imgui.Separator()

	criteria := criteriaFrom(qd.required, qd.excluded)
	if len(criteria.All) == 0 && len(criteria.None) == 0 {
		imgui.Text("No component types selected")
		imgui.End()
		return
	}

	matches := p.Store().Select(criteria)
	imgui.Text(describeCriteria(criteria))
	imgui.Text(fmt.Sprintf("Matching Entities: %d", len(matches)))

	if imgui.TreeNodeStr("Matches") {
		for _, e := range matches {
			imgui.BulletText(fmt.Sprintf("#%d %s", e.ID, e.Name))
		}
		imgui.TreePop()
	}

	imgui.End()
}

// toggle flips name in set and keeps it out of the opposite set.
func toggle(label string, set map[string]bool, name string, opposite map[string]bool) {
	selected := set[name]
	if !imgui.Checkbox(label, &selected) {
		return
	}
	if selected {
		set[name] = true
		delete(opposite, name)
	} else {
		delete(set, name)
	}
}

func (qd *QueryDebuggerComponent) rebuildCacheIfNeeded(p *ecs.Pipeline) {
	frame := p.Frame().Number
	if qd.cache.componentTypes != nil && qd.cache.lastFrame == frame {
		return
	}
	qd.cache.lastFrame = frame
	qd.cache.componentTypes = knownComponentTypes(p.Store().CollectStats())
}

func knownComponentTypes(stats ecs.StoreStats) []string {
	types := make([]string, 0, len(stats.ComponentTypes))
	for t, n := range stats.ComponentTypes {
		if n > 0 {
			types = append(types, t)
		}
	}
	sort.Strings(types)
	return types
}

func criteriaFrom(required, excluded map[string]bool) ecs.Criteria {
	var c ecs.Criteria
	for t, ok := range required {
		if ok {
			c.All = append(c.All, t)
		}
	}
	for t, ok := range excluded {
		if ok {
			c.None = append(c.None, t)
		}
	}
	slices.Sort(c.All)
	slices.Sort(c.None)
	return c
}

func describeCriteria(c ecs.Criteria) string {
	var parts []string
	if len(c.All) > 0 {
		parts = append(parts, "all of "+strings.Join(c.All, ", "))
	}
	if len(c.None) > 0 {
		parts = append(parts, "none of "+strings.Join(c.None, ", "))
	}
	return "Query: " + strings.Join(parts, "; ")
}
