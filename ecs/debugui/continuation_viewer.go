package debugui

import (
	"fmt"
	"sort"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/module"
)

// ContinuationInfo is one suspended module walk as shown in the viewer.
type ContinuationInfo struct {
	Invocation string
	Graph      string
	EntityID   ecs.EntityID
	EntityName string
	NodeID     string
	Remaining  float64
}

func NewContinuationViewerComponent() *ContinuationViewerComponent {
	return &ContinuationViewerComponent{
		sortColumn:    5,
		sortAscending: true,
	}
}

func (cv *ContinuationViewerComponent) Render(store *ecs.Store, interp *module.Interpreter) {
	if !imgui.BeginV("Module Invocations", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	stats := interp.Stats()
	imgui.Text(fmt.Sprintf("Started: %d  Completed: %d  Failed: %d", stats.Started, stats.Completed, stats.Failed))
	imgui.Text(fmt.Sprintf("Suspensions: %d  Resumed: %d  Cancelled: %d", stats.Suspensions, stats.Resumed, stats.Cancelled))
	if stats.BudgetFaults > 0 {
		imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), fmt.Sprintf("Step budget exceeded %d times", stats.BudgetFaults))
	}
	if stats.DepthFaults > 0 {
		imgui.TextColored(imgui.NewVec4(1, 0.4, 0.4, 1), fmt.Sprintf("Call depth exceeded %d times", stats.DepthFaults))
	}
	imgui.Separator()

	rows := continuationRows(store, interp.Suspended())
	sortContinuations(rows, cv.sortColumn, cv.sortAscending)

	maxRemaining := 0.0
	for _, row := range rows {
		maxRemaining = max(maxRemaining, row.Remaining)
	}

	var cancel ecs.EntityID

	const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg | imgui.TableFlagsSortable | imgui.TableFlagsScrollY
	if imgui.BeginTableV("ContinuationTable", 7, tableFlags, imgui.NewVec2(0, 0), 0) {
		imgui.TableSetupColumn("Invocation")
		imgui.TableSetupColumn("Graph")
		imgui.TableSetupColumn("Entity")
		imgui.TableSetupColumn("Name")
		imgui.TableSetupColumn("Node")
		imgui.TableSetupColumn("Remaining")
		imgui.TableSetupColumn("")
		imgui.TableHeadersRow()

		sortSpecs := imgui.TableGetSortSpecs()
		if sortSpecs.SpecsDirty() && sortSpecs.SpecsCount() > 0 {
			spec := sortSpecs.Specs()
			cv.sortColumn = int(spec.ColumnIndex())
			cv.sortAscending = spec.SortDirection() == imgui.SortDirectionAscending
			sortContinuations(rows, cv.sortColumn, cv.sortAscending)
			sortSpecs.SetSpecsDirty(false)
		}

		for i, row := range rows {
			imgui.TableNextRow()

			imgui.TableNextColumn()
			imgui.Text(row.Invocation)

			imgui.TableNextColumn()
			imgui.Text(row.Graph)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%d", row.EntityID))

			imgui.TableNextColumn()
			imgui.Text(row.EntityName)

			imgui.TableNextColumn()
			imgui.Text(row.NodeID)

			imgui.TableNextColumn()
			imgui.Text(fmt.Sprintf("%.2fs", row.Remaining))
			if maxRemaining > 0 {
				barWidth := float32(row.Remaining/maxRemaining) * 60.0
				imgui.SameLine()
				drawList := imgui.WindowDrawList()
				pos := imgui.CursorScreenPos()
				color := imgui.ColorU32Vec4(imgui.NewVec4(0.2, 0.6, 0.8, 0.6))
				drawList.AddRectFilled(pos, imgui.NewVec2(pos.X+barWidth, pos.Y+10), color)
			}

			imgui.TableNextColumn()
			if imgui.Button(fmt.Sprintf("Cancel##%d", i)) {
				cancel = row.EntityID
			}
		}

		imgui.EndTable()
	}

	// Cancel compacts the suspended list, so it runs after the table is drawn.
	if cancel != 0 {
		interp.Cancel(cancel)
	}

	imgui.End()
}

func continuationRows(store *ecs.Store, suspended []*module.Continuation) []ContinuationInfo {
	rows := make([]ContinuationInfo, 0, len(suspended))
	for _, c := range suspended {
		inv := c.Invocation
		row := ContinuationInfo{
			Invocation: inv.ID.String()[:8],
			EntityID:   inv.EntityID,
			NodeID:     c.NodeID,
			Remaining:  c.Remaining,
		}
		if inv.Graph != nil {
			row.Graph = inv.Graph.Name
			if row.Graph == "" {
				row.Graph = inv.Graph.ID
			}
		}
		if e := store.Entity(inv.EntityID); e != nil {
			row.EntityName = e.Name
		}
		rows = append(rows, row)
	}
	return rows
}

func sortContinuations(rows []ContinuationInfo, column int, ascending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		var less bool

		switch column {
		case 0:
			less = a.Invocation < b.Invocation
		case 1:
			less = a.Graph < b.Graph
		case 2:
			less = a.EntityID < b.EntityID
		case 3:
			less = a.EntityName < b.EntityName
		case 4:
			less = a.NodeID < b.NodeID
		default:
			less = a.Remaining < b.Remaining
		}

		if !ascending {
			return !less
		}
		return less
	})
}
