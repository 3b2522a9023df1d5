package debugui

import (
	"fmt"
	"slices"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/ooftn-logic/ecs"
)

func NewPipelineStatsComponent(historyFrames int) *PipelineStatsComponent {
	return &PipelineStatsComponent{
		historyFrames: historyFrames,
		frameHistory:  make([]float32, historyFrames),
		frameIndex:    0,
	}
}

func (ps *PipelineStatsComponent) Render(p *ecs.Pipeline, deltaTime float32) {
	if !imgui.BeginV("Pipeline Stats", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	ps.record(deltaTime)

	stats := p.Stats()
	storeStats := p.Store().CollectStats()

	imgui.Text(fmt.Sprintf("Entities: %d (%d active)", storeStats.EntityCount, storeStats.ActiveCount))
	imgui.Text(fmt.Sprintf("Components: %d", storeStats.ComponentCount))
	imgui.Text(fmt.Sprintf("Runtime Contexts: %d", storeStats.ContextCount))
	imgui.Text(fmt.Sprintf("Globals: %d", storeStats.GlobalCount))
	imgui.Text(fmt.Sprintf("Frames: %d", stats.Frames))
	imgui.Text(fmt.Sprintf("Commands Applied: %d (%d last frame)", stats.CommandsApplied, stats.LastFrameApplied.Total()))

	avgFrameTime := ps.average()
	if avgFrameTime > 0 {
		imgui.Text(fmt.Sprintf("Avg Frame Time: %.2f ms (%.0f FPS)", avgFrameTime, 1000.0/avgFrameTime))
	}

	imgui.Separator()
	imgui.Text("Frame Time Graph (ms)")
	imgui.PlotLinesFloatPtr("##frametime", &ps.frameHistory[0], int32(len(ps.frameHistory)))

	if imgui.TreeNodeStr("Systems") {
		const tableFlags = imgui.TableFlagsBorders | imgui.TableFlagsRowBg
		if imgui.BeginTableV("SystemStatsTable", 4, tableFlags, imgui.NewVec2(0, 0), 0) {
			imgui.TableSetupColumn("System")
			imgui.TableSetupColumn("Last")
			imgui.TableSetupColumn("Avg")
			imgui.TableSetupColumn("Max")
			imgui.TableHeadersRow()

			for _, sys := range stats.Systems {
				imgui.TableNextRow()
				imgui.TableNextColumn()
				imgui.Text(sys.Name)
				imgui.TableNextColumn()
				imgui.Text(sys.LastDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.AvgDuration.String())
				imgui.TableNextColumn()
				imgui.Text(sys.MaxDuration.String())
			}

			imgui.EndTable()
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Last Flush") {
		for _, line := range flushBreakdown(stats.LastFrameApplied) {
			imgui.BulletText(line)
		}
		imgui.TreePop()
	}

	if imgui.TreeNodeStr("Component Types") {
		for _, line := range componentTypeCounts(storeStats) {
			imgui.BulletText(line)
		}
		imgui.TreePop()
	}

	imgui.End()
}

func (ps *PipelineStatsComponent) record(deltaTime float32) {
	ps.frameHistory[ps.frameIndex] = deltaTime * 1000.0
	ps.frameIndex = (ps.frameIndex + 1) % ps.historyFrames
}

func (ps *PipelineStatsComponent) average() float32 {
	var total float32
	for _, ft := range ps.frameHistory {
		total += ft
	}
	return total / float32(ps.historyFrames)
}

// flushBreakdown lists the non-zero command counts of a flush in application order.
func flushBreakdown(r ecs.FlushResult) []string {
	var lines []string
	for kind, n := range r {
		if n == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("%s: %d", ecs.CommandKind(kind), n))
	}
	return lines
}

func componentTypeCounts(stats ecs.StoreStats) []string {
	types := make([]string, 0, len(stats.ComponentTypes))
	for t := range stats.ComponentTypes {
		types = append(types, t)
	}
	slices.Sort(types)

	lines := make([]string, len(types))
	for i, t := range types {
		lines[i] = fmt.Sprintf("%s: %d", t, stats.ComponentTypes[t])
	}
	return lines
}

type FrameTimer struct {
	lastFrameTime time.Time
}

func NewFrameTimer() *FrameTimer {
	return &FrameTimer{
		lastFrameTime: time.Now(),
	}
}

func (ft *FrameTimer) GetDeltaTime() float32 {
	now := time.Now()
	delta := float32(now.Sub(ft.lastFrameTime).Seconds())
	ft.lastFrameTime = now
	return delta
}
