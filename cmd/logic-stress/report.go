package main

import (
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/module"
)

type Report struct {
	// Configuration
	Duration time.Duration
	Entities int
	Hazards  int
	HitRate  float64
	Rules    int
	Modules  int

	// Results
	TotalUpdates   int64
	TotalTime      time.Duration
	UpdateTime     Stats
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats

	// Runtime counters
	Pipeline    *ecs.PipelineStats
	Store       ecs.StoreStats
	Interpreter module.InterpreterStats
	RulesFired  int
	Contacts    int64
	Deaths      any
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

const reportTemplate = `
# Logic Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Walkers:** {{.Entities}}
- **Hazards:** {{.Hazards}}
- **Hit Rate:** {{.HitRate}} per frame
- **Rules per Walker:** {{.Rules}}
- **Modules:** {{.Modules}}

## Performance Results
- **Total Updates:** {{.TotalUpdates}}
- **Total Test Time:** {{.TotalTime}}
- **Update Time (Frame):**
  - **Avg:** {{.UpdateTime.Avg}}
  - **Min:** {{.UpdateTime.Min}}
  - **Max:** {{.UpdateTime.Max}}
{{with .Pipeline}}
## Systems
{{range .Systems}}- {{.Name}}: avg {{.AvgDuration}}, max {{.MaxDuration}}
{{end}}
## Runtime Counters
- **Frames:** {{.Frames}}
- **Commands Applied:** {{.CommandsApplied}}
{{- end}}
- **Rules Fired:** {{.RulesFired}}
- **Contacts:** {{.Contacts}}
- **Deaths:** {{.Deaths}}
- **Entities:** {{.Store.EntityCount}} ({{.Store.ActiveCount}} active)
- **Components:** {{.Store.ComponentCount}}
- **Modules Started:** {{.Interpreter.Started}}
- **Modules Completed:** {{.Interpreter.Completed}}
- **Modules Failed:** {{.Interpreter.Failed}}
- **Module Faults:** {{.Interpreter.BudgetFaults}} step budget, {{.Interpreter.DepthFaults}} call depth
- **Suspensions:** {{.Interpreter.Suspensions}} ({{.Interpreter.Resumed}} resumed)

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

func (r *Report) Generate(w io.Writer) error {
	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
