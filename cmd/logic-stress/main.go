// Command logic-stress drives a large population of rule-driven entities
// through the full pipeline and reports frame timings and runtime counters.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/internal/logging"
	"github.com/plus3/ooftn-logic/logic"
	"github.com/plus3/ooftn-logic/module"
)

func main() {
	duration := flag.Duration("duration", 10*time.Second, "The total duration the test should run for.")
	entityCount := flag.Int("entities", 10000, "The initial number of walker entities to create.")
	hazardCount := flag.Int("hazards", 16, "The number of hazard entities walkers collide with.")
	hitRate := flag.Float64("hit-rate", 0.05, "The share of walkers touched by a hazard each frame.")
	logLevel := flag.String("log-level", "info", "Log level (debug|info|warn|error).")
	gcPauseMetrics := flag.Bool("gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Parse()

	logger, err := logging.New(*logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting logic stress test")

	// 1. Setup store, interpreter and pipeline
	library, err := loadModules()
	if err != nil {
		logger.Fatal("failed to load modules", zap.Error(err))
	}
	store := ecs.NewStore()
	store.DeclareVariable("deaths", ecs.TypeInt, 0)

	interp := module.NewInterpreter(library, module.WithLogger(logger.Named("module")))
	rules := logic.NewSystem(interp, logic.WithLogger(logger.Named("logic")))
	contacts := &contactSystem{rate: *hitRate}

	pipeline := ecs.NewPipeline(store, ecs.WithLogger(logger.Named("pipeline")))
	pipeline.AddSystem(contacts)
	pipeline.AddSystem(rules)
	pipeline.AddSystem(module.NewSystem(interp))

	// 2. Populate the store
	logger.Info("populating store", zap.Int("walkers", *entityCount), zap.Int("hazards", *hazardCount))
	for i := range *hazardCount {
		contacts.hazards = append(contacts.hazards, spawnHazard(store, i))
	}
	for i := range *entityCount {
		spawnWalker(store, i)
	}
	contacts.walkers = store.EntityIDs()[*hazardCount:]
	logger.Info("population complete")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       *duration,
		Entities:       *entityCount,
		Hazards:        *hazardCount,
		HitRate:        *hitRate,
		Rules:          len(walkerRules()),
		Modules:        library.Len(),
		GCPauseMetrics: *gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation", zap.Duration("duration", *duration))
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	startTime := time.Now()
	var totalUpdates int64
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			pipeline.ExecuteFrame(deltaTime.Seconds())
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	report.Pipeline = pipeline.Stats()
	report.Store = store.CollectStats()
	report.Interpreter = interp.Stats()
	report.RulesFired = rules.Fired()
	report.Contacts = contacts.hits
	if v := store.Variable("deaths"); v != nil {
		report.Deaths = v.Value
	}

	logger.Info("simulation finished", zap.Int64("frames", totalUpdates))

	// 4. Generate report to console
	fmt.Println("\n\n--- Stress Test Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		logger.Fatal("failed to generate report", zap.Error(err))
	}
	fmt.Println("--- End of Report ---")
}
