package ecs

import (
	"context"
	"reflect"
	"time"

	"go.uber.org/zap"
)

// PipelineStats provides statistics about frame execution.
type PipelineStats struct {
	SystemCount      int
	Frames           uint64
	CommandsApplied  int64
	LastFrameApplied FlushResult
	Systems          []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	name           string
	executionCount int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

func (s *systemStatsInternal) record(d time.Duration) {
	s.executionCount++
	s.lastDuration = d
	s.totalDuration += d
	if d < s.minDuration {
		s.minDuration = d
	}
	if d > s.maxDuration {
		s.maxDuration = d
	}
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithLogger sets the pipeline's logger.
func WithLogger(logger *zap.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// Pipeline owns the frame lifecycle: begin frame, update, late update and the
// application of deferred commands. Systems run in registration order.
type Pipeline struct {
	store        *Store
	commands     *Commands
	systems      []System
	systemStats  []*systemStatsInternal
	destroyHooks []DestroyHook
	input        InputState
	frame        *UpdateFrame
	frames       uint64
	elapsed      float64
	applied      int64
	lastApplied  FlushResult
	logger       *zap.Logger
}

// NewPipeline creates a pipeline over the given store.
func NewPipeline(store *Store, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		store:    store,
		commands: newCommands(store),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.frame = p.newFrame(0)
	return p
}

// Store returns the store the pipeline runs against.
func (p *Pipeline) Store() *Store {
	return p.store
}

// Commands returns the deferred command buffer.
func (p *Pipeline) Commands() *Commands {
	return p.commands
}

// Logger returns the pipeline's logger.
func (p *Pipeline) Logger() *zap.Logger {
	return p.logger
}

// Frame returns the most recent frame, or a zero-delta frame before the first one.
// Callers outside the frame loop use it to queue commands and read input.
func (p *Pipeline) Frame() *UpdateFrame {
	return p.frame
}

// SetInput replaces the input snapshot used by the next frame.
func (p *Pipeline) SetInput(in InputState) {
	p.input = in
}

// OnEntityDestroy registers a hook that runs for every destroyed entity while it
// is still readable.
func (p *Pipeline) OnEntityDestroy(hook DestroyHook) {
	p.destroyHooks = append(p.destroyHooks, hook)
}

// AddSystem registers a system and runs its OnInit immediately.
func (p *Pipeline) AddSystem(system System) {
	p.systems = append(p.systems, system)

	systemType := reflect.TypeOf(system)
	if systemType.Kind() == reflect.Ptr {
		systemType = systemType.Elem()
	}
	p.systemStats = append(p.systemStats, &systemStatsInternal{
		name:        systemType.String(),
		minDuration: time.Duration(1<<63 - 1),
	})

	if init, ok := system.(Initializer); ok {
		init.OnInit(p)
	}
}

// Systems returns the registered systems in order.
func (p *Pipeline) Systems() []System {
	return append([]System(nil), p.systems...)
}

func (p *Pipeline) newFrame(dt float64) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Time:      p.elapsed,
		Number:    p.frames,
		Store:     p.store,
		Commands:  p.commands,
		Input:     &p.input,
	}
}

// ExecuteFrame runs one frame with the given delta time in seconds.
func (p *Pipeline) ExecuteFrame(dt float64) {
	p.frames++
	p.elapsed += dt
	frame := p.newFrame(dt)
	p.frame = frame

	p.store.beginFrame()

	for i, system := range p.systems {
		if u, ok := system.(Updater); ok {
			start := time.Now()
			u.OnUpdate(frame)
			p.systemStats[i].record(time.Since(start))
		}
	}

	for _, system := range p.systems {
		if u, ok := system.(LateUpdater); ok {
			u.OnLateUpdate(frame)
		}
	}

	p.applyDeferred()
}

// Flush applies queued commands immediately, outside the frame loop.
func (p *Pipeline) Flush() FlushResult {
	return p.applyDeferred()
}

func (p *Pipeline) applyDeferred() FlushResult {
	result := p.commands.Flush(p.destroyHooks)
	p.lastApplied = result
	p.applied += int64(result.Total())
	if result.Total() > 0 {
		p.logger.Debug("applied deferred commands",
			zap.Uint64("frame", p.frames),
			zap.Int("created", result[CommandCreateEntity]),
			zap.Int("components_added", result[CommandAddComponent]),
			zap.Int("variables_set", result[CommandSetEntityVariable]),
			zap.Int("components_removed", result[CommandRemoveComponent]),
			zap.Int("destroyed", result[CommandDestroyEntity]),
		)
	}
	return result
}

// Run executes frames at the given interval until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			p.ExecuteFrame(dt)
		}
	}
}

// Destroy calls OnDestroy on every system and clears the system list. Calling
// it again does nothing.
func (p *Pipeline) Destroy() {
	systems := p.systems
	p.systems = nil
	p.systemStats = nil
	for _, system := range systems {
		if d, ok := system.(Destroyer); ok {
			d.OnDestroy()
		}
	}
}

// Stats returns statistics about system execution.
func (p *Pipeline) Stats() *PipelineStats {
	stats := &PipelineStats{
		SystemCount:      len(p.systems),
		Frames:           p.frames,
		CommandsApplied:  p.applied,
		LastFrameApplied: p.lastApplied,
		Systems:          make([]SystemStats, len(p.systemStats)),
	}

	for i, internal := range p.systemStats {
		avgDuration := time.Duration(0)
		minDuration := internal.minDuration
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
		} else {
			minDuration = 0
		}

		stats.Systems[i] = SystemStats{
			Name:           internal.name,
			ExecutionCount: internal.executionCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
	}

	return stats
}
