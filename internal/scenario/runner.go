package scenario

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/internal/config"
	"github.com/plus3/ooftn-logic/logic"
	"github.com/plus3/ooftn-logic/module"
)

// Session is a scenario loaded into a live runtime.
type Session struct {
	Scenario *Scenario
	Store    *ecs.Store
	Pipeline *ecs.Pipeline
	Rules    *logic.System
	Modules  *module.Interpreter

	dt       float64
	recorder *recorder
}

// NewSession builds the store, pipeline and systems for sc. A nil cfg uses
// the defaults and a nil logger discards output.
func NewSession(sc *Scenario, cfg *config.Config, logger *zap.Logger) (*Session, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	store := ecs.NewStore()
	store.SetGroundTags(cfg.GroundTags...)
	for _, v := range sc.Globals {
		store.DeclareVariable(v.Name, v.Type, v.Value)
	}

	interp := module.NewInterpreter(
		module.NewLibrary(sc.Modules...),
		module.WithLogger(logger.Named("module")),
		module.WithStepBudget(cfg.MaxModuleSteps),
	)
	rec := &recorder{}
	rules := logic.NewSystem(interp,
		logic.WithLogger(logger.Named("logic")),
		logic.WithClickRadius(cfg.ClickRadius),
		logic.WithListener(rec),
	)

	pipeline := ecs.NewPipeline(store, ecs.WithLogger(logger.Named("pipeline")))
	pipeline.AddSystem(&script{scenario: sc})
	pipeline.AddSystem(rules)
	pipeline.AddSystem(module.NewSystem(interp))

	for _, spec := range sc.Entities {
		if err := register(store, spec); err != nil {
			return nil, err
		}
	}

	dt := sc.DeltaTime
	if dt <= 0 {
		dt = cfg.FixedStep
	}
	return &Session{
		Scenario: sc,
		Store:    store,
		Pipeline: pipeline,
		Rules:    rules,
		Modules:  interp,
		dt:       dt,
		recorder: rec,
	}, nil
}

func register(store *ecs.Store, spec EntitySpec) error {
	e := ecs.NewEntity(spec.Name)
	e.Transform.X, e.Transform.Y = spec.X, spec.Y
	if spec.ScaleX != nil {
		e.Transform.ScaleX = *spec.ScaleX
	}
	if spec.ScaleY != nil {
		e.Transform.ScaleY = *spec.ScaleY
	}
	if spec.Active != nil {
		e.Active = *spec.Active
	}
	e.Role = spec.Role
	e.Tags = spec.Tags
	e.Variables = spec.Variables
	if !store.RegisterEntity(e) {
		return fmt.Errorf("entity %q could not be registered", spec.Name)
	}
	for _, c := range spec.Components {
		store.RegisterComponent(c.Build(e.ID))
	}
	for _, c := range logic.Attach(e.ID, spec.Logic...) {
		store.RegisterComponent(c)
	}
	return nil
}

// Step runs one frame and returns its trace.
func (s *Session) Step() FrameTrace {
	next := int(s.Pipeline.Stats().Frames) + 1
	s.Pipeline.SetInput(s.Scenario.inputAt(next))
	s.recorder.reset()

	s.Pipeline.ExecuteFrame(s.dt)

	stats := s.Pipeline.Stats()
	ft := FrameTrace{
		Number:    stats.Frames,
		Fired:     s.recorder.fired,
		Logs:      s.recorder.logs,
		Applied:   stats.LastFrameApplied.Total(),
		Suspended: len(s.Modules.Suspended()),
	}
	ft.Entities, ft.Globals = snapshot(s.Store)
	ft.Digest = digest(ft.Entities, ft.Globals)
	return ft
}

// Close destroys the pipeline.
func (s *Session) Close() {
	s.Pipeline.Destroy()
}

// Run executes every frame of sc and returns the trace.
func Run(sc *Scenario, cfg *config.Config, logger *zap.Logger) (*Trace, error) {
	session, err := NewSession(sc, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer session.Close()

	trace := &Trace{Scenario: sc.Name, Frames: make([]FrameTrace, 0, sc.Frames)}
	for i := 0; i < sc.Frames; i++ {
		trace.Frames = append(trace.Frames, session.Step())
	}
	return trace, nil
}

func (sc *Scenario) inputAt(frame int) ecs.InputState {
	in := ecs.InputState{Keys: make(map[string]bool)}
	for _, step := range sc.Input {
		until := step.Until
		if until < step.Frame {
			until = step.Frame
		}
		if frame < step.Frame || frame > until {
			continue
		}
		for k, v := range step.Keys {
			in.Keys[k] = v
		}
		if step.Mouse != nil {
			in.Mouse = *step.Mouse
		}
		if step.Click != nil {
			click := *step.Click
			in.Click = &click
		}
	}
	return in
}

// script reports the scenario's contacts at the start of each frame, the way
// a physics system running ahead of the rules would.
type script struct {
	scenario *Scenario
}

func (s *script) OnUpdate(frame *ecs.UpdateFrame) {
	store := frame.Store
	for _, step := range s.scenario.Collisions {
		if uint64(step.Frame) != frame.Number {
			continue
		}
		self, other := store.FindByName(step.Entity), store.FindByName(step.Other)
		if self == nil || other == nil {
			continue
		}
		contact := ecs.Contact{OtherID: other.ID, OtherTag: firstTag(other), SelfTag: firstTag(self)}
		if step.OtherTag != "" {
			contact.OtherTag = step.OtherTag
		}
		record(store, step.Phase, self.ID, contact)
		if !step.OneWay {
			mirror := ecs.Contact{OtherID: self.ID, OtherTag: contact.SelfTag, SelfTag: contact.OtherTag}
			record(store, step.Phase, other.ID, mirror)
		}
	}
}

func record(store *ecs.Store, phase string, id ecs.EntityID, c ecs.Contact) {
	switch phase {
	case PhaseStay:
		store.RecordCollisionStay(id, c)
	case PhaseExit:
		store.RecordCollisionExit(id, c)
	default:
		store.RecordCollisionEnter(id, c)
	}
}

func firstTag(e *ecs.RuntimeEntity) string {
	if len(e.Tags) == 0 {
		return ""
	}
	return e.Tags[0]
}

type recorder struct {
	fired []string
	logs  []string
}

func (r *recorder) reset() {
	r.fired, r.logs = nil, nil
}

func (r *recorder) RuleFired(_ *ecs.UpdateFrame, e *ecs.RuntimeEntity, rule *logic.LogicComponent) {
	id := rule.ID
	if id == "" {
		id = string(rule.Event)
	}
	r.fired = append(r.fired, entityName(e)+"/"+id)
}

func (r *recorder) Logged(_ *ecs.UpdateFrame, e *ecs.RuntimeEntity, message string) {
	r.logs = append(r.logs, entityName(e)+": "+message)
}

func entityName(e *ecs.RuntimeEntity) string {
	if e == nil {
		return "-"
	}
	return e.Name
}
