package logic

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/plus3/ooftn-logic/ecs"
	"github.com/plus3/ooftn-logic/module"
)

// DefaultClickRadius is the half extent, in units of entity scale, of the box
// used to hit-test clicks.
const DefaultClickRadius = 0.5

// maxSignalRounds bounds the extra passes that deliver signals raised on
// entities whose rules already ran this frame. Anything still pending after
// them is delivered next frame.
const maxSignalRounds = 8

// Listener observes rule execution.
type Listener interface {
	RuleFired(frame *ecs.UpdateFrame, e *ecs.RuntimeEntity, rule *LogicComponent)
	Logged(frame *ecs.UpdateFrame, e *ecs.RuntimeEntity, message string)
}

// Option configures a System.
type Option func(*System)

// WithLogger sets the system's logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClickRadius sets the default click hit-test radius.
func WithClickRadius(r float64) Option {
	return func(s *System) {
		if r > 0 {
			s.clickRadius = r
		}
	}
}

// WithListener installs an observer for fired rules and log actions.
func WithListener(l Listener) Option {
	return func(s *System) {
		s.listener = l
	}
}

// System dispatches the rules attached to entities. It also executes the
// blocks of module flow nodes.
type System struct {
	modules     *module.Interpreter
	pipeline    *ecs.Pipeline
	logger      *zap.Logger
	listener    Listener
	clickRadius float64

	started map[ecs.EntityID]struct{}
	fired   int
}

// NewSystem creates a rule system. modules may be nil, in which case RunModule
// and SpawnEntity modules do nothing.
func NewSystem(modules *module.Interpreter, opts ...Option) *System {
	s := &System{
		modules:     modules,
		logger:      zap.NewNop(),
		clickRadius: DefaultClickRadius,
		started:     make(map[ecs.EntityID]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if modules != nil {
		modules.SetRunner(s)
	}
	return s
}

// Fired returns how many rules have passed their conditions and run.
func (s *System) Fired() int {
	return s.fired
}

func (s *System) OnInit(p *ecs.Pipeline) {
	s.pipeline = p
	p.OnEntityDestroy(s.entityDestroyed)
}

func (s *System) OnUpdate(frame *ecs.UpdateFrame) {
	store := frame.Store
	for _, e := range store.Select(ecs.Criteria{All: []string{ComponentType}}) {
		_, seen := s.started[e.ID]
		if !seen {
			s.started[e.ID] = struct{}{}
		}

		var signals []string
		var rt *ecs.EntityRuntimeContext
		if rt = store.PeekContext(e.ID); rt != nil {
			signals = rt.Signals.Drain()
		}

		ctx := &Context{Store: store, Frame: frame, Entity: e}
		for _, rule := range RulesOf(store, e.ID) {
			if !e.Active || !store.HasEntity(e.ID) {
				break
			}
			switch rule.Event {
			case OnStart:
				if !seen {
					s.fire(ctx, rule)
				}
			case OnUpdate:
				s.fire(ctx, rule)
			case OnCollision:
				s.dispatchCollision(ctx, rt, rule)
			case OnSignalReceive:
				s.dispatchSignals(ctx, rule, signals)
			case OnClick:
				if s.clicked(frame, e, rule) {
					s.fire(ctx, rule)
				}
			}
		}
	}
	s.deliverSignals(frame)
}

// deliverSignals runs OnSignalReceive rules for signals raised after their
// entity's rules ran, so delivery does not depend on entity order.
func (s *System) deliverSignals(frame *ecs.UpdateFrame) {
	store := frame.Store
	for round := 0; round < maxSignalRounds; round++ {
		delivered := false
		for _, e := range store.Select(ecs.Criteria{All: []string{ComponentType}}) {
			rt := store.PeekContext(e.ID)
			if rt == nil || rt.Signals.Pending() == 0 {
				continue
			}
			delivered = true
			signals := rt.Signals.Drain()
			ctx := &Context{Store: store, Frame: frame, Entity: e}
			for _, rule := range RulesOf(store, e.ID) {
				if !e.Active || !store.HasEntity(e.ID) {
					break
				}
				if rule.Event == OnSignalReceive {
					s.dispatchSignals(ctx, rule, signals)
				}
			}
		}
		if !delivered {
			return
		}
	}
}

func (s *System) dispatchSignals(ctx *Context, rule *LogicComponent, signals []string) {
	name := rule.Param("signal")
	for _, sig := range signals {
		if name == "" || sig == name {
			c := *ctx
			c.Signal = sig
			s.fire(&c, rule)
		}
	}
}

func (s *System) dispatchCollision(ctx *Context, rt *ecs.EntityRuntimeContext, rule *LogicComponent) {
	if rt == nil {
		return
	}
	contacts := rt.Collisions.Entered
	if rule.Param("phase") == "exit" {
		contacts = rt.Collisions.Exited
	}
	tag := rule.Param("tag")
	for i := range contacts {
		contact := contacts[i]
		if tag != "" && contact.OtherTag != tag {
			continue
		}
		c := *ctx
		c.Contact = &contact
		s.fire(&c, rule)
	}
}

// clicked hit-tests the frame's click against the entity. A host-resolved hit
// wins; otherwise the click must fall inside a box around the entity.
func (s *System) clicked(frame *ecs.UpdateFrame, e *ecs.RuntimeEntity, rule *LogicComponent) bool {
	if frame.Input == nil || frame.Input.Click == nil {
		return false
	}
	click := frame.Input.Click
	if click.Hit != 0 {
		return click.Hit == e.ID
	}
	rx := s.clickRadius * math.Abs(e.Transform.ScaleX)
	ry := s.clickRadius * math.Abs(e.Transform.ScaleY)
	if r := rule.NumberParam("radius", 0); r > 0 {
		rx, ry = r, r
	}
	return math.Abs(click.X-e.Transform.X) <= rx && math.Abs(click.Y-e.Transform.Y) <= ry
}

func (s *System) fire(ctx *Context, rule *LogicComponent) {
	if !Evaluate(ctx, rule) {
		return
	}
	s.fired++
	if s.listener != nil {
		s.listener.RuleFired(ctx.Frame, ctx.Entity, rule)
	}
	s.runActions(ctx, rule.Actions)
}

// entityDestroyed fires OnDestroy rules while the entity is still readable.
func (s *System) entityDestroyed(e *ecs.RuntimeEntity) {
	delete(s.started, e.ID)
	store := s.pipeline.Store()
	ctx := &Context{Store: store, Frame: s.pipeline.Frame(), Entity: e}
	for _, rule := range RulesOf(store, e.ID) {
		if rule.Event == OnDestroy {
			s.fire(ctx, rule)
		}
	}
}

// RunBlock executes a module flow node's block as an action on behalf of the
// invoking entity.
func (s *System) RunBlock(frame *ecs.UpdateFrame, inv *module.Invocation, blockType string, params map[string]any) error {
	if frame == nil && s.pipeline != nil {
		frame = s.pipeline.Frame()
	}
	if frame == nil {
		return fmt.Errorf("block %q: no frame", blockType)
	}
	a, err := DecodeAction(blockType, params)
	if err != nil {
		return err
	}
	if v, ok := params["value"]; ok {
		acceptValue(a, v)
	}

	ctx := &Context{Store: frame.Store, Frame: frame, Module: inv.Variables}
	if inv.EntityID != 0 {
		if ctx.Entity = frame.Store.Entity(inv.EntityID); ctx.Entity == nil {
			return fmt.Errorf("block %q: entity %d no longer exists", blockType, inv.EntityID)
		}
	}
	s.execute(ctx, a)
	return nil
}
