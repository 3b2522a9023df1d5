package logic

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/plus3/ooftn-logic/ecs"
)

// runActions executes actions in order.
func (s *System) runActions(ctx *Context, actions ActionList) {
	for _, a := range actions {
		s.execute(ctx, a)
	}
}

// execute runs one action. Transform, variable and signal changes apply
// immediately; structural changes are queued on the frame's command buffer.
func (s *System) execute(ctx *Context, action Action) {
	switch a := action.(type) {
	case *Move:
		e := ctx.target(a.Target)
		if e == nil {
			return
		}
		dx, dy := a.DX, a.DY
		if a.PerSecond {
			dt := ctx.deltaTime()
			dx, dy = dx*dt, dy*dt
		}
		e.Transform.X += dx
		e.Transform.Y += dy

	case *SetPosition:
		if e := ctx.target(a.Target); e != nil {
			e.Transform.X, e.Transform.Y = a.X, a.Y
		}

	case *Rotate:
		e := ctx.target(a.Target)
		if e == nil {
			return
		}
		deg := a.Degrees
		if a.PerSecond {
			deg *= ctx.deltaTime()
		}
		e.Transform.Rotation += deg

	case *SetScale:
		if e := ctx.target(a.Target); e != nil {
			e.Transform.ScaleX, e.Transform.ScaleY = a.X, a.Y
		}

	case *Enable:
		if e := ctx.target(a.Target); e != nil {
			e.Active = a.Enabled
		}

	case *SetVar:
		s.setVar(ctx, a)

	case *SetSignal:
		if a.Broadcast {
			for _, e := range ctx.Store.Select(ecs.Criteria{All: []string{ComponentType}}) {
				ctx.Store.Context(e.ID).Signals.Set(a.Signal, a.Value)
			}
			return
		}
		if e := ctx.target(a.Target); e != nil {
			ctx.Store.Context(e.ID).Signals.Set(a.Signal, a.Value)
		}

	case *ClearSignal:
		if e := ctx.target(a.Target); e != nil {
			if rt := ctx.Store.PeekContext(e.ID); rt != nil {
				rt.Signals.Clear(a.Signal)
			}
		}

	case *SpawnEntity:
		s.spawn(ctx, a)

	case *Destroy:
		if e := ctx.target(a.Target); e != nil {
			s.commands(ctx).DestroyEntity(e.ID)
		}

	case *AddComponent:
		e := ctx.target(a.Target)
		if e == nil || a.Component.Type == "" {
			return
		}
		s.commands(ctx).AddComponent(a.Component.Build(e.ID))

	case *RemoveComponent:
		if e := ctx.target(a.Target); e != nil && a.ComponentType != "" {
			s.commands(ctx).RemoveComponent(e.ID, a.ComponentType)
		}

	case *If:
		if a.Condition == nil || EvalCondition(ctx, a.Condition) {
			s.runActions(ctx, a.Then)
		} else {
			s.runActions(ctx, a.Else)
		}

	case *RunModule:
		if s.modules == nil {
			return
		}
		var id ecs.EntityID
		if ctx.Entity != nil {
			id = ctx.Entity.ID
		}
		res := s.modules.Run(ctx.Frame, a.Module, id, a.Variables, a.Concurrent)
		s.logger.Debug("module finished",
			zap.String("module", a.Module),
			zap.Uint64("entity", uint64(id)),
			zap.String("status", string(res.Status)),
			zap.String("error_code", res.ErrorCode))

	case *Log:
		var id ecs.EntityID
		if ctx.Entity != nil {
			id = ctx.Entity.ID
		}
		s.logger.Info(a.Message, zap.Uint64("entity", uint64(id)))
		if s.listener != nil {
			s.listener.Logged(ctx.Frame, ctx.Entity, a.Message)
		}
	}
}

func (s *System) setVar(ctx *Context, a *SetVar) {
	e := ctx.Entity
	if a.Target != "" {
		if e = ctx.target(a.Target); e == nil {
			return
		}
	}
	scoped := ctx.withEntity(e)

	var result any
	switch {
	case a.Operation == "" || a.Operation == OpSet:
		result = a.A.resolve(ctx)
		if result == nil {
			return
		}
	case a.B != nil:
		v, ok := apply(a.Operation, a.A.resolve(ctx), a.B.resolve(ctx))
		if !ok {
			return
		}
		result = v
	default:
		var current any
		if v, ok := scoped.lookup(a.Scope, a.Name); ok {
			current = v.Value
		}
		v, ok := apply(a.Operation, current, a.A.resolve(ctx))
		if !ok {
			return
		}
		result = v
	}
	scoped.write(a.Scope, a.Name, result)
}

func (s *System) spawn(ctx *Context, a *SpawnEntity) {
	e := ecs.NewEntity(a.Name)
	e.Transform.X, e.Transform.Y = a.X, a.Y
	if a.Relative && ctx.Entity != nil {
		e.Transform.X += ctx.Entity.Transform.X
		e.Transform.Y += ctx.Entity.Transform.Y
	}
	e.Role = a.Role
	e.Tags = append([]string(nil), a.Tags...)
	e.Variables = append([]ecs.EditorVariable(nil), a.Variables...)

	cmds := s.commands(ctx)
	id := cmds.CreateEntity(e)
	for _, spec := range a.Components {
		if spec.Type == "" {
			continue
		}
		cmds.AddComponent(spec.Build(id))
	}
	for _, rule := range a.Logic {
		if rule != nil {
			cmds.AddComponent(ecs.NewComponent(id, ComponentType, rule))
		}
	}
	if a.Module != "" && s.modules != nil {
		ref := a.Module
		cmds.Defer(func() {
			if !ctx.Store.HasEntity(id) {
				return
			}
			s.modules.Run(s.currentFrame(ctx), ref, id, nil, false)
		})
	}
}

// Build creates the component for an entity. Loose "Logic" data is decoded
// into a LogicComponent so spawned and added rules dispatch like authored ones.
func (spec ComponentSpec) Build(id ecs.EntityID) *ecs.RuntimeComponent {
	return ecs.NewComponent(id, spec.Type, componentData(spec))
}

func componentData(spec ComponentSpec) any {
	if spec.Type != ComponentType {
		return spec.Data
	}
	switch d := spec.Data.(type) {
	case *LogicComponent:
		return d
	case LogicComponent:
		return &d
	case nil:
		return spec.Data
	}
	raw, err := json.Marshal(spec.Data)
	if err != nil {
		return spec.Data
	}
	var rule LogicComponent
	if err := json.Unmarshal(raw, &rule); err != nil {
		return spec.Data
	}
	return &rule
}

func (s *System) commands(ctx *Context) *ecs.Commands {
	if ctx.Frame != nil && ctx.Frame.Commands != nil {
		return ctx.Frame.Commands
	}
	return s.pipeline.Commands()
}

func (s *System) currentFrame(ctx *Context) *ecs.UpdateFrame {
	if s.pipeline != nil {
		if f := s.pipeline.Frame(); f != nil {
			return f
		}
	}
	return ctx.Frame
}

func (ctx *Context) deltaTime() float64 {
	if ctx.Frame == nil {
		return 0
	}
	return ctx.Frame.DeltaTime
}
