package logic

import (
	"github.com/plus3/ooftn-logic/ecs"
)

// Context is the environment a condition or action runs in.
type Context struct {
	Store  *ecs.Store
	Frame  *ecs.UpdateFrame
	Entity *ecs.RuntimeEntity

	// Module is the variable scope of the module invocation running the
	// action, or nil outside modules.
	Module ecs.Variables

	// Contact is the contact that triggered an OnCollision rule.
	Contact *ecs.Contact

	// Signal is the signal that triggered an OnSignalReceive rule.
	Signal string
}

func (ctx *Context) withEntity(e *ecs.RuntimeEntity) *Context {
	c := *ctx
	c.Entity = e
	return &c
}

// target resolves an entity reference: empty or "self" is the executing
// entity, "other" is the entity on the triggering contact, anything else is an
// entity name.
func (ctx *Context) target(ref string) *ecs.RuntimeEntity {
	switch ref {
	case "", "self":
		return ctx.Entity
	case "other":
		if ctx.Contact == nil {
			return nil
		}
		return ctx.Store.Entity(ctx.Contact.OtherID)
	default:
		return ctx.Store.FindByName(ref)
	}
}

func (ctx *Context) runtime() *ecs.EntityRuntimeContext {
	if ctx.Entity == nil {
		return nil
	}
	return ctx.Store.Context(ctx.Entity.ID)
}

func (ctx *Context) lookup(scope Scope, name string) (*ecs.RuntimeVariable, bool) {
	switch scope {
	case ScopeModule:
		v, ok := ctx.Module[name]
		return v, ok
	case ScopeEntity:
		if ctx.Entity == nil {
			return nil, false
		}
		v := ctx.Store.EntityVariable(ctx.Entity.ID, name)
		return v, v != nil
	case ScopeGlobal:
		v := ctx.Store.Variable(name)
		return v, v != nil
	default:
		if v, ok := ctx.Module[name]; ok {
			return v, true
		}
		if ctx.Entity != nil {
			if v := ctx.Store.EntityVariable(ctx.Entity.ID, name); v != nil {
				return v, true
			}
		}
		v := ctx.Store.Variable(name)
		return v, v != nil
	}
}

func (ctx *Context) write(scope Scope, name string, value any) {
	switch scope {
	case ScopeModule:
		if ctx.Module != nil {
			ctx.Module.Set(name, value)
		}
	case ScopeEntity:
		if ctx.Entity != nil {
			ctx.Store.SetEntityVariable(ctx.Entity.ID, name, value)
		}
	case ScopeGlobal:
		ctx.Store.SetVariable(name, value)
	default:
		if _, ok := ctx.Module[name]; ok {
			ctx.Module.Set(name, value)
			return
		}
		if ctx.Entity != nil && ctx.Store.EntityVariable(ctx.Entity.ID, name) != nil {
			ctx.Store.SetEntityVariable(ctx.Entity.ID, name, value)
			return
		}
		if ctx.Store.Variable(name) != nil || ctx.Entity == nil {
			ctx.Store.SetVariable(name, value)
			return
		}
		ctx.Store.SetEntityVariable(ctx.Entity.ID, name, value)
	}
}
