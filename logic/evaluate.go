package logic

import (
	"github.com/plus3/ooftn-logic/ecs"
)

// Evaluate reports whether the rule's conditions pass. No conditions always pass.
func Evaluate(ctx *Context, rule *LogicComponent) bool {
	if len(rule.Conditions) == 0 {
		return true
	}
	if rule.ConditionLogic == LogicOr {
		for _, c := range rule.Conditions {
			if EvalCondition(ctx, c) {
				return true
			}
		}
		return false
	}
	for _, c := range rule.Conditions {
		if !EvalCondition(ctx, c) {
			return false
		}
	}
	return true
}

// EvalCondition evaluates one condition. Missing data never panics; it falls
// back to zero values.
func EvalCondition(ctx *Context, cond Condition) bool {
	switch c := cond.(type) {
	case *VarCompare:
		return evalVarCompare(ctx, c)
	case *IsGrounded:
		if ctx.Entity == nil {
			return false
		}
		rt := ctx.Store.PeekContext(ctx.Entity.ID)
		return rt != nil && rt.Collisions.Grounded
	case *IsAlive:
		name := c.Variable
		if name == "" {
			name = "hp"
		}
		v, ok := ctx.lookup(ScopeEntity, name)
		if !ok {
			return ctx.Entity != nil
		}
		f, _ := ecs.ToNumber(v.Value)
		return f > 0
	case *KeyPressed:
		return ctx.Frame != nil && ctx.Frame.Input.Pressed(c.Key)
	case *SignalSet:
		rt := ctx.runtime()
		return rt != nil && rt.Signals.IsSet(c.Signal)
	case *SignalEquals:
		rt := ctx.runtime()
		if rt == nil {
			return false
		}
		v, ok := rt.Signals.Value(c.Signal)
		return ok && ecs.Equal(v, c.Value)
	case *HasTag:
		return ctx.Entity != nil && ctx.Entity.HasTag(c.Tag)
	case *IsColliding:
		if ctx.Entity == nil {
			return false
		}
		rt := ctx.Store.PeekContext(ctx.Entity.ID)
		if rt == nil {
			return false
		}
		for _, contact := range rt.Collisions.Current {
			if c.Tag == "" || contact.OtherTag == c.Tag {
				return true
			}
		}
		return false
	case *Always:
		return true
	default:
		return false
	}
}

func evalVarCompare(ctx *Context, c *VarCompare) bool {
	scoped := ctx
	if c.Entity != "" {
		target := ctx.target(c.Entity)
		if target == nil {
			return false
		}
		scoped = ctx.withEntity(target)
	}

	var current, expected any
	if v, ok := scoped.lookup(c.Scope, c.Name); ok {
		current = v.Value
		expected = ecs.Coerce(v.Type, c.Value)
	} else {
		expected = ecs.Normalize(c.Value)
		current = ecs.Zero(ecs.InferType(expected))
	}

	return compare(c.Op, current, expected)
}

func compare(op CompareOp, a, b any) bool {
	switch op {
	case OpEquals:
		return ecs.Equal(a, b)
	case OpNotEquals:
		return !ecs.Equal(a, b)
	}
	cmp, ok := ecs.Compare(a, b)
	if !ok {
		return false
	}
	switch op {
	case OpGreater:
		return cmp > 0
	case OpGreaterOrEqual:
		return cmp >= 0
	case OpLess:
		return cmp < 0
	case OpLessOrEqual:
		return cmp <= 0
	default:
		return false
	}
}
