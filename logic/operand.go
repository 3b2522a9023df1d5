package logic

import (
	"strings"

	"github.com/plus3/ooftn-logic/ecs"
)

// OperandKind selects how an operand is resolved.
type OperandKind string

const (
	OperandLiteral  OperandKind = "literal"
	OperandVariable OperandKind = "variable"
	OperandProperty OperandKind = "property"
	OperandMouse    OperandKind = "mouse"
)

// Scope selects a variable scope. The empty scope searches module, entity and
// global variables in that order.
type Scope string

const (
	ScopeAny    Scope = ""
	ScopeModule Scope = "module"
	ScopeEntity Scope = "entity"
	ScopeGlobal Scope = "global"
)

// Operand is a small expression: a literal, a variable read, a property of an
// entity, or the mouse position.
type Operand struct {
	Kind  OperandKind `json:"kind" yaml:"kind"`
	Value any         `json:"value,omitempty" yaml:"value,omitempty"`

	// Name is the variable name for variable operands and the property name
	// (x, y, z, rotation, scaleX, scaleY, position, scale, name, active) for
	// property operands.
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Scope Scope  `json:"scope,omitempty" yaml:"scope,omitempty"`

	// Entity names the entity read by variable and property operands;
	// empty means the executing entity.
	Entity string `json:"entity,omitempty" yaml:"entity,omitempty"`

	// Axis picks "x" or "y" of the mouse; empty yields the position vector.
	Axis string `json:"axis,omitempty" yaml:"axis,omitempty"`
}

// Literal builds a literal operand.
func Literal(v any) Operand {
	return Operand{Kind: OperandLiteral, Value: v}
}

// Var builds a variable operand.
func Var(name string) Operand {
	return Operand{Kind: OperandVariable, Name: name}
}

// resolve evaluates the operand. Missing data resolves to nil.
func (o Operand) resolve(ctx *Context) any {
	switch o.Kind {
	case OperandLiteral, "":
		return ecs.Normalize(o.Value)
	case OperandVariable:
		target := ctx.target(o.Entity)
		if target == nil && o.Entity != "" {
			return nil
		}
		v, ok := ctx.withEntity(target).lookup(o.Scope, o.Name)
		if !ok {
			return nil
		}
		return v.Value
	case OperandProperty:
		target := ctx.target(o.Entity)
		if target == nil {
			return nil
		}
		return property(target, o.Name)
	case OperandMouse:
		if ctx.Frame == nil || ctx.Frame.Input == nil {
			return nil
		}
		m := ctx.Frame.Input.Mouse
		switch strings.ToLower(o.Axis) {
		case "x":
			return ecs.Normalize(m.X)
		case "y":
			return ecs.Normalize(m.Y)
		default:
			return m
		}
	default:
		return nil
	}
}

func property(e *ecs.RuntimeEntity, name string) any {
	t := e.Transform
	switch name {
	case "x":
		return ecs.Normalize(t.X)
	case "y":
		return ecs.Normalize(t.Y)
	case "z":
		return ecs.Normalize(t.Z)
	case "rotation":
		return ecs.Normalize(t.Rotation)
	case "scaleX":
		return ecs.Normalize(t.ScaleX)
	case "scaleY":
		return ecs.Normalize(t.ScaleY)
	case "position":
		return ecs.Vector2{X: t.X, Y: t.Y}
	case "scale":
		return ecs.Vector2{X: t.ScaleX, Y: t.ScaleY}
	case "name":
		return e.Name
	case "active":
		return e.Active
	case "id":
		return int(e.ID)
	default:
		return nil
	}
}
