// Package logic evaluates authored event → condition → action rules attached to
// entities as "Logic" components.
package logic

import "github.com/plus3/ooftn-logic/ecs"

// ComponentType is the component type under which rules are attached.
const ComponentType = "Logic"

// EventKind names the trigger of a rule.
type EventKind string

const (
	OnStart         EventKind = "OnStart"
	OnUpdate        EventKind = "OnUpdate"
	OnDestroy       EventKind = "OnDestroy"
	OnSignalReceive EventKind = "OnSignalReceive"
	OnCollision     EventKind = "OnCollision"
	OnClick         EventKind = "OnClick"
)

// ConditionLogic combines the results of a rule's conditions.
type ConditionLogic string

const (
	LogicAnd ConditionLogic = "AND"
	LogicOr  ConditionLogic = "OR"
)

// LogicComponent is one authored rule.
type LogicComponent struct {
	ID             string         `json:"id" yaml:"id"`
	Event          EventKind      `json:"event" yaml:"event"`
	EventParams    map[string]any `json:"eventParams,omitempty" yaml:"eventParams,omitempty"`
	Conditions     ConditionList  `json:"conditions,omitempty" yaml:"conditions,omitempty"`
	ConditionLogic ConditionLogic `json:"conditionLogic,omitempty" yaml:"conditionLogic,omitempty"`
	Actions        ActionList     `json:"actions,omitempty" yaml:"actions,omitempty"`
}

// Param returns a string event parameter.
func (r *LogicComponent) Param(name string) string {
	if r.EventParams == nil {
		return ""
	}
	v, ok := r.EventParams[name]
	if !ok {
		return ""
	}
	return ecs.ToString(v)
}

// NumberParam returns a numeric event parameter, or def when missing.
func (r *LogicComponent) NumberParam(name string, def float64) float64 {
	if r.EventParams == nil {
		return def
	}
	if f, ok := ecs.ToNumber(r.EventParams[name]); ok {
		return f
	}
	return def
}

// Attach wraps rules as components of an entity, in order.
func Attach(id ecs.EntityID, rules ...*LogicComponent) []*ecs.RuntimeComponent {
	out := make([]*ecs.RuntimeComponent, 0, len(rules))
	for _, r := range rules {
		out = append(out, ecs.NewComponent(id, ComponentType, r))
	}
	return out
}

// RulesOf returns the rules attached to an entity in declaration order.
func RulesOf(store *ecs.Store, id ecs.EntityID) []*LogicComponent {
	comps := store.ComponentsOf(id, ComponentType)
	out := make([]*LogicComponent, 0, len(comps))
	for _, c := range comps {
		if r, ok := c.Data.(*LogicComponent); ok && r != nil {
			out = append(out, r)
		}
	}
	return out
}
