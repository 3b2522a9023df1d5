package logic

import (
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKind is returned when decoding a condition or action whose type tag
// is not known.
var ErrUnknownKind = errors.New("unknown kind")

// ConditionList is an ordered list of conditions. It encodes as a list of
// objects discriminated by their "type" field.
type ConditionList []Condition

// ActionList is an ordered list of actions, encoded like ConditionList.
type ActionList []Action

func marshalTaggedJSON(kind string, v any) (json.RawMessage, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	tag, err := json.Marshal(kind)
	if err != nil {
		return nil, err
	}
	fields["type"] = tag
	return json.Marshal(fields)
}

func typeOfJSON(raw json.RawMessage) (string, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return "", err
	}
	return head.Type, nil
}

func decodeConditionJSON(raw json.RawMessage) (Condition, error) {
	kind, err := typeOfJSON(raw)
	if err != nil {
		return nil, err
	}
	c, ok := newCondition(kind)
	if !ok {
		return nil, fmt.Errorf("condition %q: %w", kind, ErrUnknownKind)
	}
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("condition %q: %w", kind, err)
	}
	return c, nil
}

func decodeActionJSON(raw json.RawMessage) (Action, error) {
	kind, err := typeOfJSON(raw)
	if err != nil {
		return nil, err
	}
	a, ok := newAction(kind)
	if !ok {
		return nil, fmt.Errorf("action %q: %w", kind, ErrUnknownKind)
	}
	if err := json.Unmarshal(raw, a); err != nil {
		return nil, fmt.Errorf("action %q: %w", kind, err)
	}
	return a, nil
}

// MarshalJSON encodes the list with type tags.
func (l ConditionList) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(l))
	for _, c := range l {
		raw, err := marshalTaggedJSON(c.Kind(), c)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a tagged list.
func (l *ConditionList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(ConditionList, 0, len(raws))
	for _, raw := range raws {
		c, err := decodeConditionJSON(raw)
		if err != nil {
			return err
		}
		out = append(out, c)
	}
	*l = out
	return nil
}

// MarshalJSON encodes the list with type tags.
func (l ActionList) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, 0, len(l))
	for _, a := range l {
		raw, err := marshalTaggedJSON(a.Kind(), a)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a tagged list.
func (l *ActionList) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}
	out := make(ActionList, 0, len(raws))
	for _, raw := range raws {
		a, err := decodeActionJSON(raw)
		if err != nil {
			return err
		}
		out = append(out, a)
	}
	*l = out
	return nil
}

type ifJSON struct {
	Condition json.RawMessage `json:"condition,omitempty"`
	Then      ActionList      `json:"then,omitempty"`
	Else      ActionList      `json:"else,omitempty"`
}

// MarshalJSON encodes the embedded condition with its type tag.
func (a *If) MarshalJSON() ([]byte, error) {
	var out ifJSON
	if a.Condition != nil {
		raw, err := marshalTaggedJSON(a.Condition.Kind(), a.Condition)
		if err != nil {
			return nil, err
		}
		out.Condition = raw
	}
	out.Then, out.Else = a.Then, a.Else
	return json.Marshal(out)
}

// UnmarshalJSON decodes the embedded condition by its type tag.
func (a *If) UnmarshalJSON(data []byte) error {
	var in ifJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	a.Condition = nil
	if len(in.Condition) > 0 && string(in.Condition) != "null" {
		c, err := decodeConditionJSON(in.Condition)
		if err != nil {
			return err
		}
		a.Condition = c
	}
	a.Then, a.Else = in.Then, in.Else
	return nil
}

// DecodeAction builds an action of the given kind from a loose parameter map,
// as found on module flow nodes.
func DecodeAction(kind string, params map[string]any) (Action, error) {
	fields := make(map[string]any, len(params)+1)
	for k, v := range params {
		fields[k] = v
	}
	fields["type"] = kind
	raw, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("action %q: %w", kind, err)
	}
	return decodeActionJSON(raw)
}

func taggedYAML(kind string, v any) (map[string]any, error) {
	body, err := yaml.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any)
	if err := yaml.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = make(map[string]any)
	}
	fields["type"] = kind
	return fields, nil
}

func typeOfYAML(node *yaml.Node) (string, error) {
	var head struct {
		Type string `yaml:"type"`
	}
	if err := node.Decode(&head); err != nil {
		return "", err
	}
	return head.Type, nil
}

func decodeConditionYAML(node *yaml.Node) (Condition, error) {
	kind, err := typeOfYAML(node)
	if err != nil {
		return nil, err
	}
	c, ok := newCondition(kind)
	if !ok {
		return nil, fmt.Errorf("line %d: condition %q: %w", node.Line, kind, ErrUnknownKind)
	}
	if err := node.Decode(c); err != nil {
		return nil, fmt.Errorf("line %d: condition %q: %w", node.Line, kind, err)
	}
	return c, nil
}

func decodeActionYAML(node *yaml.Node) (Action, error) {
	kind, err := typeOfYAML(node)
	if err != nil {
		return nil, err
	}
	a, ok := newAction(kind)
	if !ok {
		return nil, fmt.Errorf("line %d: action %q: %w", node.Line, kind, ErrUnknownKind)
	}
	if err := node.Decode(a); err != nil {
		return nil, fmt.Errorf("line %d: action %q: %w", node.Line, kind, err)
	}
	return a, nil
}

// MarshalYAML encodes the list with type tags.
func (l ConditionList) MarshalYAML() (any, error) {
	out := make([]map[string]any, 0, len(l))
	for _, c := range l {
		m, err := taggedYAML(c.Kind(), c)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// UnmarshalYAML decodes a tagged list.
func (l *ConditionList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: conditions must be a list", node.Line)
	}
	out := make(ConditionList, 0, len(node.Content))
	for _, item := range node.Content {
		c, err := decodeConditionYAML(item)
		if err != nil {
			return err
		}
		out = append(out, c)
	}
	*l = out
	return nil
}

// MarshalYAML encodes the list with type tags.
func (l ActionList) MarshalYAML() (any, error) {
	out := make([]map[string]any, 0, len(l))
	for _, a := range l {
		m, err := taggedYAML(a.Kind(), a)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// UnmarshalYAML decodes a tagged list.
func (l *ActionList) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: actions must be a list", node.Line)
	}
	out := make(ActionList, 0, len(node.Content))
	for _, item := range node.Content {
		a, err := decodeActionYAML(item)
		if err != nil {
			return err
		}
		out = append(out, a)
	}
	*l = out
	return nil
}

// MarshalYAML encodes the embedded condition with its type tag.
func (a *If) MarshalYAML() (any, error) {
	out := make(map[string]any)
	if a.Condition != nil {
		m, err := taggedYAML(a.Condition.Kind(), a.Condition)
		if err != nil {
			return nil, err
		}
		out["condition"] = m
	}
	if len(a.Then) > 0 {
		out["then"] = a.Then
	}
	if len(a.Else) > 0 {
		out["else"] = a.Else
	}
	return out, nil
}

// UnmarshalYAML decodes the embedded condition by its type tag.
func (a *If) UnmarshalYAML(node *yaml.Node) error {
	var in struct {
		Condition yaml.Node  `yaml:"condition"`
		Then      ActionList `yaml:"then"`
		Else      ActionList `yaml:"else"`
	}
	if err := node.Decode(&in); err != nil {
		return err
	}
	a.Condition = nil
	if in.Condition.Kind == yaml.MappingNode {
		c, err := decodeConditionYAML(&in.Condition)
		if err != nil {
			return err
		}
		a.Condition = c
	}
	a.Then, a.Else = in.Then, in.Else
	return nil
}
