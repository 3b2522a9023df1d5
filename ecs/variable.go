package ecs

// RuntimeVariable is a named, typed value. Every write is coerced to the
// declared type.
type RuntimeVariable struct {
	Name  string  `json:"name" yaml:"name"`
	Type  VarType `json:"type" yaml:"type"`
	Value any     `json:"value" yaml:"value"`
}

// NewVariable creates a variable, inferring the type from the value when t is empty.
func NewVariable(name string, t VarType, value any) *RuntimeVariable {
	if t == "" {
		t = InferType(value)
	}
	if value == nil {
		value = Zero(t)
	}
	return &RuntimeVariable{Name: name, Type: t, Value: Coerce(t, value)}
}

// Set assigns a new value, coerced to the declared type.
func (v *RuntimeVariable) Set(value any) {
	v.Value = Coerce(v.Type, value)
}

// Clone returns an independent copy.
func (v *RuntimeVariable) Clone() *RuntimeVariable {
	c := *v
	return &c
}

// Variables is a variable scope keyed by name.
type Variables map[string]*RuntimeVariable

// Get returns the named variable's value.
func (vs Variables) Get(name string) (any, bool) {
	if v, ok := vs[name]; ok {
		return v.Value, true
	}
	return nil, false
}

// Set writes name, coercing to the declared type when it exists and creating an
// inferred variable otherwise.
func (vs Variables) Set(name string, value any) {
	if v, ok := vs[name]; ok {
		v.Set(value)
		return
	}
	vs[name] = NewVariable(name, "", value)
}

// Clone deep copies the scope.
func (vs Variables) Clone() Variables {
	out := make(Variables, len(vs))
	for k, v := range vs {
		out[k] = v.Clone()
	}
	return out
}

// VariablesFrom builds a scope from authored snapshots.
func VariablesFrom(snapshots []EditorVariable) Variables {
	out := make(Variables, len(snapshots))
	for _, s := range snapshots {
		out[s.Name] = NewVariable(s.Name, s.Type, s.Value)
	}
	return out
}
