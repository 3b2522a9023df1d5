package ecs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/ooftn-logic/ecs"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in   any
		want any
	}{
		{"5", 5},
		{" 2.5 ", 2.5},
		{"true", true},
		{"false", false},
		{"hello", "hello"},
		{3.0, 3},
		{float32(1.5), 1.5},
		{int64(7), 7},
		{map[string]any{"x": 1, "y": "2"}, ecs.Vector2{X: 1, Y: 2}},
		{map[string]any{"x": 1}, map[string]any{"x": 1}},
		{nil, nil},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ecs.Normalize(c.in), "Normalize(%#v)", c.in)
	}
}

func TestCoerce(t *testing.T) {
	assert.Equal(t, 2, ecs.Coerce(ecs.TypeInt, 2.99))
	assert.Equal(t, -2, ecs.Coerce(ecs.TypeInt, -2.5))
	assert.Equal(t, 0, ecs.Coerce(ecs.TypeInt, "abc"))
	assert.Equal(t, 1.0, ecs.Coerce(ecs.TypeFloat, "1"))
	assert.Equal(t, "3", ecs.Coerce(ecs.TypeString, 3))
	assert.Equal(t, true, ecs.Coerce(ecs.TypeBool, "true"))
	assert.Equal(t, false, ecs.Coerce(ecs.TypeBool, 0))
	assert.Equal(t, ecs.Vector2{X: 4, Y: 4}, ecs.Coerce(ecs.TypeVector2, 4))
}

func TestInferTypeAndZero(t *testing.T) {
	assert.Equal(t, ecs.TypeInt, ecs.InferType("12"))
	assert.Equal(t, ecs.TypeFloat, ecs.InferType(0.5))
	assert.Equal(t, ecs.TypeBool, ecs.InferType("false"))
	assert.Equal(t, ecs.TypeVector2, ecs.InferType(ecs.Vector2{}))
	assert.Equal(t, ecs.TypeString, ecs.InferType("x"))

	assert.Equal(t, 0, ecs.Zero(ecs.TypeInt))
	assert.Equal(t, "", ecs.Zero(ecs.TypeString))
	assert.Equal(t, ecs.Vector2{}, ecs.Zero(ecs.TypeVector2))
}

func TestEqualAndCompare(t *testing.T) {
	assert.True(t, ecs.Equal(1, 1.0))
	assert.True(t, ecs.Equal("5", 5))
	assert.True(t, ecs.Equal("true", true))
	assert.False(t, ecs.Equal(true, 1), "booleans are not numbers")
	assert.False(t, ecs.Equal("a", "b"))
	assert.True(t, ecs.Equal(ecs.Vector2{X: 1, Y: 2}, map[string]any{"x": 1, "y": 2}))

	c, ok := ecs.Compare(3, "2.5")
	assert.True(t, ok)
	assert.Equal(t, 1, c)

	c, ok = ecs.Compare("apple", "banana")
	assert.True(t, ok)
	assert.Equal(t, -1, c)

	_, ok = ecs.Compare(true, 1)
	assert.False(t, ok)
}

func TestVariableSetCoerces(t *testing.T) {
	v := ecs.NewVariable("hp", "", 3)
	assert.Equal(t, ecs.TypeInt, v.Type)

	v.Set("7.8")
	assert.Equal(t, 7, v.Value)

	clone := v.Clone()
	clone.Set(1)
	assert.Equal(t, 7, v.Value, "clones are independent")

	vars := ecs.VariablesFrom([]ecs.EditorVariable{{Name: "pos", Type: ecs.TypeVector2, Value: map[string]any{"x": 1, "y": 2}}})
	got, ok := vars.Get("pos")
	assert.True(t, ok)
	assert.Equal(t, ecs.Vector2{X: 1, Y: 2}, got)
}
