package ecs

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VarType is the declared type of a variable.
type VarType string

const (
	TypeInt     VarType = "int"
	TypeFloat   VarType = "float"
	TypeString  VarType = "string"
	TypeBool    VarType = "bool"
	TypeVector2 VarType = "vector2"
)

// Vector2 is a two component vector value.
type Vector2 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Values handled by the runtime are one of int, float64, string, bool or Vector2
// after normalization. Anything else is passed through untouched.

// Normalize converts a loosely typed value (decoded JSON/YAML, author input) into
// its canonical runtime form. Numeric strings become numbers, "true"/"false"
// become booleans, integral floats become ints and {x,y} maps become Vector2.
func Normalize(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case int:
		return val
	case int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		f, _ := ToNumber(val)
		return fromFloat(f)
	case string:
		s := strings.TrimSpace(val)
		switch s {
		case "true":
			return true
		case "false":
			return false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && s != "" {
			return fromFloat(f)
		}
		return val
	case bool, Vector2:
		return val
	case *Vector2:
		if val == nil {
			return nil
		}
		return *val
	case map[string]any:
		if vec, ok := vectorFromMap(val); ok {
			return vec
		}
		return val
	default:
		return val
	}
}

func fromFloat(f float64) any {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return f
}

func vectorFromMap(m map[string]any) (Vector2, bool) {
	xv, okX := m["x"]
	yv, okY := m["y"]
	if !okX || !okY {
		return Vector2{}, false
	}
	x, okX := ToNumber(xv)
	y, okY := ToNumber(yv)
	if !okX || !okY {
		return Vector2{}, false
	}
	return Vector2{X: x, Y: y}, true
}

// ToNumber converts v to a float64. Booleans count as 0/1 and numeric strings are
// parsed. The second result is false when no conversion applies.
func ToNumber(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case bool:
		if val {
			return 1, true
		}
		return 0, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// ToBool converts v to a boolean. Non-zero numbers and non-empty strings other
// than "false" and "0" are true.
func ToBool(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		s := strings.TrimSpace(val)
		return s != "" && s != "false" && s != "0"
	case Vector2:
		return val.X != 0 || val.Y != 0
	default:
		if f, ok := ToNumber(val); ok {
			return f != 0
		}
		return true
	}
}

// ToString renders v the way authors expect to read it.
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case Vector2:
		return fmt.Sprintf("(%s, %s)", strconv.FormatFloat(val.X, 'f', -1, 64), strconv.FormatFloat(val.Y, 'f', -1, 64))
	default:
		return fmt.Sprint(val)
	}
}

// ToVector converts v to a Vector2. A scalar broadcasts to both components.
func ToVector(v any) (Vector2, bool) {
	switch val := Normalize(v).(type) {
	case Vector2:
		return val, true
	case nil:
		return Vector2{}, false
	default:
		if f, ok := ToNumber(val); ok {
			return Vector2{X: f, Y: f}, true
		}
		return Vector2{}, false
	}
}

// Coerce converts v to the declared type t. Values that cannot be converted fall
// back to the zero value of t. An empty t normalizes without forcing a type.
func Coerce(t VarType, v any) any {
	switch t {
	case TypeInt:
		f, _ := ToNumber(Normalize(v))
		return int(math.Trunc(f))
	case TypeFloat:
		f, _ := ToNumber(Normalize(v))
		return f
	case TypeString:
		return ToString(v)
	case TypeBool:
		return ToBool(Normalize(v))
	case TypeVector2:
		vec, _ := ToVector(v)
		return vec
	default:
		return Normalize(v)
	}
}

// InferType picks the declared type for an untyped value.
func InferType(v any) VarType {
	switch Normalize(v).(type) {
	case int:
		return TypeInt
	case float64:
		return TypeFloat
	case bool:
		return TypeBool
	case Vector2:
		return TypeVector2
	default:
		return TypeString
	}
}

// Zero returns the fallback value for a declared type.
func Zero(t VarType) any {
	switch t {
	case TypeInt:
		return 0
	case TypeFloat:
		return 0.0
	case TypeBool:
		return false
	case TypeVector2:
		return Vector2{}
	default:
		return ""
	}
}

// Equal compares two values after normalization. Numbers compare numerically
// regardless of int/float representation.
func Equal(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	if av, ok := a.(Vector2); ok {
		bv, ok := b.(Vector2)
		return ok && av == bv
	}
	af, aNum := number(a)
	bf, bNum := number(b)
	if aNum && bNum {
		return af == bf
	}
	if aNum != bNum {
		return false
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bs, ok := b.(string)
		return ok && av == bs
	case bool:
		bb, ok := b.(bool)
		return ok && av == bb
	default:
		return false
	}
}

// Compare orders two values numerically. ok is false when either side is not a
// number after normalization. Strings compare lexically.
func Compare(a, b any) (cmp int, ok bool) {
	a, b = Normalize(a), Normalize(b)
	af, aNum := number(a)
	bf, bNum := number(b)
	if aNum && bNum {
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	as, aStr := a.(string)
	bs, bStr := b.(string)
	if aStr && bStr {
		return strings.Compare(as, bs), true
	}
	return 0, false
}

// number reports numeric values only, without bool or string conversion.
func number(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case float64:
		return val, true
	default:
		return 0, false
	}
}
