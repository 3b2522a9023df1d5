package logic

import (
	"github.com/plus3/ooftn-logic/ecs"
)

// apply computes op over x and y. Vectors are handled component-wise with
// scalars broadcast. Unresolved operands count as zero. Division by zero
// reports false and leaves the variable untouched.
func apply(op Operation, x, y any) (any, bool) {
	x, y = ecs.Normalize(x), ecs.Normalize(y)

	_, xVec := x.(ecs.Vector2)
	_, yVec := y.(ecs.Vector2)
	if xVec || yVec {
		a, _ := ecs.ToVector(x)
		b, _ := ecs.ToVector(y)
		switch op {
		case OpAdd:
			return ecs.Vector2{X: a.X + b.X, Y: a.Y + b.Y}, true
		case OpSub:
			return ecs.Vector2{X: a.X - b.X, Y: a.Y - b.Y}, true
		case OpMultiply:
			return ecs.Vector2{X: a.X * b.X, Y: a.Y * b.Y}, true
		case OpDivide:
			if b.X == 0 || b.Y == 0 {
				return nil, false
			}
			return ecs.Vector2{X: a.X / b.X, Y: a.Y / b.Y}, true
		default:
			return nil, false
		}
	}

	if op == OpAdd {
		xs, xStr := x.(string)
		ys, yStr := y.(string)
		if xStr || yStr {
			if !xStr {
				xs = ecs.ToString(x)
			}
			if !yStr {
				ys = ecs.ToString(y)
			}
			return xs + ys, true
		}
	}

	a, _ := ecs.ToNumber(x)
	b, _ := ecs.ToNumber(y)
	switch op {
	case OpAdd:
		return ecs.Normalize(a + b), true
	case OpSub:
		return ecs.Normalize(a - b), true
	case OpMultiply:
		return ecs.Normalize(a * b), true
	case OpDivide:
		if b == 0 {
			return nil, false
		}
		return ecs.Normalize(a / b), true
	default:
		return nil, false
	}
}
