package evaluator

import (
	"math"

	"github.com/podhmo/go-calc/object"
)

// Pi is the value bound to `pi`.
var Pi = &object.Number{Value: math.Pi}

// DefaultBuiltins returns the builtin functions every program starts with.
func DefaultBuiltins() []*object.Builtin {
	return []*object.Builtin{
		mathFunc1("sqrt", math.Sqrt),
		mathFunc1("sin", math.Sin),
		mathFunc1("cos", math.Cos),
		mathFunc1("ln", math.Log),
		mathFunc1("exp", math.Exp),
		mathFunc2("hypot", math.Hypot),
	}
}

// NewBuiltin wraps a native function over Numbers. Every argument must be
// a Number, otherwise the call fails with TypeMismatch.
func NewBuiltin(name string, arity int, fn func(args []float64) float64) *object.Builtin {
	return &object.Builtin{
		Name:  name,
		Arity: arity,
		Fn: func(args []object.Object) (object.Object, error) {
			nums := make([]float64, len(args))
			for i, arg := range args {
				n, ok := arg.(*object.Number)
				if !ok {
					return nil, object.NewError(object.TypeMismatch, "argument %d to %s must be Number, got %s", i+1, name, arg.Type())
				}
				nums[i] = n.Value
			}
			return &object.Number{Value: fn(nums)}, nil
		},
	}
}

func mathFunc1(name string, f func(float64) float64) *object.Builtin {
	return NewBuiltin(name, 1, func(args []float64) float64 { return f(args[0]) })
}

func mathFunc2(name string, f func(float64, float64) float64) *object.Builtin {
	return NewBuiltin(name, 2, func(args []float64) float64 { return f(args[0], args[1]) })
}
