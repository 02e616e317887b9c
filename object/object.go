// Package object defines the runtime values of calc and the environment
// that binds names to them.
package object

import (
	"strconv"
	"strings"

	"github.com/podhmo/go-calc/ast"
)

// ObjectType is a string representation of an object's type.
type ObjectType string

const (
	NUMBER_OBJ   ObjectType = "Number"
	BOOLEAN_OBJ  ObjectType = "Boolean"
	ARRAY_OBJ    ObjectType = "Array"
	BUILTIN_OBJ  ObjectType = "Builtin"
	FUNCTION_OBJ ObjectType = "Function"
)

// Object is implemented by every runtime value. Values are immutable once
// constructed.
type Object interface {
	// Type returns the type of the object.
	Type() ObjectType
	// Inspect returns a string representation of the object's value.
	Inspect() string
}

// --- Number Object ---

// Number is a float64 value.
type Number struct {
	Value float64
}

func (n *Number) Type() ObjectType { return NUMBER_OBJ }
func (n *Number) Inspect() string  { return strconv.FormatFloat(n.Value, 'g', -1, 64) }

// --- Boolean Object ---

// Boolean is a bool value. Use TRUE and FALSE rather than allocating.
type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return strconv.FormatBool(b.Value) }

// --- Array Object ---

// Array is an ordered sequence of values. The slice is never modified after
// construction, so arrays can be shared between bindings freely.
type Array struct {
	Elements []Object
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }

func (a *Array) Inspect() string {
	elements := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		elements[i] = e.Inspect()
	}
	return "[" + strings.Join(elements, ", ") + "]"
}

// --- Builtin Object ---

// BuiltinFunction is the native implementation of a builtin. The evaluator
// checks arity before calling it; argument kinds are checked by the function.
type BuiltinFunction func(args []Object) (Object, error)

// Builtin is a native function exposed under a fixed name and arity.
type Builtin struct {
	Name  string
	Arity int
	Fn    BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "<builtin " + b.Name + "/" + strconv.Itoa(b.Arity) + ">" }

// --- Function Object ---

// Function is a user-defined function: parameter names and an unevaluated
// body. It captures no environment; the body is evaluated on top of the
// environment at the call site.
type Function struct {
	Name       string
	Parameters []string
	Body       ast.Expr
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }

func (f *Function) Inspect() string {
	return "<function " + f.Name + "(" + strings.Join(f.Parameters, ", ") + ")>"
}

// --- Global Instances ---

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// NativeBool returns the shared Boolean for b.
func NativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Equal reports whether two values are structurally equal. Functions compare
// by identity.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Number:
		b, ok := b.(*Number)
		return ok && a.Value == b.Value
	case *Boolean:
		b, ok := b.(*Boolean)
		return ok && a.Value == b.Value
	case *Array:
		b, ok := b.(*Array)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}
