package evaluator

import (
	"context"
	"log/slog"
	"math"

	"github.com/podhmo/go-calc/ast"
	"github.com/podhmo/go-calc/object"
)

// Eval reduces an expression to a value in env.
func (e *Evaluator) Eval(ctx context.Context, node ast.Expr, env *object.Environment) (object.Object, error) {
	switch node := node.(type) {
	case *ast.Numeral:
		return &object.Number{Value: node.Value}, nil
	case *ast.BooleanLiteral:
		return object.NativeBool(node.Value), nil
	case *ast.Identifier:
		v, err := env.Lookup(node.Name)
		if err != nil {
			return nil, positioned(err, node.At)
		}
		return v, nil
	case *ast.UnaryExpression:
		return e.evalUnaryExpression(ctx, node, env)
	case *ast.BinaryExpression:
		return e.evalBinaryExpression(ctx, node, env)
	case *ast.ConditionalExpression:
		return e.evalConditionalExpression(ctx, node, env)
	case *ast.ArrayLiteral:
		elements, err := e.evalExpressions(ctx, node.Elements, env)
		if err != nil {
			return nil, err
		}
		return &object.Array{Elements: elements}, nil
	case *ast.SubscriptExpression:
		return e.evalSubscriptExpression(ctx, node, env)
	case *ast.Call:
		return e.evalCall(ctx, node, env)
	default:
		return nil, e.newError(node.Pos(), object.TypeMismatch, "unsupported expression %T", node)
	}
}

// evalExpressions evaluates exprs left to right.
func (e *Evaluator) evalExpressions(ctx context.Context, exprs []ast.Expr, env *object.Environment) ([]object.Object, error) {
	values := make([]object.Object, 0, len(exprs))
	for _, x := range exprs {
		v, err := e.Eval(ctx, x, env)
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, nil
}

func (e *Evaluator) evalUnaryExpression(ctx context.Context, node *ast.UnaryExpression, env *object.Environment) (object.Object, error) {
	operand, err := e.Eval(ctx, node.Operand, env)
	if err != nil {
		return nil, err
	}
	switch node.Operator {
	case "-":
		n, ok := operand.(*object.Number)
		if !ok {
			return nil, e.newError(node.At, object.TypeMismatch, "operator - expects Number, got %s", operand.Type())
		}
		return &object.Number{Value: -n.Value}, nil
	case "!":
		b, ok := operand.(*object.Boolean)
		if !ok {
			return nil, e.newError(node.At, object.TypeMismatch, "operator ! expects Boolean, got %s", operand.Type())
		}
		return object.NativeBool(!b.Value), nil
	default:
		return nil, e.newError(node.At, object.TypeMismatch, "unknown operator: %s%s", node.Operator, operand.Type())
	}
}

// operatorKinds maps each binary operator to the kind both operands must have.
var operatorKinds = map[string]object.ObjectType{
	"+": object.NUMBER_OBJ, "-": object.NUMBER_OBJ, "*": object.NUMBER_OBJ,
	"/": object.NUMBER_OBJ, "%": object.NUMBER_OBJ, "**": object.NUMBER_OBJ,
	"<": object.NUMBER_OBJ, "<=": object.NUMBER_OBJ, "==": object.NUMBER_OBJ,
	"!=": object.NUMBER_OBJ, ">=": object.NUMBER_OBJ, ">": object.NUMBER_OBJ,
	"&&": object.BOOLEAN_OBJ, "||": object.BOOLEAN_OBJ,
}

// evalBinaryExpression evaluates both operands before applying the
// operator; && and || do not short-circuit.
func (e *Evaluator) evalBinaryExpression(ctx context.Context, node *ast.BinaryExpression, env *object.Environment) (object.Object, error) {
	left, err := e.Eval(ctx, node.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := e.Eval(ctx, node.Right, env)
	if err != nil {
		return nil, err
	}

	want, ok := operatorKinds[node.Operator]
	if !ok {
		return nil, e.newError(node.At, object.TypeMismatch, "unknown operator: %s %s %s", left.Type(), node.Operator, right.Type())
	}
	if left.Type() != want || right.Type() != want {
		return nil, e.newError(node.At, object.TypeMismatch, "operator %s expects %s operands, got %s and %s", node.Operator, want, left.Type(), right.Type())
	}

	if want == object.BOOLEAN_OBJ {
		l, r := left.(*object.Boolean).Value, right.(*object.Boolean).Value
		if node.Operator == "&&" {
			return object.NativeBool(l && r), nil
		}
		return object.NativeBool(l || r), nil
	}
	return e.evalNumberInfixExpression(node, left.(*object.Number).Value, right.(*object.Number).Value)
}

// evalNumberInfixExpression applies arithmetic and relational operators.
// Division follows IEEE 754: x/0 is ±Inf and x%0 is NaN.
func (e *Evaluator) evalNumberInfixExpression(node *ast.BinaryExpression, l, r float64) (object.Object, error) {
	switch node.Operator {
	case "+":
		return &object.Number{Value: l + r}, nil
	case "-":
		return &object.Number{Value: l - r}, nil
	case "*":
		return &object.Number{Value: l * r}, nil
	case "/":
		return &object.Number{Value: l / r}, nil
	case "%":
		return &object.Number{Value: math.Mod(l, r)}, nil
	case "**":
		return &object.Number{Value: math.Pow(l, r)}, nil
	case "<":
		return object.NativeBool(l < r), nil
	case "<=":
		return object.NativeBool(l <= r), nil
	case "==":
		return object.NativeBool(l == r), nil
	case "!=":
		return object.NativeBool(l != r), nil
	case ">=":
		return object.NativeBool(l >= r), nil
	case ">":
		return object.NativeBool(l > r), nil
	default:
		return nil, e.newError(node.At, object.TypeMismatch, "unknown operator: Number %s Number", node.Operator)
	}
}

// truthy requires a Boolean test value.
func (e *Evaluator) truthy(pos ast.Pos, v object.Object, what string) (bool, error) {
	b, ok := v.(*object.Boolean)
	if !ok {
		return false, e.newError(pos, object.TypeMismatch, "%s must be Boolean, got %s", what, v.Type())
	}
	return b.Value, nil
}

// evalConditionalExpression evaluates only the branch that is taken.
func (e *Evaluator) evalConditionalExpression(ctx context.Context, node *ast.ConditionalExpression, env *object.Environment) (object.Object, error) {
	test, err := e.Eval(ctx, node.Test, env)
	if err != nil {
		return nil, err
	}
	ok, err := e.truthy(node.Test.Pos(), test, "condition of ?:")
	if err != nil {
		return nil, err
	}
	if ok {
		return e.Eval(ctx, node.Consequent, env)
	}
	return e.Eval(ctx, node.Alternate, env)
}

func (e *Evaluator) evalSubscriptExpression(ctx context.Context, node *ast.SubscriptExpression, env *object.Environment) (object.Object, error) {
	// both operands are evaluated before either is checked
	left, err := e.Eval(ctx, node.Array, env)
	if err != nil {
		return nil, err
	}
	index, err := e.Eval(ctx, node.Index, env)
	if err != nil {
		return nil, err
	}
	arr, ok := left.(*object.Array)
	if !ok {
		return nil, e.newError(node.At, object.NotAnArray, "cannot subscript %s", left.Type())
	}
	n, ok := index.(*object.Number)
	if !ok {
		return nil, e.newError(node.Index.Pos(), object.TypeMismatch, "array index must be Number, got %s", index.Type())
	}
	i := n.Value
	if i != math.Trunc(i) || i < 0 || i >= float64(len(arr.Elements)) {
		return nil, e.newError(node.Index.Pos(), object.InvalidSubscript, "index %s out of range for array of length %d", n.Inspect(), len(arr.Elements))
	}
	return arr.Elements[int(i)], nil
}

// evalCall binds parameters on top of the environment at the call site, so
// free names in a function body resolve where the function is called.
func (e *Evaluator) evalCall(ctx context.Context, node *ast.Call, env *object.Environment) (object.Object, error) {
	callee, err := env.Lookup(node.Callee)
	if err != nil {
		return nil, positioned(err, node.At)
	}
	args, err := e.evalExpressions(ctx, node.Arguments, env)
	if err != nil {
		return nil, err
	}

	switch fn := callee.(type) {
	case *object.Builtin:
		if len(args) != fn.Arity {
			return nil, e.newError(node.At, object.WrongArity, "%s expects %d argument(s), got %d", fn.Name, fn.Arity, len(args))
		}
		result, err := fn.Fn(args)
		if err != nil {
			return nil, positioned(err, node.At)
		}
		return result, nil

	case *object.Function:
		if len(args) != len(fn.Parameters) {
			return nil, e.newError(node.At, object.WrongArity, "%s expects %d argument(s), got %d", node.Callee, len(fn.Parameters), len(args))
		}
		if err := e.checkContext(ctx, node.At); err != nil {
			return nil, err
		}
		if e.maxCallDepth > 0 && e.depth >= e.maxCallDepth {
			return nil, e.newError(node.At, object.Interrupted, "call depth limit %d exceeded in %s", e.maxCallDepth, node.Callee)
		}

		bindings := make([]object.Binding, len(args))
		for i, name := range fn.Parameters {
			bindings[i] = object.Binding{Name: name, Value: args[i]}
		}
		e.logc(ctx, slog.LevelDebug, "call", slog.String("function", node.Callee), slog.String("pos", node.At.String()))

		e.depth++
		defer func() { e.depth-- }()
		return e.Eval(ctx, fn.Body, env.ExtendForCall(bindings...))

	default:
		return nil, e.newError(node.At, object.NotCallable, "%s is a %s, not a function", node.Callee, callee.Type())
	}
}
