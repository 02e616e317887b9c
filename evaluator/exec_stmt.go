package evaluator

import (
	"context"
	"log/slog"

	"github.com/podhmo/go-calc/ast"
	"github.com/podhmo/go-calc/object"
)

// Exec executes one statement. On failure the returned State holds the
// output printed before the failure.
func (e *Evaluator) Exec(ctx context.Context, state State, stmt ast.Stmt) (State, error) {
	switch stmt := stmt.(type) {
	case *ast.VariableDeclaration:
		value, err := e.Eval(ctx, stmt.Initializer, state.Env)
		if err != nil {
			return state, err
		}
		env, err := state.Env.Declare(stmt.Name, value, object.ReadWrite)
		if err != nil {
			return state, positioned(err, stmt.At)
		}
		return State{Env: env, Output: state.Output}, nil

	case *ast.FunctionDeclaration:
		fn := &object.Function{Name: stmt.Name, Parameters: stmt.Parameters, Body: stmt.Body}
		env, err := state.Env.Declare(stmt.Name, fn, object.ReadWrite)
		if err != nil {
			return state, positioned(err, stmt.At)
		}
		return State{Env: env, Output: state.Output}, nil

	case *ast.Assignment:
		value, err := e.Eval(ctx, stmt.Value, state.Env)
		if err != nil {
			return state, err
		}
		env, err := state.Env.Assign(stmt.Name, value)
		if err != nil {
			return state, positioned(err, stmt.At)
		}
		return State{Env: env, Output: state.Output}, nil

	case *ast.PrintStatement:
		value, err := e.Eval(ctx, stmt.Expr, state.Env)
		if err != nil {
			return state, err
		}
		// cap the slice so states sharing a prefix never write into each other
		out := state.Output[:len(state.Output):len(state.Output)]
		return State{Env: state.Env, Output: append(out, value)}, nil

	case *ast.WhileStatement:
		return e.execWhileStatement(ctx, state, stmt)

	default:
		return state, e.newError(stmt.Pos(), object.TypeMismatch, "unsupported statement %T", stmt)
	}
}

// ExecBlock executes statements in order, threading the State. On failure
// it returns the State reached just before the failing statement.
func (e *Evaluator) ExecBlock(ctx context.Context, state State, block *ast.Block) (State, error) {
	for _, stmt := range block.Statements {
		next, err := e.Exec(ctx, state, stmt)
		if err != nil {
			return next, err
		}
		state = next
	}
	return state, nil
}

// execWhileStatement loops without resetting scope, so declarations made in
// the body are visible to the test and to later iterations.
func (e *Evaluator) execWhileStatement(ctx context.Context, state State, stmt *ast.WhileStatement) (State, error) {
	for i := 0; ; i++ {
		if err := e.checkContext(ctx, stmt.At); err != nil {
			return state, err
		}
		test, err := e.Eval(ctx, stmt.Test, state.Env)
		if err != nil {
			return state, err
		}
		ok, err := e.truthy(stmt.Test.Pos(), test, "condition of while")
		if err != nil {
			return state, err
		}
		if !ok {
			return state, nil
		}
		e.logc(ctx, slog.LevelDebug, "while", slog.String("pos", stmt.At.String()), slog.Int("iteration", i))

		state, err = e.ExecBlock(ctx, state, stmt.Body)
		if err != nil {
			return state, err
		}
	}
}
