// Package evaluator executes calc syntax trees.
//
// Evaluation is pure: expressions reduce to values against an environment,
// statements map a State to a new State. Nothing is mutated in place, so a
// caller's environment is never affected by what a callee declares.
package evaluator

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/podhmo/go-calc/ast"
	"github.com/podhmo/go-calc/object"
)

// State is the environment and output threaded through statement execution.
type State struct {
	Env    *object.Environment
	Output []object.Object
}

// Config configures an Evaluator.
type Config struct {
	// Logger receives debug traces of calls and loop iterations.
	// A nil Logger discards everything.
	Logger *slog.Logger

	// Builtins seeds the global environment. Nil means DefaultBuiltins().
	Builtins []*object.Builtin

	// MaxCallDepth bounds nested user function calls. Zero means no limit,
	// in which case runaway recursion is bounded only by the Go stack.
	MaxCallDepth int
}

// Evaluator is the main object that evaluates the AST.
// It is not safe for concurrent use; create one per goroutine.
type Evaluator struct {
	logger       *slog.Logger
	builtins     []*object.Builtin
	maxCallDepth int
	depth        int
}

// New creates a new Evaluator.
func New(cfg Config) *Evaluator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	builtins := cfg.Builtins
	if builtins == nil {
		builtins = DefaultBuiltins()
	}
	return &Evaluator{
		logger:       logger,
		builtins:     builtins,
		maxCallDepth: cfg.MaxCallDepth,
	}
}

// GlobalEnvironment returns the environment every program starts with:
// pi and the builtin functions, all read-only. Builtins share one scope, so
// a builtin named like another one (or pi) is a RedeclaredIdentifier error.
func (e *Evaluator) GlobalEnvironment() (*object.Environment, error) {
	env, err := object.NewEnvironment().Declare("pi", Pi, object.ReadOnly)
	if err != nil {
		return nil, err
	}
	for _, b := range e.builtins {
		env, err = env.Declare(b.Name, b, object.ReadOnly)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", b.Name, err)
		}
	}
	return env, nil
}

// NewState returns the initial State for a program.
func (e *Evaluator) NewState() (State, error) {
	env, err := e.GlobalEnvironment()
	if err != nil {
		return State{}, err
	}
	return State{Env: env}, nil
}

// Interpret runs a program from the global environment and returns the
// printed values. On failure, the values printed before the failing
// statement are returned together with the error.
func (e *Evaluator) Interpret(ctx context.Context, prog *ast.Program) ([]object.Object, error) {
	state, err := e.NewState()
	if err != nil {
		return nil, err
	}
	state, err = e.ExecBlock(ctx, state, prog.Body)
	if err != nil {
		e.logc(ctx, slog.LevelDebug, "program failed", "file", prog.Filename, "error", err)
	}
	return state.Output, err
}

// Interpret runs a program with a default Evaluator.
func Interpret(ctx context.Context, prog *ast.Program) ([]object.Object, error) {
	return New(Config{}).Interpret(ctx, prog)
}

func (e *Evaluator) newError(pos ast.Pos, kind object.ErrorKind, format string, args ...any) *object.Error {
	return &object.Error{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// positioned attaches pos to runtime errors that do not carry one yet.
func positioned(err error, pos ast.Pos) error {
	if rerr, ok := err.(*object.Error); ok {
		return rerr.At(pos)
	}
	return err
}

// checkContext turns a cancelled context into an Interrupted error.
func (e *Evaluator) checkContext(ctx context.Context, pos ast.Pos) error {
	if err := ctx.Err(); err != nil {
		return &object.Error{Kind: object.Interrupted, Pos: pos, Message: err.Error(), Err: err}
	}
	return nil
}

// logc logs only when the level is enabled, so tracing costs nothing by default.
func (e *Evaluator) logc(ctx context.Context, level slog.Level, msg string, args ...any) {
	if !e.logger.Enabled(ctx, level) {
		return
	}
	if e.depth > 0 {
		args = append([]any{slog.Int("depth", e.depth)}, args...)
	}
	e.logger.Log(ctx, level, msg, args...)
}
