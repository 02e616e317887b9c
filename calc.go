// Package calc is the entry point for running calc programs.
//
// A program is parsed with package parser and executed by package evaluator;
// the result is the ordered list of values printed by `print` statements.
package calc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/podhmo/go-calc/ast"
	"github.com/podhmo/go-calc/evaluator"
	"github.com/podhmo/go-calc/object"
	"github.com/podhmo/go-calc/parser"
)

// Version is the calc release, in semver form.
const Version = "v0.1.0"

// Interpreter parses and runs calc programs. It holds only configuration,
// so one Interpreter may run programs from several goroutines.
type Interpreter struct {
	logger       *slog.Logger
	builtins     []*object.Builtin
	maxCallDepth int
}

// Option is a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger used for debug traces.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interpreter) {
		i.logger = logger
	}
}

// WithBuiltins makes additional native functions available to programs,
// next to the default ones.
func WithBuiltins(builtins ...*object.Builtin) Option {
	return func(i *Interpreter) {
		i.builtins = append(i.builtins, builtins...)
	}
}

// WithMaxCallDepth bounds nested function calls. Zero means no limit.
func WithMaxCallDepth(n int) Option {
	return func(i *Interpreter) {
		i.maxCallDepth = n
	}
}

// New creates a new interpreter instance, configured with options.
func New(options ...Option) *Interpreter {
	i := &Interpreter{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		builtins: evaluator.DefaultBuiltins(),
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

func (i *Interpreter) newEvaluator() *evaluator.Evaluator {
	return evaluator.New(evaluator.Config{
		Logger:       i.logger,
		Builtins:     i.builtins,
		MaxCallDepth: i.maxCallDepth,
	})
}

// Result holds the outcome of a program execution.
type Result struct {
	Filename string
	// Output is the printed values, in execution order. When Run fails at
	// runtime it holds what was printed before the failure.
	Output []object.Object
}

// Lines formats each printed value on its own line.
func (r *Result) Lines() []string {
	lines := make([]string, len(r.Output))
	for i, v := range r.Output {
		lines[i] = v.Inspect()
	}
	return lines
}

// Parse parses src without running it.
func (i *Interpreter) Parse(filename string, src []byte) (*ast.Program, error) {
	prog, err := parser.Parse(filename, string(src))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	return prog, nil
}

// Run parses and executes src. A non-nil Result is returned whenever
// parsing succeeded, even if execution failed.
func (i *Interpreter) Run(ctx context.Context, filename string, src []byte) (*Result, error) {
	prog, err := i.Parse(filename, src)
	if err != nil {
		return nil, err
	}
	i.logger.DebugContext(ctx, "run", slog.String("file", filename), slog.Int("statements", len(prog.Body.Statements)))

	output, err := i.newEvaluator().Interpret(ctx, prog)
	result := &Result{Filename: filename, Output: output}
	if err != nil {
		return result, fmt.Errorf("%s: %w", filename, err)
	}
	return result, nil
}

// RunFile reads and executes the file at path.
func (i *Interpreter) RunFile(ctx context.Context, path string) (*Result, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return i.Run(ctx, path, src)
}
