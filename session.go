package calc

import (
	"context"
	"slices"

	"github.com/podhmo/go-calc/evaluator"
	"github.com/podhmo/go-calc/object"
	"github.com/podhmo/go-calc/parser"
)

// Session executes source incrementally, keeping bindings between calls.
// It backs the REPL. A failed Exec leaves the session as it was before the
// call.
type Session struct {
	eval  *evaluator.Evaluator
	state evaluator.State
}

// NewSession starts a session from the global environment. It fails when
// the configured builtins collide.
func (i *Interpreter) NewSession() (*Session, error) {
	ev := i.newEvaluator()
	state, err := ev.NewState()
	if err != nil {
		return nil, err
	}
	return &Session{eval: ev, state: state}, nil
}

// Exec runs src and returns the values it printed.
func (s *Session) Exec(ctx context.Context, src string) ([]object.Object, error) {
	prog, err := parser.Parse("<repl>", src)
	if err != nil {
		return nil, err
	}
	start := len(s.state.Output)
	next, err := s.eval.ExecBlock(ctx, s.state, prog.Body)
	printed := slices.Clone(next.Output[start:])
	if err != nil {
		return printed, err
	}
	s.state = next
	return printed, nil
}

// Env returns the current environment snapshot.
func (s *Session) Env() *object.Environment {
	return s.state.Env
}

// Output returns every value printed so far.
func (s *Session) Output() []object.Object {
	return slices.Clone(s.state.Output)
}

// Eval evaluates a single expression against the session's bindings. It
// never changes the session.
func (s *Session) Eval(ctx context.Context, src string) (object.Object, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, err
	}
	return s.eval.Eval(ctx, expr, s.state.Env)
}
