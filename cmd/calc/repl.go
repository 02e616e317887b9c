package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	calc "github.com/podhmo/go-calc"
	"github.com/podhmo/go-calc/object"
)

const replBanner = "calc %s, :env lists bindings, :quit exits\n"

// lineReader is the part of *readline.Instance the loop needs.
type lineReader interface {
	Readline() (string, error)
}

type repl struct {
	session *calc.Session
	out     io.Writer
	errOut  io.Writer
}

func runREPL(ctx context.Context, interp *calc.Interpreter, stdin io.Reader, stdout, stderr io.Writer) error {
	session, err := interp.NewSession()
	if err != nil {
		return err
	}
	r := &repl{session: session, out: stdout, errOut: stderr}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:       "> ",
		AutoComplete: r.completer(),
		Stdin:        io.NopCloser(stdin),
		Stdout:       stdout,
		Stderr:       stderr,
	})
	if err != nil {
		return fmt.Errorf("starting repl: %w", err)
	}
	defer rl.Close()

	fmt.Fprintf(stdout, replBanner, calc.Version)
	return r.loop(ctx, rl)
}

func (r *repl) completer() readline.AutoCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(":env"),
		readline.PcItem(":quit"),
		readline.PcItemDynamic(func(string) []string {
			return r.session.Env().Names()
		}),
	)
}

func (r *repl) loop(ctx context.Context, lines lineReader) error {
	for {
		line, err := lines.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return nil
		}
		if quit := r.handle(ctx, line); quit {
			return nil
		}
	}
}

// handle runs one line and reports whether the session should end. A line
// that is a bare expression has its value printed.
func (r *repl) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	switch {
	case line == "":
		return false
	case line == ":quit", line == ":q":
		return true
	case line == ":env":
		r.printEnv()
		return false
	case strings.HasPrefix(line, ":"):
		fmt.Fprintf(r.errOut, "unknown command %s\n", line)
		return false
	}

	v, err := r.session.Eval(ctx, line)
	var rerr *object.Error
	switch {
	case err == nil:
		fmt.Fprintln(r.out, v.Inspect())
		return false
	case errors.As(err, &rerr):
		fmt.Fprintln(r.errOut, err)
		return false
	}

	printed, err := r.session.Exec(ctx, line)
	for _, v := range printed {
		fmt.Fprintln(r.out, v.Inspect())
	}
	if err != nil {
		fmt.Fprintln(r.errOut, err)
	}
	return false
}

// printEnv lists bindings in declaration order.
func (r *repl) printEnv() {
	bindings := r.session.Env().Bindings()
	for i := len(bindings) - 1; i >= 0; i-- {
		b := bindings[i]
		fmt.Fprintf(r.out, "%s = %s (%s)\n", b.Name, b.Value.Inspect(), b.Mode)
	}
}
