// Command calc runs calc programs or starts an interactive session.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	calc "github.com/podhmo/go-calc"
	"github.com/podhmo/go-calc/internal/config"
	"github.com/podhmo/go-calc/internal/report"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

const usage = `Usage: calc [flags] run <file>...
       calc [flags] repl
       calc version

Flags:
`

// errFailed is returned when at least one file failed. The failure itself
// has already been reported.
var errFailed = errors.New("one or more files failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "calc: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := pflag.NewFlagSet("calc", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		configPath = fs.String("config", "", "path to a TOML config file (default "+config.DefaultFile+" if present)")
		logLevel   = fs.String("log-level", "", "log level (debug, info, warn, error)")
		timeout    = fs.Duration("timeout", 0, "abort a run after this long, 0 means no limit")
		format     = fs.String("format", "", "report format for run (text, json)")
		maxDepth   = fs.Int("max-depth", config.DefaultMaxCallDepth, "maximum nesting of function calls, 0 means no limit")
		jobs       = fs.IntP("jobs", "j", runtime.GOMAXPROCS(0), "number of files run concurrently")
	)
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return err
	}
	// flags win over the config file
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("timeout") {
		cfg.Timeout = *timeout
	}
	if fs.Changed("format") {
		cfg.Format = *format
	}
	if fs.Changed("max-depth") {
		cfg.MaxCallDepth = *maxDepth
	}
	if err := cfg.Validate(calc.Version); err != nil {
		return err
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	interp := calc.New(
		calc.WithLogger(logger),
		calc.WithMaxCallDepth(cfg.MaxCallDepth),
	)

	rest := fs.Args()
	if len(rest) == 0 {
		fs.Usage()
		return errors.New("missing command")
	}
	switch cmd, rest := rest[0], rest[1:]; cmd {
	case "run":
		if len(rest) == 0 {
			return errors.New("run: no files given")
		}
		f, _ := report.ParseFormat(cfg.Format)
		return runFiles(ctx, interp, cfg, *jobs, rest, report.NewWriter(f, stdout, stderr), logger)
	case "repl":
		return runREPL(ctx, interp, stdin, stdout, stderr)
	case "version":
		fmt.Fprintln(stdout, calc.Version)
		return nil
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// runFiles runs every file with at most jobs running at once and writes the
// reports in argument order.
func runFiles(ctx context.Context, interp *calc.Interpreter, cfg config.Config, jobs int, files []string, w *report.Writer, logger *slog.Logger) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	reports := make([]*report.Report, len(files))
	var g errgroup.Group
	if jobs > 0 {
		g.SetLimit(jobs)
	}
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			r := &report.Report{File: file}
			result, err := interp.RunFile(ctx, file)
			if result != nil {
				r.Output = result.Lines()
			}
			r.Err = err
			reports[i] = r
			logger.DebugContext(ctx, "file done", slog.String("file", file), slog.Bool("failed", err != nil))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if err := w.Write(r); err != nil {
			return err
		}
		if r.Failed() {
			failed++
		}
	}
	if failed > 0 {
		logger.InfoContext(ctx, "run finished with failures", slog.Int("failed", failed), slog.Int("files", len(files)))
		return errFailed
	}
	return nil
}
