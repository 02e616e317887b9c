package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err = run(context.Background(), args, strings.NewReader(""), &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestRunFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.calc", "let x = 0;\nwhile x < 3 { print x; x = x + 1; }\n")
	b := writeFile(t, dir, "b.calc", "let z = 100; function h(z) = 1 + z; print(h(2)); print(z);\n")

	stdout, stderr, err := runCLI(t, "run", "--jobs", "2", a, b)
	if err != nil {
		t.Fatalf("run: %v\n%s", err, stderr)
	}
	if diff := cmp.Diff("0\n1\n2\n3\n100\n", stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestRunFilesFailure(t *testing.T) {
	dir := t.TempDir()
	ok := writeFile(t, dir, "ok.calc", "print 1;\n")
	bad := writeFile(t, dir, "bad.calc", "print 2;\nprint true + 1;\n")

	stdout, stderr, err := runCLI(t, "run", bad, ok)
	if !errors.Is(err, errFailed) {
		t.Fatalf("want errFailed, got %v", err)
	}
	if diff := cmp.Diff("2\n1\n", stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stderr, "bad.calc: runtime error: 2:12: type mismatch") {
		t.Errorf("stderr %q does not report the failure", stderr)
	}
}

func TestRunFilesJSON(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.calc", "print([1,2,3][1]);\n")
	missing := filepath.Join(dir, "missing.calc")

	stdout, _, err := runCLI(t, "--format", "json", "run", a, missing)
	if !errors.Is(err, errFailed) {
		t.Fatalf("want errFailed, got %v", err)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 report lines, got %q", stdout)
	}
	wantFirst := `{"file":"` + a + `","output":["2"],"error":null}`
	if diff := cmp.Diff(wantFirst, lines[0]); diff != "" {
		t.Errorf("first report mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(lines[1], `{"file":"`+missing+`","output":[],"error":"reading `) {
		t.Errorf("unexpected second report %q", lines[1])
	}
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "calc.toml", "format = \"json\"\nmax_call_depth = 5\n")
	src := writeFile(t, dir, "deep.calc", "function f(n) = n < 1 ? 0 : f(n - 1);\nprint f(3);\nprint f(10);\n")

	stdout, _, err := runCLI(t, "--config", cfg, "run", src)
	if !errors.Is(err, errFailed) {
		t.Fatalf("want errFailed, got %v", err)
	}
	if !strings.Contains(stdout, `"output":["0"]`) || !strings.Contains(stdout, "call depth limit 5 exceeded") {
		t.Errorf("unexpected report %q", stdout)
	}

	// flags override the file
	stdout, _, err = runCLI(t, "--config", cfg, "--format", "text", "--max-depth", "0", "run", src)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if diff := cmp.Diff("0\n0\n", stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestRunawayRecursionIsReported(t *testing.T) {
	dir := t.TempDir()
	runaway := writeFile(t, dir, "runaway.calc", "function f(n) = f(n + 1);\nprint f(0);\n")
	ok := writeFile(t, dir, "ok.calc", "print 7;\n")

	stdout, stderr, err := runCLI(t, "run", runaway, ok)
	if !errors.Is(err, errFailed) {
		t.Fatalf("want errFailed, got %v", err)
	}
	if diff := cmp.Diff("7\n", stdout); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stderr, "interrupted: call depth limit 10000 exceeded in f") {
		t.Errorf("stderr %q does not report the depth limit", stderr)
	}
}

func TestConfigRequires(t *testing.T) {
	cfg := writeFile(t, t.TempDir(), "calc.toml", "requires = \"v99.0.0\"\n")
	_, _, err := runCLI(t, "--config", cfg, "version")
	if err == nil || !strings.Contains(err.Error(), "requires calc v99.0.0") {
		t.Errorf("want version gate error, got %v", err)
	}
}

func TestUsageErrors(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want string
	}{
		{name: "no command", args: nil, want: "missing command"},
		{name: "unknown command", args: []string{"compile"}, want: `unknown command "compile"`},
		{name: "run without files", args: []string{"run"}, want: "no files given"},
		{name: "bad format", args: []string{"--format", "yaml", "run", "x.calc"}, want: "unknown format"},
		{name: "bad flag", args: []string{"--colour"}, want: "unknown flag"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runCLI(t, tc.args...)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("want error containing %q, got %v", tc.want, err)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	stdout, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if diff := cmp.Diff("v0.1.0\n", stdout); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}
