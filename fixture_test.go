package calc_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	calc "github.com/podhmo/go-calc"
	"github.com/podhmo/go-calc/object"
	"gopkg.in/yaml.v3"
)

// fixtureFile is one testdata/fixtures/*.yaml file.
type fixtureFile struct {
	Description string        `yaml:"description"`
	Cases       []fixtureCase `yaml:"cases"`
}

type fixtureCase struct {
	Name   string   `yaml:"name"`
	Source string   `yaml:"source"`
	Output []string `yaml:"output"`
	// Error is a substring of the expected error message.
	Error string `yaml:"error"`
	// Kind is the expected runtime error kind, e.g. "type mismatch".
	Kind string `yaml:"kind"`
}

var errorKinds = map[string]*object.Error{
	object.UndeclaredIdentifier.String(): object.ErrUndeclaredIdentifier,
	object.RedeclaredIdentifier.String(): object.ErrRedeclaredIdentifier,
	object.ReadOnlyViolation.String():    object.ErrReadOnlyViolation,
	object.TypeMismatch.String():         object.ErrTypeMismatch,
	object.WrongArity.String():           object.ErrWrongArity,
	object.NotCallable.String():          object.ErrNotCallable,
	object.NotAnArray.String():           object.ErrNotAnArray,
	object.InvalidSubscript.String():     object.ErrInvalidSubscript,
}

func readFixtures(t *testing.T) map[string]fixtureFile {
	t.Helper()
	paths, err := filepath.Glob(filepath.Join("testdata", "fixtures", "*.yaml"))
	if err != nil {
		t.Fatalf("listing fixtures: %v", err)
	}
	if len(paths) == 0 {
		t.Fatalf("no fixtures found")
	}
	files := map[string]fixtureFile{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("reading %s: %v", path, err)
		}
		var f fixtureFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			t.Fatalf("decoding %s: %v", path, err)
		}
		files[strings.TrimSuffix(filepath.Base(path), ".yaml")] = f
	}
	return files
}

func TestFixtures(t *testing.T) {
	for file, fixtures := range readFixtures(t) {
		t.Run(file, func(t *testing.T) {
			for _, tc := range fixtures.Cases {
				t.Run(tc.Name, func(t *testing.T) {
					runFixture(t, tc)
				})
			}
		})
	}
}

func runFixture(t *testing.T, tc fixtureCase) {
	t.Helper()
	result, err := calc.New().Run(context.Background(), "fixture.calc", []byte(tc.Source))

	var got []string
	if result != nil {
		got = result.Lines()
	}
	want := tc.Output
	if want == nil {
		want = []string{}
	}
	if got == nil {
		got = []string{}
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s\n-- source --\n%s", diff, tc.Source)
	}

	if tc.Error == "" && tc.Kind == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v\n-- source --\n%s", err, tc.Source)
		}
		return
	}
	if err == nil {
		t.Fatalf("expected error %q, got nil\n-- source --\n%s", tc.Error, tc.Source)
	}
	if tc.Kind != "" {
		sentinel, ok := errorKinds[tc.Kind]
		if !ok {
			t.Fatalf("unknown error kind %q in fixture", tc.Kind)
		}
		if !errors.Is(err, sentinel) {
			t.Errorf("want %s error, got %v", tc.Kind, err)
		}
	}
	if !strings.Contains(err.Error(), tc.Error) {
		t.Errorf("error %q does not contain %q", err.Error(), tc.Error)
	}
}
