// Package config loads the calc command's settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/podhmo/go-calc/internal/report"
	"golang.org/x/mod/semver"
)

// DefaultFile is read when no --config flag is given and it exists in the
// working directory.
const DefaultFile = "calc.toml"

// DefaultMaxCallDepth keeps runaway recursion an error instead of a Go
// stack overflow.
const DefaultMaxCallDepth = 10000

// Config holds the settings shared by every subcommand.
type Config struct {
	LogLevel     string        `toml:"log_level"`
	Timeout      time.Duration `toml:"timeout"`
	Format       string        `toml:"format"`
	MaxCallDepth int           `toml:"max_call_depth"`
	// Requires is the minimum calc version the configuration was written for.
	Requires string `toml:"requires"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		LogLevel:     "warn",
		Format:       string(report.Text),
		MaxCallDepth: DefaultMaxCallDepth,
	}
}

// Load decodes the file at path over Default. Unknown keys are an error.
func Load(path string) (Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return cfg, fmt.Errorf("loading config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return cfg, fmt.Errorf("loading config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// LoadDefault loads DefaultFile when it exists and returns Default otherwise.
func LoadDefault() (Config, error) {
	if _, err := os.Stat(DefaultFile); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), err
	}
	return Load(DefaultFile)
}

// Level parses LogLevel.
func (c Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return level, fmt.Errorf("unknown log level: %s", c.LogLevel)
	}
	return level, nil
}

// Validate checks every field. version is the running calc version and is
// compared against Requires.
func (c Config) Validate(version string) error {
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := report.ParseFormat(c.Format); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	if c.MaxCallDepth < 0 {
		return fmt.Errorf("max_call_depth must not be negative, got %d", c.MaxCallDepth)
	}
	return CheckVersion(c.Requires, version)
}

// CheckVersion reports an error when version is older than requires. An
// empty requires accepts any version. The "v" prefix is optional on both.
func CheckVersion(requires, version string) error {
	if requires == "" {
		return nil
	}
	req, cur := canonical(requires), canonical(version)
	if !semver.IsValid(req) {
		return fmt.Errorf("requires: invalid version %q", requires)
	}
	if !semver.IsValid(cur) {
		return fmt.Errorf("invalid calc version %q", version)
	}
	if semver.Compare(cur, req) < 0 {
		return fmt.Errorf("config requires calc %s or later, this is %s", req, cur)
	}
	return nil
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return semver.Canonical(v)
}
