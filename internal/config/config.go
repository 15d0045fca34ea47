// Package config loads interpreter settings from a YAML file.
package config

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"kanye-lang/impl/internal/evaluator"
)

// FileName is looked up in the working directory when no path is given.
const FileName = ".kanye.yaml"

type Config struct {
	Strict      bool   `yaml:"strict"`
	MaxDepth    int    `yaml:"max_depth"`
	LogLevel    string `yaml:"log_level"`
	HistoryFile string `yaml:"history_file"`

	// Path is the file the settings came from, empty for defaults.
	Path string `yaml:"-"`
}

func Defaults() Config {
	return Config{
		MaxDepth:    evaluator.DefaultMaxDepth,
		LogLevel:    "warn",
		HistoryFile: "~/.kanye_history",
	}
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, errors.New("config: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config: resolve %s", path)
	}
	f, err := os.Open(abs)
	if err != nil {
		return cfg, errors.Wrap(err, "config")
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Defaults(), errors.Wrapf(err, "config: parse %s", abs)
	}
	if _, err := ParseLevel(cfg.LogLevel); err != nil {
		return Defaults(), errors.Wrapf(err, "config: %s", abs)
	}
	if cfg.MaxDepth < 0 {
		return Defaults(), errors.Errorf("config: %s: max_depth must not be negative", abs)
	}
	cfg.Path = abs
	return cfg, nil
}

// Discover loads FileName from dir when it exists and falls back to the
// defaults otherwise.
func Discover(dir string) (Config, error) {
	path := filepath.Join(dir, FileName)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Defaults(), nil
		}
		return Defaults(), errors.Wrap(err, "config")
	}
	return Load(path)
}

// Options turns the settings into evaluator options.
func (c Config) Options() []evaluator.Option {
	return []evaluator.Option{
		evaluator.WithStrict(c.Strict),
		evaluator.WithMaxDepth(c.MaxDepth),
	}
}

// Level is the configured log level; an unparsable value means warn.
func (c Config) Level() zapcore.Level {
	lvl, err := ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.WarnLevel
	}
	return lvl
}

// History returns the history file path with a leading ~ expanded.
func (c Config) History() string {
	return expandHome(c.HistoryFile)
}

// ParseLevel accepts debug, info, warn and error in any case. Empty means warn.
func ParseLevel(s string) (zapcore.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "", "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.WarnLevel, errors.Errorf("unknown log level %q", s)
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
