// Package config loads trackc.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"trackc/internal/compiler"
	"trackc/internal/diagfmt"
	"trackc/internal/prof"
	"trackc/internal/trace"
)

// FileName is the name of the configuration file searched for.
const FileName = "trackc.toml"

// EnvPath names an explicit configuration file, bypassing the search.
const EnvPath = "TRACKC_CONFIG"

// ColorMode selects console styling when -Tcolor is not given.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// Config is the decoded configuration.
type Config struct {
	// Path is the file the configuration came from, "" for defaults.
	Path     string         `toml:"-"`
	Compiler CompilerConfig `toml:"compiler"`
	Console  ConsoleConfig  `toml:"console"`
	Trace    TraceConfig    `toml:"trace"`
	Profile  ProfileConfig  `toml:"profile"`
}

type CompilerConfig struct {
	Command []string       `toml:"command"`
	Env     []string       `toml:"env"`
	Dir     string         `toml:"dir"`
	Options map[string]int `toml:"options"`
}

type ConsoleConfig struct {
	Color   string `toml:"color"`
	Paths   string `toml:"paths"`
	Timings bool   `toml:"timings"`
}

type TraceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
	Format string `toml:"format"`
}

type ProfileConfig struct {
	CPU          string `toml:"cpu"`
	Mem          string `toml:"mem"`
	RuntimeTrace string `toml:"runtime_trace"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Console: ConsoleConfig{Color: string(ColorOff)},
		Trace:   TraceConfig{Level: "off", Output: "-"},
	}
}

// Find locates the configuration file: $TRACKC_CONFIG if set, else the first
// trackc.toml in startDir or one of its parents.
func Find(startDir string) (string, bool, error) {
	if p := os.Getenv(EnvPath); p != "" {
		if _, err := os.Stat(p); err != nil {
			return "", false, fmt.Errorf("%s=%s: %w", EnvPath, p, err)
		}
		return p, true, nil
	}
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load finds and decodes the configuration. Defaults are returned when no
// file exists.
func Load(startDir string) (*Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return Default(), nil
	}
	return LoadFile(path)
}

// LoadFile decodes and validates the file at path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if meta.IsDefined("compiler", "command") && len(cfg.Compiler.Command) == 0 {
		return nil, fmt.Errorf("%s: [compiler].command must not be empty", path)
	}
	for name, n := range cfg.Compiler.Options {
		if !strings.HasPrefix(name, "-") {
			return nil, fmt.Errorf("%s: [compiler.options] %q must start with '-'", path, name)
		}
		if n < 0 {
			return nil, fmt.Errorf("%s: [compiler.options] %q has negative arity %d", path, name, n)
		}
	}
	if cfg.Compiler.Dir != "" && !filepath.IsAbs(cfg.Compiler.Dir) {
		cfg.Compiler.Dir = filepath.Join(filepath.Dir(path), cfg.Compiler.Dir)
	}
	if _, err := cfg.ColorMode(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if _, err := cfg.PathMode(); err != nil {
		return nil, fmt.Errorf("%s: [console].paths: %w", path, err)
	}
	if _, err := cfg.TraceConfig(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ColorMode validates [console].color.
func (c *Config) ColorMode() (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(strings.TrimSpace(c.Console.Color))); mode {
	case "":
		return ColorOff, nil
	case ColorAuto, ColorOn, ColorOff:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid [console].color %q (expected auto|on|off)", c.Console.Color)
	}
}

// PathMode validates [console].paths.
func (c *Config) PathMode() (diagfmt.PathMode, error) {
	return diagfmt.ParsePathMode(c.Console.Paths)
}

// OptionTable returns the compiler's option table: the defaults with the
// configured entries layered on top.
func (c *Config) OptionTable() compiler.OptionTable {
	return compiler.DefaultOptions.Merge(compiler.OptionTable(c.Compiler.Options))
}

// TraceConfig converts [trace] into a tracer configuration.
func (c *Config) TraceConfig() (trace.Config, error) {
	level, err := trace.ParseLevel(c.Trace.Level)
	if err != nil {
		return trace.Config{}, err
	}
	format, err := trace.ParseFormat(c.Trace.Format)
	if err != nil {
		return trace.Config{}, err
	}
	return trace.Config{Level: level, Format: format, OutputPath: c.Trace.Output}, nil
}

// ProfileConfig converts [profile] into profiler outputs.
func (c *Config) ProfileConfig() prof.Config {
	return prof.Config{CPU: c.Profile.CPU, Mem: c.Profile.Mem, Trace: c.Profile.RuntimeTrace}
}
