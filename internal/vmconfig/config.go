// Package vmconfig loads the YAML tuning file that controls VM limits,
// GC behavior, and logging, and turns it into the vm.Option values that
// construct a configured vm.VM.
package vmconfig

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/emberlox/emberlox/internal/vm"
)

// Config is the top-level emberlox.yaml configuration.
type Config struct {
	// StackMax and FramesMax document the compiled-in operand-stack and
	// call-frame limits (vm.StackMax, vm.FramesMax). Both are constants
	// baked into the VM's fixed-size arrays at build time, exactly as
	// clox's own STACK_MAX and FRAMES_MAX are compile-time #defines, so a
	// config value here is validated against the build rather than used
	// to resize anything at runtime.
	StackMax  int `yaml:"stackMax"`
	FramesMax int `yaml:"framesMax"`

	// GCGrowthFactor is parsed but neither validated nor used: the
	// collector always grows its threshold by vm.GrowFactor (doubling,
	// matching the original's literal constant).
	GCGrowthFactor float64 `yaml:"gcGrowthFactor"`

	// GCInitialThreshold is the heap size in bytes at which the first
	// collection runs.
	GCInitialThreshold int `yaml:"gcInitialThreshold"`

	// GCStressMode forces a collection on every allocation. Meant for
	// tests that need to flush out GC bugs, not production use.
	GCStressMode bool `yaml:"gcStressMode"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `yaml:"logLevel"`
}

// Default returns the configuration New would use with no overrides.
func Default() *Config {
	return &Config{
		StackMax:           vm.StackMax,
		FramesMax:          vm.FramesMax,
		GCGrowthFactor:     2.0,
		GCInitialThreshold: 1024 * 1024,
		GCStressMode:       false,
		LogLevel:           "info",
	}
}

// Load reads and parses an emberlox.yaml file, filling in defaults for
// whatever the file omits.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses emberlox.yaml content from bytes.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.StackMax != 0 && c.StackMax != vm.StackMax {
		return fmt.Errorf("stackMax %d does not match the compiled-in limit %d", c.StackMax, vm.StackMax)
	}
	if c.FramesMax != 0 && c.FramesMax != vm.FramesMax {
		return fmt.Errorf("framesMax %d does not match the compiled-in limit %d", c.FramesMax, vm.FramesMax)
	}
	if c.GCInitialThreshold <= 0 {
		return fmt.Errorf("gcInitialThreshold must be positive, got %d", c.GCInitialThreshold)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logLevel must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return nil
}

// Level converts LogLevel to the slog.Level New's logger is built with.
func (c *Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Options turns the config into the vm.Option values New expects, wired
// to the given logger. Output streams are not set here.
func (c *Config) Options(logger *slog.Logger) []vm.Option {
	return []vm.Option{
		vm.WithTuning(c.GCInitialThreshold, c.GCGrowthFactor),
		vm.WithGCStress(c.GCStressMode),
		vm.WithLogger(logger),
	}
}
