// Package config loads solver and tool settings from a YAML or JSON file,
// EWBIK_* environment variables, and command-line flags, in increasing
// order of precedence.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/armature"
	"github.com/EGjoni/Everything-Will-Be-IK-sub003/internal/mathutil"
)

// EnvPrefix prefixes environment overrides, e.g. EWBIK_ITERATIONS=30.
const EnvPrefix = "EWBIK"

// Config holds solver defaults and render/batch settings.
type Config struct {
	// Solver
	Solver         string  `mapstructure:"solver"`
	Iterations     int     `mapstructure:"iterations"`
	DampingDegrees float64 `mapstructure:"damping_degrees"`
	AbilityBias    bool    `mapstructure:"ability_bias"`
	TranslateRoot  bool    `mapstructure:"translate_root"`

	// Output
	OutputDir   string `mapstructure:"output_dir"`
	Format      string `mapstructure:"format"`
	RenderSize  int    `mapstructure:"render_size"`
	Supersample int    `mapstructure:"supersample"`
	Workers     int    `mapstructure:"workers"`
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Solver         string
	Iterations     int
	DampingDegrees float64
	OutputDir      string
	Format         string
	RenderSize     int
	Workers        int
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solver", armature.Tranquil.String())
	v.SetDefault("iterations", 15)
	v.SetDefault("damping_degrees", 5.0)
	v.SetDefault("ability_bias", true)
	v.SetDefault("translate_root", false)

	v.SetDefault("output_dir", "renders")
	v.SetDefault("format", "webp")
	v.SetDefault("render_size", 256)
	v.SetDefault("supersample", 2)
	v.SetDefault("workers", 0)
}

// Load reads path (if non-empty) over the built-in defaults and applies
// environment overrides.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve applies non-zero flags and fills any remaining gaps.
func (c *Config) Resolve(flags Flags) {
	if flags.Solver != "" {
		c.Solver = flags.Solver
	}
	if flags.Iterations > 0 {
		c.Iterations = flags.Iterations
	}
	if flags.DampingDegrees > 0 {
		c.DampingDegrees = flags.DampingDegrees
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.RenderSize > 0 {
		c.RenderSize = flags.RenderSize
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	if c.Solver == "" {
		c.Solver = armature.Tranquil.String()
	}
	if c.Iterations <= 0 {
		c.Iterations = 15
	}
	if c.DampingDegrees <= 0 {
		c.DampingDegrees = 5
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}

var errFormat = errors.New("config: unknown output format")

// Validate checks the enumerated settings.
func (c Config) Validate() error {
	if _, err := armature.ParseSolverVariant(c.Solver); err != nil {
		return fmt.Errorf("config: solver: %w", err)
	}
	switch strings.ToLower(c.Format) {
	case "webp", "bmp":
	default:
		return fmt.Errorf("%w: %q", errFormat, c.Format)
	}
	return nil
}

// SolverOptions converts the solver settings for an Armature.
func (c Config) SolverOptions() (armature.SolverConfig, error) {
	variant, err := armature.ParseSolverVariant(c.Solver)
	if err != nil {
		return armature.SolverConfig{}, fmt.Errorf("config: solver: %w", err)
	}
	return armature.SolverConfig{
		Damping:       mathutil.Deg2Rad(c.DampingDegrees),
		Iterations:    c.Iterations,
		Variant:       variant,
		AbilityBias:   c.AbilityBias,
		TranslateRoot: c.TranslateRoot,
	}, nil
}
