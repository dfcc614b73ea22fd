// Package config holds the tunable constants of the grid animation and
// loads overrides from YAML.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Garsondee/Sphere-Search/internal/search"
)

// Dims is a grid size along each axis.
type Dims struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	Z int `yaml:"z"`
}

// Vec3 converts d to a search position.
func (d Dims) Vec3() search.Vec3 {
	return search.Vec3{X: d.X, Y: d.Y, Z: d.Z}
}

// GridConfig controls grid generation. Min is inclusive and Max exclusive
// when drawing the dimensions of each round after the first.
type GridConfig struct {
	Initial       Dims    `yaml:"initial"`
	Min           Dims    `yaml:"min"`
	Max           Dims    `yaml:"max"`
	Density       float64 `yaml:"density"`
	RadiusDivisor float64 `yaml:"radius_divisor"`
}

// Delays paces the search. Retrace must be shorter than Solve.
type Delays struct {
	Solve   time.Duration `yaml:"solve"`   // between neighbour relaxations
	Retrace time.Duration `yaml:"retrace"` // between path markings
	Reset   time.Duration `yaml:"reset"`   // idle display before solving and between rounds
}

// Config is the root configuration.
type Config struct {
	Grid        GridConfig `yaml:"grid"`
	Delays      Delays     `yaml:"delays"`
	Seed        int64      `yaml:"seed"` // 0 picks a time-based seed
	TPS         int        `yaml:"tps"`
	MetricsAddr string     `yaml:"metrics_addr"`
	LogLevel    string     `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Grid: GridConfig{
			Initial:       Dims{5, 5, 5},
			Min:           Dims{3, 3, 3},
			Max:           Dims{12, 12, 9},
			Density:       search.DefaultDensity,
			RadiusDivisor: search.DefaultRadiusDivisor,
		},
		Delays: Delays{
			Solve:   40 * time.Millisecond,
			Retrace: 5 * time.Millisecond,
			Reset:   time.Second,
		},
		TPS:      60,
		LogLevel: "info",
	}
}

const maxFileSize = 1 << 20

// Load reads a YAML file over the defaults. Fields missing from the file
// keep their default values. The result is validated.
func Load(path string) (Config, error) {
	cfg := Default()
	cleanPath := filepath.Clean(path)
	info, err := os.Stat(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("config: stat %s: %w", cleanPath, err)
	}
	if info.Size() > maxFileSize {
		return cfg, fmt.Errorf("config: %s too large: %d bytes (max %d)", cleanPath, info.Size(), maxFileSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", cleanPath, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", cleanPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("config: invalid")
)

// Validate reports every problem in c at once.
func (c Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if !c.Grid.Initial.positive() {
		bad("grid.initial %v must be positive", c.Grid.Initial)
	}
	if !c.Grid.Min.positive() {
		bad("grid.min %v must be positive", c.Grid.Min)
	}
	if c.Grid.Max.X <= c.Grid.Min.X || c.Grid.Max.Y <= c.Grid.Min.Y || c.Grid.Max.Z <= c.Grid.Min.Z {
		bad("grid.max %v must exceed grid.min %v on every axis", c.Grid.Max, c.Grid.Min)
	}
	if c.Grid.Density < 0 || c.Grid.Density > 1 {
		bad("grid.density %g must be within [0,1]", c.Grid.Density)
	}
	if c.Grid.RadiusDivisor <= 0 {
		bad("grid.radius_divisor %g must be positive", c.Grid.RadiusDivisor)
	}
	if c.Delays.Solve < 0 || c.Delays.Retrace < 0 || c.Delays.Reset < 0 {
		bad("delays must not be negative")
	}
	if c.Delays.Retrace >= c.Delays.Solve && c.Delays.Solve > 0 {
		bad("delays.retrace %s must be shorter than delays.solve %s", c.Delays.Retrace, c.Delays.Solve)
	}
	if c.TPS <= 0 {
		bad("tps %d must be positive", c.TPS)
	}
	return errors.Join(errs...)
}

func (d Dims) positive() bool {
	return d.X > 0 && d.Y > 0 && d.Z > 0
}
