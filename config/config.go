// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Field     FieldConfig     `yaml:"field"`
	Harvest   HarvestConfig   `yaml:"harvest"`
	Weather   WeatherConfig   `yaml:"weather"`
	Run       RunConfig       `yaml:"run"`
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// Cell is an integer grid coordinate.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// FieldConfig holds grid dimensions and initial crop ranges.
type FieldConfig struct {
	Width            int     `yaml:"width"`
	Height           int     `yaml:"height"`
	ExcludedCells    []Cell  `yaml:"excluded_cells,omitempty"` // Empty = the mill cell (width-1, 0)
	InitialHeightMax float64 `yaml:"initial_height_max"`       // Starting height ~ U(0, this)
	InitialSugarMax  float64 `yaml:"initial_sugar_max"`        // Starting sugar ~ U(0, this)
}

// HarvestConfig holds harvest rule parameters.
type HarvestConfig struct {
	MinimumHeight   float64 `yaml:"minimum_height"`    // Patch must be at least this tall to harvest
	CapacityPerStep int     `yaml:"capacity_per_step"` // Harvests allowed per step
}

// WeatherConfig holds rain parameters.
type WeatherConfig struct {
	RainProbability float64 `yaml:"rain_probability"` // rain draw <= this is a good-rain step
}

// RunConfig holds run length and seeding.
type RunConfig struct {
	Steps int    `yaml:"steps"`
	Seed  *int64 `yaml:"seed,omitempty"` // nil = time-based
}

// TelemetryConfig holds metrics export parameters.
type TelemetryConfig struct {
	LogEvery       int  `yaml:"log_every"`       // Steps between stats log lines
	HistogramBins  int  `yaml:"histogram_bins"`  // Bins for the final height distribution
	CompressAgents bool `yaml:"compress_agents"` // Write agents.csv.zst instead of agents.csv
	PerfWindow     int  `yaml:"perf_window"`     // Steps averaged by the perf collector
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	Excluded map[Cell]struct{} // ExcludedCells, or the mill cell when none are listed
	NumCells int               // Crop cells after exclusion
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(fmt.Sprintf("config: embedded defaults are invalid: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(defaultsYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		var user map[string]any
		if err := yaml.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		doc = mergeDocs(doc, user)
	}

	// JSON cannot carry NaN or Inf, so these are rejected before the schema sees the document.
	if err := cfg.checkFinite(); err != nil {
		return nil, err
	}
	if err := checkSchema(doc); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// mergeDocs overlays src onto dst the way yaml.Unmarshal overlays a file onto
// a struct: nested mappings merge, everything else is replaced.
func mergeDocs(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if cur, isMap := dst[k].(map[string]any); ok && isMap {
			dst[k] = mergeDocs(cur, sub)
			continue
		}
		dst[k] = v
	}
	return dst
}

// Validate checks the cross-field rules and computes derived values.
// Callers that build a Config by hand must call it before use; game.NewField does.
func (c *Config) Validate() error {
	if err := c.checkFinite(); err != nil {
		return err
	}
	f := c.Field
	if f.Width <= 0 {
		return invalid("field.width", "must be positive, got %d", f.Width)
	}
	if f.Height <= 0 {
		return invalid("field.height", "must be positive, got %d", f.Height)
	}
	if f.InitialHeightMax < 0 {
		return invalid("field.initial_height_max", "must be >= 0, got %g", f.InitialHeightMax)
	}
	if f.InitialSugarMax < 0 {
		return invalid("field.initial_sugar_max", "must be >= 0, got %g", f.InitialSugarMax)
	}
	if c.Harvest.MinimumHeight < 0 {
		return invalid("harvest.minimum_height", "must be >= 0, got %g", c.Harvest.MinimumHeight)
	}
	if c.Harvest.CapacityPerStep < 0 {
		return invalid("harvest.capacity_per_step", "must be >= 0, got %d", c.Harvest.CapacityPerStep)
	}
	if p := c.Weather.RainProbability; !(p >= 0 && p <= 1) {
		return invalid("weather.rain_probability", "must be in [0,1], got %g", p)
	}
	if c.Run.Steps < 0 {
		return invalid("run.steps", "must be >= 0, got %d", c.Run.Steps)
	}

	excluded := make(map[Cell]struct{}, len(f.ExcludedCells))
	for _, cell := range f.ExcludedCells {
		if cell.X < 0 || cell.X >= f.Width || cell.Y < 0 || cell.Y >= f.Height {
			return invalid("field.excluded_cells", "cell (%d,%d) outside %dx%d grid", cell.X, cell.Y, f.Width, f.Height)
		}
		excluded[cell] = struct{}{}
	}
	if len(excluded) == 0 {
		excluded[MillCell(f.Width)] = struct{}{}
	}

	numCells := f.Width*f.Height - len(excluded)
	if numCells <= 0 {
		return invalid("field", "%dx%d grid has no crop cells", f.Width, f.Height)
	}

	c.Derived.Excluded = excluded
	c.Derived.NumCells = numCells
	return nil
}

// checkFinite rejects NaN and infinite float parameters.
func (c *Config) checkFinite() error {
	floats := []struct {
		field string
		v     float64
	}{
		{"field.initial_height_max", c.Field.InitialHeightMax},
		{"field.initial_sugar_max", c.Field.InitialSugarMax},
		{"harvest.minimum_height", c.Harvest.MinimumHeight},
		{"weather.rain_probability", c.Weather.RainProbability},
	}
	for _, f := range floats {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return invalid(f.field, "must be a finite number, got %g", f.v)
		}
	}
	return nil
}

// MillCell returns the grid cell occupied by the mill for a grid of the given width.
func MillCell(width int) Cell {
	return Cell{X: width - 1, Y: 0}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy suitable for per-run modification.
func (c *Config) Clone() *Config {
	out := *c
	out.Field.ExcludedCells = append([]Cell(nil), c.Field.ExcludedCells...)
	if c.Run.Seed != nil {
		seed := *c.Run.Seed
		out.Run.Seed = &seed
	}
	out.Derived = DerivedConfig{}
	return &out
}
