// Package config holds the validated settings for an ontoloviz build.
//
// Settings are read from a TOML file, then overridden by command-line flags
// or API request fields, and validated once with [Config.Validate] before any
// assembly runs. Downstream packages receive plain option structs derived
// from the config and never re-check it.
//
// # File Format
//
//	[assembly]
//	mode = "parent"            # or "separator"
//	level_separator = "."
//	alias_separator = "|"
//	float_separator = ","      # empty = integer counts
//	max_attempts = 20
//	min_branch_size = 2
//
//	[propagation]
//	enabled = true
//	level = 1
//	counts = "all"             # off | level | all
//	color = "specific"         # off | specific | global | phenotype
//
//	[colors]
//	default = "#FFFFFF"
//	interpolation = "rgb"      # rgb | lab | hcl
//	scale = [
//	  { threshold = 0.0, color = "#FFFFFF" },
//	  { threshold = 0.2, color = "#403C53" },
//	  { threshold = 1.0, color = "#C33D35" },
//	]
//
//	[display]
//	drop_empty_leaves = false
//	show_empty = true
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ontoloviz/ontoloviz/pkg/colorscale"
	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
	"github.com/ontoloviz/ontoloviz/pkg/ontology/aggregate"
	"github.com/ontoloviz/ontoloviz/pkg/ontology/assemble"
)

// EnvConfigFile names the environment variable holding the default config
// file path.
const EnvConfigFile = "ONTOLOVIZ_CONFIG"

// Assembly modes.
const (
	ModeSeparator = "separator"
	ModeParent    = "parent"
)

// =============================================================================
// Config Sections
// =============================================================================

// Config is the full set of build settings.
type Config struct {
	Assembly    Assembly    `toml:"assembly" json:"assembly"`
	Propagation Propagation `toml:"propagation" json:"propagation"`
	Colors      Colors      `toml:"colors" json:"colors"`
	Display     Display     `toml:"display" json:"display"`
}

// Assembly selects the assembler and its separators.
type Assembly struct {
	Mode           string `toml:"mode" json:"mode"`
	LevelSeparator string `toml:"level_separator" json:"level_separator"`
	AliasSeparator string `toml:"alias_separator" json:"alias_separator"`
	FloatSeparator string `toml:"float_separator" json:"float_separator,omitempty"`
	MaxAttempts    int    `toml:"max_attempts" json:"max_attempts"`
	MinBranchSize  int    `toml:"min_branch_size" json:"min_branch_size"`
}

// Propagation configures count propagation and coloring.
type Propagation struct {
	Enabled bool   `toml:"enabled" json:"enabled"`
	Level   int    `toml:"level" json:"level"`
	Counts  string `toml:"counts" json:"counts"`
	Color   string `toml:"color" json:"color"`
}

// Colors configures the default color and the color scale.
type Colors struct {
	Default       string           `toml:"default" json:"default"`
	Interpolation string           `toml:"interpolation" json:"interpolation,omitempty"`
	Scale         colorscale.Scale `toml:"scale" json:"scale"`
}

// Display configures the pre-processing applied before aggregation.
type Display struct {
	DropEmptyLeaves bool `toml:"drop_empty_leaves" json:"drop_empty_leaves"`
	ShowEmpty       bool `toml:"show_empty" json:"show_empty"`
}

// =============================================================================
// Construction
// =============================================================================

// Default returns the settings used when no file is given.
func Default() Config {
	return Config{
		Assembly: Assembly{
			Mode:           ModeSeparator,
			LevelSeparator: assemble.DefaultLevelSeparator,
			AliasSeparator: assemble.DefaultAliasSeparator,
			MaxAttempts:    assemble.DefaultMaxAttempts,
		},
		Propagation: Propagation{
			Enabled: true,
			Level:   0,
			Counts:  string(aggregate.CountsAll),
			Color:   string(aggregate.ColorSpecific),
		},
		Colors: Colors{
			Default:       ontology.DefaultColor,
			Interpolation: string(colorscale.RGB),
			Scale:         colorscale.Default(),
		},
		Display: Display{
			ShowEmpty: true,
		},
	}
}

// Load reads a TOML file on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	if err := errors.ValidatePath(path); err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	return Decode(bytes.NewReader(data))
}

// LoadDefault loads the file named by ONTOLOVIZ_CONFIG, or returns the
// defaults when the variable is unset.
func LoadDefault() (Config, error) {
	if path := strings.TrimSpace(os.Getenv(EnvConfigFile)); path != "" {
		return Load(path)
	}
	cfg := Default()
	return cfg, cfg.Validate()
}

// Decode reads TOML from r on top of the defaults and validates the result.
// Unknown keys are rejected.
func Decode(r io.Reader) (Config, error) {
	cfg := Default()
	// An explicit scale replaces the default one rather than merging into it.
	cfg.Colors.Scale = nil
	md, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	if len(cfg.Colors.Scale) == 0 {
		cfg.Colors.Scale = colorscale.Default()
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Encode writes the config as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// =============================================================================
// Validation
// =============================================================================

// Validate checks enums, ranges, colors and the color scale.
func (c Config) Validate() error {
	switch c.Assembly.Mode {
	case ModeSeparator, ModeParent:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown assembly mode %q (valid: separator, parent)", c.Assembly.Mode)
	}
	if err := errors.ValidateHexColor(c.Colors.Default); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "default color")
	}
	opts := c.Assemble()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	if c.Assembly.MaxAttempts < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "max_attempts must be at least 1, got %d", c.Assembly.MaxAttempts)
	}
	if c.Assembly.MinBranchSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "min_branch_size must not be negative, got %d", c.Assembly.MinBranchSize)
	}
	if c.Propagation.Level < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "propagation level must not be negative, got %d", c.Propagation.Level)
	}
	if _, err := aggregate.ParseCountPolicy(c.Propagation.Counts); err != nil {
		return err
	}
	if _, err := aggregate.ParseColorMode(c.Propagation.Color); err != nil {
		return err
	}
	if _, err := colorscale.ParseSpace(c.Colors.Interpolation); err != nil {
		return err
	}
	return c.Colors.Scale.Validate()
}

// =============================================================================
// Derived Options
// =============================================================================

// Assemble returns the assembler options.
func (c Config) Assemble() assemble.Options {
	return assemble.Options{
		LevelSeparator: c.Assembly.LevelSeparator,
		AliasSeparator: c.Assembly.AliasSeparator,
		FloatSeparator: c.Assembly.FloatSeparator,
		DefaultColor:   c.Colors.Default,
		MaxAttempts:    c.Assembly.MaxAttempts,
	}
}

// Aggregate returns the aggregation options. Disabled propagation turns
// both passes off. The config must have been validated.
func (c Config) Aggregate() aggregate.Options {
	counts, _ := aggregate.ParseCountPolicy(c.Propagation.Counts)
	color, _ := aggregate.ParseColorMode(c.Propagation.Color)
	space, _ := colorscale.ParseSpace(c.Colors.Interpolation)
	if !c.Propagation.Enabled {
		counts, color = aggregate.CountsOff, aggregate.ColorOff
	}
	return aggregate.Options{
		Counts:       counts,
		Color:        color,
		Level:        c.Propagation.Level,
		Scale:        c.Colors.Scale,
		DefaultColor: c.Colors.Default,
		Space:        space,
	}
}
