package cli

import (
	"github.com/spf13/cobra"

	"github.com/ontoloviz/ontoloviz/pkg/config"
)

// configFlags holds the build settings that can be given on the command
// line. Only flags the user set override the config file.
type configFlags struct {
	path string

	mode          string
	levelSep      string
	aliasSep      string
	floatSep      string
	maxAttempts   int
	minBranchSize int
	noPropagation bool
	level         int
	counts        string
	color         string
	defaultColor  string
	interpolation string
	dropEmpty     bool
	hideEmpty     bool
}

func (f *configFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.path, "config", "c", "", "TOML config file (default: $"+config.EnvConfigFile+")")
	fs.StringVar(&f.mode, "mode", "", "assembly mode: separator, parent")
	fs.StringVar(&f.levelSep, "level-sep", "", "level separator of tree numbers")
	fs.StringVar(&f.aliasSep, "alias-sep", "", "separator of aliased identifiers")
	fs.StringVar(&f.floatSep, "float-sep", "", "decimal separator of float counts (enables normalisation)")
	fs.IntVar(&f.maxAttempts, "max-attempts", 0, "retry budget of parent-pointer assembly")
	fs.IntVar(&f.minBranchSize, "min-branch-size", 0, "drop branches with fewer nodes")
	fs.BoolVar(&f.noPropagation, "no-propagation", false, "disable count propagation and coloring")
	fs.IntVar(&f.level, "level", 0, "propagation threshold level")
	fs.StringVar(&f.counts, "counts", "", "count propagation: off, level, all")
	fs.StringVar(&f.color, "color", "", "color propagation: off, specific, global, phenotype")
	fs.StringVar(&f.defaultColor, "default-color", "", "color of uncolored nodes")
	fs.StringVar(&f.interpolation, "interpolation", "", "color interpolation space: rgb, lab, hcl")
	fs.BoolVar(&f.dropEmpty, "drop-empty", false, "drop empty leaves and branches")
	fs.BoolVar(&f.hideEmpty, "hide-empty", false, "do not give zero-count nodes a visible size")
}

// load reads the config file, or $ONTOLOVIZ_CONFIG, and applies the flags
// the user set. The result is validated.
func (f *configFlags) load(cmd *cobra.Command) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if f.path != "" {
		cfg, err = config.Load(f.path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		return config.Config{}, err
	}

	changed := cmd.Flags().Changed
	setString := func(name string, dst *string, v string) {
		if changed(name) {
			*dst = v
		}
	}
	setInt := func(name string, dst *int, v int) {
		if changed(name) {
			*dst = v
		}
	}

	setString("mode", &cfg.Assembly.Mode, f.mode)
	setString("level-sep", &cfg.Assembly.LevelSeparator, f.levelSep)
	setString("alias-sep", &cfg.Assembly.AliasSeparator, f.aliasSep)
	setString("float-sep", &cfg.Assembly.FloatSeparator, f.floatSep)
	setInt("max-attempts", &cfg.Assembly.MaxAttempts, f.maxAttempts)
	setInt("min-branch-size", &cfg.Assembly.MinBranchSize, f.minBranchSize)
	setInt("level", &cfg.Propagation.Level, f.level)
	setString("counts", &cfg.Propagation.Counts, f.counts)
	setString("color", &cfg.Propagation.Color, f.color)
	setString("default-color", &cfg.Colors.Default, f.defaultColor)
	setString("interpolation", &cfg.Colors.Interpolation, f.interpolation)
	if changed("no-propagation") {
		cfg.Propagation.Enabled = !f.noPropagation
	}
	if changed("drop-empty") {
		cfg.Display.DropEmptyLeaves = f.dropEmpty
	}
	if changed("hide-empty") {
		cfg.Display.ShowEmpty = !f.hideEmpty
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
