// Package aggregate propagates counts up an assembled forest and colors
// its nodes from a color scale.
//
// Order matters: [PropagateCounts] runs first and [ApplyColors] reads the
// propagated ImportedCount values. [Run] applies both in that order.
package aggregate

import (
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/colorscale"
	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// CountPolicy selects how counts move up a branch.
type CountPolicy string

const (
	// CountsOff leaves counts untouched.
	CountsOff CountPolicy = "off"
	// CountsLevel adds a child into its parent only when the parent sits at
	// or below the threshold level.
	CountsLevel CountPolicy = "level"
	// CountsAll accumulates everything up to the root.
	CountsAll CountPolicy = "all"
)

// ColorMode selects how the color scale maximum is computed and which
// nodes get colored.
type ColorMode string

const (
	// ColorOff leaves colors untouched.
	ColorOff ColorMode = "off"
	// ColorSpecific uses one maximum per branch.
	ColorSpecific ColorMode = "specific"
	// ColorGlobal uses a single maximum for the whole forest.
	ColorGlobal ColorMode = "global"
	// ColorPhenotype uses one maximum per branch over its outermost nodes
	// and colors only those.
	ColorPhenotype ColorMode = "phenotype"
)

// ParseCountPolicy validates a count policy name.
func ParseCountPolicy(s string) (CountPolicy, error) {
	switch p := CountPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case CountsOff, CountsLevel, CountsAll:
		return p, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown count propagation %q (valid: off, level, all)", s)
	}
}

// ParseColorMode validates a color mode name.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ColorOff, ColorSpecific, ColorGlobal, ColorPhenotype:
		return m, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown color propagation %q (valid: off, specific, global, phenotype)", s)
	}
}

// Options configures a full aggregation run.
type Options struct {
	Counts CountPolicy
	Color  ColorMode
	Level  int // Threshold level shared by both passes

	Scale        colorscale.Scale
	DefaultColor string
	Space        colorscale.Space
}

// Run propagates counts and then applies colors.
func Run(f *ontology.Forest, opts Options) {
	PropagateCounts(f, opts.Counts, opts.Level)
	ApplyColors(f, ColorOptions{
		Mode:         opts.Color,
		Level:        opts.Level,
		Scale:        opts.Scale,
		DefaultColor: opts.DefaultColor,
		Space:        opts.Space,
	})
}

// PropagateCounts folds each node's ImportedCount into its parent, deepest
// nodes first, so every contribution reaches the parent before the parent
// is folded further up. Count is never modified.
func PropagateCounts(f *ontology.Forest, policy CountPolicy, level int) {
	if policy != CountsLevel && policy != CountsAll {
		return
	}
	for _, b := range f.Branches() {
		for _, n := range b.ByLevelDesc() {
			if n.IsRoot() {
				continue
			}
			parent := b.Node(n.ParentID)
			if parent == nil || parent == n {
				continue
			}
			if policy == CountsLevel && parent.Level < level {
				continue
			}
			parent.ImportedCount += n.ImportedCount
		}
	}
}
