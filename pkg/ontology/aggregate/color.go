package aggregate

import (
	"github.com/ontoloviz/ontoloviz/pkg/colorscale"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// ColorOptions configures [ApplyColors].
type ColorOptions struct {
	Mode         ColorMode
	Level        int
	Scale        colorscale.Scale // Must be validated
	DefaultColor string
	Space        colorscale.Space
}

// BranchMax returns the largest ImportedCount among nodes of b at or
// below level.
func BranchMax(b *ontology.Branch, level int) float64 {
	return b.Max(level)
}

// GlobalMax returns the largest ImportedCount in the forest among nodes at
// or below level.
func GlobalMax(f *ontology.Forest, level int) float64 {
	return f.Max(level)
}

// Outermost returns the outermost nodes of b: visiting deepest first, a
// node is outermost unless an already visited node lies below it.
func Outermost(b *ontology.Branch) []*ontology.Node {
	covered := map[string]bool{}
	var out []*ontology.Node
	for _, n := range b.ByLevelDesc() {
		if !covered[n.ID] {
			out = append(out, n)
		}
		for _, a := range b.Ancestors(n.ID) {
			covered[a.ID] = true
		}
	}
	return out
}

// OutermostMax returns the largest ImportedCount among the outermost
// nodes of b.
func OutermostMax(b *ontology.Branch) float64 {
	var m float64
	for _, n := range Outermost(b) {
		if n.ImportedCount >= m {
			m = n.ImportedCount
		}
	}
	return m
}

// ApplyColors sets node colors from the scale.
//
// In specific and global modes, nodes at or below the threshold level are
// colored from a table built on the branch or forest maximum; the rest get
// the default color. In phenotype mode only outermost nodes are colored
// and every other node gets the default color. Off leaves colors alone.
func ApplyColors(f *ontology.Forest, opts ColorOptions) {
	if opts.DefaultColor == "" {
		opts.DefaultColor = ontology.DefaultColor
	}
	if len(opts.Scale) == 0 {
		opts.Scale = colorscale.Default()
	}

	switch opts.Mode {
	case ColorGlobal:
		table := colorscale.BuildIn(opts.Scale, GlobalMax(f, opts.Level), opts.DefaultColor, opts.Space)
		for _, b := range f.Branches() {
			colorByLevel(b, table, opts)
		}
	case ColorSpecific:
		for _, b := range f.Branches() {
			table := colorscale.BuildIn(opts.Scale, BranchMax(b, opts.Level), opts.DefaultColor, opts.Space)
			colorByLevel(b, table, opts)
		}
	case ColorPhenotype:
		for _, b := range f.Branches() {
			table := colorscale.BuildIn(opts.Scale, OutermostMax(b), opts.DefaultColor, opts.Space)
			for _, n := range b.Nodes() {
				n.Color = opts.DefaultColor
			}
			for _, n := range Outermost(b) {
				n.Color = table.Lookup(n.ImportedCount)
			}
		}
	}
}

func colorByLevel(b *ontology.Branch, table *colorscale.Table, opts ColorOptions) {
	for _, n := range b.Nodes() {
		if n.Level >= opts.Level {
			n.Color = table.Lookup(n.ImportedCount)
		} else {
			n.Color = opts.DefaultColor
		}
	}
}
