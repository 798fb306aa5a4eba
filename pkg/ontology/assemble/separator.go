package assemble

import (
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// Separator builds a forest from rows whose identifiers encode their own
// position, such as MeSH tree numbers ("C01.001.002"). The parent column
// is ignored.
//
// Each alias identifier of a row is placed in the branch named by its first
// segment. Level is the number of level separators and the parent is the
// identifier without its last segment. Missing ancestors are synthesised as
// artificial nodes, walking up the identifier chain until an existing
// ancestor or the root is found.
//
// Adding an identifier that already exists overwrites its data fields and
// keeps its structure, so rebuilding from the same rows is idempotent.
// Blank identifiers are skipped and counted in the summary; Separator never
// fails.
func Separator(rows []ontology.Row, opts Options) (*ontology.Forest, Summary, error) {
	var summary Summary
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, summary, err
	}

	forest := ontology.NewForest()
	sep := opts.LevelSeparator

	for _, row := range rows {
		summary.Rows++
		ids := ontology.SplitAliases(row.ID, opts.AliasSeparator)
		if len(ids) == 0 {
			summary.Skipped++
			continue
		}
		for _, id := range ids {
			segments := strings.Split(id, sep)
			if segments[0] == "" {
				summary.Skipped++
				continue
			}

			branch := forest.Ensure(segments[0])
			summary.Artificial += ensureAncestors(branch, id, sep, opts.DefaultColor)

			n := ontology.NodeFromRow(row, id, opts.FloatSeparator, opts.DefaultColor)
			n.Level = len(segments) - 1
			n.ParentID = parentOf(id, sep)
			if existing := branch.Node(id); existing != nil && existing.IsArtificial() {
				summary.Artificial--
			}
			_ = branch.Add(n)
		}
	}

	summary.Nodes = forest.NodeCount()
	return forest, summary, nil
}

// ensureAncestors adds every missing ancestor of id to the branch, outermost
// first, and returns how many it created.
func ensureAncestors(b *ontology.Branch, id, sep, color string) int {
	var missing []string
	for p := parentOf(id, sep); p != "" && !b.Has(p); p = parentOf(p, sep) {
		missing = append(missing, p)
	}
	for i := len(missing) - 1; i >= 0; i-- {
		p := missing[i]
		level := strings.Count(p, sep)
		_ = b.Add(ontology.NewArtificial(p, parentOf(p, sep), level, color))
	}
	return len(missing)
}

func parentOf(id, sep string) string {
	i := strings.LastIndex(id, sep)
	if i < 0 {
		return ""
	}
	return id[:i]
}
