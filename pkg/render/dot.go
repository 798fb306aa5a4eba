package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// Options configures DOT generation.
type Options struct {
	// Detailed adds the node ID and counts under the label.
	Detailed bool `json:"detailed,omitempty"`

	// MaxDepth hides nodes deeper than this level. Zero shows all levels.
	MaxDepth int `json:"max_depth,omitempty"`

	// Horizontal lays the tree out left to right instead of top to bottom.
	Horizontal bool `json:"horizontal,omitempty"`
}

// ToDOT converts a branch to Graphviz DOT source.
func ToDOT(b *ontology.Branch, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	writeHeader(&buf, opts)
	writeBranch(&buf, b, opts, "  ")
	buf.WriteString("}\n")
	return buf.String()
}

// ForestDOT converts every branch of f to one DOT graph, each branch in
// its own cluster.
func ForestDOT(f *ontology.Forest, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	writeHeader(&buf, opts)
	for i, b := range f.Branches() {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
		fmt.Fprintf(&buf, "    label=%q;\n", b.Root().Label)
		buf.WriteString("    style=dashed;\n")
		writeBranch(&buf, b, opts, "    ")
		buf.WriteString("  }\n")
	}
	buf.WriteString("}\n")
	return buf.String()
}

func writeHeader(buf *bytes.Buffer, opts Options) {
	rankdir := "TB"
	if opts.Horizontal {
		rankdir = "LR"
	}
	fmt.Fprintf(buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n\n")
}

func writeBranch(buf *bytes.Buffer, b *ontology.Branch, opts Options, indent string) {
	var edges []string
	for _, n := range b.Nodes() {
		if opts.MaxDepth > 0 && n.Level > opts.MaxDepth {
			continue
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.ID, strings.Join(attrs(n, opts), ", "))
		if n.ParentID != "" {
			edges = append(edges, fmt.Sprintf("%s%q -> %q;\n", indent, n.ParentID, n.ID))
		}
	}
	for _, e := range edges {
		buf.WriteString(e)
	}
}

func attrs(n *ontology.Node, opts Options) []string {
	out := []string{
		fmt.Sprintf("label=%q", label(n, opts.Detailed)),
		fmt.Sprintf("fillcolor=%q", n.Color),
		fmt.Sprintf("fontcolor=%q", fontColor(n.Color)),
		fmt.Sprintf("tooltip=%q", n.Description),
	}
	if n.IsArtificial() {
		out = append(out, `style="rounded,filled,dashed"`)
	}
	return out
}

func label(n *ontology.Node, detailed bool) string {
	if !detailed {
		return n.Label
	}
	return fmt.Sprintf("%s\n%s\ncount: %s / %s", n.Label, n.ID, formatCount(n.Count), formatCount(n.ImportedCount))
}

func formatCount(v float64) string {
	if v == ontology.Zero || v == ontology.FakeOne {
		return "0"
	}
	return fmt.Sprintf("%g", v)
}

// fontColor picks black or white text for legibility on fill.
func fontColor(fill string) string {
	c, err := colorful.Hex(fill)
	if err != nil {
		return "black"
	}
	if l, _, _ := c.Lab(); l < 0.5 {
		return "white"
	}
	return "black"
}
