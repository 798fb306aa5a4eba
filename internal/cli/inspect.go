package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
	pkgio "github.com/ontoloviz/ontoloviz/pkg/io"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// inspectCommand summarises a built JSON trace.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		branch      string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [trace.json]",
		Short: "Summarise the branches of a built trace",
		Long: `Summarise the branches of a JSON trace produced by 'build' or 'obo'.

Without flags a table of branches is printed. --branch prints one branch as
an indented tree and --interactive opens a browser over all branches.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := pkgio.ImportJSON(args[0])
			if err != nil {
				return err
			}
			switch {
			case interactive:
				_, err := tea.NewProgram(newBrowserModel(f), tea.WithAltScreen()).Run()
				return err
			case branch != "":
				b := f.Branch(branch)
				if b == nil {
					return errors.New(errors.ErrCodeNotFound, "branch %q not found", branch)
				}
				fmt.Fprint(c.Out, branchTree(b))
				return nil
			}
			fmt.Fprintln(c.Out, StyleTitle.Render(args[0]))
			fmt.Fprintln(c.Out, forestTable(f))
			printStats(f.Len(), f.NodeCount(), false)
			return nil
		},
	}

	cmd.Flags().StringVar(&branch, "branch", "", "print one branch as a tree")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse branches interactively")
	return cmd
}

// branchRow is one line of the branch table.
type branchRow struct {
	id, label      string
	nodes, depth   int
	total          float64
	color          string
	artificialRoot bool
}

func summarise(b *ontology.Branch) branchRow {
	r := branchRow{id: b.ID, nodes: b.Len()}
	if root := b.Root(); root != nil {
		r.label, r.total, r.color = root.Label, root.ImportedCount, root.Color
		r.artificialRoot = root.IsArtificial()
	}
	for _, n := range b.Nodes() {
		r.depth = max(r.depth, n.Level)
	}
	return r
}

func forestTable(f *ontology.Forest) string {
	var rows [][]string
	for _, b := range f.Branches() {
		s := summarise(b)
		label := s.label
		if s.artificialRoot {
			label = "(placeholder)"
		}
		rows = append(rows, []string{
			s.id, truncate(label, 40), strconv.Itoa(s.nodes), strconv.Itoa(s.depth),
			pkgio.FormatCount(s.total), swatch(s.color),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Branch", "Label", "Nodes", "Depth", "Total", "Color").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			case col == 2 || col == 3 || col == 4:
				return lipgloss.NewStyle().Foreground(colorWhite).Align(lipgloss.Right)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}

// branchTree prints the nodes of b indented by level, children in input
// order under their parent.
func branchTree(b *ontology.Branch) string {
	children := make(map[string][]*ontology.Node)
	for _, n := range b.Nodes() {
		if n.ParentID != "" {
			children[n.ParentID] = append(children[n.ParentID], n)
		}
	}

	var sb strings.Builder
	var walk func(n *ontology.Node, depth int)
	walk = func(n *ontology.Node, depth int) {
		fmt.Fprintf(&sb, "%s%s %s  %s  %s\n",
			strings.Repeat("  ", depth), n.Label, StyleDim.Render(n.ID),
			StyleHighlight.Render(pkgio.FormatCount(n.ImportedCount)), swatch(n.Color))
		for _, child := range children[n.ID] {
			walk(child, depth+1)
		}
	}
	if root := b.Root(); root != nil {
		walk(root, 0)
	}
	return sb.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
