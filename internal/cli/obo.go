package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ontoloviz/ontoloviz/pkg/obo"
)

// oboCommand builds a forest from a catalogue or custom OBO ontology.
func (c *CLI) oboCommand() *cobra.Command {
	var (
		flags buildFlags
		url   string
		root  string
	)

	cmd := &cobra.Command{
		Use:   "obo [ontology]",
		Short: "Download an OBO ontology and build its forest",
		Long: `Download an OBO ontology and build its forest.

The ontology is either a catalogue key (see 'ontoloviz obo list') or any
OBO file given with --url. Downloads are cached for a week.

Examples:
  ontoloviz obo hpo                                  # hpo.json
  ontoloviz obo go_bp -f json,tsv -o go/bp
  ontoloviz obo --url https://example.org/x.obo --root X:0000001 -o x.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (url != "") {
				return fmt.Errorf("give either an ontology key or --url")
			}
			opts, closeCounts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			defer closeCounts()

			base := "ontology"
			if len(args) == 1 {
				opts.Ontology, base = args[0], args[0]
			} else {
				opts.OntologyURL = url
			}
			opts.RootID = root
			return c.runBuild(cmd.Context(), opts, flags, base)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVar(&url, "url", "", "URL of a custom OBO file")
	cmd.Flags().StringVar(&root, "root", "", "root term id; its direct children become branches")

	cmd.AddCommand(c.oboListCommand())
	return cmd
}

func (c *CLI) oboListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the ontology catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(c.Out, catalogueTable(obo.Entries()))
			return nil
		},
	}
}

func catalogueTable(entries []obo.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		root := e.RootID
		if root == "" && e.RootLabel != "" {
			root = "label: " + e.RootLabel
		}
		if root == "" {
			root = "-"
		}
		minSize := "-"
		if e.MinBranchSize > 0 {
			minSize = strconv.Itoa(e.MinBranchSize)
		}
		rows = append(rows, []string{e.Key, e.Name, root, minSize})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Key", "Name", "Root", "Min size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return StyleHighlight
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
