package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	pkgio "github.com/ontoloviz/ontoloviz/pkg/io"
	"github.com/ontoloviz/ontoloviz/pkg/pipeline"
	"github.com/ontoloviz/ontoloviz/pkg/render"
)

// renderFlags control the graph formats.
type renderFlags struct {
	branch     string
	detailed   bool
	maxDepth   int
	horizontal bool
}

func (f *renderFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.branch, "branch", "", "draw only this branch in dot, svg and png output")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "add ids and counts to graph labels")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "hide graph nodes below this level (0 = all)")
	cmd.Flags().BoolVar(&f.horizontal, "horizontal", false, "lay graphs out left to right")
}

func (f *renderFlags) options() render.Options {
	return render.Options{Detailed: f.detailed, MaxDepth: f.maxDepth, Horizontal: f.horizontal}
}

// renderCommand re-renders a built trace without repeating assembly.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		flags   renderFlags
		formats string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "render [trace.json]",
		Short: "Render a built JSON trace to DOT, SVG, PNG or TSV",
		Long: `Render a JSON trace produced by 'build' or 'obo'.

The trace already holds propagated counts and colors, so rendering only
draws it. Use --branch to draw a single branch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Formats: parseFormats(formats, pipeline.FormatSVG),
				Branch:  flags.branch,
				Render:  flags.options(),
			}
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], opts, output)
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&formats, "format", "f", "", "output format(s): svg (default), png, dot, tsv, json (comma-separated)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string) error {
	logger := loggerFromContext(ctx)
	st := startStep(logger, "rendered")
	f, err := pkgio.ImportJSON(input)
	if err != nil {
		return err
	}
	logger.Debug("loaded trace", "branches", f.Len(), "nodes", f.NodeCount())

	artifacts, err := pipeline.Render(ctx, f, opts)
	if err != nil {
		return err
	}
	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		base:      input,
		output:    output,
		out:       c.Out,
	})
	if err != nil {
		return err
	}
	if output == stdoutPath {
		return nil
	}
	st.done("trace", input, "formats", strings.Join(opts.Formats, ","))
	for _, p := range paths {
		printFile(p)
	}
	return nil
}
