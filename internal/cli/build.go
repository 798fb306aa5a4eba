package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ontoloviz/ontoloviz/pkg/counts"
	"github.com/ontoloviz/ontoloviz/pkg/pipeline"
)

// buildFlags are shared by the build and obo commands.
type buildFlags struct {
	config configFlags
	cache  cacheOpts

	formats  string
	output   string
	countsDB string
	query    string
	dataset  string
	match    string
	refresh  bool

	render renderFlags
}

func (f *buildFlags) register(cmd *cobra.Command) {
	f.config.register(cmd)
	f.cache.register(cmd)
	f.render.register(cmd)

	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s): json (default), tsv, dot, svg, png (comma-separated)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (single format), base path (multiple) or - for stdout")
	cmd.Flags().StringVar(&f.countsDB, "counts-db", "", "SQLite database with external counts")
	cmd.Flags().StringVar(&f.query, "counts-query", counts.DefaultQuery, "query returning (term, count) rows for a dataset")
	cmd.Flags().StringVar(&f.dataset, "dataset", "", "dataset selected from the counts database")
	cmd.Flags().StringVar(&f.match, "match", "id", "match external counts by node id or label")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "bypass cached downloads and builds")
}

// options turns the flags into pipeline options without an input. The
// returned closer releases the counts database.
func (f *buildFlags) options(cmd *cobra.Command) (pipeline.Options, func(), error) {
	cfg, err := f.config.load(cmd)
	if err != nil {
		return pipeline.Options{}, nil, err
	}
	opts := pipeline.Options{
		Config:     cfg,
		Formats:    parseFormats(f.formats, pipeline.FormatJSON),
		Dataset:    f.dataset,
		CountMatch: f.match,
		Branch:     f.render.branch,
		Render:     f.render.options(),
		Refresh:    f.refresh,
	}
	if err := pipeline.ValidateFormats(opts.Formats); err != nil {
		return pipeline.Options{}, nil, err
	}

	closer := func() {}
	if f.countsDB != "" {
		src, err := counts.OpenSQLite(f.countsDB, f.query)
		if err != nil {
			return pipeline.Options{}, nil, err
		}
		opts.CountSource = src
		closer = func() { src.Close() }
	}
	return opts, closer, nil
}

// buildCommand creates the build command for tabular input.
func (c *CLI) buildCommand() *cobra.Command {
	var flags buildFlags

	cmd := &cobra.Command{
		Use:   "build [file.tsv]",
		Short: "Build an annotated forest from a TSV file",
		Long: `Build an annotated forest from a tab-separated file.

Rows are assembled either from MeSH-style tree numbers (--mode separator,
the default) or from explicit Parent columns (--mode parent). Counts are
then propagated up every branch and nodes are colored from the scale.

Examples:
  ontoloviz build mesh.tsv                          # mesh.json
  ontoloviz build mesh.tsv -f json,svg -o out/mesh  # out/mesh.json, out/mesh.svg
  ontoloviz build hp.tsv --mode parent --color phenotype
  ontoloviz build mesh.tsv --counts-db counts.db --dataset cohort1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, closeCounts, err := flags.options(cmd)
			if err != nil {
				return err
			}
			defer closeCounts()
			opts.InputPath = args[0]
			return c.runBuild(cmd.Context(), opts, flags, args[0])
		},
	}
	flags.register(cmd)
	return cmd
}

// runBuild executes the pipeline and writes its artifacts next to base.
func (c *CLI) runBuild(ctx context.Context, opts pipeline.Options, flags buildFlags, base string) error {
	runner, err := c.newRunner(ctx, flags.cache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, "Building "+base+"...")
	spinner.Start()
	res, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	paths, err := writeArtifacts(artifactWriteParams{
		artifacts: res.Artifacts,
		formats:   opts.Formats,
		base:      base,
		output:    flags.output,
		out:       c.Out,
	})
	if err != nil {
		return err
	}
	if flags.output == stdoutPath {
		return nil
	}

	printSuccess("Built %s", base)
	printStats(res.Stats.Branches, res.Stats.Nodes, res.CacheHit)
	printBuildNotes(res)
	for _, p := range paths {
		printFile(p)
	}
	for i, format := range opts.Formats {
		if format == pipeline.FormatJSON && i < len(paths) {
			printNextStep("Inspect", "ontoloviz inspect "+paths[i])
		}
	}
	return nil
}
