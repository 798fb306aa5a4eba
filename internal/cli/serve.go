package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/ontoloviz/ontoloviz/internal/server"
	"github.com/ontoloviz/ontoloviz/pkg/cache"
	"github.com/ontoloviz/ontoloviz/pkg/pipeline"
)

// serveCommand runs the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		cfgFlags    configFlags
		cacheFlags  cacheOpts
		addr        string
		timeout     time.Duration
		maxBody     int64
		allowCustom bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the build API over HTTP",
		Long: `Serve the build API over HTTP.

  GET  /healthz             version information
  GET  /api/v1/ontologies   the OBO catalogue
  POST /api/v1/build        build from inline rows or a catalogue ontology

Config flags set the base config that request configs are merged over.
With --redis several servers share downloads and builds.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cfgFlags.load(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cc, err := newCache(ctx, cacheFlags)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, "api:"), c.Logger)
			defer runner.Close()

			s := server.New(runner, cfg, c.Logger)
			s.Timeout, s.MaxBody, s.AllowCustomOntologies = timeout, maxBody, allowCustom

			printInfo("Serving on %s", StyleHighlight.Render(addr))
			printKeyValue("cache", cacheName(cacheFlags))
			if allowCustom {
				printWarning("custom ontology URLs are allowed")
			}
			return s.ListenAndServe(ctx, addr)
		},
	}

	cfgFlags.register(cmd)
	cacheFlags.register(cmd)
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "per-build time limit (0 = none)")
	cmd.Flags().Int64Var(&maxBody, "max-body", server.DefaultMaxBody, "maximum request body size in bytes")
	cmd.Flags().BoolVar(&allowCustom, "allow-custom", false, "allow builds from arbitrary ontology URLs")
	return cmd
}

func cacheName(o cacheOpts) string {
	switch {
	case o.noCache:
		return "disabled"
	case o.redisURL != "":
		return "redis"
	}
	if dir, err := cacheDir(); err == nil {
		return dir
	}
	return "disabled"
}
