package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ontoloviz/ontoloviz/pkg/cache"
	"github.com/ontoloviz/ontoloviz/pkg/config"
	"github.com/ontoloviz/ontoloviz/pkg/counts"
	pkgio "github.com/ontoloviz/ontoloviz/pkg/io"
	"github.com/ontoloviz/ontoloviz/pkg/obo"
	"github.com/ontoloviz/ontoloviz/pkg/observability"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
	"github.com/ontoloviz/ontoloviz/pkg/ontology/aggregate"
	"github.com/ontoloviz/ontoloviz/pkg/ontology/assemble"
)

// Runner executes builds with caching. It holds no per-build state, so one
// Runner can serve concurrent builds with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	OBO    *obo.Client
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses [cache.DefaultKeyer] and a nil logger uses the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	client := obo.NewClient(c, logger)
	client.Keyer = keyer
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, OBO: client}
}

// Execute runs every stage and renders the requested formats.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	start := time.Now()

	res, err := r.Build(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := r.stage(ctx, res, StageRender, func() error {
		artifacts, err := Render(ctx, res.Forest, opts)
		res.Artifacts = artifacts
		return err
	}); err != nil {
		return nil, err
	}
	res.Stats.Total = time.Since(start)

	opts.Logger.Info("built forest",
		"id", res.ID,
		"branches", res.Stats.Branches,
		"nodes", res.Stats.Nodes,
		"cached", res.CacheHit,
		"duration", res.Stats.Total)
	return res, nil
}

// Build runs the stages up to aggregation, using the build cache for row
// inputs without an external count source.
func (r *Runner) Build(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	res := newResult()

	var (
		rows   []ontology.Row
		forest *ontology.Forest
	)
	err := r.stage(ctx, res, StageLoad, func() error {
		var err error
		switch {
		case opts.Rows != nil:
			rows = opts.Rows
		case opts.InputPath != "":
			rows, err = pkgio.ImportTSV(opts.InputPath)
		default:
			forest, err = r.loadOntology(ctx, opts)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	var key string
	if opts.fromRows() && opts.CountSource == nil {
		key, err = r.buildKey(rows, opts)
		if err != nil {
			return nil, err
		}
		if !opts.Refresh && r.fromCache(ctx, key, res) {
			res.Stats.Branches, res.Stats.Nodes = res.Forest.Len(), res.Forest.NodeCount()
			return res, nil
		}
	}

	if forest == nil {
		err = r.stage(ctx, res, StageAssemble, func() error {
			var err error
			forest, res.Summary, err = assembleRows(ctx, rows, opts.Config)
			return err
		})
		if err != nil {
			return nil, err
		}
		if n := len(res.Summary.Dropped) + len(res.Summary.DiscardedRoots); n > 0 {
			opts.Logger.Warn("dropped unattachable nodes", "count", n)
			observability.Pipeline().OnNodesDropped(ctx, n)
		}
	}
	res.Forest = forest

	if err := r.process(ctx, res, opts); err != nil {
		return nil, err
	}
	res.Stats.Branches, res.Stats.Nodes = forest.Len(), forest.NodeCount()

	if key != "" {
		r.toCache(ctx, key, res)
	}
	return res, nil
}

// process runs the stages after assembly on res.Forest.
func (r *Runner) process(ctx context.Context, res *Result, opts Options) error {
	f, cfg := res.Forest, opts.Config

	if opts.CountSource != nil || opts.Counts != nil {
		if err := r.stage(ctx, res, StageCounts, func() error {
			src := opts.CountSource
			if src == nil {
				src = counts.MapSource(opts.Counts)
			}
			values, err := src.Counts(ctx, opts.Dataset)
			if err != nil {
				return err
			}
			match, _ := counts.ParseMatch(opts.CountMatch)
			res.Counts = counts.Apply(f, values, match)
			opts.Logger.Debug("applied counts", "matched", res.Counts.Matched, "unmatched", res.Counts.Unmatched)
			return nil
		}); err != nil {
			return err
		}
	}

	if cfg.Assembly.FloatSeparator != "" {
		if err := r.stage(ctx, res, StageNormalize, func() error {
			f.NormalizeCounts(NormalizeScale)
			return nil
		}); err != nil {
			return err
		}
	}

	if err := r.stage(ctx, res, StageDisplay, func() error {
		res.Removed = Display(f, cfg.Display, cfg.Assembly.MinBranchSize)
		if len(res.Removed) > 0 {
			opts.Logger.Debug("removed branches", "count", len(res.Removed))
		}
		return nil
	}); err != nil {
		return err
	}

	return r.stage(ctx, res, StageAggregate, func() error {
		f.CountDescendants()
		aggregate.Run(f, cfg.Aggregate())
		return f.Validate()
	})
}

// Display applies the display pre-processing and returns the IDs of the
// branches it removed.
func Display(f *ontology.Forest, d config.Display, minBranchSize int) []string {
	var removed []string
	for _, b := range f.Branches() {
		b.PruneDetached()
	}
	if d.DropEmptyLeaves {
		for _, b := range f.Branches() {
			b.DropEmptyLeaves()
		}
		removed = append(removed, f.DropEmptyBranches()...)
	}
	removed = append(removed, f.PruneSmall(minBranchSize)...)
	if d.ShowEmpty {
		f.ShowEmpty()
	}
	return removed
}

func assembleRows(ctx context.Context, rows []ontology.Row, cfg config.Config) (*ontology.Forest, assemble.Summary, error) {
	opts := cfg.Assemble()
	if cfg.Assembly.Mode == config.ModeParent {
		return assemble.ParentPointer(ctx, rows, opts)
	}
	return assemble.Separator(rows, opts)
}

func (r *Runner) loadOntology(ctx context.Context, opts Options) (*ontology.Forest, error) {
	e, err := opts.entry()
	if err != nil {
		return nil, err
	}
	client := *r.OBO
	client.Logger = opts.Logger
	client.Refresh = opts.Refresh
	return client.Forest(ctx, e)
}

// stage runs fn as a named stage: it checks the context, reports to the
// pipeline hooks and records the duration.
func (r *Runner) stage(ctx context.Context, res *Result, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	d := time.Since(start)
	res.Stats.Stages[name] = d

	nodes := 0
	if res.Forest != nil {
		nodes = res.Forest.NodeCount()
	}
	hooks.OnStageComplete(ctx, name, nodes, d, err)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// =============================================================================
// Build Cache
// =============================================================================

type cachedBuild struct {
	Summary assemble.Summary `json:"summary"`
	Counts  counts.Stats     `json:"counts"`
	Removed []string         `json:"removed,omitempty"`
	Trace   json.RawMessage  `json:"trace"`
}

func (r *Runner) buildKey(rows []ontology.Row, opts Options) (string, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return "", fmt.Errorf("hash rows: %w", err)
	}
	settings, err := json.Marshal(struct {
		Config     config.Config      `json:"config"`
		Counts     map[string]float64 `json:"counts"`
		CountMatch string             `json:"count_match"`
	}{opts.Config, opts.Counts, opts.CountMatch})
	if err != nil {
		return "", fmt.Errorf("hash config: %w", err)
	}
	return r.Keyer.BuildKey(cache.Hash(data), cache.BuildKeyOpts{
		Source: opts.InputPath,
		Config: cache.Hash(settings),
	}), nil
}

func (r *Runner) fromCache(ctx context.Context, key string, res *Result) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "build")
		return false
	}
	var cb cachedBuild
	if err := json.Unmarshal(data, &cb); err != nil {
		return false
	}
	f, err := pkgio.ReadJSON(bytes.NewReader(cb.Trace))
	if err != nil {
		return false
	}
	observability.Cache().OnCacheHit(ctx, "build")
	res.Forest, res.Summary, res.Counts, res.Removed = f, cb.Summary, cb.Counts, cb.Removed
	res.CacheHit = true
	return true
}

func (r *Runner) toCache(ctx context.Context, key string, res *Result) {
	var trace bytes.Buffer
	if err := pkgio.WriteJSON(res.Forest, &trace); err != nil {
		return
	}
	data, err := json.Marshal(cachedBuild{
		Summary: res.Summary,
		Counts:  res.Counts,
		Removed: res.Removed,
		Trace:   trace.Bytes(),
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLBuild); err != nil {
		r.Logger.Debug("build cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "build", len(data))
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
