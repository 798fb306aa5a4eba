// Package pipeline runs a complete ontoloviz build shared by the CLI and the
// HTTP API.
//
// # Stages
//
// A build takes rows (a TSV file or rows sent inline) or a catalogue
// ontology and runs, in order:
//
//  1. load: read rows, or download and build the OBO forest
//  2. assemble: separator or parent-pointer assembly (rows only)
//  3. counts: apply external counts when a count source is given
//  4. normalize: rescale float counts to 0..100
//  5. display: drop empty leaves and branches, drop small branches,
//     mark empty nodes visible
//  6. aggregate: descendant counts, count propagation and coloring
//
// The context is checked between stages, so a cancelled build stops at the
// next stage boundary.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    InputPath: "mesh.tsv",
//	    Config:    cfg,
//	    Formats:   []string{pipeline.FormatJSON},
//	})
//	trace := result.Artifacts["json"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/ontoloviz/ontoloviz/pkg/config"
	"github.com/ontoloviz/ontoloviz/pkg/counts"
	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/obo"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
	"github.com/ontoloviz/ontoloviz/pkg/ontology/assemble"
	"github.com/ontoloviz/ontoloviz/pkg/render"
)

// =============================================================================
// Default Values
// =============================================================================

// NormalizeScale is the upper bound of normalised float counts.
const NormalizeScale = 100

// Stage names reported to hooks and in [Stats].
const (
	StageLoad      = "load"
	StageAssemble  = "assemble"
	StageCounts    = "counts"
	StageNormalize = "normalize"
	StageDisplay   = "display"
	StageAggregate = "aggregate"
	StageRender    = "render"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatTSV  = "tsv"
	FormatDOT  = render.FormatDOT
	FormatSVG  = render.FormatSVG
	FormatPNG  = render.FormatPNG
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatTSV:  true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// =============================================================================
// Options
// =============================================================================

// Options configures one build. Exactly one of Rows, InputPath, Ontology
// and OntologyURL names the input.
type Options struct {
	Config config.Config `json:"config"`

	Rows        []ontology.Row `json:"rows,omitempty"`
	InputPath   string         `json:"-"`
	Ontology    string         `json:"ontology,omitempty"`
	OntologyURL string         `json:"ontology_url,omitempty"`
	RootID      string         `json:"root_id,omitempty"`

	// Counts are applied after assembly. CountSource wins over Counts.
	Counts      map[string]float64 `json:"counts,omitempty"`
	CountSource counts.Source      `json:"-"`
	Dataset     string             `json:"dataset,omitempty"`
	CountMatch  string             `json:"count_match,omitempty"`

	// Formats lists the artifacts to render; Branch restricts graph
	// formats to one branch.
	Formats []string      `json:"formats,omitempty"`
	Branch  string        `json:"branch,omitempty"`
	Render  render.Options `json:"render"`

	Refresh bool        `json:"refresh,omitempty"`
	Logger  *log.Logger `json:"-"`

	validated bool
}

// Result is the output of a build.
type Result struct {
	ID        string
	Forest    *ontology.Forest
	Summary   assemble.Summary
	Counts    counts.Stats
	Removed   []string // Branches dropped by display pre-processing
	Artifacts map[string][]byte
	Stats     Stats
	CacheHit  bool
}

// Stats holds sizes and per-stage timings.
type Stats struct {
	Branches int                      `json:"branches"`
	Nodes    int                      `json:"nodes"`
	Stages   map[string]time.Duration `json:"stages"`
	Total    time.Duration            `json:"total"`
}

// =============================================================================
// Validation
// =============================================================================

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, tsv, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the input selection, the config and the
// formats. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	inputs := 0
	for _, set := range []bool{o.Rows != nil, o.InputPath != "", o.Ontology != "", o.OntologyURL != ""} {
		if set {
			inputs++
		}
	}
	if inputs != 1 {
		return errors.New(errors.ErrCodeInvalidInput, "exactly one of rows, input path, ontology or ontology url is required, got %d", inputs)
	}
	if err := o.Config.Validate(); err != nil {
		return err
	}
	if _, err := counts.ParseMatch(o.CountMatch); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// fromRows reports whether the input goes through an assembler.
func (o *Options) fromRows() bool {
	return o.Rows != nil || o.InputPath != ""
}

// entry resolves the ontology input to a catalogue entry.
func (o *Options) entry() (obo.Entry, error) {
	if o.OntologyURL != "" {
		return obo.Custom(o.OntologyURL, o.RootID, o.Config.Assembly.MinBranchSize)
	}
	e, err := obo.Lookup(o.Ontology)
	if err != nil {
		return obo.Entry{}, err
	}
	if o.RootID != "" {
		e.RootID, e.RootLabel = o.RootID, ""
	}
	return e, nil
}

func newResult() *Result {
	return &Result{
		ID:        uuid.NewString(),
		Artifacts: make(map[string][]byte),
		Stats:     Stats{Stages: make(map[string]time.Duration)},
	}
}

func (r *Result) String() string {
	return fmt.Sprintf("build %s: %d branches, %d nodes", r.ID, r.Stats.Branches, r.Stats.Nodes)
}
