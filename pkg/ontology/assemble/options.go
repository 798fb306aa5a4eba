package assemble

import (
	"github.com/ontoloviz/ontoloviz/pkg/ontology"

	errs "github.com/ontoloviz/ontoloviz/pkg/errors"
)

// Default values for assembly options.
const (
	DefaultLevelSeparator = "."
	DefaultAliasSeparator = "|"
	DefaultMaxAttempts    = 20
)

// Options configures both assemblers.
type Options struct {
	// LevelSeparator joins the segments of a structured identifier
	// (separator mode only).
	LevelSeparator string
	// AliasSeparator joins several identifiers or parent references held
	// by a single row.
	AliasSeparator string
	// FloatSeparator, when set, makes counts decimal numbers using this
	// separator. Integer counts are expected otherwise.
	FloatSeparator string
	// DefaultColor replaces missing or invalid row colors.
	DefaultColor string
	// MaxAttempts is the per-node retry budget of parent-pointer
	// attachment.
	MaxAttempts int
}

// ValidateAndSetDefaults fills zero values with defaults and validates
// the result.
func (o *Options) ValidateAndSetDefaults() error {
	if o.LevelSeparator == "" {
		o.LevelSeparator = DefaultLevelSeparator
	}
	if o.AliasSeparator == "" {
		o.AliasSeparator = DefaultAliasSeparator
	}
	if o.DefaultColor == "" {
		o.DefaultColor = ontology.DefaultColor
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = DefaultMaxAttempts
	}
	if err := errs.ValidateSeparator("level separator", o.LevelSeparator); err != nil {
		return err
	}
	if err := errs.ValidateSeparator("alias separator", o.AliasSeparator); err != nil {
		return err
	}
	if o.LevelSeparator == o.AliasSeparator {
		return errs.New(errs.ErrCodeInvalidSeparator, "level and alias separators must differ (both %q)", o.LevelSeparator)
	}
	if o.FloatSeparator != "" {
		if err := errs.ValidateSeparator("float separator", o.FloatSeparator); err != nil {
			return err
		}
	}
	return errs.ValidateHexColor(o.DefaultColor)
}

// Summary aggregates the conditions assembly recovered from. A large
// input produces one summary instead of one diagnostic per row.
type Summary struct {
	Rows       int `json:"rows"`       // Input rows read
	Nodes      int `json:"nodes"`      // Nodes placed in the forest
	Artificial int `json:"artificial"` // Placeholder ancestors synthesised
	Skipped    int `json:"skipped"`    // Blank or malformed identifiers

	Duplicates int `json:"duplicates"` // Repeated identifiers given a minted ID
	FanOut     int `json:"fan_out"`    // Extra copies made for ambiguous parents

	Dropped        []DroppedNode `json:"dropped,omitempty"`         // Nodes that never found their parent
	DiscardedRoots []string      `json:"discarded_roots,omitempty"` // Repeated root rows discarded at the fixed point
}

// DroppedNode describes one node abandoned after its retry budget.
type DroppedNode struct {
	ID       string `json:"id"`
	Parent   string `json:"parent"`
	Attempts int    `json:"attempts"`
}
