// Package colorscale turns threshold/color breakpoints into dense lookup
// tables indexed by count.
//
// A [Scale] is validated once by the caller with [Scale.Validate]. [Build]
// then expands it into a [Table] for a given maximum: index 0 holds the
// default color and each breakpoint pair contributes a linear gradient over
// its share of 0..max. Very large maxima are compressed by a bucket factor
// so the table stays small.
package colorscale

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
)

// Breakpoint pairs a threshold fraction in [0, 1] with a color.
type Breakpoint struct {
	Threshold float64 `toml:"threshold" json:"threshold"`
	Color     string  `toml:"color" json:"color"`
}

// Scale is an ordered list of breakpoints. A valid scale starts at 0, ends
// at 1 and is strictly increasing.
type Scale []Breakpoint

// Default returns the scale used when none is configured.
func Default() Scale {
	return Scale{
		{Threshold: 0, Color: "#FFFFFF"},
		{Threshold: 0.2, Color: "#403C53"},
		{Threshold: 1, Color: "#C33D35"},
	}
}

// Validate rejects scales that would produce an undefined gradient order.
func (s Scale) Validate() error {
	if len(s) < 2 {
		return errors.New(errors.ErrCodeInvalidColorScale, "color scale needs at least 2 breakpoints, got %d", len(s))
	}
	if s[0].Threshold != 0 {
		return errors.New(errors.ErrCodeInvalidColorScale, "first threshold must be 0, got %v", s[0].Threshold)
	}
	if last := s[len(s)-1].Threshold; last != 1 {
		return errors.New(errors.ErrCodeInvalidColorScale, "last threshold must be 1, got %v", last)
	}
	for i, bp := range s {
		if bp.Threshold < 0 || bp.Threshold > 1 {
			return errors.New(errors.ErrCodeInvalidColorScale, "threshold %v out of range [0, 1]", bp.Threshold)
		}
		if i > 0 && bp.Threshold <= s[i-1].Threshold {
			return errors.New(errors.ErrCodeInvalidColorScale,
				"thresholds must be strictly increasing: %v follows %v", bp.Threshold, s[i-1].Threshold)
		}
		if err := errors.ValidateHexColor(bp.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidColorScale, err, "breakpoint %d", i)
		}
	}
	return nil
}

// String formats the scale as "0:#FFFFFF,0.2:#403C53,1:#C33D35", the form
// accepted by [ParseScale].
func (s Scale) String() string {
	parts := make([]string, len(s))
	for i, bp := range s {
		parts[i] = strconv.FormatFloat(bp.Threshold, 'f', -1, 64) + ":" + bp.Color
	}
	return strings.Join(parts, ",")
}

// ParseScale parses the comma-separated "threshold:color" form used on the
// command line. The result is validated.
func ParseScale(s string) (Scale, error) {
	var out Scale
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		th, color, ok := strings.Cut(part, ":")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidColorScale, "breakpoint %q is not threshold:color", part)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(th), 64)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidColorScale, err, "threshold %q", th)
		}
		out = append(out, Breakpoint{Threshold: v, Color: strings.ToUpper(strings.TrimSpace(color))})
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Bucket factor thresholds. Maxima in [compressAt, strongCompressAt) are
// divided by 10, larger ones by 25.
const (
	compressAt       = 100000
	strongCompressAt = 250000
)

// Table is a dense, index-addressable gradient.
type Table struct {
	Factor int      // Bucket factor; each entry covers Factor counts
	Colors []string // Colors[0] is the default color
}

// Build expands the scale for the given maximum. The scale must have been
// validated.
func Build(s Scale, maxValue float64, defaultColor string) *Table {
	return BuildIn(s, maxValue, defaultColor, RGB)
}

// BuildIn is [Build] with an explicit interpolation space.
func BuildIn(s Scale, maxValue float64, defaultColor string, space Space) *Table {
	factor := 1
	m := 0
	if maxValue > 0 && !math.IsInf(maxValue, 1) {
		m = int(maxValue)
	}
	switch {
	case m >= strongCompressAt:
		factor = 25
	case m >= compressAt:
		factor = 10
	}
	scaled := float64(m) / float64(factor)

	colors := []string{defaultColor}
	for i := 0; i+1 < len(s); i++ {
		lo, hi := s[i], s[i+1]
		n := int(scaled*hi.Threshold) - int(scaled*lo.Threshold)
		colors = append(colors, Gradient(lo.Color, hi.Color, n, space)...)
	}
	return &Table{Factor: factor, Colors: colors}
}

// Index returns the table index for value, clamped to the table bounds.
func (t *Table) Index(value float64) int {
	if value <= 0 || math.IsNaN(value) {
		return 0
	}
	if math.IsInf(value, 1) {
		return len(t.Colors) - 1
	}
	i := int(value / float64(t.Factor))
	if i >= len(t.Colors) {
		i = len(t.Colors) - 1
	}
	return i
}

// Lookup returns the color for value.
func (t *Table) Lookup(value float64) string {
	return t.Colors[t.Index(value)]
}

// Len returns the number of colors in the table.
func (t *Table) Len() int { return len(t.Colors) }

// String summarises the table for debug logs.
func (t *Table) String() string {
	return fmt.Sprintf("colorscale.Table{factor=%d, colors=%d}", t.Factor, len(t.Colors))
}
