package ontology

import (
	"math"
	"strconv"
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
)

// Row is one raw input record. ID and Parent may hold several identifiers
// joined by the alias separator.
type Row struct {
	ID          string   `json:"id"`
	Parent      string   `json:"parent,omitempty"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	Comment     string   `json:"comment,omitempty"`
	Count       string   `json:"count,omitempty"`
	Color       string   `json:"color,omitempty"`
	Meta        Metadata `json:"meta,omitempty"`
}

// ParseCount converts a raw count. An empty, unparsable or non-finite value
// yields 0.
// When floatSep is set the value is read as a decimal number using that
// separator; otherwise it must be an integer.
func ParseCount(raw, floatSep string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if floatSep != "" {
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, floatSep, "."), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return 0
		}
		return v
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return float64(v)
}

// NodeFromRow builds a node for one alias identifier of a row, applying
// the display defaults. Parent, Level and Kind are left to the assembler.
func NodeFromRow(r Row, id, floatSep, defaultColor string) *Node {
	count := ParseCount(r.Count, floatSep)
	if count == 0 {
		count = Zero
	}
	label := strings.TrimSpace(r.Label)
	if label == "" {
		label = id
	}
	desc := strings.TrimSpace(r.Description)
	if desc == "" {
		desc = Undefined
	}
	color := strings.TrimSpace(r.Color)
	if !errors.IsHexColor(color) {
		color = defaultColor
	}
	meta := Metadata{}
	for k, v := range r.Meta {
		meta[k] = v
	}
	return &Node{
		ID:            id,
		OriginalID:    id,
		Label:         label,
		Description:   desc,
		Comment:       strings.TrimSpace(r.Comment),
		Count:         count,
		ImportedCount: count,
		Color:         color,
		Kind:          NodeKindRegular,
		Meta:          meta,
	}
}

// SplitAliases splits s on sep, trimming blanks and dropping empty parts.
func SplitAliases(s, sep string) []string {
	if sep == "" {
		sep = "|"
	}
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
