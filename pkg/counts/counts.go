// Package counts attaches externally computed counts to a forest.
//
// A [Source] returns counts for a named dataset keyed by node ID or label;
// [Apply] writes them onto the matching nodes before aggregation. The
// SQLite source reads a table of the form
//
//	CREATE TABLE counts (
//	    dataset TEXT NOT NULL,
//	    term    TEXT NOT NULL,   -- node ID or label
//	    count   REAL NOT NULL
//	);
//
// so that one database can serve several cohorts or drugs.
package counts

import (
	"context"
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// Match selects the node field used to look up counts.
type Match string

const (
	MatchID    Match = "id"
	MatchLabel Match = "label"
)

// ParseMatch parses a match field name.
func ParseMatch(s string) (Match, error) {
	switch m := Match(strings.ToLower(s)); m {
	case MatchID, MatchLabel:
		return m, nil
	case "":
		return MatchID, nil
	}
	return "", errors.New(errors.ErrCodeInvalidInput, "unknown match field %q (want id or label)", s)
}

// Source provides counts for a dataset.
type Source interface {
	Counts(ctx context.Context, dataset string) (map[string]float64, error)
}

// MapSource serves a fixed map regardless of dataset.
type MapSource map[string]float64

// Counts returns the map itself.
func (m MapSource) Counts(ctx context.Context, dataset string) (map[string]float64, error) {
	return m, nil
}

// Stats reports how many nodes an [Apply] call touched.
type Stats struct {
	Matched   int `json:"matched"`
	Unmatched int `json:"unmatched"`
}

// Apply sets Count and ImportedCount of every node whose ID (or label,
// compared case-insensitively) appears in counts. A count of 0 becomes
// [ontology.Zero]. Nodes without an entry are left untouched.
func Apply(f *ontology.Forest, counts map[string]float64, match Match) Stats {
	lookup := counts
	if match == MatchLabel {
		lookup = make(map[string]float64, len(counts))
		for k, v := range counts {
			lookup[strings.ToLower(k)] = v
		}
	}

	var st Stats
	for _, b := range f.Branches() {
		for _, n := range b.Nodes() {
			key := n.OriginalID
			if match == MatchLabel {
				key = strings.ToLower(n.Label)
			}
			v, ok := lookup[key]
			if !ok {
				st.Unmatched++
				continue
			}
			if v == 0 {
				v = ontology.Zero
			}
			n.Count = v
			n.ImportedCount = v
			st.Matched++
		}
	}
	return st
}
