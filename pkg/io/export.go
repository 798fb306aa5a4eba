package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// Document is the JSON trace file: one trace per branch.
type Document struct {
	Branches []Trace `json:"branches"`
}

// Trace holds one branch as parallel arrays, index i describing one node.
type Trace struct {
	ID           string              `json:"id"`
	IDs          []string            `json:"ids"`
	OriginalIDs  []string            `json:"original_ids,omitempty"`
	Parents      []string            `json:"parents"`
	Labels       []string            `json:"labels"`
	Descriptions []string            `json:"descriptions"`
	Comments     []string            `json:"comments,omitempty"`
	Values       []float64           `json:"values"`
	Counts       []float64           `json:"counts"`
	Colors       []string            `json:"colors"`
	Levels       []int               `json:"levels"`
	Children     []int               `json:"children"`
	Kinds        []string            `json:"kinds,omitempty"`
	Meta         []ontology.Metadata `json:"meta,omitempty"`
}

// NewTrace converts a branch into its trace.
func NewTrace(b *ontology.Branch) Trace {
	nodes := b.Nodes()
	t := Trace{
		ID:           b.ID,
		IDs:          make([]string, len(nodes)),
		OriginalIDs:  make([]string, len(nodes)),
		Parents:      make([]string, len(nodes)),
		Labels:       make([]string, len(nodes)),
		Descriptions: make([]string, len(nodes)),
		Comments:     make([]string, len(nodes)),
		Values:       make([]float64, len(nodes)),
		Counts:       make([]float64, len(nodes)),
		Colors:       make([]string, len(nodes)),
		Levels:       make([]int, len(nodes)),
		Children:     make([]int, len(nodes)),
		Kinds:        make([]string, len(nodes)),
		Meta:         make([]ontology.Metadata, len(nodes)),
	}
	hasComments, hasMeta, minted := false, false, false
	for i, n := range nodes {
		t.IDs[i] = n.ID
		t.OriginalIDs[i] = n.OriginalID
		t.Parents[i] = n.ParentID
		t.Labels[i] = n.Label
		t.Descriptions[i] = n.Description
		t.Comments[i] = n.Comment
		t.Values[i] = n.ImportedCount
		t.Counts[i] = n.Count
		t.Colors[i] = n.Color
		t.Levels[i] = n.Level
		t.Children[i] = n.ChildrenCount
		t.Kinds[i] = n.Kind.String()
		t.Meta[i] = n.Meta
		hasComments = hasComments || n.Comment != ""
		hasMeta = hasMeta || len(n.Meta) > 0
		minted = minted || (n.OriginalID != "" && n.OriginalID != n.ID)
	}
	if !minted {
		t.OriginalIDs = nil
	}
	if !hasComments {
		t.Comments = nil
	}
	if !hasMeta {
		t.Meta = nil
	}
	return t
}

// NewDocument converts a forest into a trace document.
func NewDocument(f *ontology.Forest) Document {
	doc := Document{Branches: make([]Trace, 0, f.Len())}
	for _, b := range f.Branches() {
		doc.Branches = append(doc.Branches, NewTrace(b))
	}
	return doc
}

// WriteJSON encodes the forest as a trace document and writes it to w.
// The output can be re-imported with [ReadJSON].
func WriteJSON(f *ontology.Forest, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(f)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes the forest to a JSON file at path.
// This is a convenience wrapper around [WriteJSON] for file-based output.
func ExportJSON(f *ontology.Forest, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	return WriteJSON(f, out)
}
