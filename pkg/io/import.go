package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
)

// ReadJSON decodes a trace document from r into a forest.
//
// Every trace must carry arrays of equal length for ids, parents, labels,
// descriptions, values, counts, colors, levels and children; optional arrays
// (original_ids, comments, kinds, meta) must be empty or of the same length. The rebuilt
// forest is validated, so a document whose parents do not resolve inside
// their branch is rejected.
func ReadJSON(r io.Reader) (*ontology.Forest, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode trace document")
	}

	forest := ontology.NewForest()
	for _, t := range doc.Branches {
		b, err := t.branch()
		if err != nil {
			return nil, err
		}
		if err := forest.Add(b); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "branch %s", t.ID)
		}
	}
	if err := forest.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "trace document")
	}
	return forest, nil
}

func (t Trace) branch() (*ontology.Branch, error) {
	n := len(t.IDs)
	required := map[string]int{
		"parents":      len(t.Parents),
		"labels":       len(t.Labels),
		"descriptions": len(t.Descriptions),
		"values":       len(t.Values),
		"counts":       len(t.Counts),
		"colors":       len(t.Colors),
		"levels":       len(t.Levels),
		"children":     len(t.Children),
	}
	for name, l := range required {
		if l != n {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "branch %s: %s has %d entries, want %d", t.ID, name, l, n)
		}
	}
	optional := map[string]int{
		"original_ids": len(t.OriginalIDs),
		"comments":     len(t.Comments),
		"kinds":        len(t.Kinds),
		"meta":         len(t.Meta),
	}
	for name, l := range optional {
		if l != 0 && l != n {
			return nil, errors.New(errors.ErrCodeInvalidFormat, "branch %s: %s has %d entries, want 0 or %d", t.ID, name, l, n)
		}
	}

	b := ontology.NewBranch(t.ID)
	for i, id := range t.IDs {
		node := &ontology.Node{
			ID:            id,
			OriginalID:    id,
			ParentID:      t.Parents[i],
			Label:         t.Labels[i],
			Description:   t.Descriptions[i],
			Level:         t.Levels[i],
			Count:         t.Counts[i],
			ImportedCount: t.Values[i],
			Color:         t.Colors[i],
			ChildrenCount: t.Children[i],
		}
		if len(t.OriginalIDs) > 0 && t.OriginalIDs[i] != "" {
			node.OriginalID = t.OriginalIDs[i]
		}
		if len(t.Comments) > 0 {
			node.Comment = t.Comments[i]
		}
		if len(t.Kinds) > 0 && t.Kinds[i] == ontology.NodeKindArtificial.String() {
			node.Kind = ontology.NodeKindArtificial
		}
		if len(t.Meta) > 0 {
			node.Meta = t.Meta[i]
		}
		if err := b.Add(node); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "branch %s node %d", t.ID, i)
		}
	}
	return b, nil
}

// ImportJSON reads a forest from a JSON trace file at path.
// This is a convenience wrapper around [ReadJSON] for file-based input.
func ImportJSON(path string) (*ontology.Forest, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
