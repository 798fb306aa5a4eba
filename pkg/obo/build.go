package obo

import (
	"context"
	"fmt"
	"strings"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
	"github.com/ontoloviz/ontoloviz/pkg/ontology"
	"github.com/ontoloviz/ontoloviz/pkg/ontology/assemble"
)

// Metadata keys set on nodes built from terms.
const (
	MetaNamespace = "namespace"
	MetaXrefs     = "xrefs"
	MetaSynonyms  = "synonyms"
)

// Build converts terms into a forest following e's root and size rules.
//
// The terms below the root become parent-pointer rows and go through
// [assemble.ParentPointer]: every direct child of the root starts a branch,
// and a term with several is_a parents is fanned out below each of them
// with "_N" suffixes. A child of the root that also sits below another
// term keeps its branch and gets a minted copy there.
//
// Every node starts with a Zero count so that count sources and display
// settings decide what is shown.
func Build(ctx context.Context, terms []*Term, e Entry) (*ontology.Forest, assemble.Summary, error) {
	byID := make(map[string]*Term, len(terms))
	children := make(map[string][]string)
	for _, t := range terms {
		byID[t.ID] = t
		for _, p := range t.IsA {
			children[p] = append(children[p], t.ID)
		}
	}

	rootID := e.RootID
	if rootID == "" && e.RootLabel != "" {
		for _, t := range terms {
			if len(t.IsA) == 0 && t.Name == e.RootLabel {
				rootID = t.ID
				break
			}
		}
		if rootID == "" {
			return nil, assemble.Summary{}, errors.New(errors.ErrCodeNotFound, "%s: no top-level term named %q", e.Key, e.RootLabel)
		}
	}

	var starts []string
	if rootID != "" {
		if _, ok := byID[rootID]; !ok {
			return nil, assemble.Summary{}, errors.New(errors.ErrCodeNotFound, "%s: root term %s not found", e.Key, rootID)
		}
		starts = children[rootID]
	} else {
		for _, t := range terms {
			if len(t.IsA) == 0 {
				starts = append(starts, t.ID)
			}
		}
	}

	forest, summary, err := assemble.ParentPointer(ctx, rows(terms, starts, children), assemble.Options{})
	if err != nil {
		return nil, summary, fmt.Errorf("%s: %w", e.Key, err)
	}
	forest.PruneSmall(e.MinBranchSize)
	return forest, summary, nil
}

// rows emits the terms reachable from starts in file order. A start term
// gets a root row; its is_a parents inside the reachable set go into one
// alias-joined parent reference.
func rows(terms []*Term, starts []string, children map[string][]string) []ontology.Row {
	isStart := make(map[string]bool, len(starts))
	reach := make(map[string]bool)
	queue := make([]string, 0, len(starts))
	for _, id := range starts {
		isStart[id] = true
		if !reach[id] {
			reach[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, c := range children[id] {
			if !reach[c] {
				reach[c] = true
				queue = append(queue, c)
			}
		}
	}

	out := make([]ontology.Row, 0, len(reach))
	for _, t := range terms {
		if !reach[t.ID] {
			continue
		}
		r := row(t)
		if isStart[t.ID] {
			out = append(out, r)
		}
		var parents []string
		for _, p := range t.IsA {
			if reach[p] {
				parents = append(parents, p)
			}
		}
		if len(parents) > 0 {
			r.Parent = strings.Join(parents, assemble.DefaultAliasSeparator)
			out = append(out, r)
		}
	}
	return out
}

func row(t *Term) ontology.Row {
	def, comment := t.Def, t.Comment
	if def == "" {
		def = ontology.Undefined
	}
	if comment == "" {
		comment = ontology.Undefined
	}
	meta := ontology.Metadata{}
	if t.Namespace != "" {
		meta[MetaNamespace] = t.Namespace
	}
	if len(t.Xrefs) > 0 {
		meta[MetaXrefs] = t.Xrefs
	}
	if len(t.Synonyms) > 0 {
		syn := make([]string, len(t.Synonyms))
		for i, s := range t.Synonyms {
			syn[i] = s.Text
		}
		meta[MetaSynonyms] = syn
	}
	return ontology.Row{
		ID:          t.ID,
		Label:       t.Name,
		Description: fmt.Sprintf("Definition: %s\nComment: %s", def, comment),
		Comment:     t.Comment,
		Meta:        meta,
	}
}
