package obo

import (
	"sort"

	"github.com/ontoloviz/ontoloviz/pkg/errors"
)

// Entry describes how to load one ontology.
//
// RootID names the term whose direct children become branches. RootLabel
// is used instead when the root has to be found by name among the terms
// without parents (the three Gene Ontology aspects share one file).
// Branches with fewer than MinBranchSize nodes are dropped.
type Entry struct {
	Key           string `json:"key" toml:"key"`
	Name          string `json:"name" toml:"name"`
	URL           string `json:"url" toml:"url"`
	RootID        string `json:"root_id,omitempty" toml:"root_id"`
	RootLabel     string `json:"root_label,omitempty" toml:"root_label"`
	MinBranchSize int    `json:"min_branch_size,omitempty" toml:"min_branch_size"`
}

const goURL = "https://current.geneontology.org/ontology/go.obo"

// Catalogue lists the built-in ontologies by key.
var Catalogue = map[string]Entry{
	"hpo": {
		Key: "hpo", Name: "Human Phenotype Ontology",
		URL: "https://purl.obolibrary.org/obo/hp.obo", RootID: "HP:0000118",
	},
	"go_mf": {
		Key: "go_mf", Name: "Gene Ontology: molecular function",
		URL: goURL, RootLabel: "molecular_function", MinBranchSize: 2,
	},
	"go_cc": {
		Key: "go_cc", Name: "Gene Ontology: cellular component",
		URL: goURL, RootLabel: "cellular_component", MinBranchSize: 2,
	},
	"go_bp": {
		Key: "go_bp", Name: "Gene Ontology: biological process",
		URL: goURL, RootLabel: "biological_process", MinBranchSize: 2,
	},
	"po": {
		Key: "po", Name: "Plant Ontology",
		URL: "https://purl.obolibrary.org/obo/po.obo", RootID: "PO:0009011", MinBranchSize: 5,
	},
	"cl": {
		Key: "cl", Name: "Cell Ontology",
		URL: "https://purl.obolibrary.org/obo/cl/cl-basic.obo", MinBranchSize: 2,
	},
	"chebi": {
		Key: "chebi", Name: "ChEBI Ontology",
		URL: "https://purl.obolibrary.org/obo/chebi/chebi_lite.obo", RootID: "CHEBI:23367",
	},
	"uberon": {
		Key: "uberon", Name: "Uberon Anatomy Ontology",
		URL: "https://purl.obolibrary.org/obo/uberon/basic.obo", RootID: "UBERON:0000061", MinBranchSize: 2,
	},
	"doid": {
		Key: "doid", Name: "Human Disease Ontology",
		URL: "https://purl.obolibrary.org/obo/doid.obo", RootID: "DOID:4",
	},
}

// Lookup returns the catalogue entry for key.
func Lookup(key string) (Entry, error) {
	e, ok := Catalogue[key]
	if !ok {
		return Entry{}, errors.New(errors.ErrCodeOntologyNotFound, "unknown ontology %q (known: %v)", key, Keys())
	}
	return e, nil
}

// Keys returns the catalogue keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(Catalogue))
	for k := range Catalogue {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Entries returns the catalogue entries sorted by key.
func Entries() []Entry {
	out := make([]Entry, 0, len(Catalogue))
	for _, k := range Keys() {
		out = append(out, Catalogue[k])
	}
	return out
}

// Custom describes an ontology outside the catalogue.
func Custom(url, rootID string, minBranchSize int) (Entry, error) {
	if err := errors.ValidateURL(url); err != nil {
		return Entry{}, err
	}
	if minBranchSize < 0 {
		return Entry{}, errors.New(errors.ErrCodeInvalidInput, "min branch size must be >= 0, got %d", minBranchSize)
	}
	return Entry{Key: "custom", Name: url, URL: url, RootID: rootID, MinBranchSize: minBranchSize}, nil
}
