// Package obo reads ontologies in the OBO 1.2/1.4 flat file format and
// turns them into forests.
//
// Only [Term] stanzas are read. Each term keeps its id, name, namespace,
// definition, comment, xrefs, synonyms and is_a parents; obsolete terms are
// skipped unless [ParseOptions.KeepObsolete] is set.
//
// [Build] converts parsed terms into an [ontology.Forest] through the
// parent-pointer assembler: every direct child of the chosen root becomes
// one branch, and a term with several is_a parents is copied below each of
// them with "_N" suffixes. Without a root, every term that has no is_a
// parent starts a branch.
//
// The [Catalogue] lists the public ontologies ontoloviz knows how to load,
// and [Client] downloads them through a cache:
//
//	c := obo.NewClient(cache, logger)
//	entry, _ := obo.Lookup("hpo")
//	forest, err := c.Forest(ctx, entry)
package obo
