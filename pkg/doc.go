// Package pkg provides the libraries behind ontoloviz, which turns flat
// ontology tables into annotated trees for sunburst plots.
//
// # Overview
//
// An input is either a table of rows (MeSH-style tree numbers or explicit
// parent columns) or an OBO ontology. It is assembled into a forest: one
// branch per top-level term, every node addressed by ID inside its branch.
// Counts are then propagated from leaves towards the root and each node is
// colored from a threshold color scale.
//
//	TSV rows / OBO file
//	         ↓
//	    [ontology/assemble] (separator or parent-pointer assembly)
//	    [obo]               (OBO parsing, catalogue, download)
//	         ↓
//	    [counts]            (optional external counts)
//	         ↓
//	    [ontology/aggregate] (count propagation + coloring)
//	         ↓
//	    [io] / [render]     (JSON traces, TSV, DOT/SVG/PNG)
//
// # Quick Start
//
//	rows, _ := io.ImportTSV("mesh.tsv")
//	cfg := config.Default()
//	forest, summary, _ := assemble.Separator(rows, cfg.Assemble())
//	forest.CountDescendants()
//	aggregate.Run(forest, cfg.Aggregate())
//	_ = io.ExportJSON(forest, "mesh.json")
//	fmt.Println(summary.Nodes, "nodes")
//
// [pipeline] runs the same stages with caching, hooks and rendering, and is
// shared by the CLI and the HTTP API.
//
// # Main Packages
//
// [ontology] - Node, Branch and Forest types, count sentinels, display
// pre-processing (empty leaves, small branches, normalisation).
//
// [ontology/assemble] - The two assemblers. Separator assembly derives
// parents from tree numbers and synthesises missing ancestors;
// parent-pointer assembly resolves parents over repeated passes with a retry
// budget and fans out nodes with ambiguous parents.
//
// [ontology/aggregate] - Count propagation (off, level, all) and coloring
// (specific, global, phenotype).
//
// [colorscale] - Threshold scales and gradient interpolation in RGB, Lab or
// HCL.
//
// [config] - TOML settings, validated once before a build.
//
// [obo] - OBO parser, ontology catalogue and cached downloads.
//
// [counts] - External count sources, including SQLite.
//
// [cache] - File, Redis and no-op caches with the keyer that names entries.
//
// [httputil] - Retrying HTTP fetcher.
//
// [observability] - Hooks for pipeline stages, cache and HTTP events.
//
// [errors] - Coded errors shared by the CLI and the API.
package pkg
