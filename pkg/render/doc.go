// Package render draws annotated branches as Graphviz diagrams.
//
// [ToDOT] converts a branch into DOT source where every node is a box
// filled with its aggregated color and edges run from parent to child.
// [ForestDOT] does the same for a whole forest, one cluster per branch.
// [Render] lays the DOT out in-process with go-graphviz and returns SVG
// or PNG bytes:
//
//	dot := render.ToDOT(branch, render.Options{Detailed: true})
//	svg, err := render.Render(ctx, dot, render.FormatSVG)
//
// Interactive sunburst charts are not drawn here; they consume the JSON
// traces written by package io.
package render
