// Package ontology provides the node model shared by the assemblers, the
// aggregation engine and the renderers.
//
// # Overview
//
// A [Forest] is an ordered set of [Branch] values, each one rooted tree of
// [Node] records addressed by ID. Nodes refer to their parent by ID rather
// than by pointer, so duplicating a node for another branch is a plain
// [Node.Clone] and no pointer is ever shared between branches.
//
// # Sentinels
//
// Zero-count nodes are stored with the [Zero] sentinel so they remain
// drawable, and [FakeOne] marks nodes shown without a real count. Use
// [Node.IsEmpty] rather than comparing counts against 0.
//
// # Lifecycle
//
// Nodes are created by the assemble package, mutated in place by the
// aggregate package (ImportedCount and Color only) and removed only by
// explicit passes such as [Branch.PruneDetached], [Branch.DropEmptyLeaves]
// and [Forest.PruneSmall].
package ontology
