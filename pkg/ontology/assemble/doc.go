// Package assemble reconstructs ontology forests from flat rows.
//
// Two assemblers cover the two ways ontologies describe their structure:
//
//   - [Separator] reads structured identifiers such as MeSH tree numbers,
//     where the parent is the identifier minus its last segment.
//   - [ParentPointer] reads explicit parent references, tolerating repeated
//     identifiers, several parents per row and rows in any order.
//
// Both return a [Summary] of the conditions they recovered from (skipped
// identifiers, dropped nodes) rather than one error per row. The only fatal
// structural condition is a cycle among parent references, reported as an
// error with code ErrCodeStructuralCycle that wraps [ErrStructuralCycle].
package assemble
