// Package mdx builds MDX queries for TM1 cubes programmatically.
//
// MDX queries are assembled from typed building blocks instead of string
// concatenation. The package guarantees that every rendered query uses
// canonical unique names, so two queries built from differently-formatted
// inputs ("Dim 1" vs "DIM1") compare equal as strings.
//
// ARCHITECTURE:
//
// The package is layered bottom-up:
//
//	Member / Tuple          leaf references into a cube
//	Set                     immutable expression tree over members
//	CalculatedMember        WITH MEMBER definitions
//	Builder / MultiBuilder  axes, WHERE, and final rendering
//
// A Set is a value type wrapping a sealed expression tree. Every
// transformation (Filter*, Sort, Head, Union, ...) returns a new Set and
// leaves the receiver untouched, so intermediate sets can be shared and
// reused across builders and goroutines.
//
// ERROR HANDLING:
//
// Construction never panics and never forces an error check per call.
// Invalid arguments mark the Set (or Builder) with a sticky
// ConstructionError; the first error wins and every later call is a
// no-op. The error surfaces when the query is finally rendered:
//
//	set := mdx.AllLeaves("Region").
//	    FilterByPattern("I*").
//	    Sort(mdx.OrderAsc)
//	query, err := mdx.NewBuilder("Cube").
//	    AddSetToColumns(set).
//	    Render()
//
// Structural problems that only exist at the query level (no column
// axis, a gap in axis numbering) are reported as StructuralError from
// Render. References to cube objects are never checked against a
// server; a query naming a nonexistent element renders fine and fails
// at execution time.
//
// CANONICAL NAMES:
//
// Object names are normalized before they appear in output: Unicode
// NFC, whitespace removed, upper-cased, "]" escaped as "]]". Quoted
// literals (subset names, patterns, attribute values) are the one
// exception and pass through verbatim with single quotes doubled.
package mdx
