package mdx

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// attributeDimensionPrefix is the control dimension prefix TM1 uses for
// element attribute cubes.
const attributeDimensionPrefix = "}ElementAttributes_"

// normalizeName canonicalizes a cube object name for use in a unique name.
// Equivalent spellings ("Dim 1", "dim1", "DIM1") normalize to the same
// string, so rendered queries can be compared byte-for-byte.
//
// Steps: Unicode NFC, strip all whitespace, upper-case, escape "]" as "]]".
func normalizeName(name string) string {
	s := norm.NFC.String(name)
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	s = strings.ToUpper(s)
	return strings.ReplaceAll(s, "]", "]]")
}

// bracket wraps a normalized name in MDX brackets.
func bracket(name string) string {
	return "[" + normalizeName(name) + "]"
}

// hierarchyRef renders the "[dim].[hier]" prefix shared by member and
// set expressions.
func hierarchyRef(dimension, hierarchy string) string {
	return bracket(dimension) + "." + bracket(hierarchy)
}

// attributeDimension renders the bracketed "}ElementAttributes_<dim>"
// control dimension for a dimension.
func attributeDimension(dimension string) string {
	return bracket(attributeDimensionPrefix + dimension)
}

// quote renders a single-quoted MDX string literal. The value passes
// through verbatim apart from doubling embedded quotes; literals are
// never name-normalized.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
