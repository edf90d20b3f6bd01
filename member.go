package mdx

import "strings"

// Member is a reference to one element of a dimension hierarchy.
//
// Members are immutable. The canonical unique name is computed once at
// construction, so a Member can be shared freely across sets, tuples and
// builders.
//
// A Member can also stand for the hierarchy's CURRENTMEMBER, which is
// how attribute filters and calculated members refer to "the member on
// this axis" without naming one.
type Member struct {
	dimension string
	hierarchy string
	path      []string
	current   bool
	unique    string
}

// NewMember returns a member of a dimension's same-named hierarchy.
// Extra path segments address components of a consolidated element,
// e.g. NewMember("Time", "2024", "Q1").
func NewMember(dimension, element string, path ...string) *Member {
	return NewMemberWithHierarchy(dimension, dimension, element, path...)
}

// NewMemberWithHierarchy returns a member of an alternate hierarchy.
func NewMemberWithHierarchy(dimension, hierarchy, element string, path ...string) *Member {
	m := &Member{
		dimension: dimension,
		hierarchy: hierarchy,
		path:      append([]string{element}, path...),
	}
	m.unique = m.buildUniqueName()
	return m
}

// NewCurrentMember returns the CURRENTMEMBER reference of a dimension's
// same-named hierarchy.
func NewCurrentMember(dimension string) *Member {
	return NewCurrentMemberWithHierarchy(dimension, dimension)
}

// NewCurrentMemberWithHierarchy returns the CURRENTMEMBER reference of
// an alternate hierarchy.
func NewCurrentMemberWithHierarchy(dimension, hierarchy string) *Member {
	m := &Member{
		dimension: dimension,
		hierarchy: hierarchy,
		current:   true,
	}
	m.unique = m.buildUniqueName()
	return m
}

// ParseMember parses a unique name like "[Dim].[Hier].[Elem]" into a
// Member.
//
// Two bracketed segments are read as dimension and element with the
// hierarchy defaulting to the dimension. Three or more are read as
// dimension, hierarchy, element and any further path segments. "]]"
// inside a segment is the escape for a literal "]".
func ParseMember(uniqueName string) (*Member, error) {
	parts, rest, err := splitUniqueName(uniqueName)
	if err != nil {
		return nil, err
	}
	if rest != "" {
		return nil, newConstructionError("ParseMember", ErrCodeInvalidUniqueName,
			"unexpected trailing %q in %q", rest, uniqueName)
	}
	switch {
	case len(parts) < 2:
		return nil, newConstructionError("ParseMember", ErrCodeInvalidUniqueName,
			"unique name %q needs at least [dimension].[element]", uniqueName)
	case len(parts) == 2:
		return NewMember(parts[0], parts[1]), nil
	default:
		return NewMemberWithHierarchy(parts[0], parts[1], parts[2], parts[3:]...), nil
	}
}

// ParseCurrentMember parses a hierarchy reference into a CURRENTMEMBER
// Member. Accepted forms are "[Dim]", "[Dim].[Hier]", and either with a
// trailing ".CurrentMember" in any casing.
func ParseCurrentMember(s string) (*Member, error) {
	parts, rest, err := splitUniqueName(s)
	if err != nil {
		return nil, err
	}
	if rest != "" && !strings.EqualFold(rest, "CurrentMember") {
		return nil, newConstructionError("ParseCurrentMember", ErrCodeInvalidUniqueName,
			"unexpected trailing %q in %q", rest, s)
	}
	switch len(parts) {
	case 1:
		return NewCurrentMember(parts[0]), nil
	case 2:
		return NewCurrentMemberWithHierarchy(parts[0], parts[1]), nil
	default:
		return nil, newConstructionError("ParseCurrentMember", ErrCodeInvalidUniqueName,
			"%q names an element, want [dimension] or [dimension].[hierarchy]", s)
	}
}

// UniqueName returns the canonical unique name, e.g. "[DIM].[DIM].[ELEM]".
func (m *Member) UniqueName() string {
	return m.unique
}

// Dimension returns the dimension name as given at construction.
func (m *Member) Dimension() string {
	return m.dimension
}

// Hierarchy returns the hierarchy name as given at construction.
func (m *Member) Hierarchy() string {
	return m.hierarchy
}

// Element returns the element name as given at construction, or "" for
// a CURRENTMEMBER reference.
func (m *Member) Element() string {
	if len(m.path) == 0 {
		return ""
	}
	return m.path[0]
}

// Path returns a copy of the element path.
func (m *Member) Path() []string {
	if len(m.path) == 0 {
		return nil
	}
	out := make([]string, len(m.path))
	copy(out, m.path)
	return out
}

// IsCurrentMember reports whether the member is a CURRENTMEMBER
// reference rather than a named element.
func (m *Member) IsCurrentMember() bool {
	return m.current
}

// Equal reports whether two members render to the same unique name.
func (m *Member) Equal(other *Member) bool {
	if m == nil || other == nil {
		return m == other
	}
	return m.unique == other.unique
}

func (m *Member) buildUniqueName() string {
	var b strings.Builder
	b.WriteString(hierarchyRef(m.dimension, m.hierarchy))
	if m.current {
		b.WriteString(".CURRENTMEMBER")
		return b.String()
	}
	for _, seg := range m.path {
		b.WriteString(".")
		b.WriteString(bracket(seg))
	}
	return b.String()
}

// splitUniqueName scans leading "[...]" segments separated by dots,
// unescaping "]]". It returns the raw segment texts plus any unbracketed
// remainder after the last dot.
func splitUniqueName(s string) (parts []string, rest string, err error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, "", newConstructionError("ParseMember", ErrCodeInvalidUniqueName,
			"empty unique name")
	}
	i := 0
	for i < len(s) && s[i] == '[' {
		i++
		var seg strings.Builder
		closed := false
		for i < len(s) {
			if s[i] == ']' {
				if i+1 < len(s) && s[i+1] == ']' {
					seg.WriteByte(']')
					i += 2
					continue
				}
				i++
				closed = true
				break
			}
			seg.WriteByte(s[i])
			i++
		}
		if !closed {
			return nil, "", newConstructionError("ParseMember", ErrCodeInvalidUniqueName,
				"unterminated segment in %q", s)
		}
		parts = append(parts, seg.String())
		if i == len(s) {
			return parts, "", nil
		}
		if s[i] != '.' {
			return nil, "", newConstructionError("ParseMember", ErrCodeInvalidUniqueName,
				"expected '.' after segment in %q", s)
		}
		i++
	}
	if len(parts) == 0 {
		return nil, "", newConstructionError("ParseMember", ErrCodeInvalidUniqueName,
			"unique name %q must start with '['", s)
	}
	if i >= len(s) {
		return nil, "", newConstructionError("ParseMember", ErrCodeInvalidUniqueName,
			"trailing '.' in %q", s)
	}
	return parts, s[i:], nil
}
