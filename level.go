package mdx

import "strconv"

// LevelExpression identifies a hierarchy level for DESCENDANTS.
//
// The zero value is invalid; construct one with LevelNumber, LevelName
// or MemberLevel.
type LevelExpression struct {
	expr string
}

// LevelNumber references a level by depth, 0 being the leaf level.
// Renders as "[DIM].[HIER].LEVELS(n)".
func LevelNumber(dimension, hierarchy string, level int) LevelExpression {
	return LevelExpression{expr: hierarchyRef(dimension, hierarchy) + ".LEVELS(" + strconv.Itoa(level) + ")"}
}

// LevelName references a named level. The name is a quoted literal and
// passes through verbatim. Renders as "[DIM].[HIER].LEVELS('name')".
func LevelName(dimension, hierarchy, name string) LevelExpression {
	return LevelExpression{expr: hierarchyRef(dimension, hierarchy) + ".LEVELS(" + quote(name) + ")"}
}

// MemberLevel references the level a member sits on. Renders as
// "[DIM].[HIER].[ELEM].LEVEL".
func MemberLevel(m *Member) LevelExpression {
	if m == nil {
		return LevelExpression{}
	}
	return LevelExpression{expr: m.UniqueName() + ".LEVEL"}
}

func (l LevelExpression) isZero() bool {
	return l.expr == ""
}

// DescendantsFlag selects which members DESCENDANTS returns relative to
// the named level.
type DescendantsFlag string

const (
	DescendantsSelf            DescendantsFlag = "SELF"
	DescendantsAfter           DescendantsFlag = "AFTER"
	DescendantsBefore          DescendantsFlag = "BEFORE"
	DescendantsBeforeAndAfter  DescendantsFlag = "BEFORE_AND_AFTER"
	DescendantsSelfAndAfter    DescendantsFlag = "SELF_AND_AFTER"
	DescendantsSelfAndBefore   DescendantsFlag = "SELF_AND_BEFORE"
	DescendantsSelfBeforeAfter DescendantsFlag = "SELF_BEFORE_AFTER"
	DescendantsLeaves          DescendantsFlag = "LEAVES"
)
