package mdx

import "strings"

// Aggregation is an MDX aggregate function applied over a set.
//
// The constants cover the common functions; any other token the target
// engine understands can be passed as Aggregation("MEDIAN") and renders
// upper-cased.
type Aggregation string

const (
	AggregateSum   Aggregation = "SUM"
	AggregateAvg   Aggregation = "AVG"
	AggregateMax   Aggregation = "MAX"
	AggregateMin   Aggregation = "MIN"
	AggregateCount Aggregation = "COUNT"
)

// CalculatedMember is a WITH MEMBER definition: a member that exists
// only inside one query, defined by an expression over the cube.
//
// Like Set, an invalid argument marks the member with a sticky error
// that surfaces when a Builder renders it.
type CalculatedMember struct {
	member     *Member
	expression string
	err        *ConstructionError
}

// NewAggregateMember defines a member as an aggregate over a set,
// evaluated against the cube sliced by the tuple.
//
// The definition renders as:
//
//	MEMBER [DIM].[HIER].[ELEM] AS AVG(<set>,[CUBE].(<tuple>))
func NewAggregateMember(dimension, hierarchy, element string, agg Aggregation, cube string, over Set, cells *Tuple) *CalculatedMember {
	const op = "NewAggregateMember"
	m := NewMemberWithHierarchy(dimension, hierarchy, element)
	token := strings.ToUpper(strings.TrimSpace(string(agg)))
	if token == "" {
		return &CalculatedMember{member: m, err: newConstructionError(op, ErrCodeInvalidArgument, "aggregation is empty")}
	}
	if over.err != nil {
		return &CalculatedMember{member: m, err: over.err}
	}
	if over.node == nil {
		return &CalculatedMember{member: m, err: newConstructionError(op, ErrCodeInvalidArgument, "set is not initialized")}
	}
	if err := cells.check(op); err != nil {
		return &CalculatedMember{member: m, err: err}
	}
	expr := token + "(" + over.render() + "," + cellRef(cube, cells) + ")"
	return &CalculatedMember{member: m, expression: expr}
}

// NewCalculatedMember defines a member by a hand-written expression. The
// expression passes through render verbatim, like Set's FromExpression.
func NewCalculatedMember(dimension, hierarchy, element, expression string) *CalculatedMember {
	m := NewMemberWithHierarchy(dimension, hierarchy, element)
	if expression == "" {
		return &CalculatedMember{member: m, err: newConstructionError("NewCalculatedMember", ErrCodeInvalidArgument, "expression is empty")}
	}
	return &CalculatedMember{member: m, expression: expression}
}

// NewSumMember is NewAggregateMember with SUM.
func NewSumMember(dimension, hierarchy, element, cube string, over Set, cells *Tuple) *CalculatedMember {
	return NewAggregateMember(dimension, hierarchy, element, AggregateSum, cube, over, cells)
}

// NewAvgMember is NewAggregateMember with AVG.
func NewAvgMember(dimension, hierarchy, element, cube string, over Set, cells *Tuple) *CalculatedMember {
	return NewAggregateMember(dimension, hierarchy, element, AggregateAvg, cube, over, cells)
}

// NewLookupMember defines a member as the value of one cell of another
// cube.
//
// The definition renders as:
//
//	MEMBER [DIM].[HIER].[ELEM] AS [CUBE].(<tuple>)
func NewLookupMember(dimension, hierarchy, element, cube string, cells *Tuple) *CalculatedMember {
	m := NewMemberWithHierarchy(dimension, hierarchy, element)
	if err := cells.check("NewLookupMember"); err != nil {
		return &CalculatedMember{member: m, err: err}
	}
	return &CalculatedMember{member: m, expression: cellRef(cube, cells)}
}

// NewAttributeLookupMember defines a member as an attribute value read
// from a dimension's element attributes cube.
//
// The definition renders as:
//
//	MEMBER [DIM].[HIER].[ELEM] AS [}ELEMENTATTRIBUTES_AD].([}ELEMENTATTRIBUTES_AD].[ATTR])
func NewAttributeLookupMember(dimension, hierarchy, element, attributeDim, attribute string) *CalculatedMember {
	m := NewMemberWithHierarchy(dimension, hierarchy, element)
	ad := attributeDimension(attributeDim)
	return &CalculatedMember{member: m, expression: ad + ".(" + ad + "." + bracket(attribute) + ")"}
}

// NewPropertyLookupMember defines a member as a member property of the
// target, typically a CURRENTMEMBER reference. With typed the property
// keeps its native type instead of rendering as a string.
//
// The definition renders as:
//
//	MEMBER [DIM].[HIER].[ELEM] AS [TARGET].PROPERTIES('prop')
//	MEMBER [DIM].[HIER].[ELEM] AS [TARGET].PROPERTIES('prop',TYPED)
func NewPropertyLookupMember(dimension, hierarchy, element, property string, target *Member, typed bool) *CalculatedMember {
	m := NewMemberWithHierarchy(dimension, hierarchy, element)
	if target == nil {
		return &CalculatedMember{member: m, err: newConstructionError("NewPropertyLookupMember", ErrCodeInvalidArgument, "target member is nil")}
	}
	expr := target.UniqueName() + ".PROPERTIES(" + quote(property)
	if typed {
		expr += ",TYPED"
	}
	expr += ")"
	return &CalculatedMember{member: m, expression: expr}
}

// Member returns the member the definition introduces.
func (c *CalculatedMember) Member() *Member {
	return c.member
}

// MDX renders the WITH clause line defining the member.
func (c *CalculatedMember) MDX() (string, error) {
	if c == nil {
		return "", newConstructionError("CalculatedMember.MDX", ErrCodeInvalidArgument, "calculated member is nil")
	}
	if c.err != nil {
		return "", c.err
	}
	return c.line(), nil
}

func (c *CalculatedMember) line() string {
	return "MEMBER " + c.member.UniqueName() + " AS " + c.expression
}
