package mdx

import (
	"strconv"
	"strings"
)

// guard checks the receiver before a transformation. A set that already
// failed is passed through unchanged and a zero-value receiver fails
// the call; ok is false in both cases.
func (s Set) guard(op string) (failed Set, ok bool) {
	if s.err != nil {
		return s, false
	}
	if s.node == nil {
		return s.failf(op, ErrCodeInvalidArgument, "set is not initialized"), false
	}
	return Set{}, true
}

// checkArg validates a Set argument, propagating its sticky error onto
// the result.
func (s Set) checkArg(op string, other Set) (failed Set, ok bool) {
	if other.err != nil {
		return Set{dimension: s.dimension, hierarchy: s.hierarchy, err: other.err}, false
	}
	if other.node == nil {
		return s.failf(op, ErrCodeInvalidArgument, "argument set is not initialized"), false
	}
	return Set{}, true
}

// checkTuple validates a tuple argument and snapshots it, so later Add
// calls on the caller's tuple do not change this set.
func (s Set) checkTuple(op string, t *Tuple) (failed Set, snapshot *Tuple, ok bool) {
	if err := t.check(op); err != nil {
		return Set{dimension: s.dimension, hierarchy: s.hierarchy, err: err}, nil, false
	}
	return Set{}, t.clone(), true
}

func (s Set) wrap(n setNode) Set {
	return Set{dimension: s.dimension, hierarchy: s.hierarchy, node: n}
}

func (s Set) failf(op string, code ConstructionErrorCode, format string, args ...any) Set {
	return Set{dimension: s.dimension, hierarchy: s.hierarchy, err: newConstructionError(op, code, format, args...)}
}

// FilterByPattern keeps members whose name matches a TM1 wildcard
// pattern ("?" one character, "*" any run).
// Renders as "{TM1FILTERBYPATTERN(<s>,'pattern')}".
func (s Set) FilterByPattern(pattern string) Set {
	if g, ok := s.guard("Set.FilterByPattern"); !ok {
		return g
	}
	return s.wrap(filterPatternNode{inner: s, pattern: pattern})
}

// FilterByLevel keeps members at one hierarchy level, 0 being leaves.
// Renders as "{TM1FILTERBYLEVEL(<s>,level)}".
func (s Set) FilterByLevel(level int) Set {
	if g, ok := s.guard("Set.FilterByLevel"); !ok {
		return g
	}
	return s.wrap(filterLevelNode{inner: s, level: level})
}

// FilterByAttribute keeps members whose attribute equals any of the
// given values. Values may be string, int, int64, float32 or float64;
// strings render as quoted literals, numbers bare.
//
// Renders as a FILTER over the dimension's element attributes cube:
//
//	{FILTER(<s>,[}ELEMENTATTRIBUTES_DIM].([}ELEMENTATTRIBUTES_DIM].[ATTR])='v1' OR ...)}
func (s Set) FilterByAttribute(attribute string, values ...any) Set {
	const op = "Set.FilterByAttribute"
	if g, ok := s.guard(op); !ok {
		return g
	}
	rendered, err := renderScalars(op, values)
	if err != nil {
		return Set{dimension: s.dimension, hierarchy: s.hierarchy, err: err}
	}
	return s.wrap(filterAttrNode{inner: s, attribute: attribute, values: rendered})
}

// FilterByProperty keeps members whose member property equals any of
// the given values. The property name is a quoted literal and passes
// through verbatim.
//
// Renders as:
//
//	{FILTER(<s>,[DIM].[HIER].CURRENTMEMBER.PROPERTIES('prop')='v1' OR ...)}
func (s Set) FilterByProperty(property string, values ...any) Set {
	const op = "Set.FilterByProperty"
	if g, ok := s.guard(op); !ok {
		return g
	}
	rendered, err := renderScalars(op, values)
	if err != nil {
		return Set{dimension: s.dimension, hierarchy: s.hierarchy, err: err}
	}
	return s.wrap(filterPropNode{inner: s, property: property, values: rendered})
}

// FilterByElementType keeps members of one element type via the
// ELEMENT_TYPE property, which TM1 stores as a digit string.
//
// Renders as:
//
//	{FILTER(<s>,[DIM].[HIER].CURRENTMEMBER.PROPERTIES('ELEMENT_TYPE')='1')}
func (s Set) FilterByElementType(t ElementType) Set {
	const op = "Set.FilterByElementType"
	if g, ok := s.guard(op); !ok {
		return g
	}
	if !t.valid() {
		return s.failf(op, ErrCodeInvalidElementType, "invalid element type %d", int(t))
	}
	return s.wrap(filterTypeNode{inner: s, elementType: t})
}

// FilterByCellValue keeps members whose cell value in the cube, sliced
// by the tuple, satisfies the comparison. Valid operators are =, <>,
// <, >, <= and >=.
//
// Renders as "{FILTER(<s>,[CUBE].(<tuple>)<op><value>)}".
func (s Set) FilterByCellValue(cube string, t *Tuple, operator string, value any) Set {
	const op = "Set.FilterByCellValue"
	if g, ok := s.guard(op); !ok {
		return g
	}
	g, snapshot, ok := s.checkTuple(op, t)
	if !ok {
		return g
	}
	if !validComparison(operator) {
		return s.failf(op, ErrCodeInvalidArgument, "invalid comparison operator %q", operator)
	}
	rendered, scalarOK := renderScalar(value)
	if !scalarOK {
		return s.failf(op, ErrCodeInvalidArgument, "unsupported value type %T", value)
	}
	return s.wrap(filterCellNode{inner: s, cube: cube, tuple: snapshot, operator: operator, value: rendered})
}

// FilterBySubstring keeps members whose cell value contains the
// substring, ignoring case. The match upper-cases both sides.
//
// Renders as "{FILTER(<s>,INSTR(UCASE([CUBE].(<tuple>)),'SUB')>0)}".
func (s Set) FilterBySubstring(cube string, t *Tuple, substring string) Set {
	const op = "Set.FilterBySubstring"
	if g, ok := s.guard(op); !ok {
		return g
	}
	g, snapshot, ok := s.checkTuple(op, t)
	if !ok {
		return g
	}
	return s.wrap(instrNode{inner: s, cube: cube, tuple: snapshot, substring: strings.ToUpper(substring)})
}

// FilterBySubstringCaseSensitive is FilterBySubstring with an exact
// case match; the UCASE wrapper is dropped and the substring passes
// through verbatim.
func (s Set) FilterBySubstringCaseSensitive(cube string, t *Tuple, substring string) Set {
	const op = "Set.FilterBySubstringCaseSensitive"
	if g, ok := s.guard(op); !ok {
		return g
	}
	g, snapshot, ok := s.checkTuple(op, t)
	if !ok {
		return g
	}
	return s.wrap(instrNode{inner: s, cube: cube, tuple: snapshot, substring: substring, sensitive: true})
}

// Sort sorts members by name. TM1SORT accepts only OrderAsc and
// OrderDesc; break-hierarchy directions are rejected.
// Renders as "{TM1SORT(<s>,ASC)}".
func (s Set) Sort(order Order) Set {
	const op = "Set.Sort"
	if g, ok := s.guard(op); !ok {
		return g
	}
	if order != OrderAsc && order != OrderDesc {
		return s.failf(op, ErrCodeInvalidOrder, "TM1SORT accepts ASC or DESC, got %q", string(order))
	}
	return s.wrap(sortNode{inner: s, order: order})
}

// Hierarchize reorders members into hierarchy order.
// Renders as "{HIERARCHIZE(<s>)}".
func (s Set) Hierarchize() Set {
	if g, ok := s.guard("Set.Hierarchize"); !ok {
		return g
	}
	return s.wrap(hierarchizeNode{inner: s})
}

// Head keeps the first count members.
// Renders as "{HEAD(<s>,count)}".
func (s Set) Head(count int) Set {
	if g, ok := s.guard("Set.Head"); !ok {
		return g
	}
	return s.wrap(headNode{inner: s, count: count})
}

// Tail keeps the last count members.
// Renders as "{TAIL(<s>,count)}".
func (s Set) Tail(count int) Set {
	if g, ok := s.guard("Set.Tail"); !ok {
		return g
	}
	return s.wrap(tailNode{inner: s, count: count})
}

// Subset keeps length members starting at the zero-based start index.
// Renders as "{SUBSET(<s>,start,length)}".
func (s Set) Subset(start, length int) Set {
	if g, ok := s.guard("Set.Subset"); !ok {
		return g
	}
	return s.wrap(subsetNode{inner: s, start: start, length: length})
}

// TopCount keeps the count members with the highest cell value in the
// cube, sliced by the tuple.
// Renders as "{TOPCOUNT(<s>,count,[CUBE].(<tuple>))}".
func (s Set) TopCount(cube string, t *Tuple, count int) Set {
	return s.rankCount("Set.TopCount", cube, t, count, false)
}

// BottomCount keeps the count members with the lowest cell value.
// Renders as "{BOTTOMCOUNT(<s>,count,[CUBE].(<tuple>))}".
func (s Set) BottomCount(cube string, t *Tuple, count int) Set {
	return s.rankCount("Set.BottomCount", cube, t, count, true)
}

func (s Set) rankCount(op, cube string, t *Tuple, count int, bottom bool) Set {
	if g, ok := s.guard(op); !ok {
		return g
	}
	g, snapshot, ok := s.checkTuple(op, t)
	if !ok {
		return g
	}
	return s.wrap(countNode{inner: s, cube: cube, tuple: snapshot, count: count, bottom: bottom})
}

// Union combines two sets dropping duplicates.
// Renders as "{UNION(<s>,<other>)}".
func (s Set) Union(other Set) Set {
	return s.setOp("Set.Union", "UNION", other)
}

// Intersect keeps members present in both sets.
// Renders as "{INTERSECT(<s>,<other>)}".
func (s Set) Intersect(other Set) Set {
	return s.setOp("Set.Intersect", "INTERSECT", other)
}

// Except removes the other set's members.
// Renders as "{EXCEPT(<s>,<other>)}".
func (s Set) Except(other Set) Set {
	return s.setOp("Set.Except", "EXCEPT", other)
}

func (s Set) setOp(op, fn string, other Set) Set {
	if g, ok := s.guard(op); !ok {
		return g
	}
	if g, ok := s.checkArg(op, other); !ok {
		return g
	}
	return s.wrap(setOpNode{inner: s, fn: fn, other: other})
}

// OrderBy sorts members by their cell value in the cube, sliced by the
// tuple. All four directions are valid; BASC and BDESC sort across the
// hierarchy. Renders as "{ORDER(<s>,[CUBE].(<tuple>),BASC)}".
func (s Set) OrderBy(cube string, t *Tuple, order Order) Set {
	const op = "Set.OrderBy"
	if g, ok := s.guard(op); !ok {
		return g
	}
	g, snapshot, ok := s.checkTuple(op, t)
	if !ok {
		return g
	}
	if !order.valid() {
		return s.failf(op, ErrCodeInvalidOrder, "invalid sort direction %q", string(order))
	}
	return s.wrap(orderNode{inner: s, cube: cube, tuple: snapshot, order: order})
}

// OrderByAttribute sorts members by an attribute value via the member
// PROPERTIES function. The attribute name is a quoted literal and
// passes through verbatim.
//
// Renders as:
//
//	{ORDER(<s>,[DIM].[HIER].CURRENTMEMBER.PROPERTIES('attr'),ASC)}
func (s Set) OrderByAttribute(attribute string, order Order) Set {
	const op = "Set.OrderByAttribute"
	if g, ok := s.guard(op); !ok {
		return g
	}
	if !order.valid() {
		return s.failf(op, ErrCodeInvalidOrder, "invalid sort direction %q", string(order))
	}
	return s.wrap(orderAttrNode{inner: s, attribute: attribute, order: order})
}

// GenerateAttributeToMember maps every member to the member of the
// target dimension named by one of its attributes. The result ranges
// over the target dimension's same-named hierarchy.
//
// Renders as:
//
//	{GENERATE(<s>,{STRTOMEMBER('[TARGET].[TARGET].[' + [DIM].[HIER].CURRENTMEMBER.PROPERTIES('attr') + ']')})}
func (s Set) GenerateAttributeToMember(attribute, dimension string) Set {
	return s.GenerateAttributeToMemberIn(attribute, dimension, dimension)
}

// GenerateAttributeToMemberIn is GenerateAttributeToMember targeting an
// alternate hierarchy.
func (s Set) GenerateAttributeToMemberIn(attribute, dimension, hierarchy string) Set {
	if g, ok := s.guard("Set.GenerateAttributeToMemberIn"); !ok {
		return g
	}
	return Set{dimension: dimension, hierarchy: hierarchy, node: generateNode{inner: s, attribute: attribute}}
}

// DrillDown expands every member of the set by one level.
// Renders as "{TM1DRILLDOWNMEMBER(<s>,ALL)}".
func (s Set) DrillDown() Set {
	if g, ok := s.guard("Set.DrillDown"); !ok {
		return g
	}
	return s.wrap(drillDownMemberNode{inner: s})
}

// DrillDownRecursive expands every member of the set recursively.
// Renders as "{TM1DRILLDOWNMEMBER(<s>,ALL,RECURSIVE)}".
func (s Set) DrillDownRecursive() Set {
	if g, ok := s.guard("Set.DrillDownRecursive"); !ok {
		return g
	}
	return s.wrap(drillDownMemberNode{inner: s, recursive: true})
}

// DrillDownWith expands only the members also present in the other set.
// Renders as "{TM1DRILLDOWNMEMBER(<s>,<other>)}".
func (s Set) DrillDownWith(other Set) Set {
	const op = "Set.DrillDownWith"
	if g, ok := s.guard(op); !ok {
		return g
	}
	if g, ok := s.checkArg(op, other); !ok {
		return g
	}
	return s.wrap(drillDownMemberNode{inner: s, other: other})
}

// DrillDownWithRecursive is DrillDownWith applied recursively.
// Renders as "{TM1DRILLDOWNMEMBER(<s>,<other>,RECURSIVE)}".
func (s Set) DrillDownWithRecursive(other Set) Set {
	const op = "Set.DrillDownWithRecursive"
	if g, ok := s.guard(op); !ok {
		return g
	}
	if g, ok := s.checkArg(op, other); !ok {
		return g
	}
	return s.wrap(drillDownMemberNode{inner: s, other: other, recursive: true})
}

func validComparison(operator string) bool {
	switch operator {
	case "=", "<>", "<", ">", "<=", ">=":
		return true
	}
	return false
}

// renderScalar renders a literal for use in filter comparisons.
// Strings quote, integers and floats render bare in decimal.
func renderScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return quote(x), true
	case int:
		return strconv.Itoa(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	}
	return "", false
}

func renderScalars(op string, values []any) ([]string, *ConstructionError) {
	if len(values) == 0 {
		return nil, newConstructionError(op, ErrCodeInvalidArgument, "no values given")
	}
	out := make([]string, len(values))
	for i, v := range values {
		rendered, ok := renderScalar(v)
		if !ok {
			return nil, newConstructionError(op, ErrCodeInvalidArgument, "unsupported value type %T", v)
		}
		out[i] = rendered
	}
	return out, nil
}
