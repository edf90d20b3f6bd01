package mdx

// Set is an immutable MDX set expression.
//
// A Set is a value type wrapping a sealed expression tree. Constructors
// build leaf sets (AllMembers, Members, Children, ...) and every
// transformation method wraps the receiver in a new node, so sets can
// be shared, stored and extended from multiple goroutines without
// copying.
//
// Each Set carries the dimension and hierarchy it ranges over.
// Transformations inherit the receiver's hierarchy; the one exception
// is GenerateAttributeToMember, which yields members of the target
// dimension.
//
// Errors are sticky. An invalid argument marks the Set and every later
// call passes the mark through unchanged; the first error surfaces from
// MDX or from Builder.Render. The zero value is not a usable Set and
// reports an error when rendered.
type Set struct {
	dimension string
	hierarchy string
	node      setNode
	err       *ConstructionError
}

// setNode is the sealed union of set expression variants. Only types in
// this package implement it, which keeps the render type switch
// exhaustive.
type setNode interface {
	setNode() // Marker method - seals interface to this package
}

// Leaf nodes.
type (
	subsetAllNode     struct{}
	membersFnNode     struct{}
	defaultMemberNode struct{}
	leavesNode        struct{}
	consolidationsNode struct{}
	namedSubsetNode   struct{ subset string }
	memberListNode    struct{ members []*Member }
	rangeNode         struct{ from, to *Member }
	memberNavNode     struct {
		member *Member
		fn     string
	}
	ancestorNode struct {
		member   *Member
		distance int
	}
	drillDownLevelNode struct {
		member *Member
		levels int
	}
	descendantsNode struct {
		member *Member
		level  LevelExpression
		flag   DescendantsFlag
	}
	rawNode       struct{ expression string }
	tupleListNode struct{ tuples []*Tuple }
	combineNode   struct {
		sep  string
		sets []Set
	}
)

// Wrapper nodes. Each holds the Set it transforms.
type (
	filterPatternNode struct {
		inner   Set
		pattern string
	}
	filterLevelNode struct {
		inner Set
		level int
	}
	filterAttrNode struct {
		inner     Set
		attribute string
		values    []string
	}
	filterPropNode struct {
		inner    Set
		property string
		values   []string
	}
	filterTypeNode struct {
		inner       Set
		elementType ElementType
	}
	filterCellNode struct {
		inner    Set
		cube     string
		tuple    *Tuple
		operator string
		value    string
	}
	instrNode struct {
		inner     Set
		cube      string
		tuple     *Tuple
		substring string
		sensitive bool
	}
	sortNode struct {
		inner Set
		order Order
	}
	hierarchizeNode struct{ inner Set }
	headNode        struct {
		inner Set
		count int
	}
	tailNode struct {
		inner Set
		count int
	}
	subsetNode struct {
		inner  Set
		start  int
		length int
	}
	countNode struct {
		inner  Set
		cube   string
		tuple  *Tuple
		count  int
		bottom bool
	}
	setOpNode struct {
		inner Set
		fn    string
		other Set
	}
	orderNode struct {
		inner Set
		cube  string
		tuple *Tuple
		order Order
	}
	orderAttrNode struct {
		inner     Set
		attribute string
		order     Order
	}
	generateNode struct {
		inner     Set
		attribute string
	}
	drillDownMemberNode struct {
		inner     Set
		other     Set
		recursive bool
	}
)

func (subsetAllNode) setNode()      {}
func (membersFnNode) setNode()      {}
func (defaultMemberNode) setNode()  {}
func (leavesNode) setNode()         {}
func (consolidationsNode) setNode() {}
func (namedSubsetNode) setNode()    {}
func (memberListNode) setNode()     {}
func (rangeNode) setNode()          {}
func (memberNavNode) setNode()      {}
func (ancestorNode) setNode()       {}
func (drillDownLevelNode) setNode() {}
func (descendantsNode) setNode()    {}
func (rawNode) setNode()            {}
func (tupleListNode) setNode()      {}
func (combineNode) setNode()        {}

func (filterPatternNode) setNode()   {}
func (filterLevelNode) setNode()     {}
func (filterAttrNode) setNode()      {}
func (filterPropNode) setNode()      {}
func (filterTypeNode) setNode()      {}
func (filterCellNode) setNode()      {}
func (instrNode) setNode()           {}
func (sortNode) setNode()            {}
func (hierarchizeNode) setNode()     {}
func (headNode) setNode()            {}
func (tailNode) setNode()            {}
func (subsetNode) setNode()          {}
func (countNode) setNode()           {}
func (setOpNode) setNode()           {}
func (orderNode) setNode()           {}
func (orderAttrNode) setNode()       {}
func (generateNode) setNode()        {}
func (drillDownMemberNode) setNode() {}

func newSet(dimension, hierarchy string, n setNode) Set {
	return Set{dimension: dimension, hierarchy: hierarchy, node: n}
}

func errSet(op string, code ConstructionErrorCode, format string, args ...any) Set {
	return Set{err: newConstructionError(op, code, format, args...)}
}

// AllMembers returns every member of the dimension's same-named
// hierarchy. Renders as "{TM1SUBSETALL([DIM].[DIM])}".
func AllMembers(dimension string) Set {
	return AllMembersIn(dimension, dimension)
}

// AllMembersIn is AllMembers for an alternate hierarchy.
func AllMembersIn(dimension, hierarchy string) Set {
	return newSet(dimension, hierarchy, subsetAllNode{})
}

// HierarchyMembers returns the hierarchy's MEMBERS function set.
// Renders as "{[DIM].[DIM].MEMBERS}".
func HierarchyMembers(dimension string) Set {
	return HierarchyMembersIn(dimension, dimension)
}

// HierarchyMembersIn is HierarchyMembers for an alternate hierarchy.
func HierarchyMembersIn(dimension, hierarchy string) Set {
	return newSet(dimension, hierarchy, membersFnNode{})
}

// DefaultMember returns the hierarchy's default member as a one-element
// set. Renders as "{[DIM].[DIM].DEFAULTMEMBER}".
func DefaultMember(dimension string) Set {
	return DefaultMemberIn(dimension, dimension)
}

// DefaultMemberIn is DefaultMember for an alternate hierarchy.
func DefaultMemberIn(dimension, hierarchy string) Set {
	return newSet(dimension, hierarchy, defaultMemberNode{})
}

// AllLeaves returns the level-zero members of the dimension's
// same-named hierarchy.
// Renders as "{TM1FILTERBYLEVEL({TM1SUBSETALL([DIM].[DIM])},0)}".
func AllLeaves(dimension string) Set {
	return AllLeavesIn(dimension, dimension)
}

// AllLeavesIn is AllLeaves for an alternate hierarchy.
func AllLeavesIn(dimension, hierarchy string) Set {
	return newSet(dimension, hierarchy, leavesNode{})
}

// AllConsolidations returns every non-leaf member of the dimension's
// same-named hierarchy, as the complement of the leaf set.
func AllConsolidations(dimension string) Set {
	return AllConsolidationsIn(dimension, dimension)
}

// AllConsolidationsIn is AllConsolidations for an alternate hierarchy.
func AllConsolidationsIn(dimension, hierarchy string) Set {
	return newSet(dimension, hierarchy, consolidationsNode{})
}

// NamedSubset expands a server-side subset registered on the
// dimension's same-named hierarchy. The subset name is a quoted literal
// and passes through verbatim.
// Renders as "{TM1SUBSETTOSET([DIM].[DIM],'name')}".
func NamedSubset(dimension, subset string) Set {
	return NamedSubsetIn(dimension, dimension, subset)
}

// NamedSubsetIn is NamedSubset for an alternate hierarchy.
func NamedSubsetIn(dimension, hierarchy, subset string) Set {
	return newSet(dimension, hierarchy, namedSubsetNode{subset: subset})
}

// Members returns an explicit set of the given members, in order and
// without deduplication. The set ranges over the first member's
// hierarchy. Renders as "{[m1],[m2],...}".
func Members(members ...*Member) Set {
	if len(members) == 0 {
		return errSet("Members", ErrCodeEmptyMembers, "no members given")
	}
	for i, m := range members {
		if m == nil {
			return errSet("Members", ErrCodeInvalidArgument, "member %d is nil", i)
		}
	}
	ms := make([]*Member, len(members))
	copy(ms, members)
	return newSet(members[0].dimension, members[0].hierarchy, memberListNode{members: ms})
}

// MemberRange returns the range between two members in hierarchy order.
// Renders as "{[from]:[to]}".
func MemberRange(from, to *Member) Set {
	if from == nil || to == nil {
		return errSet("MemberRange", ErrCodeInvalidArgument, "range bound is nil")
	}
	return newSet(from.dimension, from.hierarchy, rangeNode{from: from, to: to})
}

// Parent returns the member's parent as a one-element set.
// Renders as "{[m].PARENT}".
func Parent(m *Member) Set {
	return memberNav("Parent", m, "PARENT")
}

// FirstChild returns the member's first child.
// Renders as "{[m].FIRSTCHILD}".
func FirstChild(m *Member) Set {
	return memberNav("FirstChild", m, "FIRSTCHILD")
}

// LastChild returns the member's last child.
// Renders as "{[m].LASTCHILD}".
func LastChild(m *Member) Set {
	return memberNav("LastChild", m, "LASTCHILD")
}

// Children returns the member's direct children.
// Renders as "{[m].CHILDREN}".
func Children(m *Member) Set {
	return memberNav("Children", m, "CHILDREN")
}

// Ancestors returns every ancestor of the member.
// Renders as "{[m].ANCESTORS}".
func Ancestors(m *Member) Set {
	return memberNav("Ancestors", m, "ANCESTORS")
}

func memberNav(op string, m *Member, fn string) Set {
	if m == nil {
		return errSet(op, ErrCodeInvalidArgument, "member is nil")
	}
	return newSet(m.dimension, m.hierarchy, memberNavNode{member: m, fn: fn})
}

// Ancestor returns the member's ancestor a fixed number of levels up.
// Renders as "{ANCESTOR([m],n)}".
func Ancestor(m *Member, distance int) Set {
	if m == nil {
		return errSet("Ancestor", ErrCodeInvalidArgument, "member is nil")
	}
	return newSet(m.dimension, m.hierarchy, ancestorNode{member: m, distance: distance})
}

// DrillDownLevel expands the member by one level.
// Renders as "{DRILLDOWNLEVEL({[m]})}".
func DrillDownLevel(m *Member) Set {
	return DrillDownLevels(m, 1)
}

// DrillDownLevels expands the member by the given number of levels by
// nesting DRILLDOWNLEVEL calls.
func DrillDownLevels(m *Member, levels int) Set {
	if m == nil {
		return errSet("DrillDownLevels", ErrCodeInvalidArgument, "member is nil")
	}
	if levels < 1 {
		return errSet("DrillDownLevels", ErrCodeInvalidArgument, "levels must be at least 1, got %d", levels)
	}
	return newSet(m.dimension, m.hierarchy, drillDownLevelNode{member: m, levels: levels})
}

// Descendants returns every descendant of the member.
// Renders as "{DESCENDANTS([m])}".
func Descendants(m *Member) Set {
	if m == nil {
		return errSet("Descendants", ErrCodeInvalidArgument, "member is nil")
	}
	return newSet(m.dimension, m.hierarchy, descendantsNode{member: m})
}

// DescendantsAtLevel returns the member's descendants at one level.
// Renders as "{DESCENDANTS([m],<level>)}".
func DescendantsAtLevel(m *Member, level LevelExpression) Set {
	if m == nil {
		return errSet("DescendantsAtLevel", ErrCodeInvalidArgument, "member is nil")
	}
	if level.isZero() {
		return errSet("DescendantsAtLevel", ErrCodeInvalidArgument, "level expression is empty")
	}
	return newSet(m.dimension, m.hierarchy, descendantsNode{member: m, level: level})
}

// DescendantsAtLevelWithFlag is DescendantsAtLevel with a desc flag
// selecting members relative to the level.
// Renders as "{DESCENDANTS([m],<level>,FLAG)}".
func DescendantsAtLevelWithFlag(m *Member, level LevelExpression, flag DescendantsFlag) Set {
	if m == nil {
		return errSet("DescendantsAtLevelWithFlag", ErrCodeInvalidArgument, "member is nil")
	}
	if level.isZero() {
		return errSet("DescendantsAtLevelWithFlag", ErrCodeInvalidArgument, "level expression is empty")
	}
	if flag == "" {
		return errSet("DescendantsAtLevelWithFlag", ErrCodeInvalidArgument, "flag is empty")
	}
	return newSet(m.dimension, m.hierarchy, descendantsNode{member: m, level: level, flag: flag})
}

// DescendantsWithFlag returns DESCENDANTS with a flag and no level.
// Renders as "{DESCENDANTS([m],FLAG)}".
func DescendantsWithFlag(m *Member, flag DescendantsFlag) Set {
	if m == nil {
		return errSet("DescendantsWithFlag", ErrCodeInvalidArgument, "member is nil")
	}
	if flag == "" {
		return errSet("DescendantsWithFlag", ErrCodeInvalidArgument, "flag is empty")
	}
	return newSet(m.dimension, m.hierarchy, descendantsNode{member: m, flag: flag})
}

// FromExpression wraps a hand-written MDX set expression. The
// expression passes through render verbatim; dimension and hierarchy
// tell the builder what the set ranges over.
func FromExpression(dimension, hierarchy, expression string) Set {
	if expression == "" {
		return errSet("FromExpression", ErrCodeInvalidArgument, "expression is empty")
	}
	return newSet(dimension, hierarchy, rawNode{expression: expression})
}

// UnionOf joins sets with the "+" operator, which unions without
// duplicates. Renders as "{<s1> + <s2> + ...}".
func UnionOf(sets ...Set) Set {
	return combine("UnionOf", " + ", sets)
}

// EnumerationOf joins sets with commas, which concatenates keeping
// duplicates. Renders as "{<s1>,<s2>,...}".
func EnumerationOf(sets ...Set) Set {
	return combine("EnumerationOf", ",", sets)
}

// CrossJoinOf joins sets with the "*" operator, producing the cross
// product. Renders as "{<s1> * <s2> * ...}".
func CrossJoinOf(sets ...Set) Set {
	return combine("CrossJoinOf", " * ", sets)
}

func combine(op, sep string, sets []Set) Set {
	if len(sets) == 0 {
		return errSet(op, ErrCodeInvalidArgument, "no sets given")
	}
	for i, s := range sets {
		if s.err != nil {
			return Set{dimension: sets[0].dimension, hierarchy: sets[0].hierarchy, err: s.err}
		}
		if s.node == nil {
			return errSet(op, ErrCodeInvalidArgument, "set %d is not initialized", i)
		}
	}
	ss := make([]Set, len(sets))
	copy(ss, sets)
	return newSet(sets[0].dimension, sets[0].hierarchy, combineNode{sep: sep, sets: ss})
}

// TupleSetOf returns an explicit set of tuples.
// Renders as "{(t1),(t2),...}".
func TupleSetOf(tuples ...*Tuple) Set {
	if len(tuples) == 0 {
		return errSet("TupleSetOf", ErrCodeInvalidArgument, "no tuples given")
	}
	ts := make([]*Tuple, len(tuples))
	for i, t := range tuples {
		if err := t.check("TupleSetOf"); err != nil {
			return Set{err: err}
		}
		ts[i] = t.clone()
	}
	first := ts[0].members[0]
	return newSet(first.dimension, first.hierarchy, tupleListNode{tuples: ts})
}

// Dimension returns the dimension the set ranges over.
func (s Set) Dimension() string {
	return s.dimension
}

// Hierarchy returns the hierarchy the set ranges over.
func (s Set) Hierarchy() string {
	return s.hierarchy
}

// MDX renders the set expression. It returns the first construction
// error recorded while the set was assembled, if any.
func (s Set) MDX() (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if s.node == nil {
		return "", newConstructionError("Set.MDX", ErrCodeInvalidArgument, "set is not initialized")
	}
	return s.render(), nil
}
