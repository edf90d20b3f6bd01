package mdx

import (
	"fmt"
	"strconv"
	"strings"
)

// render walks the expression tree bottom-up. Arguments were validated
// at construction, so rendering cannot fail.
func (s Set) render() string {
	switch n := s.node.(type) {
	case subsetAllNode:
		return "{TM1SUBSETALL(" + s.hier() + ")}"
	case membersFnNode:
		return "{" + s.hier() + ".MEMBERS}"
	case defaultMemberNode:
		return "{" + s.hier() + ".DEFAULTMEMBER}"
	case leavesNode:
		return "{TM1FILTERBYLEVEL({TM1SUBSETALL(" + s.hier() + ")},0)}"
	case consolidationsNode:
		all := "{TM1SUBSETALL(" + s.hier() + ")}"
		leaves := "{TM1FILTERBYLEVEL(" + all + ",0)}"
		return "{EXCEPT(" + all + "," + leaves + ")}"
	case namedSubsetNode:
		return "{TM1SUBSETTOSET(" + s.hier() + "," + quote(n.subset) + ")}"
	case memberListNode:
		names := make([]string, len(n.members))
		for i, m := range n.members {
			names[i] = m.UniqueName()
		}
		return "{" + strings.Join(names, ",") + "}"
	case rangeNode:
		return "{" + n.from.UniqueName() + ":" + n.to.UniqueName() + "}"
	case memberNavNode:
		return "{" + n.member.UniqueName() + "." + n.fn + "}"
	case ancestorNode:
		return "{ANCESTOR(" + n.member.UniqueName() + "," + strconv.Itoa(n.distance) + ")}"
	case drillDownLevelNode:
		expr := "{" + n.member.UniqueName() + "}"
		for i := 0; i < n.levels; i++ {
			expr = "DRILLDOWNLEVEL(" + expr + ")"
		}
		return "{" + expr + "}"
	case descendantsNode:
		args := n.member.UniqueName()
		if !n.level.isZero() {
			args += "," + n.level.expr
		}
		if n.flag != "" {
			args += "," + string(n.flag)
		}
		return "{DESCENDANTS(" + args + ")}"
	case rawNode:
		return n.expression
	case tupleListNode:
		parts := make([]string, len(n.tuples))
		for i, t := range n.tuples {
			parts[i] = t.render()
		}
		return "{" + strings.Join(parts, ",") + "}"
	case combineNode:
		parts := make([]string, len(n.sets))
		for i, inner := range n.sets {
			parts[i] = inner.render()
		}
		return "{" + strings.Join(parts, n.sep) + "}"
	case filterPatternNode:
		return "{TM1FILTERBYPATTERN(" + n.inner.render() + "," + quote(n.pattern) + ")}"
	case filterLevelNode:
		return "{TM1FILTERBYLEVEL(" + n.inner.render() + "," + strconv.Itoa(n.level) + ")}"
	case filterAttrNode:
		attrDim := attributeDimension(s.dimension)
		ref := attrDim + ".(" + attrDim + "." + bracket(n.attribute) + ")"
		return "{FILTER(" + n.inner.render() + "," + equalsAny(ref, n.values) + ")}"
	case filterPropNode:
		ref := s.hier() + ".CURRENTMEMBER.PROPERTIES(" + quote(n.property) + ")"
		return "{FILTER(" + n.inner.render() + "," + equalsAny(ref, n.values) + ")}"
	case filterTypeNode:
		ref := s.hier() + ".CURRENTMEMBER.PROPERTIES(" + quote("ELEMENT_TYPE") + ")"
		return "{FILTER(" + n.inner.render() + "," + ref + "=" + quote(n.elementType.propertyValue()) + ")}"
	case filterCellNode:
		return "{FILTER(" + n.inner.render() + "," + cellRef(n.cube, n.tuple) + n.operator + n.value + ")}"
	case instrNode:
		cell := cellRef(n.cube, n.tuple)
		if !n.sensitive {
			cell = "UCASE(" + cell + ")"
		}
		return "{FILTER(" + n.inner.render() + ",INSTR(" + cell + "," + quote(n.substring) + ")>0)}"
	case sortNode:
		return "{TM1SORT(" + n.inner.render() + "," + n.order.String() + ")}"
	case hierarchizeNode:
		return "{HIERARCHIZE(" + n.inner.render() + ")}"
	case headNode:
		return "{HEAD(" + n.inner.render() + "," + strconv.Itoa(n.count) + ")}"
	case tailNode:
		return "{TAIL(" + n.inner.render() + "," + strconv.Itoa(n.count) + ")}"
	case subsetNode:
		return "{SUBSET(" + n.inner.render() + "," + strconv.Itoa(n.start) + "," + strconv.Itoa(n.length) + ")}"
	case countNode:
		fn := "TOPCOUNT"
		if n.bottom {
			fn = "BOTTOMCOUNT"
		}
		return "{" + fn + "(" + n.inner.render() + "," + strconv.Itoa(n.count) + "," + cellRef(n.cube, n.tuple) + ")}"
	case setOpNode:
		return "{" + n.fn + "(" + n.inner.render() + "," + n.other.render() + ")}"
	case orderNode:
		return "{ORDER(" + n.inner.render() + "," + cellRef(n.cube, n.tuple) + "," + n.order.String() + ")}"
	case orderAttrNode:
		ref := s.hier() + ".CURRENTMEMBER.PROPERTIES(" + quote(n.attribute) + ")"
		return "{ORDER(" + n.inner.render() + "," + ref + "," + n.order.String() + ")}"
	case generateNode:
		// The target hierarchy lives on the wrapping set, the source
		// hierarchy on the inner one.
		prefix := quote(s.hier() + ".[")
		member := "STRTOMEMBER(" + prefix + " + " +
			n.inner.hier() + ".CURRENTMEMBER.PROPERTIES(" + quote(n.attribute) + ")" +
			" + " + quote("]") + ")"
		return "{GENERATE(" + n.inner.render() + ",{" + member + "})}"
	case drillDownMemberNode:
		second := "ALL"
		if n.other.node != nil {
			second = n.other.render()
		}
		expr := "{TM1DRILLDOWNMEMBER(" + n.inner.render() + "," + second
		if n.recursive {
			expr += ",RECURSIVE"
		}
		return expr + ")}"
	}
	panic(fmt.Sprintf("mdx: unknown set node %T", s.node))
}

func (s Set) hier() string {
	return hierarchyRef(s.dimension, s.hierarchy)
}

// cellRef renders a cube cell reference "[CUBE].(<tuple>)".
func cellRef(cube string, t *Tuple) string {
	return bracket(cube) + "." + t.render()
}

// equalsAny renders "ref=v1 OR ref=v2 OR ...".
func equalsAny(ref string, values []string) string {
	conds := make([]string, len(values))
	for i, v := range values {
		conds[i] = ref + "=" + v
	}
	return strings.Join(conds, " OR ")
}
