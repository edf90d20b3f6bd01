package queryspec

import (
	"github.com/roach88/mdx"
)

// Definition is a compiled query definition, decoupled from the CUE
// source so one definition can be materialized into builders repeatedly.
type Definition struct {
	Cube  string
	Axes  []AxisDef
	Where []MemberDef
	With  []CalcDef
}

// AxisDef holds one axis of the query. An axis carries either sets or
// tuples, never both; Compile rejects mixed axes.
type AxisDef struct {
	NonEmpty   bool
	Sets       []SetDef
	Tuples     [][]MemberDef
	Properties []PropertyDef
}

// MemberDef names one member. Hierarchy defaults to the dimension name
// when empty.
type MemberDef struct {
	Dimension string
	Hierarchy string
	Element   string
}

// PropertyDef names one member property requested on an axis.
type PropertyDef struct {
	Dimension string
	Hierarchy string
	Property  string
}

// SetDef describes a hierarchy set: a base selection (a named subset,
// explicit members, or all members) plus transformations applied in
// fixed order: leaves, filterLevel, filterPattern, sort, head, tail.
type SetDef struct {
	Dimension     string
	Hierarchy     string
	Subset        string
	Members       []string
	Leaves        bool
	FilterLevel   *int
	FilterPattern string
	Sort          mdx.Order
	Head          int
	Tail          int
}

// CalcDef describes a calculated member aggregating a set, sliced by a
// tuple of context members.
type CalcDef struct {
	Dimension   string
	Hierarchy   string
	Element     string
	Aggregation mdx.Aggregation
	Cube        string
	Set         SetDef
	Tuple       []MemberDef
}

// Builder materializes the definition into a query builder. The
// returned error is the first construction error the builder recorded,
// if any; the builder is returned either way so callers can inspect it.
func (d *Definition) Builder() (*mdx.Builder, error) {
	b := mdx.NewBuilder(d.Cube)
	for _, c := range d.With {
		b.WithMember(c.member())
	}
	for i, a := range d.Axes {
		if a.NonEmpty {
			b.NonEmpty(i)
		}
		for _, s := range a.Sets {
			b.AddSetToAxis(i, s.set())
		}
		for _, tuple := range a.Tuples {
			b.AddTupleToAxis(i, tupleOf(tuple))
		}
		for _, p := range a.Properties {
			b.AddPropertiesToAxis(i, p.property())
		}
	}
	if len(d.Where) > 0 {
		members := make([]*mdx.Member, len(d.Where))
		for i, m := range d.Where {
			members[i] = m.member()
		}
		b.Where(members...)
	}
	return b, b.Err()
}

// Render materializes the definition and renders it in one step.
func (d *Definition) Render(opts ...mdx.RenderOption) (string, error) {
	b, err := d.Builder()
	if err != nil {
		return "", err
	}
	return b.Render(opts...)
}

func (m MemberDef) member() *mdx.Member {
	if m.Hierarchy != "" {
		return mdx.NewMemberWithHierarchy(m.Dimension, m.Hierarchy, m.Element)
	}
	return mdx.NewMember(m.Dimension, m.Element)
}

func (p PropertyDef) property() mdx.DimensionProperty {
	if p.Dimension == "" {
		return mdx.MemberNameProperty()
	}
	if p.Hierarchy != "" {
		return mdx.NewDimensionPropertyWithHierarchy(p.Dimension, p.Hierarchy, p.Property)
	}
	return mdx.NewDimensionProperty(p.Dimension, p.Property)
}

func (sd SetDef) set() mdx.Set {
	hierarchy := sd.Hierarchy
	if hierarchy == "" {
		hierarchy = sd.Dimension
	}

	var s mdx.Set
	switch {
	case sd.Subset != "":
		s = mdx.NamedSubsetIn(sd.Dimension, hierarchy, sd.Subset)
	case len(sd.Members) > 0:
		members := make([]*mdx.Member, len(sd.Members))
		for i, element := range sd.Members {
			members[i] = mdx.NewMemberWithHierarchy(sd.Dimension, hierarchy, element)
		}
		s = mdx.Members(members...)
	default:
		s = mdx.AllMembersIn(sd.Dimension, hierarchy)
	}

	if sd.Leaves {
		s = s.FilterByLevel(0)
	}
	if sd.FilterLevel != nil {
		s = s.FilterByLevel(*sd.FilterLevel)
	}
	if sd.FilterPattern != "" {
		s = s.FilterByPattern(sd.FilterPattern)
	}
	if sd.Sort != "" {
		s = s.Sort(sd.Sort)
	}
	if sd.Head > 0 {
		s = s.Head(sd.Head)
	}
	if sd.Tail > 0 {
		s = s.Tail(sd.Tail)
	}
	return s
}

func (c CalcDef) member() *mdx.CalculatedMember {
	hierarchy := c.Hierarchy
	if hierarchy == "" {
		hierarchy = c.Dimension
	}
	return mdx.NewAggregateMember(c.Dimension, hierarchy, c.Element,
		c.Aggregation, c.Cube, c.Set.set(), tupleOf(c.Tuple))
}

func tupleOf(members []MemberDef) *mdx.Tuple {
	t := mdx.NewTuple()
	for _, m := range members {
		t.Add(m.member())
	}
	return t
}
