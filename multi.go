package mdx

// MultiBuilder renders one query per named subset, fanning a shared
// query template out over a list of server-side subsets.
//
// Every query is the shared template with the subset's
// TM1SUBSETTOSET set injected first on the target axis. Axes that hold
// content but request no properties get MEMBER_NAME, so the fanned-out
// results stay joinable by member name.
type MultiBuilder struct {
	base      *Builder
	dimension string
	hierarchy string
	subsets   []string
	axis      int
}

// NewMultiBuilder returns a builder fanning out over subsets of the
// dimension's same-named hierarchy, injected on the given axis.
func NewMultiBuilder(cube, dimension string, subsets []string, axisNum int) *MultiBuilder {
	return NewMultiBuilderIn(cube, dimension, dimension, subsets, axisNum)
}

// NewMultiBuilderIn is NewMultiBuilder for an alternate hierarchy.
func NewMultiBuilderIn(cube, dimension, hierarchy string, subsets []string, axisNum int) *MultiBuilder {
	const op = "NewMultiBuilderIn"
	m := &MultiBuilder{
		base:      NewBuilder(cube),
		dimension: dimension,
		hierarchy: hierarchy,
		axis:      axisNum,
	}
	if len(subsets) == 0 {
		m.base.failf(op, ErrCodeInvalidArgument, "no subsets given")
		return m
	}
	if axisNum < 0 {
		m.base.failf(op, ErrCodeInvalidArgument, "axis must be non-negative, got %d", axisNum)
		return m
	}
	m.subsets = append([]string(nil), subsets...)
	return m
}

// WithMember adds a calculated member shared by every query.
func (m *MultiBuilder) WithMember(cm *CalculatedMember) *MultiBuilder {
	m.base.WithMember(cm)
	return m
}

// AddSetToAxis places a set on an axis of every query. Sets added to
// the target axis follow the injected subset set.
func (m *MultiBuilder) AddSetToAxis(axisNum int, s Set) *MultiBuilder {
	m.base.AddSetToAxis(axisNum, s)
	return m
}

// AddSetToColumns places a set on axis 0.
func (m *MultiBuilder) AddSetToColumns(s Set) *MultiBuilder {
	return m.AddSetToAxis(0, s)
}

// AddSetToRows places a set on axis 1.
func (m *MultiBuilder) AddSetToRows(s Set) *MultiBuilder {
	return m.AddSetToAxis(1, s)
}

// AddTupleToAxis places a tuple on an axis of every query. The target
// axis cannot take tuples.
func (m *MultiBuilder) AddTupleToAxis(axisNum int, t *Tuple) *MultiBuilder {
	m.base.AddTupleToAxis(axisNum, t)
	return m
}

// AddTupleToColumns places a tuple on axis 0.
func (m *MultiBuilder) AddTupleToColumns(t *Tuple) *MultiBuilder {
	return m.AddTupleToAxis(0, t)
}

// AddTupleToRows places a tuple on axis 1.
func (m *MultiBuilder) AddTupleToRows(t *Tuple) *MultiBuilder {
	return m.AddTupleToAxis(1, t)
}

// AddPropertiesToAxis requests member properties on an axis,
// suppressing the automatic MEMBER_NAME for that axis.
func (m *MultiBuilder) AddPropertiesToAxis(axisNum int, props ...DimensionProperty) *MultiBuilder {
	m.base.AddPropertiesToAxis(axisNum, props...)
	return m
}

// AddPropertiesToColumns requests properties on axis 0.
func (m *MultiBuilder) AddPropertiesToColumns(props ...DimensionProperty) *MultiBuilder {
	return m.AddPropertiesToAxis(0, props...)
}

// AddPropertiesToRows requests properties on axis 1.
func (m *MultiBuilder) AddPropertiesToRows(props ...DimensionProperty) *MultiBuilder {
	return m.AddPropertiesToAxis(1, props...)
}

// NonEmpty suppresses fully empty rows or columns on an axis.
func (m *MultiBuilder) NonEmpty(axisNum int) *MultiBuilder {
	m.base.NonEmpty(axisNum)
	return m
}

// ColumnsNonEmpty suppresses empty columns.
func (m *MultiBuilder) ColumnsNonEmpty() *MultiBuilder {
	return m.NonEmpty(0)
}

// RowsNonEmpty suppresses empty rows.
func (m *MultiBuilder) RowsNonEmpty() *MultiBuilder {
	return m.NonEmpty(1)
}

// Where appends members to the WHERE slice of every query.
func (m *MultiBuilder) Where(members ...*Member) *MultiBuilder {
	m.base.Where(members...)
	return m
}

// IgnoreBadTuples renders every axis of every query with
// TM1IGNORE_BADTUPLES.
func (m *MultiBuilder) IgnoreBadTuples() *MultiBuilder {
	m.base.IgnoreBadTuples()
	return m
}

// Render produces one query per subset, in subset order.
//
// Each query is the template with "{TM1SUBSETTOSET([DIM].[HIER],'subset')}"
// injected before any other set on the target axis. Populated axes
// without explicit properties render with DIMENSION PROPERTIES
// MEMBER_NAME.
func (m *MultiBuilder) Render(opts ...RenderOption) ([]string, error) {
	if m.base.err != nil {
		return nil, m.base.err
	}
	if a, ok := m.base.axes[m.axis]; ok && len(a.tuples) > 0 {
		return nil, newStructuralError(ErrCodeTupleOnMultiAxis, m.axis,
			"axis %d holds tuples, subset sets cannot join them", m.axis)
	}

	out := make([]string, 0, len(m.subsets))
	for _, subset := range m.subsets {
		clone := m.base.Clone()
		a := clone.axisAt(m.axis)
		a.sets = append([]Set{NamedSubsetIn(m.dimension, m.hierarchy, subset)}, a.sets...)
		for _, ax := range clone.axes {
			if ax.populated() && len(ax.properties) == 0 {
				ax.properties = []DimensionProperty{MemberNameProperty()}
			}
		}
		query, err := clone.Render(opts...)
		if err != nil {
			return nil, err
		}
		out = append(out, query)
	}
	return out, nil
}
