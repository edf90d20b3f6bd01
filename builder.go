package mdx

import (
	"strconv"
	"strings"
)

// Builder assembles a complete MDX SELECT query: calculated members,
// axes, the cube, and an optional WHERE slice.
//
// Axes are numbered from 0 (columns). An axis holds either sets, whose
// cross product spans the axis, or explicit tuples; mixing both on one
// axis is an error. Errors stick to the builder and surface from
// Render.
//
// A Builder is not safe for concurrent use; Clone gives an independent
// snapshot to extend elsewhere.
type Builder struct {
	cube   string
	with   []*CalculatedMember
	axes   map[int]*axis
	where  *Tuple
	ignore bool
	err    *ConstructionError
}

type axis struct {
	sets       []Set
	tuples     []*Tuple
	empty      bool
	nonEmpty   bool
	properties []DimensionProperty
}

func (a *axis) populated() bool {
	return a.empty || len(a.sets) > 0 || len(a.tuples) > 0
}

func (a *axis) clone() *axis {
	na := &axis{empty: a.empty, nonEmpty: a.nonEmpty}
	na.sets = append([]Set(nil), a.sets...)
	for _, t := range a.tuples {
		na.tuples = append(na.tuples, t.clone())
	}
	na.properties = append([]DimensionProperty(nil), a.properties...)
	return na
}

// NewBuilder returns a builder querying the given cube.
func NewBuilder(cube string) *Builder {
	return &Builder{cube: cube, axes: make(map[int]*axis)}
}

// Cube returns the cube the query runs against.
func (b *Builder) Cube() string {
	return b.cube
}

// Err returns the first construction error recorded on the builder,
// or nil. Render reports the same error; Err allows checking before
// render time.
func (b *Builder) Err() error {
	if b.err != nil {
		return b.err
	}
	return nil
}

func (b *Builder) axisAt(n int) *axis {
	a, ok := b.axes[n]
	if !ok {
		a = &axis{}
		b.axes[n] = a
	}
	return a
}

// fail records the first construction error; later ones are dropped.
func (b *Builder) fail(err *ConstructionError) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) failf(op string, code ConstructionErrorCode, format string, args ...any) *Builder {
	return b.fail(newConstructionError(op, code, format, args...))
}

// WithMember adds a calculated member definition to the WITH clause.
func (b *Builder) WithMember(cm *CalculatedMember) *Builder {
	const op = "Builder.WithMember"
	if b.err != nil {
		return b
	}
	if cm == nil {
		return b.failf(op, ErrCodeInvalidArgument, "calculated member is nil")
	}
	if cm.err != nil {
		return b.fail(cm.err)
	}
	b.with = append(b.with, cm)
	return b
}

// AddSetToAxis places a set on an axis. Multiple sets on one axis are
// cross joined in order.
func (b *Builder) AddSetToAxis(axisNum int, s Set) *Builder {
	const op = "Builder.AddSetToAxis"
	if b.err != nil {
		return b
	}
	if axisNum < 0 {
		return b.failf(op, ErrCodeInvalidArgument, "axis must be non-negative, got %d", axisNum)
	}
	if s.err != nil {
		return b.fail(s.err)
	}
	if s.node == nil {
		return b.failf(op, ErrCodeInvalidArgument, "set is not initialized")
	}
	a := b.axisAt(axisNum)
	if a.empty {
		return b.failf(op, ErrCodeOccupiedAxis, "axis %d is marked empty", axisNum)
	}
	if len(a.tuples) > 0 {
		return b.failf(op, ErrCodeMixedAxis, "axis %d already holds tuples", axisNum)
	}
	a.sets = append(a.sets, s)
	return b
}

// AddSetToColumns places a set on axis 0.
func (b *Builder) AddSetToColumns(s Set) *Builder {
	return b.AddSetToAxis(0, s)
}

// AddSetToRows places a set on axis 1.
func (b *Builder) AddSetToRows(s Set) *Builder {
	return b.AddSetToAxis(1, s)
}

// AddTupleToAxis places an explicit tuple on an axis. The tuple is
// snapshotted, so later Add calls on it do not change the query.
func (b *Builder) AddTupleToAxis(axisNum int, t *Tuple) *Builder {
	const op = "Builder.AddTupleToAxis"
	if b.err != nil {
		return b
	}
	if axisNum < 0 {
		return b.failf(op, ErrCodeInvalidArgument, "axis must be non-negative, got %d", axisNum)
	}
	if err := t.check(op); err != nil {
		return b.fail(err)
	}
	a := b.axisAt(axisNum)
	if a.empty {
		return b.failf(op, ErrCodeOccupiedAxis, "axis %d is marked empty", axisNum)
	}
	if len(a.sets) > 0 {
		return b.failf(op, ErrCodeMixedAxis, "axis %d already holds sets", axisNum)
	}
	a.tuples = append(a.tuples, t.clone())
	return b
}

// AddTupleToColumns places a tuple on axis 0.
func (b *Builder) AddTupleToColumns(t *Tuple) *Builder {
	return b.AddTupleToAxis(0, t)
}

// AddTupleToRows places a tuple on axis 1.
func (b *Builder) AddTupleToRows(t *Tuple) *Builder {
	return b.AddTupleToAxis(1, t)
}

// AddEmptySetToAxis marks an axis as deliberately empty, rendering
// "{}". The marker conflicts with any other content on the axis.
func (b *Builder) AddEmptySetToAxis(axisNum int) *Builder {
	const op = "Builder.AddEmptySetToAxis"
	if b.err != nil {
		return b
	}
	if axisNum < 0 {
		return b.failf(op, ErrCodeInvalidArgument, "axis must be non-negative, got %d", axisNum)
	}
	a := b.axisAt(axisNum)
	if len(a.sets) > 0 || len(a.tuples) > 0 {
		return b.failf(op, ErrCodeOccupiedAxis, "axis %d already has content", axisNum)
	}
	a.empty = true
	return b
}

// AddPropertiesToAxis requests member properties on an axis via
// DIMENSION PROPERTIES.
func (b *Builder) AddPropertiesToAxis(axisNum int, props ...DimensionProperty) *Builder {
	const op = "Builder.AddPropertiesToAxis"
	if b.err != nil {
		return b
	}
	if axisNum < 0 {
		return b.failf(op, ErrCodeInvalidArgument, "axis must be non-negative, got %d", axisNum)
	}
	for _, p := range props {
		if p.property == "" {
			return b.failf(op, ErrCodeInvalidArgument, "property name is empty")
		}
	}
	a := b.axisAt(axisNum)
	a.properties = append(a.properties, props...)
	return b
}

// AddPropertiesToColumns requests properties on axis 0.
func (b *Builder) AddPropertiesToColumns(props ...DimensionProperty) *Builder {
	return b.AddPropertiesToAxis(0, props...)
}

// AddPropertiesToRows requests properties on axis 1.
func (b *Builder) AddPropertiesToRows(props ...DimensionProperty) *Builder {
	return b.AddPropertiesToAxis(1, props...)
}

// NonEmpty suppresses fully empty rows or columns on an axis.
func (b *Builder) NonEmpty(axisNum int) *Builder {
	const op = "Builder.NonEmpty"
	if b.err != nil {
		return b
	}
	if axisNum < 0 {
		return b.failf(op, ErrCodeInvalidArgument, "axis must be non-negative, got %d", axisNum)
	}
	b.axisAt(axisNum).nonEmpty = true
	return b
}

// ColumnsNonEmpty suppresses empty columns.
func (b *Builder) ColumnsNonEmpty() *Builder {
	return b.NonEmpty(0)
}

// RowsNonEmpty suppresses empty rows.
func (b *Builder) RowsNonEmpty() *Builder {
	return b.NonEmpty(1)
}

// Where appends members to the WHERE slice tuple.
func (b *Builder) Where(members ...*Member) *Builder {
	const op = "Builder.Where"
	if b.err != nil {
		return b
	}
	for i, m := range members {
		if m == nil {
			return b.failf(op, ErrCodeInvalidArgument, "member %d is nil", i)
		}
	}
	if b.where == nil {
		b.where = NewTuple()
	}
	b.where.Add(members...)
	return b
}

// IgnoreBadTuples renders every axis with the TM1IGNORE_BADTUPLES
// directive, so tuples naming missing elements are skipped instead of
// failing the query.
func (b *Builder) IgnoreBadTuples() *Builder {
	if b.err != nil {
		return b
	}
	b.ignore = true
	return b
}

// Clone returns an independent copy. The copy shares Set values, which
// are immutable, and deep-copies tuples and axis state.
func (b *Builder) Clone() *Builder {
	nb := &Builder{cube: b.cube, ignore: b.ignore, err: b.err}
	nb.with = append([]*CalculatedMember(nil), b.with...)
	nb.axes = make(map[int]*axis, len(b.axes))
	for n, a := range b.axes {
		nb.axes[n] = a.clone()
	}
	nb.where = b.where.clone()
	return nb
}

// renderOptions control query layout without changing its meaning.
type renderOptions struct {
	crlf           bool
	skipProperties bool
	headColumns    int
	tailColumns    int
	headRows       int
	tailRows       int
}

// RenderOption adjusts how Render lays out the query.
type RenderOption func(*renderOptions)

// WithCRLF joins query lines with "\r\n" instead of "\n".
func WithCRLF() RenderOption {
	return func(o *renderOptions) { o.crlf = true }
}

// WithSkipProperties drops all DIMENSION PROPERTIES clauses.
func WithSkipProperties() RenderOption {
	return func(o *renderOptions) { o.skipProperties = true }
}

// WithHeadColumns wraps axis 0 in HEAD(...,n).
func WithHeadColumns(n int) RenderOption {
	return func(o *renderOptions) { o.headColumns = n }
}

// WithTailColumns wraps axis 0 in TAIL(...,n).
func WithTailColumns(n int) RenderOption {
	return func(o *renderOptions) { o.tailColumns = n }
}

// WithHeadRows wraps axis 1 in HEAD(...,n).
func WithHeadRows(n int) RenderOption {
	return func(o *renderOptions) { o.headRows = n }
}

// WithTailRows wraps axis 1 in TAIL(...,n).
func WithTailRows(n int) RenderOption {
	return func(o *renderOptions) { o.tailRows = n }
}

func (o renderOptions) headFor(axisNum int) int {
	switch axisNum {
	case 0:
		return o.headColumns
	case 1:
		return o.headRows
	}
	return 0
}

func (o renderOptions) tailFor(axisNum int) int {
	switch axisNum {
	case 0:
		return o.tailColumns
	case 1:
		return o.tailRows
	}
	return 0
}

// Render produces the MDX query text.
//
// It returns the first sticky construction error if one was recorded,
// then validates the query shape: axis 0 must be populated and axis
// numbering must be contiguous. Lines are joined with "\n" unless
// WithCRLF is given.
func (b *Builder) Render(opts ...RenderOption) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	var o renderOptions
	for _, opt := range opts {
		opt(&o)
	}

	max := -1
	for n, a := range b.axes {
		if a.populated() && n > max {
			max = n
		}
	}
	if max < 0 {
		return "", newStructuralError(ErrCodeMissingColumns, 0, "query has no column axis")
	}
	for i := 0; i <= max; i++ {
		a, ok := b.axes[i]
		if ok && a.populated() {
			continue
		}
		if i == 0 {
			return "", newStructuralError(ErrCodeMissingColumns, 0, "query has no column axis")
		}
		return "", newStructuralError(ErrCodeAxisGap, i, "axis %d is empty but axis %d is populated", i, max)
	}

	sep := "\n"
	if o.crlf {
		sep = "\r\n"
	}
	var sb strings.Builder
	if len(b.with) > 0 {
		sb.WriteString("WITH")
		for _, cm := range b.with {
			sb.WriteString(sep)
			sb.WriteString(cm.line())
		}
		sb.WriteString(sep)
	}
	sb.WriteString("SELECT ")
	for i := 0; i <= max; i++ {
		if i > 0 {
			sb.WriteString(",")
			sb.WriteString(sep)
		}
		sb.WriteString(b.renderAxis(i, o))
		sb.WriteString(" ON ")
		sb.WriteString(strconv.Itoa(i))
	}
	sb.WriteString(sep)
	sb.WriteString("FROM ")
	sb.WriteString(bracket(b.cube))
	if b.where != nil && b.where.Len() > 0 {
		sb.WriteString(sep)
		sb.WriteString("WHERE ")
		sb.WriteString(b.where.render())
	}
	return sb.String(), nil
}

func (b *Builder) renderAxis(axisNum int, o renderOptions) string {
	a := b.axes[axisNum]

	var content string
	switch {
	case a.empty:
		content = "{}"
	case len(a.tuples) > 0:
		parts := make([]string, len(a.tuples))
		for i, t := range a.tuples {
			parts[i] = t.render()
		}
		content = "{" + strings.Join(parts, ",") + "}"
	default:
		parts := make([]string, len(a.sets))
		for i, s := range a.sets {
			parts[i] = s.render()
		}
		content = strings.Join(parts, " * ")
	}

	if head := o.headFor(axisNum); head > 0 {
		content = "{HEAD(" + content + "," + strconv.Itoa(head) + ")}"
	}
	if tail := o.tailFor(axisNum); tail > 0 {
		content = "{TAIL(" + content + "," + strconv.Itoa(tail) + ")}"
	}

	var sb strings.Builder
	if a.nonEmpty {
		sb.WriteString("NON EMPTY ")
	}
	if b.ignore {
		sb.WriteString("TM1IGNORE_BADTUPLES ")
	}
	sb.WriteString(content)
	if !o.skipProperties && len(a.properties) > 0 {
		props := make([]string, len(a.properties))
		for i, p := range a.properties {
			props[i] = p.render()
		}
		sb.WriteString(" DIMENSION PROPERTIES ")
		sb.WriteString(strings.Join(props, ","))
	}
	return sb.String()
}
