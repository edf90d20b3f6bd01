// Package queryspec compiles CUE query definitions into builders.
//
// A query definition is a single CUE struct naming a cube, its axes,
// and optional where and with clauses. Compilation is two-phase: the
// CUE value is parsed into a Definition, then the Definition is
// materialized into a builder. Validation that depends only on the
// source (required fields, exclusive fields, value ranges) happens at
// compile time with source positions; structural query validation
// happens when the builder renders.
package queryspec

import (
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/mdx"
)

// CompileFile reads and compiles one CUE query file. Compile errors
// carry positions in the given file.
func CompileFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	ctx := cuecontext.New()
	return Compile(ctx.CompileBytes(data, cue.Filename(path)))
}

// Compile parses a CUE value into a Definition.
//
// The CUE value should be the query struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`cube: "SALES", axes: [...]`)
//	def, err := Compile(v)
func Compile(v cue.Value) (*Definition, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	def := &Definition{}

	cube, err := requiredString(v, "cube", "")
	if err != nil {
		return nil, err
	}
	def.Cube = cube

	axesVal := v.LookupPath(cue.ParsePath("axes"))
	if !axesVal.Exists() {
		return nil, &CompileError{
			Field:   "axes",
			Message: "at least one axis is required",
			Pos:     v.Pos(),
		}
	}
	axisIter, err := axesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for i := 0; axisIter.Next(); i++ {
		axis, err := parseAxis(axisIter.Value(), fmt.Sprintf("axes[%d]", i))
		if err != nil {
			return nil, err
		}
		def.Axes = append(def.Axes, axis)
	}
	if len(def.Axes) == 0 {
		return nil, &CompileError{
			Field:   "axes",
			Message: "at least one axis is required",
			Pos:     axesVal.Pos(),
		}
	}

	whereVal := v.LookupPath(cue.ParsePath("where"))
	if whereVal.Exists() {
		def.Where, err = parseMembers(whereVal, "where")
		if err != nil {
			return nil, err
		}
	}

	withVal := v.LookupPath(cue.ParsePath("with"))
	if withVal.Exists() {
		withIter, err := withVal.List()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for i := 0; withIter.Next(); i++ {
			calc, err := parseCalc(withIter.Value(), fmt.Sprintf("with[%d]", i))
			if err != nil {
				return nil, err
			}
			def.With = append(def.With, calc)
		}
	}

	return def, nil
}

func parseAxis(v cue.Value, field string) (AxisDef, error) {
	axis := AxisDef{}

	nonEmpty, err := optionalBool(v, "nonEmpty")
	if err != nil {
		return axis, err
	}
	axis.NonEmpty = nonEmpty

	setsVal := v.LookupPath(cue.ParsePath("sets"))
	if setsVal.Exists() {
		iter, err := setsVal.List()
		if err != nil {
			return axis, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			sd, err := parseSet(iter.Value(), fmt.Sprintf("%s.sets[%d]", field, i))
			if err != nil {
				return axis, err
			}
			axis.Sets = append(axis.Sets, sd)
		}
	}

	tuplesVal := v.LookupPath(cue.ParsePath("tuples"))
	if tuplesVal.Exists() {
		iter, err := tuplesVal.List()
		if err != nil {
			return axis, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			tupleField := fmt.Sprintf("%s.tuples[%d]", field, i)
			members, err := parseMembers(iter.Value(), tupleField)
			if err != nil {
				return axis, err
			}
			if len(members) == 0 {
				return axis, &CompileError{
					Field:   tupleField,
					Message: "tuple has no members",
					Pos:     iter.Value().Pos(),
				}
			}
			axis.Tuples = append(axis.Tuples, members)
		}
	}

	if len(axis.Sets) > 0 && len(axis.Tuples) > 0 {
		return axis, &CompileError{
			Field:   field,
			Message: "axis cannot hold both sets and tuples",
			Pos:     v.Pos(),
		}
	}
	if len(axis.Sets) == 0 && len(axis.Tuples) == 0 {
		return axis, &CompileError{
			Field:   field,
			Message: "axis needs sets or tuples",
			Pos:     v.Pos(),
		}
	}

	propsVal := v.LookupPath(cue.ParsePath("properties"))
	if propsVal.Exists() {
		iter, err := propsVal.List()
		if err != nil {
			return axis, formatCUEError(err)
		}
		for i := 0; iter.Next(); i++ {
			p, err := parseProperty(iter.Value(), fmt.Sprintf("%s.properties[%d]", field, i))
			if err != nil {
				return axis, err
			}
			axis.Properties = append(axis.Properties, p)
		}
	}

	return axis, nil
}

func parseSet(v cue.Value, field string) (SetDef, error) {
	sd := SetDef{}

	dimension, err := requiredString(v, "dimension", field)
	if err != nil {
		return sd, err
	}
	sd.Dimension = dimension

	sd.Hierarchy, err = optionalString(v, "hierarchy")
	if err != nil {
		return sd, err
	}
	sd.Subset, err = optionalString(v, "subset")
	if err != nil {
		return sd, err
	}

	membersVal := v.LookupPath(cue.ParsePath("members"))
	if membersVal.Exists() {
		iter, err := membersVal.List()
		if err != nil {
			return sd, formatCUEError(err)
		}
		for iter.Next() {
			element, err := iter.Value().String()
			if err != nil {
				return sd, formatCUEError(err)
			}
			sd.Members = append(sd.Members, element)
		}
	}
	if sd.Subset != "" && len(sd.Members) > 0 {
		return sd, &CompileError{
			Field:   field,
			Message: "subset and members are mutually exclusive",
			Pos:     v.Pos(),
		}
	}

	sd.Leaves, err = optionalBool(v, "leaves")
	if err != nil {
		return sd, err
	}

	levelVal := v.LookupPath(cue.ParsePath("filterLevel"))
	if levelVal.Exists() {
		level, err := levelVal.Int64()
		if err != nil {
			return sd, formatCUEError(err)
		}
		if level < 0 {
			return sd, &CompileError{
				Field:   field + ".filterLevel",
				Message: fmt.Sprintf("level must be non-negative, got %d", level),
				Pos:     levelVal.Pos(),
			}
		}
		l := int(level)
		sd.FilterLevel = &l
	}

	sd.FilterPattern, err = optionalString(v, "filterPattern")
	if err != nil {
		return sd, err
	}

	sortVal := v.LookupPath(cue.ParsePath("sort"))
	if sortVal.Exists() {
		raw, err := sortVal.String()
		if err != nil {
			return sd, formatCUEError(err)
		}
		order, parseErr := mdx.ParseOrder(raw)
		if parseErr != nil {
			return sd, &CompileError{
				Field:   field + ".sort",
				Message: fmt.Sprintf("invalid sort direction %q", raw),
				Pos:     sortVal.Pos(),
			}
		}
		// Subset sorting is by name, which only supports the plain
		// directions.
		if order != mdx.OrderAsc && order != mdx.OrderDesc {
			return sd, &CompileError{
				Field:   field + ".sort",
				Message: fmt.Sprintf("name sort supports asc or desc, got %q", raw),
				Pos:     sortVal.Pos(),
			}
		}
		sd.Sort = order
	}

	sd.Head, err = optionalCount(v, "head", field)
	if err != nil {
		return sd, err
	}
	sd.Tail, err = optionalCount(v, "tail", field)
	if err != nil {
		return sd, err
	}

	return sd, nil
}

func parseMembers(v cue.Value, field string) ([]MemberDef, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var members []MemberDef
	for i := 0; iter.Next(); i++ {
		m, err := parseMember(iter.Value(), fmt.Sprintf("%s[%d]", field, i))
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, nil
}

func parseMember(v cue.Value, field string) (MemberDef, error) {
	m := MemberDef{}
	var err error
	m.Dimension, err = requiredString(v, "dimension", field)
	if err != nil {
		return m, err
	}
	m.Hierarchy, err = optionalString(v, "hierarchy")
	if err != nil {
		return m, err
	}
	m.Element, err = requiredString(v, "element", field)
	if err != nil {
		return m, err
	}
	return m, nil
}

func parseProperty(v cue.Value, field string) (PropertyDef, error) {
	p := PropertyDef{}
	var err error
	p.Dimension, err = optionalString(v, "dimension")
	if err != nil {
		return p, err
	}
	p.Hierarchy, err = optionalString(v, "hierarchy")
	if err != nil {
		return p, err
	}
	p.Property, err = requiredString(v, "property", field)
	if err != nil {
		return p, err
	}
	// MEMBER_NAME is intrinsic and needs no dimension; everything else
	// belongs to one.
	if p.Dimension == "" && strings.ToUpper(p.Property) != "MEMBER_NAME" {
		return p, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("dimension is required for property %q", p.Property),
			Pos:     v.Pos(),
		}
	}
	return p, nil
}

func parseCalc(v cue.Value, field string) (CalcDef, error) {
	c := CalcDef{}
	var err error
	c.Dimension, err = requiredString(v, "dimension", field)
	if err != nil {
		return c, err
	}
	c.Hierarchy, err = optionalString(v, "hierarchy")
	if err != nil {
		return c, err
	}
	c.Element, err = requiredString(v, "element", field)
	if err != nil {
		return c, err
	}

	agg, err := requiredString(v, "aggregation", field)
	if err != nil {
		return c, err
	}
	aggVal := v.LookupPath(cue.ParsePath("aggregation"))
	switch strings.ToUpper(agg) {
	case "SUM":
		c.Aggregation = mdx.AggregateSum
	case "AVG":
		c.Aggregation = mdx.AggregateAvg
	case "MAX":
		c.Aggregation = mdx.AggregateMax
	case "MIN":
		c.Aggregation = mdx.AggregateMin
	case "COUNT":
		c.Aggregation = mdx.AggregateCount
	default:
		return c, &CompileError{
			Field:   field + ".aggregation",
			Message: fmt.Sprintf("unsupported aggregation %q, want SUM, AVG, MAX, MIN or COUNT", agg),
			Pos:     aggVal.Pos(),
		}
	}

	c.Cube, err = requiredString(v, "cube", field)
	if err != nil {
		return c, err
	}

	setVal := v.LookupPath(cue.ParsePath("set"))
	if !setVal.Exists() {
		return c, &CompileError{
			Field:   field + ".set",
			Message: "set is required",
			Pos:     v.Pos(),
		}
	}
	c.Set, err = parseSet(setVal, field+".set")
	if err != nil {
		return c, err
	}

	tupleVal := v.LookupPath(cue.ParsePath("tuple"))
	if !tupleVal.Exists() {
		return c, &CompileError{
			Field:   field + ".tuple",
			Message: "tuple is required",
			Pos:     v.Pos(),
		}
	}
	c.Tuple, err = parseMembers(tupleVal, field+".tuple")
	if err != nil {
		return c, err
	}
	if len(c.Tuple) == 0 {
		return c, &CompileError{
			Field:   field + ".tuple",
			Message: "tuple has no members",
			Pos:     tupleVal.Pos(),
		}
	}

	return c, nil
}

// requiredString reads a string field that must exist and be non-empty.
// field is the parent path for error reporting; empty means top level.
func requiredString(v cue.Value, name, field string) (string, error) {
	path := name
	if field != "" {
		path = field + "." + name
	}
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return "", &CompileError{
			Field:   path,
			Message: name + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	if s == "" {
		return "", &CompileError{
			Field:   path,
			Message: name + " is empty",
			Pos:     val.Pos(),
		}
	}
	return s, nil
}

func optionalString(v cue.Value, name string) (string, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return "", nil
	}
	s, err := val.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func optionalBool(v cue.Value, name string) (bool, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return false, nil
	}
	b, err := val.Bool()
	if err != nil {
		return false, formatCUEError(err)
	}
	return b, nil
}

// optionalCount reads an optional positive count field.
func optionalCount(v cue.Value, name, field string) (int, error) {
	val := v.LookupPath(cue.ParsePath(name))
	if !val.Exists() {
		return 0, nil
	}
	n, err := val.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	if n < 1 {
		return 0, &CompileError{
			Field:   field + "." + name,
			Message: fmt.Sprintf("count must be positive, got %d", n),
			Pos:     val.Pos(),
		}
	}
	return int(n), nil
}
