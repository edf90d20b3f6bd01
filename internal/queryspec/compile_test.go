package queryspec

import (
	"os"
	"path/filepath"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/mdx"
)

func TestCompileBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [
			{sets: [{dimension: "Measure", members: ["Amount"]}]},
			{sets: [{dimension: "Region", leaves: true}]},
		]
		where: [{dimension: "Version", element: "Actual"}]
	`)

	require.NoError(t, v.Err())
	def, err := Compile(v)
	require.NoError(t, err)

	assert.Equal(t, "SALES", def.Cube)
	require.Len(t, def.Axes, 2)
	require.Len(t, def.Axes[0].Sets, 1)
	assert.Equal(t, "Measure", def.Axes[0].Sets[0].Dimension)
	assert.Equal(t, []string{"Amount"}, def.Axes[0].Sets[0].Members)
	assert.True(t, def.Axes[1].Sets[0].Leaves)
	require.Len(t, def.Where, 1)
	assert.Equal(t, "Version", def.Where[0].Dimension)

	got, err := def.Render()
	require.NoError(t, err)
	want := "SELECT {[MEASURE].[MEASURE].[AMOUNT]} ON 0,\n" +
		"{TM1FILTERBYLEVEL({TM1SUBSETALL([REGION].[REGION])},0)} ON 1\n" +
		"FROM [SALES]\n" +
		"WHERE ([VERSION].[VERSION].[ACTUAL])"
	assert.Equal(t, want, got)
}

func TestCompileMissingCube(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		axes: [{sets: [{dimension: "Region"}]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cube")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileEmptyCube(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: ""
		axes: [{sets: [{dimension: "Region"}]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "cube is empty")
}

func TestCompileMissingAxes(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`cube: "SALES"`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "axes")
	assert.Contains(t, err.Error(), "at least one axis")
}

func TestCompileEmptyAxes(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: []
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one axis")
}

func TestCompileAxisWithoutContent(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{nonEmpty: true}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "axes[0]")
	assert.Contains(t, err.Error(), "sets or tuples")
}

func TestCompileAxisMixedContent(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{
			sets: [{dimension: "Region"}]
			tuples: [[{dimension: "Product", element: "P1"}]]
		}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "both sets and tuples")
}

func TestCompileNamedSubset(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Time", hierarchy: "Fiscal", subset: "Q1"}]}]
	`)

	require.NoError(t, v.Err())
	def, err := Compile(v)
	require.NoError(t, err)

	got, err := def.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT {TM1SUBSETTOSET([TIME].[FISCAL],'Q1')} ON 0\nFROM [SALES]", got)
}

func TestCompileSubsetAndMembersConflict(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region", subset: "North", members: ["West"]}]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestCompileTransformOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{
			dimension: "Product"
			filterPattern: "A*"
			sort: "asc"
			head: 5
		}]}]
	`)

	require.NoError(t, v.Err())
	def, err := Compile(v)
	require.NoError(t, err)

	got, err := def.Render()
	require.NoError(t, err)
	want := "SELECT {HEAD({TM1SORT({TM1FILTERBYPATTERN({TM1SUBSETALL([PRODUCT].[PRODUCT])},'A*')},ASC)},5)} ON 0\n" +
		"FROM [SALES]"
	assert.Equal(t, want, got)
}

func TestCompileNegativeFilterLevel(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region", filterLevel: -1}]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "filterLevel")
	assert.Contains(t, err.Error(), "non-negative")
}

func TestCompileFilterLevelZero(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region", filterLevel: 0}]}]
	`)

	require.NoError(t, v.Err())
	def, err := Compile(v)
	require.NoError(t, err)

	require.NotNil(t, def.Axes[0].Sets[0].FilterLevel)
	assert.Equal(t, 0, *def.Axes[0].Sets[0].FilterLevel)

	got, err := def.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT {TM1FILTERBYLEVEL({TM1SUBSETALL([REGION].[REGION])},0)} ON 0\nFROM [SALES]", got)
}

func TestCompileInvalidSortDirection(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region", sort: "sideways"}]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid sort direction")
}

func TestCompileBreakSortRejected(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region", sort: "basc"}]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "asc or desc")
}

func TestCompileZeroHeadRejected(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region", head: 0}]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "head")
	assert.Contains(t, err.Error(), "positive")
}

func TestCompileTupleAxis(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{tuples: [[
			{dimension: "Product", element: "P1"},
			{dimension: "Region", element: "West"},
		]]}]
	`)

	require.NoError(t, v.Err())
	def, err := Compile(v)
	require.NoError(t, err)

	got, err := def.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT {([PRODUCT].[PRODUCT].[P1],[REGION].[REGION].[WEST])} ON 0\nFROM [SALES]", got)
}

func TestCompileEmptyTuple(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{tuples: [[]]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "tuple has no members")
}

func TestCompileNonEmptyAxis(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{nonEmpty: true, sets: [{dimension: "Region"}]}]
	`)

	require.NoError(t, v.Err())
	def, err := Compile(v)
	require.NoError(t, err)

	got, err := def.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT NON EMPTY {TM1SUBSETALL([REGION].[REGION])} ON 0\nFROM [SALES]", got)
}

func TestCompileProperties(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{
			sets: [{dimension: "Region"}]
			properties: [
				{property: "MEMBER_NAME"},
				{dimension: "Region", property: "Code"},
			]
		}]
	`)

	require.NoError(t, v.Err())
	def, err := Compile(v)
	require.NoError(t, err)

	got, err := def.Render()
	require.NoError(t, err)
	want := "SELECT {TM1SUBSETALL([REGION].[REGION])}" +
		" DIMENSION PROPERTIES MEMBER_NAME,[REGION].[REGION].[CODE] ON 0\n" +
		"FROM [SALES]"
	assert.Equal(t, want, got)
}

func TestCompilePropertyNeedsDimension(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{
			sets: [{dimension: "Region"}]
			properties: [{property: "Code"}]
		}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "dimension is required")
}

func TestCompileCalc(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{tuples: [[{dimension: "Period", element: "Q1Avg"}]]}]
		with: [{
			dimension: "Period"
			element: "Q1Avg"
			aggregation: "avg"
			cube: "SALES"
			set: {dimension: "Period", members: ["Jan", "Feb", "Mar"]}
			tuple: [{dimension: "Version", element: "Actual"}]
		}]
	`)

	require.NoError(t, v.Err())
	def, err := Compile(v)
	require.NoError(t, err)

	require.Len(t, def.With, 1)
	assert.Equal(t, mdx.AggregateAvg, def.With[0].Aggregation)

	got, err := def.Render()
	require.NoError(t, err)
	want := "WITH\n" +
		"MEMBER [PERIOD].[PERIOD].[Q1AVG] AS AVG({[PERIOD].[PERIOD].[JAN],[PERIOD].[PERIOD].[FEB],[PERIOD].[PERIOD].[MAR]},[SALES].([VERSION].[VERSION].[ACTUAL]))\n" +
		"SELECT {([PERIOD].[PERIOD].[Q1AVG])} ON 0\n" +
		"FROM [SALES]"
	assert.Equal(t, want, got)
}

func TestCompileCalcBadAggregation(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region"}]}]
		with: [{
			dimension: "Period"
			element: "Med"
			aggregation: "median"
			cube: "SALES"
			set: {dimension: "Period"}
			tuple: [{dimension: "Version", element: "Actual"}]
		}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported aggregation")
	assert.Contains(t, err.Error(), "median")
}

func TestCompileCalcMissingSet(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region"}]}]
		with: [{
			dimension: "Period"
			element: "Avg"
			aggregation: "avg"
			cube: "SALES"
			tuple: [{dimension: "Version", element: "Actual"}]
		}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "with[0].set")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileCalcMissingTuple(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: "SALES"
		axes: [{sets: [{dimension: "Region"}]}]
		with: [{
			dimension: "Period"
			element: "Avg"
			aggregation: "avg"
			cube: "SALES"
			set: {dimension: "Period"}
		}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "with[0].tuple")
	assert.Contains(t, err.Error(), "required")
}

func TestCompileInvalidCUESyntax(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`cube: this is not valid CUE`)

	// CUE compile error surfaces through Compile
	_, err := Compile(v)
	require.Error(t, err)
}

func TestCompileWrongCubeType(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		cube: 123
		axes: [{sets: [{dimension: "Region"}]}]
	`)

	require.NoError(t, v.Err())
	_, err := Compile(v)

	require.Error(t, err)
}

func TestCompileErrorFormat(t *testing.T) {
	err := &CompileError{
		Field:   "cube",
		Message: "cube is required",
	}

	assert.Equal(t, "cube: cube is required", err.Error())
}

func TestCompileFileBasic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sales.cue")
	query := "cube: \"SALES\"\naxes: [{sets: [{dimension: \"Region\"}]}]\n"
	require.NoError(t, os.WriteFile(path, []byte(query), 0o644))

	def, err := CompileFile(path)
	require.NoError(t, err)

	got, err := def.Render()
	require.NoError(t, err)
	assert.Equal(t, "SELECT {TM1SUBSETALL([REGION].[REGION])} ON 0\nFROM [SALES]", got)
}

func TestCompileFileNotFound(t *testing.T) {
	_, err := CompileFile(filepath.Join(t.TempDir(), "missing.cue"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read query file")
}

func TestCompileFileSyntaxErrorNamesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.cue")
	require.NoError(t, os.WriteFile(path, []byte("cube: {{{\n"), 0o644))

	_, err := CompileFile(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.cue")
}
