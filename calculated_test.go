package mdx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLine(t *testing.T, cm *CalculatedMember) string {
	t.Helper()
	got, err := cm.MDX()
	require.NoError(t, err)
	return got
}

func TestNewAvgMember(t *testing.T) {
	cm := NewAvgMember("Period", "Period", "AVG 2016", "Cube",
		Children(NewMember("Period", "2016")),
		NewTuple(NewMember("Dim1", "Total Dim1"), NewMember("Dim2", "Total Dim2")))

	assert.Equal(t,
		"MEMBER [PERIOD].[PERIOD].[AVG2016] AS AVG({[PERIOD].[PERIOD].[2016].CHILDREN},[CUBE].([DIM1].[DIM1].[TOTALDIM1],[DIM2].[DIM2].[TOTALDIM2]))",
		mustLine(t, cm))
	assert.Equal(t, "[PERIOD].[PERIOD].[AVG2016]", cm.Member().UniqueName())
}

func TestNewSumMember(t *testing.T) {
	cm := NewSumMember("Period", "Period", "Sum 2016", "Cube",
		Children(NewMember("Period", "2016")),
		NewTuple(NewMember("Dim1", "Total Dim1")))

	assert.Equal(t,
		"MEMBER [PERIOD].[PERIOD].[SUM2016] AS SUM({[PERIOD].[PERIOD].[2016].CHILDREN},[CUBE].([DIM1].[DIM1].[TOTALDIM1]))",
		mustLine(t, cm))
}

func TestNewAggregateMember_AllFunctions(t *testing.T) {
	over := Children(NewMember("Period", "2016"))
	cells := NewTuple(NewMember("Dim1", "Total Dim1"))

	for _, agg := range []Aggregation{AggregateSum, AggregateAvg, AggregateMax, AggregateMin, AggregateCount} {
		t.Run(string(agg), func(t *testing.T) {
			cm := NewAggregateMember("Period", "Period", "calc", agg, "Cube", over, cells)
			line := mustLine(t, cm)
			assert.Equal(t, "MEMBER [PERIOD].[PERIOD].[CALC] AS "+string(agg)+"({[PERIOD].[PERIOD].[2016].CHILDREN},[CUBE].([DIM1].[DIM1].[TOTALDIM1]))", line)
		})
	}
}

func TestNewAggregateMember_AnyToken(t *testing.T) {
	over := Children(NewMember("Period", "2016"))
	cells := NewTuple(NewMember("Dim1", "Total Dim1"))

	cm := NewAggregateMember("Period", "Period", "calc", Aggregation("median"), "Cube", over, cells)
	assert.Equal(t,
		"MEMBER [PERIOD].[PERIOD].[CALC] AS MEDIAN({[PERIOD].[PERIOD].[2016].CHILDREN},[CUBE].([DIM1].[DIM1].[TOTALDIM1]))",
		mustLine(t, cm))
}

func TestNewAggregateMember_Invalid(t *testing.T) {
	over := Children(NewMember("Period", "2016"))
	cells := NewTuple(NewMember("Dim1", "Total Dim1"))

	_, err := NewAggregateMember("Period", "Period", "calc", Aggregation(" "), "Cube", over, cells).MDX()
	require.Error(t, err)
	assert.True(t, IsConstructionError(err))

	// An errored set propagates its own error.
	_, err = NewAggregateMember("Period", "Period", "calc", AggregateSum, "Cube", Members(), cells).MDX()
	require.Error(t, err)
	var ce *ConstructionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ErrCodeEmptyMembers, ce.Code)

	_, err = NewAggregateMember("Period", "Period", "calc", AggregateSum, "Cube", over, NewTuple()).MDX()
	require.Error(t, err)
}

func TestNewCalculatedMember_RawExpression(t *testing.T) {
	cm := NewCalculatedMember("Measure", "Measure", "Margin",
		"[MEASURE].[MEASURE].[REVENUE]-[MEASURE].[MEASURE].[COST]")

	assert.Equal(t,
		"MEMBER [MEASURE].[MEASURE].[MARGIN] AS [MEASURE].[MEASURE].[REVENUE]-[MEASURE].[MEASURE].[COST]",
		mustLine(t, cm))
}

func TestNewCalculatedMember_EmptyExpression(t *testing.T) {
	_, err := NewCalculatedMember("Measure", "Measure", "Margin", "").MDX()
	require.Error(t, err)
	assert.True(t, IsConstructionError(err))
}

func TestNewLookupMember(t *testing.T) {
	cm := NewLookupMember("Target", "Target", "Rate", "Source Cube",
		NewTuple(NewMember("Version", "Actual")))

	assert.Equal(t,
		"MEMBER [TARGET].[TARGET].[RATE] AS [SOURCECUBE].([VERSION].[VERSION].[ACTUAL])",
		mustLine(t, cm))
}

func TestNewAttributeLookupMember(t *testing.T) {
	cm := NewAttributeLookupMember("Period", "Period", "X", "Version", "Attribute1")

	assert.Equal(t,
		"MEMBER [PERIOD].[PERIOD].[X] AS [}ELEMENTATTRIBUTES_VERSION].([}ELEMENTATTRIBUTES_VERSION].[ATTRIBUTE1])",
		mustLine(t, cm))
}

func TestNewPropertyLookupMember(t *testing.T) {
	cm := NewPropertyLookupMember("Period", "Period", "Name", "MEMBER_NAME",
		NewCurrentMember("Period"), false)

	assert.Equal(t,
		"MEMBER [PERIOD].[PERIOD].[NAME] AS [PERIOD].[PERIOD].CURRENTMEMBER.PROPERTIES('MEMBER_NAME')",
		mustLine(t, cm))
}

func TestNewPropertyLookupMember_Typed(t *testing.T) {
	cm := NewPropertyLookupMember("Period", "Period", "W", "Weight",
		NewMember("Period", "Jan"), true)

	assert.Equal(t,
		"MEMBER [PERIOD].[PERIOD].[W] AS [PERIOD].[PERIOD].[JAN].PROPERTIES('Weight',TYPED)",
		mustLine(t, cm))
}

func TestNewPropertyLookupMember_NilTarget(t *testing.T) {
	_, err := NewPropertyLookupMember("Period", "Period", "W", "Weight", nil, false).MDX()
	require.Error(t, err)
	assert.True(t, IsConstructionError(err))
}

func TestCalculatedMember_NilMDX(t *testing.T) {
	var cm *CalculatedMember
	_, err := cm.MDX()
	require.Error(t, err)
}
