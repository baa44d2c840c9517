package pipeline

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-cli/internal/model"
)

func scenarioRegistry() *model.MetricRegistry {
	return testRegistry(
		testDef("ghg_scope1_emissions", model.CategoryEnvironmental, model.KindNumeric,
			[]string{"scope 1 emissions"}, "tCO2e", "tco2e"),
	)
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	}
}

func TestEngine_SingleMetricFullMatch(t *testing.T) {
	engine := New(scenarioRegistry(), Options{now: fixedClock()})
	payload := model.AnalysisResult{
		Filename: "report.xlsx",
		KeyValuePairs: []model.KeyValuePair{
			{Key: "Scope 1 Emissions", Value: "1,250 tCO2e", Confidence: 0.97},
		},
	}

	report, err := engine.Run(payload, "corr-a")
	require.NoError(t, err)

	require.Equal(t, 1, report.Summary.MetricsFound)
	assert.Equal(t, 1.0, report.Summary.Coverage)
	assert.Equal(t, 1.0, report.Summary.MeanConfidence)

	rm := report.Categories[0].Metrics[0]
	assert.True(t, rm.Found)
	assert.Equal(t, "ghg_scope1_emissions", rm.MetricID)
	require.NotNil(t, rm.Numeric)
	assert.Equal(t, 1250.0, *rm.Numeric)
	assert.Equal(t, "tCO2e", rm.Unit)
	assert.Equal(t, model.KindNumeric, rm.ValueKind)
	assert.Equal(t, 1.0, rm.Confidence)
	require.NotNil(t, rm.Provenance)
	assert.Equal(t, model.SourceKeyValue, rm.Provenance.Kind)
}

func TestEngine_NoMatchYieldsExplicitNotFound(t *testing.T) {
	engine := New(scenarioRegistry(), Options{now: fixedClock()})
	payload := model.AnalysisResult{
		Filename: "report.xlsx",
		KeyValuePairs: []model.KeyValuePair{
			{Key: "Annual Revenue", Value: "$4.2B", Confidence: 0.95},
		},
	}

	report, err := engine.Run(payload, "corr-b")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.MetricsFound)
	assert.Equal(t, 0.0, report.Summary.Coverage)
	assert.Equal(t, 0.0, report.Summary.MeanConfidence)

	rm := report.Categories[0].Metrics[0]
	assert.False(t, rm.Found)
	assert.Nil(t, rm.Provenance)
	assert.True(t, hasWarning(report, model.WarnNoMetricsFound))
}

func TestEngine_EmptyPayloadAborts(t *testing.T) {
	engine := New(scenarioRegistry(), Options{now: fixedClock()})

	report, err := engine.Run(model.AnalysisResult{Filename: "empty.xlsx"}, "corr-c")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Nil(t, report)
}

func TestEngine_Idempotent(t *testing.T) {
	engine := New(scenarioRegistry(), Options{now: fixedClock()})
	payload := model.AnalysisResult{
		Filename: "report.xlsx",
		Tables: []model.Table{{
			TableID: 1,
			Cells: []model.TableCell{
				{RowIndex: 0, ColumnIndex: 0, Content: "Metric"},
				{RowIndex: 1, ColumnIndex: 0, Content: "Scope 1 Emissions"},
				{RowIndex: 1, ColumnIndex: 1, Content: "1,250 tCO2e"},
			},
		}},
		KeyValuePairs: []model.KeyValuePair{
			{Key: "Scope 1 Emissions (est.)", Value: "1,300 tCO2e", Confidence: 0.7},
		},
	}

	first, err := engine.Run(payload, "corr-fixed")
	require.NoError(t, err)
	second, err := engine.Run(payload, "corr-fixed")
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestEngine_TableBeatsLowerScoredKV(t *testing.T) {
	engine := New(scenarioRegistry(), Options{now: fixedClock()})
	payload := model.AnalysisResult{
		Filename: "report.xlsx",
		Tables: []model.Table{{
			TableID: 1,
			Cells: []model.TableCell{
				{RowIndex: 1, ColumnIndex: 0, Content: "Scope 1 Emissions"},
				{RowIndex: 1, ColumnIndex: 1, Content: "1,250 tCO2e"},
			},
		}},
		// Longer label scores a partial match, so the exact table hit wins.
		KeyValuePairs: []model.KeyValuePair{
			{Key: "Scope 1 Emissions market-based estimate", Value: "1,300 tCO2e", Confidence: 0.9},
		},
	}

	report, err := engine.Run(payload, "corr-d")
	require.NoError(t, err)

	rm := report.Categories[0].Metrics[0]
	require.True(t, rm.Found)
	assert.Equal(t, 1250.0, *rm.Numeric)
	assert.Equal(t, 1.0, rm.Confidence)
	assert.Equal(t, model.SourceTable, rm.Provenance.Kind)
}

func TestEngine_ContentOnlyPayload(t *testing.T) {
	engine := New(scenarioRegistry(), Options{now: fixedClock()})
	payload := model.AnalysisResult{
		Filename: "narrative.xlsx",
		Content:  "Scope 1 emissions: 1,250 tCO2e",
	}

	report, err := engine.Run(payload, "corr-e")
	require.NoError(t, err)

	rm := report.Categories[0].Metrics[0]
	require.True(t, rm.Found)
	assert.Equal(t, model.SourceContent, rm.Provenance.Kind)
	// Free-text evidence carries damped confidence.
	assert.InDelta(t, 0.6, rm.Confidence, 1e-9)
}

func TestEngine_KVFloorAppliedThroughOptions(t *testing.T) {
	engine := New(scenarioRegistry(), Options{now: fixedClock(), MinKVConfidence: 0.5})
	payload := model.AnalysisResult{
		Filename: "report.xlsx",
		KeyValuePairs: []model.KeyValuePair{
			{Key: "Scope 1 Emissions", Value: "1,250 tCO2e", Confidence: 0.2},
		},
	}

	report, err := engine.Run(payload, "corr-f")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Summary.MetricsFound)
	assert.True(t, hasWarning(report, model.WarnLowConfidenceKV))
	assert.True(t, hasWarning(report, model.WarnNoFields))
}
