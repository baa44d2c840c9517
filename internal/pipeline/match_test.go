package pipeline

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-cli/internal/model"
)

func normalized(label string, seq int) model.NormalizedField {
	return model.NormalizedField{
		Label: label,
		Kind:  model.KindText,
		Raw: model.RawField{
			Label:   label,
			Source:  model.SourceRef{Kind: model.SourceKeyValue, Sequence: seq},
			Damping: 1.0,
		},
	}
}

func TestMatch_ExactPatternScoresOne(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_scope1", model.CategoryEnvironmental, model.KindNumeric, []string{"scope 1 emissions"}),
	)

	candidates := Match([]model.NormalizedField{normalized("scope 1 emissions", 0)}, reg, DefaultScoring())

	require.Len(t, candidates, 1)
	assert.Equal(t, "ghg_scope1", candidates[0].MetricID)
	assert.Equal(t, 1.0, candidates[0].Confidence)
	assert.Equal(t, "scope 1 emissions", candidates[0].Pattern)
}

func TestMatch_PartialScoresByCoverage(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_scope1", model.CategoryEnvironmental, model.KindNumeric, []string{"scope 1 emissions"}),
	)
	label := "scope 1 emissions total" // pattern covers 17 of 23 runes

	candidates := Match([]model.NormalizedField{normalized(label, 0)}, reg, DefaultScoring())

	require.Len(t, candidates, 1)
	assert.InDelta(t, 17.0/23.0, candidates[0].Confidence, 1e-9)
}

func TestMatch_PartialClampedToFloor(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_total", model.CategoryEnvironmental, model.KindNumeric, []string{"emissions"}),
	)
	label := "corporate emissions summary" // 9 of 27 would score 0.33

	candidates := Match([]model.NormalizedField{normalized(label, 0)}, reg, DefaultScoring())

	require.Len(t, candidates, 1)
	assert.Equal(t, 0.4, candidates[0].Confidence)
}

func TestMatch_PartialClampedToCeiling(t *testing.T) {
	reg := testRegistry(
		testDef("m", model.CategoryGovernance, model.KindText, []string{"x{20}"}),
	)
	label := strings.Repeat("x", 21) // 20 of 21 would score above 0.95

	candidates := Match([]model.NormalizedField{normalized(label, 0)}, reg, DefaultScoring())

	require.Len(t, candidates, 1)
	assert.Equal(t, 0.95, candidates[0].Confidence)
}

func TestMatch_ConfigurableBounds(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_total", model.CategoryEnvironmental, model.KindNumeric, []string{"emissions"}),
	)
	label := "corporate emissions summary"

	candidates := Match([]model.NormalizedField{normalized(label, 0)}, reg, Scoring{MinPartial: 0.2, MaxPartial: 0.9})

	require.Len(t, candidates, 1)
	assert.InDelta(t, 9.0/27.0, candidates[0].Confidence, 1e-9)
}

func TestMatch_CaseInsensitive(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_scope1", model.CategoryEnvironmental, model.KindNumeric, []string{"SCOPE 1 EMISSIONS"}),
	)

	candidates := Match([]model.NormalizedField{normalized("scope 1 emissions", 0)}, reg, DefaultScoring())

	require.Len(t, candidates, 1)
	assert.Equal(t, 1.0, candidates[0].Confidence)
}

func TestMatch_NoHitNoCandidate(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_scope1", model.CategoryEnvironmental, model.KindNumeric, []string{"scope 1 emissions"}),
	)

	candidates := Match([]model.NormalizedField{normalized("total revenue", 0)}, reg, DefaultScoring())

	assert.Empty(t, candidates)
}

func TestMatch_EmptyLabelSkipped(t *testing.T) {
	reg := testRegistry(
		testDef("m", model.CategoryGovernance, model.KindText, []string{".*"}),
	)

	candidates := Match([]model.NormalizedField{normalized("", 0)}, reg, DefaultScoring())

	assert.Empty(t, candidates)
}

func TestMatch_BestPatternWinsPerMetric(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_scope1", model.CategoryEnvironmental, model.KindNumeric,
			[]string{"emissions", "scope 1 emissions"}),
	)

	candidates := Match([]model.NormalizedField{normalized("scope 1 emissions", 0)}, reg, DefaultScoring())

	require.Len(t, candidates, 1)
	assert.Equal(t, 1.0, candidates[0].Confidence)
	assert.Equal(t, "scope 1 emissions", candidates[0].Pattern)
}

func TestMatch_DampingScalesConfidence(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_scope1", model.CategoryEnvironmental, model.KindNumeric, []string{"scope 1 emissions"}),
	)
	field := normalized("scope 1 emissions", 0)
	field.Raw.Damping = 0.6
	field.Raw.Source.Kind = model.SourceContent

	candidates := Match([]model.NormalizedField{field}, reg, DefaultScoring())

	require.Len(t, candidates, 1)
	assert.InDelta(t, 0.6, candidates[0].Confidence, 1e-9)
}

func TestMatch_FieldOrderIndependent(t *testing.T) {
	reg := testRegistry(
		testDef("ghg_scope1", model.CategoryEnvironmental, model.KindNumeric, []string{"scope 1 emissions"}),
		testDef("employee_count", model.CategorySocial, model.KindNumeric, []string{"employees"}),
	)
	fields := []model.NormalizedField{
		normalized("scope 1 emissions", 0),
		normalized("total employees", 1),
		normalized("scope 1 emissions intensity", 2),
	}
	reversed := []model.NormalizedField{fields[2], fields[1], fields[0]}

	assert.Equal(t, candidateSet(Match(fields, reg, DefaultScoring())),
		candidateSet(Match(reversed, reg, DefaultScoring())))
}

// candidateSet keys candidates by identity so ordering differences vanish.
func candidateSet(candidates []model.CandidateMatch) map[string]float64 {
	set := make(map[string]float64, len(candidates))
	for _, c := range candidates {
		key := fmt.Sprintf("%s/%d", c.MetricID, c.Field.Raw.Source.Sequence)
		set[key] = c.Confidence
	}
	return set
}
