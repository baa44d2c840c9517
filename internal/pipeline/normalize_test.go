package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/esg-cli/internal/model"
)

func emissionsRegistry() *model.MetricRegistry {
	return testRegistry(
		testDef("ghg_scope1", model.CategoryEnvironmental, model.KindNumeric,
			[]string{"scope 1 emissions"}, "tCO2e", "tco2e", "tonnes co2e"),
		testDef("renewable_share", model.CategoryEnvironmental, model.KindPercentage,
			[]string{"renewable energy"}, "%", "percent", "pct"),
	)
}

func TestCleanLabel(t *testing.T) {
	assert.Equal(t, "scope 1 emissions", CleanLabel("  Scope 1   EMISSIONS: "))
	assert.Equal(t, "ghg (scope 1) total", CleanLabel("GHG (Scope 1) Total."))
	assert.Equal(t, "", CleanLabel(" : "))
}

func TestNormalize_NumericWithThousandsSeparatorAndUnit(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Scope 1 Emissions", "1,250 tCO2e", 0))

	require.NotNil(t, nf.Numeric)
	assert.Equal(t, 1250.0, *nf.Numeric)
	assert.Equal(t, "tCO2e", nf.Unit)
	assert.Equal(t, model.KindNumeric, nf.Kind)
	assert.Equal(t, "scope 1 emissions", nf.Label)
}

func TestNormalize_UnitSynonymCanonicalized(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Scope 1 Emissions", "900 tonnes CO2e", 0))

	require.NotNil(t, nf.Numeric)
	assert.Equal(t, 900.0, *nf.Numeric)
	assert.Equal(t, "tCO2e", nf.Unit)
}

func TestNormalize_PercentSign(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Renewable Energy", "42.5%", 0))

	require.NotNil(t, nf.Numeric)
	assert.Equal(t, 42.5, *nf.Numeric)
	assert.Equal(t, "%", nf.Unit)
	assert.Equal(t, model.KindPercentage, nf.Kind)
}

func TestNormalize_PercentWord(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Renewable Energy", "38 percent", 0))

	require.NotNil(t, nf.Numeric)
	assert.Equal(t, 38.0, *nf.Numeric)
	assert.Equal(t, "%", nf.Unit)
	assert.Equal(t, model.KindPercentage, nf.Kind)
}

func TestNormalize_Date(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Reporting Date", "2023-01-15", 0))

	assert.Equal(t, model.KindDate, nf.Kind)
	assert.Nil(t, nf.Numeric)
}

func TestNormalize_BareYearIsNumeric(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Reporting Year", "2023", 0))

	require.NotNil(t, nf.Numeric)
	assert.Equal(t, 2023.0, *nf.Numeric)
	assert.Equal(t, model.KindNumeric, nf.Kind)
}

func TestNormalize_MalformedValueDegradesToText(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Scope 1 Emissions", "approximately ten", 0))

	assert.Equal(t, model.KindText, nf.Kind)
	assert.Nil(t, nf.Numeric)
	assert.Empty(t, nf.Unit)
	assert.Equal(t, "approximately ten", nf.Value)
}

func TestNormalize_UnknownUnitStaysNumeric(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Output", "300 widgets", 0))

	require.NotNil(t, nf.Numeric)
	assert.Equal(t, 300.0, *nf.Numeric)
	assert.Empty(t, nf.Unit)
	assert.Equal(t, model.KindNumeric, nf.Kind)
}

func TestNormalize_CurrencyPrefixTolerated(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())

	nf := n.Normalize(kvRaw("Spend", "$1,000", 0))

	require.NotNil(t, nf.Numeric)
	assert.Equal(t, 1000.0, *nf.Numeric)
}

func TestNormalize_Deterministic(t *testing.T) {
	n := NewNormalizer(emissionsRegistry())
	raw := kvRaw("Scope 1 Emissions", "1,250 tCO2e", 3)

	assert.Equal(t, n.Normalize(raw), n.Normalize(raw))
}
