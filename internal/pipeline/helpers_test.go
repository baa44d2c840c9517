package pipeline

import (
	"regexp"

	"github.com/sells-group/esg-cli/internal/model"
)

func testDef(id string, cat model.Category, kind model.ValueKind, patterns []string, units ...string) model.MetricDefinition {
	d := model.MetricDefinition{
		ID:           id,
		Category:     cat,
		DisplayName:  id,
		Patterns:     patterns,
		ExpectedKind: kind,
		UnitSynonyms: units,
	}
	for _, p := range patterns {
		d.CompiledPatterns = append(d.CompiledPatterns, regexp.MustCompile("(?i)"+p))
	}
	return d
}

func testRegistry(defs ...model.MetricDefinition) *model.MetricRegistry {
	return model.NewMetricRegistry(defs)
}

func kvRaw(label, value string, seq int) model.RawField {
	return model.RawField{
		Label: label,
		Value: value,
		Source: model.SourceRef{
			Kind:     model.SourceKeyValue,
			Sequence: seq,
		},
		UpstreamConfidence: 1.0,
		Damping:            1.0,
	}
}
