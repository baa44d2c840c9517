package pipeline

import (
	"github.com/sells-group/esg-cli/internal/model"
)

// Scoring bounds the partial-match confidence range. The exact scaling
// curve is configuration, not code: tune via config rather than editing
// the matcher.
type Scoring struct {
	MinPartial float64
	MaxPartial float64
}

// DefaultScoring returns the standard partial-match confidence bounds.
func DefaultScoring() Scoring {
	return Scoring{MinPartial: 0.4, MaxPartial: 0.95}
}

// Match scores every normalized field against every catalog definition and
// emits a candidate per (field, metric) pair that has at least one pattern
// hit. Pure and order-independent: the candidate set is a function of the
// inputs alone, regardless of sequence order.
//
// Scoring: a pattern covering the whole cleaned label scores 1.0; a partial
// hit scores matched-length/label-length clamped to [MinPartial, MaxPartial].
// The highest-scoring pattern wins for each pair. Lower-trust sources carry
// a damping factor applied after pattern scoring.
func Match(fields []model.NormalizedField, reg *model.MetricRegistry, sc Scoring) []model.CandidateMatch {
	var candidates []model.CandidateMatch

	for _, field := range fields {
		if field.Label == "" {
			continue
		}
		for di := range reg.Defs {
			def := &reg.Defs[di]

			bestScore := 0.0
			bestPattern := ""
			for pi, re := range def.CompiledPatterns {
				loc := re.FindStringIndex(field.Label)
				if loc == nil {
					continue
				}
				score := scoreSpan(loc[1]-loc[0], len(field.Label), sc)
				if score > bestScore {
					bestScore = score
					bestPattern = def.Patterns[pi]
				}
			}
			if bestScore == 0 {
				continue
			}

			damping := field.Raw.Damping
			if damping <= 0 || damping > 1 {
				damping = 1.0
			}

			candidates = append(candidates, model.CandidateMatch{
				MetricID:   def.ID,
				Field:      field,
				Confidence: bestScore * damping,
				Pattern:    bestPattern,
			})
		}
	}

	return candidates
}

// scoreSpan converts a match span into a confidence score. A full-label
// match is exact; anything shorter is scaled by coverage and clamped.
func scoreSpan(matchLen, labelLen int, sc Scoring) float64 {
	if labelLen == 0 || matchLen <= 0 {
		return 0
	}
	if matchLen >= labelLen {
		return 1.0
	}
	score := float64(matchLen) / float64(labelLen)
	if score < sc.MinPartial {
		return sc.MinPartial
	}
	if score > sc.MaxPartial {
		return sc.MaxPartial
	}
	return score
}
