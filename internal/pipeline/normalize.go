package pipeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/sells-group/esg-cli/internal/model"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	numberRe     = regexp.MustCompile(`^([-+]?[0-9][0-9,]*(?:\.[0-9]+)?)\s*(.*)$`)
)

// dateLayouts are the formats recognized as date values. Bare years are
// deliberately excluded: "2023" is a legitimate numeric value.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2006",
}

// Normalizer converts raw extracted fields into the uniform intermediate
// representation. Stateless apart from the read-only registry; safe for
// concurrent use across runs.
type Normalizer struct {
	reg *model.MetricRegistry
}

// NewNormalizer returns a normalizer backed by the catalog's unit table.
func NewNormalizer(reg *model.MetricRegistry) *Normalizer {
	return &Normalizer{reg: reg}
}

// Normalize derives the NormalizedField for one RawField. Pure and
// deterministic; malformed values degrade to text-only, never error.
func (n *Normalizer) Normalize(raw model.RawField) model.NormalizedField {
	nf := model.NormalizedField{
		Label: CleanLabel(raw.Label),
		Value: cleanValue(raw.Value),
		Kind:  model.KindText,
		Raw:   raw,
	}

	if nf.Value == "" {
		return nf
	}

	if isDate(nf.Value) {
		nf.Kind = model.KindDate
		return nf
	}

	numPart, rest, ok := splitNumber(nf.Value)
	if !ok {
		return nf
	}

	f, err := strconv.ParseFloat(strings.ReplaceAll(numPart, ",", ""), 64)
	if err != nil {
		return nf
	}
	nf.Numeric = &f
	nf.Kind = model.KindNumeric

	switch {
	case rest == "%":
		nf.Unit = "%"
		nf.Kind = model.KindPercentage
	case rest != "":
		if canonical, known := n.reg.CanonicalUnit(rest); known {
			nf.Unit = canonical
			if canonical == "%" {
				nf.Kind = model.KindPercentage
			}
		}
	}

	return nf
}

// NormalizeAll maps Normalize over a field sequence, preserving order.
func (n *Normalizer) NormalizeAll(fields []model.RawField) []model.NormalizedField {
	out := make([]model.NormalizedField, len(fields))
	for i, f := range fields {
		out[i] = n.Normalize(f)
	}
	return out
}

// CleanLabel lowercases via Unicode case folding, collapses internal
// whitespace, and strips separator punctuation (colons, periods) from the
// label boundaries. Interior punctuation is preserved.
func CleanLabel(label string) string {
	s := cases.Fold().String(label)
	s = whitespaceRe.ReplaceAllString(s, " ")
	s = strings.Trim(s, " \t:.")
	return s
}

func cleanValue(value string) string {
	s := whitespaceRe.ReplaceAllString(value, " ")
	return strings.TrimSpace(s)
}

// splitNumber separates a leading numeric token from any trailing unit
// text. A leading currency sigil is tolerated.
func splitNumber(s string) (numPart, rest string, ok bool) {
	s = strings.TrimPrefix(s, "$")
	m := numberRe.FindStringSubmatch(s)
	if m == nil {
		return "", "", false
	}
	return m[1], strings.TrimSpace(m[2]), true
}

func isDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
