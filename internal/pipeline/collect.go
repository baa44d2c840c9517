package pipeline

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/esg-cli/internal/model"
)

// contentDamping scales pattern-match confidence for fields scavenged from
// free text, which is less trustworthy than positioned table or key-value
// extraction.
const contentDamping = 0.6

// contentLineRe matches "label: value [unit]" lines in free-text content.
var contentLineRe = regexp.MustCompile(`^([^:]+):\s*([0-9][0-9,.\s]*[0-9]|[0-9])\s*([a-zA-Z%²³/][a-zA-Z0-9%²³/]*)?\s*$`)

// CollectOptions controls field collection from the analysis payload.
type CollectOptions struct {
	// MinKVConfidence drops key-value pairs the upstream service itself
	// was unsure about. Zero keeps everything.
	MinKVConfidence float64
}

// CollectFields flattens the analysis payload into the ordered RawField
// sequence the normalizer consumes: table cells first, then key-value
// pairs, then free-text content lines. Sequence numbers follow payload
// order and are the resolver's final tie-break.
func CollectFields(payload model.AnalysisResult, opts CollectOptions) ([]model.RawField, []model.Warning) {
	var fields []model.RawField
	var warnings []model.Warning
	seq := 0

	for _, table := range payload.Tables {
		fields = append(fields, collectTable(table, &seq)...)
	}

	dropped := 0
	for i, kvp := range payload.KeyValuePairs {
		if kvp.Key == "" && kvp.Value == "" {
			continue
		}
		if opts.MinKVConfidence > 0 && kvp.Confidence < opts.MinKVConfidence {
			dropped++
			continue
		}
		fields = append(fields, model.RawField{
			Label: kvp.Key,
			Value: kvp.Value,
			Source: model.SourceRef{
				Kind:     model.SourceKeyValue,
				Sequence: seq,
				Page:     kvp.Page,
				KVIndex:  i,
			},
			UpstreamConfidence: kvp.Confidence,
			Damping:            1.0,
		})
		seq++
	}
	if dropped > 0 {
		warnings = append(warnings, model.Warning{
			Code:    model.WarnLowConfidenceKV,
			Message: fmt.Sprintf("dropped %d key-value pairs below upstream confidence %.2f", dropped, opts.MinKVConfidence),
		})
		zap.L().Debug("collect: dropped low-confidence key-value pairs",
			zap.Int("dropped", dropped),
			zap.Float64("floor", opts.MinKVConfidence),
		)
	}

	fields = append(fields, collectContent(payload.Content, &seq)...)

	return fields, warnings
}

// collectTable pairs each cell in a data row with the nearest following
// non-empty cell in the same row. Row 0 is treated as the header row and
// skipped, matching upstream extraction conventions.
func collectTable(table model.Table, seq *int) []model.RawField {
	rows := make(map[int]map[int]string)
	for _, cell := range table.Cells {
		if rows[cell.RowIndex] == nil {
			rows[cell.RowIndex] = make(map[int]string)
		}
		rows[cell.RowIndex][cell.ColumnIndex] = cell.Content
	}

	rowIdxs := make([]int, 0, len(rows))
	for r := range rows {
		rowIdxs = append(rowIdxs, r)
	}
	sort.Ints(rowIdxs)

	var fields []model.RawField
	for _, r := range rowIdxs {
		if r == 0 {
			continue
		}
		row := rows[r]

		colIdxs := make([]int, 0, len(row))
		for c := range row {
			colIdxs = append(colIdxs, c)
		}
		sort.Ints(colIdxs)

		for i, c := range colIdxs {
			label := strings.TrimSpace(row[c])
			if label == "" {
				continue
			}
			// Nearest following non-empty cell supplies the value.
			value := ""
			for _, vc := range colIdxs[i+1:] {
				if v := strings.TrimSpace(row[vc]); v != "" {
					value = v
					break
				}
			}
			if value == "" {
				continue
			}
			fields = append(fields, model.RawField{
				Label: label,
				Value: value,
				Source: model.SourceRef{
					Kind:     model.SourceTable,
					Sequence: *seq,
					Sheet:    table.SheetName,
					Page:     table.Page,
					TableID:  table.TableID,
					Row:      r,
					Column:   c,
				},
				UpstreamConfidence: 1.0,
				Damping:            1.0,
			})
			*seq++
		}
	}
	return fields
}

// collectContent scavenges "label: value unit" lines from free text.
func collectContent(content string, seq *int) []model.RawField {
	if content == "" {
		return nil
	}

	var fields []model.RawField
	for _, line := range strings.FieldsFunc(content, func(r rune) bool {
		return r == '\n' || r == '.' || r == '!' || r == '?' || r == ';'
	}) {
		m := contentLineRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		value := strings.TrimSpace(m[2])
		if unit := strings.TrimSpace(m[3]); unit != "" {
			value += " " + unit
		}
		fields = append(fields, model.RawField{
			Label: strings.TrimSpace(m[1]),
			Value: value,
			Source: model.SourceRef{
				Kind:     model.SourceContent,
				Sequence: *seq,
			},
			UpstreamConfidence: 1.0,
			Damping:            contentDamping,
		})
		*seq++
	}
	return fields
}
