// Package export renders assembled reports into alternative output
// formats for downstream consumers.
package export

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/esg-cli/internal/model"
)

// WriteXLSX writes the report as a workbook: one summary sheet plus one
// sheet per pillar with the resolved metrics.
func WriteXLSX(report *model.Report, path string) error {
	f := xlsx.NewFile()

	if err := writeSummarySheet(f, report); err != nil {
		return err
	}

	for _, group := range report.Categories {
		if err := writeCategorySheet(f, group); err != nil {
			return err
		}
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

func writeSummarySheet(f *xlsx.File, report *model.Report) error {
	sheet, err := f.AddSheet("Summary")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	addKV(sheet, "Source Document", report.Metadata.SourceDoc)
	addKV(sheet, "Correlation ID", report.Metadata.CorrelationID)
	addKV(sheet, "Generated At", report.Metadata.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	addKV(sheet, "Metrics Defined", fmt.Sprintf("%d", report.Summary.TotalMetrics))
	addKV(sheet, "Metrics Found", fmt.Sprintf("%d", report.Summary.MetricsFound))
	addKV(sheet, "Coverage", fmt.Sprintf("%.1f%%", report.Summary.Coverage*100))
	addKV(sheet, "Mean Confidence", fmt.Sprintf("%.2f", report.Summary.MeanConfidence))

	if len(report.Warnings) > 0 {
		sheet.AddRow()
		header := sheet.AddRow()
		header.AddCell().Value = "Warnings"
		for _, w := range report.Warnings {
			row := sheet.AddRow()
			row.AddCell().Value = w.Code
			row.AddCell().Value = w.Message
		}
	}

	return nil
}

func writeCategorySheet(f *xlsx.File, group model.CategoryGroup) error {
	sheet, err := f.AddSheet(sheetName(group.Category))
	if err != nil {
		return eris.Wrap(err, "export: add category sheet")
	}

	header := sheet.AddRow()
	for _, h := range []string{"Metric", "Found", "Value", "Unit", "Confidence", "Matched Pattern"} {
		header.AddCell().Value = h
	}

	for _, rm := range group.Metrics {
		row := sheet.AddRow()
		row.AddCell().Value = rm.DisplayName
		row.AddCell().Value = fmt.Sprintf("%t", rm.Found)
		row.AddCell().Value = rm.Value
		row.AddCell().Value = rm.Unit
		row.AddCell().SetFloatWithFormat(rm.Confidence, "0.00")
		row.AddCell().Value = rm.Pattern
	}

	return nil
}

func addKV(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().Value = value
}

func sheetName(cat model.Category) string {
	switch cat {
	case model.CategoryEnvironmental:
		return "Environmental"
	case model.CategorySocial:
		return "Social"
	case model.CategoryGovernance:
		return "Governance"
	}
	return string(cat)
}
