package tabular

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

// Sheet names used in Excel exports.
const (
	ResultsSheet = "Categorized Defects"
	SummarySheet = "Summary"
)

// Write serializes result in the given format.
func Write(w io.Writer, format Format, result *model.Result) error {
	if result == nil {
		return common.ErrNoResult
	}
	switch format {
	case FormatXLSX:
		return writeXLSX(w, result)
	case FormatCSV:
		return writeCSV(w, result)
	case FormatJSON:
		return writeJSON(w, result)
	default:
		return fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, format)
	}
}

func writeCSV(w io.Writer, result *model.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Dataset.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range result.Dataset.Records {
		if err := cw.Write(result.Dataset.Row(i)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

type jsonExport struct {
	Columns []string            `json:"columns"`
	Records []map[string]string `json:"records"`
	Summary model.Summary       `json:"summary"`
}

func writeJSON(w io.Writer, result *model.Result) error {
	out := jsonExport{
		Columns: result.Dataset.Columns,
		Records: make([]map[string]string, 0, result.Dataset.Len()),
		Summary: result.Summary,
	}
	for _, r := range result.Dataset.Records {
		out.Records = append(out.Records, r.Fields)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func writeXLSX(w io.Writer, result *model.Result) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), ResultsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"6A11CB"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	ds := result.Dataset
	if err := setRow(f, ResultsSheet, 1, ds.Columns); err != nil {
		return err
	}
	for i := range ds.Records {
		if err := setRow(f, ResultsSheet, i+2, ds.Row(i)); err != nil {
			return err
		}
	}
	if err := f.SetRowStyle(ResultsSheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	if err := writeSummarySheet(f, result.Summary, headerStyle); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s model.Summary, headerStyle int) error {
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}

	if err := setRow(f, SummarySheet, 1, []any{"Category", "Count"}); err != nil {
		return err
	}
	row := 2
	for _, c := range s.Counts {
		if err := setRow(f, SummarySheet, row, []any{c.Category, c.Count}); err != nil {
			return err
		}
		row++
	}
	row++
	if err := setRow(f, SummarySheet, row, []any{"Total", s.Total}); err != nil {
		return err
	}
	if err := setRow(f, SummarySheet, row+1, []any{"Accuracy (%)", round1(s.Accuracy)}); err != nil {
		return err
	}
	if err := f.SetRowStyle(SummarySheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 28)
}

func setRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func round1(v float64) float64 {
	return float64(int64(v*10+0.5)) / 10
}
