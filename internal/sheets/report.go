package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/defect-triage/internal/model"
)

// reportLayout records where the sections of a prepared report landed so
// formatting can target them.
type reportLayout struct {
	sectionRows   []int
	detailsHeader int
	columns       int
	totalRows     int
}

// prepareReportData lays out the summary block, the category breakdown and
// the annotated defect rows.
func prepareReportData(result *model.Result, now time.Time) ([][]any, reportLayout) {
	s := result.Summary
	ds := result.Dataset

	values := make([][]any, 0, 16+len(s.Counts)+ds.Len())
	var layout reportLayout

	values = append(values,
		[]any{"Defect Categorization Report", now.Format("Jan 2, 2006 15:04")},
		[]any{},
	)

	layout.sectionRows = append(layout.sectionRows, len(values))
	values = append(values,
		[]any{"Summary"},
		[]any{"Total Defects", s.Total},
		[]any{"Categorized", s.Total - s.Uncategorized},
		[]any{"Uncategorized", s.Uncategorized},
		[]any{"Accuracy", fmt.Sprintf("%.1f%%", s.Accuracy)},
		[]any{},
	)

	layout.sectionRows = append(layout.sectionRows, len(values))
	values = append(values,
		[]any{"Category Breakdown"},
		[]any{"Category", "Count", "Share"},
	)
	for _, c := range s.Counts {
		share := 0.0
		if s.Total > 0 {
			share = float64(c.Count) / float64(s.Total) * 100
		}
		values = append(values, []any{c.Category, c.Count, fmt.Sprintf("%.1f%%", share)})
	}

	values = append(values, []any{}, []any{})

	layout.sectionRows = append(layout.sectionRows, len(values))
	values = append(values, []any{"Defect Details"})

	layout.detailsHeader = len(values)
	header := make([]any, len(ds.Columns))
	for i, c := range ds.Columns {
		header[i] = c
	}
	values = append(values, header)

	for i := range ds.Records {
		row := ds.Row(i)
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v
		}
		values = append(values, cells)
	}

	layout.columns = max(len(ds.Columns), 3)
	layout.totalRows = len(values)
	return values, layout
}

func boldRows(sheetID int64, start, end, columns int) *sheets.Request {
	return &sheets.Request{
		RepeatCell: &sheets.RepeatCellRequest{
			Range: &sheets.GridRange{
				SheetId:          sheetID,
				StartRowIndex:    int64(start),
				EndRowIndex:      int64(end),
				StartColumnIndex: 0,
				EndColumnIndex:   int64(columns),
			},
			Cell: &sheets.CellData{
				UserEnteredFormat: &sheets.CellFormat{
					TextFormat: &sheets.TextFormat{Bold: true},
				},
			},
			Fields: "userEnteredFormat.textFormat",
		},
	}
}

// formattingRequests builds the batch update that styles a prepared report.
func formattingRequests(sheetID int64, layout reportLayout) []*sheets.Request {
	requests := []*sheets.Request{
		{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          sheetID,
					StartRowIndex:    0,
					EndRowIndex:      1,
					StartColumnIndex: 0,
					EndColumnIndex:   2,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						TextFormat: &sheets.TextFormat{
							Bold:     true,
							FontSize: 16,
						},
					},
				},
				Fields: "userEnteredFormat.textFormat",
			},
		},
	}

	for _, row := range layout.sectionRows {
		requests = append(requests, boldRows(sheetID, row, row+1, 1))
	}
	requests = append(requests, boldRows(sheetID, layout.detailsHeader, layout.detailsHeader+1, layout.columns))

	requests = append(requests, &sheets.Request{
		AutoResizeDimensions: &sheets.AutoResizeDimensionsRequest{
			Dimensions: &sheets.DimensionRange{
				SheetId:    sheetID,
				Dimension:  "COLUMNS",
				StartIndex: 0,
				EndIndex:   int64(layout.columns),
			},
		},
	})

	return requests
}

// applyFormatting styles the title, section headers and the details header.
func (w *Writer) applyFormatting(ctx context.Context, spreadsheetID string, sheetID int64, layout reportLayout) error {
	batchUpdate := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: formattingRequests(sheetID, layout),
	}

	_, err := w.service.Spreadsheets.BatchUpdate(spreadsheetID, batchUpdate).Context(ctx).Do()
	return err
}
