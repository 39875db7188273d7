package tabular

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

func sampleResult() *model.Result {
	return &model.Result{
		SummaryColumn: model.SummaryColumn,
		OutputColumn:  model.PredictedColumn,
		Dataset: model.Dataset{
			Columns: []string{"ID", model.SummaryColumn, model.PredictedColumn},
			Records: []model.Record{
				model.NewRecord(map[string]string{"ID": "1", model.SummaryColumn: "email alert missing", model.PredictedColumn: "Notifications"}),
				model.NewRecord(map[string]string{"ID": "2", model.PredictedColumn: model.Uncategorized}),
			},
		},
		Summary: model.Summary{
			Counts: []model.CategoryCount{
				{Category: "Notifications", Count: 1},
				{Category: model.Uncategorized, Count: 1},
			},
			Total:         2,
			Uncategorized: 1,
			Accuracy:      50,
		},
	}
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{name: "defects.csv", want: FormatCSV},
		{name: "Defects.XLSX", want: FormatXLSX},
		{name: "dir.v2/defects.csv", want: FormatCSV},
		{name: "defects.json", wantErr: true},
		{name: "defects.xls", wantErr: true},
		{name: "defects", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.name)
			if tt.wantErr {
				assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(".JSON")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)
	assert.False(t, f.Readable())

	_, err = ParseFormat("pdf")
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
}

func TestExportFileName(t *testing.T) {
	now := time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)
	assert.Equal(t, "defects_categorized_20240309_140507.xlsx", ExportFileName(now, FormatXLSX))
	assert.Equal(t, "defects_categorized_20240309_140507.csv", ExportFileName(now, FormatCSV))
}

func TestReadCSV(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantColumns []string
		wantRows    []map[string]string
	}{
		{
			name:        "basic",
			input:       "ID,Defect Summary\n1,login fails\n2,\"sync, again\"\n",
			wantColumns: []string{"ID", "Defect Summary"},
			wantRows: []map[string]string{
				{"ID": "1", "Defect Summary": "login fails"},
				{"ID": "2", "Defect Summary": "sync, again"},
			},
		},
		{
			name:        "bom and ragged rows",
			input:       "\xef\xbb\xbfDefect Summary,Owner\nemail alert\n,\n",
			wantColumns: []string{"Defect Summary", "Owner"},
			wantRows: []map[string]string{
				{"Defect Summary": "email alert"},
			},
		},
		{
			name:        "blank and duplicate headers",
			input:       "Name,,Name\na,b,c\n",
			wantColumns: []string{"Name", "Unnamed: 1", "Name.1"},
			wantRows: []map[string]string{
				{"Name": "a", "Unnamed: 1": "b", "Name.1": "c"},
			},
		},
		{
			name:        "renamed duplicate skips existing suffix",
			input:       "Defect Summary,A,A,A.1\nlogin,x,y,z\n",
			wantColumns: []string{"Defect Summary", "A", "A.2", "A.1"},
			wantRows: []map[string]string{
				{"Defect Summary": "login", "A": "x", "A.2": "y", "A.1": "z"},
			},
		},
		{
			name:        "suffix taken later in the row",
			input:       "A,A,A,A.2\n1,2,3,4\n",
			wantColumns: []string{"A", "A.1", "A.3", "A.2"},
			wantRows: []map[string]string{
				{"A": "1", "A.1": "2", "A.3": "3", "A.2": "4"},
			},
		},
		{
			name:        "header only",
			input:       "Defect Summary\n",
			wantColumns: []string{"Defect Summary"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := Read(strings.NewReader(tt.input), FormatCSV)
			require.NoError(t, err)
			assert.Equal(t, tt.wantColumns, ds.Columns)
			require.Len(t, ds.Records, len(tt.wantRows))
			for i, want := range tt.wantRows {
				assert.Equal(t, want, ds.Records[i].Fields)
			}
		})
	}
}

func TestReadCSV_Latin1(t *testing.T) {
	// "Défaut" encoded as ISO-8859-1
	input := []byte("Defect Summary\nD\xe9faut login\n")

	ds, err := Read(bytes.NewReader(input), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "Défaut login", ds.Records[0].Fields["Defect Summary"])
}

func TestRead_Errors(t *testing.T) {
	_, err := Read(strings.NewReader(""), FormatCSV)
	var fre *FileReadError
	require.True(t, errors.As(err, &fre))
	assert.ErrorIs(t, err, common.ErrFileRead)

	_, err = Read(strings.NewReader("not a zip"), FormatXLSX)
	assert.ErrorIs(t, err, common.ErrFileRead)

	_, err = Read(strings.NewReader("{}"), FormatJSON)
	assert.ErrorIs(t, err, common.ErrFileRead)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "defects.csv")
	require.NoError(t, os.WriteFile(path, []byte("Defect Summary\nlogin fails\n"), 0o600))

	ds, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, ds.Len())

	_, err = ReadFile(filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, common.ErrFileRead)

	_, err = ReadFile(filepath.Join(dir, "defects.txt"))
	assert.ErrorIs(t, err, common.ErrUnsupportedFormat)
	assert.ErrorIs(t, err, common.ErrFileRead)

	empty := filepath.Join(dir, "empty.csv")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = ReadFile(empty)
	var fre *FileReadError
	require.True(t, errors.As(err, &fre))
	assert.Equal(t, empty, fre.Name)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sampleResult()))

	assert.Equal(t,
		"ID,Defect Summary,Predicted Feature\n1,email alert missing,Notifications\n2,,Uncategorized\n",
		buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sampleResult()))

	var got struct {
		Columns []string            `json:"columns"`
		Records []map[string]string `json:"records"`
		Summary model.Summary       `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got.Records, 2)
	assert.Equal(t, "Notifications", got.Records[0][model.PredictedColumn])
	assert.InDelta(t, 50.0, got.Summary.Accuracy, 1e-9)
}

func TestWriteXLSX_ReadBack(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatXLSX, sampleResult()))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{ResultsSheet, SummarySheet}, f.GetSheetList())

	summaryRows, err := f.GetRows(SummarySheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"Category", "Count"}, summaryRows[0])
	assert.Equal(t, []string{"Notifications", "1"}, summaryRows[1])

	ds, err := Read(bytes.NewReader(buf.Bytes()), FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, sampleResult().Dataset.Columns, ds.Columns)
	require.Len(t, ds.Records, 2)
	assert.Equal(t, "Uncategorized", ds.Records[1].Fields[model.PredictedColumn])
	assert.Equal(t, "2", ds.Records[1].Fields["ID"])
}

func TestWrite_Errors(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, Write(&buf, FormatCSV, nil), common.ErrNoResult)
	assert.ErrorIs(t, Write(&buf, Format("pdf"), sampleResult()), common.ErrUnsupportedFormat)
}
