package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/net/html/charset"

	"github.com/Veraticus/defect-triage/internal/model"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	errEmptyFile = errors.New("file is empty")
	errNoSheets  = errors.New("workbook has no sheets")
)

// ReadFile reads a CSV or Excel file from disk.
func ReadFile(path string) (*model.Dataset, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, &FileReadError{Name: path, Err: err}
	}

	f, err := os.Open(path) //nolint:gosec // user-supplied input file
	if err != nil {
		return nil, &FileReadError{Name: path, Err: err}
	}
	defer func() { _ = f.Close() }()

	ds, err := Read(f, format)
	if err != nil {
		var fre *FileReadError
		if errors.As(err, &fre) {
			fre.Name = path
		}
		return nil, err
	}
	return ds, nil
}

// Read parses r in the given format. The first row is the header.
func Read(r io.Reader, format Format) (*model.Dataset, error) {
	var (
		rows [][]string
		err  error
	)
	switch format {
	case FormatCSV:
		rows, err = readCSV(r)
	case FormatXLSX:
		rows, err = readXLSX(r)
	default:
		err = fmt.Errorf("cannot read %s input", format)
	}
	if err != nil {
		return nil, &FileReadError{Err: err}
	}
	if len(rows) == 0 {
		return nil, &FileReadError{Err: errEmptyFile}
	}
	return buildDataset(rows), nil
}

func readCSV(r io.Reader) ([][]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if !utf8.Valid(data) {
		enc, _, _ := charset.DetermineEncoding(data, "text/csv")
		decoded, decErr := enc.NewDecoder().Bytes(data)
		if decErr != nil {
			return nil, fmt.Errorf("failed to decode input: %w", decErr)
		}
		data = decoded
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	cr := csv.NewReader(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr.ReadAll()
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errNoSheets
	}
	return f.GetRows(sheets[0])
}

// buildDataset turns a header row plus data rows into a dataset. Blank
// headers become "Unnamed: N" and repeated headers get the lowest ".N" suffix
// not already used by another header. Rows with no content are skipped.
func buildDataset(rows [][]string) *model.Dataset {
	columns := headerNames(rows[0])
	ds := &model.Dataset{Columns: columns}

	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		fields := make(map[string]string, len(columns))
		for i, col := range columns {
			if i < len(row) {
				fields[col] = row[i]
			}
		}
		ds.Records = append(ds.Records, model.Record{Fields: fields})
	}
	return ds
}

func headerNames(header []string) []string {
	out := make([]string, len(header))
	taken := make(map[string]bool, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		out[i] = name
		taken[name] = true
	}

	// A renamed duplicate must not collide with a header that appears
	// anywhere in the row.
	used := make(map[string]bool, len(header))
	next := make(map[string]int, len(header))
	for i, name := range out {
		if used[name] {
			base := name
			for {
				next[base]++
				name = fmt.Sprintf("%s.%d", base, next[base])
				if !taken[name] {
					break
				}
			}
			taken[name] = true
			out[i] = name
		}
		used[name] = true
	}
	return out
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
