// Package tabular reads defect exports from CSV and Excel files and writes
// categorized results back out.
package tabular

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Veraticus/defect-triage/internal/common"
)

// Format identifies a tabular file format.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name such as "xlsx" or ".csv".
func ParseFormat(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(name), ".")))
	switch f {
	case FormatCSV, FormatXLSX, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedFormat, name)
	}
}

// DetectFormat determines the input format from a file name. Only CSV and
// Excel files are accepted as input.
func DetectFormat(name string) (Format, error) {
	ext := filepath.Ext(name)
	if ext == "" {
		return "", fmt.Errorf("%w: %q has no extension", common.ErrUnsupportedFormat, name)
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", err
	}
	if !f.Readable() {
		return "", fmt.Errorf("%w: %q is not a CSV or Excel file", common.ErrUnsupportedFormat, name)
	}
	return f, nil
}

// Readable reports whether the format can be used as input.
func (f Format) Readable() bool {
	return f == FormatCSV || f == FormatXLSX
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// ContentType returns the MIME type for downloads.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatJSON:
		return "application/json"
	default:
		return "application/octet-stream"
	}
}

// ExportFileName names a categorized export produced at now.
func ExportFileName(now time.Time, f Format) string {
	return "defects_categorized_" + now.Format("20060102_150405") + f.Extension()
}
