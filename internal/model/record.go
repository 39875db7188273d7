package model

import (
	"slices"
	"strings"
)

// Record is a source row keyed by column name. A column absent from Fields is
// missing for that row.
type Record struct {
	Fields map[string]string `json:"fields"`
}

// NewRecord builds a record from column/value pairs.
func NewRecord(fields map[string]string) Record {
	r := Record{Fields: make(map[string]string, len(fields))}
	for k, v := range fields {
		r.Fields[k] = v
	}
	return r
}

// Get returns the value stored under column.
func (r Record) Get(column string) (string, bool) {
	v, ok := r.Fields[column]
	return v, ok
}

// With returns a copy of r with column set to value.
func (r Record) With(column, value string) Record {
	out := Record{Fields: make(map[string]string, len(r.Fields)+1)}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	out.Fields[column] = value
	return out
}

// Dataset is an ordered sequence of records plus the ordered column names.
type Dataset struct {
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Column resolves name against the dataset columns, ignoring case and
// surrounding whitespace, and returns the column as spelled in the dataset.
func (d *Dataset) Column(name string) (string, bool) {
	if d == nil {
		return "", false
	}
	want := strings.TrimSpace(name)
	for _, c := range d.Columns {
		if c == want {
			return c, true
		}
	}
	for _, c := range d.Columns {
		if strings.EqualFold(strings.TrimSpace(c), want) {
			return c, true
		}
	}
	return "", false
}

// ExactColumn reports whether name is one of the dataset columns exactly as
// spelled.
func (d *Dataset) ExactColumn(name string) (string, bool) {
	if d == nil || !slices.Contains(d.Columns, name) {
		return "", false
	}
	return name, true
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}

// Row returns the values of record i in column order. Missing fields are empty.
func (d *Dataset) Row(i int) []string {
	row := make([]string, len(d.Columns))
	for j, c := range d.Columns {
		row[j] = d.Records[i].Fields[c]
	}
	return row
}

// Values returns the value of column for every record, in row order.
func (d *Dataset) Values(column string) []string {
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Fields[column]
	}
	return out
}
