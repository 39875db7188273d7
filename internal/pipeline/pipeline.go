// Package pipeline applies a categorizer to every record of a dataset and
// summarizes the outcome.
package pipeline

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/Veraticus/defect-triage/internal/aggregate"
	"github.com/Veraticus/defect-triage/internal/categorize"
	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

// MissingColumnError is returned when the dataset lacks the summary column.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("%s: %q", common.ErrMissingColumn, e.Column)
}

func (e *MissingColumnError) Unwrap() error {
	return common.ErrMissingColumn
}

// ProgressFunc is called after each record with the number processed so far.
type ProgressFunc func(done, total int)

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithSummaryColumn sets the column holding defect text.
func WithSummaryColumn(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.summaryColumn = name
		}
	}
}

// WithOutputColumn sets the column receiving the predicted category.
func WithOutputColumn(name string) Option {
	return func(p *Pipeline) {
		if name != "" {
			p.outputColumn = name
		}
	}
}

// WithStrictColumns requires the summary and output columns to match the
// dataset headers exactly instead of ignoring case and surrounding spaces.
func WithStrictColumns(strict bool) Option {
	return func(p *Pipeline) {
		p.strict = strict
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(p *Pipeline) {
		p.progress = fn
	}
}

// Pipeline categorizes datasets. It holds no mutable state and may be shared.
type Pipeline struct {
	categorizer   categorize.TextCategorizer
	logger        *slog.Logger
	progress      ProgressFunc
	summaryColumn string
	outputColumn  string
	strict        bool
}

// New creates a pipeline around the categorizer.
func New(c categorize.TextCategorizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		categorizer:   c,
		logger:        slog.Default(),
		summaryColumn: model.SummaryColumn,
		outputColumn:  model.PredictedColumn,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// WithOptions returns a copy of p with additional options applied.
func (p *Pipeline) WithOptions(opts ...Option) *Pipeline {
	cp := *p
	for _, opt := range opts {
		opt(&cp)
	}
	return &cp
}

// Process categorizes every record and returns a new annotated dataset with
// its summary. The input dataset is not modified. Records missing the summary
// field are treated as blank.
func (p *Pipeline) Process(ds *model.Dataset) (*model.Result, error) {
	summaryCol, ok := p.column(ds, p.summaryColumn)
	if !ok {
		return nil, &MissingColumnError{Column: p.summaryColumn}
	}

	columns := slices.Clone(ds.Columns)
	outputCol, exists := p.column(ds, p.outputColumn)
	if !exists {
		outputCol = p.outputColumn
		columns = append(columns, outputCol)
	}

	total := ds.Len()
	records := make([]model.Record, total)
	labels := make([]string, total)

	for i, rec := range ds.Records {
		text, _ := rec.Get(summaryCol)
		labels[i] = p.categorizer.Categorize(text)
		records[i] = rec.With(outputCol, labels[i])

		if p.progress != nil {
			p.progress(i+1, total)
		}
	}

	summary := aggregate.Summarize(labels)

	p.logger.Debug("Processed dataset",
		"records", total,
		"categories", len(summary.Counts),
		"uncategorized", summary.Uncategorized,
		"accuracy", summary.Accuracy)

	return &model.Result{
		SummaryColumn: summaryCol,
		OutputColumn:  outputCol,
		Dataset: model.Dataset{
			Columns: columns,
			Records: records,
		},
		Summary: summary,
	}, nil
}

func (p *Pipeline) column(ds *model.Dataset, name string) (string, bool) {
	if p.strict {
		return ds.ExactColumn(name)
	}
	return ds.Column(name)
}
