package model

// CategoryCount is the number of records assigned to one category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// Summary aggregates the categories assigned across a dataset.
type Summary struct {
	Counts        []CategoryCount `json:"counts"`
	Total         int             `json:"total"`
	Uncategorized int             `json:"uncategorized"`
	Accuracy      float64         `json:"accuracy"`
}

// Result is the output of processing one dataset. It is owned by the caller.
type Result struct {
	// SummaryColumn and OutputColumn are the dataset columns that were read
	// and written, as spelled in Dataset.Columns.
	SummaryColumn string  `json:"summary_column"`
	OutputColumn  string  `json:"output_column"`
	Dataset       Dataset `json:"dataset"`
	Summary       Summary `json:"summary"`
}

// Categories returns the assigned category of every record, in row order.
func (r *Result) Categories() []string {
	return r.Dataset.Values(r.OutputColumn)
}
