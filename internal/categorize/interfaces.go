// Package categorize assigns defect summaries to catalog categories by
// weighted keyword evidence with an ordered fallback chain.
package categorize

import "github.com/Veraticus/defect-triage/internal/model"

// TextCategorizer maps free text to a category label.
type TextCategorizer interface {
	// Categorize returns the category for text, or model.Uncategorized.
	Categorize(text string) string
}

// Assigner explains how a label was reached.
type Assigner interface {
	TextCategorizer
	// Assign returns the category together with the winning score and method.
	Assign(text string) model.Assignment
	// Explain returns the assignment and the full per-category score table.
	Explain(text string) (model.Assignment, model.ScoreTable)
}
