// Package aggregate summarizes categorization results.
package aggregate

import (
	"sort"

	"github.com/Veraticus/defect-triage/internal/model"
)

// Counts returns one entry per distinct label ordered by count descending.
// Equal counts keep first-seen order.
func Counts(categories []string) []model.CategoryCount {
	index := make(map[string]int)
	var counts []model.CategoryCount

	for _, c := range categories {
		if i, ok := index[c]; ok {
			counts[i].Count++
			continue
		}
		index[c] = len(counts)
		counts = append(counts, model.CategoryCount{Category: c, Count: 1})
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts
}

// Accuracy returns the percentage of labels that are not Uncategorized, or 0
// for an empty input.
func Accuracy(categories []string) float64 {
	if len(categories) == 0 {
		return 0
	}
	return percent(len(categories)-uncategorized(categories), len(categories))
}

// Summarize computes counts, totals and accuracy in one pass over the labels.
func Summarize(categories []string) model.Summary {
	s := model.Summary{
		Counts:        Counts(categories),
		Total:         len(categories),
		Uncategorized: uncategorized(categories),
	}
	if s.Total > 0 {
		s.Accuracy = percent(s.Total-s.Uncategorized, s.Total)
	}
	return s
}

func uncategorized(categories []string) int {
	n := 0
	for _, c := range categories {
		if c == model.Uncategorized {
			n++
		}
	}
	return n
}

func percent(part, total int) float64 {
	return float64(part) / float64(total) * 100
}
