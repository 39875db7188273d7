package model

import (
	"sort"
)

// KeywordMatch records one keyword that contributed to a category score.
type KeywordMatch struct {
	Keyword   string `json:"keyword"`
	WholeWord bool   `json:"whole_word"`
}

// CategoryScore is the accumulated score of a single category for one text.
type CategoryScore struct {
	Category string         `json:"category"`
	Matches  []KeywordMatch `json:"matches,omitempty"`
	Score    float64        `json:"score"`
}

// ScoreTable holds one CategoryScore per catalog category, in catalog order.
type ScoreTable []CategoryScore

// Best returns the first category reaching the maximum score. The boolean is
// false when the table is empty or nothing scored above zero.
func (t ScoreTable) Best() (CategoryScore, bool) {
	if len(t) == 0 {
		return CategoryScore{}, false
	}
	best := 0
	for i := 1; i < len(t); i++ {
		if t[i].Score > t[best].Score {
			best = i
		}
	}
	if t[best].Score <= 0 {
		return t[best], false
	}
	return t[best], true
}

// Get returns the score entry for the named category.
func (t ScoreTable) Get(category string) (CategoryScore, bool) {
	for _, s := range t {
		if s.Category == category {
			return s, true
		}
	}
	return CategoryScore{}, false
}

// Ranked returns a copy ordered by score descending. Equal scores keep
// catalog order.
func (t ScoreTable) Ranked() ScoreTable {
	out := make(ScoreTable, len(t))
	copy(out, t)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// Matched returns the entries with a positive score, in catalog order.
func (t ScoreTable) Matched() ScoreTable {
	var out ScoreTable
	for _, s := range t {
		if s.Score > 0 {
			out = append(out, s)
		}
	}
	return out
}
