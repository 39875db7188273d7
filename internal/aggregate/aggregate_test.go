package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/defect-triage/internal/model"
)

func TestCounts(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []model.CategoryCount
	}{
		{
			name:  "empty",
			input: nil,
			want:  nil,
		},
		{
			name:  "descending with first-seen ties",
			input: []string{model.Uncategorized, "Notifications", "MCC master data sync", model.Uncategorized},
			want: []model.CategoryCount{
				{Category: model.Uncategorized, Count: 2},
				{Category: "Notifications", Count: 1},
				{Category: "MCC master data sync", Count: 1},
			},
		},
		{
			name:  "later label overtakes",
			input: []string{"A", "B", "B", "C", "B", "A"},
			want: []model.CategoryCount{
				{Category: "B", Count: 3},
				{Category: "A", Count: 2},
				{Category: "C", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Counts(tt.input)
			assert.Equal(t, tt.want, got)

			sum := 0
			for _, c := range got {
				sum += c.Count
			}
			assert.Equal(t, len(tt.input), sum)
		})
	}
}

func TestAccuracy(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  float64
	}{
		{name: "empty", input: nil, want: 0},
		{name: "all categorized", input: []string{"A", "B"}, want: 100},
		{name: "none categorized", input: []string{model.Uncategorized}, want: 0},
		{name: "half", input: []string{model.Uncategorized, "A", "B", model.Uncategorized}, want: 50},
		{name: "third", input: []string{"A", model.Uncategorized, model.Uncategorized}, want: 100.0 / 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Accuracy(tt.input), 1e-9)
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]string{model.Uncategorized, "Notifications", "MCC master data sync", model.Uncategorized})

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Uncategorized)
	assert.InDelta(t, 50.0, s.Accuracy, 1e-9)
	assert.Len(t, s.Counts, 3)

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.Zero(t, empty.Accuracy)
	assert.Empty(t, empty.Counts)
}
