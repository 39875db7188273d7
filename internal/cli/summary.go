package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/defect-triage/internal/model"
)

const barWidth = 24

// RenderSummary renders the category breakdown of a processed dataset with a
// share bar per category and the accuracy line.
func RenderSummary(s model.Summary) string {
	if s.Total == 0 {
		return RenderBox("Categorization Summary", SubtleStyle.Render("No defects to categorize."))
	}

	nameWidth := len("Category")
	for _, c := range s.Counts {
		nameWidth = max(nameWidth, lipgloss.Width(c.Category))
	}

	var b strings.Builder
	b.WriteString(TableHeaderStyle.Width(nameWidth + 2).Render("Category"))
	b.WriteString(TableHeaderStyle.Width(8).Render("Count"))
	b.WriteString(TableHeaderStyle.Render("Share"))
	b.WriteString("\n")

	for i, c := range s.Counts {
		share := float64(c.Count) / float64(s.Total)
		name := c.Category
		barStyle := CategoryStyle(i)
		if name == model.Uncategorized {
			name = SubtleStyle.Render(name)
			barStyle = SubtleStyle
		}
		b.WriteString(TableCellStyle.Width(nameWidth + 2).Render(name))
		b.WriteString(TableCellStyle.Width(8).Render(fmt.Sprintf("%d", c.Count)))
		b.WriteString(barStyle.Render(bar(share)))
		b.WriteString(fmt.Sprintf(" %5.1f%%\n", share*100))
	}

	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Total: %d  Categorized: %d  Uncategorized: %d\n",
		s.Total, s.Total-s.Uncategorized, s.Uncategorized))
	b.WriteString(accuracyLine(s.Accuracy))

	return RenderBox("Categorization Summary", b.String())
}

func accuracyLine(accuracy float64) string {
	line := fmt.Sprintf("Accuracy: %.1f%%", accuracy)
	switch {
	case accuracy >= 80:
		return FormatSuccess(line)
	case accuracy >= 50:
		return FormatWarning(line)
	default:
		return FormatError(line)
	}
}

func bar(share float64) string {
	filled := int(share*barWidth + 0.5)
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// RenderScores renders how an assignment was reached: the chosen category,
// the method and every category that scored, highest first.
func RenderScores(text string, a model.Assignment, table model.ScoreTable) string {
	var b strings.Builder
	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%q", text)))
	b.WriteString("\n\n")
	b.WriteString(BoldStyle.Render("Category: "))
	if a.IsCategorized() {
		b.WriteString(FormatSuccess(a.Category))
	} else {
		b.WriteString(FormatWarning(model.Uncategorized))
	}
	b.WriteString("\n")
	b.WriteString(BoldStyle.Render("Method:   "))
	b.WriteString(string(a.Method))
	if a.Method == model.MethodKeyword {
		b.WriteString(fmt.Sprintf(" (score %.2f)", a.Score))
	}
	b.WriteString("\n")

	matched := table.Ranked().Matched()
	if len(matched) > 0 {
		b.WriteString("\n")
		b.WriteString(TableHeaderStyle.Render("Scores"))
		b.WriteString("\n")
		for _, s := range matched {
			keywords := make([]string, len(s.Matches))
			for i, m := range s.Matches {
				keywords[i] = m.Keyword
				if m.WholeWord {
					keywords[i] += "*"
				}
			}
			b.WriteString(fmt.Sprintf("  %6.2f  %s  %s\n", s.Score, s.Category,
				SubtleStyle.Render(strings.Join(keywords, ", "))))
		}
		b.WriteString(SubtleStyle.Render("* whole-word match"))
	}

	return RenderBox("Score Breakdown", b.String())
}
