// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// Status colors.
var (
	titleColor   = lipgloss.Color("#6A11CB")
	successColor = lipgloss.Color("#28A745")
	warningColor = lipgloss.Color("#FFC107")
	errorColor   = lipgloss.Color("#DC3545")
	infoColor    = lipgloss.Color("#17A2B8")
	subtleColor  = lipgloss.Color("#6C757D")
)

// categoryPalette colors category bars in the same order as the web chart.
var categoryPalette = []lipgloss.Color{
	"#6A11CB", "#2575FC", "#28A745", "#DC3545", "#FFC107",
	"#17A2B8", "#6610F2", "#FD7E14", "#20C997", "#E83E8C",
}

var (
	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(titleColor)

	// SubtleStyle formats less prominent text such as the Uncategorized row.
	SubtleStyle = lipgloss.NewStyle().Foreground(subtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().Bold(true)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#2575FC")).
				PaddingRight(2)

	// TableCellStyle pads table cells.
	TableCellStyle = lipgloss.NewStyle().PaddingRight(2)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)
)

// CategoryStyle returns the bar style for the i-th category of a summary.
func CategoryStyle(i int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(categoryPalette[i%len(categoryPalette)])
}

// FormatSuccess formats a success message.
func FormatSuccess(message string) string {
	return lipgloss.NewStyle().Foreground(successColor).Render("✓ " + message)
}

// FormatError formats an error message.
func FormatError(message string) string {
	return lipgloss.NewStyle().Foreground(errorColor).Render("✗ " + message)
}

// FormatWarning formats a warning message.
func FormatWarning(message string) string {
	return lipgloss.NewStyle().Foreground(warningColor).Render("⚠️ " + message)
}

// FormatInfo formats an info message.
func FormatInfo(message string) string {
	return lipgloss.NewStyle().Foreground(infoColor).Render("ℹ️ " + message)
}

// FormatTitle formats a title with the bug icon.
func FormatTitle(title string) string {
	return TitleStyle.Render("🐞 " + title)
}

// RenderBox renders content in a rounded box under a bold title.
func RenderBox(title, content string) string {
	return boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, TitleStyle.Render(title), content))
}
