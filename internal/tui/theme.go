package tui

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style of the results browser.
type Theme struct {
	Title      lipgloss.Style
	Subtitle   lipgloss.Style
	Filter     lipgloss.Style
	Detail     lipgloss.Style
	Selected   lipgloss.Style
	Header     lipgloss.Style
	Accuracy   lipgloss.Style
	Unmatched  lipgloss.Style
	Primary    lipgloss.Color
	Border     lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Foreground lipgloss.Color
}

func newTheme(primary, border, muted, success, warning, errColor, fg lipgloss.Color) Theme {
	return Theme{
		Primary:    primary,
		Border:     border,
		Muted:      muted,
		Success:    success,
		Warning:    warning,
		Error:      errColor,
		Foreground: fg,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(primary),
		Subtitle: lipgloss.NewStyle().
			Foreground(muted),
		Filter: lipgloss.NewStyle().
			Foreground(fg).
			Background(border).
			Padding(0, 1),
		Detail: lipgloss.NewStyle().
			Foreground(fg).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(border),
		Selected: lipgloss.NewStyle().
			Background(primary).
			Foreground(lipgloss.Color("#fafafa")).
			Bold(true),
		Header: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(border).
			BorderBottom(true).
			Bold(false),
		Accuracy: lipgloss.NewStyle().
			Bold(true),
		Unmatched: lipgloss.NewStyle().
			Foreground(muted).
			Italic(true),
	}
}

// Default is the default theme.
var Default = newTheme(
	lipgloss.Color("#6a11cb"),
	lipgloss.Color("#404040"),
	lipgloss.Color("#737373"),
	lipgloss.Color("#28a745"),
	lipgloss.Color("#ffc107"),
	lipgloss.Color("#dc3545"),
	lipgloss.Color("#fafafa"),
)

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = newTheme(
	lipgloss.Color("#cba6f7"),
	lipgloss.Color("#45475a"),
	lipgloss.Color("#6c7086"),
	lipgloss.Color("#a6e3a1"),
	lipgloss.Color("#f9e2af"),
	lipgloss.Color("#f38ba8"),
	lipgloss.Color("#cdd6f4"),
)

// ThemeByName returns a named theme, falling back to Default.
func ThemeByName(name string) Theme {
	switch name {
	case "catppuccin", "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// accuracyStyle colors the accuracy figure by how much was categorized.
func (t Theme) accuracyStyle(accuracy float64) lipgloss.Style {
	switch {
	case accuracy >= 80:
		return t.Accuracy.Foreground(t.Success)
	case accuracy >= 50:
		return t.Accuracy.Foreground(t.Warning)
	default:
		return t.Accuracy.Foreground(t.Error)
	}
}
