// Package tui provides an interactive terminal browser for categorized defects.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/defect-triage/internal/model"
)

const (
	indexWidth    = 5
	categoryWidth = 24
	minSummary    = 20
	chromeHeight  = 8
)

// Model is the bubbletea model of the results browser.
type Model struct {
	result  *model.Result
	theme   Theme
	keymap  KeyMap
	help    help.Model
	table   table.Model
	filters []model.CategoryCount
	visible []int
	filter  int
	width   int
	height  int
}

// New creates a browser over result. Filter 0 shows every record; the
// remaining filters follow the summary order.
func New(result *model.Result, theme Theme) Model {
	km := DefaultKeyMap()

	t := table.New(
		table.WithColumns(columns(80)),
		table.WithFocused(true),
		table.WithHeight(20),
		table.WithKeyMap(km.Table),
	)
	s := table.DefaultStyles()
	s.Header = theme.Header
	s.Selected = theme.Selected
	t.SetStyles(s)

	filters := append([]model.CategoryCount{{Category: "All", Count: result.Dataset.Len()}}, result.Summary.Counts...)

	m := Model{
		result:  result,
		theme:   theme,
		keymap:  km,
		help:    help.New(),
		table:   t,
		filters: filters,
		width:   80,
		height:  24,
	}
	m.applyFilter()
	return m
}

func columns(width int) []table.Column {
	summary := max(width-indexWidth-categoryWidth-6, minSummary)
	return []table.Column{
		{Title: "#", Width: indexWidth},
		{Title: "Defect Summary", Width: summary},
		{Title: "Predicted Feature", Width: categoryWidth},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetColumns(columns(msg.Width))
		m.table.SetHeight(max(msg.Height-chromeHeight, 3))
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keymap.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keymap.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keymap.NextFilter):
			m.filter = (m.filter + 1) % len(m.filters)
			m.applyFilter()
			return m, nil
		case key.Matches(msg, m.keymap.PrevFilter):
			m.filter = (m.filter - 1 + len(m.filters)) % len(m.filters)
			m.applyFilter()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// applyFilter rebuilds the table rows for the current filter.
func (m *Model) applyFilter() {
	ds := m.result.Dataset
	category := ""
	if m.filter > 0 {
		category = m.filters[m.filter].Category
	}

	m.visible = make([]int, 0, ds.Len())
	rows := make([]table.Row, 0, ds.Len())
	for i, rec := range ds.Records {
		label := rec.Fields[m.result.OutputColumn]
		if category != "" && label != category {
			continue
		}
		m.visible = append(m.visible, i)
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			singleLine(rec.Fields[m.result.SummaryColumn]),
			label,
		})
	}
	m.table.SetRows(rows)
	m.table.SetCursor(0)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Filter returns the active category filter, "All" when unfiltered.
func (m Model) Filter() string {
	return m.filters[m.filter].Category
}

// Visible returns the dataset indices shown by the current filter.
func (m Model) Visible() []int {
	return append([]int(nil), m.visible...)
}

// View implements tea.Model.
func (m Model) View() string {
	s := m.result.Summary

	title := m.theme.Title.Render("Defect Triage Results")
	accuracy := m.theme.accuracyStyle(s.Accuracy).Render(fmt.Sprintf("Accuracy: %.1f%%", s.Accuracy))
	stats := m.theme.Subtitle.Render(fmt.Sprintf("(%d of %d categorized)", s.Total-s.Uncategorized, s.Total))
	header := lipgloss.JoinHorizontal(lipgloss.Top, title, "  ", accuracy, " ", stats)

	f := m.filters[m.filter]
	filter := m.theme.Filter.Render(fmt.Sprintf("Filter: %s (%d)", f.Category, f.Count))
	position := m.theme.Subtitle.Render(fmt.Sprintf(" %d/%d", m.filter+1, len(m.filters)))

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(filter + position)
	b.WriteString("\n\n")
	b.WriteString(m.table.View())
	b.WriteString("\n")
	b.WriteString(m.detail())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keymap))
	return b.String()
}

// detail renders the full summary of the selected record.
func (m Model) detail() string {
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(m.visible) {
		return m.theme.Unmatched.Render("No defects in this category.")
	}
	rec := m.result.Dataset.Records[m.visible[cursor]]
	text := rec.Fields[m.result.SummaryColumn]
	if strings.TrimSpace(text) == "" {
		text = m.theme.Unmatched.Render("(empty summary)")
	}
	return m.theme.Detail.Width(max(m.width-2, minSummary)).Render(text)
}
