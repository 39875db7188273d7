package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

func testResult() *model.Result {
	rows := []struct{ summary, label string }{
		{"email alert missing", "Notifications"},
		{"", model.Uncategorized},
		{"sync issue with MCC", "MCC master data sync"},
		{"random gibberish xyz123", model.Uncategorized},
	}
	res := &model.Result{
		SummaryColumn: model.SummaryColumn,
		OutputColumn:  model.PredictedColumn,
		Dataset:       model.Dataset{Columns: []string{model.SummaryColumn, model.PredictedColumn}},
		Summary: model.Summary{
			Counts: []model.CategoryCount{
				{Category: model.Uncategorized, Count: 2},
				{Category: "Notifications", Count: 1},
				{Category: "MCC master data sync", Count: 1},
			},
			Total:         4,
			Uncategorized: 2,
			Accuracy:      50,
		},
	}
	for _, r := range rows {
		res.Dataset.Records = append(res.Dataset.Records, model.NewRecord(map[string]string{
			model.SummaryColumn:   r.summary,
			model.PredictedColumn: r.label,
		}))
	}
	return res
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestModel_InitialView(t *testing.T) {
	m := New(testResult(), Default)

	assert.Nil(t, m.Init())
	assert.Equal(t, "All", m.Filter())
	assert.Equal(t, []int{0, 1, 2, 3}, m.Visible())

	view := m.View()
	assert.Contains(t, view, "Defect Triage Results")
	assert.Contains(t, view, "Accuracy: 50.0%")
	assert.Contains(t, view, "Filter: All (4)")
	assert.Contains(t, view, "email alert missing")
}

func TestModel_FilterCycling(t *testing.T) {
	m := New(testResult(), Default)
	tab := tea.KeyMsg{Type: tea.KeyTab}
	shiftTab := tea.KeyMsg{Type: tea.KeyShiftTab}

	m, _ = update(t, m, tab)
	assert.Equal(t, model.Uncategorized, m.Filter())
	assert.Equal(t, []int{1, 3}, m.Visible())
	assert.Contains(t, m.View(), "Filter: Uncategorized (2)")
	assert.Contains(t, m.View(), "(empty summary)")

	m, _ = update(t, m, tab)
	assert.Equal(t, "Notifications", m.Filter())
	assert.Equal(t, []int{0}, m.Visible())

	m, _ = update(t, m, shiftTab)
	m, _ = update(t, m, shiftTab)
	assert.Equal(t, "All", m.Filter())

	m, _ = update(t, m, shiftTab)
	assert.Equal(t, "MCC master data sync", m.Filter())
	assert.Equal(t, []int{2}, m.Visible())
}

func TestModel_NavigationMovesDetail(t *testing.T) {
	m := New(testResult(), Default)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Contains(t, m.detail(), "sync issue with MCC")
}

func TestModel_WindowResize(t *testing.T) {
	m := New(testResult(), Default)
	m, cmd := update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Nil(t, cmd)
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 120-indexWidth-categoryWidth-6, m.table.Columns()[1].Width)
}

func TestModel_HelpAndQuit(t *testing.T) {
	m := New(testResult(), Default)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	assert.True(t, m.help.ShowAll)
	assert.Contains(t, m.View(), "previous category")

	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestColumns_MinimumWidth(t *testing.T) {
	cols := columns(10)
	assert.Equal(t, minSummary, cols[1].Width)
}

func TestThemeByName(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Primary, ThemeByName("catppuccin").Primary)
	assert.Equal(t, Default.Primary, ThemeByName("unknown").Primary)
}

func TestRun_NilResult(t *testing.T) {
	assert.ErrorIs(t, Run(context.Background(), nil, Options{}), common.ErrNoResult)
}
