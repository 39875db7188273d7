package tui

import (
	"context"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/defect-triage/internal/common"
	"github.com/Veraticus/defect-triage/internal/model"
)

// Options configures Run.
type Options struct {
	Input  io.Reader
	Output io.Writer
	Theme  Theme
}

// Run opens the interactive browser over result and blocks until the user
// quits or ctx is canceled.
func Run(ctx context.Context, result *model.Result, opts Options) error {
	if result == nil {
		return common.ErrNoResult
	}

	theme := opts.Theme
	if theme.Primary == "" {
		theme = Default
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	if _, err := tea.NewProgram(New(result, theme), programOpts...).Run(); err != nil {
		return fmt.Errorf("results browser: %w", err)
	}
	return nil
}
