package sheets

import (
	"context"
	"sync"

	"github.com/Veraticus/defect-triage/internal/model"
	"github.com/Veraticus/defect-triage/internal/service"
)

// MockWriter is a service.ReportWriter that records results instead of
// publishing them.
type MockWriter struct {
	err     error
	results []*model.Result
	mu      sync.Mutex
}

var _ service.ReportWriter = (*MockWriter)(nil)

// NewMockWriter creates a mock writer that accepts every result.
func NewMockWriter() *MockWriter {
	return &MockWriter{}
}

// Write records result and returns the configured error. A canceled
// context fails without recording.
func (m *MockWriter) Write(ctx context.Context, result *model.Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.results = append(m.results, result)
	return m.err
}

// SetWriteError makes subsequent writes fail with err.
func (m *MockWriter) SetWriteError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Results returns every result written so far, oldest first.
func (m *MockWriter) Results() []*model.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.Result(nil), m.results...)
}

// LastResult returns the most recently written result, or nil.
func (m *MockWriter) LastResult() *model.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.results) == 0 {
		return nil
	}
	return m.results[len(m.results)-1]
}

// Reset forgets recorded results and the configured error.
func (m *MockWriter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = nil
	m.err = nil
}
