package tabular

import (
	"fmt"

	"github.com/Veraticus/defect-triage/internal/common"
)

// FileReadError reports an input file that could not be parsed.
type FileReadError struct {
	Err  error
	Name string
}

func (e *FileReadError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("%s: %v", common.ErrFileRead, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", common.ErrFileRead, e.Name, e.Err)
}

// Unwrap exposes both the sentinel and the underlying cause.
func (e *FileReadError) Unwrap() []error {
	return []error{common.ErrFileRead, e.Err}
}

// Cause returns the underlying error.
func (e *FileReadError) Cause() error {
	return e.Err
}
