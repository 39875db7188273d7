// Package service defines the interfaces shared between application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/defect-triage/internal/model"
)

// ReportWriter publishes a processed result to an external destination.
type ReportWriter interface {
	Write(ctx context.Context, result *model.Result) error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
