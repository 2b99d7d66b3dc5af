package ports

import (
	"context"

	"movecli/internal/domain"
)

// CoverageCollector instruments invocations and merges their artifacts
type CoverageCollector interface {
	// Begin returns extra environment for the invocation; nil when disabled.
	Begin(id domain.InvocationID) []string
	Enabled() bool
	// Merge unions all recorded artifacts and returns the report path.
	Merge(ctx context.Context) (string, error)
	Records() []domain.CoverageRecord
}
