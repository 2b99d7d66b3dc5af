package ports

import (
	"context"

	"movecli/internal/domain"
)

// ResultRecorder persists suite runs
type ResultRecorder interface {
	SaveRun(ctx context.Context, result *domain.SuiteResult) error
}

// ResultReader reads past suite runs, newest first
type ResultReader interface {
	GetRun(ctx context.Context, runID string) (*domain.RunSummary, error)
	ListRuns(ctx context.Context, root string, limit int) ([]domain.RunSummary, error)
}

// ResultRepository is the composite interface
type ResultRepository interface {
	ResultReader
	ResultRecorder
	Close() error
}
