package services

import (
	"context"
	"fmt"
	"sort"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// DefaultHistoryLimit is how many runs `sandbox history` shows
const DefaultHistoryLimit = 10

// Drift is a script whose outcome differs between two runs of the same root
type Drift struct {
	Current  *bool // nil when the script is absent from the current run
	Previous *bool // nil when the script is absent from the previous run
	Script   string
}

// HistoryService reads recorded suite runs
type HistoryService struct {
	results ports.ResultReader
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(results ports.ResultReader) *HistoryService {
	return &HistoryService{
		results: results,
	}
}

// List returns up to limit runs, newest first. An empty root lists all roots.
func (s *HistoryService) List(ctx context.Context, root string, limit int) ([]domain.RunSummary, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	runs, err := s.results.ListRuns(ctx, root, limit)
	if err != nil {
		logging.Logger.Error("Failed to list suite runs", "root", root, "error", err)
		return nil, fmt.Errorf("failed to list suite runs: %w", err)
	}
	return runs, nil
}

// Get returns one recorded run
func (s *HistoryService) Get(ctx context.Context, runID string) (*domain.RunSummary, error) {
	run, err := s.results.GetRun(ctx, runID)
	if err != nil {
		logging.Logger.Error("Failed to load suite run", "run_id", runID, "error", err)
		return nil, err
	}
	return run, nil
}

// Drift compares the two most recent runs of root and returns every script
// whose outcome changed. Fewer than two runs yields no drift.
func (s *HistoryService) Drift(ctx context.Context, root string) ([]Drift, error) {
	runs, err := s.List(ctx, root, 2)
	if err != nil {
		return nil, err
	}
	if len(runs) < 2 {
		return nil, nil
	}
	return CompareOutcomes(runs[1].Outcomes, runs[0].Outcomes), nil
}

// CompareOutcomes returns the scripts whose outcome differs, sorted by name
func CompareOutcomes(previous, current map[string]bool) []Drift {
	names := make(map[string]struct{}, len(previous)+len(current))
	for name := range previous {
		names[name] = struct{}{}
	}
	for name := range current {
		names[name] = struct{}{}
	}

	var drift []Drift
	for name := range names {
		prev, inPrev := previous[name]
		cur, inCur := current[name]
		if inPrev && inCur && prev == cur {
			continue
		}
		d := Drift{Script: name}
		if inPrev {
			d.Previous = &prev
		}
		if inCur {
			d.Current = &cur
		}
		drift = append(drift, d)
	}

	sort.Slice(drift, func(i, j int) bool {
		return drift[i].Script < drift[j].Script
	})
	return drift
}
