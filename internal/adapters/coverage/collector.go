package coverage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// ReportName is the merged profile written into the coverage directory
const ReportName = "coverage.out"

// Collector implements ports.CoverageCollector. Each invocation writes its
// raw counters into its own GOCOVERDIR so concurrent children never share
// an output directory.
type Collector struct {
	conv    Converter
	dir     string
	enabled bool

	mu      sync.Mutex
	records []domain.CoverageRecord
}

// Compile-time interface verification
var _ ports.CoverageCollector = (*Collector)(nil)

// NewCollector creates a collector writing under dir. A nil converter means
// go tool covdata.
func NewCollector(dir string, enabled bool, conv Converter) *Collector {
	if conv == nil {
		conv = NewCovdataConverter()
	}
	return &Collector{conv: conv, dir: dir, enabled: enabled}
}

// Enabled reports whether invocations are instrumented
func (c *Collector) Enabled() bool {
	return c.enabled
}

// Begin prepares the artifact directory for one invocation and returns the
// environment that points the child at it
func (c *Collector) Begin(id domain.InvocationID) []string {
	if !c.enabled {
		return nil
	}

	dir := filepath.Join(c.dir, id.Slug())
	if err := os.MkdirAll(dir, 0755); err != nil {
		// Coverage never decides pass/fail; run uninstrumented
		logging.Logger.Warn("Failed to create coverage directory", "dir", dir, "error", err)
		return nil
	}

	c.mu.Lock()
	c.records = append(c.records, domain.CoverageRecord{Dir: dir, Invocation: id})
	c.mu.Unlock()

	return []string{"GOCOVERDIR=" + dir}
}

// Records returns the recorded invocations ordered by script and step
func (c *Collector) Records() []domain.CoverageRecord {
	c.mu.Lock()
	records := append([]domain.CoverageRecord(nil), c.records...)
	c.mu.Unlock()

	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].Invocation, records[j].Invocation
		if a.Script != b.Script {
			return a.Script < b.Script
		}
		return a.Step < b.Step
	})
	return records
}

// Merge unions every recorded profile into <dir>/coverage.out
func (c *Collector) Merge(ctx context.Context) (string, error) {
	if !c.enabled {
		return "", nil
	}

	records := c.Records()
	logging.Logger.Info("Merging coverage", "invocations", len(records), "dir", c.dir)

	merged := newProfileSet()
	for _, rec := range records {
		profiles, err := readRecord(ctx, c.conv, rec.Dir)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrCoverageMerge, rec.Invocation, err)
		}
		if err := merged.add(profiles); err != nil {
			return "", fmt.Errorf("%w: %s: %w", domain.ErrCoverageMerge, rec.Invocation, err)
		}
	}

	if merged.empty() {
		return "", fmt.Errorf("%w: no coverage data recorded (was the binary built with -cover?)", domain.ErrCoverageMerge)
	}

	path := filepath.Join(c.dir, ReportName)
	if err := merged.write(path); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrCoverageMerge, err)
	}

	logging.Logger.Info("Coverage merged", "report", path, "files", len(merged.files))
	return path, nil
}
