package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movecli/internal/domain"
)

func newTestRepository(t *testing.T) *SQLiteRepository {
	t.Helper()
	repo, err := NewSQLiteRepository(filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func suiteResult(runID, root string, started time.Time, passed ...bool) *domain.SuiteResult {
	r := &domain.SuiteResult{
		Duration:  1500 * time.Millisecond,
		Ephemeral: true,
		Root:      root,
		RunID:     runID,
		StartedAt: started,
	}
	for i, p := range passed {
		res := domain.TestResult{Duration: time.Second, Passed: p, Script: string(rune('a' + i))}
		if !p {
			res.Failure = &domain.StepFailure{Line: 3, Reason: "exit status 1, want 0"}
		}
		r.Results = append(r.Results, res)
	}
	return r
}

func TestSaveAndGetRun(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	result := suiteResult("run-1", "/suite", started, true, false)
	result.Coverage = true
	result.CoverageErr = errors.New("no coverage data")
	require.NoError(t, repo.SaveRun(ctx, result))

	got, err := repo.GetRun(ctx, "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", got.RunID)
	assert.Equal(t, "/suite", got.Root)
	assert.True(t, got.Coverage)
	assert.True(t, got.Ephemeral)
	assert.Equal(t, 2, got.Total)
	assert.Equal(t, 1, got.Failed)
	assert.Equal(t, 1500*time.Millisecond, got.Duration)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, map[string]bool{"a": true, "b": false}, got.Outcomes)
}

func TestGetRunNotFound(t *testing.T) {
	repo := newTestRepository(t)

	_, err := repo.GetRun(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSaveRunRequiresID(t *testing.T) {
	repo := newTestRepository(t)
	assert.Error(t, repo.SaveRun(context.Background(), &domain.SuiteResult{}))
}

func TestSaveRunDuplicateID(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()

	require.NoError(t, repo.SaveRun(ctx, suiteResult("dup", "/s", time.Now(), true)))
	assert.Error(t, repo.SaveRun(ctx, suiteResult("dup", "/s", time.Now(), true)))
}

func TestListRuns(t *testing.T) {
	repo := newTestRepository(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveRun(ctx, suiteResult("old", "/a", base, true)))
	require.NoError(t, repo.SaveRun(ctx, suiteResult("new", "/a", base.Add(time.Hour), false)))
	require.NoError(t, repo.SaveRun(ctx, suiteResult("other", "/b", base.Add(2*time.Hour), true)))

	runs, err := repo.ListRuns(ctx, "/a", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "new", runs[0].RunID, "newest first")
	assert.Equal(t, "old", runs[1].RunID)

	all, err := repo.ListRuns(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "other", all[0].RunID)
	assert.Equal(t, "new", all[1].RunID)
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	require.NoError(t, repo.SaveRun(ctx, suiteResult("persist", "/r", time.Now(), true)))
	require.NoError(t, repo.Close())

	reopened, err := NewSQLiteRepository(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetRun(ctx, "persist")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)
}
