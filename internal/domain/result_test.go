package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepFailureString(t *testing.T) {
	f := &StepFailure{
		Args:      []string{"login", "--registry", "x"},
		Expected:  "exit status 0",
		Actual:    "exit status 1",
		Line:      7,
		Reason:    "unexpected exit status",
		StepIndex: 2,
	}

	assert.Equal(t, "step 3 (line 7) [login --registry x]: unexpected exit status\nexpected: exit status 0\nactual:   exit status 1", f.String())
	assert.True(t, errors.Is(f, ErrScriptAssertion))
}

func TestStepFailureStringPrefersDiff(t *testing.T) {
	f := &StepFailure{Diff: "-a\n+b", Expected: "a", Actual: "b", Line: 1, Reason: "stdout mismatch"}
	assert.Equal(t, "step 1 (line 1): stdout mismatch\n-a\n+b", f.String())
}

func TestTestResultErr(t *testing.T) {
	setup := errors.New("boom")

	tests := []struct {
		name    string
		result  TestResult
		wantErr error
		summary string
	}{
		{"passed", TestResult{Passed: true}, nil, "ok"},
		{"setup error", TestResult{SetupErr: setup}, setup, "boom"},
		{"no detail", TestResult{}, ErrScriptAssertion, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantErr, tt.result.Err())
			assert.Equal(t, tt.summary, tt.result.Summary())
		})
	}
}

func TestSuiteResult(t *testing.T) {
	s := &SuiteResult{
		Duration: time.Second,
		Results: []TestResult{
			{Script: "a", Passed: true},
			{Script: "b", Failure: &StepFailure{Reason: "x"}},
			{Script: "c", Passed: true},
			{Script: "d", SetupErr: ErrWorkspaceSetup},
		},
	}

	assert.False(t, s.Passed())
	assert.Equal(t, map[string]bool{"a": true, "b": false, "c": true, "d": false}, s.Outcomes())

	err := s.Err()
	var agg *AggregateFailure
	require.True(t, errors.As(err, &agg))
	assert.Equal(t, 4, agg.Total)
	assert.Len(t, agg.Failed, 2)
	assert.Equal(t, "2 of 4 test scripts failed: b, d", err.Error())
}

func TestSuiteResultAllPassed(t *testing.T) {
	s := &SuiteResult{Results: []TestResult{{Script: "a", Passed: true}}}
	assert.True(t, s.Passed())
	assert.NoError(t, s.Err())
}

func TestLockTimeoutError(t *testing.T) {
	key := ResourceKey{Source: "src", Revision: "main"}

	err := error(&LockTimeoutError{HolderPID: 42, Key: key, Timeout: 2 * time.Second})
	assert.Equal(t, "timed out after 2s waiting for lock on src@main (held by pid 42)", err.Error())
	assert.True(t, errors.Is(err, ErrLockTimeout))

	unknown := &LockTimeoutError{Key: key, Timeout: time.Second}
	assert.Equal(t, "timed out after 1s waiting for lock on src@main", unknown.Error())
}
