package domain

import (
	"fmt"
	"strings"
	"time"
)

// StepFailure describes the first mismatch in a script
type StepFailure struct {
	Actual    string
	Args      []string
	Diff      string
	ExitCode  int
	Expected  string
	Line      int
	Reason    string
	StepIndex int
	Stderr    string
	Stdout    string
}

func (f *StepFailure) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "step %d (line %d)", f.StepIndex+1, f.Line)
	if len(f.Args) > 0 {
		fmt.Fprintf(&b, " [%s]", strings.Join(f.Args, " "))
	}
	fmt.Fprintf(&b, ": %s", f.Reason)
	if f.Diff != "" {
		fmt.Fprintf(&b, "\n%s", f.Diff)
	} else if f.Expected != "" || f.Actual != "" {
		fmt.Fprintf(&b, "\nexpected: %s\nactual:   %s", f.Expected, f.Actual)
	}
	return b.String()
}

func (f *StepFailure) Error() string {
	return f.String()
}

// Is makes errors.Is(err, ErrScriptAssertion) match.
func (f *StepFailure) Is(target error) bool {
	return target == ErrScriptAssertion
}

// TestResult is the outcome of one script
type TestResult struct {
	Duration time.Duration
	Failure  *StepFailure
	Passed   bool
	Script   string
	SetupErr error
	Snapshot string // path of the failed-workspace archive, if one was kept
}

// Summary returns a one-line description of the failure, or "ok"
func (r TestResult) Summary() string {
	switch {
	case r.Passed:
		return "ok"
	case r.SetupErr != nil:
		return r.SetupErr.Error()
	case r.Failure != nil:
		return r.Failure.String()
	default:
		return "failed"
	}
}

// Err returns the setup error or step failure, nil when passed
func (r TestResult) Err() error {
	switch {
	case r.Passed:
		return nil
	case r.SetupErr != nil:
		return r.SetupErr
	case r.Failure != nil:
		return r.Failure
	default:
		return ErrScriptAssertion
	}
}

// SuiteResult aggregates every script of a suite run
type SuiteResult struct {
	Coverage       bool
	CoverageErr    error
	CoverageReport string
	Duration       time.Duration
	Ephemeral      bool
	Results        []TestResult
	Root           string
	RunID          string
	StartedAt      time.Time
}

// Failed returns the failing scripts in discovery order
func (s *SuiteResult) Failed() []TestResult {
	var failed []TestResult
	for _, r := range s.Results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// Passed reports whether every script passed
func (s *SuiteResult) Passed() bool {
	return len(s.Failed()) == 0
}

// Outcomes maps script path to pass/fail
func (s *SuiteResult) Outcomes() map[string]bool {
	out := make(map[string]bool, len(s.Results))
	for _, r := range s.Results {
		out[r.Script] = r.Passed
	}
	return out
}

// Err returns an *AggregateFailure when any script failed
func (s *SuiteResult) Err() error {
	failed := s.Failed()
	if len(failed) == 0 {
		return nil
	}
	return &AggregateFailure{Failed: failed, Total: len(s.Results)}
}

// RunSummary is a stored suite run, as read back from history
type RunSummary struct {
	Coverage  bool
	Duration  time.Duration
	Ephemeral bool
	Failed    int
	Outcomes  map[string]bool
	Root      string
	RunID     string
	StartedAt time.Time
	Total     int
}
