package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrCoverageMerge              = errors.New("coverage merge failed")
	ErrCredentialIO               = errors.New("credential file could not be written")
	ErrCredentialMalformed        = errors.New("credential file is malformed")
	ErrCredentialNotFound         = errors.New("credential file not found")
	ErrCredentialPermissionDenied = errors.New("permission denied")
	ErrLockAcquisition            = errors.New("lock acquisition failed")
	ErrLockTimeout                = errors.New("timed out waiting for lock")
	ErrManifestInvalid            = errors.New("invalid package manifest")
	ErrNoScripts                  = errors.New("no test scripts found")
	ErrScriptAssertion            = errors.New("script assertion failed")
	ErrScriptSyntax               = errors.New("invalid test script")
	ErrWorkspaceSetup             = errors.New("workspace setup failed")
)

// LockTimeoutError reports that a resource lock stayed contended for the whole wait.
type LockTimeoutError struct {
	HolderPID int // 0 when unknown
	Key       ResourceKey
	Timeout   time.Duration
}

func (e *LockTimeoutError) Error() string {
	msg := fmt.Sprintf("timed out after %s waiting for lock on %s", e.Timeout, e.Key)
	if e.HolderPID > 0 {
		msg += fmt.Sprintf(" (held by pid %d)", e.HolderPID)
	}
	return msg
}

// Is makes errors.Is(err, ErrLockTimeout) match.
func (e *LockTimeoutError) Is(target error) bool {
	return target == ErrLockTimeout
}

// AggregateFailure lists every script that failed in a suite run.
type AggregateFailure struct {
	Failed []TestResult
	Total  int
}

func (e *AggregateFailure) Error() string {
	names := make([]string, len(e.Failed))
	for i, r := range e.Failed {
		names[i] = r.Script
	}
	return fmt.Sprintf("%d of %d test scripts failed: %s", len(e.Failed), e.Total, strings.Join(names, ", "))
}
