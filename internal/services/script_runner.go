package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/go-cmp/cmp"

	"movecli/internal/adapters/script"
	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// Variables passed through to children even though they carry the MOVE_
// prefix: they only steer debug logging.
var inheritedMoveVars = map[string]bool{
	"MOVE_DEBUG":         true,
	"MOVE_DEBUG_FILE":    true,
	"MOVE_MAX_LOG_FILES": true,
}

// ScriptRunnerOptions configures how scripts invoke the binary under test
type ScriptRunnerOptions struct {
	Binary      string
	Env         map[string]string // extra variables for every script
	StepTimeout time.Duration
}

// ScriptRunner executes the steps of one script inside a workspace
type ScriptRunner struct {
	coverage ports.CoverageCollector
	opts     ScriptRunnerOptions
	runner   ports.ProcessRunner
}

// NewScriptRunner creates a new ScriptRunner
func NewScriptRunner(runner ports.ProcessRunner, coverage ports.CoverageCollector, opts ScriptRunnerOptions) *ScriptRunner {
	return &ScriptRunner{
		coverage: coverage,
		opts:     opts,
		runner:   runner,
	}
}

// scriptState is what steps share while one script runs
type scriptState struct {
	base []string // filtered parent environment
	vars map[string]string
	ws   *domain.Workspace
}

func (st *scriptState) env() []string {
	names := make([]string, 0, len(st.vars))
	for name := range st.vars {
		names = append(names, name)
	}
	sort.Strings(names)

	env := append([]string(nil), st.base...)
	for _, name := range names {
		env = append(env, name+"="+st.vars[name])
	}
	return env
}

func (st *scriptState) expand(s string) string {
	return script.Expand(s, st.vars)
}

// path resolves a script path against the workspace root
func (st *scriptState) path(p string) string {
	p = st.expand(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(st.ws.Root, filepath.FromSlash(p))
}

// Run executes every step in order and stops at the first mismatch. The
// workspace must already be allocated; the caller releases it.
func (r *ScriptRunner) Run(ctx context.Context, s *domain.Script, ws *domain.Workspace) domain.TestResult {
	start := time.Now()
	result := domain.TestResult{Script: s.Name}

	st, err := r.prepare(s, ws)
	if err != nil {
		result.SetupErr = err
		result.Duration = time.Since(start)
		logging.Logger.Error("Script setup failed", "script", s.Name, "error", err)
		return result
	}

	for _, step := range s.Steps {
		if failure := r.runStep(ctx, s, st, step); failure != nil {
			result.Failure = failure
			result.Duration = time.Since(start)
			logging.Logger.Info("Script failed", "script", s.Name, "step", step.Index, "line", failure.Line, "reason", failure.Reason)
			return result
		}
	}

	result.Passed = true
	result.Duration = time.Since(start)
	logging.Logger.Info("Script passed", "script", s.Name, "duration", result.Duration)
	return result
}

// prepare isolates the script environment and writes its fixtures
func (r *ScriptRunner) prepare(s *domain.Script, ws *domain.Workspace) (*scriptState, error) {
	st := &scriptState{
		base: filteredEnviron(),
		vars: map[string]string{
			"HOME":      filepath.Join(ws.Root, "home"),
			"MOVE_HOME": filepath.Join(ws.Root, ".move"),
			"TMPDIR":    filepath.Join(ws.Root, "tmp"),
			"WORK":      ws.Root,
		},
		ws: ws,
	}
	for k, v := range r.opts.Env {
		st.vars[k] = script.Expand(v, st.vars)
	}

	for _, dir := range []string{st.vars["HOME"], st.vars["TMPDIR"]} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrWorkspaceSetup, err)
		}
	}

	for _, f := range s.Files {
		path := filepath.Join(ws.Root, f.Name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("%w: fixture %s: %v", domain.ErrWorkspaceSetup, f.Name, err)
		}
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return nil, fmt.Errorf("%w: fixture %s: %v", domain.ErrWorkspaceSetup, f.Name, err)
		}
	}
	return st, nil
}

// filteredEnviron is the parent environment minus anything that would let a
// script reach the operator's own move state
func filteredEnviron() []string {
	var env []string
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if name == "GOCOVERDIR" {
			continue
		}
		if strings.HasPrefix(name, "MOVE_") && !inheritedMoveVars[name] {
			continue
		}
		if name == "HOME" || name == "TMPDIR" || name == "WORK" {
			continue
		}
		env = append(env, kv)
	}
	return env
}

func stepFailure(step domain.Step, reason string) *domain.StepFailure {
	return &domain.StepFailure{
		Args:      step.Args,
		ExitCode:  -1,
		Line:      step.Line,
		Reason:    reason,
		StepIndex: step.Index,
	}
}

func (r *ScriptRunner) runStep(ctx context.Context, s *domain.Script, st *scriptState, step domain.Step) *domain.StepFailure {
	switch step.Op {
	case domain.OpRun:
		return r.runBinary(ctx, s, st, step)

	case domain.OpEnv:
		for _, kv := range step.Args {
			name, value, _ := strings.Cut(kv, "=")
			st.vars[name] = st.expand(value)
		}

	case domain.OpChmod:
		mode, _ := strconv.ParseUint(step.Args[0], 8, 32)
		if err := os.Chmod(st.path(step.Args[1]), fs.FileMode(mode)); err != nil {
			return stepFailure(step, fmt.Sprintf("chmod failed: %v", err))
		}

	case domain.OpExists:
		for _, p := range step.Args {
			_, err := os.Lstat(st.path(p))
			exists := err == nil
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return stepFailure(step, fmt.Sprintf("cannot stat %s: %v", p, err))
			}
			if exists == step.Negate {
				f := stepFailure(step, fmt.Sprintf("%s: existence check failed", p))
				f.Expected, f.Actual = existence(!step.Negate), existence(exists)
				return f
			}
		}

	case domain.OpMkdir:
		for _, p := range step.Args {
			if err := os.MkdirAll(st.path(p), 0755); err != nil {
				return stepFailure(step, fmt.Sprintf("mkdir failed: %v", err))
			}
		}

	case domain.OpRm:
		for _, p := range step.Args {
			if err := os.RemoveAll(st.path(p)); err != nil {
				return stepFailure(step, fmt.Sprintf("rm failed: %v", err))
			}
		}

	case domain.OpGrep:
		for _, a := range step.Assertions {
			if f := r.checkAssertion(st, step, a, ""); f != nil {
				return f
			}
		}

	default:
		return stepFailure(step, fmt.Sprintf("unsupported step %q", step.Op))
	}
	return nil
}

func existence(exists bool) string {
	if exists {
		return "exists"
	}
	return "does not exist"
}

func (r *ScriptRunner) runBinary(ctx context.Context, s *domain.Script, st *scriptState, step domain.Step) *domain.StepFailure {
	args := make([]string, len(step.Args))
	for i, a := range step.Args {
		args[i] = st.expand(a)
	}

	var stdin []byte
	if step.Stdin != "" {
		data, err := os.ReadFile(st.path(step.Stdin))
		if err != nil {
			return stepFailure(step, fmt.Sprintf("cannot read stdin file: %v", err))
		}
		stdin = data
	}

	env := st.env()
	if r.coverage != nil {
		env = append(env, r.coverage.Begin(domain.InvocationID{Script: s.Name, Step: step.Index})...)
	}

	outcome, err := r.runner.Run(ctx, ports.Invocation{
		Args:    args,
		Binary:  r.opts.Binary,
		Dir:     st.ws.Root,
		Env:     env,
		Stdin:   stdin,
		Timeout: r.opts.StepTimeout,
	})

	failure := func(reason string) *domain.StepFailure {
		f := stepFailure(step, reason)
		f.Args = args
		f.ExitCode = outcome.ExitCode
		f.Stderr = outcome.Stderr
		f.Stdout = outcome.Stdout
		return f
	}

	if err != nil {
		return failure(fmt.Sprintf("failed to run binary: %v", err))
	}
	if outcome.TimedOut {
		return failure(fmt.Sprintf("timed out after %s", r.opts.StepTimeout))
	}
	if !step.Exit.Matches(outcome.ExitCode) {
		f := failure("unexpected exit status")
		f.Expected = step.Exit.String()
		f.Actual = fmt.Sprintf("exit status %d", outcome.ExitCode)
		return f
	}

	for _, a := range step.Assertions {
		actual := outcome.Stdout
		if a.Stream == domain.StreamStderr {
			actual = outcome.Stderr
		}
		if f := r.checkAssertion(st, step, a, actual); f != nil {
			f.Args = args
			f.ExitCode = outcome.ExitCode
			f.Stderr = outcome.Stderr
			f.Stdout = outcome.Stdout
			return f
		}
	}
	return nil
}

// checkAssertion compares one stream (or file) against the expectation.
// actual is ignored for file assertions.
func (r *ScriptRunner) checkAssertion(st *scriptState, step domain.Step, a domain.Assertion, actual string) *domain.StepFailure {
	fail := func(reason string) *domain.StepFailure {
		f := stepFailure(step, reason)
		f.Line = a.Line
		return f
	}

	expected := st.expand(a.Value)
	switch {
	case a.Stream == domain.StreamFile:
		data, err := os.ReadFile(st.path(a.Path))
		if err != nil {
			return fail(fmt.Sprintf("cannot read %s: %v", a.Path, err))
		}
		actual = string(data)
	case a.Path != "":
		// cmp: the golden file is compared verbatim
		data, err := os.ReadFile(st.path(a.Path))
		if err != nil {
			return fail(fmt.Sprintf("cannot read %s: %v", a.Path, err))
		}
		expected = string(data)
	}

	matched, err := match(a.Kind, expected, actual)
	if err != nil {
		return fail(err.Error())
	}
	if matched != a.Negate {
		return nil
	}

	f := fail(describe(a))
	f.Expected = expected
	f.Actual = actual
	if a.Kind == domain.MatchExact && !a.Negate {
		f.Diff = lineDiff(expected, actual)
	}
	return f
}

func match(kind domain.MatchKind, expected, actual string) (bool, error) {
	switch kind {
	case domain.MatchExact:
		return actual == expected, nil
	case domain.MatchContains:
		return strings.Contains(actual, expected), nil
	default:
		re, err := regexp.Compile("(?m)" + expected)
		if err != nil {
			return false, fmt.Errorf("invalid pattern %q: %v", expected, err)
		}
		return re.MatchString(actual), nil
	}
}

func describe(a domain.Assertion) string {
	target := string(a.Stream)
	if a.Stream == domain.StreamFile {
		target = a.Path
	}
	verb := map[domain.MatchKind]string{
		domain.MatchContains: "contain",
		domain.MatchExact:    "equal",
		domain.MatchPattern:  "match",
	}[a.Kind]
	if a.Negate {
		return fmt.Sprintf("%s should not %s the expected text", target, verb)
	}
	return fmt.Sprintf("%s does not %s the expected text", target, verb)
}

// lineDiff renders a line-oriented diff (-expected +actual)
func lineDiff(expected, actual string) string {
	return "diff (-expected +actual):\n" + cmp.Diff(strings.SplitAfter(expected, "\n"), strings.SplitAfter(actual, "\n"))
}
