package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"movecli/internal/adapters/coverage"
	"movecli/internal/adapters/process"
	"movecli/internal/adapters/script"
	"movecli/internal/adapters/workspace"
	"movecli/internal/config"
	"movecli/internal/domain"
	"movecli/internal/logging"
	"movecli/internal/ports"
)

// PersistentDirName holds the persistent workspaces next to the scripts
const PersistentDirName = ".movetest"

// SuiteOptions configures one suite run. Zero values fall back to the suite
// config file, then to defaults.
type SuiteOptions struct {
	Binary      string
	Coverage    bool
	CoverageDir string // default: a fresh temporary directory
	Ephemeral   bool
	KeepFailed  string // directory for failed-workspace snapshots; empty disables
	Parallelism int
	Record      bool
	Root        string
	StepTimeout time.Duration
}

// CoverageFactory builds the collector for one run
type CoverageFactory func(dir string, enabled bool) ports.CoverageCollector

// SuiteService discovers scripts and runs them concurrently
type SuiteService struct {
	history     ports.ResultRecorder
	loader      ports.ScriptLoader
	newCoverage CoverageFactory
	runner      ports.ProcessRunner
	workspaces  ports.WorkspaceAllocator
}

// NewSuiteService creates a new SuiteService. history may be nil.
func NewSuiteService(
	loader ports.ScriptLoader,
	runner ports.ProcessRunner,
	workspaces ports.WorkspaceAllocator,
	newCoverage CoverageFactory,
	history ports.ResultRecorder,
) *SuiteService {
	return &SuiteService{
		history:     history,
		loader:      loader,
		newCoverage: newCoverage,
		runner:      runner,
		workspaces:  workspaces,
	}
}

// RunAll runs every script under root with the default adapters and returns
// nil only when all of them passed
func RunAll(ctx context.Context, root, binary string, ephemeral, withCoverage bool) error {
	svc := NewSuiteService(
		script.NewLoader(),
		process.NewOSRunner(),
		workspace.NewManager(""),
		func(dir string, enabled bool) ports.CoverageCollector {
			return coverage.NewCollector(dir, enabled, nil)
		},
		nil,
	)
	_, err := svc.RunAll(ctx, SuiteOptions{
		Binary:    binary,
		Coverage:  withCoverage,
		Ephemeral: ephemeral,
		Root:      root,
	})
	return err
}

// RunAll runs the suite. The returned error is an *domain.AggregateFailure
// when scripts failed, or a discovery/cancellation error; the result is
// non-nil whenever scripts were run.
func (s *SuiteService) RunAll(ctx context.Context, opts SuiteOptions) (*domain.SuiteResult, error) {
	if opts.Binary == "" {
		return nil, fmt.Errorf("no binary under test given")
	}
	binary, err := filepath.Abs(opts.Binary)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve binary: %w", err)
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve suite root: %w", err)
	}

	cfg, err := config.LoadSuiteConfig(root)
	if err != nil {
		return nil, err
	}
	parallelism := firstPositive(opts.Parallelism, cfg.Parallelism, runtime.NumCPU())
	stepTimeout := time.Duration(firstPositive(int(opts.StepTimeout), int(cfg.StepTimeout), int(config.DefaultStepTimeout)))

	paths, err := Discover(root, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	started := time.Now()

	coverageDir := opts.CoverageDir
	if opts.Coverage && coverageDir == "" {
		if coverageDir, err = os.MkdirTemp("", "movecov-"); err != nil {
			return nil, fmt.Errorf("failed to create coverage directory: %w", err)
		}
	}
	collector := s.newCoverage(coverageDir, opts.Coverage)

	logging.Logger.Info("Running suite",
		"run_id", runID,
		"root", root,
		"scripts", len(paths),
		"ephemeral", opts.Ephemeral,
		"coverage", opts.Coverage,
		"parallelism", parallelism)

	runner := NewScriptRunner(s.runner, collector, ScriptRunnerOptions{
		Binary:      binary,
		Env:         cfg.Env,
		StepTimeout: stepTimeout,
	})

	base := root
	if len(paths) == 1 && paths[0] == root {
		base = filepath.Dir(root)
	}

	results := make([]domain.TestResult, len(paths))
	var g errgroup.Group
	g.SetLimit(parallelism)
	for i, p := range paths {
		g.Go(func() error {
			results[i] = s.runScript(ctx, runner, base, p, opts)
			return nil
		})
	}
	g.Wait()

	result := &domain.SuiteResult{
		Coverage:  opts.Coverage,
		Ephemeral: opts.Ephemeral,
		Results:   results,
		Root:      root,
		RunID:     runID,
		StartedAt: started,
	}

	if err := ctx.Err(); err != nil {
		result.Duration = time.Since(started)
		return result, fmt.Errorf("suite run interrupted: %w", err)
	}

	if opts.Coverage {
		result.CoverageReport, result.CoverageErr = collector.Merge(ctx)
		if result.CoverageErr != nil {
			logging.Logger.Warn("Coverage merge failed", "error", result.CoverageErr)
		}
	}
	result.Duration = time.Since(started)

	if opts.Record && s.history != nil {
		if err := s.history.SaveRun(ctx, result); err != nil {
			logging.Logger.Warn("Failed to record suite run", "run_id", runID, "error", err)
		}
	}

	logging.Logger.Info("Suite finished", "run_id", runID, "total", len(results), "failed", len(result.Failed()), "duration", result.Duration)
	return result, result.Err()
}

// runScript loads one script, gives it a workspace, and runs it
func (s *SuiteService) runScript(ctx context.Context, runner *ScriptRunner, base, scriptPath string, opts SuiteOptions) domain.TestResult {
	name := ScriptName(base, scriptPath)

	if err := ctx.Err(); err != nil {
		return domain.TestResult{Script: name, SetupErr: err}
	}

	sc, err := s.loader.Load(scriptPath)
	if err != nil {
		return domain.TestResult{Script: name, SetupErr: err}
	}
	sc.Name = name

	hint := ""
	if !opts.Ephemeral {
		hint = filepath.Join(filepath.Dir(scriptPath), PersistentDirName, strings.TrimSuffix(filepath.Base(scriptPath), script.Extension))
	}
	ws, err := s.workspaces.Allocate(opts.Ephemeral, hint)
	if err != nil {
		return domain.TestResult{Script: name, SetupErr: err}
	}
	defer s.workspaces.Release(ws)

	if !ws.Ephemeral {
		// Same starting state on every run
		if err := s.workspaces.Reset(ws); err != nil {
			return domain.TestResult{Script: name, SetupErr: err}
		}
	}

	result := runner.Run(ctx, sc, ws)

	if !result.Passed && opts.KeepFailed != "" {
		dst := filepath.Join(opts.KeepFailed, domain.SanitizeName(name, 0)+".tar.xz")
		if err := s.workspaces.Snapshot(ws, dst); err != nil {
			logging.Logger.Warn("Failed to snapshot workspace", "script", name, "error", err)
		} else {
			result.Snapshot = dst
		}
	}
	return result
}

// ScriptName is the script's path relative to the suite base, without the
// extension, in slash form
func ScriptName(base, scriptPath string) string {
	rel, err := filepath.Rel(base, scriptPath)
	if err != nil {
		rel = filepath.Base(scriptPath)
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), script.Extension)
}

// Discover returns every script under root in lexical order. A root that is
// itself a script is a one-element suite. Hidden directories (including the
// persistent workspaces) are skipped; exclude patterns are matched against
// the slash-separated relative path and the base name.
func Discover(root string, exclude []string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access suite root: %w", err)
	}
	if !info.IsDir() {
		if filepath.Ext(root) != script.Extension {
			return nil, fmt.Errorf("%w: %s is not a %s file", domain.ErrNoScripts, root, script.Extension)
		}
		return []string{root}, nil
	}

	var paths []string
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") || excluded(rel, d.Name(), exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(p) == script.Extension && !excluded(rel, d.Name(), exclude) {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover scripts: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w under %s", domain.ErrNoScripts, root)
	}

	sort.Strings(paths)
	return paths, nil
}

func excluded(rel, name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func firstPositive(values ...int) int {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// IsAggregateFailure reports whether err means "scripts failed" as opposed
// to "the suite could not run"
func IsAggregateFailure(err error) bool {
	var agg *domain.AggregateFailure
	return errors.As(err, &agg)
}
