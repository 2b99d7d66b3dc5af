package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"movecli/internal/logging"
	"movecli/internal/services"
	"movecli/internal/ui"
)

// SandboxCmd groups test harness commands
type SandboxCmd struct {
	History SandboxHistoryCmd `cmd:"history" help:"Show recorded suite runs and outcome drift"`
	Show    SandboxShowCmd    `cmd:"show" help:"Show the script outcomes of one recorded run"`
	Test    SandboxTestCmd    `cmd:"test" help:"Run test scripts against a binary"`
}

// SandboxTestCmd runs a directory of scripts (or one script)
type SandboxTestCmd struct {
	Binary        string        `help:"Binary under test (default: this executable)" type:"path"`
	Coverage      bool          `help:"Collect and merge coverage from every invocation (binary must be built with -cover)"`
	CoverageDir   string        `help:"Directory for coverage artifacts (default <home>/coverage/<run>)" type:"path"`
	KeepFailed    string        `help:"Archive the workspace of every failed script into this directory" type:"path"`
	Parallel      int           `help:"Maximum scripts run at once (default from movetest.yaml, settings.json, else CPU count)"`
	Path          string        `arg:"" help:"Script file or directory of scripts" type:"path" default:"."`
	Record        bool          `help:"Store the run in the history database"`
	StepTimeout   time.Duration `help:"Timeout for a single invocation (default from movetest.yaml, else 2m)"`
	TempWorkspace bool          `help:"Run each script in a fresh temporary directory instead of a persistent one"`
}

// Run executes the test command
func (s *SandboxTestCmd) Run(cli *CLI) error {
	binary := s.Binary
	if binary == "" {
		exe, err := os.Executable()
		if err != nil {
			return fmt.Errorf("cannot locate the move binary: %w", err)
		}
		binary = exe
	}

	parallel := s.Parallel
	if parallel <= 0 && cli.LoadedSettings().Parallelism != nil {
		parallel = *cli.LoadedSettings().Parallelism
	}

	coverageDir := s.CoverageDir
	if s.Coverage && coverageDir == "" {
		coverageDir = filepath.Join(cli.Container.Paths.CoverageDir(), time.Now().UTC().Format("20060102T150405.000000000"))
	}

	svc, err := cli.Container.SuiteService(s.Record)
	if err != nil {
		return err
	}

	// Interrupt cancels the run, killing running children
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := svc.RunAll(ctx, services.SuiteOptions{
		Binary:      binary,
		Coverage:    s.Coverage,
		CoverageDir: coverageDir,
		Ephemeral:   s.TempWorkspace,
		KeepFailed:  s.KeepFailed,
		Parallelism: parallel,
		Record:      s.Record,
		Root:        s.Path,
		StepTimeout: s.StepTimeout,
	})
	if result != nil {
		fmt.Print(ui.RenderSuiteReport(result))
	}
	if err != nil {
		logging.Logger.Info("Suite did not pass", "error", err)
	}
	return err
}

// SandboxHistoryCmd lists recorded runs
type SandboxHistoryCmd struct {
	Limit int    `help:"Number of runs to show" default:"10"`
	Root  string `help:"Only runs of this suite root (default: all)" type:"path"`
}

// Run executes the history command
func (h *SandboxHistoryCmd) Run(cli *CLI) error {
	svc, err := cli.Container.HistoryService()
	if err != nil {
		return err
	}

	ctx := context.Background()
	runs, err := svc.List(ctx, h.Root, h.Limit)
	if err != nil {
		return err
	}

	var drift []services.Drift
	if len(runs) > 0 {
		root := h.Root
		if root == "" {
			root = runs[0].Root
		}
		if drift, err = svc.Drift(ctx, root); err != nil {
			return err
		}
	}

	fmt.Print(ui.RenderHistory(runs, drift))
	return nil
}

// SandboxShowCmd prints one recorded run
type SandboxShowCmd struct {
	RunID string `arg:"" help:"Run id as printed by history"`
}

// Run executes the show command
func (s *SandboxShowCmd) Run(cli *CLI) error {
	svc, err := cli.Container.HistoryService()
	if err != nil {
		return err
	}

	run, err := svc.Get(context.Background(), s.RunID)
	if err != nil {
		return err
	}
	fmt.Print(ui.RenderRun(run))
	return nil
}
