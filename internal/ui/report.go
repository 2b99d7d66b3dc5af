package ui

import (
	"fmt"
	"strings"
	"time"

	"movecli/internal/domain"
	"movecli/internal/theme"
)

// RenderSuiteReport renders one line per script, failure details, and a
// summary line
func RenderSuiteReport(result *domain.SuiteResult) string {
	var sb strings.Builder

	for _, r := range result.Results {
		label := "PASS"
		if !r.Passed {
			label = "FAIL"
		}
		sb.WriteString(theme.OutcomeStyle(r.Passed).Render(label))
		sb.WriteString(" ")
		sb.WriteString(theme.NormalStyle.Render(r.Script))
		sb.WriteString(theme.MutedStyle.Render(fmt.Sprintf(" (%s)", formatDuration(r.Duration))))
		sb.WriteString("\n")

		if !r.Passed {
			sb.WriteString(theme.FailureBlockStyle.Render(renderFailure(r)))
			sb.WriteString("\n")
		}
	}

	sb.WriteString("\n")
	failed := len(result.Failed())
	total := len(result.Results)
	if failed == 0 {
		sb.WriteString(theme.PassStyle.Render(fmt.Sprintf("ok: %d scripts passed", total)))
	} else {
		sb.WriteString(theme.FailStyle.Render(fmt.Sprintf("FAIL: %d of %d scripts failed", failed, total)))
	}
	sb.WriteString(theme.MutedStyle.Render(fmt.Sprintf(" in %s (%s)", formatDuration(result.Duration), modeLabel(result.Ephemeral, result.Coverage))))
	sb.WriteString("\n")

	switch {
	case result.CoverageErr != nil:
		sb.WriteString(theme.WarnStyle.Render("coverage: " + result.CoverageErr.Error()))
		sb.WriteString("\n")
	case result.CoverageReport != "":
		sb.WriteString(theme.LabelStyle.Render("coverage: "))
		sb.WriteString(result.CoverageReport)
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderFailure(r domain.TestResult) string {
	var sb strings.Builder

	switch {
	case r.SetupErr != nil:
		sb.WriteString(r.SetupErr.Error())
	case r.Failure != nil:
		f := r.Failure
		fmt.Fprintf(&sb, "step %d (line %d)", f.StepIndex+1, f.Line)
		if len(f.Args) > 0 {
			sb.WriteString(theme.MutedStyle.Render(" [" + strings.Join(f.Args, " ") + "]"))
		}
		sb.WriteString(": " + f.Reason)
		if f.Diff != "" {
			sb.WriteString("\n" + renderDiff(f.Diff))
		} else if f.Expected != "" || f.Actual != "" {
			sb.WriteString("\n" + theme.LabelStyle.Render("expected: ") + f.Expected)
			sb.WriteString("\n" + theme.LabelStyle.Render("actual:   ") + f.Actual)
		}
		if f.Stderr != "" && f.Reason == "unexpected exit status" {
			sb.WriteString("\n" + theme.LabelStyle.Render("stderr: ") + strings.TrimRight(f.Stderr, "\n"))
		}
	default:
		sb.WriteString("failed")
	}

	if r.Snapshot != "" {
		sb.WriteString("\n" + theme.LabelStyle.Render("workspace: ") + r.Snapshot)
	}
	return sb.String()
}

// renderDiff colors the -/+ lines of a diff
func renderDiff(diff string) string {
	lines := strings.Split(strings.TrimRight(diff, "\n"), "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		switch {
		case strings.HasPrefix(trimmed, "-"):
			lines[i] = theme.DeletionsStyle.Render(line)
		case strings.HasPrefix(trimmed, "+"):
			lines[i] = theme.AdditionsStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

func modeLabel(ephemeral, coverage bool) string {
	mode := "persistent"
	if ephemeral {
		mode = "ephemeral"
	}
	if coverage {
		mode += ", coverage"
	}
	return mode
}

// formatDuration rounds durations for display
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return d.String()
	case d < time.Second:
		return d.Round(time.Millisecond).String()
	default:
		return d.Round(10 * time.Millisecond).String()
	}
}
