package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"movecli/internal/domain"
	"movecli/internal/services"
	"movecli/internal/theme"
)

// RenderHistory renders past runs as a table, followed by the outcome drift
// between the two most recent runs when drift is non-empty
func RenderHistory(runs []domain.RunSummary, drift []services.Drift) string {
	if len(runs) == 0 {
		return theme.MutedStyle.Render("No recorded runs.") + "\n"
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []string{
			run.RunID,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Root,
			fmt.Sprintf("%d/%d", run.Total-run.Failed, run.Total),
			formatDuration(run.Duration),
			modeLabel(run.Ephemeral, run.Coverage),
		})
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(theme.MutedStyle).
		Headers("RUN", "STARTED", "ROOT", "PASSED", "DURATION", "MODE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return theme.HeaderStyle.Padding(0, 1)
			}
			if col == 3 && runs[row].Failed > 0 {
				return theme.FailStyle.Padding(0, 1)
			}
			return theme.NormalStyle.Padding(0, 1)
		})

	var sb strings.Builder
	sb.WriteString(t.Render())
	sb.WriteString("\n")

	if len(drift) > 0 {
		sb.WriteString("\n")
		sb.WriteString(theme.WarnStyle.Render(fmt.Sprintf("Outcome drift since the previous run (%d scripts):", len(drift))))
		sb.WriteString("\n")
		for _, d := range drift {
			fmt.Fprintf(&sb, "  %s: %s -> %s\n", d.Script, outcomeLabel(d.Previous), outcomeLabel(d.Current))
		}
	}
	return sb.String()
}

// RenderRun renders the per-script outcomes of one run
func RenderRun(run *domain.RunSummary) string {
	var sb strings.Builder

	sb.WriteString(theme.TitleStyle.Render("Run " + run.RunID))
	sb.WriteString("\n")
	sb.WriteString(theme.LabelStyle.Render("root:    ") + run.Root + "\n")
	sb.WriteString(theme.LabelStyle.Render("started: ") + run.StartedAt.Local().Format("2006-01-02 15:04:05") + "\n")
	sb.WriteString(theme.LabelStyle.Render("mode:    ") + modeLabel(run.Ephemeral, run.Coverage) + "\n\n")

	names := make([]string, 0, len(run.Outcomes))
	for name := range run.Outcomes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		passed := run.Outcomes[name]
		fmt.Fprintf(&sb, "%s %s\n", outcomeLabel(&passed), name)
	}

	sb.WriteString("\n")
	sb.WriteString(theme.OutcomeStyle(run.Failed == 0).Render(fmt.Sprintf("%d/%d passed", run.Total-run.Failed, run.Total)))
	sb.WriteString(theme.MutedStyle.Render(" in " + formatDuration(run.Duration)))
	sb.WriteString("\n")
	return sb.String()
}

func outcomeLabel(passed *bool) string {
	switch {
	case passed == nil:
		return theme.SkippedStyle.Render("absent")
	case *passed:
		return theme.PassStyle.Render("pass")
	default:
		return theme.FailStyle.Render("FAIL")
	}
}
