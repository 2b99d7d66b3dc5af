package theme

import "github.com/charmbracelet/lipgloss"

// Report styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorSubtle)

	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	NormalStyle = lipgloss.NewStyle().
			Foreground(ColorNormal)

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
)

// Outcome styles
var (
	FailStyle = lipgloss.NewStyle().
			Foreground(ColorFail).
			Bold(true)

	PassStyle = lipgloss.NewStyle().
			Foreground(ColorPass)

	SkippedStyle = lipgloss.NewStyle().
			Foreground(ColorSkipped)

	WarnStyle = lipgloss.NewStyle().
			Foreground(ColorWarn)
)

// Diff styles
var (
	AdditionsStyle = lipgloss.NewStyle().
			Foreground(ColorAdditions)

	DeletionsStyle = lipgloss.NewStyle().
			Foreground(ColorDeletions)
)

// FailureBlockStyle indents failure details under the script line
var FailureBlockStyle = lipgloss.NewStyle().
	PaddingLeft(4)

// Error style
var ErrorStyle = lipgloss.NewStyle().
	Foreground(ColorError).
	Bold(true)

// OutcomeStyle returns the style for a pass/fail outcome
func OutcomeStyle(passed bool) lipgloss.Style {
	if passed {
		return PassStyle
	}
	return FailStyle
}
