package theme

import "github.com/charmbracelet/lipgloss"

// Color is an alias for lipgloss.Color for convenience
type Color = lipgloss.Color

// Brand colors
const (
	ColorPrimary   Color = "99" // Purple - titles
	ColorSecondary Color = "86" // Cyan - section headers
)

// Outcome colors
const (
	ColorFail    Color = "1" // Red - failed script
	ColorPass    Color = "2" // Green - passed script
	ColorSkipped Color = "8" // Gray - absent from a run
	ColorWarn    Color = "3" // Yellow - non-fatal problems
)

// UI semantic colors
const (
	ColorError     Color = "196" // Bright red
	ColorHighlight Color = "255" // White - emphasis
	ColorMuted     Color = "241" // Gray - secondary text
	ColorNormal    Color = "250" // Default text
	ColorSubtle    Color = "245" // Light gray - labels
)

// Diff colors
const (
	ColorAdditions Color = "2" // Green
	ColorDeletions Color = "1" // Red
)
