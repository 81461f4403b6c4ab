package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Palette. Day and night double as the accents of the mode badge.
var (
	PrimaryColor = lipgloss.Color("#4F6BED")
	SuccessColor = lipgloss.Color("#3FB46B")
	ErrorColor   = lipgloss.Color("#E5484D")
	WarningColor = lipgloss.Color("#F0A030")
	MutedColor   = lipgloss.Color("#6E6E6E")
	TextColor    = lipgloss.Color("#F2F2F2")
	DayColor     = lipgloss.Color("#F5C542")
	NightColor   = lipgloss.Color("#5B8DEF")
)

const (
	// MinTerminalWidth is the narrowest layout rendered
	MinTerminalWidth = 60

	// MaxContentWidth caps boxes on wide terminals
	MaxContentWidth = 100
)

// fg returns a style with only a foreground color set.
func fg(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// Header box
var (
	HeaderTitleStyle      = fg(TextColor).Bold(true).PaddingLeft(2)
	HeaderCommandStyle    = fg(MutedColor).PaddingLeft(2)
	HeaderParamKeyStyle   = fg(MutedColor).PaddingLeft(2).Width(14)
	HeaderParamValueStyle = fg(TextColor)
)

// Step list
var (
	StepCompleteStyle = fg(SuccessColor)
	StepRunningStyle  = fg(WarningColor)
	StepPendingStyle  = fg(MutedColor)
	StepNoteStyle     = fg(MutedColor).Italic(true)
)

// Result box
var (
	SuccessTitleStyle         = fg(SuccessColor).Bold(true)
	ErrorTitleStyle           = fg(ErrorColor).Bold(true)
	WarningTitleStyle         = fg(WarningColor).Bold(true)
	ErrorMessageStyle         = fg(ErrorColor)
	ResultKeyStyle            = fg(MutedColor).Width(18)
	ResultValueStyle          = fg(TextColor)
	TroubleshootingTitleStyle = fg(MutedColor).Bold(true)
	TroubleshootingItemStyle  = fg(MutedColor)
)

// Setup prompts
var (
	PromptStyle = fg(PrimaryColor).Bold(true)
	HintStyle   = fg(MutedColor).PaddingLeft(2)
)

// Status markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	StepMarkerSkipped  = "⊘"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
	WarningMarker      = "⚠"
)

// ModeBadge renders "DAY" or "NIGHT" in the mode's color.
func ModeBadge(mode string) string {
	color := NightColor
	if mode == "day" {
		color = DayColor
	}
	return fg(color).Bold(true).Render(upper(mode))
}

// GetTerminalWidth returns the stdout width clamped to the supported range.
// Without a terminal it returns MinTerminalWidth.
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return min(clampWidth(width), MaxContentWidth)
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	return width
}
