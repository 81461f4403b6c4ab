package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus is the state of one step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// Step is one line of a Steps list
type Step struct {
	Name    string
	Status  StepStatus
	Message string // Optional note, e.g. "HTTP 401"
}

// Steps is a numbered step list with a progress bar.
type Steps struct {
	Label   string
	Steps   []Step
	Width   int
	ShowBar bool
	bar     progress.Model
}

// NewSteps creates a list with one pending step per name.
func NewSteps(label string, names ...string) *Steps {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	return &Steps{
		Label:   label,
		Steps:   steps,
		Width:   GetTerminalWidth(),
		ShowBar: true,
		bar:     progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
	}
}

// Update sets the status of the 1-based step n.
func (s *Steps) Update(n int, status StepStatus, message string) {
	if n < 1 || n > len(s.Steps) {
		return
	}
	s.Steps[n-1].Status = status
	s.Steps[n-1].Message = message
}

// Start marks step n as running
func (s *Steps) Start(n int) { s.Update(n, StepRunning, "") }

// Complete marks step n as done
func (s *Steps) Complete(n int, message string) { s.Update(n, StepComplete, message) }

// Fail marks step n as failed
func (s *Steps) Fail(n int, message string) { s.Update(n, StepFailed, message) }

// Skip marks step n as skipped
func (s *Steps) Skip(n int, message string) { s.Update(n, StepSkipped, message) }

// Percent returns the share of finished steps.
func (s *Steps) Percent() float64 {
	if len(s.Steps) == 0 {
		return 0
	}
	done := 0
	for _, step := range s.Steps {
		if step.Status == StepComplete || step.Status == StepSkipped {
			done++
		}
	}
	return float64(done) / float64(len(s.Steps))
}

// Render returns the styled list
func (s *Steps) Render() string {
	var b strings.Builder

	if s.Label != "" {
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Foreground(TextColor).Render(s.Label))
		b.WriteString("\n\n")
	}

	if s.ShowBar {
		percent := s.Percent()
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(
			fmt.Sprintf("%s  %3.0f%%", s.bar.ViewAs(percent), percent*100)))
		b.WriteString("\n\n")
	}

	lines := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		lines[i] = s.renderLine(i+1, step)
	}
	b.WriteString(strings.Join(lines, "\n"))
	return b.String()
}

func (s *Steps) renderLine(n int, step Step) string {
	var (
		marker string
		style  lipgloss.Style
	)
	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = StepMarkerSkipped, StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  [%d/%d] ", n, len(s.Steps)))
	b.WriteString(style.Render(step.Name))

	padding := 40 - lipgloss.Width(step.Name)
	if padding < 1 {
		padding = 1
	}
	b.WriteString(strings.Repeat(" ", padding))
	b.WriteString(style.Render(marker))

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (s *Steps) String() string {
	return s.Render()
}
