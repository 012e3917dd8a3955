// Package ui renders the human-facing status lines of the domgen CLI.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Style definitions
var (
	// Colors
	primaryColor = lipgloss.Color("#3b82f6") // Blue
	successColor = lipgloss.Color("#10b981") // Green
	warningColor = lipgloss.Color("#f59e0b") // Yellow
	errorColor   = lipgloss.Color("#ef4444") // Red
	mutedColor   = lipgloss.Color("#94a3b8") // Muted gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)
)

// Title renders a heading line
func Title(s string) string {
	return titleStyle.Render(s)
}

// Success renders a success line
func Success(format string, args ...any) string {
	return successStyle.Render("✓ " + fmt.Sprintf(format, args...))
}

// Warning renders a warning line
func Warning(format string, args ...any) string {
	return warningStyle.Render("! " + fmt.Sprintf(format, args...))
}

// Error renders an error line
func Error(format string, args ...any) string {
	return errorStyle.Render("✗ " + fmt.Sprintf(format, args...))
}

// Muted renders secondary information
func Muted(format string, args ...any) string {
	return mutedStyle.Render(fmt.Sprintf(format, args...))
}

// Summary describes one generation run for display
type Summary struct {
	Input      string
	Output     string
	Templates  int
	Statements int
	Bytes      int
	Unchanged  bool
	Duration   time.Duration
}

// RenderSummary formats a generation summary block
func RenderSummary(s Summary) string {
	var b strings.Builder
	if s.Unchanged {
		b.WriteString(Success("%s is up to date", s.Output))
	} else {
		b.WriteString(Success("Generated %s from %s", s.Output, s.Input))
	}
	b.WriteString("\n")
	b.WriteString(Muted("  %d templates, %d statements, %d bytes in %v",
		s.Templates, s.Statements, s.Bytes, s.Duration.Round(time.Microsecond)))
	return b.String()
}
