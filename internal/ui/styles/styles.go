// Package styles provides shared lipgloss styles for CLI output.
//
// Styling is disabled automatically when stderr is not a terminal, so
// piped output stays plain.
package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Colors used throughout the CLI
var (
	// Success is used for checkmarks and positive outcomes (green)
	Success lipgloss.TerminalColor = lipgloss.Color("82")

	// Warn is used for warnings (yellow)
	Warn lipgloss.TerminalColor = lipgloss.Color("214")

	// Error is used for error messages (red)
	Error lipgloss.TerminalColor = lipgloss.Color("196")

	// Muted is used for secondary text (gray)
	Muted lipgloss.TerminalColor = lipgloss.Color("240")
)

// Common styles
var (
	Bold = lipgloss.NewStyle().Bold(true)

	SuccessStyle = lipgloss.NewStyle().Foreground(Success)

	WarnStyle = lipgloss.NewStyle().Foreground(Warn)

	ErrorStyle = lipgloss.NewStyle().Foreground(Error)

	MutedStyle = lipgloss.NewStyle().Foreground(Muted)
)

// Enabled reports whether styled output should be rendered.
func Enabled() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// render applies a style only when styling is enabled.
func render(style lipgloss.Style, s string) string {
	if !Enabled() {
		return s
	}
	return style.Render(s)
}

// Ok renders a success checkmark line.
func Ok(s string) string {
	return render(SuccessStyle, "✓ ") + s
}

// Warning renders a warning line.
func Warning(s string) string {
	return render(WarnStyle, "! ") + s
}

// Fail renders a failure line.
func Fail(s string) string {
	return render(ErrorStyle, "✗ ") + s
}
