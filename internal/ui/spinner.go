// Package ui provides terminal progress indication for long-running
// operations such as AI requests and pushes.
package ui

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner wraps a terminal spinner that degrades to a no-op when stderr
// is not a terminal (CI, piped output).
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a spinner with the given message. Call Stop when the
// operation completes.
func NewSpinner(message string) *Spinner {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return &Spinner{s: s}
}

// Stop halts the spinner and clears its line.
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}
