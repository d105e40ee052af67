// Package progress provides a terminal spinner for long repository
// walks. The spinner degrades gracefully: it is disabled entirely when
// stderr is not an interactive terminal, and falls back to ASCII frames
// when Unicode cannot be assumed.
package progress

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"golang.org/x/term"
)

// Capabilities describes what the attached terminal supports.
type Capabilities struct {
	IsTTY           bool
	SupportsUnicode bool
}

// Detect inspects stderr and the environment. NEVEZ_ASCII=1 forces
// ASCII spinner frames.
func Detect() Capabilities {
	isTTY := term.IsTerminal(int(os.Stderr.Fd()))
	return Capabilities{
		IsTTY:           isTTY,
		SupportsUnicode: isTTY && os.Getenv("NEVEZ_ASCII") != "1",
	}
}

// Spinner wraps a terminal spinner that no-ops on non-TTY output.
type Spinner struct {
	s *spinner.Spinner
}

// Start begins a spinner with the given suffix message. Returns a no-op
// spinner when stderr is not a terminal.
func Start(message string) *Spinner {
	caps := Detect()
	if !caps.IsTTY {
		return &Spinner{}
	}

	// Braille frames on Unicode terminals, |/-\ otherwise.
	set := 14
	if !caps.SupportsUnicode {
		set = 9
	}

	s := spinner.New(spinner.CharSets[set], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + message
	s.Start()
	return &Spinner{s: s}
}

// Stop halts the spinner and clears its line. Safe on a no-op spinner.
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}
