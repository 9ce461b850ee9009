// Package iostreams provides testable standard stream access for the
// CLI, following the GitHub CLI pattern.
package iostreams

import (
	"bytes"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IOStreams provides access to standard input/output/error streams.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer

	// colorEnabled: -1 = auto (detect from TTY), 0 = off, 1 = on.
	colorEnabled int

	// isOutputTTY caches whether stdout is a terminal.
	// -1 = unchecked, 0 = false, 1 = true.
	isOutputTTY int
}

// NewIOStreams creates an IOStreams connected to the process streams.
func NewIOStreams() *IOStreams {
	s := &IOStreams{
		In:           os.Stdin,
		Out:          os.Stdout,
		ErrOut:       os.Stderr,
		colorEnabled: -1,
		isOutputTTY:  -1,
	}
	if os.Getenv("NO_COLOR") != "" {
		s.colorEnabled = 0
	}
	return s
}

// Test returns an IOStreams backed by buffers, for command tests.
func Test() (*IOStreams, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &IOStreams{
		In:           bytes.NewReader(nil),
		Out:          out,
		ErrOut:       errOut,
		colorEnabled: 0,
		isOutputTTY:  0,
	}, out, errOut
}

// IsOutputTTY reports whether stdout is a terminal.
func (s *IOStreams) IsOutputTTY() bool {
	if s.isOutputTTY == -1 {
		s.isOutputTTY = 0
		if f, ok := s.Out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			s.isOutputTTY = 1
		}
	}
	return s.isOutputTTY == 1
}

// SetColorEnabled forces color on or off.
func (s *IOStreams) SetColorEnabled(enabled bool) {
	if enabled {
		s.colorEnabled = 1
	} else {
		s.colorEnabled = 0
	}
}

// ColorEnabled reports whether output should use color: forced
// setting first, otherwise TTY detection plus the terminal's profile.
func (s *IOStreams) ColorEnabled() bool {
	if s.colorEnabled != -1 {
		return s.colorEnabled == 1
	}
	return s.IsOutputTTY() && termenv.EnvColorProfile() != termenv.Ascii
}

// ColorScheme returns the styling helpers for these streams. When
// color is disabled every helper returns its input unchanged.
func (s *IOStreams) ColorScheme() *ColorScheme {
	return &ColorScheme{enabled: s.ColorEnabled(), profile: termenv.ANSI}
}

// ColorScheme applies terminal styles to output fragments.
type ColorScheme struct {
	enabled bool
	profile termenv.Profile
}

// Blue colors s blue, for directory names.
func (c *ColorScheme) Blue(s string) string {
	return c.paint(s, termenv.ANSIBlue)
}

// Muted dims s, for secondary columns like sizes.
func (c *ColorScheme) Muted(s string) string {
	return c.paint(s, termenv.ANSIBrightBlack)
}

// Bold renders s bold.
func (c *ColorScheme) Bold(s string) string {
	if !c.enabled {
		return s
	}
	return c.profile.String(s).Bold().String()
}

func (c *ColorScheme) paint(s string, color termenv.Color) string {
	if !c.enabled {
		return s
	}
	return c.profile.String(s).Foreground(color).String()
}
