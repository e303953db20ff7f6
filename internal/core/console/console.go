// Package console writes command output. Results go to the primary stream;
// notices, warnings and errors go to the diagnostic stream so anything parsing
// stdout never sees them.
package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Verbosity controls which messages are shown.
type Verbosity int

const (
	Quiet Verbosity = iota
	Normal
	Verbose
)

// IO is the output channel shared by the commands.
type IO struct {
	Out       io.Writer
	Err       io.Writer
	Verbosity Verbosity

	infoColor  *color.Color
	warnColor  *color.Color
	errorColor *color.Color
	debugColor *color.Color
}

// New returns an IO at Normal verbosity. When colored is false no escape
// sequences are ever written; otherwise fatih/color's terminal detection applies.
func New(out, errOut io.Writer, colored bool) *IO {
	c := &IO{
		Out:        out,
		Err:        errOut,
		Verbosity:  Normal,
		infoColor:  color.New(color.FgGreen),
		warnColor:  color.New(color.FgYellow),
		errorColor: color.New(color.FgRed, color.Bold),
		debugColor: color.New(color.FgHiBlack),
	}
	if !colored {
		for _, col := range []*color.Color{c.infoColor, c.warnColor, c.errorColor, c.debugColor} {
			col.DisableColor()
		}
	}
	return c
}

// Std returns an IO on os.Stdout and os.Stderr.
func Std(colored bool) *IO {
	return New(os.Stdout, os.Stderr, colored)
}

// Write prints a line on the primary stream.
func (c *IO) Write(format string, args ...any) {
	if c.Verbosity < Normal {
		return
	}
	_, _ = fmt.Fprintf(c.Out, format+"\n", args...)
}

// Notice prints an uncolored informational line on the diagnostic stream.
func (c *IO) Notice(format string, args ...any) {
	if c.Verbosity < Normal {
		return
	}
	_, _ = fmt.Fprintf(c.Err, format+"\n", args...)
}

// Info prints a highlighted informational line on the diagnostic stream.
func (c *IO) Info(format string, args ...any) {
	if c.Verbosity < Normal {
		return
	}
	_, _ = c.infoColor.Fprintf(c.Err, format+"\n", args...)
}

// Warn is shown at every verbosity.
func (c *IO) Warn(format string, args ...any) {
	_, _ = c.warnColor.Fprintf(c.Err, format+"\n", args...)
}

// Error is shown at every verbosity.
func (c *IO) Error(format string, args ...any) {
	_, _ = c.errorColor.Fprintf(c.Err, format+"\n", args...)
}

// Debug is only shown with Verbose.
func (c *IO) Debug(format string, args ...any) {
	if c.Verbosity < Verbose {
		return
	}
	_, _ = c.debugColor.Fprintf(c.Err, format+"\n", args...)
}
