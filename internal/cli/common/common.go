// Package common holds what the upstream commands share: global flags,
// service construction and error-to-exit-code mapping.
package common

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/slac-it/pantheon-upstream-management/internal/core/composer"
	"github.com/slac-it/pantheon-upstream-management/internal/core/config"
	"github.com/slac-it/pantheon-upstream-management/internal/core/console"
	"github.com/slac-it/pantheon-upstream-management/internal/core/guard"
	"github.com/slac-it/pantheon-upstream-management/internal/core/process"
	"github.com/slac-it/pantheon-upstream-management/internal/core/upstream"
)

// NewRunner builds the process runner used for composer and git. Tests
// replace it to avoid starting real processes.
var NewRunner = func(stdout, stderr io.Writer) process.Runner {
	return process.NewExecRunner(stdout, stderr)
}

// GlobalFlags are accepted before any command.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "working-dir",
			Aliases: []string{"d"},
			Usage:   "Use the given directory as the project root",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:    "composer",
			Usage:   "Composer binary to run (overrides " + config.ToolConfigName + ")",
			EnvVars: []string{"COMPOSER_BINARY"},
		},
		&cli.BoolFlag{
			Name:  "no-color",
			Usage: "Disable colored output",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "Only print warnings and errors",
		},
	}
}

// NewIO builds the console from the global flags, writing to the app's writers.
func NewIO(c *cli.Context) *console.IO {
	var out io.Writer = os.Stdout
	var errOut io.Writer = os.Stderr
	if c.App != nil && c.App.Writer != nil {
		out = c.App.Writer
	}
	if c.App != nil && c.App.ErrWriter != nil {
		errOut = c.App.ErrWriter
	}

	cio := console.New(out, errOut, !c.Bool("no-color"))
	switch {
	case c.Bool("quiet"):
		cio.Verbosity = console.Quiet
	case c.Bool("verbose"):
		cio.Verbosity = console.Verbose
	}
	return cio
}

// NewService loads the tool configuration for the project root and wires the
// upstream service.
func NewService(c *cli.Context) (*upstream.Service, error) {
	root := c.String("working-dir")
	if root == "" {
		root = "."
	}

	cfg, err := config.Load(root)
	if err != nil {
		return nil, err
	}
	if bin := c.String("composer"); bin != "" {
		cfg.Composer = bin
	}

	cio := NewIO(c)
	runner := NewRunner(cio.Out, cio.Err)
	return upstream.New(cfg, root, runner, cio), nil
}

// Exit converts an operation error into a cli.ExitCoder carrying the right
// status. Diagnostics already printed by the operation are not repeated.
func Exit(err error) error {
	if err == nil {
		return nil
	}

	var gerr *guard.Error
	if errors.As(err, &gerr) {
		return cli.Exit(fmt.Sprintf("Error: %s.", gerr.Error()), 1)
	}
	if errors.Is(err, upstream.ErrMissingUpstreamConfiguration) {
		return cli.Exit("", 1)
	}
	var toolErr *composer.ToolError
	if errors.As(err, &toolErr) {
		return cli.Exit(fmt.Sprintf("Error: %s.", toolErr.Message), toolErr.ExitCode)
	}
	return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
}
