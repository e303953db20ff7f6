// Package composer drives the composer binary for the upstream commands.
package composer

import (
	"context"
	"fmt"

	"github.com/slac-it/pantheon-upstream-management/internal/core/process"
)

// Mode selects how much work composer does when a requirement is added.
type Mode string

const (
	// ModeNoUpdate records the requirement without resolving anything.
	ModeNoUpdate Mode = "no-update"
	// ModeNoInstall resolves and writes composer.lock without installing packages.
	ModeNoInstall Mode = "no-install"
)

// ToolError is a nonzero exit from composer.
type ToolError struct {
	Message  string
	ExitCode int
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s (composer exited with status %d)", e.Message, e.ExitCode)
}

// Client builds and runs composer invocations rooted at a project directory.
type Client struct {
	Binary string
	Runner process.Runner
	// Root is the directory composer is started from; WorkingDir arguments
	// are relative to it.
	Root string
}

// RequireCommand builds `composer --working-dir=<dir> require <packages> <opts> --<mode>`.
func (c *Client) RequireCommand(workingDir string, packages []string, opts Options, mode Mode) process.Command {
	args := []string{"--working-dir=" + workingDir, "require"}
	args = append(args, packages...)
	args = append(args, opts.Flatten()...)
	args = append(args, "--"+string(mode))
	return process.Command{Name: c.Binary, Args: args, Dir: c.Root, Stream: true}
}

// UpdateCommand builds `composer --working-dir=<dir> update --no-install`.
func (c *Client) UpdateCommand(workingDir string) process.Command {
	return process.Command{
		Name:   c.Binary,
		Args:   []string{"--working-dir=" + workingDir, "update", "--" + string(ModeNoInstall)},
		Dir:    c.Root,
		Stream: true,
	}
}

// Run executes cmd and turns a nonzero exit into a *ToolError carrying failMsg.
func (c *Client) Run(ctx context.Context, cmd process.Command, failMsg string) error {
	res, err := c.Runner.Run(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%s: %w", failMsg, err)
	}
	if res.ExitCode != 0 {
		return &ToolError{Message: failMsg, ExitCode: res.ExitCode}
	}
	return nil
}
