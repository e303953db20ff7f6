// Package upstream implements the two upstream commands: adding a requirement
// to upstream-configuration/composer.json and locking its resolved versions
// into the project through upstream-configuration/locked/composer.json.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/slac-it/pantheon-upstream-management/internal/core/composer"
	"github.com/slac-it/pantheon-upstream-management/internal/core/config"
	"github.com/slac-it/pantheon-upstream-management/internal/core/console"
	"github.com/slac-it/pantheon-upstream-management/internal/core/guard"
	"github.com/slac-it/pantheon-upstream-management/internal/core/manifest"
	"github.com/slac-it/pantheon-upstream-management/internal/core/process"
)

// Service runs the upstream operations against one project root.
type Service struct {
	Paths     config.Paths
	Composer  *composer.Client
	Runner    process.Runner
	GitBinary string
	DocsURL   string
	IO        *console.IO
}

// New wires a Service from the tool configuration.
func New(cfg *config.Config, root string, runner process.Runner, io *console.IO) *Service {
	return &Service{
		Paths: config.Paths{Root: root},
		Composer: &composer.Client{
			Binary: cfg.Composer,
			Runner: runner,
			Root:   root,
		},
		Runner:    runner,
		GitBinary: cfg.Git,
		DocsURL:   cfg.DocsURL,
		IO:        io,
	}
}

// CheckCustomUpstream fails with a *guard.Error, after printing why, when the
// project is the standard upstream or a clone of a hosted site.
func (s *Service) CheckCustomUpstream(ctx context.Context) error {
	name := ""
	project, err := manifest.Load(s.Paths.ProjectManifest())
	switch {
	case err == nil:
		name = project.Name()
	case !errors.Is(err, os.ErrNotExist):
		return fmt.Errorf("loading %s: %w", config.ProjectManifestName, err)
	}

	remote := guard.RemoteOrigin(ctx, s.Runner, s.GitBinary, s.Paths.Root)

	err = guard.Check(name, remote)
	var gerr *guard.Error
	if errors.As(err, &gerr) {
		for _, line := range gerr.Diagnostics(s.DocsURL) {
			s.IO.Info("%s", line)
		}
	}
	return err
}

func exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}
