package upstream

import (
	"context"
	"fmt"

	"github.com/slac-it/pantheon-upstream-management/internal/core/composer"
	"github.com/slac-it/pantheon-upstream-management/internal/core/config"
)

// RequireRequest is the input of Require.
type RequireRequest struct {
	Packages []string
	Options  composer.Options
	// NoUpdate asks for the requirement to be recorded without resolving.
	NoUpdate bool
}

// RequireResult describes what Require asked composer to do.
type RequireResult struct {
	Mode composer.Mode
}

// Require adds packages to the upstream manifest through composer. Without a
// lock file, or when asked, composer only records the requirement; otherwise
// it resolves and rewrites the upstream lock file without installing anything.
// A composer failure is returned as a *composer.ToolError and whatever composer
// already changed stays changed.
func (s *Service) Require(ctx context.Context, req RequireRequest) (*RequireResult, error) {
	if err := s.CheckCustomUpstream(ctx); err != nil {
		return nil, err
	}

	noUpdate := req.NoUpdate || req.Options.Has("no-update")
	opts := req.Options.Without("working-dir", "no-update", "no-install")

	lockExists, err := exists(s.Paths.UpstreamLock())
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", config.UpstreamLockPath, err)
	}

	mode := composer.ModeNoInstall
	if noUpdate || !lockExists {
		mode = composer.ModeNoUpdate
	}

	cmd := s.Composer.RequireCommand(config.UpstreamDir, req.Packages, opts, mode)
	s.IO.Notice("%s", cmd.String())

	if err := s.Composer.Run(ctx, cmd, "could not add dependency to upstream"); err != nil {
		return nil, err
	}

	s.IO.Info("%s updated. Commit the %s file if you wish to lock your upstream dependency versions in sites created from this upstream.",
		config.UpstreamManifestPath, config.UpstreamLockPath)
	return &RequireResult{Mode: mode}, nil
}
