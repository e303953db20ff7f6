package upstream

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/slac-it/pantheon-upstream-management/internal/core/config"
	"github.com/slac-it/pantheon-upstream-management/internal/core/hasher"
	"github.com/slac-it/pantheon-upstream-management/internal/core/lockfile"
	"github.com/slac-it/pantheon-upstream-management/internal/core/manifest"
)

// ErrMissingUpstreamConfiguration means upstream-configuration/composer.json
// does not exist yet, so there is nothing to lock.
var ErrMissingUpstreamConfiguration = errors.New("upstream has no dependencies")

// UpdateResult records what UpdateDependencies did.
type UpdateResult struct {
	// CoreRecommendedSynced is set when the upstream manifest's
	// drupal/core-recommended constraint was rewritten to match the project.
	CoreRecommendedSynced bool
	// Pinned lists the packages written into the locked manifest, in lock order.
	Pinned []lockfile.Package
	// LockedWritten is false when derivation was skipped.
	LockedWritten bool
	// LockedChanged is set when the locked manifest content differs from the
	// previous run's.
	LockedChanged bool
	// ProjectRepointed is set when composer.json now uses the locked manifest.
	ProjectRepointed bool
}

// UpdateDependencies re-resolves the upstream manifest, derives the locked
// manifest from the fresh lock file and points the project's upstream path
// repository at it.
func (s *Service) UpdateDependencies(ctx context.Context) (*UpdateResult, error) {
	if err := s.CheckCustomUpstream(ctx); err != nil {
		return nil, err
	}

	hasUpstream, err := exists(s.Paths.UpstreamManifest())
	if err != nil {
		return nil, fmt.Errorf("checking %s: %w", config.UpstreamManifestPath, err)
	}
	if !hasUpstream {
		s.IO.Warn("Upstream has no dependencies; use 'upstream-require drupal/modulename' to add some.")
		return nil, ErrMissingUpstreamConfiguration
	}

	result := &UpdateResult{}

	synced, err := s.syncCoreRecommended()
	if err != nil {
		return nil, err
	}
	result.CoreRecommendedSynced = synced

	if err := s.Composer.Run(ctx, s.Composer.UpdateCommand(config.UpstreamDir), "could not update upstream dependencies"); err != nil {
		return nil, err
	}

	if err := s.writeLockedManifest(result); err != nil {
		return nil, err
	}

	repointed, err := s.useLockedUpstream()
	if err != nil {
		return nil, err
	}
	result.ProjectRepointed = repointed

	s.IO.Write("Upstream dependencies updated.")
	return result, nil
}

// syncCoreRecommended copies the project's drupal/core-recommended constraint
// into the upstream manifest when the two differ. The project always wins.
func (s *Service) syncCoreRecommended() (bool, error) {
	project, err := manifest.Load(s.Paths.ProjectManifest())
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", config.ProjectManifestName, err)
	}
	want, ok := project.Requirement(manifest.CoreRecommendedPackage)
	if !ok {
		return false, nil
	}

	upstream, err := manifest.Load(s.Paths.UpstreamManifest())
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", config.UpstreamManifestPath, err)
	}
	if have, ok := upstream.Requirement(manifest.CoreRecommendedPackage); ok && have == want {
		return false, nil
	}

	upstream.SetRequirement(manifest.CoreRecommendedPackage, want)
	if err := manifest.Save(s.Paths.UpstreamManifest(), upstream); err != nil {
		return false, fmt.Errorf("writing %s: %w", config.UpstreamManifestPath, err)
	}
	s.IO.Debug("Set %s to %s in %s", manifest.CoreRecommendedPackage, want, config.UpstreamManifestPath)
	return true, nil
}

// writeLockedManifest derives upstream-configuration/locked/composer.json.
// A missing lock file, or one without a readable package list, is only a warning.
func (s *Service) writeLockedManifest(result *UpdateResult) error {
	lf, err := lockfile.Load(s.Paths.UpstreamLock())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.IO.Warn("No locked dependencies in the upstream; skipping.")
			return nil
		}
		if errors.Is(err, lockfile.ErrMalformed) {
			s.IO.Warn("No packages in the upstream composer.lock; skipping.")
			s.IO.Debug("%v", err)
			return nil
		}
		return err
	}
	if !lf.HasPackages {
		s.IO.Warn("No packages in the upstream composer.lock; skipping.")
		return nil
	}

	upstream, err := manifest.Load(s.Paths.UpstreamManifest())
	if err != nil {
		return fmt.Errorf("loading %s: %w", config.UpstreamManifestPath, err)
	}

	locked, pinned := lockfile.DeriveLockedManifest(upstream, lf)

	s.IO.Write("Locking upstream dependencies:")
	for _, pkg := range pinned {
		s.IO.Write("  \"%s\": \"%s\"", pkg.Name, pkg.Version)
	}

	if err := os.MkdirAll(s.Paths.LockedUpstreamDir(), 0755); err != nil {
		return fmt.Errorf("creating %s: %w", config.LockedUpstreamDir, err)
	}

	before, err := hasher.File(s.Paths.LockedUpstreamManifest())
	if err != nil {
		return err
	}
	if err := manifest.Save(s.Paths.LockedUpstreamManifest(), locked); err != nil {
		return fmt.Errorf("writing %s: %w", config.LockedUpstreamManifestPath, err)
	}
	after, err := hasher.File(s.Paths.LockedUpstreamManifest())
	if err != nil {
		return err
	}

	result.Pinned = pinned
	result.LockedWritten = true
	result.LockedChanged = before != after
	if result.LockedChanged {
		s.IO.Debug("%s updated (%s)", config.LockedUpstreamManifestPath, after)
	} else {
		s.IO.Debug("%s unchanged (%s)", config.LockedUpstreamManifestPath, after)
	}
	return nil
}

// useLockedUpstream rewrites the project's upstream path repository to the
// locked directory. It does nothing unless the locked manifest exists, which
// may be left over from an earlier run.
func (s *Service) useLockedUpstream() (bool, error) {
	hasLocked, err := exists(s.Paths.LockedUpstreamManifest())
	if err != nil {
		return false, fmt.Errorf("checking %s: %w", config.LockedUpstreamManifestPath, err)
	}
	if !hasLocked {
		s.IO.Warn("Dependencies are not locked in the upstream; skipping.")
		return false, nil
	}

	project, err := manifest.Load(s.Paths.ProjectManifest())
	if err != nil {
		return false, fmt.Errorf("loading %s: %w", config.ProjectManifestName, err)
	}
	project.UseLockedUpstream()
	if err := manifest.Save(s.Paths.ProjectManifest(), project); err != nil {
		return false, fmt.Errorf("writing %s: %w", config.ProjectManifestName, err)
	}
	return true, nil
}
