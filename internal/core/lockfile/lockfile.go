package lockfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/slac-it/pantheon-upstream-management/internal/core/manifest"
)

// ErrMalformed marks content that is not JSON or whose packages value is not a list.
var ErrMalformed = errors.New("malformed lockfile")

// Package is one record in the packages section of a composer.lock file.
// Only the fields needed to pin versions are decoded.
type Package struct {
	Name    string          `json:"name"`
	Version string          `json:"version"`
	Source  json.RawMessage `json:"source,omitempty"`
}

// HasSource reports whether the record carries a non-null source. Packages
// from path repositories have none.
func (p Package) HasSource() bool {
	trimmed := bytes.TrimSpace(p.Source)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// Lockfile is the part of composer.lock this tool reads.
type Lockfile struct {
	// HasPackages is false when the packages key is missing or null.
	HasPackages bool
	Packages    []Package
}

type rawLockfile struct {
	Packages json.RawMessage `json:"packages"`
}

// Load reads and decodes a composer.lock file. Read errors are wrapped so
// os.ErrNotExist stays detectable.
func Load(path string) (*Lockfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lockfile %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes composer.lock content.
func Parse(data []byte) (*Lockfile, error) {
	var raw rawLockfile
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to decode lockfile: %w", ErrMalformed, err)
	}

	lf := &Lockfile{}
	trimmed := bytes.TrimSpace(raw.Packages)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return lf, nil
	}

	if err := json.Unmarshal(trimmed, &lf.Packages); err != nil {
		return nil, fmt.Errorf("%w: failed to decode lockfile packages: %w", ErrMalformed, err)
	}
	lf.HasPackages = true
	return lf, nil
}

// Pinned returns the packages whose versions get pinned, in lock file order.
func (lf *Lockfile) Pinned() []Package {
	var pinned []Package
	for _, pkg := range lf.Packages {
		if pkg.HasSource() {
			pinned = append(pinned, pkg)
		}
	}
	return pinned
}

// DeriveLockedManifest copies upstream and replaces its require section with
// an exact name => version pin for every sourced package in lf. The upstream
// manifest itself is not modified.
func DeriveLockedManifest(upstream *manifest.Manifest, lf *Lockfile) (*manifest.Manifest, []Package) {
	locked := upstream.Clone()
	pinned := lf.Pinned()

	require := manifest.NewDocument()
	for _, pkg := range pinned {
		require.Set(pkg.Name, pkg.Version)
	}
	locked.ReplaceRequirements(require)
	return locked, pinned
}
