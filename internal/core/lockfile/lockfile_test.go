// Package lockfile_test contains tests for the lockfile package.
package lockfile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slac-it/pantheon-upstream-management/internal/core/lockfile"
	"github.com/slac-it/pantheon-upstream-management/internal/core/manifest"
)

func TestLoadLockfile_NotFound(t *testing.T) {
	t.Parallel()
	_, err := lockfile.Load(filepath.Join(t.TempDir(), "composer.lock"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestLoadLockfile_Valid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "composer.lock")
	content := `{
    "_readme": ["This file locks the dependencies of your project to a known state"],
    "content-hash": "0123456789abcdef",
    "packages": [
        {
            "name": "drupal/ctools",
            "version": "4.0.2",
            "source": {"type": "git", "url": "https://git.drupalcode.org/project/ctools.git", "reference": "4.0.2"}
        },
        {
            "name": "customer-org/local-module",
            "version": "dev-main",
            "dist": {"type": "path", "url": "modules/local"}
        }
    ],
    "packages-dev": []
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	lf, err := lockfile.Load(path)
	require.NoError(t, err)
	assert.True(t, lf.HasPackages)
	require.Len(t, lf.Packages, 2)
	assert.Equal(t, "drupal/ctools", lf.Packages[0].Name)
	assert.Equal(t, "4.0.2", lf.Packages[0].Version)
	assert.True(t, lf.Packages[0].HasSource())
	assert.False(t, lf.Packages[1].HasSource())
}

func TestLoadLockfile_InvalidJSON(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "composer.lock")
	require.NoError(t, os.WriteFile(path, []byte(`{"packages": [`), 0600))

	_, err := lockfile.Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode lockfile")
	assert.True(t, errors.Is(err, lockfile.ErrMalformed))
}

func TestParse_MissingOrNullPackages(t *testing.T) {
	t.Parallel()
	for _, content := range []string{`{}`, `{"packages": null}`} {
		lf, err := lockfile.Parse([]byte(content))
		require.NoError(t, err, content)
		assert.False(t, lf.HasPackages, content)
		assert.Empty(t, lf.Packages, content)
	}
}

func TestParse_EmptyPackages(t *testing.T) {
	t.Parallel()
	lf, err := lockfile.Parse([]byte(`{"packages": []}`))
	require.NoError(t, err)
	assert.True(t, lf.HasPackages, "an empty list is still a package list")
	assert.Empty(t, lf.Pinned())
}

func TestParse_PackagesNotAList(t *testing.T) {
	t.Parallel()
	_, err := lockfile.Parse([]byte(`{"packages": "nope"}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode lockfile packages")
	assert.True(t, errors.Is(err, lockfile.ErrMalformed))
}

func TestPackage_NullSourceIsNoSource(t *testing.T) {
	t.Parallel()
	lf, err := lockfile.Parse([]byte(`{"packages": [{"name": "a/a", "version": "1.0", "source": null}]}`))
	require.NoError(t, err)
	require.Len(t, lf.Packages, 1)
	assert.False(t, lf.Packages[0].HasSource())
}

func TestDeriveLockedManifest_ExcludesSourcelessPackages(t *testing.T) {
	t.Parallel()
	lf, err := lockfile.Parse([]byte(`{"packages": [
		{"name": "a/a", "version": "1.0", "source": {}},
		{"name": "b/b", "version": "2.0"}
	]}`))
	require.NoError(t, err)

	upstream := manifest.New()
	upstream.Set("name", "customer-org/upstream-configuration")
	upstream.SetRequirement("a/a", "^1")
	upstream.SetRequirement("c/c", "^3")
	upstream.Set("minimum-stability", "stable")

	locked, pinned := lockfile.DeriveLockedManifest(upstream, lf)

	require.Len(t, pinned, 1)
	assert.Equal(t, "a/a", pinned[0].Name)

	req, ok := locked.Object("require")
	require.True(t, ok)
	assert.Equal(t, []string{"a/a"}, req.Keys(), "require must be replaced, not merged")
	v, _ := req.GetString("a/a")
	assert.Equal(t, "1.0", v)

	assert.Equal(t, []string{"name", "require", "minimum-stability"}, locked.Keys(), "other fields carry through in place")
	original, _ := upstream.Requirement("c/c")
	assert.Equal(t, "^3", original, "the upstream manifest must not be modified")
}

func TestDeriveLockedManifest_KeepsLockOrder(t *testing.T) {
	t.Parallel()
	lf, err := lockfile.Parse([]byte(`{"packages": [
		{"name": "z/z", "version": "3.0", "source": {"type": "git"}},
		{"name": "a/a", "version": "1.0", "source": {"type": "git"}}
	]}`))
	require.NoError(t, err)

	locked, pinned := lockfile.DeriveLockedManifest(manifest.New(), lf)

	require.Len(t, pinned, 2)
	assert.Equal(t, "z/z", pinned[0].Name)
	assert.Equal(t, "a/a", pinned[1].Name)
	req, ok := locked.Object("require")
	require.True(t, ok)
	assert.Equal(t, []string{"z/z", "a/a"}, req.Keys())
}
