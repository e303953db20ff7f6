package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// File layout, relative to the project root.
const (
	ProjectManifestName        = "composer.json"
	UpstreamDir                = "upstream-configuration"
	UpstreamManifestPath       = UpstreamDir + "/composer.json"
	UpstreamLockPath           = UpstreamDir + "/composer.lock"
	LockedUpstreamDir          = UpstreamDir + "/locked"
	LockedUpstreamManifestPath = LockedUpstreamDir + "/composer.json"
)

// ToolConfigName is the optional per-project settings file.
const ToolConfigName = "upstream-management.toml"

const (
	DefaultComposerBinary = "composer"
	DefaultGitBinary      = "git"
	DefaultDocsURL        = "https://pantheon.io/docs/create-custom-upstream"
)

// Config holds the tool settings read from upstream-management.toml.
type Config struct {
	Composer string `toml:"composer"`
	Git      string `toml:"git"`
	DocsURL  string `toml:"docs_url"`
}

// Default returns the settings used when no config file is present.
func Default() *Config {
	return &Config{
		Composer: DefaultComposerBinary,
		Git:      DefaultGitBinary,
		DocsURL:  DefaultDocsURL,
	}
}

// Load reads upstream-management.toml from dirPath. A missing file is not an
// error; any keys left out of the file keep their default values.
func Load(dirPath string) (*Config, error) {
	cfg := Default()

	fullPath := filepath.Join(dirPath, ToolConfigName)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading %s: %w", fullPath, err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ToolConfigName, err)
	}

	if cfg.Composer == "" {
		cfg.Composer = DefaultComposerBinary
	}
	if cfg.Git == "" {
		cfg.Git = DefaultGitBinary
	}
	if cfg.DocsURL == "" {
		cfg.DocsURL = DefaultDocsURL
	}
	return cfg, nil
}

// Paths resolves the fixed file layout against a project root.
type Paths struct {
	Root string
}

func (p Paths) ProjectManifest() string { return filepath.Join(p.Root, ProjectManifestName) }

func (p Paths) UpstreamDir() string { return filepath.Join(p.Root, filepath.FromSlash(UpstreamDir)) }

func (p Paths) UpstreamManifest() string {
	return filepath.Join(p.Root, filepath.FromSlash(UpstreamManifestPath))
}

func (p Paths) UpstreamLock() string {
	return filepath.Join(p.Root, filepath.FromSlash(UpstreamLockPath))
}

func (p Paths) LockedUpstreamDir() string {
	return filepath.Join(p.Root, filepath.FromSlash(LockedUpstreamDir))
}

func (p Paths) LockedUpstreamManifest() string {
	return filepath.Join(p.Root, filepath.FromSlash(LockedUpstreamManifestPath))
}
