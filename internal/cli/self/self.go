package self

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/urfave/cli/v2"

	"github.com/slac-it/pantheon-upstream-management/internal/cli/common"
	"github.com/slac-it/pantheon-upstream-management/internal/core/console"
)

// DefaultRepository is where release binaries are published.
const DefaultRepository = "slac-it/pantheon-upstream-management"

// NewSelfCommand creates a new command for self-management.
func NewSelfCommand() *cli.Command {
	return &cli.Command{
		Name:  "self",
		Usage: "Manage the upstream-management binary itself",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Update upstream-management to the latest release",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Automatically confirm the update",
					},
					&cli.BoolFlag{
						Name:  "check",
						Usage: "Check for available updates without installing",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "Use a custom GitHub release source as 'owner/repo'",
					},
				},
				Action: updateAction,
			},
		},
	}
}

// ParseVersion accepts both "v1.2.3" and "1.2.3".
func ParseVersion(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return nil, fmt.Errorf("parsing version %q: %w", raw, err)
	}
	return v, nil
}

// RepositorySlug validates an 'owner/repo' source, falling back to
// DefaultRepository when source is empty.
func RepositorySlug(source string) (string, error) {
	if source == "" {
		return DefaultRepository, nil
	}
	parts := strings.Split(source, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", fmt.Errorf("invalid --source format, expected 'owner/repo', got %q", source)
	}
	return source, nil
}

func updateAction(c *cli.Context) error {
	cio := common.NewIO(c)
	currentVersionStr := c.App.Version
	cio.Debug("upstream-management current version: %s", currentVersionStr)

	currentSemVer, err := ParseVersion(currentVersionStr)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v. Ensure version is like vX.Y.Z or X.Y.Z.", err), 1)
	}

	repoSlug, err := RepositorySlug(c.String("source"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v.", err), 1)
	}
	cio.Debug("Using GitHub source: %s", repoSlug)

	ghSource, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error creating GitHub source: %v", err), 1)
	}

	updater, err := selfupdate.NewUpdater(selfupdate.Config{Source: ghSource})
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to initialize updater: %v", err), 1)
	}

	cio.Debug("Checking for latest version...")
	latestRelease, found, err := updater.DetectLatest(c.Context, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error detecting latest version: %v", err), 1)
	}
	if !found {
		cio.Write("Current version %s is already the latest.", currentVersionStr)
		return nil
	}

	cio.Debug("Latest version detected: %s (%s)", latestRelease.Version(), latestRelease.URL)
	if latestRelease.ReleaseNotes != "" {
		cio.Debug("Release notes:\n%s", latestRelease.ReleaseNotes)
	}

	if !latestRelease.GreaterThan(currentSemVer.String()) {
		cio.Write("Current version %s is already the latest or newer.", currentVersionStr)
		return nil
	}

	cio.Write("New version available: %s (current: %s)", latestRelease.Version(), currentVersionStr)
	if c.Bool("check") {
		return nil
	}

	if !c.Bool("yes") && !confirm(cio) {
		cio.Write("Update cancelled.")
		return nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Could not get executable path: %v", err), 1)
	}
	cio.Info("Updating %s to %s...", execPath, latestRelease.Version())

	if err := updater.UpdateTo(c.Context, latestRelease, execPath); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update: %v", err), 1)
	}

	cio.Info("Successfully updated to version %s.", latestRelease.Version())
	return nil
}

func confirm(cio *console.IO) bool {
	_, _ = fmt.Fprint(cio.Err, "Do you want to update? (y/N): ")
	input, _ := bufio.NewReader(os.Stdin).ReadString('\n')
	return strings.TrimSpace(strings.ToLower(input)) == "y"
}
