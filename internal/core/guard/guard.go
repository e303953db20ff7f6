// Package guard refuses to run the upstream commands outside a custom upstream.
//
// Both signals are strings reported by the working copy itself, so this is a
// misuse check and not a security boundary: it catches the standard upstream
// cloned without being renamed, and local clones of hosted sites.
package guard

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/slac-it/pantheon-upstream-management/internal/core/process"
)

var standardUpstreamPattern = regexp.MustCompile(`pantheon.*/drupal-composer-managed`)

const siteCloneMarker = "@codeserver"

// Error reports which misuse conditions were detected.
type Error struct {
	PackageName      string
	RemoteURL        string
	StandardUpstream bool
	SiteClone        bool
}

func (e *Error) Error() string {
	return "cannot use upstream commands with this project"
}

// Diagnostics returns the human readable explanation, one message per line,
// ending with a pointer to docsURL.
func (e *Error) Diagnostics(docsURL string) []string {
	var lines []string
	if e.StandardUpstream {
		lines = append(lines, fmt.Sprintf("The upstream-require command can only be used with a custom upstream. If this is a custom upstream, be sure to change the 'name' item in the top-level composer.json file from %s to something else.", e.PackageName))
	}
	if e.SiteClone {
		lines = append(lines, fmt.Sprintf("The upstream-require command cannot be used with Pantheon sites. Only use it with custom upstreams. Your git repo URL is %s.", e.RemoteURL))
	}
	lines = append(lines, fmt.Sprintf("See %s for information on how to create a custom upstream.", docsURL))
	return lines
}

// IsStandardUpstream reports whether packageName looks like the unrenamed
// standard upstream.
func IsStandardUpstream(packageName string) bool {
	return standardUpstreamPattern.MatchString(packageName)
}

// IsSiteClone reports whether remoteURL points at a hosted site repository.
func IsSiteClone(remoteURL string) bool {
	return strings.Contains(remoteURL, siteCloneMarker)
}

// Check returns nil for a custom upstream and an *Error otherwise.
func Check(packageName, remoteURL string) error {
	e := &Error{
		PackageName:      packageName,
		RemoteURL:        remoteURL,
		StandardUpstream: IsStandardUpstream(packageName),
		SiteClone:        IsSiteClone(remoteURL),
	}
	if !e.StandardUpstream && !e.SiteClone {
		return nil
	}
	return e
}

// RemoteOrigin returns the origin URL of the git repository at dir. Any
// failure, including git being absent or no origin being set, yields "".
func RemoteOrigin(ctx context.Context, runner process.Runner, gitBinary, dir string) string {
	res, err := runner.Run(ctx, process.Command{
		Name: gitBinary,
		Args: []string{"config", "--get", "remote.origin.url"},
		Dir:  dir,
	})
	if err != nil || res.ExitCode != 0 {
		return ""
	}
	return strings.TrimSpace(res.Stdout)
}
