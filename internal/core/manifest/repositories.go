package manifest

import (
	"strings"

	"github.com/slac-it/pantheon-upstream-management/internal/core/config"
)

// RepositoryDescriptor is the path repository entry that points composer at
// the upstream configuration.
type RepositoryDescriptor struct {
	Type string
	URL  string
}

// Document renders the descriptor as a repositories entry.
func (r RepositoryDescriptor) Document() *Document {
	doc := NewDocument()
	doc.Set("type", r.Type)
	doc.Set("url", r.URL)
	return doc
}

// LockedUpstreamRepository is the entry the project manifest should carry
// once upstream dependencies are locked.
var LockedUpstreamRepository = RepositoryDescriptor{Type: "path", URL: config.LockedUpstreamDir}

// IsUpstreamPathRepo reports whether entry is a path repository whose url
// starts with the upstream configuration directory, locked or not.
func IsUpstreamPathRepo(entry any) bool {
	doc, ok := entry.(*Document)
	if !ok {
		return false
	}
	typ, ok := doc.GetString("type")
	if !ok {
		return false
	}
	url, ok := doc.GetString("url")
	if !ok {
		return false
	}
	return typ == "path" && strings.HasPrefix(url, config.UpstreamDir)
}

// RewriteUpstreamPathRepo points the first upstream path repository in repos
// at the locked directory, or appends a new entry if none exists. Entries
// after the first match are left alone. The input slice is not modified.
func RewriteUpstreamPathRepo(repos []any) []any {
	out := make([]any, len(repos), len(repos)+1)
	copy(out, repos)

	for i, entry := range out {
		if IsUpstreamPathRepo(entry) {
			updated := entry.(*Document).Clone()
			updated.Set("url", LockedUpstreamRepository.URL)
			out[i] = updated
			return out
		}
	}
	return append(out, LockedUpstreamRepository.Document())
}

// UseLockedUpstream rewrites the manifest's repositories so the upstream path
// repository targets the locked manifest. Composer also accepts repositories
// as a keyed object; that form is rewritten in place by value, and a missing
// entry is added under the upstream directory name.
func (m *Manifest) UseLockedUpstream() {
	v, ok := m.Get("repositories")
	if keyed, isObj := v.(*Document); ok && isObj {
		for _, key := range keyed.Keys() {
			entry, _ := keyed.Get(key)
			if IsUpstreamPathRepo(entry) {
				updated := entry.(*Document).Clone()
				updated.Set("url", LockedUpstreamRepository.URL)
				keyed.Set(key, updated)
				return
			}
		}
		keyed.Set(config.UpstreamDir, LockedUpstreamRepository.Document())
		return
	}
	m.Set("repositories", RewriteUpstreamPathRepo(m.Repositories()))
}
