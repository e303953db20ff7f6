package manifest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slac-it/pantheon-upstream-management/internal/core/manifest"
)

func repo(typ, url string) *manifest.Document {
	return manifest.RepositoryDescriptor{Type: typ, URL: url}.Document()
}

func urlOf(t *testing.T, entry any) string {
	t.Helper()
	doc, ok := entry.(*manifest.Document)
	require.True(t, ok, "repository entry should be an object")
	url, ok := doc.GetString("url")
	require.True(t, ok, "repository entry should have a url")
	return url
}

func TestIsUpstreamPathRepo(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		entry any
		want  bool
	}{
		{"plain upstream dir", repo("path", "upstream-configuration"), true},
		{"locked upstream dir", repo("path", "upstream-configuration/locked"), true},
		{"composer repo", repo("composer", "upstream-configuration"), false},
		{"other path", repo("path", "packages/upstream-configuration"), false},
		{"missing url", func() any { d := manifest.NewDocument(); d.Set("type", "path"); return d }(), false},
		{"not an object", "upstream-configuration", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, manifest.IsUpstreamPathRepo(tt.entry))
		})
	}
}

func TestRewriteUpstreamPathRepo_ReplacesFirstMatch(t *testing.T) {
	t.Parallel()
	repos := []any{
		repo("composer", "https://packages.drupal.org/8"),
		repo("path", "upstream-configuration"),
		repo("path", "upstream-configuration/other"),
	}

	out := manifest.RewriteUpstreamPathRepo(repos)

	require.Len(t, out, 3)
	assert.Equal(t, "https://packages.drupal.org/8", urlOf(t, out[0]))
	assert.Equal(t, "upstream-configuration/locked", urlOf(t, out[1]))
	assert.Equal(t, "upstream-configuration/other", urlOf(t, out[2]), "later matches are left untouched")
	assert.Equal(t, "upstream-configuration", urlOf(t, repos[1]), "input must not be modified")
}

func TestRewriteUpstreamPathRepo_AppendsWhenMissing(t *testing.T) {
	t.Parallel()
	repos := []any{repo("composer", "https://packages.drupal.org/8")}

	out := manifest.RewriteUpstreamPathRepo(repos)

	require.Len(t, out, 2)
	assert.Equal(t, "https://packages.drupal.org/8", urlOf(t, out[0]))
	assert.Equal(t, "upstream-configuration/locked", urlOf(t, out[1]))
	typ, _ := out[1].(*manifest.Document).GetString("type")
	assert.Equal(t, "path", typ)
	assert.Len(t, repos, 1)
}

func TestRewriteUpstreamPathRepo_Empty(t *testing.T) {
	t.Parallel()
	out := manifest.RewriteUpstreamPathRepo(nil)

	require.Len(t, out, 1)
	encoded, err := manifest.Encode(out[0].(*manifest.Document))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"type\": \"path\",\n  \"url\": \"upstream-configuration/locked\"\n}", string(encoded))
}

func TestRewriteUpstreamPathRepo_Idempotent(t *testing.T) {
	t.Parallel()
	repos := []any{
		repo("composer", "https://packages.drupal.org/8"),
		repo("path", "upstream-configuration"),
	}

	once := manifest.RewriteUpstreamPathRepo(repos)
	twice := manifest.RewriteUpstreamPathRepo(once)

	require.Len(t, twice, len(once))
	for i := range once {
		a, err := manifest.Encode(once[i].(*manifest.Document))
		require.NoError(t, err)
		b, err := manifest.Encode(twice[i].(*manifest.Document))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b))
	}
}

func TestRewriteUpstreamPathRepo_KeepsExtraFields(t *testing.T) {
	t.Parallel()
	entry := repo("path", "upstream-configuration")
	opts := manifest.NewDocument()
	opts.Set("symlink", false)
	entry.Set("options", opts)

	out := manifest.RewriteUpstreamPathRepo([]any{entry})

	require.Len(t, out, 1)
	doc := out[0].(*manifest.Document)
	assert.Equal(t, []string{"type", "url", "options"}, doc.Keys())
}

func TestUseLockedUpstream_ListForm(t *testing.T) {
	t.Parallel()
	m := manifest.New()
	m.Set("name", "customer-org/custom-upstream")
	m.Set("repositories", []any{repo("path", "upstream-configuration")})

	m.UseLockedUpstream()

	repos := m.Repositories()
	require.Len(t, repos, 1)
	assert.Equal(t, "upstream-configuration/locked", urlOf(t, repos[0]))
}

func TestUseLockedUpstream_MissingRepositories(t *testing.T) {
	t.Parallel()
	m := manifest.New()

	m.UseLockedUpstream()

	repos := m.Repositories()
	require.Len(t, repos, 1)
	assert.Equal(t, "upstream-configuration/locked", urlOf(t, repos[0]))
}

func TestUseLockedUpstream_KeyedForm(t *testing.T) {
	t.Parallel()
	keyed := manifest.NewDocument()
	keyed.Set("drupal", repo("composer", "https://packages.drupal.org/8"))
	keyed.Set("upstream", repo("path", "upstream-configuration"))
	m := manifest.New()
	m.Set("repositories", keyed)

	m.UseLockedUpstream()

	assert.Equal(t, []string{"drupal", "upstream"}, keyed.Keys())
	entry, _ := keyed.Get("upstream")
	assert.Equal(t, "upstream-configuration/locked", urlOf(t, entry))
}
