package upstream_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/slac-it/pantheon-upstream-management/internal/core/config"
	"github.com/slac-it/pantheon-upstream-management/internal/core/console"
	"github.com/slac-it/pantheon-upstream-management/internal/core/process"
	"github.com/slac-it/pantheon-upstream-management/internal/core/upstream"
)

const customProjectJSON = `{
  "name": "customer-org/custom-upstream",
  "require": {
    "drupal/core-recommended": "^10",
    "pantheon-upstreams/upstream-configuration": "dev-main"
  },
  "repositories": [
    {
      "type": "composer",
      "url": "https://packages.drupal.org/8"
    },
    {
      "type": "path",
      "url": "upstream-configuration"
    }
  ]
}
`

// fakeComposer stands in for the composer and git binaries.
type fakeComposer struct {
	remote string
	// onComposer runs for each composer invocation and returns its exit code.
	onComposer func(cmd process.Command) int
}

func (f *fakeComposer) handle(cmd process.Command) (process.Result, error) {
	if cmd.Name == config.DefaultGitBinary {
		if f.remote == "" {
			return process.Result{ExitCode: 1}, nil
		}
		return process.Result{Stdout: f.remote + "\n"}, nil
	}
	code := 0
	if f.onComposer != nil {
		code = f.onComposer(cmd)
	}
	return process.Result{ExitCode: code}, nil
}

type fixture struct {
	root     string
	recorder *process.Recorder
	fake     *fakeComposer
	service  *upstream.Service
	out      *bytes.Buffer
	errOut   *bytes.Buffer
}

func newFixture(t *testing.T, files map[string]string) *fixture {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		writeFile(t, filepath.Join(root, filepath.FromSlash(rel)), content)
	}

	fake := &fakeComposer{remote: "git@github.com:customer-org/custom-upstream.git"}
	rec := &process.Recorder{Handler: fake.handle}

	var out, errOut bytes.Buffer
	io := console.New(&out, &errOut, false)
	io.Verbosity = console.Verbose

	return &fixture{
		root:     root,
		recorder: rec,
		fake:     fake,
		service:  upstream.New(config.Default(), root, rec, io),
		out:      &out,
		errOut:   &errOut,
	}
}

func (f *fixture) path(rel string) string {
	return filepath.Join(f.root, filepath.FromSlash(rel))
}

func (f *fixture) read(t *testing.T, rel string) string {
	t.Helper()
	data, err := os.ReadFile(f.path(rel))
	require.NoError(t, err, "failed to read %s", rel)
	return string(data)
}

// composerCommands returns the recorded composer invocations, skipping git.
func (f *fixture) composerCommands() []process.Command {
	var cmds []process.Command
	for _, cmd := range f.recorder.Commands {
		if cmd.Name == config.DefaultComposerBinary {
			cmds = append(cmds, cmd)
		}
	}
	return cmds
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func hasArg(cmd process.Command, arg string) bool {
	for _, a := range cmd.Args {
		if a == arg {
			return true
		}
	}
	return false
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
