package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelftestCommand_CompilesPlainAdd(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"selftest"})

	require.NoError(t, root.Execute())
}

const plainAddModuleJSON = `{
	"types": [{"params": ["i32", "i32"], "results": ["i32"]}],
	"functions": [{"type": 0, "body": "200020016a0b"}]
}`

func TestCompileCommand_CompilesJSONModule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.json")
	require.NoError(t, os.WriteFile(path, []byte(plainAddModuleJSON), 0o644))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"compile", path})

	require.NoError(t, root.Execute())
}

func TestCompileCommand_RejectsMissingFile(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"compile", filepath.Join(t.TempDir(), "missing.json")})

	require.Error(t, root.Execute())
}

func TestCompileCommand_RejectsMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "module.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0o644))

	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"compile", path})

	require.Error(t, root.Execute())
}

func TestFeaturesCommand_PrintsDetectedFlags(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"features"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), "sse2:")
}

func TestVersionCommand_PrintsVersion(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"version"})

	require.NoError(t, root.Execute())
	require.Contains(t, out.String(), cliVersion)
}
