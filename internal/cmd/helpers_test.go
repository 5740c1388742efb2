package cmd

import (
	"bytes"
	"testing"

	"github.com/cspdashboard/shell/internal/config"
)

// isolateHome points HOME at a temp dir and clears the CSP_* variables so a
// developer's own configuration cannot leak into a test.
func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, env := range []string{
		config.EnvConfig, config.EnvAddress, config.EnvPluginDirs,
		config.EnvWatch, config.EnvBuiltin, config.EnvLogTimestamps,
	} {
		t.Setenv(env, "")
	}
	return home
}

// runCLI executes the root command with args and returns what it wrote to
// its output.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}
