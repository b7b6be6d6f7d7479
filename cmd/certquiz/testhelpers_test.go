package main

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/certquiz/internal/testutil"
)

// setConfigFile sets the global configFile variable and registers a cleanup to restore it.
func setConfigFile(t *testing.T, cfgPath string) {
	t.Helper()
	oldConfigFile := configFile
	configFile = cfgPath
	t.Cleanup(func() { configFile = oldConfigFile })
}

// setupBrokenConfigFile creates a config file with invalid YAML that causes Load() to fail.
func setupBrokenConfigFile(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "config.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{invalid yaml content"), 0644))
	return cfgPath
}

// setupWorkspace writes a file storage config with the sample question bank and selects it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })
	tmpDir := t.TempDir()
	setConfigFile(t, testutil.SetupTestConfig(t, tmpDir))
	return tmpDir
}

// execute runs cmd with args and stdin, returning what it printed.
func execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

var startedSessionPattern = regexp.MustCompile(`Started \w+ session (\S+) with`)

// startSession starts a session over the given question ids order and returns its id.
func startSession(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, newSessionStartCommand(), "", append([]string{"--no-shuffle"}, args...)...)
	require.NoError(t, err)
	match := startedSessionPattern.FindStringSubmatch(out)
	require.Len(t, match, 2, out)
	return match[1]
}
