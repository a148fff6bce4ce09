package main

import (
	"bytes"
	"testing"

	"github.com/aretw0/curtain/internal/testutils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteYAML = `
initial_path: /
pages:
  /: "# Home"
  /about: "# About"
animations:
  - name: fade
    duration: 5ms
`

// resetFlags restores every flag to its default; cobra keeps values between
// Execute calls on the same command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "curtain version")
}

func TestSimulate(t *testing.T) {
	path := testutils.WriteFile(t, "site.yaml", siteYAML)

	out, err := run(t, "simulate", "--config", path, "--mermaid", "/about", "/")
	require.NoError(t, err)

	assert.Contains(t, out, "--- Home (/) ---")
	assert.Contains(t, out, "--- About (/about) ---")
	assert.Contains(t, out, "transitioning")
	assert.Contains(t, out, "/ -> /about: 1 exit animation(s)")
	assert.Contains(t, out, "p_ --> p_about")
	assert.Contains(t, out, "p_about --> p_")
}

func TestSimulate_UnknownPage(t *testing.T) {
	_, err := run(t, "simulate", "/nowhere")
	assert.ErrorContains(t, err, "page not found")
}
