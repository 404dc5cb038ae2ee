package commands

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"

	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/config"
	"github.com/willibrandon/nugetcompat/cmd/nugetcompat/output"
)

type testIO struct {
	console *output.Console
	out     *bytes.Buffer
	err     *bytes.Buffer
}

func newTestIO(verbosity output.Verbosity) *testIO {
	var out, errBuf bytes.Buffer
	console := output.NewConsole(&out, &errBuf, verbosity)
	console.SetColors(false)
	return &testIO{console: console, out: &out, err: &errBuf}
}

func testConfig(format string) *config.Config {
	cfg := config.Default()
	cfg.Format = format
	cfg.LogLevel = "error"
	return cfg
}

// execute runs cmd standalone with args.
func execute(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	return cmd.Execute()
}
