// Package cmd implements MCP Aegis's CLI surface.
package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes: 0 all passed, 1 some failed, 2 configuration/IO error.
const (
	ExitSuccess     = 0
	ExitTestsFailed = 1
	ExitConfigError = 2
)

// testsFailedError signals that the run completed but at least one test
// failed, distinct from a configuration or transport error.
type testsFailedError struct{}

func (testsFailedError) Error() string { return "one or more tests failed" }

// errTestsFailed is returned by runRun when the suite ran to completion
// with at least one failing test.
var errTestsFailed = testsFailedError{}

// rootCmd is the entry point when mcp-aegis is invoked without a subcommand.
var rootCmd = &cobra.Command{
	Use:          "mcp-aegis",
	Short:        "Declarative and programmatic test runner for MCP servers",
	Long:         "mcp-aegis drives an MCP server under test over stdio JSON-RPC, matching its responses against declarative pattern-based test suites.",
	SilenceUsage: true,
}

// SetVersion injects the build-time version into the root command. Called
// from main before Execute.
func SetVersion(v string) {
	rootCmd.Version = v
}

// GetVersion returns the version previously set via SetVersion.
func GetVersion() string {
	return rootCmd.Version
}

// Execute runs the CLI, exiting the process with the appropriate exit
// code on failure. Called by main.main().
func Execute() {
	rootCmd.SetVersionTemplate("mcp-aegis version {{.Version}}\n")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a command error to its documented exit code.
func exitCodeFor(err error) int {
	var tf testsFailedError
	if errors.As(err, &tf) {
		return ExitTestsFailed
	}
	return ExitConfigError
}
