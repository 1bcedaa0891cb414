package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taurgis/mcp-aegis/config"
	"github.com/taurgis/mcp-aegis/internal/logging"
	"github.com/taurgis/mcp-aegis/reporter"
	"github.com/taurgis/mcp-aegis/runner"
	"github.com/taurgis/mcp-aegis/testspec"
)

var runFlags struct {
	verbose     bool
	debug       bool
	quiet       bool
	json        bool
	errorsOnly  bool
	syntaxOnly  bool
	noAnalysis  bool
	groupErrors bool
	maxErrors   int
	timeoutMs   int
	listOnly    bool
}

var runCmd = &cobra.Command{
	Use:   "run <config> <test-pattern>...",
	Short: "Run one or more MCP Aegis test suites against a configured server",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runFlags.verbose, "verbose", false, "show every test, passing or failing")
	runCmd.Flags().BoolVar(&runFlags.debug, "debug", false, "print diagnostic logging to stderr")
	runCmd.Flags().BoolVar(&runFlags.quiet, "quiet", false, "print only the final summary")
	runCmd.Flags().BoolVar(&runFlags.json, "json", false, "emit a machine-readable JSON report")
	runCmd.Flags().BoolVar(&runFlags.errorsOnly, "errors-only", false, "show only failing tests")
	runCmd.Flags().BoolVar(&runFlags.syntaxOnly, "syntax-only", false, "show only pattern-syntax errors")
	runCmd.Flags().BoolVar(&runFlags.noAnalysis, "no-analysis", false, "suppress did-you-mean correction suggestions")
	runCmd.Flags().BoolVar(&runFlags.groupErrors, "group-errors", false, "group repeated validation errors into one table")
	runCmd.Flags().IntVar(&runFlags.maxErrors, "max-errors", 0, "cap the number of grouped errors shown (0 = unlimited)")
	runCmd.Flags().IntVar(&runFlags.timeoutMs, "timeout", 0, "per-test read timeout in milliseconds (0 = default)")
	runCmd.Flags().BoolVar(&runFlags.listOnly, "list", false, "validate configuration and test files without spawning the server")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	log := logging.New(runFlags.debug)

	cfg, err := config.Load(args[0])
	if err != nil {
		return err
	}
	log.Debugf("loaded config for %s (%s %v)", cfg.Name, cfg.Command, cfg.Args)

	suites, err := testspec.LoadAll(args[1:])
	if err != nil {
		return err
	}
	log.Debugf("loaded %d suite(s)", len(suites))

	if runFlags.listOnly {
		for _, s := range suites {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d test(s)\n", s.FilePath, len(s.Tests))
		}
		return nil
	}

	readTimeout := time.Duration(runFlags.timeoutMs) * time.Millisecond

	results, err := runner.New(cfg, readTimeout).Run(suites)
	if err != nil {
		return err
	}

	opts := reporter.Options{
		Verbose:     runFlags.verbose,
		Quiet:       runFlags.quiet,
		JSON:        runFlags.json,
		ErrorsOnly:  runFlags.errorsOnly,
		SyntaxOnly:  runFlags.syntaxOnly,
		NoAnalysis:  runFlags.noAnalysis,
		GroupErrors: runFlags.groupErrors,
		MaxErrors:   runFlags.maxErrors,
	}

	out := cmd.OutOrStdout()
	if opts.JSON {
		if err := reporter.WriteJSON(out, results, opts); err != nil {
			return err
		}
	} else {
		reporter.WriteText(out, results, opts)
	}

	summary := reporter.Summarize(results)
	if summary.Failed > 0 {
		return errTestsFailed
	}
	return nil
}
