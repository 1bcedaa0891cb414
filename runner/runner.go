// Package runner orchestrates one end-to-end MCP Aegis run: start the
// server under test, perform the handshake, execute every suite, shut
// down, and hand back a summary.
package runner

import (
	"fmt"
	"time"

	"github.com/taurgis/mcp-aegis/config"
	"github.com/taurgis/mcp-aegis/executor"
	"github.com/taurgis/mcp-aegis/protocol"
	"github.com/taurgis/mcp-aegis/reporter"
	"github.com/taurgis/mcp-aegis/testspec"
	"github.com/taurgis/mcp-aegis/transport"
)

// Runner owns exactly one MCP child process for the duration of a run.
type Runner struct {
	cfg         *config.ServerConfig
	readTimeout time.Duration
}

// New builds a Runner for cfg. readTimeout overrides the per-test read
// timeout; zero selects executor.DefaultReadTimeout.
func New(cfg *config.ServerConfig, readTimeout time.Duration) *Runner {
	return &Runner{cfg: cfg, readTimeout: readTimeout}
}

// Run starts the server, performs the handshake, executes every suite in
// order, and shuts the server down — returning the collected results
// regardless of individual test outcomes. A non-nil error means the run
// could not proceed at all: the process failed to start or the
// handshake failed.
func (r *Runner) Run(suites []*testspec.Suite) ([]reporter.SuiteResult, error) {
	var startupTimeout *time.Duration
	if r.cfg.StartupTimeoutMs != nil {
		d := time.Duration(*r.cfg.StartupTimeoutMs) * time.Millisecond
		startupTimeout = &d
	}

	comm, err := transport.NewCommunicator(transport.Config{
		Name:           r.cfg.Name,
		Command:        r.cfg.Command,
		Args:           r.cfg.Args,
		Cwd:            r.cfg.Cwd,
		Env:            r.cfg.Env,
		StartupTimeout: startupTimeout,
		ReadyPattern:   r.cfg.ReadyPattern,
	})
	if err != nil {
		return nil, fmt.Errorf("runner: building communicator: %w", err)
	}

	if err := comm.Start(); err != nil {
		return nil, fmt.Errorf("runner: starting %s: %w", r.cfg.Name, err)
	}
	defer comm.Stop()

	driver := protocol.NewHandshakeDriver(comm)
	if _, err := driver.Perform(); err != nil {
		return nil, fmt.Errorf("runner: handshake with %s failed: %w", r.cfg.Name, err)
	}

	ex := executor.New(comm, r.readTimeout)

	var results []reporter.SuiteResult
	for _, suite := range suites {
		sr := reporter.SuiteResult{Description: suite.Description, FilePath: suite.FilePath}
		for _, test := range suite.Tests {
			outcome := ex.Run(test)
			sr.Tests = append(sr.Tests, reporter.FromOutcome(outcome))

			if !comm.IsRunning() {
				break
			}
		}
		results = append(results, sr)

		if !comm.IsRunning() {
			break
		}
	}

	return results, nil
}
