package runner

import (
	"testing"
	"time"

	"github.com/taurgis/mcp-aegis/config"
	"github.com/taurgis/mcp-aegis/testspec"
)

// fixtureServer is a minimal shell-scripted MCP server: it answers
// "initialize" with a valid result, ignores notifications (no id, no
// reply expected), and answers anything else with a canned tools/list
// result. Good enough to exercise the Runner's full start → handshake →
// execute → stop path without a real MCP SDK dependency.
const fixtureServer = `
while IFS= read -r line; do
  case "$line" in
    *'"method":"initialize"'*)
      printf '{"jsonrpc":"2.0","id":"init-1","result":{"protocolVersion":"2025-06-18","serverInfo":{"name":"fixture","version":"1.0.0"},"capabilities":{}}}\n'
      ;;
    *'"method":"notifications/initialized"'*)
      ;;
    *)
      printf '{"jsonrpc":"2.0","id":"t1","result":{"tools":[{"name":"read_file"}]}}\n'
      ;;
  esac
done
`

func intPtr(i int) *int {
	return &i
}

func TestRunnerRejectsImmediatelyOnZeroStartupTimeoutWithReadyPattern(t *testing.T) {
	cfg := &config.ServerConfig{
		Name:             "fixture",
		Command:          "/bin/sh",
		Args:             []string{"-c", fixtureServer},
		StartupTimeoutMs: intPtr(0),
		ReadyPattern:     "this pattern never appears",
	}

	r := New(cfg, time.Second)

	_, err := r.Run(nil)
	if err == nil {
		t.Fatal("expected startupTimeout=0 with a ReadyPattern to reject immediately")
	}
}

func TestRunnerExecutesSuiteEndToEnd(t *testing.T) {
	cfg := &config.ServerConfig{
		Name:             "fixture",
		Command:          "/bin/sh",
		Args:             []string{"-c", fixtureServer},
		StartupTimeoutMs: intPtr(2000),
	}

	r := New(cfg, 2*time.Second)

	suite := &testspec.Suite{
		Description: "tools",
		FilePath:    "tools.test.json",
		Tests: []testspec.Test{
			{
				Description: "lists tools",
				Request: map[string]any{
					"jsonrpc": "2.0",
					"id":      "t1",
					"method":  "tools/list",
				},
				Expect: testspec.Expect{
					Response: map[string]any{
						"jsonrpc": "2.0",
						"id":      "t1",
						"result": map[string]any{
							"tools": "match:not:arrayLength:0",
						},
					},
				},
			},
		},
	}

	results, err := r.Run([]*testspec.Suite{suite})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || len(results[0].Tests) != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if !results[0].Tests[0].Passed {
		t.Fatalf("expected the fixture test to pass, got: %+v", results[0].Tests[0])
	}
}

func TestRunnerFailsFastOnBadCommand(t *testing.T) {
	cfg := &config.ServerConfig{
		Name:             "missing",
		Command:          "/no/such/binary",
		Args:             []string{},
		StartupTimeoutMs: intPtr(500),
	}
	r := New(cfg, time.Second)

	_, err := r.Run(nil)
	if err == nil {
		t.Fatal("expected starting a non-existent command to error")
	}
}

// TestRunnerAgainstRealMCPServer spawns the mark3labs/mcp-go-backed
// echoserver fixture (internal/fixtures/echoserver) as a real child
// process, so the full spawn->handshake->test->shutdown loop is
// exercised against a genuine MCP implementation rather than a
// hand-scripted double.
func TestRunnerAgainstRealMCPServer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping go-run integration test in -short mode")
	}

	cfg := &config.ServerConfig{
		Name:             "echoserver",
		Command:          "go",
		Args:             []string{"run", "../internal/fixtures/echoserver"},
		StartupTimeoutMs: intPtr(15000),
		ReadyPattern:     "echoserver ready",
	}

	r := New(cfg, 5*time.Second)

	suite := &testspec.Suite{
		Description: "read_file",
		FilePath:    "read_file.test.json",
		Tests: []testspec.Test{
			{
				Description: "reads a file and echoes its path",
				Request: map[string]any{
					"jsonrpc": "2.0",
					"id":      "call-1",
					"method":  "tools/call",
					"params": map[string]any{
						"name":      "read_file",
						"arguments": map[string]any{"path": "./hello.txt"},
					},
				},
				Expect: testspec.Expect{
					Response: map[string]any{
						"match:partial": map[string]any{
							"result": map[string]any{
								"match:partial": map[string]any{
									"content": []any{
										map[string]any{"type": "text", "text": "match:contains:Hello"},
									},
								},
							},
						},
					},
				},
			},
		},
	}

	results, err := r.Run([]*testspec.Suite{suite})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || len(results[0].Tests) != 1 {
		t.Fatalf("unexpected results: %+v", results)
	}
	if !results[0].Tests[0].Passed {
		t.Fatalf("expected the echoserver test to pass, got: %+v validation=%+v", results[0].Tests[0], results[0].Tests[0].Validation)
	}
}
