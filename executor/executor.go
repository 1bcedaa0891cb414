// Package executor runs the per-test clear/send/read/validate/record
// sequence against an already handshaken transport.Communicator.
package executor

import (
	"strings"
	"time"

	"github.com/taurgis/mcp-aegis/pattern"
	"github.com/taurgis/mcp-aegis/protocol"
	"github.com/taurgis/mcp-aegis/testspec"
	"github.com/taurgis/mcp-aegis/transport"
)

// DefaultReadTimeout is the per-test read timeout used when the caller
// does not override it.
const DefaultReadTimeout = 5 * time.Second

// Outcome is one test's recorded result, minus the reporter-owned
// formatting fields.
type Outcome struct {
	Description string
	Passed      bool
	Duration    time.Duration
	ErrorMessage string
	Validation  *pattern.Result
	StderrCheck *pattern.Result
}

// Executor runs Tests against a live Communicator.
type Executor struct {
	comm        *transport.Communicator
	readTimeout time.Duration
}

// New builds an Executor bound to comm, using timeout as the per-test
// read timeout (DefaultReadTimeout if zero).
func New(comm *transport.Communicator, timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultReadTimeout
	}
	return &Executor{comm: comm, readTimeout: timeout}
}

// Run executes one Test end to end: clear buffers, send the request,
// read the response (unless it's a notification), validate it, validate
// stderr, and record the outcome.
func (e *Executor) Run(test testspec.Test) Outcome {
	start := time.Now()
	out := Outcome{Description: test.Name()}

	// Step 1: buffer hygiene — unconditional, before every test (§9).
	e.comm.ClearAllBuffers()

	req := requestFromMap(test.Request)

	// Step 2: send.
	if err := e.comm.SendMessage(req); err != nil {
		out.Duration = time.Since(start)
		out.Passed = false
		out.ErrorMessage = "transport error sending request: " + err.Error()
		return out
	}

	// Step 3: read, unless the request is a notification (no id).
	var actual *protocol.Message
	if req.ID != nil {
		resp, err := e.comm.ReadMessage(e.readTimeout)
		if err != nil {
			out.Duration = time.Since(start)
			out.Passed = false
			out.ErrorMessage = "timed out waiting for response: " + err.Error()
			return out
		}
		actual = resp
	}

	// Step 4: validate response.
	allPassed := true
	if test.Expect.Response != nil {
		var actualValue any
		if actual != nil {
			actualValue = messageToValue(actual)
		}
		result := pattern.Match(test.Expect.Response, actualValue, "")
		out.Validation = &result
		if !result.Passed {
			allPassed = false
		}
	}

	// Step 5: validate stderr.
	if test.Expect.Stderr != "" {
		stderr := e.comm.GetStderr()
		result := evaluateStderr(test.Expect.Stderr, stderr)
		out.StderrCheck = &result
		if !result.Passed {
			allPassed = false
		}
	}

	out.Duration = time.Since(start)
	out.Passed = allPassed
	if !allPassed && out.ErrorMessage == "" {
		out.ErrorMessage = "assertion failed"
	}
	return out
}

// evaluateStderr implements the three stderr expectation forms (§4.8
// step 5): "toBeEmpty", a pattern, or exact trimmed equality.
func evaluateStderr(expect, actual string) pattern.Result {
	trimmed := strings.TrimSpace(actual)

	switch {
	case expect == "toBeEmpty":
		return pattern.Match("", trimmed, "stderr")
	case pattern.IsPatternString(expect):
		return pattern.Match(expect, trimmed, "stderr")
	default:
		return pattern.Match(expect, trimmed, "stderr")
	}
}

// requestFromMap converts the raw JSON object captured in testspec.Test
// into a *protocol.Message, preserving whatever id/method/params it
// declares.
func requestFromMap(m map[string]any) *protocol.Message {
	msg := &protocol.Message{JSONRPC: protocol.Version}
	if id, ok := m["id"]; ok {
		msg.ID = id
	}
	if method, ok := m["method"].(string); ok {
		msg.Method = method
	}
	if params, ok := m["params"]; ok {
		msg.Params = params
	}
	return msg
}

// messageToValue re-projects a *protocol.Message as a plain map so
// PatternEngine's expected-object comparisons ("result.tools": ...) walk
// it uniformly.
func messageToValue(msg *protocol.Message) any {
	v := map[string]any{"jsonrpc": msg.JSONRPC}
	if msg.ID != nil {
		v["id"] = msg.ID
	}
	if msg.Result != nil {
		v["result"] = msg.Result
	}
	if msg.Error != nil {
		v["error"] = map[string]any{
			"code":    float64(msg.Error.Code),
			"message": msg.Error.Message,
			"data":    msg.Error.Data,
		}
	}
	return v
}
