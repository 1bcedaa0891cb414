package transport

import (
	"fmt"
	"time"

	"github.com/taurgis/mcp-aegis/protocol"
)

// Config carries everything a Communicator needs to spawn and supervise a
// server under test.
type Config struct {
	Name    string
	Command string
	Args    []string
	Cwd     string
	Env     map[string]string

	// StartupTimeout is nil when the caller never set one, in which case
	// NewCommunicator fills in DefaultStartupTimeout. An explicit zero is
	// left as-is: paired with a ReadyPattern, Start then has nothing to
	// wait for and times out immediately rather than silently adopting
	// the default.
	StartupTimeout      *time.Duration
	ReadyPattern        string
	ShutdownGracePeriod time.Duration
}

// DefaultStartupTimeout is used when a Config doesn't specify one.
const DefaultStartupTimeout = 5 * time.Second

// DefaultShutdownGracePeriod bounds how long Stop waits for a graceful exit.
const DefaultShutdownGracePeriod = 2 * time.Second

// Communicator composes ProcessManager, StreamBuffer and MessageHandler
// into the lifecycle/send/receive/buffer-clear surface test logic uses,
// keeping the child process, its framing buffer and its pending-request
// bookkeeping as separate, independently testable components rather than
// one monolithic struct.
type Communicator struct {
	cfg Config

	proc   *ProcessManager
	stream *StreamBuffer
	msgs   *MessageHandler

	onExit   func(code int, err error)
	onStderr func(string)
}

// NewCommunicator wires a Communicator for cfg; it does not start the
// process.
func NewCommunicator(cfg Config) (*Communicator, error) {
	if cfg.StartupTimeout == nil {
		def := DefaultStartupTimeout
		cfg.StartupTimeout = &def
	}
	if cfg.ShutdownGracePeriod <= 0 {
		cfg.ShutdownGracePeriod = DefaultShutdownGracePeriod
	}

	stream := NewStreamBuffer()
	if cfg.ReadyPattern != "" {
		if err := stream.SetReadyPattern(cfg.ReadyPattern); err != nil {
			return nil, fmt.Errorf("communicator: invalid ready pattern: %w", err)
		}
	}

	proc := NewProcessManager(cfg.Command, cfg.Args, cfg.Cwd, cfg.Env)
	msgs := NewMessageHandler(nil)

	c := &Communicator{cfg: cfg, proc: proc, stream: stream, msgs: msgs}

	stream.OnMessage(func(v any) {
		msg := decodeToMessage(v)
		msgs.Deliver(msg)
	})
	stream.OnStderr(func(s string) {
		if c.onStderr != nil {
			c.onStderr(s)
		}
	})

	proc.OnStdout(stream.ProcessStdout)
	proc.OnStderr(stream.ProcessStderr)
	proc.OnExit(func(code int, err error) {
		stream.FlushStableParseErrors()
		msgs.CancelAllReads(fmt.Errorf("communicator: process exited (code=%d): %v", code, err))
		if c.onExit != nil {
			c.onExit(code, err)
		}
	})

	return c, nil
}

// decodeToMessage best-effort-converts a generically parsed JSON value
// into a *protocol.Message, preserving fields json.Unmarshal would set.
func decodeToMessage(v any) *protocol.Message {
	m, ok := v.(map[string]any)
	if !ok {
		return &protocol.Message{Result: v}
	}
	msg := &protocol.Message{}
	if jr, ok := m["jsonrpc"].(string); ok {
		msg.JSONRPC = jr
	}
	if id, ok := m["id"]; ok {
		msg.ID = id
	}
	if method, ok := m["method"].(string); ok {
		msg.Method = method
	}
	if params, ok := m["params"]; ok {
		msg.Params = params
	}
	if result, ok := m["result"]; ok {
		msg.Result = result
	}
	if errVal, ok := m["error"].(map[string]any); ok {
		e := &protocol.Error{}
		if code, ok := errVal["code"].(float64); ok {
			e.Code = int(code)
		}
		if message, ok := errVal["message"].(string); ok {
			e.Message = message
		}
		if data, ok := errVal["data"]; ok {
			e.Data = data
		}
		msg.Error = e
	}
	return msg
}

// OnExit registers a callback fired once the child process exits.
func (c *Communicator) OnExit(fn func(code int, err error)) { c.onExit = fn }

// OnStderr registers a callback fired on every stderr append.
func (c *Communicator) OnStderr(fn func(string)) { c.onStderr = fn }

// Start spawns the process and, per §4.4/§9's resolved open question,
// waits for the ready event only if a ReadyPattern was configured;
// otherwise it resolves as soon as spawn succeeds.
func (c *Communicator) Start() error {
	if err := c.proc.Start(); err != nil {
		return err
	}
	c.msgs.SetWriter(c.proc.Stdin())

	if c.cfg.ReadyPattern == "" {
		return nil
	}

	readyCh := make(chan struct{}, 1)
	c.stream.OnReady(func() {
		select {
		case readyCh <- struct{}{}:
		default:
		}
	})

	select {
	case <-readyCh:
		return nil
	case <-time.After(*c.cfg.StartupTimeout):
		_ = c.proc.Stop(c.cfg.ShutdownGracePeriod)
		return fmt.Errorf("communicator: startup timeout waiting for ready pattern after %s", *c.cfg.StartupTimeout)
	}
}

// Stop terminates the process, bounded by the configured grace period.
func (c *Communicator) Stop() error {
	return c.proc.Stop(c.cfg.ShutdownGracePeriod)
}

// IsRunning reports whether the child process is alive.
func (c *Communicator) IsRunning() bool {
	return c.proc.IsRunning()
}

// SendMessage frames and writes msg to the child's stdin.
func (c *Communicator) SendMessage(msg *protocol.Message) error {
	return c.msgs.SendMessage(msg)
}

// ReadMessage blocks for the next message or the given timeout.
func (c *Communicator) ReadMessage(timeout time.Duration) (*protocol.Message, error) {
	return c.msgs.ReadMessage(timeout)
}

// GetStderr returns everything accumulated on stderr so far.
func (c *Communicator) GetStderr() string {
	return c.stream.GetStderr()
}

// ClearAllBuffers clears stdout/stderr buffers, resets ready state, and
// cancels pending reads — the buffer-hygiene operation §9 calls the
// single most load-bearing invariant in the whole system. It must run
// unconditionally before every test.
func (c *Communicator) ClearAllBuffers() {
	c.stream.ResetState()
	c.msgs.CancelAllReads(fmt.Errorf("communicator: buffers cleared, pending read cancelled"))
}
