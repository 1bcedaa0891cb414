package transport

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/taurgis/mcp-aegis/protocol"
)

// pendingRead is one outstanding readMessage call, waiting for the next
// message event or its own timeout. Kept FIFO-ordered rather than
// id-keyed: MCP servers under test respond serially to stdin, so there
// is no need for id-based demultiplexing at this layer.
type pendingRead struct {
	result chan readResult
	timer  *time.Timer
}

type readResult struct {
	msg *protocol.Message
	err error
}

// MessageHandler frames outgoing JSON-RPC messages one per line and
// correlates incoming messages to readMessage callers by arrival order.
type MessageHandler struct {
	mu     sync.Mutex
	writer io.Writer
	queue  []*pendingRead
}

// NewMessageHandler builds a MessageHandler writing to w.
func NewMessageHandler(w io.Writer) *MessageHandler {
	return &MessageHandler{writer: w}
}

// SetWriter rebinds the stdin writer, used when the underlying process is
// restarted between runs.
func (h *MessageHandler) SetWriter(w io.Writer) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writer = w
}

// SendMessage frames msg as JSON followed by a single newline and writes
// it to the child's stdin.
func (h *MessageHandler) SendMessage(msg *protocol.Message) error {
	h.mu.Lock()
	w := h.writer
	h.mu.Unlock()

	if w == nil {
		return fmt.Errorf("message handler: no writer configured")
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("message handler: failed to marshal message: %w", err)
	}
	data = append(data, '\n')

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("message handler: failed to write message: %w", err)
	}
	return nil
}

// ReadMessage enqueues a pending read and blocks until the corresponding
// message arrives, the timeout elapses, or the read is cancelled.
func (h *MessageHandler) ReadMessage(timeout time.Duration) (*protocol.Message, error) {
	pr := &pendingRead{result: make(chan readResult, 1)}

	h.mu.Lock()
	h.queue = append(h.queue, pr)
	h.mu.Unlock()

	if timeout > 0 {
		pr.timer = time.AfterFunc(timeout, func() {
			h.removeAndSettle(pr, readResult{err: fmt.Errorf("message handler: read timed out after %s", timeout)})
		})
	}

	res := <-pr.result
	return res.msg, res.err
}

// PendingCount reports how many reads are currently queued, for
// diagnostics.
func (h *MessageHandler) PendingCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queue)
}

// Deliver resolves the head of the FIFO queue with msg. Called by the
// StreamBuffer's onMessage callback; messages with no matching pending
// read (more messages than reads) are silently dropped, matching the
// spec's "one pending read per outstanding request" invariant.
func (h *MessageHandler) Deliver(msg *protocol.Message) {
	h.mu.Lock()
	if len(h.queue) == 0 {
		h.mu.Unlock()
		return
	}
	pr := h.queue[0]
	h.queue = h.queue[1:]
	h.mu.Unlock()

	if pr.timer != nil {
		pr.timer.Stop()
	}
	select {
	case pr.result <- readResult{msg: msg}:
	default:
	}
}

// CancelAllReads rejects every queued read with reason, used on process
// exit so no goroutine is left blocked forever.
func (h *MessageHandler) CancelAllReads(reason error) {
	h.mu.Lock()
	pending := h.queue
	h.queue = nil
	h.mu.Unlock()

	for _, pr := range pending {
		if pr.timer != nil {
			pr.timer.Stop()
		}
		select {
		case pr.result <- readResult{err: reason}:
		default:
		}
	}
}

func (h *MessageHandler) removeAndSettle(pr *pendingRead, res readResult) {
	h.mu.Lock()
	for i, queued := range h.queue {
		if queued == pr {
			h.queue = append(h.queue[:i], h.queue[i+1:]...)
			break
		}
	}
	h.mu.Unlock()

	select {
	case pr.result <- res:
	default:
	}
}
