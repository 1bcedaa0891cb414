package transport

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/taurgis/mcp-aegis/protocol"
)

func TestMessageHandlerSendMessageFramesWithNewline(t *testing.T) {
	var buf bytes.Buffer
	h := NewMessageHandler(&buf)

	if err := h.SendMessage(protocol.NewRequest("tools/list", nil, "t1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if buf.Len() == 0 || buf.Bytes()[buf.Len()-1] != '\n' {
		t.Fatalf("expected frame to end with newline, got %q", buf.String())
	}

	var decoded protocol.Message
	if err := json.Unmarshal(bytes.TrimRight(buf.Bytes(), "\n"), &decoded); err != nil {
		t.Fatalf("failed to decode framed message: %v", err)
	}
	if decoded.Method != "tools/list" {
		t.Errorf("expected method tools/list, got %s", decoded.Method)
	}
}

func TestMessageHandlerFIFOOrdering(t *testing.T) {
	h := NewMessageHandler(&bytes.Buffer{})

	firstCh := make(chan *protocol.Message, 1)
	secondCh := make(chan *protocol.Message, 1)
	go func() {
		msg, err := h.ReadMessage(time.Second)
		if err != nil {
			t.Errorf("unexpected error on first read: %v", err)
		}
		firstCh <- msg
	}()
	// Let the first read enqueue before the second one starts.
	time.Sleep(20 * time.Millisecond)
	go func() {
		msg, err := h.ReadMessage(time.Second)
		if err != nil {
			t.Errorf("unexpected error on second read: %v", err)
		}
		secondCh <- msg
	}()
	time.Sleep(20 * time.Millisecond)

	h.Deliver(&protocol.Message{ID: "first"})
	h.Deliver(&protocol.Message{ID: "second"})

	first := <-firstCh
	second := <-secondCh
	if first == nil || second == nil || first.ID != "first" || second.ID != "second" {
		t.Fatalf("expected reads to resolve in FIFO order, got %v and %v", first, second)
	}
}

func TestMessageHandlerReadTimesOutCleanly(t *testing.T) {
	h := NewMessageHandler(&bytes.Buffer{})

	start := time.Now()
	_, err := h.ReadMessage(20 * time.Millisecond)
	if err == nil {
		t.Fatalf("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("expected to wait at least the timeout, waited %s", elapsed)
	}
	if h.PendingCount() != 0 {
		t.Errorf("expected pending queue to be drained after timeout, got %d", h.PendingCount())
	}
}

func TestMessageHandlerCancelAllReadsRejectsEverything(t *testing.T) {
	h := NewMessageHandler(&bytes.Buffer{})

	errs := make(chan error, 2)
	go func() {
		_, err := h.ReadMessage(5 * time.Second)
		errs <- err
	}()
	go func() {
		_, err := h.ReadMessage(5 * time.Second)
		errs <- err
	}()

	time.Sleep(20 * time.Millisecond)
	h.CancelAllReads(errExit)

	for i := 0; i < 2; i++ {
		if err := <-errs; err == nil {
			t.Errorf("expected cancellation error, got nil")
		}
	}
}

var errExit = errTest("process exited")

type errTest string

func (e errTest) Error() string { return string(e) }
