package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestDebugfSuppressedWithoutDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	l := New(false)
	l.SetOutput(&buf)
	l.Debugf("hidden %s", "message")
	if buf.Len() != 0 {
		t.Fatalf("expected no output without debug mode, got %q", buf.String())
	}
}

func TestDebugfPrintsWithDebugFlag(t *testing.T) {
	var buf bytes.Buffer
	l := New(true)
	l.SetOutput(&buf)
	l.Debugf("hello %s", "world")
	if !strings.Contains(buf.String(), "hello world") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}
}

func TestWarnfAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	l := New(false)
	l.SetOutput(&buf)
	l.Warnf("careful")
	if !strings.Contains(buf.String(), "WARN") {
		t.Fatalf("expected WARN prefix, got %q", buf.String())
	}
}
