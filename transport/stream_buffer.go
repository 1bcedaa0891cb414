package transport

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sync"
)

// StreamBuffer consumes raw stdout/stderr chunks from a child process and
// turns stdout into whole JSON-RPC messages, one per frame. A frame ends
// at a newline byte outside any JSON string literal; bytes after the last
// such newline are kept until a later chunk completes the frame. A
// completed frame that fails to parse is reported through OnParseError
// and dropped.
type StreamBuffer struct {
	mu sync.Mutex

	stdout bytes.Buffer
	stderr bytes.Buffer

	onMessage   func(any)
	onParseErr  func(string)
	onStderr    func(string)
	readyRegexp *regexp.Regexp
	ready       bool
	onReady     func()
}

// NewStreamBuffer builds an empty StreamBuffer. Callers wire onMessage /
// onParseErr / onStderr / onReady before feeding chunks.
func NewStreamBuffer() *StreamBuffer {
	return &StreamBuffer{}
}

// OnMessage registers the callback invoked once per successfully parsed
// stdout line, in arrival order.
func (b *StreamBuffer) OnMessage(fn func(any)) { b.onMessage = fn }

// OnParseError registers the callback invoked when a completed frame, or
// the trailing fragment flushed by FlushStableParseErrors, fails to parse.
func (b *StreamBuffer) OnParseError(fn func(string)) { b.onParseErr = fn }

// OnStderr registers the callback invoked on every stderr append with the
// newly appended text.
func (b *StreamBuffer) OnStderr(fn func(string)) { b.onStderr = fn }

// OnReady registers the callback fired exactly once, the first time
// stderr matches the configured ready pattern.
func (b *StreamBuffer) OnReady(fn func()) { b.onReady = fn }

// SetReadyPattern configures the regex tested against each stderr append.
func (b *StreamBuffer) SetReadyPattern(pattern string) error {
	if pattern == "" {
		b.mu.Lock()
		b.readyRegexp = nil
		b.mu.Unlock()
		return nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	b.mu.Lock()
	b.readyRegexp = re
	b.mu.Unlock()
	return nil
}

// ProcessStdout appends a raw stdout chunk and emits every complete
// message framed by it.
func (b *StreamBuffer) ProcessStdout(chunk []byte) {
	b.mu.Lock()
	b.stdout.Write(chunk)
	b.drainLocked()
	b.mu.Unlock()
}

// drainLocked slices complete frames off the stdout buffer and parses
// each. A frame boundary is a newline byte that is not inside a JSON
// string literal (§4.1): findFrameBoundary walks the buffer honoring
// quote/escape state so a literal "\n" embedded in a string value never
// splits a message. Once a boundary is found the slice between it and
// the previous boundary is always intended to be complete JSON; a parse
// failure there is a genuine parseError, not a fragmentation artifact.
func (b *StreamBuffer) drainLocked() {
	for {
		data := b.stdout.Bytes()
		idx := findFrameBoundary(data)
		if idx < 0 {
			return
		}

		line := bytes.TrimRight(data[:idx], "\r")
		b.stdout.Next(idx + 1)

		trimmed := bytes.TrimSpace(line)
		if len(trimmed) == 0 {
			continue
		}

		var value any
		if err := json.Unmarshal(trimmed, &value); err != nil {
			if b.onParseErr != nil {
				b.onParseErr(string(trimmed))
			}
			continue
		}

		if b.onMessage != nil {
			b.onMessage(value)
		}
	}
}

// findFrameBoundary returns the index of the first newline byte that is
// not inside a JSON string literal (honoring backslash escapes), or -1 if
// the buffered data contains no such boundary yet.
func findFrameBoundary(data []byte) int {
	inString := false
	escaped := false
	for i, c := range data {
		if inString {
			if escaped {
				escaped = false
				continue
			}
			switch c {
			case '\\':
				escaped = true
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '\n':
			return i
		}
	}
	return -1
}

// FlushStableParseErrors is called once no more data is expected (e.g. on
// process exit) to surface any trailing, newline-less fragment that will
// now never be completed.
func (b *StreamBuffer) FlushStableParseErrors() {
	b.mu.Lock()
	defer b.mu.Unlock()

	data := b.stdout.Bytes()
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		b.stdout.Reset()
		return
	}
	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		if b.onParseErr != nil {
			b.onParseErr(string(trimmed))
		}
		b.stdout.Reset()
		return
	}
	if b.onMessage != nil {
		b.onMessage(value)
	}
	b.stdout.Reset()
}

// ProcessStderr appends a raw stderr chunk, makes it queryable via
// GetStderr, and checks the ready pattern if one is configured.
func (b *StreamBuffer) ProcessStderr(chunk []byte) {
	b.mu.Lock()
	b.stderr.Write(chunk)
	text := string(chunk)
	re := b.readyRegexp
	alreadyReady := b.ready
	var stderrSnapshot string
	if re != nil && !alreadyReady && re.Match(b.stderr.Bytes()) {
		b.ready = true
		stderrSnapshot = b.stderr.String()
	}
	b.mu.Unlock()

	if b.onStderr != nil {
		b.onStderr(text)
	}
	if stderrSnapshot != "" && b.onReady != nil {
		b.onReady()
	}
}

// GetStderr returns everything accumulated on stderr so far.
func (b *StreamBuffer) GetStderr() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stderr.String()
}

// ClearStdout empties the stdout buffer.
func (b *StreamBuffer) ClearStdout() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stdout.Reset()
}

// ClearStderr empties the stderr buffer.
func (b *StreamBuffer) ClearStderr() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stderr.Reset()
}

// ResetState clears both buffers and the ready flag.
func (b *StreamBuffer) ResetState() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stdout.Reset()
	b.stderr.Reset()
	b.ready = false
}

// IsReady reports whether the ready pattern has matched.
func (b *StreamBuffer) IsReady() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ready
}
