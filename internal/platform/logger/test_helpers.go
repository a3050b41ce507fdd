package logger

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"testing"
)

// TestLogBuffer collects JSON log lines written by concurrent goroutines,
// e.g. the writer loop and the test body.
type TestLogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *TestLogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *TestLogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// LogEntry is one decoded JSON log line.
type LogEntry map[string]any

// Level returns the entry's level, e.g. "WARN".
func (e LogEntry) Level() string { return e.Str(slog.LevelKey) }

// Msg returns the entry's message.
func (e LogEntry) Msg() string { return e.Str(slog.MessageKey) }

// Str returns attribute key rendered as a string, or "" when absent.
func (e LogEntry) Str(key string) string {
	v, ok := e[key]
	if !ok {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// GetLogEntries decodes every line written so far.
func (b *TestLogBuffer) GetLogEntries() ([]LogEntry, error) {
	var entries []LogEntry
	sc := bufio.NewScanner(bytes.NewReader([]byte(b.String())))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var entry LogEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("invalid log line %q: %w", line, err)
		}
		entries = append(entries, entry)
	}
	return entries, sc.Err()
}

// Find returns the first entry whose message is msg.
func (b *TestLogBuffer) Find(msg string) (LogEntry, bool) {
	entries, err := b.GetLogEntries()
	if err != nil {
		return nil, false
	}
	for _, e := range entries {
		if e.Msg() == msg {
			return e, true
		}
	}
	return nil, false
}

// GetTestLogger returns a debug-level JSON logger and the buffer it writes to.
func GetTestLogger(t *testing.T) (*slog.Logger, *TestLogBuffer) {
	t.Helper()
	buf := &TestLogBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

// LogTestContext returns a context whose request ID is derived from the test name.
func LogTestContext(t *testing.T) context.Context {
	t.Helper()
	return WithRequestID(context.Background(), "test-"+t.Name())
}
