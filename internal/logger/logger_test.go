package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func TestNewRequestID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		if len(id) != 8 {
			t.Fatalf("id %q has length %d, want 8", id, len(id))
		}
		seen[id] = true
	}
	if len(seen) < 95 {
		t.Errorf("only %d distinct ids out of 100", len(seen))
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" {
		t.Error("expected empty id from bare context")
	}
	ctx = WithRequestID(ctx, "abc12345")
	if got := RequestIDFromContext(ctx); got != "abc12345" {
		t.Errorf("got %q, want abc12345", got)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"":      zerolog.InfoLevel,
		"debug": zerolog.DebugLevel,
		"warn":  zerolog.WarnLevel,
		"bogus": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestLogBodyTruncates(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	defer zerolog.SetGlobalLevel(prev)

	var buf bytes.Buffer
	l := zerolog.New(&buf)

	LogResponse(l, []byte(strings.Repeat("x", 1500)))
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["truncated"] != true {
		t.Error("expected truncated flag")
	}
	if got := len(entry["response"].(string)); got != 1000 {
		t.Errorf("logged %d bytes, want 1000", got)
	}

	buf.Reset()
	LogRequest(l, nil)
	if buf.Len() != 0 {
		t.Error("empty body should not be logged")
	}
}

func captureGlobal(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	return &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	return entry
}

func TestForRunTagsRunID(t *testing.T) {
	buf := captureGlobal(t)

	runLog := ForRun("run-42")
	runLog.Info().Msg("Run initialized")

	entry := decodeLine(t, buf)
	if entry["runId"] != "run-42" {
		t.Errorf("runId = %v, want run-42", entry["runId"])
	}
}

func TestForRequestTagsRequestID(t *testing.T) {
	buf := captureGlobal(t)

	reqLog := ForRequest(WithRequestID(context.Background(), "abc12345"))
	reqLog.Warn().Msg("Failed to cache snapshot")
	if entry := decodeLine(t, buf); entry["requestId"] != "abc12345" {
		t.Errorf("requestId = %v, want abc12345", entry["requestId"])
	}

	buf.Reset()
	bare := ForRequest(context.Background())
	bare.Warn().Msg("no request")
	if entry := decodeLine(t, buf); entry["requestId"] != nil {
		t.Errorf("unexpected requestId %v on bare context", entry["requestId"])
	}
}
