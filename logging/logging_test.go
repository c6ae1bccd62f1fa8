package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestPrettyJSONHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	h := &PrettyJSONHandler{
		JSONHandler: slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		writer:      &buf,
		level:       slog.LevelDebug,
	}
	logger := slog.New(h)

	logger.Debug("execute", "sql", "SELECT 1", "stmt_id", "abc123")

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded["msg"] != "execute" {
		t.Errorf("msg = %v, want %q", decoded["msg"], "execute")
	}
	if decoded["sql"] != "SELECT 1" {
		t.Errorf("sql = %v, want %q", decoded["sql"], "SELECT 1")
	}
	if decoded["level"] != "DEBUG" {
		t.Errorf("level = %v, want DEBUG", decoded["level"])
	}
}

func TestPrettyJSONHandlerLevel(t *testing.T) {
	h := newPrettyJSONHandler()
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("dev handler should be enabled at debug level")
	}
}

func TestDiscardLogger(t *testing.T) {
	// Must not panic and must not write anywhere.
	Discard.Info("ignored", "key", "value")
	Discard.Debug("ignored")
}
