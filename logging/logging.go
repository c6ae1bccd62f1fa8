// Package logging provides the repo's slog loggers: a plain JSON logger for
// production use and a pretty-printing JSON logger for development.
package logging

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"time"
)

// PrettyJSONHandler is a custom handler that pretty prints JSON in development
type PrettyJSONHandler struct {
	*slog.JSONHandler
	writer io.Writer
	level  slog.Level
}

func (h *PrettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *PrettyJSONHandler) Handle(ctx context.Context, r slog.Record) error {
	// Convert the record to a map
	attrs := make(map[string]interface{})
	r.Attrs(func(a slog.Attr) bool {
		attrs[a.Key] = a.Value.Any()
		return true
	})

	// Add time and level
	attrs["time"] = r.Time.Format(time.RFC3339)
	attrs["level"] = r.Level.String()
	attrs["msg"] = r.Message

	// Marshal with indentation
	prettyJSON, err := json.MarshalIndent(attrs, "", "  ")
	if err != nil {
		return err
	}

	// Write to the handler's writer with newline
	_, err = h.writer.Write(append(prettyJSON, '\n'))
	return err
}

// newPrettyJSONHandler creates a new pretty JSON handler at debug level so
// statement logging from the gateway is visible during development.
func newPrettyJSONHandler() *PrettyJSONHandler {
	return &PrettyJSONHandler{
		JSONHandler: slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		writer:      os.Stderr,
		level:       slog.LevelDebug,
	}
}

var ProdLogger = slog.New(slog.NewJSONHandler(os.Stderr, nil))

var DevLogger = slog.New(newPrettyJSONHandler())

// Discard is a logger that drops everything. Useful as the default when a
// caller passes nil.
var Discard = slog.New(slog.NewTextHandler(io.Discard, nil))
