package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that swallows all output, for tests that do not
// assert on log lines.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}
