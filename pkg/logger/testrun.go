package logger

import (
	"io"
	"log/slog"
)

// NewTestHandler drops every record; tests use it so service logging stays
// silent.
func NewTestHandler(slog.Level) slog.Handler {
	return slog.NewTextHandler(io.Discard, nil)
}
