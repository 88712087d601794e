package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Setup returns a JSON slog.Logger writing to w at the given level.
func Setup(w io.Writer, level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
	return slog.New(handler)
}

// OpenFile opens path for appending and returns a logger on it together with
// the file, which the caller closes. An empty path discards output.
func OpenFile(path string, level slog.Level) (*slog.Logger, io.Closer, error) {
	if path == "" {
		return Setup(io.Discard, level), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return Setup(f, level), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
