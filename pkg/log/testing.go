package log

import (
	"bytes"
	"log/slog"
)

// NewTestLogger returns a Logger that writes JSON lines into the
// returned buffer, routed through ErrFmtHandler so tests observe the
// same stacktrace extraction the production setup performs.
func NewTestLogger(level slog.Level) (Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return &slogLogger{l: slog.New(WrapByErrFmtHandler(handler))}, buf
}
