package log

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/hydroml/hydroml/pkg/errors"
)

func logEntries(t *testing.T, raw string) []map[string]interface{} {
	t.Helper()
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]interface{}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestErrFmtHandlerAddsStacktrace(t *testing.T) {
	logger, buf := NewTestLogger(slog.LevelDebug)

	err := errors.NewNotFittedError("Transformations", "InverseTransform")
	logger.Error("inverse transform failed", ErrAttr(err))

	entries := logEntries(t, buf.String())
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}

	if _, ok := entries[0][ErrAttrKey]; !ok {
		t.Errorf("entry missing %q attribute: %v", ErrAttrKey, entries[0])
	}

	stack, ok := entries[0][StacktraceAttrKey].(string)
	if !ok || stack == "" {
		t.Fatalf("entry missing %q attribute: %v", StacktraceAttrKey, entries[0])
	}
}

func TestErrFmtHandlerPlainErrorNoStacktrace(t *testing.T) {
	logger, buf := NewTestLogger(slog.LevelDebug)

	// A bare error without recorded stack details gets no stacktrace attribute
	logger.Warn("trial failed", ErrAttr(context.DeadlineExceeded))

	entries := logEntries(t, buf.String())
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	if _, ok := entries[0][StacktraceAttrKey]; ok {
		t.Errorf("unexpected %q attribute on a stackless error: %v", StacktraceAttrKey, entries[0])
	}
}

func TestLoggerWithAndFields(t *testing.T) {
	logger, buf := NewTestLogger(slog.LevelDebug)

	contextual := logger.With(ComponentKey, "transform.pipeline")
	contextual.Info("fitting transformations",
		OperationKey, "fit_transform",
		SourcesKey, 2,
	)

	entries := logEntries(t, buf.String())
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry[ComponentKey] != "transform.pipeline" {
		t.Errorf("%s = %v, want transform.pipeline", ComponentKey, entry[ComponentKey])
	}
	if entry[OperationKey] != "fit_transform" {
		t.Errorf("%s = %v, want fit_transform", OperationKey, entry[OperationKey])
	}
	if entry[SourcesKey] != 2.0 { // JSON numbers decode as float64
		t.Errorf("%s = %v, want 2", SourcesKey, entry[SourcesKey])
	}
}

func TestLoggerEnabledLevels(t *testing.T) {
	logger, buf := NewTestLogger(slog.LevelInfo)
	ctx := context.Background()

	if !logger.Enabled(ctx, slog.LevelInfo) {
		t.Error("logger should be enabled for info")
	}
	if logger.Enabled(ctx, slog.LevelDebug) {
		t.Error("logger should not be enabled for debug")
	}

	logger.Debug("suppressed")
	logger.Info("emitted")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("debug message should be suppressed at info level")
	}
	if !strings.Contains(out, "emitted") {
		t.Error("info message missing from output")
	}
}

func TestToLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		if got := ToLogLevel(tt.in); got != tt.want {
			t.Errorf("ToLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToLogLevelInvalidPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for invalid log level")
		}
	}()
	ToLogLevel("verbose")
}

func TestSetupLogger(t *testing.T) {
	// Replaces the process-wide default, so keep it quiet at error level
	SetupLogger("error")

	logger := GetLoggerWithName("hpo.search")
	if logger == nil {
		t.Fatal("GetLoggerWithName returned nil")
	}
	if logger.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("default logger should not emit debug after error-level setup")
	}
}
