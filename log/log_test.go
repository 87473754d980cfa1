package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}

	if logger.caller {
		t.Error("expected caller disabled by default")
	}

	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}

	if logger.Output() != &buf {
		t.Error("expected output to be the given writer")
	}
}

func TestLogger_Make_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")

	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to Debug")
	}

	buf.Reset()

	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")

	if buf.Len() > 0 {
		t.Error("info message logged when level is Error")
	}

	logger.Error("error message")

	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at Error level")
	}
}

func TestLogger_Make_WithCaller_IncludesSource(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		Make(&buf, WithCaller(true), WithPretty(pretty)).Info("test message")

		if !strings.Contains(buf.String(), "log_test.go:") {
			t.Errorf("pretty=%v: caller not attributed to the test: %s", pretty, buf.String())
		}

		buf.Reset()
		Make(&buf, WithCaller(false), WithPretty(pretty)).Info("test message")

		if strings.Contains(buf.String(), "log_test.go:") {
			t.Errorf("pretty=%v: caller included when disabled", pretty)
		}
	}
}

func TestLogger_Make_WithFormat_SetsOutputFormat(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse JSON output: %v", err)
		}

		if result["msg"] != "test message" {
			t.Errorf("expected msg=test message, got %v", result["msg"])
		}

		if result["key"] != "value" {
			t.Errorf("expected key=value, got %v", result["key"])
		}
	})

	t.Run("pretty_json", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatJSON), WithPretty(true))
		logger.Info("test message",
			slog.String("key", "value"),
			slog.Int("n", 3),
			slog.Group("g", slog.Bool("ok", true)),
		)

		// Styles render as plain text when writing to a buffer.
		var result map[string]any
		if err := json.Unmarshal(buf.Bytes(), &result); err != nil {
			t.Fatalf("failed to parse pretty JSON output: %v\n%s", err, buf.String())
		}

		if result["key"] != "value" || result["n"] != float64(3) || result["g.ok"] != true {
			t.Errorf("unexpected attributes: %v", result)
		}
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatText), WithPretty(false))
		logger.Info("test message", slog.String("key", "value"))

		output := buf.String()
		if !strings.Contains(output, "test message") {
			t.Error("message not found in text output")
		}

		if !strings.Contains(output, "key=value") {
			t.Error("key=value not found in text output")
		}
	})
}

func TestLogger_LogMethods_RespectLevelFiltering(t *testing.T) {
	tests := []struct {
		name     string
		logFunc  func(Logger, string, ...slog.Attr)
		minLevel Level
		logged   bool
	}{
		{"trace at trace", Logger.Trace, LevelTrace, true},
		{"trace at debug", Logger.Trace, LevelDebug, false},
		{"debug at debug", Logger.Debug, LevelDebug, true},
		{"debug at info", Logger.Debug, LevelInfo, false},
		{"info at info", Logger.Info, LevelInfo, true},
		{"info at warn", Logger.Info, LevelWarn, false},
		{"warn at warn", Logger.Warn, LevelWarn, true},
		{"warn at error", Logger.Warn, LevelError, false},
		{"error at error", Logger.Error, LevelError, true},
		{"error at debug", Logger.Error, LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			tt.logFunc(Make(&buf, WithLevel(tt.minLevel)), "test message")

			if hasOutput := buf.Len() > 0; hasOutput != tt.logged {
				t.Errorf("expected logged=%v, got output length=%d", tt.logged, buf.Len())
			}
		})
	}
}

func TestLogger_AllLevels_WriteLevelName(t *testing.T) {
	tests := []struct {
		logFunc func(Logger, string, ...slog.Attr)
		level   string
	}{
		{Logger.Trace, "TRACE"},
		{Logger.Debug, "DEBUG"},
		{Logger.Info, "INFO"},
		{Logger.Warn, "WARN"},
		{Logger.Error, "ERROR"},
	}

	for _, tt := range tests {
		for _, pretty := range []bool{false, true} {
			var buf bytes.Buffer

			logger := Make(&buf, WithLevel(LevelTrace), WithPretty(pretty))
			tt.logFunc(logger, "test message")

			if !strings.Contains(buf.String(), tt.level) {
				t.Errorf("pretty=%v: expected level %q, got: %s", pretty, tt.level, buf.String())
			}
		}
	}
}

func TestLogger_ConcurrentCalls_ThreadSafe(t *testing.T) {
	var (
		buf bytes.Buffer
		wg  sync.WaitGroup
	)

	logger := Make(&buf, WithPretty(false))

	for i := range 100 {
		wg.Go(func() {
			logger.Info("concurrent message", slog.Int("id", i))
		})
	}

	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 100 {
		t.Errorf("expected 100 log lines, got %d", len(lines))
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		logger := Make(&buf, WithFormat(FormatText), WithPretty(pretty))
		logger.With(slog.String("session", "s1")).Info("test message")

		if !strings.Contains(buf.String(), "session=s1") {
			t.Errorf("pretty=%v: expected session=s1 in: %s", pretty, buf.String())
		}
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var a, b bytes.Buffer

	base := Make(&a, WithLevel(LevelError))
	wrapped := base.Wrap(WithOutput(&b), WithLevel(LevelDebug))

	wrapped.Debug("wrapped message")
	base.Debug("base message")

	if !strings.Contains(b.String(), "wrapped message") {
		t.Error("wrapped logger did not use its own output and level")
	}

	if a.Len() > 0 {
		t.Errorf("base logger changed by Wrap: %s", a.String())
	}

	if base.Level() != LevelError {
		t.Errorf("base level = %v, want error", base.Level())
	}
}

func TestLogger_ZeroValue_Safety(t *testing.T) {
	var l Logger

	// Should not panic
	l.Trace("test")
	l.Debug("test")
	l.Info("test")
	l.Warn("test")
	l.Error("test")

	if l.Enabled(t.Context(), LevelError) {
		t.Error("zero logger reports enabled")
	}

	if l2 := l.With(slog.String("key", "value")); l2.Logger != nil {
		t.Error("expected nil logger from zero value With")
	}

	if l.Level() != DefaultLevel || l.Format() != DefaultFormat {
		t.Error("zero logger does not report defaults")
	}
}

func TestLogger_TimeLayoutNone_OmitsTime(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer

		Make(&buf, WithTimeLayout("none"), WithFormat(FormatJSON), WithPretty(pretty)).
			Info("test")

		if strings.Contains(buf.String(), `"time"`) {
			t.Errorf("pretty=%v: expected no time field, got: %s", pretty, buf.String())
		}
	}
}

func BenchmarkLogger_Info(b *testing.B) {
	var buf bytes.Buffer

	logger := Make(&buf)

	for b.Loop() {
		logger.Info("benchmark message", slog.Int("iteration", 1))
	}
}

func BenchmarkLogger_Trace_Disabled(b *testing.B) {
	logger := Make(&bytes.Buffer{})

	for b.Loop() {
		logger.Trace("benchmark message", slog.Int("iteration", 1))
	}
}
