package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestPackage_LogFunctions_UseDefaultLogger(t *testing.T) {
	// Restore the default logger after the test
	saved := defaultLog
	t.Cleanup(func() { defaultLog = saved })

	var buf bytes.Buffer

	Config(WithOutput(&buf), WithLevel(LevelDebug), WithFormat(FormatJSON), WithPretty(false))

	tests := []struct {
		name  string
		fn    func(string, ...slog.Attr)
		level string
	}{
		{"Debug", Debug, "DEBUG"},
		{"Info", Info, "INFO"},
		{"Warn", Warn, "WARN"},
		{"Error", Error, "ERROR"},
		{"InfoContext", func(msg string, attrs ...slog.Attr) {
			InfoContext(t.Context(), msg, attrs...)
		}, "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.fn("package message", slog.String("key", "value"))

			output := buf.String()
			if !strings.Contains(output, "package message") {
				t.Errorf("expected message in output, got: %s", output)
			}

			if !strings.Contains(output, tt.level) {
				t.Errorf("expected level %q in output, got: %s", tt.level, output)
			}

			if !strings.Contains(output, `"key":"value"`) {
				t.Errorf("expected attribute in output, got: %s", output)
			}
		})
	}

	if Default().Level() != LevelDebug {
		t.Errorf("Default().Level() = %v, want debug", Default().Level())
	}
}
