package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name  string
		level log.Level
		emit  func(*log.Logger)
		want  string
	}{
		{"info shown at info", log.InfoLevel, func(l *log.Logger) { l.Info("laid out", "nodes", 10) }, "nodes=10"},
		{"debug hidden at info", log.InfoLevel, func(l *log.Logger) { l.Debug("germinated") }, ""},
		{"debug shown at debug", log.DebugLevel, func(l *log.Logger) { l.Debug("germinated") }, "germinated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.emit(newLogger(&buf, tt.level))
			got := buf.String()
			if tt.want == "" && got != "" {
				t.Errorf("output = %q, want none", got)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("Rendered 2 format(s)")

	out := buf.String()
	if !strings.Contains(out, "Rendered 2 format(s)") || !strings.Contains(out, "s)") {
		t.Errorf("done() output = %q, want message and elapsed time", out)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.Logger.Debug("hidden")
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Errorf("log output = %q", out)
	}
}
