// Package cli implements the orca command-line interface.
//
// The CLI is built using cobra and reads defaults from an orca.toml file.
// Status lines go to stdout styled with lipgloss; logs go to stderr through
// charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - render: lay out a program or tree and write PNG, SVG, text, JSON or DOT
//   - tree: print the flattened tree as JSON
//   - view: browse a text layout interactively
//   - fonts: list the bundled fonts
//   - serve: run the HTTP render service
//   - cache: manage the layout and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, rounded to the millisecond.
// Example output: "Wrote 3 files (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
