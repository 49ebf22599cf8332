// Package cli implements the cypherview command-line interface.
//
// This package provides commands for concentrating graph documents, listing
// their groups, fetching graphs from Neo4j, rendering node-link diagrams,
// serving the HTTP API, and managing the result cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - concentrate: Replace dense group-pair edge sets with hub vertices
//   - groups: List the vertex groups of a document
//   - fetch: Run a Cypher query and write the resulting document
//   - render: Generate SVG, DOT, PDF, or PNG diagrams
//   - serve: Run the HTTP API
//   - cache: Manage the result cache
//
// # Configuration
//
// Defaults come from ~/.config/cypherview/config.toml (or --config).
// Command-line flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Logs go to
// stderr so documents written to stdout can be piped.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
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

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Concentrated 120 nodes, 840 edges (12ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
