// Package auditlog appends a JSON-lines journal of completed releases.
//
// The journal is optional: recording failures emit a warning and never fail
// the release that produced them.
package auditlog

import (
	"context"
	"fmt"
	"time"

	"github.com/indaco/nupub/internal/core"
	"github.com/indaco/nupub/internal/printer"
	"github.com/tidwall/sjson"
)

// Entry describes one completed release run.
type Entry struct {
	Mode            string
	PreviousVersion string
	NewVersion      string
	PushedPackages  int
}

// Logger appends release entries to a JSON-lines file.
type Logger struct {
	fs   core.FileSystem
	path string

	// now is overridable in tests.
	now func() time.Time
}

// NewLogger creates a Logger writing to path. An empty path disables
// recording entirely.
func NewLogger(fs core.FileSystem, path string) *Logger {
	return &Logger{fs: fs, path: path, now: time.Now}
}

// Enabled reports whether the logger has a destination configured.
func (l *Logger) Enabled() bool {
	return l.path != ""
}

// Record appends an entry to the journal. Failures are reported as a
// warning and swallowed.
func (l *Logger) Record(ctx context.Context, entry Entry) {
	if !l.Enabled() {
		return
	}

	line, err := l.encode(entry)
	if err == nil {
		err = l.fs.AppendFile(ctx, l.path, append(line, '\n'), core.PermOwnerRW)
	}
	if err != nil {
		printer.PrintWarning(fmt.Sprintf("Failed to record audit log entry: %v", err))
	}
}

// encode builds one JSON object for the entry.
func (l *Logger) encode(entry Entry) ([]byte, error) {
	line := []byte("{}")
	var err error

	set := func(field string, value any) {
		if err != nil {
			return
		}
		line, err = sjson.SetBytes(line, field, value)
	}

	set("timestamp", l.now().UTC().Format(time.RFC3339))
	set("mode", entry.Mode)
	if entry.PreviousVersion != "" {
		set("previous_version", entry.PreviousVersion)
	}
	if entry.NewVersion != "" {
		set("new_version", entry.NewVersion)
	}
	set("pushed_packages", entry.PushedPackages)

	return line, err
}
