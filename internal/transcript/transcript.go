// Package transcript writes the append-only per-run conversation log.
package transcript

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultDir is where session logs are created unless overridden.
const DefaultDir = "chat_logs"

// Writer appends role-labeled text blocks to a single markdown file named
// by the session start time. One file per process run.
type Writer struct {
	path string
}

// NewWriter creates the log directory if needed and reserves a log path
// for this run. The file itself appears on first append.
func NewWriter(dir string, start time.Time) (*Writer, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	name := fmt.Sprintf("chat_%s.md", start.Format("20060102_150405"))
	return &Writer{path: filepath.Join(dir, name)}, nil
}

// Path returns the transcript file location.
func (w *Writer) Path() string { return w.path }

// Append writes one role-labeled block. Entries land in call order; the
// file is opened per append so a crash never holds the log hostage.
func (w *Writer) Append(role, text string) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open transcript: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "## %s\n%s\n\n", strings.ToUpper(role), text); err != nil {
		return fmt.Errorf("append transcript: %w", err)
	}
	return nil
}
