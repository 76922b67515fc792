package app

import (
	"io"
	"time"
)

// DefaultPollTimeout bounds the indexing wait unless overridden. Zero
// disables the bound entirely.
const DefaultPollTimeout = 10 * time.Minute

// Config carries every session choice resolved from flags, environment
// and the optional config file. Flags win over file values; file values
// win over built-in defaults.
type Config struct {
	// Patterns are the positional file patterns to index.
	Patterns []string

	Reindex        bool
	Strict         bool
	Debug          bool
	NonInteractive bool

	// Model, when set, skips the interactive model picker.
	Model string
	// EffortOverride is a per-run reasoning effort ("low", "medium",
	// "high"); it is never persisted.
	EffortOverride string

	APIKey  string
	BaseURL string

	SettingsPath string
	LogDir       string
	// ExportPDFPath, when set, renders the transcript to PDF at exit.
	ExportPDFPath string

	PollInterval time.Duration
	PollTimeout  time.Duration

	Verbose bool

	// Streams default to the process stdio; tests substitute buffers.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}
