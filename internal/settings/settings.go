// Package settings persists the session choices that survive between
// runs: the chosen model, reasoning effort, the indexed file patterns
// and the vector store id they produced.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// DefaultPath is the well-known settings location in the working directory.
const DefaultPath = "settings.json"

// Settings is the full durable record. VectorStoreID is non-empty exactly
// when indexing has completed successfully at least once.
type Settings struct {
	Model           string   `json:"model"`
	ReasoningEffort string   `json:"reasoning_effort,omitempty"`
	FilePatterns    []string `json:"file_patterns,omitempty"`
	VectorStoreID   string   `json:"vector_store_id,omitempty"`
}

// Valid reports whether the record points at a usable index.
func (s Settings) Valid() bool {
	return s.VectorStoreID != "" && s.Model != ""
}

// Store reads and writes the settings record at a fixed path.
type Store struct {
	Path string
}

// Load returns the stored record and whether one was usable. A missing or
// corrupt file is treated as absent: the caller falls back to fresh
// indexing rather than failing.
func (st *Store) Load() (Settings, bool) {
	var s Settings
	b, err := os.ReadFile(st.Path)
	if err != nil {
		return s, false
	}
	if err := json.Unmarshal(b, &s); err != nil {
		log.Warn().Err(err).Str("path", st.Path).Msg("settings unreadable; treating as absent")
		return Settings{}, false
	}
	return s, true
}

// Save overwrites the whole record. The write goes to a temporary file in
// the same directory followed by a rename, so an interrupted save leaves
// the previous record fully intact.
func (st *Store) Save(s Settings) error {
	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	b = append(b, '\n')

	dir := filepath.Dir(st.Path)
	tmp, err := os.CreateTemp(dir, ".settings-*.json")
	if err != nil {
		return fmt.Errorf("stage settings: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("stage settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("stage settings: %w", err)
	}
	if err := os.Rename(tmpPath, st.Path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
