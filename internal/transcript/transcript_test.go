package transcript

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriterNamesFileByStartTime(t *testing.T) {
	dir := t.TempDir()
	start := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	w, err := NewWriter(dir, start)
	if err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(dir, "chat_20260830_140509.md")
	if w.Path() != want {
		t.Fatalf("path %q, want %q", w.Path(), want)
	}
	// No file until the first append.
	if _, err := os.Stat(w.Path()); !os.IsNotExist(err) {
		t.Fatalf("file should not exist yet: %v", err)
	}
}

func TestAppendWritesRoleBlocksInOrder(t *testing.T) {
	w, err := NewWriter(t.TempDir(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append("user", "what is this?"); err != nil {
		t.Fatal(err)
	}
	if err := w.Append("assistant", "a test."); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(w.Path())
	if err != nil {
		t.Fatal(err)
	}
	got := string(b)
	want := "## USER\nwhat is this?\n\n## ASSISTANT\na test.\n\n"
	if got != want {
		t.Fatalf("transcript:\n%q\nwant:\n%q", got, want)
	}
}

func TestNewWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "nested")
	if _, err := NewWriter(dir, time.Now()); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("log dir not created: %v", err)
	}
}

func TestExportPDF(t *testing.T) {
	w, err := NewWriter(t.TempDir(), time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Append("user", "hello"); err != nil {
		t.Fatal(err)
	}
	if err := w.Append("assistant", strings.Repeat("long answer ", 50)); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "session.pdf")
	if err := ExportPDF(w.Path(), out); err != nil {
		t.Fatalf("export: %v", err)
	}
	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("empty pdf")
	}
}

func TestExportPDFMissingTranscript(t *testing.T) {
	out := filepath.Join(t.TempDir(), "session.pdf")
	if err := ExportPDF(filepath.Join(t.TempDir(), "nope.md"), out); err == nil {
		t.Fatal("expected error for missing transcript")
	}
}
