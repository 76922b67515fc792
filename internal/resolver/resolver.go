// Package resolver expands file patterns into the ordered, de-duplicated
// list of files eligible for indexing.
package resolver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// supportedExtensions is the allow-list accepted by the remote file
// search: documents, structured data, source code and config text.
var supportedExtensions = map[string]struct{}{
	// Documents
	".txt": {}, ".md": {}, ".pdf": {}, ".doc": {}, ".docx": {}, ".pptx": {}, ".html": {}, ".htm": {},
	// Data formats
	".json": {}, ".xml": {}, ".csv": {}, ".tsv": {}, ".yaml": {}, ".yml": {},
	// Programming languages
	".py": {}, ".js": {}, ".ts": {}, ".jsx": {}, ".tsx": {}, ".java": {}, ".c": {}, ".cpp": {}, ".h": {}, ".hpp": {},
	".cs": {}, ".go": {}, ".rs": {}, ".rb": {}, ".php": {}, ".swift": {}, ".kt": {}, ".scala": {}, ".r": {},
	".sh": {}, ".bash": {}, ".zsh": {}, ".ps1": {}, ".bat": {}, ".cmd": {}, ".sql": {}, ".lua": {}, ".pl": {},
	".hs": {}, ".elm": {}, ".ex": {}, ".exs": {}, ".clj": {}, ".lisp": {}, ".scm": {}, ".ml": {}, ".fs": {},
	// Config and markup
	".toml": {}, ".ini": {}, ".cfg": {}, ".conf": {}, ".tex": {}, ".rst": {}, ".org": {}, ".adoc": {},
}

// Supported reports whether the path carries an indexable extension.
func Supported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Resolve expands patterns into supported files. Directories recurse,
// globs support ** across segments, and duplicates are dropped by
// canonical path keeping the first occurrence. Problems with individual
// patterns are reported as warnings, never as errors.
func Resolve(patterns []string) (files []string, warnings []string) {
	var candidates []string
	for _, pattern := range patterns {
		matches, err := expandGlob(pattern)
		if err != nil || len(matches) == 0 {
			if !strings.ContainsAny(pattern, "*?") {
				warnings = append(warnings, fmt.Sprintf("file not found: %s", pattern))
			} else {
				warnings = append(warnings, fmt.Sprintf("no matches for pattern: %s", pattern))
			}
			continue
		}
		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if info.IsDir() {
				candidates = append(candidates, walkDir(match)...)
				continue
			}
			if Supported(match) {
				candidates = append(candidates, match)
			} else {
				warnings = append(warnings, fmt.Sprintf("unsupported file type: %s", match))
			}
		}
	}

	seen := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		abs, err := filepath.Abs(c)
		if err != nil {
			abs = c
		}
		if _, dup := seen[abs]; dup {
			continue
		}
		seen[abs] = struct{}{}
		files = append(files, c)
	}
	return files, warnings
}

// walkDir collects supported files under dir, silently skipping the rest.
func walkDir(dir string) []string {
	var out []string
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if Supported(path) {
			out = append(out, path)
		}
		return nil
	})
	return out
}
