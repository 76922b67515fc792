package resolver

import (
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// matchGlob checks a slash-separated relative path against a pattern
// supporting *, ** and ?:
//   - *  matches within a path segment (no '/')
//   - ** matches across directories
//   - ?  matches a single character
func matchGlob(relPath, pattern string) bool {
	re := globToRegex(filepath.ToSlash(pattern))
	ok, err := regexp.MatchString(re, filepath.ToSlash(relPath))
	return err == nil && ok
}

// expandGlob returns existing paths matching pattern. A pattern with no
// glob metacharacters is checked for direct existence. Glob patterns walk
// from their longest static directory prefix, so "docs/**/*.md" only
// visits docs/.
func expandGlob(pattern string) ([]string, error) {
	if !strings.ContainsAny(pattern, "*?") {
		if _, err := os.Stat(pattern); err == nil {
			return []string{pattern}, nil
		}
		return nil, nil
	}

	root, rest := splitStaticPrefix(pattern)
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Best-effort: skip unreadable entries.
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil || rel == "." {
			return nil
		}
		if matchGlob(rel, rest) {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// splitStaticPrefix separates the leading metacharacter-free directories
// from the glob remainder: "docs/api/**/*.md" -> ("docs/api", "**/*.md").
func splitStaticPrefix(pattern string) (root, rest string) {
	pat := filepath.ToSlash(pattern)
	segments := strings.Split(pat, "/")
	static := 0
	for _, seg := range segments {
		if strings.ContainsAny(seg, "*?") {
			break
		}
		static++
	}
	root = strings.Join(segments[:static], "/")
	rest = strings.Join(segments[static:], "/")
	if root == "" {
		if strings.HasPrefix(pat, "/") {
			root = "/"
		} else {
			root = "."
		}
	}
	return filepath.FromSlash(root), rest
}

func globToRegex(glob string) string {
	var b strings.Builder
	b.WriteString("^")
	runes := []rune(glob)
	for i := 0; i < len(runes); i++ {
		ch := runes[i]
		if ch == '*' {
			if i+1 < len(runes) && runes[i+1] == '*' {
				// "**/" spans zero or more directories, so "a/**/b.md"
				// also matches "a/b.md".
				if i+2 < len(runes) && runes[i+2] == '/' {
					b.WriteString("(?:.*/)?")
					i += 2
				} else {
					b.WriteString(".*")
					i++
				}
				continue
			}
			b.WriteString("[^/]*")
			continue
		}
		if ch == '?' {
			b.WriteString(".")
			continue
		}
		b.WriteString(regexp.QuoteMeta(string(ch)))
	}
	b.WriteString("$")
	return b.String()
}
