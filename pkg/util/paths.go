package util

import (
	"path/filepath"
	"strings"
)

// SafeFilePath cleans a relative path and reports whether it stays
// inside the current directory. Empty paths, absolute paths, backslash
// separators, and paths that still escape via ".." after cleaning are
// rejected.
func SafeFilePath(path string) (string, bool) {
	cleaned, ok := SafeFilePathAllowAbsolute(path)
	if !ok || filepath.IsAbs(cleaned) {
		return "", false
	}
	return cleaned, true
}

// SafeFilePathAllowAbsolute is SafeFilePath for call sites where an
// absolute path is acceptable. Relative paths must still not escape
// upward after cleaning.
func SafeFilePathAllowAbsolute(path string) (string, bool) {
	if path == "" || strings.ContainsRune(path, '\\') {
		return "", false
	}
	cleaned := filepath.Clean(path)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", false
	}
	return cleaned, true
}
