// Package pathutil converts between absolute and project-relative paths.
// The graph and every query result are keyed on relative paths; only the
// file-system boundary (walking, stat, read) deals in absolute ones.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to one relative to root, falling
// back to the original path if conversion fails, the path is already
// relative, or it falls outside root entirely.
func ToRelative(absPath, root string) string {
	if absPath == "" || root == "" {
		return absPath
	}
	if !filepath.IsAbs(absPath) {
		return filepath.ToSlash(absPath)
	}
	absPath = filepath.Clean(absPath)
	root = filepath.Clean(root)

	rel, err := filepath.Rel(root, absPath)
	if err != nil {
		return filepath.ToSlash(absPath)
	}
	if strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(absPath)
	}
	return filepath.ToSlash(rel)
}

// ToAbsolute joins a project-relative path back onto root.
func ToAbsolute(relPath, root string) string {
	if filepath.IsAbs(relPath) {
		return relPath
	}
	return filepath.Join(root, filepath.FromSlash(relPath))
}
