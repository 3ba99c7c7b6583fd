// Package utils holds small path-resolution helpers shared by the script
// loader and CLI.
package utils

import (
	"path/filepath"

	"github.com/funvibe/rumm/internal/config"
)

// ResolveLoadPath resolves a `load "path"` argument relative to the
// directory of the including file. Absolute paths pass through untouched.
func ResolveLoadPath(baseDir, loadPath string) string {
	if filepath.IsAbs(loadPath) || baseDir == "" {
		return loadPath
	}
	return filepath.Join(baseDir, loadPath)
}

// ExtractModuleName derives a display name from a script path: the base
// filename with any recognized source extension trimmed.
func ExtractModuleName(path string) string {
	name := filepath.Base(path)
	return config.TrimSourceExt(name)
}

// ModuleDir returns the directory that relative `load` paths are resolved
// against: the file's own directory if path ends in a recognized source
// extension, or path itself otherwise.
func ModuleDir(path string) string {
	if config.HasSourceExt(path) {
		return filepath.Dir(path)
	}
	return path
}
