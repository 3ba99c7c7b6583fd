// Package config holds package-level constants describing rumm's script
// language surface, plus an on-disk project config (rumm.yaml, see
// project_config.go).
package config

// Version is the current rumm version.
// Set at build time by a release script via -ldflags, or left at this
// default for development builds.
var Version = "0.1.0"

// SourceFileExtensions are all recognized script extensions; TrimSourceExt
// and HasSourceExt check against all of them so a Loader accepts either
// form interchangeably.
var SourceFileExtensions = []string{".rmm", ".rumm"}

// TrimSourceExt removes any recognized source extension from a filename.
// Returns the original string if no extension matches.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt returns true if the path ends with any recognized source
// extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}
