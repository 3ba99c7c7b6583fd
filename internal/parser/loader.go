package parser

import (
	"os"
	"path/filepath"

	"github.com/funvibe/rumm/internal/database"
	"github.com/funvibe/rumm/internal/rerrors"
	"github.com/funvibe/rumm/internal/utils"
)

// Loader resolves a script's `load "file"` directives transitively,
// merging every loaded file's tactics/proofs into one combined Script in
// load order. Loads are resolved
// relative to the directory of the *including* file, then against any
// configured search paths, and a file cannot transitively load itself.
type Loader struct {
	db          database.Database
	searchPaths []string
	stack       []string // currently-open files, for the cycle guard
	visited     map[string]bool
}

// NewLoader builds a Loader that parses embedded formulas against db.
func NewLoader(db database.Database) *Loader {
	return &Loader{db: db, visited: make(map[string]bool)}
}

// WithSearchPaths sets the directories a relative `load` falls back to
// when the path does not exist next to the including file (the project
// config's script_paths).
func (l *Loader) WithSearchPaths(paths ...string) *Loader {
	l.searchPaths = paths
	return l
}

// Load reads path, parses it, and recursively loads every file its `load`
// directives name, merging results in depth-first, load-order sequence.
func (l *Loader) Load(path string) (*Script, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	for _, open := range l.stack {
		if open == abs {
			return nil, rerrors.NewCyclicLoadError(abs, l.stack)
		}
	}
	if l.visited[abs] {
		return &Script{}, nil
	}
	l.visited[abs] = true

	src, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}

	l.stack = append(l.stack, abs)
	defer func() { l.stack = l.stack[:len(l.stack)-1] }()

	p := New(string(src), abs, l.db)
	script, err := p.ParseScript()
	if err != nil {
		return nil, err
	}

	merged := &Script{Tactics: script.Tactics, Proofs: script.Proofs}
	baseDir := utils.ModuleDir(abs)
	for _, loadPath := range script.Loads {
		sub, err := l.Load(l.resolve(baseDir, loadPath))
		if err != nil {
			return nil, err
		}
		merged.Tactics = append(merged.Tactics, sub.Tactics...)
		merged.Proofs = append(merged.Proofs, sub.Proofs...)
	}
	return merged, nil
}

// resolve picks the on-disk path a `load` directive names: relative to
// the including file first, then each search path in order. When no
// candidate exists, the includer-relative path is returned so the Load
// call surfaces the original not-found error.
func (l *Loader) resolve(baseDir, loadPath string) string {
	resolved := utils.ResolveLoadPath(baseDir, loadPath)
	if filepath.IsAbs(loadPath) {
		return resolved
	}
	if _, err := os.Stat(resolved); err == nil {
		return resolved
	}
	for _, sp := range l.searchPaths {
		candidate := filepath.Join(sp, loadPath)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return resolved
}
