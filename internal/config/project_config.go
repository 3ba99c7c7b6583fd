package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ProjectConfig is the on-disk `rumm.yaml` project configuration:
// search paths for `.rmm` scripts, the statement
// database file a script's proofs run against, and where trace exports
// are written.
type ProjectConfig struct {
	ScriptPaths []string `yaml:"script_paths"`
	Database    string   `yaml:"database"`
	TraceDir    string   `yaml:"trace_dir"`
}

// DefaultProjectConfig returns the configuration used when no rumm.yaml
// is present.
func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		ScriptPaths: []string{"."},
		Database:    "rumm.db",
		TraceDir:    "trace",
	}
}

// LoadProjectConfig reads and parses a rumm.yaml file at path. A missing
// file is not an error: callers get DefaultProjectConfig back unchanged.
func LoadProjectConfig(path string) (ProjectConfig, error) {
	cfg := DefaultProjectConfig()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return ProjectConfig{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return ProjectConfig{}, err
	}
	return cfg, nil
}
