package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Version       int           `toml:"version"`
	Workspace     string        `toml:"workspace"`
	Root          string        `toml:"root"`
	Output        string        `toml:"output"`
	Closure       Closure       `toml:"closure"`
	Exclude       Exclude       `toml:"exclude"`
	Watch         Watch         `toml:"watch"`
	History       History       `toml:"history"`
	Observability Observability `toml:"observability"`
}

type Closure struct {
	Policy         string `toml:"policy"` // wide or narrow
	EntryOperation string `toml:"entry_operation"`
	ScaffoldClass  string `toml:"scaffold_class"`
}

type Exclude struct {
	Dirs  []string `toml:"dirs"`
	Files []string `toml:"files"`
}

type Watch struct {
	Debounce        time.Duration `toml:"debounce"`
	RebundlesPerSec float64       `toml:"rebundles_per_second"`
	RebundleBurst   int           `toml:"rebundle_burst"`
}

type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

type Observability struct {
	MetricsAddr  string `toml:"metrics_addr"`  // empty disables the /metrics listener
	OTLPEndpoint string `toml:"otlp_endpoint"` // empty disables trace export
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a usable config without a file on disk; CLI flags fill in
// the workspace, root and output.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func ApplyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if strings.TrimSpace(cfg.Workspace) == "" {
		cfg.Workspace = "."
	}
	if strings.TrimSpace(cfg.Output) == "" {
		cfg.Output = "Main.java"
	}
	if strings.TrimSpace(cfg.Closure.Policy) == "" {
		cfg.Closure.Policy = "wide"
	}
	if strings.TrimSpace(cfg.Closure.EntryOperation) == "" {
		cfg.Closure.EntryOperation = "solve"
	}
	if strings.TrimSpace(cfg.Closure.ScaffoldClass) == "" {
		cfg.Closure.ScaffoldClass = "Main"
	}
	if len(cfg.Exclude.Dirs) == 0 {
		cfg.Exclude.Dirs = []string{".git", "target", "build", "out"}
	}
	if cfg.Watch.Debounce <= 0 {
		cfg.Watch.Debounce = 300 * time.Millisecond
	}
	if cfg.Watch.RebundlesPerSec <= 0 {
		cfg.Watch.RebundlesPerSec = 2
	}
	if cfg.Watch.RebundleBurst <= 0 {
		cfg.Watch.RebundleBurst = 1
	}
	if cfg.History.Enabled && strings.TrimSpace(cfg.History.Path) == "" {
		cfg.History.Path = "onefile-runs.db"
	}
}

func Validate(cfg *Config) error {
	if cfg.Version != 1 {
		return fmt.Errorf("unsupported config version %d", cfg.Version)
	}
	switch cfg.Closure.Policy {
	case "wide", "narrow":
	default:
		return fmt.Errorf("closure.policy must be wide or narrow, got %q", cfg.Closure.Policy)
	}
	if !isIdentifier(cfg.Closure.EntryOperation) {
		return fmt.Errorf("closure.entry_operation %q is not a valid identifier", cfg.Closure.EntryOperation)
	}
	if !isIdentifier(cfg.Closure.ScaffoldClass) {
		return fmt.Errorf("closure.scaffold_class %q is not a valid identifier", cfg.Closure.ScaffoldClass)
	}
	return nil
}

func isIdentifier(value string) bool {
	if value == "" {
		return false
	}
	for i, r := range value {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
