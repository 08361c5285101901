// Package config loads the server settings: where documents live, which
// session-context backend to use, and an optional sections catalog
// override. Settings come from defaults, then an optional config.yaml
// in the data directory, then environment variables — later sources
// win.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Environment variable names.
const (
	EnvDocsDir        = "VISION_DOCS_DIR"
	EnvDataDir        = "VISION_DATA_DIR"
	EnvContextBackend = "VISION_CONTEXT_BACKEND"
	EnvRedisURL       = "VISION_REDIS_URL"
	EnvSectionsFile   = "VISION_SECTIONS_FILE"
)

// Settings holds the server configuration.
type Settings struct {
	// DocsDir is the storage root for vision documents.
	DocsDir string `yaml:"docs_dir"`
	// DataDir holds server-owned state (sqlite databases, config.yaml).
	DataDir string `yaml:"data_dir"`
	// ContextBackend selects the session-context store: memory, redis, sqlite.
	ContextBackend string `yaml:"context_backend"`
	// RedisURL is the Redis connection string for the redis backend.
	RedisURL string `yaml:"redis_url"`
	// SectionsFile optionally points at a YAML section catalog that
	// replaces the built-in one.
	SectionsFile string `yaml:"sections_file"`
}

// Default returns the baseline settings.
func Default() Settings {
	home, _ := os.UserHomeDir()
	return Settings{
		DocsDir:        "vision-docs",
		DataDir:        filepath.Join(home, ".vision-mcp"),
		ContextBackend: "memory",
	}
}

// Load resolves the effective settings: defaults, overlaid with the
// data dir's config.yaml if present, overlaid with environment
// variables. A missing config file is not an error.
func Load() (Settings, error) {
	s := Default()

	// The data dir itself may be moved by env before we look for the
	// config file inside it.
	if v := os.Getenv(EnvDataDir); v != "" {
		s.DataDir = v
	}

	path := filepath.Join(s.DataDir, "config.yaml")
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return Settings{}, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// no config file — defaults + env only
	default:
		return Settings{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if v := os.Getenv(EnvDocsDir); v != "" {
		s.DocsDir = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		s.DataDir = v
	}
	if v := os.Getenv(EnvContextBackend); v != "" {
		s.ContextBackend = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		s.RedisURL = v
	}
	if v := os.Getenv(EnvSectionsFile); v != "" {
		s.SectionsFile = v
	}

	return s, nil
}
