// Package config handles repository and global configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents repository configuration stored in .refdesk/config.json.
type Config struct {
	Backend             string  `json:"backend,omitempty"`              // Store backend: jsonl (default) or sqlite
	DefaultConversation string  `json:"default_conversation,omitempty"` // Conversation used when --conversation is omitted
	MinConfidence       float64 `json:"min_confidence,omitempty"`       // Confidence floor override (0 = default)
	DuplicateThreshold  float64 `json:"duplicate_threshold,omitempty"`  // Similarity threshold override (0 = default)
}

const (
	RefdeskDir = ".refdesk"
	ConfigFile = "config.json"
	RefsFile   = "refs.jsonl"
	CacheDir   = "cache"
	DBFile     = "refs.db"
)

// ValidBackends lists the supported store backend values.
var ValidBackends = []string{"jsonl", "sqlite"}

// RefdeskPath returns the path to the .refdesk directory from a root path.
func RefdeskPath(root string) string {
	return filepath.Join(root, RefdeskDir)
}

// ConfigPath returns the path to config.json from a root path.
func ConfigPath(root string) string {
	return filepath.Join(root, RefdeskDir, ConfigFile)
}

// RefsPath returns the path to refs.jsonl from a root path.
func RefsPath(root string) string {
	return filepath.Join(root, RefdeskDir, RefsFile)
}

// CachePath returns the path to the cache directory from a root path.
func CachePath(root string) string {
	return filepath.Join(root, RefdeskDir, CacheDir)
}

// DBPath returns the path to refs.db from a root path.
func DBPath(root string) string {
	return filepath.Join(root, RefdeskDir, CacheDir, DBFile)
}

// IsRepository checks if the given path contains a refdesk repository.
func IsRepository(root string) bool {
	info, err := os.Stat(RefdeskPath(root))
	return err == nil && info.IsDir()
}

// FindRepository walks up from the given path to find a refdesk repository.
// Returns the repository root path or an error if not found.
func FindRepository(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	for {
		if IsRepository(abs) {
			return abs, nil
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			return "", fmt.Errorf("not in a refdesk repository (no .refdesk directory found)")
		}
		abs = parent
	}
}

// Load reads configuration from the repository at the given root.
func Load(root string) (*Config, error) {
	data, err := os.ReadFile(ConfigPath(root))
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save writes configuration to the repository at the given root.
func (c *Config) Save(root string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(ConfigPath(root), data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// ValidateBackend checks that the backend value is valid.
func ValidateBackend(backend string) error {
	if backend == "" {
		return nil // Empty defaults to "jsonl"
	}

	for _, valid := range ValidBackends {
		if backend == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid backend: %s (valid: %v)", backend, ValidBackends)
}

// ExpandTilde expands ~ to the user's home directory.
// Returns the original path unchanged if it doesn't start with ~.
func ExpandTilde(path string) string {
	if len(path) == 0 || path[0] != '~' {
		return path
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return path // Return original if we can't get home directory
	}

	return filepath.Join(home, path[1:])
}
