package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// GlobalConfig represents user-level configuration at ~/.config/refdesk/config.yml.
type GlobalConfig struct {
	ScholarAPIKey  string  `yaml:"scholar_api_key,omitempty"`  // Scholar provider API key (env SCHOLAR_API_KEY wins)
	ScholarBaseURL string  `yaml:"scholar_base_url,omitempty"` // Override for the scholar API endpoint
	MinConfidence  float64 `yaml:"min_confidence,omitempty"`   // Default confidence floor for auto-add
	MaxSuggestions int     `yaml:"max_suggestions,omitempty"`  // Default suggestion list size
}

var (
	globalConfig       *GlobalConfig
	globalConfigLoaded bool
)

// GlobalConfigPath returns the path to the global config file.
func GlobalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", "refdesk", "config.yml"), nil
}

// LoadGlobalConfig reads the global config file, caching the result.
// A missing file is not an error; it yields an empty config.
func LoadGlobalConfig() (*GlobalConfig, error) {
	if globalConfigLoaded {
		return globalConfig, nil
	}

	path, err := GlobalConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		globalConfig = &GlobalConfig{}
		globalConfigLoaded = true
		return globalConfig, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading global config: %w", err)
	}

	var cfg GlobalConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing global config: %w", err)
	}

	globalConfig = &cfg
	globalConfigLoaded = true
	return globalConfig, nil
}

// SaveGlobalConfig writes the global config file, creating the directory if needed.
func SaveGlobalConfig(cfg *GlobalConfig) error {
	path, err := GlobalConfigPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding global config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing global config: %w", err)
	}

	globalConfig = cfg
	globalConfigLoaded = true
	return nil
}

// ResetGlobalConfigCache clears the cached global config. Used in tests.
func ResetGlobalConfigCache() {
	globalConfig = nil
	globalConfigLoaded = false
}

// GetScholarAPIKey returns the scholar API key, preferring the environment.
func GetScholarAPIKey() string {
	if key := os.Getenv("SCHOLAR_API_KEY"); key != "" {
		return key
	}
	cfg, err := LoadGlobalConfig()
	if err != nil {
		return ""
	}
	return cfg.ScholarAPIKey
}

// HelpfulConfigMessage explains how to configure the scholar API key.
func HelpfulConfigMessage() string {
	path, err := GlobalConfigPath()
	if err != nil {
		path = "~/.config/refdesk/config.yml"
	}
	return fmt.Sprintf(`No scholar API key configured. Requests run unauthenticated at a lower rate limit.

To configure a key, either:
  - set the SCHOLAR_API_KEY environment variable (a .env file works too), or
  - add "scholar_api_key: <key>" to %s`, path)
}
