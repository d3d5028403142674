package config

import (
	"os"
	"path/filepath"
	"testing"
)

func initRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(RefdeskPath(root), 0755); err != nil {
		t.Fatalf("creating .refdesk: %v", err)
	}
	return root
}

func TestIsRepository(t *testing.T) {
	root := initRepo(t)
	if !IsRepository(root) {
		t.Error("IsRepository() = false for initialized directory")
	}
	if IsRepository(t.TempDir()) {
		t.Error("IsRepository() = true for empty directory")
	}
}

func TestFindRepository(t *testing.T) {
	root := initRepo(t)
	nested := filepath.Join(root, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("creating nested dirs: %v", err)
	}

	found, err := FindRepository(nested)
	if err != nil {
		t.Fatalf("FindRepository() error = %v", err)
	}
	if found != root {
		t.Errorf("FindRepository() = %q, want %q", found, root)
	}
}

func TestFindRepositoryNotFound(t *testing.T) {
	if _, err := FindRepository(t.TempDir()); err == nil {
		t.Error("FindRepository() succeeded outside any repository")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	root := initRepo(t)

	cfg := &Config{
		Backend:             "sqlite",
		DefaultConversation: "thesis-ch2",
		MinConfidence:       0.6,
		DuplicateThreshold:  0.9,
	}
	if err := cfg.Save(root); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("Load() = %+v, want %+v", loaded, cfg)
	}
}

func TestLoadMissingConfig(t *testing.T) {
	root := initRepo(t)
	if _, err := Load(root); err == nil {
		t.Error("Load() succeeded with no config.json")
	}
}

func TestValidateBackend(t *testing.T) {
	tests := []struct {
		backend string
		wantErr bool
	}{
		{"", false},
		{"jsonl", false},
		{"sqlite", false},
		{"postgres", true},
		{"JSONL", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			err := ValidateBackend(tt.backend)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateBackend(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
		})
	}
}

func TestGlobalConfigRoundTrip(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	// Missing file yields an empty config, not an error.
	cfg, err := LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() error = %v", err)
	}
	if cfg.ScholarAPIKey != "" {
		t.Errorf("empty config has key %q", cfg.ScholarAPIKey)
	}

	if err := SaveGlobalConfig(&GlobalConfig{ScholarAPIKey: "secret", MaxSuggestions: 10}); err != nil {
		t.Fatalf("SaveGlobalConfig() error = %v", err)
	}

	ResetGlobalConfigCache()
	cfg, err = LoadGlobalConfig()
	if err != nil {
		t.Fatalf("LoadGlobalConfig() after save error = %v", err)
	}
	if cfg.ScholarAPIKey != "secret" || cfg.MaxSuggestions != 10 {
		t.Errorf("LoadGlobalConfig() = %+v, want saved values", cfg)
	}
}

func TestGetScholarAPIKeyPrefersEnv(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	ResetGlobalConfigCache()
	t.Cleanup(ResetGlobalConfigCache)

	if err := SaveGlobalConfig(&GlobalConfig{ScholarAPIKey: "from-file"}); err != nil {
		t.Fatalf("SaveGlobalConfig() error = %v", err)
	}

	t.Setenv("SCHOLAR_API_KEY", "from-env")
	if got := GetScholarAPIKey(); got != "from-env" {
		t.Errorf("GetScholarAPIKey() = %q, want env value", got)
	}

	t.Setenv("SCHOLAR_API_KEY", "")
	if got := GetScholarAPIKey(); got != "from-file" {
		t.Errorf("GetScholarAPIKey() = %q, want file value", got)
	}
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}

	tests := []struct {
		input string
		want  string
	}{
		{"~/papers", filepath.Join(home, "papers")},
		{"/absolute/path", "/absolute/path"},
		{"relative/path", "relative/path"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ExpandTilde(tt.input); got != tt.want {
				t.Errorf("ExpandTilde(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
