package config

import (
	"os"
	"path/filepath"
	"testing"
)

func tempStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	return OpenPath(path), path
}

func TestAPIKey_SetGetRemove(t *testing.T) {
	s, path := tempStore(t)

	if got := s.APIKey("openrouter"); got != "" {
		t.Errorf("fresh store returned key %q, want empty", got)
	}

	if err := s.SetAPIKey("sk-test-123", "openrouter"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	if got := s.APIKey("openrouter"); got != "sk-test-123" {
		t.Errorf("APIKey = %q, want sk-test-123", got)
	}

	// The key must survive a reopen of the same file.
	reopened := OpenPath(path)
	if got := reopened.APIKey("openrouter"); got != "sk-test-123" {
		t.Errorf("reopened APIKey = %q, want sk-test-123", got)
	}

	if err := s.RemoveAPIKey("openrouter"); err != nil {
		t.Fatalf("RemoveAPIKey failed: %v", err)
	}
	if got := s.APIKey("openrouter"); got != "" {
		t.Errorf("removed key still present: %q", got)
	}
	if err := s.RemoveAPIKey("openrouter"); err != nil {
		t.Errorf("removing an absent key should be a no-op, got %v", err)
	}
}

func TestAPIKey_DefaultProvider(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.SetAPIKey("sk-default", ""); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	if got := s.APIKey(""); got != "sk-default" {
		t.Errorf("empty provider should map to %s, got key %q", DefaultProvider, got)
	}
	if got := s.APIKey(DefaultProvider); got != "sk-default" {
		t.Errorf("APIKey(%s) = %q", DefaultProvider, got)
	}
}

func TestAPIKey_EnvOverridesFile(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.SetAPIKey("sk-from-file", "openrouter"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}

	t.Setenv("OPENROUTER_API_KEY", "sk-from-env")
	if got := s.APIKey("openrouter"); got != "sk-from-env" {
		t.Errorf("APIKey = %q, environment must win over the file", got)
	}
}

func TestOpenPath_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("{{not yaml"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	s := OpenPath(path)
	if got := s.APIKey("openrouter"); got != "" {
		t.Errorf("malformed file should yield an empty store, got key %q", got)
	}
}

func TestSettings(t *testing.T) {
	s, path := tempStore(t)

	if err := s.SetSetting("default_model", "test/model"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	v, ok := s.Setting("default_model")
	if !ok || v != "test/model" {
		t.Errorf("Setting = %v (ok=%v)", v, ok)
	}

	reopened := OpenPath(path)
	if v, ok := reopened.Setting("default_model"); !ok || v != "test/model" {
		t.Errorf("reopened Setting = %v (ok=%v)", v, ok)
	}

	all := s.Settings()
	if len(all) != 1 {
		t.Errorf("Settings() has %d entries, want 1", len(all))
	}
	all["default_model"] = "mutated"
	if v, _ := s.Setting("default_model"); v != "test/model" {
		t.Error("Settings() must return a copy")
	}
}

func TestClearAll(t *testing.T) {
	s, _ := tempStore(t)
	if err := s.SetAPIKey("sk-x", "openrouter"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}
	if err := s.SetSetting("k", "v"); err != nil {
		t.Fatalf("SetSetting failed: %v", err)
	}
	if err := s.ClearAll(); err != nil {
		t.Fatalf("ClearAll failed: %v", err)
	}
	if s.APIKey("openrouter") != "" || len(s.Settings()) != 0 {
		t.Error("ClearAll left data behind")
	}
}
