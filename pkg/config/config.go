// Package config persists API keys and settings under ~/.symboval. An
// environment variable named <PROVIDER>_API_KEY always takes priority over
// the stored file, and an absent key is a normal condition, not an error.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultProvider is the provider keys default to
const DefaultProvider = "openrouter"

const (
	configDirName  = ".symboval"
	configFileName = "config.yaml"
)

// fileData is the on-disk schema of the config file
type fileData struct {
	APIKeys  map[string]string      `yaml:"api_keys,omitempty"`
	Settings map[string]interface{} `yaml:"settings,omitempty"`
}

// Store is a process-local persisted key/value store. Every mutation is
// written back to the backing file immediately.
type Store struct {
	path   string
	data   fileData
	logger *slog.Logger
}

// Open loads the store from the default location (~/.symboval/config.yaml).
// A missing or unreadable file yields an empty store with a logged warning.
func Open() *Store {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return OpenPath(filepath.Join(home, configDirName, configFileName))
}

// OpenPath loads the store backed by the given file
func OpenPath(path string) *Store {
	s := &Store{
		path:   path,
		logger: slog.Default().With("component", "config"),
	}
	s.load()
	return s
}

func (s *Store) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read config file", "path", s.path, "error", err)
		}
		return
	}
	if err := yaml.Unmarshal(raw, &s.data); err != nil {
		s.logger.Warn("failed to parse config file", "path", s.path, "error", err)
		s.data = fileData{}
	}
}

func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	raw, err := yaml.Marshal(s.data)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(s.path, raw, 0o600); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// APIKey returns the key for a provider, consulting the environment variable
// <PROVIDER>_API_KEY first and the stored file second. An empty string means
// no key is configured.
func (s *Store) APIKey(provider string) string {
	if provider == "" {
		provider = DefaultProvider
	}
	envVar := strings.ToUpper(provider) + "_API_KEY"
	if key := os.Getenv(envVar); key != "" {
		return key
	}
	return s.data.APIKeys[provider]
}

// SetAPIKey stores the key for a provider
func (s *Store) SetAPIKey(apiKey, provider string) error {
	if provider == "" {
		provider = DefaultProvider
	}
	if s.data.APIKeys == nil {
		s.data.APIKeys = make(map[string]string)
	}
	s.data.APIKeys[provider] = apiKey
	return s.save()
}

// RemoveAPIKey deletes the stored key for a provider
func (s *Store) RemoveAPIKey(provider string) error {
	if provider == "" {
		provider = DefaultProvider
	}
	if _, ok := s.data.APIKeys[provider]; !ok {
		return nil
	}
	delete(s.data.APIKeys, provider)
	return s.save()
}

// Setting returns a stored setting value
func (s *Store) Setting(key string) (interface{}, bool) {
	v, ok := s.data.Settings[key]
	return v, ok
}

// SetSetting stores a setting value
func (s *Store) SetSetting(key string, value interface{}) error {
	if s.data.Settings == nil {
		s.data.Settings = make(map[string]interface{})
	}
	s.data.Settings[key] = value
	return s.save()
}

// Settings returns a copy of all stored settings, excluding API keys
func (s *Store) Settings() map[string]interface{} {
	out := make(map[string]interface{}, len(s.data.Settings))
	for k, v := range s.data.Settings {
		out[k] = v
	}
	return out
}

// ClearAll wipes the whole store
func (s *Store) ClearAll() error {
	s.data = fileData{}
	return s.save()
}

var (
	defaultStore     *Store
	defaultStoreOnce sync.Once
)

func getDefaultStore() *Store {
	defaultStoreOnce.Do(func() {
		defaultStore = Open()
	})
	return defaultStore
}

// GetAPIKey returns the key for a provider from the default store
func GetAPIKey(provider string) string {
	return getDefaultStore().APIKey(provider)
}

// SetAPIKey stores the key for a provider in the default store
func SetAPIKey(apiKey, provider string) error {
	return getDefaultStore().SetAPIKey(apiKey, provider)
}

// RemoveAPIKey deletes the key for a provider from the default store
func RemoveAPIKey(provider string) error {
	return getDefaultStore().RemoveAPIKey(provider)
}
