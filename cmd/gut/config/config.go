// Package config loads the gutcheck client configuration: where the backend
// and the identity service live, plus UI preferences. Values come from
// ~/.gutcheck/config.yaml and may be overridden by environment variables.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds user preferences and service endpoints.
type Config struct {
	// APIBaseURL is the gut health backend.
	APIBaseURL string `yaml:"api_base_url"`
	// IdentityURL is the identity service's auth endpoint.
	IdentityURL string `yaml:"identity_url"`
	// IdentityKey is the identity service's public API key.
	IdentityKey string `yaml:"identity_key"`
	// Theme is "light" or "dark".
	Theme string `yaml:"theme"`
	// OAuthCallbackPort is the local listener port for OAuth sign-in.
	OAuthCallbackPort int `yaml:"oauth_callback_port"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		APIBaseURL:        "http://127.0.0.1:8000",
		Theme:             "light",
		OAuthCallbackPort: 53121,
	}
}

// Dir returns the directory holding the config file and the persisted
// session.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".gutcheck"), nil
}

// File returns the full path to the config file.
func File() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the configuration, applying environment overrides last. A
// missing file yields the defaults.
func Load() (Config, error) {
	cfg := Default()

	path, err := File()
	if err != nil {
		return applyEnv(cfg), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return applyEnv(Default()), err
	}
	return applyEnv(cfg), nil
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	path, err := File()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func applyEnv(cfg Config) Config {
	if v := os.Getenv("GUTCHECK_API_BASE_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("GUTCHECK_IDENTITY_URL"); v != "" {
		cfg.IdentityURL = v
	}
	if v := os.Getenv("GUTCHECK_IDENTITY_KEY"); v != "" {
		cfg.IdentityKey = v
	}
	if v := os.Getenv("GUTCHECK_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("GUTCHECK_OAUTH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.OAuthCallbackPort = port
		}
	}
	return cfg
}
