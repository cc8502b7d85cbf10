// Package config loads the optional installer configuration from
// ~/.config/gosetup/config.yaml (overridable via GOSETUP_CONFIG). A
// default file is written on first use so the knobs are discoverable.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "GOSETUP_CONFIG"

// Config holds installer settings. Every field has a workable zero or
// hydrated default; the file is entirely optional.
type Config struct {
	// IndexURL overrides the upstream release index, e.g. for an
	// air-gapped mirror. Empty selects the official index.
	IndexURL string `yaml:"index_url"`
	// DefaultMode preselects the installation mode ("system" or "user").
	// Empty keeps the interactive prompt.
	DefaultMode string `yaml:"default_mode"`
	// VerifyGPG additionally checks the archive's detached GPG signature
	// when a keyring is configured.
	VerifyGPG bool `yaml:"verify_gpg"`
	// KeyringPath points at the PGP public keyring used for signature
	// verification.
	KeyringPath string `yaml:"keyring_path"`
}

// Loader reads config from disk.
type Loader struct {
	overridePath string
}

// NewLoader builds a loader. path overrides both the env var and the
// default location when non-empty.
func NewLoader(path string) *Loader {
	return &Loader{overridePath: path}
}

// Load reads the config file, writing defaults on first run.
func (l *Loader) Load() (Config, error) {
	path, err := l.resolvePath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := defaultConfig()
			if err := writeDefault(path, cfg); err != nil {
				return Config{}, err
			}
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

func (l *Loader) resolvePath() (string, error) {
	if l.overridePath != "" {
		return l.overridePath, nil
	}
	if custom := os.Getenv(EnvConfigPath); custom != "" {
		return custom, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gosetup", "config.yaml"), nil
}

func writeDefault(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, raw, 0600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func defaultConfig() Config {
	return Config{}
}
