// Package cliutil holds the voiced CLI's configuration, paths, and
// terminal output helpers.
//
// Configuration lives at ~/.clerviq/voiced/config.yaml. Every field has
// a working default, so a missing file is not an error.
package cliutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

const (
	// DefaultBaseDir is the dot-directory under the user's home.
	DefaultBaseDir = ".clerviq"
	// AppName is the per-app subdirectory.
	AppName = "voiced"
	// DefaultConfigFile is the configuration filename.
	DefaultConfigFile = "config.yaml"
)

// Config is the on-disk CLI configuration.
type Config struct {
	// VoicesDir is where client registrations and voice profiles live.
	VoicesDir string `yaml:"voices_dir,omitempty"`

	// CacheDir is the synthesized-utterance cache location. Empty
	// disables the on-disk cache.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// Runner configures the primary synthesis backend.
	Runner RunnerConfig `yaml:"runner,omitempty"`

	// Archive configures the optional S3 voice archive.
	Archive ArchiveConfig `yaml:"archive,omitempty"`

	// configPath remembers where the config was loaded from.
	configPath string
}

// RunnerConfig locates the external model runner.
type RunnerConfig struct {
	Binary    string `yaml:"binary,omitempty"`
	ModelPath string `yaml:"model_path,omitempty"`
}

// ArchiveConfig describes the S3 bucket voice profiles archive to.
type ArchiveConfig struct {
	Bucket string `yaml:"bucket,omitempty"`
	Prefix string `yaml:"prefix,omitempty"`
	Region string `yaml:"region,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() (*Config, error) {
	p, err := NewPaths()
	if err != nil {
		return nil, err
	}
	return &Config{
		VoicesDir:  p.DataPath("voices"),
		CacheDir:   p.CachePath("utterances"),
		configPath: p.ConfigFile(),
	}, nil
}

// LoadConfig reads the config file, falling back to defaults for a
// missing file and for any unset field.
func LoadConfig() (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	return loadConfigFrom(cfg, cfg.configPath)
}

// LoadConfigFile reads configuration from an explicit path.
func LoadConfigFile(path string) (*Config, error) {
	cfg, err := DefaultConfig()
	if err != nil {
		return nil, err
	}
	cfg.configPath = path
	return loadConfigFrom(cfg, path)
}

func loadConfigFrom(cfg *Config, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("cliutil: read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cliutil: parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration back to its file, creating parent
// directories as needed.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.New("cliutil: config has no path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("cliutil: encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.configPath, data, 0o644)
}

// Path returns where the config was loaded from or will be saved to.
func (c *Config) Path() string { return c.configPath }
