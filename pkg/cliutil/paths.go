package cliutil

import (
	"os"
	"path/filepath"
)

// Paths resolves the voiced directory layout under the user's home:
// ~/.clerviq/voiced/{config.yaml,cache/,data/,logs/}.
type Paths struct {
	HomeDir string
}

// NewPaths creates a Paths rooted at the user's home directory.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// AppDir returns ~/.clerviq/voiced.
func (p *Paths) AppDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir, AppName)
}

// ConfigFile returns ~/.clerviq/voiced/config.yaml.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.AppDir(), DefaultConfigFile)
}

// CachePath returns a path under ~/.clerviq/voiced/cache.
func (p *Paths) CachePath(name string) string {
	return filepath.Join(p.AppDir(), "cache", name)
}

// DataPath returns a path under ~/.clerviq/voiced/data.
func (p *Paths) DataPath(name string) string {
	return filepath.Join(p.AppDir(), "data", name)
}

// LogPath returns a path under ~/.clerviq/voiced/logs.
func (p *Paths) LogPath(name string) string {
	return filepath.Join(p.AppDir(), "logs", name)
}

// EnsureDir creates the directory holding path.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
