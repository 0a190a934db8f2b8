package voice

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/vmihailenco/msgpack/v5"
)

// Files written into a persisted voice profile directory.
const (
	// ConfigFile holds the human-readable profile metadata.
	ConfigFile = "config.json"
	// EmbeddingFile is the binary sidecar holding the speaker embedding.
	// Embeddings are large fixed-size blobs, so they live next to the
	// JSON document rather than inline in it.
	EmbeddingFile = "embedding.bin"
	// SampleFile is the normalized speaker sample a cloned voice was
	// derived from.
	SampleFile = "sample.wav"
)

// ErrNotFound is returned by LoadDir when a directory holds no voice
// config document.
var ErrNotFound = errors.New("voice: config not found")

// embeddingSidecar is the msgpack-encoded layout of EmbeddingFile.
type embeddingSidecar struct {
	Dim  int       `msgpack:"dim"`
	Data []float32 `msgpack:"data"`
}

// SaveDir persists the config into dir as ConfigFile, plus an
// EmbeddingFile sidecar when the config carries an embedding. The
// directory is created if needed.
func (c *Config) SaveDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("voice: save %s: %w", c.Name, err)
	}

	doc, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("voice: encode %s: %w", c.Name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), doc, 0o644); err != nil {
		return fmt.Errorf("voice: save %s: %w", c.Name, err)
	}

	if len(c.Embedding) == 0 {
		return nil
	}
	sidecar, err := msgpack.Marshal(&embeddingSidecar{
		Dim:  len(c.Embedding),
		Data: c.Embedding,
	})
	if err != nil {
		return fmt.Errorf("voice: encode embedding for %s: %w", c.Name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, EmbeddingFile), sidecar, 0o644); err != nil {
		return fmt.Errorf("voice: save embedding for %s: %w", c.Name, err)
	}
	return nil
}

// LoadDir reconstructs a Config (embedding included) from a previously
// persisted voice directory. Returns ErrNotFound when the config document
// is absent.
func LoadDir(dir string) (*Config, error) {
	doc, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dir)
		}
		return nil, fmt.Errorf("voice: load %s: %w", dir, err)
	}

	var cfg Config
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("voice: parse %s: %w", filepath.Join(dir, ConfigFile), err)
	}

	raw, err := os.ReadFile(filepath.Join(dir, EmbeddingFile))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("voice: load embedding %s: %w", dir, err)
		}
	} else {
		var sidecar embeddingSidecar
		if err := msgpack.Unmarshal(raw, &sidecar); err != nil {
			return nil, fmt.Errorf("voice: parse embedding %s: %w", dir, err)
		}
		if sidecar.Dim != len(sidecar.Data) {
			return nil, fmt.Errorf("voice: embedding sidecar %s: dim %d != %d values",
				dir, sidecar.Dim, len(sidecar.Data))
		}
		cfg.Embedding = sidecar.Data
	}

	// A profile restored onto another machine still carries the sample
	// path from the machine it was cloned on. When the sample sits next
	// to the config document, the local copy wins.
	if cfg.IsCloned {
		if local := filepath.Join(dir, SampleFile); fileExists(local) {
			if abs, err := filepath.Abs(local); err == nil {
				local = abs
			}
			cfg.VoiceSamplePath = local
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("voice: load %s: %w", dir, err)
	}
	return &cfg, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
