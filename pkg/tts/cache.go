package tts

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"

	"github.com/clerviq/voiced/pkg/audio/pcm"
	"github.com/clerviq/voiced/pkg/kv"
	"github.com/clerviq/voiced/pkg/voice"
)

// Cache stores raw backend output keyed by speaker identity and text,
// so repeated phrases skip inference. Prosody is applied after the
// cache, which keeps one entry valid across prosody settings.
type Cache struct {
	store kv.Store
}

// NewCache wraps a kv store as an utterance cache.
func NewCache(store kv.Store) *Cache {
	return &Cache{store: store}
}

// cacheKey builds the hierarchical key for one chunk of text.
//
// The speaker segment is the voice fingerprint for cloned voices; for
// presets the backend chooses its speaker from accent and gender, so
// those form the identity and equivalent presets share entries.
func cacheKey(backend, chunk string, cfg *voice.Config) kv.Key {
	speaker := "preset-" + string(cfg.Accent) + "-" + string(cfg.Gender)
	if cfg.IsCloned {
		speaker = "clone-" + cfg.Fingerprint
	}
	sum := sha256.Sum256([]byte(backend + "\x00" + chunk))
	return kv.Key{"utt", speaker, hex.EncodeToString(sum[:])}
}

// Get returns cached samples for a chunk, or ok=false on a miss.
// Store failures count as misses.
func (c *Cache) Get(ctx context.Context, backend, chunk string, cfg *voice.Config) ([]float32, bool) {
	data, err := c.store.Get(ctx, cacheKey(backend, chunk, cfg))
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			slog.Warn("tts: utterance cache read failed", "err", err)
		}
		return nil, false
	}
	return pcm.BytesToFloats(data), true
}

// Put stores samples for a chunk. Failures are logged, not returned:
// a broken cache degrades to re-synthesis.
func (c *Cache) Put(ctx context.Context, backend, chunk string, cfg *voice.Config, samples []float32) {
	if err := c.store.Set(ctx, cacheKey(backend, chunk, cfg), pcm.FloatsToBytes(samples)); err != nil {
		slog.Warn("tts: utterance cache write failed", "err", err)
	}
}

// Purge removes all cached utterances for one speaker identity.
func (c *Cache) Purge(ctx context.Context, cfg *voice.Config) error {
	speaker := "preset-" + string(cfg.Accent) + "-" + string(cfg.Gender)
	if cfg.IsCloned {
		speaker = "clone-" + cfg.Fingerprint
	}
	for entry, err := range c.store.List(ctx, kv.Key{"utt", speaker}) {
		if err != nil {
			return err
		}
		if err := c.store.Delete(ctx, entry.Key); err != nil {
			return err
		}
	}
	return nil
}
