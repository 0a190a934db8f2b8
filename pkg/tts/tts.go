// Package tts orchestrates speech synthesis: backend selection with
// fallback, synthesis conditioned on preset or cloned voices, prosody
// post-processing, and WAV output.
package tts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/clerviq/voiced/pkg/audio/pcm"
	"github.com/clerviq/voiced/pkg/audio/prosody"
	"github.com/clerviq/voiced/pkg/audio/resampler"
	"github.com/clerviq/voiced/pkg/audio/wav"
	"github.com/clerviq/voiced/pkg/voice"
)

var (
	// ErrNoBackend is returned by every synthesis call when no usable
	// backend could be loaded.
	ErrNoBackend = errors.New("tts: no synthesis backend available")
	// ErrSynthesis wraps backend inference failures.
	ErrSynthesis = errors.New("tts: synthesis failed")
	// ErrTextTooLong is returned when the input exceeds MaxTextLen.
	ErrTextTooLong = errors.New("tts: text too long")
)

// OutputFormat is the format of all synthesized audio.
const OutputFormat = pcm.L16Mono22K05

const (
	// MaxTextLen bounds a single request so it cannot monopolize the
	// serialized inference path.
	MaxTextLen = 20000
	// chunkLen is the largest piece of text handed to a backend in one
	// inference call. Longer inputs are split at sentence boundaries and
	// synthesized chunk by chunk.
	chunkLen = 500
	// fallbackUtterance is spoken for empty input. Callers such as a
	// phone system must always produce some audio.
	fallbackUtterance = "I'm sorry, I didn't catch that."
)

// Backend renders text to audio. Implementations are not required to be
// safe for concurrent use; the engine serializes calls.
type Backend interface {
	// Name identifies the backend in logs and cache keys.
	Name() string

	// CanClone reports whether Synthesize honors speaker conditioning
	// from cloned voice configs.
	CanClone() bool

	// SampleRate is the native rate of returned samples.
	SampleRate() int

	// Synthesize renders text as mono samples in [-1, 1] at SampleRate.
	// cfg carries the voice identity: accent selects the language, and
	// for cloning-capable backends the sample path and embedding
	// condition the speaker.
	Synthesize(ctx context.Context, text string, cfg *voice.Config) ([]float32, error)

	// Close releases backend resources.
	Close() error
}

// Factory creates a Backend, probing its availability. A factory error
// means the backend cannot run in this process.
type Factory func() (Backend, error)

// Engine is the synthesis front end. It selects a backend once, on
// first use, trying each factory in order; if none loads, every call
// fails fast with ErrNoBackend wrapping the probe errors.
type Engine struct {
	factories []Factory
	cache     *Cache

	loadOnce sync.Once
	backend  Backend
	probeErr error

	// mu serializes backend inference. It is released between chunks so
	// long requests interleave with others.
	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache attaches a synthesized-utterance cache.
func WithCache(c *Cache) Option {
	return func(e *Engine) { e.cache = c }
}

// New creates an engine over the given backend factories, tried in
// order. New never fails; backend availability surfaces on first use.
func New(factories []Factory, opts ...Option) *Engine {
	e := &Engine{factories: factories}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// load probes the factories once and caches the outcome.
func (e *Engine) load() error {
	e.loadOnce.Do(func() {
		var probeErrs []error
		for _, f := range e.factories {
			b, err := f()
			if err != nil {
				probeErrs = append(probeErrs, err)
				continue
			}
			e.backend = b
			slog.Info("tts: backend loaded", "backend", b.Name(), "cloning", b.CanClone())
			return
		}
		e.probeErr = fmt.Errorf("%w: %w", ErrNoBackend, errors.Join(probeErrs...))
	})
	return e.probeErr
}

// Backend returns the loaded backend's name, or "" when none loaded.
func (e *Engine) Backend() string {
	if err := e.load(); err != nil {
		return ""
	}
	return e.backend.Name()
}

// CanClone reports whether the loaded backend honors cloned voices.
func (e *Engine) CanClone() bool {
	if err := e.load(); err != nil {
		return false
	}
	return e.backend.CanClone()
}

// Synthesize renders text with the given voice and returns samples in
// OutputFormat. When outputPath is non-empty the audio is also written
// there as a 16-bit PCM WAV file.
//
// Empty or whitespace text produces a short stock utterance rather than
// an error. Text longer than one inference chunk is synthesized in
// pieces and concatenated; text longer than MaxTextLen is rejected.
func (e *Engine) Synthesize(ctx context.Context, text string, cfg *voice.Config, outputPath string) ([]float32, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil voice config", voice.ErrInvalid)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := e.load(); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		slog.Warn("tts: empty text, speaking fallback utterance", "voice", cfg.Name)
		text = fallbackUtterance
	}
	if len(text) > MaxTextLen {
		return nil, fmt.Errorf("%w: %d chars, limit %d", ErrTextTooLong, len(text), MaxTextLen)
	}
	if cfg.IsCloned && !e.backend.CanClone() {
		slog.Warn("tts: backend cannot clone, using generic voice",
			"backend", e.backend.Name(), "voice", cfg.Name)
	}

	var samples []float32
	for _, chunk := range splitChunks(text, chunkLen) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		part, err := e.synthesizeChunk(ctx, chunk, cfg)
		if err != nil {
			return nil, err
		}
		samples = append(samples, part...)
	}

	samples, err := e.applyProsody(samples, cfg)
	if err != nil {
		return nil, err
	}

	if outputPath != "" {
		if err := wav.EncodeFile(outputPath, samples, OutputFormat); err != nil {
			return nil, fmt.Errorf("tts: write %s: %w", outputPath, err)
		}
		slog.Info("tts: audio written", "path", outputPath,
			"voice", cfg.Name, "chars", len(text),
			"duration", OutputFormat.Duration(int64(len(samples))))
	}
	return samples, nil
}

// synthesizeChunk renders one chunk through the cache and the serialized
// backend, normalized to OutputFormat's rate.
func (e *Engine) synthesizeChunk(ctx context.Context, chunk string, cfg *voice.Config) ([]float32, error) {
	if e.cache != nil {
		if samples, ok := e.cache.Get(ctx, e.backend.Name(), chunk, cfg); ok {
			return samples, nil
		}
	}

	e.mu.Lock()
	raw, err := e.backend.Synthesize(ctx, chunk, cfg)
	e.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%w: backend %s, voice %q, %d chars: %w",
			ErrSynthesis, e.backend.Name(), cfg.Name, len(chunk), err)
	}
	if err := ctx.Err(); err != nil {
		// Abandoned result; drop it without caching.
		return nil, err
	}

	samples := raw
	if e.backend.SampleRate() != OutputFormat.SampleRate() {
		samples, err = resampler.Resample(raw, e.backend.SampleRate(), OutputFormat.SampleRate())
		if err != nil {
			return nil, fmt.Errorf("%w: resample: %w", ErrSynthesis, err)
		}
	}

	if e.cache != nil {
		e.cache.Put(ctx, e.backend.Name(), chunk, cfg, samples)
	}
	return samples, nil
}

// applyProsody runs the post-synthesis transform chain: speed, then
// pitch, then energy. Steps at their neutral value are skipped, and a
// failing step is skipped with a warning rather than failing the whole
// synthesis.
func (e *Engine) applyProsody(samples []float32, cfg *voice.Config) ([]float32, error) {
	if cfg.Speed != 1.0 {
		out, err := prosody.TimeStretch(samples, cfg.Speed)
		if err != nil {
			slog.Warn("tts: speed adjustment skipped", "voice", cfg.Name, "speed", cfg.Speed, "err", err)
		} else {
			samples = out
		}
	}
	if cfg.PitchShift != 0 {
		out, err := prosody.PitchShift(samples, OutputFormat.SampleRate(), cfg.PitchShift)
		if err != nil {
			slog.Warn("tts: pitch adjustment skipped", "voice", cfg.Name, "semitones", cfg.PitchShift, "err", err)
		} else {
			samples = out
		}
	}
	if cfg.Energy != 1.0 {
		out, err := prosody.Gain(samples, cfg.Energy)
		if err != nil {
			slog.Warn("tts: energy adjustment skipped", "voice", cfg.Name, "energy", cfg.Energy, "err", err)
		} else {
			samples = out
		}
	}
	return samples, nil
}

// BatchResult reports the outcome of one item of a batch synthesis.
type BatchResult struct {
	Index int
	Text  string
	Path  string
	Err   error
}

// SynthesizeBatch renders each text into outputDir as speech_NNN.wav.
// Items fail independently: one bad input does not abort its siblings.
// Context cancellation stops the batch between items.
func (e *Engine) SynthesizeBatch(ctx context.Context, texts []string, cfg *voice.Config, outputDir string) ([]BatchResult, error) {
	results := make([]BatchResult, 0, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		path := filepath.Join(outputDir, fmt.Sprintf("speech_%03d.wav", i))
		_, err := e.Synthesize(ctx, text, cfg, path)
		if err != nil {
			slog.Warn("tts: batch item failed", "index", i, "chars", len(text), "err", err)
			results = append(results, BatchResult{Index: i, Text: text, Err: err})
			continue
		}
		results = append(results, BatchResult{Index: i, Text: text, Path: path})
	}
	return results, nil
}

// Close releases the backend if one was loaded.
func (e *Engine) Close() error {
	if e.backend != nil {
		return e.backend.Close()
	}
	return nil
}
