// Package clone turns an arbitrary speaker recording into a reusable,
// named voice profile: a normalized sample, a speaker embedding, and a
// voice config document persisted together in one directory.
package clone

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/clerviq/voiced/pkg/audio/pcm"
	"github.com/clerviq/voiced/pkg/audio/resampler"
	"github.com/clerviq/voiced/pkg/audio/wav"
	"github.com/clerviq/voiced/pkg/voice"
	"github.com/clerviq/voiced/pkg/voiceprint"
)

var (
	// ErrAudioNotFound is returned when the input recording does not exist.
	ErrAudioNotFound = errors.New("clone: audio file not found")
	// ErrExists is returned when the target voice directory already holds
	// a profile.
	ErrExists = errors.New("clone: voice already exists")
)

// SampleFormat is the canonical format cloned samples are stored in.
const SampleFormat = pcm.L16Mono22K05

const (
	// minSampleDuration is the shortest recording that clones without a
	// quality warning.
	minSampleDuration = 10 * time.Second
	// maxSampleDuration bounds the retained audio. Longer recordings are
	// truncated to their first maxSampleDuration: later content adds no
	// cloning benefit while extraction cost grows with length.
	maxSampleDuration = 60 * time.Second
)

// Engine clones voices from audio recordings.
//
// The engine itself is stateless apart from its extractor and is safe for
// concurrent use; each clone operation works in its own staging directory.
type Engine struct {
	extractor voiceprint.Extractor
}

// New creates a cloning engine around the given embedding extractor.
func New(extractor voiceprint.Extractor) *Engine {
	return &Engine{extractor: extractor}
}

// CloneFromFile derives a named voice profile from the recording at
// audioPath and persists it under outputDir/<voice_name>.
//
// The recording is downmixed to mono, resampled to the canonical rate,
// and peak-normalized before embedding extraction. Recordings shorter
// than ~10s clone with a logged quality warning; recordings longer than
// 60s are truncated to their first 60 seconds.
//
// The profile directory is staged and renamed into place, so a failed
// clone leaves no discoverable partial profile.
func (e *Engine) CloneFromFile(ctx context.Context, audioPath, voiceName string, gender voice.Gender, accent voice.Accent, outputDir string) (*voice.Config, error) {
	if strings.TrimSpace(voiceName) == "" {
		return nil, fmt.Errorf("%w: empty voice name", voice.ErrInvalid)
	}
	if !gender.Valid() {
		return nil, fmt.Errorf("%w: unknown gender %q", voice.ErrInvalid, string(gender))
	}
	if !accent.Valid() {
		return nil, fmt.Errorf("%w: unknown accent %q", voice.ErrInvalid, string(accent))
	}
	if _, err := os.Stat(audioPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrAudioNotFound, audioPath)
		}
		return nil, fmt.Errorf("clone: stat %s: %w", audioPath, err)
	}

	samples, err := e.loadSample(audioPath, voiceName)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	embedding, err := e.extractor.Extract(samples, SampleFormat.SampleRate())
	if err != nil {
		return nil, fmt.Errorf("clone: extract embedding for %q: %w", voiceName, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	finalDir, err := filepath.Abs(filepath.Join(outputDir, strings.ReplaceAll(voiceName, " ", "_")))
	if err != nil {
		return nil, fmt.Errorf("clone: resolve output dir: %w", err)
	}
	if _, err := os.Stat(filepath.Join(finalDir, voice.ConfigFile)); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrExists, finalDir)
	}

	cfg := &voice.Config{
		Name:            voiceName,
		Gender:          gender,
		Accent:          accent,
		Emotion:         voice.EmotionNeutral,
		Speed:           1.0,
		Energy:          1.0,
		IsCloned:        true,
		VoiceSamplePath: filepath.Join(finalDir, voice.SampleFile),
		Fingerprint:     voiceprint.Fingerprint(embedding),
		Embedding:       embedding,
	}

	if err := e.persist(cfg, samples, finalDir); err != nil {
		return nil, err
	}

	slog.Info("clone: voice profile created",
		"voice", voiceName,
		"dir", finalDir,
		"fingerprint", cfg.Fingerprint,
		"duration", SampleFormat.Duration(int64(len(samples))))
	return cfg, nil
}

// loadSample decodes, downmixes, resamples, normalizes, and bounds the
// input recording.
func (e *Engine) loadSample(audioPath, voiceName string) ([]float32, error) {
	audio, err := wav.DecodeFile(audioPath)
	if err != nil {
		return nil, fmt.Errorf("clone: decode %s: %w", audioPath, err)
	}

	samples, err := resampler.Resample(audio.Mono(), audio.SampleRate, SampleFormat.SampleRate())
	if err != nil {
		return nil, fmt.Errorf("clone: resample %s: %w", audioPath, err)
	}
	samples = pcm.Normalize(samples)

	duration := SampleFormat.Duration(int64(len(samples)))
	switch {
	case duration < minSampleDuration:
		slog.Warn("clone: sample shorter than recommended, quality may suffer",
			"voice", voiceName, "duration", duration, "recommended", minSampleDuration)
	case duration > maxSampleDuration:
		slog.Warn("clone: sample too long, keeping the first 60 seconds",
			"voice", voiceName, "duration", duration)
		samples = samples[:SampleFormat.SamplesInDuration(maxSampleDuration)]
	}
	return samples, nil
}

// persist stages the sample, config document, and embedding sidecar in a
// temporary directory, then renames it into place.
func (e *Engine) persist(cfg *voice.Config, samples []float32, finalDir string) error {
	parent := filepath.Dir(finalDir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("clone: create %s: %w", parent, err)
	}

	staging := filepath.Join(parent, ".staging-"+uuid.NewString())
	cleanup := func() { os.RemoveAll(staging) }

	if err := wav.EncodeFile(filepath.Join(staging, voice.SampleFile), samples, SampleFormat); err != nil {
		cleanup()
		return fmt.Errorf("clone: write sample: %w", err)
	}
	if err := cfg.SaveDir(staging); err != nil {
		cleanup()
		return err
	}
	if err := os.Rename(staging, finalDir); err != nil {
		cleanup()
		return fmt.Errorf("clone: finalize %s: %w", finalDir, err)
	}
	return nil
}

// LoadVoice reconstructs a previously cloned voice (embedding included)
// from its profile directory. Returns voice.ErrNotFound when the config
// document is absent.
func LoadVoice(voiceDir string) (*voice.Config, error) {
	return voice.LoadDir(voiceDir)
}
