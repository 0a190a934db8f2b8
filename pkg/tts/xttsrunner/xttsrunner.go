// Package xttsrunner drives an external multilingual, cloning-capable
// synthesis model through its runner binary. The runner reads text on
// stdin and writes raw 16-bit PCM to stdout; speaker conditioning is
// passed as a reference recording.
package xttsrunner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	"github.com/clerviq/voiced/pkg/audio/pcm"
	"github.com/clerviq/voiced/pkg/tts"
	"github.com/clerviq/voiced/pkg/voice"
)

// DefaultBinary is the runner binary looked up on PATH when no explicit
// path is configured.
const DefaultBinary = "xtts-runner"

// runnerRate is the PCM rate the runner emits.
const runnerRate = 22050

// Config locates the runner and its model.
type Config struct {
	// Binary is the runner executable. Defaults to DefaultBinary,
	// resolved via PATH.
	Binary string
	// ModelPath is the model checkpoint directory. Required.
	ModelPath string
}

// Backend is a cloning-capable tts.Backend over the runner binary.
type Backend struct {
	binary    string
	modelPath string
}

// New probes for the runner binary and model, failing if either is
// missing so the engine can fall through to the next backend.
func New(cfg Config) (*Backend, error) {
	binary := cfg.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	resolved, err := exec.LookPath(binary)
	if err != nil {
		return nil, fmt.Errorf("xttsrunner: runner binary %q not found: %w", binary, err)
	}
	if cfg.ModelPath == "" {
		return nil, fmt.Errorf("xttsrunner: model path not configured")
	}
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		return nil, fmt.Errorf("xttsrunner: model %s: %w", cfg.ModelPath, err)
	}
	return &Backend{binary: resolved, modelPath: cfg.ModelPath}, nil
}

// Factory adapts New to the engine's factory signature.
func Factory(cfg Config) tts.Factory {
	return func() (tts.Backend, error) { return New(cfg) }
}

func (b *Backend) Name() string    { return "xtts" }
func (b *Backend) CanClone() bool  { return true }
func (b *Backend) SampleRate() int { return runnerRate }

// Synthesize runs one inference. The accent selects the synthesis
// language; a cloned config adds its sample recording for speaker
// conditioning. A cloned config whose sample recording is gone from
// disk degrades to the generic voice instead of failing.
func (b *Backend) Synthesize(ctx context.Context, text string, cfg *voice.Config) ([]float32, error) {
	args := []string{
		"--model", b.modelPath,
		"--language", cfg.Accent.Language(),
		"--output-raw",
	}
	if cfg.IsCloned && sampleAvailable(cfg) {
		args = append(args, "--speaker-wav", cfg.VoiceSamplePath)
	} else {
		args = append(args, "--speaker", string(cfg.Gender))
	}

	cmd := exec.CommandContext(ctx, b.binary, args...)
	cmd.Stdin = bytes.NewBufferString(text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("xttsrunner: %w: %s", err, stderr.String())
	}
	return pcm.BytesToFloats(stdout.Bytes()), nil
}

// sampleAvailable reports whether a cloned config's sample recording
// can actually be read for conditioning. Missing samples are warned
// about once per call site rather than failing the synthesis.
func sampleAvailable(cfg *voice.Config) bool {
	if cfg.VoiceSamplePath == "" {
		return false
	}
	if _, err := os.Stat(cfg.VoiceSamplePath); err != nil {
		slog.Warn("speaker sample unavailable, using generic voice",
			"voice", cfg.Name, "sample", cfg.VoiceSamplePath, "error", err)
		return false
	}
	return true
}

func (b *Backend) Close() error { return nil }
