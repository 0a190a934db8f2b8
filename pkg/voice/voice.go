// Package voice defines voice profiles: who a voice sounds like (gender,
// accent, optional cloned speaker sample and embedding) and how it speaks
// (emotion, pitch, speed, energy).
//
// A Config is constructed either by a preset factory (see presets.go) or
// by the cloning engine, and persisted as a small JSON document with a
// binary embedding sidecar next to the speaker sample.
package voice

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	// ErrInvalid is the sentinel wrapped by all field validation failures.
	ErrInvalid = errors.New("voice: invalid config")
)

// Prosody parameter domains.
const (
	MinPitchShift = -12.0
	MaxPitchShift = 12.0
	MinSpeed      = 0.5
	MaxSpeed      = 2.0
	MinEnergy     = 0.5
	MaxEnergy     = 1.5
)

// Config describes a voice: identity, accent, affect, prosody defaults,
// and (for cloned voices) the speaker sample and embedding it was derived
// from.
//
// A Config is immutable by convention: the engine never modifies one, and
// callers adjust prosody by copying and overriding fields before
// synthesis.
type Config struct {
	// Name is the display label for the voice.
	Name string `json:"name"`
	// Gender of the voice.
	Gender Gender `json:"gender"`
	// Accent selects the synthesis language/locale.
	Accent Accent `json:"accent"`
	// Emotion is the affect label. Defaults to EmotionNeutral.
	Emotion Emotion `json:"emotion"`
	// PitchShift in semitones, -12 to +12. 0 is neutral.
	PitchShift float64 `json:"pitch_shift"`
	// Speed multiplier, 0.5 to 2.0. 1.0 is neutral.
	Speed float64 `json:"speed"`
	// Energy (amplitude) multiplier, 0.5 to 1.5. 1.0 is neutral.
	Energy float64 `json:"energy"`
	// IsCloned reports whether this voice was derived from an uploaded
	// speaker recording. Cloned voices always carry VoiceSamplePath and
	// an embedding; presets never do.
	IsCloned bool `json:"is_cloned"`
	// VoiceSamplePath is the path of the normalized speaker sample.
	// Present iff IsCloned.
	VoiceSamplePath string `json:"voice_sample_path,omitempty"`
	// Fingerprint is the short LSH label of the embedding (e.g. "A3F8").
	// Present iff IsCloned.
	Fingerprint string `json:"fingerprint,omitempty"`

	// Embedding is the speaker embedding vector. Present iff IsCloned.
	// It is persisted in a binary sidecar, never inline in the JSON
	// document.
	Embedding []float32 `json:"-"`
}

// Validate checks enum membership, prosody ranges, and the cloned-voice
// invariant.
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalid)
	}
	if !c.Gender.Valid() {
		return fmt.Errorf("%w: unknown gender %q", ErrInvalid, string(c.Gender))
	}
	if !c.Accent.Valid() {
		return fmt.Errorf("%w: unknown accent %q", ErrInvalid, string(c.Accent))
	}
	if !c.Emotion.Valid() {
		return fmt.Errorf("%w: unknown emotion %q", ErrInvalid, string(c.Emotion))
	}
	if c.PitchShift < MinPitchShift || c.PitchShift > MaxPitchShift {
		return fmt.Errorf("%w: pitch shift %.1f outside [%.0f, %.0f]",
			ErrInvalid, c.PitchShift, MinPitchShift, MaxPitchShift)
	}
	if c.Speed < MinSpeed || c.Speed > MaxSpeed {
		return fmt.Errorf("%w: speed %.2f outside [%.1f, %.1f]",
			ErrInvalid, c.Speed, MinSpeed, MaxSpeed)
	}
	if c.Energy < MinEnergy || c.Energy > MaxEnergy {
		return fmt.Errorf("%w: energy %.2f outside [%.1f, %.1f]",
			ErrInvalid, c.Energy, MinEnergy, MaxEnergy)
	}
	if c.IsCloned {
		if c.VoiceSamplePath == "" {
			return fmt.Errorf("%w: cloned voice without sample path", ErrInvalid)
		}
		if len(c.Embedding) == 0 {
			return fmt.Errorf("%w: cloned voice without embedding", ErrInvalid)
		}
	} else if c.VoiceSamplePath != "" || len(c.Embedding) != 0 {
		return fmt.Errorf("%w: preset voice carries sample or embedding", ErrInvalid)
	}
	return nil
}

// WithProsody returns a copy of the config with the given prosody
// overrides applied.
func (c Config) WithProsody(pitchShift, speed, energy float64) Config {
	c.PitchShift = pitchShift
	c.Speed = speed
	c.Energy = energy
	return c
}
