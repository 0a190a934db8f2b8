package clone

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/clerviq/voiced/pkg/audio/pcm"
	"github.com/clerviq/voiced/pkg/audio/wav"
	"github.com/clerviq/voiced/pkg/voice"
	"github.com/clerviq/voiced/pkg/voiceprint"
)

// voiceLike synthesizes a harmonic signal that passes the extractor's
// energy floor.
func voiceLike(duration time.Duration, sampleRate int) []float32 {
	n := int(duration.Seconds() * float64(sampleRate))
	samples := make([]float32, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		v := 0.5*math.Sin(2*math.Pi*140*t) +
			0.25*math.Sin(2*math.Pi*280*t) +
			0.12*math.Sin(2*math.Pi*560*t)
		samples[i] = float32(v * 0.6)
	}
	return samples
}

func writeFixture(t *testing.T, path string, duration time.Duration, sampleRate int) {
	t.Helper()
	if err := wav.EncodeFile(path, voiceLike(duration, sampleRate), formatFor(t, sampleRate)); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

func formatFor(t *testing.T, sampleRate int) pcm.Format {
	t.Helper()
	for _, f := range []pcm.Format{pcm.L16Mono16K, pcm.L16Mono22K05, pcm.L16Mono44K1} {
		if f.SampleRate() == sampleRate {
			return f
		}
	}
	t.Fatalf("no format for rate %d", sampleRate)
	return 0
}

func TestCloneFromFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "speaker.wav")
	writeFixture(t, src, 12*time.Second, 16000)

	eng := New(voiceprint.NewSpectralExtractor())
	cfg, err := eng.CloneFromFile(context.Background(), src, "front desk", voice.GenderFemale, voice.AccentBritish, dir)
	if err != nil {
		t.Fatalf("CloneFromFile: %v", err)
	}

	if !cfg.IsCloned {
		t.Error("cloned config should have IsCloned set")
	}
	if cfg.Name != "front desk" {
		t.Errorf("name = %q", cfg.Name)
	}
	if cfg.Emotion != voice.EmotionNeutral {
		t.Errorf("emotion = %q, want neutral", cfg.Emotion)
	}
	if cfg.Speed != 1.0 || cfg.Energy != 1.0 || cfg.PitchShift != 0 {
		t.Errorf("prosody not neutral: %+v", cfg)
	}
	if len(cfg.Fingerprint) != 4 {
		t.Errorf("fingerprint = %q, want 4 hex chars", cfg.Fingerprint)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}

	// Spaces in the name map to underscores on disk.
	voiceDir := filepath.Join(dir, "front_desk")
	for _, name := range []string{voice.ConfigFile, voice.SampleFile, voice.EmbeddingFile} {
		if _, err := os.Stat(filepath.Join(voiceDir, name)); err != nil {
			t.Errorf("missing artifact %s: %v", name, err)
		}
	}
	if cfg.VoiceSamplePath != filepath.Join(voiceDir, voice.SampleFile) {
		t.Errorf("sample path = %q", cfg.VoiceSamplePath)
	}

	loaded, err := LoadVoice(voiceDir)
	if err != nil {
		t.Fatalf("LoadVoice: %v", err)
	}
	if len(loaded.Embedding) != len(cfg.Embedding) {
		t.Fatalf("embedding dims differ: %d vs %d", len(loaded.Embedding), len(cfg.Embedding))
	}
	for i := range loaded.Embedding {
		if loaded.Embedding[i] != cfg.Embedding[i] {
			t.Fatalf("embedding mismatch at index %d", i)
		}
	}
}

func TestCloneStoresCanonicalRate(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "speaker.wav")
	writeFixture(t, src, 11*time.Second, 44100)

	eng := New(voiceprint.NewSpectralExtractor())
	if _, err := eng.CloneFromFile(context.Background(), src, "agent", voice.GenderMale, voice.AccentAmerican, dir); err != nil {
		t.Fatalf("CloneFromFile: %v", err)
	}

	audio, err := wav.DecodeFile(filepath.Join(dir, "agent", voice.SampleFile))
	if err != nil {
		t.Fatalf("decode stored sample: %v", err)
	}
	if audio.SampleRate != SampleFormat.SampleRate() {
		t.Errorf("stored rate = %d, want %d", audio.SampleRate, SampleFormat.SampleRate())
	}
}

func TestCloneTruncatesLongSample(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "speaker.wav")
	writeFixture(t, src, 70*time.Second, 22050)

	eng := New(voiceprint.NewSpectralExtractor())
	if _, err := eng.CloneFromFile(context.Background(), src, "marathon", voice.GenderNeutral, voice.AccentGerman, dir); err != nil {
		t.Fatalf("CloneFromFile: %v", err)
	}

	audio, err := wav.DecodeFile(filepath.Join(dir, "marathon", voice.SampleFile))
	if err != nil {
		t.Fatalf("decode stored sample: %v", err)
	}
	got := SampleFormat.Duration(int64(len(audio.Samples)))
	if got != maxSampleDuration {
		t.Errorf("stored duration = %v, want %v", got, maxSampleDuration)
	}
}

func TestCloneMissingAudio(t *testing.T) {
	dir := t.TempDir()
	eng := New(voiceprint.NewSpectralExtractor())
	_, err := eng.CloneFromFile(context.Background(), filepath.Join(dir, "nope.wav"), "ghost", voice.GenderFemale, voice.AccentFrench, dir)
	if !errors.Is(err, ErrAudioNotFound) {
		t.Errorf("err = %v, want ErrAudioNotFound", err)
	}
}

func TestCloneRejectsBadArguments(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "speaker.wav")
	writeFixture(t, src, 11*time.Second, 16000)
	eng := New(voiceprint.NewSpectralExtractor())

	if _, err := eng.CloneFromFile(context.Background(), src, "  ", voice.GenderFemale, voice.AccentFrench, dir); !errors.Is(err, voice.ErrInvalid) {
		t.Errorf("blank name: err = %v, want ErrInvalid", err)
	}
	if _, err := eng.CloneFromFile(context.Background(), src, "x", voice.Gender("robot"), voice.AccentFrench, dir); !errors.Is(err, voice.ErrInvalid) {
		t.Errorf("bad gender: err = %v, want ErrInvalid", err)
	}
	if _, err := eng.CloneFromFile(context.Background(), src, "x", voice.GenderMale, voice.Accent("xx-yy"), dir); !errors.Is(err, voice.ErrInvalid) {
		t.Errorf("bad accent: err = %v, want ErrInvalid", err)
	}
}

func TestCloneSameSampleTwice(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "speaker.wav")
	writeFixture(t, src, 12*time.Second, 16000)
	eng := New(voiceprint.NewSpectralExtractor())

	first, err := eng.CloneFromFile(context.Background(), src, "morning", voice.GenderFemale, voice.AccentAmerican, dir)
	if err != nil {
		t.Fatalf("first clone: %v", err)
	}
	second, err := eng.CloneFromFile(context.Background(), src, "evening", voice.GenderFemale, voice.AccentAmerican, dir)
	if err != nil {
		t.Fatalf("second clone: %v", err)
	}

	// Each clone owns its sidecar; the persisted embeddings agree
	// because the recording is the same.
	loadedFirst, err := LoadVoice(filepath.Join(dir, "morning"))
	if err != nil {
		t.Fatalf("load first: %v", err)
	}
	loadedSecond, err := LoadVoice(filepath.Join(dir, "evening"))
	if err != nil {
		t.Fatalf("load second: %v", err)
	}
	if len(loadedFirst.Embedding) != len(loadedSecond.Embedding) {
		t.Fatalf("embedding dims differ: %d vs %d", len(loadedFirst.Embedding), len(loadedSecond.Embedding))
	}
	for i := range loadedFirst.Embedding {
		if diff := math.Abs(float64(loadedFirst.Embedding[i] - loadedSecond.Embedding[i])); diff > 1e-6 {
			t.Fatalf("embedding[%d] differs by %g between clones of the same recording", i, diff)
		}
	}
	if first.Fingerprint != second.Fingerprint {
		t.Errorf("fingerprints differ for identical recordings: %q vs %q", first.Fingerprint, second.Fingerprint)
	}
	if loadedFirst.VoiceSamplePath == loadedSecond.VoiceSamplePath {
		t.Error("clones share a sample file")
	}
}

func TestCloneRefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "speaker.wav")
	writeFixture(t, src, 11*time.Second, 16000)
	eng := New(voiceprint.NewSpectralExtractor())

	if _, err := eng.CloneFromFile(context.Background(), src, "dup", voice.GenderMale, voice.AccentSpanish, dir); err != nil {
		t.Fatalf("first clone: %v", err)
	}
	if _, err := eng.CloneFromFile(context.Background(), src, "dup", voice.GenderMale, voice.AccentSpanish, dir); !errors.Is(err, ErrExists) {
		t.Errorf("second clone: err = %v, want ErrExists", err)
	}
}

func TestCloneLeavesNoPartialOnFailure(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "silence.wav")
	// All-zero audio fails embedding extraction.
	if err := wav.EncodeFile(src, make([]float32, 16000*11), pcm.L16Mono16K); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	eng := New(voiceprint.NewSpectralExtractor())
	if _, err := eng.CloneFromFile(context.Background(), src, "quiet", voice.GenderFemale, voice.AccentDutch, dir); err == nil {
		t.Fatal("expected extraction failure for silent input")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, ent := range entries {
		if ent.IsDir() {
			t.Errorf("leftover directory %s after failed clone", ent.Name())
		}
	}
}
