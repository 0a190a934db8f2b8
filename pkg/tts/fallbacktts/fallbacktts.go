// Package fallbacktts is the degraded synthesis path: a pure-Go,
// deterministic backend with no cloning capability. Output is
// intelligible only as cadence, not speech, but it always works: no
// model download, no GPU, no subprocess. The surrounding product keeps
// answering calls when the full inference stack is unavailable.
package fallbacktts

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/clerviq/voiced/pkg/tts"
	"github.com/clerviq/voiced/pkg/voice"
)

const sampleRate = 22050

// Speech cadence parameters. Values approximate conversational English.
const (
	syllableDur = 0.16 // seconds of tone per syllable
	syllableGap = 0.04
	wordGap     = 0.09
	pauseDur    = 0.25 // extra silence after sentence punctuation
)

// Backend synthesizes tone sequences whose rhythm follows the input
// text. Stateless and safe for concurrent use.
type Backend struct{}

// New creates the fallback backend. It never fails.
func New() (*Backend, error) {
	return &Backend{}, nil
}

// Factory adapts New to the engine's factory signature.
func Factory() (tts.Backend, error) { return New() }

func (b *Backend) Name() string    { return "simple" }
func (b *Backend) CanClone() bool  { return false }
func (b *Backend) SampleRate() int { return sampleRate }

// Synthesize renders one tone burst per syllable, pitched from the
// voice's gender and varied per word so repeated text sounds identical
// and distinct words do not.
func (b *Backend) Synthesize(ctx context.Context, text string, cfg *voice.Config) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Each locale gets its own voice, offset from the gender base the
	// way a platform synthesizer would pick a per-language speaker.
	base := baseFrequency(cfg.Gender) * (0.94 + 0.12*wordRatio(cfg.Accent.Language()))
	var out []float32
	for _, word := range strings.Fields(text) {
		f0 := base * (0.88 + 0.24*wordRatio(word))
		for s := 0; s < syllables(word); s++ {
			// Slight downdrift across the word, like natural declination.
			out = appendTone(out, f0*math.Pow(0.97, float64(s)), syllableDur)
			out = appendSilence(out, syllableGap)
		}
		gap := wordGap
		if strings.ContainsAny(word[len(word)-1:], ".!?") {
			gap += pauseDur
		}
		out = appendSilence(out, gap)
	}
	if len(out) == 0 {
		out = appendSilence(out, pauseDur)
	}
	return out, nil
}

func (b *Backend) Close() error { return nil }

func baseFrequency(g voice.Gender) float64 {
	switch g {
	case voice.GenderMale:
		return 120
	case voice.GenderFemale:
		return 210
	default:
		return 165
	}
}

// wordRatio maps a word to a stable value in [0, 1).
func wordRatio(word string) float64 {
	h := fnv.New32a()
	h.Write([]byte(strings.ToLower(word)))
	return float64(h.Sum32()%1000) / 1000
}

// syllables estimates syllable count by vowel runs; defaults to one.
func syllables(word string) int {
	n := 0
	prevVowel := false
	for _, r := range strings.ToLower(word) {
		isVowel := strings.ContainsRune("aeiouyáéíóúàèüöä", r)
		if isVowel && !prevVowel {
			n++
		}
		prevVowel = isVowel
	}
	if n == 0 {
		n = 1
	}
	return n
}

// appendTone writes a harmonic tone with a raised-cosine envelope.
func appendTone(out []float32, f0, dur float64) []float32 {
	n := int(dur * sampleRate)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		env := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
		v := 0.6*math.Sin(2*math.Pi*f0*t) +
			0.3*math.Sin(2*math.Pi*2*f0*t) +
			0.1*math.Sin(2*math.Pi*3*f0*t)
		out = append(out, float32(0.3*env*v))
	}
	return out
}

func appendSilence(out []float32, dur float64) []float32 {
	return append(out, make([]float32, int(dur*sampleRate))...)
}
