// Package voiceprint extracts fixed-length speaker embeddings from audio.
//
// # Pipeline
//
// The extraction pipeline processes a waveform in three stages:
//
//  1. Resample the input to 16kHz mono, the analysis rate.
//  2. ComputeFbank: waveform → log mel filterbank frames.
//  3. Statistics pooling: per-channel mean and standard deviation over all
//     frames, concatenated and L2-normalized into one embedding vector.
//
// The resulting embedding is a deterministic fingerprint of the speaker's
// spectral characteristics: two recordings of the same voice land close in
// embedding space, and the same recording always produces the same vector.
//
// # Fingerprints
//
// The Hasher projects embeddings into short locality-sensitive hex hashes
// (e.g. "A3F8") used as compact voice labels in profile metadata and
// cache keys.
package voiceprint

import (
	"errors"
	"fmt"
	"math"

	"github.com/clerviq/voiced/pkg/audio/resampler"
)

// Extraction errors.
var (
	// ErrTooShort is returned when the audio is shorter than the minimum
	// analyzable duration.
	ErrTooShort = errors.New("voiceprint: audio too short to analyze")
	// ErrTooQuiet is returned when the audio carries no measurable signal.
	ErrTooQuiet = errors.New("voiceprint: audio too quiet to analyze")
)

// Extractor computes a speaker embedding from a waveform.
//
// Implementations must be safe for concurrent use; multiple goroutines may
// call Extract simultaneously.
type Extractor interface {
	// Extract computes a speaker embedding from mono float32 samples at
	// the given sample rate. Returns a vector of length Dimension().
	Extract(samples []float32, sampleRate int) ([]float32, error)

	// Dimension returns the length of vectors produced by Extract.
	Dimension() int

	// Close releases any resources held by the extractor.
	Close() error
}

// analysisRate is the sample rate the filterbank front end consumes.
const analysisRate = 16000

// minAnalysisSamples is ~400ms at the analysis rate, the minimum amount of
// audio that yields a meaningful embedding.
const minAnalysisSamples = 6400

// quietFloor is the minimum peak amplitude considered a usable signal.
const quietFloor = 1e-4

// SpectralExtractor implements Extractor with mel-filterbank statistics
// pooling. It is pure Go, deterministic, and stateless, so a single
// instance can serve all goroutines.
type SpectralExtractor struct {
	cfg FbankConfig
}

var _ Extractor = (*SpectralExtractor)(nil)

// NewSpectralExtractor creates an extractor with the default filterbank
// configuration (80 mel channels → 160-dimensional embeddings).
func NewSpectralExtractor() *SpectralExtractor {
	return &SpectralExtractor{cfg: DefaultFbankConfig()}
}

// Extract computes the speaker embedding.
func (e *SpectralExtractor) Extract(samples []float32, sampleRate int) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("voiceprint: invalid sample rate %d", sampleRate)
	}

	audio := samples
	if sampleRate != analysisRate {
		var err error
		audio, err = resampler.Resample(samples, sampleRate, analysisRate)
		if err != nil {
			return nil, err
		}
	}
	if len(audio) < minAnalysisSamples {
		return nil, ErrTooShort
	}

	var peak float32
	for _, s := range audio {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	if peak < quietFloor {
		return nil, ErrTooQuiet
	}

	frames := ComputeFbank(audio, e.cfg)
	if len(frames) == 0 {
		return nil, ErrTooShort
	}

	return poolStatistics(frames, e.cfg.NumMels), nil
}

// Dimension returns 2 × NumMels (mean and stddev per mel channel).
func (e *SpectralExtractor) Dimension() int {
	return e.cfg.NumMels * 2
}

// Close is a no-op; the extractor holds no resources.
func (e *SpectralExtractor) Close() error { return nil }

// poolStatistics reduces filterbank frames to a single L2-normalized
// vector: per-channel mean followed by per-channel standard deviation.
func poolStatistics(frames [][]float32, numMels int) []float32 {
	n := float64(len(frames))
	mean := make([]float64, numMels)
	for _, frame := range frames {
		for m, v := range frame {
			mean[m] += float64(v)
		}
	}
	for m := range mean {
		mean[m] /= n
	}

	variance := make([]float64, numMels)
	for _, frame := range frames {
		for m, v := range frame {
			d := float64(v) - mean[m]
			variance[m] += d * d
		}
	}

	embedding := make([]float32, numMels*2)
	var norm float64
	for m := 0; m < numMels; m++ {
		sd := math.Sqrt(variance[m] / n)
		embedding[m] = float32(mean[m])
		embedding[numMels+m] = float32(sd)
		norm += mean[m]*mean[m] + sd*sd
	}

	norm = math.Sqrt(norm)
	if norm > 0 {
		scale := float32(1.0 / norm)
		for i := range embedding {
			embedding[i] *= scale
		}
	}
	return embedding
}

// CosineSimilarity measures how close two embeddings are, in [-1, 1].
// Panics if the vectors have different lengths.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) {
		panic("voiceprint: embedding dimension mismatch")
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
