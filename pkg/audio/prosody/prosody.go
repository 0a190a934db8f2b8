// Package prosody applies post-synthesis prosody transforms to waveforms:
// time-stretching for speaking speed, pitch shifting in semitones, and
// amplitude scaling for energy.
//
// Transforms are deterministic and operate on mono float32 waveforms.
package prosody

import (
	"fmt"
	"math"

	"github.com/clerviq/voiced/pkg/audio/pcm"
)

// Overlap-add analysis parameters. The window must be a power of two so a
// frame lines up with the FFT-friendly sizes used elsewhere in the engine.
const (
	windowSize   = 2048
	synthesisHop = windowSize / 4
)

// TimeStretch changes the duration of a waveform without changing its
// pitch, using windowed overlap-add. A rate of 2.0 halves the duration, a
// rate of 0.5 doubles it. Inputs shorter than one analysis window are
// stretched by plain interpolation instead.
func TimeStretch(samples []float32, rate float64) ([]float32, error) {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil, fmt.Errorf("prosody: invalid stretch rate %v", rate)
	}
	if rate == 1.0 || len(samples) == 0 {
		return samples, nil
	}
	outLen := int(math.Round(float64(len(samples)) / rate))
	if outLen <= 0 {
		return []float32{}, nil
	}
	if len(samples) < windowSize {
		return interpolate(samples, outLen), nil
	}

	analysisHop := int(math.Round(float64(synthesisHop) * rate))
	if analysisHop < 1 {
		analysisHop = 1
	}

	window := hann(windowSize)
	out := make([]float32, outLen+windowSize)
	norm := make([]float32, outLen+windowSize)

	for outPos, inPos := 0, 0; outPos < outLen; outPos, inPos = outPos+synthesisHop, inPos+analysisHop {
		if inPos+windowSize > len(samples) {
			inPos = len(samples) - windowSize
		}
		for i := 0; i < windowSize; i++ {
			w := window[i]
			out[outPos+i] += samples[inPos+i] * w
			norm[outPos+i] += w * w
		}
		if inPos == len(samples)-windowSize {
			break
		}
	}

	// Normalize by the accumulated window energy so overlapping regions
	// keep unit gain.
	result := make([]float32, outLen)
	for i := range result {
		if norm[i] > 1e-6 {
			result[i] = out[i] / norm[i]
		} else {
			result[i] = out[i]
		}
	}
	return result, nil
}

// PitchShift shifts the pitch of a waveform by the given number of
// semitones without changing its duration. Positive values raise the
// pitch. The valid domain is roughly -12 to +12 semitones.
func PitchShift(samples []float32, sampleRate int, semitones float64) ([]float32, error) {
	if math.IsNaN(semitones) || math.IsInf(semitones, 0) {
		return nil, fmt.Errorf("prosody: invalid pitch shift %v", semitones)
	}
	if semitones == 0 || len(samples) == 0 {
		return samples, nil
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("prosody: invalid sample rate %d", sampleRate)
	}

	factor := math.Pow(2, semitones/12.0)

	// Stretch to factor× the original length (pitch preserved), then play
	// it back factor× faster: duration returns to the original while every
	// frequency is multiplied by factor.
	stretched, err := TimeStretch(samples, 1.0/factor)
	if err != nil {
		return nil, err
	}
	return interpolate(stretched, len(samples)), nil
}

// Gain scales amplitude by the energy multiplier and clamps the result to
// the valid audio range.
func Gain(samples []float32, energy float64) ([]float32, error) {
	if energy < 0 || math.IsNaN(energy) || math.IsInf(energy, 0) {
		return nil, fmt.Errorf("prosody: invalid energy %v", energy)
	}
	if energy == 1.0 {
		return samples, nil
	}
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = s * float32(energy)
	}
	return pcm.Clamp(out), nil
}

// interpolate resamples a waveform to outLen samples by linear
// interpolation. This changes playback speed and pitch together.
func interpolate(samples []float32, outLen int) []float32 {
	if outLen <= 0 {
		return []float32{}
	}
	if len(samples) == 0 {
		return make([]float32, outLen)
	}
	out := make([]float32, outLen)
	step := float64(len(samples)-1) / float64(outLen-1)
	if outLen == 1 {
		step = 0
	}
	for i := range out {
		pos := float64(i) * step
		idx := int(pos)
		if idx >= len(samples)-1 {
			out[i] = samples[len(samples)-1]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = samples[idx] + frac*(samples[idx+1]-samples[idx])
	}
	return out
}

// hann generates a Hann window of the given length.
func hann(n int) []float32 {
	w := make([]float32, n)
	for i := range w {
		w[i] = float32(0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1))))
	}
	return w
}
