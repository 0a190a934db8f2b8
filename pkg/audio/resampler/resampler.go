// Package resampler converts audio between sample rates using a pure Go
// resampling library (no CGO/FFI dependencies).
//
// The engine passes whole waveforms around as float32 slices, so this
// package exposes a one-shot slice API rather than a streaming one.
package resampler

import (
	"fmt"

	resampling "github.com/tphakala/go-audio-resampling"
)

// Resample converts mono samples from srcRate to dstRate.
// The input slice is not modified. When the rates match, the input is
// returned unchanged.
func Resample(samples []float32, srcRate, dstRate int) ([]float32, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("resampler: invalid rates %d -> %d", srcRate, dstRate)
	}
	if srcRate == dstRate || len(samples) == 0 {
		return samples, nil
	}

	config := &resampling.Config{
		InputRate:  float64(srcRate),
		OutputRate: float64(dstRate),
		Channels:   1,
		Quality:    resampling.QualitySpec{Preset: resampling.QualityHigh},
	}
	rs, err := resampling.New(config)
	if err != nil {
		return nil, fmt.Errorf("resampler: %w", err)
	}

	input := make([]float64, len(samples))
	for i, s := range samples {
		input[i] = float64(s)
	}

	output, err := rs.Process(input)
	if err != nil {
		return nil, fmt.Errorf("resampler: %w", err)
	}

	// Pad or trim to the exact expected length. High-quality resamplers
	// carry a few samples of filter latency; the engine needs output whose
	// duration maps exactly to the input's.
	want := int(int64(len(samples)) * int64(dstRate) / int64(srcRate))
	out := make([]float32, want)
	for i := 0; i < want && i < len(output); i++ {
		v := output[i]
		if v > 1.0 {
			v = 1.0
		} else if v < -1.0 {
			v = -1.0
		}
		out[i] = float32(v)
	}
	return out, nil
}
