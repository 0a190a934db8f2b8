// Package pcm provides types and helpers for working with PCM audio data.
//
// The engine represents waveforms internally as normalized float32 samples
// in [-1, 1]; this package converts between that representation and 16-bit
// signed little-endian PCM, and carries format math (rates, durations).
package pcm

import (
	"encoding/binary"
	"time"
)

const (
	// L16Mono16K represents audio/L16; rate=16000; channels=1.
	// This is the rate the speaker-embedding extractor consumes.
	L16Mono16K Format = iota
	// L16Mono22K05 represents audio/L16; rate=22050; channels=1.
	// This is the engine's canonical synthesis rate.
	L16Mono22K05
	// L16Mono44K1 represents audio/L16; rate=44100; channels=1
	L16Mono44K1
)

// Format represents a mono 16-bit audio format configuration.
type Format int

// SampleRate returns the sample rate in Hz for this format.
func (f Format) SampleRate() int {
	switch f {
	case L16Mono16K:
		return 16000
	case L16Mono22K05:
		return 22050
	case L16Mono44K1:
		return 44100
	}
	panic("pcm: invalid audio format")
}

// Channels returns the number of audio channels for this format.
func (f Format) Channels() int {
	switch f {
	case L16Mono16K, L16Mono22K05, L16Mono44K1:
		return 1
	}
	panic("pcm: invalid audio format")
}

// Depth returns the bit depth for this format.
func (f Format) Depth() int {
	switch f {
	case L16Mono16K, L16Mono22K05, L16Mono44K1:
		return 16
	}
	panic("pcm: invalid audio format")
}

// Samples returns the number of samples in the given number of bytes.
func (f Format) Samples(bytes int64) int64 {
	return bytes * 8 / int64(f.Channels()) / int64(f.Depth())
}

// SamplesInDuration returns the number of samples in the given duration.
func (f Format) SamplesInDuration(d time.Duration) int64 {
	return int64(time.Duration(f.SampleRate()) * d / time.Second)
}

// Duration returns the duration of the given number of samples.
func (f Format) Duration(samples int64) time.Duration {
	return time.Duration(samples) * time.Second / time.Duration(f.SampleRate())
}

// BytesRate returns the byte rate of the audio data.
func (f Format) BytesRate() int {
	return f.SampleRate() * f.Channels() * f.Depth() / 8
}

// FloatsToBytes converts normalized float32 samples in [-1, 1] to PCM16
// little-endian bytes. Out-of-range samples are clamped.
func FloatsToBytes(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(floatToInt16(s)))
	}
	return out
}

// BytesToFloats converts PCM16 little-endian bytes to normalized float32
// samples in [-1, 1]. A trailing odd byte is ignored.
func BytesToFloats(data []byte) []float32 {
	n := len(data) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		s := int16(binary.LittleEndian.Uint16(data[i*2:]))
		out[i] = float32(s) / 32768.0
	}
	return out
}

// Peak returns the maximum absolute sample value.
func Peak(samples []float32) float32 {
	var peak float32
	for _, s := range samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// Normalize scales samples in place so the peak absolute amplitude is 1.0.
// Silence (all-zero input) is returned unchanged.
func Normalize(samples []float32) []float32 {
	peak := Peak(samples)
	if peak == 0 {
		return samples
	}
	scale := 1.0 / peak
	for i := range samples {
		samples[i] *= scale
	}
	return samples
}

// Clamp limits every sample to the valid [-1, 1] audio range in place.
func Clamp(samples []float32) []float32 {
	for i, s := range samples {
		if s > 1.0 {
			samples[i] = 1.0
		} else if s < -1.0 {
			samples[i] = -1.0
		}
	}
	return samples
}

// DownmixStereo averages interleaved stereo samples into mono.
func DownmixStereo(samples []float32) []float32 {
	n := len(samples) / 2
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		out[i] = (samples[i*2] + samples[i*2+1]) / 2
	}
	return out
}

func floatToInt16(s float32) int16 {
	v := s * 32767.0
	if v > 32767 {
		return 32767
	}
	if v < -32768 {
		return -32768
	}
	return int16(v)
}
