package pcm

import (
	"math"
	"testing"
	"time"
)

func TestFormatMath(t *testing.T) {
	f := L16Mono22K05
	if got := f.SampleRate(); got != 22050 {
		t.Errorf("SampleRate = %d, want 22050", got)
	}
	if got := f.SamplesInDuration(time.Second); got != 22050 {
		t.Errorf("SamplesInDuration(1s) = %d, want 22050", got)
	}
	if got := f.Duration(22050); got != time.Second {
		t.Errorf("Duration(22050) = %v, want 1s", got)
	}
	if got := f.BytesRate(); got != 44100 {
		t.Errorf("BytesRate = %d, want 44100", got)
	}
}

func TestFloatsBytesRoundTrip(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 0.999, -0.999}
	out := BytesToFloats(FloatsToBytes(in))
	if len(out) != len(in) {
		t.Fatalf("length %d, want %d", len(out), len(in))
	}
	for i := range in {
		if diff := math.Abs(float64(out[i] - in[i])); diff > 1.0/32768.0 {
			t.Errorf("sample %d: got %f, want %f", i, out[i], in[i])
		}
	}
}

func TestFloatsToBytesClamps(t *testing.T) {
	out := FloatsToBytes([]float32{2.0, -2.0})
	got := BytesToFloats(out)
	if got[0] < 0.99 || got[1] > -0.99 {
		t.Errorf("clamping failed: %v", got)
	}
}

func TestNormalize(t *testing.T) {
	s := []float32{0.1, -0.25, 0.2}
	Normalize(s)
	if p := Peak(s); math.Abs(float64(p)-1.0) > 1e-6 {
		t.Errorf("peak after normalize = %f, want 1.0", p)
	}

	// Silence stays silent.
	silence := make([]float32, 8)
	Normalize(silence)
	if p := Peak(silence); p != 0 {
		t.Errorf("silence peak = %f, want 0", p)
	}
}

func TestDownmixStereo(t *testing.T) {
	stereo := []float32{1.0, 0.0, 0.5, 0.5, -1.0, 1.0}
	mono := DownmixStereo(stereo)
	want := []float32{0.5, 0.5, 0.0}
	if len(mono) != len(want) {
		t.Fatalf("length %d, want %d", len(mono), len(want))
	}
	for i := range want {
		if mono[i] != want[i] {
			t.Errorf("sample %d: got %f, want %f", i, mono[i], want[i])
		}
	}
}
