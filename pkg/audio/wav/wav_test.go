package wav

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"github.com/clerviq/voiced/pkg/audio/pcm"
)

func sine(freq float64, n int, rate int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.8 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	in := sine(440, 2205, 22050)

	var buf bytes.Buffer
	if err := Encode(&buf, in, pcm.L16Mono22K05); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	a, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if a.SampleRate != 22050 {
		t.Errorf("sample rate = %d, want 22050", a.SampleRate)
	}
	if a.Channels != 1 {
		t.Errorf("channels = %d, want 1", a.Channels)
	}
	if len(a.Samples) != len(in) {
		t.Fatalf("samples = %d, want %d", len(a.Samples), len(in))
	}
	for i := range in {
		if diff := math.Abs(float64(a.Samples[i] - in[i])); diff > 1.0/16384.0 {
			t.Fatalf("sample %d: got %f, want %f", i, a.Samples[i], in[i])
		}
	}
}

func TestEncodeDecodeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "tone.wav")
	in := sine(220, 1000, 22050)

	if err := EncodeFile(path, in, pcm.L16Mono22K05); err != nil {
		t.Fatalf("EncodeFile: %v", err)
	}
	a, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if len(a.Samples) != len(in) {
		t.Errorf("samples = %d, want %d", len(a.Samples), len(in))
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("definitely not a wav file")))
	if err == nil {
		t.Fatal("expected error for non-WAV input")
	}
}

func TestDecodeSkipsUnknownChunks(t *testing.T) {
	in := sine(440, 100, 16000)
	var buf bytes.Buffer
	if err := Encode(&buf, in, pcm.L16Mono16K); err != nil {
		t.Fatal(err)
	}

	// Splice a LIST chunk between the fmt and data chunks.
	raw := buf.Bytes()
	list := append([]byte("LIST"), 4, 0, 0, 0, 'I', 'N', 'F', 'O')
	spliced := append(append(append([]byte{}, raw[:36]...), list...), raw[36:]...)

	a, err := Decode(bytes.NewReader(spliced))
	if err != nil {
		t.Fatalf("Decode with LIST chunk: %v", err)
	}
	if len(a.Samples) != len(in) {
		t.Errorf("samples = %d, want %d", len(a.Samples), len(in))
	}
}

func TestDecodeRejectsLyingChunkSizes(t *testing.T) {
	in := sine(440, 100, 16000)
	var buf bytes.Buffer
	if err := Encode(&buf, in, pcm.L16Mono16K); err != nil {
		t.Fatal(err)
	}
	raw := buf.Bytes()

	// Data chunk header claims ~4 GB but only 200 bytes follow; the
	// decoder must fail without allocating the declared size.
	huge := append([]byte{}, raw...)
	binary.LittleEndian.PutUint32(huge[40:44], 0xfffffff0)
	if _, err := Decode(bytes.NewReader(huge)); err == nil {
		t.Error("expected error for oversized data chunk claim")
	}

	// Same for an absurd fmt chunk size.
	badFmt := append([]byte{}, raw...)
	binary.LittleEndian.PutUint32(badFmt[16:20], 0xfffffff0)
	if _, err := Decode(bytes.NewReader(badFmt)); err == nil {
		t.Error("expected error for oversized fmt chunk claim")
	}
}

func TestMonoDownmix(t *testing.T) {
	a := &Audio{Samples: []float32{1, 0, 0, 1}, SampleRate: 22050, Channels: 2}
	mono := a.Mono()
	if len(mono) != 2 || mono[0] != 0.5 || mono[1] != 0.5 {
		t.Errorf("Mono() = %v, want [0.5 0.5]", mono)
	}
}
