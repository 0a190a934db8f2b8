// Package wav reads and writes 16-bit PCM WAV files.
//
// The decoder accepts mono or stereo linear PCM at any sample rate and
// returns normalized float32 samples. Compressed or non-16-bit files are
// rejected with ErrUnsupported.
package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/clerviq/voiced/pkg/audio/pcm"
)

// maxFmtChunk bounds the fmt chunk size we will read. Canonical PCM
// headers use 16 bytes; extensible formats stay far under this.
const maxFmtChunk = 4096

var (
	// ErrMalformed is returned when the input is not a valid RIFF/WAVE file.
	ErrMalformed = errors.New("wav: malformed file")
	// ErrUnsupported is returned for valid WAV files the decoder cannot
	// handle (compressed codecs, bit depths other than 16).
	ErrUnsupported = errors.New("wav: unsupported encoding")
)

// Audio is decoded waveform data.
type Audio struct {
	// Samples are normalized floats in [-1, 1], interleaved when stereo.
	Samples []float32
	// SampleRate in Hz.
	SampleRate int
	// Channels is 1 or 2.
	Channels int
}

// Mono returns the waveform downmixed to a single channel.
func (a *Audio) Mono() []float32 {
	if a.Channels <= 1 {
		return a.Samples
	}
	return pcm.DownmixStereo(a.Samples)
}

// Decode reads a 16-bit PCM WAV stream.
func Decode(r io.Reader) (*Audio, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return nil, fmt.Errorf("%w: missing RIFF/WAVE header", ErrMalformed)
	}

	var (
		audio    Audio
		sawFmt   bool
		bitDepth int
	)

	// Walk chunks until the data chunk.
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("%w: no data chunk", ErrMalformed)
			}
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		id := string(hdr[0:4])
		size := binary.LittleEndian.Uint32(hdr[4:8])

		switch id {
		case "fmt ":
			if size < 16 || size > maxFmtChunk {
				return nil, fmt.Errorf("%w: fmt chunk of %d bytes", ErrMalformed, size)
			}
			buf := make([]byte, size)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
			codec := binary.LittleEndian.Uint16(buf[0:2])
			if codec != 1 { // linear PCM
				return nil, fmt.Errorf("%w: codec %d", ErrUnsupported, codec)
			}
			audio.Channels = int(binary.LittleEndian.Uint16(buf[2:4]))
			audio.SampleRate = int(binary.LittleEndian.Uint32(buf[4:8]))
			bitDepth = int(binary.LittleEndian.Uint16(buf[14:16]))
			if audio.Channels < 1 || audio.Channels > 2 {
				return nil, fmt.Errorf("%w: %d channels", ErrUnsupported, audio.Channels)
			}
			if bitDepth != 16 {
				return nil, fmt.Errorf("%w: %d-bit samples", ErrUnsupported, bitDepth)
			}
			sawFmt = true

		case "data":
			if !sawFmt {
				return nil, fmt.Errorf("%w: data before fmt", ErrMalformed)
			}
			// Copy through a buffer instead of trusting the declared
			// size for the allocation, so a lying 32-bit length cannot
			// reserve gigabytes before the read fails.
			var buf bytes.Buffer
			if _, err := io.CopyN(&buf, r, int64(size)); err != nil {
				return nil, fmt.Errorf("%w: truncated data chunk: %v", ErrMalformed, err)
			}
			audio.Samples = pcm.BytesToFloats(buf.Bytes())
			return &audio, nil

		default:
			// Skip unknown chunks (LIST, fact, ...). Chunk data is padded
			// to an even byte count.
			skip := int64(size)
			if size%2 == 1 {
				skip++
			}
			if _, err := io.CopyN(io.Discard, r, skip); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
			}
		}
	}
}

// DecodeFile reads a 16-bit PCM WAV file from disk.
func DecodeFile(path string) (*Audio, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	a, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return a, nil
}

// Encode writes mono float32 samples as a 16-bit PCM WAV stream in the
// given format.
func Encode(w io.Writer, samples []float32, format pcm.Format) error {
	data := pcm.FloatsToBytes(samples)
	if err := writeHeader(w, len(data), format); err != nil {
		return err
	}
	_, err := w.Write(data)
	return err
}

// EncodeFile writes mono float32 samples to a WAV file, creating parent
// directories as needed.
func EncodeFile(path string, samples []float32, format pcm.Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, samples, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeHeader writes the 44-byte canonical WAV header for 16-bit mono PCM.
func writeHeader(w io.Writer, dataSize int, format pcm.Format) error {
	var hdr [44]byte
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], uint32(36+dataSize))
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // linear PCM
	binary.LittleEndian.PutUint16(hdr[22:24], uint16(format.Channels()))
	binary.LittleEndian.PutUint32(hdr[24:28], uint32(format.SampleRate()))
	binary.LittleEndian.PutUint32(hdr[28:32], uint32(format.BytesRate()))
	binary.LittleEndian.PutUint16(hdr[32:34], uint16(format.Channels()*format.Depth()/8))
	binary.LittleEndian.PutUint16(hdr[34:36], uint16(format.Depth()))
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], uint32(dataSize))
	_, err := w.Write(hdr[:])
	return err
}
