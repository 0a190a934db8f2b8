package voiceprint

import (
	"encoding/hex"
	"math"
	"math/rand/v2"
)

// FingerprintSeed is the fixed hyperplane seed used for profile
// fingerprints, so hashes stay stable across process restarts.
const FingerprintSeed = 0x76636c71 // "vclq"

// Hasher projects embedding vectors into compact locality-sensitive hashes
// using random hyperplane LSH.
//
// Each hash is a hex string whose length depends on the configured bit
// count; 16 bits yields 4 hex chars (e.g. "A3F8"). Similar embeddings tend
// to fall on the same side of the random hyperplanes and so produce
// identical or nearly identical hashes. Truncating the string gives
// coarser matches (prefix = fuzzier).
type Hasher struct {
	dim    int
	bits   int
	planes [][]float32 // bits × dim, each row is a unit hyperplane
}

// NewHasher creates a Hasher with the given embedding dimension and output
// bit count. The bits parameter must be a positive multiple of 4 (for
// clean hex encoding). The seed controls the random hyperplanes; use a
// fixed seed for reproducible hashes across restarts.
func NewHasher(dim, bits int, seed uint64) *Hasher {
	if bits <= 0 || bits%4 != 0 {
		panic("voiceprint: bits must be a positive multiple of 4")
	}
	if dim <= 0 {
		panic("voiceprint: dim must be positive")
	}

	rng := rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
	planes := make([][]float32, bits)
	for i := range planes {
		plane := make([]float32, dim)
		// Sample from standard normal distribution then normalize.
		var norm float64
		for j := range plane {
			v := float32(rng.NormFloat64())
			plane[j] = v
			norm += float64(v) * float64(v)
		}
		norm = math.Sqrt(norm)
		if norm > 0 {
			scale := float32(1.0 / norm)
			for j := range plane {
				plane[j] *= scale
			}
		}
		planes[i] = plane
	}
	return &Hasher{dim: dim, bits: bits, planes: planes}
}

// Hash projects an embedding vector into a hex hash string.
// The input must have length equal to the hasher's dimension.
// Returns an uppercase hex string of length bits/4.
func (h *Hasher) Hash(embedding []float32) string {
	if len(embedding) != h.dim {
		panic("voiceprint: embedding dimension mismatch")
	}

	nBytes := h.bits / 8
	if h.bits%8 != 0 {
		nBytes++
	}
	hashBytes := make([]byte, nBytes)

	for i, plane := range h.planes {
		var dot float32
		for j := range plane {
			dot += plane[j] * embedding[j]
		}
		if dot > 0 {
			hashBytes[i/8] |= 1 << (7 - uint(i%8))
		}
	}

	// Encode as uppercase hex and truncate to the exact nibble count.
	full := hex.EncodeToString(hashBytes)
	nNibbles := h.bits / 4
	result := make([]byte, nNibbles)
	for i := 0; i < nNibbles; i++ {
		c := full[i]
		if c >= 'a' && c <= 'f' {
			c -= 'a' - 'A'
		}
		result[i] = c
	}
	return string(result)
}

// Bits returns the number of hash bits.
func (h *Hasher) Bits() int { return h.bits }

// Dim returns the expected embedding dimension.
func (h *Hasher) Dim() int { return h.dim }

// Fingerprint hashes an embedding with the engine's fixed-seed 16-bit
// hasher, producing the short voice label stored in profile metadata.
func Fingerprint(embedding []float32) string {
	return NewHasher(len(embedding), 16, FingerprintSeed).Hash(embedding)
}
