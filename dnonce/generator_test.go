package dnonce

import (
	"bytes"
	"crypto/elliptic"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"testing"

	"gotest.tools/assert"
)

// RFC 6979 appendix A.2.5, P-256 with SHA-256. The private key x doubles as
// the raw 32 byte generator seed and the expected k values are the first
// generator outputs for the corresponding message digests.
const vectorKeyHex = "c9afa9d845ba75166b5c215767b1d6934e50c3db36e89b127b8a622b120f6721"

var nonceVectors = []struct {
	msg string
	k   string
}{
	{"sample", "a6e3c57dd01abe90086538398355dd4c3b17aa873382b0f24d6129493d8aad60"},
	{"test", "d16b6ae827f17175e040871a1c7ec3500192c4c92677336ec2537acaee0008e0"},
}

func vectorKey(t *testing.T) []byte {
	key, err := hex.DecodeString(vectorKeyHex)
	assert.NilError(t, err)
	return key
}

func TestVectorsP256SHA256(t *testing.T) {

	key := vectorKey(t)

	for _, v := range nonceVectors {

		hash := sha256.Sum256([]byte(v.msg))

		g, err := NewGenerator(key, hash[:])
		assert.NilError(t, err)

		assert.Equal(t, hex.EncodeToString(g.Next()), v.k, "msg %q", v.msg)
	}
}

func TestDeterministicSequences(t *testing.T) {

	key := vectorKey(t)
	hash := sha256.Sum256([]byte("sample"))

	g1, err := NewGenerator(key, hash[:])
	assert.NilError(t, err)
	g2, err := NewGenerator(key, hash[:])
	assert.NilError(t, err)

	for i := 0; i < 16; i++ {
		assert.DeepEqual(t, g1.Next(), g2.Next())
	}
}

func TestOutputsDistinct(t *testing.T) {

	key := vectorKey(t)
	hash := sha256.Sum256([]byte("sample"))

	g, err := NewGenerator(key, hash[:])
	assert.NilError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 64; i++ {
		out := hex.EncodeToString(g.Next())
		assert.Assert(t, !seen[out], "output %d repeated", i)
		seen[out] = true
	}
}

func TestAvalanche(t *testing.T) {

	key := vectorKey(t)
	hash := sha256.Sum256([]byte("sample"))

	g, err := NewGenerator(key, hash[:])
	assert.NilError(t, err)
	base := g.Next()

	// flipping any single bit of either seed input must change the first
	// output
	for _, flip := range []struct {
		key  bool
		at   int
		mask byte
	}{
		{true, 0, 0x01},
		{true, 31, 0x80},
		{false, 0, 0x01},
		{false, 31, 0x80},
	} {
		k := append([]byte{}, key...)
		h := append([]byte{}, hash[:]...)
		if flip.key {
			k[flip.at] ^= flip.mask
		} else {
			h[flip.at] ^= flip.mask
		}

		g, err := NewGenerator(k, h)
		assert.NilError(t, err)
		assert.Assert(t, !bytes.Equal(base, g.Next()),
			"bit flip key=%v at=%d did not change the output", flip.key, flip.at)
	}
}

func TestSeedLengths(t *testing.T) {

	good := make([]byte, 32)

	for _, n := range []int{0, 1, 31, 33, 64} {
		bad := make([]byte, n)

		_, err := NewGenerator(bad, good)
		assert.Assert(t, errors.Is(err, ErrKeyLength), "key len %d", n)

		_, err = NewGenerator(good, bad)
		assert.Assert(t, errors.Is(err, ErrHashLength), "hash len %d", n)

		// both invalid reports the key first
		_, err = NewGenerator(bad, bad)
		assert.Assert(t, errors.Is(err, ErrKeyLength), "both bad, len %d", n)
	}
}

func TestHedgedSeeding(t *testing.T) {

	key := vectorKey(t)
	hash := sha256.Sum256([]byte("sample"))

	_, err := NewHedgedGenerator(key, hash[:], nil)
	assert.Assert(t, errors.Is(err, ErrExtraEmpty))

	plain, err := NewGenerator(key, hash[:])
	assert.NilError(t, err)

	h1, err := NewHedgedGenerator(key, hash[:], []byte("entropy"))
	assert.NilError(t, err)
	h2, err := NewHedgedGenerator(key, hash[:], []byte("entropy"))
	assert.NilError(t, err)

	first := h1.Next()
	assert.Assert(t, !bytes.Equal(first, plain.Next()))
	assert.DeepEqual(t, first, h2.Next())
}

func TestNextScalar(t *testing.T) {

	key := vectorKey(t)
	hash := sha256.Sum256([]byte("sample"))

	g, err := NewGenerator(key, hash[:])
	assert.NilError(t, err)

	_, err = g.NextScalar(big.NewInt(12345))
	assert.Assert(t, errors.Is(err, ErrOrderBits))

	q := elliptic.P256().Params().N
	k, err := g.NextScalar(q)
	assert.NilError(t, err)
	assert.Assert(t, k.Sign() > 0)
	assert.Assert(t, k.Cmp(q) < 0)
}
