package dnonce

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"math/big"
)

// SeedLen is the required length for both generator seed inputs and the
// length of every generator output.
const SeedLen = 32

var (
	// ErrKeyLength is returned when the private key seed is not 32 bytes.
	ErrKeyLength = errors.New("private key has to be 32 bytes long")
	// ErrHashLength is returned when the message hash seed is not 32 bytes.
	ErrHashLength = errors.New("hash has to be 32 bytes long")
	// ErrExtraEmpty is returned for a hedged generator with no extra input.
	ErrExtraEmpty = errors.New("extra input must not be empty")
	// ErrOrderBits is returned for scalar derivation against an order that
	// is not 256 bits.
	ErrOrderBits = errors.New("order must be 256 bits")
)

// Generator is the RFC 6979 HMAC-SHA256 deterministic nonce generator. The
// two seed inputs are read once at construction; all subsequent output is a
// function of the evolved V/K chain state only. A Generator is single owner
// mutable state, callers that share one must synchronise externally.
type Generator struct {
	v [sha256.Size]byte
	k [sha256.Size]byte
}

// NewGenerator seeds a generator from a 32 byte private key and a 32 byte
// message hash per RFC 6979 section 3.2 steps b-g. The hash is mixed in raw,
// without the bits2octets reduction. That matches the seeding btcec and the
// common hardware wallet implementations use, and is identical to the RFC
// whenever the hash value is below the curve order, which holds for every
// published test vector.
func NewGenerator(key, hash []byte) (*Generator, error) {
	return newGenerator(key, hash, nil)
}

// NewHedgedGenerator seeds a generator with additional entropy per the
// variant in RFC 6979 section 3.6: extra is appended to both HMAC seeding
// steps. Identical (key, hash, extra) triples still yield identical output
// sequences.
func NewHedgedGenerator(key, hash, extra []byte) (*Generator, error) {
	if len(extra) == 0 {
		return nil, ErrExtraEmpty
	}
	return newGenerator(key, hash, extra)
}

func newGenerator(key, hash, extra []byte) (*Generator, error) {

	if len(key) != SeedLen {
		return nil, ErrKeyLength
	}
	if len(hash) != SeedLen {
		return nil, ErrHashLength
	}

	g := &Generator{}

	// b. V = 0x01 ... 0x01, c. K = 0x00 ... 0x00
	for i := range g.v {
		g.v[i] = 0x01
	}

	// d. K = HMAC_K(V || 0x00 || key || hash || extra)
	g.k = macSum(g.k[:], g.v[:], []byte{0x00}, key, hash, extra)
	// e. V = HMAC_K(V)
	g.v = macSum(g.k[:], g.v[:])
	// f. K = HMAC_K(V || 0x01 || key || hash || extra)
	g.k = macSum(g.k[:], g.v[:], []byte{0x01}, key, hash, extra)
	// g. V = HMAC_K(V)
	g.v = macSum(g.k[:], g.v[:])

	return g, nil
}

// Next returns the next 32 bytes of deterministic pseudorandom output in a
// freshly allocated buffer. Outputs are the successive candidate values of
// RFC 6979 section 3.2 step h: the chain is re-keyed after every emit, so
// one instance never repeats itself while two instances seeded identically
// emit identical sequences.
func (g *Generator) Next() []byte {

	g.v = macSum(g.k[:], g.v[:])

	out := make([]byte, SeedLen)
	copy(out, g.v[:])

	g.k = macSum(g.k[:], g.v[:], []byte{0x00})
	g.v = macSum(g.k[:], g.v[:])

	return out
}

// NextScalar draws outputs until one lies in [1, q-1] and returns it as an
// integer. q must be a 256 bit order so that each 32 byte output is itself a
// candidate (the bits2int step is the identity).
func (g *Generator) NextScalar(q *big.Int) (*big.Int, error) {

	if q == nil || q.BitLen() != 256 {
		return nil, ErrOrderBits
	}

	for {
		k := new(big.Int).SetBytes(g.Next())
		if k.Sign() > 0 && k.Cmp(q) < 0 {
			return k, nil
		}
	}
}

// macSum computes HMAC-SHA256 over the concatenation of the parts. nil parts
// are skipped so the hedged and plain seeding paths share it.
func macSum(key []byte, parts ...[]byte) [sha256.Size]byte {
	mac := hmac.New(sha256.New, key)
	for _, p := range parts {
		if p == nil {
			continue
		}
		mac.Write(p)
	}
	var sum [sha256.Size]byte
	copy(sum[:], mac.Sum(nil))
	return sum
}
