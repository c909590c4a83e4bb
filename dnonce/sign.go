package dnonce

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"math/big"
)

// SignDigest produces a deterministic ECDSA signature over a 32 byte digest,
// with the nonce derived per RFC 6979. It works for any curve with a 256 bit
// order (P-256, secp256k1). The returned (r, s) pair is exactly what the RFC
// derivation yields: s is NOT normalised to the low half of the order, so
// output matches the RFC test vectors bit for bit. Use SignRecoverable for
// the canonical compact form.
func SignDigest(curve elliptic.Curve, key *ecdsa.PrivateKey, digest []byte) (*big.Int, *big.Int, error) {
	r, s, _, err := signDigest(curve, key, digest)
	return r, s, err
}

// SignRecoverable produces a 65 byte [R || S || V] deterministic signature.
// S is canonicalised to the low half of the order (see SmallS in the
// secp256k1 suite for why the world settled on that) and V is the public key
// recovery index, adjusted when S is negated.
func SignRecoverable(curve elliptic.Curve, key *ecdsa.PrivateKey, digest []byte) ([]byte, error) {

	r, s, v, err := signDigest(curve, key, digest)
	if err != nil {
		return nil, err
	}

	q := curve.Params().N
	halfQ := new(big.Int).Rsh(q, 1)

	// s == halfQ is canonical, only the strictly larger value is replaced
	if s.Cmp(halfQ) > 0 {
		s = new(big.Int).Sub(q, s)
		v ^= 1
	}

	sig := make([]byte, 65)
	ReadBits(r, sig[:32])
	ReadBits(s, sig[32:64])
	sig[64] = v
	return sig, nil
}

func signDigest(curve elliptic.Curve, key *ecdsa.PrivateKey, digest []byte) (*big.Int, *big.Int, byte, error) {

	if len(digest) != HashLen {
		return nil, nil, 0, fmt.Errorf("bad digest len %d, require 32", len(digest))
	}

	q := curve.Params().N
	if q.BitLen() != 256 {
		return nil, nil, 0, ErrOrderBits
	}

	// encode the private key as a fixed width big endian slice of bytes
	d := make([]byte, SeedLen)
	ReadBits(key.D, d)

	g, err := NewGenerator(d, digest)
	if err != nil {
		return nil, nil, 0, err
	}

	return signK(curve, key, digest, g)
}

// signK runs the SEC 1 signing equation drawing nonces from g until both r
// and s are non zero. The generator advances on every draw, so a rejected
// candidate never recurs.
func signK(curve elliptic.Curve, key *ecdsa.PrivateKey, digest []byte, g *Generator) (*big.Int, *big.Int, byte, error) {

	q := curve.Params().N
	e := new(big.Int).SetBytes(digest)

	for {
		k, err := g.NextScalar(q)
		if err != nil {
			return nil, nil, 0, err
		}

		kb := make([]byte, SeedLen)
		ReadBits(k, kb)

		x, y := curve.ScalarBaseMult(kb)

		r := new(big.Int).Mod(x, q)
		if r.Sign() == 0 {
			continue
		}

		// recovery index: parity of R.Y, +2 in the (negligible) case the
		// reduction x mod q wrapped
		v := byte(y.Bit(0))
		if x.Cmp(q) >= 0 {
			v |= 2
		}

		// s = k^-1 (e + r d) mod q
		s := new(big.Int).Mul(key.D, r)
		s.Add(s, e)
		s.Mul(s, new(big.Int).ModInverse(k, q))
		s.Mod(s, q)
		if s.Sign() == 0 {
			continue
		}

		return r, s, v, nil
	}
}
