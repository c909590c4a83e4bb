package secp256k1suite

import (
	"crypto/ecdsa"
	"crypto/elliptic"
)

// The curve primitives come from github.com/btcsuite/btcd/btcec (pure go, no
// cgo), while nonce derivation is done in this module so that the signature
// is deterministic regardless of how the curve library chooses its nonces.

type CipherSuite interface {
	Curve() elliptic.Curve

	// Keccak256 returns a digest suitable for Sign. (draft sha3 before the padding was added)
	Keccak256(b ...[]byte) []byte

	// Sign is given a digest to sign. The nonce is derived per RFC 6979.
	Sign(digest []byte, key *ecdsa.PrivateKey) ([]byte, error)

	// VerifySignature verifies
	VerifySignature(bub, digest, sig []byte) bool

	// Ecrecover a public key from a recoverable signature.
	Ecrecover(digest, sig []byte) ([]byte, error)
}
