package dnonce

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
)

// Hash is a hash. We always work with 32 byte digests (Keccak256 or SHA-256)
type Hash [32]byte

// Address is the ethereum style right most 20 bytes of Keccak256 (pub.X || pub.Y )
type Address [20]byte

// CipherSuite abstracts the cryptographic primitives used by dnonce. It
// exists principally so that the core package carries no curve library
// dependency. Implementations are assumed to be EC secp256k1 + draft sha3,
// with Sign deriving its nonce deterministically. This interface does not
// allow for algorithmic agility of any kind.
type CipherSuite interface {
	Curve() elliptic.Curve

	// Keccak256 returns a digest suitable for Sign. (draft sha3 before the padding was added)
	Keccak256(b ...[]byte) []byte

	// Sign is given a digest to sign. The signature nonce is derived per
	// RFC 6979, so identical (digest, key) inputs produce identical
	// signatures.
	Sign(digest []byte, key *ecdsa.PrivateKey) ([]byte, error)

	// VerifySignature verifies
	VerifySignature(pub, digest, sig []byte) bool

	// Ecrecover a public key from a recoverable signature.
	Ecrecover(digest, sig []byte) ([]byte, error)
}

const (
	AddressLength = 20
	HashLen       = 32
)

const (
	// number of bits in a big.Word
	wordBits = 32 << (uint64(^big.Word(0)) >> 63)
	// number of bytes in a big.Word
	wordBytes = wordBits / 8
)

// ReadBits encodes the absolute value of bigint as big-endian bytes into buf.
// Callers must ensure buf has enough space, leading bytes are zero filled.
func ReadBits(bigint *big.Int, buf []byte) {
	i := len(buf)
	for _, d := range bigint.Bits() {
		for j := 0; j < wordBytes && i > 0; j++ {
			i--
			buf[i] = byte(d)
			d >>= 8
		}
	}
}

// PubMarshal converts public ecdsa key into the uncompressed form specified in section 4.3.6 of ANSI X9.62
func PubMarshal(c CipherSuite, pub *ecdsa.PublicKey) []byte {
	if pub == nil || pub.X == nil || pub.Y == nil {
		return nil
	}
	return elliptic.Marshal(c.Curve(), pub.X, pub.Y)
}

func Hex2Hash(s string) Hash {
	h := Hash{}
	if s[:2] == "0x" {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = s[:len(s)-1]
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		panic(err)
	}
	if len(b) > len(h) {
		copy(h[:], b[len(b)-HashLen:])
		return h
	}
	copy(h[:], b)
	return h
}

// Keccak256Hash hashes a variable number of byte slices and returns a Hash
func Keccak256Hash(c CipherSuite, b ...[]byte) Hash {
	h := Hash{}
	copy(h[:], c.Keccak256(b...))
	return h
}

func PubToAddress(c CipherSuite, pub *ecdsa.PublicKey) Address {
	m := PubMarshal(c, pub)
	b := c.Keccak256(m[1:])[12:]
	a := Address{}
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
	return a
}

// SignerIDBytesFromPub SignerID is Keccak256 (Pub.X || Pub.Y )
// In contexts where we have the id and a signature, we can recover the pub
// key of the signer using Ecrecover
func SignerIDBytesFromPub(c CipherSuite, pub *ecdsa.PublicKey) []byte {
	buf := make([]byte, 64)
	ReadBits(pub.X, buf[:32])
	ReadBits(pub.Y, buf[32:])
	return c.Keccak256(buf)
}

// SignerIDFromPubBytes gets a signer id from the bytes of an ecdsa public key
func SignerIDFromPubBytes(c CipherSuite, pub []byte) (Hash, error) {
	if len(pub) != 65 {
		return Hash{}, fmt.Errorf("raw pubkey must be 65 bytes long")
	}
	h := Hash{}
	copy(h[:], c.Keccak256(pub[1:]))
	return h, nil
}

// SignerIDFromPub gets a signer id from an ecdsa pub key
func SignerIDFromPub(c CipherSuite, pub *ecdsa.PublicKey) Hash {
	h := Hash{}
	copy(h[:], SignerIDBytesFromPub(c, pub))
	return h
}

// VerifySigner verifies if sig over digest was produced using the private key
// corresponding to signerID. We EC recover the public key from the digest and
// the signature and then compare the hash of the recovered public key with
// the signer ID. As the id is the hash of the signer's public key, this is
// equivelant to verification using the public key.
//
// Note: Use VerifyRecoverSigner if you want the err from Ecrecover rather
// than true/false
func VerifySigner(c CipherSuite, signerID Hash, digest, sig []byte) bool {

	recoveredPub, err := c.Ecrecover(digest, sig)
	if err != nil {
		return false
	}

	if !bytes.Equal(signerID[:], c.Keccak256(recoveredPub[1:65])) {
		return false
	}

	return true
}

func VerifyRecoverSigner(c CipherSuite, signerID Hash, digest, sig []byte) (bool, []byte, error) {

	recoveredPub, err := c.Ecrecover(digest, sig)
	if err != nil {
		return false, nil, err
	}

	if !bytes.Equal(signerID[:], c.Keccak256(recoveredPub[1:65])) {
		return false, recoveredPub, nil
	}
	return true, recoveredPub, nil
}

// RecoverPublic ...
func RecoverPublic(c CipherSuite, h []byte, sig []byte) (*ecdsa.PublicKey, error) {

	// Recover the public signing key bytes in uncompressed encoded form
	p, err := c.Ecrecover(h, sig)
	if err != nil {
		return nil, err
	}

	// re-build the public key for the private key used to sign the digest
	//
	// per 2.3.4 sec1-v2 for uncompresed representation "otherwise the leftmost
	// octet of the octetstring is removed"

	pub := &ecdsa.PublicKey{Curve: c.Curve(), X: new(big.Int), Y: new(big.Int)}
	pub.X.SetBytes(p[1 : 1+32])
	pub.Y.SetBytes(p[1+32 : 1+64])
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, errors.New("invalid secp256k1 curve point")
	}
	return pub, nil
}

func BytesToPublic(c CipherSuite, b []byte) (*ecdsa.PublicKey, error) {

	if len(b) != 65 {
		return nil, errors.New("pub must be 65 bytes")
	}

	pub := &ecdsa.PublicKey{Curve: c.Curve(), X: new(big.Int), Y: new(big.Int)}
	pub.X.SetBytes(b[1 : 1+32])
	pub.Y.SetBytes(b[1+32 : 1+64])
	if !pub.Curve.IsOnCurve(pub.X, pub.Y) {
		return nil, errors.New("invalid secp256k1 curve point")
	}
	return pub, nil
}

// Address gets an address from a hash
func (h Hash) Address() Address {
	a := Address{}
	copy(a[:], h[12:])
	return a
}

// Hex gets the hex string of the Hash
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// Hex gets the hex string for the Address
func (a Address) Hex() string {
	return hex.EncodeToString(a[:])
}

// SignerPub recovers the public key that signed h
func (h Hash) SignerPub(c CipherSuite, sig []byte) (*ecdsa.PublicKey, error) {
	return RecoverPublic(c, h[:], sig)
}

// SignerIDFromSig recovers the signers id from the signature
func (h Hash) SignerIDFromSig(c CipherSuite, sig []byte) (Hash, error) {
	pub, err := h.SignerPub(c, sig)
	if err != nil {
		return Hash{}, err
	}
	return SignerIDFromPub(c, pub), nil
}
