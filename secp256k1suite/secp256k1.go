package secp256k1suite

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
	"golang.org/x/crypto/sha3"

	"github.com/NonceWorks/go-dnonce/dnonce"
)

var (
	// groupOrderN "An ECDSA signature consists of two integers, called R and S. The
	// secp256k1 group order, called N, is a constant value for all secp256k1
	// signatures. Specifically, N is the value" -- https://xrpl.org/transaction-malleability.html
	groupOrderN = []byte(
		"\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFF\xFE\xBA\xAE\xDC\xE6\xAF\x48\xA0\x3B\xBF\xD2\x5E\x8C\xD0\x36\x41\x41")
	halfN = []byte(
		"\x7f\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\xff\x5d\x57\x6e\x73\x57\xa4\x50\x1d\xdf\xe9\x2f\x46\x68\x1b\x20\xa0")

	halfNbig = new(big.Int).SetBytes(halfN)
)

// NewCipherSuite returns the secp256k1 + draft sha3 CipherSuite
func NewCipherSuite() CipherSuite {
	return &SECP256k1Suite{}
}

func N() []byte {
	n := make([]byte, len(groupOrderN))
	copy(n, groupOrderN)
	return n
}

// SmallS checks that s is the 'canonical' of the two values satisfying the
// curve. See // https://yondon.blog/2019/01/01/how-not-to-use-ecdsa/ In short,
// for an ecdsa signature  [R, S] there are, due to curve symetry, two possible
// values of S that would otherwise pass EC verification. The world has chosen
// the smaller of the two possible values as 'canonical'. The half value is
// defined as canonical.
func SmallS(s *big.Int) bool {

	// If s is <= half the group order then it is NOT the larger. Note that s ==
	// halfN is canonical
	return s.Cmp(halfNbig) <= 0
}

// ToBTECSig moves the ec pub key recovery id from the front to the back of
// the slice. Sign produces [R, S, V] per the ECDSA standards while btcec
// compact recovery expects the header-first [V, R, S] layout with the
// magical ethereum offset of 27 applied.
//
// This funciton will panic if len(sig) < 65.
func ToBTECSig(rsv []byte) []byte {
	vrs := make([]byte, 65)
	vrs[0] = rsv[64] + 27
	copy(vrs[1:], rsv)
	return vrs
}

// FromBTECSig is vrs -> rsv (See ToBTECSig for background). This function
// modifies the argument slice in place.
func FromBTECSig(vrs []byte) {
	v := vrs[0] - 27
	copy(vrs, vrs[1:])
	vrs[64] = v // vrs is now rsv
}

type SECP256k1Suite struct{}

func (c *SECP256k1Suite) Curve() elliptic.Curve {
	return btcec.S256()
}

// Keccak256 returns a digest suitable for Sign. (draft sha3 before the padding was added)
func (c *SECP256k1Suite) Keccak256(image ...[]byte) []byte {
	hasher := sha3.NewLegacyKeccak256()
	for _, b := range image {
		hasher.Write(b)
	}
	return hasher.Sum(nil)
}

// Sign is given a digest to sign. The nonce is derived per RFC 6979 and the
// signature returned in 65 byte [R, S, V] form with canonical (small) S.
func (c *SECP256k1Suite) Sign(digest []byte, key *ecdsa.PrivateKey) ([]byte, error) {

	if len(digest) != 32 {
		return nil, fmt.Errorf("bad digest len %d, require 32", len(digest))
	}

	return dnonce.SignRecoverable(btcec.S256(), key, digest)
}

// VerifySignature verifies a 64 byte signature [R, S] format
func (c *SECP256k1Suite) VerifySignature(pub, digest, sig []byte) bool {
	if len(digest) != 32 {
		return false
	}
	if len(sig) != 64 {
		return false
	}

	// btcec does not check for malleiable signatures
	s := new(big.Int).SetBytes(sig[32:])
	if !SmallS(s) {
		return false
	}

	// make a btec format sig
	btsig := &btcec.Signature{
		R: new(big.Int).SetBytes(sig[:32]), S: s}

	btpub, err := btcec.ParsePubKey(pub, btcec.S256())
	if err != nil {
		return false
	}

	return btsig.Verify(digest, btpub)
}

// Ecrecover a public key from a recoverable signature.
func (c *SECP256k1Suite) Ecrecover(digest, sig []byte) ([]byte, error) {

	vrs := ToBTECSig(sig)

	btpub, _, err := btcec.RecoverCompact(btcec.S256(), vrs, digest)
	if err != nil {
		return nil, err
	}

	b := btpub.SerializeUncompressed()
	return b, err
}
