package dnonce

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"

	"github.com/vechain/go-ecvrf"
)

// Hedged nonces. The extra input permitted by RFC 6979 section 3.6 is drawn
// from a VRF over the message digest: deterministic for the key holder, yet
// anyone holding the proof can check the extra entropy was not chosen
// adversarially. The VRF key must be secp256k1.

// ProveExtra evaluates the VRF on the digest and returns the 32 byte output
// for use as generator extra input, along with the proof.
func ProveExtra(key *ecdsa.PrivateKey, digest []byte) ([]byte, []byte, error) {

	if len(digest) != HashLen {
		return nil, nil, ErrHashLength
	}

	vrf := ecvrf.NewSecp256k1Sha256Tai()
	beta, pi, err := vrf.Prove(key, digest)
	if err != nil {
		return nil, nil, fmt.Errorf("failed proving extra entropy: %v", err)
	}
	return beta, pi, nil
}

// VerifyExtra checks that extra is the VRF output of the key behind pub over
// digest.
func VerifyExtra(pub *ecdsa.PublicKey, digest, extra, proof []byte) error {

	vrf := ecvrf.NewSecp256k1Sha256Tai()
	beta, err := vrf.Verify(pub, digest, proof)
	if err != nil {
		return fmt.Errorf("extra entropy proof invalid: %v", err)
	}
	if !bytes.Equal(beta, extra) {
		return fmt.Errorf("extra entropy does not match proof")
	}
	return nil
}

// NewVerifiableGenerator builds a hedged generator whose extra input is the
// VRF output for the digest, returning the generator together with the extra
// entropy and its proof so third parties can audit the derivation.
func NewVerifiableGenerator(key *ecdsa.PrivateKey, digest []byte) (*Generator, []byte, []byte, error) {

	extra, proof, err := ProveExtra(key, digest)
	if err != nil {
		return nil, nil, nil, err
	}

	d := make([]byte, SeedLen)
	ReadBits(key.D, d)

	g, err := NewHedgedGenerator(d, digest, extra)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, extra, proof, nil
}
