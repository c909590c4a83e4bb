package dnonce

import (
	"crypto/ecdsa"
	"fmt"

	lru "github.com/hashicorp/golang-lru"
)

const (
	// default bound for the signature cache
	lruSignatures = 1024
)

// CachingSigner signs digests with a fixed key and suite, serving repeats
// from an ARC cache. Deterministic signing makes this sound: the signature
// is a pure function of (key, digest), so a cached entry can never go stale.
// Not safe for concurrent use without external synchronisation.
type CachingSigner struct {
	logger Logger

	suite CipherSuite
	key   *ecdsa.PrivateKey

	// here, one entry per distinct digest signed recently
	sigs *lru.ARCCache

	hits   uint64
	misses uint64
}

// NewCachingSigner creates a signer bounded to size cached signatures. A
// size <= 0 selects the default bound. logger may be nil.
func NewCachingSigner(c CipherSuite, key *ecdsa.PrivateKey, size int, logger Logger) (*CachingSigner, error) {

	if size <= 0 {
		size = lruSignatures
	}
	sigs, err := lru.NewARC(size)
	if err != nil {
		return nil, err
	}

	return &CachingSigner{logger: logger, suite: c, key: key, sigs: sigs}, nil
}

// NewConfiguredSigner creates a caching signer from a validated Config.
func NewConfiguredSigner(cfg *Config, c CipherSuite, key *ecdsa.PrivateKey, logger Logger) (*CachingSigner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewCachingSigner(c, key, int(cfg.SignatureCache), logger)
}

// Sign returns the deterministic signature for digest, from cache when the
// digest was signed recently. The caller owns the returned slice.
func (cs *CachingSigner) Sign(digest []byte) ([]byte, error) {

	if len(digest) != HashLen {
		return nil, fmt.Errorf("bad digest len %d, require 32", len(digest))
	}

	var d Hash
	copy(d[:], digest)

	if i, ok := cs.sigs.Get(d); ok {
		cs.hits++
		if cs.logger != nil {
			cs.logger.Trace("dnonce signature cache hit", "digest", d.Hex())
		}
		sig := i.([]byte) // panic if we have put the wrong type in the cache
		out := make([]byte, len(sig))
		copy(out, sig)
		return out, nil
	}

	sig, err := cs.suite.Sign(digest, cs.key)
	if err != nil {
		return nil, err
	}
	cs.misses++

	keep := make([]byte, len(sig))
	copy(keep, sig)
	cs.sigs.Add(d, keep)

	return sig, nil
}

// Hits reports how many Sign calls were served from the cache.
func (cs *CachingSigner) Hits() uint64 { return cs.hits }

// Misses reports how many Sign calls computed a fresh signature.
func (cs *CachingSigner) Misses() uint64 { return cs.misses }
