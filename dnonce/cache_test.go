package dnonce_test

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcec"
	"github.com/stretchr/testify/require"

	"github.com/NonceWorks/go-dnonce/dnonce"
	"github.com/NonceWorks/go-dnonce/secp256k1suite"
)

type TestLogger struct {
	t *testing.T
}

func (l *TestLogger) LazyValue(func() string) interface{} {
	return nil
}

func (l *TestLogger) log(msg string, ctx ...interface{}) {

	if len(ctx)%2 != 0 {
		panic("even number of context arguments required")
	}

	s := make([]string, 0, len(ctx)/2)

	for i := 0; i < len(ctx); i += 2 {
		s = append(s, fmt.Sprintf("%v=%v", ctx[i], ctx[i+1]))
	}

	l.t.Log(msg + " " + strings.Join(s, ", "))
}

func (l *TestLogger) Trace(msg string, ctx ...interface{}) { l.log(msg, ctx...) }
func (l *TestLogger) Debug(msg string, ctx ...interface{}) { l.log(msg, ctx...) }
func (l *TestLogger) Info(msg string, ctx ...interface{})  { l.log(msg, ctx...) }
func (l *TestLogger) Warn(msg string, ctx ...interface{})  { l.log(msg, ctx...) }
func (l *TestLogger) Crit(msg string, ctx ...interface{}) {
	l.log(msg, ctx...)
	panic("crit")
}

func cacheTestKey() (*btcec.PrivateKey, *btcec.PublicKey) {
	seed := sha256.Sum256([]byte("cache test key"))
	return btcec.PrivKeyFromBytes(btcec.S256(), seed[:])
}

func TestCachingSignerHits(t *testing.T) {

	require := require.New(t)

	suite := secp256k1suite.NewCipherSuite()
	priv, pub := cacheTestKey()

	cs, err := dnonce.NewCachingSigner(suite, priv.ToECDSA(), 0, &TestLogger{t: t})
	require.Nil(err)

	digest := suite.Keccak256([]byte("cached message"))

	sig1, err := cs.Sign(digest)
	require.Nil(err)
	sig2, err := cs.Sign(digest)
	require.Nil(err)

	require.Equal(sig1, sig2)
	require.Equal(uint64(1), cs.Hits())
	require.Equal(uint64(1), cs.Misses())

	require.True(suite.VerifySignature(pub.SerializeUncompressed(), digest, sig1[:64]))
}

func TestCachingSignerEviction(t *testing.T) {

	require := require.New(t)

	suite := secp256k1suite.NewCipherSuite()
	priv, _ := cacheTestKey()

	cs, err := dnonce.NewCachingSigner(suite, priv.ToECDSA(), 2, nil)
	require.Nil(err)

	d1 := suite.Keccak256([]byte("one"))
	first, err := cs.Sign(d1)
	require.Nil(err)

	for _, m := range []string{"two", "three", "four"} {
		_, err = cs.Sign(suite.Keccak256([]byte(m)))
		require.Nil(err)
	}

	// whether or not d1 survived eviction, determinism means the signature
	// cannot change
	again, err := cs.Sign(d1)
	require.Nil(err)
	require.Equal(first, again)
	require.Equal(uint64(5), cs.Hits()+cs.Misses(), "every call either hit or missed")
}

func TestCachingSignerBadDigest(t *testing.T) {

	suite := secp256k1suite.NewCipherSuite()
	priv, _ := cacheTestKey()

	cs, err := dnonce.NewCachingSigner(suite, priv.ToECDSA(), 0, nil)
	require.Nil(t, err)

	_, err = cs.Sign(make([]byte, 16))
	require.Error(t, err)
}
