package dnonce

import (
	"encoding/binary"
	"fmt"
	"math/rand"
)

// DRNG is the sampling interface for non cryptographic deterministic
// randomness conditioned from generator output.
type DRNG interface {
	Intn(n int) int
	NumSamplesRead() int
}

type drng struct {
	r       *rand.Rand
	samples int
}

func (d *drng) Intn(n int) int {
	d.samples++
	return d.r.Intn(n)
}

func (d *drng) NumSamplesRead() int { return d.samples }

// ConditionSeed takes a 32 byte input and XOR's it into a single uint64
func ConditionSeed(seed []byte) (uint64, error) {
	if len(seed) != 32 {
		return 0, fmt.Errorf(
			"seed wrong length should be 32 not %d", len(seed))
	}

	// XOR combine the 32 byte seed into a single uint64 making it compatible
	// with rand.NewSource
	s := binary.LittleEndian.Uint64(seed[:8])
	for i := 1; i < 4; i++ {
		s ^= binary.LittleEndian.Uint64(seed[i*8 : i*8+8])
	}
	return s, nil
}

// SampleSource conditions the generator's next output into a math/rand
// source. The result is for sampling and shuffling only, it has none of the
// properties required of a signature nonce.
func SampleSource(g *Generator) (*rand.Rand, error) {
	seed, err := ConditionSeed(g.Next())
	if err != nil {
		return nil, err
	}
	return rand.New(rand.NewSource(int64(seed))), nil
}

// NewDRNG wraps SampleSource with a read counter.
func NewDRNG(g *Generator) (DRNG, error) {
	r, err := SampleSource(g)
	if err != nil {
		return nil, err
	}
	return &drng{r: r}, nil
}
