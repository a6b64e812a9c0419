package engine

import (
	"encoding/binary"

	"lukechampine.com/frand"
)

// Rand is the randomness used for tile spawns and randomized strategies
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// NewRand returns a fast, randomly seeded generator. It is not safe for concurrent use.
func NewRand() Rand {
	return frand.New()
}

// NewSeededRand returns a deterministic generator for reproducible runs
func NewSeededRand(seed uint64) Rand {
	key := make([]byte, 32)
	for i := 0; i < 4; i++ {
		binary.LittleEndian.PutUint64(key[i*8:], seed+uint64(i))
	}
	return frand.NewCustom(key, 1024, 12)
}
