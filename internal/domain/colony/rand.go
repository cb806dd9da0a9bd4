package colony

import (
	"encoding"
	"fmt"
	"math/rand/v2"
)

// Rand is the randomness the engine draws from. *rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

// pcgRand keeps the PCG source reachable so its position can be persisted
// with the snapshot.
type pcgRand struct {
	*rand.Rand
	src *rand.PCG
}

func (r pcgRand) MarshalBinary() ([]byte, error) {
	return r.src.MarshalBinary()
}

func NewRand(seed uint64) Rand {
	src := rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)
	return pcgRand{Rand: rand.New(src), src: src}
}

// restoreRand resumes a persisted source. Snapshots without state fall back
// to a source seeded from fallback.
func restoreRand(state []byte, fallback uint64) (Rand, error) {
	if len(state) == 0 {
		return NewRand(fallback), nil
	}
	src := rand.NewPCG(0, 0)
	if err := src.UnmarshalBinary(state); err != nil {
		return nil, fmt.Errorf("rand state: %w", err)
	}
	return pcgRand{Rand: rand.New(src), src: src}, nil
}

func randState(r Rand) ([]byte, error) {
	m, ok := r.(encoding.BinaryMarshaler)
	if !ok {
		return nil, nil
	}
	return m.MarshalBinary()
}
