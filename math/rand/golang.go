package rand

import (
	"math/rand/v2"
)

// pcgIncrement is the second PCG seed word, fixed so a single uint64 seed
// picks the stream.
const pcgIncrement = 0xda3e39cb94b95bdb

// golangGenerator draws from the standard library's PCG source.
type golangGenerator struct {
	r *rand.Rand
}

func (gen *golangGenerator) Init(seed uint64) {
	gen.r = rand.New(rand.NewPCG(seed, pcgIncrement))
}

func (gen *golangGenerator) Next() float64 { return gen.r.Float64() }

func (gen *golangGenerator) NextSequence(target []float64) {
	for i := range target {
		target[i] = gen.r.Float64()
	}
}
