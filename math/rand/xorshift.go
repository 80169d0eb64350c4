package rand

import (
	"math"
)

// xorshiftGenerator is Marsaglia's 128-bit xorshift generator.
type xorshiftGenerator struct {
	w, x, y, z uint32
}

func (gen *xorshiftGenerator) Init(seed uint64) {
	gen.x = 123456789
	gen.y = 362436069
	gen.z = 521288629
	// Fold in the high bits so they affect the stream.
	gen.w = uint32(seed) ^ uint32(seed>>32)
}

func (gen *xorshiftGenerator) next32() uint32 {
	t := gen.x ^ (gen.x << 11)
	gen.x, gen.y, gen.z = gen.y, gen.z, gen.w
	gen.w = gen.w ^ (gen.w >> 19) ^ (t ^ (t >> 8))
	return gen.w
}

// Next returns a value in [0, 1).
func (gen *xorshiftGenerator) Next() float64 {
	for {
		res := float64(math.MaxUint32-gen.next32()) / math.MaxUint32
		if res < 1.0 {
			return res
		}
	}
}

func (gen *xorshiftGenerator) NextSequence(target []float64) {
	for i := range target {
		target[i] = gen.Next()
	}
}
