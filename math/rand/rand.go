/*package rand provides small, seedable pseudo random number generators.

Here are some usage examples for these generators.

	// Generate a single value
	gen := New(Xorshift, 1337)
	x := gen.Uniform(3, 7)

	// Multiple random floats (faster)
	xs := make([]float64, 100)
	gen.UniformAt(3, 7, xs)

	// Random int
	y := gen.UniformInt(3, 7)

	// Draw 1000 indices in [0, n) with replacement
	idx := gen.Choice(n, 1000)

Two types of generators are provided. The first is Xorshift, which is very
fast and whose output for a given seed will never change between releases.
The second is Golang, a wrapper around the standard library's PCG generator.
*/
package rand

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// generatorBackend is an interface which is used by the generators to supply
// the functionality needed for top-level functions like Uniform().
type generatorBackend interface {
	Init(seed uint64)
	Next() float64
	NextSequence(target []float64)
}

// Generator is a random number generator. A Generator is not safe for
// concurrent use.
type Generator struct {
	backend generatorBackend
}

// GeneratorType is a flag used to indicate the desired algorithm for a
// random number generator.
type GeneratorType uint8

const (
	Xorshift GeneratorType = iota
	Golang
)

func (gt GeneratorType) String() string {
	switch gt {
	case Xorshift:
		return "Xorshift"
	case Golang:
		return "Golang"
	}
	return fmt.Sprintf("GeneratorType(%d)", uint8(gt))
}

// ParseGeneratorType converts a case-insensitive generator name, "xorshift"
// or "golang", into a GeneratorType.
func ParseGeneratorType(s string) (GeneratorType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xorshift":
		return Xorshift, nil
	case "golang":
		return Golang, nil
	}
	return 0, fmt.Errorf("I don't recognize the random number generator "+
		"'%s'. Must be one of 'xorshift' or 'golang'.", s)
}

// NewTimeSeed returns a new random number generator that uses the current
// time as the seed.
func NewTimeSeed(gt GeneratorType) *Generator {
	return New(gt, uint64(time.Now().UnixNano()))
}

// New returns a new random number generator.
func New(gt GeneratorType, seed uint64) *Generator {
	var backend generatorBackend

	switch gt {
	case Xorshift:
		backend = new(xorshiftGenerator)
	case Golang:
		backend = new(golangGenerator)
	default:
		panic(fmt.Sprintf("Unrecognized GeneratorType %d.", uint8(gt)))
	}

	backend.Init(seed)
	return &Generator{backend}
}

// UniformInt returns an integer uniformly at random within in the
// range [low, high).
func (gen *Generator) UniformInt(low, high int) int {
	f := gen.backend.Next()
	return int(math.Floor(float64(high-low)*f + float64(low)))
}

// Uniform returns a float uniformly at random within the range [low, high).
func (gen *Generator) Uniform(low, high float64) float64 {
	if low == 0.0 && high == 1.0 {
		return gen.backend.Next()
	}
	return (gen.backend.Next() * (high - low)) + low
}

// UniformAt writes floats generated uniformly at random in the range
// [low, high) to every element in a target slice. This is generally faster
// than calling Uniform the corresponding number of times.
func (gen *Generator) UniformAt(low, high float64, target []float64) {
	gen.backend.NextSequence(target)
	if low == 0.0 && high == 1.0 {
		return
	}
	for i := range target {
		target[i] = target[i]*(high-low) + low
	}
}

// Choice draws k indices uniformly from [0, n) with replacement. An optional
// output slice of length k can be supplied to prevent unneeded heap
// allocations.
func (gen *Generator) Choice(n, k int, out ...[]int) []int {
	if n <= 0 {
		panic(fmt.Sprintf("Choice called with n = %d.", n))
	}

	var idx []int
	if len(out) > 0 {
		idx = out[0]
		if len(idx) != k {
			panic("Length of out does not equal k.")
		}
	} else {
		idx = make([]int, k)
	}

	for i := range idx {
		idx[i] = gen.UniformInt(0, n)
	}
	return idx
}
