/*package display chooses display limits for astronomical images and renders
them to 8-bit grayscale.
*/
package display

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/phil-mansfield/toolbox/math/rand"
)

var (
	// ErrTooFewPixels is returned when there are not enough finite pixels
	// to fit the central part of the pixel distribution.
	ErrTooFewPixels = errors.New("display: too few finite pixels")
	// ErrContrast is returned for non-positive contrasts.
	ErrContrast = errors.New("display: contrast must be positive")
)

const (
	DefaultContrast = 0.25
	DefaultSamples  = 1000
	// Half-width of the central range of the sorted sample that the line is
	// fit to, as a fraction of the sample size.
	zscaleWidth = 0.25
	minPixels   = 4
)

type zscaleParams struct {
	contrast float64
	samples  int
	seed     uint64
	seeded   bool
	gen      rand.GeneratorType
}

type internalZScaleOption func(*zscaleParams)

// ZScaleOption is an optional parameter for ZScale.
type ZScaleOption internalZScaleOption

// Contrast sets the zscale contrast. Smaller contrasts give wider limits.
func Contrast(c float64) ZScaleOption {
	return func(p *zscaleParams) { p.contrast = c }
}

// Samples sets the number of pixels drawn from large images.
func Samples(n int) ZScaleOption {
	return func(p *zscaleParams) { p.samples = n }
}

// Seed fixes the seed used to draw pixel samples, making ZScale
// deterministic. Without it the generator is seeded from the clock.
func Seed(seed uint64) ZScaleOption {
	return func(p *zscaleParams) { p.seed, p.seeded = seed, true }
}

// Generator selects the algorithm used to draw pixel samples. The default is
// rand.Xorshift.
func Generator(gt rand.GeneratorType) ZScaleOption {
	return func(p *zscaleParams) { p.gen = gt }
}

func (p *zscaleParams) loadOptions(opts []ZScaleOption) {
	for _, opt := range opts {
		opt(p)
	}
}

// ZScale computes the IRAF zscale display limits of a set of pixels. If there
// are more finite pixels than Samples, a random subset is drawn (with
// replacement); otherwise every finite pixel is used. A line is fit to the
// middle half of the sorted values and its slope, divided by the contrast, is
// extrapolated from the median to give z1 and z2.
func ZScale(pixels []float64, opts ...ZScaleOption) (z1, z2 float64, err error) {
	p := &zscaleParams{
		contrast: DefaultContrast, samples: DefaultSamples, gen: rand.Xorshift,
	}
	p.loadOptions(opts)

	if !(p.contrast > 0) {
		return math.NaN(), math.NaN(), fmt.Errorf("%w: got %g",
			ErrContrast, p.contrast)
	} else if p.gen != rand.Xorshift && p.gen != rand.Golang {
		return math.NaN(), math.NaN(), fmt.Errorf("display: unknown "+
			"generator %s", p.gen)
	} else if p.samples < minPixels {
		return math.NaN(), math.NaN(), fmt.Errorf("%w: %d samples requested",
			ErrTooFewPixels, p.samples)
	}

	finite := make([]float64, 0, len(pixels))
	for _, x := range pixels {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			finite = append(finite, x)
		}
	}
	if len(finite) < minPixels {
		return math.NaN(), math.NaN(), fmt.Errorf("%w: %d of %d pixels "+
			"are finite", ErrTooFewPixels, len(finite), len(pixels))
	}

	sample := finite
	if len(finite) > p.samples {
		var gen *rand.Generator
		if p.seeded {
			gen = rand.New(p.gen, p.seed)
		} else {
			gen = rand.NewTimeSeed(p.gen)
		}
		idx := gen.Choice(len(finite), p.samples)
		sample = make([]float64, p.samples)
		for i, j := range idx {
			sample[i] = finite[j]
		}
	}
	slices.Sort(sample)

	n := len(sample)
	med := sample[n/2]
	lo := int((0.5 - zscaleWidth) * float64(n))
	hi := int((0.5 + zscaleWidth) * float64(n))

	x := make([]float64, hi-lo)
	floats.Span(x, float64(lo), float64(hi-1))
	_, slope := stat.LinearRegression(x, sample[lo:hi], nil, false)

	delta := (slope / p.contrast) * (float64(n)/2 - float64(n)*zscaleWidth)
	return med - delta, med + delta, nil
}
