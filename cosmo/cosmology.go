package cosmo

import (
	"errors"
	"fmt"
	"math"

	"github.com/phil-mansfield/toolbox/astro"
	"github.com/phil-mansfield/toolbox/math/calc"
)

var (
	// ErrInvalidParams is returned by New when the cosmological parameters
	// are unphysical.
	ErrInvalidParams = errors.New("cosmo: invalid cosmological parameters")
	// ErrDomain is returned when a redshift lies outside the range where the
	// expansion history is defined.
	ErrDomain = errors.New("cosmo: redshift outside of domain")
	// ErrShape is returned when vectorized inputs have mismatched lengths.
	ErrShape = errors.New("cosmo: inputs have different lengths")
)

// Cosmology calculates common cosmological quantities for a fixed set of
// parameters. A Cosmology is read-only after construction, so a single
// instance may be shared between goroutines.
//
// No curvature term is included: E(z) only knows about matter and a
// cosmological constant, so distances are those of a flat universe even when
// OmegaM + OmegaL != 1.
type Cosmology struct {
	p      Params
	h0, dh float64
	quad   []calc.QuadOption
}

// Coord3D is the position of an object on the sky, in degrees, along with
// its redshift.
type Coord3D struct {
	RA, Dec, Z float64
}

type cosmoParams struct {
	rel   float64
	limit int
}

type internalOption func(*cosmoParams)

// Option configures the numerical behavior of a Cosmology.
type Option internalOption

// Tolerance sets the relative tolerance used when integrating distances.
func Tolerance(rel float64) Option {
	return func(p *cosmoParams) { p.rel = rel }
}

// MaxIntervals bounds the number of quadrature panels used per distance
// calculation. Integrals which need more panels fail with
// calc.ErrConvergence.
func MaxIntervals(n int) Option {
	return func(p *cosmoParams) { p.limit = n }
}

// New returns a Cosmology with the given H0 / (100 km/s/Mpc), matter density
// and dark energy density. An error is returned if h is not positive, if
// either density is negative or not finite, or if both densities are zero.
func New(h, omegaM0, omegaL0 float64, opts ...Option) (*Cosmology, error) {
	return FromParams(Params{H100: h, OmegaM: omegaM0, OmegaL: omegaL0}, opts...)
}

// FromParams is identical to New, but takes a Params struct.
func FromParams(p Params, opts ...Option) (*Cosmology, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}

	cp := &cosmoParams{rel: calc.DefaultRel, limit: calc.DefaultLimit}
	for _, opt := range opts {
		opt(cp)
	}
	if cp.rel <= 0 || math.IsNaN(cp.rel) {
		return nil, fmt.Errorf("%w: tolerance %g must be positive",
			ErrInvalidParams, cp.rel)
	} else if cp.limit < 1 {
		return nil, fmt.Errorf("%w: interval limit %d must be positive",
			ErrInvalidParams, cp.limit)
	}

	h0 := 100.0 * p.H100
	return &Cosmology{
		p:    p,
		h0:   h0,
		dh:   C / h0,
		quad: []calc.QuadOption{calc.Rel(cp.rel), calc.Limit(cp.limit)},
	}, nil
}

func (p Params) validate() error {
	switch {
	case !(p.H100 > 0) || math.IsInf(p.H100, 0):
		return fmt.Errorf("%w: h = %g must be positive", ErrInvalidParams, p.H100)
	case !(p.OmegaM >= 0) || math.IsInf(p.OmegaM, 0):
		return fmt.Errorf("%w: OmegaM = %g must be non-negative",
			ErrInvalidParams, p.OmegaM)
	case !(p.OmegaL >= 0) || math.IsInf(p.OmegaL, 0):
		return fmt.Errorf("%w: OmegaL = %g must be non-negative",
			ErrInvalidParams, p.OmegaL)
	case p.OmegaM == 0 && p.OmegaL == 0:
		return fmt.Errorf("%w: OmegaM and OmegaL cannot both be zero",
			ErrInvalidParams)
	}
	return nil
}

// Params returns the parameters c was constructed with.
func (c *Cosmology) Params() Params { return c.p }

// H0 returns the Hubble constant in km/s/Mpc.
func (c *Cosmology) H0() float64 { return c.h0 }

// DH returns the Hubble distance, c/H0, in Mpc.
func (c *Cosmology) DH() float64 { return c.dh }

// E returns the ratio of the Hubble parameter at redshift z to its present
// value. E is NaN when the expansion history is undefined at z.
func (c *Cosmology) E(z float64) float64 {
	return HubbleFrac(c.p.OmegaM, c.p.OmegaL, z)
}

// EAll evaluates E at every redshift in zs. An optional output slice of the
// same length can be supplied to prevent unneeded heap allocations.
func (c *Cosmology) EAll(zs []float64, out ...[]float64) ([]float64, error) {
	if len(out) > 0 && len(out[0]) != len(zs) {
		return nil, fmt.Errorf("%w: output has length %d, not %d",
			ErrShape, len(out[0]), len(zs))
	}

	res := outBuffer(len(zs), out)
	for i := range zs {
		res[i] = c.E(zs[i])
	}
	return res, nil
}

// RhoCrit returns the critical density at redshift z in M_sun / Mpc^3.
func (c *Cosmology) RhoCrit(z float64) float64 {
	return RhoCritical(c.h0, c.p.OmegaM, c.p.OmegaL, z)
}

// ComDist returns the line-of-sight comoving distance to redshift z in Mpc.
// The integral of 1/E from 0 to z is evaluated adaptively, so an error is
// returned when z < -1, when z isn't finite, or when the integral fails to
// converge.
func (c *Cosmology) ComDist(z float64) (float64, error) {
	if math.IsNaN(z) || math.IsInf(z, 0) || z < -1 {
		return math.NaN(), fmt.Errorf("%w: z = %g", ErrDomain, z)
	} else if z == 0 {
		return 0, nil
	}

	invE := func(zz float64) float64 { return 1.0 / c.E(zz) }
	integral, err := calc.Integrate(invE, 0, z, c.quad...)
	if err != nil {
		return math.NaN(), fmt.Errorf("comoving distance to z = %g: %w", z, err)
	}
	return c.dh * integral, nil
}

// ComDistAll evaluates ComDist at every redshift in zs, integrating each one
// independently. An optional output slice of the same length can be supplied
// to prevent unneeded heap allocations.
func (c *Cosmology) ComDistAll(zs []float64, out ...[]float64) ([]float64, error) {
	return c.distAll(zs, out, func(_, dc float64) float64 { return dc })
}

// DL returns the luminosity distance to redshift z in Mpc.
func (c *Cosmology) DL(z float64) (float64, error) {
	dc, err := c.ComDist(z)
	if err != nil {
		return math.NaN(), err
	}
	return dc * (1.0 + z), nil
}

// DLAll evaluates DL at every redshift in zs.
func (c *Cosmology) DLAll(zs []float64, out ...[]float64) ([]float64, error) {
	return c.distAll(zs, out, func(z, dc float64) float64 { return dc * (1 + z) })
}

// DA returns the angular diameter distance to redshift z in Mpc.
func (c *Cosmology) DA(z float64) (float64, error) {
	dc, err := c.ComDist(z)
	if err != nil {
		return math.NaN(), err
	}
	return dc / (1.0 + z), nil
}

// DAAll evaluates DA at every redshift in zs.
func (c *Cosmology) DAAll(zs []float64, out ...[]float64) ([]float64, error) {
	return c.distAll(zs, out, func(z, dc float64) float64 { return dc / (1 + z) })
}

// AngSize returns the angle, in radians, subtended by an object of physical
// size size (in Mpc) at redshift z.
func (c *Cosmology) AngSize(z, size float64) (float64, error) {
	da, err := c.DA(z)
	if err != nil {
		return math.NaN(), err
	}
	return math.Atan(size / da), nil
}

// ComSep returns the comoving separation in Mpc between two objects. The
// two line-of-sight distances and the angle between the objects are treated
// as a planar triangle, which is accurate for small angular separations.
func (c *Cosmology) ComSep(c1, c2 Coord3D) (float64, error) {
	dc1, err := c.ComDist(c1.Z)
	if err != nil {
		return math.NaN(), err
	}
	dc2, err := c.ComDist(c2.Z)
	if err != nil {
		return math.NaN(), err
	}
	theta := astro.AngSep(c1.RA, c1.Dec, c2.RA, c2.Dec, astro.Radian)
	return lawOfCosines(dc1, dc2, theta), nil
}

// ComSepAll evaluates ComSep pairwise over two slices of the same length.
func (c *Cosmology) ComSepAll(
	c1s, c2s []Coord3D, out ...[]float64,
) ([]float64, error) {
	if len(c1s) != len(c2s) {
		return nil, fmt.Errorf("%w: %d and %d coordinates",
			ErrShape, len(c1s), len(c2s))
	}
	if len(out) > 0 && len(out[0]) != len(c1s) {
		return nil, fmt.Errorf("%w: output has length %d, not %d",
			ErrShape, len(out[0]), len(c1s))
	}

	res := outBuffer(len(c1s), out)
	var err error
	for i := range c1s {
		if res[i], err = c.ComSep(c1s[i], c2s[i]); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (c *Cosmology) distAll(
	zs []float64, out [][]float64, f func(z, dc float64) float64,
) ([]float64, error) {
	if len(out) > 0 && len(out[0]) != len(zs) {
		return nil, fmt.Errorf("%w: output has length %d, not %d",
			ErrShape, len(out[0]), len(zs))
	}

	res := outBuffer(len(zs), out)
	for i, z := range zs {
		dc, err := c.ComDist(z)
		if err != nil {
			return nil, err
		}
		res[i] = f(z, dc)
	}
	return res, nil
}

func lawOfCosines(a, b, theta float64) float64 {
	sq := float64(a*a) + float64(b*b) - float64(2.0*a*b*math.Cos(theta))
	if sq < 0 {
		// Only reachable through rounding when the two points coincide.
		return 0
	}
	return math.Sqrt(sq)
}

func outBuffer(n int, out [][]float64) []float64 {
	if len(out) == 0 || len(out[0]) != n {
		return make([]float64, n)
	}
	return out[0]
}
