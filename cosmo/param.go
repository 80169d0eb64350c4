/*package cosmo computes background cosmological quantities for flat-ish FRW
universes containing only matter and a cosmological constant.*/
package cosmo

import (
	"math"
)

const (
	// C is the speed of light in km/s.
	C = 2.99792458e5
	// G is Newton's constant in km^2 Mpc / (M_sun s^2).
	G = 4.302113488372941e-09
)

// Params is the set of parameters that define a cosmology. H100 is
// H0 / (100 km/s/Mpc).
type Params struct {
	H100, OmegaM, OmegaL float64
}

var (
	// WMAP9 is the WMAP nine-year cosmology, with OmegaL chosen so that the
	// universe is flat.
	WMAP9 = Params{H100: 0.693, OmegaM: 0.287, OmegaL: 1 - 0.287}
	// FlatLCDM70 is the generic H0 = 70, OmegaM = 0.3 flat cosmology.
	FlatLCDM70 = Params{H100: 0.7, OmegaM: 0.3, OmegaL: 0.7}
)

// HubbleFrac calculates h(z) = H(z)/H0. Here H(z) is from Hubble's Law,
// H(z)**2 + k (c/a)**2 = H0**2 h100**2 (OmegaR a**-4 + OmegaM a**-3 + OmegaL).
// Assumes k, r = 0. The result is NaN when the term under the square root is
// negative, which can only happen for z < -1.
func HubbleFrac(omegaM, omegaL, z float64) float64 {
	zp1 := 1.0 + z
	return math.Sqrt(omegaM*zp1*zp1*zp1 + omegaL)
}

// RhoCritical calculates the critical density of the universe in
// M_sun / Mpc^3. H0 is in km/s/Mpc. This shows up (among other places) in
// halo definitions and in the definitions of the omegas
// (OmegaFoo = pFoo / pCritical).
func RhoCritical(H0, omegaM, omegaL, z float64) float64 {
	H := H0 * HubbleFrac(omegaM, omegaL, z)
	return 3.0 * H * H / (8.0 * math.Pi * G)
}

// RhoAverage calculates the average density of matter in the universe in
// M_sun / Mpc^3.
func RhoAverage(H0, omegaM, omegaL, z float64) float64 {
	zp1 := 1.0 + z
	return RhoCritical(H0, omegaM, omegaL, 0) * omegaM * zp1 * zp1 * zp1
}
