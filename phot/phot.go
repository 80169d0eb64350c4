/*package phot converts between magnitudes, fluxes, and luminosities.
*/
package phot

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/phil-mansfield/toolbox/cosmo"
)

// ErrUnknownBand is returned when a band has no tabulated zero point.
var ErrUnknownBand = errors.New("phot: unknown band")

const (
	// ABZeroPoint is the AB magnitude of a source with a flux density of
	// 1 erg/s/Hz/cm^2.
	ABZeroPoint = 48.6
	// GalexNUVZeroPoint and GalexFUVZeroPoint convert GALEX count rates to
	// AB magnitudes.
	GalexNUVZeroPoint = 20.08
	GalexFUVZeroPoint = 18.82

	// Parsec in cm.
	Parsec = 3.0856775814913673e18
)

// bands lists the Solar absolute magnitudes in Johnson-Cousins UBVRI, 2MASS
// JHK, and SDSS ugriz (Binney & Merrifield; Willmer).
var bands = []struct {
	name string
	mag  float64
}{
	{"U", 5.61}, {"B", 5.48}, {"V", 4.83}, {"R", 4.42}, {"I", 4.08},
	{"J", 3.64}, {"H", 3.32}, {"K", 3.28},
	{"u", 6.75}, {"g", 5.33}, {"r", 4.67}, {"i", 4.48}, {"z", 4.42},
}

// Bands returns the names of the bands with known Solar magnitudes. Band
// names are case sensitive: "R" and "r" are different filters.
func Bands() []string {
	names := make([]string, len(bands))
	for i := range bands {
		names[i] = bands[i].name
	}
	return names
}

// SolarAbsMag returns the absolute magnitude of the Sun in the given band.
func SolarAbsMag(band string) (float64, error) {
	for i := range bands {
		if bands[i].name == band {
			return bands[i].mag, nil
		}
	}
	return math.NaN(), fmt.Errorf("%w: '%s' is not one of %s",
		ErrUnknownBand, band, strings.Join(Bands(), ", "))
}

// AbsMag converts an apparent magnitude to an absolute magnitude given the
// luminosity distance to the source in Mpc.
func AbsMag(mag, dL float64) float64 {
	return mag - 5*math.Log10(dL*1e6) + 5
}

// AbsMagZ converts an apparent magnitude to an absolute magnitude for a source
// at redshift z. If c is nil, a flat cosmology with H0 = 70 km/s/Mpc and
// OmegaM = 0.3 is used.
func AbsMagZ(mag, z float64, c *cosmo.Cosmology) (float64, error) {
	if c == nil {
		var err error
		if c, err = cosmo.FromParams(cosmo.FlatLCDM70); err != nil {
			return math.NaN(), err
		}
	}

	dL, err := c.DL(z)
	if err != nil {
		return math.NaN(), err
	}
	return AbsMag(mag, dL), nil
}

// AbsMagAll converts every apparent magnitude in mags using the matching
// redshift in zs. An optional output slice of the same length can be
// supplied to prevent unneeded heap allocations.
func AbsMagAll(
	mags, zs []float64, c *cosmo.Cosmology, out ...[]float64,
) ([]float64, error) {
	if len(mags) != len(zs) {
		return nil, fmt.Errorf("%w: %d magnitudes and %d redshifts",
			cosmo.ErrShape, len(mags), len(zs))
	}
	if c == nil {
		var err error
		if c, err = cosmo.FromParams(cosmo.FlatLCDM70); err != nil {
			return nil, err
		}
	}

	dLs, err := c.DLAll(zs, out...)
	if err != nil {
		return nil, err
	}
	for i := range dLs {
		dLs[i] = AbsMag(mags[i], dLs[i])
	}
	return dLs, nil
}

// LumSolar returns the luminosity of a source, in Solar luminosities, in the
// given band.
func LumSolar(absMag float64, band string) (float64, error) {
	sun, err := SolarAbsMag(band)
	if err != nil {
		return math.NaN(), err
	}
	return math.Pow(10, 0.4*(sun-absMag)), nil
}

// FnuFromABMag returns the flux density in erg/s/Hz/cm^2 of a source with
// the given AB magnitude.
func FnuFromABMag(mag float64) float64 {
	return math.Pow(10, (mag+ABZeroPoint)/-2.5)
}

// LnuFromABMag returns the luminosity density in erg/s/Hz of a source with
// the given absolute AB magnitude.
func LnuFromABMag(absMag float64) float64 {
	d := 10 * Parsec
	return 4 * math.Pi * d * d * FnuFromABMag(absMag)
}

// GalexMag converts a GALEX flux (counts per second) in the "NUV" or "FUV"
// band to an AB magnitude.
func GalexMag(flux float64, band string) (float64, error) {
	var zp float64
	switch strings.ToUpper(band) {
	case "NUV":
		zp = GalexNUVZeroPoint
	case "FUV":
		zp = GalexFUVZeroPoint
	default:
		return math.NaN(), fmt.Errorf("%w: '%s' is not a GALEX band",
			ErrUnknownBand, band)
	}
	return -2.5*math.Log10(flux) + zp, nil
}
