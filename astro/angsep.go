package astro

import (
	"fmt"
	"math"

	"github.com/soniakeys/unit"
)

// SkyCoord is a position on the sky. Both fields are in degrees.
type SkyCoord struct {
	RA, Dec float64
}

// Vector returns the unit vector pointing towards c.
func (c SkyCoord) Vector() [3]float64 {
	sinRA, cosRA := math.Sincos(unit.AngleFromDeg(c.RA).Rad())
	sinDec, cosDec := math.Sincos(unit.AngleFromDeg(c.Dec).Rad())
	return [3]float64{cosDec * cosRA, cosDec * sinRA, sinDec}
}

// AngSep returns the great-circle separation between (ra1, dec1) and
// (ra2, dec2) in units of u. Inputs are in degrees. The result is NaN if u
// is not a valid Unit; AngSepAll reports the same case as ErrUnknownUnit.
//
// The Vincenty formula is used rather than the spherical law of cosines, so
// the result stays accurate for both tiny and nearly antipodal separations.
func AngSep(ra1, dec1, ra2, dec2 float64, u Unit) float64 {
	return vincenty(
		unit.AngleFromDeg(ra1), unit.AngleFromDeg(dec1),
		unit.AngleFromDeg(ra2), unit.AngleFromDeg(dec2),
	) * u.PerRadian()
}

// Sep returns the great-circle separation between two sky positions.
func Sep(a, b SkyCoord) unit.Angle {
	return unit.Angle(vincenty(
		unit.AngleFromDeg(a.RA), unit.AngleFromDeg(a.Dec),
		unit.AngleFromDeg(b.RA), unit.AngleFromDeg(b.Dec),
	))
}

// AngSepAll computes AngSep elementwise over four slices of the same
// length. An optional output slice of that length can be supplied to prevent
// unneeded heap allocations.
func AngSepAll(
	ra1, dec1, ra2, dec2 []float64, u Unit, out ...[]float64,
) ([]float64, error) {
	if !u.Valid() {
		return nil, fmt.Errorf("%w: %s", ErrUnknownUnit, u)
	}

	n := len(ra1)
	if len(dec1) != n || len(ra2) != n || len(dec2) != n {
		return nil, fmt.Errorf(
			"%w: len(ra1) = %d, len(dec1) = %d, len(ra2) = %d, len(dec2) = %d",
			ErrShape, len(ra1), len(dec1), len(ra2), len(dec2),
		)
	}

	var res []float64
	if len(out) == 0 {
		res = make([]float64, n)
	} else {
		res = out[0]
		if len(res) != n {
			return nil, fmt.Errorf("%w: len(out) = %d, but there are %d "+
				"coordinates", ErrShape, len(res), n)
		}
	}

	for i := range res {
		res[i] = AngSep(ra1[i], dec1[i], ra2[i], dec2[i], u)
	}
	return res, nil
}

// vincenty returns the separation in radians. It is within [0, pi] for all
// inputs because the first argument of Atan2 is non-negative.
func vincenty(ra1, dec1, ra2, dec2 unit.Angle) float64 {
	sinDRA, cosDRA := math.Sincos(ra2.Rad() - ra1.Rad())
	sinDec1, cosDec1 := math.Sincos(dec1.Rad())
	sinDec2, cosDec2 := math.Sincos(dec2.Rad())

	// The conversions keep the compiler from fusing these into FMAs, which
	// would leave a rounding residue for identical points.
	num1 := cosDec2 * sinDRA
	num2 := float64(cosDec1*sinDec2) - float64(sinDec1*cosDec2*cosDRA)
	denom := sinDec1*sinDec2 + cosDec1*cosDec2*cosDRA

	return math.Atan2(math.Sqrt(num1*num1+num2*num2), denom)
}
