/*package astro contains small routines for working with positions on the
sky.*/
package astro

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrUnknownUnit is returned when an angular unit name isn't recognized.
	ErrUnknownUnit = errors.New("astro: unknown angular unit")
	// ErrShape is returned when coordinate slices have different lengths.
	ErrShape = errors.New("astro: coordinate slices have different lengths")
)

// Unit is an angular unit that separations can be reported in.
type Unit int

const (
	Radian Unit = iota
	Degree
	Arcsec
	Arcmin
)

// DefaultUnit is the unit separations are reported in when none is given.
const DefaultUnit = Arcsec

// Arcseconds per radian, truncated to nine digits.
const radianArcsec = 206264.806

var unitNames = map[string]Unit{
	"radian": Radian,
	"degree": Degree,
	"arcsec": Arcsec,
	"arcmin": Arcmin,
}

// ParseUnit converts a unit name ("radian", "degree", "arcsec" or "arcmin")
// into a Unit. Names are case-insensitive.
func ParseUnit(s string) (Unit, error) {
	u, ok := unitNames[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("%w '%s': must be one of radian, degree, "+
			"arcsec, or arcmin", ErrUnknownUnit, s)
	}
	return u, nil
}

func (u Unit) String() string {
	switch u {
	case Radian:
		return "radian"
	case Degree:
		return "degree"
	case Arcsec:
		return "arcsec"
	case Arcmin:
		return "arcmin"
	}
	return fmt.Sprintf("Unit(%d)", int(u))
}

// PerRadian returns the number of u in one radian. It is NaN for values
// which aren't one of the defined units.
func (u Unit) PerRadian() float64 {
	switch u {
	case Radian:
		return 1.0
	case Degree:
		return 180 / math.Pi
	case Arcsec:
		return radianArcsec
	case Arcmin:
		return radianArcsec / 60
	}
	return math.NaN()
}

// Valid returns true if u is one of the defined units.
func (u Unit) Valid() bool { return u >= Radian && u <= Arcmin }

// Convert converts an angle x measured in from into units of to.
func Convert(x float64, from, to Unit) float64 {
	if from == to {
		return x
	}
	return x / from.PerRadian() * to.PerRadian()
}
