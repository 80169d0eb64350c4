package cats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/toolbox/astro"
	"github.com/phil-mansfield/toolbox/math/rand"
)

type row struct {
	name    string
	ra, dec float64
}

func (r row) Position() astro.SkyCoord { return astro.SkyCoord{RA: r.ra, Dec: r.dec} }

// bruteNearest is the O(n) reference for MatchCoordinates.
func bruteNearest(c astro.SkyCoord, cat []astro.SkyCoord) (int, float64) {
	best, bestSep := -1, math.Inf(1)
	for j := range cat {
		sep := astro.AngSep(c.RA, c.Dec, cat[j].RA, cat[j].Dec, astro.Radian)
		if sep < bestSep {
			best, bestSep = j, sep
		}
	}
	return best, bestSep
}

func TestMatchCoordinatesSimple(t *testing.T) {
	cat := []astro.SkyCoord{{RA: 10, Dec: 10}, {RA: 20, Dec: -5}, {RA: 30, Dec: 45}, {RA: 359.99, Dec: 0}}
	match := []astro.SkyCoord{
		{RA: 20.002, Dec: -5.001}, // 8 arcsec from 1
		{RA: 100, Dec: 0},         // nothing nearby
		{RA: 0.0001, Dec: 0},      // close to 3 across RA = 0
		{RA: 10, Dec: 10.0005},    // 1.8 arcsec from 0
	}

	m := MatchCoordinates(match, cat, 2.0, astro.Arcsec)
	assert.Equal(t, []bool{false, false, false, true}, m.Mask)

	m = MatchCoordinates(match, cat, 60, astro.Arcsec)
	assert.Equal(t, []bool{true, false, true, true}, m.Mask)
	assert.Equal(t, []int{1, 3, 0}, m.Idx)
	require.Len(t, m.Sep, 3)
	assert.InDelta(t, 1.8, m.Sep[2], 1e-3)
	assert.InDelta(t, astro.AngSep(0.0001, 0, 359.99, 0, astro.Arcsec),
		m.Sep[1], 1e-9)
	assert.Equal(t, 3, m.Len())

	m = MatchCoordinates(match, cat, 1.0/60, astro.Degree)
	assert.Equal(t, []bool{true, false, true, true}, m.Mask)
}

func TestMatchCoordinatesStrict(t *testing.T) {
	cat := []astro.SkyCoord{{RA: 0, Dec: 0}}
	sep := astro.AngSep(0, 0, 0, 1, astro.Arcmin)
	m := MatchCoordinates([]astro.SkyCoord{{RA: 0, Dec: 1}}, cat, sep, astro.Arcmin)
	assert.False(t, m.Mask[0], "separations equal to maxSep do not match")
}

func TestMatchCoordinatesEmpty(t *testing.T) {
	m := MatchCoordinates([]astro.SkyCoord{{RA: 1, Dec: 1}, {RA: 2, Dec: 2}}, nil, 10, astro.Degree)
	assert.Equal(t, []bool{false, false}, m.Mask)
	assert.Empty(t, m.Idx)
	assert.Empty(t, m.Sep)

	m = MatchCoordinates(nil, []astro.SkyCoord{{RA: 1, Dec: 1}}, 10, astro.Degree)
	assert.Empty(t, m.Mask)
}

func TestMatchCoordinatesRandom(t *testing.T) {
	gen := rand.New(rand.Xorshift, 1337)
	randomCoords := func(n int) []astro.SkyCoord {
		cs := make([]astro.SkyCoord, n)
		for i := range cs {
			ra := gen.Uniform(0, 360)
			dec := math.Asin(gen.Uniform(-1, 1)) * 180 / math.Pi
			cs[i] = astro.SkyCoord{RA: ra, Dec: dec}
		}
		return cs
	}

	cat, match := randomCoords(500), randomCoords(200)
	m := MatchCoordinates(match, cat, math.Pi, astro.Radian)

	require.Equal(t, len(match), m.Len(), "everything matches within pi")
	for i := range match {
		j, sep := bruteNearest(match[i], cat)
		assert.Equal(t, j, m.Idx[i], "coordinate %d", i)
		assert.InDelta(t, sep, m.Sep[i], 1e-12, "coordinate %d", i)
	}
}

func TestCrossmatch(t *testing.T) {
	t1 := []row{{"a", 10, 10}, {"b", 50, 50}, {"c", 200, -20}}
	t2 := []row{{"C", 200.0001, -20}, {"X", 120, 0}, {"A", 10, 10.0001}}

	m1, m2, sep := Crossmatch(t1, t2, 1, astro.Arcsec)
	require.Len(t, m1, 2)
	require.Len(t, m2, 2)
	require.Len(t, sep, 2)
	assert.Equal(t, "a", m1[0].name)
	assert.Equal(t, "A", m2[0].name)
	assert.Equal(t, "c", m1[1].name)
	assert.Equal(t, "C", m2[1].name)
	assert.InDelta(t, 0.36, sep[0], 1e-3)
}
