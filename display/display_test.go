package display

import (
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/toolbox/io"
	"github.com/phil-mansfield/toolbox/math/rand"
)

func ramp(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}
	return xs
}

func TestZScaleRamp(t *testing.T) {
	z1, z2, err := ZScale(ramp(100))
	require.NoError(t, err)
	assert.InDelta(t, -50, z1, 1e-9)
	assert.InDelta(t, 150, z2, 1e-9)

	z1, z2, err = ZScale(ramp(100), Contrast(1))
	require.NoError(t, err)
	assert.InDelta(t, 25, z1, 1e-9)
	assert.InDelta(t, 75, z2, 1e-9)
}

func TestZScaleConstant(t *testing.T) {
	xs := []float64{7, 7, 7, 7, 7, 7}
	z1, z2, err := ZScale(xs)
	require.NoError(t, err)
	assert.InDelta(t, 7, z1, 1e-12)
	assert.InDelta(t, 7, z2, 1e-12)
}

func TestZScaleIgnoresNonFinite(t *testing.T) {
	xs := append(ramp(100), math.NaN(), math.Inf(1), math.Inf(-1))
	z1, z2, err := ZScale(xs)
	require.NoError(t, err)
	assert.InDelta(t, -50, z1, 1e-9)
	assert.InDelta(t, 150, z2, 1e-9)
}

func TestZScaleSampling(t *testing.T) {
	xs := ramp(10000)
	z1, z2, err := ZScale(xs, Seed(42))
	require.NoError(t, err)
	assert.InDelta(t, -5000, z1, 1500)
	assert.InDelta(t, 15000, z2, 1500)

	y1, y2, err := ZScale(xs, Seed(42))
	require.NoError(t, err)
	assert.Equal(t, z1, y1, "seeded calls are reproducible")
	assert.Equal(t, z2, y2)

	_, _, err = ZScale(xs, Samples(100))
	assert.NoError(t, err)
}

func TestZScaleGenerator(t *testing.T) {
	xs := ramp(10000)
	z1, z2, err := ZScale(xs, Seed(7), Generator(rand.Golang))
	require.NoError(t, err)
	assert.InDelta(t, -5000, z1, 1500)
	assert.InDelta(t, 15000, z2, 1500)

	y1, y2, err := ZScale(xs, Seed(7), Generator(rand.Golang))
	require.NoError(t, err)
	assert.Equal(t, z1, y1)
	assert.Equal(t, z2, y2)

	_, _, err = ZScale(xs, Generator(rand.GeneratorType(9)))
	assert.Error(t, err)
}

func TestZScaleErrors(t *testing.T) {
	_, _, err := ZScale([]float64{1, 2, math.NaN(), 4})
	assert.ErrorIs(t, err, ErrTooFewPixels)
	_, _, err = ZScale(nil)
	assert.ErrorIs(t, err, ErrTooFewPixels)
	_, _, err = ZScale(ramp(10), Samples(2))
	assert.ErrorIs(t, err, ErrTooFewPixels)
	_, _, err = ZScale(ramp(10), Contrast(0))
	assert.ErrorIs(t, err, ErrContrast)
	_, _, err = ZScale(ramp(10), Contrast(math.NaN()))
	assert.ErrorIs(t, err, ErrContrast)
}

func TestRender(t *testing.T) {
	img := &io.Image{Width: 2, Height: 2, Pixels: []float64{0, 1, 2, 3}}
	out := Render(img, 0, 3)
	assert.Equal(t, 2, out.Bounds().Dx())
	assert.Equal(t, 2, out.Bounds().Dy())

	// The first FITS row is at the bottom.
	assert.Equal(t, uint8(0), out.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(85), out.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(170), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(255), out.GrayAt(1, 0).Y)

	img.Pixels = []float64{math.NaN(), -10, 10, 1.5}
	out = Render(img, 0, 3)
	assert.Equal(t, uint8(0), out.GrayAt(0, 1).Y)
	assert.Equal(t, uint8(0), out.GrayAt(1, 1).Y)
	assert.Equal(t, uint8(255), out.GrayAt(0, 0).Y)
	assert.Equal(t, uint8(128), out.GrayAt(1, 0).Y)
}

func TestRenderDegenerateLimits(t *testing.T) {
	img := &io.Image{Width: 3, Height: 1, Pixels: []float64{1, 2, 3}}
	out := Render(img, 2, 2)
	assert.Equal(t, []uint8{0, 0, 255}, out.Pix[:3])
}

func TestRenderMaxSize(t *testing.T) {
	img := &io.Image{Width: 100, Height: 50, Pixels: ramp(5000)}
	out := Render(img, 0, 5000, MaxSize(10))
	assert.Equal(t, 10, out.Bounds().Dx())
	assert.Equal(t, 5, out.Bounds().Dy())

	out = Render(img, 0, 5000, MaxSize(200))
	assert.Equal(t, 100, out.Bounds().Dx())
}

func TestRenderLabel(t *testing.T) {
	img := &io.Image{Width: 40, Height: 20, Pixels: make([]float64, 800)}
	out := Render(img, 1, 2, Label("z"))

	lit := 0
	for _, y := range out.Pix {
		if y > 0 {
			lit++
		}
	}
	assert.Greater(t, lit, 0, "label was not drawn")
}

func TestWritePNG(t *testing.T) {
	img := &io.Image{Width: 4, Height: 3, Pixels: ramp(12)}
	fname := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, WritePNG(fname, Render(img, 0, 11)))

	f, err := os.Open(fname)
	require.NoError(t, err)
	defer f.Close()
	dec, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 4, dec.Bounds().Dx())
	assert.Equal(t, 3, dec.Bounds().Dy())

	assert.Error(t, WritePNG(filepath.Join(t.TempDir(), "no", "such", "dir.png"),
		Render(img, 0, 11)))
}
