package display

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/phil-mansfield/toolbox/io"
)

type renderParams struct {
	maxSize int
	label   string
}

type internalRenderOption func(*renderParams)

// RenderOption is an optional parameter for Render.
type RenderOption internalRenderOption

// MaxSize shrinks rendered images so that neither side is longer than n
// pixels. Images which are already small enough are left alone.
func MaxSize(n int) RenderOption {
	return func(p *renderParams) { p.maxSize = n }
}

// Label writes text in the lower left corner of the rendered image.
func Label(text string) RenderOption {
	return func(p *renderParams) { p.label = text }
}

func (p *renderParams) loadOptions(opts []RenderOption) {
	for _, opt := range opts {
		opt(p)
	}
}

// Render maps img linearly onto 8-bit grayscale so that z1 is black and z2
// is white. Pixels outside [z1, z2] are clipped and NaN pixels are black. The
// first FITS row is the bottom row of the result.
func Render(img *io.Image, z1, z2 float64, opts ...RenderOption) *image.Gray {
	p := &renderParams{}
	p.loadOptions(opts)

	out := image.NewGray(image.Rect(0, 0, img.Width, img.Height))
	for y := 0; y < img.Height; y++ {
		row := out.Pix[(img.Height-1-y)*out.Stride:]
		for x := 0; x < img.Width; x++ {
			row[x] = stretch(img.At(x, y), z1, z2)
		}
	}

	if p.maxSize > 0 && (img.Width > p.maxSize || img.Height > p.maxSize) {
		out = shrink(out, p.maxSize)
	}
	if p.label != "" {
		drawLabel(out, p.label)
	}
	return out
}

func stretch(v, z1, z2 float64) uint8 {
	switch {
	case math.IsNaN(v) || v <= z1:
		return 0
	case v >= z2:
		return 255
	}
	return uint8(math.Round(255 * (v - z1) / (z2 - z1)))
}

func shrink(src *image.Gray, maxSize int) *image.Gray {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	scale := float64(maxSize) / float64(w)
	if h > w {
		scale = float64(maxSize) / float64(h)
	}
	dw := int(math.Max(1, math.Round(float64(w)*scale)))
	dh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewGray(image.Rect(0, 0, dw, dh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func drawLabel(img *image.Gray, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.Gray{Y: 255}),
		Face: face,
		Dot:  fixed.P(2, img.Bounds().Dy()-face.Descent-1),
	}
	d.DrawString(text)
}

// WritePNG writes img to fname as a PNG.
func WritePNG(fname string, img image.Image) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}

	if err = png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("could not encode '%s': %w", fname, err)
	}
	return f.Close()
}
