/*package io reads the images and tables which the toolbox's modes operate on.
Currently only the primary HDU of FITS files is supported.
*/
package io

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrFormat is returned when a file does not follow the FITS standard closely
// enough to be read.
var ErrFormat = errors.New("io: malformed FITS file")

const (
	blockSize = 2880
	cardSize  = 80
	// Maximum number of header blocks read before giving up on finding END.
	maxHeaderBlocks = 1 << 12
	// Pixels are decoded in chunks of this many so that memory use follows
	// the data actually present rather than the header's NAXIS values.
	chunkPixels = 1 << 16
)

// Header contains the keyword/value cards of a FITS header. Values are stored
// with quotes and comments removed. Cards without a value indicator
// (COMMENT, HISTORY and blank cards) are dropped.
type Header struct {
	keys  []string
	cards map[string]string
}

func newHeader() *Header {
	return &Header{cards: map[string]string{}}
}

func (h *Header) set(key, val string) {
	if _, ok := h.cards[key]; !ok {
		h.keys = append(h.keys, key)
	}
	h.cards[key] = val
}

// Keys returns the header keywords in the order they first appear.
func (h *Header) Keys() []string { return h.keys }

// Len returns the number of keywords in the header.
func (h *Header) Len() int { return len(h.keys) }

// String returns the value of key as a string.
func (h *Header) String(key string) (string, bool) {
	v, ok := h.cards[strings.ToUpper(key)]
	return v, ok
}

// Float returns the value of key as a float64. FITS allows 'D' exponents,
// which are accepted.
func (h *Header) Float(key string) (float64, bool) {
	v, ok := h.cards[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	x, err := strconv.ParseFloat(strings.Replace(v, "D", "E", 1), 64)
	if err != nil {
		return 0, false
	}
	return x, true
}

// Int returns the value of key as an int.
func (h *Header) Int(key string) (int, bool) {
	v, ok := h.cards[strings.ToUpper(key)]
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}

// Bool returns the value of a logical keyword.
func (h *Header) Bool(key string) (bool, bool) {
	switch h.cards[strings.ToUpper(key)] {
	case "T":
		return true, true
	case "F":
		return false, true
	}
	return false, false
}

// Image is a two dimensional image with physical pixel values, i.e. with
// BSCALE and BZERO already applied. Blank integer pixels are NaN.
type Image struct {
	Width, Height int
	// Pixels is stored in row-major order, starting from the first row of
	// the file.
	Pixels []float64
	Header *Header
}

// At returns the pixel at column x and row y.
func (img *Image) At(x, y int) float64 {
	return img.Pixels[y*img.Width+x]
}

// ReadFITS reads the primary image of the FITS file fname.
func ReadFITS(fname string) (*Image, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := ReadFITSFrom(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("could not read '%s': %w", fname, err)
	}
	return img, nil
}

// ReadFITSFrom reads the primary image of a FITS stream. Only the first plane
// of images with more than two axes is read.
func ReadFITSFrom(r io.Reader) (*Image, error) {
	hd, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	bitpix, ok := hd.Int("BITPIX")
	if !ok {
		return nil, fmt.Errorf("%w: missing BITPIX", ErrFormat)
	}
	naxis, _ := hd.Int("NAXIS")
	width, _ := hd.Int("NAXIS1")
	height, _ := hd.Int("NAXIS2")
	if naxis < 2 || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: NAXIS = %d, NAXIS1 = %d, NAXIS2 = %d "+
			"does not describe an image", ErrFormat, naxis, width, height)
	}

	bscale, ok := hd.Float("BSCALE")
	if !ok {
		bscale = 1
	}
	bzero, _ := hd.Float("BZERO")
	blank, hasBlank := hd.Int("BLANK")

	size, err := pixelSize(bitpix)
	if err != nil {
		return nil, err
	}
	if width > math.MaxInt/height/size {
		return nil, fmt.Errorf("%w: NAXIS1 = %d, NAXIS2 = %d with BITPIX = %d "+
			"is too large", ErrFormat, width, height, bitpix)
	}

	pixels, err := readPixels(r, bitpix, size, width*height)
	if err != nil {
		return nil, err
	}
	for i := range pixels {
		if bitpix > 0 && hasBlank && pixels[i] == float64(blank) {
			pixels[i] = math.NaN()
		} else {
			pixels[i] = pixels[i]*bscale + bzero
		}
	}

	return &Image{Width: width, Height: height, Pixels: pixels, Header: hd}, nil
}

func readHeader(r io.Reader) (*Header, error) {
	hd := newHeader()
	block := make([]byte, blockSize)

	for n := 0; n < maxHeaderBlocks; n++ {
		if _, err := io.ReadFull(r, block); err != nil {
			return nil, fmt.Errorf("%w: header ended before END card (%s)",
				ErrFormat, err.Error())
		}
		if n == 0 && string(block[:6]) != "SIMPLE" {
			return nil, fmt.Errorf("%w: first card is not SIMPLE", ErrFormat)
		}

		for i := 0; i < blockSize; i += cardSize {
			card := string(block[i : i+cardSize])
			key := strings.TrimSpace(card[:8])
			if key == "END" {
				return hd, nil
			}
			if card[8:10] != "= " || key == "" {
				continue
			}
			hd.set(strings.ToUpper(key), parseValue(card[10:]))
		}
	}

	return nil, fmt.Errorf("%w: no END card in the first %d header blocks",
		ErrFormat, maxHeaderBlocks)
}

// parseValue strips the comment from a card's value field and unquotes
// strings.
func parseValue(field string) string {
	field = strings.TrimLeft(field, " ")
	if !strings.HasPrefix(field, "'") {
		if i := strings.IndexByte(field, '/'); i >= 0 {
			field = field[:i]
		}
		return strings.TrimSpace(field)
	}

	sb := &strings.Builder{}
	for i := 1; i < len(field); i++ {
		if field[i] != '\'' {
			sb.WriteByte(field[i])
		} else if i+1 < len(field) && field[i+1] == '\'' {
			sb.WriteByte('\'')
			i++
		} else {
			break
		}
	}
	return strings.TrimRight(sb.String(), " ")
}

func pixelSize(bitpix int) (int, error) {
	switch bitpix {
	case 8:
		return 1, nil
	case 16:
		return 2, nil
	case 32, -32:
		return 4, nil
	case 64, -64:
		return 8, nil
	}
	return 0, fmt.Errorf("%w: unsupported BITPIX = %d", ErrFormat, bitpix)
}

func readPixels(r io.Reader, bitpix, size, n int) ([]float64, error) {
	out := make([]float64, 0, min(n, chunkPixels))
	raw := make([]byte, min(n, chunkPixels)*size)
	end := binary.BigEndian

	for len(out) < n {
		m := min(n-len(out), chunkPixels)
		if _, err := io.ReadFull(r, raw[:m*size]); err != nil {
			return nil, fmt.Errorf("%w: could not read %d pixels of BITPIX "+
				"= %d (%s)", ErrFormat, n, bitpix, err.Error())
		}

		for i := 0; i < m; i++ {
			b := raw[i*size:]
			var x float64
			switch bitpix {
			case 8:
				x = float64(b[0])
			case 16:
				x = float64(int16(end.Uint16(b)))
			case 32:
				x = float64(int32(end.Uint32(b)))
			case 64:
				x = float64(int64(end.Uint64(b)))
			case -32:
				x = float64(math.Float32frombits(end.Uint32(b)))
			case -64:
				x = math.Float64frombits(end.Uint64(b))
			}
			out = append(out, x)
		}
	}
	return out, nil
}
