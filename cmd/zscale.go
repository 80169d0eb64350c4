package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/phil-mansfield/toolbox/cmd/catalog"
	"github.com/phil-mansfield/toolbox/display"
	"github.com/phil-mansfield/toolbox/io"
	"github.com/phil-mansfield/toolbox/logging"
	"github.com/phil-mansfield/toolbox/math/rand"
	"github.com/phil-mansfield/toolbox/parse"
)

// ZScaleConfig computes display limits for FITS images and optionally
// renders them as PNGs.
type ZScaleConfig struct {
	modeVars
	contrast float64
	samples  int64
	seed     int64
	pngDir   string
	maxSize  int64
	label    bool
	genName  string

	gen rand.GeneratorType
}

var _ Mode = &ZScaleConfig{}

func (config *ZScaleConfig) ExampleConfig() string {
	return fmt.Sprintf(`[zscale.config]

#####################
## Optional Fields ##
#####################

# Contrast is the zscale contrast. Smaller values give wider limits.
Contrast = %g

# Samples is the number of pixels drawn from each image to estimate limits.
Samples = %d

# Seed fixes the pixel sample so results are reproducible. A negative seed
# uses the clock.
Seed = -1

# Generator is the random number generator used to draw samples: xorshift or
# golang.
Generator = xorshift

# If PNGDir is set, every image is rendered with its limits to
# PNGDir/<name>.png.
PNGDir =

# MaxSize caps the side length of rendered images. 0 keeps the original size.
MaxSize = 0

# Label writes the image name in the corner of rendered images.
Label = false`, display.DefaultContrast, display.DefaultSamples)
}

func (config *ZScaleConfig) ReadConfig(fname string) error {
	err := config.readVars(fname, "zscale.config", func(vars *parse.ConfigVars) {
		vars.Float(&config.contrast, "Contrast", display.DefaultContrast)
		vars.Int(&config.samples, "Samples", display.DefaultSamples)
		vars.Int(&config.seed, "Seed", -1)
		vars.String(&config.genName, "Generator", "xorshift")
		vars.String(&config.pngDir, "PNGDir", "")
		vars.Int(&config.maxSize, "MaxSize", 0)
		vars.Bool(&config.label, "Label", false)
	})
	if err != nil {
		return err
	}
	return config.validate()
}

func (config *ZScaleConfig) validate() error {
	gen, err := rand.ParseGeneratorType(config.genName)
	if err != nil {
		return err
	}
	config.gen = gen

	switch {
	case !(config.contrast > 0):
		return fmt.Errorf("The variable 'Contrast' was set to %g, but it "+
			"must be positive.", config.contrast)
	case config.samples < 4:
		return fmt.Errorf("The variable 'Samples' was set to %d, but I need "+
			"at least 4 pixels.", config.samples)
	case config.maxSize < 0:
		return fmt.Errorf("The variable 'MaxSize' was set to %d, but it "+
			"can't be negative.", config.maxSize)
	}
	if config.pngDir != "" {
		info, err := os.Stat(config.pngDir)
		if err != nil || !info.IsDir() {
			return fmt.Errorf("The variable 'PNGDir' was set to '%s', "+
				"which isn't a directory.", config.pngDir)
		}
	}
	return nil
}

func (config *ZScaleConfig) zscaleOptions() []display.ZScaleOption {
	opts := []display.ZScaleOption{
		display.Contrast(config.contrast),
		display.Samples(int(config.samples)),
		display.Generator(config.gen),
	}
	if config.seed >= 0 {
		opts = append(opts, display.Seed(uint64(config.seed)))
	}
	return opts
}

// Run reads one FITS file name per line and writes the z1 and z2 limits of
// each image, in the same order.
func (config *ZScaleConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	defer logging.Timer("zscale")()

	if err := config.applyFlags(config, flags); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	fnames := []string{}
	for _, line := range stdin {
		if comment := strings.IndexByte(line, '#'); comment != -1 {
			line = line[:comment]
		}
		if line = strings.TrimSpace(line); line != "" {
			fnames = append(fnames, line)
		}
	}

	z1, z2 := make([]float64, len(fnames)), make([]float64, len(fnames))
	err := parallelRows(len(fnames), gConfig.workers(), func(i int) error {
		img, err := io.ReadFITS(fnames[i])
		if err != nil {
			return err
		}
		z1[i], z2[i], err = display.ZScale(img.Pixels, config.zscaleOptions()...)
		if err != nil {
			return fmt.Errorf("I could not find limits for '%s': %w",
				fnames[i], err)
		}
		logging.Log.Debug().Str("file", fnames[i]).
			Float64("z1", z1[i]).Float64("z2", z2[i]).Msg("zscale")

		if config.pngDir != "" {
			return config.writePNG(fnames[i], img, z1[i], z2[i])
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cString := catalog.CommentString(
		nil, []string{"Z1", "Z2"}, []int{0, 1}, []int{1, 1},
	)
	fLines := catalog.FormatCols(nil, [][]float64{z1, z2}, []int{0, 1})
	return append([]string{cString}, fLines...), nil
}

// pngName returns the name of the PNG rendered from a FITS file.
func (config *ZScaleConfig) pngName(fname string) string {
	base := filepath.Base(fname)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(config.pngDir, base+".png")
}

func (config *ZScaleConfig) writePNG(
	fname string, img *io.Image, z1, z2 float64,
) error {
	opts := []display.RenderOption{display.MaxSize(int(config.maxSize))}
	if config.label {
		opts = append(opts, display.Label(filepath.Base(fname)))
	}
	out := config.pngName(fname)
	if err := display.WritePNG(out, display.Render(img, z1, z2, opts...)); err != nil {
		return err
	}
	logging.Log.Info().Str("file", out).Msg("wrote image")
	return nil
}
