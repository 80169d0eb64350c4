package cmd

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/toolbox/cmd/catalog"
	"github.com/phil-mansfield/toolbox/logging"
	"github.com/phil-mansfield/toolbox/parse"
	"github.com/phil-mansfield/toolbox/phot"
)

// PhotConfig converts apparent magnitudes into absolute magnitudes and
// luminosities.
type PhotConfig struct {
	modeVars
	band string
}

var _ Mode = &PhotConfig{}

func (config *PhotConfig) ExampleConfig() string {
	return fmt.Sprintf(`[phot.config]

#####################
## Optional Fields ##
#####################

# Band is the filter magnitudes were measured in. It is used to convert to
# Solar luminosities. Band names are case sensitive. Supported bands are:
# %s
Band = r`, strings.Join(phot.Bands(), ", "))
}

func (config *PhotConfig) ReadConfig(fname string) error {
	err := config.readVars(fname, "phot.config", func(vars *parse.ConfigVars) {
		vars.String(&config.band, "Band", "r")
	})
	if err != nil {
		return err
	}
	return config.validate()
}

func (config *PhotConfig) validate() error {
	if _, err := phot.SolarAbsMag(config.band); err != nil {
		return fmt.Errorf("The variable 'Band' is set to '%s', but I only "+
			"know about the bands %s.", config.band,
			strings.Join(phot.Bands(), ", "))
	}
	return nil
}

// Run reads "mag z" rows of AB magnitudes and writes the absolute magnitude,
// the luminosity in Solar units, and the luminosity density in erg/s/Hz of
// each.
func (config *PhotConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	defer logging.Timer("phot")()

	if err := config.applyFlags(config, flags); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	c, err := gConfig.Cosmology()
	if err != nil {
		return nil, err
	}

	_, cols, err := catalog.ParseCols(stdin, nil, []int{0, 1})
	if err != nil {
		return nil, err
	}
	mags, zs := cols[0], cols[1]
	logging.Log.Debug().Int("rows", len(mags)).Str("band", config.band).
		Msg("read magnitudes")

	absMag := make([]float64, len(mags))
	lum, lnu := make([]float64, len(mags)), make([]float64, len(mags))
	err = parallelRows(len(mags), gConfig.workers(), func(i int) error {
		var err error
		if absMag[i], err = phot.AbsMagZ(mags[i], zs[i], c); err != nil {
			return err
		}
		if lum[i], err = phot.LumSolar(absMag[i], config.band); err != nil {
			return err
		}
		lnu[i] = phot.LnuFromABMag(absMag[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	cString := catalog.CommentString(
		nil, []string{"M", "L[Lsun]", "Lnu[erg/s/Hz]"},
		[]int{0, 1, 2}, []int{1, 1, 1},
	)
	fLines := catalog.FormatCols(nil, [][]float64{absMag, lum, lnu}, []int{0, 1, 2})
	return append([]string{cString}, fLines...), nil
}
