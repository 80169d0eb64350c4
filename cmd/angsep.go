package cmd

import (
	"fmt"

	"github.com/phil-mansfield/toolbox/astro"
	"github.com/phil-mansfield/toolbox/cmd/catalog"
	"github.com/phil-mansfield/toolbox/logging"
	"github.com/phil-mansfield/toolbox/parse"
)

// AngSepConfig computes the angular separation between pairs of positions.
type AngSepConfig struct {
	modeVars
	units string
	unit  astro.Unit
}

var _ Mode = &AngSepConfig{}

func (config *AngSepConfig) ExampleConfig() string {
	return `[angsep.config]

#####################
## Optional Fields ##
#####################

# Units is the unit that separations are written in. Supported units are
# radian, degree, arcmin, and arcsec. Input positions are always in degrees.
Units = arcsec`
}

func (config *AngSepConfig) ReadConfig(fname string) error {
	err := config.readVars(fname, "angsep.config", func(vars *parse.ConfigVars) {
		vars.String(&config.units, "Units", astro.DefaultUnit.String())
	})
	if err != nil {
		return err
	}
	return config.validate()
}

func (config *AngSepConfig) validate() error {
	u, err := astro.ParseUnit(config.units)
	if err != nil {
		return fmt.Errorf("The variable 'Units' is set to '%s', which I "+
			"don't recognize.", config.units)
	}
	config.unit = u
	return nil
}

// Run reads "ra1 dec1 ra2 dec2" rows, in degrees, and writes one separation
// per row.
func (config *AngSepConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	defer logging.Timer("angsep")()

	if err := config.applyFlags(config, flags); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	_, cols, err := catalog.ParseCols(stdin, nil, []int{0, 1, 2, 3})
	if err != nil {
		return nil, err
	}
	logging.Log.Debug().Int("rows", len(cols[0])).Msg("read positions")

	seps, err := astro.AngSepAll(cols[0], cols[1], cols[2], cols[3], config.unit)
	if err != nil {
		return nil, err
	}

	cString := catalog.CommentString(
		nil, []string{fmt.Sprintf("Sep[%s]", config.unit)}, []int{0}, []int{1},
	)
	fLines := catalog.FormatCols(nil, [][]float64{seps}, []int{0})
	return append([]string{cString}, fLines...), nil
}
