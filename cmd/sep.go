package cmd

import (
	"fmt"

	"github.com/phil-mansfield/toolbox/cmd/catalog"
	"github.com/phil-mansfield/toolbox/cosmo"
	"github.com/phil-mansfield/toolbox/logging"
	"github.com/phil-mansfield/toolbox/math/calc"
)

// SepConfig computes comoving separations between pairs of objects.
type SepConfig struct {
	modeVars
	integration
}

var _ Mode = &SepConfig{}

func (config *SepConfig) ExampleConfig() string {
	return fmt.Sprintf(`[sep.config]

#####################
## Optional Fields ##
#####################

`+integrationExample, calc.DefaultRel, calc.DefaultLimit)
}

func (config *SepConfig) ReadConfig(fname string) error {
	err := config.readVars(fname, "sep.config", config.integration.register)
	if err != nil {
		return err
	}
	return config.validate()
}

// Run reads "ra1 dec1 z1 ra2 dec2 z2" rows, with positions in degrees, and
// writes the comoving separation of each pair in Mpc.
func (config *SepConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	defer logging.Timer("sep")()

	if err := config.applyFlags(config, flags); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	c, err := config.cosmology(gConfig)
	if err != nil {
		return nil, err
	}

	_, cols, err := catalog.ParseCols(stdin, nil, []int{0, 1, 2, 3, 4, 5})
	if err != nil {
		return nil, err
	}
	n := len(cols[0])
	logging.Log.Debug().Int("rows", n).Msg("read pairs")

	seps := make([]float64, n)
	err = parallelRows(n, gConfig.workers(), func(i int) error {
		c1 := cosmo.Coord3D{RA: cols[0][i], Dec: cols[1][i], Z: cols[2][i]}
		c2 := cosmo.Coord3D{RA: cols[3][i], Dec: cols[4][i], Z: cols[5][i]}
		var err error
		seps[i], err = c.ComSep(c1, c2)
		return err
	})
	if err != nil {
		return nil, err
	}

	cString := catalog.CommentString(
		nil, []string{"Sep[Mpc]"}, []int{0}, []int{1},
	)
	fLines := catalog.FormatCols(nil, [][]float64{seps}, []int{0})
	return append([]string{cString}, fLines...), nil
}
