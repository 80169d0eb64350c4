package cmd

import (
	"fmt"

	"github.com/phil-mansfield/toolbox/cmd/catalog"
	"github.com/phil-mansfield/toolbox/cosmo"
	"github.com/phil-mansfield/toolbox/logging"
	"github.com/phil-mansfield/toolbox/math/calc"
	"github.com/phil-mansfield/toolbox/parse"
)

// DistConfig tabulates cosmological distances at a list of redshifts.
type DistConfig struct {
	modeVars
	integration
}

var _ Mode = &DistConfig{}

// integration holds the quadrature variables shared by every mode which
// integrates distances.
type integration struct {
	tolerance    float64
	maxIntervals int64
}

func (in *integration) register(vars *parse.ConfigVars) {
	vars.Float(&in.tolerance, "Tolerance", calc.DefaultRel)
	vars.Int(&in.maxIntervals, "MaxIntervals", calc.DefaultLimit)
}

func (in *integration) validate() error {
	if !(in.tolerance > 0) {
		return fmt.Errorf("The variable 'Tolerance' was set to %g, but it "+
			"must be positive.", in.tolerance)
	}
	if in.maxIntervals < 1 {
		return fmt.Errorf("The variable 'MaxIntervals' was set to %d, but "+
			"it must be positive.", in.maxIntervals)
	}
	return nil
}

// cosmology builds the global cosmology with this mode's integration
// settings.
func (in *integration) cosmology(gConfig *GlobalConfig) (*cosmo.Cosmology, error) {
	return cosmo.New(gConfig.H100, gConfig.OmegaM, gConfig.OmegaL,
		cosmo.Tolerance(in.tolerance), cosmo.MaxIntervals(int(in.maxIntervals)))
}

const integrationExample = `# Tolerance is the relative tolerance distance integrals are evaluated to.
Tolerance = %g

# MaxIntervals is the most subintervals a single integral may be split into
# before giving up.
MaxIntervals = %d`

func (config *DistConfig) ExampleConfig() string {
	return fmt.Sprintf(`[dist.config]

#####################
## Optional Fields ##
#####################

`+integrationExample, calc.DefaultRel, calc.DefaultLimit)
}

func (config *DistConfig) ReadConfig(fname string) error {
	err := config.readVars(fname, "dist.config", config.integration.register)
	if err != nil {
		return err
	}
	return config.validate()
}

// Run reads one redshift per row and writes the comoving, luminosity, and
// angular diameter distances in Mpc along with E(z) and the critical density
// in M_sun / Mpc^3.
func (config *DistConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	defer logging.Timer("dist")()

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

	_, cols, err := catalog.ParseCols(stdin, nil, []int{0})
	if err != nil {
		return nil, err
	}
	zs := cols[0]
	logging.Log.Debug().Int("rows", len(zs)).Msg("read redshifts")

	dc, dl, da := make([]float64, len(zs)), make([]float64, len(zs)),
		make([]float64, len(zs))
	err = parallelRows(len(zs), gConfig.workers(), func(i int) error {
		var err error
		if dc[i], err = c.ComDist(zs[i]); err != nil {
			return err
		}
		dl[i], da[i] = dc[i]*(1+zs[i]), dc[i]/(1+zs[i])
		return nil
	})
	if err != nil {
		return nil, err
	}

	e, err := c.EAll(zs)
	if err != nil {
		return nil, err
	}
	rho := make([]float64, len(zs))
	for i := range zs {
		rho[i] = c.RhoCrit(zs[i])
	}

	cString := catalog.CommentString(
		nil, []string{"Z", "Dc[Mpc]", "DL[Mpc]", "DA[Mpc]", "E", "RhoCrit[Msun/Mpc^3]"},
		[]int{0, 1, 2, 3, 4, 5}, []int{1, 1, 1, 1, 1, 1},
	)
	fLines := catalog.FormatCols(
		nil, [][]float64{zs, dc, dl, da, e, rho}, []int{0, 1, 2, 3, 4, 5},
	)
	return append([]string{cString}, fLines...), nil
}
