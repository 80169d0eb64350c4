package cmd

import (
	"fmt"

	"github.com/phil-mansfield/toolbox/astro"
	"github.com/phil-mansfield/toolbox/cats"
	"github.com/phil-mansfield/toolbox/cmd/catalog"
	"github.com/phil-mansfield/toolbox/logging"
	"github.com/phil-mansfield/toolbox/parse"
)

// MatchConfig matches the positions on stdin against a reference catalog.
type MatchConfig struct {
	modeVars
	catalog       string
	maxSep        float64
	units         string
	raCol, decCol int64

	unit astro.Unit
}

var _ Mode = &MatchConfig{}

func (config *MatchConfig) ExampleConfig() string {
	return `[match.config]

#####################
## Required Fields ##
#####################

# Catalog is the text catalog that stdin is matched against.
Catalog = path/to/catalog.txt

#####################
## Optional Fields ##
#####################

# MaxSep is the largest separation which counts as a match, in units of Units.
MaxSep = 1
Units = arcsec

# RACol and DecCol are the columns of Catalog which hold RA and Dec in
# degrees.
RACol = 0
DecCol = 1`
}

func (config *MatchConfig) ReadConfig(fname string) error {
	err := config.readVars(fname, "match.config", func(vars *parse.ConfigVars) {
		vars.String(&config.catalog, "Catalog", "")
		vars.Float(&config.maxSep, "MaxSep", 1)
		vars.String(&config.units, "Units", astro.DefaultUnit.String())
		vars.Int(&config.raCol, "RACol", 0)
		vars.Int(&config.decCol, "DecCol", 1)
	})
	if err != nil {
		return err
	}
	return config.validate()
}

func (config *MatchConfig) validate() error {
	u, err := astro.ParseUnit(config.units)
	if err != nil {
		return fmt.Errorf("The variable 'Units' is set to '%s', which I "+
			"don't recognize.", config.units)
	}
	config.unit = u

	switch {
	case !(config.maxSep > 0):
		return fmt.Errorf("The variable 'MaxSep' was set to %g, but it "+
			"must be positive.", config.maxSep)
	case config.raCol < 0 || config.decCol < 0:
		return fmt.Errorf("The variables 'RACol' and 'DecCol' were set to "+
			"%d and %d, but column indices can't be negative.",
			config.raCol, config.decCol)
	case config.raCol == config.decCol:
		return fmt.Errorf("The variables 'RACol' and 'DecCol' are both %d.",
			config.raCol)
	}
	return nil
}

// Run reads "ra dec" rows in degrees and writes one line per row with a
// catalog counterpart: the row index, the catalog index, and their
// separation.
func (config *MatchConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	defer logging.Timer("match")()

	if err := config.applyFlags(config, flags); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	if config.catalog == "" {
		return nil, fmt.Errorf("The variable 'Catalog' must be set.")
	}

	_, catCols, err := catalog.ReadFile(
		config.catalog, nil, []int{int(config.raCol), int(config.decCol)},
	)
	if err != nil {
		return nil, err
	}
	_, cols, err := catalog.ParseCols(stdin, nil, []int{0, 1})
	if err != nil {
		return nil, err
	}

	cat := skyCoords(catCols[0], catCols[1])
	m := cats.MatchCoordinates(skyCoords(cols[0], cols[1]), cat,
		config.maxSep, config.unit)
	logging.Log.Debug().Int("rows", len(cols[0])).Int("catalog", len(cat)).
		Int("matches", m.Len()).Msg("matched positions")

	rows := make([]int, 0, m.Len())
	for i, ok := range m.Mask {
		if ok {
			rows = append(rows, i)
		}
	}

	cString := catalog.CommentString(
		[]string{"Row", "CatalogRow"},
		[]string{fmt.Sprintf("Sep[%s]", config.unit)},
		[]int{0, 1, 2}, []int{1, 1, 1},
	)
	fLines := catalog.FormatCols(
		[][]int{rows, m.Idx}, [][]float64{m.Sep}, []int{0, 1, 2},
	)
	return append([]string{cString}, fLines...), nil
}

func skyCoords(ra, dec []float64) []astro.SkyCoord {
	out := make([]astro.SkyCoord, len(ra))
	for i := range out {
		out[i] = astro.SkyCoord{RA: ra[i], Dec: dec[i]}
	}
	return out
}
