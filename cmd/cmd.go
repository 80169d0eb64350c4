/*package cmd contains code for running the toolbox in its various command
line modes */
package cmd

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/phil-mansfield/toolbox/cosmo"
	"github.com/phil-mansfield/toolbox/logging"
	"github.com/phil-mansfield/toolbox/parse"
	"github.com/phil-mansfield/toolbox/version"
)

var ModeNames map[string]Mode = map[string]Mode{
	"angsep": &AngSepConfig{},
	"dist":   &DistConfig{},
	"sep":    &SepConfig{},
	"match":  &MatchConfig{},
	"zscale": &ZScaleConfig{},
	"phot":   &PhotConfig{},
}

// Mode represents the interface used by the main binary when interacting with
// a given command line mode.
type Mode interface {
	// ReadConfig reads a mode-specific config file and stores its contents
	// within the Mode. An empty file name leaves every variable at its
	// default.
	ReadConfig(fname string) error
	// ExampleConfig returns the text of an example config file of this mode.
	ExampleConfig() string
	// Run executes the mode. It takes a list of tokenized command line flags,
	// an initialized GlobalConfig struct, and a slice of lines representing the
	// contents of stdin. It will return a slice of lines that should be
	// written to stdout along with an error if one occurs.
	Run(flags []string, gConfig *GlobalConfig, stdin []string) ([]string, error)
}

// GlobalConfig is a config file used by every mode. It contains the
// cosmology used for distances and the toolbox's logging and threading
// settings.
type GlobalConfig struct {
	Version              string
	H100, OmegaM, OmegaL float64
	LogLevel             string
	Workers              int64

	logFlag logging.Flag
}

var _ Mode = &GlobalConfig{}

// ReadConfig reads a config file and returns an error, if applicable. If
// fname is empty, the defaults are used.
func (config *GlobalConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("config")
	vars.String(&config.Version, "Version", version.SourceVersion)
	vars.Float(&config.H100, "H100", cosmo.WMAP9.H100)
	vars.Float(&config.OmegaM, "OmegaM", cosmo.WMAP9.OmegaM)
	vars.Float(&config.OmegaL, "OmegaL", cosmo.WMAP9.OmegaL)
	vars.String(&config.LogLevel, "LogLevel", "nil")
	vars.Int(&config.Workers, "Workers", 0)

	if fname != "" {
		if err := parse.ReadConfig(fname, vars); err != nil {
			return err
		}
	}

	return config.validate()
}

// validate checks that all the user-generated fields of GlobalConfig are
// properly set.
func (config *GlobalConfig) validate() error {
	if err := version.Check(config.Version); err != nil {
		return err
	}

	if _, err := config.Cosmology(); err != nil {
		return fmt.Errorf("The variables H100 = %g, OmegaM = %g, and "+
			"OmegaL = %g don't describe a valid cosmology: %w",
			config.H100, config.OmegaM, config.OmegaL, err)
	}

	flag, err := logging.ParseFlag(config.LogLevel)
	if err != nil {
		return err
	}
	config.logFlag = flag

	if config.Workers < 0 {
		return fmt.Errorf("The variable 'Workers' was set to %d, but it "+
			"can't be negative.", config.Workers)
	}

	return nil
}

// Cosmology returns the cosmology described by the config file.
func (config *GlobalConfig) Cosmology() (*cosmo.Cosmology, error) {
	return cosmo.New(config.H100, config.OmegaM, config.OmegaL)
}

// LogFlag returns the parsed LogLevel variable.
func (config *GlobalConfig) LogFlag() logging.Flag { return config.logFlag }

// workers returns the number of goroutines rows are processed with. Zero
// means one per CPU.
func (config *GlobalConfig) workers() int {
	if config == nil || config.Workers == 0 {
		return runtime.NumCPU()
	}
	return int(config.Workers)
}

// ExampleConfig returns an example configuration file.
func (config *GlobalConfig) ExampleConfig() string {
	return fmt.Sprintf(`[config]
# Target version of the toolbox. This option merely allows the toolbox to
# notice when its source and configuration files are not from the same
# version.
#
# This variable defaults to the source version if not included.
Version = %s

# The flat LambdaCDM cosmology used for all distances. H100 is H0 in units of
# 100 km/s/Mpc. These default to WMAP9.
H100 = %g
OmegaM = %g
OmegaL = %g

#####################
## Optional Fields ##
#####################

# LogLevel controls what is written to stderr. 'nil' only reports problems,
# 'performance' reports times and memory usage, and 'debug' reports
# everything.
LogLevel = nil

# Workers is the number of rows processed at once. 0 uses one per CPU.
Workers = 0`, version.SourceVersion,
		cosmo.WMAP9.H100, cosmo.WMAP9.OmegaM, cosmo.WMAP9.OmegaL)
}

// Run is a dummy method which allows GlobalConfig to conform to the Mode
// interface for testing purposes.
func (config *GlobalConfig) Run(
	flags []string, gConfig *GlobalConfig, stdin []string,
) ([]string, error) {
	panic("GlobalConfig.Run() should never be executed.")
}

//////////////////////
// Shared Utilities //
//////////////////////

// modeVars holds the variables of a mode-specific config file so that
// command line flags can override them after the file is read.
type modeVars struct {
	vars *parse.ConfigVars
}

// readVars registers a mode's variables and reads them from fname if it is
// non-empty.
func (m *modeVars) readVars(
	fname, name string, register func(vars *parse.ConfigVars),
) error {
	m.vars = parse.NewConfigVars(name)
	register(m.vars)
	if fname == "" {
		return nil
	}
	return parse.ReadConfig(fname, m.vars)
}

// applyFlags applies command line overrides, reading the default config
// first if the mode hasn't been configured yet.
func (m *modeVars) applyFlags(mode Mode, flags []string) error {
	if m.vars == nil {
		if err := mode.ReadConfig(""); err != nil {
			return err
		}
	}
	return parse.ReadFlags(flags, m.vars)
}

// parallelRows calls f(i) for every i in [0, n) using up to workers
// goroutines and returns the error from the lowest failing row.
func parallelRows(n, workers int, f func(i int) error) error {
	if workers < 1 {
		workers = 1
	}
	errs := make([]error, n)

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			errs[i] = f(i)
		}(i)
	}
	wg.Wait()

	for i := range errs {
		if errs[i] != nil {
			return fmt.Errorf("Row %d: %w", i, errs[i])
		}
	}
	return nil
}
