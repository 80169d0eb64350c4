/*package toolbox is a command line toolbox for common astronomical
calculations: angular and comoving separations, cosmological distances,
catalog matching, image display limits, and photometric conversions.*/
package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/phil-mansfield/toolbox/cmd"
	"github.com/phil-mansfield/toolbox/logging"
	"github.com/phil-mansfield/toolbox/version"
)

const globalConfigVar = "TOOLBOX_GLOBAL_CONFIG"

var helpStrings = map[string]string{
	"angsep": `Reads rows of 'ra1 dec1 ra2 dec2' in degrees from stdin and writes the
angular separation of each pair.`,
	"dist": `Reads one redshift per row from stdin and writes z, the comoving,
luminosity, and angular diameter distances in Mpc, E(z), and the critical
density in Msun/Mpc^3.`,
	"sep": `Reads rows of 'ra1 dec1 z1 ra2 dec2 z2' from stdin and writes the comoving
separation of each pair in Mpc.`,
	"match": `Reads rows of 'ra dec' in degrees from stdin and matches them against the
catalog named in the match.config file. Writes 'row catalog_row sep' for
every row with a counterpart.`,
	"zscale": `Reads one FITS file name per line from stdin and writes the zscale
display limits 'z1 z2' of each image. Can also render the images to PNG.`,
	"phot": `Reads rows of 'mag z' from stdin and writes the absolute magnitude, the
luminosity in Solar units, and the luminosity density in erg/s/Hz.`,

	"config":        new(cmd.GlobalConfig).ExampleConfig(),
	"angsep.config": cmd.ModeNames["angsep"].ExampleConfig(),
	"dist.config":   cmd.ModeNames["dist"].ExampleConfig(),
	"sep.config":    cmd.ModeNames["sep"].ExampleConfig(),
	"match.config":  cmd.ModeNames["match"].ExampleConfig(),
	"zscale.config": cmd.ModeNames["zscale"].ExampleConfig(),
	"phot.config":   cmd.ModeNames["phot"].ExampleConfig(),
}

var modeDescriptions = `My help modes are:
toolbox help
toolbox help [ angsep | dist | sep | match | zscale | phot ]
toolbox help [ config | angsep.config | dist.config | sep.config |
               match.config | zscale.config | phot.config ]

My analysis modes are:
toolbox angsep [flags] [____.config] [____.angsep.config]
toolbox dist   [flags] [____.config] [____.dist.config]
toolbox sep    [flags] [____.config] [____.sep.config]
toolbox match  [flags] [____.config] [____.match.config]
toolbox zscale [flags] [____.config] [____.zscale.config]
toolbox phot   [flags] [____.config] [____.phot.config]

Any variable in a mode's config file can be overridden with a flag, e.g.
toolbox angsep --Units arcmin < pairs.txt`

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("I could not read the .env file: %s\n", err.Error())
	}

	args := os.Args
	if len(args) <= 1 {
		fmt.Fprintf(
			os.Stderr, "I was not supplied with a mode.\nFor help, type "+
				"'./toolbox help'.\n",
		)
		os.Exit(1)
	}

	switch args[1] {
	case "help":
		switch len(args) - 2 {
		case 0:
			fmt.Println(modeDescriptions)
		case 1:
			text, ok := helpStrings[args[2]]
			if !ok {
				fmt.Printf("I don't recognize the help target '%s'\n", args[2])
			} else {
				fmt.Println(text)
			}
		default:
			fmt.Println("The help mode can only take a single argument.")
		}
		os.Exit(0)
	case "version":
		fmt.Printf("Toolbox version %s\n", version.SourceVersion)
		os.Exit(0)
	}

	mode, ok := cmd.ModeNames[args[1]]
	if !ok {
		fmt.Fprintf(
			os.Stderr, "You passed me the mode '%s', which I don't "+
				"recognize.\nFor help, type './toolbox help'\n", args[1],
		)
		os.Exit(1)
	}

	gConfig, err := getGlobalConfig(args)
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}
	logging.Init(gConfig.LogFlag())

	config, _ := getConfig(args)
	if err = mode.ReadConfig(config); err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	lines, err := stdinLines(os.Stdin)
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	out, err := mode.Run(getFlags(args), gConfig, lines)
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	for i := range out {
		fmt.Println(out[i])
	}
}

// stdinLines reads r and splits it into lines.
func stdinLines(r io.Reader) ([]string, error) {
	bs, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("Error reading stdin: %w.", err)
	}
	lines := strings.Split(string(bs), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// getFlags returns the flag tokens from the command line arguments.
func getFlags(args []string) []string {
	return args[2 : len(args)-configNum(args)]
}

// getGlobalConfig reads the global config file named on the command line or
// in $TOOLBOX_GLOBAL_CONFIG. If neither names one, the defaults are used.
func getGlobalConfig(args []string) (*cmd.GlobalConfig, error) {
	name := os.Getenv(globalConfigVar)
	n := configNum(args)
	if name != "" {
		if n > 1 {
			return nil, fmt.Errorf("$%s has been set, so you may only pass "+
				"a single config file as a parameter.", globalConfigVar)
		}
	} else {
		switch n {
		case 0:
		case 1:
			name = args[len(args)-1]
		case 2:
			name = args[len(args)-2]
		default:
			return nil, fmt.Errorf("Passed too many config files as arguments.")
		}
	}

	config := &cmd.GlobalConfig{}
	if err := config.ReadConfig(name); err != nil {
		return nil, err
	}
	return config, nil
}

// getConfig returns the name of the mode-specific config file from the
// command line arguments.
func getConfig(args []string) (string, bool) {
	env := os.Getenv(globalConfigVar) != ""
	if (env && configNum(args) == 1) || (!env && configNum(args) == 2) {
		return args[len(args)-1], true
	}
	return "", false
}

// configNum returns the number of configuration files at the end of the
// argument list.
func configNum(args []string) int {
	num := 0
	for i := len(args) - 1; i >= 2; i-- {
		if !isConfig(args[i]) {
			break
		}
		num++
	}
	return num
}

// isConfig returns true if the given string is a config file name.
func isConfig(s string) bool {
	return strings.HasSuffix(s, ".config")
}
