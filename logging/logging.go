/*package logging controls how much the toolbox reports about its own
execution. Log output always goes to stderr so that it never mixes with the
catalogs written to stdout.
*/
package logging

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type Flag int

const (
	Nil Flag = iota
	Performance
	Debug
)

// This is handled this way so that GlobalConfig doesn't need to be passed to
// every function in the project.
var (
	Mode Flag = Nil
	Log       = zerolog.Nop()
)

// ParseFlag converts the LogLevel variable of a config file into a Flag.
func ParseFlag(s string) (Flag, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nil", "none":
		return Nil, nil
	case "performance":
		return Performance, nil
	case "debug":
		return Debug, nil
	}
	return Nil, fmt.Errorf("The LogLevel '%s' isn't one of 'nil', "+
		"'performance', or 'debug'.", s)
}

func (f Flag) String() string {
	switch f {
	case Nil:
		return "nil"
	case Performance:
		return "performance"
	case Debug:
		return "debug"
	}
	return fmt.Sprintf("Flag(%d)", int(f))
}

// Level is the lowest zerolog level which is written in the given mode.
// Warnings and errors are always written.
func (f Flag) Level() zerolog.Level {
	switch f {
	case Performance:
		return zerolog.InfoLevel
	case Debug:
		return zerolog.DebugLevel
	}
	return zerolog.WarnLevel
}

// New returns a logger which writes to w at the level implied by f.
func New(w io.Writer, f Flag) zerolog.Logger {
	return zerolog.New(w).Level(f.Level()).With().Timestamp().Logger()
}

// Init sets Mode and replaces Log with a human-readable stderr logger.
func Init(f Flag) {
	Mode = f
	Log = New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}, f)
}

// Timer logs the elapsed time and memory usage of a named step when the
// returned function is called. Nothing is logged in the Nil mode.
//
//	defer logging.Timer("angsep")()
func Timer(name string) func() {
	if Mode == Nil {
		return func() {}
	}
	t := time.Now()
	Log.Info().Str("mode", name).Msg("starting")
	return func() {
		Log.Info().Str("mode", name).
			Dur("time", time.Since(t)).
			Str("memory", MemString()).
			Msg("finished")
	}
}

// MemString returns a string containing various statistics on the current
// memory usage of the toolbox.
func MemString() string {
	ms := runtime.MemStats{}
	runtime.ReadMemStats(&ms)
	return fmt.Sprintf(
		"Alloc - %d MB; Sys - %d MB Integrated - %d MB",
		ms.Alloc>>20, ms.Sys>>20, ms.TotalAlloc>>20,
	)
}
