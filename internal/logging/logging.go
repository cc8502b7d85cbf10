// Package logging configures the global zerolog logger. Console output
// goes to stderr with stable bracketed level prefixes, so fatal errors
// always appear as "[ERROR]: ..." on the diagnostic stream.
package logging

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger for the given verbosity level.
func Setup(verbosity int) {
	switch verbosity {
	case 0:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case 1:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.TraceLevel)
	}

	console := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: true,
		FormatLevel: func(i interface{}) string {
			level, _ := i.(string)
			return fmt.Sprintf("[%s]:", strings.ToUpper(level))
		},
		FormatTimestamp: func(interface{}) string { return "" },
	}

	log.Logger = zerolog.New(console).With().Timestamp().Logger()
}

// Component returns a logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
