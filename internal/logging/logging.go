// Package logging configures the application-wide logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global logger. Console output goes to stderr so
// it never interleaves with table or TUI output on stdout.
func Init(debug bool) {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	})
}

// Component returns a logger tagged with a component name.
func Component(name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}

// Redirect routes all log output to w. The courtroom TUI owns the
// terminal while it runs; handing it io.Discard keeps the alternate
// screen clean.
func Redirect(w io.Writer) {
	log.Logger = log.Output(w)
}
