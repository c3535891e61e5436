package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options controls how the global logger is set up.
type Options struct {
	Level   zerolog.Level
	Writer  io.Writer // defaults to os.Stderr
	Console bool      // human readable output instead of JSON
	// Extra writers receive the same formatted output, e.g. the log broker.
	Extra []io.Writer
}

// Init configures the global zerolog logger and returns it.
func Init(opts Options) zerolog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	if opts.Console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.DateTime}
	}

	if len(opts.Extra) > 0 {
		writers := make([]io.Writer, 0, len(opts.Extra)+1)
		writers = append(writers, w)
		for _, extra := range opts.Extra {
			// Broker subscribers get plain text, never ANSI colored output.
			writers = append(writers, zerolog.ConsoleWriter{Out: extra, NoColor: true, TimeFormat: time.DateTime})
		}
		w = zerolog.MultiLevelWriter(writers...)
	}

	zerolog.SetGlobalLevel(opts.Level)
	logger := zerolog.New(w).With().Timestamp().Logger()
	log.Logger = logger
	return logger
}

// ParseLevel maps a level name to a zerolog level. Unknown or empty names give info.
func ParseLevel(name string) zerolog.Level {
	if strings.TrimSpace(name) == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(name)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
