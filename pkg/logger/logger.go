// Package logger holds the process-wide zerolog logger shared by sessionctl
// and identityd. Init builds it once; later calls return the same instance.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls the logger built by Init.
type Options struct {
	// Level is the minimum level: trace, debug, info, warn, error.
	// Anything else falls back to info.
	Level string
	// Pretty switches from JSON to colored console output for development.
	Pretty bool
	// Output defaults to os.Stderr so command output stays clean on stdout.
	Output io.Writer
}

var (
	once     sync.Once
	instance zerolog.Logger
	ready    bool
)

// Init builds the singleton logger. Only the first call takes effect.
func Init(opts Options) zerolog.Logger {
	once.Do(func() {
		zerolog.TimeFieldFormat = time.RFC3339Nano

		out := opts.Output
		if out == nil {
			out = os.Stderr
		}
		if opts.Pretty {
			out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
		}

		lvl, err := zerolog.ParseLevel(opts.Level)
		if err != nil || lvl == zerolog.NoLevel {
			lvl = zerolog.InfoLevel
		}

		instance = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
		ready = true
	})
	return instance
}

// Get returns the singleton. It panics when Init has not run, since a silent
// zero-value logger would swallow every message.
func Get() zerolog.Logger {
	if !ready {
		panic("logger: Get called before Init")
	}
	return instance
}

// Reset discards the singleton so tests can rebuild it with other options.
func Reset() {
	once = sync.Once{}
	instance = zerolog.Logger{}
	ready = false
}
