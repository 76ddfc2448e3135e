// Package logger builds the zerolog logger shared by the storefront API.
//
// Call Init once at startup; Get returns the same logger afterwards. New
// builds an independent logger with the same layout, for tests and tools.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how the logger is built.
type Options struct {
	// Level is the minimum level (trace, debug, info, warn, error).
	// Empty or unknown values mean info.
	Level string
	// Pretty switches to zerolog's console writer. Production emits JSON.
	Pretty bool
	// Output defaults to os.Stdout.
	Output io.Writer

	// Service, Env and Version are stamped on every entry when set.
	Service string
	Env     string
	Version string
}

var (
	mu          sync.Mutex
	instance    zerolog.Logger
	initialized bool
)

// New returns a logger configured by opts. It does not touch the package
// singleton or zerolog's global level.
func New(opts Options) zerolog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	ctx := zerolog.New(out).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Caller()
	for _, f := range []struct{ key, val string }{
		{"service", opts.Service},
		{"env", opts.Env},
		{"version", opts.Version},
	} {
		if f.val != "" {
			ctx = ctx.Str(f.key, f.val)
		}
	}
	return ctx.Logger()
}

// Init builds the process logger. Only the first call has an effect; later
// calls return the logger built by the first one.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if initialized {
		return instance
	}
	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.SetGlobalLevel(parseLevel(opts.Level))
	instance = New(opts)
	initialized = true
	return instance
}

// Get returns the process logger. It panics before Init.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if !initialized {
		panic("logger: Get() called before Init()")
	}
	return instance
}

// Reset forgets the process logger. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	instance = zerolog.Logger{}
	initialized = false
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

// Request derives the logger for one HTTP request. Empty ids are omitted,
// so anonymous requests carry no user_id.
func Request(base zerolog.Logger, requestID, userID string) zerolog.Logger {
	ctx := base.With()
	if requestID != "" {
		ctx = ctx.Str("request_id", requestID)
	}
	if userID != "" {
		ctx = ctx.Str("user_id", userID)
	}
	return ctx.Logger()
}

func parseLevel(s string) zerolog.Level {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "warning" {
		s = "warn"
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
