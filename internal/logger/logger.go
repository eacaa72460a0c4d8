// Package logger builds the zerolog logger used across SageDesk and carries
// it through request contexts.
package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/dyike/SageDesk/config"
)

// New returns a logger writing to stderr. Debug mode switches to a
// human-readable console writer.
func New(cfg *config.Config) zerolog.Logger {
	var w io.Writer = os.Stderr
	if cfg.Debug {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}
	return NewWithWriter(cfg, w)
}

// NewWithWriter is New with an explicit sink.
func NewWithWriter(cfg *config.Config, w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	if cfg.Debug && level > zerolog.DebugLevel {
		level = zerolog.DebugLevel
	}
	return zerolog.New(w).Level(level).With().Timestamp().Str("app", "sagedesk").Logger()
}

// WithContext attaches l to ctx.
func WithContext(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// From returns the logger stored in ctx, or a disabled logger.
func From(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

// Timed logs how long a provider call took once the returned func runs.
//
//	defer logger.Timed(ctx, "yahoo", "history", symbol)(&err)
func Timed(ctx context.Context, provider, op, symbol string) func(*error) {
	start := time.Now()
	return func(errp *error) {
		ev := From(ctx).Debug()
		if errp != nil && *errp != nil {
			ev = From(ctx).Warn().Err(*errp)
		}
		ev.Str("provider", provider).
			Str("op", op).
			Str("symbol", symbol).
			Dur("elapsed", time.Since(start)).
			Msg("provider call finished")
	}
}
