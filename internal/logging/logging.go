// Package logging builds the zerolog loggers shared by the service and carries
// the request id through context.Context.
package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

type requestIDKey struct{}

// New returns the root logger. Development environments get the console
// writer, everything else emits JSON lines.
func New(level, env string, w io.Writer) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	if env == "development" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(ParseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// ParseLevel maps LOG_LEVEL values to zerolog levels, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// WithRequestID stores the request id for loggers created further down the call chain.
func WithRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, rid)
}

// RequestID extracts the request id from a standard context
func RequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

// Ctx returns base enriched with the request id found in ctx, if any.
func Ctx(ctx context.Context, base zerolog.Logger) zerolog.Logger {
	rid := RequestID(ctx)
	if rid == "" {
		return base
	}
	return base.With().Str("request_id", rid).Logger()
}

// Component tags a logger with the component name.
func Component(base zerolog.Logger, name string) zerolog.Logger {
	return base.With().Str("component", name).Logger()
}
