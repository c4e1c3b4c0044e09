// Package logging builds the zap logger shared by the server, the request
// logger middleware and the registration consumer.
package logging

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config selects the encoder and minimum level.  Format is "json",
// "console" or "auto"; auto picks json when Env is "prod".
type Config struct {
	Format string
	Level  zapcore.Level
	Env    string
}

// New returns a logger writing to w.
func New(w io.Writer, cfg Config) *zap.Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = func(ts time.Time, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(ts.UTC().Format(time.RFC3339))
	}
	enc.EncodeDuration = func(d time.Duration, encoder zapcore.PrimitiveArrayEncoder) {
		encoder.AppendString(d.String())
	}

	var encoder zapcore.Encoder
	switch format(cfg) {
	case "json":
		encoder = zapcore.NewJSONEncoder(enc)
	default:
		encoder = zapcore.NewConsoleEncoder(enc)
	}
	return zap.New(zapcore.NewCore(
		encoder,
		zapcore.Lock(zapcore.AddSync(w)),
		cfg.Level,
	))
}

func format(cfg Config) string {
	switch cfg.Format {
	case "json", "console":
		return cfg.Format
	}
	if cfg.Env == "prod" || cfg.Env == "production" {
		return "json"
	}
	return "console"
}

// ParseLevel maps a level name to a zapcore.Level, falling back to info.
func ParseLevel(s string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return zapcore.InfoLevel
	}
	return l
}

type loggerContextKey struct{}

// NewContext returns a new context with log added.
func NewContext(ctx context.Context, log *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerContextKey{}, log)
}

// FromContext returns the logger stored in ctx, or a no-op logger.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(loggerContextKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
