package observability

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// InitLogger configures the process-wide zerolog logger. Development runs
// get a human-readable console writer at debug level; every other
// environment emits JSON lines at info level for the log pipeline, with the
// service identity stamped on each entry.
func InitLogger(serviceName, serviceVersion, env string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(levelFor(env))

	if env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		}).With().
			Str("service", serviceName).
			Logger()
		return
	}

	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Str("version", serviceVersion).
		Logger()
}

func levelFor(env string) zerolog.Level {
	if env == "development" {
		return zerolog.DebugLevel
	}
	return zerolog.InfoLevel
}

// LoggerFromContext returns the request logger. When the context carries an
// active span the trace and span IDs ride along so log lines can be joined
// to traces.
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	logger := log.With().Logger()

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		logger = logger.With().
			Str("trace_id", span.SpanContext().TraceID().String()).
			Str("span_id", span.SpanContext().SpanID().String()).
			Logger()
	}

	return &logger
}

// GetLogger returns the global logger
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
