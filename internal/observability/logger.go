package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Service    string
	Level      string
	Format     string // "json" or "console"
	TimeFormat string
}

// NewLogger creates a zerolog logger tagged with the owning service name,
// sets it as the global logger, and returns it for constructor injection.
func NewLogger(config LoggerConfig) zerolog.Logger {
	level := parseLogLevel(config.Level)
	zerolog.SetGlobalLevel(level)

	var output io.Writer = os.Stdout
	if config.Format == "console" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: getTimeFormat(config.TimeFormat),
			NoColor:    false,
		}
	}

	logger := zerolog.New(output).
		With().
		Timestamp().
		Str("service", config.Service).
		Caller().
		Logger()

	log.Logger = logger

	return logger
}

func parseLogLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "fatal":
		return zerolog.FatalLevel
	case "panic":
		return zerolog.PanicLevel
	default:
		return zerolog.InfoLevel
	}
}

func getTimeFormat(format string) string {
	switch strings.ToLower(format) {
	case "rfc3339nano":
		return time.RFC3339Nano
	default:
		return time.RFC3339
	}
}

// WithRequestID adds the request's correlation ID to a derived logger, the
// HTTP analogue of the teacher's per-RPC logger enrichment.
func WithRequestID(logger zerolog.Logger, requestID string) zerolog.Logger {
	return logger.With().Str("request_id", requestID).Logger()
}
