package infra

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

const serviceName = "ugc-gateway"

// NewLogger constructs the process logger: JSON on stdout at Info level, or a
// colored console at Debug level in development.
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}
	zerolog.DurationFieldUnit = time.Millisecond

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("env", appEnv).
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}

// Logger aliases zerolog.Logger so packages can accept the service logger
// without importing zerolog directly.
type Logger = zerolog.Logger
