// Package logger provides a wrapper around logrus for structured logging.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Option configures a logger built by NewLogger
type Option func(*logrus.Logger, *settings)

type settings struct {
	environment string
}

// WithEnvironment selects the formatter: JSON in production, text otherwise
func WithEnvironment(environment string) Option {
	return func(_ *logrus.Logger, s *settings) {
		s.environment = environment
	}
}

// WithOutput redirects log output
func WithOutput(w io.Writer) Option {
	return func(l *logrus.Logger, _ *settings) {
		l.SetOutput(w)
	}
}

// NewLogger creates a new configured logger instance. Logs go to stderr so command
// output on stdout stays machine readable.
func NewLogger(logLevel string, opts ...Option) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	s := &settings{environment: os.Getenv("P10_APP_ENVIRONMENT")}
	for _, opt := range opts {
		opt(logger, s)
	}

	// Parse and set log level
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logger.Warnf("Invalid log level '%s', defaulting to warn", logLevel)
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)

	if s.environment == "production" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

// Silent returns a logger that discards everything, for library defaults
func Silent() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.PanicLevel)
	return logger
}
