// Package logger holds the process-wide logrus logger.
//
// Output goes to stderr because stdout carries the MCP protocol stream.
// The level comes from VECTORIZE_MCP_LOG_LEVEL (debug, info, warn, error;
// default info) and can be changed later with SetLevel.
package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// EnvLogLevel names the environment variable read at startup.
const EnvLogLevel = "VECTORIZE_MCP_LOG_LEVEL"

var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stderr)
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	SetLevel(os.Getenv(EnvLogLevel))
}

// SetLevel changes the level by name. Unknown names select info.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// WithFields creates a new entry with the given fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates a new entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates a new entry with an error field
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}
