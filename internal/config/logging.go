package config

import (
	"errors"
	"fmt"
	"strings"
)

// LogLevel represents a supported logging severity level.
type LogLevel string

const (
	// LoggingTypeStderr writes logs to stderr (only supported type).
	// Stdout is reserved for envelope data and must stay clean.
	LoggingTypeStderr = "stderr"

	// LogLevelDebug is the debug log level.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo is the info log level.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn is the warn log level.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError is the error log level.
	LogLevelError LogLevel = "error"
)

var (
	// errInvalidLoggingType is returned when an invalid logging type is provided.
	errInvalidLoggingType = errors.New("invalid logging type")
	// errInvalidLoggingLevel is returned when an invalid logging level is provided.
	errInvalidLoggingLevel = errors.New("invalid logging level")
)

// Logging contains configuration for logging.
type Logging struct {
	// Type indicates where logs should be written, defaulting to "stderr".
	Type string `mapstructure:"type" yaml:"type,omitempty"`

	// Level is the log level to use, defaulting to "info".
	Level LogLevel `mapstructure:"level" yaml:"level,omitempty"`
}

// Validate validates the logging configuration.
func (l *Logging) Validate() error {
	// Type is optional; empty means use default. If set, must be stderr.
	switch strings.ToLower(strings.TrimSpace(l.Type)) {
	case "":
		// allow empty, defaults applied elsewhere (overrides)
	case LoggingTypeStderr:
		// ok
	default:
		return fmt.Errorf("%w: %s", errInvalidLoggingType, l.Type)
	}

	switch strings.ToLower(string(l.Level)) {
	case "":
		// allow empty, defaults applied elsewhere (overrides)
	case string(LogLevelDebug), string(LogLevelInfo), string(LogLevelWarn), string(LogLevelError):
		// ok
	default:
		return fmt.Errorf("%w: %s", errInvalidLoggingLevel, l.Level)
	}

	return nil
}
