// Package logging contains the logging logic for cadence
package logging

import (
	"fmt"
	"os"
	"strings"

	providerconfig "github.com/cadencehq/cadence/internal/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger returns a new Logger for the specified config.
// If the config is empty, it defaults to stderr at info level.
// Logs never go to stdout: stdout carries envelope data.
func NewLogger(cfg providerconfig.Logging) (*zap.Logger, error) {
	level := parseZapLevel(cfg.Level)

	// Only stderr supported. Default to stderr when empty.
	output := strings.TrimSpace(strings.ToLower(cfg.Type))
	if output == "" {
		output = providerconfig.LoggingTypeStderr
	}
	if output != providerconfig.LoggingTypeStderr {
		return nil, fmt.Errorf("unknown output type: %s", cfg.Type)
	}

	core := newStderrCore(level)
	return zap.New(core), nil
}

func parseZapLevel(level providerconfig.LogLevel) zapcore.Level {
	switch strings.ToLower(string(level)) {
	case string(providerconfig.LogLevelDebug):
		return zapcore.DebugLevel
	case string(providerconfig.LogLevelWarn):
		return zapcore.WarnLevel
	case string(providerconfig.LogLevelError):
		return zapcore.ErrorLevel
	case string(providerconfig.LogLevelInfo):
		fallthrough
	case "":
		return zapcore.InfoLevel
	default:
		return zapcore.InfoLevel
	}
}

func newStderrCore(level zapcore.Level) zapcore.Core {
	return zapcore.NewCore(newEncoder(), zapcore.Lock(os.Stderr), level)
}

func newEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.CallerKey = ""
	encoderConfig.StacktraceKey = ""
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.MessageKey = "message"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return zapcore.NewJSONEncoder(encoderConfig)
}
