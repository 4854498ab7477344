// Package utils provides shared CLI infrastructure such as logger creation.
package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	unsupportedLogLevelMessageTemplateConstant  = "unsupported log level %q"
	unsupportedLogFormatMessageTemplateConstant = "unsupported log format %q"
	standardErrorOutputPathConstant             = "stderr"
)

// LogLevel enumerates supported logging levels.
type LogLevel string

// Supported log levels.
const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

// LogFormat enumerates supported log encodings.
type LogFormat string

// Supported log formats.
const (
	LogFormatStructured LogFormat = "structured"
	LogFormatConsole    LogFormat = "console"
)

// LoggerFactory creates zap loggers from declarative settings.
type LoggerFactory struct{}

// NewLoggerFactory constructs a LoggerFactory instance.
func NewLoggerFactory() LoggerFactory {
	return LoggerFactory{}
}

// CreateLogger builds a logger for the requested level and format, writing to
// standard error so task output streams stay clean.
func (factory LoggerFactory) CreateLogger(requestedLevel LogLevel, requestedFormat LogFormat) (*zap.Logger, error) {
	zapLevel, levelError := resolveLevel(requestedLevel)
	if levelError != nil {
		return nil, levelError
	}

	loggerConfiguration := zap.NewProductionConfig()
	switch requestedFormat {
	case LogFormatStructured:
		loggerConfiguration.Encoding = "json"
	case LogFormatConsole:
		loggerConfiguration.Encoding = "console"
		loggerConfiguration.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		loggerConfiguration.EncoderConfig.TimeKey = ""
	default:
		return nil, fmt.Errorf(unsupportedLogFormatMessageTemplateConstant, string(requestedFormat))
	}

	loggerConfiguration.Level = zap.NewAtomicLevelAt(zapLevel)
	loggerConfiguration.OutputPaths = []string{standardErrorOutputPathConstant}
	loggerConfiguration.ErrorOutputPaths = []string{standardErrorOutputPathConstant}
	loggerConfiguration.DisableStacktrace = true

	return loggerConfiguration.Build()
}

func resolveLevel(requestedLevel LogLevel) (zapcore.Level, error) {
	switch requestedLevel {
	case LogLevelDebug:
		return zapcore.DebugLevel, nil
	case LogLevelInfo:
		return zapcore.InfoLevel, nil
	case LogLevelWarn:
		return zapcore.WarnLevel, nil
	case LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InvalidLevel, fmt.Errorf(unsupportedLogLevelMessageTemplateConstant, string(requestedLevel))
	}
}
