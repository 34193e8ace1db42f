package utils

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	warningMessage = "skipped"
	pathFieldName  = "path"
)

// NewApplicationLogger constructs a zap logger configured for human-readable console output.
func NewApplicationLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.DisableCaller = true
	config.DisableStacktrace = true
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.EncoderConfig.TimeKey = ""
	config.EncoderConfig.NameKey = ""
	config.EncoderConfig.CallerKey = ""
	config.EncoderConfig.MessageKey = "message"
	config.EncoderConfig.StacktraceKey = ""
	return config.Build()
}

// WarningReporter adapts logger to the callback the tree builder uses for
// problems that do not stop a listing.
func WarningReporter(logger *zap.Logger) func(path string, warning error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(path string, warning error) {
		logger.Warn(warningMessage, zap.String(pathFieldName, path), zap.Error(warning))
	}
}
