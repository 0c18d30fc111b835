package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
)

// BuildLogger ensures everything printed by the logger is done to stderr.
// This allows the application to print the form snapshot and summary to stdout, which can be redirected to a file.
// Debug messages are only enabled when verbose is set.
func BuildLogger(verbose bool) {
	minLevel := zapcore.InfoLevel
	if verbose {
		minLevel = zapcore.DebugLevel
	}

	enabled := zap.LevelEnablerFunc(func(level zapcore.Level) bool {
		return level >= minLevel
	})

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
			TimeKey:        "ts",
			LevelKey:       "level",
			NameKey:        "logger",
			CallerKey:      "caller",
			FunctionKey:    zapcore.OmitKey,
			MessageKey:     "msg",
			StacktraceKey:  "stacktrace",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.LowercaseLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.SecondsDurationEncoder,
			EncodeCaller:   zapcore.ShortCallerEncoder,
		}),
		zapcore.Lock(os.Stderr),
		enabled,
	)

	// replace the global logger
	zap.ReplaceGlobals(zap.New(core).Named("formreplicator"))
}
