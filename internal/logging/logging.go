// Package logging builds the diagnostic logger. Logs always go to stderr so
// stdout stays reserved for the shell command the wrapper evaluates.
package logging

import (
	"os"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a no-op logger unless debug is set, in which case it returns a
// development logger writing to stderr.
func New(debug bool) *zap.Logger {
	if !debug {
		return zap.NewNop()
	}
	return build(zapcore.Lock(os.Stderr), isatty.IsTerminal(os.Stderr.Fd()))
}

func build(out zapcore.WriteSyncer, color bool) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	if color {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), out, zapcore.DebugLevel)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(out)).Named("awsps")
}
