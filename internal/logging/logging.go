// Package logging builds the zap logger used for diagnostics. Reports go to
// stdout; everything the logger writes goes to the diagnostic stream.
package logging

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select the logger verbosity.
type Options struct {
	// Verbose enables debug messages.
	Verbose bool
	// Quiet limits output to warnings and errors.
	Quiet bool
}

// New returns a console logger writing to w (stderr when nil).
func New(w io.Writer, opts Options) *zap.Logger {
	if w == nil {
		w = os.Stderr
	}
	level := zapcore.InfoLevel
	switch {
	case opts.Verbose:
		level = zapcore.DebugLevel
	case opts.Quiet:
		level = zapcore.WarnLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	encCfg.CallerKey = ""
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	if !opts.Verbose {
		encCfg.NameKey = ""
	}

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core).Named("pwacheck")
}
