// Package log provides slog-based structured logging for mlefit.
//
// The default setup emits JSON records with a stacktrace attribute
// extracted from cockroachdb/errors values. SetupConsole installs a
// tint handler instead, for human-readable output in CLIs and examples.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// SetupLogger function setup logger.
func SetupLogger(loglevel string) {
	ops := slog.HandlerOptions{
		AddSource: true,
		Level:     ToLogLevel(loglevel),
	}
	handler := slog.NewJSONHandler(os.Stdout, &ops)
	errFmtHandler := WrapByErrFmtHandler(handler)
	slog.SetDefault(slog.New(errFmtHandler))
}

// SetupConsole installs a tinted console handler writing to w.
// Intended for terminal front ends; library code should not call this.
func SetupConsole(w io.Writer, loglevel string) {
	handler := tint.NewHandler(w, &tint.Options{
		Level: ToLogLevel(loglevel),
	})
	slog.SetDefault(slog.New(WrapByErrFmtHandler(handler)))
}

func ToLogLevel(level string) slog.Level {
	switch level {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		panic(fmt.Sprintf("invalid log level :%s", level))
	}
}

const (
	ErrAttrKey        = "error"
	StacktraceAttrKey = "stacktrace"
)

// ErrAttr is a wrapper to pass err to slog.
func ErrAttr(err error) slog.Attr {
	return slog.Any(ErrAttrKey, err)
}
