package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

var log *slog.Logger

// New wraps a handler in a slog.Logger. Exposed for tests that capture output.
func New(h slog.Handler) *slog.Logger {
	return slog.New(h)
}

func NewJSONHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return slog.NewJSONHandler(w, opts)
}

func Init() {
	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func ensure() {
	if log == nil {
		Init()
	}
}

func Info(msg string, args ...interface{}) {
	ensure()
	log.Info(msg, args...)
}

func Infof(format string, v ...interface{}) {
	ensure()
	log.Info(fmt.Sprintf(format, v...))
}

func Warn(msg string, args ...interface{}) {
	ensure()
	log.Warn(msg, args...)
}

func Warnf(format string, v ...interface{}) {
	ensure()
	log.Warn(fmt.Sprintf(format, v...))
}

func Error(msg string, args ...interface{}) {
	ensure()
	log.Error(msg, args...)
}

func Errorf(format string, v ...interface{}) {
	ensure()
	log.Error(fmt.Sprintf(format, v...))
}

func Debug(msg string, args ...interface{}) {
	ensure()
	log.Debug(msg, args...)
}

func Debugf(format string, v ...interface{}) {
	ensure()
	log.Debug(fmt.Sprintf(format, v...))
}

func Fatal(msg string) {
	ensure()
	log.Error(msg)
	os.Exit(1)
}

func Fatalf(format string, v ...interface{}) {
	ensure()
	log.Error(fmt.Sprintf(format, v...))
	os.Exit(1)
}

// WithError returns a logger carrying the error as a structured field.
func WithError(err error) *slog.Logger {
	ensure()
	return log.With("error", err)
}

func WithFields(fields map[string]interface{}) *slog.Logger {
	ensure()
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return log.With(args...)
}
