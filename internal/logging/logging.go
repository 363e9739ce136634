// Package logging provides context-scoped logrus entries. Fields attached to a
// context with WithLogField travel with it, so request-scoped values (user ID,
// request ID) show up on every line logged downstream.
package logging

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

const maxFieldLength = 64

var rootLogger = logrus.New()

// L returns the logrus entry scoped to ctx, or the root entry when the context
// carries none.
func L(ctx context.Context) *logrus.Entry {
	if ctx != nil {
		if entry, ok := ctx.Value(ctxKey{}).(*logrus.Entry); ok {
			return entry
		}
	}
	return logrus.NewEntry(rootLogger)
}

// WithLogField returns a child context whose entry carries the given field.
// Values are truncated so a runaway payload cannot flood the log line.
func WithLogField(ctx context.Context, key, value string) context.Context {
	if len(value) > maxFieldLength {
		value = value[0:maxFieldLength-3] + "..."
	}
	return context.WithValue(ctx, ctxKey{}, L(ctx).WithField(key, value))
}

// WithLogger returns a child context scoped to the given entry.
func WithLogger(ctx context.Context, entry *logrus.Entry) context.Context {
	return context.WithValue(ctx, ctxKey{}, entry)
}

// SetLevel parses and applies a log level name, defaulting to info on garbage
// input so a bad env var never silences the process.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	rootLogger.SetLevel(parsed)
	logrus.SetLevel(parsed)
}

// Formatting controls the output format of the root logger.
type Formatting struct {
	DisableColor bool
	UTC          bool
}

func SetFormatting(format Formatting) {
	formatter := &logrus.TextFormatter{
		DisableColors:   format.DisableColor,
		TimestampFormat: time.RFC3339Nano,
		FullTimestamp:   true,
	}
	rootLogger.SetFormatter(formatter)
	logrus.SetFormatter(formatter)
}

// SetJSONFormatting switches the root logger to JSON output, the format used in
// deployed environments.
func SetJSONFormatting() {
	formatter := &logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano}
	rootLogger.SetFormatter(formatter)
	logrus.SetFormatter(formatter)
}
