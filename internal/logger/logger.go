// Package logger configures the process-wide logrus logger from LOG_LEVEL and
// LOG_FORMAT so every command logs the same way.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

var defaultLogger *logrus.Logger

// Setup builds the default logger. LOG_LEVEL accepts any logrus level name;
// LOG_FORMAT=json switches to JSON lines. Output goes to stderr.
func Setup() *logrus.Logger {
	return SetupWith(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"), os.Stderr)
}

func SetupWith(level, format string, out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	l.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	defaultLogger = l
	return l
}

// L returns the default logger, setting it up on first use.
func L() *logrus.Logger {
	if defaultLogger == nil {
		return Setup()
	}
	return defaultLogger
}
