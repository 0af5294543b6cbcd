package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var (
	InfoLogger  = newLogger(os.Stdout)
	ErrorLogger = newLogger(os.Stderr)
)

func InitLogger() {
	InfoLogger = newLogger(os.Stdout)
	ErrorLogger = newLogger(os.Stderr)
}

// SetLogOutput redirects both loggers, e.g. to io.Discard in tests or to the
// CLI's stderr.
func SetLogOutput(w io.Writer) {
	InfoLogger.SetOutput(w)
	ErrorLogger.SetOutput(w)
}

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	// Printf logs at info, so ErrorLogger cannot be raised to error level
	l.SetLevel(logrus.InfoLevel)
	return l
}
