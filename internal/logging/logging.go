// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Init sets up logrus with the given level and, when logfile is non-empty,
// appends to that file instead of stderr. An unknown level falls back to
// info. The returned closer releases the log file, if any.
func Init(logfile, level string) io.Closer {
	out := io.Writer(os.Stderr)
	var closer io.Closer = nopCloser{}
	colors := term.IsTerminal(int(os.Stderr.Fd()))
	if logfile != "" {
		file, err := os.OpenFile(logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			out, closer, colors = file, file, false
		} else {
			logrus.WithError(err).Warn("Failed to open log file, logging to stderr")
		}
	}
	logrus.SetOutput(out)
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:   colors,
		DisableColors: !colors,
		FullTimestamp: true,
		DisableQuote:  true,
		PadLevelText:  true,
	})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		if level != "" {
			logrus.WithField("level", level).Warn("Unknown log level, using info")
		}
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
