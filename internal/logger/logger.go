// Package logger wraps a shared logrus instance configured from the
// application config (level + optional log file).
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared application logger. Packages use it directly:
// logger.Log.Infof(...).
var Log = logrus.New()

// Init configures the shared logger. An empty logFile logs to stdout only;
// otherwise output goes to both stdout and the file (appended).
func Init(level, logFile string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			return err
		}
		Log.SetOutput(io.MultiWriter(os.Stdout, f))
	}
	return nil
}

// SetLogger swaps the shared instance (tests inject a silenced logger).
func SetLogger(l *logrus.Logger) {
	if l != nil {
		Log = l
	}
}
