package logging

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

var Log *logrus.Logger

func init() {
	Log = logrus.New()
	Log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	Log.SetOutput(os.Stdout)
	Log.SetLevel(logrus.InfoLevel)
}

// SetLevel changes the log level from its textual name. An empty name keeps the current level.
func SetLevel(name string) error {
	if name == "" {
		return nil
	}
	level, err := logrus.ParseLevel(name)
	if err != nil {
		return err
	}
	Log.SetLevel(level)
	return nil
}
