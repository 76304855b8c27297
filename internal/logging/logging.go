// Package logging constructs the logrus logger shared by the Notification
// Worker, Message Queue Sink, and Lifecycle Engine.
package logging

import (
	"os"

	"github.com/sirupsen/logrus"
)

// New returns a logrus.Logger writing JSON to stdout at the given level
// ("debug", "info", "warn", "error"; defaults to "info" on a bad value).
func New(level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{})

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	log.SetLevel(lvl)
	return log
}

// WithWatcher returns a logger pre-tagged with the node/pod identifying a
// Watcher, matching the field names the Sink and Engine log against.
func WithWatcher(log *logrus.Logger, node, pod string) *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"node": node,
		"pod":  pod,
	})
}
