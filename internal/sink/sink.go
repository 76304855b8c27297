//go:build linux

// Package sink implements the Message Queue Sink: it drains a shared
// internal/mqueue.Queue, maps each event's inotify mask to a single label
// by a fixed precedence order, and renders the configured log template.
package sink

import (
	"regexp"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"fimwatch/internal/mqueue"
)

// procRootPrefix strips the "/proc/<pid>/root" prefix a Notification
// Worker adds when resolving a container-relative path, so logged paths
// read the way they do inside the container rather than from the host.
var procRootPrefix = regexp.MustCompile(`^/proc/[0-9]+/root`)

// labelPrecedence lists (mask bit, label) pairs in the exact order the
// original daemon checked them; the first bit that matches wins, which is
// why "close" installs two bits but never gets one combined label here.
var labelPrecedence = []struct {
	bit   uint32
	label string
}{
	{unix.IN_ACCESS, "IN_ACCESS"},
	{unix.IN_MODIFY, "IN_MODIFY"},
	{unix.IN_ATTRIB, "IN_ATTRIB"},
	{unix.IN_OPEN, "IN_OPEN"},
	{unix.IN_CLOSE_WRITE, "IN_CLOSE_WRITE"},
	{unix.IN_CLOSE_NOWRITE, "IN_CLOSE_NOWRITE"},
	{unix.IN_CREATE, "IN_CREATE"},
	{unix.IN_DELETE, "IN_DELETE"},
	{unix.IN_DELETE_SELF, "IN_DELETE_SELF"},
	{unix.IN_MOVED_FROM, "IN_MOVED_FROM"},
	{unix.IN_MOVED_TO, "IN_MOVED_TO"},
	{unix.IN_MOVE_SELF, "IN_MOVE_SELF"},
}

func labelForMask(mask uint32) string {
	for _, p := range labelPrecedence {
		if mask&p.bit != 0 {
			return p.label
		}
	}
	return "UNKNOWN"
}

// Sink drains one Queue and logs a rendered line per event until it reads
// the exit sentinel, then closes and unlinks the queue.
type Sink struct {
	Queue    mqueue.Queue
	Node     string
	Pod      string
	Template string
	Log      *logrus.Entry
}

// Run blocks until the exit sentinel arrives on the queue or ctxDone fires.
func (s *Sink) Run(ctxDone <-chan struct{}) {
	tmpl := s.Template
	if tmpl == "" {
		tmpl = DefaultTemplate
	}

	defer s.Queue.Close()
	defer s.Queue.Unlink()

	for {
		select {
		case <-ctxDone:
			return
		default:
		}

		payload, err := s.Queue.Receive(time.Second)
		if err != nil {
			continue
		}
		if string(payload) == mqueue.ExitMessage {
			return
		}

		ev, err := mqueue.DecodeEventRecord(payload)
		if err != nil {
			s.Log.WithError(err).Warn("sink: decode event record failed")
			continue
		}
		s.logEvent(tmpl, ev)
	}
}

func (s *Sink) logEvent(tmpl string, ev mqueue.EventRecord) {
	ftype := "file"
	sep := "/"
	if ev.IsDir {
		ftype = "directory"
	}
	if ev.FileName == "" {
		sep = ""
	}

	values := map[string]string{
		"event": labelForMask(ev.EventMask),
		"ftype": ftype,
		"path":  procRootPrefix.ReplaceAllString(ev.PathName, ""),
		"file":  ev.FileName,
		"sep":   sep,
		"pod":   s.Pod,
		"node":  s.Node,
		"mask":  strconv.FormatUint(uint64(ev.EventMask), 16),
	}

	line, err := renderTemplate(tmpl, values)
	if err != nil {
		s.Log.WithError(err).Warn("sink: template render failed, dropping event")
		return
	}
	s.Log.Info(line)
}
