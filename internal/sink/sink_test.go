//go:build linux

package sink

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"fimwatch/internal/mqueue"
)

func TestLabelForMaskPrecedence(t *testing.T) {
	// IN_CLOSE_WRITE | IN_CLOSE_NOWRITE together should resolve to the
	// first match in precedence order, CLOSE_WRITE.
	mask := uint32(unix.IN_CLOSE_WRITE | unix.IN_CLOSE_NOWRITE)
	if got := labelForMask(mask); got != "IN_CLOSE_WRITE" {
		t.Fatalf("got %q want IN_CLOSE_WRITE", got)
	}
}

func TestSinkRunStopsOnExitSentinel(t *testing.T) {
	q := mqueue.NewMemQueue()
	s := &Sink{Queue: q, Node: "n", Pod: "p", Log: logrus.NewEntry(logrus.New())}

	done := make(chan struct{})
	go func() {
		s.Run(nil)
		close(done)
	}()

	if err := q.Send([]byte(mqueue.ExitMessage), 1, time.Second); err != nil {
		t.Fatalf("send sentinel: %v", err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sink did not stop after exit sentinel")
	}
}

func TestSinkLogsRenderedEvent(t *testing.T) {
	q := mqueue.NewMemQueue()
	logger := logrus.New()
	var out bytes.Buffer
	logger.SetOutput(&out)
	s := &Sink{Queue: q, Node: "n1", Pod: "p1", Log: logrus.NewEntry(logger)}

	ev := mqueue.EventRecord{EventMask: uint32(unix.IN_MODIFY), PathName: "/proc/99/root/etc", FileName: "passwd"}
	payload, err := mqueue.EncodeEventRecord(ev)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := q.Send(payload, 1, time.Second); err != nil {
		t.Fatalf("send: %v", err)
	}
	if err := q.Send([]byte(mqueue.ExitMessage), 1, time.Second); err != nil {
		t.Fatalf("send sentinel: %v", err)
	}

	done := make(chan struct{})
	go func() {
		s.Run(nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("sink did not finish")
	}
	if want := "IN_MODIFY file '/etc/passwd' (p1:n1)"; !strings.Contains(out.String(), want) {
		t.Fatalf("log output %q missing rendered line %q", out.String(), want)
	}
}
