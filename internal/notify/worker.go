//go:build linux

// Package notify runs the Notification Worker: one goroutine per
// (pid, Subject) owning an inotify descriptor and an eventfd wake-up,
// posting matching kernel events into a Message Queue Sink's Queue.
package notify

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"fimwatch/internal/mqueue"
	"fimwatch/internal/subject"
)

// KillValue is written to a worker's eventfd to wake it out of poll(2) and
// ask it to exit, mirroring the original daemon's FIMNOTIFY_KILL signal.
const KillValue uint64 = 1

// inotifyEventHeaderLen is sizeof(struct inotify_event) before the
// variable-length name field.
const inotifyEventHeaderLen = 16

// Worker watches every resolved root-relative path of one Subject for one
// target pid.
type Worker struct {
	Pid     int
	Subject subject.Subject
	Queue   mqueue.Queue
	Log     *logrus.Entry

	inotifyFD int
	wakeupFD  int

	watchPaths map[int32]string // inotify watch descriptor -> path it covers
}

// Start installs the inotify watches for the worker's subject and returns
// the worker's wake-up eventfd plus the background goroutine's done channel.
// The caller owns the wake-up fd for teardown (writing KillValue to it).
func Start(w *Worker) (wakeupFD int, done <-chan struct{}, err error) {
	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return 0, nil, fmt.Errorf("notify: inotify_init1: %w", err)
	}
	w.inotifyFD = fd

	efd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		unix.Close(fd)
		return 0, nil, fmt.Errorf("notify: eventfd: %w", err)
	}
	w.wakeupFD = efd

	w.watchPaths = make(map[int32]string)
	requestedMask := subject.EventMaskForSubject(w.Subject)
	installMask := requestedMask
	if w.Subject.Recursive {
		installMask |= unix.IN_CREATE
	}

	for _, path := range subject.PathsForSubject(w.Pid, w.Subject) {
		if err := w.addWatch(path, installMask); err != nil {
			w.Log.WithError(err).WithField("path", path).Warn("notify: add watch failed")
			continue
		}
		if w.Subject.Recursive {
			w.addDescendantWatches(path, installMask)
		}
	}

	doneCh := make(chan struct{})
	go func() {
		defer close(doneCh)
		w.run(installMask, requestedMask)
	}()

	return efd, doneCh, nil
}

func (w *Worker) addWatch(path string, mask uint32) error {
	wd, err := unix.InotifyAddWatch(w.inotifyFD, path, mask)
	if err != nil {
		return fmt.Errorf("inotify_add_watch %s: %w", path, err)
	}
	w.watchPaths[int32(wd)] = path
	return nil
}

// addDescendantWatches walks an already-watched directory and installs a
// watch on every descendant directory too, matching the original demo's
// one-watch-per-argv-path loop generalized from a static list to a live
// filesystem walk.
func (w *Worker) addDescendantWatches(root string, mask uint32) {
	filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || path == root || !d.IsDir() {
			return nil
		}
		if err := w.addWatch(path, mask); err != nil {
			w.Log.WithError(err).WithField("path", path).Warn("notify: recursive add watch failed")
		}
		return nil
	})
}

func (w *Worker) run(installMask, requestedMask uint32) {
	defer unix.Close(w.inotifyFD)
	defer unix.Close(w.wakeupFD)

	buf := make([]byte, 64*1024)

	for {
		if !w.targetAlive() {
			w.Log.Warn("notify: target process no longer reachable, worker exiting")
			return
		}

		fds := []unix.PollFd{
			{Fd: int32(w.inotifyFD), Events: unix.POLLIN},
			{Fd: int32(w.wakeupFD), Events: unix.POLLIN},
		}
		n, err := unix.Poll(fds, 1000)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			w.Log.WithError(err).Warn("notify: poll failed")
			return
		}
		if n == 0 {
			continue
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			return
		}
		if fds[0].Revents&unix.POLLIN != 0 {
			w.drain(buf, installMask, requestedMask)
		}
	}
}

func (w *Worker) targetAlive() bool {
	if err := unix.Kill(w.Pid, 0); err != nil {
		return false
	}
	if _, err := os.Stat(fmt.Sprintf("/proc/%d/root", w.Pid)); err != nil {
		return false
	}
	return true
}

func (w *Worker) drain(buf []byte, installMask, requestedMask uint32) {
	n, err := unix.Read(w.inotifyFD, buf)
	if err != nil {
		if err != unix.EAGAIN {
			w.Log.WithError(err).Warn("notify: read inotify fd failed")
		}
		return
	}

	offset := 0
	for offset+inotifyEventHeaderLen <= n {
		raw := buf[offset : offset+inotifyEventHeaderLen]
		wd := int32(le32(raw[0:4]))
		mask := le32(raw[4:8])
		nameLen := int(le32(raw[12:16]))

		name := ""
		if nameLen > 0 && offset+inotifyEventHeaderLen+nameLen <= n {
			nameBytes := buf[offset+inotifyEventHeaderLen : offset+inotifyEventHeaderLen+nameLen]
			name = cstring(nameBytes)
		}
		offset += inotifyEventHeaderLen + nameLen

		path, ok := w.watchPaths[wd]
		if !ok {
			continue
		}
		w.handleEvent(path, name, mask, installMask, requestedMask)
	}
}

// handleEvent always auto-installs a watch on a newly created subdirectory
// when the subject is recursive, regardless of the subject's requested
// events — that bookkeeping is what makes later events under the new
// subdirectory visible at all. Forwarding an event to the queue is a
// separate decision gated on requestedMask, the mask the subject actually
// asked for, so a recursive subject watching only "modify" doesn't also
// emit CREATE log lines purely because of the internal auto-watch mask.
func (w *Worker) handleEvent(path, name string, mask, installMask, requestedMask uint32) {
	if mask&unix.IN_CREATE != 0 && mask&unix.IN_ISDIR != 0 && w.Subject.Recursive {
		w.addWatch(filepath.Join(path, name), installMask)
		w.addDescendantWatches(filepath.Join(path, name), installMask)
	}

	if mask&requestedMask == 0 {
		return
	}

	ev := mqueue.EventRecord{
		EventMask: mask,
		IsDir:     mask&unix.IN_ISDIR != 0,
		PathName:  path,
		FileName:  name,
	}
	payload, err := mqueue.EncodeEventRecord(ev)
	if err != nil {
		w.Log.WithError(err).Warn("notify: encode event record failed")
		return
	}
	if w.Queue == nil {
		w.Log.Warn("notify: no queue to send to, dropping event")
		return
	}
	if err := w.Queue.Send(payload, 1, 5*time.Second); err != nil {
		w.Log.WithError(err).Warn("notify: send to queue failed")
	}
}

func le32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}

func cstring(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
