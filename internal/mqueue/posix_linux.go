//go:build linux

package mqueue

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

// golang.org/x/sys/unix has no mq_* wrappers; these are the Linux syscall
// numbers for the architecture being built, taken from its syscall table.
const (
	sysMqOpen         = unix.SYS_MQ_OPEN
	sysMqUnlink       = unix.SYS_MQ_UNLINK
	sysMqTimedsend    = unix.SYS_MQ_TIMEDSEND
	sysMqTimedreceive = unix.SYS_MQ_TIMEDRECEIVE
)

const (
	oCreat  = 0o100
	oRDWR   = 0o2
	oNonblk = 0o4000
)

type mqAttr struct {
	Flags   int64
	Maxmsg  int64
	Msgsize int64
	Curmsgs int64
}

// PosixQueue backs Queue with a real System V... no, POSIX message queue,
// created via mq_open and addressed by a leading-slash name such as
// "/fimwatch-node1-pod1".
type PosixQueue struct {
	name string
	fd   uintptr
}

// OpenPosixQueue creates the named POSIX message queue with MaxMessages
// slots of MQMaxSize bytes, owner read-write only, or opens it if it
// already exists.
func OpenPosixQueue(name string) (*PosixQueue, error) {
	attr := mqAttr{Maxmsg: MaxMessages, Msgsize: MQMaxSize}
	namePtr, err := unix.BytePtrFromString(name)
	if err != nil {
		return nil, fmt.Errorf("mqueue: encode name %q: %w", name, err)
	}

	fd, _, errno := unix.Syscall6(sysMqOpen,
		uintptr(unsafe.Pointer(namePtr)),
		uintptr(oCreat|oRDWR),
		uintptr(0600),
		uintptr(unsafe.Pointer(&attr)),
		0, 0)
	if errno != 0 {
		return nil, fmt.Errorf("mqueue: mq_open %q: %w", name, errno)
	}
	return &PosixQueue{name: name, fd: fd}, nil
}

// RecreatePosixQueue closes and unlinks any existing queue under name
// before opening a fresh one, matching the original daemon's
// update-in-place behavior: in-flight messages on the old queue are lost.
func RecreatePosixQueue(name string) (*PosixQueue, error) {
	if stale, err := OpenPosixQueue(name); err == nil {
		stale.Close()
		stale.Unlink()
	}
	return OpenPosixQueue(name)
}

func timespecDeadline(d time.Duration) unix.Timespec {
	t := time.Now().Add(d)
	return unix.NsecToTimespec(t.UnixNano())
}

func (q *PosixQueue) Send(payload []byte, priority uint, timeout time.Duration) error {
	if len(payload) > MQMaxSize {
		return fmt.Errorf("mqueue: payload %d bytes exceeds MQMaxSize", len(payload))
	}
	ts := timespecDeadline(timeout)
	_, _, errno := unix.Syscall6(sysMqTimedsend,
		q.fd,
		uintptr(unsafe.Pointer(&payload[0])),
		uintptr(len(payload)),
		uintptr(priority),
		uintptr(unsafe.Pointer(&ts)),
		0)
	if errno != 0 {
		return fmt.Errorf("mqueue: mq_timedsend: %w", errno)
	}
	return nil
}

func (q *PosixQueue) Receive(timeout time.Duration) ([]byte, error) {
	buf := make([]byte, MQMaxSize)
	ts := timespecDeadline(timeout)
	var priority uint32

	n, _, errno := unix.Syscall6(sysMqTimedreceive,
		q.fd,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		uintptr(unsafe.Pointer(&priority)),
		uintptr(unsafe.Pointer(&ts)),
		0)
	if errno != 0 {
		return nil, fmt.Errorf("mqueue: mq_timedreceive: %w", errno)
	}
	return buf[:n], nil
}

func (q *PosixQueue) Close() error {
	return unix.Close(int(q.fd))
}

func (q *PosixQueue) Unlink() error {
	namePtr, err := unix.BytePtrFromString(q.name)
	if err != nil {
		return fmt.Errorf("mqueue: encode name %q: %w", q.name, err)
	}
	_, _, errno := unix.Syscall(sysMqUnlink, uintptr(unsafe.Pointer(namePtr)), 0, 0)
	if errno != 0 {
		return fmt.Errorf("mqueue: mq_unlink %q: %w", q.name, errno)
	}
	return nil
}
