//go:build linux

package engine

import (
	"encoding/binary"

	"golang.org/x/sys/unix"

	"fimwatch/internal/notify"
)

// notifyKill writes the eventfd wake-up value a Notification Worker's
// poll(2) loop is waiting on, asking it to exit.
func notifyKill(fd int) {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, notify.KillValue)
	unix.Write(fd, buf)
}
