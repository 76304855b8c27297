// Package subject turns a watch Subject into the concrete paths and kernel
// event mask the Notification Worker installs.
package subject

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Subject describes one set of paths and event names to watch inside a
// container's root filesystem, relative to the container root.
type Subject struct {
	Paths     []string
	Events    []string
	Recursive bool
}

// PathsForSubject resolves each of the subject's relative paths against the
// given process's root filesystem view. The order and count of the result
// mirrors Paths exactly; no normalization or deduplication is performed.
func PathsForSubject(pid int, s Subject) []string {
	out := make([]string, len(s.Paths))
	for i, p := range s.Paths {
		out[i] = fmt.Sprintf("/proc/%d/root%s", pid, p)
	}
	return out
}

// eventMasks maps recognized event names to the inotify bits they arm.
// "close" arms both halves of an fd close since inotify itself has no
// single combined close event.
var eventMasks = map[string]uint32{
	"all":    unix.IN_ALL_EVENTS,
	"access": unix.IN_ACCESS,
	"modify": unix.IN_MODIFY,
	"attrib": unix.IN_ATTRIB,
	"open":   unix.IN_OPEN,
	"close":  unix.IN_CLOSE_WRITE | unix.IN_CLOSE_NOWRITE,
	"create": unix.IN_CREATE,
	"delete": unix.IN_DELETE,
	"move":   unix.IN_MOVED_FROM | unix.IN_MOVED_TO,
}

// EventMaskForSubject ORs together the inotify bits for every recognized
// event name in the subject. Unrecognized names are ignored silently; a
// subject with no recognized names legally yields a zero mask.
func EventMaskForSubject(s Subject) uint32 {
	var mask uint32
	for _, name := range s.Events {
		mask |= eventMasks[name]
	}
	return mask
}
