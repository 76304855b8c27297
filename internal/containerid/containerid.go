// Package containerid resolves container IDs to the pids backing them and
// normalizes the scheme-prefixed IDs a container runtime hands back.
package containerid

import "strings"

// Resolver maps a container ID to the pid of its main process. Container
// runtime introspection itself is out of scope for this repository; callers
// supply whichever Resolver fits their runtime.
type Resolver interface {
	PidFor(containerID string) (pid int, ok bool)
}

// CleanContainerID strips a "docker://"-style scheme prefix, returning the
// bare ID a runtime's proc/cgroup namespace actually uses.
func CleanContainerID(id string) string {
	if i := strings.Index(id, "://"); i >= 0 {
		return id[i+3:]
	}
	return id
}
