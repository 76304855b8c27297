package containerid

import "strconv"

// PassthroughResolver treats a cleaned container ID as a literal decimal
// pid. Real container-runtime introspection (CRI/containerd/Docker client
// calls) is out of scope for this repository; this is the resolver
// fimwatchd falls back to when no other Resolver is wired in, letting a
// manifest address a process directly by pid for local testing and
// environments where pids are already known.
type PassthroughResolver struct{}

func (PassthroughResolver) PidFor(containerID string) (int, bool) {
	pid, err := strconv.Atoi(CleanContainerID(containerID))
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}
