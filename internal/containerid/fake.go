package containerid

// FakeResolver is a test substitute for a real container runtime client,
// resolving only the container IDs registered with Set.
type FakeResolver struct {
	Pids map[string]int
}

func NewFakeResolver() *FakeResolver {
	return &FakeResolver{Pids: make(map[string]int)}
}

func (f *FakeResolver) Set(containerID string, pid int) {
	f.Pids[CleanContainerID(containerID)] = pid
}

func (f *FakeResolver) PidFor(containerID string) (int, bool) {
	pid, ok := f.Pids[CleanContainerID(containerID)]
	return pid, ok
}
