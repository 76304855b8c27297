// Package rpc defines the request/response shapes the Lifecycle Engine's
// two operations accept, standing in for the out-of-scope wire transport.
// A generated gRPC server would marshal onto exactly these fields; this
// repository calls internal/engine.Service directly in-process instead.
package rpc

// Subject mirrors one watch subject in a CreateWatchRequest: a set of
// container-relative paths plus the event names to arm on them.
type Subject struct {
	Paths     []string
	Events    []string
	Recursive bool
}

// CreateWatchRequest asks the Lifecycle Engine to install (or update) a
// Watcher for one pod, identified by its container IDs.
type CreateWatchRequest struct {
	NodeName     string
	PodName      string
	ContainerIDs []string
	LogFormat    string
	Subjects     []Subject
}

// CreateWatchResponse reports the resolved pids and kernel handles the
// Watcher now owns.
type CreateWatchResponse struct {
	NodeName  string
	PodName   string
	Pids      []int
	QueueName string
	WakeupFDs []int
}

// DestroyWatchRequest asks the Lifecycle Engine to tear a Watcher down.
type DestroyWatchRequest struct {
	NodeName     string
	ContainerIDs []string
}

// DestroyWatchResponse carries nothing; success is the absence of an error.
type DestroyWatchResponse struct{}
