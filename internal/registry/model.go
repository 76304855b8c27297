package registry

import (
	"sync"

	"fimwatch/internal/mqueue"
)

// Watcher is everything the Lifecycle Engine tracks for one active watch:
// the node/pod it belongs to, the pids it spans, the message queue handle
// its workers post into, the Sink goroutine draining that queue, and the
// wake-up descriptors used to tear the workers down. Ownership of the
// underlying kernel resources and goroutines is the Watcher's for as long
// as it lives in the Registry.
type Watcher struct {
	NodeName  string
	PodName   string
	Pids      []int
	QueueName string
	LogFormat string
	Queue     mqueue.Queue

	// SinkDone, when closed, tells the Sink goroutine draining Queue to
	// stop. One generation of a Watcher (one Queue, one Sink) owns exactly
	// one of these; an update-Create closes the old one before installing
	// a fresh Queue and Sink for the new generation.
	SinkDone chan struct{}

	fdMu      sync.Mutex
	wakeupFDs []int
}

// AddWakeupFD records a Notification Worker's wake-up descriptor.
func (w *Watcher) AddWakeupFD(fd int) {
	w.fdMu.Lock()
	defer w.fdMu.Unlock()
	w.wakeupFDs = append(w.wakeupFDs, fd)
}

// RemoveWakeupFD drops a wake-up descriptor once its worker has exited, so
// a later Destroy doesn't signal an already-closed fd.
func (w *Watcher) RemoveWakeupFD(fd int) {
	w.fdMu.Lock()
	defer w.fdMu.Unlock()
	out := w.wakeupFDs[:0]
	for _, existing := range w.wakeupFDs {
		if existing != fd {
			out = append(out, existing)
		}
	}
	w.wakeupFDs = out
}

// WakeupFDs returns a snapshot of the currently tracked wake-up descriptors.
func (w *Watcher) WakeupFDs() []int {
	w.fdMu.Lock()
	defer w.fdMu.Unlock()
	out := make([]int, len(w.wakeupFDs))
	copy(out, w.wakeupFDs)
	return out
}

// ClearWakeupFDs drops every tracked descriptor at once, used when an
// update Create retires a whole generation of workers in one step rather
// than waiting for each one's supervisor to prune it individually.
func (w *Watcher) ClearWakeupFDs() {
	w.fdMu.Lock()
	defer w.fdMu.Unlock()
	w.wakeupFDs = nil
}

// pidsOverlap reports whether a and b share at least one pid.
func pidsOverlap(a, b []int) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}
