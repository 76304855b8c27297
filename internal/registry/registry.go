// Package registry is the Watcher Registry: the set of currently active
// watches, searched linearly rather than through secondary indexes since
// the expected cardinality (watches per node) never justifies one.
package registry

import "sync"

// Registry is a threadsafe, unindexed catalog of active Watchers.
type Registry struct {
	mu       sync.Mutex
	watchers []*Watcher
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// FindByPids returns the first Watcher on node whose pid list shares at
// least one pid with the given set, matching the Lifecycle Engine's
// reconciliation lookup (spec §4.4): a Create that resolves to any pid
// already covered by a Watcher updates that Watcher rather than creating a
// second one for the same process.
func (r *Registry) FindByPids(node string, pids []int) *Watcher {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.watchers {
		if w.NodeName == node && pidsOverlap(w.Pids, pids) {
			return w
		}
	}
	return nil
}

// FindByPod returns the Watcher for a given node/pod pair, if any.
func (r *Registry) FindByPod(node, pod string) *Watcher {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, w := range r.watchers {
		if w.NodeName == node && w.PodName == pod {
			return w
		}
	}
	return nil
}

// Insert adds a new Watcher to the registry.
func (r *Registry) Insert(w *Watcher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers = append(r.watchers, w)
}

// Replace swaps an existing Watcher pointer for a new one in place,
// preserving its position so List order stays stable. The Lifecycle
// Engine's update path does not use it: it mutates the existing Watcher.
func (r *Registry) Replace(old, updated *Watcher) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, w := range r.watchers {
		if w == old {
			r.watchers[i] = updated
			return true
		}
	}
	return false
}

// Remove deletes a Watcher from the registry by identity.
func (r *Registry) Remove(w *Watcher) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, candidate := range r.watchers {
		if candidate == w {
			r.watchers = append(r.watchers[:i], r.watchers[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a snapshot slice of every active Watcher.
func (r *Registry) List() []*Watcher {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Watcher, len(r.watchers))
	copy(out, r.watchers)
	return out
}

// Reset clears the registry.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.watchers = nil
}
