package mqueue

import (
	"sync"
	"time"
)

// MemQueue is a buffered in-memory Queue, used by package tests and any
// build without real POSIX message queue support.
type MemQueue struct {
	ch chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

// NewMemQueue returns a ready MemQueue holding up to MaxMessages payloads.
func NewMemQueue() *MemQueue {
	return &MemQueue{
		ch:     make(chan []byte, MaxMessages),
		closed: make(chan struct{}),
	}
}

func (q *MemQueue) Send(payload []byte, priority uint, timeout time.Duration) error {
	cp := make([]byte, len(payload))
	copy(cp, payload)

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case q.ch <- cp:
		return nil
	case <-q.closed:
		return ErrClosed
	case <-timer.C:
		return errTimeout
	}
}

func (q *MemQueue) Receive(timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case payload, ok := <-q.ch:
		if !ok {
			return nil, ErrClosed
		}
		return payload, nil
	case <-q.closed:
		return nil, ErrClosed
	case <-timer.C:
		return nil, errTimeout
	}
}

func (q *MemQueue) Close() error {
	q.closeOnce.Do(func() { close(q.closed) })
	return nil
}

// Unlink is a no-op for an in-memory queue; there is nothing system-global
// to remove.
func (q *MemQueue) Unlink() error { return nil }
