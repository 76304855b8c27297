// Package mqueue provides the Queue abstraction the Notification Worker
// posts events into and the Sink drains, backed either by a real POSIX
// message queue (Linux) or an in-memory channel (tests, other platforms).
package mqueue

import (
	"errors"
	"time"
)

// MQMaxSize bounds the encoded size of one event record, matching the
// mq_attr.mq_msgsize the original daemon configured.
const MQMaxSize = 1024

// MaxMessages bounds the number of unread messages a queue will hold.
const MaxMessages = 10

// ExitMessage is the sentinel payload that tells a Sink to stop draining
// and tear its queue down.
const ExitMessage = "__fimwatch_exit__"

// ErrClosed is returned by Send/Receive once the queue has been closed.
var ErrClosed = errors.New("mqueue: queue closed")

// Queue is the narrow interface the Notification Worker and Sink share.
// A real POSIX queue (PosixQueue, Linux only) and an in-memory
// substitute (MemQueue) both implement it.
type Queue interface {
	// Send enqueues payload, blocking until there is room or timeout elapses.
	Send(payload []byte, priority uint, timeout time.Duration) error
	// Receive blocks for the next payload, or until timeout elapses.
	Receive(timeout time.Duration) ([]byte, error)
	// Close releases the queue's local handle without unlinking it.
	Close() error
	// Unlink removes the queue from the system; safe to call after Close.
	Unlink() error
}
