//go:build linux

// Package engine implements the Lifecycle Engine: reconciling CreateWatch
// and DestroyWatch requests against the Watcher Registry, spawning and
// tearing down Notification Workers and a Message Queue Sink per Watcher.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"fimwatch/internal/containerid"
	"fimwatch/internal/logging"
	"fimwatch/internal/mqueue"
	"fimwatch/internal/notify"
	"fimwatch/internal/registry"
	"fimwatch/internal/rpc"
	"fimwatch/internal/sink"
	"fimwatch/internal/subject"
)

// Service owns the Watcher Registry and wires the Notification Worker,
// Message Queue Sink, and container-id Resolver together on every request.
type Service struct {
	Registry *registry.Registry
	Resolver containerid.Resolver
	Log      *logrus.Logger

	// NewQueue opens a fresh Queue for a given queue name; overridable by
	// tests to avoid real POSIX message queues.
	NewQueue func(name string) (mqueue.Queue, error)
}

// NewService returns a Service backed by real POSIX message queues.
func NewService(reg *registry.Registry, resolver containerid.Resolver, log *logrus.Logger) *Service {
	return &Service{
		Registry: reg,
		Resolver: resolver,
		Log:      log,
		NewQueue: func(name string) (mqueue.Queue, error) {
			q, err := mqueue.RecreatePosixQueue(name)
			if err != nil {
				return nil, err
			}
			return q, nil
		},
	}
}

func queueName(node, pod string) string {
	return fmt.Sprintf("/fimwatch-%s-%s", node, pod)
}

// CreateWatch resolves the request's container IDs to pids, installs a
// Notification Worker per (pid, Subject), and starts a Sink draining their
// shared Queue. If a Watcher already exists covering any of these pids it
// is updated in place: old workers are woken, the queue is recreated (any
// events still in flight on it are lost), and new workers take over.
func (s *Service) CreateWatch(ctx context.Context, req rpc.CreateWatchRequest) (*rpc.CreateWatchResponse, error) {
	pids, unresolved := s.resolvePids(req.ContainerIDs)
	if len(pids) == 0 {
		return nil, status.Errorf(codes.Canceled, "no container IDs resolved to a pid (tried %v)", req.ContainerIDs)
	}

	// Reconciliation per spec: an existing Watcher covering any of these
	// pids is updated in place rather than replaced by a new record —
	// same identity, wake-ups cleared and reissued, queue recreated.
	existing := s.Registry.FindByPids(req.NodeName, pids)

	qName := queueName(req.NodeName, req.PodName)

	var w *registry.Watcher
	if existing != nil {
		s.teardownWatcher(existing, false)
		existing.ClearWakeupFDs()
		w = existing
		w.Pids = pids
		w.QueueName = qName
		w.LogFormat = req.LogFormat
	} else {
		w = &registry.Watcher{
			NodeName:  req.NodeName,
			PodName:   req.PodName,
			Pids:      pids,
			QueueName: qName,
			LogFormat: req.LogFormat,
		}
	}

	q, err := s.NewQueue(qName)
	if err != nil {
		s.Log.WithError(err).Warn("engine: queue open failed, watcher still created without a live sink")
	}

	w.Queue = q

	if q != nil {
		sinkDone := make(chan struct{})
		w.SinkDone = sinkDone
		sinkLog := logging.WithWatcher(s.Log, req.NodeName, req.PodName)
		snk := &sink.Sink{Queue: q, Node: req.NodeName, Pod: req.PodName, Template: req.LogFormat, Log: sinkLog}
		go snk.Run(sinkDone)
	}

	for _, pid := range pids {
		for _, reqSubject := range req.Subjects {
			sub := subject.Subject{Paths: reqSubject.Paths, Events: reqSubject.Events, Recursive: reqSubject.Recursive}
			s.spawnWorker(w, q, pid, sub)
		}
	}

	if existing == nil {
		s.Registry.Insert(w)
	}

	if len(unresolved) > 0 {
		s.Log.WithField("unresolved", unresolved).Warn("engine: some container IDs did not resolve to a pid")
	}

	return &rpc.CreateWatchResponse{
		NodeName:  w.NodeName,
		PodName:   w.PodName,
		Pids:      w.Pids,
		QueueName: w.QueueName,
		WakeupFDs: w.WakeupFDs(),
	}, nil
}

// DestroyWatch tears a Watcher's workers down and removes it from the
// Registry. It is a no-op returning OK if no Watcher matches the request's
// resolved pids, matching spec behavior for a Destroy against an unknown
// watch.
func (s *Service) DestroyWatch(ctx context.Context, req rpc.DestroyWatchRequest) (*rpc.DestroyWatchResponse, error) {
	pids, _ := s.resolvePids(req.ContainerIDs)
	w := s.Registry.FindByPids(req.NodeName, pids)
	if w == nil {
		return &rpc.DestroyWatchResponse{}, nil
	}

	s.teardownWatcher(w, true)
	s.Registry.Remove(w)
	return &rpc.DestroyWatchResponse{}, nil
}

func (s *Service) resolvePids(containerIDs []string) (pids []int, unresolved []string) {
	for _, id := range containerIDs {
		if pid, ok := s.Resolver.PidFor(containerid.CleanContainerID(id)); ok {
			pids = append(pids, pid)
		} else {
			unresolved = append(unresolved, id)
		}
	}
	return pids, unresolved
}

func (s *Service) spawnWorker(w *registry.Watcher, q mqueue.Queue, pid int, sub subject.Subject) {
	workerLog := logging.WithWatcher(s.Log, w.NodeName, w.PodName).WithField("pid", pid)
	worker := &notify.Worker{Pid: pid, Subject: sub, Queue: q, Log: workerLog}

	wakeupFD, done, err := notify.Start(worker)
	if err != nil {
		workerLog.WithError(err).Warn("engine: notification worker failed to start")
		return
	}
	w.AddWakeupFD(wakeupFD)

	// Supervisor goroutine: replaces a 1-second poll loop pruning dead
	// workers. Waits for the worker's own exit, then removes its wake-up
	// fd from the Watcher so a later Destroy doesn't signal a closed fd.
	go func() {
		<-done
		w.RemoveWakeupFD(wakeupFD)
	}()
}

// teardownWatcher signals the exit sentinel to the Watcher's own queue
// handle (only when sendSentinel is set, i.e. on Destroy), wakes every worker, and stops its Sink goroutine by closing
// SinkDone — the Sink's Queue.Receive loop has no other way to ever
// return, so skipping this step leaks both the goroutine and, on the
// update path, the old Queue's underlying kernel descriptor. Events
// already in flight when the sentinel is sent may still reach the queue
// after it; this ordering is deliberate, not a bug, matching the Destroy
// path's documented behavior.
func (s *Service) teardownWatcher(w *registry.Watcher, sendSentinel bool) {
	if sendSentinel && w.Queue != nil {
		w.Queue.Send([]byte(mqueue.ExitMessage), 1, time.Second)
	}
	if w.SinkDone != nil {
		close(w.SinkDone)
		w.SinkDone = nil
	}
	for _, fd := range w.WakeupFDs() {
		notifyKill(fd)
	}
}
