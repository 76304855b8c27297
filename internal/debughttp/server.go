// Package debughttp exposes a read-only introspection surface over the
// Watcher Registry: a liveness probe and a JSON dump of active watchers.
// It computes nothing new, only renders state the Lifecycle Engine and
// Registry already hold.
package debughttp

import (
	"encoding/json"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"fimwatch/internal/registry"
)

// Config mirrors the bind settings of the other HTTP surfaces in this
// repository's lineage: a host/port pair the server listens on.
type Config struct {
	Bind string
	Port string
}

// Server is the debug HTTP endpoint.
type Server struct {
	cfg Config
	reg *registry.Registry
	rtr *chi.Mux
	ln  net.Listener
}

// New constructs a Server wired to reg; call Start to begin serving.
func New(cfg Config, reg *registry.Registry) *Server {
	s := &Server{cfg: cfg, reg: reg, rtr: chi.NewRouter()}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.rtr.Get("/healthz", s.handleHealthz)
	s.rtr.Get("/watchers", s.handleWatchers)
}

// Start binds the listener and serves until the process exits or Close is
// called; it returns once the listener is bound so callers can log the
// address immediately.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", net.JoinHostPort(s.cfg.Bind, s.cfg.Port))
	if err != nil {
		return err
	}
	s.ln = ln
	go http.Serve(ln, s.rtr)
	return nil
}

// Close stops accepting new connections.
func (s *Server) Close() error {
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

type watcherView struct {
	NodeName  string `json:"node_name"`
	PodName   string `json:"pod_name"`
	Pids      []int  `json:"pids"`
	QueueName string `json:"queue_name"`
	Workers   int    `json:"workers"`
}

func (s *Server) handleWatchers(w http.ResponseWriter, r *http.Request) {
	watchers := s.reg.List()
	out := make([]watcherView, 0, len(watchers))
	for _, watcher := range watchers {
		out = append(out, watcherView{
			NodeName:  watcher.NodeName,
			PodName:   watcher.PodName,
			Pids:      watcher.Pids,
			QueueName: watcher.QueueName,
			Workers:   len(watcher.WakeupFDs()),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}
