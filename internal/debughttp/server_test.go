package debughttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fimwatch/internal/registry"
)

func TestHandleWatchersReturnsRegistryState(t *testing.T) {
	reg := registry.New()
	reg.Insert(&registry.Watcher{NodeName: "n1", PodName: "p1", Pids: []int{42}, QueueName: "/fimwatch-n1-p1"})

	s := New(Config{}, reg)
	req := httptest.NewRequest(http.MethodGet, "/watchers", nil)
	rec := httptest.NewRecorder()
	s.rtr.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
	if want := `"node_name":"n1"`; !contains(rec.Body.String(), want) {
		t.Fatalf("body %q missing %q", rec.Body.String(), want)
	}
}

func TestHandleHealthz(t *testing.T) {
	s := New(Config{}, registry.New())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.rtr.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got status %d", rec.Code)
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
