package registry

import "testing"

func TestFindByPidsMatchesOnOverlap(t *testing.T) {
	r := New()
	w := &Watcher{NodeName: "node1", Pids: []int{10, 20}}
	r.Insert(w)

	if got := r.FindByPids("node1", []int{10, 20}); got != w {
		t.Fatalf("expected to find watcher for the same pid set")
	}
	if got := r.FindByPids("node1", []int{20, 10}); got != w {
		t.Fatalf("pid order should not matter, wanted overlap match")
	}
	if got := r.FindByPids("node1", []int{20, 99}); got != w {
		t.Fatalf("expected overlap match on a single shared pid")
	}
	if got := r.FindByPids("node1", []int{99}); got != nil {
		t.Fatalf("disjoint pid set should not match, got %v", got)
	}
	if got := r.FindByPids("node2", []int{10, 20}); got != nil {
		t.Fatalf("node mismatch should not match, got %v", got)
	}
}

func TestInsertReplaceRemove(t *testing.T) {
	r := New()
	w1 := &Watcher{NodeName: "n", PodName: "p", Pids: []int{1}}
	r.Insert(w1)

	w2 := &Watcher{NodeName: "n", PodName: "p", Pids: []int{1, 2}}
	if !r.Replace(w1, w2) {
		t.Fatalf("replace should succeed for a tracked watcher")
	}
	if got := r.FindByPod("n", "p"); got != w2 {
		t.Fatalf("expected replaced watcher, got %v", got)
	}

	if !r.Remove(w2) {
		t.Fatalf("remove should succeed for a tracked watcher")
	}
	if len(r.List()) != 0 {
		t.Fatalf("registry should be empty after remove")
	}
}

func TestListIsASnapshot(t *testing.T) {
	r := New()
	r.Insert(&Watcher{NodeName: "n", Pids: []int{1}})
	snap := r.List()
	r.Insert(&Watcher{NodeName: "n", Pids: []int{2}})
	if len(snap) != 1 {
		t.Fatalf("snapshot should not observe later inserts, got len %d", len(snap))
	}
}
