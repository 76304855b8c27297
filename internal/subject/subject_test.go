package subject

import (
	"testing"

	"golang.org/x/sys/unix"
)

func TestPathsForSubject(t *testing.T) {
	s := Subject{Paths: []string{"/etc/passwd", "/var/lib/app/"}}
	got := PathsForSubject(4242, s)
	want := []string{"/proc/4242/root/etc/passwd", "/proc/4242/root/var/lib/app/"}
	if len(got) != len(want) {
		t.Fatalf("got %d paths, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("path %d: got %q want %q", i, got[i], want[i])
		}
	}
}

func TestPathsForSubjectEmpty(t *testing.T) {
	got := PathsForSubject(1, Subject{})
	if len(got) != 0 {
		t.Fatalf("got %d paths, want 0", len(got))
	}
}

func TestEventMaskForSubject(t *testing.T) {
	cases := []struct {
		name   string
		events []string
		want   uint32
	}{
		{"single", []string{"modify"}, unix.IN_MODIFY},
		{"close expands to both halves", []string{"close"}, unix.IN_CLOSE_WRITE | unix.IN_CLOSE_NOWRITE},
		{"move expands to both halves", []string{"move"}, unix.IN_MOVED_FROM | unix.IN_MOVED_TO},
		{"all", []string{"all"}, unix.IN_ALL_EVENTS},
		{"combined", []string{"open", "create"}, unix.IN_OPEN | unix.IN_CREATE},
		{"unrecognized ignored", []string{"bogus"}, 0},
		{"empty legal", nil, 0},
		{"mix of recognized and unrecognized", []string{"delete", "bogus"}, unix.IN_DELETE},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := EventMaskForSubject(Subject{Events: c.events})
			if got != c.want {
				t.Fatalf("got %#x want %#x", got, c.want)
			}
		})
	}
}
