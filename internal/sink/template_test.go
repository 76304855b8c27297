package sink

import "testing"

func TestRenderTemplate(t *testing.T) {
	values := map[string]string{"event": "MODIFY", "path": "/etc", "file": "passwd", "sep": "/"}
	got, err := renderTemplate("{event} '{path}{sep}{file}'", values)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "MODIFY '/etc/passwd'"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestRenderTemplateUnknownPlaceholderErrors(t *testing.T) {
	_, err := renderTemplate("{event} {bogus}", map[string]string{"event": "OPEN"})
	if err == nil {
		t.Fatalf("expected error for unknown placeholder")
	}
}

func TestRenderTemplateUnterminatedPlaceholder(t *testing.T) {
	_, err := renderTemplate("{event", map[string]string{"event": "OPEN"})
	if err == nil {
		t.Fatalf("expected error for unterminated placeholder")
	}
}
