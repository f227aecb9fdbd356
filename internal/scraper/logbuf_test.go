package scraper

import (
	"strings"
	"testing"
	"time"
)

func TestLogBuffer(t *testing.T) {
	t.Parallel()

	var b logBuffer
	if got := b.text(); got != "" {
		t.Fatalf("empty buffer text = %q, want empty", got)
	}

	ts := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	b.append(ts, "first")
	b.append(ts, "second")

	text := b.text()
	lines := strings.Split(text, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if want := "2024-01-01T09:00:00Z first"; lines[0] != want {
		t.Fatalf("line 0 = %q, want %q", lines[0], want)
	}
	if b.len() != 2 {
		t.Fatalf("len = %d, want 2", b.len())
	}

	b.reset()
	if b.len() != 0 || b.text() != "" {
		t.Fatalf("buffer not empty after reset: %q", b.text())
	}
}
