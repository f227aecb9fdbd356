package scraper

import (
	"strings"
	"sync"
	"time"
)

// logBuffer is an append-only sequence of timestamped log lines shared between
// the run goroutine and polling readers. Writes and snapshots are serialized
// independently of the run state mutex so a slow reader never blocks the run.
type logBuffer struct {
	mu    sync.RWMutex
	lines []string
}

func (b *logBuffer) append(ts time.Time, line string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = append(b.lines, ts.Format(time.RFC3339)+" "+line)
}

func (b *logBuffer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.lines = nil
}

// text returns all lines appended so far, newline-joined. The snapshot is a
// consistent prefix of the log; lines are never torn.
func (b *logBuffer) text() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Join(b.lines, "\n")
}

func (b *logBuffer) len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lines)
}
