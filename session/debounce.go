package session

import (
	"sync"
	"time"
)

// commitDebouncer coalesces a burst of edits into one history commit.
// Each Arm rearms a single pending timer; firing flushes exactly once.
// Cancel supersedes a pending flush: generations guard against a timer
// that already fired racing a later Cancel or Arm with a stale flush.
type commitDebouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
	flush func()
}

func newCommitDebouncer(delay time.Duration) *commitDebouncer {
	return &commitDebouncer{delay: delay}
}

// Arm schedules flush after the quiescence window, replacing any pending one
func (d *commitDebouncer) Arm(flush func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	d.flush = flush

	gen := d.gen
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

func (d *commitDebouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.flush == nil {
		d.mu.Unlock()
		return
	}
	flush := d.flush
	d.flush = nil
	d.timer = nil
	d.mu.Unlock()

	flush()
}

// Cancel discards any pending flush. Actions that commit immediately
// (synthesis completion, save, undo/redo) call this first so a stale
// flush cannot overwrite newer state.
func (d *commitDebouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.flush = nil
}

// Pending reports whether a flush is scheduled (for testing)
func (d *commitDebouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.flush != nil
}
