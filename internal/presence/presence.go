// Package presence tracks which reviewer is currently looking at which
// candidate row.
//
// The state is advisory and lives only in process memory: it tells reviewers
// who else is on a date, never influences annotation correctness, and does
// not survive a restart. Entries expire a fixed interval after the user's
// last touch and are purged lazily, on the next access for their date.
package presence

import (
	"sync"
	"time"
)

// DefaultTimeout is how long an entry stays visible after the last touch.
const DefaultTimeout = 10 * time.Second

// Entry records where a user was last seen.
type Entry struct {
	// Row is the 1-based row the user was viewing.
	Row int

	// LastSeen is the time of the user's last touch.
	LastSeen time.Time
}

// Tracker is an in-memory map of (date, user) to the row the user is
// viewing. Safe for concurrent use.
type Tracker struct {
	timeout time.Duration

	// now is injectable for deterministic expiry tests.
	now func() time.Time

	mu    sync.Mutex
	dates map[string]map[string]Entry // date -> user -> entry
}

// NewTracker creates a tracker whose entries expire after timeout. A
// non-positive timeout falls back to [DefaultTimeout].
func NewTracker(timeout time.Duration) *Tracker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Tracker{
		timeout: timeout,
		now:     time.Now,
		dates:   make(map[string]map[string]Entry),
	}
}

// Touch upserts the user's position on a date, refreshes their expiry, and
// drops the date's entries that expired in the meantime.
func (t *Tracker) Touch(date, user string, row int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	users, ok := t.dates[date]
	if !ok {
		users = make(map[string]Entry)
		t.dates[date] = users
	}

	users[user] = Entry{Row: row, LastSeen: t.now()}

	t.purgeLocked(date)
}

// Snapshot purges the date's expired entries and returns the survivors,
// keyed by username. The returned map is a copy.
func (t *Tracker) Snapshot(date string) map[string]Entry {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.purgeLocked(date)

	users := t.dates[date]
	out := make(map[string]Entry, len(users))

	for user, entry := range users {
		out[user] = entry
	}

	return out
}

// purgeLocked drops the date's entries older than the timeout. A date
// nobody accesses keeps its stale entries until the next touch or snapshot
// for it.
func (t *Tracker) purgeLocked(date string) {
	users, ok := t.dates[date]
	if !ok {
		return
	}

	cutoff := t.now().Add(-t.timeout)

	for user, entry := range users {
		if entry.LastSeen.Before(cutoff) {
			delete(users, user)
		}
	}

	if len(users) == 0 {
		delete(t.dates, date)
	}
}
