package reprint

import (
	"sync"

	"github.com/storeops/posdesk-backend/internal/modules/lookup"
)

// Key is the composite identifier quota is tracked under.
func Key(t lookup.DocumentType, documentID string) string {
	return string(t) + "_" + documentID
}

// QuotaTracker counts successful reprints per document for the lifetime of
// the process. A restart resets every counter; the print floor accepts that
// trade-off, so it is intentional rather than a gap.
//
// Reservation semantics keep concurrent requests honest: a request reserves
// a slot before attempting any strategy, commits it only after a successful
// print, and releases it otherwise. Two simultaneous requests for the same
// document can therefore never both slip past the limit.
type QuotaTracker struct {
	mu      sync.Mutex
	counts  map[string]int
	pending map[string]int
}

func NewQuotaTracker() *QuotaTracker {
	return &QuotaTracker{
		counts:  make(map[string]int),
		pending: make(map[string]int),
	}
}

// Count returns the number of committed reprints for key, 0 if unseen.
func (q *QuotaTracker) Count(key string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.counts[key]
}

// Reserve claims a slot under the limit. It returns false when committed
// plus in-flight reservations already reach max.
func (q *QuotaTracker) Reserve(key string, max int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.counts[key]+q.pending[key] >= max {
		return false
	}
	q.pending[key]++
	return true
}

// Commit converts a reservation into a counted reprint.
func (q *QuotaTracker) Commit(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending[key] > 0 {
		q.pending[key]--
	}
	q.counts[key]++
}

// Release drops a reservation without counting it. Failed attempts never
// consume quota.
func (q *QuotaTracker) Release(key string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.pending[key] > 0 {
		q.pending[key]--
	}
}
