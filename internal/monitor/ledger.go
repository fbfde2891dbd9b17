package monitor

import (
	"sync"
)

// Ledger guarantees at-most-one emitted event per transaction hash within its
// retention window. Capacity-bounded: once full, the oldest observation is
// forgotten. Check-and-insert is atomic so concurrent workers cannot both
// claim the first sighting of a hash.
type Ledger struct {
	mu       sync.Mutex
	capacity int
	seen     map[string]struct{}
	order    []string
	next     int
}

// NewLedger builds a ledger retaining up to capacity hashes.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = 65536
	}
	return &Ledger{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
		order:    make([]string, capacity),
	}
}

// Observe reports whether this is the first sighting of the hash.
func (l *Ledger) Observe(txHash string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.seen[txHash]; ok {
		return false
	}

	if evicted := l.order[l.next]; evicted != "" {
		delete(l.seen, evicted)
	}
	l.order[l.next] = txHash
	l.next = (l.next + 1) % l.capacity
	l.seen[txHash] = struct{}{}
	return true
}

// Len returns the number of retained hashes.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}
