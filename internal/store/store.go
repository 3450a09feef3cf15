// Package store implements one database: a concurrent key→Entry map with
// lazy expiry at read time and an active, sampled sweep driven by the
// maintenance worker (spec.md §4.2).
package store

import (
	"math/rand"
	"sync"
	"time"
)

// Reason records why a key was posted to the pending-delete queue.
type Reason int

const (
	ReasonTTLExpiry Reason = iota
	ReasonExplicit
)

// pendingDelete is what a reader posts when it observes an expired entry;
// the maintenance worker uses Version to detect whether the entry has
// since been overwritten (spec.md §4.2 "this double-check makes posting a
// deletion idempotent").
type pendingDelete struct {
	Version uint32
	Reason  Reason
}

// Store is one database: a map of key bytes to Entry, guarded by a
// RWMutex so concurrent Get calls proceed in parallel while Set and the
// maintenance sweep take exclusive access. The pending-delete queue has
// its own dedicated lock (spec.md §9: "an implementer using a plain map
// must add a dedicated lock").
type Store struct {
	mu      sync.RWMutex
	entries map[string]*Entry

	pendingMu sync.Mutex
	pending   map[string]pendingDelete

	rng *rand.Rand
}

// New constructs an empty, ready-to-use Store.
func New() *Store {
	return &Store{
		entries: make(map[string]*Entry),
		pending: make(map[string]pendingDelete),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Get returns a cloned handle to the entry stored under key, or (nil,
// false) if absent or expired. An expired entry is not physically removed
// here — it is posted to the pending-delete queue for the maintenance
// worker to reap (spec.md §4.2 Get operation; invariant 6 "lazy-to-active
// handoff").
func (s *Store) Get(key string, now time.Time) (*Entry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	if !ok {
		s.mu.RUnlock()
		return nil, false
	}
	if entry.Expired(now) {
		version := entry.Version
		s.mu.RUnlock()
		s.postPendingDelete(key, version, ReasonTTLExpiry)
		return nil, false
	}
	handle := entry.clone()
	s.mu.RUnlock()
	return handle, true
}

// Set inserts or replaces the entry under key. On replace, version is
// incremented and all flags (in particular the deleted tombstone) are
// cleared; on insert, a fresh entry starts at version 1 (spec.md §3 Entry
// invariant (a), §4.2 Set operation).
func (s *Store) Set(key string, value []byte, ttl time.Time) {
	data := append([]byte(nil), value...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.entries[key]; ok {
		existing.Data = data
		existing.TTL = ttl
		existing.Deleted = false
		existing.Version++
		return
	}
	s.entries[key] = &Entry{Data: data, Version: 1, TTL: ttl}
}

// Len reports the number of live entries, including any not yet reaped by
// a sweep.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) postPendingDelete(key string, version uint32, reason Reason) {
	s.pendingMu.Lock()
	defer s.pendingMu.Unlock()
	s.pending[key] = pendingDelete{Version: version, Reason: reason}
}

// HandleDeletes is called only by the maintenance worker. It takes the
// store's exclusive lock for the duration of the sweep (spec.md §4.2/§5:
// "the maintenance sweep acquires the exclusive side"), drains the
// pending-delete queue, and then samples up to maxSamples random keys,
// evicting those whose TTL has expired. It returns the number of entries
// physically removed.
func (s *Store) HandleDeletes(now time.Time, maxSamples int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := s.drainPendingLocked(now)
	removed += s.sampleAndEvictLocked(now, maxSamples)
	return removed
}

// drainPendingLocked must be called with s.mu held for writing.
func (s *Store) drainPendingLocked(now time.Time) int {
	s.pendingMu.Lock()
	batch := s.pending
	s.pending = make(map[string]pendingDelete)
	s.pendingMu.Unlock()

	removed := 0
	for key, pend := range batch {
		entry, ok := s.entries[key]
		if !ok {
			continue
		}
		// Stale if the entry was overwritten (version bump) since the
		// delete was posted, or if it is neither expired nor explicitly
		// tombstoned — spec.md §4.2 "Pending-delete processing".
		if entry.Version != pend.Version || (!entry.Expired(now) && !entry.Deleted) {
			continue
		}
		delete(s.entries, key)
		removed++
	}
	return removed
}

// sampleAndEvictLocked must be called with s.mu held for writing. It seeds
// from now (spec.md §4.2 "Seed a PRNG from now") and draws up to
// maxSamples distinct keys from the live set, evicting any with an expired
// TTL.
func (s *Store) sampleAndEvictLocked(now time.Time, maxSamples int) int {
	n := len(s.entries)
	if n == 0 {
		return 0
	}

	keys := make([]string, 0, n)
	for k := range s.entries {
		keys = append(keys, k)
	}

	s.rng.Seed(now.UnixNano())

	removed := 0
	samples := maxSamples
	if samples > n {
		samples = n
	}
	for i := 0; i < samples; i++ {
		// Partial Fisher-Yates shuffle: each draw picks a distinct key.
		j := i + s.rng.Intn(n-i)
		keys[i], keys[j] = keys[j], keys[i]
		key := keys[i]
		entry, ok := s.entries[key]
		if !ok {
			continue
		}
		if entry.Expired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
