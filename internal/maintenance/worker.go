// Package maintenance implements the sweep that reaps expired entries
// across every store a Server holds (spec.md §4.5). It is driven by the
// orchestration layer's ticker and never schedules its own timers.
package maintenance

import (
	"sync/atomic"
	"time"

	"github.com/akashmaji946/respkv/internal/logging"
	"github.com/akashmaji946/respkv/internal/respserver"
)

// Worker runs one sweep pass across every store of a Server on request.
// A single Worker is shared by the orchestration layer's maintenance
// ticker; it is safe to call DoWork concurrently, but the no-overlap
// contract (spec.md §4.5 "never runs two sweeps concurrently") is the
// caller's responsibility via running.
type Worker struct {
	server     *respserver.Server
	log        *logging.Logger
	maxSamples int

	running int32 // 1 while a sweep is in flight; guards against re-entrant scheduling
}

// New builds a Worker that samples up to maxSamples keys per store per
// sweep.
func New(server *respserver.Server, log *logging.Logger, maxSamples int) *Worker {
	return &Worker{server: server, log: log, maxSamples: maxSamples}
}

// TryBeginSweep reports whether the caller may proceed with a sweep, and
// marks one as in flight if so. The orchestration ticker uses this to
// reschedule-if-still-running instead of queuing a second concurrent pass
// (spec.md §4.5: "reschedule, don't cancel, if the previous sweep is
// still in flight").
func (w *Worker) TryBeginSweep() bool {
	return atomic.CompareAndSwapInt32(&w.running, 0, 1)
}

// EndSweep releases the in-flight marker set by TryBeginSweep.
func (w *Worker) EndSweep() {
	atomic.StoreInt32(&w.running, 0)
}

// DoWork runs one sweep pass across every store, returning the total
// number of entries reaped. Callers that need the no-overlap guarantee
// should bracket this with TryBeginSweep/EndSweep; DoWork itself performs
// no such bookkeeping so it can also be used directly from tests.
func (w *Worker) DoWork(now time.Time) int {
	total := 0
	for i, store := range w.server.Stores() {
		removed := store.HandleDeletes(now, w.maxSamples)
		total += removed
		if removed > 0 && w.log != nil {
			w.log.Trace("maintenance sweep reaped entries", "store", i, "removed", removed)
		}
	}
	return total
}
