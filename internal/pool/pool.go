// Package pool implements the fixed-capacity buffer pool backing connection
// read buffers. Buckets are sized by power of two; a final overflow bucket
// allocates on demand so a pathologically large request never blocks a
// connection outright.
package pool

import (
	"fmt"
	"math/bits"
	"sync"
)

// Buffer is a leased byte slice. Its is_allocated bit and bucket index are
// tracked internally by the pool so Release is O(1) — the caller only
// needs to hold on to the Buffer value it was handed.
type Buffer struct {
	data    []byte
	bucket  int
	index   int
	overflow bool
}

// Bytes exposes the underlying byte slice for reading/writing.
func (b *Buffer) Bytes() []byte { return b.data }

type slot struct {
	data      []byte
	allocated bool
}

// Pool is the bucketed buffer pool described in spec.md §3: bucket i holds
// pre-allocated buffers of size base<<i for i in [0, buckets), plus one
// overflow bucket that allocates on demand. Released buffers return to
// their bucket; they are not freed until pool teardown.
type Pool struct {
	mu          sync.Mutex
	base        int
	bucketSlots [][]slot
	overflowCap int
	overflowOut int
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithOverflowCap bounds how many concurrently-outstanding overflow buffers
// the pool will hand out before refusing further overflow requests. Zero
// means unbounded overflow, which is the default.
func WithOverflowCap(n int) Option {
	return func(p *Pool) { p.overflowCap = n }
}

// New builds a pool with `buckets` buckets, bucket i sized baseSize<<i, each
// pre-populated with `perBucket` buffers.
func New(baseSize, buckets, perBucket int, opts ...Option) *Pool {
	p := &Pool{base: baseSize}
	p.bucketSlots = make([][]slot, buckets)
	for i := 0; i < buckets; i++ {
		size := baseSize << i
		bucket := make([]slot, perBucket)
		for j := range bucket {
			bucket[j].data = make([]byte, size)
		}
		p.bucketSlots[i] = bucket
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BaseSize returns the size of bucket 0's buffers, the default size a
// caller should request for a standard-sized lease.
func (p *Pool) BaseSize() int { return p.base }

// Acquire leases a buffer of at least `size` bytes. It returns an error only
// when the matching bucket is fully allocated and the overflow bucket's
// policy cap (if any) has also been reached — the caller is expected to
// fail the connection task cleanly on this path (spec.md §7).
func (p *Pool) Acquire(size int) (*Buffer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	bucketIdx := p.bucketFor(size)
	if bucketIdx >= 0 && bucketIdx < len(p.bucketSlots) {
		bucket := p.bucketSlots[bucketIdx]
		for i := range bucket {
			if !bucket[i].allocated {
				bucket[i].allocated = true
				return &Buffer{data: bucket[i].data, bucket: bucketIdx, index: i}, nil
			}
		}
	}

	if p.overflowCap > 0 && p.overflowOut >= p.overflowCap {
		return nil, fmt.Errorf("pool: exhausted (size=%d)", size)
	}
	p.overflowOut++
	return &Buffer{data: make([]byte, size), overflow: true}, nil
}

// Release returns a leased buffer to its owning bucket. Releasing a buffer
// twice, or one not obtained from this pool, is a caller bug; Release
// guards against the double-release case defensively rather than
// corrupting bucket state.
func (p *Pool) Release(buf *Buffer) {
	if buf == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if buf.overflow {
		if p.overflowOut > 0 {
			p.overflowOut--
		}
		// Detach so a second Release of this buffer is a no-op.
		buf.overflow = false
		buf.bucket = -1
		return
	}
	if buf.bucket < 0 || buf.bucket >= len(p.bucketSlots) {
		return
	}
	bucket := p.bucketSlots[buf.bucket]
	if buf.index < 0 || buf.index >= len(bucket) {
		return
	}
	bucket[buf.index].allocated = false
	buf.bucket = -1
}

// bucketFor returns the index of the smallest bucket whose buffers are at
// least `size` bytes. The result is >= len(bucketSlots) if none fits
// (signalling the overflow path).
func (p *Pool) bucketFor(size int) int {
	if size <= p.base {
		return 0
	}
	// smallest i such that base<<i >= size  <=>  i >= log2(ceil(size/base))
	ratio := (size + p.base - 1) / p.base
	i := bits.Len(uint(ratio - 1))
	return i
}

// Stats reports live usage, useful for tests asserting pool conservation
// (spec.md §8 property 9: acquires == releases + outstanding).
type Stats struct {
	Outstanding int
	Capacity    int
}

// Stats returns a point-in-time snapshot of pool usage.
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	cap := 0
	out := p.overflowOut
	for _, bucket := range p.bucketSlots {
		cap += len(bucket)
		for _, s := range bucket {
			if s.allocated {
				out++
			}
		}
	}
	return Stats{Outstanding: out, Capacity: cap}
}
