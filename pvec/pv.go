// Package pvec implements the Persistent Vector: the
// shallow-binding, lock-free-reader array that underlies every bulk
// container representation in rtlist and rtmap.
//
// A block is a fixed-capacity allocation split into three regions: a live
// segment of visible elements, a dead segment of unused capacity, and an
// undead segment holding a reverse change-log. The versioning scheme is
// modeled on a primary/secondary sequence pair that gates visibility, and
// space within the dead segment is claimed through CaS-reservation rather
// than a lock, the same segregated free-list slab discipline a bump
// allocator uses for claiming space out of a shared block.
package pvec

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// undeadEntry is one reverse-change-log pair: the index that was
// overwritten and the value it held before the write.
type undeadEntry struct {
	index int
	prior uint64
}

// block is the fixed-capacity heap allocation backing one or more Handles.
// All three segment sizes are fixed at allocation time; a block is
// replaced, never grown in place.
//
// liveLen/dead and reserved/trueVersion are each touched by a disjoint set
// of hot CaS loops (append/set vs. undead-slot reservation); the cpuPad
// field keeps them on separate cache lines so concurrent writers to one
// pair don't bounce the other pair's line.
type block struct {
	data []uint64 // data[:liveLen] is the live segment; data[liveLen:] is dead capacity

	liveLen int64 // atomic: length of the live segment, in elements
	dead    int64 // atomic: remaining free words in the dead segment

	cpuPad cpu.CacheLinePad

	undead      []undeadEntry // preallocated fixed-capacity undo log
	reserved    int64         // atomic: undead slots claimed by in-flight writers
	trueVersion int64         // atomic: highest published (visible) undead index + 1

	undeadMu sync.Mutex // held by Set while it reads the prior value and fills its reserved undead slot
}

func newBlock(liveCap, deadCap, undeadCap int) *block {
	return &block{
		data:   make([]uint64, liveCap+deadCap),
		dead:   int64(deadCap),
		undead: make([]undeadEntry, undeadCap),
	}
}

func (b *block) liveSlice() []uint64 {
	n := atomic.LoadInt64(&b.liveLen)
	return b.data[:n]
}

// Handle is the heap cell a Ref points at: the current backing
// block, a version cursor into that block's undead segment, and a
// max-length watermark. At most one writer may hold an unforked handle;
// concurrent writers fork.
type Handle struct {
	blk     atomic.Pointer[block]
	version int64 // atomic: this handle's believed true-version cursor
	maxLen  int64 // atomic: max-length watermark
}

// NewHandle allocates a fresh block and a handle referencing it, sized for
// an initial live capacity with room to grow before the first fork.
func NewHandle(initialCap int) *Handle {
	if initialCap < 1 {
		initialCap = 1
	}
	b := newBlock(0, initialCap, initialCap/2+4)
	h := &Handle{}
	h.blk.Store(b)
	return h
}

// Ref is a (handle, length) pair.
type Ref struct {
	h      *Handle
	length int
}

// RefOf builds a Ref over h with the given logical length.
func RefOf(h *Handle, length int) Ref { return Ref{h: h, length: length} }

// HandleOf exposes the Handle backing r, letting a caller build another Ref
// over the same handle at a different (typically shorter) length without
// copying any data — the mechanism behind rtlist's zero-offset slice
// sharing shortcut.
func HandleOf(r Ref) *Handle { return r.h }

// Len returns the reference's logical length.
func (r Ref) Len() int { return r.length }

// isStale reports whether h's version cursor no longer matches b's true
// version.
func isStale(h *Handle, b *block) bool {
	return atomic.LoadInt64(&h.version) != atomic.LoadInt64(&b.trueVersion)
}

// isTruncating reports whether r's length is less than b's live-segment
// length.
func (r Ref) isTruncating(b *block) bool {
	return r.length < int(atomic.LoadInt64(&b.liveLen))
}

// rebuild implements the read protocol's block-growth step: allocate a new
// block of capacity >= 2*maxLen, copy the live segment, then replay undead
// entries between the block's true version and the handle's believed
// version, applying each entry whose index is within maxLen.
func rebuild(h *Handle, b *block) *block {
	maxLen := int(atomic.LoadInt64(&h.maxLen))
	if maxLen < r_minCap {
		maxLen = r_minCap
	}
	newCap := maxLen * 2
	nb := newBlock(0, newCap, newCap/2+4)

	live := b.liveSlice()
	n := len(live)
	if n > newCap {
		n = newCap
	}
	copy(nb.data[:n], live[:n])
	atomic.StoreInt64(&nb.liveLen, int64(n))
	atomic.StoreInt64(&nb.dead, int64(newCap-n))

	trueVer := atomic.LoadInt64(&b.trueVersion)
	handleVer := atomic.LoadInt64(&h.version)
	// The undead log between handleVer and trueVer is the undo trace back
	// to the version the handle last observed. Replaying it newest entry
	// first against the freshly copied live segment reproduces that version.
	for i := trueVer - 1; i >= handleVer; i-- {
		e := b.undead[i]
		if e.index < maxLen && e.index < len(nb.data) {
			nb.data[e.index] = e.prior
		}
	}
	return nb
}

const r_minCap = 4

// WithRead runs fn against a consistent snapshot of r's visible elements,
// retrying internally on optimistic-read races against a concurrent
// writer. fn must not retain the slice past the call.
func (r Ref) WithRead(fn func(data []uint64)) {
	for {
		b := r.h.blk.Load()
		if isStale(r.h, b) {
			nb := rebuild(r.h, b)
			if r.h.blk.CompareAndSwap(b, nb) {
				atomic.StoreInt64(&r.h.version, atomic.LoadInt64(&nb.trueVersion))
			}
			continue
		}

		live := b.liveSlice()
		n := r.length
		if n > len(live) {
			n = len(live)
		}
		snapshot := make([]uint64, n)
		copy(snapshot, live[:n])

		// Step 3: re-verify before trusting the copy.
		b2 := r.h.blk.Load()
		if b2 != b || isStale(r.h, b2) {
			continue
		}
		fn(snapshot)
		return
	}
}

// At reads a single element at index i.
func (r Ref) At(i int) uint64 {
	if i < 0 || i >= r.length {
		panic("pvec: index out of range")
	}
	var out uint64
	r.WithRead(func(data []uint64) { out = data[i] })
	return out
}

// Append reserves room for len(elems) new words at the tail of the live
// segment by CaS-ing the block's dead-segment counter down, writes them,
// then publishes the new length. On contention or insufficient space it
// forks.
func (r Ref) Append(elems []uint64) Ref {
	want := int64(len(elems))
	for {
		b := r.h.blk.Load()
		if isStale(r.h, b) {
			b = forkFrom(r.h, b)
		}

		believedDead := atomic.LoadInt64(&b.dead)
		believedLive := int64(len(b.data)) - believedDead // includes words reserved by in-flight appends
		if believedLive != int64(r.length) {
			// Another writer already extended this handle past r: fork onto a
			// fresh handle holding only r's own elements.
			var own []uint64
			r.WithRead(func(data []uint64) { own = append(own, data...) })
			return RefOf(NewHandle(2*len(own)+len(elems)), 0).Append(append(own, elems...))
		}
		needed := want
		if needed > believedDead {
			b = forkInto(r.h, b, int(believedLive)+len(elems))
			believedDead = atomic.LoadInt64(&b.dead)
			believedLive = int64(len(b.data)) - believedDead
		}

		if !atomic.CompareAndSwapInt64(&b.dead, believedDead, believedDead-needed) {
			continue // lost the race; retry (possibly forking next time around)
		}

		start := believedLive
		copy(b.data[start:start+want], elems)
		atomic.StoreInt64(&b.liveLen, start+want)
		atomic.StoreInt64(&r.h.maxLen, start+want)

		newRef := Ref{h: r.h, length: int(start + want)}
		return newRef
	}
}

// Set reserves one undead entry recording the prior value at index, then
// overwrites the live segment. The
// returned Ref carries a version cursor pointing at the new undead entry;
// the Ref this call was invoked on still observes the old value.
func (r Ref) Set(index int, val uint64) Ref {
	if index >= int(atomic.LoadInt64(&r.h.maxLen)) {
		panic("pvec: set beyond max-length")
	}
	for {
		b := r.h.blk.Load()
		if isStale(r.h, b) || r.isTruncating(b) {
			b = forkFrom(r.h, b)
		}

		slot := atomic.AddInt64(&b.reserved, 1) - 1
		if slot >= int64(len(b.undead)) {
			atomic.AddInt64(&b.reserved, -1)
			b = forkInto(r.h, b, int(atomic.LoadInt64(&b.liveLen)))
			continue
		}

		b.undeadMu.Lock()
		prior := b.data[index]
		b.undead[slot] = undeadEntry{index: index, prior: prior}
		b.undeadMu.Unlock()

		// Publish the entry (true version advances) before the in-place
		// overwrite, so a racing reader that observes the new true version
		// can always undo back to this prior value.
		for {
			cur := atomic.LoadInt64(&b.trueVersion)
			if cur != slot {
				// another writer's entry at a lower slot hasn't published
				// yet; spin until it does, preserving log order.
				continue
			}
			if atomic.CompareAndSwapInt64(&b.trueVersion, cur, cur+1) {
				break
			}
		}

		b.data[index] = val

		nh := &Handle{}
		nh.blk.Store(b)
		atomic.StoreInt64(&nh.version, slot+1)
		atomic.StoreInt64(&nh.maxLen, atomic.LoadInt64(&r.h.maxLen))
		return Ref{h: nh, length: r.length}
	}
}

// forkFrom rebuilds a fresh block for h when b is stale or r is
// truncating, installs it via CaS, and returns the block now current for
// h (which may be a concurrently-installed fork from another thread).
func forkFrom(h *Handle, b *block) *block {
	nb := rebuild(h, b)
	if h.blk.CompareAndSwap(b, nb) {
		atomic.StoreInt64(&h.version, atomic.LoadInt64(&nb.trueVersion))
		return nb
	}
	return h.blk.Load()
}

// forkInto rebuilds into a block with at least minCap dead+live capacity,
// used when the current block's dead segment cannot satisfy a reservation.
func forkInto(h *Handle, b *block, minCap int) *block {
	if minCap < r_minCap {
		minCap = r_minCap
	}
	atomic.StoreInt64(&h.maxLen, int64(minCap))
	nb := rebuild(h, b)
	if int64(cap(nb.data)) < int64(minCap) {
		grown := newBlock(0, minCap*2, minCap+4)
		copy(grown.data, nb.data[:atomic.LoadInt64(&nb.liveLen)])
		atomic.StoreInt64(&grown.liveLen, atomic.LoadInt64(&nb.liveLen))
		atomic.StoreInt64(&grown.dead, int64(len(grown.data))-atomic.LoadInt64(&nb.liveLen))
		nb = grown
	}
	if h.blk.CompareAndSwap(b, nb) {
		atomic.StoreInt64(&h.version, atomic.LoadInt64(&nb.trueVersion))
		return nb
	}
	return h.blk.Load()
}

// Slice returns a Ref over r's [lo:hi) range, sharing the same handle when
// possible (callers in rtlist decide when a copy is warranted instead).
func (r Ref) Slice(lo, hi int) Ref {
	if lo < 0 || hi < lo || hi > r.length {
		panic("pvec: slice out of range")
	}
	if lo == 0 {
		return Ref{h: r.h, length: hi}
	}
	// A nonzero offset cannot be represented by a bare (handle, length)
	// pair without a base offset field; callers that need lo > 0 shared
	// views materialize a fresh handle over a copy.
	var out []uint64
	r.WithRead(func(data []uint64) {
		out = append(out, data[lo:hi]...)
	})
	nh := NewHandle(hi - lo)
	return nh_Append(nh, out)
}

func nh_Append(h *Handle, elems []uint64) Ref {
	return Ref{h: h, length: 0}.Append(elems)
}
