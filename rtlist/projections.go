package rtlist

import (
	"sync/atomic"

	"github.com/joshuapare/avalanche-core/value"
)

// interleaveRepr yields element (k*i + j) as sources[j][i].
type interleaveRepr struct {
	sources []value.Value
}

func (r *interleaveRepr) length() int {
	if len(r.sources) == 0 {
		return 0
	}
	minLen := Len(r.sources[0])
	for _, s := range r.sources[1:] {
		if n := Len(s); n < minLen {
			minLen = n
		}
	}
	return minLen * len(r.sources)
}

func (r *interleaveRepr) at(idx int) value.Value {
	k := len(r.sources)
	j := idx % k
	i := idx / k
	return Index(r.sources[j], i)
}

// Interleave builds the lazy Interleave({sources}) projection.
func Interleave(sources []value.Value) value.Value {
	if len(sources) == 0 {
		return Empty()
	}
	return wrap(&interleaveRepr{sources: sources})
}

// demuxRepr yields every stride-th element of source starting at offset.
type demuxRepr struct {
	source value.Value
	offset int
	stride int
}

func (r *demuxRepr) length() int {
	n := Len(r.source)
	if r.offset >= n {
		return 0
	}
	return (n-r.offset+r.stride-1)/r.stride
}

func (r *demuxRepr) at(i int) value.Value {
	return Index(r.source, r.offset+i*r.stride)
}

// Demux builds the lazy Demux(source, offset, stride) projection.
func Demux(source value.Value, offset, stride int) value.Value {
	if stride < 1 {
		panic(value.NewUserError(value.ClassBounds, "demux stride must be >= 1"))
	}
	return wrap(&demuxRepr{source: source, offset: offset, stride: stride})
}

// groupRepr yields sublists of length n, the last possibly shorter.
// Sublist values are memoized per index using release-store caching.
type groupRepr struct {
	source value.Value
	n      int
	cache  []atomic.Pointer[value.Value]
}

func (r *groupRepr) length() int {
	total := Len(r.source)
	if total == 0 {
		return 0
	}
	return (total + r.n - 1) / r.n
}

func (r *groupRepr) at(i int) value.Value {
	if cached := r.cache[i].Load(); cached != nil {
		return *cached
	}
	total := Len(r.source)
	lo := i * r.n
	hi := lo + r.n
	if hi > total {
		hi = total
	}
	sub := Slice(r.source, lo, hi)
	r.cache[i].Store(&sub) // release-store; concurrent writers just race harmlessly to the same value
	return sub
}

// Group builds the lazy Group(source, n) projection.
func Group(source value.Value, n int) value.Value {
	if n < 1 {
		panic(value.NewUserError(value.ClassBounds, "group size must be >= 1"))
	}
	total := Len(source)
	groups := 0
	if total > 0 {
		groups = (total + n - 1) / n
	}
	return wrap(&groupRepr{source: source, n: n, cache: make([]atomic.Pointer[value.Value], groups)})
}

// flattenRepr concatenates source[0], source[1], ...; it
// inverts Group: applied to a Group, it yields that Group's source.
type flattenRepr struct {
	source value.Value

	offsetsOnce bool
	offsets     []int // cumulative element-count prefix sums across source's sublists
}

func (r *flattenRepr) ensureOffsets() {
	if r.offsetsOnce {
		return
	}
	n := Len(r.source)
	r.offsets = make([]int, n+1)
	for i := 0; i < n; i++ {
		r.offsets[i+1] = r.offsets[i] + Len(Index(r.source, i))
	}
	r.offsetsOnce = true
}

func (r *flattenRepr) length() int {
	r.ensureOffsets()
	return r.offsets[len(r.offsets)-1]
}

func (r *flattenRepr) at(idx int) value.Value {
	r.ensureOffsets()
	// binary search for the sublist containing idx
	lo, hi := 0, len(r.offsets)-1
	for lo+1 < hi {
		mid := (lo + hi) / 2
		if r.offsets[mid] <= idx {
			lo = mid
		} else {
			hi = mid
		}
	}
	return Index(Index(r.source, lo), idx-r.offsets[lo])
}

// Flatten builds the lazy Flatten(source) projection.
func Flatten(source value.Value) value.Value {
	return wrap(&flattenRepr{source: source})
}
