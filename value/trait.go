package value

import "sync"

// Tag identifies a kind of trait. Tags are compared by pointer identity, so
// a well-known process-wide address is simply the Go pointer to one of
// these package-level vars. A chain is walked by comparing each node's Tag
// against the wanted Tag with ==.
type Tag struct {
	name string
}

func (t *Tag) String() string { return t.name }

// Standard tags. Every value's chain carries at least Value;
// List/Map/Pointer are attached by the packages that implement them.
var (
	Value_  = &Tag{name: "value"}
	List    = &Tag{name: "list"}
	Map     = &Tag{name: "map"}
	Pointer = &Tag{name: "pointer"}
)

// chainNode is one link of the attribute chain. Nodes are
// immutable once published: a Value never mutates its own chain, it only
// ever points at a (possibly shared) chain built once by its constructor.
type chainNode struct {
	tag  *Tag
	impl any
	next *chainNode
}

// Trait is implemented by every trait record hung off a chain node. It
// exists only so chain construction helpers can accept a uniform argument;
// the chain itself stores the trait's Tag and implementation separately so
// that a tag lookup never needs a type assertion to find the node.
type Trait interface {
	Tag() *Tag
}

// ValueTrait is the trait every chain must carry. It
// supplies the default string conversion and the overridable hash/compare
// hooks that let a concrete value (list, map, pointer, …) customize
// equality and ordering without touching the cell layout.
type ValueTrait interface {
	Trait

	// ToString renders v's canonical string form.
	ToString(v Value) string

	// HashOverride returns a trait-specific hash, or ok=false to fall back
	// to the default string-derived hash.
	HashOverride(v Value) (h uint64, ok bool)

	// CompareOverride returns a trait-specific equality/ordering comparator,
	// or ok=false to fall back to byte-equal string forms.
	CompareOverride(a, b Value) (equal bool, ok bool)

	// WeightHint biases representation choice among equivalent encodings
	//. Traits with no opinion return 0.
	WeightHint(v Value) int
}

// chainOf builds a chain with the given value trait at its head, optionally
// followed by one extra trait record (list, map, or pointer). next may be
// nil when the value carries no secondary trait.
func chainOf(vt ValueTrait, extraTag *Tag, extraImpl any) *chainNode {
	head := &chainNode{tag: Value_, impl: vt}
	if extraTag != nil {
		head.next = &chainNode{tag: extraTag, impl: extraImpl}
	}
	return head
}

// chainCacheKey identifies one (value trait, secondary trait) combination.
// Trait implementations are package-level singletons, so the key fields
// compare by pointer identity.
type chainCacheKey struct {
	vt        ValueTrait
	extraTag  *Tag
	extraImpl any
}

var chainCache sync.Map // chainCacheKey -> *chainNode

// canonicalChain returns the one shared chain for a trait combination.
// Every value of a given concrete kind points at the same chain node, so
// ChainIDOf compares equal across values of the same kind — packed-list
// compaction depends on that to keep a monomorphic list's attrs field out
// of per-element storage.
func canonicalChain(vt ValueTrait, extraTag *Tag, extraImpl any) *chainNode {
	key := chainCacheKey{vt: vt, extraTag: extraTag, extraImpl: extraImpl}
	if c, ok := chainCache.Load(key); ok {
		return c.(*chainNode)
	}
	c, _ := chainCache.LoadOrStore(key, chainOf(vt, extraTag, extraImpl))
	return c.(*chainNode)
}

// GetAttribute performs the linear attribute-chain walk.
// Expected chain length is 1-4. There is no shortcut that skips the walk:
// HasTag walks the chain the same way and only reports presence.
func GetAttribute(v Value, tag *Tag) (any, bool) {
	for n := v.attrs; n != nil; n = n.next {
		if n.tag == tag {
			return n.impl, true
		}
	}
	return nil, false
}

// HasTag reports whether v's chain carries tag, without allocating. It is
// the fast-path check for hot operations (list index, map find) that need
// to confirm a value is of the expected kind before doing real work.
func HasTag(v Value, tag *Tag) bool {
	for n := v.attrs; n != nil; n = n.next {
		if n.tag == tag {
			return true
		}
	}
	return false
}

func valueTraitOf(v Value) ValueTrait {
	// Every constructor in this module routes through chainOf, which always
	// places the value trait at the chain head — so this never walks past
	// one node in practice, but we still walk in case a longer chain was
	// built by an embedding package.
	impl, ok := GetAttribute(v, Value_)
	if !ok {
		panic("value: chain missing required value trait")
	}
	return impl.(ValueTrait)
}
