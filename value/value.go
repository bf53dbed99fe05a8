// Package value implements the tagged-cell runtime value and its
// attribute-chain trait dispatch. Every other component in
// this module (strval, pvec, rtlist, rtmap, bind) builds concrete
// representations on top of the Value type defined here.
//
// A Value is deliberately small and copied by value everywhere: attrs
// identifies its trait chain (a singleton per concrete representation,
// analogous to a vtable), and word/ref carry the representation's actual
// data. Two Values of the same concrete kind share one attrs chain and
// differ only in word/ref; trait objects themselves are static constants
// with well-known addresses.
package value

import (
	"hash/fnv"
	"reflect"
)

// Value is the universal runtime cell.
type Value struct {
	attrs *chainNode
	word  uint64 // integer payload, ASCII9 bits, or small scalar data
	ref   any    // heap payload: rope, list block, map block, pointer target
}

// newValue constructs a Value from a chain and payload. Internal: every
// concrete representation package exposes its own typed constructor and
// calls this underneath.
func newValue(attrs *chainNode, word uint64, ref any) Value {
	if attrs == nil {
		panic("value: attribute chain must not be nil")
	}
	return Value{attrs: attrs, word: word, ref: ref}
}

// NewWithTrait builds a Value whose chain is just the required value trait —
// used by leaf representations (integer, real) that carry no secondary
// trait (list/map/pointer). The chain is canonical: two values built from
// the same trait share one chain node.
func NewWithTrait(vt ValueTrait, word uint64, ref any) Value {
	return newValue(canonicalChain(vt, nil, nil), word, ref)
}

// NewWithSecondaryTrait builds a Value whose chain carries the required
// value trait plus one secondary trait (list, map, or pointer), both
// typically implemented by the same singleton object. The chain is
// canonical per trait combination, as with NewWithTrait.
func NewWithSecondaryTrait(vt ValueTrait, secondaryTag *Tag, secondaryImpl any, word uint64, ref any) Value {
	return newValue(canonicalChain(vt, secondaryTag, secondaryImpl), word, ref)
}

// Word returns the raw scalar payload. Representation packages use this to
// recover their own per-value data; it has no meaning outside the owning
// trait.
func (v Value) Word() uint64 { return v.word }

// Ref returns the raw heap payload. Same caveat as Word.
func (v Value) Ref() any { return v.ref }

// ChainID is an opaque, comparable identifier for a Value's attribute
// chain head. Packed-list compaction uses it to detect
// whether an appended element shares its template's attribute-chain
// identity without re-deriving or string-comparing the value.
type ChainID = *chainNode

// ChainIDOf returns v's attribute chain identity.
func ChainIDOf(v Value) ChainID { return v.attrs }

// FromParts reconstructs a Value from a chain identity, word, and ref
// triple previously obtained from an existing Value via ChainIDOf/Word/
// Ref. Used by packed-list element reconstruction to rebuild
// an element from the template plus whichever fields were stored
// explicitly.
func FromParts(id ChainID, word uint64, ref any) Value {
	return newValue(id, word, ref)
}

// ToString returns v's canonical string form.
func ToString(v Value) string {
	return valueTraitOf(v).ToString(v)
}

// Hash returns v's 64-bit hash. Uses the trait's override when
// provided, otherwise derives the hash from the string form, the same
// fallback the default value trait uses.
func Hash(v Value) uint64 {
	vt := valueTraitOf(v)
	if h, ok := vt.HashOverride(v); ok {
		return h
	}
	return hashString(vt.ToString(v))
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}

// Equal implements value equality: a trait-supplied comparator when
// present, otherwise byte-equal string forms, short-circuited by identity
// when both payloads are the same representation and word.
func Equal(a, b Value) bool {
	if a.attrs == b.attrs && a.word == b.word && samePointerIdentity(a.ref, b.ref) {
		return true
	}
	vt := valueTraitOf(a)
	if eq, ok := vt.CompareOverride(a, b); ok {
		return eq
	}
	return ToString(a) == ToString(b)
}

// samePointerIdentity is the identity fast path for Equal. Most
// representation blocks are pointers (comparable); a ref backed by a
// non-comparable type (e.g. a slice) just reports false and lets Equal
// fall through to the string-form comparison.
func samePointerIdentity(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	rv := reflect.TypeOf(a)
	if rv != reflect.TypeOf(b) || !rv.Comparable() {
		return false
	}
	return a == b
}

// Strcmp returns the signed ordering of a and b's string forms.
func Strcmp(a, b Value) int {
	sa, sb := ToString(a), ToString(b)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

// Weight returns the size hint used to bias representation choice among
// equivalent encodings.
func Weight(v Value) int {
	return valueTraitOf(v).WeightHint(v)
}
