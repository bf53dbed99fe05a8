// Package rtmap implements the Map component: the empty,
// list-backed, and open-addressed hash-table map representations behind
// one map contract, with multimap (repeated-key) semantics and
// insertion-order iteration. The hashed-key lookup, linear small-set
// fallback, and duplicate-handling ideas generalize registry-key indexing
// into an open-addressed, double-hashed, deletion-tombstoned design.
package rtmap

import (
	"github.com/joshuapare/avalanche-core/rtlist"
	"github.com/joshuapare/avalanche-core/value"
)

// Cursor is an opaque pair-position identifier. NoneCursor
// is distinguishable from every valid cursor.
type Cursor uint64

// NoneCursor is the sentinel "absent" cursor: unsigned 64-bit, ~0.
const NoneCursor Cursor = ^Cursor(0)

// listThreshold is the pair-count boundary at which a list-map promotes to
// a hash-map.
const listThreshold = 4

// repr is the contract every concrete map representation satisfies. Every
// mutating method returns a new repr; maps are persistent values like
// lists, so every mutator (add, delete, set) returns the resulting map
// rather than changing the receiver in place.
type repr interface {
	npairs() int
	find(key value.Value) Cursor
	next(cursor Cursor) Cursor
	getKey(cursor Cursor) value.Value
	getValue(cursor Cursor) value.Value
	setAt(cursor Cursor, val value.Value) repr
	add(key, val value.Value) repr
	deleteAt(cursor Cursor) repr
	listView() value.Value
}

type mapValueTrait struct{}

var mapValueTraitSingleton = &mapValueTrait{}

func (t *mapValueTrait) Tag() *value.Tag { return value.Value_ }

func (t *mapValueTrait) ToString(v value.Value) string {
	return value.ToString(reprOf(v).listView())
}

func (t *mapValueTrait) HashOverride(value.Value) (uint64, bool) { return 0, false }

func (t *mapValueTrait) CompareOverride(a, b value.Value) (bool, bool) {
	if !IsMap(b) {
		return false, false
	}
	ra, rb := reprOf(a), reprOf(b)
	if ra.npairs() != rb.npairs() {
		return false, true
	}
	return value.Equal(ra.listView(), rb.listView()), true
}

func (t *mapValueTrait) WeightHint(v value.Value) int { return reprOf(v).npairs() }

// IsMap reports whether v's chain carries the map trait.
func IsMap(v value.Value) bool { return value.HasTag(v, value.Map) }

func reprOf(v value.Value) repr {
	r, ok := v.Ref().(repr)
	if !ok {
		panic("rtmap: value is not a map")
	}
	return r
}

func wrap(r repr) value.Value {
	return value.NewWithSecondaryTrait(mapValueTraitSingleton, value.Map, mapValueTraitSingleton, 0, r)
}

type emptyMapRepr struct{}

func (emptyMapRepr) npairs() int                        { return 0 }
func (emptyMapRepr) find(value.Value) Cursor            { return NoneCursor }
func (emptyMapRepr) next(Cursor) Cursor                 { return NoneCursor }
func (emptyMapRepr) getKey(Cursor) value.Value          { panic("rtmap: getKey on empty map") }
func (emptyMapRepr) getValue(Cursor) value.Value        { panic("rtmap: getValue on empty map") }
func (emptyMapRepr) setAt(Cursor, value.Value) repr { panic("rtmap: set on empty map") }
func (emptyMapRepr) listView() value.Value          { return rtlist.Empty() }

func (emptyMapRepr) add(key, val value.Value) repr {
	return &listMapRepr{keys: []value.Value{key}, vals: []value.Value{val}}
}

func (emptyMapRepr) deleteAt(Cursor) repr { panic("rtmap: delete on empty map") }

var emptySingleton = emptyMapRepr{}

// Empty returns the canonical empty map value.
func Empty() value.Value { return wrap(emptySingleton) }

// NPairs returns the number of live key/value pairs.
func NPairs(v value.Value) int { return reprOf(v).npairs() }

// Find returns the cursor of the first occurrence of key, or NoneCursor
// when key is absent.
func Find(v value.Value, key value.Value) Cursor { return reprOf(v).find(key) }

// Next advances cursor to the next occurrence of the same key (multimap
// semantics), or NoneCursor when there is none.
func Next(v value.Value, cursor Cursor) Cursor { return reprOf(v).next(cursor) }

// GetKey returns the key at cursor.
func GetKey(v value.Value, cursor Cursor) value.Value { return reprOf(v).getKey(cursor) }

// GetValue returns the value at cursor.
func GetValue(v value.Value, cursor Cursor) value.Value { return reprOf(v).getValue(cursor) }

// Set returns v with cursor's value replaced by val.
func Set(v value.Value, cursor Cursor, val value.Value) value.Value {
	return wrap(reprOf(v).setAt(cursor, val))
}

// Add returns v with (key, val) appended as a new pair. add always
// appends, never overwrites, giving multimap semantics.
func Add(v value.Value, key, val value.Value) value.Value {
	return wrap(reprOf(v).add(key, val))
}

// Delete returns v with cursor's pair removed.
func Delete(v value.Value, cursor Cursor) value.Value {
	return wrap(reprOf(v).deleteAt(cursor))
}

// Of builds a map from an ordered slice of (key, value) pairs, choosing
// the smallest representation for the given pair count.
func Of(pairs [][2]value.Value) value.Value {
	m := Empty()
	for _, p := range pairs {
		m = Add(m, p[0], p[1])
	}
	return m
}

// OfList builds a map from a list's alternating key/value elements. A
// list of odd length fails with a *value.FormatError.
func OfList(list value.Value) (value.Value, error) {
	n := rtlist.Len(list)
	if n%2 != 0 {
		return value.Value{}, value.NewFormatError("map form needs an even number of elements, got %d", n)
	}
	m := Empty()
	for i := 0; i < n; i += 2 {
		m = Add(m, rtlist.Index(list, i), rtlist.Index(list, i+1))
	}
	return m, nil
}

// OfString parses s as a list and builds a map from its alternating
// key/value elements.
func OfString(s string) (value.Value, error) {
	l, err := rtlist.OfString(s)
	if err != nil {
		return value.Value{}, err
	}
	return OfList(l)
}

// MapOf converts v to a map: a value already carrying the map trait is
// returned unchanged; anything else is first converted to a list and read
// as alternating key/value elements.
func MapOf(v value.Value) (value.Value, error) {
	if IsMap(v) {
		return v, nil
	}
	l, err := rtlist.ListOf(v)
	if err != nil {
		return value.Value{}, err
	}
	return OfList(l)
}

// ToListView renders v as its alternating key/value list of 2*npairs
// elements. Every representation supports the view, not just the
// hash-map; it is also exactly a list-map's natural shape.
func ToListView(v value.Value) value.Value { return reprOf(v).listView() }
