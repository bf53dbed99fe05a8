package rtmap

import (
	"github.com/joshuapare/avalanche-core/rtlist"
	"github.com/joshuapare/avalanche-core/value"
)

// listMapRepr is the linear-scan variant, used below the
// promotion threshold. keys/vals are parallel, insertion-ordered slices;
// a Cursor is simply the pair's index.
type listMapRepr struct {
	keys []value.Value
	vals []value.Value
}

func (r *listMapRepr) npairs() int { return len(r.keys) }

func (r *listMapRepr) find(key value.Value) Cursor {
	for i, k := range r.keys {
		if value.Equal(k, key) {
			return Cursor(i)
		}
	}
	return NoneCursor
}

func (r *listMapRepr) next(cursor Cursor) Cursor {
	if int(cursor) >= len(r.keys) {
		return NoneCursor
	}
	key := r.keys[cursor]
	for i := int(cursor) + 1; i < len(r.keys); i++ {
		if value.Equal(r.keys[i], key) {
			return Cursor(i)
		}
	}
	return NoneCursor
}

func (r *listMapRepr) getKey(cursor Cursor) value.Value   { return r.keys[cursor] }
func (r *listMapRepr) getValue(cursor Cursor) value.Value { return r.vals[cursor] }

func (r *listMapRepr) setAt(cursor Cursor, val value.Value) repr {
	vals := append([]value.Value(nil), r.vals...)
	vals[cursor] = val
	return &listMapRepr{keys: r.keys, vals: vals}
}

func (r *listMapRepr) add(key, val value.Value) repr {
	if len(r.keys)+1 > listThreshold {
		keys := append(append([]value.Value(nil), r.keys...), key)
		vals := append(append([]value.Value(nil), r.vals...), val)
		return buildHashMap(keys, vals)
	}
	return &listMapRepr{
		keys: append(append([]value.Value(nil), r.keys...), key),
		vals: append(append([]value.Value(nil), r.vals...), val),
	}
}

func (r *listMapRepr) deleteAt(cursor Cursor) repr {
	i := int(cursor)
	keys := append(append([]value.Value(nil), r.keys[:i]...), r.keys[i+1:]...)
	vals := append(append([]value.Value(nil), r.vals[:i]...), r.vals[i+1:]...)
	if len(keys) == 0 {
		return emptySingleton
	}
	return &listMapRepr{keys: keys, vals: vals}
}

func (r *listMapRepr) listView() value.Value {
	elems := make([]value.Value, 0, 2*len(r.keys))
	for i := range r.keys {
		elems = append(elems, r.keys[i], r.vals[i])
	}
	return rtlist.Of(elems)
}
