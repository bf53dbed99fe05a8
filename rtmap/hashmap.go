package rtmap

import (
	"sync/atomic"

	"github.com/joshuapare/avalanche-core/rtlist"
	"github.com/joshuapare/avalanche-core/strval"
	"github.com/joshuapare/avalanche-core/value"
)

// asciiCollisionLimit and asciiEntryLimit are the ASCII9-hash eligibility
// bounds: a map stays in ASCII9 mode only while every key is
// an ASCII9 string, entry count stays under 2^24, and no probe chain
// exceeds 8 slots.
const (
	asciiCollisionLimit = 8
	asciiEntryLimit     = 1 << 24
)

// hashMapRepr is the open-addressed variant. keysList and valsList are
// two parallel rtlist lists (array-lists up to 16 entries, packed-lists
// beyond), so append past that size reuses PV-backed structural sharing; indexArr, hashCache, and the deletion
// bitmap are plain copy-on-write slices. Each mutation publishes an
// entirely new, immutable hashMapRepr, since value cells are immutable
// once published, so no cross-thread CaS discipline is needed on them at
// this layer the way a mutable-in-place index array would require.
type hashMapRepr struct {
	keysList value.Value
	valsList value.Value

	deleted   []bool
	hashCache []uint64
	indexArr  []int32 // power-of-two sized; -1 means empty, else a physical position

	live      int
	asciiMode bool

	listIndexCache atomic.Pointer[[]int32]
}

func (r *hashMapRepr) npairs() int { return r.live }

func isASCII9Key(v value.Value) bool {
	return strval.IsString(v) && v.Ref() == nil
}

func nextPow2(n int) int {
	p := 8
	for p < n {
		p <<= 1
	}
	return p
}

// probeFind walks the double-hashed probe sequence (probe p visits slot
// h + p*((h>>4)|1), masked to the array size: the step is the full hash
// right-shifted by 4 bits, forced odd) looking for key. Returns the slot (for insertion) and, if an occupied slot held
// a matching key, that slot's physical position.
func probeFind(keysList value.Value, indexArr []int32, h uint64, key value.Value) (slot int, pos int, found bool) {
	if len(indexArr) == 0 {
		return -1, -1, false
	}
	mask := len(indexArr) - 1
	slot0 := int(h) & mask
	step := int(h>>4) | 1
	for p := 0; p <= mask; p++ {
		s := (slot0 + p*step) & mask
		e := indexArr[s]
		if e == -1 {
			return s, -1, false
		}
		if value.Equal(rtlist.Index(keysList, int(e)), key) {
			return s, int(e), true
		}
	}
	return -1, -1, false
}

// firstEmptySlot probes for the first empty slot for a key not yet
// present, returning the probe length so callers can track the ASCII9
// collision-limit eligibility.
func firstEmptySlot(indexArr []int32, h uint64) (slot int, probeLen int) {
	mask := len(indexArr) - 1
	slot0 := int(h) & mask
	step := int(h>>4) | 1
	for p := 0; p <= mask; p++ {
		s := (slot0 + p*step) & mask
		if indexArr[s] == -1 {
			return s, p + 1
		}
	}
	panic("rtmap: index array full despite load-factor check")
}

func needsResize(capacity, live int) bool {
	return capacity == 0 || live*3 > capacity*2
}

// rebuildIndex builds a fresh index array over every live physical
// position in keysList, recording only the first occurrence
// of each distinct key. Returns the array and the longest probe chain
// observed, used to decide ASCII9-mode eligibility.
func rebuildIndex(keysList value.Value, deleted []bool, hashCache []uint64, live int) ([]int32, int) {
	capacity := nextPow2(live*3/2 + 1)
	idx := make([]int32, capacity)
	for i := range idx {
		idx[i] = -1
	}
	maxProbe := 0
	n := rtlist.Len(keysList)
	for pos := 0; pos < n; pos++ {
		if deleted[pos] {
			continue
		}
		key := rtlist.Index(keysList, pos)
		h := hashCache[pos]
		if _, _, found := probeFind(keysList, idx, h, key); found {
			continue
		}
		slot, probeLen := firstEmptySlot(idx, h)
		idx[slot] = int32(pos)
		if probeLen > maxProbe {
			maxProbe = probeLen
		}
	}
	return idx, maxProbe
}

func countDeleted(deleted []bool) int {
	n := 0
	for _, d := range deleted {
		if d {
			n++
		}
	}
	return n
}

// buildHashMap promotes a list-map's pairs into a hash-map.
func buildHashMap(keys, vals []value.Value) repr {
	keysList := rtlist.Of(keys)
	valsList := rtlist.Of(vals)
	hashCache := make([]uint64, len(keys))
	ascii := true
	for i, k := range keys {
		hashCache[i] = value.Hash(k)
		if !isASCII9Key(k) {
			ascii = false
		}
	}
	deleted := make([]bool, len(keys))
	idx, maxProbe := rebuildIndex(keysList, deleted, hashCache, len(keys))
	if maxProbe > asciiCollisionLimit || len(keys) >= asciiEntryLimit {
		ascii = false
	}
	return &hashMapRepr{
		keysList: keysList, valsList: valsList,
		deleted: deleted, hashCache: hashCache, indexArr: idx,
		live: len(keys), asciiMode: ascii,
	}
}

func (r *hashMapRepr) find(key value.Value) Cursor {
	h := value.Hash(key)
	_, pos, found := probeFind(r.keysList, r.indexArr, h, key)
	if !found {
		return NoneCursor
	}
	return Cursor(pos)
}

func (r *hashMapRepr) next(cursor Cursor) Cursor {
	n := rtlist.Len(r.keysList)
	if int(cursor) >= n {
		return NoneCursor
	}
	key := rtlist.Index(r.keysList, int(cursor))
	for i := int(cursor) + 1; i < n; i++ {
		if !r.deleted[i] && value.Equal(rtlist.Index(r.keysList, i), key) {
			return Cursor(i)
		}
	}
	return NoneCursor
}

func (r *hashMapRepr) getKey(cursor Cursor) value.Value   { return rtlist.Index(r.keysList, int(cursor)) }
func (r *hashMapRepr) getValue(cursor Cursor) value.Value { return rtlist.Index(r.valsList, int(cursor)) }

func (r *hashMapRepr) setAt(cursor Cursor, val value.Value) repr {
	return &hashMapRepr{
		keysList: r.keysList,
		valsList: rtlist.Set(r.valsList, int(cursor), val),
		deleted:  r.deleted, hashCache: r.hashCache, indexArr: r.indexArr,
		live: r.live, asciiMode: r.asciiMode,
	}
}

func (r *hashMapRepr) add(key, val value.Value) repr {
	h := value.Hash(key)
	newKeysList := rtlist.Append(r.keysList, key)
	newValsList := rtlist.Append(r.valsList, val)
	pos := rtlist.Len(r.keysList)
	newHashCache := append(append([]uint64(nil), r.hashCache...), h)
	newDeleted := append(append([]bool(nil), r.deleted...), false)
	live := r.live + 1
	ascii := r.asciiMode && isASCII9Key(key) && live < asciiEntryLimit

	var newIndexArr []int32
	var maxProbe int
	if needsResize(len(r.indexArr), live) {
		newIndexArr, maxProbe = rebuildIndex(newKeysList, newDeleted, newHashCache, live)
	} else {
		newIndexArr = append([]int32(nil), r.indexArr...)
		if _, _, found := probeFind(newKeysList, newIndexArr, h, key); !found {
			slot, probeLen := firstEmptySlot(newIndexArr, h)
			newIndexArr[slot] = int32(pos)
			maxProbe = probeLen
		}
	}
	if maxProbe > asciiCollisionLimit {
		ascii = false
	}

	return &hashMapRepr{
		keysList: newKeysList, valsList: newValsList,
		deleted: newDeleted, hashCache: newHashCache, indexArr: newIndexArr,
		live: live, asciiMode: ascii,
	}
}

func (r *hashMapRepr) deleteAt(cursor Cursor) repr {
	pos := int(cursor)
	key := rtlist.Index(r.keysList, pos)
	h := r.hashCache[pos]

	newDeleted := append([]bool(nil), r.deleted...)
	newDeleted[pos] = true
	live := r.live - 1

	slot, foundPos, found := probeFind(r.keysList, r.indexArr, h, key)
	newIndexArr := append([]int32(nil), r.indexArr...)
	if found && foundPos == pos {
		next := -1
		n := rtlist.Len(r.keysList)
		for i := pos + 1; i < n; i++ {
			if !newDeleted[i] && value.Equal(rtlist.Index(r.keysList, i), key) {
				next = i
				break
			}
		}
		if next >= 0 {
			newIndexArr[slot] = int32(next)
		} else {
			// Emptying the slot would cut the probe chain of every key placed
			// past it, so the index is rebuilt over the remaining entries.
			newIndexArr, _ = rebuildIndex(r.keysList, newDeleted, r.hashCache, live)
		}
	}

	total := rtlist.Len(r.keysList)
	if countDeleted(newDeleted)*2 > total {
		return vacuum(r.keysList, r.valsList, newDeleted, r.hashCache, live, r.asciiMode)
	}
	return &hashMapRepr{
		keysList: r.keysList, valsList: r.valsList,
		deleted: newDeleted, hashCache: r.hashCache, indexArr: newIndexArr,
		live: live, asciiMode: r.asciiMode,
	}
}

// vacuum rebuilds keys, values, index, and the deletion bitmap without
// the tombstoned entries.
func vacuum(keysList, valsList value.Value, deleted []bool, hashCache []uint64, live int, asciiMode bool) repr {
	n := rtlist.Len(keysList)
	newKeys := make([]value.Value, 0, live)
	newVals := make([]value.Value, 0, live)
	newHashCache := make([]uint64, 0, live)
	for i := 0; i < n; i++ {
		if !deleted[i] {
			newKeys = append(newKeys, rtlist.Index(keysList, i))
			newVals = append(newVals, rtlist.Index(valsList, i))
			newHashCache = append(newHashCache, hashCache[i])
		}
	}
	newKeysList := rtlist.Of(newKeys)
	newValsList := rtlist.Of(newVals)
	newDeleted := make([]bool, len(newKeys))
	idx, maxProbe := rebuildIndex(newKeysList, newDeleted, newHashCache, live)
	if maxProbe > asciiCollisionLimit {
		asciiMode = false
	}
	return &hashMapRepr{
		keysList: newKeysList, valsList: newValsList,
		deleted: newDeleted, hashCache: newHashCache, indexArr: idx,
		live: live, asciiMode: asciiMode,
	}
}

// logicalIndex returns the table mapping logical list positions to
// physical cursors, building and caching it on first use; needed only
// once deletions are present.
func (r *hashMapRepr) logicalIndex() []int32 {
	if cached := r.listIndexCache.Load(); cached != nil {
		return *cached
	}
	n := rtlist.Len(r.keysList)
	table := make([]int32, 0, r.live)
	for i := 0; i < n; i++ {
		if !r.deleted[i] {
			table = append(table, int32(i))
		}
	}
	r.listIndexCache.Store(&table)
	return table
}

func (r *hashMapRepr) listView() value.Value {
	n := rtlist.Len(r.keysList)
	if countDeleted(r.deleted) == 0 {
		elems := make([]value.Value, 0, 2*n)
		for i := 0; i < n; i++ {
			elems = append(elems, rtlist.Index(r.keysList, i), rtlist.Index(r.valsList, i))
		}
		return rtlist.Of(elems)
	}
	table := r.logicalIndex()
	elems := make([]value.Value, 0, 2*len(table))
	for _, pos := range table {
		elems = append(elems, rtlist.Index(r.keysList, int(pos)), rtlist.Index(r.valsList, int(pos)))
	}
	return rtlist.Of(elems)
}
