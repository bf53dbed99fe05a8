// Package strval implements the String component: the compact
// inline ASCII9 representation and the heap rope representation, unified
// behind one value trait so callers never need to know which one they hold.
package strval

import (
	"bytes"
	"hash/fnv"

	"github.com/joshuapare/avalanche-core/value"
)

// stringTrait is the single process-wide value trait shared by every
// string Value, ASCII9 or rope alike. Which concrete representation a
// Value holds is told apart by its payload, not by a different trait.
type stringTrait struct{}

var stringTraitSingleton = &stringTrait{}

func (t *stringTrait) Tag() *value.Tag { return value.Value_ }

func (t *stringTrait) ToString(v value.Value) string {
	return Materialize(v)
}

func (t *stringTrait) HashOverride(v value.Value) (uint64, bool) {
	if v.Ref() == nil {
		return scrambleASCII9(v.Word()), true
	}
	h := fnv.New64a()
	for chunk := range IterateChunks(v) {
		_, _ = h.Write(chunk)
	}
	return h.Sum64(), true
}

func (t *stringTrait) CompareOverride(a, b value.Value) (bool, bool) {
	if !IsString(b) {
		return false, false
	}
	return Materialize(a) == Materialize(b), true
}

func (t *stringTrait) WeightHint(v value.Value) int {
	return Len(v)
}

// IsString reports whether v's value trait is the string trait.
func IsString(v value.Value) bool {
	impl, ok := value.GetAttribute(v, value.Value_)
	if !ok {
		return false
	}
	_, is := impl.(*stringTrait)
	return is
}

// New builds a string Value, choosing ASCII9 when s fits (≤9 printable
// ASCII characters) and a single-leaf rope otherwise.
func New(s string) value.Value {
	if word, ok := packASCII9(s); ok {
		return value.NewWithTrait(stringTraitSingleton, word, nil)
	}
	return value.NewWithTrait(stringTraitSingleton, 0, newLeaf([]byte(s)))
}

// OfBytes builds a string Value from raw bytes.
func OfBytes(buf []byte) value.Value {
	return New(string(buf))
}

// OfCString builds a string Value from a NUL-terminated buffer, taking
// bytes up to but not including the first NUL. A buffer carrying no NUL
// is taken whole.
func OfCString(p []byte) value.Value {
	if i := bytes.IndexByte(p, 0); i >= 0 {
		p = p[:i]
	}
	return OfBytes(p)
}
