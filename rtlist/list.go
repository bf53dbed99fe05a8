// Package rtlist implements the List component: the empty,
// array, and packed-PV list representations behind one list contract, plus
// the four lazy list projections. Modeled on
// internal/format/list.go's representation-promotion-by-threshold pattern
// (LI/LF/LH/RI list cells promoted by size) and hive/values/types.go's
// uniform List interface hiding the concrete cell kind from callers.
package rtlist

import (
	"strings"

	"github.com/joshuapare/avalanche-core/strval"
	"github.com/joshuapare/avalanche-core/value"
)

// arrayThreshold is the element-count boundary at which an array-list
// promotes to a packed-list.
const arrayThreshold = 16

// repr is the minimal contract every concrete list representation must
// satisfy: enough to answer length/index queries. Mutating operations
// (Append, Concat, Remove, Set) are implemented once at the package level
// in terms of length/at plus the two documented sharing shortcuts, rather
// than duplicated per representation: every mutating operation produces a
// new list value, and the representations differ only in how cheaply they
// answer reads.
type repr interface {
	length() int
	at(i int) value.Value
}

// listValueTrait is the value trait every list Value carries, regardless
// of concrete representation; trait objects are static
// constants shared by every list Value.
type listValueTrait struct{}

var listValueTraitSingleton = &listValueTrait{}

func (t *listValueTrait) Tag() *value.Tag { return value.Value_ }

func (t *listValueTrait) ToString(v value.Value) string {
	r := reprOf(v)
	n := r.length()
	if n == 0 {
		return ""
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = strval.EscapeForList(value.ToString(r.at(i)))
	}
	return strval.JoinNormalForm(parts)
}

func (t *listValueTrait) HashOverride(value.Value) (uint64, bool) { return 0, false }

func (t *listValueTrait) CompareOverride(a, b value.Value) (bool, bool) {
	if !IsList(b) {
		return false, false
	}
	ra, rb := reprOf(a), reprOf(b)
	if ra.length() != rb.length() {
		return false, true
	}
	for i := 0; i < ra.length(); i++ {
		if !value.Equal(ra.at(i), rb.at(i)) {
			return false, true
		}
	}
	return true, true
}

func (t *listValueTrait) WeightHint(v value.Value) int { return reprOf(v).length() }

// IsList reports whether v's chain carries the list trait.
func IsList(v value.Value) bool { return value.HasTag(v, value.List) }

func reprOf(v value.Value) repr {
	r, ok := v.Ref().(repr)
	if !ok {
		panic("rtlist: value is not a list")
	}
	return r
}

func wrap(r repr) value.Value {
	return value.NewWithSecondaryTrait(listValueTraitSingleton, value.List, listValueTraitSingleton, 0, r)
}

// emptyListRepr carries no payload beyond the attribute pointer.
type emptyListRepr struct{}

func (emptyListRepr) length() int        { return 0 }
func (emptyListRepr) at(int) value.Value { panic("rtlist: index on empty list") }

var emptySingleton = emptyListRepr{}

// Empty returns the canonical empty list value.
func Empty() value.Value { return wrap(emptySingleton) }

// arrayListRepr is the flat heap block variant, used below the
// promotion threshold.
type arrayListRepr struct {
	elems []value.Value
}

func (r *arrayListRepr) length() int          { return len(r.elems) }
func (r *arrayListRepr) at(i int) value.Value { return r.elems[i] }

func newArrayList(elems []value.Value) value.Value {
	if len(elems) == 0 {
		return Empty()
	}
	return wrap(&arrayListRepr{elems: elems})
}

// Of builds a list value from a slice of elements, choosing the smallest
// representation for the given length.
func Of(elems []value.Value) value.Value {
	return rebuildFromElems(append([]value.Value(nil), elems...))
}

func rebuildFromElems(elems []value.Value) value.Value {
	if len(elems) == 0 {
		return Empty()
	}
	if len(elems) <= arrayThreshold {
		return newArrayList(elems)
	}
	return buildPacked(elems)
}

// Len returns the list length.
func Len(v value.Value) int { return reprOf(v).length() }

// Index returns the element at i, raising a bounds UserError if out of
// range.
func Index(v value.Value, i int) value.Value {
	r := reprOf(v)
	if i < 0 || i >= r.length() {
		panic(value.NewUserError(value.ClassBounds, "list index out of range"))
	}
	return r.at(i)
}

func elemsRange(v value.Value, lo, hi int) []value.Value {
	r := reprOf(v)
	out := make([]value.Value, hi-lo)
	for i := lo; i < hi; i++ {
		out[i-lo] = r.at(i)
	}
	return out
}

func elemsOf(v value.Value) []value.Value {
	return elemsRange(v, 0, reprOf(v).length())
}

// Slice returns v[lo:hi). Implements the two documented
// sharing shortcuts directly against the concrete representation; every
// other case materializes and re-promotes.
func Slice(v value.Value, lo, hi int) value.Value {
	r := reprOf(v)
	n := r.length()
	if lo < 0 || hi < lo || hi > n {
		panic(value.NewUserError(value.ClassBounds, "list slice out of range"))
	}
	if lo == hi {
		return Empty()
	}

	switch rv := v.Ref().(type) {
	case *packedListRepr:
		if lo == 0 && (hi-lo)*2 >= n {
			return wrap(rv.shareTruncated(hi))
		}
		if hi-lo <= arrayThreshold {
			return newArrayList(elemsRange(v, lo, hi))
		}
	case *arrayListRepr:
		if hi-lo <= arrayThreshold {
			cp := append([]value.Value(nil), rv.elems[lo:hi]...)
			return newArrayList(cp)
		}
	}
	return rebuildFromElems(elemsRange(v, lo, hi))
}

// Append returns v with x added at the tail.
func Append(v value.Value, x value.Value) value.Value {
	switch rv := v.Ref().(type) {
	case emptyListRepr:
		return newArrayList([]value.Value{x})
	case *arrayListRepr:
		merged := append(append([]value.Value(nil), rv.elems...), x)
		return rebuildFromElems(merged)
	case *packedListRepr:
		return wrap(rv.appended(x))
	default:
		return rebuildFromElems(append(elemsOf(v), x))
	}
}

// Concat returns a ++ b.
func Concat(a, b value.Value) value.Value {
	if Len(a) == 0 {
		return b
	}
	if Len(b) == 0 {
		return a
	}
	return rebuildFromElems(append(elemsOf(a), elemsOf(b)...))
}

// Remove returns v with [lo,hi) excised.
func Remove(v value.Value, lo, hi int) value.Value {
	elems := elemsOf(v)
	if lo < 0 || hi < lo || hi > len(elems) {
		panic(value.NewUserError(value.ClassBounds, "list remove out of range"))
	}
	out := append(append([]value.Value(nil), elems[:lo]...), elems[hi:]...)
	return rebuildFromElems(out)
}

// Set returns v with index i replaced by x.
func Set(v value.Value, i int, x value.Value) value.Value {
	elems := elemsOf(v)
	if i < 0 || i >= len(elems) {
		panic(value.NewUserError(value.ClassBounds, "list set out of range"))
	}
	elems[i] = x
	return rebuildFromElems(elems)
}

// OfString parses s as a sequence of list tokens, the same way a list
// value produced from a string form parses it. Invalid syntax fails with
// a *value.FormatError.
func OfString(s string) (value.Value, error) {
	toks, err := strval.Tokenize(s)
	if err != nil {
		return value.Value{}, &value.FormatError{Msg: "invalid list syntax", Err: err}
	}
	elems := make([]value.Value, len(toks))
	for i, tok := range toks {
		elems[i] = strval.New(tok)
	}
	return Of(elems), nil
}

// ListOf converts v to a list: a value already carrying the list trait is
// returned unchanged; anything else parses its string form as a sequence
// of tokens, failing with a *value.FormatError on invalid syntax.
func ListOf(v value.Value) (value.Value, error) {
	if IsList(v) {
		return v, nil
	}
	return OfString(value.ToString(v))
}

// ToStrings renders each element's string form, joined with a single
// space, matching ToString(list) but usable without constructing a list
// Value first.
func ToStrings(elems []value.Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = strval.EscapeForList(value.ToString(e))
	}
	return strings.Join(parts, " ")
}
