package value

import (
	"fmt"
	"strconv"
	"strings"
)

// pointerTrait is the value trait for the pointer prototype standard tag.
// It is intentionally thin: the core exposes pointer values and their
// marshal-descriptor spelling but leaves the actual native-call mechanism
// to the host.
type pointerTrait struct{}

var pointerTraitSingleton = &pointerTrait{}

func (t *pointerTrait) Tag() *Tag { return Value_ }

func (t *pointerTrait) ToString(v Value) string {
	p := v.ref.(*pointerPayload)
	return p.String()
}

func (t *pointerTrait) HashOverride(v Value) (uint64, bool) {
	return v.word, true
}

func (t *pointerTrait) CompareOverride(a, b Value) (bool, bool) {
	bp, ok := b.ref.(*pointerPayload)
	if !ok {
		return false, false
	}
	ap := a.ref.(*pointerPayload)
	return ap.address == bp.address && ap.typeTag == bp.typeTag, true
}

func (t *pointerTrait) WeightHint(Value) int { return 1 }

// pointerPayload is the heap payload for a pointer Value.
type pointerPayload struct {
	typeTag string // empty means "void"
	address uint64
	mutable bool // tag* (mutable) vs tag& (const)
}

func (p *pointerPayload) String() string {
	suffix := "&"
	if p.mutable {
		suffix = "*"
	}
	return fmt.Sprintf("%s%s:%#x", p.typeTag, suffix, p.address)
}

// NewPointer builds a pointer Value. An empty typeTag denotes void. The
// per-value payload lives in the cell's ref; the chain carries only the
// shared pointer prototype.
func NewPointer(typeTag string, address uint64, mutable bool) Value {
	p := &pointerPayload{typeTag: typeTag, address: address, mutable: mutable}
	return NewWithSecondaryTrait(pointerTraitSingleton, Pointer, pointerTraitSingleton, address, p)
}

// IsPointer reports whether v's value trait is the pointer trait.
func IsPointer(v Value) bool {
	impl, ok := GetAttribute(v, Value_)
	if !ok {
		return false
	}
	_, is := impl.(*pointerTrait)
	return is
}

// PointerTypeTag returns the pointer's marshal type tag ("" means void).
func PointerTypeTag(v Value) string {
	return v.ref.(*pointerPayload).typeTag
}

// PointerAddress returns the pointer's native address.
func PointerAddress(v Value) uint64 {
	return v.ref.(*pointerPayload).address
}

// PointerIsMutable reports whether the pointer's marshal descriptor is the
// mutable (tag*) form rather than the const (tag&) form.
func PointerIsMutable(v Value) bool {
	return v.ref.(*pointerPayload).mutable
}

// PointerOf parses the marshal-descriptor spelling a pointer's string form
// uses: "tag*<addr>" for mutable, "tag&<addr>" for const, with an
// empty tag meaning void.
func PointerOf(s string) (Value, error) {
	var sep byte
	idx := -1
	for i := 0; i < len(s); i++ {
		if s[i] == '*' || s[i] == '&' {
			idx = i
			sep = s[i]
			break
		}
	}
	if idx < 0 {
		return Value{}, NewFormatError("%q is not a pointer marshal descriptor", s)
	}
	typeTag := s[:idx]
	rest := strings.TrimPrefix(s[idx+1:], ":")
	addr, err := strconv.ParseUint(strings.TrimPrefix(rest, "0x"), 16, 64)
	if err != nil {
		return Value{}, &FormatError{Msg: "invalid pointer address in " + strconv.Quote(s), Err: err}
	}
	return NewPointer(typeTag, addr, sep == '*'), nil
}
