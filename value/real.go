package value

import (
	"math"
	"strconv"
	"strings"
)

// realTrait is the process-wide singleton value trait for real (floating
// point) values.
type realTrait struct{}

var realTraitSingleton = &realTrait{}

func (t *realTrait) Tag() *Tag { return Value_ }

func (t *realTrait) ToString(v Value) string {
	f := math.Float64frombits(v.word)
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func (t *realTrait) HashOverride(v Value) (uint64, bool) {
	return v.word, true
}

func (t *realTrait) CompareOverride(a, b Value) (bool, bool) {
	bt, ok := GetAttribute(b, Value_)
	if !ok {
		return false, false
	}
	if _, same := bt.(*realTrait); !same {
		return false, false
	}
	return math.Float64frombits(a.word) == math.Float64frombits(b.word), true
}

func (t *realTrait) WeightHint(Value) int { return 1 }

// NewReal wraps a native float64 as a Value.
func NewReal(f float64) Value {
	return NewWithTrait(realTraitSingleton, math.Float64bits(f), nil)
}

// IsReal reports whether v's value trait is the real trait.
func IsReal(v Value) bool {
	impl, ok := GetAttribute(v, Value_)
	if !ok {
		return false
	}
	_, is := impl.(*realTrait)
	return is
}

// AsReal extracts the native float64 from a real Value.
func AsReal(v Value) float64 {
	if !IsReal(v) {
		panic("value: AsReal on non-real value")
	}
	return math.Float64frombits(v.word)
}

// RealOf parses integer syntax, or the C99 strtod grammar,
// locale-independent, with ',' accepted as an alias for '.'.
func RealOf(s string) (Value, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return Value{}, NewFormatError("empty string is not a real")
	}
	if iv, err := IntegerOf(trimmed); err == nil {
		return NewReal(float64(AsInteger(iv))), nil
	}
	normalized := strings.ReplaceAll(trimmed, ",", ".")
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return Value{}, &FormatError{Msg: "invalid real literal " + strconv.Quote(s), Err: err}
	}
	return NewReal(f), nil
}
