package bind

import (
	"github.com/joshuapare/avalanche-core/rtlist"
	"github.com/joshuapare/avalanche-core/strval"
	"github.com/joshuapare/avalanche-core/value"
)

// ToValue renders f as the nested-list structure its external string form
// is built from: address, convention tag, an optional return
// descriptor, then one sublist per argument.
func (f FuncSpec) ToValue() value.Value {
	elems := []value.Value{value.NewInteger(int64(f.Address)), strval.New(string(f.Convention))}
	if f.Return != nil {
		elems = append(elems, strval.New(f.Return.String()))
	}
	for _, a := range f.Args {
		elems = append(elems, a.toValue())
	}
	return rtlist.Of(elems)
}

// ToString is the canonical external string form of f, produced
// by rendering ToValue through the normal list string form.
func (f FuncSpec) ToString() string {
	return value.ToString(f.ToValue())
}

func (a ArgSpec) toValue() value.Value {
	var elems []value.Value
	if a.Marshal != nil {
		elems = append(elems, strval.New(a.Marshal.String()))
	}
	switch a.Kind {
	case Pos:
		elems = append(elems, strval.New("pos"))
	case PosDefault:
		elems = append(elems, strval.New("pos"), a.Default)
	case Varargs:
		elems = append(elems, strval.New("varargs"))
	case Named:
		elems = append(elems, strval.New("named"), strval.New(a.Name))
	case NamedDefault:
		elems = append(elems, strval.New("named"), strval.New(a.Name), a.Default)
	case BoolNamed:
		elems = append(elems, strval.New("bool"), strval.New(a.Name))
	case Implicit:
		elems = append(elems, strval.New("implicit"), a.Default)
	case Empty:
		elems = append(elems, strval.New("empty"))
	}
	return rtlist.Of(elems)
}
