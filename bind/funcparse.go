package bind

import (
	"github.com/joshuapare/avalanche-core/rtlist"
	"github.com/joshuapare/avalanche-core/strval"
	"github.com/joshuapare/avalanche-core/value"
)

// FuncSpecOf parses the external function string form back into a
// FuncSpec: address, convention tag, the return marshal descriptor when
// the convention carries native marshalling, then one sublist per
// argument. The inverse of ToString; invalid syntax fails with a
// *value.FormatError.
func FuncSpecOf(s string) (FuncSpec, error) {
	toks, err := strval.Tokenize(s)
	if err != nil {
		return FuncSpec{}, &value.FormatError{Msg: "invalid function syntax", Err: err}
	}
	if len(toks) < 3 {
		return FuncSpec{}, value.NewFormatError("function form needs an address, a convention, and at least one argument")
	}

	addr, err := value.IntegerOf(toks[0])
	if err != nil {
		return FuncSpec{}, err
	}
	conv := Convention(toks[1])
	switch conv {
	case ConventionAva, ConventionC, ConventionMSStd, ConventionThis:
	default:
		return FuncSpec{}, value.NewFormatError("unknown calling convention %q", toks[1])
	}

	f := FuncSpec{Address: uint64(value.AsInteger(addr)), Convention: conv}
	rest := toks[2:]
	marshalled := conv != ConventionAva
	if marshalled {
		ret := ParseDescriptor(rest[0])
		f.Return = &ret
		rest = rest[1:]
	}

	for _, tok := range rest {
		a, err := parseArgSpec(tok, marshalled)
		if err != nil {
			return FuncSpec{}, err
		}
		f.Args = append(f.Args, a)
	}
	if err := f.Validate(); err != nil {
		return FuncSpec{}, &value.FormatError{Msg: "invalid function specification", Err: err}
	}
	return f, nil
}

// FuncSpecFromValue parses a function specification from its list-value
// form, the shape ToValue produces.
func FuncSpecFromValue(v value.Value) (FuncSpec, error) {
	if !rtlist.IsList(v) {
		return FuncSpec{}, value.NewFormatError("function form must be a list")
	}
	return FuncSpecOf(value.ToString(v))
}

func parseArgSpec(tok string, marshalled bool) (ArgSpec, error) {
	parts, err := strval.Tokenize(tok)
	if err != nil {
		return ArgSpec{}, &value.FormatError{Msg: "invalid argument sublist", Err: err}
	}
	var a ArgSpec
	if marshalled {
		if len(parts) == 0 {
			return ArgSpec{}, value.NewFormatError("argument sublist missing its marshal descriptor")
		}
		d := ParseDescriptor(parts[0])
		a.Marshal = &d
		parts = parts[1:]
	}
	if len(parts) == 0 {
		return ArgSpec{}, value.NewFormatError("argument sublist missing its binding clause")
	}

	clause := parts[0]
	operands := parts[1:]
	switch clause {
	case "pos":
		switch len(operands) {
		case 0:
			a.Kind = Pos
		case 1:
			a.Kind = PosDefault
			a.Default = strval.New(operands[0])
		default:
			return ArgSpec{}, value.NewFormatError("pos clause takes at most one default")
		}
	case "varargs":
		if len(operands) != 0 {
			return ArgSpec{}, value.NewFormatError("varargs clause takes no operands")
		}
		a.Kind = Varargs
	case "named":
		switch len(operands) {
		case 1:
			a.Kind = Named
			a.Name = operands[0]
		case 2:
			a.Kind = NamedDefault
			a.Name = operands[0]
			a.Default = strval.New(operands[1])
		default:
			return ArgSpec{}, value.NewFormatError("named clause needs a name and at most one default")
		}
	case "bool":
		if len(operands) != 1 {
			return ArgSpec{}, value.NewFormatError("bool clause needs exactly one name")
		}
		a.Kind = BoolNamed
		a.Name = operands[0]
	case "implicit":
		if len(operands) != 1 {
			return ArgSpec{}, value.NewFormatError("implicit clause needs exactly one value")
		}
		a.Kind = Implicit
		a.Default = strval.New(operands[0])
	case "empty":
		if len(operands) != 0 {
			return ArgSpec{}, value.NewFormatError("empty clause takes no operands")
		}
		a.Kind = Empty
	default:
		return ArgSpec{}, value.NewFormatError("unknown binding clause %q", clause)
	}
	return a, nil
}
