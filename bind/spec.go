// Package bind implements the function-call binding engine:
// matching a polymorphic parameter list at a call site against a function
// specification's ordered argument specifications, and materializing a
// concrete argument array for the native call. The marshal/calling-
// convention descriptor concepts follow a wrapper layer's native-call
// plumbing, and the staged-plan shape follows a planner that resolves one
// stage at a time; both adapted here to the two-pass greedy positional
// matcher this package implements.
package bind

import "github.com/joshuapare/avalanche-core/value"

// Convention is the calling-convention tag a FuncSpec carries.
type Convention string

// Standard calling conventions.
const (
	ConventionAva   Convention = "ava"
	ConventionC     Convention = "c"
	ConventionMSStd Convention = "msstd"
	ConventionThis  Convention = "this"
)

// Kind is the binding-kind tag on one ArgSpec.
type Kind int

// The eight binding kinds an ArgSpec can carry.
const (
	Implicit Kind = iota
	Pos
	Empty
	PosDefault
	Varargs
	Named
	NamedDefault
	BoolNamed
)

// isVariableShaped reports whether k is one of the "variable-shaped"
// kinds that must appear contiguously in a FuncSpec: every
// kind except Implicit and Pos.
func (k Kind) isVariableShaped() bool {
	return k != Implicit && k != Pos
}

func (k Kind) isNamedVariant() bool {
	return k == Named || k == NamedDefault || k == BoolNamed
}

// ArgSpec is one argument specification in a FuncSpec.
type ArgSpec struct {
	Marshal *Descriptor // nil when this convention ignores native marshalling
	Kind    Kind
	Name    string      // Named, NamedDefault, BoolNamed
	Default value.Value // Implicit, PosDefault, NamedDefault
}

// FuncSpec is a function specification: an address, a calling
// convention, an optional return descriptor, and ordered argument specs.
type FuncSpec struct {
	Address    uint64
	Convention Convention
	Return     *Descriptor
	Args       []ArgSpec
}

// Validate checks the structural rules a FuncSpec must satisfy.
//
// Implicit arguments never participate in positional matching, so they
// are ignored when checking contiguity: the remaining kinds must form the
// pattern Pos* VariableShaped* Pos* (a leading positional run, one
// contiguous variable-shaped block, a trailing positional run) with no
// Varargs anywhere but the tail of that block.
func (f FuncSpec) Validate() error {
	names := map[string]bool{}
	anyNonImplicit := false
	sawVariableStart, sawVariableEnd, sawVarargs := false, false, false

	for _, a := range f.Args {
		if a.Kind != Implicit {
			anyNonImplicit = true
		}
		if a.Kind == Implicit {
			continue
		}
		if a.Kind.isVariableShaped() {
			if sawVariableEnd {
				return value.NewUserError(value.ClassArgumentBind,
					"variable-shaped arguments are not contiguous")
			}
			if sawVarargs {
				return value.NewUserError(value.ClassArgumentBind,
					"a variable-shaped argument follows a varargs argument")
			}
			sawVariableStart = true
			if a.Kind == Varargs {
				sawVarargs = true
			}
		} else if sawVariableStart {
			sawVariableEnd = true
		}
		if a.Kind.isNamedVariant() {
			if names[a.Name] {
				return value.NewUserError(value.ClassArgumentBind,
					"duplicate named argument "+a.Name)
			}
			names[a.Name] = true
		}
	}
	if !anyNonImplicit {
		return value.NewUserError(value.ClassArgumentBind,
			"function specification has no non-implicit argument")
	}
	return nil
}

// ParamKind classifies a call-site parameter.
type ParamKind int

// The three parameter kinds a call site can supply.
const (
	Static ParamKind = iota
	Dynamic
	Spread
)

// Param is one parameter at a call site.
type Param struct {
	Kind  ParamKind
	Value value.Value // meaningful when Kind == Static or Kind == Spread (a list value)
}

// StaticParam builds a Static parameter.
func StaticParam(v value.Value) Param { return Param{Kind: Static, Value: v} }

// DynamicParam builds a Dynamic parameter (value not yet known).
func DynamicParam() Param { return Param{Kind: Dynamic} }

// SpreadParam builds a Spread parameter over a list value.
func SpreadParam(list value.Value) Param { return Param{Kind: Spread, Value: list} }
