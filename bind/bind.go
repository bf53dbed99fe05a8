package bind

import (
	"github.com/joshuapare/avalanche-core/rtlist"
	"github.com/joshuapare/avalanche-core/value"
)

// Status is the outcome of a Bind attempt.
type Status int

// The four status values Bind can report.
const (
	Bound Status = iota
	Unknown
	Impossible
	Unpack
)

// Result is the outcome of Bind. Callers check Status before doing
// anything else; bound/collected are only meaningful when Status == Bound.
type Result struct {
	Status  Status
	Message string

	bound      map[int]Param
	varargsIdx int // -1 if the function has no varargs argument; set even when it collected nothing
	collected  []Param
}

// Bind matches params against spec's argument specifications.
// spec must already have passed Validate.
//
// The two greedy positional passes are driven by a left and a right cursor
// over both arrays simultaneously. The remaining contiguous variable-shaped
// region is then processed argument by argument, leftmost first: a
// pos_default consumes one parameter; a run of named variants is matched
// by walking the call-site parameters left to right and looking up each
// one's static name among the run's still-unbound named arguments (the
// argument order and the call-site name order need not agree); a varargs
// collects every parameter still remaining.
func Bind(spec FuncSpec, params []Param) Result {
	args := spec.Args
	bound := map[int]Param{}

	var nonImplicit []int
	for i, a := range args {
		if a.Kind != Implicit {
			nonImplicit = append(nonImplicit, i)
		}
	}

	li, ri := 0, len(nonImplicit)-1
	pl, pr := 0, len(params)-1

	for li <= ri && pl <= pr && args[nonImplicit[li]].Kind == Pos && params[pl].Kind != Spread {
		bound[nonImplicit[li]] = params[pl]
		li++
		pl++
	}
	for li <= ri && pl <= pr && args[nonImplicit[ri]].Kind == Pos && params[pr].Kind != Spread {
		bound[nonImplicit[ri]] = params[pr]
		ri--
		pr--
	}

	var mid []int
	if li <= ri {
		mid = nonImplicit[li : ri+1]
	}

	st, res, terminal := bindMiddle(args, mid, bound, params, pl, pr)
	if terminal {
		return res
	}

	if st.next <= pr {
		return Result{Status: Impossible, Message: "too many parameters for function specification"}
	}

	out := finishBind(args, bound)
	if out.Status == Bound && st.varargsIdx != -1 {
		out.varargsIdx = st.varargsIdx
		out.collected = st.collected
	}
	return out
}

// middleState carries what bindMiddle resolved when it did not terminate:
// the advanced left-parameter cursor and any varargs collection it formed.
type middleState struct {
	next       int
	varargsIdx int
	collected  []Param
}

// bindMiddle resolves step 4 of the algorithm over the arg indices in mid,
// inspecting the leftmost remaining argument each iteration. Returns a
// terminal Result (Unknown, Unpack, or Impossible) with terminal == true,
// or the resolved middleState with terminal == false so Bind can continue
// to step 5.
func bindMiddle(args []ArgSpec, mid []int, bound map[int]Param, params []Param, pl, pr int) (middleState, Result, bool) {
	st := middleState{varargsIdx: -1}

	// A pos argument only ends up inside the unresolved middle region
	// because a spread parameter blocked one of the two greedy passes
	// from reaching it. That can only be recovered by exploding the
	// spread, so report Unpack rather than trying to bind through it.
	for _, idx := range mid {
		if args[idx].Kind != Pos {
			continue
		}
		for _, p := range params[pl : pr+1] {
			if p.Kind == Spread {
				return st, Result{Status: Unpack}, true
			}
		}
		return st, Result{Status: Impossible, Message: "positional argument not reachable"}, true
	}

	cursor := pl
	ai := 0
	for ai < len(mid) {
		idx := mid[ai]
		switch args[idx].Kind {
		case Empty:
			bound[idx] = StaticParam(rtlist.Empty())
			ai++

		case PosDefault:
			if cursor > pr {
				ai++ // no parameter left; finishBind applies the default
				continue
			}
			if params[cursor].Kind == Spread {
				return st, Result{Status: Unpack}, true
			}
			bound[idx] = params[cursor]
			cursor++
			ai++

		case Named, NamedDefault, BoolNamed:
			// The contiguous run of named variants starting at ai is matched
			// against the parameters in call-site order; the two orders need
			// not agree.
			end := ai
			pending := map[string]int{}
			for end < len(mid) && args[mid[end]].Kind.isNamedVariant() {
				pending[args[mid[end]].Name] = mid[end]
				end++
			}
			for cursor <= pr && len(pending) > 0 {
				p := params[cursor]
				switch p.Kind {
				case Dynamic:
					return st, Result{Status: Unknown}, true
				case Spread:
					return st, Result{Status: Unpack}, true
				}
				name := value.ToString(p.Value)
				target, ok := pending[name]
				if !ok {
					return st, Result{Status: Impossible, Message: "unknown named argument " + name}, true
				}
				delete(pending, name)
				if args[target].Kind == BoolNamed {
					bound[target] = StaticParam(value.NewInteger(1))
					cursor++
					continue
				}
				if cursor+1 > pr {
					return st, Result{Status: Impossible, Message: "named argument " + name + " missing its value"}, true
				}
				if params[cursor+1].Kind == Spread {
					return st, Result{Status: Unpack}, true
				}
				bound[target] = params[cursor+1]
				cursor += 2
			}
			ai = end

		case Varargs:
			st.varargsIdx = idx
			if cursor <= pr {
				st.collected = append([]Param(nil), params[cursor:pr+1]...)
				cursor = pr + 1
			}
			ai++

		default:
			ai++
		}
	}
	st.next = cursor
	return st, Result{}, false
}

func finishBind(args []ArgSpec, bound map[int]Param) Result {
	varargsIdx := -1
	for i, a := range args {
		if _, ok := bound[i]; ok {
			continue
		}
		switch a.Kind {
		case Implicit:
			bound[i] = StaticParam(a.Default)
		case Pos:
			return Result{Status: Impossible, Message: "missing positional argument"}
		case PosDefault:
			bound[i] = StaticParam(a.Default)
		case Named:
			return Result{Status: Impossible, Message: "missing named argument " + a.Name}
		case NamedDefault:
			bound[i] = StaticParam(a.Default)
		case BoolNamed:
			bound[i] = StaticParam(value.NewInteger(0))
		case Empty:
			bound[i] = StaticParam(rtlist.Empty())
		case Varargs:
			varargsIdx = i
		}
	}
	return Result{Status: Bound, bound: bound, varargsIdx: varargsIdx}
}

// Materialize produces the argument array for a Bound result.
// Every consumed parameter must be Static (or, inside the varargs
// collection, Static or Spread); a Dynamic parameter still present means
// the caller materialized before its value was actually known.
func Materialize(spec FuncSpec, res Result) ([]value.Value, error) {
	if res.Status != Bound {
		return nil, value.NewUserError(value.ClassArgumentBind, "materialize called on a non-Bound result")
	}
	out := make([]value.Value, len(spec.Args))
	for i := range spec.Args {
		if i == res.varargsIdx {
			vals := make([]value.Value, 0, len(res.collected))
			for _, p := range res.collected {
				switch p.Kind {
				case Static:
					vals = append(vals, p.Value)
				case Spread:
					n := rtlist.Len(p.Value)
					for j := 0; j < n; j++ {
						vals = append(vals, rtlist.Index(p.Value, j))
					}
				default:
					return nil, value.NewUserError(value.ClassArgumentBind, "varargs parameter not fully known")
				}
			}
			out[i] = rtlist.Of(vals)
			continue
		}
		p, ok := res.bound[i]
		if !ok {
			return nil, value.NewUserError(value.ClassArgumentBind, "internal: argument left unbound")
		}
		if p.Kind != Static {
			return nil, value.NewUserError(value.ClassArgumentBind, "argument value not fully known")
		}
		out[i] = p.Value
	}
	return out, nil
}

// Explode replaces every Spread parameter with its list elements as
// Static parameters.
func Explode(params []Param) []Param {
	out := make([]Param, 0, len(params))
	for _, p := range params {
		if p.Kind != Spread {
			out = append(out, p)
			continue
		}
		n := rtlist.Len(p.Value)
		for i := 0; i < n; i++ {
			out = append(out, StaticParam(rtlist.Index(p.Value, i)))
		}
	}
	return out
}

// PartialApply replaces the first len(values) non-implicit argument
// specifications with implicit bindings.
func PartialApply(spec FuncSpec, values []value.Value) FuncSpec {
	args := append([]ArgSpec(nil), spec.Args...)
	count := 0
	for i := range args {
		if count >= len(values) {
			break
		}
		if args[i].Kind != Implicit {
			args[i] = ArgSpec{Marshal: args[i].Marshal, Kind: Implicit, Default: values[count]}
			count++
		}
	}
	return FuncSpec{Address: spec.Address, Convention: spec.Convention, Return: spec.Return, Args: args}
}
