package rtlist

import (
	"github.com/joshuapare/avalanche-core/pvec"
	"github.com/joshuapare/avalanche-core/value"
)

// packedListRepr is the PV-backed variant. The first appended
// element becomes the template; per-element storage only exists for the
// fields (attribute-chain identity, payload word, heap ref) that some
// later element was observed to differ on — tracked by maskAttrs/maskWord/
// hasRef. A fully monomorphic packed-list (e.g. all-equal integers) stores
// nothing per element beyond its length.
type packedListRepr struct {
	n int

	template     value.ChainID
	templateWord uint64

	maskAttrs bool
	maskWord  bool
	hasRef    bool

	attrsTable []value.ChainID // distinct chain identities seen; index 0 is the template
	attrsIdx   pvec.Ref        // valid only if maskAttrs
	words      pvec.Ref        // valid only if maskWord
	refs       []any           // valid only if hasRef; dense, nil entries mean "no ref"
}

func (r *packedListRepr) length() int { return r.n }

func (r *packedListRepr) at(i int) value.Value {
	attrs := r.template
	if r.maskAttrs {
		idx := r.attrsIdx.At(i)
		attrs = r.attrsTable[int(idx)]
	}
	word := r.templateWord
	if r.maskWord {
		word = r.words.At(i)
	}
	var ref any
	if r.hasRef {
		ref = r.refs[i]
	}
	return value.FromParts(attrs, word, ref)
}

// perElementBytes reports the per-slot storage footprint implied by the
// current mask.
func (r *packedListRepr) perElementBytes() int {
	b := 0
	if r.maskWord {
		b += 8
	}
	if r.maskAttrs {
		b += 8
	}
	if r.hasRef {
		b += 8
	}
	return b
}

// buildPacked builds a packed-list from scratch by sequential append,
// which is how buildPacked, promotion from array-list, and every other
// rtlist mutation that needs a packed result all converge on the mask
// logic in appended.
func buildPacked(elems []value.Value) value.Value {
	r := &packedListRepr{}
	for _, e := range elems {
		r = r.appended(e).(*packedListRepr)
	}
	return wrap(r)
}

// appended returns a new packedListRepr with x appended, updating the
// polymorphism mask and backfilling prior elements' now-explicit fields
// when a mask bit newly sets.
func (r *packedListRepr) appended(x value.Value) repr {
	xAttrs := value.ChainIDOf(x)
	xWord := x.Word()
	xRef := x.Ref()

	if r.n == 0 {
		nr := &packedListRepr{
			n:            1,
			template:     xAttrs,
			templateWord: xWord,
		}
		if xRef != nil {
			nr.hasRef = true
			nr.refs = []any{xRef}
		}
		return nr
	}

	nr := &packedListRepr{
		n:            r.n + 1,
		template:     r.template,
		templateWord: r.templateWord,
		maskAttrs:    r.maskAttrs,
		maskWord:     r.maskWord,
		hasRef:       r.hasRef,
		attrsTable:   r.attrsTable,
		attrsIdx:     r.attrsIdx,
		words:        r.words,
	}

	switch {
	case xRef != nil && !r.hasRef:
		nr.hasRef = true
		nr.refs = append(make([]any, r.n), xRef) // prior elements carried no ref
	case r.hasRef:
		nr.hasRef = true
		nr.refs = append(append([]any(nil), r.refs...), xRef)
	default:
		nr.hasRef = false
		nr.refs = nil
	}

	if xAttrs != r.template && !nr.maskAttrs {
		nr.maskAttrs = true
		nr.attrsTable = []value.ChainID{r.template}
		nr.attrsIdx = newWordRef(make([]uint64, r.n)) // backfill: all prior elements were the template
	}
	if nr.maskAttrs {
		idx := attrsIndexOf(nr.attrsTable, xAttrs)
		if idx < 0 {
			nr.attrsTable = append(append([]value.ChainID(nil), nr.attrsTable...), xAttrs)
			idx = len(nr.attrsTable) - 1
		}
		nr.attrsIdx = nr.attrsIdx.Append([]uint64{uint64(idx)})
	}

	if xWord != r.templateWord && !nr.maskWord {
		nr.maskWord = true
		backfill := make([]uint64, r.n)
		for i := range backfill {
			backfill[i] = r.templateWord
		}
		nr.words = newWordRef(backfill)
	}
	if nr.maskWord {
		nr.words = nr.words.Append([]uint64{xWord})
	}

	return nr
}

func attrsIndexOf(table []value.ChainID, id value.ChainID) int {
	for i, t := range table {
		if t == id {
			return i
		}
	}
	return -1
}

// newWordRef builds a fresh PV handle seeded with init.
func newWordRef(init []uint64) pvec.Ref {
	h := pvec.NewHandle(len(init) + 4)
	return pvec.RefOf(h, 0).Append(init)
}

// shareTruncated returns a packedListRepr sharing this one's backing PV
// refs but reporting a shorter length, the zero-offset slice sharing
// shortcut; no data is copied.
func (r *packedListRepr) shareTruncated(newLen int) *packedListRepr {
	nr := *r
	nr.n = newLen
	if nr.maskAttrs {
		nr.attrsIdx = pvec.RefOf(refHandle(nr.attrsIdx), newLen)
	}
	if nr.maskWord {
		nr.words = pvec.RefOf(refHandle(nr.words), newLen)
	}
	if nr.hasRef {
		nr.refs = nr.refs[:newLen]
	}
	return &nr
}

// refHandle exposes the *pvec.Handle backing a Ref so packed-list slicing
// can build a shorter-length Ref over the same handle without copying.
func refHandle(r pvec.Ref) *pvec.Handle { return pvec.HandleOf(r) }
