package strval

import (
	"iter"

	"github.com/joshuapare/avalanche-core/value"
)

// ropeNode is either a leaf (a contiguous, immutable byte buffer) or a
// concatenation of two subtrees. Concatenation is O(1): it
// just allocates one new node. Materialization is linear in total length.
type ropeNode struct {
	length int
	depth  int
	leaf   []byte
	left   *ropeNode
	right  *ropeNode
}

func newLeaf(b []byte) *ropeNode {
	return &ropeNode{length: len(b), depth: 0, leaf: b}
}

func newConcat(left, right *ropeNode) *ropeNode {
	if left.length == 0 {
		return right
	}
	if right.length == 0 {
		return left
	}
	d := left.depth
	if right.depth > d {
		d = right.depth
	}
	return &ropeNode{length: left.length + right.length, depth: d + 1, left: left, right: right}
}

func ropeOf(v value.Value) *ropeNode {
	return v.Ref().(*ropeNode)
}

// Len returns the length of s in bytes.
func Len(s value.Value) int {
	if s.Ref() == nil {
		return len(unpackASCII9(s.Word()))
	}
	return ropeOf(s).length
}

// Index returns the byte at position i.
func Index(s value.Value, i int) byte {
	if s.Ref() == nil {
		return unpackASCII9(s.Word())[i]
	}
	n := ropeOf(s)
	for {
		if n.leaf != nil {
			return n.leaf[i]
		}
		if i < n.left.length {
			n = n.left
		} else {
			i -= n.left.length
			n = n.right
		}
	}
}

// Slice returns s[lo:hi] as a new string Value.
func Slice(s value.Value, lo, hi int) value.Value {
	if lo < 0 || hi < lo || hi > Len(s) {
		panic("strval: slice out of bounds")
	}
	if s.Ref() == nil {
		return New(unpackASCII9(s.Word())[lo:hi])
	}
	sliced := sliceRope(ropeOf(s), lo, hi)
	if sliced == nil {
		return New("")
	}
	return fromRope(sliced)
}

func sliceRope(n *ropeNode, lo, hi int) *ropeNode {
	if lo >= hi {
		return nil
	}
	if n.leaf != nil {
		return newLeaf(n.leaf[lo:hi])
	}
	ll := n.left.length
	switch {
	case hi <= ll:
		return sliceRope(n.left, lo, hi)
	case lo >= ll:
		return sliceRope(n.right, lo-ll, hi-ll)
	default:
		return newConcat(sliceRope(n.left, lo, ll), sliceRope(n.right, 0, hi-ll))
	}
}

// Concat returns s ++ t as a new string Value; O(1) when either operand is
// already a rope.
func Concat(s, t value.Value) value.Value {
	if Len(s) == 0 {
		return t
	}
	if Len(t) == 0 {
		return s
	}
	ls, lt := Len(s), Len(t)
	if ls+lt <= ascii9MaxChars && s.Ref() == nil && t.Ref() == nil {
		return New(unpackASCII9(s.Word()) + unpackASCII9(t.Word()))
	}
	return fromRope(newConcat(toRopeNode(s), toRopeNode(t)))
}

func toRopeNode(s value.Value) *ropeNode {
	if s.Ref() == nil {
		return newLeaf([]byte(unpackASCII9(s.Word())))
	}
	return ropeOf(s)
}

func fromRope(n *ropeNode) value.Value {
	return value.NewWithTrait(stringTraitSingleton, 0, n)
}

// BytesOf returns the full byte content of s.
func BytesOf(s value.Value) []byte {
	if s.Ref() == nil {
		return []byte(unpackASCII9(s.Word()))
	}
	out := make([]byte, 0, Len(s))
	for chunk := range IterateChunks(s) {
		out = append(out, chunk...)
	}
	return out
}

// Materialize returns the full string content of s.
func Materialize(s value.Value) string {
	if s.Ref() == nil {
		return unpackASCII9(s.Word())
	}
	return string(BytesOf(s))
}

// IterateChunks produces a restartable sequence of contiguous byte spans
// whose concatenation equals s. Each call to the returned
// sequence walks the rope fresh, so it may be ranged over any number of
// times.
func IterateChunks(s value.Value) iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		if s.Ref() == nil {
			yield([]byte(unpackASCII9(s.Word())))
			return
		}
		walkChunks(ropeOf(s), yield)
	}
}

func walkChunks(n *ropeNode, yield func([]byte) bool) bool {
	if n == nil || n.length == 0 {
		return true
	}
	if n.leaf != nil {
		return yield(n.leaf)
	}
	if !walkChunks(n.left, yield) {
		return false
	}
	return walkChunks(n.right, yield)
}
