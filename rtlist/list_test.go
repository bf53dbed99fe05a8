package rtlist

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/avalanche-core/value"
)

func TestParseAndNormalize(t *testing.T) {
	l, err := OfString(`  foo  bar\{baz quux\}  `)
	require.NoError(t, err)
	require.Equal(t, 3, Len(l))
	require.Equal(t, "foo", value.ToString(Index(l, 0)))
	require.Equal(t, "bar", value.ToString(Index(l, 1)))
	require.Equal(t, "baz quux", value.ToString(Index(l, 2)))
	require.Equal(t, "foo bar {baz quux}", value.ToString(l))
}

func TestAppendIncreasesLengthAndTailsCorrectly(t *testing.T) {
	l := Empty()
	for i := int64(0); i < 20; i++ {
		l = Append(l, value.NewInteger(i))
	}
	require.Equal(t, 20, Len(l))
	require.Equal(t, int64(19), value.AsInteger(Index(l, 19)))
}

func TestSliceIndexRoundTrip(t *testing.T) {
	l := Of([]value.Value{value.NewInteger(1), value.NewInteger(2), value.NewInteger(3)})
	for i := 0; i < 3; i++ {
		require.True(t, value.Equal(Index(l, i), Index(Slice(l, i, i+1), 0)))
	}
}

func TestConcatSliceIdentity(t *testing.T) {
	l := Of([]value.Value{value.NewInteger(1), value.NewInteger(2), value.NewInteger(3), value.NewInteger(4)})
	a, b := 1, 3
	reassembled := Concat(Slice(l, 0, a), Concat(Slice(l, a, b), Slice(l, b, Len(l))))
	require.True(t, value.Equal(l, reassembled))
}

func TestPackedListPolymorphicPromotion(t *testing.T) {
	l := Of([]value.Value{value.NewInteger(42)})
	for i := 0; i < 255; i++ {
		l = Append(l, value.NewInteger(42))
	}
	require.Equal(t, 256, Len(l))
	pr := l.Ref().(*packedListRepr)
	require.Equal(t, 0, pr.perElementBytes())

	l = Set(l, 0, value.NewWithTrait(stringWordTraitForTest{}, 0, "hello"))
	require.Equal(t, 256, Len(l))
}

// stringWordTraitForTest is a minimal value trait used only to build a
// Value whose ref is non-nil without importing strval (would create an
// import cycle-free but unnecessary dependency for this single test).
type stringWordTraitForTest struct{}

func (stringWordTraitForTest) Tag() *value.Tag { return value.Value_ }
func (stringWordTraitForTest) ToString(v value.Value) string {
	return v.Ref().(string)
}
func (stringWordTraitForTest) HashOverride(value.Value) (uint64, bool)     { return 0, false }
func (stringWordTraitForTest) CompareOverride(value.Value, value.Value) (bool, bool) { return false, false }
func (stringWordTraitForTest) WeightHint(value.Value) int { return 1 }

func TestGroupAndFlattenInvert(t *testing.T) {
	l := Of([]value.Value{
		value.NewInteger(1), value.NewInteger(2), value.NewInteger(3),
		value.NewInteger(4), value.NewInteger(5),
	})
	g := Group(l, 2)
	require.Equal(t, 3, Len(g))
	require.Equal(t, 2, Len(Index(g, 0)))
	require.Equal(t, 1, Len(Index(g, 2)))

	flat := Flatten(g)
	require.Equal(t, Len(l), Len(flat))
	for i := 0; i < Len(l); i++ {
		require.True(t, value.Equal(Index(l, i), Index(flat, i)))
	}
}

func TestInterleaveDemuxInvert(t *testing.T) {
	a := Of([]value.Value{value.NewInteger(1), value.NewInteger(3), value.NewInteger(5)})
	b := Of([]value.Value{value.NewInteger(2), value.NewInteger(4), value.NewInteger(6)})
	il := Interleave([]value.Value{a, b})
	require.Equal(t, 6, Len(il))

	d0 := Demux(il, 0, 2)
	d1 := Demux(il, 1, 2)
	for i := 0; i < 3; i++ {
		require.True(t, value.Equal(Index(a, i), Index(d0, i)))
		require.True(t, value.Equal(Index(b, i), Index(d1, i)))
	}
}
