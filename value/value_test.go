package value

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIntegerRoundTrip(t *testing.T) {
	cases := []string{"0", "42", "-7", "0x2a", "0b101010", "0o52", "1_000_000", " 5 ", "true", "false"}
	for _, c := range cases {
		v, err := IntegerOf(c)
		require.NoError(t, err, c)
		require.True(t, IsInteger(v))
		// string round-trip: to_string(v) == to_string(from_string(to_string(v)))
		s := ToString(v)
		v2, err := IntegerOf(s)
		require.NoError(t, err)
		require.Equal(t, ToString(v), ToString(v2))
	}
}

func TestIntegerOfRejectsGarbage(t *testing.T) {
	_, err := IntegerOf("not-a-number")
	require.Error(t, err)
	var fe *FormatError
	require.ErrorAs(t, err, &fe)
}

func TestIntegerEqualAndHash(t *testing.T) {
	a := NewInteger(42)
	b := NewInteger(42)
	c := NewInteger(43)
	require.True(t, Equal(a, b))
	require.False(t, Equal(a, c))
	require.Equal(t, Hash(a), Hash(b))
}

func TestRealRoundTrip(t *testing.T) {
	v, err := RealOf("3.5")
	require.NoError(t, err)
	require.InDelta(t, 3.5, AsReal(v), 1e-9)

	v2, err := RealOf("3,5")
	require.NoError(t, err)
	require.InDelta(t, 3.5, AsReal(v2), 1e-9)

	v3, err := RealOf("42")
	require.NoError(t, err)
	require.InDelta(t, 42.0, AsReal(v3), 1e-9)
}

func TestFloorMod(t *testing.T) {
	cases := []struct{ a, b, want int64 }{
		{7, 3, 1},
		{-7, 3, 2},
		{7, -3, -2},
		{-7, -3, -1},
	}
	for _, c := range cases {
		got, err := FloorMod(c.a, c.b)
		require.NoError(t, err)
		require.Equal(t, c.want, got, "FloorMod(%d,%d)", c.a, c.b)
	}
	_, err := FloorMod(1, 0)
	require.Error(t, err)
	var ue *UserError
	require.ErrorAs(t, err, &ue)
	require.Equal(t, ClassDivByZero, ue.Class)
}

func TestPointerMarshalDescriptorRoundTrip(t *testing.T) {
	v := NewPointer("FILE", 0xdeadbeef, true)
	s := ToString(v)
	v2, err := PointerOf(s)
	require.NoError(t, err)
	require.Equal(t, PointerTypeTag(v), PointerTypeTag(v2))
	require.Equal(t, PointerAddress(v), PointerAddress(v2))
	require.Equal(t, PointerIsMutable(v), PointerIsMutable(v2))

	voidConst := NewPointer("", 0x1, false)
	require.Equal(t, "&:0x1", ToString(voidConst))
}

func TestChainIdentitySharedWithinKind(t *testing.T) {
	// Values of one concrete kind share a canonical chain; packed-list
	// compaction keys on this identity.
	require.Equal(t, ChainIDOf(NewInteger(42)), ChainIDOf(NewInteger(7)))
	require.Equal(t, ChainIDOf(NewReal(1.5)), ChainIDOf(NewReal(2.5)))
	require.Equal(t,
		ChainIDOf(NewPointer("FILE", 0x10, true)),
		ChainIDOf(NewPointer("sock", 0x20, false)))
	require.NotEqual(t, ChainIDOf(NewInteger(1)), ChainIDOf(NewReal(1)))
}

func TestWeightAndGetAttribute(t *testing.T) {
	v := NewInteger(5)
	require.Equal(t, 1, Weight(v))
	_, ok := GetAttribute(v, List)
	require.False(t, ok)
	_, ok = GetAttribute(v, Value_)
	require.True(t, ok)
}
