package strval

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/avalanche-core/value"
)

func TestASCII9RoundTrip(t *testing.T) {
	for _, s := range []string{"", "a", "hello", "123456789"} {
		v := New(s)
		require.Equal(t, len(s) <= 9, v.Ref() == nil, "representation choice for %q", s)
		require.Equal(t, s, Materialize(v))
		require.Equal(t, len(s), Len(v))
	}
}

func TestRopeForLongStrings(t *testing.T) {
	s := "this string is definitely longer than nine characters"
	v := New(s)
	require.NotNil(t, v.Ref())
	require.Equal(t, s, Materialize(v))
}

func TestConcatAndSlice(t *testing.T) {
	a := New("hello ")
	b := New("world, this is a rope")
	c := Concat(a, b)
	require.Equal(t, "hello world, this is a rope", Materialize(c))

	sliced := Slice(c, 6, 11)
	require.Equal(t, "world", Materialize(sliced))

	// index(l,i) == index(slice(l,i,i+1),0), generalized to strings.
	for i := 0; i < Len(c); i++ {
		require.Equal(t, Index(c, i), Index(Slice(c, i, i+1), 0))
	}
}

func TestIterateChunksIsRestartable(t *testing.T) {
	a := Concat(New("abc"), New("defghijklmnop"))
	var first, second []byte
	for chunk := range IterateChunks(a) {
		first = append(first, chunk...)
	}
	for chunk := range IterateChunks(a) {
		second = append(second, chunk...)
	}
	require.Equal(t, first, second)
	require.Equal(t, Materialize(a), string(first))
}

func TestEscapeForListTiers(t *testing.T) {
	require.Equal(t, "foo", EscapeForList("foo"))
	require.Equal(t, "{baz quux}", EscapeForList("baz quux"))
	require.Equal(t, `"unbal{anced"`, EscapeForList("unbal{anced"))
	require.Equal(t, "{}", EscapeForList(""))

	withControl := EscapeForList("a\x01b")
	require.Equal(t, `\{a\;x01b\}`, withControl)
}

func TestTokenizeRoundTripsEscapeForList(t *testing.T) {
	elems := []string{"foo", "bar", "baz quux", "unbal{anced", "a\x01b"}
	escaped := make([]string, len(elems))
	for i, e := range elems {
		escaped[i] = EscapeForList(e)
	}
	joined := JoinNormalForm(escaped)
	toks, err := Tokenize(joined)
	require.NoError(t, err)
	require.Equal(t, elems, toks)
}

func TestTokenizeScenario(t *testing.T) {
	toks, err := Tokenize(`  foo  bar\{baz quux\}  `)
	require.NoError(t, err)
	require.Equal(t, []string{"foo", "bar", "baz quux"}, toks)
}

func TestHashStableForEqualStrings(t *testing.T) {
	v := New("hello")
	require.Equal(t, value.Hash(v), value.Hash(New("hello")))
}
