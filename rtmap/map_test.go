package rtmap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/avalanche-core/strval"
	"github.com/joshuapare/avalanche-core/value"
)

func TestMapAddFindDeleteRoundTrip(t *testing.T) {
	m := Empty()
	m = Add(m, strval.New("foo"), strval.New("bar"))
	m = Add(m, strval.New("baz"), strval.New("qux"))
	m = Add(m, strval.New("foo"), strval.New("xyzzy"))

	c1 := Find(m, strval.New("foo"))
	require.NotEqual(t, NoneCursor, c1)
	require.Equal(t, "bar", strval.Materialize(GetValue(m, c1)))

	c2 := Next(m, c1)
	require.NotEqual(t, NoneCursor, c2)
	require.Equal(t, "xyzzy", strval.Materialize(GetValue(m, c2)))

	require.Equal(t, NoneCursor, Next(m, c2))

	m2 := Delete(m, c1)
	c3 := Find(m2, strval.New("foo"))
	require.NotEqual(t, NoneCursor, c3)
	require.Equal(t, "xyzzy", strval.Materialize(GetValue(m2, c3)))
	require.Equal(t, 2, NPairs(m2))
}

func TestListMapPromotesToHashMap(t *testing.T) {
	m := Empty()
	for i := 0; i < 4; i++ {
		m = Add(m, value.NewInteger(int64(i)), value.NewInteger(int64(i*10)))
	}
	_, isListMap := m.Ref().(*listMapRepr)
	require.True(t, isListMap)

	m = Add(m, value.NewInteger(5), value.NewInteger(50))
	_, isHashMap := m.Ref().(*hashMapRepr)
	require.True(t, isHashMap)
}

func TestASCII9ModePromotesOnNonASCII9Key(t *testing.T) {
	m := Empty()
	for i := 0; i < 5; i++ {
		m = Add(m, strval.New("k"), value.NewInteger(int64(i)))
	}
	hm := m.Ref().(*hashMapRepr)
	require.True(t, hm.asciiMode)

	longKey := strval.New("this key is definitely longer than nine characters")
	m = Add(m, longKey, value.NewInteger(99))
	hm = m.Ref().(*hashMapRepr)
	require.False(t, hm.asciiMode)
}

func TestManyDeletesLeaveSurvivorsFindable(t *testing.T) {
	m := Empty()
	var cursors []Cursor
	for i := 0; i < 64; i++ {
		m = Add(m, value.NewInteger(int64(i)), value.NewInteger(int64(i)))
	}
	for i := 0; i < 64; i++ {
		cursors = append(cursors, Find(m, value.NewInteger(int64(i))))
	}
	for i := 0; i < 64; i++ {
		m = Delete(m, Find(m, value.NewInteger(int64(i))))
	}
	require.Equal(t, 0, NPairs(m))
	for i := 0; i < 64; i++ {
		require.Equal(t, NoneCursor, Find(m, value.NewInteger(int64(i))))
	}
}

func TestOfStringBuildsAlternatingPairs(t *testing.T) {
	m, err := OfString("foo bar baz qux")
	require.NoError(t, err)
	require.Equal(t, 2, NPairs(m))

	c := Find(m, strval.New("foo"))
	require.NotEqual(t, NoneCursor, c)
	require.Equal(t, "bar", strval.Materialize(GetValue(m, c)))

	_, err = OfString("foo bar dangling")
	require.Error(t, err)
	var fe *value.FormatError
	require.ErrorAs(t, err, &fe)
}

func TestMapOfPassesMapsThroughUnchanged(t *testing.T) {
	m := Add(Empty(), strval.New("k"), strval.New("v"))
	same, err := MapOf(m)
	require.NoError(t, err)
	require.True(t, value.Equal(m, same))

	fromString, err := MapOf(strval.New("a 1 b 2"))
	require.NoError(t, err)
	require.Equal(t, 2, NPairs(fromString))
}

func TestDeleteThenReadSurvivors(t *testing.T) {
	m := Empty()
	for i := 0; i < 40; i++ {
		m = Add(m, value.NewInteger(int64(i)), value.NewInteger(int64(i)))
	}
	for i := 0; i < 30; i++ {
		m = Delete(m, Find(m, value.NewInteger(int64(i))))
	}
	for i := 30; i < 40; i++ {
		c := Find(m, value.NewInteger(int64(i)))
		require.NotEqual(t, NoneCursor, c)
		require.Equal(t, int64(i), value.AsInteger(GetValue(m, c)))
	}
	require.Equal(t, 10, NPairs(m))
}
