package strval

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFromUTF16LERoundTrip(t *testing.T) {
	// "hi" encoded as UTF-16LE: h=0x0068, i=0x0069
	b := []byte{0x68, 0x00, 0x69, 0x00}
	v, err := FromUTF16LE(b)
	require.NoError(t, err)
	require.Equal(t, "hi", Materialize(v))
}

func TestFromUTF16LEStopsAtNULTerminator(t *testing.T) {
	b := []byte{0x68, 0x00, 0x69, 0x00, 0x00, 0x00, 0x78, 0x00}
	v, err := FromUTF16LE(b)
	require.NoError(t, err)
	require.Equal(t, "hi", Materialize(v))
}

func TestOfCStringStopsAtNUL(t *testing.T) {
	v := OfCString([]byte("hello\x00trailing"))
	require.Equal(t, "hello", Materialize(v))

	whole := OfCString([]byte("no-nul"))
	require.Equal(t, "no-nul", Materialize(whole))
}
