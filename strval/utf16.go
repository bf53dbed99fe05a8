package strval

import (
	"golang.org/x/text/encoding/unicode"

	"github.com/joshuapare/avalanche-core/internal/buf"
	"github.com/joshuapare/avalanche-core/value"
)

// FromUTF16LE builds a string Value from raw UTF-16LE bytes, the form a
// host environment's native string APIs hand back. Host APIs commonly
// include the trailing UTF-16 NUL unit; decoding stops there. The decoded
// UTF-8 bytes are then packed the same way OfBytes would: ASCII9 when
// they fit, a rope leaf otherwise.
func FromUTF16LE(b []byte) (value.Value, error) {
	for off := 0; buf.Has(b, off, 2); off += 2 {
		if buf.U16LE(b[off:]) == 0 {
			b = b[:off]
			break
		}
	}
	utf8, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return value.Value{}, err
	}
	return OfBytes(utf8), nil
}
