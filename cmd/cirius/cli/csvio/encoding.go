package csvio

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeToUTF8 detects the encoding of raw table bytes, strips any BOM, and
// returns UTF-8. Detection order: UTF-8 BOM, UTF-16 LE/BE BOM, valid UTF-8
// pass-through, Latin-1 fallback. Legacy exports show up in all four.
func decodeToUTF8(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return data, nil
	}

	if bytes.HasPrefix(data, bomUTF8) {
		return data[len(bomUTF8):], nil
	}

	if bytes.HasPrefix(data, bomUTF16LE) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data[2:])
		if err != nil {
			return nil, fmt.Errorf("decode UTF-16 LE: %w", err)
		}
		return out, nil
	}

	if bytes.HasPrefix(data, bomUTF16BE) {
		dec := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()
		out, _, err := transform.Bytes(dec, data[2:])
		if err != nil {
			return nil, fmt.Errorf("decode UTF-16 BE: %w", err)
		}
		return out, nil
	}

	if utf8.Valid(data) {
		return data, nil
	}

	// Latin-1 maps every byte to the same code point, so this cannot fail
	// on any input.
	out, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), data)
	if err != nil {
		return nil, fmt.Errorf("decode Latin-1: %w", err)
	}
	return out, nil
}
