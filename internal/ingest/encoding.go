package ingest

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Detected source encodings.
const (
	EncodingUTF8    = "utf-8"
	EncodingUTF8BOM = "utf-8-bom"
	EncodingUTF16LE = "utf-16le"
	EncodingUTF16BE = "utf-16be"
	EncodingGB18030 = "gb18030"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode converts data to UTF-8 and reports the encoding it was read as.
// Byte order marks select UTF-8 or UTF-16; input that is not valid UTF-8 is
// read as GB18030, the encoding spreadsheet tools commonly use for Chinese
// text.
func Decode(data []byte) ([]byte, string, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], EncodingUTF8BOM, nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decode(unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), data, EncodingUTF16LE)
	case bytes.HasPrefix(data, bomUTF16BE):
		return decode(unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), data, EncodingUTF16BE)
	case utf8.Valid(data):
		return data, EncodingUTF8, nil
	default:
		return decode(simplifiedchinese.GB18030, data, EncodingGB18030)
	}
}

func decode(enc encoding.Encoding, data []byte, name string) ([]byte, string, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrEncoding, name, err)
	}
	return out, name, nil
}
