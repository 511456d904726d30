package format

import (
	"bytes"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	ErrBinaryContent   = errors.New("binary content")
	ErrInvalidEncoding = errors.New("content is not valid UTF-16 text")
)

// binaryProbeSize bounds how much of a file is inspected for null bytes.
const binaryProbeSize = 512

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// IsBinaryContent reports whether data looks binary: a null byte within the
// first binaryProbeSize bytes.
func IsBinaryContent(data []byte) bool {
	probe := data
	if len(probe) > binaryProbeSize {
		probe = probe[:binaryProbeSize]
	}
	return bytes.IndexByte(probe, 0) >= 0
}

// DecodeText converts raw file bytes into a UTF-8 string.
// UTF-8 (with or without BOM) and BOM-prefixed UTF-16 are accepted; the BOM
// is stripped from the result. Other non-UTF-8 content is read as
// Windows-1252, so legacy files with stray smart quotes still come through.
func DecodeText(data []byte) (string, error) {
	var decoder *encoding.Decoder
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		data = data[len(bomUTF8):]
	case bytes.HasPrefix(data, bomUTF16LE):
		decoder = unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
	case bytes.HasPrefix(data, bomUTF16BE):
		decoder = unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
	}

	if decoder != nil {
		decoded, _, err := transform.Bytes(decoder, data)
		if err != nil {
			return "", errors.Join(ErrInvalidEncoding, err)
		}
		data = decoded
	}

	if IsBinaryContent(data) {
		return "", ErrBinaryContent
	}
	if !utf8.Valid(data) {
		return decodeLegacy(data), nil
	}
	return string(data), nil
}

// decodeLegacy decodes data as Windows-1252. Bytes the code page leaves
// undefined become U+FFFD.
func decodeLegacy(data []byte) string {
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return strings.ToValidUTF8(string(data), "\uFFFD")
	}
	return strings.ToValidUTF8(string(decoded), "\uFFFD")
}
