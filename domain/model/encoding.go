package model

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// encodingGuessMin is the minimum number of bytes that the detection
// heuristics consider reliable. Shorter inputs are still inspected, but only
// when their length is consistent with the candidate encoding's unit size.
const encodingGuessMin = 16

// EncodingIsAuto reports whether name requests best-effort encoding
// detection rather than naming a concrete character encoding.
func EncodingIsAuto(name string) bool {
	switch strings.ToLower(name) {
	case "", "auto", "locale", "auto,locale":
		return true
	}
	return strings.HasPrefix(strings.ToLower(name), "auto,")
}

// encodingFallback returns the concrete encoding to fall back to when
// detection over the raw bytes is inconclusive. "auto,NAME" requests NAME;
// everything else degrades to UTF-8.
func encodingFallback(name string) string {
	lower := strings.ToLower(name)
	if strings.HasPrefix(lower, "auto,") && lower != "auto,locale" {
		return name[len("auto,"):]
	}
	return "UTF-8"
}

// GuessEncoding examines the leading raw bytes of a file and returns the
// name of the most plausible character encoding. It never fails: when the
// heuristics are inconclusive it returns fallback.
//
// The heuristics, in order: byte order marks, UTF-32 plausibility, UTF-16
// null-byte distribution, and finally UTF-8 validity.
func GuessEncoding(data []byte, fallback string) string {
	if len(data) == 0 {
		return fallback
	}

	switch {
	case bytes.HasPrefix(data, []byte{0xef, 0xbb, 0xbf}):
		return "UTF-8"
	case bytes.HasPrefix(data, []byte{0xff, 0xfe, 0x00, 0x00}):
		return "UTF-32LE"
	case bytes.HasPrefix(data, []byte{0x00, 0x00, 0xfe, 0xff}):
		return "UTF-32BE"
	case bytes.HasPrefix(data, []byte{0xff, 0xfe}):
		return "UTF-16LE"
	case bytes.HasPrefix(data, []byte{0xfe, 0xff}):
		return "UTF-16BE"
	}

	if name := guessUTF16(data); name != "" {
		return name
	}

	if validUTF8Prefix(data) {
		return "UTF-8"
	}
	return fallback
}

// guessUTF16 detects BOM-less UTF-16 from the distribution of null bytes:
// ASCII-heavy UTF-16 text has nulls in every other position. A double null
// is taken as evidence of binary data instead.
func guessUTF16(data []byte) string {
	if len(data) < encodingGuessMin && len(data)%2 != 0 {
		return ""
	}

	var evenNulls, oddNulls int
	for i := 0; i+1 < len(data); i += 2 {
		if data[i] == 0 && data[i+1] == 0 {
			return ""
		}
		if data[i] == 0 {
			evenNulls++
		}
		if data[i+1] == 0 {
			oddNulls++
		}
	}

	switch {
	case oddNulls > evenNulls:
		return "UTF-16LE"
	case evenNulls > 0:
		return "UTF-16BE"
	}
	return ""
}

// validUTF8Prefix reports whether data is valid UTF-8, tolerating a rune
// truncated by the sampling boundary at the very end.
func validUTF8Prefix(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			// Incomplete trailing sequence is fine; a bad byte is not.
			return len(data) < utf8.UTFMax && !utf8.FullRune(data)
		}
		data = data[size:]
	}
	return true
}

// decoderFor resolves an encoding name to a decoder producing UTF-8.
// Bytes that cannot be decoded are replaced with U+FFFD rather than
// failing, so a wrong-but-plausible encoding still yields usable text.
func decoderFor(name string) (*encoding.Decoder, error) {
	switch strings.ToUpper(name) {
	case "UTF-8", "UTF8":
		return unicode.UTF8.NewDecoder(), nil
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), nil
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), nil
	case "UTF-32LE":
		return utf32.UTF32(utf32.LittleEndian, utf32.UseBOM).NewDecoder(), nil
	case "UTF-32BE":
		return utf32.UTF32(utf32.BigEndian, utf32.UseBOM).NewDecoder(), nil
	}

	enc, err := htmlindex.Get(name)
	if err != nil {
		return nil, ErrUnknownEncoding
	}
	return enc.NewDecoder(), nil
}
