// Package escape converts between JSON string escape sequences and literal
// text.  It operates on raw bytes and is independent of the rest of the
// engine: the tokenizer hands out still-escaped string payloads, and these
// functions decode them on demand.
package escape

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

var (
	ErrTrailingBackslash = errors.New("lone backslash at end of input")
	ErrUnknownEscape     = errors.New("unknown escape sequence")
	ErrBadUnicodeEscape  = errors.New("malformed \\u escape")
)

// decodeByte maps the letter of a two-character escape to the byte it
// denotes; zero marks letters handled elsewhere ('u') or invalid ones.
var decodeByte = [256]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

// encodeByte maps a byte requiring escaping to its escape letter.
var encodeByte = [256]byte{
	'"':  '"',
	'\\': '\\',
	'/':  '/',
	'\b': 'b',
	'\f': 'f',
	'\n': 'n',
	'\r': 'r',
	'\t': 't',
}

// Unescape returns src with all escape sequences decoded.  When src
// contains no backslash the input slice is returned as is.
func Unescape(src []byte) ([]byte, error) {
	if bytes.IndexByte(src, '\\') < 0 {
		return src, nil
	}
	return AppendUnescape(make([]byte, 0, len(src)), src)
}

// AppendUnescape appends the decoded form of src to dst and returns the
// extended buffer.
func AppendUnescape(dst, src []byte) ([]byte, error) {
	err := UnescapeTo(src, func(chunk []byte) error {
		dst = append(dst, chunk...)
		return nil
	})
	return dst, err
}

// UnescapeTo streams the decoded form of src to emit in chunks, avoiding
// any intermediate buffer beyond a few bytes for multi-byte code points.
func UnescapeTo(src []byte, emit func([]byte) error) error {
	for len(src) > 0 {
		n := bytes.IndexByte(src, '\\')
		if n < 0 {
			return emit(src)
		}
		if n > 0 {
			if err := emit(src[:n]); err != nil {
				return err
			}
		}
		src = src[n+1:]
		if len(src) == 0 {
			return ErrTrailingBackslash
		}
		c := src[0]
		if c == 'u' {
			r, rest, err := decodeUnicodeEscape(src[1:])
			if err != nil {
				return err
			}
			var buf [utf8.UTFMax]byte
			if err := emit(buf[:utf8.EncodeRune(buf[:], r)]); err != nil {
				return err
			}
			src = rest
			continue
		}
		d := decodeByte[c]
		if d == 0 {
			return fmt.Errorf("%w: \\%c", ErrUnknownEscape, c)
		}
		if err := emit([]byte{d}); err != nil {
			return err
		}
		src = src[1:]
	}
	return nil
}

// Check validates every escape sequence in src without decoding anything.
// It accepts exactly the inputs Unescape decodes.
func Check(src []byte) error {
	for {
		n := bytes.IndexByte(src, '\\')
		if n < 0 {
			return nil
		}
		src = src[n+1:]
		if len(src) == 0 {
			return ErrTrailingBackslash
		}
		c := src[0]
		if c == 'u' {
			if _, ok := hex4(src[1:]); !ok {
				return ErrBadUnicodeEscape
			}
			src = src[5:]
			continue
		}
		if decodeByte[c] == 0 {
			return fmt.Errorf("%w: \\%c", ErrUnknownEscape, c)
		}
		src = src[1:]
	}
}

// decodeUnicodeEscape consumes the XXXX of a \uXXXX escape (the "\u" is
// already gone) and, for a high surrogate followed by a low surrogate
// escape, the whole pair.
func decodeUnicodeEscape(src []byte) (rune, []byte, error) {
	r, ok := hex4(src)
	if !ok {
		return 0, nil, ErrBadUnicodeEscape
	}
	src = src[4:]
	if !utf16.IsSurrogate(r) {
		return r, src, nil
	}
	if len(src) >= 6 && src[0] == '\\' && src[1] == 'u' {
		if r2, ok := hex4(src[2:]); ok {
			if paired := utf16.DecodeRune(r, r2); paired != utf8.RuneError {
				return paired, src[6:], nil
			}
		}
	}
	// A lone surrogate has no UTF-8 form; EncodeRune turns it into the
	// replacement character.
	return r, src, nil
}

func hex4(src []byte) (rune, bool) {
	if len(src) < 4 {
		return 0, false
	}
	var r rune
	for i := 0; i < 4; i++ {
		c := src[i]
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}

// Needed reports whether src contains any byte that Escape would rewrite.
func Needed(src []byte) bool {
	for _, c := range src {
		if encodeByte[c] != 0 {
			return true
		}
	}
	return false
}

// Escape returns src with every byte needing escaping replaced by its
// two-character escape form.  When nothing needs escaping the input slice
// is returned as is.
func Escape(src []byte) []byte {
	if !Needed(src) {
		return src
	}
	return AppendEscape(make([]byte, 0, len(src)+8), src)
}

// AppendEscape appends the escaped form of src to dst and returns the
// extended buffer.
func AppendEscape(dst, src []byte) []byte {
	_ = EscapeTo(src, func(chunk []byte) error {
		dst = append(dst, chunk...)
		return nil
	})
	return dst
}

// EscapeTo streams the escaped form of src to emit in chunks.
func EscapeTo(src []byte, emit func([]byte) error) error {
	start := 0
	for i := 0; i < len(src); i++ {
		e := encodeByte[src[i]]
		if e == 0 {
			continue
		}
		if i > start {
			if err := emit(src[start:i]); err != nil {
				return err
			}
		}
		if err := emit([]byte{'\\', e}); err != nil {
			return err
		}
		start = i + 1
	}
	if start < len(src) {
		return emit(src[start:])
	}
	return nil
}
