// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package escape handles quoting and unquoting of JSON strings.
package escape

import (
	"errors"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// simpleEsc maps the byte after a backslash to the byte it denotes, for the
// escapes that are not \u.
var simpleEsc = [...]byte{
	'"': '"', '\\': '\\', '/': '/',
	'b': '\b', 'f': '\f', 'n': '\n', 'r': '\r', 't': '\t',
}

// Unquote decodes the contents of a JSON string, without its enclosing
// quotation marks, replacing each escape sequence by what it denotes.
//
// A \u escape with invalid hex digits, an unpaired surrogate, or an unknown
// escape letter decodes as the Unicode replacement rune. An escape cut off
// by the end of src is an error.
func Unquote(src mem.RO) ([]byte, error) {
	out := make([]byte, 0, src.Len())
	for {
		i := mem.IndexByte(src, '\\')
		if i < 0 {
			return mem.Append(out, src), nil
		}
		out = mem.Append(out, src.SliceTo(i))
		src = src.SliceFrom(i + 1)
		if src.Len() == 0 {
			return nil, errors.New("incomplete escape sequence")
		}

		c := src.At(0)
		if c != 'u' {
			if int(c) < len(simpleEsc) && simpleEsc[c] != 0 {
				out = append(out, simpleEsc[c])
				src = src.SliceFrom(1)
			} else {
				// Skip the whole rune, which may be multi-byte.
				_, n := mem.DecodeRune(src)
				out = utf8.AppendRune(out, utf8.RuneError)
				src = src.SliceFrom(max(n, 1))
			}
			continue
		}

		r, ok := hex4(src.SliceFrom(1))
		if !ok {
			if src.Len() < 5 {
				return nil, errors.New("incomplete Unicode escape")
			}
			out = utf8.AppendRune(out, utf8.RuneError)
			src = src.SliceFrom(5)
			continue
		}
		src = src.SliceFrom(5)

		// A high surrogate combines with an immediately following \u low
		// surrogate into a single rune.
		if utf16.IsSurrogate(r) && src.Len() >= 6 && src.At(0) == '\\' && src.At(1) == 'u' {
			if lo, ok := hex4(src.SliceFrom(2)); ok {
				if pair := utf16.DecodeRune(r, lo); pair != utf8.RuneError {
					r = pair
					src = src.SliceFrom(6)
				}
			}
		}
		out = utf8.AppendRune(out, r)
	}
}

// hex4 decodes the four hexadecimal digits at the front of src.  It reports
// false if src is too short or any of the digits is invalid.
func hex4(src mem.RO) (rune, bool) {
	if src.Len() < 4 {
		return 0, false
	}
	var v rune
	for i := range 4 {
		b := src.At(i)
		switch {
		case '0' <= b && b <= '9':
			b -= '0'
		case 'a' <= b && b <= 'f':
			b -= 'a' - 10
		case 'A' <= b && b <= 'F':
			b -= 'A' - 10
		default:
			return 0, false
		}
		v = v<<4 | rune(b)
	}
	return v, true
}
