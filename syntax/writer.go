// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package syntax

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// A Layout describes the whitespace a Writer places between tokens.
type Layout struct {
	// Width is the number of IndentChar copies per nesting level.  If Width
	// is negative, the output is compact and has no insignificant whitespace.
	Width int

	// IndentChar is the character used for indentation; zero means space.
	IndentChar byte
}

// Compact is the layout with no insignificant whitespace.
var Compact = Layout{Width: -1}

// Indent returns an indented layout using width copies of ch per level.
func Indent(ch byte, width int) Layout { return Layout{Width: width, IndentChar: ch} }

// IsCompact reports whether l is a compact layout.
func (l Layout) IsCompact() bool { return l.Width < 0 }

// ErrNonFinite is reported by a Writer asked to write NaN or an infinity
// without AllowNaNInf.
var ErrNonFinite = errors.New("non-finite number")

// A Writer writes JSON text incrementally into a buffer, tracking the nesting
// of objects and arrays so that separators and indentation are placed
// correctly. Errors in usage, such as writing a value inside an object
// without a key, are sticky: the first error is recorded, and all later
// writes are ignored. Use Err to check for an error.
type Writer struct {
	buf    []byte
	indent []byte // one level of indentation; nil when compact
	pretty bool
	stk    []level
	done   bool // a complete top-level value has been written
	places int  // maximum decimal places for floats; < 0 means unlimited
	nonfin bool // allow NaN and infinities
	err    error
}

type level struct {
	object bool // true for an object, false for an array
	n      int  // number of complete elements or members
	key    bool // a key has been written and awaits its value
}

// NewWriter constructs a new empty Writer with the given layout.
func NewWriter(layout Layout) *Writer {
	w := &Writer{places: -1}
	if !layout.IsCompact() {
		ch := layout.IndentChar
		if ch == 0 {
			ch = ' '
		}
		w.pretty = true
		w.indent = bytes.Repeat([]byte{ch}, layout.Width)
	}
	return w
}

// SetMaxDecimalPlaces limits the number of digits written after the decimal
// point of each subsequent floating-point value. Extra digits are truncated
// and trailing zeroes removed, leaving at least one fractional digit.  A
// negative value removes the limit.
func (w *Writer) SetMaxDecimalPlaces(n int) { w.places = n }

// AllowNaNInf configures w to write (true) or reject (false) NaN and
// infinite values. When enabled they are written as NaN, Infinity, and
// -Infinity.
func (w *Writer) AllowNaNInf(ok bool) { w.nonfin = ok }

// Err reports the first error that occurred while writing, if any.
func (w *Writer) Err() error { return w.err }

// Depth reports the current nesting depth of w.
func (w *Writer) Depth() int { return len(w.stk) }

// InObject reports whether the innermost open container of w is an object.
func (w *Writer) InObject() bool { return len(w.stk) != 0 && w.stk[len(w.stk)-1].object }

// Complete reports whether w holds exactly one complete top-level value.
func (w *Writer) Complete() bool { return w.done && len(w.stk) == 0 }

// Bytes returns the text written so far. The slice is valid until the next
// write to w.
func (w *Writer) Bytes() []byte { return w.buf }

// String returns a copy of the text written so far.
func (w *Writer) String() string { return string(w.buf) }

// Reset discards all output and state, but preserves the configuration.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
	w.stk = w.stk[:0]
	w.done = false
	w.err = nil
}

// Key writes an object key. The innermost open container must be an object
// that is not already awaiting a value.
func (w *Writer) Key(key string) {
	if w.err != nil {
		return
	}
	top := w.top()
	if top == nil || !top.object {
		w.failf("key %q outside of an object", key)
		return
	} else if top.key {
		w.failf("key %q follows a key without a value", key)
		return
	}
	if top.n > 0 {
		w.buf = append(w.buf, ',')
	}
	w.newline()
	w.buf = AppendQuote(w.buf, key)
	w.buf = append(w.buf, ':')
	if w.pretty {
		w.buf = append(w.buf, ' ')
	}
	top.key = true
}

// BeginObject opens a new object.
func (w *Writer) BeginObject() {
	if w.beginValue() {
		w.buf = append(w.buf, '{')
		w.stk = append(w.stk, level{object: true})
	}
}

// EndObject closes the innermost open object.
func (w *Writer) EndObject() { w.end(true, '}') }

// BeginArray opens a new array.
func (w *Writer) BeginArray() {
	if w.beginValue() {
		w.buf = append(w.buf, '[')
		w.stk = append(w.stk, level{object: false})
	}
}

// EndArray closes the innermost open array.
func (w *Writer) EndArray() { w.end(false, ']') }

// Null writes a null constant.
func (w *Writer) Null() { w.scalar("null") }

// Bool writes a Boolean constant.
func (w *Writer) Bool(b bool) {
	if b {
		w.scalar("true")
	} else {
		w.scalar("false")
	}
}

// Int64 writes a signed integer.
func (w *Writer) Int64(z int64) {
	if w.beginValue() {
		w.buf = strconv.AppendInt(w.buf, z, 10)
		w.endValue()
	}
}

// Uint64 writes an unsigned integer.
func (w *Writer) Uint64(z uint64) {
	if w.beginValue() {
		w.buf = strconv.AppendUint(w.buf, z, 10)
		w.endValue()
	}
}

// Float64 writes a floating-point number. The output always contains a
// decimal point or an exponent, so that it reads back as a Number token.
func (w *Writer) Float64(f float64) {
	if w.err != nil {
		return
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if !w.nonfin {
			w.fail(fmt.Errorf("%w: %v", ErrNonFinite, f))
			return
		}
		switch {
		case math.IsNaN(f):
			w.scalar("NaN")
		case f > 0:
			w.scalar("Infinity")
		default:
			w.scalar("-Infinity")
		}
		return
	}
	if w.beginValue() {
		w.buf = AppendFloat(w.buf, f, 64, w.places)
		w.endValue()
	}
}

// Float32 writes a single-precision floating-point number, using the
// shortest representation that reads back as the same float32.
func (w *Writer) Float32(f float32) {
	if w.err != nil {
		return
	}
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		w.Float64(float64(f))
		return
	}
	if w.beginValue() {
		w.buf = AppendFloat(w.buf, float64(f), 32, w.places)
		w.endValue()
	}
}

// StringValue writes a string value, quoting and escaping it as necessary.
func (w *Writer) StringValue(s string) {
	if w.beginValue() {
		w.buf = AppendQuote(w.buf, s)
		w.endValue()
	}
}

// Raw writes text verbatim as a single value. The caller is responsible for
// ensuring text is a valid JSON value.
func (w *Writer) Raw(text []byte) {
	if w.beginValue() {
		w.buf = append(w.buf, text...)
		w.endValue()
	}
}

// AppendFloat appends a text representation of f to buf. The result is the
// shortest representation that reads back as f at the given bit size (32 or
// 64), switching to exponent form
// for very large or very small magnitudes, and always includes a decimal
// point or an exponent. If places >= 0, digits after the decimal point
// beyond places are truncated and trailing zeroes removed, keeping at least
// one fractional digit.
func AppendFloat(buf []byte, f float64, bits, places int) []byte {
	abs := math.Abs(f)
	if abs >= 1e21 || (abs != 0 && abs < 1e-6 && places < 0) {
		buf = strconv.AppendFloat(buf, f, 'e', -1, bits)

		// Clean up e-09 to e-9, as encoding/json does.
		if n := len(buf); n >= 4 && buf[len(buf)-4] == 'e' && buf[len(buf)-3] == '-' && buf[len(buf)-2] == '0' {
			buf[len(buf)-2] = buf[len(buf)-1]
			buf = buf[:len(buf)-1]
		}
		return buf
	}

	start := len(buf)
	buf = strconv.AppendFloat(buf, f, 'f', -1, bits)
	dot := bytes.IndexByte(buf[start:], '.')
	if dot < 0 {
		return append(buf, '.', '0')
	}
	if places < 0 {
		return buf
	}
	dot += start
	end := dot + 1 + max(places, 1)
	if end < len(buf) {
		buf = buf[:end]
	}
	for len(buf) > dot+2 && buf[len(buf)-1] == '0' {
		buf = buf[:len(buf)-1]
	}
	return buf
}

func (w *Writer) top() *level {
	if len(w.stk) == 0 {
		return nil
	}
	return &w.stk[len(w.stk)-1]
}

// beginValue prepares to write a value, emitting any separator and
// indentation required. It reports false if the value must not be written.
func (w *Writer) beginValue() bool {
	if w.err != nil {
		return false
	}
	top := w.top()
	switch {
	case top == nil:
		if w.done {
			w.failf("multiple top-level values")
			return false
		}
	case top.object:
		if !top.key {
			w.failf("value without a key in an object")
			return false
		}
	default:
		if top.n > 0 {
			w.buf = append(w.buf, ',')
		}
		w.newline()
	}
	return true
}

// endValue records the completion of a value in the current container.
func (w *Writer) endValue() {
	top := w.top()
	if top == nil {
		w.done = true
		return
	}
	top.key = false
	top.n++
}

func (w *Writer) scalar(text string) {
	if w.beginValue() {
		w.buf = append(w.buf, text...)
		w.endValue()
	}
}

func (w *Writer) end(object bool, close byte) {
	if w.err != nil {
		return
	}
	top := w.top()
	if top == nil || top.object != object {
		w.failf("unbalanced %q", close)
		return
	} else if top.key {
		w.failf("%q after a key without a value", close)
		return
	}
	n := top.n
	w.stk = w.stk[:len(w.stk)-1]
	if n > 0 {
		w.newline()
	}
	w.buf = append(w.buf, close)
	w.endValue()
}

// newline starts a new line indented to the current depth, if w is pretty.
func (w *Writer) newline() {
	if !w.pretty {
		return
	}
	w.buf = append(w.buf, '\n')
	for range len(w.stk) {
		w.buf = append(w.buf, w.indent...)
	}
}

func (w *Writer) fail(err error) {
	if w.err == nil {
		w.err = err
	}
}

func (w *Writer) failf(msg string, args ...any) { w.fail(fmt.Errorf(msg, args...)) }
