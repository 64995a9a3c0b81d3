// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jbind

import "github.com/creachadair/jbind/syntax"

// EncodeOptions control the output of an Encoder. A nil *EncodeOptions
// provides default values as described.
type EncodeOptions struct {
	// If Indent > 0, the output is indented by this many copies of
	// IndentChar per nesting level, with each element on its own line.
	// Otherwise, the output is compact.
	Indent int

	// IndentChar is the character used for indentation (default space).
	IndentChar byte

	// If MaxDecimalPlaces > 0, floating-point values are written with at most
	// this many digits after the decimal point. See also SetMaxDecimalPlaces.
	MaxDecimalPlaces int

	// If true, NaN and infinite values are written as NaN, Infinity, and
	// -Infinity. Otherwise, writing them is an error.
	AllowNaNInf bool
}

func (o *EncodeOptions) layout() syntax.Layout {
	if o == nil || o.Indent <= 0 {
		return syntax.Compact
	}
	return syntax.Indent(o.IndentChar, o.Indent)
}

// An Encoder writes JSON text incrementally. Objects and arrays are opened
// and closed with the Begin and End methods, and values are written inside
// them with the encode methods.
//
// Errors are sticky: after the first error, further writes have no effect
// and report the same error. The output up to the point of failure remains
// available from Bytes and String.
//
// An Encoder is not safe for concurrent use by multiple goroutines.
type Encoder struct {
	w   *syntax.Writer
	err error
}

// NewEncoder constructs a new empty Encoder with the given options.
func NewEncoder(opts *EncodeOptions) *Encoder {
	w := syntax.NewWriter(opts.layout())
	if opts != nil {
		if opts.MaxDecimalPlaces > 0 {
			w.SetMaxDecimalPlaces(opts.MaxDecimalPlaces)
		}
		w.AllowNaNInf(opts.AllowNaNInf)
	}
	return &Encoder{w: w}
}

// SetMaxDecimalPlaces limits the number of digits after the decimal point of
// each floating-point value written after it is called. Extra digits are
// truncated, not rounded. A negative value removes the limit.
func (e *Encoder) SetMaxDecimalPlaces(n int) { e.w.SetMaxDecimalPlaces(n) }

// Err reports the first error that occurred while encoding, if any.
func (e *Encoder) Err() error {
	if e.err != nil {
		return e.err
	}
	return e.w.Err()
}

// Bytes returns the text written so far. The slice is valid until the next
// write to e.
func (e *Encoder) Bytes() []byte { return e.w.Bytes() }

// String returns a copy of the text written so far.
func (e *Encoder) String() string { return e.w.String() }

// Complete reports whether e holds exactly one complete top-level value.
func (e *Encoder) Complete() bool { return e.w.Complete() }

// Reset discards the output and any error, but preserves the options.
func (e *Encoder) Reset() { e.w.Reset(); e.err = nil }

// ObjectBegin writes key, if any, and opens a new object.
func (e *Encoder) ObjectBegin(key Key) error {
	e.writeKey(key)
	e.w.BeginObject()
	return e.Err()
}

// ObjectEnd closes the innermost open object.
func (e *Encoder) ObjectEnd() error {
	e.w.EndObject()
	return e.Err()
}

// ArrayBegin writes key, if any, and opens a new array.
func (e *Encoder) ArrayBegin(key Key) error {
	e.writeKey(key)
	e.w.BeginArray()
	return e.Err()
}

// ArrayEnd closes the innermost open array.
func (e *Encoder) ArrayEnd() error {
	e.w.EndArray()
	return e.Err()
}

// writeKey writes key to the output, unless it is Self or has an empty name.
func (e *Encoder) writeKey(key Key) {
	if key.force || (key.named && key.name != "") {
		e.w.Key(key.name)
	}
}

// setError records err as the error for e, if there is not one already.
func (e *Encoder) setError(err error) {
	if e.err == nil && e.w.Err() == nil {
		e.err = err
	}
}
