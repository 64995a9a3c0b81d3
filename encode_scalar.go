// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jbind

import "reflect"

// EncodeBool writes a Boolean under key. False is empty.
// It reports whether anything was written.
func (e *Encoder) EncodeBool(key Key, v bool, p Policy) (bool, error) {
	return e.encodeScalar(key, !v, p, func() { e.w.Bool(v) })
}

// EncodeString writes a string under key. The empty string is empty.
// It reports whether anything was written.
func (e *Encoder) EncodeString(key Key, v string, p Policy) (bool, error) {
	return e.encodeScalar(key, v == "", p, func() { e.w.StringValue(v) })
}

// EncodeNull writes null under key. Null is empty, so nothing is written if
// p is OmitEmpty. It reports whether anything was written.
func (e *Encoder) EncodeNull(key Key, p Policy) (bool, error) {
	return e.encodeScalar(key, true, p, e.w.Null)
}

// EncodeInt writes an integer under key in e. Zero is empty.
// It reports whether anything was written.
func EncodeInt[T Integer](e *Encoder, key Key, v T, p Policy) (bool, error) {
	return e.encodeScalar(key, v == 0, p, func() {
		if v < 0 {
			e.w.Int64(int64(v))
		} else {
			e.w.Uint64(uint64(v))
		}
	})
}

// EncodeFloat writes a floating-point value under key in e. Zero is empty.
// A float32 is written with the shortest representation that reads back as
// the same float32. It reports whether anything was written.
func EncodeFloat[T Float](e *Encoder, key Key, v T, p Policy) (bool, error) {
	return e.encodeScalar(key, v == 0, p, func() {
		if reflect.TypeFor[T]().Bits() == 32 {
			e.w.Float32(float32(v))
		} else {
			e.w.Float64(float64(v))
		}
	})
}

// encodeScalar applies the empty-value rules of p and, unless the value is
// omitted, writes key followed by the value.
func (e *Encoder) encodeScalar(key Key, empty bool, p Policy, write func()) (bool, error) {
	if err := e.Err(); err != nil {
		return false, err
	}
	if empty && p.OmitEmpty {
		return false, nil
	}
	e.writeKey(key)
	if empty && p.EmptyAsNull {
		e.w.Null()
	} else {
		write()
	}
	if err := e.Err(); err != nil {
		return false, err
	}
	return true, nil
}
