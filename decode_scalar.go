// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jbind

import (
	"math"
	"reflect"

	"github.com/creachadair/jbind/value"
)

// Integer is the set of integer types supported by DecodeInt and EncodeInt.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

// Float is the set of floating-point types supported by DecodeFloat and
// EncodeFloat.
type Float interface{ ~float32 | ~float64 }

// DecodeBool decodes a Boolean from the node selected by key into *dst.
// A Bool node is copied; an integer node decodes as true if it is nonzero.
// It reports whether *dst was written.
func (d *Decoder) DecodeBool(key Key, dst *bool, p Policy) (bool, error) {
	return decodeScalar(d, key, dst, p, convBool)
}

// DecodeString decodes a string from the node selected by key into *dst.
// Only a String node converts; numbers and other values are a mismatch.
// It reports whether *dst was written.
func (d *Decoder) DecodeString(key Key, dst *string, p Policy) (bool, error) {
	return decodeScalar(d, key, dst, p, convString)
}

// DecodeInt decodes an integer from the node selected by key in d into *dst.
// Only Int and Uint nodes whose value is in the range of T convert; a Float
// node or an out-of-range value is a mismatch.  It reports whether *dst was
// written.
func DecodeInt[T Integer](d *Decoder, key Key, dst *T, p Policy) (bool, error) {
	return decodeScalar(d, key, dst, p, convInt[T])
}

// DecodeFloat decodes a number from the node selected by key in d into *dst.
// Int, Uint, and Float nodes convert; a finite value outside the range of T
// is a mismatch. It reports whether *dst was written.
func DecodeFloat[T Float](d *Decoder, key Key, dst *T, p Policy) (bool, error) {
	return decodeScalar(d, key, dst, p, convFloat[T])
}

// decodeScalar applies the presence rules of p to the node selected by key,
// and if it is present converts it with conv.
func decodeScalar[T any](d *Decoder, key Key, dst *T, p Policy, conv func(value.Value) (T, bool)) (bool, error) {
	c, st, err := d.resolve(key, p)
	if err != nil {
		return false, err
	}
	switch st {
	case missing:
		return false, nil
	case null:
		if p.IgnoreNull {
			return false, nil
		}
		var zero T
		*dst = zero
		return true, nil
	}
	v, ok := conv(c.node)
	if !ok {
		return false, c.mismatch(reflect.TypeFor[T]())
	}
	*dst = v
	return true, nil
}

func convBool(v value.Value) (bool, bool) {
	switch t := v.(type) {
	case value.Bool:
		return bool(t), true
	case value.Int:
		return t != 0, true
	case value.Uint:
		return t != 0, true
	}
	return false, false
}

func convString(v value.Value) (string, bool) {
	s, ok := v.(value.String)
	return string(s), ok
}

func convInt[T Integer](v value.Value) (T, bool) {
	signed := T(0)-1 < 0
	switch t := v.(type) {
	case value.Int:
		i := int64(t)
		if i < 0 && !signed {
			return 0, false
		}
		out := T(i)
		if int64(out) != i {
			return 0, false
		}
		return out, true
	case value.Uint:
		u := uint64(t)
		out := T(u)
		if uint64(out) != u || (signed && out < 0) {
			return 0, false
		}
		return out, true
	}
	return 0, false
}

func convFloat[T Float](v value.Value) (T, bool) {
	f, ok := value.Number(v)
	if !ok {
		return 0, false
	}
	if reflect.TypeFor[T]().Bits() == 32 && !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
		return 0, false
	}
	return T(f), true
}
