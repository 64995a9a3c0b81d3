// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package value defines an in-memory tree of JSON values, and a parser that
// constructs such trees from JSON source text.
//
// A Value is one of the concrete types Null, Bool, Int, Uint, Float, String,
// Array, or *Object. The kind of a node never changes once it is built.
// Objects preserve the order in which their members were added, and support
// lookup by key in constant time.
package value

import (
	"fmt"

	"github.com/creachadair/jbind/syntax"
)

// A Value is an arbitrary JSON value.
type Value interface {
	// Kind reports the kind of the value.
	Kind() Kind

	// JSON renders the value as compact JSON text.
	JSON() string
}

// Kind identifies the concrete type of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullKind Kind = iota
	BoolKind
	IntKind
	UintKind
	FloatKind
	StringKind
	ArrayKind
	ObjectKind
)

var kindStr = [...]string{
	NullKind:   "null",
	BoolKind:   "bool",
	IntKind:    "integer",
	UintKind:   "unsigned integer",
	FloatKind:  "number",
	StringKind: "string",
	ArrayKind:  "array",
	ObjectKind: "object",
}

func (k Kind) String() string {
	if int(k) < len(kindStr) {
		return kindStr[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// KindOf reports the kind of v. A nil Value has NullKind.
func KindOf(v Value) Kind {
	if v == nil {
		return NullKind
	}
	return v.Kind()
}

// Null represents the null constant.
type Null struct{}

// Kind satisfies the Value interface.
func (Null) Kind() Kind { return NullKind }

// JSON satisfies the Value interface.
func (Null) JSON() string { return "null" }

// A Bool is a Boolean constant, true or false.
type Bool bool

// Kind satisfies the Value interface.
func (Bool) Kind() Kind { return BoolKind }

// JSON satisfies the Value interface.
func (b Bool) JSON() string {
	if b {
		return "true"
	}
	return "false"
}

// An Int is a signed integer value.
type Int int64

// Kind satisfies the Value interface.
func (Int) Kind() Kind { return IntKind }

// JSON satisfies the Value interface.
func (z Int) JSON() string { return Format(z, syntax.Compact) }

// A Uint is an unsigned integer value too large to be represented by Int.
// Values that fit in an int64 are parsed as Int.
type Uint uint64

// Kind satisfies the Value interface.
func (Uint) Kind() Kind { return UintKind }

// JSON satisfies the Value interface.
func (u Uint) JSON() string { return Format(u, syntax.Compact) }

// A Float is a floating-point value.
type Float float64

// Kind satisfies the Value interface.
func (Float) Kind() Kind { return FloatKind }

// JSON satisfies the Value interface. Non-finite values are rendered as NaN,
// Infinity, or -Infinity.
func (f Float) JSON() string { return Format(f, syntax.Compact) }

// A String is a string value. The contents are unescaped.
type String string

// Kind satisfies the Value interface.
func (String) Kind() Kind { return StringKind }

// JSON satisfies the Value interface.
func (s String) JSON() string { return syntax.Quote(string(s)) }

// An Array is a sequence of values.
type Array []Value

// Kind satisfies the Value interface.
func (Array) Kind() Kind { return ArrayKind }

// JSON satisfies the Value interface.
func (a Array) JSON() string { return Format(a, syntax.Compact) }

// Len reports the number of elements in a.
func (a Array) Len() int { return len(a) }
