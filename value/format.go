// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"fmt"

	"github.com/creachadair/jbind/syntax"
)

// Write writes the JSON encoding of v to w. Any error is recorded by w; use
// w.Err to check for it. A nil Value is written as null.
func Write(w *syntax.Writer, v Value) {
	switch t := v.(type) {
	case nil, Null:
		w.Null()
	case Bool:
		w.Bool(bool(t))
	case Int:
		w.Int64(int64(t))
	case Uint:
		w.Uint64(uint64(t))
	case Float:
		w.Float64(float64(t))
	case String:
		w.StringValue(string(t))
	case Array:
		w.BeginArray()
		for _, elt := range t {
			Write(w, elt)
		}
		w.EndArray()
	case *Object:
		w.BeginObject()
		for key, val := range t.All() {
			w.Key(key)
			Write(w, val)
		}
		w.EndObject()
	default:
		panic(fmt.Sprintf("value: unknown value type %T", v))
	}
}

// Format renders v as JSON text in the given layout. Non-finite numbers are
// rendered as NaN, Infinity, and -Infinity.
func Format(v Value, layout syntax.Layout) string {
	w := syntax.NewWriter(layout)
	w.AllowNaNInf(true)
	Write(w, v)
	if err := w.Err(); err != nil {
		panic(fmt.Sprintf("value: format: %v", err)) // unreachable for a well-formed tree
	}
	return w.String()
}
