// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package query

import "github.com/creachadair/jbind/value"

// Exists returns a selection that reports whether its argument satisfies the
// path query given by keys, which have the same constraints as Path.
func Exists(keys ...any) Selection {
	q := Path(keys...)
	return func(v value.Value) bool {
		_, err := q.eval(v)
		return err == nil
	}
}

// Is returns a selection that reports whether its argument has type T.
func Is[T value.Value]() Selection {
	return func(v value.Value) bool { _, ok := v.(T); return ok }
}

// Map constructs a mapping from f. Values whose type is not T are returned
// unmodified.
func Map[T, U value.Value](f func(T) U) Mapping {
	return func(v value.Value) value.Value {
		if w, ok := v.(T); ok {
			return f(w)
		}
		return v
	}
}

// Filter constructs a selection from f. Values whose type is not T are
// discarded.
func Filter[T value.Value](f func(T) bool) Selection {
	return func(v value.Value) bool { w, ok := v.(T); return ok && f(w) }
}
