// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor navigates a tree of JSON values by paths of object keys and
// array offsets, and converts between paths and their text form.
package cursor

import (
	"fmt"

	"github.com/creachadair/jbind/value"
)

// Path follows path from v as Cursor.Down does, and returns the value found
// there if it has type T.
func Path[T value.Value](v value.Value, path ...any) (T, error) {
	var zero T
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return zero, err
	}
	got, ok := c.Value().(T)
	if !ok {
		return zero, fmt.Errorf("at %s: wrong value type %T", c, c.Value())
	}
	return got, nil
}

// A Cursor is a position within a value tree. It remembers each step taken
// from its origin, so it can move back up and can report where it is.
type Cursor struct {
	origin value.Value
	trail  []frame
	err    error
}

// A frame is one step of a cursor's trail: the key or index that was
// followed, and the value it led to.
type frame struct {
	step any // string, int, or nil for a function step
	v    value.Value
}

// New constructs a Cursor positioned at origin.
func New(origin value.Value) *Cursor { return &Cursor{origin: origin} }

// Origin returns the value c was constructed with.
func (c *Cursor) Origin() value.Value { return c.origin }

// AtOrigin reports whether c is positioned at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.trail) == 0 }

// Value returns the value at the current position of c.
func (c *Cursor) Value() value.Value {
	if n := len(c.trail); n != 0 {
		return c.trail[n-1].v
	}
	return c.origin
}

// Path returns the values from the origin to the current position of c,
// inclusive.
func (c *Cursor) Path() []value.Value {
	out := make([]value.Value, 0, len(c.trail)+1)
	out = append(out, c.origin)
	for _, f := range c.trail {
		out = append(out, f.v)
	}
	return out
}

// String renders the current position of c as a path expression, as
// FormatPath does. An index into an object is rendered as the key of the
// member it selected.
func (c *Cursor) String() string {
	steps := make([]any, len(c.trail))
	for i, f := range c.trail {
		steps[i] = f.step
	}
	return FormatPath(steps)
}

// Err reports the error from the most recent call to Down, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves c to the parent of its current position. At the origin it has no
// effect. It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.trail); n != 0 {
		c.trail = c.trail[:n-1]
	}
	return c
}

// Reset moves c back to its origin and clears its error.
func (c *Cursor) Reset() { c.trail, c.err = c.trail[:0], nil }

// Down follows path from the current position of c. It returns c to permit
// chaining. If a step cannot be taken, c stays at the last position it
// reached and Err reports why.
//
// Each element of path is one of:
//
//   - A string, the key of a member of the current object.
//   - An int, an offset into the current array or into the members of the
//     current object. A negative offset counts back from the end, so -1 is
//     the last element.
//   - A func(value.Value) (value.Value, error), whose result becomes the new
//     position. If it reports an error, that error is recorded.
//   - nil, which is skipped.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil
	for _, elt := range path {
		if err := c.step(elt); err != nil {
			c.err = err
			break
		}
	}
	return c
}

func (c *Cursor) step(elt any) error {
	cur := c.Value()
	switch t := elt.(type) {
	case nil:
		return nil

	case string:
		obj, ok := cur.(*value.Object)
		if !ok {
			return c.errorf("cannot traverse %v with %q", value.KindOf(cur), t)
		}
		v, ok := obj.Find(t)
		if !ok {
			return c.errorf("key %q not found", t)
		}
		c.push(t, v)

	case int:
		switch e := cur.(type) {
		case value.Array:
			i, ok := resolve(t, len(e))
			if !ok {
				return c.errorf("array index %d out of bounds (n=%d)", t, len(e))
			}
			c.push(i, e[i])
		case *value.Object:
			i, ok := resolve(t, e.Len())
			if !ok {
				return c.errorf("object index %d out of bounds (n=%d)", t, e.Len())
			}
			m := e.Member(i)
			c.push(m.Key, m.Value)
		default:
			return c.errorf("cannot traverse %v with %d", value.KindOf(cur), t)
		}

	case func(value.Value) (value.Value, error):
		next, err := t(cur)
		if err != nil {
			return err
		}
		c.push(nil, next)

	default:
		return c.errorf("invalid path element %T", elt)
	}
	return nil
}

func (c *Cursor) push(step any, v value.Value) { c.trail = append(c.trail, frame{step, v}) }

func (c *Cursor) errorf(msg string, args ...any) error {
	return fmt.Errorf("at %s: %s", c, fmt.Sprintf(msg, args...))
}

// resolve converts a possibly-negative offset into an index of a sequence of
// length n, and reports whether it is in range.
func resolve(i, n int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
