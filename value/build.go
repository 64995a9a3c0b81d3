// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"fmt"

	"github.com/creachadair/jbind/syntax"
	"go4.org/mem"
)

// A builder implements the syntax.Handler interface to construct a value
// tree from the events of a stream parser.
type builder struct {
	stk  []frame
	root Value
}

// A frame is an open object or array awaiting its close.
type frame struct {
	obj *Object // non-nil for an object
	arr Array   // elements for an array
	key string  // pending member key for an object
}

func (b *builder) top() *frame { return &b.stk[len(b.stk)-1] }

func (b *builder) push(f frame) { b.stk = append(b.stk, f) }

func (b *builder) pop() frame {
	f := b.stk[len(b.stk)-1]
	b.stk = b.stk[:len(b.stk)-1]
	return f
}

// reduce attaches a completed value to its enclosing container, or records
// it as the root if there is none.
func (b *builder) reduce(v Value) {
	if len(b.stk) == 0 {
		b.root = v
		return
	}
	if top := b.top(); top.obj != nil {
		top.obj.Set(top.key, v)
	} else {
		top.arr = append(top.arr, v)
	}
}

func (b *builder) BeginObject(loc syntax.Anchor) error {
	b.push(frame{obj: new(Object)})
	return nil
}

func (b *builder) EndObject(loc syntax.Anchor) error {
	b.reduce(b.pop().obj)
	return nil
}

func (b *builder) BeginArray(loc syntax.Anchor) error {
	b.push(frame{arr: Array{}})
	return nil
}

func (b *builder) EndArray(loc syntax.Anchor) error {
	b.reduce(b.pop().arr)
	return nil
}

func (b *builder) BeginMember(loc syntax.Anchor) error {
	key, err := syntax.Unquote(loc.Text())
	if err != nil {
		return locError(loc, "invalid key: %v", err)
	}
	b.top().key = string(key)
	return nil
}

func (b *builder) EndMember(loc syntax.Anchor) error { return nil }

func (b *builder) Value(loc syntax.Anchor) error {
	text := loc.Text()
	switch loc.Token() {
	case syntax.String:
		s, err := syntax.Unquote(text)
		if err != nil {
			return locError(loc, "invalid string: %v", err)
		}
		b.reduce(String(s))
	case syntax.Integer:
		v, err := parseInteger(mem.B(text))
		if err != nil {
			return locError(loc, "%v", err)
		}
		b.reduce(v)
	case syntax.Number:
		f, err := mem.ParseFloat(mem.B(text), 64)
		if err != nil {
			return locError(loc, "invalid number %q", text)
		}
		b.reduce(Float(f))
	case syntax.True, syntax.False:
		b.reduce(Bool(loc.Token() == syntax.True))
	case syntax.Null:
		b.reduce(Null{})
	default:
		return locError(loc, "unknown value %v", loc.Token())
	}
	return nil
}

func (b *builder) EndOfInput(loc syntax.Anchor) {}

// parseInteger converts an integer literal to an Int if it fits in an int64,
// a Uint if it is non-negative and fits in a uint64, or otherwise a Float.
func parseInteger(text mem.RO) (Value, error) {
	if z, err := mem.ParseInt(text, 10, 64); err == nil {
		return Int(z), nil
	}
	if text.Len() != 0 && text.At(0) != '-' {
		if u, err := mem.ParseUint(text, 10, 64); err == nil {
			return Uint(u), nil
		}
	}
	f, err := mem.ParseFloat(text, 64)
	if err != nil {
		return nil, fmt.Errorf("integer %q out of range", text.StringCopy())
	}
	return Float(f), nil
}

// locError constructs a syntax error at the location of loc.
func locError(loc syntax.Anchor, msg string, args ...any) error {
	pos := loc.Location()
	return &syntax.SyntaxError{
		Offset:   pos.Pos,
		Location: pos.First,
		Message:  fmt.Sprintf(msg, args...),
	}
}
