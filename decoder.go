// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jbind

import (
	"fmt"
	"slices"

	"github.com/creachadair/jbind/value"
	"github.com/creachadair/jbind/value/cursor"
)

// ParseOptions control the grammar accepted when parsing a document.
// A nil *ParseOptions accepts only standard JSON.
type ParseOptions = value.ParseOptions

// A Decoder is a cursor bound to one node of a value tree. The node may be
// absent, for example when a decoder is constructed for a member key that
// does not occur in its object.
//
// A Decoder constructed by NewDecoder or NewDecoderFile owns the document
// it parsed. A Decoder constructed by DecoderFor borrows the value it is
// given. Decoders derived by navigation share the tree of their parent.
//
// A Decoder does not modify the tree, so independent decoders may read the
// same tree concurrently.
type Decoder struct {
	node   value.Value // nil if absent
	parent *Decoder
	step   any // string key or int index from parent to this node
	doc    *value.Document
}

// NewDecoder parses data as a single JSON value and returns a decoder bound
// to its root. If data does not parse, the error has concrete type
// *ParseError.
func NewDecoder(data []byte, opts *ParseOptions) (*Decoder, error) {
	doc, err := value.Parse(data, opts)
	if err != nil {
		return nil, err
	}
	return &Decoder{node: doc.Root(), doc: doc}, nil
}

// NewDecoderFile reads and parses the named file and returns a decoder bound
// to its root.
func NewDecoderFile(path string, opts *ParseOptions) (*Decoder, error) {
	doc, err := value.ParseFile(path, opts)
	if err != nil {
		return nil, err
	}
	return &Decoder{node: doc.Root(), doc: doc}, nil
}

// DecoderFor returns a decoder bound to v. The decoder does not copy v.
// If v == nil the decoder's node is absent.
func DecoderFor(v value.Value) *Decoder { return &Decoder{node: v} }

// Document returns the document owned by d or its root ancestor, or nil if
// the tree was borrowed.
func (d *Decoder) Document() *value.Document {
	for d.parent != nil {
		d = d.parent
	}
	return d.doc
}

// Node returns the current node of d, or nil if it is absent.
func (d *Decoder) Node() value.Value { return d.node }

// Exists reports whether the current node of d is present.
func (d *Decoder) Exists() bool { return d.node != nil }

// IsNull reports whether the current node of d is present and null.
func (d *Decoder) IsNull() bool {
	_, ok := d.node.(value.Null)
	return ok
}

// Path returns the location of the current node of d as a path expression
// relative to the root decoder, for example $.event[2].path.
func (d *Decoder) Path() string { return cursor.FormatPath(d.steps()) }

func (d *Decoder) steps() []any {
	var steps []any
	for c := d; c.parent != nil; c = c.parent {
		steps = append(steps, c.step)
	}
	slices.Reverse(steps)
	return steps
}

// Child returns a decoder for the member of the current object with the
// given key. If the current node is absent, or the object has no such
// member, the child's node is absent. It is an error if the current node is
// present but not an object.
func (d *Decoder) Child(key string) (*Decoder, error) {
	if d.node == nil {
		return &Decoder{parent: d, step: key}, nil
	}
	obj, ok := d.node.(*value.Object)
	if !ok {
		return nil, &Error{
			Path:   d.Path(),
			Key:    key,
			Err:    ErrNotAnObject,
			Detail: fmt.Sprintf("cannot look up %q in %v", key, value.KindOf(d.node)),
		}
	}
	v, _ := obj.Find(key)
	return &Decoder{node: v, parent: d, step: key}, nil
}

// Size reports the number of elements in the current node if it is an
// array, and otherwise 0.
func (d *Decoder) Size() int {
	arr, _ := d.node.(value.Array)
	return len(arr)
}

// Element returns a decoder for the element at offset i of the current
// array. It fails with ErrNotAnArray if the current node is not an array,
// and with ErrOutOfRange if i < 0 or i >= Size().
func (d *Decoder) Element(i int) (*Decoder, error) {
	arr, ok := d.node.(value.Array)
	if !ok {
		return nil, d.fail(ErrNotAnArray, "cannot index %v", nodeKind(d.node))
	} else if i < 0 || i >= len(arr) {
		return nil, d.fail(ErrOutOfRange, "index %d, size %d", i, len(arr))
	}
	return &Decoder{node: arr[i], parent: d, step: i}, nil
}

// Iter returns an iterator over the members of the current object, in
// document order. If the current node is absent the iterator is empty.  It
// fails with ErrNotAnObject if the current node is present but not an
// object.
func (d *Decoder) Iter() (*MemberIter, error) {
	if d.node == nil {
		return &MemberIter{parent: d}, nil
	}
	obj, ok := d.node.(*value.Object)
	if !ok {
		return nil, d.fail(ErrNotAnObject, "cannot iterate %v", value.KindOf(d.node))
	}
	return &MemberIter{parent: d, obj: obj}, nil
}

// A MemberIter is a forward-only iterator over the members of an object.
// Call Next to advance to each member in turn:
//
//	it, err := d.Iter()
//	...
//	for it.Next() {
//	   log.Printf("Member %q", it.Key())
//	   sub := it.Value()
//	   ...
//	}
type MemberIter struct {
	parent *Decoder
	obj    *value.Object // nil if empty
	pos    int           // 1 + offset of the current member
}

// Next advances it to the next member, and reports whether there is one.
func (it *MemberIter) Next() bool {
	if it.pos >= it.obj.Len() {
		return false
	}
	it.pos++
	return true
}

// Key returns the key of the current member.
func (it *MemberIter) Key() string { return it.obj.Member(it.pos - 1).Key }

// Value returns a decoder bound to the value of the current member.
func (it *MemberIter) Value() *Decoder {
	m := it.obj.Member(it.pos - 1)
	return &Decoder{node: m.Value, parent: it.parent, step: m.Key}
}

// presence classifies the node selected by a key.
type presence int

const (
	missing presence = iota
	null
	present
)

// resolve finds the node selected by key and classifies it. If the node is
// missing and p is Mandatory, resolve reports ErrMandatoryMissing.
func (d *Decoder) resolve(key Key, p Policy) (*Decoder, presence, error) {
	c := d
	if !key.IsSelf() {
		var err error
		c, err = d.Child(key.name)
		if err != nil {
			return nil, missing, err
		}
	}
	switch c.node.(type) {
	case nil:
		if p.Mandatory {
			return c, missing, c.fail(ErrMandatoryMissing, "")
		}
		return c, missing, nil
	case value.Null:
		return c, null, nil
	}
	return c, present, nil
}

// fail constructs an *Error for the current node of d.
func (d *Decoder) fail(err error, msg string, args ...any) *Error {
	e := &Error{Path: d.Path(), Err: err}
	if key, ok := d.step.(string); ok {
		e.Key = key
	}
	if msg != "" {
		e.Detail = fmt.Sprintf(msg, args...)
	}
	return e
}

// mismatch constructs a type mismatch error for decoding the current node
// of d into a value of the named type.
func (d *Decoder) mismatch(want any) *Error {
	switch t := d.node.(type) {
	case value.Bool, value.Int, value.Uint, value.Float:
		return d.fail(ErrTypeMismatch, "cannot decode %v %s into %v", t.Kind(), t.JSON(), want)
	}
	return d.fail(ErrTypeMismatch, "cannot decode %v into %v", nodeKind(d.node), want)
}

func nodeKind(v value.Value) string {
	if v == nil {
		return "absent node"
	}
	return v.Kind().String()
}
