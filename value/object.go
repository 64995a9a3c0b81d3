// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"iter"

	"github.com/creachadair/jbind/syntax"
)

// An Object is a collection of key-value members with unique keys. Members
// are kept in the order they were first added.
//
// The zero value is ready for use as an empty object.
type Object struct {
	members []Member
	index   map[string]int // key → offset in members
}

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
func Field(key string, val Value) Member { return Member{Key: key, Value: val} }

// NewObject constructs an object with the given members, in order. If the
// same key occurs more than once, the last value wins (see Set).
func NewObject(ms ...Member) *Object {
	o := &Object{members: make([]Member, 0, len(ms))}
	for _, m := range ms {
		o.Set(m.Key, m.Value)
	}
	return o
}

// Kind satisfies the Value interface.
func (*Object) Kind() Kind { return ObjectKind }

// JSON satisfies the Value interface.
func (o *Object) JSON() string { return Format(o, syntax.Compact) }

// Len reports the number of members in o.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.members)
}

// Find returns the value of the member of o with the given key, and reports
// whether such a member exists.
func (o *Object) Find(key string) (Value, bool) {
	if o == nil {
		return nil, false
	}
	if i, ok := o.index[key]; ok {
		return o.members[i].Value, true
	}
	return nil, false
}

// Member returns the ith member of o in order. It panics if i is out of
// range.
func (o *Object) Member(i int) Member { return o.members[i] }

// Set adds a member with the given key and value to o. If o already has a
// member with that key, its value is replaced and it keeps its position.
func (o *Object) Set(key string, val Value) {
	if i, ok := o.index[key]; ok {
		o.members[i].Value = val
		return
	}
	if o.index == nil {
		o.index = make(map[string]int)
	}
	o.index[key] = len(o.members)
	o.members = append(o.members, Member{Key: key, Value: val})
}

// Keys returns the keys of o in order.
func (o *Object) Keys() []string {
	keys := make([]string, o.Len())
	for i := range keys {
		keys[i] = o.members[i].Key
	}
	return keys
}

// All returns an iterator over the members of o in order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i := range o.Len() {
			if !yield(o.members[i].Key, o.members[i].Value) {
				return
			}
		}
	}
}

// Equal reports whether o and p have the same members in the same order.
func (o *Object) Equal(p *Object) bool {
	if o.Len() != p.Len() {
		return false
	}
	for i := range o.Len() {
		a, b := o.members[i], p.members[i]
		if a.Key != b.Key || !Equal(a.Value, b.Value) {
			return false
		}
	}
	return true
}
