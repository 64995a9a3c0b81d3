// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jbind

import "strconv"

// A Key selects the node a decode or encode operation applies to.
//
// The zero Key is Self. When decoding, Self denotes the current node of the
// decoder rather than one of its members; when encoding, no key is written,
// as for the elements of an array. Use Name to construct a key that denotes
// an object member.
type Key struct {
	name  string
	named bool
	force bool // write the key even if the name is empty
}

// Self is the key denoting the current node.
var Self Key

// Name returns a key denoting the object member with the given name. When
// encoding, an empty name is treated as Self.
func Name(name string) Key { return Key{name: name, named: true} }

// memberKey returns a key that is written even if name is empty.
func memberKey(name string) Key { return Key{name: name, named: true, force: true} }

// IsSelf reports whether k denotes the current node.
func (k Key) IsSelf() bool { return !k.named }

// Text returns the member name of k, or "" for Self.
func (k Key) Text() string { return k.name }

func (k Key) String() string {
	if k.IsSelf() {
		return "<self>"
	}
	return strconv.Quote(k.name)
}
