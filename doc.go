// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jbind binds typed Go values to JSON documents, field by field.
//
// # Decoding
//
// A Decoder is a cursor bound to one node of a parsed document. Construct a
// decoder from JSON text, a file, or an existing value tree, and read typed
// fields out of it:
//
//	d, err := jbind.NewDecoder(data, nil)
//	if err != nil {
//	   log.Fatalf("Parse: %v", err) // a *jbind.ParseError
//	}
//	var name string
//	var age int8
//	if _, err := d.DecodeString(jbind.Name("name"), &name, jbind.Policy{Mandatory: true}); err != nil {
//	   log.Fatalf("Decode: %v", err)
//	}
//	ok, err := jbind.DecodeInt(d, jbind.Name("age"), &age, jbind.Policy{})
//
// Each decode call resolves its key to one of three cases. If the key is
// missing, the call fails with ErrMandatoryMissing when the policy is
// Mandatory, and otherwise reports false and leaves the target unchanged.
// If the value is null, the call reports false and leaves the target
// unchanged when the policy is IgnoreNull, and otherwise stores the zero
// value and reports true. Otherwise the value is converted to the target
// type, failing with ErrTypeMismatch if that is not possible.
//
// Use Child, Element, and Iter to navigate into objects and arrays.
//
// # Encoding
//
// An Encoder writes JSON text incrementally. Objects and arrays are opened
// and closed explicitly, and each value is written under a key:
//
//	e := jbind.NewEncoder(&jbind.EncodeOptions{Indent: 2})
//	e.ObjectBegin(jbind.Self)
//	e.EncodeString(jbind.Name("name"), name, jbind.Policy{OmitEmpty: true})
//	jbind.EncodeInt(e, jbind.Name("age"), age, jbind.Policy{})
//	e.ObjectEnd()
//	if err := e.Err(); err != nil {
//	   log.Fatalf("Encode: %v", err)
//	}
//	fmt.Println(e.String())
//
// A value is empty if it is false, zero, the empty string, nil, has length
// zero, or has an IsZero method that reports true. An empty value is omitted
// if the policy is OmitEmpty, written as null if the policy is EmptyAsNull,
// and otherwise written as-is.
//
// # Binding
//
// Marshal and Unmarshal traverse Go values by reflection. Struct fields are
// bound using the field name, or the name given by a struct tag:
//
//	type Image struct {
//	   Path string   `jbind:"path,mandatory"`
//	   With []string `jbind:"with,omitempty"`
//	   Note string   `jbind:"-"`
//	}
//
// The tag options mandatory, omitempty, emptynull, and ignorenull set the
// corresponding fields of the Policy for that field. A type may take over
// its own traversal by implementing FieldEncoder and FieldDecoder.
package jbind
