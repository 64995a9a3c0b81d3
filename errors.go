// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jbind

import (
	"errors"
	"fmt"

	"github.com/creachadair/jbind/syntax"
)

// Sentinel errors wrapped by *Error. Use errors.Is to test for them.
var (
	// ErrTypeMismatch indicates a value cannot be converted to the target type.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrMandatoryMissing indicates a mandatory key is missing.
	ErrMandatoryMissing = errors.New("mandatory key not found")

	// ErrOutOfRange indicates an array index is out of range.
	ErrOutOfRange = errors.New("index out of range")

	// ErrNotAnArray indicates an array operation on a node that is not an array.
	ErrNotAnArray = errors.New("not an array")

	// ErrNotAnObject indicates an object operation on a node that is not an
	// object.
	ErrNotAnObject = errors.New("not an object")

	// ErrUnsupported indicates a Go type that has no JSON representation.
	ErrUnsupported = errors.New("unsupported type")
)

// ParseError is the concrete type of errors reported for malformed JSON
// input.
type ParseError = syntax.SyntaxError

// Error is the concrete type of errors reported by decoding and encoding.
type Error struct {
	Path   string // location of the node in the document, e.g., $.event[2].path
	Key    string // the member key involved, if any
	Err    error  // one of the sentinel errors
	Detail string // additional detail, if any
}

// Error satisfies the error interface.
func (e *Error) Error() string {
	msg := e.Err.Error()
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Path != "" {
		return e.Path + ": " + msg
	} else if e.Key != "" {
		return fmt.Sprintf("key %q: %s", e.Key, msg)
	}
	return msg
}

// Unwrap supports error wrapping.
func (e *Error) Unwrap() error { return e.Err }
