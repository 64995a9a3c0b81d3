// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/creachadair/jbind/syntax"
)

// ParseOptions control the grammar accepted by Parse. A nil *ParseOptions
// accepts only standard JSON.
type ParseOptions struct {
	// Accept the non-finite number literals NaN, Inf, -Inf, Infinity, and
	// -Infinity.
	AllowNaNInf bool

	// Accept and discard /* block */ and // line comments.
	AllowComments bool

	// Accept a trailing comma after the last element of an array or the last
	// member of an object.
	AllowTrailingCommas bool
}

// A Document is the complete value tree parsed from a single JSON source.
// A Document is not modified once it is constructed, and is safe for
// concurrent reads.
type Document struct {
	root Value
	src  []byte
	name string
}

// Root returns the root value of d.
func (d *Document) Root() Value { return d.root }

// Source returns the source text d was parsed from. The caller must not
// modify the contents of the slice.
func (d *Document) Source() []byte { return d.src }

// Name returns the name of the file d was parsed from, or "" if d was not
// parsed from a file.
func (d *Document) Name() string { return d.name }

// Parse parses data as a single JSON value. Parsing is all-or-nothing: if
// data is empty, malformed, or has anything but whitespace (and comments, if
// enabled) after the value, Parse reports an error of concrete type
// *syntax.SyntaxError and no Document.
func Parse(data []byte, opts *ParseOptions) (*Document, error) {
	st := syntax.NewStream(bytes.NewReader(data))
	if opts != nil {
		st.AllowNaNInf(opts.AllowNaNInf)
		st.AllowComments(opts.AllowComments)
		st.AllowTrailingCommas(opts.AllowTrailingCommas)
	}
	b := new(builder)
	if err := st.ParseSingle(b); err != nil {
		return nil, err
	} else if b.root == nil || len(b.stk) != 0 {
		return nil, errors.New("incomplete value") // should not be possible
	}
	return &Document{root: b.root, src: data}, nil
}

// ParseString parses s as a single JSON value. See Parse.
func ParseString(s string, opts *ParseOptions) (*Document, error) {
	return Parse([]byte(s), opts)
}

// ParseFile reads and parses the contents of the named file as a single JSON
// value. A syntax error is wrapped with the file name; use errors.As to
// recover the *syntax.SyntaxError.
func ParseFile(path string, opts *ParseOptions) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc.name = path
	return doc, nil
}

// MustParse parses s as a single JSON value with default options, and
// returns its root. It panics if s does not parse.
func MustParse(s string) Value {
	doc, err := ParseString(s, nil)
	if err != nil {
		panic(fmt.Sprintf("value: parse %q: %v", s, err))
	}
	return doc.Root()
}
