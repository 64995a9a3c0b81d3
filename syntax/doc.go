// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package syntax reads and writes JSON text at the level of tokens and
// structural events. It is the layer beneath the value tree and the binder.
//
// # Tokens
//
// A Scanner splits an io.Reader into tokens. Each call to Next reads one
// token, after which Token, Text, and Location describe it:
//
//	s := syntax.NewScanner(input)
//	for s.Next() == nil {
//	   fmt.Println(s.Location(), s.Token(), string(s.Text()))
//	}
//	if err := s.Err(); err != io.EOF {
//	   log.Fatalf("Scan: %v", err)
//	}
//
// Comments and the literals NaN and Infinity are not JSON. A Scanner rejects
// them unless AllowComments or AllowNaNInf is set.
//
// # Events
//
// A Stream parses the token sequence and calls the methods of a Handler as
// it recognizes the parts of each value:
//
//	Handler methods           Input
//	------------------------  ---------------------------
//	BeginObject, EndObject    { ... }
//	BeginArray, EndArray      [ ... ]
//	BeginMember, EndMember    "key": value
//	Value                     string, number, true, false, null
//	EndOfInput                end of input
//
// Parse consumes a sequence of values, ParseOne consumes the next value only
// (and returns io.EOF when there is none), and ParseSingle requires the input
// to contain exactly one value:
//
//	st := syntax.NewStream(input)
//	if err := st.ParseSingle(h); err != nil {
//	   log.Fatalf("Parse: %v", err)
//	}
//
// Malformed input is reported as a *SyntaxError carrying the byte offset and
// line:column of the problem. An error returned by a Handler method stops
// the parse and is returned as-is.
//
// # Writing
//
// A Writer produces JSON text one event at a time, either compact or
// indented according to the Layout it was created with. It tracks nesting,
// and the first misuse (a key outside an object, an unbalanced end, a
// non-finite number) becomes a sticky error reported by Err:
//
//	w := syntax.NewWriter(syntax.Compact)
//	w.BeginObject()
//	w.Key("name")
//	w.StringValue("value")
//	w.EndObject()
//	if err := w.Err(); err != nil {
//	   log.Fatalf("Write: %v", err)
//	}
//	fmt.Println(w.String()) // {"name":"value"}
package syntax
