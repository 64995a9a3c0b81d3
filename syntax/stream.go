// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package syntax

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
)

// An Anchor is a token at a position in the source text. It reports the
// type, text, and location of the token.
type Anchor interface {
	Token() Token       // the token type
	Text() []byte       // the raw text of the token, not decoded
	Copy() []byte       // a copy of the raw text of the token
	Location() Location // where the token occurs in the input
}

// A Handler receives the structural events of an input stream from a Stream.
// If a method reports an error, parsing stops and the Stream returns that
// error unchanged. The Stream guarantees that the Begin and End calls for
// objects, arrays, and members are balanced.
//
// An Anchor is valid only during the call it is passed to. A handler that
// needs its text or location afterward must copy them.
type Handler interface {
	// BeginObject is called at the "{" that opens an object.
	BeginObject(loc Anchor) error

	// EndObject is called at the "}" that closes the innermost open object.
	EndObject(loc Anchor) error

	// BeginArray is called at the "[" that opens an array.
	BeginArray(loc Anchor) error

	// EndArray is called at the "]" that closes the innermost open array.
	EndArray(loc Anchor) error

	// BeginMember is called at the key of an object member. The key text
	// still has its quotation marks and escapes; use Unquote to decode it.
	BeginMember(loc Anchor) error

	// EndMember is called at the token following a member value, which is
	// either Comma or RBrace.
	EndMember(loc Anchor) error

	// Value is called for each scalar value. The token gives its type, and
	// string values are still quoted.
	Value(loc Anchor) error

	// EndOfInput is called once the input is exhausted.
	EndOfInput(loc Anchor)
}

// CommentHandler is an optional interface for a Handler. When comments are
// enabled, a Stream calls Comment for each comment in the input if its
// handler implements this interface, and otherwise discards them.
type CommentHandler interface {
	// Comment is called for a line or block comment. The text includes the
	// comment markers, and a line comment includes its trailing newline if
	// there was one.
	Comment(loc Anchor)
}

// Stream is a stream parser that consumes input and delivers events to a
// Handler corresponding with the structure of the input.
type Stream struct {
	sc       *Scanner
	trailing bool // accept a comma before "]" or "}"
}

// NewStream constructs a new Stream that consumes input from r.
func NewStream(r io.Reader) *Stream { return NewStreamWithScanner(NewScanner(r)) }

// NewStreamWithScanner constructs a new Stream that reads tokens from s.
func NewStreamWithScanner(s *Scanner) *Stream { return &Stream{sc: s} }

// AllowComments configures the scanner associated with s to report (true) or
// reject (false) comment tokens.
func (s *Stream) AllowComments(ok bool) { s.sc.AllowComments(ok) }

// AllowTrailingCommas configures the parser to allow (true) or reject (false)
// trailing commas in objects and arrays.
func (s *Stream) AllowTrailingCommas(ok bool) { s.trailing = ok }

// AllowNaNInf configures the scanner associated with s to accept (true) or
// reject (false) the non-finite number literals NaN and Infinity.
func (s *Stream) AllowNaNInf(ok bool) { s.sc.AllowNaNInf(ok) }

// Parse parses values from the input and delivers their events to h until
// the input is exhausted or an error occurs. A syntax error has concrete
// type [*SyntaxError].
func (s *Stream) Parse(h Handler) error {
	for {
		if err := s.ParseOne(h); err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}
	}
}

// ParseOne parses the next value from the input and delivers its events to h.
// If the input has no more values, ParseOne calls h.EndOfInput and returns
// io.EOF. A syntax error has concrete type [*SyntaxError].
func (s *Stream) ParseOne(h Handler) error {
	if err := s.next(h); err == io.EOF {
		h.EndOfInput(s.sc)
		return err
	} else if err != nil {
		return s.syntaxError(err, "%v", err)
	}
	return s.value(h)
}

// ParseSingle parses exactly one value from the input and delivers its
// events to h. The input must hold a value, and nothing but whitespace (or
// comments, if enabled) may follow it. A syntax error has concrete type
// [*SyntaxError].
func (s *Stream) ParseSingle(h Handler) error {
	if err := s.next(h); err == io.EOF {
		return s.syntaxError(err, "empty input")
	} else if err != nil {
		return s.syntaxError(err, "%v", err)
	}
	if err := s.value(h); err != nil {
		return err
	}
	switch err := s.next(h); {
	case err == nil:
		return s.syntaxError(nil, "extra input after value: %v", s.sc.Token())
	case err != io.EOF:
		return s.syntaxError(err, "%v", err)
	}
	h.EndOfInput(s.sc)
	return nil
}

// value parses one complete value beginning at the current token.
func (s *Stream) value(h Handler) error {
	switch tok := s.sc.Token(); {
	case tok == LBrace:
		return s.object(h)
	case tok == LSquare:
		return s.array(h)
	case tok.IsValue():
		return h.Value(s.sc)
	case tok == Invalid:
		return s.syntaxError(nil, "unknown token %v", tok)
	default:
		return s.syntaxError(nil, "unexpected %v", tok)
	}
}

// object parses the members of an object whose "{" is the current token.
func (s *Stream) object(h Handler) error {
	if err := h.BeginObject(s.sc); err != nil {
		return err
	}
	tok, err := s.expect(h, RBrace, String)
	for err == nil && tok == String {
		tok, err = s.member(h)
	}
	if err != nil {
		return err
	}
	return h.EndObject(s.sc)
}

// member parses a "key": value pair whose key is the current token, and the
// token that ends it. It returns RBrace if that ended the object, or String
// if another member follows.
func (s *Stream) member(h Handler) (Token, error) {
	if err := h.BeginMember(s.sc); err != nil {
		return Invalid, err
	}
	if _, err := s.expect(h, Colon); err != nil {
		return Invalid, err
	}
	if _, err := s.expect(h); err != nil {
		return Invalid, err
	}
	if err := s.value(h); err != nil {
		return Invalid, err
	}
	end, err := s.expect(h, RBrace, Comma)
	if err != nil {
		return Invalid, err
	}
	if err := h.EndMember(s.sc); err != nil {
		return Invalid, err
	}
	switch {
	case end == RBrace:
		return RBrace, nil
	case s.trailing:
		return s.expect(h, String, RBrace)
	default:
		return s.expect(h, String)
	}
}

// array parses the elements of an array whose "[" is the current token.
func (s *Stream) array(h Handler) error {
	if err := h.BeginArray(s.sc); err != nil {
		return err
	}
	tok, err := s.expect(h)
	for err == nil && tok != RSquare {
		if err = s.value(h); err != nil {
			break
		}
		tok, err = s.expect(h, RSquare, Comma)
		if err != nil || tok == RSquare {
			break
		}
		tok, err = s.expect(h)
		if err == nil && tok == RSquare && !s.trailing {
			err = s.syntaxError(nil, "unexpected %v", tok)
		}
	}
	if err != nil {
		return err
	}
	return h.EndArray(s.sc)
}

// next advances to the next token that is not a comment. Comments along the
// way are passed to h if it is a CommentHandler.
func (s *Stream) next(h Handler) error {
	ch, _ := h.(CommentHandler)
	for {
		if err := s.sc.Next(); err != nil {
			return err
		}
		switch s.sc.Token() {
		case LineComment, BlockComment:
			if ch != nil {
				ch.Comment(s.sc)
			}
		default:
			return nil
		}
	}
}

// expect advances to the next token and checks that it is one of want. With
// no arguments, any token is accepted.
func (s *Stream) expect(h Handler, want ...Token) (Token, error) {
	if err := s.next(h); err != nil {
		return Invalid, s.syntaxError(err, "%s", describe(want, err))
	}
	tok := s.sc.Token()
	if len(want) != 0 && !slices.Contains(want, tok) {
		return Invalid, s.syntaxError(nil, "%s", describe(want, tok))
	}
	return tok, nil
}

func (s *Stream) syntaxError(err error, msg string, args ...any) error {
	off := s.sc.Span().Pos
	var serr scanError
	if errors.As(err, &serr) {
		off = serr.offset
	}
	return &SyntaxError{
		Offset:   off,
		Location: s.sc.Location().First,
		Message:  fmt.Sprintf(msg, args...),
		err:      err,
	}
}

// describe summarizes a mismatch between the wanted tokens and what was found.
func describe(want []Token, got any) string {
	if len(want) == 0 {
		return fmt.Sprint(got)
	}
	names := make([]string, len(want))
	for i, tok := range want {
		names[i] = tok.String()
	}
	exp := names[len(names)-1]
	if n := len(names) - 1; n > 0 {
		exp = strings.Join(names[:n], ", ") + " or " + exp
	}
	return fmt.Sprintf("expected %s, got %v", exp, got)
}

// SyntaxError is the concrete type of errors reported by the stream parser.
type SyntaxError struct {
	Offset   int     // byte offset of the error in the input, 0-based
	Location LineCol // line and column of the token where the error was noticed
	Message  string

	err error
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s", s.Location, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }
