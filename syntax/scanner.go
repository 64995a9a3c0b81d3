// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package syntax

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Integer              // number: integer with no fraction or exponent
	Number               // number with fraction and/or exponent, or NaN/Inf
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null

	BlockComment // comment: /* ... */
	LineComment  // comment: // ... <LF>
)

var tokenNames = map[Token]string{
	LBrace:       `"{"`,
	RBrace:       `"}"`,
	LSquare:      `"["`,
	RSquare:      `"]"`,
	Comma:        `","`,
	Colon:        `":"`,
	Integer:      "integer",
	Number:       "number",
	String:       "string",
	True:         "true",
	False:        "false",
	Null:         "null",
	BlockComment: "block comment",
	LineComment:  "line comment",
}

func (t Token) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "invalid token"
}

// IsValue reports whether t is a token that denotes a complete scalar value.
func (t Token) IsValue() bool { return t >= Integer && t <= Null }

// punctuation maps each single-byte delimiter to its token.
var punctuation = [...]Token{
	'{': LBrace, '}': RBrace,
	'[': LSquare, ']': RSquare,
	',': Comma, ':': Colon,
}

func punctToken(ch rune) Token {
	if ch >= 0 && int(ch) < len(punctuation) {
		return punctuation[ch]
	}
	return Invalid
}

var keywords = map[string]Token{"true": True, "false": False, "null": Null}

// A mark is a position in the input: a byte offset plus the 0-based line
// and column of that offset.
type mark struct{ off, line, col int }

// A runeReader reads runes from a buffered input and tracks the position of
// the read head. It can back up by one rune.
type runeReader struct {
	br   *bufio.Reader
	at   mark // position after the last rune read
	prev mark // position before the last rune read
}

func (r *runeReader) read() (rune, error) {
	ch, nb, err := r.br.ReadRune()
	if err != nil {
		return 0, err
	}
	r.prev = r.at
	r.at.off += nb
	if ch == '\n' {
		r.at.line++
		r.at.col = 0
	} else {
		r.at.col += nb
	}
	return ch, nil
}

func (r *runeReader) unread() {
	if r.br.UnreadRune() == nil {
		r.at = r.prev
	}
}

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.
type Scanner struct {
	in       runeReader
	comments bool // accept comment tokens
	nonfin   bool // accept NaN and Infinity

	text  bytes.Buffer // text of the current token
	tok   Token
	start mark // where the current token begins
	err   error

	chunk []byte // shared storage for Copy
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{in: runeReader{br: br}}
}

// AllowComments configures the scanner to report (true) or reject (false)
// comment tokens. Comments are not part of standard JSON. When enabled, block
// comments (/* ... */) and line comments (// ...) are reported as tokens.
func (s *Scanner) AllowComments(ok bool) { s.comments = ok }

// AllowNaNInf configures the scanner to accept (true) or reject (false) the
// non-finite number literals NaN, Inf, Infinity, -Inf and -Infinity.  When
// enabled they are reported as Number tokens whose text is the literal as
// written, which strconv.ParseFloat understands.
func (s *Scanner) AllowNaNInf(ok bool) { s.nonfin = ok }

// Next advances s to the next token of the input, or reports an error.
// At the end of the input, Next returns io.EOF.
func (s *Scanner) Next() error {
	s.text.Reset()
	s.tok = Invalid
	for {
		s.start = s.in.at
		ch, err := s.in.read()
		if err == io.EOF {
			s.err = err
			return err
		} else if err != nil {
			return s.fail(err)
		}
		if !isSpace(ch) {
			s.err = s.scan(ch)
			return s.err
		}
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.text.Bytes() }

// Copy returns a copy of the undecoded text of the current token.
// Short tokens share a larger allocation.
func (s *Scanner) Copy() []byte {
	const chunkSize = 16384

	text := s.text.Bytes()
	if len(text) > chunkSize/16 {
		return bytes.Clone(text)
	}
	if cap(s.chunk)-len(s.chunk) < len(text) {
		s.chunk = make([]byte, 0, chunkSize)
	}
	p := len(s.chunk)
	s.chunk = append(s.chunk, text...)
	return s.chunk[p:len(s.chunk):len(s.chunk)]
}

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.start.off, End: s.in.at.off} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.start.line + 1, Column: s.start.col},
		Last:  LineCol{Line: s.in.at.line + 1, Column: s.in.at.col},
	}
}

// scan reads the rest of the token that begins with ch.
func (s *Scanner) scan(ch rune) error {
	if t := punctToken(ch); t != Invalid {
		s.text.WriteRune(ch)
		s.tok = t
		return nil
	}
	switch {
	case ch == '"':
		return s.scanString()
	case ch == '-' || isDigit(ch):
		return s.scanNumber(ch)
	case ch == '/' && s.comments:
		return s.scanComment()
	case (ch == 'N' || ch == 'I') && s.nonfin:
		return s.scanNonFinite(ch)
	case ch == 't' || ch == 'f' || ch == 'n':
		if err := s.scanWord(ch); err != nil {
			return err
		}
		t, ok := keywords[string(s.text.Bytes())]
		if !ok {
			return s.errorf("unknown constant %q", s.text.Bytes())
		}
		s.tok = t
		return nil
	}
	return s.errorf("unexpected %q", ch)
}

func (s *Scanner) scanString() error {
	s.text.WriteByte('"')
	for {
		ch, err := s.in.read()
		if err != nil {
			return s.fail(err)
		}
		switch {
		case ch == '"':
			s.text.WriteByte('"')
			s.tok = String
			return nil
		case ch == '\\':
			if err := s.scanEscape(); err != nil {
				return err
			}
		case ch < ' ':
			return s.errorf("unescaped control %q", ch)
		default:
			s.text.WriteRune(ch)
		}
	}
}

// scanEscape reads the remainder of an escape sequence whose backslash has
// already been consumed.
func (s *Scanner) scanEscape() error {
	s.text.WriteByte('\\')
	ch, err := s.in.read()
	if err != nil {
		return s.fail(err)
	}
	if strings.ContainsRune(`"\/bfnrt`, ch) {
		s.text.WriteRune(ch)
		return nil
	} else if ch != 'u' {
		return s.errorf("invalid %q after escape", ch)
	}
	s.text.WriteByte('u')
	for range 4 {
		h, err := s.in.read()
		if err != nil {
			return s.errorf("invalid Unicode escape: %w", err)
		} else if !isHexDigit(h) {
			return s.errorf("invalid Unicode escape: not a hex digit: %q", h)
		}
		s.text.WriteRune(h)
	}
	return nil
}

func (s *Scanner) scanNumber(first rune) error {
	s.text.WriteRune(first)
	if first == '-' {
		ch, err := s.in.read()
		switch {
		case err != nil:
			return s.errorf("want digit, got error: %w", err)
		case ch == 'I' && s.nonfin:
			return s.scanNonFinite(ch)
		case !isDigit(ch):
			s.in.unread()
			return s.errorf("got %q, want digit", ch)
		}
		s.text.WriteRune(ch)
	}

	// Integer part. JSON forbids redundant leading zeroes: 0.12 is fine, 01.2
	// is not.
	if _, err := s.accept(isDigit); err != nil {
		return s.fail(err)
	}
	if hasExtraLeadingZeroes(s.text.Bytes()) {
		return s.errorf("extra leading zeroes")
	}
	tok := Integer

	// Fraction.
	if ok, err := s.acceptOne("."); err != nil {
		return s.fail(err)
	} else if ok {
		if n, err := s.accept(isDigit); err != nil {
			return s.fail(err)
		} else if n == 0 {
			return s.errorf("no digits after decimal point")
		}
		tok = Number
	}

	// Exponent.
	if ok, err := s.acceptOne("eE"); err != nil {
		return s.fail(err)
	} else if ok {
		if _, err := s.acceptOne("+-"); err != nil {
			return s.fail(err)
		}
		if n, err := s.accept(isDigit); err != nil {
			return s.fail(err)
		} else if n == 0 {
			return s.errorf("missing exponent digits")
		}
		tok = Number
	}
	s.tok = tok
	return nil
}

// scanNonFinite scans one of the literals NaN, Inf, or Infinity.  Any leading
// sign is already in the token text.
func (s *Scanner) scanNonFinite(first rune) error {
	if err := s.scanWord(first); err != nil {
		return err
	}
	text := s.text.Bytes()
	word, signed := bytes.CutPrefix(text, []byte("-"))
	switch string(word) {
	case "Inf", "Infinity":
	case "NaN":
		if signed {
			return s.errorf("invalid signed NaN")
		}
	default:
		return s.errorf("unknown constant %q", text)
	}
	s.tok = Number
	return nil
}

func (s *Scanner) scanComment() error {
	s.text.WriteByte('/')
	ch, err := s.in.read()
	if err != nil {
		return s.fail(err)
	}
	switch ch {
	case '/':
		// A line comment runs through the next LF, or to EOF.
		s.text.WriteByte('/')
		for ch != '\n' {
			ch, err = s.in.read()
			if err == io.EOF {
				break
			} else if err != nil {
				return s.fail(err)
			}
			s.text.WriteRune(ch)
		}
		s.tok = LineComment
		return nil

	case '*':
		s.text.WriteByte('*')
		star := false
		for {
			ch, err := s.in.read()
			if err != nil {
				return s.errorf("unterminated block comment")
			}
			s.text.WriteRune(ch)
			if star && ch == '/' {
				s.tok = BlockComment
				return nil
			}
			star = ch == '*'
		}
	}
	s.in.unread()
	return s.errorf("invalid %q in comment", ch)
}

// scanWord reads a run of ASCII letters beginning with first.
func (s *Scanner) scanWord(first rune) error {
	s.text.WriteRune(first)
	if _, err := s.accept(isLetter); err != nil {
		return s.fail(err)
	}
	return nil
}

// accept consumes runes matching f into the token text, and reports how many
// it consumed. The first rune not matching f is left unread. Reaching the end
// of input is not an error.
func (s *Scanner) accept(f func(rune) bool) (int, error) {
	var n int
	for {
		ch, err := s.in.read()
		if err == io.EOF {
			return n, nil
		} else if err != nil {
			return n, err
		} else if !f(ch) {
			s.in.unread()
			return n, nil
		}
		s.text.WriteRune(ch)
		n++
	}
}

// acceptOne consumes a single rune into the token text if it is one of the
// runes in set, and reports whether it did so.
func (s *Scanner) acceptOne(set string) (bool, error) {
	ch, err := s.in.read()
	if err == io.EOF {
		return false, nil
	} else if err != nil {
		return false, err
	} else if !strings.ContainsRune(set, ch) {
		s.in.unread()
		return false, nil
	}
	s.text.WriteRune(ch)
	return true, nil
}

// scanError is a lexical error at a byte offset of the input.
type scanError struct {
	offset int
	err    error
}

func (e scanError) Error() string { return fmt.Sprintf("offset %d: %v", e.offset, e.err) }

func (e scanError) Unwrap() error { return e.err }

func (s *Scanner) fail(err error) error {
	s.err = scanError{offset: s.in.at.off, err: err}
	return s.err
}

func (s *Scanner) errorf(msg string, args ...any) error {
	return s.fail(fmt.Errorf(msg, args...))
}

func isSpace(ch rune) bool  { return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' }
func isDigit(ch rune) bool  { return ch >= '0' && ch <= '9' }
func isLetter(ch rune) bool { return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') }

func isHexDigit(ch rune) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

// hasExtraLeadingZeroes reports whether the integer part of the number in
// buf has a redundant leading zero, as in -01 or 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	digits := bytes.TrimPrefix(buf, []byte("-"))
	return len(digits) > 1 && digits[0] == '0'
}
