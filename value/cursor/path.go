// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/creachadair/jbind/value"
)

/*
ParsePath grammar, a subset of JSONPath:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = "[" INDEX "]"
  step = "[" "'" QTEXT "'" "]"
  name = WORD

  WORD = RE `\w+`
 QTEXT = RE `([^'\\]|\\.)*`
 INDEX = RE `-?\d+`
*/

// ParsePath parses s as a path expression, and returns a sequence of path
// elements suitable for Cursor.Down: a string for each member step and an
// int for each index step. For example:
//
//	$.event[0]['with'][-1]
//
// yields []any{"event", 0, "with", -1}.  The root "$" by itself yields an
// empty path.
func ParsePath(s string) ([]any, error) {
	rest, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var path []any
	for rest != "" {
		elt, next, err := parseStep(rest)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", len(s)-len(rest), err)
		}
		path = append(path, elt)
		rest = next
	}
	return path, nil
}

func parseStep(s string) (_ any, rest string, _ error) {
	if strings.HasPrefix(s, "..") {
		return nil, s, errors.New("recursive descent is not supported")
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		if m := wordRE.FindStringSubmatch(t); m != nil {
			return m[1], t[len(m[0]):], nil
		}
		return nil, s, errors.New("invalid .name")
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		var elt any
		if m := indexRE.FindStringSubmatch(t); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return nil, s, fmt.Errorf("invalid index: %w", err)
			}
			elt, t = n, t[len(m[0]):]
		} else if m := quoteRE.FindStringSubmatch(t); m != nil {
			elt, t = unquoteName(m[1]), t[len(m[0]):]
		} else {
			return nil, s, fmt.Errorf("invalid or unsupported subscript %q", t)
		}
		u, ok := strings.CutPrefix(t, "]")
		if !ok {
			return nil, t, errors.New("missing close bracket")
		}
		return elt, u, nil
	}
	return nil, s, errors.New("invalid path step")
}

// FormatPath renders a sequence of path elements as a path expression that
// ParsePath accepts. Strings are rendered as .name where possible and
// ['name'] otherwise; ints are rendered as [n]. Other elements are rendered
// as [?].
func FormatPath(path []any) string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			if isWord(t) {
				buf.WriteString(".")
				buf.WriteString(t)
			} else {
				fmt.Fprintf(&buf, "['%s']", quoteName(t))
			}
		case int:
			fmt.Fprintf(&buf, "[%d]", t)
		default:
			buf.WriteString("[?]")
		}
	}
	return buf.String()
}

// Lookup parses expr with ParsePath and traverses it from v.
func Lookup(v value.Value, expr string) (value.Value, error) {
	path, err := ParsePath(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", expr, err)
	}
	c := New(v).Down(path...)
	if err := c.Err(); err != nil {
		return nil, err
	}
	return c.Value(), nil
}

var (
	wordRE  = regexp.MustCompile(`^(\w+)`)
	indexRE = regexp.MustCompile(`^(-?\d+)`)
	quoteRE = regexp.MustCompile(`^'((?:[^'\\]|\\.)*)'`)
)

func isWord(s string) bool {
	m := wordRE.FindString(s)
	return m != "" && len(m) == len(s)
}

func quoteName(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

func unquoteName(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		buf.WriteByte(s[i])
	}
	return buf.String()
}
