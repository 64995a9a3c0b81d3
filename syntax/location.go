// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package syntax

import "fmt"

// A Span is a half-open range [Pos, End) of byte offsets in the input.
type Span struct {
	Pos int
	End int
}

func (s Span) String() string { return fmt.Sprintf("%d..%d", s.Pos, s.End) }

// A LineCol is a position in the input as a 1-based line number and a 0-based
// byte column within that line.
type LineCol struct {
	Line   int
	Column int
}

func (lc LineCol) String() string { return fmt.Sprintf("%d:%d", lc.Line, lc.Column) }

// A Location is a Span together with the line and column of each end.
type Location struct {
	Span
	First, Last LineCol
}

// String renders the location as line:col-col, or as line:col-line:col if
// it spans more than one line.
func (loc Location) String() string {
	end := loc.Last.String()
	if loc.First.Line == loc.Last.Line {
		end = fmt.Sprint(loc.Last.Column)
	}
	return loc.First.String() + "-" + end
}
