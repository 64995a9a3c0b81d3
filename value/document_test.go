// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package value_test

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/creachadair/jbind/syntax"
	"github.com/creachadair/jbind/value"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

func TestParseFile(t *testing.T) {
	doc, err := value.ParseFile("../testdata/events.json", nil)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if got, want := doc.Name(), "../testdata/events.json"; got != want {
		t.Errorf("Name: got %q, want %q", got, want)
	}
	if len(doc.Source()) == 0 {
		t.Error("Source is empty")
	}

	// Inspect some of the structure of the test value to make sure we got
	// something approximating sense.
	//
	// If the testdata file changes, this may need to be updated.
	root, ok := doc.Root().(*value.Object)
	if !ok {
		t.Fatalf("Root is %T, not object", doc.Root())
	}
	events := check[value.Array](t, root, "event")
	if len(events) != 3 {
		t.Fatalf("Got %d events, want 3", len(events))
	}
	first, ok := events[0].(*value.Object)
	if !ok {
		t.Fatalf("Event is %T, not object", events[0])
	}
	if got := check[value.String](t, first, "description"); got != "Spring picnic" {
		t.Errorf("Description: got %q, want %q", got, "Spring picnic")
	}
	images := check[value.Array](t, first, "image")
	img := images[0].(*value.Object)
	with := check[value.Array](t, img, "with")
	if diff := cmp.Diff(value.Array{value.String("alice"), value.String("bob")}, with); diff != "" {
		t.Errorf("With (-want, +got):\n%s", diff)
	}
}

func TestParseFileErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"a": }`), 0600); err != nil {
		t.Fatalf("Write file: %v", err)
	}

	_, err := value.ParseFile(bad, nil)
	var serr *syntax.SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("ParseFile: got %v, want *SyntaxError", err)
	} else if serr.Offset != 6 {
		t.Errorf("Offset: got %d, want 6", serr.Offset)
	}
	t.Logf("Got expected error: %v", err)

	if _, err := value.ParseFile(filepath.Join(dir, "nonesuch.json"), nil); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("ParseFile(missing): got %v, want %v", err, os.ErrNotExist)
	}
}

func check[T value.Value](t *testing.T, obj *value.Object, key string) T {
	t.Helper()
	v, ok := obj.Find(key)
	if !ok {
		t.Fatalf("Key %q not found", key)
	}
	tv, ok := v.(T)
	if !ok {
		var zero T
		t.Fatalf("Key %q value is %T, not %T", key, v, zero)
	}
	return tv
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  value.Value
	}{
		{"null", value.Null{}},
		{" true ", value.Bool(true)},
		{"false", value.Bool(false)},
		{`"a\tb c"`, value.String("a\tb c")},
		{"0", value.Int(0)},
		{"-15", value.Int(-15)},
		{"9223372036854775807", value.Int(math.MaxInt64)},
		{"-9223372036854775808", value.Int(math.MinInt64)},
		{"9223372036854775808", value.Uint(1 << 63)},
		{"18446744073709551615", value.Uint(math.MaxUint64)},
		{"18446744073709551616", value.Float(18446744073709551616)},
		{"-9223372036854775809", value.Float(-9223372036854775809)},
		{"2.5", value.Float(2.5)},
		{"1e3", value.Float(1000)},
		{"[]", value.Array{}},
		{"[1, [2], {}]", value.Array{value.Int(1), value.Array{value.Int(2)}, value.NewObject()}},
		{`{"b": 1, "a": [null]}`, value.NewObject(
			value.Field("b", value.Int(1)),
			value.Field("a", value.Array{value.Null{}}),
		)},
		{`{"k": 1, "j": 2, "k": 3}`, value.NewObject(
			value.Field("k", value.Int(3)),
			value.Field("j", value.Int(2)),
		)},
		{`{"A": "é"}`, value.NewObject(value.Field("A", value.String("é")))},
	}
	for _, tc := range tests {
		doc, err := value.ParseString(tc.input, nil)
		if err != nil {
			t.Errorf("Parse %#q: unexpected error: %v", tc.input, err)
			continue
		}
		if diff := cmp.Diff(tc.want, doc.Root()); diff != "" {
			t.Errorf("Parse %#q: (-want, +got)\n%s", tc.input, diff)
		}
	}
}

func TestParseOptions(t *testing.T) {
	const input = `/* numbers */ {"n": NaN, "p": Infinity, "m": -Inf, "list": [1, 2,],}`
	if _, err := value.ParseString(input, nil); err == nil {
		t.Fatal("Parse with default options: got nil, want error")
	}

	doc, err := value.ParseString(input, &value.ParseOptions{
		AllowNaNInf:         true,
		AllowComments:       true,
		AllowTrailingCommas: true,
	})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	obj := doc.Root().(*value.Object)
	if n := check[value.Float](t, obj, "n"); !math.IsNaN(float64(n)) {
		t.Errorf("n: got %v, want NaN", n)
	}
	if p := check[value.Float](t, obj, "p"); !math.IsInf(float64(p), 1) {
		t.Errorf("p: got %v, want +Inf", p)
	}
	if m := check[value.Float](t, obj, "m"); !math.IsInf(float64(m), -1) {
		t.Errorf("m: got %v, want -Inf", m)
	}
	if diff := cmp.Diff(value.Array{value.Int(1), value.Int(2)}, check[value.Array](t, obj, "list")); diff != "" {
		t.Errorf("list (-want, +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input  string
		offset int
	}{
		{"", 0},
		{"   ", 3},
		{"{", 1},
		{"[1, 2", 5},
		{`{"a" 1}`, 5},
		{"true false", 5},
		{"[1] x", 5},
		{"1e400", 0},
		{"nul", 3},
	}
	for _, tc := range tests {
		doc, err := value.ParseString(tc.input, nil)
		if err == nil {
			t.Errorf("Parse %#q: got %v, want error", tc.input, doc.Root())
			continue
		}
		var serr *syntax.SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("Parse %#q: got %T, want *SyntaxError", tc.input, err)
			continue
		}
		if serr.Offset != tc.offset {
			t.Errorf("Parse %#q: got offset %d, want %d", tc.input, serr.Offset, tc.offset)
		}
		t.Logf("Parse %#q: got expected error: %v", tc.input, err)
	}
}

func TestMustParse(t *testing.T) {
	if got := value.MustParse(`[true]`); !value.Equal(got, value.Array{value.Bool(true)}) {
		t.Errorf("MustParse: got %v, want [true]", got.JSON())
	}
	mtest.MustPanic(t, func() { value.MustParse(`[true`) })
}
