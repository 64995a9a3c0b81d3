// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jbind_test

import (
	"errors"
	"math"
	"testing"

	"github.com/creachadair/jbind"
	"github.com/creachadair/jbind/value"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func mustDecoder(t *testing.T, input string) *jbind.Decoder {
	t.Helper()
	d, err := jbind.NewDecoder([]byte(input), nil)
	if err != nil {
		t.Fatalf("NewDecoder %#q: %v", input, err)
	}
	return d
}

const scalars = `{
  "b": true, "i": 300, "n": -5, "u": 18446744073709551615,
  "f": 2.5, "s": "hi", "z": null, "big": 1e39
}`

// decodeCase runs one decode call against a target with a fixed initial
// value, and reports the result and the final value of the target.
type decodeCase struct {
	name    string
	run     func(d *jbind.Decoder) (bool, any, error)
	wantOK  bool
	want    any
	wantErr error
}

func decodeBool(key string, init bool, p jbind.Policy) func(*jbind.Decoder) (bool, any, error) {
	return func(d *jbind.Decoder) (bool, any, error) {
		v := init
		ok, err := d.DecodeBool(jbind.Name(key), &v, p)
		return ok, v, err
	}
}

func decodeString(key string, init string, p jbind.Policy) func(*jbind.Decoder) (bool, any, error) {
	return func(d *jbind.Decoder) (bool, any, error) {
		v := init
		ok, err := d.DecodeString(jbind.Name(key), &v, p)
		return ok, v, err
	}
}

func decodeInt[T jbind.Integer](key string, init T, p jbind.Policy) func(*jbind.Decoder) (bool, any, error) {
	return func(d *jbind.Decoder) (bool, any, error) {
		v := init
		ok, err := jbind.DecodeInt(d, jbind.Name(key), &v, p)
		return ok, v, err
	}
}

func decodeFloat[T jbind.Float](key string, init T, p jbind.Policy) func(*jbind.Decoder) (bool, any, error) {
	return func(d *jbind.Decoder) (bool, any, error) {
		v := init
		ok, err := jbind.DecodeFloat(d, jbind.Name(key), &v, p)
		return ok, v, err
	}
}

func runDecodeCases(t *testing.T, d *jbind.Decoder, tests []decodeCase) {
	t.Helper()
	for _, tc := range tests {
		ok, got, err := tc.run(d)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("%s: got (%v, %v), want error %v", tc.name, ok, err, tc.wantErr)
			} else {
				t.Logf("%s: got expected error: %v", tc.name, err)
			}
			continue
		} else if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if ok != tc.wantOK {
			t.Errorf("%s: got ok=%v, want %v", tc.name, ok, tc.wantOK)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s: (-want, +got)\n%s", tc.name, diff)
		}
	}
}

func TestDecodeScalars(t *testing.T) {
	none := jbind.Policy{}
	d := mustDecoder(t, scalars)
	runDecodeCases(t, d, []decodeCase{
		{name: "bool", run: decodeBool("b", false, none), wantOK: true, want: true},
		{name: "bool from int", run: decodeBool("i", false, none), wantOK: true, want: true},
		{name: "bool from string", run: decodeBool("s", false, none), wantErr: jbind.ErrTypeMismatch},

		{name: "string", run: decodeString("s", "", none), wantOK: true, want: "hi"},
		{name: "string from int", run: decodeString("i", "", none), wantErr: jbind.ErrTypeMismatch},

		{name: "int16", run: decodeInt[int16]("i", 0, none), wantOK: true, want: int16(300)},
		{name: "int8 overflow", run: decodeInt[int8]("i", 0, none), wantErr: jbind.ErrTypeMismatch},
		{name: "int negative", run: decodeInt[int]("n", 0, none), wantOK: true, want: -5},
		{name: "uint negative", run: decodeInt[uint]("n", 0, none), wantErr: jbind.ErrTypeMismatch},
		{name: "uint64 max", run: decodeInt[uint64]("u", 0, none), wantOK: true, want: uint64(math.MaxUint64)},
		{name: "int64 from uint", run: decodeInt[int64]("u", 0, none), wantErr: jbind.ErrTypeMismatch},
		{name: "int from float", run: decodeInt[int]("f", 0, none), wantErr: jbind.ErrTypeMismatch},

		{name: "float64 from int", run: decodeFloat[float64]("i", 0, none), wantOK: true, want: 300.0},
		{name: "float32", run: decodeFloat[float32]("f", 0, none), wantOK: true, want: float32(2.5)},
		{name: "float64 from uint", run: decodeFloat[float64]("u", 0, none), wantOK: true, want: float64(math.MaxUint64)},
		{name: "float64 big", run: decodeFloat[float64]("big", 0, none), wantOK: true, want: 1e39},
		{name: "float32 big", run: decodeFloat[float32]("big", 0, none), wantErr: jbind.ErrTypeMismatch},
		{name: "float from string", run: decodeFloat[float64]("s", 0, none), wantErr: jbind.ErrTypeMismatch},
	})
}

func TestDecodePolicy(t *testing.T) {
	d := mustDecoder(t, scalars)
	runDecodeCases(t, d, []decodeCase{
		// Missing keys leave the target alone, unless mandatory.
		{name: "missing", run: decodeString("q", "keep", jbind.Policy{}), wantOK: false, want: "keep"},
		{name: "missing int", run: decodeInt("q", 17, jbind.Policy{IgnoreNull: true}), wantOK: false, want: 17},
		{name: "missing mandatory", run: decodeString("q", "keep", jbind.Policy{Mandatory: true}),
			wantErr: jbind.ErrMandatoryMissing},

		// Null writes the zero value, unless ignored.
		{name: "null", run: decodeString("z", "keep", jbind.Policy{}), wantOK: true, want: ""},
		{name: "null int", run: decodeInt("z", 17, jbind.Policy{Mandatory: true}), wantOK: true, want: 0},
		{name: "null ignored", run: decodeString("z", "keep", jbind.Policy{IgnoreNull: true}), wantOK: false, want: "keep"},
		{name: "null float ignored", run: decodeFloat("z", 1.5, jbind.Policy{IgnoreNull: true}), wantOK: false, want: 1.5},

		// Encoding flags do not affect decoding.
		{name: "omitempty", run: decodeBool("b", false, jbind.Policy{OmitEmpty: true, EmptyAsNull: true}),
			wantOK: true, want: true},
	})
}

func TestDecodeSelf(t *testing.T) {
	var s string
	if ok, err := jbind.DecoderFor(value.String("self")).DecodeString(jbind.Self, &s, jbind.Policy{}); err != nil || !ok {
		t.Errorf("DecodeString(Self): got (%v, %v), want (true, nil)", ok, err)
	} else if s != "self" {
		t.Errorf("DecodeString(Self): got %q, want %q", s, "self")
	}

	// An absent node is missing, with or without a key.
	absent := jbind.DecoderFor(nil)
	if ok, err := absent.DecodeString(jbind.Self, &s, jbind.Policy{}); err != nil || ok {
		t.Errorf("DecodeString(absent): got (%v, %v), want (false, nil)", ok, err)
	}
	if _, err := absent.DecodeString(jbind.Self, &s, jbind.Policy{Mandatory: true}); !errors.Is(err, jbind.ErrMandatoryMissing) {
		t.Errorf("DecodeString(absent, mandatory): got %v, want %v", err, jbind.ErrMandatoryMissing)
	}
	if ok, err := absent.DecodeString(jbind.Name("x"), &s, jbind.Policy{}); err != nil || ok {
		t.Errorf("DecodeString(absent.x): got (%v, %v), want (false, nil)", ok, err)
	}

	// A named key on a present non-object is an error.
	if _, err := jbind.DecoderFor(value.Int(1)).DecodeString(jbind.Name("x"), &s, jbind.Policy{}); !errors.Is(err, jbind.ErrNotAnObject) {
		t.Errorf("DecodeString(1.x): got %v, want %v", err, jbind.ErrNotAnObject)
	} else {
		t.Logf("Got expected error: %v", err)
	}
}

func TestErrorText(t *testing.T) {
	d := mustDecoder(t, `{"list": [{"v": 300}]}`)
	list, err := d.Child("list")
	if err != nil {
		t.Fatalf("Child: unexpected error: %v", err)
	}
	elt, err := list.Element(0)
	if err != nil {
		t.Fatalf("Element: unexpected error: %v", err)
	}
	var v int8
	_, err = jbind.DecodeInt(elt, jbind.Name("v"), &v, jbind.Policy{})
	var jerr *jbind.Error
	if !errors.As(err, &jerr) {
		t.Fatalf("DecodeInt: got %v, want *Error", err)
	}
	want := jbind.Error{
		Path:   "$.list[0].v",
		Key:    "v",
		Err:    jbind.ErrTypeMismatch,
		Detail: "cannot decode integer 300 into int8",
	}
	if diff := cmp.Diff(want, *jerr, cmpopts.EquateErrors()); diff != "" {
		t.Errorf("Error (-want, +got):\n%s", diff)
	}
	if got, want := err.Error(), "$.list[0].v: type mismatch: cannot decode integer 300 into int8"; got != want {
		t.Errorf("Error text:\ngot  %s\nwant %s", got, want)
	}

	_, err = jbind.DecodeInt(elt, jbind.Name("w"), &v, jbind.Policy{Mandatory: true})
	if got, want := err.Error(), "$.list[0].w: mandatory key not found"; got != want {
		t.Errorf("Error text:\ngot  %s\nwant %s", got, want)
	}
}

func TestNavigation(t *testing.T) {
	d := mustDecoder(t, `{"arr": ["a", "b", "c"], "obj": {"z": 1, "y": null, "x": [2]}, "s": "str"}`)

	arr, err := d.Child("arr")
	if err != nil {
		t.Fatalf("Child(arr): %v", err)
	}
	if n := arr.Size(); n != 3 {
		t.Errorf("Size: got %d, want 3", n)
	}
	if elt, err := arr.Element(2); err != nil {
		t.Errorf("Element(2): unexpected error: %v", err)
	} else if got := elt.Node(); got != value.String("c") {
		t.Errorf("Element(2): got %v, want c", got)
	} else if p := elt.Path(); p != "$.arr[2]" {
		t.Errorf("Element(2) path: got %q, want %q", p, "$.arr[2]")
	}
	for _, i := range []int{3, 5, -1} {
		if _, err := arr.Element(i); !errors.Is(err, jbind.ErrOutOfRange) {
			t.Errorf("Element(%d): got %v, want %v", i, err, jbind.ErrOutOfRange)
		}
	}

	// Element checks the node type before the index.
	s, _ := d.Child("s")
	if n := s.Size(); n != 0 {
		t.Errorf("Size(string): got %d, want 0", n)
	}
	if _, err := s.Element(5); !errors.Is(err, jbind.ErrNotAnArray) {
		t.Errorf("Element(string): got %v, want %v", err, jbind.ErrNotAnArray)
	}
	if _, err := s.Child("x"); !errors.Is(err, jbind.ErrNotAnObject) {
		t.Errorf("Child(string): got %v, want %v", err, jbind.ErrNotAnObject)
	}
	if _, err := s.Iter(); !errors.Is(err, jbind.ErrNotAnObject) {
		t.Errorf("Iter(string): got %v, want %v", err, jbind.ErrNotAnObject)
	}

	// Members are visited in document order.
	obj, _ := d.Child("obj")
	it, err := obj.Iter()
	if err != nil {
		t.Fatalf("Iter: unexpected error: %v", err)
	}
	var keys, paths []string
	var nulls int
	for it.Next() {
		keys = append(keys, it.Key())
		paths = append(paths, it.Value().Path())
		if it.Value().IsNull() {
			nulls++
		}
	}
	if diff := cmp.Diff([]string{"z", "y", "x"}, keys); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"$.obj.z", "$.obj.y", "$.obj.x"}, paths); diff != "" {
		t.Errorf("Paths (-want, +got):\n%s", diff)
	}
	if nulls != 1 {
		t.Errorf("Got %d null members, want 1", nulls)
	}
	if it.Next() {
		t.Error("Next after end: got true, want false")
	}

	// Navigating from an absent node yields absent nodes.
	gone, err := d.Child("nonesuch")
	if err != nil {
		t.Fatalf("Child(nonesuch): unexpected error: %v", err)
	}
	if gone.Exists() || gone.IsNull() {
		t.Errorf("Child(nonesuch): Exists=%v IsNull=%v, want false, false", gone.Exists(), gone.IsNull())
	}
	deeper, err := gone.Child("deeper")
	if err != nil || deeper.Exists() {
		t.Errorf("Child(nonesuch.deeper): got (%v, %v), want absent", deeper, err)
	} else if p := deeper.Path(); p != "$.nonesuch.deeper" {
		t.Errorf("Path: got %q, want %q", p, "$.nonesuch.deeper")
	}
	if it, err := gone.Iter(); err != nil {
		t.Errorf("Iter(absent): unexpected error: %v", err)
	} else if it.Next() {
		t.Error("Iter(absent): got a member, want none")
	}
	if _, err := gone.Element(0); !errors.Is(err, jbind.ErrNotAnArray) {
		t.Errorf("Element(absent): got %v, want %v", err, jbind.ErrNotAnArray)
	}
}

func TestDecoderDocument(t *testing.T) {
	d, err := jbind.NewDecoderFile("testdata/events.json", nil)
	if err != nil {
		t.Fatalf("NewDecoderFile: %v", err)
	}
	events, err := d.Child("event")
	if err != nil {
		t.Fatalf("Child(event): %v", err)
	}
	elt, err := events.Element(1)
	if err != nil {
		t.Fatalf("Element(1): %v", err)
	}
	if doc := elt.Document(); doc == nil || doc.Name() != "testdata/events.json" {
		t.Errorf("Document: got %v, want testdata/events.json", doc)
	}
	if doc := jbind.DecoderFor(value.Null{}).Document(); doc != nil {
		t.Errorf("Document(borrowed): got %v, want nil", doc)
	}

	if _, err := jbind.NewDecoder([]byte("{"), nil); err == nil {
		t.Error("NewDecoder({): got nil, want error")
	} else {
		var perr *jbind.ParseError
		if !errors.As(err, &perr) {
			t.Errorf("NewDecoder({): got %T, want *ParseError", err)
		} else if perr.Offset != 1 {
			t.Errorf("Offset: got %d, want 1", perr.Offset)
		}
	}
}
