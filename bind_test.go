// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package jbind_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/creachadair/jbind"
	"github.com/creachadair/jbind/value"
	"github.com/google/go-cmp/cmp"
)

type Point struct {
	X int `jbind:"x"`
	Y int `jbind:"y,omitempty"`
}

type Base struct {
	ID uint64 `jbind:"id"`
}

type Shape struct {
	Name    string            `jbind:"name,mandatory"`
	Points  []Point           `jbind:"points"`
	Tags    map[string]string `jbind:"tags,omitempty"`
	Weights map[int]float64   `jbind:"weights,omitempty"`
	Color   *string           `jbind:"color,emptynull"`
	When    time.Time         `jbind:"when,omitempty"`
	Extra   value.Value       `jbind:"extra,omitempty"`
	Skip    string            `jbind:"-"`
	hidden  int
	Base
}

// Pair encodes itself as a two-element array.
type Pair struct {
	A string
	B int
}

func (p Pair) EncodeFields(e *jbind.Encoder) error {
	e.ArrayBegin(jbind.Self)
	e.EncodeString(jbind.Self, p.A, jbind.Policy{})
	jbind.EncodeInt(e, jbind.Self, p.B, jbind.Policy{})
	return e.ArrayEnd()
}

func (p *Pair) DecodeFields(d *jbind.Decoder) error {
	if d.Size() != 2 {
		return fmt.Errorf("pair has %d elements, want 2", d.Size())
	}
	a, err := d.Element(0)
	if err != nil {
		return err
	}
	b, err := d.Element(1)
	if err != nil {
		return err
	}
	if _, err := a.DecodeString(jbind.Self, &p.A, jbind.Policy{Mandatory: true}); err != nil {
		return err
	}
	_, err = jbind.DecodeInt(b, jbind.Self, &p.B, jbind.Policy{Mandatory: true})
	return err
}

func TestMarshal(t *testing.T) {
	when := time.Date(2023, 4, 15, 12, 0, 0, 0, time.UTC)
	red := "red"
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, `null`},
		{"int", 25, `25`},
		{"string", "a\tb", `"a\tb"`},
		{"float32", float32(0.25), `0.25`},
		{"slice", []any{1, "two", nil, true}, `[1,"two",null,true]`},
		{"nil slice", []int(nil), `null`},
		{"array", [3]uint8{1, 2, 3}, `[1,2,3]`},
		{"byte array field", struct {
			ID [4]byte `jbind:"id,omitempty"`
		}{ID: [4]byte{1, 2, 3, 4}}, `{"id":[1,2,3,4]}`},
		{"zero byte array field", struct {
			ID [4]byte `jbind:"id,omitempty"`
		}{}, `{}`},
		{"byte array map value", map[string][2]byte{"a": {0, 9}}, `{"a":[0,9]}`},
		{"string map", map[string]int{"b": 2, "a": 1}, `{"a":1,"b":2}`},
		{"int map", map[int]string{10: "x", 2: "y", -1: "z"}, `{"-1":"z","2":"y","10":"x"}`},
		{"empty key", map[string]int{"": 0}, `{"":0}`},
		{"pointer", &Point{X: 1, Y: 2}, `{"x":1,"y":2}`},
		{"omitempty", Point{X: 0}, `{"x":0}`},
		{"time", when, `"2023-04-15T12:00:00Z"`},
		{"value", value.MustParse(`{"q": [1.5]}`), `{"q":[1.5]}`},
		{"field encoder", struct {
			P Pair  `jbind:"p"`
			Q *Pair `jbind:"q"`
		}{P: Pair{A: "x", B: 3}}, `{"p":["x",3],"q":null}`},
		{"shape", Shape{
			Name:    "tri",
			Points:  []Point{{1, 2}, {3, 0}},
			Weights: map[int]float64{10: 0.5, 2: 1},
			Skip:    "skipped",
			hidden:  5,
			Base:    Base{ID: 7},
		}, `{"name":"tri","points":[{"x":1,"y":2},{"x":3}],"weights":{"2":1.0,"10":0.5},"color":null,"id":7}`},
		{"full shape", Shape{
			Name:  "sq",
			Tags:  map[string]string{"k": "v"},
			Color: &red,
			When:  when,
			Extra: value.Bool(true),
		}, `{"name":"sq","points":null,"tags":{"k":"v"},"color":"red","when":"2023-04-15T12:00:00Z","extra":true,"id":0}`},
	}
	for _, tc := range tests {
		got, err := jbind.Marshal(tc.input, nil)
		if err != nil {
			t.Errorf("Marshal %s: unexpected error: %v", tc.name, err)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("Marshal %s:\ngot  %s\nwant %s", tc.name, got, tc.want)
		}
	}
}

func TestMarshalErrors(t *testing.T) {
	errBad := errors.New("bad encoder")
	tests := []struct {
		name  string
		input any
		want  error
	}{
		{"chan", make(chan int), jbind.ErrUnsupported},
		{"func field", struct{ F func() }{F: func() {}}, jbind.ErrUnsupported},
		{"bool map key", map[bool]int{true: 1}, jbind.ErrUnsupported},
		{"encoder error", badEncoder{errBad}, errBad},
	}
	for _, tc := range tests {
		got, err := jbind.Marshal(tc.input, nil)
		if !errors.Is(err, tc.want) {
			t.Errorf("Marshal %s: got (%q, %v), want error %v", tc.name, got, err, tc.want)
		} else {
			t.Logf("Marshal %s: got expected error: %v", tc.name, err)
		}
	}

	// An error inside a larger encoding stops the encoder.
	e := jbind.NewEncoder(nil)
	e.ArrayBegin(jbind.Self)
	if _, err := e.Encode(jbind.Self, make(chan int), jbind.Policy{}); !errors.Is(err, jbind.ErrUnsupported) {
		t.Errorf("Encode(chan): got %v, want %v", err, jbind.ErrUnsupported)
	}
	if _, err := e.Encode(jbind.Self, 1, jbind.Policy{}); !errors.Is(err, jbind.ErrUnsupported) {
		t.Errorf("Encode after error: got %v, want %v", err, jbind.ErrUnsupported)
	}
}

type badEncoder struct{ err error }

func (b badEncoder) EncodeFields(*jbind.Encoder) error { return b.err }

func TestUnmarshal(t *testing.T) {
	t.Run("Shape", func(t *testing.T) {
		var got Shape
		got.Skip = "keep"
		err := jbind.Unmarshal([]byte(`{
  "name": "tri", "points": [{"x": 1, "y": 2}, {"x": 3}],
  "weights": {"2": 1.0, "10": 0.5}, "color": null,
  "when": "2023-04-15T12:00:00Z", "extra": [null], "id": 7,
  "Skip": "ignored", "hidden": 3, "unknown": {}
}`), &got, nil)
		if err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		want := Shape{
			Name:    "tri",
			Points:  []Point{{1, 2}, {3, 0}},
			Weights: map[int]float64{2: 1, 10: 0.5},
			When:    time.Date(2023, 4, 15, 12, 0, 0, 0, time.UTC),
			Extra:   value.Array{value.Null{}},
			Skip:    "keep",
			Base:    Base{ID: 7},
		}
		if diff := cmp.Diff(want, got, cmp.AllowUnexported(Shape{})); diff != "" {
			t.Errorf("Unmarshal (-want, +got):\n%s", diff)
		}
	})

	t.Run("Any", func(t *testing.T) {
		var got any
		if err := jbind.Unmarshal([]byte(`{"a": [1, "x", null], "b": 2.5}`), &got, nil); err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		want := map[string]any{"a": []any{int64(1), "x", nil}, "b": 2.5}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("Unmarshal (-want, +got):\n%s", diff)
		}
	})

	t.Run("Value", func(t *testing.T) {
		var got value.Value
		const input = `{"a": [1, {"b": null}]}`
		if err := jbind.Unmarshal([]byte(input), &got, nil); err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		if diff := cmp.Diff(value.MustParse(input), got); diff != "" {
			t.Errorf("Unmarshal (-want, +got):\n%s", diff)
		}

		// A null decodes to a nil Value.
		got = value.Bool(true)
		if err := jbind.Unmarshal([]byte(`null`), &got, nil); err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("Unmarshal(null): got %v, want nil", got)
		}
	})

	t.Run("Containers", func(t *testing.T) {
		var arr [3]int
		arr[2] = 9
		if err := jbind.Unmarshal([]byte(`[1, 2]`), &arr, nil); err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		if diff := cmp.Diff([3]int{1, 2, 0}, arr); diff != "" {
			t.Errorf("Array (-want, +got):\n%s", diff)
		}

		var ptrs []*int
		if err := jbind.Unmarshal([]byte(`[1, null, 3]`), &ptrs, nil); err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		if len(ptrs) != 3 || *ptrs[0] != 1 || ptrs[1] != nil || *ptrs[2] != 3 {
			t.Errorf("Pointers: got %v, want [1 nil 3]", ptrs)
		}

		m := map[uint8]string{1: "old", 5: "five"}
		if err := jbind.Unmarshal([]byte(`{"1": "a", "2": "b"}`), &m, nil); err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		if diff := cmp.Diff(map[uint8]string{1: "a", 2: "b", 5: "five"}, m); diff != "" {
			t.Errorf("Map (-want, +got):\n%s", diff)
		}

		var pair struct {
			P Pair  `jbind:"p"`
			Q *Pair `jbind:"q"`
		}
		if err := jbind.Unmarshal([]byte(`{"p": ["x", 3], "q": ["y", 4]}`), &pair, nil); err != nil {
			t.Fatalf("Unmarshal: unexpected error: %v", err)
		}
		if pair.P != (Pair{"x", 3}) || pair.Q == nil || *pair.Q != (Pair{"y", 4}) {
			t.Errorf("Pair: got %+v, %+v", pair.P, pair.Q)
		}
	})
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		target any
		want   error
		path   string
	}{
		{"mandatory", `{"points": []}`, new(Shape), jbind.ErrMandatoryMissing, "$.name"},
		{"field type", `{"name": 5}`, new(Shape), jbind.ErrTypeMismatch, "$.name"},
		{"nested", `{"name": "a", "points": [{"x": 1}, {"x": "2"}]}`, new(Shape), jbind.ErrTypeMismatch, "$.points[1].x"},
		{"map key", `{"x": 1}`, new(map[int]int), jbind.ErrTypeMismatch, "$.x"},
		{"map key range", `{"300": 1}`, new(map[int8]int), jbind.ErrTypeMismatch, "$.300"},
		{"array size", `[1, 2, 3]`, new([2]int), jbind.ErrOutOfRange, "$"},
		{"not an object", `[1]`, new(Point), jbind.ErrTypeMismatch, "$"},
		{"not an array", `{}`, new([]int), jbind.ErrTypeMismatch, "$"},
		{"time text", `{"name": "a", "when": "yesterday"}`, new(Shape), jbind.ErrTypeMismatch, "$.when"},
		{"interface", `1`, new(error), jbind.ErrUnsupported, "$"},
		{"not a pointer", `1`, 0, jbind.ErrUnsupported, "$"},
		{"field decoder", `{"p": ["x"]}`, new(struct {
			P Pair `jbind:"p"`
		}), nil, ""},
	}
	for _, tc := range tests {
		err := jbind.Unmarshal([]byte(tc.input), tc.target, nil)
		if err == nil {
			t.Errorf("Unmarshal %s: got nil, want error", tc.name)
			continue
		}
		t.Logf("Unmarshal %s: got expected error: %v", tc.name, err)
		if tc.want == nil {
			continue
		}
		if !errors.Is(err, tc.want) {
			t.Errorf("Unmarshal %s: got %v, want %v", tc.name, err, tc.want)
		}
		var jerr *jbind.Error
		if errors.As(err, &jerr) && jerr.Path != tc.path {
			t.Errorf("Unmarshal %s: got path %q, want %q", tc.name, jerr.Path, tc.path)
		}
	}

	if err := jbind.Unmarshal([]byte(`{`), new(any), nil); err == nil {
		t.Error("Unmarshal({): got nil, want error")
	}
}

func TestRoundTrip(t *testing.T) {
	red := "red"
	inputs := []any{
		Shape{Name: "a"},
		Shape{
			Name:    "tri",
			Points:  []Point{{1, 2}, {3, 0}, {-4, 5}},
			Tags:    map[string]string{"z": "1", "a": "2"},
			Weights: map[int]float64{-3: 0.125, 99: 1e10},
			Color:   &red,
			When:    time.Date(2021, 7, 1, 8, 30, 0, 0, time.UTC),
			Extra:   value.MustParse(`{"deep": [true, null]}`),
			Base:    Base{ID: 1 << 63},
		},
		map[int]string{1: "a", 2: "b"},
		[]Pair{{"p", 1}, {"q", 2}},
	}
	for _, input := range inputs {
		data, err := jbind.Marshal(input, &jbind.EncodeOptions{Indent: 2})
		if err != nil {
			t.Fatalf("Marshal %v: %v", input, err)
		}
		out := newOf(input)
		if err := jbind.Unmarshal(data, out, nil); err != nil {
			t.Fatalf("Unmarshal %s: %v", data, err)
		}
		if diff := cmp.Diff(input, deref(out), cmp.AllowUnexported(Shape{})); diff != "" {
			t.Errorf("Round trip %s: (-want, +got)\n%s", data, diff)
		}
	}
}

func newOf(v any) any {
	switch v.(type) {
	case Shape:
		return new(Shape)
	case map[int]string:
		return new(map[int]string)
	case []Pair:
		return new([]Pair)
	}
	panic(fmt.Sprintf("unexpected type %T", v))
}

func deref(v any) any {
	switch t := v.(type) {
	case *Shape:
		return *t
	case *map[int]string:
		return *t
	case *[]Pair:
		return *t
	}
	panic(fmt.Sprintf("unexpected type %T", v))
}

func TestValueConversion(t *testing.T) {
	v, err := jbind.ToValue(Point{X: 3, Y: 4})
	if err != nil {
		t.Fatalf("ToValue: unexpected error: %v", err)
	}
	if diff := cmp.Diff(value.MustParse(`{"x": 3, "y": 4}`), v); diff != "" {
		t.Errorf("ToValue (-want, +got):\n%s", diff)
	}
	var p Point
	if err := jbind.FromValue(v, &p); err != nil {
		t.Fatalf("FromValue: unexpected error: %v", err)
	}
	if p != (Point{3, 4}) {
		t.Errorf("FromValue: got %+v, want {3 4}", p)
	}
}
