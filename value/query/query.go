// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package query implements structural queries over value trees.
//
// A query describes a substructure of a value, such as an object member, an
// array element, or a path through the tree. Evaluating a query against a
// concrete value traverses the structure described by the query and returns
// the resulting value.
//
// The simplest query is a path, a sequence of object keys and array indices
// leading from the root. Given the value
//
//	{"event": [{"description": "Spring picnic", "image": [...]}]}
//
// the query
//
//	query.Path("event", 0, "description")
//
// yields the string "Spring picnic".
package query

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/creachadair/jbind/value"
	"github.com/creachadair/jbind/value/cursor"
)

// Eval evaluates q beginning from root, and returns the resulting value.
func Eval(root value.Value, q Query) (value.Value, error) { return q.eval(root) }

// A Query describes a traversal of a value.
type Query interface {
	eval(value.Value) (value.Value, error)
}

// Path traverses a sequence of object keys or array indices from the root.
// With no keys, it selects the root. Each key must be a string, an int, or a
// Query. A negative index counts from the end of the array.
func Path(keys ...any) Query {
	if len(keys) == 1 {
		return pathStep(keys[0])
	}
	seq := make(Seq, 0, len(keys))
	for _, key := range keys {
		q := pathStep(key)
		if sub, ok := q.(Seq); ok {
			seq = append(seq, sub...)
		} else {
			seq = append(seq, q)
		}
	}
	return seq
}

// Parse parses a path expression as accepted by cursor.ParsePath, and
// returns the equivalent Path query.
func Parse(expr string) (Query, error) {
	steps, err := cursor.ParsePath(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", expr, err)
	}
	return Path(steps...), nil
}

func pathStep(key any) Query {
	switch t := key.(type) {
	case string:
		return Key(t)
	case int:
		return Index(t)
	case Query:
		return t
	default:
		panic(fmt.Sprintf("invalid path element %T", key))
	}
}

// Key selects the member of an object with the given key.
func Key(key string) Query { return keyQuery(key) }

type keyQuery string

func (q keyQuery) eval(v value.Value) (value.Value, error) {
	obj, ok := v.(*value.Object)
	if !ok {
		return nil, fmt.Errorf("got %v, want object", value.KindOf(v))
	}
	mv, ok := obj.Find(string(q))
	if !ok {
		return nil, fmt.Errorf("key %q not found", string(q))
	}
	return mv, nil
}

// Index selects the element of an array at offset i. A negative offset
// counts from the end of the array.
func Index(i int) Query { return indexQuery(i) }

type indexQuery int

func (q indexQuery) eval(v value.Value) (value.Value, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	i, err := offset(int(q), len(arr))
	if err != nil {
		return nil, err
	}
	return arr[i], nil
}

// Selection constructs an array of the elements of its input array for
// which the function returns true.
type Selection func(value.Value) bool

func (q Selection) eval(v value.Value) (value.Value, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	out := value.Array{}
	for _, elt := range arr {
		if q(elt) {
			out = append(out, elt)
		}
	}
	return out, nil
}

// Mapping constructs an array in which each element of its input array is
// replaced by the result of calling the function on it.
type Mapping func(value.Value) value.Value

func (q Mapping) eval(v value.Value) (value.Value, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	out := make(value.Array, len(arr))
	for i, elt := range arr {
		out[i] = q(elt)
	}
	return out, nil
}

// Slice selects the elements of an array from offset lo up to but not
// including hi. Negative offsets count from the end of the array, and hi == 0
// denotes the end of the array.
func Slice(lo, hi int) Query { return sliceQuery{lo, hi} }

type sliceQuery struct{ lo, hi int }

func (q sliceQuery) eval(v value.Value) (value.Value, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	lo, hi := q.lo, q.hi
	if lo < 0 {
		lo += len(arr)
	}
	if hi <= 0 {
		hi += len(arr)
	}
	switch {
	case lo < 0 || lo > len(arr):
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.lo, len(arr))
	case hi < 0 || hi > len(arr):
		return nil, fmt.Errorf("index %d out of range (0..%d)", q.hi, len(arr))
	case lo > hi:
		return nil, fmt.Errorf("index start %d > end %d", q.lo, q.hi)
	}
	return arr[lo:hi], nil
}

// Pick constructs an array from the elements of an array at the given
// offsets. Negative offsets count from the end of the array.
func Pick(offsets ...int) Query { return pickQuery(offsets) }

type pickQuery []int

func (q pickQuery) eval(v value.Value) (value.Value, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	out := make(value.Array, len(q))
	for i, off := range q {
		j, err := offset(off, len(arr))
		if err != nil {
			return nil, err
		}
		out[i] = arr[j]
	}
	return out, nil
}

// Len yields the length of its input as an integer: the number of members
// of an object, the number of elements of an array, the number of bytes of a
// string, or zero for null.
func Len() Query { return lenQuery{} }

type lenQuery struct{}

func (lenQuery) eval(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case *value.Object:
		return value.Int(t.Len()), nil
	case value.Array:
		return value.Int(len(t)), nil
	case value.String:
		return value.Int(len(t)), nil
	case value.Null:
		return value.Int(0), nil
	}
	return nil, fmt.Errorf("cannot take length of %v", value.KindOf(v))
}

// Seq is a sequential composition of queries. An empty sequence selects its
// input; otherwise each query is applied to the result of the one before.
type Seq []Query

func (q Seq) eval(v value.Value) (value.Value, error) {
	cur := v
	for _, sub := range q {
		next, err := sub.eval(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

// Alt selects the result of the first of its alternatives that succeeds. An
// empty Alt fails on all inputs.
type Alt []Query

func (q Alt) eval(v value.Value) (value.Value, error) {
	for _, alt := range q {
		if w, err := alt.eval(v); err == nil {
			return w, nil
		}
	}
	return nil, errors.New("no matching alternatives")
}

// Recur applies a path query to its input and each of its descendants, in
// document order, and returns an array of the results that succeed. It fails
// if there are none. The arguments have the same constraints as Path.
func Recur(keys ...any) Query { return recurQuery{Path(keys...)} }

type recurQuery struct{ q Query }

func (q recurQuery) eval(v value.Value) (value.Value, error) {
	var out value.Array
	stk := []value.Value{v}
	for len(stk) != 0 {
		next := stk[len(stk)-1]
		stk = stk[:len(stk)-1]
		if r, err := q.q.eval(next); err == nil {
			out = append(out, r)
		}

		// Push children in reverse, so they are visited in order.
		switch t := next.(type) {
		case *value.Object:
			for i := t.Len() - 1; i >= 0; i-- {
				stk = append(stk, t.Member(i).Value)
			}
		case value.Array:
			for i := len(t) - 1; i >= 0; i-- {
				stk = append(stk, t[i])
			}
		}
	}
	if len(out) == 0 {
		return nil, errors.New("no matches")
	}
	return out, nil
}

// Each applies a path query to each element of an array, and returns an
// array of the results. It fails if the input is not an array, or if the
// query fails for any element. The arguments have the same constraints as
// Path.
func Each(keys ...any) Query { return eachQuery{Path(keys...)} }

type eachQuery struct{ q Query }

func (q eachQuery) eval(v value.Value) (value.Value, error) {
	arr, err := asArray(v)
	if err != nil {
		return nil, err
	}
	out := make(value.Array, len(arr))
	for i, elt := range arr {
		r, err := q.q.eval(elt)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

// Object constructs an object whose members are the results of its queries
// applied to the input, in order by key.
type Object map[string]Query

func (o Object) eval(v value.Value) (value.Value, error) {
	out := value.NewObject()
	for _, key := range slices.Sorted(maps.Keys(o)) {
		r, err := o[key].eval(v)
		if err != nil {
			return nil, fmt.Errorf("member %q: %w", key, err)
		}
		out.Set(key, r)
	}
	return out, nil
}

// Array constructs an array whose elements are the results of its queries
// applied to the input.
type Array []Query

func (a Array) eval(v value.Value) (value.Value, error) {
	out := make(value.Array, len(a))
	for i, q := range a {
		r, err := q.eval(v)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", i, err)
		}
		out[i] = r
	}
	return out, nil
}

// Const is a query that ignores its input and returns v.
func Const(v value.Value) Query { return constQuery{v} }

type constQuery struct{ v value.Value }

func (c constQuery) eval(value.Value) (value.Value, error) { return c.v, nil }

// Glob returns an array of the values of the members of an object, or the
// elements of an array.
func Glob() Query { return globQuery{} }

type globQuery struct{}

func (globQuery) eval(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case *value.Object:
		out := make(value.Array, 0, t.Len())
		for _, mv := range t.All() {
			out = append(out, mv)
		}
		return out, nil
	case value.Array:
		return t, nil
	}
	return nil, fmt.Errorf("cannot glob %v", value.KindOf(v))
}

func asArray(v value.Value) (value.Array, error) {
	arr, ok := v.(value.Array)
	if !ok {
		return nil, fmt.Errorf("got %v, want array", value.KindOf(v))
	}
	return arr, nil
}

// offset resolves a possibly-negative offset into an array of length n.
func offset(i, n int) (int, error) {
	j := i
	if j < 0 {
		j += n
	}
	if j < 0 || j >= n {
		return 0, fmt.Errorf("index %d out of range (0..%d)", i, n)
	}
	return j, nil
}
